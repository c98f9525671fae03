package descriptor

import (
	"cmp"
	"fmt"
	"slices"
)

// ProblemKind classifies an invariant violation found by Check.
type ProblemKind uint8

const (
	ProblemOutOfBounds ProblemKind = iota
	ProblemOverlap
	ProblemMisaligned
)

// String returns the human-readable name of the problem kind.
func (k ProblemKind) String() string {
	switch k {
	case ProblemOutOfBounds:
		return "out of bounds"
	case ProblemOverlap:
		return "overlap"
	case ProblemMisaligned:
		return "misaligned"
	default:
		return "unknown"
	}
}

// Problem is one invariant violation.
type Problem struct {
	Kind   ProblemKind
	Path   string
	Detail string
}

// String formats the problem for display.
func (p Problem) String() string {
	return fmt.Sprintf("%s: %s: %s", p.Path, p.Kind, p.Detail)
}

// Check reports file table entries that violate the layout invariants for a
// blob of blobSize bytes: ranges must lie inside the blob, must not overlap,
// and must start on a multiple of alignment. An alignment of 0 skips the
// alignment check.
//
// Problems are returned sorted by offset.
func (d *Descriptor) Check(blobSize, alignment uint64) []Problem {
	sorted := slices.Clone(d.entries)
	slices.SortFunc(sorted, func(a, b Entry) int {
		if c := cmp.Compare(a.Offset, b.Offset); c != 0 {
			return c
		}
		return cmp.Compare(a.Length, b.Length)
	})

	var problems []Problem
	var maxEnd uint64
	var maxEndPath string
	for _, e := range sorted {
		end, ok := e.End()
		if !ok || end > blobSize {
			problems = append(problems, Problem{
				Kind:   ProblemOutOfBounds,
				Path:   e.Path,
				Detail: fmt.Sprintf("range [%d, +%d) exceeds blob size %d", e.Offset, e.Length, blobSize),
			})
		}
		if alignment > 0 && e.Offset%alignment != 0 {
			problems = append(problems, Problem{
				Kind:   ProblemMisaligned,
				Path:   e.Path,
				Detail: fmt.Sprintf("offset %d is not a multiple of %d", e.Offset, alignment),
			})
		}
		if e.Length > 0 && e.Offset < maxEnd {
			problems = append(problems, Problem{
				Kind:   ProblemOverlap,
				Path:   e.Path,
				Detail: fmt.Sprintf("offset %d overlaps %s", e.Offset, maxEndPath),
			})
		}
		if !ok {
			// Overflowed ranges extend to the end of the address space.
			end = ^uint64(0)
		}
		if end > maxEnd {
			maxEnd = end
			maxEndPath = e.Path
		}
	}
	return problems
}
