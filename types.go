package marchive

import "github.com/meigma/marchive/internal/descriptor"

// Re-export types from internal/descriptor for the public API.
type (
	// Descriptor is a decoded archive descriptor.
	Descriptor = descriptor.Descriptor

	// Entry locates one packed file inside the blob.
	Entry = descriptor.Entry

	// Filter is a reversible transform applied to encoded descriptor bytes.
	Filter = descriptor.Filter

	// Problem is a layout invariant violation reported by Inspect.
	Problem = descriptor.Problem

	// ProblemKind classifies a Problem.
	ProblemKind = descriptor.ProblemKind
)

// Re-export problem kinds.
const (
	ProblemOutOfBounds = descriptor.ProblemOutOfBounds
	ProblemOverlap     = descriptor.ProblemOverlap
	ProblemMisaligned  = descriptor.ProblemMisaligned
)

// Archive signature and encoding.
const (
	// ObjectType is the object type recorded in archive descriptors.
	ObjectType = descriptor.ObjectType

	// Version is the archive schema version.
	Version = descriptor.Version

	// FormatVersion is the structural descriptor encoding written by Build.
	FormatVersion = descriptor.FormatVersion
)

const (
	// Alignment is the boundary every packed entry starts on.
	Alignment = 2048

	// BlobExt is the extension of the blob file.
	BlobExt = ".bin"

	// DescriptorExt is the extension of the descriptor file.
	DescriptorExt = ".psb"

	// CompressedSuffix is appended to the descriptor name for its compressed variant.
	CompressedSuffix = ".m"
)

// Compressor produces the compressed variant of a descriptor file.
// Whether the uncompressed file is kept is up to the implementation.
type Compressor interface {
	CompressFile(path string) error
}

// Decompressor restores a descriptor from its compressed variant. Given
// "name.psb.m" it writes "name.psb", removing the compressed file unless
// keepOriginal is set.
type Decompressor interface {
	DecompressFile(path string, keepOriginal bool) error
}
