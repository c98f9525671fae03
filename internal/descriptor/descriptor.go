// Package descriptor implements the archive descriptor: the table that maps
// each packed path to its byte range inside the companion blob.
//
// Descriptors are encoded as FlatBuffers (see schema/descriptor.fbs). Decode
// is the only way in from untrusted bytes and rejects malformed input before
// any caller sees a Descriptor.
package descriptor

import (
	"errors"
	"fmt"
	"iter"

	"github.com/meigma/marchive/internal/sizing"
)

const (
	// ObjectType is the object type recorded in every archive descriptor.
	ObjectType = "archive"

	// Version is the only archive schema version this package accepts.
	Version float32 = 1.0

	// FormatVersion is the structural encoding version written by Encode.
	FormatVersion uint16 = 3
)

// Sentinel errors for descriptor handling.
var (
	// ErrInvalidFormat is returned when a descriptor is malformed or does not
	// describe an archive.
	ErrInvalidFormat = errors.New("marchive: invalid archive descriptor")

	// ErrSizeOverflow is returned when offsets or lengths exceed supported limits.
	ErrSizeOverflow = errors.New("marchive: size overflow")
)

// Entry locates one packed file inside the blob.
type Entry struct {
	// Path is the forward-slash separated path relative to the packed directory.
	Path string

	// Offset is the byte offset of the content in the blob.
	Offset uint64

	// Length is the content length in bytes.
	Length uint64
}

// End returns Offset+Length. ok is false if the sum overflows.
func (e Entry) End() (end uint64, ok bool) {
	return sizing.AddUint64(e.Offset, e.Length)
}

// Descriptor is the decoded archive descriptor.
//
// The file table preserves insertion order; iteration yields entries in the
// order they were added (pack order) or stored (decode).
type Descriptor struct {
	ObjectType string
	Version    float32

	entries []Entry
	index   map[string]int
}

// Add appends an entry to the file table.
// Returns an error wrapping ErrInvalidFormat for empty or duplicate paths.
func (d *Descriptor) Add(path string, offset, length uint64) error {
	if path == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidFormat)
	}
	if d.index == nil {
		d.index = make(map[string]int)
	}
	if _, ok := d.index[path]; ok {
		return fmt.Errorf("%w: duplicate path %q", ErrInvalidFormat, path)
	}
	d.index[path] = len(d.entries)
	d.entries = append(d.entries, Entry{Path: path, Offset: offset, Length: length})
	return nil
}

// Lookup returns the entry for path.
func (d *Descriptor) Lookup(path string) (Entry, bool) {
	i, ok := d.index[path]
	if !ok {
		return Entry{}, false
	}
	return d.entries[i], true
}

// Len returns the number of entries in the file table.
func (d *Descriptor) Len() int {
	return len(d.entries)
}

// Entries returns an iterator over the file table in stored order.
func (d *Descriptor) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, e := range d.entries {
			if !yield(e) {
				return
			}
		}
	}
}

// Validate checks the archive signature.
func (d *Descriptor) Validate() error {
	if d.ObjectType != ObjectType {
		return fmt.Errorf("%w: object type %q is not %q", ErrInvalidFormat, d.ObjectType, ObjectType)
	}
	// float32 round-trips through the encoding bit-exact, so equality is safe.
	if d.Version != Version {
		return fmt.Errorf("%w: unsupported version %v", ErrInvalidFormat, d.Version)
	}
	return nil
}
