package descriptor

import (
	"fmt"

	flatbuffers "github.com/google/flatbuffers/go"

	"github.com/meigma/marchive/internal/fb"
)

// Filter transforms encoded descriptor bytes, e.g. for obfuscation.
// The codec treats it as opaque: Encode runs after serialization and Decode
// runs before parsing.
type Filter interface {
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
}

// minBufferSize is the root offset plus the 4-byte file identifier.
const minBufferSize = flatbuffers.SizeUOffsetT + 4

// Encode serializes d with the given structural format version and applies
// filter to the result when non-nil.
func Encode(d *Descriptor, formatVersion uint16, filter Filter) ([]byte, error) {
	builder := flatbuffers.NewBuilder(1024)

	// Build entries in reverse order (FlatBuffers requirement)
	offsets := make([]flatbuffers.UOffsetT, len(d.entries))
	for i := len(d.entries) - 1; i >= 0; i-- {
		e := d.entries[i]
		pathOffset := builder.CreateString(e.Path)
		fb.EntryStart(builder)
		fb.EntryAddPath(builder, pathOffset)
		fb.EntryAddOffset(builder, e.Offset)
		fb.EntryAddLength(builder, e.Length)
		offsets[i] = fb.EntryEnd(builder)
	}

	fb.DescriptorStartEntriesVector(builder, len(offsets))
	for i := len(offsets) - 1; i >= 0; i-- {
		builder.PrependUOffsetT(offsets[i])
	}
	entriesOffset := builder.EndVector(len(offsets))

	objectTypeOffset := builder.CreateString(d.ObjectType)

	fb.DescriptorStart(builder)
	fb.DescriptorAddObjectType(builder, objectTypeOffset)
	fb.DescriptorAddVersion(builder, d.Version)
	fb.DescriptorAddFormatVersion(builder, formatVersion)
	fb.DescriptorAddEntries(builder, entriesOffset)
	fb.FinishDescriptorBuffer(builder, fb.DescriptorEnd(builder))

	data := builder.FinishedBytes()
	if filter == nil {
		return data, nil
	}
	out, err := filter.Encode(data)
	if err != nil {
		return nil, fmt.Errorf("filter descriptor: %w", err)
	}
	return out, nil
}

// Decode reverses filter (when non-nil) and parses a FlatBuffers descriptor.
//
// Decode checks structure only: identifier, format version, and that every
// path is non-empty and unique. Callers check the archive signature with
// Validate.
func Decode(data []byte, filter Filter) (*Descriptor, error) {
	if filter != nil {
		var err error
		data, err = filter.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("unfilter descriptor: %w", err)
		}
	}
	if len(data) < minBufferSize {
		return nil, fmt.Errorf("%w: %d bytes is too short", ErrInvalidFormat, len(data))
	}
	if !fb.DescriptorBufferHasIdentifier(data) {
		return nil, fmt.Errorf("%w: missing %q identifier", ErrInvalidFormat, fb.DescriptorIdentifier)
	}
	return parse(data)
}

// parse walks the whole buffer once. FlatBuffers accessors panic on
// out-of-range offsets, so a truncated or corrupt buffer is caught here
// instead of surfacing later.
func parse(data []byte) (d *Descriptor, err error) {
	defer func() {
		if r := recover(); r != nil {
			d = nil
			err = fmt.Errorf("%w: corrupt buffer: %v", ErrInvalidFormat, r)
		}
	}()

	root := fb.GetRootAsDescriptor(data, 0)
	if v := root.FormatVersion(); v != FormatVersion {
		return nil, fmt.Errorf("%w: unsupported format version %d", ErrInvalidFormat, v)
	}

	n := root.EntriesLength()
	// Every vector slot is a 4-byte offset, so a longer vector cannot fit.
	if uint64(n)*uint64(flatbuffers.SizeUOffsetT) > uint64(len(data)) { //nolint:gosec // n is a uint32 vector length
		return nil, fmt.Errorf("%w: entry count %d exceeds buffer size %d", ErrInvalidFormat, n, len(data))
	}
	d = &Descriptor{
		ObjectType: string(root.ObjectType()),
		Version:    root.Version(),
		entries:    make([]Entry, 0, n),
		index:      make(map[string]int, n),
	}

	var e fb.Entry
	for i := range n {
		if !root.Entries(&e, i) {
			return nil, fmt.Errorf("%w: missing entry %d", ErrInvalidFormat, i)
		}
		if err := d.Add(string(e.Path()), e.Offset(), e.Length()); err != nil {
			return nil, err
		}
	}
	return d, nil
}
