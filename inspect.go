package marchive

import (
	_ "crypto/sha256" // registers digest.SHA256
	"fmt"
	"log/slog"
	"os"

	"github.com/opencontainers/go-digest"
)

// Info describes an archive without extracting it.
type Info struct {
	// DescriptorPath and BlobPath are the resolved file paths.
	DescriptorPath string
	BlobPath       string

	// Descriptor is the decoded, validated descriptor.
	Descriptor *Descriptor

	// BlobSize is the size of the blob file in bytes.
	BlobSize uint64

	// BlobDigest is the sha256 digest of the blob. Empty when disabled with
	// InspectWithDigest(false).
	BlobDigest digest.Digest

	// DataBytes is the sum of all entry lengths.
	DataBytes uint64

	// Problems lists layout invariant violations: entries out of the blob's
	// bounds, overlapping entries, and entries not aligned to Alignment.
	// Archives from other packers may legitimately be unaligned.
	Problems []Problem
}

// FileCount returns the number of entries in the archive.
func (i *Info) FileCount() int {
	return i.Descriptor.Len()
}

// Inspect reads the archive at path and reports on its layout.
//
// path is resolved like Unpack's. Only descriptor errors (ErrInvalidFormat,
// ErrMissingDependency) and I/O errors fail Inspect; layout violations are
// reported in Info.Problems.
func Inspect(path string, opts ...InspectOption) (*Info, error) {
	cfg := inspectConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	descPath, err := ResolveDescriptorPath(path, cfg.decompressor)
	if err != nil {
		return nil, err
	}
	d, err := ReadDescriptor(descPath, cfg.filter)
	if err != nil {
		return nil, err
	}

	info := &Info{
		DescriptorPath: descPath,
		BlobPath:       BlobPath(descPath),
		Descriptor:     d,
	}
	for e := range d.Entries() {
		info.DataBytes += e.Length
	}

	f, err := os.Open(info.BlobPath) //nolint:gosec // derived from caller-provided path
	if err != nil {
		return nil, fmt.Errorf("open blob: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	info.BlobSize = uint64(st.Size()) //nolint:gosec // file sizes are non-negative

	if !cfg.skipDigest {
		info.BlobDigest, err = digest.SHA256.FromReader(f)
		if err != nil {
			return nil, fmt.Errorf("digest blob: %w", err)
		}
	}

	info.Problems = d.Check(info.BlobSize, Alignment)
	logger.Debug("inspected archive", "descriptor", descPath, "file_count", d.Len(), "blob_size", info.BlobSize, "problems", len(info.Problems))
	return info, nil
}
