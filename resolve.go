package marchive

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/meigma/marchive/internal/descriptor"
	"github.com/meigma/marchive/internal/sizing"
)

// DefaultMaxDescriptorSize bounds how much of a descriptor file is read (64MB).
const DefaultMaxDescriptorSize = 64 << 20

// ResolveDescriptorPath finds the descriptor file for a caller-supplied path.
//
// The path may name the descriptor ("name.psb"), the blob ("name.bin"), or the
// compressed descriptor ("name.psb.m"):
//   - a ".bin" extension (any case) is replaced with ".psb";
//   - if nothing exists at the resulting path, ".m" is appended;
//   - a ".m" path is decompressed with dec to the path without ".m", keeping
//     the compressed file. A nil dec fails with ErrMissingDependency.
//
// The returned path names an uncompressed descriptor.
func ResolveDescriptorPath(path string, dec Decompressor) (string, error) {
	if ext := filepath.Ext(path); strings.EqualFold(ext, BlobExt) {
		path = strings.TrimSuffix(path, ext) + DescriptorExt
	}

	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		path += CompressedSuffix
	}

	base, compressed := trimCompressedSuffix(path)
	if !compressed {
		return path, nil
	}
	if dec == nil {
		return "", fmt.Errorf("%w: %s is compressed and no decompressor was given", ErrMissingDependency, path)
	}
	if err := dec.DecompressFile(path, true); err != nil {
		return "", fmt.Errorf("decompress descriptor: %w", err)
	}
	return base, nil
}

// BlobPath returns the blob path paired with a descriptor path.
func BlobPath(descriptorPath string) string {
	return strings.TrimSuffix(descriptorPath, filepath.Ext(descriptorPath)) + BlobExt
}

// ReadDescriptor reads, decodes and validates the descriptor at path.
// filter may be nil. Any failure to parse or a non-archive signature returns
// an error wrapping ErrInvalidFormat.
func ReadDescriptor(path string, filter Filter) (*Descriptor, error) {
	f, err := os.Open(path) //nolint:gosec // caller-provided path is intentional
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := sizing.ReadAllWithLimit(f, DefaultMaxDescriptorSize, ErrSizeOverflow)
	if err != nil {
		return nil, fmt.Errorf("read descriptor %s: %w", path, err)
	}

	d, err := descriptor.Decode(data, filter)
	if err != nil {
		return nil, fmt.Errorf("decode descriptor %s: %w", path, err)
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

func trimCompressedSuffix(path string) (string, bool) {
	n := len(path) - len(CompressedSuffix)
	if n <= 0 || !strings.EqualFold(path[n:], CompressedSuffix) {
		return path, false
	}
	return path[:n], true
}
