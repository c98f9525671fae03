package mfile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/meigma/marchive/internal/atomicfile"
)

// Suffix is appended to a file name to form its compressed variant.
const Suffix = ".m"

// DefaultMaxSize bounds the decompressed size of a file (256MB).
const DefaultMaxSize = 256 << 20

// Sentinel errors for compressed file handling.
var (
	// ErrUnknownFormat is returned for data or names that match no supported format.
	ErrUnknownFormat = errors.New("mfile: unknown compression format")

	// ErrCorrupt is returned when compressed data cannot be decoded.
	ErrCorrupt = errors.New("mfile: corrupt compressed data")

	// ErrSizeMismatch is returned when decoded data disagrees with its recorded size.
	ErrSizeMismatch = errors.New("mfile: decompressed size mismatch")

	// ErrTooLarge is returned when data exceeds the configured size limit.
	ErrTooLarge = errors.New("mfile: data too large")

	// ErrNotCompressed is returned when decompressing a path without the ".m" suffix.
	ErrNotCompressed = errors.New("mfile: not a compressed file name")
)

// Codec compresses files to their ".m" variant and back.
type Codec struct {
	format       Format
	keepOriginal bool
	maxSize      uint64
}

// Option configures a Codec.
type Option func(*Codec)

// WithFormat sets the format used by CompressFile. The default is FormatMDF.
// Decompression always detects the format from the data.
func WithFormat(f Format) Option {
	return func(c *Codec) {
		c.format = f
	}
}

// WithKeepOriginal keeps the uncompressed file after CompressFile.
// By default it is removed once the ".m" file is written.
func WithKeepOriginal(keep bool) Option {
	return func(c *Codec) {
		c.keepOriginal = keep
	}
}

// WithMaxSize bounds decompressed output. Zero uses DefaultMaxSize.
func WithMaxSize(n uint64) Option {
	return func(c *Codec) {
		c.maxSize = n
	}
}

// New creates a Codec.
func New(opts ...Option) *Codec {
	c := &Codec{format: FormatMDF}
	for _, opt := range opts {
		opt(c)
	}
	if c.maxSize == 0 {
		c.maxSize = DefaultMaxSize
	}
	return c
}

// Format returns the format used for compression.
func (c *Codec) Format() Format {
	return c.format
}

// Compress wraps data in the configured format.
func (c *Codec) Compress(data []byte) ([]byte, error) {
	return encode(c.format, data)
}

// Decompress unwraps data in any supported format.
func (c *Codec) Decompress(data []byte) ([]byte, error) {
	return decode(data, c.maxSize)
}

// CompressFile writes path+".m" holding the compressed contents of path.
// The original is removed unless WithKeepOriginal(true) was given.
func (c *Codec) CompressFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // caller-provided path is intentional
	if err != nil {
		return err
	}
	out, err := c.Compress(data)
	if err != nil {
		return fmt.Errorf("compress %s: %w", path, err)
	}
	if err := atomicfile.Write(path+Suffix, bytes.NewReader(out)); err != nil {
		return fmt.Errorf("write %s: %w", path+Suffix, err)
	}
	if c.keepOriginal {
		return nil
	}
	return os.Remove(path)
}

// DecompressFile replaces the ".m" file at path with its decompressed
// contents at the same logical path (path without ".m"). The target is
// written atomically. The ".m" file is removed unless keepOriginal is set.
func (c *Codec) DecompressFile(path string, keepOriginal bool) error {
	target, ok := TrimSuffix(path)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotCompressed, path)
	}
	data, err := os.ReadFile(path) //nolint:gosec // caller-provided path is intentional
	if err != nil {
		return err
	}
	out, err := c.Decompress(data)
	if err != nil {
		return fmt.Errorf("decompress %s: %w", path, err)
	}
	if err := atomicfile.Write(target, bytes.NewReader(out)); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}
	if keepOriginal {
		return nil
	}
	return os.Remove(path)
}

// HasSuffix reports whether path names a compressed variant. The suffix
// match is case-insensitive.
func HasSuffix(path string) bool {
	return len(path) > len(Suffix) && strings.EqualFold(path[len(path)-len(Suffix):], Suffix)
}

// TrimSuffix strips the compressed-variant suffix from path.
func TrimSuffix(path string) (string, bool) {
	if !HasSuffix(path) {
		return path, false
	}
	return path[:len(path)-len(Suffix)], true
}
