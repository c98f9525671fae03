package mfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/meigma/marchive/internal/sizing"
)

// Format identifies the wrapping used for a compressed file.
type Format uint8

const (
	FormatMDF Format = iota
	FormatZstd
	FormatLZ4
)

const mdfHeaderSize = 8

var (
	mdfMagic  = []byte("mdf\x00")
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// String returns the name of the format.
func (f Format) String() string {
	switch f {
	case FormatMDF:
		return "mdf"
	case FormatZstd:
		return "zstd"
	case FormatLZ4:
		return "lz4"
	default:
		return "unknown"
	}
}

// ParseFormat parses a format name as returned by Format.String.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "mdf", "zlib":
		return FormatMDF, nil
	case "zstd":
		return FormatZstd, nil
	case "lz4":
		return FormatLZ4, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Detect identifies the format of compressed data from its magic bytes.
func Detect(data []byte) (Format, error) {
	switch {
	case bytes.HasPrefix(data, mdfMagic):
		return FormatMDF, nil
	case bytes.HasPrefix(data, zstdMagic):
		return FormatZstd, nil
	case bytes.HasPrefix(data, lz4Magic):
		return FormatLZ4, nil
	default:
		return 0, ErrUnknownFormat
	}
}

func encode(f Format, data []byte) ([]byte, error) {
	var buf bytes.Buffer
	switch f {
	case FormatMDF:
		if uint64(len(data)) > uint64(^uint32(0)) {
			return nil, ErrTooLarge
		}
		buf.Write(mdfMagic)
		var size [4]byte
		binary.LittleEndian.PutUint32(size[:], uint32(len(data))) //nolint:gosec // checked above
		buf.Write(size[:])
		zw, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
		if err != nil {
			return nil, err
		}
		if err := writeAndClose(zw, data); err != nil {
			return nil, fmt.Errorf("zlib: %w", err)
		}
	case FormatZstd:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1), zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if err != nil {
			return nil, fmt.Errorf("create zstd encoder: %w", err)
		}
		defer enc.Close()
		return enc.EncodeAll(data, nil), nil
	case FormatLZ4:
		if err := writeAndClose(lz4.NewWriter(&buf), data); err != nil {
			return nil, fmt.Errorf("lz4: %w", err)
		}
	default:
		return nil, ErrUnknownFormat
	}
	return buf.Bytes(), nil
}

func decode(data []byte, maxSize uint64) ([]byte, error) {
	f, err := Detect(data)
	if err != nil {
		return nil, err
	}

	switch f {
	case FormatMDF:
		if len(data) < mdfHeaderSize {
			return nil, fmt.Errorf("%w: truncated mdf header", ErrCorrupt)
		}
		size := uint64(binary.LittleEndian.Uint32(data[4:mdfHeaderSize]))
		if size > maxSize {
			return nil, ErrTooLarge
		}
		zr, err := zlib.NewReader(bytes.NewReader(data[mdfHeaderSize:]))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		defer zr.Close()
		out, err := readAll(zr, maxSize)
		if err != nil {
			return nil, err
		}
		if uint64(len(out)) != size {
			return nil, fmt.Errorf("%w: header says %d bytes, got %d", ErrSizeMismatch, size, len(out))
		}
		return out, nil
	case FormatZstd:
		dec, err := zstd.NewReader(bytes.NewReader(data),
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderMaxMemory(maxSize),
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		defer dec.Close()
		return readAll(dec, maxSize)
	case FormatLZ4:
		return readAll(lz4.NewReader(bytes.NewReader(data)), maxSize)
	default:
		return nil, ErrUnknownFormat
	}
}

func writeAndClose(w io.WriteCloser, data []byte) error {
	if _, err := w.Write(data); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func readAll(r io.Reader, maxSize uint64) ([]byte, error) {
	out, err := sizing.ReadAllWithLimit(r, maxSize, ErrTooLarge)
	if err != nil {
		if err == ErrTooLarge {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return out, nil
}
