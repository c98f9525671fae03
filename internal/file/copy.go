package file

import (
	"context"
	"io"
)

// zeros backs Pad; alignment padding never exceeds one alignment unit so a
// single block normally covers it.
var zeros [4096]byte

// CopyWithContext copies from src to dst until EOF or error, checking for
// context cancellation between reads. It returns the number of bytes written.
//
//nolint:gocognit // Follows stdlib io.Copy pattern; complexity is inherent to correct I/O handling
func CopyWithContext(ctx context.Context, dst io.Writer, src io.Reader, buf []byte) (uint64, error) {
	var written uint64
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		nr, er := src.Read(buf)
		if nr > 0 {
			nw, ew := dst.Write(buf[:nr])
			if nw > 0 {
				//nolint:gosec // nw is guaranteed non-negative by io.Writer contract
				if written > ^uint64(0)-uint64(nw) {
					return written, ErrOverflow
				}
				written += uint64(nw) //nolint:gosec // overflow checked above
			}
			if ew != nil {
				return written, ew
			}
			if nw != nr {
				return written, io.ErrShortWrite
			}
		}
		if er != nil {
			if er == io.EOF {
				return written, nil
			}
			return written, er
		}
	}
}

// CopyRange copies exactly length bytes starting at offset in src to dst.
// A source shorter than the range yields io.ErrUnexpectedEOF.
func CopyRange(ctx context.Context, dst io.Writer, src io.ReaderAt, offset, length int64, buf []byte) error {
	n, err := CopyWithContext(ctx, dst, io.NewSectionReader(src, offset, length), buf)
	if err != nil {
		return err
	}
	if n != uint64(length) { //nolint:gosec // length is non-negative for section readers that copied
		return io.ErrUnexpectedEOF
	}
	return nil
}

// Pad writes n zero bytes to w.
func Pad(w io.Writer, n uint64) error {
	for n > 0 {
		chunk := min(n, uint64(len(zeros)))
		if _, err := w.Write(zeros[:chunk]); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}
