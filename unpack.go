package marchive

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/meigma/marchive/internal/file"
	"github.com/meigma/marchive/internal/sink"
	"github.com/meigma/marchive/internal/sizing"
)

// copyBufferSize is the per-worker buffer used to copy entry contents.
const copyBufferSize = 32 * 1024

// UnpackStats describes a finished Unpack.
type UnpackStats struct {
	// DescriptorPath is the resolved, uncompressed descriptor that was read.
	DescriptorPath string

	// FileCount is the number of files written.
	FileCount int

	// TotalBytes is the number of content bytes written.
	TotalBytes uint64

	// Skipped is the number of files left alone because they already existed
	// and overwriting was disabled.
	Skipped int
}

// Unpack extracts the archive at path into outputDir.
//
// path may name the descriptor, the blob or the compressed descriptor; see
// ResolveDescriptorPath. The descriptor is decoded and validated before
// anything is written, so a non-archive fails with ErrInvalidFormat and
// leaves outputDir untouched.
//
// Entries are extracted in descriptor order. Parent directories are created
// as needed and existing files are overwritten unless
// UnpackWithOverwrite(false) is given. Entry paths that are not valid
// slash-separated relative paths fail with an *fs.PathError. There is no
// rollback: an error aborts extraction with earlier files left on disk.
func Unpack(ctx context.Context, path, outputDir string, opts ...UnpackOption) (*UnpackStats, error) {
	cfg := unpackConfig{overwrite: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	u := &unpacker{cfg: cfg, logger: cfg.logger}
	return u.unpack(ctx, path, outputDir)
}

// unpacker holds state for extraction.
type unpacker struct {
	cfg    unpackConfig
	logger *slog.Logger
}

// log returns the logger, falling back to a discard logger if nil.
func (u *unpacker) log() *slog.Logger {
	if u.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return u.logger
}

// reportProgress sends a progress event if a callback is configured.
func (u *unpacker) reportProgress(stage ProgressStage, path string, bytesDone uint64, filesDone, filesTotal int) {
	if u.cfg.progress == nil {
		return
	}
	u.cfg.progress(ProgressEvent{
		Stage:      stage,
		Path:       path,
		BytesDone:  bytesDone,
		FilesDone:  filesDone,
		FilesTotal: filesTotal,
	})
}

func (u *unpacker) unpack(ctx context.Context, path, outputDir string) (*UnpackStats, error) {
	u.reportProgress(StageResolving, path, 0, 0, 0)
	descPath, err := ResolveDescriptorPath(path, u.cfg.decompressor)
	if err != nil {
		return nil, err
	}

	d, err := ReadDescriptor(descPath, u.cfg.filter)
	if err != nil {
		return nil, err
	}

	blobPath := BlobPath(descPath)
	u.log().Info("unpacking archive", "descriptor", descPath, "blob", blobPath, "output", outputDir, "file_count", d.Len())

	blob, err := os.Open(blobPath) //nolint:gosec // derived from caller-provided path
	if err != nil {
		return nil, fmt.Errorf("open blob: %w", err)
	}
	defer blob.Close()

	out, err := sink.Open(outputDir, sink.WithOverwrite(u.cfg.overwrite))
	if err != nil {
		return nil, err
	}
	defer out.Close()

	stats := &UnpackStats{DescriptorPath: descPath}
	if u.cfg.workers > 1 {
		err = u.extractParallel(ctx, out, blob, d, stats)
	} else {
		err = u.extractSerial(ctx, out, blob, d, stats)
	}
	if err != nil {
		return stats, err
	}

	u.log().Info("archive unpacked", "file_count", stats.FileCount, "skipped", stats.Skipped, "bytes", stats.TotalBytes)
	return stats, nil
}

// extractSerial extracts entries one at a time in descriptor order.
func (u *unpacker) extractSerial(ctx context.Context, out *sink.FileSink, blob *os.File, d *Descriptor, stats *UnpackStats) error {
	total := d.Len()
	buf := make([]byte, copyBufferSize)
	for e := range d.Entries() {
		if err := ctx.Err(); err != nil {
			return err
		}

		ok, err := out.ShouldWrite(e.Path)
		if err != nil {
			return err
		}
		if !ok {
			u.log().Debug("skipped existing file", "path", e.Path)
			stats.Skipped++
			continue
		}

		if err := u.extract(ctx, out, blob, e, buf); err != nil {
			return err
		}
		stats.FileCount++
		stats.TotalBytes += e.Length
		u.log().Debug("extracted", "path", e.Path, "offset", e.Offset, "length", e.Length)
		u.reportProgress(StageExtracting, e.Path, stats.TotalBytes, stats.FileCount+stats.Skipped, total)
	}
	return nil
}

// extractParallel fans entries out to u.cfg.workers goroutines.
// ShouldWrite runs on the scheduling goroutine.
func (u *unpacker) extractParallel(ctx context.Context, out *sink.FileSink, blob *os.File, d *Descriptor, stats *UnpackStats) error {
	total := d.Len()
	bufs := sync.Pool{New: func() any {
		b := make([]byte, copyBufferSize)
		return &b
	}}

	var mu sync.Mutex
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(u.cfg.workers)

	var scheduleErr error
	for e := range d.Entries() {
		if egCtx.Err() != nil {
			break
		}

		ok, err := out.ShouldWrite(e.Path)
		if err != nil {
			scheduleErr = err
			break
		}
		if !ok {
			u.log().Debug("skipped existing file", "path", e.Path)
			mu.Lock()
			stats.Skipped++
			mu.Unlock()
			continue
		}

		eg.Go(func() error {
			buf := bufs.Get().(*[]byte) //nolint:errcheck // pool only holds *[]byte
			defer bufs.Put(buf)

			if err := u.extract(egCtx, out, blob, e, *buf); err != nil {
				return err
			}
			u.log().Debug("extracted", "path", e.Path, "offset", e.Offset, "length", e.Length)

			mu.Lock()
			defer mu.Unlock()
			stats.FileCount++
			stats.TotalBytes += e.Length
			u.reportProgress(StageExtracting, e.Path, stats.TotalBytes, stats.FileCount+stats.Skipped, total)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	if scheduleErr != nil {
		return scheduleErr
	}
	return ctx.Err()
}

// extract copies one entry's byte range from blob to its output file.
func (u *unpacker) extract(ctx context.Context, out *sink.FileSink, blob *os.File, e Entry, buf []byte) error {
	offset, err := sizing.ToInt64(e.Offset, ErrSizeOverflow)
	if err != nil {
		return fmt.Errorf("extract %s: %w", e.Path, err)
	}
	length, err := sizing.ToInt64(e.Length, ErrSizeOverflow)
	if err != nil {
		return fmt.Errorf("extract %s: %w", e.Path, err)
	}

	f, err := out.Create(e.Path)
	if err != nil {
		return err
	}
	if err := file.CopyRange(ctx, f, blob, offset, length, buf); err != nil {
		f.Close()
		return fmt.Errorf("extract %s: %w", e.Path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", out.Path(e.Path), err)
	}
	return nil
}
