package marchive

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"

	"github.com/meigma/marchive/internal/descriptor"
	"github.com/meigma/marchive/internal/file"
	"github.com/meigma/marchive/internal/sizing"
	"github.com/meigma/marchive/internal/walk"
)

// BuildStats describes a finished Build.
type BuildStats struct {
	// BlobPath and DescriptorPath are the files written. When a Compressor
	// was given, DescriptorPath is the uncompressed descriptor it was run on.
	BlobPath       string
	DescriptorPath string

	// FileCount is the number of files packed.
	FileCount int

	// DataBytes is the total length of packed file contents.
	DataBytes uint64

	// BlobSize is the final blob length, always a multiple of Alignment.
	BlobSize uint64
}

// Build packs every regular file under inputDir into outputBase+".bin" and
// writes the descriptor to outputBase+".psb".
//
// Files are visited in fs.WalkDir order (lexical within each directory), so
// the layout is reproducible for identical trees. Each file is copied to the
// blob at the current write position and followed by zero padding up to the
// next multiple of Alignment. Symbolic links and special files are skipped;
// empty directories are not preserved.
//
// With BuildWithCompressor, the compressor runs on the descriptor file as the
// last step. On failure, partially written outputs are left in place.
func Build(ctx context.Context, inputDir, outputBase string, opts ...BuildOption) (*BuildStats, error) {
	cfg := buildConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.compress && cfg.compressor == nil {
		return nil, fmt.Errorf("%w: descriptor compression requested without a compressor", ErrMissingDependency)
	}

	b := &builder{cfg: cfg, logger: cfg.logger}
	return b.build(ctx, inputDir, outputBase)
}

// builder holds state for archive creation.
type builder struct {
	cfg    buildConfig
	logger *slog.Logger
}

// log returns the logger, falling back to a discard logger if nil.
func (b *builder) log() *slog.Logger {
	if b.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return b.logger
}

// reportProgress sends a progress event if a callback is configured.
func (b *builder) reportProgress(stage ProgressStage, path string, bytesDone uint64, filesDone int) {
	if b.cfg.progress == nil {
		return
	}
	b.cfg.progress(ProgressEvent{
		Stage:     stage,
		Path:      path,
		BytesDone: bytesDone,
		FilesDone: filesDone,
	})
}

func (b *builder) build(ctx context.Context, inputDir, outputBase string) (*BuildStats, error) {
	root, err := os.OpenRoot(inputDir)
	if err != nil {
		return nil, err
	}
	defer root.Close()

	stats := &BuildStats{
		BlobPath:       outputBase + BlobExt,
		DescriptorPath: outputBase + DescriptorExt,
	}
	b.log().Info("building archive", "dir", inputDir, "blob", stats.BlobPath, "descriptor", stats.DescriptorPath)

	blobFile, err := os.Create(stats.BlobPath) //nolint:gosec // caller-provided path is intentional
	if err != nil {
		return nil, fmt.Errorf("create blob: %w", err)
	}
	defer blobFile.Close() //nolint:errcheck // closed explicitly on success
	descFile, err := os.Create(stats.DescriptorPath) //nolint:gosec // caller-provided path is intentional
	if err != nil {
		return nil, fmt.Errorf("create descriptor: %w", err)
	}
	defer descFile.Close() //nolint:errcheck // closed explicitly on success

	outputs, err := outputFiles(blobFile, descFile, stats.DescriptorPath+CompressedSuffix)
	if err != nil {
		return nil, err
	}

	bw := bufio.NewWriterSize(blobFile, 64*1024)
	blob := &file.CountingWriter{W: bw}
	d, err := b.writeData(ctx, root, blob, outputs)
	if err != nil {
		return nil, err
	}
	if err := bw.Flush(); err != nil {
		return nil, fmt.Errorf("write blob: %w", err)
	}
	if err := blobFile.Close(); err != nil {
		return nil, fmt.Errorf("close blob: %w", err)
	}

	stats.FileCount = d.Len()
	stats.BlobSize = blob.N
	for e := range d.Entries() {
		stats.DataBytes += e.Length
	}
	b.log().Debug("blob written", "file_count", stats.FileCount, "data_bytes", stats.DataBytes, "blob_size", stats.BlobSize)

	b.reportProgress(StageWritingDescriptor, "", stats.DataBytes, stats.FileCount)
	d.ObjectType = ObjectType
	d.Version = Version
	data, err := descriptor.Encode(d, FormatVersion, b.cfg.filter)
	if err != nil {
		return nil, err
	}
	if _, err := descFile.Write(data); err != nil {
		return nil, fmt.Errorf("write descriptor: %w", err)
	}
	if err := descFile.Close(); err != nil {
		return nil, fmt.Errorf("close descriptor: %w", err)
	}

	if b.cfg.compressor != nil {
		b.reportProgress(StageCompressing, "", stats.DataBytes, stats.FileCount)
		if err := b.cfg.compressor.CompressFile(stats.DescriptorPath); err != nil {
			return nil, fmt.Errorf("compress descriptor: %w", err)
		}
		b.log().Debug("descriptor compressed", "path", stats.DescriptorPath)
	}

	b.log().Info("archive built", "file_count", stats.FileCount, "blob_size", stats.BlobSize)
	return stats, nil
}

// writeData copies every file under root into blob, padding after each one,
// and returns the populated file table.
// Files in outputs are the archive being written and are never packed.
func (b *builder) writeData(ctx context.Context, root *os.Root, blob *file.CountingWriter, outputs []fs.FileInfo) (*descriptor.Descriptor, error) {
	d := &descriptor.Descriptor{}
	maxFiles := b.cfg.maxFiles
	if maxFiles == 0 {
		maxFiles = DefaultMaxFiles
	}
	buf := make([]byte, 32*1024)

	b.reportProgress(StageEnumerating, "", 0, 0)

	visit := func(path string, f *os.File, info fs.FileInfo) error {
		if slices.ContainsFunc(outputs, func(out fs.FileInfo) bool { return os.SameFile(out, info) }) {
			b.log().Debug("skipped", "path", path, "reason", "archive output")
			return nil
		}
		if maxFiles > 0 && d.Len() >= maxFiles {
			return ErrTooManyFiles
		}

		offset := blob.N
		length, err := file.CopyWithContext(ctx, blob, f, buf)
		if err != nil {
			return fmt.Errorf("pack %s: %w", path, wrapOverflowErr(err))
		}
		if err := d.Add(path, offset, length); err != nil {
			return err
		}

		aligned, ok := sizing.AlignUp(blob.N, Alignment)
		if !ok {
			return ErrSizeOverflow
		}
		if err := file.Pad(blob, aligned-blob.N); err != nil {
			return fmt.Errorf("pad %s: %w", path, wrapOverflowErr(err))
		}

		b.log().Debug("packed", "path", path, "offset", offset, "length", length)
		b.reportProgress(StagePacking, path, blob.N, d.Len())
		return nil
	}
	skip := func(path, reason string) {
		b.log().Debug("skipped", "path", path, "reason", reason)
	}

	if err := walk.Files(ctx, root, visit, skip); err != nil {
		return nil, err
	}
	return d, nil
}

// outputFiles stats the files Build writes, including a compressed
// descriptor left by an earlier build, so the walk can leave them out when
// the output lies inside the input directory.
func outputFiles(blob, desc *os.File, compressedPath string) ([]fs.FileInfo, error) {
	var infos []fs.FileInfo
	for _, f := range []*os.File{blob, desc} {
		info, err := f.Stat()
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	info, err := os.Stat(compressedPath)
	switch {
	case err == nil:
		infos = append(infos, info)
	case !errors.Is(err, fs.ErrNotExist):
		return nil, err
	}
	return infos, nil
}

func wrapOverflowErr(err error) error {
	if errors.Is(err, file.ErrOverflow) {
		return ErrSizeOverflow
	}
	return err
}
