// Package sink writes extracted archive entries below a destination directory.
package sink

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileSink creates output files below destDir.
//
// All paths are resolved through an os.Root, so entries cannot escape
// destDir via ".." elements or symlinks.
type FileSink struct {
	destDir   string
	overwrite bool
	root      *os.Root
}

// Option configures a FileSink.
type Option func(*FileSink)

// WithOverwrite controls whether existing files are replaced.
// By default, existing files are overwritten.
func WithOverwrite(overwrite bool) Option {
	return func(s *FileSink) {
		s.overwrite = overwrite
	}
}

// Open creates destDir if needed and returns a sink rooted there.
// The caller must Close the sink.
func Open(destDir string, opts ...Option) (*FileSink, error) {
	s := &FileSink{
		destDir:   destDir,
		overwrite: true,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := os.MkdirAll(destDir, 0o750); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	root, err := os.OpenRoot(destDir)
	if err != nil {
		return nil, fmt.Errorf("open output directory %s: %w", destDir, err)
	}
	s.root = root
	return s, nil
}

// Close releases the destination root.
func (s *FileSink) Close() error {
	return s.root.Close()
}

// Path returns the host path an archive path extracts to.
func (s *FileSink) Path(path string) string {
	return filepath.Join(s.destDir, filepath.FromSlash(path))
}

// ShouldWrite reports whether path should be written. It is false only when
// overwriting is disabled and the destination already exists.
func (s *FileSink) ShouldWrite(path string) (bool, error) {
	if s.overwrite {
		return true, nil
	}
	if !fs.ValidPath(path) {
		return false, &fs.PathError{Op: "extract", Path: path, Err: fs.ErrInvalid}
	}
	_, err := s.root.Lstat(filepath.FromSlash(path))
	if err == nil {
		return false, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	return false, err
}

// Create creates (or truncates) the output file for path, making parent
// directories as needed. path is slash-separated and must satisfy
// fs.ValidPath.
func (s *FileSink) Create(path string) (*os.File, error) {
	if !fs.ValidPath(path) || path == "." {
		return nil, &fs.PathError{Op: "extract", Path: path, Err: fs.ErrInvalid}
	}
	rel := filepath.FromSlash(path)

	if dir := filepath.Dir(rel); dir != "." {
		if err := s.root.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", filepath.Join(s.destDir, dir), err)
		}
	}

	f, err := s.root.OpenFile(rel, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create file %s: %w", s.Path(path), err)
	}
	return f, nil
}
