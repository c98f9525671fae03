// Package walk enumerates the regular files of a directory tree for packing.
package walk

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/meigma/marchive/internal/platform"
)

// VisitFunc is called for every regular file. path is slash-separated and
// relative to the walk root; f is open for reading and closed by the walker
// after VisitFunc returns.
type VisitFunc func(path string, f *os.File, info fs.FileInfo) error

// SkipFunc is told about entries the walker leaves out.
type SkipFunc func(path, reason string)

// Files walks root in fs.WalkDir order (lexical within each directory) and
// calls visit for each regular file. Directories are descended but never
// reported; symlinks and special files are skipped and reported to skip
// (which may be nil).
func Files(ctx context.Context, root *os.Root, visit VisitFunc, skip SkipFunc) error {
	if skip == nil {
		skip = func(string, string) {}
	}
	return fs.WalkDir(root.FS(), ".", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		if ok, reason := isRegular(d); !ok {
			skip(path, reason)
			return nil
		}

		return visitFile(root, path, filepath.FromSlash(path), visit, skip)
	})
}

func visitFile(root *os.Root, path, fsPath string, visit VisitFunc, skip SkipFunc) error {
	f, err := platform.OpenFileNoFollow(root, fsPath)
	if err != nil {
		if errors.Is(err, platform.ErrSymlink) {
			skip(path, "symlink")
			return nil
		}
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("not a regular file: %s", path)
	}
	return visit(path, f, info)
}

// isRegular filters out symlinks and non-regular files using the type bits
// from the directory listing. Returns a skip reason when ok is false.
func isRegular(d fs.DirEntry) (ok bool, reason string) {
	dtype := d.Type()
	switch {
	case dtype&fs.ModeSymlink != 0:
		return false, "symlink"
	case !dtype.IsRegular():
		return false, "not a regular file"
	default:
		return true, ""
	}
}
