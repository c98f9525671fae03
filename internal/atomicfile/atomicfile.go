// Package atomicfile replaces files via temp file and rename so readers
// never observe a partially written target.
package atomicfile

import (
	"io"
	"os"
	"path/filepath"
)

// Write streams r into a temp file next to target, then renames it over
// target. On failure the temp file is removed and target is untouched.
func Write(target string, r io.Reader) error {
	dir := filepath.Dir(target)
	tmp, err := os.CreateTemp(dir, ".marchive-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
