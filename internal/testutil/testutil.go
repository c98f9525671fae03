// Package testutil provides fixtures shared by marchive tests.
package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meigma/marchive/internal/descriptor"
)

// WriteTree creates files under dir from a map of slash-separated paths to
// contents.
func WriteTree(t testing.TB, dir string, files map[string][]byte) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, content, 0o644))
	}
}

// ReadTree returns every regular file under dir keyed by slash-separated
// relative path.
func ReadTree(t testing.TB, dir string) map[string][]byte {
	t.Helper()
	files := make(map[string][]byte)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = content
		return nil
	})
	require.NoError(t, err)
	return files
}

// DescriptorFixture describes a descriptor for WriteDescriptor. Zero ObjectType
// and Version default to a valid archive signature.
type DescriptorFixture struct {
	ObjectType string
	Version    float32
	Entries    []descriptor.Entry
	Filter     descriptor.Filter
}

// WriteDescriptor encodes fx and writes it to path.
func WriteDescriptor(t testing.TB, path string, fx DescriptorFixture) {
	t.Helper()
	d := &descriptor.Descriptor{ObjectType: fx.ObjectType, Version: fx.Version}
	if d.ObjectType == "" {
		d.ObjectType = descriptor.ObjectType
	}
	if d.Version == 0 {
		d.Version = descriptor.Version
	}
	for _, e := range fx.Entries {
		require.NoError(t, d.Add(e.Path, e.Offset, e.Length))
	}
	data, err := descriptor.Encode(d, descriptor.FormatVersion, fx.Filter)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

// RecordingDecompressor records calls and optionally delegates.
type RecordingDecompressor struct {
	Calls    []string
	Keep     []bool
	Delegate interface {
		DecompressFile(path string, keepOriginal bool) error
	}
}

// DecompressFile records the call and delegates if a delegate is set.
func (r *RecordingDecompressor) DecompressFile(path string, keepOriginal bool) error {
	r.Calls = append(r.Calls, path)
	r.Keep = append(r.Keep, keepOriginal)
	if r.Delegate == nil {
		return nil
	}
	return r.Delegate.DecompressFile(path, keepOriginal)
}
