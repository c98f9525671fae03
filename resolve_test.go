package marchive

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/marchive/internal/testutil"
	"github.com/meigma/marchive/mfile"
)

func TestResolveDescriptorPath(t *testing.T) {
	t.Parallel()

	t.Run("blob alias maps to descriptor", func(t *testing.T) {
		dir := t.TempDir()
		psb := filepath.Join(dir, "archive.psb")
		require.NoError(t, os.WriteFile(psb, []byte("x"), 0o644))

		dec := &testutil.RecordingDecompressor{}
		got, err := ResolveDescriptorPath(filepath.Join(dir, "archive.bin"), dec)
		require.NoError(t, err)
		assert.Equal(t, psb, got)
		assert.Empty(t, dec.Calls, "plain descriptor must not be decompressed")
	})

	t.Run("blob alias is case-insensitive", func(t *testing.T) {
		dir := t.TempDir()
		psb := filepath.Join(dir, "archive.psb")
		require.NoError(t, os.WriteFile(psb, []byte("x"), 0o644))

		got, err := ResolveDescriptorPath(filepath.Join(dir, "archive.BIN"), nil)
		require.NoError(t, err)
		assert.Equal(t, psb, got)
	})

	t.Run("plain descriptor", func(t *testing.T) {
		dir := t.TempDir()
		psb := filepath.Join(dir, "archive.psb")
		require.NoError(t, os.WriteFile(psb, []byte("x"), 0o644))

		got, err := ResolveDescriptorPath(psb, nil)
		require.NoError(t, err)
		assert.Equal(t, psb, got)
	})

	t.Run("missing descriptor falls back to compressed variant", func(t *testing.T) {
		dir := t.TempDir()
		psb := filepath.Join(dir, "archive.psb")
		require.NoError(t, os.WriteFile(psb, []byte("descriptor bytes"), 0o644))
		require.NoError(t, mfile.New().CompressFile(psb))
		require.NoFileExists(t, psb)

		dec := &testutil.RecordingDecompressor{Delegate: mfile.New()}
		got, err := ResolveDescriptorPath(filepath.Join(dir, "archive.bin"), dec)
		require.NoError(t, err)
		assert.Equal(t, psb, got)
		assert.Equal(t, []string{psb + ".m"}, dec.Calls)
		assert.Equal(t, []bool{true}, dec.Keep)

		content, err := os.ReadFile(psb)
		require.NoError(t, err)
		assert.Equal(t, "descriptor bytes", string(content))
		assert.FileExists(t, psb+".m", "compressed variant is kept")
	})

	t.Run("compressed path given directly", func(t *testing.T) {
		dir := t.TempDir()
		psbm := filepath.Join(dir, "archive.psb.m")
		require.NoError(t, os.WriteFile(psbm, []byte("x"), 0o644))

		dec := &testutil.RecordingDecompressor{}
		got, err := ResolveDescriptorPath(psbm, dec)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "archive.psb"), got)
		assert.Equal(t, []string{psbm}, dec.Calls)
	})

	t.Run("compressed variant without decompressor", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "archive.psb.m"), []byte("x"), 0o644))

		_, err := ResolveDescriptorPath(filepath.Join(dir, "archive.bin"), nil)
		assert.ErrorIs(t, err, ErrMissingDependency)
	})

	t.Run("nothing exists without decompressor", func(t *testing.T) {
		_, err := ResolveDescriptorPath(filepath.Join(t.TempDir(), "archive.psb"), nil)
		assert.ErrorIs(t, err, ErrMissingDependency)
	})

	t.Run("nothing exists with decompressor", func(t *testing.T) {
		_, err := ResolveDescriptorPath(filepath.Join(t.TempDir(), "archive.psb"), mfile.New())
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("decompressor failure", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "archive.psb.m"), []byte("not compressed"), 0o644))

		_, err := ResolveDescriptorPath(filepath.Join(dir, "archive.psb"), mfile.New())
		assert.ErrorIs(t, err, mfile.ErrUnknownFormat)
	})
}

func TestBlobPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"archive.psb", "archive.bin"},
		{filepath.Join("dir", "alldata.psb"), filepath.Join("dir", "alldata.bin")},
		{"archive", "archive.bin"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BlobPath(tt.in))
	}
}

func TestReadDescriptorRejectsNonArchive(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tests := []struct {
		name    string
		fixture testutil.DescriptorFixture
	}{
		{"object type", testutil.DescriptorFixture{ObjectType: "notarchive"}},
		{"version", testutil.DescriptorFixture{Version: 2.0}},
	}
	for _, tt := range tests {
		path := filepath.Join(dir, tt.name+".psb")
		testutil.WriteDescriptor(t, path, tt.fixture)

		_, err := ReadDescriptor(path, nil)
		assert.ErrorIs(t, err, ErrInvalidFormat, tt.name)
	}

	garbage := filepath.Join(dir, "garbage.psb")
	require.NoError(t, os.WriteFile(garbage, []byte("PSB\x00 not a flatbuffer"), 0o644))
	_, err := ReadDescriptor(garbage, nil)
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = ReadDescriptor(filepath.Join(dir, "missing.psb"), nil)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
