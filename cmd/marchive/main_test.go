package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/marchive"
	"github.com/meigma/marchive/internal/testutil"
)

// run executes the CLI with args and returns stdout and stderr.
func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCommand(&out, &errOut)
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestBuildUnpackInspect(t *testing.T) {
	t.Parallel()

	files := map[string][]byte{
		"a.txt":     []byte("abc"),
		"sub/b.txt": bytes.Repeat([]byte("b"), 5000),
	}
	dir := t.TempDir()
	input := filepath.Join(dir, "in")
	testutil.WriteTree(t, input, files)
	base := filepath.Join(dir, "archive")

	stdout, _, err := run(t, "build", input, base, "--codec", "zstd", "--filter-key", "7")
	require.NoError(t, err)
	assert.Contains(t, stdout, "packed 2 files")
	assert.FileExists(t, base+marchive.BlobExt)
	assert.FileExists(t, base+marchive.DescriptorExt+marchive.CompressedSuffix)
	assert.NoFileExists(t, base+marchive.DescriptorExt)

	stdout, _, err = run(t, "inspect", "--filter-key", "7", "--list", base+marchive.BlobExt)
	require.NoError(t, err)
	assert.Contains(t, stdout, "digest:     sha256:")
	assert.Contains(t, stdout, "sub/b.txt")
	assert.Contains(t, stdout, "layout:     ok")

	out := filepath.Join(dir, "out")
	stdout, _, err = run(t, "unpack", "--filter-key", "7", "-j", "4", base+marchive.BlobExt, out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "extracted 2 files")
	assert.Equal(t, files, testutil.ReadTree(t, out))
}

func TestUnpackWithoutFilterKeyFails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "in")
	testutil.WriteTree(t, input, map[string][]byte{"a.txt": []byte("abc")})
	base := filepath.Join(dir, "archive")

	_, _, err := run(t, "build", "--filter-key", "7", input, base)
	require.NoError(t, err)

	_, _, err = run(t, "unpack", base+marchive.DescriptorExt, filepath.Join(dir, "out"))
	assert.ErrorIs(t, err, marchive.ErrInvalidFormat)
}

func TestCompressDecompress(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "data.psb")
	content := bytes.Repeat([]byte("descriptor "), 100)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	stdout, _, err := run(t, "compress", "--codec", "lz4", path)
	require.NoError(t, err)
	assert.Equal(t, path+".m\n", stdout)
	assert.NoFileExists(t, path)

	stdout, _, err = run(t, "decompress", "--keep", path+".m")
	require.NoError(t, err)
	assert.Equal(t, path+"\n", stdout)
	assert.FileExists(t, path+".m")

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestConfigFileAndLogging(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "marchive.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log:\n  level: debug\n  format: json\ncompression:\n  codec: mdf\n  keep_original: true\n"), 0o644))

	input := filepath.Join(dir, "in")
	testutil.WriteTree(t, input, map[string][]byte{"a.txt": []byte("abc")})
	base := filepath.Join(dir, "archive")

	_, stderr, err := run(t, "--config", cfgPath, "build", input, base)
	require.NoError(t, err)
	assert.Contains(t, stderr, `"msg":"packed"`)
	assert.FileExists(t, base+marchive.DescriptorExt)
	assert.FileExists(t, base+marchive.DescriptorExt+marchive.CompressedSuffix)
}

func TestInvalidFlags(t *testing.T) {
	t.Parallel()

	_, _, err := run(t, "--codec", "brotli", "compress", "x")
	require.Error(t, err)

	_, _, err = run(t, "--log-level", "loud", "inspect", "x")
	require.Error(t, err)

	_, _, err = run(t, "build", "only-one-arg")
	require.Error(t, err)
}
