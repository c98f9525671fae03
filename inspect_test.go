package marchive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/marchive/filter"
	"github.com/meigma/marchive/internal/testutil"
	"github.com/meigma/marchive/mfile"
)

func TestInspectBuiltArchive(t *testing.T) {
	t.Parallel()

	files := map[string][]byte{
		"a.txt":     []byte("abc"),
		"sub/b.txt": make([]byte, 5000),
	}
	base, stats := buildTestArchive(t, files)

	info, err := Inspect(base + BlobExt)
	require.NoError(t, err)

	blob, err := os.ReadFile(base + BlobExt)
	require.NoError(t, err)

	assert.Equal(t, base+DescriptorExt, info.DescriptorPath)
	assert.Equal(t, base+BlobExt, info.BlobPath)
	assert.Equal(t, 2, info.FileCount())
	assert.Equal(t, stats.BlobSize, info.BlobSize)
	assert.Equal(t, uint64(5003), info.DataBytes)
	assert.Equal(t, digest.FromBytes(blob), info.BlobDigest)
	assert.Empty(t, info.Problems)
}

func TestInspectWithoutDigest(t *testing.T) {
	t.Parallel()

	base, _ := buildTestArchive(t, map[string][]byte{"a.txt": []byte("abc")})

	info, err := Inspect(base+DescriptorExt, InspectWithDigest(false))
	require.NoError(t, err)
	assert.Empty(t, info.BlobDigest)
	assert.Equal(t, uint64(Alignment), info.BlobSize)
}

func TestInspectReportsProblems(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		blobSize int
		entries  []Entry
		want     []ProblemKind
	}{
		{
			name:     "overlap",
			blobSize: 8192,
			entries: []Entry{
				{Path: "a", Offset: 0, Length: 4096},
				{Path: "b", Offset: 2048, Length: 100},
			},
			want: []ProblemKind{ProblemOverlap},
		},
		{
			name:     "out of bounds",
			blobSize: 2048,
			entries:  []Entry{{Path: "a", Offset: 2048, Length: 1}},
			want:     []ProblemKind{ProblemOutOfBounds},
		},
		{
			name:     "misaligned",
			blobSize: 16,
			entries:  []Entry{{Path: "a", Offset: 5, Length: 5}},
			want:     []ProblemKind{ProblemMisaligned},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			base := filepath.Join(dir, "crafted")
			require.NoError(t, os.WriteFile(base+BlobExt, make([]byte, tt.blobSize), 0o644))
			testutil.WriteDescriptor(t, base+DescriptorExt, testutil.DescriptorFixture{Entries: tt.entries})

			info, err := Inspect(base + DescriptorExt)
			require.NoError(t, err)

			var got []ProblemKind
			for _, p := range info.Problems {
				got = append(got, p.Kind)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInspectCompressedAndFiltered(t *testing.T) {
	t.Parallel()

	key := filter.NewXORShift(0xC0FFEE)
	codec := mfile.New(mfile.WithFormat(mfile.FormatLZ4))
	base, _ := buildTestArchive(t, map[string][]byte{"a.txt": []byte("abc")},
		BuildWithCompressor(codec), BuildWithFilter(key))
	require.NoFileExists(t, base+DescriptorExt)

	_, err := Inspect(base + BlobExt)
	require.ErrorIs(t, err, ErrMissingDependency)

	rec := &testutil.RecordingDecompressor{Delegate: codec}
	info, err := Inspect(base+BlobExt, InspectWithDecompressor(rec), InspectWithFilter(key))
	require.NoError(t, err)
	assert.Equal(t, []string{base + DescriptorExt + CompressedSuffix}, rec.Calls)
	assert.Equal(t, []bool{true}, rec.Keep)
	assert.Equal(t, 1, info.FileCount())
	assert.FileExists(t, base+DescriptorExt+CompressedSuffix)
}

func TestInspectRejectsNonArchive(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	base := filepath.Join(dir, "other")
	testutil.WriteDescriptor(t, base+DescriptorExt, testutil.DescriptorFixture{ObjectType: "image"})
	require.NoError(t, os.WriteFile(base+BlobExt, nil, 0o644))

	_, err := Inspect(base + DescriptorExt)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}
