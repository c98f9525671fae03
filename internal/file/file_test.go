package file

import (
	"bytes"
	"context"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountingWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	cw := &CountingWriter{W: &buf}
	_, err := cw.Write([]byte("abc"))
	require.NoError(t, err)
	_, err = cw.Write([]byte("de"))
	require.NoError(t, err)
	assert.Equal(t, uint64(5), cw.N)

	cw.N = math.MaxUint64 - 1
	_, err = cw.Write([]byte("xy"))
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestCopyWithContext(t *testing.T) {
	t.Parallel()

	var dst bytes.Buffer
	n, err := CopyWithContext(context.Background(), &dst, strings.NewReader("hello world"), make([]byte, 4))
	require.NoError(t, err)
	assert.Equal(t, uint64(11), n)
	assert.Equal(t, "hello world", dst.String())
}

func TestCopyWithContextCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var dst bytes.Buffer
	_, err := CopyWithContext(ctx, &dst, strings.NewReader("hello"), make([]byte, 4))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, dst.Len())
}

func TestCopyRange(t *testing.T) {
	t.Parallel()

	src := bytes.NewReader([]byte("0123456789"))

	var dst bytes.Buffer
	require.NoError(t, CopyRange(context.Background(), &dst, src, 2, 5, make([]byte, 3)))
	assert.Equal(t, "23456", dst.String())

	dst.Reset()
	err := CopyRange(context.Background(), &dst, src, 8, 5, make([]byte, 3))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestPad(t *testing.T) {
	t.Parallel()

	for _, n := range []uint64{0, 1, 2045, 4096, 10000} {
		var buf bytes.Buffer
		require.NoError(t, Pad(&buf, n))
		assert.Equal(t, int(n), buf.Len())
		assert.Equal(t, int(n), bytes.Count(buf.Bytes(), []byte{0}), "padding must be zero bytes")
	}
}
