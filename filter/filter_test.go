package filter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reverse is an order-sensitive filter for chain tests.
type reverse struct{}

func (reverse) Encode(data []byte) ([]byte, error) { return rev(data), nil }
func (reverse) Decode(data []byte) ([]byte, error) { return rev(data), nil }

func rev(data []byte) []byte {
	out := make([]byte, len(data))
	for i, b := range data {
		out[len(data)-1-i] = b
	}
	return out
}

func TestXORShiftRoundTrip(t *testing.T) {
	t.Parallel()

	data := []byte("the quick brown fox jumps over the lazy dog")
	f := NewXORShift(0xdeadbeef)

	enc, err := f.Encode(data)
	require.NoError(t, err)
	assert.NotEqual(t, data, enc)
	assert.Len(t, enc, len(data))

	dec, err := f.Decode(enc)
	require.NoError(t, err)
	assert.Equal(t, data, dec)
}

func TestXORShiftKeyMatters(t *testing.T) {
	t.Parallel()

	data := bytes.Repeat([]byte{0}, 64)
	a, err := NewXORShift(1).Encode(data)
	require.NoError(t, err)
	b, err := NewXORShift(2).Encode(data)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	wrong, err := NewXORShift(2).Decode(a)
	require.NoError(t, err)
	assert.NotEqual(t, data, wrong)
}

func TestXORShiftDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	data := []byte("immutable")
	_, err := NewXORShift(7).Encode(data)
	require.NoError(t, err)
	assert.Equal(t, []byte("immutable"), data)
}

func TestChain(t *testing.T) {
	t.Parallel()

	data := []byte("0123456789abcdef")
	x := NewXORShift(42)
	c, err := Chain(x, reverse{})
	require.NoError(t, err)

	enc, err := c.Encode(data)
	require.NoError(t, err)

	xored, err := x.Encode(data)
	require.NoError(t, err)
	assert.Equal(t, rev(xored), enc, "encode runs filters in order")

	dec, err := c.Decode(enc)
	require.NoError(t, err)
	assert.Equal(t, data, dec)
}

func TestChainRejectsNil(t *testing.T) {
	t.Parallel()

	_, err := Chain(NewXORShift(1), nil)
	assert.ErrorIs(t, err, ErrNilFilter)
}
