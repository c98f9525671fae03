// Package filter provides descriptor filters: reversible transforms applied
// to encoded descriptor bytes before they are written and after they are read.
package filter

import (
	"encoding/binary"
	"errors"
	"fmt"
	"slices"
)

// ErrNilFilter is returned by Chain when given a nil filter.
var ErrNilFilter = errors.New("filter: nil filter")

// Filter is a reversible byte transform. Decode(Encode(b)) must equal b.
type Filter interface {
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
}

// Default xorshift128 seeds; the key replaces the fourth word.
const (
	seedX uint32 = 123456789
	seedY uint32 = 362436069
	seedZ uint32 = 521288629
)

// XORShift obfuscates data by XOR with an xorshift128 keystream derived from
// a 32-bit key. Encoding and decoding are the same operation.
type XORShift struct {
	key uint32
}

// NewXORShift returns an XORShift filter for key.
func NewXORShift(key uint32) *XORShift {
	return &XORShift{key: key}
}

// Key returns the filter key.
func (f *XORShift) Key() uint32 {
	return f.key
}

// Encode implements Filter.
func (f *XORShift) Encode(data []byte) ([]byte, error) {
	return f.apply(data), nil
}

// Decode implements Filter.
func (f *XORShift) Decode(data []byte) ([]byte, error) {
	return f.apply(data), nil
}

func (f *XORShift) apply(data []byte) []byte {
	out := make([]byte, len(data))
	x, y, z, w := seedX, seedY, seedZ, f.key
	var block [4]byte
	for i := range data {
		if i%4 == 0 {
			t := x ^ (x << 11)
			x, y, z = y, z, w
			w = w ^ (w >> 19) ^ t ^ (t >> 8)
			binary.LittleEndian.PutUint32(block[:], w)
		}
		out[i] = data[i] ^ block[i%4]
	}
	return out
}

// chain applies filters in order on Encode and in reverse on Decode.
type chain []Filter

// Chain composes filters into one. Encode runs them first to last; Decode
// undoes them last to first.
func Chain(filters ...Filter) (Filter, error) {
	for i, f := range filters {
		if f == nil {
			return nil, fmt.Errorf("%w at position %d", ErrNilFilter, i)
		}
	}
	return chain(slices.Clone(filters)), nil
}

func (c chain) Encode(data []byte) ([]byte, error) {
	var err error
	for _, f := range c {
		if data, err = f.Encode(data); err != nil {
			return nil, err
		}
	}
	return data, nil
}

func (c chain) Decode(data []byte) ([]byte, error) {
	var err error
	for _, f := range slices.Backward(c) {
		if data, err = f.Decode(data); err != nil {
			return nil, err
		}
	}
	return data, nil
}
