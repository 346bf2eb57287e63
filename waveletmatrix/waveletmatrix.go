/*
Package waveletmatrix encodes a sequence of unsigned integers as a stack of
bitmaps so that three queries — access, rank, and rank-less-than — all run
in O(D) time, where D is the bit-width of the alphabet.

# Wavelet matrix, not wavelet tree

A wavelet tree recursively partitions the alphabet, storing one bitmap per
tree node keyed to whatever characters happen to land there. A wavelet
*matrix* instead stores exactly one bitmap per bit-plane of the alphabet
(MSB first) and keeps every layer the same length N as the input. Each
layer is built by a stable MSB-first radix pass: values currently in the
"zeros" bucket are walked first, then values in the "ones" bucket, and for
each value we record the next bit and drop it into next_zeros or
next_ones. The key invariant this buys us is that "ones" always land
immediately after the zeros of the *same* layer, so rank on the next layer
down is just `rank(pos, bit) + (bit ? layer.zeros() : 0)` — no tree
pointers, no per-node bookkeeping, just an offset.

# Building intuition: access

To find the value stored at row i, walk layers top to bottom. At each
layer read the bit at the current position, shift it into the result
MSB-first, and follow the wavelet-matrix offset rule above to find where
that row landed in the next layer.

# Building intuition: rank and rank-less-than

Both are one sweep, prefix_rank, that narrows a sub-range [bpos, epos)
(starting as [0, pos)) one layer at a time according to c's bits, MSB
first:

  - if c's bit at this depth is 1: everything in the current range whose
    bit is 0 is, by definition, less than any value sharing c's prefix so
    far — so it's added to the less-than accumulator — and the range is
    advanced into the "ones" partition.
  - if c's bit is 0: the range is advanced into the "zeros" partition, and
    nothing is added to the accumulator (those values could still be
    equal to c; we haven't ruled them out yet).

After D layers, rank-equal is the width of the surviving range, and
rank-less-than is the accumulator.
*/
package waveletmatrix

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/bebop/fmindex/bitvector"
)

// Operator selects which prefix_rank variant to compute.
type Operator int

const (
	// Equal counts values in the prefix equal to c.
	Equal Operator = iota
	// LessThan counts values in the prefix strictly less than c.
	LessThan
)

// WaveletMatrix is an immutable index over a sequence of non-negative
// integers built once via New.
type WaveletMatrix struct {
	layers []*bitvector.BitVector
	length int
}

// New builds a WaveletMatrix over vals. The bit depth D is the number of
// bits needed to represent max(vals); D is 0 when every value is 0, in
// which case the matrix has no layers and every query answers as if the
// sequence were all zeros.
func New(vals []uint64) *WaveletMatrix {
	depth := bitDepth(vals)
	n := len(vals)

	zeros := vals
	var ones []uint64
	layers := make([]*bitvector.BitVector, 0, depth)

	for d := 0; d < depth; d++ {
		shift := uint(depth - d - 1)
		layer := bitvector.New(n)
		nextZeros := make([]uint64, 0, len(zeros))
		nextOnes := make([]uint64, 0, len(ones)+len(zeros))

		i := 0
		for _, v := range zeros {
			bit := (v>>shift)&1 == 1
			layer.Set(i, bit)
			i++
			if bit {
				nextOnes = append(nextOnes, v)
			} else {
				nextZeros = append(nextZeros, v)
			}
		}
		for _, v := range ones {
			bit := (v>>shift)&1 == 1
			layer.Set(i, bit)
			i++
			if bit {
				nextOnes = append(nextOnes, v)
			} else {
				nextZeros = append(nextZeros, v)
			}
		}
		layer.Build()

		zeros, ones = nextZeros, nextOnes
		layers = append(layers, layer)
	}

	return &WaveletMatrix{layers: layers, length: n}
}

// Len returns the length of the encoded sequence.
func (wm *WaveletMatrix) Len() int {
	return wm.length
}

// Access reconstructs the value at row pos.
func (wm *WaveletMatrix) Access(pos int) uint64 {
	if pos < 0 || pos >= wm.length {
		panic(fmt.Sprintf("waveletmatrix: access of %d out of bounds for length %d", pos, wm.length))
	}
	var c uint64
	for _, layer := range wm.layers {
		bit := layer.Access(pos)
		pos = layer.Rank(pos, bit)
		c <<= 1
		if bit {
			pos += layer.Zeros()
			c |= 1
		}
	}
	return c
}

// Rank returns the number of occurrences of c in rows [0, pos).
func (wm *WaveletMatrix) Rank(pos int, c uint64) int {
	return wm.prefixRank(pos, c, Equal)
}

// RankLessThan returns the number of rows in [0, pos) whose value is
// strictly less than c.
func (wm *WaveletMatrix) RankLessThan(pos int, c uint64) int {
	return wm.prefixRank(pos, c, LessThan)
}

func (wm *WaveletMatrix) prefixRank(pos int, val uint64, op Operator) int {
	depth := len(wm.layers)
	if depth == 0 {
		// Every encoded value is 0 (D == 0 by construction).
		if op == Equal {
			if val == 0 {
				return pos
			}
			return 0
		}
		if val > 0 {
			return pos
		}
		return 0
	}
	if val>>uint(depth) != 0 {
		// val needs more than D bits, so it is larger than every encoded value.
		if op == Equal {
			return 0
		}
		return pos
	}

	bpos, epos := 0, pos
	rank := 0

	for d := 0; d < depth; d++ {
		layer := wm.layers[d]
		shift := uint(depth - d - 1)
		bit := (val>>shift)&1 == 1

		if bit {
			if op == LessThan {
				rank += layer.Rank(epos, false) - layer.Rank(bpos, false)
			}
			bpos = layer.Rank(bpos, true) + layer.Zeros()
			epos = layer.Rank(epos, true) + layer.Zeros()
		} else {
			bpos = layer.Rank(bpos, false)
			epos = layer.Rank(epos, false)
		}
	}

	if op == Equal {
		return epos - bpos
	}
	return rank
}

// MarshalBinary encodes the layer count, sequence length, and each
// layer's own MarshalBinary blob, length-prefixed so UnmarshalBinary can
// walk them back off without needing a separate index.
func (wm *WaveletMatrix) MarshalBinary() ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, int64(len(wm.layers))); err != nil {
		return nil, err
	}
	if err := binary.Write(buf, binary.LittleEndian, int64(wm.length)); err != nil {
		return nil, err
	}
	for _, layer := range wm.layers {
		blob, err := layer.MarshalBinary()
		if err != nil {
			return nil, err
		}
		if err := binary.Write(buf, binary.LittleEndian, int64(len(blob))); err != nil {
			return nil, err
		}
		buf.Write(blob)
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a WaveletMatrix previously produced by
// MarshalBinary.
func (wm *WaveletMatrix) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)
	var numLayers, length int64
	if err := binary.Read(r, binary.LittleEndian, &numLayers); err != nil {
		return fmt.Errorf("waveletmatrix: reading layer count: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return fmt.Errorf("waveletmatrix: reading length: %w", err)
	}
	if numLayers < 0 || length < 0 {
		return fmt.Errorf("waveletmatrix: negative layer count or length")
	}
	layers := make([]*bitvector.BitVector, 0, numLayers)
	for i := int64(0); i < numLayers; i++ {
		var blobLen int64
		if err := binary.Read(r, binary.LittleEndian, &blobLen); err != nil {
			return fmt.Errorf("waveletmatrix: reading layer %d length: %w", i, err)
		}
		if blobLen < 0 || int64(r.Len()) < blobLen {
			return fmt.Errorf("waveletmatrix: layer %d blob length out of range", i)
		}
		blob := make([]byte, blobLen)
		if _, err := r.Read(blob); err != nil {
			return fmt.Errorf("waveletmatrix: reading layer %d: %w", i, err)
		}
		layer := new(bitvector.BitVector)
		if err := layer.UnmarshalBinary(blob); err != nil {
			return fmt.Errorf("waveletmatrix: layer %d: %w", i, err)
		}
		if layer.Len() != int(length) {
			return fmt.Errorf("waveletmatrix: layer %d length %d does not match matrix length %d", i, layer.Len(), length)
		}
		layers = append(layers, layer)
	}
	if r.Len() != 0 {
		return fmt.Errorf("waveletmatrix: %d trailing bytes", r.Len())
	}
	wm.layers = layers
	wm.length = int(length)
	return nil
}

// bitDepth returns the number of bits needed to represent max(vals), or 0
// if vals is empty or every value is 0.
func bitDepth(vals []uint64) int {
	var max uint64
	for _, v := range vals {
		if v > max {
			max = v
		}
	}
	depth := 0
	for max > 0 {
		max >>= 1
		depth++
	}
	return depth
}
