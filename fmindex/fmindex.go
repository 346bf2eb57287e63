/*
Package fmindex implements an FM-index: a compressed, self-indexing
full-text substring search structure for a single text T, built once and
queried many times. It answers existence (Contains), occurrence count
(Counts), occurrence locations (Locate), and bounded backward context
reconstruction (PreviousString) without storing T itself or the full
suffix array.

# How it fits together

Construction needs a suffix array of T, which it gets from a
suffixarray.Builder (an external collaborator — any suffix-array
algorithm will do, since the FM-index only ever reads offsets out of it).
From the suffix array it derives two things: the Burrows-Wheeler
transform of T, encoded as a waveletmatrix.WaveletMatrix so it supports
O(D) rank and rank-less-than, and a sparsely sampled copy of the suffix
array (the SSA) dense enough to reconstruct any row's text offset in
O(1/rate) LF-mapping steps.

Backward search narrows a row range one pattern byte at a time from the
end of the pattern to the front — each step is two wavelet-matrix rank
calls plus one rank-less-than call, so a full search is O(|P|). Locate walks LF-mappings from a row
until it lands on a sampled row, then adds the number of steps taken.
PreviousString does the same LF walk but keeps every byte it passes over
instead of discarding it, stopping once it has decoded enough Unicode
code points or reached the sentinel row.
*/
package fmindex

import (
	"unicode/utf8"

	"github.com/bebop/fmindex/suffixarray"
	"github.com/bebop/fmindex/waveletmatrix"
)

// DefaultSamplingRate is the SSA sampling density used by New when no
// Option overrides it. A rate of 0.25 stores roughly one suffix-array
// entry for every four BWT rows, trading memory for locate cost. Rows are
// sampled by BWT position rather than by text offset, so the number of
// LF-mapping steps a single Locate takes is not bounded by four.
const DefaultSamplingRate = 0.25

// sentinel is the reserved byte value marking end-of-text in the BWT.
// Texts containing this byte are rejected at construction, per the
// design notes on sentinel handling.
const sentinel = 0

// Range is a half-open interval [Start, End) over BWT rows. It is empty
// iff End <= Start.
type Range struct {
	Start, End int
}

// Empty reports whether the range contains no rows.
func (r Range) Empty() bool {
	return r.End <= r.Start
}

// FMIndex is an immutable index over a single text T, built once via New
// or Deserialize. All query methods are pure functions of the index and
// their arguments and are safe to call concurrently from multiple
// goroutines without external synchronization.
type FMIndex struct {
	wm        *waveletmatrix.WaveletMatrix
	sampledSA []int
	rate      float64
	div       int
}

// Option configures New.
type Option func(*config)

type config struct {
	rate    float64
	builder suffixarray.Builder
}

// WithSamplingRate overrides the SSA sampling rate. rate must be in
// (0, 1]; New returns an InvalidInputError if the resulting sampling
// stride would be zero for the given text.
func WithSamplingRate(rate float64) Option {
	return func(c *config) { c.rate = rate }
}

// WithSuffixArrayBuilder overrides the suffix-array collaborator used at
// construction time. The default is suffixarray.Default{}.
func WithSuffixArrayBuilder(b suffixarray.Builder) Option {
	return func(c *config) { c.builder = b }
}

// New builds an FMIndex over text. Construction fails with an
// InvalidInputError if text contains the reserved sentinel byte 0, or if
// the sampling rate is too coarse to take even one sample of the text's
// suffix array.
func New(text []byte, opts ...Option) (*FMIndex, error) {
	cfg := config{rate: DefaultSamplingRate, builder: suffixarray.Default{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	for _, b := range text {
		if b == sentinel {
			return nil, &InvalidInputError{Reason: "text contains the reserved sentinel byte 0"}
		}
	}

	n := len(text)
	nb := n + 1 // +1 for the end-of-text sentinel row

	sampleCount := int(float64(nb) * cfg.rate)
	if sampleCount == 0 {
		return nil, &InvalidInputError{Reason: "sampling rate too small for text length"}
	}
	div := nb / sampleCount
	if div == 0 {
		return nil, &InvalidInputError{Reason: "sampling rate above 1 gives a zero sampling stride"}
	}

	sa := cfg.builder.BuildSuffixArray(text)

	// Row 0's suffix is the sentinel itself, whose true offset in the
	// cyclic rotation space is n (one past the last real byte), not 0.
	// Locate's wraparound subtraction relies on this: an LF walk that
	// bottoms out at row 0 contributes n to the running total, which
	// then wraps back down to a real offset in [0, n) if it overshoots.
	sampledSA := make([]int, 0, sampleCount+1)
	sampledSA = append(sampledSA, n)
	for i := 1; i < nb; i++ {
		if i%div == 0 {
			sampledSA = append(sampledSA, sa[i-1])
		}
	}

	bwt := make([]uint64, nb)
	bwt[0] = uint64(text[n-1])
	for k := 1; k < nb; k++ {
		s := sa[k-1]
		if s == 0 {
			bwt[k] = sentinel
		} else {
			bwt[k] = uint64(text[s-1])
		}
	}

	return &FMIndex{
		wm:        waveletmatrix.New(bwt),
		sampledSA: sampledSA,
		rate:      cfg.rate,
		div:       div,
	}, nil
}

// Len returns the number of BWT rows, i.e. len(T) + 1.
func (f *FMIndex) Len() int {
	return f.wm.Len()
}

// Search performs backward search for pattern and returns the half-open
// row range of BWT rows whose suffix begins with pattern. An empty
// pattern is defined to match every row.
func (f *FMIndex) Search(pattern []byte) Range {
	start, end := 0, f.wm.Len()
	for i := len(pattern) - 1; i >= 0; i-- {
		if start >= end {
			return Range{}
		}
		b := uint64(pattern[i])
		lessThan := f.wm.RankLessThan(f.wm.Len(), b)
		start = f.wm.Rank(start, b) + lessThan
		end = f.wm.Rank(end, b) + lessThan
		if start >= end {
			return Range{}
		}
	}
	return Range{Start: start, End: end}
}

// Contains reports whether pattern occurs anywhere in T.
func (f *FMIndex) Contains(pattern []byte) bool {
	r := f.Search(pattern)
	return !r.Empty()
}

// Counts returns the number of occurrences of pattern in T.
func (f *FMIndex) Counts(pattern []byte) int {
	r := f.Search(pattern)
	return r.End - r.Start
}

// Locate returns the starting offset in T of the suffix corresponding to
// BWT row i. i must be in [0, Len()); out-of-range values are a
// programming error and Locate panics rather than returning a wrong
// answer silently.
func (f *FMIndex) Locate(i int) int {
	if i < 0 || i >= f.wm.Len() {
		panic("fmindex: locate row out of range")
	}

	j, t := i, 0
	for j%f.div != 0 {
		c := f.wm.Access(j)
		j = f.lf(j, c)
		t++
	}

	pos := f.sampledSA[j/f.div] + t
	if pos >= f.wm.Len() {
		pos -= f.wm.Len()
	}
	return pos
}

// LocateRange returns the starting offsets in T for every row in r, in
// row order (not sorted by offset).
func (f *FMIndex) LocateRange(r Range) []int {
	if r.Empty() {
		return nil
	}
	offsets := make([]int, 0, r.End-r.Start)
	for i := r.Start; i < r.End; i++ {
		offsets = append(offsets, f.Locate(i))
	}
	return offsets
}

// PreviousString reconstructs up to length Unicode code points of the
// text immediately preceding row i's suffix — the window
// T[Locate(i)-length:Locate(i)], clipped at the start of T — by walking
// backward through T via LF-mapping and keeping every byte the walk
// passes over. Row i's own BWT character, T[Locate(i)-1], is always the
// last byte emitted. It stops early once the walk reaches the row whose
// BWT symbol is the sentinel (the suffix starting at offset 0), since
// there is no text before the start of T. If the
// accumulated bytes never form valid UTF-8 (for example i sits inside a
// multi-byte rune with no way to recover its lead byte), PreviousString
// returns the empty string.
//
// The scratch buffer is sized at utf8.UTFMax bytes per requested code
// point — the modern worst case for a single rune — rather than the
// historical 6-byte bound some older UTF-8 decoders assumed.
func (f *FMIndex) PreviousString(i, length int) string {
	if i < 0 || i >= f.wm.Len() {
		panic("fmindex: previous_string row out of range")
	}
	if length <= 0 {
		return ""
	}

	buf := make([]byte, length*utf8.UTFMax)
	pos := len(buf)
	j := i

	for {
		c := f.wm.Access(j)
		if c == sentinel {
			break
		}
		pos--
		buf[pos] = byte(c)

		if utf8.Valid(buf[pos:]) {
			if s := string(buf[pos:]); utf8.RuneCountInString(s) >= length {
				return s
			}
		}

		next := f.lf(j, c)
		if next == 0 || pos == 0 {
			j = next
			break
		}
		j = next
	}

	if utf8.Valid(buf[pos:]) {
		return string(buf[pos:])
	}
	return ""
}

// lf computes the LF-mapping of row j whose BWT symbol is c.
func (f *FMIndex) lf(j int, c uint64) int {
	return f.wm.Rank(j, c) + f.wm.RankLessThan(f.wm.Len(), c)
}
