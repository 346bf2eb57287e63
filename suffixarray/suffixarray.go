/*
Package suffixarray defines the external collaborator the FM-index
depends on to turn a text into its suffix array, plus a default,
dependency-free implementation suitable for the module's own tests and
for modest-sized texts.

The FM-index only ever asks one question of this collaborator: for text
T, what is the starting position of the i-th suffix in lexicographic
order, for every i? The Builder interface exists so the construction cost
(which dominates building an FM-index) is swappable — a caller indexing
gigabyte-scale texts can supply a DC3/SA-IS builder without touching
anything downstream of the suffix array.
*/
package suffixarray

import "sort"

// Builder produces the suffix array of text: BuildSuffixArray(text)[i] is
// the starting offset, within text, of the i-th suffix in lexicographic
// order. The returned slice has length len(text).
type Builder interface {
	BuildSuffixArray(text []byte) []int
}

// Default is a comparison-sort Builder. It runs in O(n^2 log n) in the
// worst case (each comparison can walk the full remaining suffix), which
// is fine for the texts this module's own tests build indexes over but
// is not the builder you want for multi-megabyte inputs.
type Default struct{}

// BuildSuffixArray implements Builder by sorting every suffix of text
// with the standard library's sort.Slice, grounded in the tagged-suffix
// sort bio.SuffixArray uses for its own lexicographic ordering.
func (Default) BuildSuffixArray(text []byte) []int {
	n := len(text)
	sa := make([]int, n)
	for i := range sa {
		sa[i] = i
	}
	sort.Slice(sa, func(i, j int) bool {
		return lessSuffix(text, sa[i], sa[j])
	})
	return sa
}

func lessSuffix(text []byte, i, j int) bool {
	a, b := text[i:], text[j:]
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for k := 0; k < n; k++ {
		if a[k] != b[k] {
			return a[k] < b[k]
		}
	}
	return len(a) < len(b)
}
