package suffixarray

import "testing"

func TestDefault_BuildSuffixArray_banana(t *testing.T) {
	text := []byte("banana")
	sa := Default{}.BuildSuffixArray(text)

	want := []int{5, 3, 1, 0, 4, 2}
	if len(sa) != len(want) {
		t.Fatalf("len(sa) = %d, want %d", len(sa), len(want))
	}
	for i := range want {
		if sa[i] != want[i] {
			t.Fatalf("sa = %v, want %v", sa, want)
		}
	}
}

func TestDefault_BuildSuffixArray_isSorted(t *testing.T) {
	text := []byte("mississippi")
	sa := Default{}.BuildSuffixArray(text)

	if len(sa) != len(text) {
		t.Fatalf("len(sa) = %d, want %d", len(sa), len(text))
	}
	for i := 1; i < len(sa); i++ {
		if !lessSuffix(text, sa[i-1], sa[i]) {
			t.Fatalf("suffix at sa[%d]=%d is not less than suffix at sa[%d]=%d", i-1, sa[i-1], i, sa[i])
		}
	}
}

func TestDefault_BuildSuffixArray_empty(t *testing.T) {
	sa := Default{}.BuildSuffixArray(nil)
	if len(sa) != 0 {
		t.Fatalf("len(sa) = %d, want 0", len(sa))
	}
}
