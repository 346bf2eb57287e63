package fmindex

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/sergi/go-diff/diffmatchpatch"
	"golang.org/x/exp/slices"
)

func TestConcreteScenario_QuickBrownFox(t *testing.T) {
	fm, err := New([]byte("The quick brown fox was very quick."))
	if err != nil {
		t.Fatal(err)
	}
	if !fm.Contains([]byte("quick")) {
		t.Fatal("Contains(quick) = false, want true")
	}
	if fm.Contains([]byte("vary")) {
		t.Fatal("Contains(vary) = true, want false")
	}
	if got := fm.Counts([]byte("quick")); got != 2 {
		t.Fatalf("Counts(quick) = %d, want 2", got)
	}
	r := fm.Search([]byte("quick"))
	locs := fm.LocateRange(r)
	slices.Sort(locs)
	if diff := cmp.Diff([]int{4, 29}, locs); diff != "" {
		t.Fatalf("locations of quick mismatch (-want +got):\n%s", diff)
	}
}

func TestConcreteScenario_Abracadabra(t *testing.T) {
	fm, err := New([]byte("abracadabra"))
	if err != nil {
		t.Fatal(err)
	}
	if got := fm.Counts([]byte("a")); got != 5 {
		t.Fatalf("Counts(a) = %d, want 5", got)
	}
	if got := fm.Counts([]byte("abra")); got != 2 {
		t.Fatalf("Counts(abra) = %d, want 2", got)
	}
	r := fm.Search([]byte("abra"))
	locs := fm.LocateRange(r)
	slices.Sort(locs)
	if diff := cmp.Diff([]int{0, 7}, locs); diff != "" {
		t.Fatalf("locations of abra mismatch (-want +got):\n%s", diff)
	}
	if fm.Contains([]byte("abracadabrx")) {
		t.Fatal("Contains(abracadabrx) = true, want false")
	}
}

func TestConcreteScenario_Mississippi(t *testing.T) {
	fm, err := New([]byte("mississippi"))
	if err != nil {
		t.Fatal(err)
	}
	if got := fm.Counts([]byte("issi")); got != 2 {
		t.Fatalf("Counts(issi) = %d, want 2", got)
	}
	r := fm.Search([]byte("issi"))
	locs := fm.LocateRange(r)
	slices.Sort(locs)
	if diff := cmp.Diff([]int{1, 4}, locs); diff != "" {
		t.Fatalf("locations of issi mismatch (-want +got):\n%s", diff)
	}
	if got := fm.Counts([]byte("ss")); got != 2 {
		t.Fatalf("Counts(ss) = %d, want 2", got)
	}
}

func TestLocate_fullPermutationMatchesBruteForceSuffixArray(t *testing.T) {
	text := []byte("mississippi")
	fm, err := New(text)
	if err != nil {
		t.Fatal(err)
	}

	n := len(text)
	sa := make([]int, n)
	for i := range sa {
		sa[i] = i
	}
	slices.SortFunc(sa, func(a, b int) int {
		return compareSuffixForTest(text, a, b)
	})
	fullSA := append([]int{n}, sa...)

	for i := 0; i < fm.Len(); i++ {
		if got := fm.Locate(i); got != fullSA[i] {
			t.Fatalf("Locate(%d) = %d, want %d", i, got, fullSA[i])
		}
	}
}

// compareSuffixForTest returns a negative, zero, or positive value per
// golang.org/x/exp/slices.SortFunc's three-way comparator contract.
func compareSuffixForTest(text []byte, i, j int) int {
	a, b := text[i:], text[j:]
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for k := 0; k < n; k++ {
		if a[k] != b[k] {
			return int(a[k]) - int(b[k])
		}
	}
	return len(a) - len(b)
}

func TestCounts_emptyPatternMatchesEverything(t *testing.T) {
	fm, err := New([]byte("banana"))
	if err != nil {
		t.Fatal(err)
	}
	if got := fm.Counts(nil); got != fm.Len() {
		t.Fatalf("Counts(nil) = %d, want %d", got, fm.Len())
	}
}

func TestNew_rejectsSentinelByte(t *testing.T) {
	_, err := New([]byte{'a', 0, 'b'})
	if err == nil {
		t.Fatal("expected error for text containing sentinel byte")
	}
	if _, ok := err.(*InvalidInputError); !ok {
		t.Fatalf("expected *InvalidInputError, got %T", err)
	}
}

func TestNew_rejectsTooCoarseSamplingRate(t *testing.T) {
	_, err := New([]byte("hi"), WithSamplingRate(0.01))
	if err == nil {
		t.Fatal("expected error for a sampling rate too coarse for the text length")
	}
}

func TestLocate_panicsOutOfRange(t *testing.T) {
	fm, err := New([]byte("banana"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out-of-range Locate")
		}
	}()
	fm.Locate(fm.Len())
}

func TestPreviousString_endsWithRowsBWTCharacter(t *testing.T) {
	text := []byte("mississippi")
	fm, err := New(text)
	if err != nil {
		t.Fatal(err)
	}

	r := fm.Search([]byte("issi"))
	for i := r.Start; i < r.End; i++ {
		s := fm.PreviousString(i, 3)
		if s == "" {
			t.Fatalf("PreviousString(%d, 3) is empty", i)
		}
		loc := fm.Locate(i)
		want := string(text[loc-1]) // the byte accessed at row i itself, T[loc-1]
		if !strings.HasSuffix(s, want) {
			t.Fatalf("PreviousString(%d, 3) = %q, want suffix %q", i, s, want)
		}
	}
}

func TestPreviousString_matchesOriginalTextWindow(t *testing.T) {
	text := "The quick brown fox was very quick."
	fm, err := New([]byte(text))
	if err != nil {
		t.Fatal(err)
	}

	r := fm.Search([]byte("quick"))
	for i := r.Start; i < r.End; i++ {
		loc := fm.Locate(i)
		got := fm.PreviousString(i, 4)

		start := loc - len(got)
		if start < 0 {
			start = 0
		}
		want := text[start:loc]

		if got != want {
			dmp := diffmatchpatch.New()
			diffs := dmp.DiffMain(want, got, false)
			t.Errorf("PreviousString(%d, 4) diverged from the source text:\n%s", i, dmp.DiffPrettyText(diffs))
		}

		diff := difflib.UnifiedDiff{
			A:        difflib.SplitLines(want),
			B:        difflib.SplitLines(got),
			FromFile: "text window",
			ToFile:   "PreviousString",
			Context:  1,
		}
		diffText, _ := difflib.GetUnifiedDiffString(diff)
		if diffText != "" && got != want {
			t.Errorf("unified diff:\n%s", diffText)
		}
	}
}

func TestPreviousString_zeroLengthIsEmpty(t *testing.T) {
	fm, err := New([]byte("banana"))
	if err != nil {
		t.Fatal(err)
	}
	if got := fm.PreviousString(0, 0); got != "" {
		t.Fatalf("PreviousString(0, 0) = %q, want empty", got)
	}
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	texts := []string{
		"The quick brown fox was very quick.",
		"abracadabra",
		"mississippi",
	}
	for _, text := range texts {
		fm, err := New([]byte(text))
		if err != nil {
			t.Fatalf("New(%q): %v", text, err)
		}
		blob, err := fm.Serialize()
		if err != nil {
			t.Fatalf("Serialize(%q): %v", text, err)
		}
		got, err := Deserialize(blob)
		if err != nil {
			t.Fatalf("Deserialize(%q): %v", text, err)
		}
		for _, pattern := range []string{"a", "i", "o", "qu"} {
			if got.Contains([]byte(pattern)) != fm.Contains([]byte(pattern)) {
				t.Fatalf("%q: Contains(%q) mismatch after round trip", text, pattern)
			}
			if got.Counts([]byte(pattern)) != fm.Counts([]byte(pattern)) {
				t.Fatalf("%q: Counts(%q) mismatch after round trip", text, pattern)
			}
		}
		for i := 0; i < fm.Len(); i++ {
			if got.Locate(i) != fm.Locate(i) {
				t.Fatalf("%q: Locate(%d) mismatch after round trip", text, i)
			}
		}
	}
}

func TestDeserialize_rejectsCorruptChecksum(t *testing.T) {
	fm, err := New([]byte("banana"))
	if err != nil {
		t.Fatal(err)
	}
	blob, err := fm.Serialize()
	if err != nil {
		t.Fatal(err)
	}
	blob[0] ^= 0xff
	if _, err := Deserialize(blob); err == nil {
		t.Fatal("expected error deserializing corrupted blob")
	} else if _, ok := err.(*CorruptIndexError); !ok {
		t.Fatalf("expected *CorruptIndexError, got %T", err)
	}
}

func TestDeserialize_rejectsTruncatedData(t *testing.T) {
	if _, err := Deserialize([]byte("too short")); err == nil {
		t.Fatal("expected error deserializing truncated blob")
	}
}
