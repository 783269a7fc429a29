package plagiarism

import (
	"sort"
	"testing"
)

func TestBuildIndex(t *testing.T) {
	hasher := PolyHasher{Base: DefaultHashBase, Modulus: DefaultHashModulus}
	tokens := Tokenize("a b c a b c d a b c e f g h i j k")

	for w := 1; w <= len(tokens)+2; w++ {
		idx := BuildIndex(tokens, w, hasher)
		want := max(0, len(tokens)-w+1)
		if idx.Len() != want {
			t.Errorf("w=%d: %d entries, want %d", w, idx.Len(), want)
		}

		seen := 0
		for h, offsets := range idx.buckets {
			if !sort.IntsAreSorted(offsets) {
				t.Errorf("w=%d: bucket %d not ascending: %v", w, h, offsets)
			}
			for _, j := range offsets {
				if got := hasher.Sum(tokens[j : j+w]); got != h {
					t.Errorf("w=%d: offset %d stored under %d, hashes to %d", w, j, h, got)
				}
			}
			seen += len(offsets)
		}
		if seen != want {
			t.Errorf("w=%d: buckets hold %d offsets, want %d", w, seen, want)
		}
	}
}

func TestIndexCandidatesForRepeatedWindow(t *testing.T) {
	hasher := PolyHasher{Base: DefaultHashBase, Modulus: DefaultHashModulus}
	tokens := Tokenize("a b c a b c d a b c")
	idx := BuildIndex(tokens, 3, hasher)

	var equal []int
	for _, j := range idx.Candidates(hasher.Sum([]string{"a", "b", "c"})) {
		if windowEqual(tokens, []string{"a", "b", "c"}, j, 0, 3) {
			equal = append(equal, j)
		}
	}
	want := []int{0, 3, 7}
	if len(equal) != len(want) {
		t.Fatalf("equal candidates = %v, want %v", equal, want)
	}
	for i := range want {
		if equal[i] != want[i] {
			t.Fatalf("equal candidates = %v, want %v", equal, want)
		}
	}
}

func TestExtendIsMaximal(t *testing.T) {
	a := Tokenize("x the quick brown fox jumps over y")
	b := Tokenize("the quick brown fox jumps over the lazy dog")

	k := Extend(a, b, 1, 0, 4)
	if k != 6 {
		t.Fatalf("Extend = %d, want 6", k)
	}
	if 1+k < len(a) && k < len(b) && a[1+k] == b[k] {
		t.Errorf("extension stopped early at %d", k)
	}

	// Extension stops at the end of either document.
	if k := Extend(a[1:7], b, 0, 0, 4); k != 6 {
		t.Errorf("Extend at end of suspect = %d, want 6", k)
	}
}
