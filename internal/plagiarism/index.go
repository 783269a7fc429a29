package plagiarism

// SourceIndex maps a window hash to the ascending start offsets of every
// window in the source document with that hash. It is never written after
// BuildIndex returns, so concurrent readers need no locking.
type SourceIndex struct {
	window  int
	buckets map[uint64][]int
	entries int
}

// BuildIndex hashes every window of size w in tokens. A document shorter than
// w yields an empty index.
func BuildIndex(tokens []string, w int, hasher WindowHasher) *SourceIndex {
	idx := &SourceIndex{window: w, buckets: make(map[uint64][]int)}
	if w <= 0 || len(tokens) < w {
		return idx
	}
	for i := 0; i+w <= len(tokens); i++ {
		h := hasher.Sum(tokens[i : i+w])
		idx.buckets[h] = append(idx.buckets[h], i)
		idx.entries++
	}
	return idx
}

// Candidates returns the offsets stored under hash in ascending order.
// The slice must not be modified.
func (x *SourceIndex) Candidates(hash uint64) []int {
	return x.buckets[hash]
}

// Len returns the number of (hash, offset) entries.
func (x *SourceIndex) Len() int { return x.entries }

// Buckets returns the number of distinct hashes.
func (x *SourceIndex) Buckets() int { return len(x.buckets) }

func (x *SourceIndex) Window() int { return x.window }
