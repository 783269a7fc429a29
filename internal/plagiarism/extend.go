package plagiarism

// Match is a confirmed run of identical tokens: Length tokens starting at
// StartA in the suspect document and StartB in the source document.
type Match struct {
	StartA int `json:"startA"`
	StartB int `json:"startB"`
	Length int `json:"length"`
}

// End returns the first position in the suspect document after the match.
func (m Match) End() int { return m.StartA + m.Length }

// Extend grows a confirmed window of w equal tokens at a[i:] and b[j:] while
// both documents keep agreeing and returns the final length.
func Extend(a, b []string, i, j, w int) int {
	k := w
	for i+k < len(a) && j+k < len(b) && a[i+k] == b[j+k] {
		k++
	}
	return k
}

func windowEqual(a, b []string, i, j, w int) bool {
	for k := 0; k < w; k++ {
		if a[i+k] != b[j+k] {
			return false
		}
	}
	return true
}

// matcher probes single positions of the suspect document against the index.
// It holds read-only state and is shared by all scan workers.
type matcher struct {
	a, b   []string
	window int
	index  *SourceIndex
	hasher WindowHasher
}

// probe returns the match starting at i, if any. The first candidate offset
// whose window content equals a[i:i+w] wins and no other offset is tried.
func (m *matcher) probe(i int) (Match, bool) {
	w := m.window
	h := m.hasher.Sum(m.a[i : i+w])
	for _, j := range m.index.Candidates(h) {
		if !windowEqual(m.a, m.b, i, j, w) {
			continue
		}
		return Match{StartA: i, StartB: j, Length: Extend(m.a, m.b, i, j, w)}, true
	}
	return Match{}, false
}
