package plagiarism

import (
	"sort"
	"strings"
	"time"
)

// ReasonInsufficientLength is set on reports for which no analysis was possible.
const ReasonInsufficientLength = "no overlap analysis possible"

// Report aggregates a finished scan.
type Report struct {
	TotalWords       int         `json:"totalWords"`
	PlagiarizedWords int         `json:"plagiarizedWords"`
	Percentage       float64     `json:"percentage"`
	Histogram        map[int]int `json:"histogram"`
	Matches          []Match     `json:"matches"`
	Snippets         []string    `json:"snippets"`
	Risk             string      `json:"risk"`
	Reason           string      `json:"reason,omitempty"`
	MinWindowWords   int         `json:"minWindowWords"`
	SourceWords      int         `json:"sourceWords"`
	// Elapsed covers tokenizing, scanning and building the report.
	Elapsed time.Duration `json:"-"`
}

// Err returns ErrInsufficientLength when the report carries no analysis.
func (r *Report) Err() error {
	if r.Reason == ReasonInsufficientLength {
		return ErrInsufficientLength
	}
	return nil
}

// SortedLengths returns the histogram keys in ascending order.
func (r *Report) SortedLengths() []int {
	lengths := make([]int, 0, len(r.Histogram))
	for l := range r.Histogram {
		lengths = append(lengths, l)
	}
	sort.Ints(lengths)
	return lengths
}

// MatchSnippet is one accepted match as handed to a ReportSink.
type MatchSnippet struct {
	Index int
	Match Match
	Text  string
}

// Snippet returns the i-th match together with its text.
func (r *Report) Snippet(i int) MatchSnippet {
	return MatchSnippet{Index: i, Match: r.Matches[i], Text: r.Snippets[i]}
}

// Percentage returns 100*plagiarized/total, or 0 for an empty document.
func Percentage(plagiarized, total int) float64 {
	if total <= 0 {
		return 0
	}
	return 100 * float64(plagiarized) / float64(total)
}

func emptyReport(totalA, totalB, w int) *Report {
	return &Report{
		TotalWords:     totalA,
		SourceWords:    totalB,
		Histogram:      map[int]int{},
		Matches:        []Match{},
		Snippets:       []string{},
		Risk:           GetRiskLevel(0),
		Reason:         ReasonInsufficientLength,
		MinWindowWords: w,
	}
}

// buildReport derives the report from the frozen scan result.
func buildReport(a []string, totalB int, res *scanResult, w int) *Report {
	plagiarized := int(res.coverage.GetCardinality())
	pct := Percentage(plagiarized, len(a))

	snippets := make([]string, len(res.matches))
	for i, m := range res.matches {
		snippets[i] = strings.Join(a[m.StartA:m.End()], " ")
	}
	histogram := make(map[int]int, len(res.histogram))
	for l, c := range res.histogram {
		histogram[l] = c
	}
	matches := res.matches
	if matches == nil {
		matches = []Match{}
	}

	return &Report{
		TotalWords:       len(a),
		SourceWords:      totalB,
		PlagiarizedWords: plagiarized,
		Percentage:       pct,
		Histogram:        histogram,
		Matches:          matches,
		Snippets:         snippets,
		Risk:             GetRiskLevel(pct),
		MinWindowWords:   w,
	}
}
