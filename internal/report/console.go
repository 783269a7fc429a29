package report

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/RishiKendai/verbatim/internal/plagiarism"
)

const rule = "----------------------------------------------------------"

// ConsoleSink prints fragments and statistics in the classic terminal layout.
type ConsoleSink struct {
	w      io.Writer
	header bool
}

func NewConsoleSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{w: w}
}

func (s *ConsoleSink) writeHeader() error {
	if s.header {
		return nil
	}
	s.header = true
	_, err := fmt.Fprintf(s.w, "\n--------------------  PLAGIARIZED FRAGMENTS:  %s \n\n", rule)
	return err
}

func (s *ConsoleSink) EmitMatch(_ context.Context, snippet plagiarism.MatchSnippet) error {
	if err := s.writeHeader(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(s.w, "~ %s\n", snippet.Text)
	return err
}

func (s *ConsoleSink) EmitSummary(_ context.Context, r *plagiarism.Report) error {
	if err := s.writeHeader(); err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n--------------  STATISTICS:  %s \n\n", rule)
	if r.Reason != "" {
		fmt.Fprintf(&b, "\t%s (minimum window is %d words)\n", r.Reason, r.MinWindowWords)
	}
	for _, length := range r.SortedLengths() {
		fmt.Fprintf(&b, "\t%d-words sentences detected: %d times\n", length, r.Histogram[length])
	}
	fmt.Fprintf(&b, "\n\tTotal words: %d\n", r.TotalWords)
	fmt.Fprintf(&b, "\tPlagiarized words: %d\n", r.PlagiarizedWords)
	fmt.Fprintf(&b, "\tPlagiarism score: %.4f%%\n", r.Percentage)
	fmt.Fprintf(&b, "\tRisk: %s\n\n", r.Risk)
	fmt.Fprintf(&b, "\tExecution time of finding plagiarism and counting statistics: %.4f seconds\n\n", r.Elapsed.Seconds())

	_, err := io.WriteString(s.w, b.String())
	return err
}
