package report

import (
	"context"

	"github.com/RishiKendai/verbatim/internal/plagiarism"
)

// Multi fans results out to several sinks in order. The first error stops
// the fan-out and is returned.
type Multi []plagiarism.ReportSink

func (m Multi) EmitMatch(ctx context.Context, snippet plagiarism.MatchSnippet) error {
	for _, s := range m {
		if err := s.EmitMatch(ctx, snippet); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) EmitSummary(ctx context.Context, r *plagiarism.Report) error {
	for _, s := range m {
		if err := s.EmitSummary(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

// EmitFailure forwards to every sink that records failures.
func (m Multi) EmitFailure(ctx context.Context, err error) error {
	for _, s := range m {
		if fs, ok := s.(plagiarism.FailureSink); ok {
			if ferr := fs.EmitFailure(ctx, err); ferr != nil {
				return ferr
			}
		}
	}
	return nil
}
