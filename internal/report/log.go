package report

import (
	"context"

	"github.com/RishiKendai/verbatim/internal/plagiarism"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogSink writes results as structured log events.
type LogSink struct {
	logger zerolog.Logger
}

func NewLogSink(comparisonID string) *LogSink {
	return &LogSink{logger: log.With().Str("comparisonId", comparisonID).Logger()}
}

func (s *LogSink) EmitMatch(_ context.Context, snippet plagiarism.MatchSnippet) error {
	s.logger.Debug().
		Int("startA", snippet.Match.StartA).
		Int("startB", snippet.Match.StartB).
		Int("length", snippet.Match.Length).
		Str("text", snippet.Text).
		Msg("Match")
	return nil
}

func (s *LogSink) EmitSummary(_ context.Context, r *plagiarism.Report) error {
	s.logger.Info().
		Int("totalWords", r.TotalWords).
		Int("plagiarizedWords", r.PlagiarizedWords).
		Float64("percentage", r.Percentage).
		Int("matches", len(r.Matches)).
		Str("risk", r.Risk).
		Str("reason", r.Reason).
		Msg("Comparison summary")
	return nil
}

func (s *LogSink) EmitFailure(_ context.Context, err error) error {
	s.logger.Error().Err(err).Msg("Comparison failed")
	return nil
}
