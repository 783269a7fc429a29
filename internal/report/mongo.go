package report

import (
	"context"

	"github.com/RishiKendai/verbatim/internal/models"
	"github.com/RishiKendai/verbatim/internal/plagiarism"
)

// ReportSaver persists comparison reports.
type ReportSaver interface {
	SaveReport(ctx context.Context, report *models.ComparisonReport) error
}

// MongoSink stores the finished report of one comparison.
type MongoSink struct {
	saver ReportSaver
	msg   models.ComparisonMessage
}

func NewMongoSink(saver ReportSaver, msg models.ComparisonMessage) *MongoSink {
	return &MongoSink{saver: saver, msg: msg}
}

// EmitMatch is a no-op; matches are stored with the summary.
func (s *MongoSink) EmitMatch(context.Context, plagiarism.MatchSnippet) error {
	return nil
}

func (s *MongoSink) EmitSummary(ctx context.Context, r *plagiarism.Report) error {
	return s.saver.SaveReport(ctx, NewComparisonReport(s.msg.ComparisonID, s.msg.DocumentA, s.msg.DocumentB, r))
}

func (s *MongoSink) EmitFailure(ctx context.Context, err error) error {
	return s.saver.SaveReport(ctx, NewFailedReport(s.msg.ComparisonID, s.msg.DocumentA, s.msg.DocumentB, err))
}
