package report

import (
	"context"
	"time"

	"github.com/RishiKendai/verbatim/internal/metrics"
	"github.com/RishiKendai/verbatim/internal/plagiarism"
	"github.com/cactus/go-statsd-client/v5/statsd"
)

// MetricsSink records comparison outcomes in Prometheus and, when a client is
// configured, StatsD.
type MetricsSink struct {
	statsd statsd.Statter
	start  time.Time
}

func NewMetricsSink(client statsd.Statter) *MetricsSink {
	return &MetricsSink{statsd: client, start: time.Now()}
}

func (s *MetricsSink) EmitMatch(_ context.Context, snippet plagiarism.MatchSnippet) error {
	metrics.MatchLength.Observe(float64(snippet.Match.Length))
	return nil
}

func (s *MetricsSink) EmitSummary(_ context.Context, r *plagiarism.Report) error {
	metrics.ComparisonCount.WithLabelValues(StatusCompleted).Inc()
	metrics.ComparisonDuration.Observe(time.Since(s.start).Seconds())
	metrics.PlagiarismPercentage.Observe(r.Percentage)

	risk := statsd.Tag{"risk", r.Risk}
	metrics.Increment("comparison.completed", s.statsd, risk)
	metrics.Gauge("comparison.plagiarized_words", s.statsd, int64(r.PlagiarizedWords), risk)
	metrics.Timing("comparison.duration", s.statsd, s.start)
	return nil
}

func (s *MetricsSink) EmitFailure(context.Context, error) error {
	metrics.ComparisonCount.WithLabelValues(StatusFailed).Inc()
	metrics.Increment("comparison.failed", s.statsd)
	return nil
}
