package report

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/RishiKendai/verbatim/internal/metrics"
	"github.com/RishiKendai/verbatim/internal/models"
	"github.com/RishiKendai/verbatim/internal/plagiarism"
	"github.com/kr/pretty"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func detect(t *testing.T, a, b string) *plagiarism.Report {
	t.Helper()
	d, err := plagiarism.NewDetector(plagiarism.DefaultOptions())
	if err != nil {
		t.Fatalf("new detector: %v", err)
	}
	r, err := d.Detect(context.Background(), a, b)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	return r
}

func TestConsoleSink(t *testing.T) {
	r := detect(t, "the quick brown fox jumps", "the quick brown fox runs")

	var buf bytes.Buffer
	sink := NewConsoleSink(&buf)
	if err := plagiarism.Emit(context.Background(), r, sink); err != nil {
		t.Fatalf("emit: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"PLAGIARIZED FRAGMENTS:",
		"~ the quick brown fox\n",
		"STATISTICS:",
		"\t4-words sentences detected: 1 times\n",
		"\tTotal words: 5\n",
		"\tPlagiarized words: 4\n",
		"\tPlagiarism score: 80.0000%\n",
		"\tExecution time of finding plagiarism and counting statistics: ",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if n := strings.Count(out, "PLAGIARIZED FRAGMENTS:"); n != 1 {
		t.Errorf("header printed %d times", n)
	}
}

func TestConsoleSinkInsufficientLength(t *testing.T) {
	r := detect(t, "too short", "the quick brown fox runs")

	var buf bytes.Buffer
	if err := NewConsoleSink(&buf).EmitSummary(context.Background(), r); err != nil {
		t.Fatalf("emit summary: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, plagiarism.ReasonInsufficientLength) {
		t.Errorf("output missing reason:\n%s", out)
	}
	if !strings.Contains(out, "\tPlagiarism score: 0.0000%\n") {
		t.Errorf("output missing zero score:\n%s", out)
	}
}

func TestConsoleSinkScoreAndTiming(t *testing.T) {
	r := &plagiarism.Report{
		TotalWords:       3,
		PlagiarizedWords: 1,
		Percentage:       plagiarism.Percentage(1, 3),
		Histogram:        map[int]int{},
		Risk:             plagiarism.GetRiskLevel(33.3),
		Elapsed:          1500 * time.Millisecond,
	}

	var buf bytes.Buffer
	if err := NewConsoleSink(&buf).EmitSummary(context.Background(), r); err != nil {
		t.Fatalf("emit summary: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"\tPlagiarism score: 33.3333%\n",
		"\tExecution time of finding plagiarism and counting statistics: 1.5000 seconds\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

type recordingSink struct {
	name    string
	calls   *[]string
	failErr error
}

func (s recordingSink) EmitMatch(_ context.Context, snippet plagiarism.MatchSnippet) error {
	*s.calls = append(*s.calls, s.name+":match:"+snippet.Text)
	return s.failErr
}

func (s recordingSink) EmitSummary(context.Context, *plagiarism.Report) error {
	*s.calls = append(*s.calls, s.name+":summary")
	return s.failErr
}

func (s recordingSink) EmitFailure(_ context.Context, err error) error {
	*s.calls = append(*s.calls, s.name+":failure:"+err.Error())
	return nil
}

func TestMulti(t *testing.T) {
	r := detect(t, "the quick brown fox jumps", "the quick brown fox runs")

	var calls []string
	m := Multi{recordingSink{name: "a", calls: &calls}, recordingSink{name: "b", calls: &calls}}
	if err := plagiarism.Emit(context.Background(), r, m); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if err := m.EmitFailure(context.Background(), errors.New("boom")); err != nil {
		t.Fatalf("emit failure: %v", err)
	}

	want := []string{
		"a:match:the quick brown fox",
		"b:match:the quick brown fox",
		"a:summary",
		"b:summary",
		"a:failure:boom",
		"b:failure:boom",
	}
	if diff := pretty.Diff(want, calls); len(diff) > 0 {
		t.Errorf("calls differ:\n%s", strings.Join(diff, "\n"))
	}
}

func TestMultiStopsOnError(t *testing.T) {
	var calls []string
	failing := errors.New("sink down")
	m := Multi{recordingSink{name: "a", calls: &calls, failErr: failing}, recordingSink{name: "b", calls: &calls}}

	err := m.EmitSummary(context.Background(), &plagiarism.Report{})
	if !errors.Is(err, failing) {
		t.Fatalf("expected sink error, got %v", err)
	}
	if len(calls) != 1 {
		t.Errorf("expected fan-out to stop after first sink, got %v", calls)
	}
}

type fakeSaver struct {
	saved []*models.ComparisonReport
}

func (f *fakeSaver) SaveReport(_ context.Context, r *models.ComparisonReport) error {
	f.saved = append(f.saved, r)
	return nil
}

func TestMongoSink(t *testing.T) {
	r := detect(t, "the quick brown fox jumps", "the quick brown fox runs")
	msg := models.ComparisonMessage{ComparisonID: "cmp-1", DocumentA: "mem://a", DocumentB: "mem://b"}

	saver := &fakeSaver{}
	sink := NewMongoSink(saver, msg)
	if err := plagiarism.Emit(context.Background(), r, sink); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(saver.saved) != 1 {
		t.Fatalf("expected 1 saved report, got %d", len(saver.saved))
	}

	want := &models.ComparisonReport{
		ComparisonID:     "cmp-1",
		DocumentA:        "mem://a",
		DocumentB:        "mem://b",
		Status:           StatusCompleted,
		TotalWords:       5,
		SourceWords:      5,
		PlagiarizedWords: 4,
		Percentage:       80,
		Histogram:        map[string]int{"4": 1},
		Matches:          []models.MatchRecord{{StartA: 0, StartB: 0, Length: 4, Text: "the quick brown fox"}},
		Risk:             r.Risk,
		MinWindowWords:   4,
		ElapsedSeconds:   r.Elapsed.Seconds(),
	}
	if diff := pretty.Diff(want, saver.saved[0]); len(diff) > 0 {
		t.Errorf("saved report differs:\n%s", strings.Join(diff, "\n"))
	}

	if err := sink.EmitFailure(context.Background(), errors.New("source unavailable")); err != nil {
		t.Fatalf("emit failure: %v", err)
	}
	failed := saver.saved[1]
	if failed.Status != StatusFailed || failed.Error != "source unavailable" {
		t.Errorf("unexpected failed report: %# v", pretty.Formatter(failed))
	}
}

func TestSQLiteSink(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "reports.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	r := detect(t, "the quick brown fox jumps over the lazy dog", "the quick brown fox runs over the lazy dog")

	sink := NewSQLiteSink(db, "cmp-1", "a.txt", "b.txt")
	if err := plagiarism.Emit(ctx, r, sink); err != nil {
		t.Fatalf("emit: %v", err)
	}
	// A second run for the same comparison replaces the first.
	if err := plagiarism.Emit(ctx, r, NewSQLiteSink(db, "cmp-1", "a.txt", "b.txt")); err != nil {
		t.Fatalf("emit again: %v", err)
	}

	got, err := LoadComparison(ctx, db, "cmp-1")
	if err != nil {
		t.Fatalf("load comparison: %v", err)
	}
	want := &StoredComparison{
		ComparisonID:     "cmp-1",
		Status:           StatusCompleted,
		TotalWords:       r.TotalWords,
		PlagiarizedWords: r.PlagiarizedWords,
		Percentage:       r.Percentage,
		Matches:          len(r.Matches),
	}
	if diff := pretty.Diff(want, got); len(diff) > 0 {
		t.Errorf("stored comparison differs:\n%s", strings.Join(diff, "\n"))
	}

	if err := NewSQLiteSink(db, "cmp-2", "a.txt", "missing.txt").EmitFailure(ctx, errors.New("not found")); err != nil {
		t.Fatalf("emit failure: %v", err)
	}
	failed, err := LoadComparison(ctx, db, "cmp-2")
	if err != nil {
		t.Fatalf("load failed comparison: %v", err)
	}
	if failed.Status != StatusFailed || failed.Matches != 0 {
		t.Errorf("unexpected failed comparison: %# v", pretty.Formatter(failed))
	}
}

func TestMetricsSink(t *testing.T) {
	r := detect(t, "the quick brown fox jumps", "the quick brown fox runs")

	completed := testutil.ToFloat64(metrics.ComparisonCount.WithLabelValues(StatusCompleted))
	failed := testutil.ToFloat64(metrics.ComparisonCount.WithLabelValues(StatusFailed))

	sink := NewMetricsSink(nil)
	if err := plagiarism.Emit(context.Background(), r, sink); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if err := sink.EmitFailure(context.Background(), errors.New("boom")); err != nil {
		t.Fatalf("emit failure: %v", err)
	}

	if got := testutil.ToFloat64(metrics.ComparisonCount.WithLabelValues(StatusCompleted)); got != completed+1 {
		t.Errorf("completed count = %v, want %v", got, completed+1)
	}
	if got := testutil.ToFloat64(metrics.ComparisonCount.WithLabelValues(StatusFailed)); got != failed+1 {
		t.Errorf("failed count = %v, want %v", got, failed+1)
	}
}
