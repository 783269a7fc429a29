package plagiarism

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// DocumentSource yields the raw text of a document.
type DocumentSource interface {
	Load(ctx context.Context, id string) (string, error)
}

// ReportSink consumes the results of a run: one EmitMatch per accepted match
// in suspect-document order, then one EmitSummary.
type ReportSink interface {
	EmitMatch(ctx context.Context, snippet MatchSnippet) error
	EmitSummary(ctx context.Context, report *Report) error
}

// Options configures a Detector.
type Options struct {
	MinWindowWords   int
	WorkerCount      int
	HashMode         HashMode
	HashBase         uint64
	HashModulus      uint64
	NormalizeUnicode bool
}

func DefaultOptions() Options {
	return Options{
		MinWindowWords: 4,
		WorkerCount:    4,
		HashMode:       HashPoly,
		HashBase:       DefaultHashBase,
		HashModulus:    DefaultHashModulus,
	}
}

func (o Options) Validate() error {
	if o.MinWindowWords <= 0 {
		return fmt.Errorf("%w: minWindowWords must be greater than 0", ErrInvalidConfig)
	}
	if o.WorkerCount <= 0 {
		return fmt.Errorf("%w: workerCount must be greater than 0", ErrInvalidConfig)
	}
	_, err := NewWindowHasher(o.HashMode, o.HashBase, o.HashModulus)
	return err
}

// Detector finds verbatim word runs shared by a suspect and a source document.
// A Detector is immutable and safe for concurrent use.
type Detector struct {
	opts      Options
	tokenizer Tokenizer
	hasher    WindowHasher
}

func NewDetector(opts Options) (*Detector, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	hasher, _ := NewWindowHasher(opts.HashMode, opts.HashBase, opts.HashModulus)
	return &Detector{
		opts:      opts,
		tokenizer: Tokenizer{NormalizeUnicode: opts.NormalizeUnicode},
		hasher:    hasher,
	}, nil
}

func (d *Detector) Options() Options { return d.opts }

// WithMinWindowWords returns a detector sharing d's settings except the window.
func (d *Detector) WithMinWindowWords(w int) (*Detector, error) {
	if w == 0 || w == d.opts.MinWindowWords {
		return d, nil
	}
	opts := d.opts
	opts.MinWindowWords = w
	return NewDetector(opts)
}

// Detect compares suspect text a against source text b. Documents shorter
// than the window produce an empty report with Reason set, not an error.
func (d *Detector) Detect(ctx context.Context, textA, textB string) (*Report, error) {
	start := time.Now()
	a := d.tokenizer.Tokenize(textA)
	b := d.tokenizer.Tokenize(textB)
	report, err := d.DetectTokens(ctx, a, b)
	if err != nil {
		return nil, err
	}
	report.Elapsed = time.Since(start)
	return report, nil
}

// DetectTokens is Detect over already tokenized documents. The slices are
// read concurrently and must not be modified until it returns.
func (d *Detector) DetectTokens(ctx context.Context, a, b []string) (*Report, error) {
	start := time.Now()
	w := d.opts.MinWindowWords
	if len(a) < w || len(b) < w {
		log.Debug().
			Int("suspectWords", len(a)).
			Int("sourceWords", len(b)).
			Int("minWindowWords", w).
			Msg("Document shorter than window, skipping scan")
		report := emptyReport(len(a), len(b), w)
		report.Elapsed = time.Since(start)
		return report, nil
	}

	idx := BuildIndex(b, w, d.hasher)
	s := &scanner{
		m:       &matcher{a: a, b: b, window: w, index: idx, hasher: d.hasher},
		workers: d.opts.WorkerCount,
	}
	res, err := s.scan(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Error().Err(err).Msg("Scan failed")
		}
		return nil, err
	}

	report := buildReport(a, len(b), res, w)
	report.Elapsed = time.Since(start)
	log.Debug().
		Int("suspectWords", len(a)).
		Int("sourceWords", len(b)).
		Int("indexEntries", idx.Len()).
		Int("indexBuckets", idx.Buckets()).
		Int("probes", res.probes).
		Int("matches", len(report.Matches)).
		Float64("percentage", report.Percentage).
		Dur("elapsed", report.Elapsed).
		Msg("Scan completed")
	return report, nil
}

// Run loads both documents from src, detects overlap and streams the result
// into sink. A load failure aborts before anything is emitted.
func (d *Detector) Run(ctx context.Context, src DocumentSource, idA, idB string, sink ReportSink) (*Report, error) {
	textA, err := src.Load(ctx, idA)
	if err != nil {
		return nil, fmt.Errorf("failed to load %q: %w: %w", idA, ErrIO, err)
	}
	textB, err := src.Load(ctx, idB)
	if err != nil {
		return nil, fmt.Errorf("failed to load %q: %w: %w", idB, ErrIO, err)
	}

	report, err := d.Detect(ctx, textA, textB)
	if err != nil {
		return nil, err
	}
	if err := Emit(ctx, report, sink); err != nil {
		return report, err
	}
	return report, nil
}

// Emit hands report to sink: every match in order, then the summary.
func Emit(ctx context.Context, report *Report, sink ReportSink) error {
	if sink == nil {
		return nil
	}
	for i := range report.Matches {
		if err := sink.EmitMatch(ctx, report.Snippet(i)); err != nil {
			return fmt.Errorf("failed to emit match: %w", err)
		}
	}
	if err := sink.EmitSummary(ctx, report); err != nil {
		return fmt.Errorf("failed to emit summary: %w", err)
	}
	return nil
}
