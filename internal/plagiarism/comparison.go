package plagiarism

import (
	"context"
	"fmt"
	"time"

	"github.com/RishiKendai/verbatim/internal/models"
	"github.com/rs/zerolog/log"
)

// FailureSink is implemented by sinks that also record failed runs.
type FailureSink interface {
	EmitFailure(ctx context.Context, err error) error
}

// SinkFactory builds the sink for one comparison.
type SinkFactory func(msg models.ComparisonMessage) ReportSink

// Service runs comparisons between stored documents, synchronously or
// through the worker pool.
type Service struct {
	detector *Detector
	source   DocumentSource
	status   StatusRecorder
	newSink  SinkFactory
	pool     *WorkerPool
}

func NewService(detector *Detector, source DocumentSource, status StatusRecorder, newSink SinkFactory, pool *WorkerPool) *Service {
	return &Service{
		detector: detector,
		source:   source,
		status:   status,
		newSink:  newSink,
		pool:     pool,
	}
}

func (s *Service) Detector() *Detector { return s.detector }

// Compare runs msg to completion and records its steps.
func (s *Service) Compare(ctx context.Context, msg models.ComparisonMessage) (*Report, error) {
	start := time.Now()
	detector, err := s.detector.WithMinWindowWords(msg.MinWindowWords)
	if err != nil {
		return nil, err
	}

	var sink ReportSink
	if s.newSink != nil {
		sink = s.newSink(msg)
	}

	s.updateStatus(ctx, msg.ComparisonID, models.StepLoading)
	source := &stepSource{DocumentSource: s.source, loaded: func(n int) {
		if n == 2 {
			s.updateStatus(ctx, msg.ComparisonID, models.StepScanning)
		}
	}}

	report, err := detector.Run(ctx, source, msg.DocumentA, msg.DocumentB, sink)
	if err != nil {
		s.updateStatus(ctx, msg.ComparisonID, models.StepFailed)
		if fs, ok := sink.(FailureSink); ok {
			if ferr := fs.EmitFailure(ctx, err); ferr != nil {
				log.Error().Err(ferr).Str("comparisonId", msg.ComparisonID).Msg("Failed to record failure")
			}
		}
		return nil, fmt.Errorf("comparison %s failed: %w", msg.ComparisonID, err)
	}

	s.updateStatus(ctx, msg.ComparisonID, models.StepCompleted)
	log.Info().
		Str("comparisonId", msg.ComparisonID).
		Int("matches", len(report.Matches)).
		Float64("percentage", report.Percentage).
		Str("risk", report.Risk).
		Dur("elapsed", time.Since(start)).
		Msg("Comparison completed")
	return report, nil
}

// Enqueue submits msg to the worker pool. done, if not nil, receives the outcome.
func (s *Service) Enqueue(msg models.ComparisonMessage, done chan<- ComparisonOutcome) error {
	s.updateStatus(s.pool.ctx, msg.ComparisonID, models.StepQueued)
	if err := s.pool.Submit(&ComparisonJob{Message: msg, Service: s, Done: done}); err != nil {
		return fmt.Errorf("failed to submit comparison: %w", err)
	}
	return nil
}

func (s *Service) updateStatus(ctx context.Context, id string, step models.Step) {
	if s.status == nil || id == "" {
		return
	}
	if err := s.status.UpdateStatus(ctx, id, step); err != nil {
		log.Warn().Err(err).Str("comparisonId", id).Str("step", string(step)).Msg("Failed to update status")
	}
}

// ComparisonOutcome is delivered when a queued comparison finishes.
type ComparisonOutcome struct {
	ComparisonID string
	Report       *Report
	Err          error
}

// ComparisonJob represents a queued comparison for the worker pool
type ComparisonJob struct {
	Message models.ComparisonMessage
	Service *Service
	Done    chan<- ComparisonOutcome
}

// Execute executes the comparison job
func (j *ComparisonJob) Execute(ctx context.Context) error {
	report, err := j.Service.Compare(ctx, j.Message)
	if j.Done != nil {
		select {
		case j.Done <- ComparisonOutcome{ComparisonID: j.Message.ComparisonID, Report: report, Err: err}:
		case <-ctx.Done():
		}
	}
	return err
}

// stepSource counts successful loads so the caller can advance its status.
type stepSource struct {
	DocumentSource
	n      int
	loaded func(n int)
}

func (s *stepSource) Load(ctx context.Context, id string) (string, error) {
	text, err := s.DocumentSource.Load(ctx, id)
	if err != nil {
		return "", err
	}
	s.n++
	s.loaded(s.n)
	return text, nil
}
