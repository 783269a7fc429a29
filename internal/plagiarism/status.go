package plagiarism

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RishiKendai/verbatim/internal/infra/redis"
	"github.com/RishiKendai/verbatim/internal/models"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	statusKeyPrefix = "comparison_status:"
	statusTTL       = 12 * time.Hour
)

var validSteps = map[models.Step]bool{
	models.StepIdle:      true,
	models.StepQueued:    true,
	models.StepLoading:   true,
	models.StepScanning:  true,
	models.StepCompleted: true,
	models.StepFailed:    true,
}

// StatusRecorder tracks the progress of a comparison.
type StatusRecorder interface {
	UpdateStatus(ctx context.Context, comparisonID string, step models.Step) error
}

// StatusStore keeps comparison steps in Redis.
type StatusStore struct {
	client *redis.Client
}

func NewStatusStore(client *redis.Client) *StatusStore {
	return &StatusStore{client: client}
}

func (s *StatusStore) UpdateStatus(ctx context.Context, comparisonID string, step models.Step) error {
	if !validSteps[step] {
		return fmt.Errorf("unknown step: %s", step)
	}

	rkey := statusKeyPrefix + comparisonID

	err := s.client.Set(ctx, rkey, string(step), statusTTL).Err()
	if err != nil {
		log.Error().Err(err).
			Str("step", string(step)).
			Str("comparisonId", comparisonID).
			Str("redisKey", rkey).
			Msg("Failed to update status in Redis")
		return fmt.Errorf("failed to update status in Redis: %w", err)
	}

	log.Trace().
		Str("step", string(step)).
		Str("comparisonId", comparisonID).
		Msg("Status updated in Redis")

	return nil
}

// GetStatus returns the last recorded step, or StepIdle when none is known.
func (s *StatusStore) GetStatus(ctx context.Context, comparisonID string) (models.Step, error) {
	val, err := s.client.Get(ctx, statusKeyPrefix+comparisonID).Result()
	if errors.Is(err, goredis.Nil) {
		return models.StepIdle, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read status from Redis: %w", err)
	}
	return models.Step(val), nil
}
