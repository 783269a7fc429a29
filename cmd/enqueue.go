package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/RishiKendai/verbatim/internal/config"
	redisInfra "github.com/RishiKendai/verbatim/internal/infra/redis"
	"github.com/RishiKendai/verbatim/internal/models"
	"github.com/RishiKendai/verbatim/internal/stream"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// runEnqueue publishes one comparison for the server's stream consumer.
func runEnqueue(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("enqueue", flag.ContinueOnError)
	minWindow := fs.Int("min-window", 0, "minimum number of shared words reported (default: server setting)")
	id := fs.String("id", "", "comparison id (default: random)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("enqueue needs a suspect and a source document, got %d arguments", fs.NArg())
	}
	if *minWindow < 0 {
		return fmt.Errorf("min-window must not be negative")
	}
	if *id == "" {
		*id = uuid.New().String()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	redisClient, err := redisInfra.NewClient(ctx, cfg.RedisHost, cfg.RedisPassword, 0)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	producer := stream.NewProducer(redisClient.Client, cfg.RedisStreamKey)
	entryID, err := producer.Publish(ctx, models.ComparisonMessage{
		ComparisonID:   *id,
		DocumentA:      fs.Arg(0),
		DocumentB:      fs.Arg(1),
		MinWindowWords: *minWindow,
	})
	if err != nil {
		return err
	}

	log.Info().Str("comparisonId", *id).Str("entryId", entryID).Str("stream", cfg.RedisStreamKey).Msg("Comparison queued")
	fmt.Println(*id)
	return nil
}
