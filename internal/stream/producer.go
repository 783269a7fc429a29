package stream

import (
	"context"
	"fmt"

	"github.com/RishiKendai/verbatim/internal/models"
	"github.com/redis/go-redis/v9"
)

// Producer queues comparisons on the stream the Consumer reads.
type Producer struct {
	client    StreamAdder
	streamKey string
}

func NewProducer(client StreamAdder, streamKey string) *Producer {
	return &Producer{client: client, streamKey: streamKey}
}

// Publish adds msg to the stream and returns the entry id.
func (p *Producer) Publish(ctx context.Context, msg models.ComparisonMessage) (string, error) {
	id, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.streamKey,
		Values: ComparisonValues(msg),
	}).Result()
	if err != nil {
		return "", fmt.Errorf("failed to publish comparison %s: %w", msg.ComparisonID, err)
	}
	return id, nil
}
