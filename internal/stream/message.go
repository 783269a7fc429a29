package stream

import (
	"fmt"
	"strconv"

	"github.com/RishiKendai/verbatim/internal/models"
)

// StreamMessage is a stream entry with its values flattened to strings.
type StreamMessage struct {
	ID     string
	Fields map[string]string
}

// ParseComparison reads a queued comparison from msg.
func ParseComparison(msg *StreamMessage) (models.ComparisonMessage, error) {
	out := models.ComparisonMessage{
		ComparisonID: msg.Fields["comparisonId"],
		DocumentA:    msg.Fields["documentA"],
		DocumentB:    msg.Fields["documentB"],
	}
	if out.ComparisonID == "" {
		return out, fmt.Errorf("message %s: comparisonId is required", msg.ID)
	}
	if out.DocumentA == "" || out.DocumentB == "" {
		return out, fmt.Errorf("message %s: documentA and documentB are required", msg.ID)
	}

	if raw := msg.Fields["minWindowWords"]; raw != "" {
		w, err := strconv.Atoi(raw)
		if err != nil || w < 0 {
			return out, fmt.Errorf("message %s: invalid minWindowWords %q", msg.ID, raw)
		}
		out.MinWindowWords = w
	}
	return out, nil
}

// ComparisonValues renders msg as stream values, the inverse of ParseComparison.
func ComparisonValues(msg models.ComparisonMessage) map[string]interface{} {
	values := map[string]interface{}{
		"comparisonId": msg.ComparisonID,
		"documentA":    msg.DocumentA,
		"documentB":    msg.DocumentB,
	}
	if msg.MinWindowWords > 0 {
		values["minWindowWords"] = strconv.Itoa(msg.MinWindowWords)
	}
	return values
}
