package metrics

import (
	"fmt"
	"time"

	"github.com/cactus/go-statsd-client/v5/statsd"
	"github.com/rs/zerolog/log"
)

func ConnectStatsd(host, port, prefix string) (statsd.Statter, error) {
	address := fmt.Sprintf("%s:%s", host, port)

	config := statsd.ClientConfig{
		Address:       address,
		Prefix:        prefix,
		TagFormat:     statsd.InfixComma,
		UseBuffered:   true,
		FlushInterval: 1 * time.Second,
	}

	return statsd.NewClientWithConfig(&config)
}

func Increment(name string, client statsd.Statter, tags ...statsd.Tag) {
	if client == nil {
		return
	}
	if err := client.Inc(name, 1, 1.0, tags...); err != nil {
		log.Warn().Err(err).Str("metric", name).Msg("Failed to send statsd counter")
	}
}

func Gauge(name string, client statsd.Statter, value int64, tags ...statsd.Tag) {
	if client == nil {
		return
	}
	if err := client.Gauge(name, value, 1.0, tags...); err != nil {
		log.Warn().Err(err).Str("metric", name).Msg("Failed to send statsd gauge")
	}
}

func Timing(name string, client statsd.Statter, since time.Time, tags ...statsd.Tag) {
	if client == nil {
		return
	}
	delta := time.Since(since).Milliseconds()
	if err := client.Timing(name, delta, 1.0, tags...); err != nil {
		log.Warn().Err(err).Str("metric", name).Msg("Failed to send statsd timing")
	}
}
