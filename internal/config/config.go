package config

import (
	"fmt"
	"time"

	"github.com/RishiKendai/verbatim/internal/configs/env"
	"github.com/RishiKendai/verbatim/internal/plagiarism"
)

// Config holds all configuration for the application
type Config struct {
	// Detection
	MinWindowWords   int
	WorkerCount      int
	HashMode         string
	HashBase         uint64
	HashModulus      uint64
	NormalizeUnicode bool

	// MongoDB
	MongoURI    string
	MongoDBName string

	// Redis
	RedisHost               string
	RedisPassword           string
	RedisStreamKey          string
	RedisConsumerGroup      string
	RedisDeadLetterKey      string
	StreamRetentionDuration time.Duration
	MaxRetries              int

	// Document storage
	AWSRegion string

	// JWT
	JWTSecret string

	// Rate Limiting
	RateLimitRPS        float64
	CompareRateLimitRPS float64

	// Concurrency
	MaxConcurrentCompute int

	// Computation
	ComputationTimeout time.Duration

	// Metrics
	MetricsPort  string
	StatsdHost   string
	StatsdPort   string
	StatsdPrefix string

	// Local report store for the compare command
	SQLitePath string

	// Logging
	LogLevel  string
	LogFormat string

	// Server
	ServerPort string
}

func Load() (*Config, error) {
	cfg := &Config{}

	// Detection
	cfg.MinWindowWords = env.GetEnvInt("MIN_WINDOW_WORDS", 4)
	cfg.WorkerCount = env.GetEnvInt("WORKER_COUNT", 4)
	cfg.HashMode = env.GetEnv("HASH_MODE", string(plagiarism.HashPoly))
	cfg.HashBase = env.GetEnvUint("HASH_BASE", plagiarism.DefaultHashBase)
	cfg.HashModulus = env.GetEnvUint("HASH_MODULUS", plagiarism.DefaultHashModulus)
	cfg.NormalizeUnicode = env.GetEnvBool("NORMALIZE_UNICODE", false)

	// MongoDB
	cfg.MongoURI = env.GetEnv("MONGO_URI", "")
	cfg.MongoDBName = env.GetEnv("MONGO_DB_NAME", "")

	// Redis
	cfg.RedisHost = env.GetEnv("REDIS_HOST", "localhost:6379")
	cfg.RedisPassword = env.GetEnv("REDIS_PASSWORD", "")
	cfg.RedisStreamKey = env.GetEnv("REDIS_STREAM_KEY", "verbatim:stream")
	cfg.RedisConsumerGroup = env.GetEnv("REDIS_CONSUMER_GROUP", "verbatim:group")
	cfg.RedisDeadLetterKey = env.GetEnv("REDIS_DEAD_LETTER_KEY", "verbatim:dlq")
	retentionHours := env.GetEnvInt("STREAM_RETENTION_DURATION", 24)
	cfg.StreamRetentionDuration = time.Duration(retentionHours) * time.Hour
	cfg.MaxRetries = env.GetEnvInt("MAX_RETRIES", 3)

	// Document storage
	cfg.AWSRegion = env.GetEnv("AWS_REGION", "")

	// JWT
	cfg.JWTSecret = env.GetEnv("JWT_SECRET", "")

	// Rate Limiting
	cfg.RateLimitRPS = env.GetEnvFloat("RATE_LIMIT_RPS", 10.0)
	cfg.CompareRateLimitRPS = env.GetEnvFloat("COMPARE_RATE_LIMIT_RPS", 1.0)

	// Concurrency
	cfg.MaxConcurrentCompute = env.GetEnvInt("MAX_CONCURRENT_COMPUTE", 5)

	// Computation
	timeoutMinutes := env.GetEnvInt("COMPUTATION_TIMEOUT_MINUTES", 30)
	cfg.ComputationTimeout = time.Duration(timeoutMinutes) * time.Minute

	// Metrics
	cfg.MetricsPort = env.GetEnv("METRICS_PORT", "2112")
	cfg.StatsdHost = env.GetEnv("STATSD_HOST", "")
	cfg.StatsdPort = env.GetEnv("STATSD_PORT", "8125")
	cfg.StatsdPrefix = env.GetEnv("STATSD_PREFIX", "verbatim")

	cfg.SQLitePath = env.GetEnv("SQLITE_PATH", "")

	// Logging
	cfg.LogLevel = env.GetEnv("LOG_LEVEL", "info")
	cfg.LogFormat = env.GetEnv("LOG_FORMAT", "json")

	// Server
	cfg.ServerPort = env.GetEnv("SERVER_PORT", "8080")

	return cfg, nil
}

// ValidateEngine checks the detection settings every command needs
func (c *Config) ValidateEngine() error {
	if c.MinWindowWords <= 0 {
		return fmt.Errorf("MIN_WINDOW_WORDS must be greater than 0")
	}
	if c.WorkerCount <= 0 {
		return fmt.Errorf("WORKER_COUNT must be greater than 0")
	}
	if err := c.DetectorOptions().Validate(); err != nil {
		return fmt.Errorf("invalid detection settings: %w", err)
	}
	return nil
}

// Validate checks everything the server needs
func (c *Config) Validate() error {
	if err := c.ValidateEngine(); err != nil {
		return err
	}
	if c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if c.MongoDBName == "" {
		return fmt.Errorf("MONGO_DB_NAME is required")
	}
	if c.RedisHost == "" {
		return fmt.Errorf("REDIS_HOST is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.MaxConcurrentCompute <= 0 {
		return fmt.Errorf("MAX_CONCURRENT_COMPUTE must be greater than 0")
	}
	if c.StreamRetentionDuration <= 0 {
		return fmt.Errorf("STREAM_RETENTION_DURATION must be greater than 0")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("MAX_RETRIES must not be negative")
	}
	return nil
}

// DetectorOptions projects the detection settings into engine options
func (c *Config) DetectorOptions() plagiarism.Options {
	return plagiarism.Options{
		MinWindowWords:   c.MinWindowWords,
		WorkerCount:      c.WorkerCount,
		HashMode:         plagiarism.HashMode(c.HashMode),
		HashBase:         c.HashBase,
		HashModulus:      c.HashModulus,
		NormalizeUnicode: c.NormalizeUnicode,
	}
}
