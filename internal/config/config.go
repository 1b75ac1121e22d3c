// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Keys are flat and lower-case so env vars map onto them directly.
// - External errors are wrapped with this package's sentinels.
package config

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/okian/fcleague/internal/domain/betting"
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat is text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// MaxLeaderboardLimit caps GET /tournaments/{id}/betting/leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// CORSOrigins lists allowed browser origins.
	CORSOrigins []string `koanf:"cors_origins"`

	// StorageDriver selects memory, sqlite or postgres.
	StorageDriver string `koanf:"storage_driver"`
	DatabaseDSN   string `koanf:"database_dsn"`

	// Redis backs the bettor board. Empty RedisAddr disables it.
	RedisAddr      string `koanf:"redis_addr"`
	RedisPassword  string `koanf:"redis_password"`
	RedisDB        int    `koanf:"redis_db"`
	RedisKeyPrefix string `koanf:"redis_key_prefix"`

	// Kafka receives domain events. No brokers disables publishing.
	KafkaBrokers []string `koanf:"kafka_brokers"`
	KafkaTopic   string   `koanf:"kafka_topic"`

	// S3-compatible media storage. Empty MediaBucket disables uploads.
	MediaBucket    string `koanf:"media_bucket"`
	MediaEndpoint  string `koanf:"media_endpoint"`
	MediaRegion    string `koanf:"media_region"`
	MediaAccessKey string `koanf:"media_access_key"`
	MediaSecretKey string `koanf:"media_secret_key"`
	MediaPublicURL string `koanf:"media_public_url"`

	// ScheduleInterval spaces generated fixtures.
	ScheduleInterval time.Duration `koanf:"schedule_interval"`

	// Points awarded per prediction type.
	Points             betting.PointTable `koanf:",squash"`
	OverUnderThreshold float64            `koanf:"over_under_threshold"`
	SurpriseMargin     int                `koanf:"surprise_margin"`

	// WorkerCount sets the number of recompute workers.
	WorkerCount int `koanf:"worker_count"`
	// QueueSize bounds the recompute job queue.
	QueueSize int `koanf:"queue_size"`

	// ReconcileCron is a seconds-enabled cron spec. Empty disables the sweep.
	ReconcileCron string `koanf:"reconcile_cron"`
}

// New creates a Config with defaults. The context is reserved for loaders
// that need it.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		MaxLeaderboardLimit: 100,
		CORSOrigins:         []string{"*"},
		StorageDriver:       DriverMemory,
		RedisKeyPrefix:      "fcleague",
		KafkaTopic:          "fcleague.events",
		MediaRegion:         "auto",
		ScheduleInterval:    time.Hour,
		Points:              betting.DefaultPointTable(),
		OverUnderThreshold:  betting.DefaultOverUnderThreshold,
		SurpriseMargin:      betting.DefaultSurpriseMargin,
		WorkerCount:         runtime.NumCPU(),
		QueueSize:           1024,
		ReconcileCron:       "0 */15 * * * *",
	}
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.MaxLeaderboardLimit <= 0:
		return fmt.Errorf("%w: max_leaderboard_limit must be positive", ErrInvalidConfig)
	case c.WorkerCount <= 0:
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	case c.QueueSize <= 0:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.ScheduleInterval <= 0:
		return fmt.Errorf("%w: schedule_interval must be positive", ErrInvalidConfig)
	case c.OverUnderThreshold < 0:
		return fmt.Errorf("%w: over_under_threshold must not be negative", ErrInvalidConfig)
	case c.SurpriseMargin <= 0:
		return fmt.Errorf("%w: surprise_margin must be positive", ErrInvalidConfig)
	}

	switch strings.ToLower(c.StorageDriver) {
	case DriverMemory:
	case DriverSQLite, DriverPostgres:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("%w: database_dsn is required for %s", ErrInvalidConfig, c.StorageDriver)
		}
	default:
		return fmt.Errorf("%w: unknown storage_driver %q", ErrInvalidConfig, c.StorageDriver)
	}

	if len(c.KafkaBrokers) > 0 && c.KafkaTopic == "" {
		return fmt.Errorf("%w: kafka_topic is required with kafka_brokers", ErrInvalidConfig)
	}
	if c.MediaBucket != "" && c.MediaPublicURL == "" {
		return fmt.Errorf("%w: media_public_url is required with media_bucket", ErrInvalidConfig)
	}
	if err := c.Points.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
