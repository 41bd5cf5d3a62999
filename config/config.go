package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is read from the environment, optionally seeded from a .env file.
type Config struct {
	Env  string `env:"APP_ENV" env-default:"local"`
	Port string `env:"PORT" env-default:"8080"`

	Database DatabaseConfig
	AWS      AWSConfig
	Analysis AnalysisConfig
}

type DatabaseConfig struct {
	Driver     string `env:"DB_DRIVER" env-default:"postgres"`
	Host       string `env:"DB_HOST" env-default:"localhost"`
	Port       string `env:"DB_PORT" env-default:"5432"`
	User       string `env:"DB_USER" env-default:"nutrisnap"`
	Password   string `env:"DB_PASSWORD"`
	Name       string `env:"DB_NAME" env-default:"nutrisnap"`
	SQLitePath string `env:"DB_SQLITE_PATH" env-default:"nutrisnap.db"`
}

type AWSConfig struct {
	Region        string `env:"AWS_REGION" env-default:"ap-south-1"`
	S3Bucket      string `env:"S3_BUCKET"`
	S3Region      string `env:"S3_REGION"`
	CloudFrontURL string `env:"CLOUDFRONT_URL"`
	SNSFCMArn     string `env:"SNS_FCM_ARN"`
	SESEmail      string `env:"SES_EMAIL"`
}

type AnalysisConfig struct {
	// Provider-side label filtering. The core applies no label threshold of its own.
	MaxLabels     int32   `env:"REKOGNITION_MAX_LABELS" env-default:"15"`
	MinConfidence float32 `env:"REKOGNITION_MIN_CONFIDENCE" env-default:"50"`

	// TablePath replaces the embedded reference table when set.
	TablePath string `env:"NUTRITION_TABLE_PATH"`

	TargetsCacheTTL   time.Duration `env:"TARGETS_CACHE_TTL" env-default:"10m"`
	TrendWindowDays   int           `env:"TREND_WINDOW_DAYS" env-default:"7"`
	LowScoreThreshold int           `env:"LOW_SCORE_ALERT_THRESHOLD" env-default:"50"`
}

// Load reads .env (if present) and the process environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.Database.Driver)
	}
	if c.Analysis.TrendWindowDays <= 0 {
		return errors.New("TREND_WINDOW_DAYS must be positive")
	}
	if c.Analysis.LowScoreThreshold < 0 || c.Analysis.LowScoreThreshold > 100 {
		return errors.New("LOW_SCORE_ALERT_THRESHOLD must be within 0..100")
	}
	return nil
}

// S3RegionOrDefault falls back to the general AWS region.
func (a AWSConfig) S3RegionOrDefault() string {
	if a.S3Region != "" {
		return a.S3Region
	}
	return a.Region
}

// IsLocal reports whether the process runs in a developer environment.
func (c *Config) IsLocal() bool { return c.Env == "local" }
