package config

import (
	"fmt"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// envConfig is the flat environment surface read by WithEnv.
type envConfig struct {
	Port        string `env:"PORT" env-default:""`
	Environment string `env:"ENVIRONMENT" env-default:""`

	// DATABASE_URL selects the repository: empty or "memory" keeps the
	// in-memory store, a postgres URL switches to Postgres.
	DatabaseURL string `env:"DATABASE_URL" env-default:""`

	CloudName string `env:"CLOUDINARY_CLOUD_NAME" env-default:""`
	APIKey    string `env:"CLOUDINARY_API_KEY" env-default:""`
	APISecret string `env:"CLOUDINARY_API_SECRET" env-default:""`

	// ARCHIVE_URL selects the originals archive (one of):
	//   ""           - archiving disabled
	//   "memory://"  - in-memory archive
	//   "file:///p"  - filesystem archive rooted at /p
	//   "s3://bucket" - S3 archive
	ArchiveURL string `env:"ARCHIVE_URL" env-default:""`

	AWSRegion          string `env:"AWS_REGION" env-default:"us-east-1"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" env-default:""`
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" env-default:""`
	S3Endpoint         string `env:"S3_ENDPOINT" env-default:""`
	S3UsePathStyle     bool   `env:"S3_USE_PATH_STYLE" env-default:"false"`

	AuthSecret string `env:"AUTH_SECRET" env-default:""`
}

// WithEnv applies environment variable overrides. See envConfig for the
// recognized variables.
func WithEnv() Option {
	return func(c *ServerConfig) error {
		var env envConfig
		if err := cleanenv.ReadEnv(&env); err != nil {
			return fmt.Errorf("failed to read environment: %w", err)
		}

		if env.Port != "" {
			c.Port = env.Port
		}
		if env.Environment != "" {
			c.Environment = env.Environment
		}

		if err := applyDatabaseEnv(env, c); err != nil {
			return err
		}
		if err := applyArchiveEnv(env, c); err != nil {
			return err
		}

		if env.CloudName != "" {
			c.Provider.CloudName = env.CloudName
		}
		if env.APIKey != "" {
			c.Provider.APIKey = env.APIKey
		}
		if env.APISecret != "" {
			c.Provider.APISecret = env.APISecret
		}
		if env.AuthSecret != "" {
			c.AuthSecret = env.AuthSecret
		}

		return nil
	}
}

func applyDatabaseEnv(env envConfig, c *ServerConfig) error {
	switch {
	case env.DatabaseURL == "" || env.DatabaseURL == "memory":
		c.DatabaseType = "memory"
		c.DatabaseURL = ""
	case strings.HasPrefix(env.DatabaseURL, "postgresql://"),
		strings.HasPrefix(env.DatabaseURL, "postgres://"):
		c.DatabaseType = "postgres"
		c.DatabaseURL = env.DatabaseURL
	default:
		return fmt.Errorf("unsupported DATABASE_URL format: %s (use 'memory' or 'postgresql://...')", env.DatabaseURL)
	}
	return nil
}

func applyArchiveEnv(env envConfig, c *ServerConfig) error {
	switch {
	case env.ArchiveURL == "" || env.ArchiveURL == "none":
		c.ArchiveType = "none"
	case env.ArchiveURL == "memory" || env.ArchiveURL == "memory://":
		c.ArchiveType = "memory"
	case strings.HasPrefix(env.ArchiveURL, "file://"):
		path := strings.TrimPrefix(env.ArchiveURL, "file://")
		if path == "" {
			return fmt.Errorf("filesystem path cannot be empty in ARCHIVE_URL")
		}
		c.ArchiveType = "fs"
		c.Archive.BaseDir = path
	case strings.HasPrefix(env.ArchiveURL, "s3://"):
		bucket := strings.TrimPrefix(env.ArchiveURL, "s3://")
		if idx := strings.IndexByte(bucket, '?'); idx >= 0 {
			bucket = bucket[:idx]
		}
		if bucket == "" {
			return fmt.Errorf("S3 bucket name cannot be empty in ARCHIVE_URL")
		}
		c.ArchiveType = "s3"
		c.Archive.Bucket = bucket
		c.Archive.Region = env.AWSRegion
		c.Archive.AccessKeyID = env.AWSAccessKeyID
		c.Archive.SecretAccessKey = env.AWSSecretAccessKey
		c.Archive.Endpoint = env.S3Endpoint
		c.Archive.UsePathStyle = env.S3UsePathStyle
	default:
		return fmt.Errorf("unsupported ARCHIVE_URL format: %s (use 'memory://', 'file://...', or 's3://...')", env.ArchiveURL)
	}
	return nil
}
