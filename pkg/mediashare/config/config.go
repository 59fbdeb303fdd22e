// Package config builds a mediashare service from declarative server
// configuration. Options compose on top of defaults; BuildService wires the
// provider, repository and optional originals archive.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skypixel/mediashare/pkg/mediashare"
	"github.com/skypixel/mediashare/pkg/mediashare/provider/cloudinary"
	repomemory "github.com/skypixel/mediashare/pkg/mediashare/repo/memory"
	repopg "github.com/skypixel/mediashare/pkg/mediashare/repo/postgres"
	fsstorage "github.com/skypixel/mediashare/pkg/mediashare/storage/fs"
	memorystorage "github.com/skypixel/mediashare/pkg/mediashare/storage/memory"
	s3storage "github.com/skypixel/mediashare/pkg/mediashare/storage/s3"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of
// library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:         "8080",
		Environment:  "development",
		DatabaseType: "memory",
		ArchiveType:  "none",
		Provider: ProviderConfig{
			UploadBaseURL:   "https://api.cloudinary.com",
			DeliveryBaseURL: "https://res.cloudinary.com",
		},
		EnableEventLogging: true,
	}
}

// ServerConfig represents server configuration for the mediashare service.
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Database configuration
	DatabaseURL  string
	DatabaseType string // "memory", "postgres"

	// Provider configuration (upload and delivery)
	Provider ProviderConfig

	// Originals archive configuration
	ArchiveType string // "none", "memory", "fs", "s3"
	Archive     ArchiveConfig

	// Session tokens
	AuthSecret string

	// Server options
	EnableEventLogging bool
}

// ProviderConfig holds the transformation provider account credentials and
// endpoints.
type ProviderConfig struct {
	CloudName       string
	APIKey          string
	APISecret       string
	UploadBaseURL   string
	DeliveryBaseURL string
}

// ArchiveConfig holds backend settings for the optional originals archive.
type ArchiveConfig struct {
	// Filesystem
	BaseDir string

	// S3
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	UsePathStyle    bool
}

// Validate validates the server configuration.
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.DatabaseType != "memory" && c.DatabaseType != "postgres" {
		return errors.New("database_type must be 'memory' or 'postgres'")
	}
	if c.DatabaseType == "postgres" && c.DatabaseURL == "" {
		return errors.New("database_url is required when using postgres")
	}

	switch c.ArchiveType {
	case "none", "memory":
	case "fs":
		if c.Archive.BaseDir == "" {
			return errors.New("archive base_dir is required for fs archive")
		}
	case "s3":
		if c.Archive.Bucket == "" {
			return errors.New("archive bucket is required for s3 archive")
		}
	default:
		return fmt.Errorf("unsupported archive type: %s", c.ArchiveType)
	}

	if c.AuthSecret == "" {
		return errors.New("auth secret is required")
	}

	return nil
}

// BuildService creates a Service instance from the server configuration.
func (c *ServerConfig) BuildService() (mediashare.Service, error) {
	var options []mediashare.Option

	provider := cloudinary.New(cloudinary.Config{
		CloudName:       c.Provider.CloudName,
		APIKey:          c.Provider.APIKey,
		APISecret:       c.Provider.APISecret,
		UploadBaseURL:   c.Provider.UploadBaseURL,
		DeliveryBaseURL: c.Provider.DeliveryBaseURL,
	})
	options = append(options, mediashare.WithProvider(provider))

	repo, err := c.buildRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to build repository: %w", err)
	}
	options = append(options, mediashare.WithRepository(repo))

	archive, err := c.buildArchive()
	if err != nil {
		return nil, fmt.Errorf("failed to build archive: %w", err)
	}
	if archive != nil {
		options = append(options, mediashare.WithArchive(archive))
	}

	if c.EnableEventLogging {
		options = append(options, mediashare.WithEventSink(mediashare.NewLogEventSink(slog.Default())))
	}

	return mediashare.New(options...)
}

// buildRepository creates a Repository based on the configuration.
func (c *ServerConfig) buildRepository() (mediashare.Repository, error) {
	switch c.DatabaseType {
	case "memory":
		return repomemory.New(), nil
	case "postgres":
		cfg, err := pgxpool.ParseConfig(c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
		}
		pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create pgx pool: %w", err)
		}
		return repopg.NewWithPool(pool), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

// buildArchive creates the originals archive BlobStore, or nil when archiving
// is disabled.
func (c *ServerConfig) buildArchive() (mediashare.BlobStore, error) {
	switch c.ArchiveType {
	case "none":
		return nil, nil
	case "memory":
		return memorystorage.New(), nil
	case "fs":
		return fsstorage.New(fsstorage.Config{BaseDir: c.Archive.BaseDir})
	case "s3":
		return s3storage.New(s3storage.Config{
			Region:          c.Archive.Region,
			Bucket:          c.Archive.Bucket,
			AccessKeyID:     c.Archive.AccessKeyID,
			SecretAccessKey: c.Archive.SecretAccessKey,
			Endpoint:        c.Archive.Endpoint,
			UsePathStyle:    c.Archive.UsePathStyle,
		})
	default:
		return nil, fmt.Errorf("unsupported archive type: %s", c.ArchiveType)
	}
}

// PingPostgres verifies connectivity to Postgres. Useful at startup so a bad
// DATABASE_URL fails fast instead of on the first request.
func PingPostgres(databaseURL string) error {
	if databaseURL == "" {
		return errors.New("database_url is required")
	}
	pool, err := pgxpool.New(context.Background(), databaseURL)
	if err != nil {
		return fmt.Errorf("failed to create pgx pool: %w", err)
	}
	defer pool.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}
