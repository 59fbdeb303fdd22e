// Package presets provides ready-made service configurations for common
// setups. Presets eliminate boilerplate while remaining customizable.
package presets

import (
	"fmt"
	"os"
	"testing"

	"github.com/skypixel/mediashare/pkg/mediashare"
	"github.com/skypixel/mediashare/pkg/mediashare/config"
	"github.com/skypixel/mediashare/pkg/mediashare/provider/cloudinary"
	providermemory "github.com/skypixel/mediashare/pkg/mediashare/provider/memory"
	repomemory "github.com/skypixel/mediashare/pkg/mediashare/repo/memory"
	fsstorage "github.com/skypixel/mediashare/pkg/mediashare/storage/fs"
	memorystorage "github.com/skypixel/mediashare/pkg/mediashare/storage/memory"
)

// NewDevelopment creates a service configured for local development.
//
// Features:
//   - In-memory metadata store (instant startup, no setup required)
//   - Filesystem originals archive at ./dev-data/ (persistent across restarts)
//   - Real provider when CLOUDINARY_* variables are set, otherwise a local
//     fake so uploads work offline
//
// Returns the service, a cleanup function that removes the dev-data
// directory, and an error if setup fails.
func NewDevelopment(opts ...DevelopmentOption) (mediashare.Service, func(), error) {
	cfg := &devConfig{
		archiveDir: "./dev-data",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	archive, err := fsstorage.New(fsstorage.Config{BaseDir: cfg.archiveDir})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create archive: %w", err)
	}

	provider := developmentProvider()

	svc, err := mediashare.New(
		mediashare.WithProvider(provider),
		mediashare.WithRepository(repomemory.New()),
		mediashare.WithArchive(archive),
		mediashare.WithEventSink(mediashare.NewLogEventSink(nil)),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create service: %w", err)
	}

	cleanup := func() {
		os.RemoveAll(cfg.archiveDir)
	}
	return svc, cleanup, nil
}

// developmentProvider prefers real credentials from the environment and
// falls back to the in-process fake.
func developmentProvider() mediashare.Provider {
	cloud := os.Getenv("CLOUDINARY_CLOUD_NAME")
	key := os.Getenv("CLOUDINARY_API_KEY")
	secret := os.Getenv("CLOUDINARY_API_SECRET")
	if cloud != "" && key != "" && secret != "" {
		return cloudinary.New(cloudinary.Config{
			CloudName: cloud,
			APIKey:    key,
			APISecret: secret,
		})
	}
	return providermemory.New()
}

// NewTesting creates a service configured for unit and integration tests.
//
// Features:
//   - In-memory metadata store (isolated per test)
//   - In-process fake provider (no network)
//   - In-memory originals archive
//   - Automatic cleanup via t.Cleanup()
func NewTesting(t *testing.T, opts ...TestingOption) mediashare.Service {
	cfg := &testConfig{
		provider: providermemory.New(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	svc, err := mediashare.New(
		mediashare.WithProvider(cfg.provider),
		mediashare.WithRepository(repomemory.New()),
		mediashare.WithArchive(memorystorage.New()),
	)
	if err != nil {
		t.Fatalf("failed to create test service: %v", err)
	}

	t.Cleanup(func() {
		// In-memory backends need no explicit teardown.
	})
	return svc
}

// NewProduction creates a service from the environment. It requires a
// Postgres DATABASE_URL and full provider credentials; the memory backends
// are rejected.
func NewProduction() (mediashare.Service, error) {
	cfg, err := config.Load(config.WithEnv(), config.WithEnvironment("production"))
	if err != nil {
		return nil, err
	}
	if cfg.DatabaseType != "postgres" {
		return nil, fmt.Errorf("production requires a postgres DATABASE_URL")
	}
	if cfg.Provider.CloudName == "" || cfg.Provider.APIKey == "" || cfg.Provider.APISecret == "" {
		return nil, fmt.Errorf("production requires full provider credentials")
	}
	if err := config.PingPostgres(cfg.DatabaseURL); err != nil {
		return nil, err
	}
	return cfg.BuildService()
}

// DevelopmentOption customizes the development preset.
type DevelopmentOption func(*devConfig)

type devConfig struct {
	archiveDir string
}

// WithArchiveDir overrides the development archive directory.
func WithArchiveDir(dir string) DevelopmentOption {
	return func(c *devConfig) {
		c.archiveDir = dir
	}
}

// TestingOption customizes the testing preset.
type TestingOption func(*testConfig)

type testConfig struct {
	provider mediashare.Provider
}

// WithTestProvider substitutes the provider used by the test service.
func WithTestProvider(p mediashare.Provider) TestingOption {
	return func(c *testConfig) {
		c.provider = p
	}
}
