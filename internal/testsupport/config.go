package testsupport

import (
	"path/filepath"
	"testing"

	"genforge/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.APIBind = "127.0.0.1:0"
	cfg.Coordinator.StoreRetryBackoffMS = 1
	cfg.Coordinator.SweepIntervalSeconds = 1

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithBackend sets the default generation backend on the test config.
func WithBackend(name string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Generation.Backend = name
	}
}

// WithDeadlineSeconds overrides the generation deadline on the test config.
func WithDeadlineSeconds(seconds int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Generation.DeadlineSeconds = seconds
	}
}
