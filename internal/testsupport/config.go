package testsupport

import (
	"path/filepath"
	"testing"

	"easel/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Remote.APIKey = "test"
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.CanvasDir = filepath.Join(base, "canvas")
	cfg.Paths.APIBind = "127.0.0.1:0"

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithAPIToken sets the local API bearer token on the test config.
func WithAPIToken(token string) ConfigOption {
	return func(c *config.Config) {
		c.Paths.APIToken = token
	}
}

// WithRefreshInterval overrides the background refresh cadence.
func WithRefreshInterval(seconds int) ConfigOption {
	return func(c *config.Config) {
		c.Workflow.RefreshInterval = seconds
	}
}
