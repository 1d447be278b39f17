// Package testsupport provides shared helpers for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"actas/internal/config"
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
	cfg.Paths.AudioDir = filepath.Join(base, "audio")
	cfg.Paths.ExportDir = filepath.Join(base, "export")
	cfg.Auth.OwnerID = "owner-test"

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithOwner overrides the owner identity on the test config.
func WithOwner(ownerID string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Auth.OwnerID = ownerID
	}
}
