package helpers

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/LawrenceCirillo/Alan/internal/config"
	"github.com/LawrenceCirillo/Alan/internal/store"
)

// NewTestConfig creates an offline configuration with debug logging and no
// pacing delays
func NewTestConfig() *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.LogLevel = "debug"
	cfg.OfflineForced = true
	cfg.StatusDelay = 0
	cfg.FrameDelay = 0
	return cfg
}

// NewRedisStore creates a blueprint store backed by an in-process Redis
// server that is shut down when the test completes
func NewRedisStore(t *testing.T) (store.Store, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	s, err := store.NewRedisStore("redis://"+server.Addr(), "test/")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, server
}

// NewConnectedConfig creates a configuration that selects connected mode,
// with the generation service at backendURL and no pacing delays
func NewConnectedConfig(backendURL string) *config.Config {
	cfg := NewTestConfig()
	cfg.OfflineForced = false
	cfg.Model.APIKey = "test-key"
	cfg.BackendURL = backendURL
	return cfg
}
