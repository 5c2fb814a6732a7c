package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	require.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
	require.Equal(t, 60*time.Second, cfg.HTTPTimeout)
	require.Equal(t, 2500*time.Millisecond, cfg.PollInterval)
	require.Equal(t, 2500*time.Millisecond, cfg.MessagePollInterval)
	require.Equal(t, "ffmpeg", cfg.RecorderCommand)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "agent-console.log", cfg.LogFile)
	require.Empty(t, cfg.DebugAddr)
	require.False(t, cfg.TracingEnabled)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CONSOLE_API_URL", "http://localhost:8000")
	t.Setenv("CONSOLE_API_TOKEN", "secret")
	t.Setenv("CONSOLE_POLL_INTERVAL", "5s")
	t.Setenv("CONSOLE_DEBUG_ADDR", "127.0.0.1:6060")
	t.Setenv("TRACING_ENABLED", "true")

	cfg := Load()

	require.Equal(t, "http://localhost:8000", cfg.APIBaseURL)
	require.Equal(t, "secret", cfg.APIToken)
	require.Equal(t, 5*time.Second, cfg.PollInterval)
	require.Equal(t, "127.0.0.1:6060", cfg.DebugAddr)
	require.True(t, cfg.TracingEnabled)
}
