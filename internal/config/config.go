// Package config provides environment configuration for the agent console.
package config

import (
	"os"
	"strconv"
	"time"
)

// DefaultAPIBaseURL is the production backend used when CONSOLE_API_URL is
// not set.
const DefaultAPIBaseURL = "https://api.chatlead.io"

// Config holds all configuration for the console process.
type Config struct {
	// Backend
	APIBaseURL  string
	APIToken    string
	HTTPTimeout time.Duration

	// Polling
	PollInterval        time.Duration
	MessagePollInterval time.Duration

	// Audio capture
	RecorderCommand string
	RecorderInput   string

	// Logging
	LogLevel string
	LogFile  string

	// Local debug listener ("" disables it)
	DebugAddr string

	// Tracing
	TracingEndpoint string
	TracingEnabled  bool
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		// Backend
		APIBaseURL:  getEnv("CONSOLE_API_URL", DefaultAPIBaseURL),
		APIToken:    getEnv("CONSOLE_API_TOKEN", ""),
		HTTPTimeout: getDurationEnv("CONSOLE_HTTP_TIMEOUT", 60*time.Second),

		// Polling
		PollInterval:        getDurationEnv("CONSOLE_POLL_INTERVAL", 2500*time.Millisecond),
		MessagePollInterval: getDurationEnv("CONSOLE_MESSAGE_POLL_INTERVAL", 2500*time.Millisecond),

		// Audio capture
		RecorderCommand: getEnv("CONSOLE_RECORDER_COMMAND", "ffmpeg"),
		RecorderInput:   getEnv("CONSOLE_RECORDER_INPUT", "default"),

		// Logging
		LogLevel: getEnv("CONSOLE_LOG_LEVEL", "info"),
		LogFile:  getEnv("CONSOLE_LOG_FILE", "agent-console.log"),

		// Debug listener
		DebugAddr: getEnv("CONSOLE_DEBUG_ADDR", ""),

		// Tracing
		TracingEndpoint: getEnv("TRACING_ENDPOINT", "localhost:4318"),
		TracingEnabled:  getBoolEnv("TRACING_ENABLED", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
