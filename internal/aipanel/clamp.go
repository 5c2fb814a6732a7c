package aipanel

import (
	"math"

	"github.com/chatlead/agent-console/internal/model"
)

// Documented numeric bounds and defaults for the settings singleton. Applied
// on load and again before save.
const (
	MinMaxTokens     = 32
	MaxMaxTokens     = 8192
	DefaultMaxTokens = 512

	MinTemperature     = 0.0
	MaxTemperature     = 2.0
	DefaultTemperature = 0.7

	MinTimeoutSec     = 5
	MaxTimeoutSec     = 120
	DefaultTimeoutSec = 25

	MinRetries = 0
	MaxRetries = 3

	MinReplyChunkChars     = 120
	MaxReplyChunkChars     = 2000
	DefaultReplyChunkChars = 480

	MinDelayMs           = 0
	MaxDelayMs           = 15000
	DefaultReplyDelayMs  = 900
	DefaultTypingDelayMs = 450
)

// ClampSettings coerces every numeric field into its documented range. A
// zero value on a field whose range excludes zero is treated as absent and
// takes the default; a non-finite temperature takes the default.
func ClampSettings(s model.AISettings) model.AISettings {
	s.MaxTokens = clampOrDefault(s.MaxTokens, MinMaxTokens, MaxMaxTokens, DefaultMaxTokens)
	s.TimeoutSec = clampOrDefault(s.TimeoutSec, MinTimeoutSec, MaxTimeoutSec, DefaultTimeoutSec)
	s.ReplyChunkChars = clampOrDefault(s.ReplyChunkChars, MinReplyChunkChars, MaxReplyChunkChars, DefaultReplyChunkChars)

	s.MaxRetries = clampInt(s.MaxRetries, MinRetries, MaxRetries)
	s.ReplyDelayMs = clampInt(s.ReplyDelayMs, MinDelayMs, MaxDelayMs)
	s.TypingDelayMs = clampInt(s.TypingDelayMs, MinDelayMs, MaxDelayMs)

	if math.IsNaN(s.Temperature) || math.IsInf(s.Temperature, 0) {
		s.Temperature = DefaultTemperature
	} else if s.Temperature < MinTemperature {
		s.Temperature = MinTemperature
	} else if s.Temperature > MaxTemperature {
		s.Temperature = MaxTemperature
	}

	return s
}

// clampOrDefault treats zero as absent: these ranges exclude zero, so a zero
// value can only mean the field was never set.
func clampOrDefault(v, min, max, def int) int {
	if v == 0 {
		return def
	}
	return clampInt(v, min, max)
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
