package model

import (
	"time"
)

// AISettings is the process-wide assistant configuration singleton. Numeric
// fields are clamped client-side on load and again before save.
type AISettings struct {
	ID           int     `json:"id"`
	IsEnabled    bool    `json:"is_enabled"`
	Provider     string  `json:"provider"`
	Model        string  `json:"model"`
	SystemPrompt string  `json:"system_prompt"`
	MaxTokens    int     `json:"max_tokens"`
	Temperature  float64 `json:"temperature"`

	FallbackProvider string `json:"fallback_provider"`
	FallbackModel    string `json:"fallback_model"`
	TimeoutSec       int    `json:"timeout_sec"`
	MaxRetries       int    `json:"max_retries"`

	// Reply humanization: chunked replies with typing cadence.
	ReplyChunkChars int `json:"reply_chunk_chars"`
	ReplyDelayMs    int `json:"reply_delay_ms"`
	TypingDelayMs   int `json:"typing_delay_ms"`

	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// ModelCatalog is the static provider→models catalog plus backend defaults.
type ModelCatalog struct {
	Providers map[string][]string `json:"providers"`
	Defaults  map[string]any      `json:"defaults"`
}

// LiveModel is one model entry from a provider's live listing.
type LiveModel struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
}

// LiveModelsResponse is the live model listing for one provider.
type LiveModelsResponse struct {
	Provider string      `json:"provider"`
	Models   []LiveModel `json:"models"`
}

// AIProcessRequest asks the backend to run one message through the assistant
// pipeline, used by the QA tester.
type AIProcessRequest struct {
	Phone string `json:"phone"`
	Text  string `json:"text"`
}

// AIProcessResult is the raw structured response of a manual QA invocation.
type AIProcessResult struct {
	OK           bool   `json:"ok"`
	Provider     string `json:"provider"`
	Model        string `json:"model"`
	ReplyText    string `json:"reply_text"`
	UsedFallback bool   `json:"used_fallback"`
	Error        string `json:"error,omitempty"`
}

// KnowledgeFile is one uploaded document contributing context to the
// assistant.
type KnowledgeFile struct {
	ID        string     `json:"id"`
	FileName  string     `json:"file_name"`
	MimeType  string     `json:"mime_type"`
	SizeBytes int64      `json:"size_bytes"`
	Notes     string     `json:"notes"`
	IsActive  bool       `json:"is_active"`
	Chunks    int        `json:"chunks,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// KnowledgeFilter selects knowledge files by active state.
type KnowledgeFilter string

const (
	KnowledgeAll      KnowledgeFilter = "all"
	KnowledgeActive   KnowledgeFilter = "yes"
	KnowledgeInactive KnowledgeFilter = "no"
)
