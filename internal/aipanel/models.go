package aipanel

import (
	"context"
	"sync"

	"github.com/chatlead/agent-console/internal/model"
)

// Providers the backend can list models for.
var Providers = []string{"google", "groq", "mistral", "openrouter"}

// ModelLister is the slice of the backend client the cache needs.
type ModelLister interface {
	ListModelsLive(ctx context.Context, provider string) ([]model.LiveModel, error)
}

// ModelCache holds per-provider model lists, fetched on demand and kept in
// memory once populated. It is scoped to the panel, not ambient.
type ModelCache struct {
	lister ModelLister

	mu    sync.Mutex
	lists map[string][]model.LiveModel
}

// NewModelCache creates an empty cache.
func NewModelCache(lister ModelLister) *ModelCache {
	return &ModelCache{lister: lister, lists: make(map[string][]model.LiveModel)}
}

// Models returns the cached list for a provider, fetching it on first use.
// An empty fetched list is not cached, so the next call retries.
func (c *ModelCache) Models(ctx context.Context, provider string) ([]model.LiveModel, error) {
	c.mu.Lock()
	cached, ok := c.lists[provider]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}
	return c.Refresh(ctx, provider)
}

// Refresh bypasses the cache for one provider.
func (c *ModelCache) Refresh(ctx context.Context, provider string) ([]model.LiveModel, error) {
	models, err := c.lister.ListModelsLive(ctx, provider)
	if err != nil {
		return nil, err
	}

	if len(models) > 0 {
		c.mu.Lock()
		c.lists[provider] = models
		c.mu.Unlock()
	}
	return models, nil
}

// Cached returns the stored list without fetching, nil when absent.
func (c *ModelCache) Cached(provider string) []model.LiveModel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lists[provider]
}
