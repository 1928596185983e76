package provider

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/SoJune1023/Dive-Chat-Prototype/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"golang.org/x/sync/singleflight"
)

// Factory builds one provider client. Factories are registered once at
// startup and may be invoked again on refresh.
type Factory func(ctx context.Context) (llms.Model, error)

// ClientCache owns lazily constructed provider clients. Construction on miss
// goes through singleflight so concurrent callers of the same key share one
// expensive setup instead of racing it.
type ClientCache struct {
	mu        sync.RWMutex
	clients   map[string]llms.Model
	factories map[string]Factory
	group     singleflight.Group
}

func NewClientCache() *ClientCache {
	return &ClientCache{
		clients:   make(map[string]llms.Model),
		factories: make(map[string]Factory),
	}
}

func (c *ClientCache) Register(key string, factory Factory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.factories[key] = factory
}

// GetOrInit returns the cached client for key, constructing it at most once
// per miss. A construction failure is an upstream-dependency problem, not a
// caller mistake.
func (c *ClientCache) GetOrInit(ctx context.Context, key string) (llms.Model, error) {
	c.mu.RLock()
	client, ok := c.clients[key]
	c.mu.RUnlock()
	if ok {
		return client, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		c.mu.RLock()
		factory, ok := c.factories[key]
		c.mu.RUnlock()
		if !ok {
			return nil, domain.NewAppError("Provider client not initialized", http.StatusBadGateway, domain.CodeClientInit, nil)
		}

		built, err := factory(ctx)
		if err != nil {
			return nil, domain.NewAppError("Provider client not initialized", http.StatusBadGateway, domain.CodeClientInit, err)
		}

		c.mu.Lock()
		c.clients[key] = built
		c.mu.Unlock()
		return built, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(llms.Model), nil
}

// Refresh rebuilds every registered client, keeping the old one on failure so
// a transient credential hiccup does not take a working backend down.
func (c *ClientCache) Refresh(ctx context.Context) {
	c.mu.RLock()
	keys := make([]string, 0, len(c.factories))
	for key := range c.factories {
		keys = append(keys, key)
	}
	c.mu.RUnlock()

	for _, key := range keys {
		c.mu.RLock()
		factory := c.factories[key]
		c.mu.RUnlock()

		built, err := factory(ctx)
		if err != nil {
			slog.Warn("provider client refresh failed", "provider", key, "error", err)
			continue
		}
		c.mu.Lock()
		c.clients[key] = built
		c.mu.Unlock()
	}
}
