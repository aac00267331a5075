package generation

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/dtnitsch/essay-obscurity/pkg/caching"
)

// Cached wraps a Service with an on-disk cache. The n-th request for a given
// thesis and length maps to the n-th cache slot, so a run asking for three
// references reuses the three texts of an earlier run.
type Cached struct {
	inner  Service
	cache  *caching.Cache
	logger *slog.Logger

	mu    sync.Mutex
	calls map[string]int
}

// NewCached returns a caching Service.
func NewCached(inner Service, cache *caching.Cache, logger *slog.Logger) *Cached {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Cached{inner: inner, cache: cache, logger: logger, calls: make(map[string]int)}
}

func (c *Cached) slot(base string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[base]++
	return c.calls[base]
}

// Generate returns a cached text when one exists for the next slot and
// otherwise asks the wrapped service and stores its answer.
func (c *Cached) Generate(ctx context.Context, targetWordCount int, thesis string) (string, error) {
	base := caching.Key(thesis, strconv.Itoa(targetWordCount))
	slot := c.slot(base)
	key := caching.Key(base, strconv.Itoa(slot))

	if data, ok := c.cache.Get(key); ok {
		c.logger.Debug("reference cache hit", "slot", slot)
		return string(data), nil
	}

	text, err := c.inner.Generate(ctx, targetWordCount, thesis)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return text, nil
	}
	if err := c.cache.Set(key, []byte(text)); err != nil {
		c.logger.Warn("failed to cache reference", "slot", slot, "error", err)
	}
	return text, nil
}
