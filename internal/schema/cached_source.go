package schema

import (
	"context"
	"sync"

	"project-tracker/internal/domain"
)

// CachedSource memoizes a SchemaSource per schema identifier for the
// lifetime of the process. Schemas are immutable for a render session, so a
// hit returns the previously loaded slice; callers must not mutate it.
type CachedSource struct {
	inner domain.SchemaSource

	mu      sync.RWMutex
	schemas map[string][]domain.QuestionSpec
	titles  map[string]domain.FormTitle
}

// NewCachedSource wraps inner with a process-lifetime memo cache.
func NewCachedSource(inner domain.SchemaSource) *CachedSource {
	return &CachedSource{
		inner:   inner,
		schemas: make(map[string][]domain.QuestionSpec),
		titles:  make(map[string]domain.FormTitle),
	}
}

func (c *CachedSource) Load(ctx context.Context, schemaID string) ([]domain.QuestionSpec, error) {
	c.mu.RLock()
	cached, ok := c.schemas[schemaID]
	c.mu.RUnlock()
	if ok {
		return cached, nil
	}

	specs, err := c.inner.Load(ctx, schemaID)
	if err != nil {
		// Load failures are not cached; the workbook may appear later.
		return nil, err
	}

	c.mu.Lock()
	c.schemas[schemaID] = specs
	c.mu.Unlock()
	return specs, nil
}

func (c *CachedSource) LoadTitle(ctx context.Context, schemaID string) (domain.FormTitle, error) {
	c.mu.RLock()
	cached, ok := c.titles[schemaID]
	c.mu.RUnlock()
	if ok {
		return cached, nil
	}

	title, err := c.inner.LoadTitle(ctx, schemaID)
	if err != nil {
		return domain.FormTitle{}, err
	}

	c.mu.Lock()
	c.titles[schemaID] = title
	c.mu.Unlock()
	return title, nil
}
