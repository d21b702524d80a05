// Package cache holds the full-fidelity plan payloads keyed by
// canonical plan key. It is populated exclusively by the corpus loader
// and replaced wholesale on reindex, never partially invalidated.
package cache

import (
	"sync"

	"fitcoach/assistant-app/internal/domain"
)

// PlanCache is a read-mostly map from canonical plan key to the full
// PlanRecord. Replace swaps the whole map under one lock so readers
// never observe a half-built cache during reindex.
type PlanCache struct {
	mu    sync.RWMutex
	plans map[string]*domain.PlanRecord
}

func New() *PlanCache {
	return &PlanCache{plans: make(map[string]*domain.PlanRecord)}
}

// Put stores a plan under its key, overwriting any previous entry.
func (c *PlanCache) Put(key string, plan *domain.PlanRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.plans[key] = plan
}

// Get returns the plan for the key, or nil and false when absent.
func (c *PlanCache) Get(key string) (*domain.PlanRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	plan, ok := c.plans[key]
	return plan, ok
}

// Replace atomically installs a freshly built cache content.
func (c *PlanCache) Replace(plans map[string]*domain.PlanRecord) {
	if plans == nil {
		plans = make(map[string]*domain.PlanRecord)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.plans = plans
}

// Len returns the number of cached plans.
func (c *PlanCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.plans)
}
