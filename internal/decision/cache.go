package decision

import (
	"maps"
	"slices"
	"sync"
)

// Cache maps source node paths to decisions for the duration of one run.
// It is safe for concurrent use.
type Cache struct {
	mu        sync.Mutex
	decisions map[string]Decision
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{decisions: make(map[string]Decision)}
}

// Get returns the decision recorded for sourcePath.
func (c *Cache) Get(sourcePath string) (Decision, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	d, ok := c.decisions[sourcePath]

	return d, ok
}

// Put records d for sourcePath, replacing any earlier decision.
func (c *Cache) Put(sourcePath string, d Decision) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.decisions == nil {
		c.decisions = make(map[string]Decision)
	}

	c.decisions[sourcePath] = d
}

// Clear forgets every decision.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.decisions)
}

// Len returns the number of recorded decisions.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.decisions)
}

// Paths returns the recorded source paths in sorted order.
func (c *Cache) Paths() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return slices.Sorted(maps.Keys(c.decisions))
}
