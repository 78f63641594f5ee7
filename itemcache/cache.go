package itemcache

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/poiesic/wayfind/core"
)

// Source produces a fresh application list.
type Source interface {
	Build(ctx context.Context) []core.Item
}

// Cache owns the application list. Readers get immutable snapshots; Reload
// is the only mutator.
type Cache struct {
	source   Source
	items    atomic.Pointer[[]core.Item]
	building atomic.Bool
	mu       sync.Mutex
}

// NewCache creates an empty cache fed by source.
func NewCache(source Source) *Cache {
	c := &Cache{source: source}
	empty := []core.Item{}
	c.items.Store(&empty)
	return c
}

// Reload rebuilds the list and swaps it in. Concurrent reloads are
// serialized. The building flag is set for the duration.
func (c *Cache) Reload(ctx context.Context) []core.Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.building.Store(true)
	defer c.building.Store(false)

	items := c.source.Build(ctx)
	if items == nil {
		items = []core.Item{}
	}
	c.items.Store(&items)
	return items
}

// Items returns the current snapshot. Callers must not modify it.
func (c *Cache) Items() []core.Item {
	return *c.items.Load()
}

// Names returns the set of names in the current snapshot.
func (c *Cache) Names() map[string]struct{} {
	items := c.Items()
	names := make(map[string]struct{}, len(items))
	for _, item := range items {
		names[item.Name] = struct{}{}
	}
	return names
}

// Building reports whether a reload is in progress.
func (c *Cache) Building() bool {
	return c.building.Load()
}
