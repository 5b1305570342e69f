package cache

import (
	"sync"

	"github.com/gabrielg4rrido/desafio-prog-web-2/pkg/events"
)

const DefaultMaxEntries = 10000

// UserCache holds the last user snapshot seen per id, populated only by
// the event consumption stream. Entries are last-write-wins by arrival
// order; there is no version check, so a late out-of-order update can
// overwrite a newer one. Lifetime is the process: nothing is persisted.
//
// The map is written by a single consumer goroutine and read by many
// request handlers, so an RWMutex is enough. The map is bounded: when
// full, the oldest inserted id is evicted.
type UserCache struct {
	mu      sync.RWMutex
	entries map[string]events.User
	order   []string
	max     int
}

func New(maxEntries int) *UserCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &UserCache{
		entries: make(map[string]events.User),
		max:     maxEntries,
	}
}

// Upsert is idempotent: storing the same snapshot twice is a no-op,
// storing a different snapshot for an existing id overwrites it.
func (c *UserCache) Upsert(u events.User) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[u.ID]; !ok {
		if len(c.order) >= c.max {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, u.ID)
	}
	c.entries[u.ID] = u
}

func (c *UserCache) Get(id string) (events.User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	u, ok := c.entries[id]
	return u, ok
}

func (c *UserCache) Has(id string) bool {
	_, ok := c.Get(id)
	return ok
}

func (c *UserCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
