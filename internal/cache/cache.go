// Package cache is the response cache in front of the API client.
//
// Entries are keyed by the call name plus its ordered argument tuple and
// stay valid for a fixed TTL from insertion. There is no size bound and
// no background sweeping: an expired entry is simply overwritten by the
// next call that recomputes it.
package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/cespare/xxhash/v2"
)

var (
	hits   = metrics.NewCounter("curio_cache_hits_total")
	misses = metrics.NewCounter("curio_cache_misses_total")
)

type entry struct {
	name     string
	args     []string
	value    any
	inserted time.Time
}

// Cache memoizes call results for a fixed TTL
type Cache struct {
	ttl     time.Duration
	now     func() time.Time
	mu      sync.Mutex // bubbletea commands run on their own goroutines
	entries map[uint64]*entry
}

// New creates a cache whose entries live for ttl
func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[uint64]*entry),
	}
}

// WithClock replaces the time source (tests)
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

// TTL returns the configured time-to-live
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Get returns the value cached for (name, args) if it is still fresh
func (c *Cache) Get(name string, args ...any) (any, bool) {
	key, strArgs := makeKey(name, args)

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || !e.matches(name, strArgs) {
		misses.Inc()
		return nil, false
	}
	if c.now().Sub(e.inserted) >= c.ttl {
		misses.Inc()
		return nil, false
	}
	hits.Inc()
	return e.value, true
}

// Set stores value for (name, args), overwriting any previous entry
func (c *Cache) Set(value any, name string, args ...any) {
	key, strArgs := makeKey(name, args)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &entry{
		name:     name,
		args:     strArgs,
		value:    value,
		inserted: c.now(),
	}
}

// Clear drops every entry
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[uint64]*entry)
	c.mu.Unlock()
}

// Len returns the number of stored entries, fresh or not
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Do returns the cached value for (name, args) or calls fetch and caches
// its result. Errors are returned as-is and never cached.
func Do[T any](c *Cache, name string, args []any, fetch func() (T, error)) (T, error) {
	if v, ok := c.Get(name, args...); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	value, err := fetch()
	if err != nil {
		var zero T
		return zero, err
	}

	c.Set(value, name, args...)
	return value, nil
}

func makeKey(name string, args []any) (uint64, []string) {
	d := xxhash.New()
	d.WriteString(name)
	strArgs := make([]string, len(args))
	for i, a := range args {
		strArgs[i] = fmt.Sprintf("%T:%v", a, a)
		d.WriteString("\x00")
		d.WriteString(strArgs[i])
	}
	return d.Sum64(), strArgs
}

// matches guards against xxhash collisions
func (e *entry) matches(name string, args []string) bool {
	if e.name != name || len(e.args) != len(args) {
		return false
	}
	for i := range args {
		if e.args[i] != args[i] {
			return false
		}
	}
	return true
}
