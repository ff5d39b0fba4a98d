package cache

import (
	"container/list"
	"sync"
	"time"
)

const DefaultMaxEntries = 1024

// Cache maps keys to values that expire after a fixed TTL. Expiry is checked
// on every lookup; the least recently used entry is dropped once maxEntries
// is exceeded.
type Cache[V any] struct {
	mu         sync.Mutex
	entries    map[string]*list.Element
	order      *list.List
	maxEntries int
	ttl        time.Duration
	now        func() time.Time
}

type entry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
}

// New builds a cache. A nil now falls back to time.Now.
func New[V any](ttl time.Duration, maxEntries int, now func() time.Time) *Cache[V] {
	if ttl <= 0 {
		return nil
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if now == nil {
		now = time.Now
	}

	return &Cache[V]{
		entries:    make(map[string]*list.Element, maxEntries),
		order:      list.New(),
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        now,
	}
}

func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V
	if c == nil || key == "" {
		return zero, false
	}

	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return zero, false
	}

	e, ok := elem.Value.(*entry[V])
	if !ok {
		return zero, false
	}

	if !now.Before(e.expiresAt) {
		c.removeElement(elem)

		return zero, false
	}

	c.order.MoveToFront(elem)

	return e.value, true
}

func (c *Cache[V]) Set(key string, value V) {
	if c == nil || key == "" {
		return
	}

	now := c.now()
	expiresAt := now.Add(c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		e, castOk := elem.Value.(*entry[V])
		if !castOk {
			return
		}

		e.value = value
		e.expiresAt = expiresAt
		c.order.MoveToFront(elem)

		return
	}

	elem := c.order.PushFront(&entry[V]{
		key:       key,
		value:     value,
		expiresAt: expiresAt,
	})
	c.entries[key] = elem

	c.evictExpiredLocked(now)
	c.enforceSizeLimitLocked()
}

// GetOrCompute returns the cached value for key, or calls compute and caches
// its result. The second return value reports a cache hit. Errors from
// compute are returned as-is and nothing is cached.
func (c *Cache[V]) GetOrCompute(key string, compute func() (V, error)) (V, bool, error) {
	if v, ok := c.Get(key); ok {
		return v, true, nil
	}

	v, err := compute()
	if err != nil {
		return v, false, err
	}

	c.Set(key, v)

	return v, false, nil
}

func (c *Cache[V]) Len() int {
	if c == nil {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

func (c *Cache[V]) evictExpiredLocked(now time.Time) {
	for elem := c.order.Back(); elem != nil; {
		prev := elem.Prev()

		e, ok := elem.Value.(*entry[V])
		if ok && !now.Before(e.expiresAt) {
			c.removeElement(elem)
		}
		elem = prev
	}
}

func (c *Cache[V]) enforceSizeLimitLocked() {
	for len(c.entries) > c.maxEntries {
		elem := c.order.Back()
		if elem == nil {
			return
		}
		c.removeElement(elem)
	}
}

func (c *Cache[V]) removeElement(elem *list.Element) {
	e, ok := elem.Value.(*entry[V])
	if !ok {
		return
	}

	delete(c.entries, e.key)
	c.order.Remove(elem)
}
