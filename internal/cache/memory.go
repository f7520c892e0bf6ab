package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// DefaultMaxEntries caps a MemoryCache built with a nonpositive size.
const DefaultMaxEntries = 10000

type memoryEntry struct {
	key       string
	value     string
	expiresAt time.Time // zero means no expiry
}

// MemoryCache is an in-process ResultCache. Entries expire after ttl and the
// least recently used entry is evicted once maxEntries is reached.
type MemoryCache struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	order      *list.List // front is most recently used
	items      map[string]*list.Element

	now func() time.Time
}

// NewMemoryCache creates a cache. A zero ttl keeps entries until evicted.
func NewMemoryCache(ttl time.Duration, maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryCache{
		ttl:        ttl,
		maxEntries: maxEntries,
		order:      list.New(),
		items:      make(map[string]*list.Element),
		now:        time.Now,
	}
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.items[key]
	if !ok {
		return "", false
	}
	e := el.Value.(*memoryEntry)
	if m.expired(e) {
		m.remove(el)
		return "", false
	}
	m.order.MoveToFront(el)
	return e.value, true
}

func (m *MemoryCache) Set(_ context.Context, key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var expiresAt time.Time
	if m.ttl > 0 {
		expiresAt = m.now().Add(m.ttl)
	}

	if el, ok := m.items[key]; ok {
		e := el.Value.(*memoryEntry)
		e.value, e.expiresAt = value, expiresAt
		m.order.MoveToFront(el)
		return nil
	}

	m.items[key] = m.order.PushFront(&memoryEntry{key: key, value: value, expiresAt: expiresAt})
	for m.order.Len() > m.maxEntries {
		m.remove(m.order.Back())
	}
	return nil
}

// Len returns the number of stored entries, including expired ones not yet
// touched.
func (m *MemoryCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}

func (m *MemoryCache) expired(e *memoryEntry) bool {
	return !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt)
}

func (m *MemoryCache) remove(el *list.Element) {
	m.order.Remove(el)
	delete(m.items, el.Value.(*memoryEntry).key)
}
