package cache

import (
	"context"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Memory is an in-process Store/CounterStore used by tests and by
// single-node deployments that run without Redis. Expiry is evaluated
// lazily on read against an injectable clock.
type Memory struct {
	mu    sync.Mutex
	items map[string]memoryItem
	lists map[string][]string
	now   func() time.Time
}

type memoryItem struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

// NewMemory creates an in-process store using the wall clock
func NewMemory() *Memory {
	return NewMemoryWithClock(time.Now)
}

// NewMemoryWithClock creates an in-process store with a custom clock,
// so tests can step time past TTLs deterministically.
func NewMemoryWithClock(now func() time.Time) *Memory {
	return &Memory{
		items: make(map[string]memoryItem),
		lists: make(map[string][]string),
		now:   now,
	}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[key]
	if !ok {
		return "", ErrNotFound
	}
	if !item.expiresAt.IsZero() && !m.now().Before(item.expiresAt) {
		delete(m.items, key)
		return "", ErrNotFound
	}
	return item.value, nil
}

func (m *Memory) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item := memoryItem{value: value}
	if ttl > 0 {
		item.expiresAt = m.now().Add(ttl)
	}
	m.items[key] = item
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range keys {
		delete(m.items, key)
		delete(m.lists, key)
	}
	return nil
}

func (m *Memory) DeleteByPattern(_ context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key := range m.items {
		if matchPattern(pattern, key) {
			delete(m.items, key)
		}
	}
	for key := range m.lists {
		if matchPattern(pattern, key) {
			delete(m.lists, key)
		}
	}
	return nil
}

func (m *Memory) Incr(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item := m.items[key]
	n, _ := strconv.ParseInt(item.value, 10, 64)
	n++
	item.value = strconv.FormatInt(n, 10)
	m.items[key] = item
	return n, nil
}

func (m *Memory) PushCapped(_ context.Context, key string, value string, max int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := append([]string{value}, m.lists[key]...)
	if int64(len(list)) > max {
		list = list[:max]
	}
	m.lists[key] = list
	return nil
}

func (m *Memory) Recent(_ context.Context, key string, n int64) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.lists[key]
	if int64(len(list)) > n {
		list = list[:n]
	}
	out := make([]string, len(list))
	copy(out, list)
	return out, nil
}

// matchPattern matches Redis-style glob patterns. path.Match covers the
// subset the engine uses (trailing "*" on colon-separated keys).
func matchPattern(pattern, key string) bool {
	ok, err := path.Match(pattern, key)
	if err != nil {
		return false
	}
	// path.Match stops "*" at "/"; cache keys use ":" separators, so a
	// trailing "*" should match the remainder regardless of separators.
	if !ok && strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(key, strings.TrimSuffix(pattern, "*"))
	}
	return ok
}

