package cache

import (
    "context"
    "sync"
    "time"
)

// Store is a generic byte store under the quote cache. Implementations
// are fail-open: a read problem reports a miss and a write problem is a
// no-op, so price sync always proceeds (possibly refetching) instead of
// breaking on cache trouble.
type Store interface {
    Get(ctx context.Context, key string) ([]byte, bool)
    Set(ctx context.Context, key string, data []byte)
}

// Memory is an in-process Store. It is not durable; the freshness
// window above it behaves identically either way.
type Memory struct {
    mu    sync.RWMutex
    items map[string][]byte
}

func NewMemory() *Memory {
    return &Memory{items: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
    m.mu.RLock()
    defer m.mu.RUnlock()
    b, ok := m.items[key]
    return b, ok
}

func (m *Memory) Set(_ context.Context, key string, data []byte) {
    m.mu.Lock()
    m.items[key] = append([]byte(nil), data...)
    m.mu.Unlock()
}

// now is swappable for freshness tests.
var now = time.Now
