package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

const (
	defaultMaxEntries    = 10000
	defaultSweepInterval = 5 * time.Minute
)

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// Memory is the in-process match-result cache used by single-replica
// deployments and as the default when Redis is not configured. Expired
// entries are evicted lazily on read and eagerly by a background sweep.
type Memory struct {
	mu         sync.RWMutex
	entries    map[string]memoryEntry
	maxEntries int

	stopOnce sync.Once
	stop     chan struct{}

	// now is replaceable in tests.
	now func() time.Time
}

func NewMemory(maxEntries int, sweepInterval time.Duration) *Memory {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	if sweepInterval <= 0 {
		sweepInterval = defaultSweepInterval
	}

	m := &Memory{
		entries:    make(map[string]memoryEntry),
		maxEntries: maxEntries,
		stop:       make(chan struct{}),
		now:        time.Now,
	}

	go m.sweepLoop(sweepInterval)
	return m
}

func (m *Memory) Ping(ctx context.Context) error { return nil }

func (m *Memory) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}

	if m.now().After(e.expiresAt) {
		m.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have
		// refreshed the entry.
		if cur, still := m.entries[key]; still && m.now().After(cur.expiresAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return false, nil
	}

	if err := json.Unmarshal(e.payload, out); err != nil {
		return false, err
	}
	return true, nil
}

func (m *Memory) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.entries) >= m.maxEntries {
		m.evictLocked()
	}
	m.entries[key] = memoryEntry{payload: b, expiresAt: m.now().Add(ttl)}
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// Close stops the background sweep.
func (m *Memory) Close() error {
	m.stopOnce.Do(func() { close(m.stop) })
	return nil
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *Memory) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// Sweep removes every expired entry.
func (m *Memory) Sweep() {
	now := m.now()
	m.mu.Lock()
	for k, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, k)
		}
	}
	m.mu.Unlock()
}

// evictLocked frees room for one insert: expired entries first, then the
// entry closest to expiry. Caller holds the write lock.
func (m *Memory) evictLocked() {
	now := m.now()
	for k, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, k)
		}
	}
	if len(m.entries) < m.maxEntries {
		return
	}

	var oldestKey string
	var oldestExpiry time.Time
	for k, e := range m.entries {
		if oldestKey == "" || e.expiresAt.Before(oldestExpiry) {
			oldestKey = k
			oldestExpiry = e.expiresAt
		}
	}
	if oldestKey != "" {
		delete(m.entries, oldestKey)
	}
}
