package cache

import (
	"context"
	"sync"
	"testing"
	"time"
)

type payload struct {
	Value string `json:"value"`
}

func newTestMemory(t *testing.T) (*Memory, *time.Time) {
	t.Helper()
	m := NewMemory(16, time.Hour)
	t.Cleanup(func() { _ = m.Close() })

	// Tests freeze time and advance it through the returned pointer.
	now := time.Now()
	m.now = func() time.Time { return now }
	return m, &now
}

func TestMemory_SetGetRoundTrip(t *testing.T) {
	m := NewMemory(16, time.Hour)
	defer m.Close()

	ctx := context.Background()
	if err := m.SetJSON(ctx, "k", payload{Value: "v"}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out payload
	ok, err := m.GetJSON(ctx, "k", &out)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if out.Value != "v" {
		t.Fatalf("expected v, got %q", out.Value)
	}
}

func TestMemory_ExpiredEntryEvictedLazily(t *testing.T) {
	m, now := newTestMemory(t)
	ctx := context.Background()

	if err := m.SetJSON(ctx, "k", payload{Value: "v"}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	*now = now.Add(2 * time.Minute)

	var out payload
	ok, err := m.GetJSON(ctx, "k", &out)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatal("expected miss after TTL expiry")
	}
	if m.Len() != 0 {
		t.Fatalf("expired entry must be removed on access, len=%d", m.Len())
	}
}

func TestMemory_SweepRemovesExpiredEntries(t *testing.T) {
	m, now := newTestMemory(t)
	ctx := context.Background()

	_ = m.SetJSON(ctx, "a", payload{Value: "1"}, time.Minute)
	_ = m.SetJSON(ctx, "b", payload{Value: "2"}, time.Hour)

	*now = now.Add(10 * time.Minute)
	m.Sweep()

	if m.Len() != 1 {
		t.Fatalf("expected one surviving entry, len=%d", m.Len())
	}
	var out payload
	if ok, _ := m.GetJSON(ctx, "b", &out); !ok {
		t.Fatal("unexpired entry must survive the sweep")
	}
}

func TestMemory_BoundedEviction(t *testing.T) {
	m := NewMemory(4, time.Hour)
	defer m.Close()
	ctx := context.Background()

	_ = m.SetJSON(ctx, "short", payload{Value: "s"}, time.Minute)
	_ = m.SetJSON(ctx, "a", payload{}, time.Hour)
	_ = m.SetJSON(ctx, "b", payload{}, time.Hour)
	_ = m.SetJSON(ctx, "c", payload{}, time.Hour)

	// Store is full; the next insert evicts the entry closest to expiry.
	_ = m.SetJSON(ctx, "d", payload{}, time.Hour)

	if m.Len() != 4 {
		t.Fatalf("expected bounded size 4, len=%d", m.Len())
	}
	var out payload
	if ok, _ := m.GetJSON(ctx, "short", &out); ok {
		t.Fatal("soonest-expiring entry should have been evicted")
	}
}

func TestMemory_DeleteAndZeroTTL(t *testing.T) {
	m := NewMemory(16, time.Hour)
	defer m.Close()
	ctx := context.Background()

	_ = m.SetJSON(ctx, "k", payload{Value: "v"}, time.Minute)
	_ = m.Delete(ctx, "k")

	var out payload
	if ok, _ := m.GetJSON(ctx, "k", &out); ok {
		t.Fatal("deleted entry must miss")
	}

	if err := m.SetJSON(ctx, "zero", payload{}, 0); err != nil {
		t.Fatalf("zero ttl set: %v", err)
	}
	if ok, _ := m.GetJSON(ctx, "zero", &out); ok {
		t.Fatal("zero-ttl writes must not be stored")
	}
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	m := NewMemory(128, time.Hour)
	defer m.Close()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := string(rune('a' + n))
			for j := 0; j < 100; j++ {
				_ = m.SetJSON(ctx, key, payload{Value: key}, time.Minute)
				var out payload
				_, _ = m.GetJSON(ctx, key, &out)
			}
		}(i)
	}
	wg.Wait()
}
