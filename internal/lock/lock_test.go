package lock_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"retailpos/internal/lock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── In-memory Store ──────────────────────────────────────────────────────────

type memoryStore struct {
	mu   sync.Mutex
	keys map[string]struct{}
	// onProbe, when set, runs after every SetNX attempt (used to release a
	// contended key mid-retry without real sleeping).
	onProbe func()
}

func newMemoryStore() *memoryStore {
	return &memoryStore{keys: make(map[string]struct{})}
}

func (s *memoryStore) SetNX(_ context.Context, key string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	_, exists := s.keys[key]
	if !exists {
		s.keys[key] = struct{}{}
	}
	s.mu.Unlock()
	if s.onProbe != nil {
		s.onProbe()
	}
	return !exists, nil
}

func (s *memoryStore) Del(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.keys, key)
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) held(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.keys[key]
	return ok
}

func (s *memoryStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.keys)
}

var _ lock.Store = (*memoryStore)(nil)

func fastOptions() lock.Options {
	return lock.Options{
		TTL:            5 * time.Second,
		AcquireTimeout: 100 * time.Millisecond,
		PollInterval:   time.Millisecond,
	}
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestAcquireAndRelease(t *testing.T) {
	store := newMemoryStore()
	c := lock.NewCoordinator(store, fastOptions())
	ctx := context.Background()

	ok, err := c.Acquire(ctx, "lock:variant:a")
	require.NoError(t, err)
	assert.True(t, ok)

	// Second probe on a held key must fail without blocking.
	ok, err = c.Acquire(ctx, "lock:variant:a")
	require.NoError(t, err)
	assert.False(t, ok)

	c.Release(ctx, "lock:variant:a")
	assert.False(t, store.held("lock:variant:a"))

	// Releasing an already released key is a no-op.
	c.Release(ctx, "lock:variant:a")
}

func TestAcquireWithRetryEventuallySucceeds(t *testing.T) {
	store := newMemoryStore()
	c := lock.NewCoordinator(store, fastOptions())
	c.SetSleep(func(time.Duration) {})
	ctx := context.Background()

	ok, err := c.Acquire(ctx, "lock:variant:a")
	require.NoError(t, err)
	require.True(t, ok)

	// Free the key after a few failed probes.
	probes := 0
	store.onProbe = func() {
		probes++
		if probes == 3 {
			_ = store.Del(ctx, "lock:variant:a")
		}
	}

	assert.True(t, c.AcquireWithRetry(ctx, "lock:variant:a"))
	assert.GreaterOrEqual(t, probes, 3)
}

func TestAcquireWithRetryTimesOut(t *testing.T) {
	store := newMemoryStore()
	c := lock.NewCoordinator(store, lock.Options{
		TTL:            5 * time.Second,
		AcquireTimeout: 20 * time.Millisecond,
		PollInterval:   time.Millisecond,
	})
	ctx := context.Background()

	ok, err := c.Acquire(ctx, "lock:variant:busy")
	require.NoError(t, err)
	require.True(t, ok)

	start := time.Now()
	assert.False(t, c.AcquireWithRetry(ctx, "lock:variant:busy"))
	assert.Less(t, time.Since(start), time.Second)
}

func TestAcquireWithRetryHonorsContextCancel(t *testing.T) {
	store := newMemoryStore()
	c := lock.NewCoordinator(store, fastOptions())
	c.SetSleep(func(time.Duration) {})

	ctx, cancel := context.WithCancel(context.Background())
	ok, err := c.Acquire(ctx, "lock:variant:busy")
	require.NoError(t, err)
	require.True(t, ok)

	cancel()
	assert.False(t, c.AcquireWithRetry(ctx, "lock:variant:busy"))
}

func TestAcquireAllHoldsEveryKey(t *testing.T) {
	store := newMemoryStore()
	c := lock.NewCoordinator(store, fastOptions())
	ctx := context.Background()

	held, failed, ok := c.AcquireAll(ctx, []string{"lock:variant:c", "lock:variant:a", "lock:variant:b"})
	require.True(t, ok)
	assert.Empty(t, failed)

	// Keys come back in lexicographic (acquisition) order.
	assert.Equal(t, []string{"lock:variant:a", "lock:variant:b", "lock:variant:c"}, held)
	assert.Equal(t, 3, store.count())

	c.ReleaseAll(ctx, held)
	assert.Equal(t, 0, store.count())
}

func TestAcquireAllCollapsesDuplicates(t *testing.T) {
	store := newMemoryStore()
	c := lock.NewCoordinator(store, fastOptions())
	ctx := context.Background()

	held, _, ok := c.AcquireAll(ctx, []string{"lock:variant:a", "lock:variant:a", "lock:variant:a"})
	require.True(t, ok)
	assert.Equal(t, []string{"lock:variant:a"}, held)

	c.ReleaseAll(ctx, held)
	assert.Equal(t, 0, store.count())
}

func TestAcquireAllReleasesOnPartialFailure(t *testing.T) {
	store := newMemoryStore()
	c := lock.NewCoordinator(store, lock.Options{
		TTL:            5 * time.Second,
		AcquireTimeout: 10 * time.Millisecond,
		PollInterval:   time.Millisecond,
	})
	ctx := context.Background()

	// Hold the middle key so the batch fails after acquiring "a".
	ok, err := c.Acquire(ctx, "lock:variant:b")
	require.NoError(t, err)
	require.True(t, ok)

	held, failed, ok := c.AcquireAll(ctx, []string{"lock:variant:a", "lock:variant:b", "lock:variant:c"})
	assert.False(t, ok)
	assert.Nil(t, held)
	assert.Equal(t, "lock:variant:b", failed)

	// "a" must have been released; only the externally held "b" remains.
	assert.False(t, store.held("lock:variant:a"))
	assert.False(t, store.held("lock:variant:c"))
	assert.True(t, store.held("lock:variant:b"))
}

func TestConcurrentAcquireIsExclusive(t *testing.T) {
	store := newMemoryStore()
	c := lock.NewCoordinator(store, fastOptions())
	ctx := context.Background()

	const workers = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	inCritical := 0
	maxInCritical := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !c.AcquireWithRetry(ctx, "lock:variant:hot") {
				return
			}
			mu.Lock()
			inCritical++
			if inCritical > maxInCritical {
				maxInCritical = inCritical
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inCritical--
			mu.Unlock()
			c.Release(ctx, "lock:variant:hot")
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxInCritical, "two holders entered the critical section")
}
