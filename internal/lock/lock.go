// Package lock implements advisory mutual exclusion over a shared key-value
// store. Locks only coordinate callers that honor them; they do not protect
// against direct, unlocked writes to the ledger.
package lock

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
)

// Store is the minimal primitive the coordinator needs: an atomic
// "set if absent with expiry" and an unconditional delete.
type Store interface {
	SetNX(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Del(ctx context.Context, key string) error
}

// Options carry the timing knobs. They are explicit configuration so tests
// can shrink them and inject a fake sleep.
type Options struct {
	TTL            time.Duration // lock key expiry
	AcquireTimeout time.Duration // total budget for AcquireWithRetry / AcquireAll
	PollInterval   time.Duration // sleep between failed probes
}

// DefaultOptions match the production tuning: locks expire after 5s, callers
// retry for up to 2s probing every 50ms.
func DefaultOptions() Options {
	return Options{
		TTL:            5 * time.Second,
		AcquireTimeout: 2 * time.Second,
		PollInterval:   50 * time.Millisecond,
	}
}

// Coordinator wraps a Store into acquire/release semantics with bounded retry.
type Coordinator struct {
	store Store
	opts  Options
	sleep func(time.Duration)
	now   func() time.Time
}

func NewCoordinator(store Store, opts Options) *Coordinator {
	if opts.TTL <= 0 {
		opts.TTL = DefaultOptions().TTL
	}
	if opts.AcquireTimeout <= 0 {
		opts.AcquireTimeout = DefaultOptions().AcquireTimeout
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultOptions().PollInterval
	}
	return &Coordinator{store: store, opts: opts, sleep: time.Sleep, now: time.Now}
}

// SetSleep replaces the sleep function. Deterministic tests use this to avoid
// real waiting during retry loops.
func (c *Coordinator) SetSleep(fn func(time.Duration)) { c.sleep = fn }

// Acquire is a single non-blocking probe. It returns true only when this call
// created the key, i.e. the caller holds exclusive ownership for the TTL.
func (c *Coordinator) Acquire(ctx context.Context, key string) (bool, error) {
	return c.store.SetNX(ctx, key, c.opts.TTL)
}

// Release unconditionally deletes the key. Releasing an expired or already
// released key is a no-op; errors are logged and swallowed because release
// runs on every exit path and must never mask the operation's outcome.
func (c *Coordinator) Release(ctx context.Context, key string) {
	if err := c.store.Del(ctx, key); err != nil {
		log.Warn().Str("key", key).Err(err).Msg("lock release failed")
	}
}

// AcquireWithRetry loops Acquire until success or the acquisition timeout
// elapses. A false return means "could not obtain exclusivity" — the caller
// aborts its operation; it is never a fatal error.
func (c *Coordinator) AcquireWithRetry(ctx context.Context, key string) bool {
	deadline := c.now().Add(c.opts.AcquireTimeout)
	for {
		ok, err := c.store.SetNX(ctx, key, c.opts.TTL)
		if err != nil {
			log.Warn().Str("key", key).Err(err).Msg("lock probe failed")
		} else if ok {
			return true
		}
		if ctx.Err() != nil || !c.now().Before(deadline) {
			return false
		}
		c.sleep(c.opts.PollInterval)
	}
}

// AcquireAll acquires every key in lexicographic order so that concurrent
// multi-key callers cannot circular-wait. Duplicate keys are collapsed. On
// any failure, keys already held are released (reverse order) and the
// offending key is returned with ok=false. On success the held keys are
// returned in acquisition order; pass them to ReleaseAll when done.
func (c *Coordinator) AcquireAll(ctx context.Context, keys []string) (held []string, failed string, ok bool) {
	sorted := dedupeSorted(keys)
	held = make([]string, 0, len(sorted))
	for _, key := range sorted {
		if !c.AcquireWithRetry(ctx, key) {
			c.ReleaseAll(ctx, held)
			return nil, key, false
		}
		held = append(held, key)
	}
	return held, "", true
}

// ReleaseAll releases held keys in reverse acquisition order.
func (c *Coordinator) ReleaseAll(ctx context.Context, held []string) {
	for i := len(held) - 1; i >= 0; i-- {
		c.Release(ctx, held[i])
	}
}

func dedupeSorted(keys []string) []string {
	sorted := make([]string, len(keys))
	copy(sorted, keys)
	sort.Strings(sorted)
	out := sorted[:0]
	for i, k := range sorted {
		if i == 0 || k != sorted[i-1] {
			out = append(out, k)
		}
	}
	return out
}
