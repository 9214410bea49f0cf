package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// Limiter paces outbound requests. a permit is granted once at least
// `interval` has passed since the previous grant anywhere in the
// process and fewer than `maxConcurrent` permits are outstanding.
// releasing a permit frees its concurrency slot but never resets the
// interval clock: spacing is measured grant to grant, so fast responses
// don't let callers burst.
//
// one Limiter instance is shared by everything that talks to the same
// upstream host.
type Limiter struct {
	interval       time.Duration
	acquireTimeout time.Duration
	slots          *semaphore.Weighted

	mu        sync.Mutex
	lastGrant time.Time
}

type Options struct {
	// minimum spacing between grants, 0 disables pacing
	Interval time.Duration
	// maximum permits outstanding at once
	MaxConcurrent int
	// upper bound on how long a single Acquire may block, 0 means
	// bounded only by ctx
	AcquireTimeout time.Duration
}

func NewLimiter(options Options) *Limiter {
	if options.MaxConcurrent < 1 {
		options.MaxConcurrent = 1
	}
	return &Limiter{
		interval:       options.Interval,
		acquireTimeout: options.AcquireTimeout,
		slots:          semaphore.NewWeighted(int64(options.MaxConcurrent)),
	}
}

// Acquire blocks until a permit is granted, ctx is cancelled, or the
// acquire timeout elapses. the returned release function must be called
// exactly once when the request finishes, success or failure.
func (l *Limiter) Acquire(ctx context.Context) (release func(), err error) {
	if l.acquireTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.acquireTimeout)
		defer cancel()
	}

	err = l.slots.Acquire(ctx, 1)
	if err != nil {
		return nil, fmt.Errorf("acquire rate limit slot: %w", err)
	}

	err = l.waitInterval(ctx)
	if err != nil {
		l.slots.Release(1)
		return nil, err
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.slots.Release(1)
		})
	}, nil
}

func (l *Limiter) waitInterval(ctx context.Context) error {
	for {
		l.mu.Lock()
		wait := l.interval - time.Since(l.lastGrant)
		if l.lastGrant.IsZero() || wait <= 0 {
			l.lastGrant = time.Now()
			l.mu.Unlock()
			return nil
		}
		l.mu.Unlock()

		// several waiters can wake at once, the loop re-checks the
		// clock under the lock so only one claims each grant
		select {
		case <-ctx.Done():
			return fmt.Errorf("wait for request spacing: %w", ctx.Err())
		case <-time.After(wait):
		}
	}
}
