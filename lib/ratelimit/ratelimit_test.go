package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSpacingEnforced(t *testing.T) {
	const permits = 3
	const interval = time.Millisecond * 40

	limiter := NewLimiter(Options{
		Interval:      interval,
		MaxConcurrent: permits,
	})

	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < permits; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := limiter.Acquire(context.Background())
			require.NoError(t, err)
			release()
		}()
	}
	wg.Wait()

	elapsed := time.Since(start)
	require.GreaterOrEqual(t, elapsed, (permits-1)*interval)
}

func TestSpacingMeasuredFromGrant(t *testing.T) {
	const interval = time.Millisecond * 50

	limiter := NewLimiter(Options{
		Interval:      interval,
		MaxConcurrent: 1,
	})

	release, err := limiter.Acquire(context.Background())
	require.NoError(t, err)
	// an immediate release must not shorten the spacing before the
	// next grant
	release()

	start := time.Now()
	release, err = limiter.Acquire(context.Background())
	require.NoError(t, err)
	release()

	require.GreaterOrEqual(t, time.Since(start), interval-time.Millisecond*5)
}

func TestConcurrencyBound(t *testing.T) {
	limiter := NewLimiter(Options{MaxConcurrent: 1})

	release, err := limiter.Acquire(context.Background())
	require.NoError(t, err)

	blocked := make(chan struct{})
	go func() {
		secondRelease, err := limiter.Acquire(context.Background())
		if err == nil {
			defer secondRelease()
		}
		close(blocked)
	}()

	select {
	case <-blocked:
		t.Fatal("second acquire should block while the first permit is outstanding")
	case <-time.After(time.Millisecond * 50):
	}

	release()
	select {
	case <-blocked:
	case <-time.After(time.Second):
		t.Fatal("second acquire never woke after release")
	}
}

func TestAcquireObservesCancellation(t *testing.T) {
	limiter := NewLimiter(Options{
		Interval:      time.Second * 10,
		MaxConcurrent: 1,
	})

	release, err := limiter.Acquire(context.Background())
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(time.Millisecond * 20)
		cancel()
	}()

	_, err = limiter.Acquire(ctx)
	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)
}

func TestAcquireTimeout(t *testing.T) {
	limiter := NewLimiter(Options{
		Interval:       time.Second * 10,
		MaxConcurrent:  1,
		AcquireTimeout: time.Millisecond * 30,
	})

	release, err := limiter.Acquire(context.Background())
	require.NoError(t, err)
	defer release()

	start := time.Now()
	_, err = limiter.Acquire(context.Background())
	require.Error(t, err)
	require.Less(t, time.Since(start), time.Second)
}

func TestReleaseIsIdempotent(t *testing.T) {
	limiter := NewLimiter(Options{MaxConcurrent: 1})

	release, err := limiter.Acquire(context.Background())
	require.NoError(t, err)
	release()
	release()

	// a double release must not have freed a second slot
	release2, err := limiter.Acquire(context.Background())
	require.NoError(t, err)
	defer release2()
}
