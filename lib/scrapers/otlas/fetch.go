package otlas

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"partnerscout-backend/lib/ratelimit"

	"github.com/go-resty/resty/v2"
	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("partnerscout.lib.scrapers.otlas")

// RetryPolicy bounds the fetch retry loop. a fetch makes at most
// MaxRetries+1 attempts, waiting BackoffBase*2^n (capped at BackoffCap,
// plus jitter) between them. a Retry-After header on a 429 overrides
// the computed wait.
type RetryPolicy struct {
	MaxRetries  int
	BackoffBase time.Duration
	BackoffCap  time.Duration
}

// Fetcher performs rate-limited GETs against the platform. every
// attempt, retries included, takes a fresh permit from the shared
// limiter so retries never bypass pacing.
type Fetcher struct {
	http    *resty.Client
	limiter *ratelimit.Limiter
	policy  RetryPolicy

	// replaced in tests to observe backoff without real waiting
	sleep func(ctx context.Context, d time.Duration) error
}

func NewFetcher(client *resty.Client, limiter *ratelimit.Limiter, policy RetryPolicy) *Fetcher {
	if policy.MaxRetries < 0 {
		policy.MaxRetries = 0
	}
	if policy.BackoffBase <= 0 {
		policy.BackoffBase = time.Second
	}
	if policy.BackoffCap < policy.BackoffBase {
		policy.BackoffCap = policy.BackoffBase * 16
	}
	return &Fetcher{
		http:    client,
		limiter: limiter,
		policy:  policy,
		sleep:   sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

func classifyStatus(code int) FetchOutcome {
	switch {
	case code >= 200 && code < 300:
		return FetchSuccess
	case code == http.StatusTooManyRequests:
		return FetchRetryable
	case code >= 500:
		return FetchRetryable
	default:
		return FetchFatal
	}
}

func retryAfterDelay(res *resty.Response) (time.Duration, bool) {
	header := res.Header().Get("Retry-After")
	if header == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(header); err == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second, true
	}
	if at, err := http.ParseTime(header); err == nil {
		wait := time.Until(at)
		if wait < 0 {
			wait = 0
		}
		return wait, true
	}
	return 0, false
}

func (f *Fetcher) backoffDelay(attempt int) time.Duration {
	delay := f.policy.BackoffBase << attempt
	if delay > f.policy.BackoffCap || delay <= 0 {
		delay = f.policy.BackoffCap
	}
	// jitter below delay/4 keeps waits strictly increasing while
	// spreading out synchronized retries
	quarter := int(delay / 4 / time.Millisecond)
	if quarter > 0 {
		extra, err := random.IntRange(0, quarter)
		if err == nil {
			delay += time.Duration(extra) * time.Millisecond
		}
	}
	return delay
}

// Fetch runs the bounded retry loop for one descriptor. it never
// returns an error: cancellation, exhausted retries and fatal HTTP
// statuses all come back as a RawFetchResult with the outcome and a
// descriptive Err set.
func (f *Fetcher) Fetch(ctx context.Context, desc RequestDescriptor) RawFetchResult {
	ctx, span := tracer.Start(ctx, "Fetch")
	defer span.End()
	span.SetAttributes(attribute.String("url", desc.URL))

	var result RawFetchResult
	for attempt := 0; ; attempt++ {
		result = f.attempt(ctx, desc)
		result.Attempts = attempt + 1

		if result.Outcome != FetchRetryable {
			break
		}
		if attempt >= f.policy.MaxRetries {
			result.Outcome = FetchFatal
			result.Err = fmt.Errorf(
				"retries exhausted after %d attempts: %w",
				result.Attempts, result.Err,
			)
			break
		}

		delay := f.backoffDelay(attempt)
		if result.StatusCode == http.StatusTooManyRequests && result.retryAfter > 0 {
			delay = result.retryAfter
		}
		span.AddEvent("backoff", trace.WithAttributes(
			attribute.Int("attempt", attempt+1),
			attribute.String("delay", delay.String()),
		))

		err := f.sleep(ctx, delay)
		if err != nil {
			result.Outcome = FetchFatal
			result.Err = fmt.Errorf("cancelled during backoff: %w", err)
			break
		}
	}

	span.SetAttributes(
		attribute.Int("attempts", result.Attempts),
		attribute.String("outcome", string(result.Outcome)),
	)
	if result.Outcome != FetchSuccess {
		span.RecordError(result.Err)
		span.SetStatus(codes.Error, "fetch failed")
	}
	return result
}

// one rate-limited request. the permit is held for the duration of the
// network call only, backoff waits happen without a permit.
func (f *Fetcher) attempt(ctx context.Context, desc RequestDescriptor) RawFetchResult {
	release, err := f.limiter.Acquire(ctx)
	if err != nil {
		return RawFetchResult{
			URL:     desc.URL,
			Outcome: FetchFatal,
			Err:     err,
		}
	}
	defer release()

	start := time.Now()
	res, err := f.http.R().
		SetContext(ctx).
		Get(desc.URL)
	elapsed := time.Since(start)

	if err != nil {
		if ctx.Err() != nil {
			return RawFetchResult{
				URL:     desc.URL,
				Elapsed: elapsed,
				Outcome: FetchFatal,
				Err:     fmt.Errorf("fetch cancelled: %w", err),
			}
		}
		return RawFetchResult{
			URL:     desc.URL,
			Elapsed: elapsed,
			Outcome: FetchRetryable,
			Err:     fmt.Errorf("request failed: %w", err),
		}
	}

	outcome := classifyStatus(res.StatusCode())
	result := RawFetchResult{
		URL:        desc.URL,
		StatusCode: res.StatusCode(),
		Body:       res.String(),
		Elapsed:    elapsed,
		Outcome:    outcome,
	}
	switch outcome {
	case FetchRetryable:
		result.Err = fmt.Errorf("http %d from %s", res.StatusCode(), desc.URL)
		if wait, ok := retryAfterDelay(res); ok {
			result.retryAfter = wait
		}
	case FetchFatal:
		result.Err = fmt.Errorf("http %d from %s", res.StatusCode(), desc.URL)
	}
	return result
}
