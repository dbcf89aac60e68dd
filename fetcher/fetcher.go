// Package fetcher downloads a URL into memory with bounded retries,
// exponential backoff, and progress observation. Archive readers need random
// access, so the full body is buffered before returning.
package fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"repo-fetch/helpers"
)

// ErrFetchExhausted signals that every attempt within the retry budget
// failed. The caller decides whether a fallback URL is worth the same
// budget.
var ErrFetchExhausted = errors.New("download retries exhausted")

const (
	DefaultTimeout       = 60 * time.Second
	DefaultMaxRetries    = 3
	DefaultBackoffFactor = 1.5
)

// Options tunes one Download call. Zero Timeout and BackoffFactor pick the
// defaults above; MaxRetries 0 genuinely means no retries, a negative value
// picks DefaultMaxRetries.
type Options struct {
	Timeout       time.Duration
	MaxRetries    int
	BackoffFactor float64

	// Sleep waits between attempts. Injectable so tests can assert the
	// backoff schedule without real delay. The default honors ctx.
	Sleep func(ctx context.Context, d time.Duration) error

	Progress helpers.Progress
	Logf     helpers.Logf
}

func (o *Options) withDefaults() {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = DefaultMaxRetries
	}
	if o.BackoffFactor <= 0 {
		o.BackoffFactor = DefaultBackoffFactor
	}
	if o.Sleep == nil {
		o.Sleep = sleepContext
	}
	if o.Progress == nil {
		o.Progress = helpers.NopProgress
	}
	if o.Logf == nil {
		o.Logf = helpers.NopLogf
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// statusError marks a non-2xx response as a retryable failure.
type statusError struct {
	Code   int
	Status string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status: %s", e.Status)
}

// Download performs a streaming GET against rawURL and returns the complete
// response body. Every network-class failure (transport error, timeout,
// non-2xx status, truncated body) consumes one attempt; between attempts the
// fetcher sleeps backoff^attempt seconds. After MaxRetries retries the last
// error is returned wrapped in ErrFetchExhausted.
func Download(ctx context.Context, rawURL string, opts Options) ([]byte, error) {
	opts.withDefaults()

	client := &http.Client{Timeout: opts.Timeout}

	var lastErr error
	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := backoffDelay(opts.BackoffFactor, attempt)
			opts.Logf("retrying in %.1fs (attempt %d/%d): %v", delay.Seconds(), attempt, opts.MaxRetries, lastErr)
			if err := opts.Sleep(ctx, delay); err != nil {
				return nil, err
			}
		}

		body, err := fetchOnce(ctx, client, rawURL, opts.Progress)
		if err == nil {
			return body, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
	}

	return nil, fmt.Errorf("%w after %d attempts: %w", ErrFetchExhausted, opts.MaxRetries+1, lastErr)
}

func backoffDelay(factor float64, attempt int) time.Duration {
	return time.Duration(math.Pow(factor, float64(attempt)) * float64(time.Second))
}

func fetchOnce(ctx context.Context, client *http.Client, rawURL string, progress helpers.Progress) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &statusError{Code: resp.StatusCode, Status: resp.Status}
	}

	// ContentLength is -1 when the server omits it; progress degrades to
	// indeterminate in that case.
	total := resp.ContentLength
	if total < 0 {
		total = 0
	}

	var buf bytes.Buffer
	if total > 0 {
		buf.Grow(int(total))
	}

	counter := &countingWriter{progress: progress, total: total}
	if _, err := io.Copy(io.MultiWriter(&buf, counter), resp.Body); err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return buf.Bytes(), nil
}

// countingWriter reports cumulative bytes received to the progress sink.
type countingWriter struct {
	progress helpers.Progress
	current  int64
	total    int64
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.current += int64(len(p))
	w.progress(w.current, w.total)
	return len(p), nil
}
