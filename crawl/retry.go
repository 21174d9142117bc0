package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/ohscrap"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (string, error)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// FetchWithRetry calls fetch up to policy.Times times, waiting
// policy.Interval between attempts, and returns the first successful
// content. When every attempt fails the error has code EEXHAUSTED and
// wraps the last failure. The logger, if provided, is called before each
// retry.
func FetchWithRetry(ctx context.Context, url string, fetch FetchFunc, logger LogFunc, policy ohscrap.RetryPolicy) (string, error) {
	attempts := max(policy.Times, 1)

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		html, err := fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		lastErr = err

		if err := ctx.Err(); err != nil {
			return "", err
		}
		if attempt == attempts {
			break
		}

		if logger != nil {
			logger("retry %s (attempt %d of %d): %v", url, attempt+1, attempts, err)
		}

		if policy.Interval > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(policy.Interval):
			}
		}
	}

	return "", ohscrap.WrapError(ohscrap.EEXHAUSTED, lastErr, "fetch %s failed after %d attempts", url, attempts)
}
