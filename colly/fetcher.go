// Package colly implements ohscrap.Fetcher on top of a gocolly collector.
// It suits static sites and shares the collector's cookie jar and HTTP
// transport across fetches.
package colly

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/fwojciec/ohscrap"
	"github.com/gocolly/colly/v2"
)

// DefaultUserAgent identifies requests made by the fetcher.
const DefaultUserAgent = "ohscrap (+https://github.com/fwojciec/ohscrap)"

// Ensure Fetcher implements ohscrap.Fetcher at compile time.
var _ ohscrap.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves pages with a colly collector. Like the plain HTTP
// fetcher it does not render JavaScript, so the ready selector is ignored.
type Fetcher struct {
	base   *colly.Collector
	closed atomic.Bool
}

type options struct {
	userAgent string
	timeout   time.Duration
	maxBody   int
}

// Option configures a Fetcher.
type Option func(*options)

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) { o.userAgent = ua }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithMaxBodySize caps the response size. Zero means no limit.
func WithMaxBodySize(n int) Option {
	return func(o *options) { o.maxBody = n }
}

// NewFetcher creates a Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	o := options{
		userAgent: DefaultUserAgent,
		timeout:   ohscrap.DefaultTimeout,
		maxBody:   10 << 20,
	}
	for _, opt := range opts {
		opt(&o)
	}

	c := colly.NewCollector(
		colly.UserAgent(o.userAgent),
		colly.MaxBodySize(o.maxBody),
		// Retries fetch the same URL again.
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(o.timeout)

	return &Fetcher{base: c}
}

// Fetch visits url and returns the response body. Each call uses its own
// clone of the collector so callbacks and contexts never cross fetches.
func (f *Fetcher) Fetch(ctx context.Context, url, ready string) (string, error) {
	if f.closed.Load() {
		return "", ohscrap.Errorf(ohscrap.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c := f.base.Clone()
	c.Context = ctx

	var (
		body     []byte
		visitErr error
	)
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode != 0 {
			visitErr = fmt.Errorf("HTTP %d for %s: %w", r.StatusCode, url, err)
			return
		}
		visitErr = err
	})

	err := c.Visit(url)
	c.Wait()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	if visitErr != nil {
		return "", visitErr
	}
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Close marks the fetcher closed. The collector holds no resources that
// need releasing.
func (f *Fetcher) Close() error {
	f.closed.Store(true)
	return nil
}
