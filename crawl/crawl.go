// Package crawl evaluates selectors against pages. It resolves crawl
// locations, fetches their content with retry, and recursively follows the
// links a selector points at with bounded concurrency.
package crawl

import (
	"context"
	"net/url"
	"runtime"
	"sync"
	"unicode/utf8"

	"github.com/fwojciec/ohscrap"
	"golang.org/x/sync/semaphore"
)

// Crawler fetches pages and evaluates selectors against them.
// A Crawler is safe for concurrent use once its fields are set.
type Crawler struct {
	Fetcher     ohscrap.Fetcher
	Querier     ohscrap.Querier
	URLs        ohscrap.URLClassifier
	Converter   ohscrap.Converter
	RateLimiter ohscrap.DomainLimiter
	Config      ohscrap.Config

	// Log, if set, receives retry notices.
	Log LogFunc

	once  sync.Once
	pages *semaphore.Weighted
}

// Crawl evaluates sel against location. An absolute URL is fetched and
// becomes the new page context; a relative reference is resolved against
// pc.BaseURL first. Anything else is treated as markup and evaluated
// without fetching.
func (c *Crawler) Crawl(ctx context.Context, location string, sel ohscrap.Selector, pc ohscrap.PageContext) (ohscrap.Value, error) {
	if err := ohscrap.Validate(sel); err != nil {
		return ohscrap.Absent(), err
	}
	return c.crawl(ctx, location, sel, pc)
}

func (c *Crawler) crawl(ctx context.Context, location string, sel ohscrap.Selector, pc ohscrap.PageContext) (ohscrap.Value, error) {
	target, next, err := c.locate(location, pc)
	if err != nil {
		return ohscrap.Absent(), err
	}
	if target == "" {
		return c.evaluateContent(ctx, sel, location, pc)
	}

	content, err := c.fetch(ctx, target)
	if err != nil {
		return ohscrap.Absent(), err
	}
	return c.evaluateContent(ctx, sel, content, next)
}

// locate returns the URL to fetch for location and the context of the
// fetched page. An empty target means location is inline content.
func (c *Crawler) locate(location string, pc ohscrap.PageContext) (string, ohscrap.PageContext, error) {
	switch {
	case c.URLs.IsAbsolute(location):
		origin, err := c.URLs.Origin(location)
		if err != nil {
			return "", pc, err
		}
		return location, ohscrap.At(location, origin), nil
	case c.isResolvable(location, pc):
		resolved, err := c.URLs.Resolve(pc.BaseURL, location)
		if err != nil {
			return "", pc, err
		}
		return resolved, pc.WithURL(resolved), nil
	default:
		return "", pc, nil
	}
}

// isLocation reports whether s names a page that can be crawled from pc.
func (c *Crawler) isLocation(s string, pc ohscrap.PageContext) bool {
	return c.URLs.IsAbsolute(s) || c.isResolvable(s, pc)
}

func (c *Crawler) isResolvable(s string, pc ohscrap.PageContext) bool {
	return pc.BaseURL != "" && c.URLs.IsRelative(s)
}

// fetch retrieves pageURL under the retry policy. Content shorter than the
// configured minimum counts as a failed render and is retried.
func (c *Crawler) fetch(ctx context.Context, pageURL string) (string, error) {
	c.init()

	minLength := c.Config.MinContentLength
	fetchFn := func(ctx context.Context, pageURL string) (string, error) {
		if c.RateLimiter != nil {
			if err := c.RateLimiter.Wait(ctx, hostOf(pageURL)); err != nil {
				return "", err
			}
		}

		if err := c.pages.Acquire(ctx, 1); err != nil {
			return "", err
		}
		html, err := c.Fetcher.Fetch(ctx, pageURL, c.Config.Ready)
		c.pages.Release(1)
		if err != nil {
			return "", err
		}

		if n := utf8.RuneCountInString(html); n < minLength {
			return "", ohscrap.Errorf(ohscrap.ESHORTCONTENT, "content of %s has %d characters, want at least %d", pageURL, n, minLength)
		}
		return html, nil
	}

	return FetchWithRetry(ctx, pageURL, fetchFn, c.Log, c.Config.Retry)
}

func (c *Crawler) init() {
	c.once.Do(func() {
		c.pages = semaphore.NewWeighted(int64(c.concurrency()))
	})
}

// concurrency returns the fan-out limit shared by mappings, link lists and
// open pages.
func (c *Crawler) concurrency() int {
	if c.Config.Concurrency > 0 {
		return c.Config.Concurrency
	}
	return runtime.NumCPU()
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Host
}
