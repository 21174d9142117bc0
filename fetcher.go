package ohscrap

import "context"

// Fetcher retrieves rendered markup from URLs.
// Implementations may use browser automation to handle JavaScript-rendered content.
type Fetcher interface {
	// Fetch navigates to the URL and returns its markup. When ready is not
	// empty it is a CSS selector for the element that signals a rendered
	// page; rendering implementations wait for it and return its inner markup.
	// Static implementations ignore it. The context controls timeout and
	// cancellation.
	Fetch(ctx context.Context, url, ready string) (html string, err error)

	// Close releases resources held by the fetcher.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}

// DomainLimiter paces requests per host.
type DomainLimiter interface {
	// Wait blocks until a request to domain is allowed or ctx is done.
	Wait(ctx context.Context, domain string) error
}
