// Package rod implements ohscrap.Fetcher with a headless Chrome browser
// driven by go-rod, for pages that render their content with JavaScript.
package rod

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/fwojciec/ohscrap"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds a single page load including the wait for the
// ready element.
const DefaultFetchTimeout = ohscrap.DefaultTimeout

// Default viewport, a landscape desktop window.
const (
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
)

// Ensure Fetcher implements ohscrap.Fetcher at compile time.
var _ ohscrap.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager     *BrowserManager
	managerOpts []ManagerOption
	timeout     time.Duration
	viewport    proto.EmulationSetDeviceMetricsOverride
	closed      atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the timeout for a single fetch.
// Defaults to DefaultFetchTimeout if not specified.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithViewport sets the page viewport size.
func WithViewport(width, height int) Option {
	return func(f *Fetcher) {
		f.viewport.Width = width
		f.viewport.Height = height
	}
}

// WithPagesPerBrowser sets how many pages are opened before the browser is
// recycled.
func WithPagesPerBrowser(n int64) Option {
	return func(f *Fetcher) {
		f.managerOpts = append(f.managerOpts, WithMaxPages(n))
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
		viewport: proto.EmulationSetDeviceMetricsOverride{
			Width:             DefaultViewportWidth,
			Height:            DefaultViewportHeight,
			DeviceScaleFactor: 1,
			ScreenOrientation: &proto.EmulationScreenOrientation{
				Type:  proto.EmulationScreenOrientationTypeLandscapePrimary,
				Angle: 0,
			},
		},
	}
	for _, opt := range opts {
		opt(f)
	}

	manager, err := NewBrowserManager(f.managerOpts...)
	if err != nil {
		return nil, err
	}
	f.manager = manager

	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML. When ready is
// not empty Fetch waits for the first element matching that CSS selector
// and returns its inner markup instead of the whole page.
func (f *Fetcher) Fetch(ctx context.Context, url, ready string) (string, error) {
	if f.closed.Load() {
		return "", ohscrap.Errorf(ohscrap.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, release, err := f.manager.Page()
	if err != nil {
		return "", err
	}
	defer release()

	page = page.Context(ctx)

	viewport := f.viewport
	if err := page.SetViewport(&viewport); err != nil {
		return "", fmt.Errorf("setting viewport: %w", err)
	}

	if err := page.Navigate(url); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}

	if ready == "" {
		return page.HTML()
	}

	el, err := page.Element(ready)
	if err != nil {
		return "", fmt.Errorf("waiting for %q: %w", ready, err)
	}
	inner, err := el.Eval(`() => this.innerHTML`)
	if err != nil {
		return "", fmt.Errorf("reading %q: %w", ready, err)
	}
	return inner.Value.Str(), nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}
