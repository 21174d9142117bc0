package mock

import (
	"context"

	"github.com/fwojciec/ohscrap"
)

var _ ohscrap.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of ohscrap.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url, ready string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url, ready string) (string, error) {
	return f.FetchFn(ctx, url, ready)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ ohscrap.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of ohscrap.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
