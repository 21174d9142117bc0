package mock

import (
	"context"

	"github.com/fwojciec/ohscrap"
)

var _ ohscrap.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of ohscrap.SitemapService.
type SitemapService struct {
	LocationsFn func(ctx context.Context, siteURL string, filter *ohscrap.URLFilter) ([]string, error)
}

func (s *SitemapService) Locations(ctx context.Context, siteURL string, filter *ohscrap.URLFilter) ([]string, error) {
	return s.LocationsFn(ctx, siteURL, filter)
}
