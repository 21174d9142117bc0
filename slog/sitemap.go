package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/ohscrap"
)

// Ensure LoggingSitemapService implements ohscrap.SitemapService.
var _ ohscrap.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService wraps a SitemapService with logging.
type LoggingSitemapService struct {
	next   ohscrap.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next ohscrap.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// Locations logs each listing at info level, or at error level when it fails.
func (s *LoggingSitemapService) Locations(ctx context.Context, siteURL string, filter *ohscrap.URLFilter) (locations []string, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"url", siteURL,
			"count", len(locations),
			"duration", time.Since(begin),
		}
		if filter != nil {
			attrs = append(attrs, "include", len(filter.Include), "exclude", len(filter.Exclude))
		}
		if err != nil {
			s.logger.Error("sitemap", append(attrs, "err", err)...)
			return
		}
		s.logger.Info("sitemap", attrs...)
	}(time.Now())
	return s.next.Locations(ctx, siteURL, filter)
}
