// Package slog decorates ohscrap services with structured logging.
package slog

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/ohscrap"
)

// Ensure LoggingFetcher implements ohscrap.Fetcher.
var _ ohscrap.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher and logs every fetch. The digest of the
// content makes repeated renders of an unchanged page easy to spot.
type LoggingFetcher struct {
	next   ohscrap.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next ohscrap.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs each fetch at debug level. Nothing is computed for the record
// when the logger discards debug records.
func (f *LoggingFetcher) Fetch(ctx context.Context, url, ready string) (html string, err error) {
	if !f.logger.Enabled(ctx, slog.LevelDebug) {
		return f.next.Fetch(ctx, url, ready)
	}
	defer func(begin time.Time) {
		attrs := []any{
			"url", url,
			"duration", time.Since(begin),
		}
		if ready != "" {
			attrs = append(attrs, "ready", ready)
		}
		if err != nil {
			f.logger.Debug("fetch", append(attrs, "err", err)...)
			return
		}
		f.logger.Debug("fetch", append(attrs, "bytes", len(html), "digest", digest(html))...)
	}(time.Now())
	return f.next.Fetch(ctx, url, ready)
}

// Close closes the wrapped fetcher and logs a failure.
func (f *LoggingFetcher) Close() error {
	err := f.next.Close()
	if err != nil {
		f.logger.Warn("closing fetcher", "err", err)
	}
	return err
}

func digest(s string) string {
	return strconv.FormatUint(xxhash.Sum64String(s), 16)
}
