package slog

import (
	"fmt"
	"log/slog"

	"github.com/fwojciec/ohscrap"
	"github.com/fwojciec/ohscrap/crawl"
)

// ProgressLogger returns a crawl.ProgressFunc that logs run events.
func ProgressLogger(logger *slog.Logger) crawl.ProgressFunc {
	return func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			logger.Info("run started", "run", event.RunID)
		case crawl.ProgressData:
			logger.Info("crawled",
				"run", event.RunID,
				"count", event.Count,
				"location", event.Location,
				"duration", event.Duration,
			)
		case crawl.ProgressFailed:
			logger.Error("crawl failed",
				"run", event.RunID,
				"count", event.Count,
				"location", event.Location,
				"code", ohscrap.ErrorCode(event.Error),
				"err", event.Error,
			)
		case crawl.ProgressFinished:
			attrs := []any{"run", event.RunID, "duration", event.Duration}
			if event.Error != nil {
				attrs = append(attrs, "err", event.Error)
			}
			logger.Info("run finished", attrs...)
		}
	}
}

// RetryLogger returns a crawl.LogFunc that logs retry notices at warn level.
func RetryLogger(logger *slog.Logger) crawl.LogFunc {
	return func(format string, args ...any) {
		logger.Warn(fmt.Sprintf(format, args...))
	}
}
