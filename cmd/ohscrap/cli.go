package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/ohscrap"
	"github.com/fwojciec/ohscrap/crawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	Runner   *crawl.Runner
	Sitemaps ohscrap.SitemapService

	// Location and Selector are resolved from arguments and the job file.
	Location string
	Selector ohscrap.Selector
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Start StartCmd `cmd:"" help:"Crawl a location once and print the result as JSON"`
	Until UntilCmd `cmd:"" help:"Crawl numbered or sitemap locations until a stop condition"`
}

// CrawlFlags are shared by every command. Unset flags leave the job file
// or default value in place.
type CrawlFlags struct {
	Config        string         `help:"YAML job file with location, selector and config"`
	Strict        *bool          `help:"Fail when an element or link is missing"`
	Concurrency   *int           `short:"c" help:"Concurrent fetch and evaluation limit (default: CPU count)"`
	RetryTimes    *int           `name:"retry-times" help:"Fetch attempts per page (default: 3)"`
	RetryInterval *time.Duration `name:"retry-interval" help:"Pause between fetch attempts (default: 1s)"`
	MinContent    *int           `name:"min-content" help:"Shortest content in characters accepted as rendered (default: 100)"`
	Ready         *string        `help:"CSS selector of the element that marks a rendered page (default: body)"`
	Timeout       *time.Duration `short:"t" help:"Fetch timeout per page (default: 30s)"`
	Query         *string        `help:"Selector path dialect: css or xpath (default: css)"`
	Engine        *string        `help:"Fetch engine: rod, http or colly (default: rod)"`
	Rate          *float64       `help:"Requests per second per host, 0 for no limit"`
	Verbose       int            `short:"v" type:"counter" help:"Log progress to stderr, repeat to log every fetch"`
}

// StartCmd is the "start" subcommand.
type StartCmd struct {
	CrawlFlags `embed:""`

	Location string `arg:"" optional:"" help:"URL or inline HTML to crawl"`
	Selector string `arg:"" optional:"" help:"Selector as YAML or JSON text, or @file"`
}

// UntilCmd is the "until" subcommand.
type UntilCmd struct {
	CrawlFlags `embed:""`

	Pattern  string `arg:"" optional:"" help:"URL in which {n} is replaced by the iteration number"`
	Selector string `arg:"" optional:"" help:"Selector as YAML or JSON text, or @file"`

	Offset  int      `help:"Number substituted for {n} in the first iteration" default:"0"`
	Sitemap string   `help:"Iterate the locations in this site's sitemap instead of a pattern"`
	Include []string `short:"I" help:"Keep sitemap locations matching regex (repeatable)"`
	Exclude []string `short:"E" help:"Drop sitemap locations matching regex (repeatable)"`
	Max     int      `help:"Stop after this many iterations, 0 for no limit" default:"0"`
	While   string   `help:"Continue while this key of the result is non-empty"`
}
