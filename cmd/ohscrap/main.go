package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/ohscrap"
	"github.com/fwojciec/ohscrap/colly"
	"github.com/fwojciec/ohscrap/crawl"
	"github.com/fwojciec/ohscrap/goquery"
	"github.com/fwojciec/ohscrap/htmlquery"
	"github.com/fwojciec/ohscrap/htmltomarkdown"
	ohttp "github.com/fwojciec/ohscrap/http"
	"github.com/fwojciec/ohscrap/rod"
	oslog "github.com/fwojciec/ohscrap/slog"
	"github.com/fwojciec/ohscrap/whatwg"
	oyaml "github.com/fwojciec/ohscrap/yaml"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// NewFetcher opens the fetcher of a run. Replaced in tests.
	NewFetcher func(ctx context.Context, cfg ohscrap.Config) (ohscrap.Fetcher, error)

	// Sitemaps lists locations for "until --sitemap".
	Sitemaps ohscrap.SitemapService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		NewFetcher: openFetcher,
		Sitemaps:   ohttp.NewSitemapService(nil),
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("ohscrap"),
		kong.Description("Extract structured data from web pages with nested selectors"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'ohscrap --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	var (
		flags    *CrawlFlags
		location string
		selector string
	)
	switch cmd {
	case "start":
		flags, location, selector = &cli.Start.CrawlFlags, cli.Start.Location, cli.Start.Selector
	case "until":
		flags, location, selector = &cli.Until.CrawlFlags, cli.Until.Pattern, cli.Until.Selector
		// With --sitemap the only positional argument is the selector.
		if cli.Until.Sitemap != "" && selector == "" {
			location, selector = "", location
		}
	}

	job, err := resolveJob(flags, location, selector)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", ohscrap.ErrorMessage(err))
		return err
	}

	level := slog.LevelWarn
	switch {
	case flags.Verbose > 1:
		level = slog.LevelDebug
	case flags.Verbose == 1:
		level = slog.LevelInfo
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Sitemaps = oslog.NewLoggingSitemapService(m.Sitemaps, deps.Logger)
	deps.Location = job.Location
	deps.Selector = job.Selector
	deps.Runner = m.newRunner(job.Config, deps.Logger)

	return kongCtx.Run(deps)
}

func (m *Main) newRunner(cfg ohscrap.Config, logger *slog.Logger) *crawl.Runner {
	crawler := &crawl.Crawler{
		Querier:   newQuerier(cfg.Query),
		URLs:      whatwg.NewClassifier(),
		Converter: htmltomarkdown.NewConverter(),
		Config:    cfg,
		Log:       oslog.RetryLogger(logger),
	}
	if cfg.RateLimit > 0 {
		crawler.RateLimiter = crawl.NewDomainLimiter(cfg.RateLimit, 1)
	}

	return &crawl.Runner{
		Crawler: crawler,
		Open: func(ctx context.Context) (ohscrap.Fetcher, error) {
			fetcher, err := m.NewFetcher(ctx, cfg)
			if err != nil {
				return nil, err
			}
			return oslog.NewLoggingFetcher(fetcher, logger), nil
		},
		Progress: oslog.ProgressLogger(logger),
	}
}

// resolveJob merges the job file, positional arguments and flags, in
// increasing order of precedence.
func resolveJob(flags *CrawlFlags, location, selector string) (*oyaml.Job, error) {
	job := &oyaml.Job{Config: ohscrap.NewConfig()}
	if flags.Config != "" {
		loaded, err := oyaml.LoadJob(flags.Config)
		if err != nil {
			return nil, err
		}
		job = loaded
	}

	if location != "" {
		job.Location = location
	}
	if selector != "" {
		sel, err := readSelector(selector)
		if err != nil {
			return nil, err
		}
		job.Selector = sel
	}
	if job.Selector == nil {
		return nil, ohscrap.Errorf(ohscrap.EINVALID, "a selector is required as an argument or in the job file")
	}

	flags.apply(&job.Config)
	if err := job.Config.Validate(); err != nil {
		return nil, err
	}
	return job, nil
}

// readSelector parses selector text. A leading @ names a file holding it.
func readSelector(s string) (ohscrap.Selector, error) {
	if path, ok := strings.CutPrefix(s, "@"); ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, ohscrap.Errorf(ohscrap.ENOTFOUND, "reading selector file %q: %v", path, err)
		}
		return oyaml.ParseSelector(data)
	}
	return oyaml.ParseSelector([]byte(s))
}

func (f *CrawlFlags) apply(cfg *ohscrap.Config) {
	if f.Strict != nil {
		cfg.Strict = *f.Strict
	}
	if f.Concurrency != nil {
		cfg.Concurrency = *f.Concurrency
	}
	if f.RetryTimes != nil {
		cfg.Retry.Times = *f.RetryTimes
	}
	if f.RetryInterval != nil {
		cfg.Retry.Interval = *f.RetryInterval
	}
	if f.MinContent != nil {
		cfg.MinContentLength = *f.MinContent
	}
	if f.Ready != nil {
		cfg.Ready = *f.Ready
	}
	if f.Timeout != nil {
		cfg.Timeout = *f.Timeout
	}
	if f.Query != nil {
		cfg.Query = *f.Query
	}
	if f.Engine != nil {
		cfg.Engine = *f.Engine
	}
	if f.Rate != nil {
		cfg.RateLimit = *f.Rate
	}
}

func newQuerier(dialect string) ohscrap.Querier {
	if dialect == ohscrap.QueryXPath {
		return htmlquery.NewQuerier()
	}
	return goquery.NewQuerier()
}

// openFetcher creates the fetcher for the configured engine.
func openFetcher(ctx context.Context, cfg ohscrap.Config) (ohscrap.Fetcher, error) {
	switch cfg.Engine {
	case ohscrap.EngineHTTP:
		return ohttp.NewFetcher(ohttp.WithTimeout(cfg.Timeout)), nil
	case ohscrap.EngineColly:
		return colly.NewFetcher(colly.WithTimeout(cfg.Timeout)), nil
	default:
		fetcher, err := rod.NewFetcher(rod.WithFetchTimeout(cfg.Timeout))
		if err != nil {
			return nil, fmt.Errorf("failed to start browser (Chrome or Chromium must be installed): %w", err)
		}
		return fetcher, nil
	}
}
