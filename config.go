package ohscrap

import (
	"runtime"
	"time"
)

// Default configuration values.
const (
	DefaultMinContentLength = 100
	DefaultReady            = "body"
	DefaultTimeout          = 30 * time.Second
	DefaultRetryTimes       = 3
	DefaultRetryInterval    = time.Second
)

// Node query dialects.
const (
	QueryCSS   = "css"
	QueryXPath = "xpath"
)

// Fetch engines.
const (
	EngineRod   = "rod"
	EngineHTTP  = "http"
	EngineColly = "colly"
)

// RetryPolicy governs fetch attempts. Times is the total number of
// attempts and Interval the pause between two of them.
type RetryPolicy struct {
	Interval time.Duration `yaml:"interval"`
	Times    int           `yaml:"times"`
}

// DefaultRetryPolicy returns three attempts one second apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Interval: DefaultRetryInterval, Times: DefaultRetryTimes}
}

// Config holds the settings of a crawl.
type Config struct {
	// Strict turns absent results into ENOELEMENT and ENORESULT errors.
	Strict bool `yaml:"strict"`

	// Concurrency bounds fan-out at every level and the number of pages
	// open at once.
	Concurrency int `yaml:"concurrency"`

	// MinContentLength is the shortest fetched content accepted as a
	// rendered page. Shorter content is retried.
	MinContentLength int `yaml:"min_content_length"`

	Retry     RetryPolicy   `yaml:"retry"`
	Ready     string        `yaml:"ready"`
	Timeout   time.Duration `yaml:"timeout"`
	Query     string        `yaml:"query"`
	Engine    string        `yaml:"engine"`
	RateLimit float64       `yaml:"rate_limit"`
}

// NewConfig returns a Config populated with defaults.
func NewConfig() Config {
	return Config{
		Concurrency:      runtime.NumCPU(),
		MinContentLength: DefaultMinContentLength,
		Retry:            DefaultRetryPolicy(),
		Ready:            DefaultReady,
		Timeout:          DefaultTimeout,
		Query:            QueryCSS,
		Engine:           EngineRod,
	}
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	if c.Concurrency < 1 {
		return Errorf(EINVALID, "concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.MinContentLength < 0 {
		return Errorf(EINVALID, "min content length must not be negative, got %d", c.MinContentLength)
	}
	if c.Retry.Times < 1 {
		return Errorf(EINVALID, "retry times must be at least 1, got %d", c.Retry.Times)
	}
	if c.Retry.Interval < 0 {
		return Errorf(EINVALID, "retry interval must not be negative, got %s", c.Retry.Interval)
	}
	if c.Timeout <= 0 {
		return Errorf(EINVALID, "timeout must be positive, got %s", c.Timeout)
	}
	switch c.Query {
	case QueryCSS, QueryXPath:
	default:
		return Errorf(EINVALID, "unknown query dialect %q", c.Query)
	}
	switch c.Engine {
	case EngineRod, EngineHTTP, EngineColly:
	default:
		return Errorf(EINVALID, "unknown engine %q", c.Engine)
	}
	if c.RateLimit < 0 {
		return Errorf(EINVALID, "rate limit must not be negative, got %g", c.RateLimit)
	}
	return nil
}
