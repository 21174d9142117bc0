package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/fwojciec/ohscrap"
	"github.com/fwojciec/ohscrap/crawl"
)

// record is one line of "until" output.
type record struct {
	Count    int           `json:"count"`
	Location string        `json:"location"`
	Result   ohscrap.Value `json:"result"`
}

// Run executes the until command.
func (c *UntilCmd) Run(deps *Dependencies) error {
	next, err := c.locations(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ohscrap.ErrorMessage(err))
		return err
	}

	enc := json.NewEncoder(deps.Stdout)
	var writeErr error
	logProgress := deps.Runner.Progress
	deps.Runner.Progress = func(event crawl.ProgressEvent) {
		if event.Type == crawl.ProgressData && writeErr == nil {
			writeErr = enc.Encode(record{Count: event.Count, Location: event.Location, Result: event.Result})
		}
		if logProgress != nil {
			logProgress(event)
		}
	}

	keepGoing := c.keepGoing
	if c.Sitemap != "" && c.While == "" {
		keepGoing = func(context.Context, int, ohscrap.Value) (bool, error) { return true, nil }
	}

	count, err := deps.Runner.Until(deps.Ctx, next, deps.Selector, keepGoing)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ohscrap.ErrorMessage(err))
		return err
	}
	if writeErr != nil {
		return writeErr
	}

	deps.Logger.Info("until finished", "iterations", count)
	return nil
}

// locations returns the location source: sitemap entries when --sitemap is
// set, otherwise the pattern with {n} substituted.
func (c *UntilCmd) locations(deps *Dependencies) (crawl.LocationFunc, error) {
	limit := func(count int) bool { return c.Max <= 0 || count < c.Max }

	if c.Sitemap != "" {
		filter, err := ohscrap.NewURLFilter(c.Include, c.Exclude)
		if err != nil {
			return nil, err
		}
		locations, err := deps.Sitemaps.Locations(deps.Ctx, c.Sitemap, filter)
		if err != nil {
			return nil, err
		}
		return func(count int) (string, bool) {
			if count >= len(locations) || !limit(count) {
				return "", false
			}
			return locations[count], true
		}, nil
	}

	pattern := deps.Location
	if pattern == "" {
		return nil, ohscrap.Errorf(ohscrap.EINVALID, "a pattern or --sitemap is required")
	}
	if !strings.Contains(pattern, "{n}") && c.Max != 1 {
		return nil, ohscrap.Errorf(ohscrap.EINVALID, "pattern %q has no {n} placeholder", pattern)
	}
	return func(count int) (string, bool) {
		if !limit(count) {
			return "", false
		}
		return strings.ReplaceAll(pattern, "{n}", strconv.Itoa(count+c.Offset)), true
	}, nil
}

// keepGoing continues while the result, or its --while key, holds data.
func (c *UntilCmd) keepGoing(_ context.Context, _ int, result ohscrap.Value) (bool, error) {
	if c.While == "" {
		return hasData(result), nil
	}
	v, ok := result.Get(c.While)
	if !ok {
		return false, ohscrap.Errorf(ohscrap.EINVALID, "result has no key %q", c.While)
	}
	return hasData(v), nil
}

// hasData reports whether v holds a non-empty string or list, or an object
// with at least one such entry.
func hasData(v ohscrap.Value) bool {
	switch v.Kind() {
	case ohscrap.KindString:
		return v.Str() != ""
	case ohscrap.KindList:
		return len(v.Items()) > 0
	case ohscrap.KindObject:
		for _, e := range v.Entries() {
			if hasData(e.Value) {
				return true
			}
		}
	}
	return false
}
