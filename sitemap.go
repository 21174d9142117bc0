package ohscrap

import (
	"context"
	"regexp"
)

// SitemapService lists page locations published by a site.
type SitemapService interface {
	// Locations returns the page URLs listed in the sitemaps of siteURL.
	// robots.txt Sitemap directives are tried first, then /sitemap.xml.
	// Sitemap indexes are followed. Locations not passing filter are
	// dropped; a nil filter keeps everything.
	Locations(ctx context.Context, siteURL string, filter *URLFilter) ([]string, error)
}

// URLFilter keeps locations matching any Include pattern (or all, when
// there are none) and then drops those matching an Exclude pattern.
type URLFilter struct {
	Include []*regexp.Regexp
	Exclude []*regexp.Regexp
}

// NewURLFilter compiles include and exclude patterns.
func NewURLFilter(include, exclude []string) (*URLFilter, error) {
	f := &URLFilter{}
	for _, p := range include {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, Errorf(EINVALID, "invalid include pattern %q: %v", p, err)
		}
		f.Include = append(f.Include, re)
	}
	for _, p := range exclude {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, Errorf(EINVALID, "invalid exclude pattern %q: %v", p, err)
		}
		f.Exclude = append(f.Exclude, re)
	}
	return f, nil
}

// Match reports whether url passes the filter. A nil filter matches everything.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}
	if len(f.Include) > 0 && !matchAny(f.Include, url) {
		return false
	}
	return !matchAny(f.Exclude, url)
}

func matchAny(patterns []*regexp.Regexp, s string) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
