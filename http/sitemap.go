package http

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/ohscrap"
)

// Ensure SitemapService implements ohscrap.SitemapService.
var _ ohscrap.SitemapService = (*SitemapService)(nil)

// SitemapService lists the page locations a site publishes in its sitemaps.
type SitemapService struct {
	client *http.Client
}

// NewSitemapService creates a new SitemapService with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewSitemapService(client *http.Client) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	return &SitemapService{client: client}
}

// Locations returns the page URLs listed in the sitemaps of siteURL, in
// sitemap order with duplicates removed. It returns an empty slice when the
// site has no sitemap.
//
// A siteURL with a path (https://example.com/blog) keeps only locations
// under that path.
func (s *SitemapService) Locations(ctx context.Context, siteURL string, filter *ohscrap.URLFilter) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	site, err := url.Parse(siteURL)
	if err != nil || site.Host == "" {
		return nil, ohscrap.Errorf(ohscrap.EINVALID, "invalid site URL %q", siteURL)
	}
	scope := strings.TrimSuffix(site.Path, "/")

	root := &url.URL{Scheme: site.Scheme, Host: site.Host}
	sitemaps, err := s.sitemapsOf(ctx, root)
	if err != nil {
		return nil, err
	}

	w := &walk{svc: s, visited: make(map[string]bool), listed: make(map[string]bool)}
	for _, sitemap := range sitemaps {
		if err := w.sitemap(ctx, sitemap); err != nil {
			return nil, err
		}
	}

	locations := make([]string, 0, len(w.locations))
	for _, loc := range w.locations {
		if scope != "" && !underPath(loc, scope) {
			continue
		}
		if !filter.Match(loc) {
			continue
		}
		locations = append(locations, loc)
	}
	return locations, nil
}

// underPath reports whether the path of rawURL is scope or lies below it.
// "/blog" covers "/blog/post" but not "/blogroll".
func underPath(rawURL, scope string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	p := strings.TrimSuffix(u.Path, "/")
	return p == scope || strings.HasPrefix(p, scope+"/")
}

// sitemapsOf returns the sitemaps named in robots.txt, falling back to
// /sitemap.xml when robots.txt names none. A site without either has none.
func (s *SitemapService) sitemapsOf(ctx context.Context, root *url.URL) ([]string, error) {
	robots := root.ResolveReference(&url.URL{Path: "/robots.txt"}).String()
	if sitemaps, err := s.robotsSitemaps(ctx, robots); err == nil && len(sitemaps) > 0 {
		return sitemaps, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fallback := root.ResolveReference(&url.URL{Path: "/sitemap.xml"}).String()
	ok, err := s.exists(ctx, fallback)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}
	if !ok {
		return nil, nil
	}
	return []string{fallback}, nil
}

func (s *SitemapService) robotsSitemaps(ctx context.Context, robotsURL string) ([]string, error) {
	body, err := s.get(ctx, robotsURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	const directive = "sitemap:"

	var sitemaps []string
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) < len(directive) || !strings.EqualFold(line[:len(directive)], directive) {
			continue
		}
		if loc := strings.TrimSpace(line[len(directive):]); loc != "" {
			sitemaps = append(sitemaps, loc)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading robots.txt: %w", err)
	}
	return sitemaps, nil
}

// walk collects locations across sitemaps and sitemap indexes, visiting
// each sitemap once.
type walk struct {
	svc       *SitemapService
	visited   map[string]bool
	listed    map[string]bool
	locations []string
}

func (w *walk) sitemap(ctx context.Context, sitemapURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.visited[sitemapURL] {
		return nil
	}
	w.visited[sitemapURL] = true

	body, err := w.svc.get(ctx, sitemapURL)
	if err != nil {
		return err
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return fmt.Errorf("parsing sitemap %s: %w", sitemapURL, err)
	}
	root := doc.Root()
	if root == nil {
		return fmt.Errorf("parsing sitemap %s: no root element", sitemapURL)
	}

	if root.Tag == "sitemapindex" {
		for _, child := range locs(root, "sitemap") {
			if err := w.sitemap(ctx, child); err != nil {
				return err
			}
		}
		return nil
	}

	for _, loc := range locs(root, "url") {
		if w.listed[loc] {
			continue
		}
		w.listed[loc] = true
		w.locations = append(w.locations, loc)
	}
	return nil
}

// locs returns the non-empty <loc> texts of the tag children of root.
func locs(root *etree.Element, tag string) []string {
	var out []string
	for _, el := range root.SelectElements(tag) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if s := strings.TrimSpace(loc.Text()); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (s *SitemapService) get(ctx context.Context, target string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, target)
	}
	return resp.Body, nil
}

func (s *SitemapService) exists(ctx context.Context, target string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return false, fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return false, err
	}
	resp.Body.Close()

	return resp.StatusCode == http.StatusOK, nil
}
