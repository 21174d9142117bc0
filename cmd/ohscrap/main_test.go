package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/ohscrap"
	main "github.com/fwojciec/ohscrap/cmd/ohscrap"
	"github.com/fwojciec/ohscrap/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestMain returns a Main whose fetcher serves pages from a map.
func newTestMain(pages map[string]string) *main.Main {
	m := main.NewMain()
	m.NewFetcher = func(ctx context.Context, cfg ohscrap.Config) (ohscrap.Fetcher, error) {
		return &mock.Fetcher{
			FetchFn: func(ctx context.Context, url, ready string) (string, error) {
				html, ok := pages[url]
				if !ok {
					return "", ohscrap.Errorf(ohscrap.ENOTFOUND, "no page at %s", url)
				}
				return html, nil
			},
			CloseFn: func() error { return nil },
		}, nil
	}
	return m
}

func TestMain_Run_Help(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer

	err := main.NewMain().Run(context.Background(), []string{"--help"}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "ohscrap")
	assert.Contains(t, stdout.String(), "start")
	assert.Contains(t, stdout.String(), "until")
}

func TestMain_Run_NoArgs(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer

	err := main.NewMain().Run(context.Background(), []string{}, &stdout, &stderr)

	require.Error(t, err)
	assert.Contains(t, stdout.String(), "ohscrap")
}

func TestMain_Run_Start(t *testing.T) {
	t.Parallel()

	t.Run("evaluates inline content without fetching", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer
		m := newTestMain(nil)

		err := m.Run(context.Background(), []string{"start", "<html><body><h1>TITLE</h1></body></html>", "h1"}, &stdout, &stderr)

		require.NoError(t, err)
		assert.Equal(t, "\"TITLE\"\n", stdout.String())
	})

	t.Run("follows links and keeps mapping order", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer
		m := newTestMain(map[string]string{
			"https://example.com/posts": `<h1>Posts</h1><a href="/posts/1">1</a><a href="/posts/2">2</a>`,
			"https://example.com/posts/1": `<h2>First</h2>`,
			"https://example.com/posts/2": `<h2>Second</h2>`,
		})

		err := m.Run(context.Background(), []string{
			"start", "https://example.com/posts", `{"title": "h1", "posts": ["a@href", "h2"]}`,
			"--min-content", "0",
		}, &stdout, &stderr)

		require.NoError(t, err)
		assert.JSONEq(t, `{"title":"Posts","posts":["First","Second"]}`, stdout.String())
		assert.True(t, strings.HasPrefix(stdout.String(), `{"title"`))
	})

	t.Run("reads the selector from a file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "selector.yaml")
		require.NoError(t, os.WriteFile(path, []byte("heading: h1\n"), 0o600))

		var stdout, stderr bytes.Buffer
		err := newTestMain(nil).Run(context.Background(), []string{"start", "<h1>TITLE</h1>", "@" + path}, &stdout, &stderr)

		require.NoError(t, err)
		assert.JSONEq(t, `{"heading":"TITLE"}`, stdout.String())
	})

	t.Run("takes location and selector from a job file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "job.yaml")
		require.NoError(t, os.WriteFile(path, []byte("location: https://example.com/\nselector: h1\nconfig:\n  min_content_length: 0\n"), 0o600))

		var stdout, stderr bytes.Buffer
		m := newTestMain(map[string]string{"https://example.com/": "<h1>Home</h1>"})

		err := m.Run(context.Background(), []string{"start", "--config", path}, &stdout, &stderr)

		require.NoError(t, err)
		assert.Equal(t, "\"Home\"\n", stdout.String())
	})

	t.Run("strict mode reports a missing element", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer

		err := newTestMain(nil).Run(context.Background(), []string{"start", "--strict", "<p>text</p>", "h1"}, &stdout, &stderr)

		require.Error(t, err)
		assert.Equal(t, ohscrap.ENOELEMENT, ohscrap.ErrorCode(err))
		assert.Contains(t, stderr.String(), "error:")
	})

	t.Run("short content is retried until exhausted", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer
		m := newTestMain(map[string]string{"https://example.com/": "<h1>tiny</h1>"})

		err := m.Run(context.Background(), []string{
			"start", "https://example.com/", "h1",
			"--retry-times", "2", "--retry-interval", "1ms",
		}, &stdout, &stderr)

		require.Error(t, err)
		assert.Equal(t, ohscrap.EEXHAUSTED, ohscrap.ErrorCode(err))
	})

	t.Run("verbose flag logs progress without fetch records", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer
		m := newTestMain(map[string]string{"https://example.com/": "<h1>TITLE</h1>"})

		err := m.Run(context.Background(), []string{
			"start", "https://example.com/", "h1", "--min-content", "0", "-v",
		}, &stdout, &stderr)

		require.NoError(t, err)
		assert.Contains(t, stderr.String(), "msg=crawled")
		assert.NotContains(t, stderr.String(), "msg=fetch")
	})

	t.Run("repeated verbose flag logs every fetch", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer
		m := newTestMain(map[string]string{"https://example.com/": "<h1>TITLE</h1>"})

		err := m.Run(context.Background(), []string{
			"start", "https://example.com/", "h1", "--min-content", "0", "-vv",
		}, &stdout, &stderr)

		require.NoError(t, err)
		output := stderr.String()
		assert.Contains(t, output, "msg=fetch")
		assert.Contains(t, output, "url=https://example.com/")
		assert.Contains(t, output, "digest=")
	})

	t.Run("requires a selector", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer

		err := newTestMain(nil).Run(context.Background(), []string{"start", "<h1>TITLE</h1>"}, &stdout, &stderr)

		assert.Equal(t, ohscrap.EINVALID, ohscrap.ErrorCode(err))
	})

	t.Run("rejects an invalid selector", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer

		err := newTestMain(nil).Run(context.Background(), []string{"start", "<h1>TITLE</h1>", `["a@href"]`}, &stdout, &stderr)

		assert.Equal(t, ohscrap.EINVALIDSELECTOR, ohscrap.ErrorCode(err))
	})

	t.Run("rejects an unknown engine", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer

		err := newTestMain(nil).Run(context.Background(), []string{"start", "<h1>TITLE</h1>", "h1", "--engine", "lynx"}, &stdout, &stderr)

		assert.Equal(t, ohscrap.EINVALID, ohscrap.ErrorCode(err))
	})

	t.Run("uses the xpath dialect", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer

		err := newTestMain(nil).Run(context.Background(), []string{"start", "--query", "xpath", `<div><a href="/x">x</a></div>`, "//a/@href"}, &stdout, &stderr)

		require.NoError(t, err)
		assert.Equal(t, "\"/x\"\n", stdout.String())
	})
}

func TestMain_Run_Until(t *testing.T) {
	t.Parallel()

	t.Run("iterates the pattern while the key has data", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer
		m := newTestMain(map[string]string{
			"https://example.com/page/1": `<li>a</li><li>b</li>`,
			"https://example.com/page/2": `<li>c</li>`,
			"https://example.com/page/3": `<p>end</p>`,
		})

		err := m.Run(context.Background(), []string{
			"until", "https://example.com/page/{n}", `{"items": "li"}`,
			"--offset", "1", "--while", "items", "--min-content", "0",
		}, &stdout, &stderr)

		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
		require.Len(t, lines, 3)
		assert.JSONEq(t, `{"count":0,"location":"https://example.com/page/1","result":{"items":["a","b"]}}`, lines[0])
		assert.JSONEq(t, `{"count":1,"location":"https://example.com/page/2","result":{"items":"c"}}`, lines[1])
		assert.JSONEq(t, `{"count":2,"location":"https://example.com/page/3","result":{"items":null}}`, lines[2])
	})

	t.Run("stops at max iterations", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer
		m := newTestMain(map[string]string{
			"https://example.com/page/0": `<li>a</li>`,
			"https://example.com/page/1": `<li>b</li>`,
		})

		err := m.Run(context.Background(), []string{
			"until", "https://example.com/page/{n}", "li", "--max", "2", "--min-content", "0",
		}, &stdout, &stderr)

		require.NoError(t, err)
		assert.Len(t, strings.Split(strings.TrimSpace(stdout.String()), "\n"), 2)
	})

	t.Run("iterates sitemap locations", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer
		m := newTestMain(map[string]string{
			"https://example.com/a": `<h1>A</h1>`,
			"https://example.com/b": `<p>no heading</p>`,
			"https://example.com/c": `<h1>C</h1>`,
		})
		m.Sitemaps = &mock.SitemapService{
			LocationsFn: func(ctx context.Context, siteURL string, filter *ohscrap.URLFilter) ([]string, error) {
				var out []string
				for _, loc := range []string{"https://example.com/a", "https://example.com/b", "https://example.com/c", "https://example.com/tags"} {
					if filter.Match(loc) {
						out = append(out, loc)
					}
				}
				return out, nil
			},
		}

		err := m.Run(context.Background(), []string{
			"until", "--sitemap", "https://example.com", "h1", "--exclude", "/tags", "--min-content", "0",
		}, &stdout, &stderr)

		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
		require.Len(t, lines, 3)
		assert.JSONEq(t, `{"count":2,"location":"https://example.com/c","result":"C"}`, lines[2])
	})

	t.Run("requires a placeholder in the pattern", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer

		err := newTestMain(nil).Run(context.Background(), []string{"until", "https://example.com/page", "h1"}, &stdout, &stderr)

		assert.Equal(t, ohscrap.EINVALID, ohscrap.ErrorCode(err))
	})

	t.Run("reports a failed iteration", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer
		m := newTestMain(map[string]string{
			"https://example.com/page/0": `<li>a</li>`,
		})

		err := m.Run(context.Background(), []string{
			"until", "https://example.com/page/{n}", "li",
			"--min-content", "0", "--retry-times", "1",
		}, &stdout, &stderr)

		require.Error(t, err)
		assert.Equal(t, ohscrap.EEXHAUSTED, ohscrap.ErrorCode(err))
		assert.Len(t, strings.Split(strings.TrimSpace(stdout.String()), "\n"), 1)
	})
}
