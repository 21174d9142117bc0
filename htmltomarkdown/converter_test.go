package htmltomarkdown_test

import (
	"testing"

	"github.com/fwojciec/ohscrap"
	"github.com/fwojciec/ohscrap/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts an article fragment", func(t *testing.T) {
		t.Parallel()

		html := `<article><h2>Release notes</h2><p>Now <strong>faster</strong> and <em>smaller</em>.</p></article>`

		md, err := htmltomarkdown.NewConverter().Convert(html, "")

		require.NoError(t, err)
		assert.Contains(t, md, "## Release notes")
		assert.Contains(t, md, "**faster**")
		assert.Contains(t, md, "*smaller*")
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert("\n<p>  TITLE  </p>\n", "")

		require.NoError(t, err)
		assert.Equal(t, "TITLE", md)
	})

	t.Run("makes relative links absolute against the base URL", func(t *testing.T) {
		t.Parallel()

		html := `<p>See <a href="/posts/2">the next post</a>.</p>`

		md, err := htmltomarkdown.NewConverter().Convert(html, "https://example.com")

		require.NoError(t, err)
		assert.Contains(t, md, "[the next post](https://example.com/posts/2)")
	})

	t.Run("keeps relative links without a base URL", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<a href="/posts/2">next</a>`, "")

		require.NoError(t, err)
		assert.Contains(t, md, "[next](/posts/2)")
	})

	t.Run("converts lists", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<ul><li>one</li><li>two</li></ul>`, "")

		require.NoError(t, err)
		assert.Contains(t, md, "- one")
		assert.Contains(t, md, "- two")
	})

	t.Run("converts tables", func(t *testing.T) {
		t.Parallel()

		html := `<table><thead><tr><th>Name</th><th>Price</th></tr></thead><tbody><tr><td>Book</td><td>12</td></tr></tbody></table>`

		md, err := htmltomarkdown.NewConverter().Convert(html, "")

		require.NoError(t, err)
		assert.Contains(t, md, "| Name")
		assert.Contains(t, md, "| Book")
	})

	t.Run("returns error for empty input", func(t *testing.T) {
		t.Parallel()

		_, err := htmltomarkdown.NewConverter().Convert("  ", "")

		assert.Equal(t, ohscrap.EINVALID, ohscrap.ErrorCode(err))
	})
}
