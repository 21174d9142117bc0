package ohscrap_test

import (
	"testing"

	"github.com/fwojciec/ohscrap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLFilter_Match(t *testing.T) {
	t.Parallel()

	t.Run("nil filter matches everything", func(t *testing.T) {
		t.Parallel()

		var f *ohscrap.URLFilter

		assert.True(t, f.Match("https://example.com/anything"))
	})

	t.Run("include restricts and exclude removes", func(t *testing.T) {
		t.Parallel()

		f, err := ohscrap.NewURLFilter([]string{`/blog/`}, []string{`/draft-`})
		require.NoError(t, err)

		assert.True(t, f.Match("https://example.com/blog/post-1"))
		assert.False(t, f.Match("https://example.com/about"))
		assert.False(t, f.Match("https://example.com/blog/draft-2"))
	})

	t.Run("invalid pattern is an invalid error", func(t *testing.T) {
		t.Parallel()

		_, err := ohscrap.NewURLFilter([]string{`(`}, nil)

		assert.Equal(t, ohscrap.EINVALID, ohscrap.ErrorCode(err))
	})
}
