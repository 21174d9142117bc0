//go:build integration

package http_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/ohscrap"
	ohttp "github.com/fwojciec/ohscrap/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSitemapService_Integration(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	filter, err := ohscrap.NewURLFilter([]string{`/docs/`}, nil)
	require.NoError(t, err)

	// htmx.org declares its sitemap in robots.txt.
	locations, err := ohttp.NewSitemapService(nil).Locations(ctx, "https://htmx.org", filter)
	require.NoError(t, err)

	assert.NotEmpty(t, locations)
	for _, loc := range locations {
		assert.True(t, strings.Contains(loc, "/docs/"), loc)
	}
	t.Logf("found %d locations", len(locations))
}
