package ohscrap_test

import (
	"testing"
	"time"

	"github.com/fwojciec/ohscrap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := ohscrap.NewConfig()

	require.NoError(t, cfg.Validate())
	assert.False(t, cfg.Strict)
	assert.Positive(t, cfg.Concurrency)
	assert.Equal(t, 100, cfg.MinContentLength)
	assert.Equal(t, ohscrap.RetryPolicy{Interval: time.Second, Times: 3}, cfg.Retry)
	assert.Equal(t, "body", cfg.Ready)
	assert.Equal(t, ohscrap.QueryCSS, cfg.Query)
	assert.Equal(t, ohscrap.EngineRod, cfg.Engine)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	t.Run("rejects zero concurrency", func(t *testing.T) {
		t.Parallel()

		cfg := ohscrap.NewConfig()
		cfg.Concurrency = 0

		err := cfg.Validate()

		assert.Equal(t, ohscrap.EINVALID, ohscrap.ErrorCode(err))
	})

	t.Run("rejects zero retry attempts", func(t *testing.T) {
		t.Parallel()

		cfg := ohscrap.NewConfig()
		cfg.Retry.Times = 0

		assert.Equal(t, ohscrap.EINVALID, ohscrap.ErrorCode(cfg.Validate()))
	})

	t.Run("rejects unknown query dialect", func(t *testing.T) {
		t.Parallel()

		cfg := ohscrap.NewConfig()
		cfg.Query = "jsonpath"

		err := cfg.Validate()

		assert.Equal(t, ohscrap.EINVALID, ohscrap.ErrorCode(err))
		assert.Contains(t, ohscrap.ErrorMessage(err), "jsonpath")
	})

	t.Run("rejects unknown engine", func(t *testing.T) {
		t.Parallel()

		cfg := ohscrap.NewConfig()
		cfg.Engine = "puppeteer"

		assert.Equal(t, ohscrap.EINVALID, ohscrap.ErrorCode(cfg.Validate()))
	})

	t.Run("allows zero minimum content length", func(t *testing.T) {
		t.Parallel()

		cfg := ohscrap.NewConfig()
		cfg.MinContentLength = 0

		assert.NoError(t, cfg.Validate())
	})
}

func TestPageContext(t *testing.T) {
	t.Parallel()

	base := ohscrap.At("https://example.com/a", "https://example.com")
	next := base.WithURL("https://example.com/b")

	assert.Equal(t, "https://example.com/a", base.URL)
	assert.Equal(t, "https://example.com/b", next.URL)
	assert.Equal(t, base.BaseURL, next.BaseURL)
}
