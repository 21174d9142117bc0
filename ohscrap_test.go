package ohscrap_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/ohscrap"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := ohscrap.Errorf(ohscrap.ENOELEMENT, "no element found: %q", "h1")

	assert.Equal(t, ohscrap.ENOELEMENT, ohscrap.ErrorCode(err))
	assert.Equal(t, "no element found: \"h1\"", ohscrap.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, ohscrap.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, ohscrap.ErrorMessage(nil))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")

	assert.Equal(t, ohscrap.EINTERNAL, ohscrap.ErrorCode(err))
	assert.Equal(t, "Internal error.", ohscrap.ErrorMessage(err))
}

func TestWrapError(t *testing.T) {
	t.Parallel()

	t.Run("exposes the cause through errors.Is", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("connection refused")
		err := ohscrap.WrapError(ohscrap.EEXHAUSTED, cause, "fetch %s: %d attempts", "http://a.test/", 3)

		assert.ErrorIs(t, err, cause)
		assert.Equal(t, ohscrap.EEXHAUSTED, ohscrap.ErrorCode(err))
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("finds the code through fmt wrapping", func(t *testing.T) {
		t.Parallel()

		err := fmt.Errorf("crawl: %w", ohscrap.Errorf(ohscrap.ENORESULT, "no result"))

		assert.Equal(t, ohscrap.ENORESULT, ohscrap.ErrorCode(err))
		assert.Equal(t, "no result", ohscrap.ErrorMessage(err))
	})
}
