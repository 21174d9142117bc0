package ohscrap_test

import (
	"encoding/json"
	"testing"

	"github.com/fwojciec/ohscrap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_MarshalJSON(t *testing.T) {
	t.Parallel()

	t.Run("keeps object key order", func(t *testing.T) {
		t.Parallel()

		v := ohscrap.Object(
			ohscrap.Entry{Key: "title", Value: ohscrap.String("TITLE")},
			ohscrap.Entry{Key: "items", Value: ohscrap.Strings("a", "b")},
			ohscrap.Entry{Key: "author", Value: ohscrap.Absent()},
		)

		b, err := json.Marshal(v)

		require.NoError(t, err)
		assert.Equal(t, `{"title":"TITLE","items":["a","b"],"author":null}`, string(b))
	})

	t.Run("escapes strings", func(t *testing.T) {
		t.Parallel()

		b, err := json.Marshal(ohscrap.String(`say "hi" <b>`))

		require.NoError(t, err)
		assert.JSONEq(t, `"say \"hi\" <b>"`, string(b))
	})

	t.Run("encodes zero value as null", func(t *testing.T) {
		t.Parallel()

		b, err := json.Marshal(ohscrap.Value{})

		require.NoError(t, err)
		assert.Equal(t, "null", string(b))
	})
}

func TestValue_Accessors(t *testing.T) {
	t.Parallel()

	t.Run("string list converts to strings", func(t *testing.T) {
		t.Parallel()

		ss, ok := ohscrap.Strings("a", "b").Strings()

		require.True(t, ok)
		assert.Equal(t, []string{"a", "b"}, ss)
	})

	t.Run("mixed list does not convert to strings", func(t *testing.T) {
		t.Parallel()

		_, ok := ohscrap.List(ohscrap.String("a"), ohscrap.Absent()).Strings()

		assert.False(t, ok)
	})

	t.Run("object lookup by key", func(t *testing.T) {
		t.Parallel()

		v := ohscrap.Object(ohscrap.Entry{Key: "k", Value: ohscrap.String("v")})

		got, ok := v.Get("k")
		require.True(t, ok)
		assert.Equal(t, "v", got.Str())
		_, ok = v.Get("missing")
		assert.False(t, ok)
		assert.Equal(t, []string{"k"}, v.Keys())
	})

	t.Run("interface converts to plain values", func(t *testing.T) {
		t.Parallel()

		v := ohscrap.Object(
			ohscrap.Entry{Key: "items", Value: ohscrap.Strings("a")},
			ohscrap.Entry{Key: "none", Value: ohscrap.Absent()},
		)

		assert.Equal(t, map[string]any{"items": []any{"a"}, "none": nil}, v.Interface())
	})
}
