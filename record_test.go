package sitestat_test

import (
	"encoding/json"
	"testing"

	"github.com/fwojciec/sitestat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord(t *testing.T) {
	t.Parallel()

	t.Run("child is created once and reused", func(t *testing.T) {
		t.Parallel()

		rec := sitestat.Record{}
		rec.Child("rank")["global"] = "1"
		rec.Child("rank")["local"] = "2"

		assert.Equal(t, sitestat.Record{"rank": sitestat.Record{"global": "1", "local": "2"}}, rec)
	})

	t.Run("new child replaces existing value", func(t *testing.T) {
		t.Parallel()

		rec := sitestat.Record{"keywords": sitestat.Record{"old": "1"}}
		rec.NewChild("keywords")

		assert.Equal(t, sitestat.Record{}, rec["keywords"])
	})

	t.Run("appends to lists", func(t *testing.T) {
		t.Parallel()

		rec := sitestat.Record{}
		rec.AppendString("related sites", "a.com")
		rec.AppendString("related sites", "b.com")
		rec.AppendRecord("list", sitestat.Record{"rank": "1"})

		assert.Equal(t, []string{"a.com", "b.com"}, rec["related sites"])
		assert.Len(t, rec.Records("list"), 1)
	})

	t.Run("reads nested strings", func(t *testing.T) {
		t.Parallel()

		rec := sitestat.Record{"rank": sitestat.Record{"global": "-"}}

		v, ok := rec.String("rank", "global")
		assert.True(t, ok)
		assert.Equal(t, "-", v)

		_, ok = rec.String("rank", "local")
		assert.False(t, ok)
		_, ok = rec.String("country", "name")
		assert.False(t, ok)
		_, ok = rec.String()
		assert.False(t, ok)
	})

	t.Run("encodes to JSON with sorted keys", func(t *testing.T) {
		t.Parallel()

		rec := sitestat.Record{"b": "2", "a": sitestat.Record{"d": "4", "c": "3"}, "l": []string{"x"}}

		data, err := json.Marshal(rec)

		require.NoError(t, err)
		assert.JSONEq(t, `{"a":{"c":"3","d":"4"},"b":"2","l":["x"]}`, string(data))
		assert.Equal(t, `{"a":{"c":"3","d":"4"},"b":"2","l":["x"]}`, string(data))
	})
}
