package sitestat_test

import (
	"testing"

	"github.com/fwojciec/sitestat"
	"github.com/stretchr/testify/assert"
)

func TestAttrAt(t *testing.T) {
	t.Parallel()

	attrs := []sitestat.Attr{{Key: "class", Val: "x"}, {Key: "id", Val: "y"}}

	assert.True(t, sitestat.AttrAt(attrs, 0, "class", "x"))
	assert.True(t, sitestat.AttrAt(attrs, 1, "id", "y"))
	assert.False(t, sitestat.AttrAt(attrs, 1, "class", "x"))
	assert.False(t, sitestat.AttrAt(attrs, 2, "id", "y"))
	assert.False(t, sitestat.AttrAt(nil, 0, "class", "x"))
	assert.False(t, sitestat.AttrAt(attrs, -1, "class", "x"))
}

func TestAttrsEqual(t *testing.T) {
	t.Parallel()

	attrs := []sitestat.Attr{{Key: "class", Val: "whois_result"}, {Key: "id", Val: "registryData"}}

	assert.True(t, sitestat.AttrsEqual(attrs,
		sitestat.Attr{Key: "class", Val: "whois_result"},
		sitestat.Attr{Key: "id", Val: "registryData"}))
	assert.False(t, sitestat.AttrsEqual(attrs,
		sitestat.Attr{Key: "id", Val: "registryData"},
		sitestat.Attr{Key: "class", Val: "whois_result"}))
	assert.False(t, sitestat.AttrsEqual(attrs, sitestat.Attr{Key: "class", Val: "whois_result"}))
}

func TestLookup_Validate(t *testing.T) {
	t.Parallel()

	t.Run("requires kind, key and record", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, sitestat.EINVALID, sitestat.ErrorCode((&sitestat.Lookup{}).Validate()))
		assert.Equal(t, sitestat.EINVALID, sitestat.ErrorCode((&sitestat.Lookup{Kind: sitestat.KindSiteInfo}).Validate()))
		assert.Equal(t, sitestat.EINVALID, sitestat.ErrorCode((&sitestat.Lookup{Kind: sitestat.KindSiteInfo, Key: "a.com"}).Validate()))
	})

	t.Run("accepts complete lookup", func(t *testing.T) {
		t.Parallel()

		l := &sitestat.Lookup{Kind: sitestat.KindSiteInfo, Key: "a.com", Record: sitestat.Record{}}

		assert.NoError(t, l.Validate())
	})
}
