package goquery_test

import (
	"os"
	"testing"

	"github.com/fwojciec/sitestat"
	"github.com/fwojciec/sitestat/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Detector implements sitestat.PageDetector at compile time.
var _ sitestat.PageDetector = (*goquery.Detector)(nil)

func TestDetector_Detect(t *testing.T) {
	t.Parallel()

	// Canonical URL tests - most reliable when present
	t.Run("detects site info from canonical link", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head>
<title>google.com Site Overview</title>
<link rel="canonical" href="http://www.alexa.com/siteinfo/google.com">
</head>
<body></body>
</html>`

		d := goquery.NewDetector()
		kind := d.Detect(html)

		assert.Equal(t, sitestat.PageSiteInfo, kind)
	})

	t.Run("detects top sites from og:url", func(t *testing.T) {
		t.Parallel()

		html := `<html><head>
<meta property="og:url" content="http://www.alexa.com/topsites/category;3/Top/Computers">
</head><body></body></html>`

		d := goquery.NewDetector()
		kind := d.Detect(html)

		assert.Equal(t, sitestat.PageTopSites, kind)
	})

	t.Run("detects whois from canonical link", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><link rel="canonical" href="https://www.whois.com/whois/google.com"></head><body></body></html>`

		d := goquery.NewDetector()
		kind := d.Detect(html)

		assert.Equal(t, sitestat.PageWhois, kind)
	})

	// Landmark tests - used when no canonical URL is present
	t.Run("detects whois from result blocks", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<div class="whois_result" id="registrarData">Registrar: MarkMonitor, Inc.</div>
</body></html>`

		d := goquery.NewDetector()
		kind := d.Detect(html)

		assert.Equal(t, sitestat.PageWhois, kind)
	})

	t.Run("detects site info from summary block", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<div class="row-fluid summary"><span class="bottom"></span><strong>1</strong></div>
</body></html>`

		d := goquery.NewDetector()
		kind := d.Detect(html)

		assert.Equal(t, sitestat.PageSiteInfo, kind)
	})

	t.Run("detects top sites from site listing", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><ul>
<li class="site-listing"><div class="count">1</div><a href="/siteinfo/google.com">Google.com</a></li>
</ul></body></html>`

		d := goquery.NewDetector()
		kind := d.Detect(html)

		assert.Equal(t, sitestat.PageTopSites, kind)
	})

	t.Run("detects empty category listing", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><section class="page-product-content"><p>
  No sites for this category.
</p></section></body></html>`

		d := goquery.NewDetector()
		kind := d.Detect(html)

		assert.Equal(t, sitestat.PageTopSites, kind)
	})

	t.Run("canonical link wins over landmarks", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><link rel="canonical" href="http://www.whois.com/whois/alexa.com"></head>
<body><div class="row-fluid summary"></div></body></html>`

		d := goquery.NewDetector()
		kind := d.Detect(html)

		assert.Equal(t, sitestat.PageWhois, kind)
	})

	t.Run("detects full site info fixture", func(t *testing.T) {
		t.Parallel()

		b, err := os.ReadFile("../alexa/testdata/siteinfo.html")
		require.NoError(t, err)

		d := goquery.NewDetector()
		kind := d.Detect(string(b))

		assert.Equal(t, sitestat.PageSiteInfo, kind)
	})

	t.Run("returns unknown for unrelated page", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><link rel="canonical" href="https://example.com/docs"></head><body><p>Hello</p></body></html>`

		d := goquery.NewDetector()
		kind := d.Detect(html)

		assert.Equal(t, sitestat.PageUnknown, kind)
	})

	t.Run("returns unknown for empty input", func(t *testing.T) {
		t.Parallel()

		d := goquery.NewDetector()
		kind := d.Detect("")

		assert.Equal(t, sitestat.PageUnknown, kind)
	})
}
