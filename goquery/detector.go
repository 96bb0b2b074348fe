// Package goquery identifies fetched pages with CSS selectors from
// PuerkitoBio/goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/sitestat"
)

// Ensure Detector implements sitestat.PageDetector at compile time.
var _ sitestat.PageDetector = (*Detector)(nil)

// Detector identifies which extraction pipeline a saved or fetched page
// belongs to. It checks the canonical URL first and falls back to the
// landmarks each pipeline waits for.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// canonicalPaths maps URL path segments of the source sites to page kinds.
var canonicalPaths = []struct {
	segment string
	kind    sitestat.PageKind
}{
	{"/siteinfo/", sitestat.PageSiteInfo},
	{"/topsites/category", sitestat.PageTopSites},
	{"/whois/", sitestat.PageWhois},
}

// Detect analyzes HTML and returns the identified page kind.
// Returns PageUnknown if the kind cannot be determined.
func (d *Detector) Detect(html string) sitestat.PageKind {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return sitestat.PageUnknown
	}

	// The canonical link is the most reliable marker when present.
	if kind := d.detectFromCanonical(doc); kind != sitestat.PageUnknown {
		return kind
	}

	if d.hasSelector(doc, "div.whois_result#registryData") ||
		d.hasSelector(doc, "div.whois_result#registrarData") {
		return sitestat.PageWhois
	}

	if d.hasSelector(doc, "div.row-fluid.summary") ||
		d.hasSelector(doc, "#demographics_div_country_table") ||
		d.hasSelector(doc, "section#engagement-content") {
		return sitestat.PageSiteInfo
	}

	if d.hasSelector(doc, "li.site-listing") || d.hasNoSitesNotice(doc) {
		return sitestat.PageTopSites
	}

	return sitestat.PageUnknown
}

// detectFromCanonical checks the canonical link and og:url meta tag.
func (d *Detector) detectFromCanonical(doc *goquery.Document) sitestat.PageKind {
	href, _ := doc.Find("link[rel='canonical']").First().Attr("href")
	if href == "" {
		href, _ = doc.Find("meta[property='og:url']").First().Attr("content")
	}
	if href == "" {
		return sitestat.PageUnknown
	}

	for _, p := range canonicalPaths {
		if strings.Contains(href, p.segment) {
			return p.kind
		}
	}
	return sitestat.PageUnknown
}

// hasSelector checks if the document contains at least one element matching the selector.
func (d *Detector) hasSelector(doc *goquery.Document, selector string) bool {
	return doc.Find(selector).Length() > 0
}

// hasNoSitesNotice reports whether the page is an empty category listing.
func (d *Detector) hasNoSitesNotice(doc *goquery.Document) bool {
	found := false
	doc.Find("p, div, span, section").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.TrimSpace(s.Text()) == "No sites for this category." {
			found = true
		}
		return !found
	})
	return found
}
