package sitestat

// PageKind identifies which extraction pipeline a page belongs to.
type PageKind string

// PageKind constants.
const (
	PageUnknown  PageKind = ""
	PageSiteInfo PageKind = "siteinfo"
	PageTopSites PageKind = "topsites"
	PageWhois    PageKind = "whois"
)

// PageDetector identifies the kind of a fetched page from its markup.
type PageDetector interface {
	Detect(html string) PageKind
}
