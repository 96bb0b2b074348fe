package sitestat

import "context"

// SiteInfoService extracts ranking, traffic and audience data for a site.
type SiteInfoService interface {
	// SiteInfo fetches and extracts the ranking page of domain.
	// Returns ENOTFOUND if the page reports the domain as unranked.
	SiteInfo(ctx context.Context, domain string) (Record, error)

	// SiteInfoFromMarkup extracts an already fetched ranking page.
	// Returns ENOTFOUND if the page reports the domain as unranked.
	SiteInfoFromMarkup(markup string) (Record, error)
}

// TopSitesService lists the top sites of a directory category.
type TopSitesService interface {
	// TopSitesByCategory walks the paginated category listing and returns
	// a record with "category" and "list" fields. A category without sites
	// yields an empty list, not an error.
	TopSitesByCategory(ctx context.Context, category string) (Record, error)

	// TopSitesFromMarkup extracts a single already fetched listing page.
	TopSitesFromMarkup(category, markup string) (Record, error)
}

// RegistrationService looks up domain registration (whois) data.
type RegistrationService interface {
	// Registration fetches and extracts the whois page of domain.
	// Returns EINVALID if domain is not a registrable name.
	Registration(ctx context.Context, domain string) (Record, error)

	// RegistrationFromMarkup extracts an already fetched whois page.
	RegistrationFromMarkup(markup string) (Record, error)
}

// URLInfoService queries the signed traffic API for a site.
type URLInfoService interface {
	URLInfo(ctx context.Context, domain string) (Record, error)
}
