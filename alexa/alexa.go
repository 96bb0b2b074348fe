// Package alexa extracts site ranking pages and top-sites category listings
// from the Alexa web information site.
package alexa

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/fwojciec/sitestat"
)

// DefaultBaseURL is the root of the site the pipelines were written for.
const DefaultBaseURL = "http://www.alexa.com"

// MaxCategoryPages is the number of listing pages fetched at most for one
// category (pages 0 through 20).
const MaxCategoryPages = 21

// unrankedSentinel is shown in place of the global rank for sites the
// ranking database does not know.
const unrankedSentinel = "-"

// SiteInfoURL returns the ranking page URL of domain.
func SiteInfoURL(baseURL, domain string) string {
	return strings.TrimSuffix(baseURL, "/") + "/siteinfo/" + domain
}

// TopSitesURL returns the URL of a category listing page. Page 0 is the
// unparameterized listing.
func TopSitesURL(baseURL, category string, page int) string {
	base := strings.TrimSuffix(baseURL, "/") + "/topsites/category"
	if page == 0 {
		return base + "/Top/" + category
	}
	return base + ";" + strconv.Itoa(page) + "/Top/" + category
}

// Ensure SiteInfoService implements sitestat.SiteInfoService at compile time.
var _ sitestat.SiteInfoService = (*SiteInfoService)(nil)

// SiteInfoService extracts ranking, traffic and audience data from site
// ranking pages.
type SiteInfoService struct {
	Fetcher   sitestat.Fetcher
	Tokenizer sitestat.Tokenizer
	BaseURL   string
}

// NewSiteInfoService creates a SiteInfoService using DefaultBaseURL.
func NewSiteInfoService(fetcher sitestat.Fetcher, tokenizer sitestat.Tokenizer) *SiteInfoService {
	return &SiteInfoService{Fetcher: fetcher, Tokenizer: tokenizer, BaseURL: DefaultBaseURL}
}

// SiteInfo fetches the ranking page of domain and extracts it.
func (s *SiteInfoService) SiteInfo(ctx context.Context, domain string) (sitestat.Record, error) {
	if domain == "" {
		return nil, sitestat.Errorf(sitestat.EINVALID, "domain required")
	}

	url := SiteInfoURL(s.BaseURL, domain)
	markup, err := s.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetching site info for %s: %w", domain, err)
	}

	rec, err := s.SiteInfoFromMarkup(markup)
	if err != nil {
		if sitestat.ErrorCode(err) == sitestat.ENOTFOUND {
			return nil, sitestat.Errorf(sitestat.ENOTFOUND, "website %q not found in the database", domain)
		}
		return nil, err
	}
	return rec, nil
}

// SiteInfoFromMarkup extracts an already fetched ranking page.
//
// Sections whose landmarks are missing are left out of the record. The
// only structural check is the unranked sentinel in the global rank.
func (s *SiteInfoService) SiteInfoFromMarkup(markup string) (sitestat.Record, error) {
	rec := sitestat.Record{}
	if _, err := sitestat.Run(s.Tokenizer, markup, newSiteInfoChain(rec)); err != nil {
		return nil, fmt.Errorf("tokenizing site info page: %w", err)
	}

	if global, ok := rec.String(fieldRank, "global"); ok && global == unrankedSentinel {
		return nil, sitestat.Errorf(sitestat.ENOTFOUND, "website not found in the database")
	}
	return rec, nil
}

// Ensure TopSitesService implements sitestat.TopSitesService at compile time.
var _ sitestat.TopSitesService = (*TopSitesService)(nil)

// TopSitesService walks paginated category listings.
type TopSitesService struct {
	Fetcher   sitestat.Fetcher
	Tokenizer sitestat.Tokenizer
	BaseURL   string
}

// NewTopSitesService creates a TopSitesService using DefaultBaseURL.
func NewTopSitesService(fetcher sitestat.Fetcher, tokenizer sitestat.Tokenizer) *TopSitesService {
	return &TopSitesService{Fetcher: fetcher, Tokenizer: tokenizer, BaseURL: DefaultBaseURL}
}

// TopSitesByCategory fetches listing pages in order, accumulating entries
// into one record, until a page reports no sites or MaxCategoryPages pages
// have been read. Any fetch error aborts the walk.
func (s *TopSitesService) TopSitesByCategory(ctx context.Context, category string) (sitestat.Record, error) {
	if category == "" {
		return nil, sitestat.Errorf(sitestat.EINVALID, "category required")
	}

	rec := sitestat.Record{
		fieldTopCategory: category,
		fieldList:        []sitestat.Record{},
	}

	for page := 0; page < MaxCategoryPages; page++ {
		url := TopSitesURL(s.BaseURL, category, page)
		markup, err := s.Fetcher.Fetch(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("fetching page %d of category %s: %w", page, category, err)
		}

		outcome, err := sitestat.Run(s.Tokenizer, markup, newListingRootPhase(rec))
		if err != nil {
			return nil, fmt.Errorf("tokenizing page %d of category %s: %w", page, category, err)
		}
		if outcome == sitestat.EndOfResults {
			break
		}
	}

	return rec, nil
}

// TopSitesFromMarkup extracts a single listing page of category.
func (s *TopSitesService) TopSitesFromMarkup(category, markup string) (sitestat.Record, error) {
	rec := sitestat.Record{
		fieldTopCategory: category,
		fieldList:        []sitestat.Record{},
	}
	if _, err := sitestat.Run(s.Tokenizer, markup, newListingRootPhase(rec)); err != nil {
		return nil, fmt.Errorf("tokenizing listing page: %w", err)
	}
	return rec, nil
}
