package mock

import (
	"context"

	"github.com/fwojciec/sitestat"
)

var _ sitestat.SiteInfoService = (*SiteInfoService)(nil)

// SiteInfoService is a mock implementation of sitestat.SiteInfoService.
type SiteInfoService struct {
	SiteInfoFn           func(ctx context.Context, domain string) (sitestat.Record, error)
	SiteInfoFromMarkupFn func(markup string) (sitestat.Record, error)
}

func (s *SiteInfoService) SiteInfo(ctx context.Context, domain string) (sitestat.Record, error) {
	return s.SiteInfoFn(ctx, domain)
}

func (s *SiteInfoService) SiteInfoFromMarkup(markup string) (sitestat.Record, error) {
	return s.SiteInfoFromMarkupFn(markup)
}

var _ sitestat.TopSitesService = (*TopSitesService)(nil)

// TopSitesService is a mock implementation of sitestat.TopSitesService.
type TopSitesService struct {
	TopSitesByCategoryFn func(ctx context.Context, category string) (sitestat.Record, error)
	TopSitesFromMarkupFn func(category, markup string) (sitestat.Record, error)
}

func (s *TopSitesService) TopSitesByCategory(ctx context.Context, category string) (sitestat.Record, error) {
	return s.TopSitesByCategoryFn(ctx, category)
}

func (s *TopSitesService) TopSitesFromMarkup(category, markup string) (sitestat.Record, error) {
	return s.TopSitesFromMarkupFn(category, markup)
}

var _ sitestat.RegistrationService = (*RegistrationService)(nil)

// RegistrationService is a mock implementation of sitestat.RegistrationService.
type RegistrationService struct {
	RegistrationFn           func(ctx context.Context, domain string) (sitestat.Record, error)
	RegistrationFromMarkupFn func(markup string) (sitestat.Record, error)
}

func (s *RegistrationService) Registration(ctx context.Context, domain string) (sitestat.Record, error) {
	return s.RegistrationFn(ctx, domain)
}

func (s *RegistrationService) RegistrationFromMarkup(markup string) (sitestat.Record, error) {
	return s.RegistrationFromMarkupFn(markup)
}

var _ sitestat.URLInfoService = (*URLInfoService)(nil)

// URLInfoService is a mock implementation of sitestat.URLInfoService.
type URLInfoService struct {
	URLInfoFn func(ctx context.Context, domain string) (sitestat.Record, error)
}

func (s *URLInfoService) URLInfo(ctx context.Context, domain string) (sitestat.Record, error) {
	return s.URLInfoFn(ctx, domain)
}
