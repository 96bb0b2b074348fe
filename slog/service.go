package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sitestat"
)

// Ensure LoggingSiteInfoService implements sitestat.SiteInfoService.
var _ sitestat.SiteInfoService = (*LoggingSiteInfoService)(nil)

// LoggingSiteInfoService wraps a SiteInfoService with logging.
type LoggingSiteInfoService struct {
	next   sitestat.SiteInfoService
	logger *slog.Logger
}

// NewLoggingSiteInfoService creates a new LoggingSiteInfoService.
func NewLoggingSiteInfoService(next sitestat.SiteInfoService, logger *slog.Logger) *LoggingSiteInfoService {
	return &LoggingSiteInfoService{next: next, logger: logger}
}

// SiteInfo delegates to the wrapped service and logs the operation.
func (s *LoggingSiteInfoService) SiteInfo(ctx context.Context, domain string) (rec sitestat.Record, err error) {
	defer func(begin time.Time) {
		s.logger.Info("site info",
			"domain", domain,
			"fields", len(rec),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SiteInfo(ctx, domain)
}

// SiteInfoFromMarkup delegates to the wrapped service.
func (s *LoggingSiteInfoService) SiteInfoFromMarkup(markup string) (sitestat.Record, error) {
	return s.next.SiteInfoFromMarkup(markup)
}

// Ensure LoggingTopSitesService implements sitestat.TopSitesService.
var _ sitestat.TopSitesService = (*LoggingTopSitesService)(nil)

// LoggingTopSitesService wraps a TopSitesService with logging.
type LoggingTopSitesService struct {
	next   sitestat.TopSitesService
	logger *slog.Logger
}

// NewLoggingTopSitesService creates a new LoggingTopSitesService.
func NewLoggingTopSitesService(next sitestat.TopSitesService, logger *slog.Logger) *LoggingTopSitesService {
	return &LoggingTopSitesService{next: next, logger: logger}
}

// TopSitesByCategory delegates to the wrapped service and logs the number
// of listed sites.
func (s *LoggingTopSitesService) TopSitesByCategory(ctx context.Context, category string) (rec sitestat.Record, err error) {
	defer func(begin time.Time) {
		s.logger.Info("top sites",
			"category", category,
			"count", len(rec.Records("list")),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.TopSitesByCategory(ctx, category)
}

// TopSitesFromMarkup delegates to the wrapped service.
func (s *LoggingTopSitesService) TopSitesFromMarkup(category, markup string) (sitestat.Record, error) {
	return s.next.TopSitesFromMarkup(category, markup)
}

// Ensure LoggingRegistrationService implements sitestat.RegistrationService.
var _ sitestat.RegistrationService = (*LoggingRegistrationService)(nil)

// LoggingRegistrationService wraps a RegistrationService with logging.
type LoggingRegistrationService struct {
	next   sitestat.RegistrationService
	logger *slog.Logger
}

// NewLoggingRegistrationService creates a new LoggingRegistrationService.
func NewLoggingRegistrationService(next sitestat.RegistrationService, logger *slog.Logger) *LoggingRegistrationService {
	return &LoggingRegistrationService{next: next, logger: logger}
}

// Registration delegates to the wrapped service and logs the operation.
func (s *LoggingRegistrationService) Registration(ctx context.Context, domain string) (rec sitestat.Record, err error) {
	defer func(begin time.Time) {
		s.logger.Info("whois",
			"domain", domain,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Registration(ctx, domain)
}

// RegistrationFromMarkup delegates to the wrapped service.
func (s *LoggingRegistrationService) RegistrationFromMarkup(markup string) (sitestat.Record, error) {
	return s.next.RegistrationFromMarkup(markup)
}

// Ensure LoggingURLInfoService implements sitestat.URLInfoService.
var _ sitestat.URLInfoService = (*LoggingURLInfoService)(nil)

// LoggingURLInfoService wraps a URLInfoService with logging.
type LoggingURLInfoService struct {
	next   sitestat.URLInfoService
	logger *slog.Logger
}

// NewLoggingURLInfoService creates a new LoggingURLInfoService.
func NewLoggingURLInfoService(next sitestat.URLInfoService, logger *slog.Logger) *LoggingURLInfoService {
	return &LoggingURLInfoService{next: next, logger: logger}
}

// URLInfo delegates to the wrapped service and logs the operation.
func (s *LoggingURLInfoService) URLInfo(ctx context.Context, domain string) (rec sitestat.Record, err error) {
	defer func(begin time.Time) {
		s.logger.Info("url info",
			"domain", domain,
			"fields", len(rec),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.URLInfo(ctx, domain)
}
