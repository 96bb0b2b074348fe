// Package whois extracts domain registration data from whois lookup pages.
package whois

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/fwojciec/sitestat"
	"golang.org/x/net/publicsuffix"
)

// DefaultBaseURL is the root of the whois lookup site.
const DefaultBaseURL = "http://www.whois.com"

// LookupURL returns the whois page URL of domain.
func LookupURL(baseURL, domain string) string {
	return strings.TrimSuffix(baseURL, "/") + "/whois/" + domain
}

// RegistrableDomain reduces a host name or URL to the name a registrar
// holds, e.g. "https://www.google.co.uk/maps" becomes "google.co.uk".
func RegistrableDomain(input string) (string, error) {
	host := strings.ToLower(strings.TrimSpace(input))
	if strings.Contains(host, "://") {
		u, err := url.Parse(host)
		if err != nil {
			return "", sitestat.Errorf(sitestat.EINVALID, "invalid domain %q", input)
		}
		host = u.Hostname()
	}
	host = strings.TrimSuffix(host, ".")
	if host == "" {
		return "", sitestat.Errorf(sitestat.EINVALID, "domain required")
	}

	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return "", sitestat.Errorf(sitestat.EINVALID, "invalid domain %q: %s", input, err)
	}
	return domain, nil
}

// Ensure RegistrationService implements sitestat.RegistrationService at compile time.
var _ sitestat.RegistrationService = (*RegistrationService)(nil)

// RegistrationService extracts registry and registrar data from whois pages.
type RegistrationService struct {
	Fetcher   sitestat.Fetcher
	Tokenizer sitestat.Tokenizer
	BaseURL   string
}

// NewRegistrationService creates a RegistrationService using DefaultBaseURL.
func NewRegistrationService(fetcher sitestat.Fetcher, tokenizer sitestat.Tokenizer) *RegistrationService {
	return &RegistrationService{Fetcher: fetcher, Tokenizer: tokenizer, BaseURL: DefaultBaseURL}
}

// Registration fetches the whois page of the registrable part of domain.
func (s *RegistrationService) Registration(ctx context.Context, domain string) (sitestat.Record, error) {
	name, err := RegistrableDomain(domain)
	if err != nil {
		return nil, err
	}

	markup, err := s.Fetcher.Fetch(ctx, LookupURL(s.BaseURL, name))
	if err != nil {
		return nil, fmt.Errorf("fetching whois for %s: %w", name, err)
	}
	return s.RegistrationFromMarkup(markup)
}

// RegistrationFromMarkup extracts an already fetched whois page. Blocks
// that are missing from the page leave their mappings empty.
func (s *RegistrationService) RegistrationFromMarkup(markup string) (sitestat.Record, error) {
	rec := newRegistrationRecord()
	if _, err := sitestat.Run(s.Tokenizer, markup, newSeekPhase(rec)); err != nil {
		return nil, fmt.Errorf("tokenizing whois page: %w", err)
	}
	return rec, nil
}
