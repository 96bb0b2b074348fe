package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/sitestat"
)

// Run executes the parse command.
func (c *ParseCmd) Run(deps *Dependencies) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fail(deps, err)
	}
	markup := string(data)

	kind := sitestat.PageKind(c.Kind)
	if c.Kind == "auto" {
		kind = deps.Detector.Detect(markup)
	}

	var rec sitestat.Record
	switch kind {
	case sitestat.PageSiteInfo:
		rec, err = deps.SiteInfo.SiteInfoFromMarkup(markup)
	case sitestat.PageTopSites:
		rec, err = deps.TopSites.TopSitesFromMarkup(c.Category, markup)
	case sitestat.PageWhois:
		rec, err = deps.Registration.RegistrationFromMarkup(markup)
	default:
		return fail(deps, sitestat.Errorf(sitestat.EINVALID, "cannot detect page kind of %s; use --kind", c.File))
	}
	if err != nil {
		return fail(deps, err)
	}

	if err := emit(deps, lookupKind(kind), parseKey(c.File), "", rec); err != nil {
		return fail(deps, err)
	}
	return nil
}

// parseKey names a parsed page after its file, without the extension.
func parseKey(file string) string {
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func lookupKind(kind sitestat.PageKind) sitestat.LookupKind {
	switch kind {
	case sitestat.PageTopSites:
		return sitestat.KindTopSites
	case sitestat.PageWhois:
		return sitestat.KindRegistration
	default:
		return sitestat.KindSiteInfo
	}
}
