package main

import (
	"github.com/fwojciec/sitestat"
	"github.com/fwojciec/sitestat/alexa"
)

// Run executes the topsites command.
func (c *TopsitesCmd) Run(deps *Dependencies) error {
	rec, err := deps.TopSites.TopSitesByCategory(deps.Ctx, c.Category)
	if err != nil {
		return fail(deps, err)
	}
	if err := emit(deps, sitestat.KindTopSites, c.Category, alexa.TopSitesURL(deps.AlexaURL, c.Category, 0), rec); err != nil {
		return fail(deps, err)
	}
	return nil
}
