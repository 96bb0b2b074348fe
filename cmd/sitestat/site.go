package main

import (
	"github.com/fwojciec/sitestat"
	"github.com/fwojciec/sitestat/alexa"
	"github.com/fwojciec/sitestat/bloom"
)

// Run executes the site command.
func (c *SiteCmd) Run(deps *Dependencies) error {
	domain := bloom.Normalize(c.Domain)
	rec, err := deps.SiteInfo.SiteInfo(deps.Ctx, domain)
	if err != nil {
		return fail(deps, err)
	}
	if err := emit(deps, sitestat.KindSiteInfo, domain, alexa.SiteInfoURL(deps.AlexaURL, domain), rec); err != nil {
		return fail(deps, err)
	}
	return nil
}
