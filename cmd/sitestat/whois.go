package main

import (
	"github.com/fwojciec/sitestat"
	"github.com/fwojciec/sitestat/whois"
)

// Run executes the whois command.
func (c *WhoisCmd) Run(deps *Dependencies) error {
	rec, err := deps.Registration.Registration(deps.Ctx, c.Domain)
	if err != nil {
		return fail(deps, err)
	}

	// Lookups are keyed by the name that was actually queried.
	name, err := whois.RegistrableDomain(c.Domain)
	if err != nil {
		return fail(deps, err)
	}
	if err := emit(deps, sitestat.KindRegistration, name, whois.LookupURL(deps.WhoisURL, name), rec); err != nil {
		return fail(deps, err)
	}
	return nil
}
