package main

import (
	"fmt"

	"github.com/fwojciec/sitestat"
)

// errNoCredentials is returned when the traffic API is used without keys.
var errNoCredentials = sitestat.Errorf(sitestat.EINVALID, "AWIS_ACCESS_KEY_ID and AWIS_SECRET_ACCESS_KEY must be set")

// Run executes the awis command.
func (c *AwisCmd) Run(deps *Dependencies) error {
	if deps.URLInfo == nil {
		fmt.Fprintln(deps.Stderr, "Hint: pass --access-key-id and --secret-access-key or set the AWIS_* environment variables")
		return fail(deps, errNoCredentials)
	}

	rec, err := deps.URLInfo.URLInfo(deps.Ctx, c.Domain)
	if err != nil {
		return fail(deps, err)
	}
	// The signed URL carries credentials, so only the endpoint is recorded.
	if err := emit(deps, sitestat.KindURLInfo, c.Domain, deps.AWISURL, rec); err != nil {
		return fail(deps, err)
	}
	return nil
}
