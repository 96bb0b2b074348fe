package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/sitestat"
)

// errNoDatabase is returned by history commands when --db is not set.
var errNoDatabase = sitestat.Errorf(sitestat.EINVALID, "no lookup history: set --db or SITESTAT_DB")

// Run executes the history list command.
func (c *HistoryListCmd) Run(deps *Dependencies) error {
	if deps.Lookups == nil {
		return fail(deps, errNoDatabase)
	}

	filter := sitestat.LookupFilter{Limit: c.Limit, Offset: c.Offset}
	if c.Kind != "" {
		kind := sitestat.LookupKind(c.Kind)
		switch kind {
		case sitestat.KindSiteInfo, sitestat.KindTopSites, sitestat.KindRegistration, sitestat.KindURLInfo:
		default:
			return fail(deps, sitestat.Errorf(sitestat.EINVALID, "unknown lookup kind %q", c.Kind))
		}
		filter.Kind = &kind
	}
	if c.Key != "" {
		filter.Key = &c.Key
	}

	lookups, err := deps.Lookups.FindLookups(deps.Ctx, filter)
	if err != nil {
		return fail(deps, err)
	}

	if len(lookups) == 0 {
		fmt.Fprintln(deps.Stdout, "No lookups found.")
		return nil
	}

	for _, l := range lookups {
		fmt.Fprintf(deps.Stdout, "%s  %s  %-8s  %s  %s\n",
			l.ID, l.FetchedAt.Local().Format(time.DateTime), l.Kind, l.ContentHash, l.Key)
	}

	return nil
}

// Run executes the history show command.
func (c *HistoryShowCmd) Run(deps *Dependencies) error {
	if deps.Lookups == nil {
		return fail(deps, errNoDatabase)
	}

	lookup, err := deps.Lookups.FindLookupByID(deps.Ctx, c.ID)
	if err != nil {
		return fail(deps, err)
	}

	if err := printRecord(deps, lookup.Record); err != nil {
		return fail(deps, err)
	}
	return nil
}

// Run executes the history delete command.
func (c *HistoryDeleteCmd) Run(deps *Dependencies) error {
	if deps.Lookups == nil {
		return fail(deps, errNoDatabase)
	}

	if err := deps.Lookups.DeleteLookup(deps.Ctx, c.ID); err != nil {
		return fail(deps, err)
	}

	fmt.Fprintf(deps.Stdout, "Deleted lookup %s\n", c.ID)
	return nil
}
