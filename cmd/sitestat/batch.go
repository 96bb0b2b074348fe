package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fwojciec/sitestat"
	"github.com/fwojciec/sitestat/alexa"
	"github.com/fwojciec/sitestat/bloom"
	"github.com/fwojciec/sitestat/whois"
	"golang.org/x/sync/errgroup"
)

// batchResult is the outcome of one domain of a batch run.
type batchResult struct {
	domain string
	rec    sitestat.Record
	err    error
}

// Run executes the batch command.
func (c *BatchCmd) Run(deps *Dependencies) error {
	domains, err := readDomains(c.File)
	if err != nil {
		return fail(deps, err)
	}
	domains = bloom.Dedupe(domains)

	lookup, err := c.lookupFunc(deps)
	if err != nil {
		return fail(deps, err)
	}

	concurrency := c.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	// Each domain is an independent extraction; only scheduling is shared.
	results := make([]batchResult, len(domains))
	g, gctx := errgroup.WithContext(deps.Ctx)
	g.SetLimit(concurrency)
	for i, domain := range domains {
		g.Go(func() error {
			rec, err := lookup(gctx, domain)
			results[i] = batchResult{domain: domain, rec: rec, err: err}
			return nil
		})
	}
	_ = g.Wait()

	var failed int
	for _, r := range results {
		if r.err == nil {
			r.err = c.emit(deps, r.domain, r.rec)
		}
		if r.err != nil {
			failed++
			fmt.Fprintf(deps.Stderr, "error: %s: %s\n", r.domain, sitestat.ErrorMessage(r.err))
		}
	}

	if deps.Logger != nil {
		deps.Logger.Info("batch complete", "kind", c.Kind, "domains", len(domains), "failed", failed)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d lookups failed", failed, len(domains))
	}
	return nil
}

func (c *BatchCmd) lookupFunc(deps *Dependencies) (func(context.Context, string) (sitestat.Record, error), error) {
	switch c.Kind {
	case "whois":
		return deps.Registration.Registration, nil
	case "awis":
		if deps.URLInfo == nil {
			return nil, errNoCredentials
		}
		return deps.URLInfo.URLInfo, nil
	default:
		return deps.SiteInfo.SiteInfo, nil
	}
}

// emit stores a successful result and prints it as one JSON line.
func (c *BatchCmd) emit(deps *Dependencies, domain string, rec sitestat.Record) error {
	var (
		kind      sitestat.LookupKind
		key       = domain
		sourceURL string
	)
	switch c.Kind {
	case "whois":
		kind = sitestat.KindRegistration
		if name, err := whois.RegistrableDomain(domain); err == nil {
			key = name
		}
		sourceURL = whois.LookupURL(deps.WhoisURL, key)
	case "awis":
		kind = sitestat.KindURLInfo
		sourceURL = deps.AWISURL
	default:
		kind = sitestat.KindSiteInfo
		sourceURL = alexa.SiteInfoURL(deps.AlexaURL, domain)
	}

	if err := store(deps, kind, key, sourceURL, rec); err != nil {
		return err
	}

	var out any = rec
	if deps.Query != nil {
		values, err := deps.Query.Run(rec)
		if err != nil {
			return err
		}
		out = values
	}
	data, err := json.Marshal(map[string]any{"domain": domain, "record": out})
	if err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "%s\n", data)
	return nil
}

// readDomains returns the non-blank, non-comment lines of file.
func readDomains(file string) ([]string, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var domains []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		domains = append(domains, line)
	}
	return domains, scanner.Err()
}
