package main

import (
	"encoding/json"
	"fmt"
	"path"

	"github.com/fwojciec/sitestat"
	"github.com/fwojciec/sitestat/fs"
)

// fail reports err on stderr and returns it.
func fail(deps *Dependencies, err error) error {
	fmt.Fprintf(deps.Stderr, "error: %s\n", sitestat.ErrorMessage(err))
	return err
}

// emit records rec in the lookup history and the output directory when
// they are configured, then prints it.
func emit(deps *Dependencies, kind sitestat.LookupKind, key, sourceURL string, rec sitestat.Record) error {
	if err := store(deps, kind, key, sourceURL, rec); err != nil {
		return err
	}
	return printRecord(deps, rec)
}

func store(deps *Dependencies, kind sitestat.LookupKind, key, sourceURL string, rec sitestat.Record) error {
	if deps.Lookups != nil {
		lookup := &sitestat.Lookup{Kind: kind, Key: key, SourceURL: sourceURL, Record: rec}
		if err := deps.Lookups.CreateLookup(deps.Ctx, lookup); err != nil {
			return fmt.Errorf("recording lookup: %w", err)
		}
	}
	if deps.Writer != nil {
		if err := deps.Writer.WriteRecord(deps.Ctx, path.Join(string(kind), key), rec); err != nil {
			return fmt.Errorf("writing record: %w", err)
		}
	}
	return nil
}

// printRecord writes rec as indented JSON, or the results of the --query
// expression one per line.
func printRecord(deps *Dependencies, rec sitestat.Record) error {
	if deps.Query == nil {
		data, err := fs.FormatRecord(rec)
		if err != nil {
			return err
		}
		_, err = deps.Stdout.Write(data)
		return err
	}

	values, err := deps.Query.Run(rec)
	if err != nil {
		return err
	}
	for _, v := range values {
		data, err := json.MarshalIndent(v, "", " ")
		if err != nil {
			return err
		}
		fmt.Fprintf(deps.Stdout, "%s\n", data)
	}
	return nil
}
