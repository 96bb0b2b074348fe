package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/sitestat"
	"github.com/fwojciec/sitestat/gojq"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	SiteInfo     sitestat.SiteInfoService
	TopSites     sitestat.TopSitesService
	Registration sitestat.RegistrationService
	URLInfo      sitestat.URLInfoService
	Detector     sitestat.PageDetector

	// Optional sinks. Nil disables them.
	Lookups sitestat.LookupService
	Writer  sitestat.RecordWriter
	Query   *gojq.Query

	AlexaURL string
	WhoisURL string
	AWISURL  string
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Timeout  time.Duration `default:"30s" help:"Per-page fetch timeout"`
	Browser  bool          `help:"Fetch pages with a headless browser"`
	RPS      float64       `name:"rps" default:"1" help:"Requests per second per host (0 disables throttling)"`
	Out      string        `short:"o" type:"path" help:"Directory to write JSON records to"`
	Query    string        `short:"q" help:"jq expression applied to each record before printing"`
	DB       string        `type:"path" env:"SITESTAT_DB" help:"SQLite database recording lookup history"`
	LogLevel string        `default:"warn" env:"SITESTAT_LOG_LEVEL" enum:"debug,info,warn,error" help:"Log level (debug, info, warn, error)"`
	LogFile  string        `type:"path" env:"SITESTAT_LOG_FILE" help:"Write logs to a rotated file instead of stderr"`

	AlexaURL string `hidden:"" default:"${alexa_url}" help:"Base URL of the ranking site"`
	WhoisURL string `hidden:"" default:"${whois_url}" help:"Base URL of the whois site"`
	AWISURL  string `name:"awis-url" hidden:"" default:"${awis_url}" help:"Endpoint of the traffic API"`

	Site     SiteCmd     `cmd:"" help:"Extract ranking, traffic and audience data for a domain"`
	Parse    ParseCmd    `cmd:"" help:"Extract a saved page from disk"`
	Topsites TopsitesCmd `cmd:"" help:"List the top sites of a directory category"`
	Whois    WhoisCmd    `cmd:"" help:"Look up domain registration data"`
	Awis     AwisCmd     `cmd:"" help:"Query the signed traffic API for a domain"`
	Batch    BatchCmd    `cmd:"" help:"Look up every domain listed in a file"`
	History  HistoryCmd  `cmd:"" help:"Inspect recorded lookups"`
}

// SiteCmd is the "site" subcommand.
type SiteCmd struct {
	Domain string `arg:"" help:"Domain name, e.g. google.com"`
}

// ParseCmd is the "parse" subcommand.
type ParseCmd struct {
	File     string `arg:"" type:"existingfile" help:"Saved HTML page"`
	Kind     string `short:"k" default:"auto" enum:"auto,siteinfo,topsites,whois" help:"Page kind (auto, siteinfo, topsites, whois)"`
	Category string `short:"c" help:"Category name recorded for listing pages"`
}

// TopsitesCmd is the "topsites" subcommand.
type TopsitesCmd struct {
	Category string `arg:"" help:"Directory category below Top/, e.g. Arts"`
}

// WhoisCmd is the "whois" subcommand.
type WhoisCmd struct {
	Domain string `arg:"" help:"Domain name; subdomains are reduced to the registrable domain"`
}

// AwisCmd is the "awis" subcommand.
type AwisCmd struct {
	Domain          string `arg:"" help:"Domain name"`
	AccessKeyID     string `env:"AWIS_ACCESS_KEY_ID" help:"API access key ID"`
	SecretAccessKey string `env:"AWIS_SECRET_ACCESS_KEY" help:"API secret access key"`
}

// BatchCmd is the "batch" subcommand.
type BatchCmd struct {
	File        string `arg:"" type:"existingfile" help:"File with one domain per line; blank lines and # comments are skipped"`
	Kind        string `short:"k" default:"siteinfo" enum:"siteinfo,whois,awis" help:"Lookup to run per domain (siteinfo, whois, awis)"`
	Concurrency int    `short:"c" default:"4" help:"Concurrent lookups"`

	AccessKeyID     string `env:"AWIS_ACCESS_KEY_ID" help:"API access key ID (awis kind)"`
	SecretAccessKey string `env:"AWIS_SECRET_ACCESS_KEY" help:"API secret access key (awis kind)"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	List   HistoryListCmd   `cmd:"" default:"withargs" help:"List recorded lookups, newest first"`
	Show   HistoryShowCmd   `cmd:"" help:"Print the record of a lookup"`
	Delete HistoryDeleteCmd `cmd:"" help:"Delete a recorded lookup"`
}

// HistoryListCmd is the "history list" subcommand.
type HistoryListCmd struct {
	Key    string `arg:"" optional:"" help:"Domain or category to filter by"`
	Kind   string `short:"k" help:"Lookup kind to filter by (siteinfo, topsites, whois, awis)"`
	Limit  int    `short:"n" default:"20" help:"Maximum number of lookups"`
	Offset int    `help:"Number of lookups to skip"`
}

// HistoryShowCmd is the "history show" subcommand.
type HistoryShowCmd struct {
	ID string `arg:"" help:"Lookup ID"`
}

// HistoryDeleteCmd is the "history delete" subcommand.
type HistoryDeleteCmd struct {
	ID string `arg:"" help:"Lookup ID"`
}
