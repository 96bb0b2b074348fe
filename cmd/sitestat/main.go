package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/sitestat"
	"github.com/fwojciec/sitestat/alexa"
	"github.com/fwojciec/sitestat/awis"
	"github.com/fwojciec/sitestat/fs"
	"github.com/fwojciec/sitestat/gojq"
	"github.com/fwojciec/sitestat/goquery"
	"github.com/fwojciec/sitestat/html"
	sitehttp "github.com/fwojciec/sitestat/http"
	"github.com/fwojciec/sitestat/lru"
	"github.com/fwojciec/sitestat/rate"
	"github.com/fwojciec/sitestat/rod"
	siteslog "github.com/fwojciec/sitestat/slog"
	"github.com/fwojciec/sitestat/sqlite"
	"github.com/fwojciec/sitestat/whois"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database recording lookups. Nil unless --db is set.
	DB *sqlite.DB

	// Fetcher shared by all fetching services. Nil for offline commands.
	Fetcher sitestat.Fetcher

	closeLog func() error
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var errs []error
	if m.Fetcher != nil {
		errs = append(errs, m.Fetcher.Close())
	}
	if m.DB != nil {
		errs = append(errs, m.DB.Close())
	}
	if m.closeLog != nil {
		errs = append(errs, m.closeLog())
	}
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("sitestat"),
		kong.Description("Extract site rankings, category listings and whois data into JSON records."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
		kong.Vars{
			"alexa_url": alexa.DefaultBaseURL,
			"whois_url": whois.DefaultBaseURL,
			"awis_url":  awis.DefaultEndpoint,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'sitestat --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	defer m.Close()

	logCfg := siteslog.DefaultConfig()
	logCfg.Level = cli.LogLevel
	logCfg.FilePath = cli.LogFile
	logger, closeLog, err := siteslog.NewLogger(logCfg, stderr)
	if err != nil {
		return fmt.Errorf("failed to open log file %q: %w", cli.LogFile, err)
	}
	m.closeLog = closeLog
	deps.Logger = logger
	deps.AlexaURL = cli.AlexaURL
	deps.WhoisURL = cli.WhoisURL
	deps.AWISURL = cli.AWISURL

	if cli.Query != "" {
		deps.Query, err = gojq.Compile(cli.Query)
		if err != nil {
			fmt.Fprintf(stderr, "error: %s\n", sitestat.ErrorMessage(err))
			return err
		}
	}

	if cli.Out != "" {
		deps.Writer = fs.NewWriter(cli.Out)
	}

	if cli.DB != "" {
		m.DB = sqlite.NewDB(cli.DB)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set SITESTAT_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", cli.DB, err)
		}
		deps.Lookups = sqlite.NewLookupService(m.DB)
	}

	tokenizer := html.NewTokenizer()
	deps.Detector = siteslog.NewLoggingDetector(goquery.NewDetector(), logger)

	// Offline commands extract from markup only and never fetch.
	var fetcher sitestat.Fetcher
	switch cmd {
	case "site", "topsites", "whois", "awis", "batch":
		fetcher, err = m.newFetcher(cli, logger)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed to use --browser")
			return fmt.Errorf("failed to start browser: %w", err)
		}
	}

	siteInfo := alexa.NewSiteInfoService(fetcher, tokenizer)
	siteInfo.BaseURL = cli.AlexaURL
	deps.SiteInfo = siteslog.NewLoggingSiteInfoService(siteInfo, logger)

	topSites := alexa.NewTopSitesService(fetcher, tokenizer)
	topSites.BaseURL = cli.AlexaURL
	deps.TopSites = siteslog.NewLoggingTopSitesService(topSites, logger)

	registration := whois.NewRegistrationService(fetcher, tokenizer)
	registration.BaseURL = cli.WhoisURL
	deps.Registration = siteslog.NewLoggingRegistrationService(registration, logger)

	var creds awis.Credentials
	switch {
	case cmd == "awis":
		creds = awis.Credentials{AccessKeyID: cli.Awis.AccessKeyID, SecretAccessKey: cli.Awis.SecretAccessKey}
	case cmd == "batch" && cli.Batch.Kind == "awis":
		creds = awis.Credentials{AccessKeyID: cli.Batch.AccessKeyID, SecretAccessKey: cli.Batch.SecretAccessKey}
	}
	if creds.AccessKeyID != "" || creds.SecretAccessKey != "" {
		urlInfo := awis.NewURLInfoService(fetcher, creds)
		urlInfo.Endpoint = cli.AWISURL
		deps.URLInfo = siteslog.NewLoggingURLInfoService(urlInfo, logger)
	}

	return kongCtx.Run(deps)
}

// newFetcher builds the fetch stack: transport, logging, then an in-memory
// cache so that repeated URLs within one run are fetched once.
func (m *Main) newFetcher(cli *CLI, logger *slog.Logger) (sitestat.Fetcher, error) {
	limiter := rate.NewDomainLimiter(cli.RPS)

	var transport sitestat.Fetcher
	if cli.Browser {
		f, err := rod.NewFetcher(rod.WithFetchTimeout(cli.Timeout), rod.WithLimiter(limiter))
		if err != nil {
			return nil, err
		}
		transport = f
	} else {
		transport = sitehttp.NewFetcher(sitehttp.WithTimeout(cli.Timeout), sitehttp.WithLimiter(limiter))
	}

	m.Fetcher = lru.NewFetcher(siteslog.NewLoggingFetcher(transport, logger), lru.DefaultSize, lru.DefaultTTL)
	return m.Fetcher, nil
}
