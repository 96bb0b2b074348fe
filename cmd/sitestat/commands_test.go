package main_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/sitestat"
	main "github.com/fwojciec/sitestat/cmd/sitestat"
	"github.com/fwojciec/sitestat/gojq"
	"github.com/fwojciec/sitestat/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDeps() (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &main.Dependencies{
		Ctx:      context.Background(),
		Stdout:   stdout,
		Stderr:   stderr,
		AlexaURL: "http://alexa.test",
		WhoisURL: "http://whois.test",
		AWISURL:  "http://awis.test",
	}, stdout, stderr
}

func TestSiteCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints, records and writes the record", func(t *testing.T) {
		t.Parallel()

		deps, stdout, stderr := newDeps()
		deps.SiteInfo = &mock.SiteInfoService{
			SiteInfoFn: func(_ context.Context, domain string) (sitestat.Record, error) {
				assert.Equal(t, "google.com", domain)
				return sitestat.Record{"rank": sitestat.Record{"global": "1"}}, nil
			},
		}
		var stored *sitestat.Lookup
		deps.Lookups = &mock.LookupService{
			CreateLookupFn: func(_ context.Context, l *sitestat.Lookup) error {
				stored = l
				return nil
			},
		}
		var written string
		deps.Writer = &mock.RecordWriter{
			WriteRecordFn: func(_ context.Context, name string, _ sitestat.Record) error {
				written = name
				return nil
			},
		}

		err := (&main.SiteCmd{Domain: "google.com"}).Run(deps)

		require.NoError(t, err)
		assert.Empty(t, stderr.String())
		assert.Equal(t, "{\n \"rank\": {\n  \"global\": \"1\"\n }\n}\n", stdout.String())
		require.NotNil(t, stored)
		assert.Equal(t, sitestat.KindSiteInfo, stored.Kind)
		assert.Equal(t, "google.com", stored.Key)
		assert.Equal(t, "http://alexa.test/siteinfo/google.com", stored.SourceURL)
		assert.Equal(t, "siteinfo/google.com", written)
	})

	t.Run("normalizes the domain before lookup and storage", func(t *testing.T) {
		t.Parallel()

		deps, _, _ := newDeps()
		deps.SiteInfo = &mock.SiteInfoService{
			SiteInfoFn: func(_ context.Context, domain string) (sitestat.Record, error) {
				assert.Equal(t, "google.com", domain)
				return sitestat.Record{"rank": sitestat.Record{"global": "1"}}, nil
			},
		}
		var stored *sitestat.Lookup
		deps.Lookups = &mock.LookupService{
			CreateLookupFn: func(_ context.Context, l *sitestat.Lookup) error {
				stored = l
				return nil
			},
		}
		var written string
		deps.Writer = &mock.RecordWriter{
			WriteRecordFn: func(_ context.Context, name string, _ sitestat.Record) error {
				written = name
				return nil
			},
		}

		err := (&main.SiteCmd{Domain: " Google.com. "}).Run(deps)

		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "google.com", stored.Key)
		assert.Equal(t, "http://alexa.test/siteinfo/google.com", stored.SourceURL)
		assert.Equal(t, "siteinfo/google.com", written)
	})

	t.Run("reports not found without recording", func(t *testing.T) {
		t.Parallel()

		deps, stdout, stderr := newDeps()
		deps.SiteInfo = &mock.SiteInfoService{
			SiteInfoFn: func(context.Context, string) (sitestat.Record, error) {
				return nil, sitestat.Errorf(sitestat.ENOTFOUND, "website %q not found in the database", "nope.test")
			},
		}
		deps.Lookups = &mock.LookupService{}

		err := (&main.SiteCmd{Domain: "nope.test"}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, sitestat.ENOTFOUND, sitestat.ErrorCode(err))
		assert.Contains(t, stderr.String(), `error: website "nope.test" not found in the database`)
		assert.Empty(t, stdout.String())
	})

	t.Run("reports storage failure", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps()
		deps.SiteInfo = &mock.SiteInfoService{
			SiteInfoFn: func(context.Context, string) (sitestat.Record, error) {
				return sitestat.Record{}, nil
			},
		}
		deps.Lookups = &mock.LookupService{
			CreateLookupFn: func(context.Context, *sitestat.Lookup) error {
				return errors.New("disk full")
			},
		}

		err := (&main.SiteCmd{Domain: "a.com"}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
		assert.Contains(t, stderr.String(), "error:")
	})

	t.Run("prints query results", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps()
		deps.SiteInfo = &mock.SiteInfoService{
			SiteInfoFn: func(context.Context, string) (sitestat.Record, error) {
				return sitestat.Record{"related sites": []string{"a.com", "b.com"}}, nil
			},
		}
		q, err := gojq.Compile(`.["related sites"][]`)
		require.NoError(t, err)
		deps.Query = q

		err = (&main.SiteCmd{Domain: "x.com"}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "\"a.com\"\n\"b.com\"\n", stdout.String())
	})
}

func TestTopsitesCmd_Run(t *testing.T) {
	t.Parallel()

	deps, stdout, _ := newDeps()
	deps.TopSites = &mock.TopSitesService{
		TopSitesByCategoryFn: func(_ context.Context, category string) (sitestat.Record, error) {
			return sitestat.Record{"category": category, "list": []sitestat.Record{}}, nil
		},
	}
	var stored *sitestat.Lookup
	deps.Lookups = &mock.LookupService{
		CreateLookupFn: func(_ context.Context, l *sitestat.Lookup) error {
			stored = l
			return nil
		},
	}

	err := (&main.TopsitesCmd{Category: "Arts"}).Run(deps)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), `"category": "Arts"`)
	assert.Contains(t, stdout.String(), `"list": []`)
	require.NotNil(t, stored)
	assert.Equal(t, sitestat.KindTopSites, stored.Kind)
	assert.Equal(t, "http://alexa.test/topsites/category/Top/Arts", stored.SourceURL)
}

func TestWhoisCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("records the registrable domain", func(t *testing.T) {
		t.Parallel()

		deps, _, _ := newDeps()
		deps.Registration = &mock.RegistrationService{
			RegistrationFn: func(_ context.Context, domain string) (sitestat.Record, error) {
				assert.Equal(t, "www.google.com", domain)
				return sitestat.Record{"DNSSEC": "unsigned"}, nil
			},
		}
		var stored *sitestat.Lookup
		deps.Lookups = &mock.LookupService{
			CreateLookupFn: func(_ context.Context, l *sitestat.Lookup) error {
				stored = l
				return nil
			},
		}

		err := (&main.WhoisCmd{Domain: "www.google.com"}).Run(deps)

		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, sitestat.KindRegistration, stored.Kind)
		assert.Equal(t, "google.com", stored.Key)
		assert.Equal(t, "http://whois.test/whois/google.com", stored.SourceURL)
	})

	t.Run("reports invalid domain", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps()
		deps.Registration = &mock.RegistrationService{
			RegistrationFn: func(context.Context, string) (sitestat.Record, error) {
				return nil, sitestat.Errorf(sitestat.EINVALID, "invalid domain %q", "com")
			},
		}

		err := (&main.WhoisCmd{Domain: "com"}).Run(deps)

		assert.Equal(t, sitestat.EINVALID, sitestat.ErrorCode(err))
		assert.Contains(t, stderr.String(), "invalid domain")
	})
}

func TestAwisCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("requires credentials", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps()

		err := (&main.AwisCmd{Domain: "a.com"}).Run(deps)

		assert.Equal(t, sitestat.EINVALID, sitestat.ErrorCode(err))
		assert.Contains(t, stderr.String(), "Hint:")
		assert.Contains(t, stderr.String(), "AWIS_ACCESS_KEY_ID")
	})

	t.Run("records the endpoint without credentials", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps()
		deps.URLInfo = &mock.URLInfoService{
			URLInfoFn: func(context.Context, string) (sitestat.Record, error) {
				return sitestat.Record{"rank": "7"}, nil
			},
		}
		var stored *sitestat.Lookup
		deps.Lookups = &mock.LookupService{
			CreateLookupFn: func(_ context.Context, l *sitestat.Lookup) error {
				stored = l
				return nil
			},
		}

		err := (&main.AwisCmd{Domain: "a.com"}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), `"rank": "7"`)
		require.NotNil(t, stored)
		assert.Equal(t, sitestat.KindURLInfo, stored.Kind)
		assert.Equal(t, "http://awis.test", stored.SourceURL)
	})
}

func TestParseCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("uses detected page kind", func(t *testing.T) {
		t.Parallel()

		file := writeFile(t, "arts.html", "<html>listing</html>")
		deps, stdout, _ := newDeps()
		deps.Detector = &mock.PageDetector{
			DetectFn: func(string) sitestat.PageKind { return sitestat.PageTopSites },
		}
		deps.TopSites = &mock.TopSitesService{
			TopSitesFromMarkupFn: func(category, markup string) (sitestat.Record, error) {
				assert.Equal(t, "Arts", category)
				assert.Equal(t, "<html>listing</html>", markup)
				return sitestat.Record{"category": category}, nil
			},
		}
		var written string
		deps.Writer = &mock.RecordWriter{
			WriteRecordFn: func(_ context.Context, name string, _ sitestat.Record) error {
				written = name
				return nil
			},
		}

		err := (&main.ParseCmd{File: file, Kind: "auto", Category: "Arts"}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), `"category": "Arts"`)
		assert.Equal(t, "topsites/arts", written)
	})

	t.Run("explicit kind skips detection", func(t *testing.T) {
		t.Parallel()

		file := writeFile(t, "g.html", "<html></html>")
		deps, _, _ := newDeps()
		deps.Detector = &mock.PageDetector{}
		deps.SiteInfo = &mock.SiteInfoService{
			SiteInfoFromMarkupFn: func(string) (sitestat.Record, error) {
				return sitestat.Record{}, nil
			},
		}

		err := (&main.ParseCmd{File: file, Kind: "siteinfo"}).Run(deps)

		require.NoError(t, err)
	})

	t.Run("reports unknown page kind", func(t *testing.T) {
		t.Parallel()

		file := writeFile(t, "x.html", "<html></html>")
		deps, _, stderr := newDeps()
		deps.Detector = &mock.PageDetector{
			DetectFn: func(string) sitestat.PageKind { return sitestat.PageUnknown },
		}

		err := (&main.ParseCmd{File: file, Kind: "auto"}).Run(deps)

		assert.Equal(t, sitestat.EINVALID, sitestat.ErrorCode(err))
		assert.Contains(t, stderr.String(), "cannot detect page kind")
	})

	t.Run("propagates not found from unranked page", func(t *testing.T) {
		t.Parallel()

		file := writeFile(t, "x.html", "<html></html>")
		deps, _, _ := newDeps()
		deps.SiteInfo = &mock.SiteInfoService{
			SiteInfoFromMarkupFn: func(string) (sitestat.Record, error) {
				return nil, sitestat.Errorf(sitestat.ENOTFOUND, "website not found in the database")
			},
		}

		err := (&main.ParseCmd{File: file, Kind: "siteinfo"}).Run(deps)

		assert.Equal(t, sitestat.ENOTFOUND, sitestat.ErrorCode(err))
	})
}

func TestBatchCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("looks up each unique domain once and prints in input order", func(t *testing.T) {
		t.Parallel()

		file := writeFile(t, "domains.txt", "# sites\nb.com\na.com\n\nB.com\nc.com\na.com\n")
		deps, stdout, stderr := newDeps()

		var mu sync.Mutex
		calls := map[string]int{}
		deps.SiteInfo = &mock.SiteInfoService{
			SiteInfoFn: func(_ context.Context, domain string) (sitestat.Record, error) {
				mu.Lock()
				calls[domain]++
				mu.Unlock()
				return sitestat.Record{"rank": sitestat.Record{"global": domain}}, nil
			},
		}

		err := (&main.BatchCmd{File: file, Kind: "siteinfo", Concurrency: 2}).Run(deps)

		require.NoError(t, err)
		assert.Empty(t, stderr.String())
		assert.Equal(t, map[string]int{"a.com": 1, "b.com": 1, "c.com": 1}, calls)
		assert.Equal(t,
			`{"domain":"b.com","record":{"rank":{"global":"b.com"}}}`+"\n"+
				`{"domain":"a.com","record":{"rank":{"global":"a.com"}}}`+"\n"+
				`{"domain":"c.com","record":{"rank":{"global":"c.com"}}}`+"\n",
			stdout.String())
	})

	t.Run("continues after failures and reports them", func(t *testing.T) {
		t.Parallel()

		file := writeFile(t, "domains.txt", "a.com\nbad.com\nc.com\n")
		deps, stdout, stderr := newDeps()
		deps.SiteInfo = &mock.SiteInfoService{
			SiteInfoFn: func(_ context.Context, domain string) (sitestat.Record, error) {
				if domain == "bad.com" {
					return nil, &sitestat.TransportError{URL: "http://alexa.test/siteinfo/bad.com", StatusCode: 500}
				}
				return sitestat.Record{}, nil
			},
		}

		err := (&main.BatchCmd{File: file, Kind: "siteinfo", Concurrency: 3}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 of 3 lookups failed")
		assert.Contains(t, stderr.String(), "error: bad.com: HTTP 500")
		assert.Equal(t, 2, strings.Count(stdout.String(), "\n"))
	})

	t.Run("records whois lookups under the registrable domain", func(t *testing.T) {
		t.Parallel()

		file := writeFile(t, "domains.txt", "mail.google.com\n")
		deps, _, _ := newDeps()
		deps.Registration = &mock.RegistrationService{
			RegistrationFn: func(context.Context, string) (sitestat.Record, error) {
				return sitestat.Record{}, nil
			},
		}
		var stored *sitestat.Lookup
		deps.Lookups = &mock.LookupService{
			CreateLookupFn: func(_ context.Context, l *sitestat.Lookup) error {
				stored = l
				return nil
			},
		}

		err := (&main.BatchCmd{File: file, Kind: "whois", Concurrency: 1}).Run(deps)

		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "google.com", stored.Key)
		assert.Equal(t, sitestat.KindRegistration, stored.Kind)
	})

	t.Run("awis requires credentials", func(t *testing.T) {
		t.Parallel()

		file := writeFile(t, "domains.txt", "a.com\n")
		deps, _, _ := newDeps()

		err := (&main.BatchCmd{File: file, Kind: "awis", Concurrency: 1}).Run(deps)

		assert.Equal(t, sitestat.EINVALID, sitestat.ErrorCode(err))
	})

	t.Run("applies query per record", func(t *testing.T) {
		t.Parallel()

		file := writeFile(t, "domains.txt", "a.com\n")
		deps, stdout, _ := newDeps()
		deps.SiteInfo = &mock.SiteInfoService{
			SiteInfoFn: func(context.Context, string) (sitestat.Record, error) {
				return sitestat.Record{"country": "Poland"}, nil
			},
		}
		q, err := gojq.Compile(".country")
		require.NoError(t, err)
		deps.Query = q

		err = (&main.BatchCmd{File: file, Kind: "siteinfo", Concurrency: 1}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, `{"domain":"a.com","record":["Poland"]}`+"\n", stdout.String())
	})
}

func TestHistoryCmds_Run(t *testing.T) {
	t.Parallel()

	lookup := &sitestat.Lookup{
		ID:          "lookup-1",
		Kind:        sitestat.KindSiteInfo,
		Key:         "google.com",
		Record:      sitestat.Record{"country": "United States"},
		ContentHash: "0123456789abcdef",
		FetchedAt:   time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}

	t.Run("requires a database", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps()

		err := (&main.HistoryListCmd{}).Run(deps)

		assert.Equal(t, sitestat.EINVALID, sitestat.ErrorCode(err))
		assert.Contains(t, stderr.String(), "--db")
	})

	t.Run("lists lookups with filter", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps()
		deps.Lookups = &mock.LookupService{
			FindLookupsFn: func(_ context.Context, filter sitestat.LookupFilter) ([]*sitestat.Lookup, error) {
				require.NotNil(t, filter.Kind)
				require.NotNil(t, filter.Key)
				assert.Equal(t, sitestat.KindSiteInfo, *filter.Kind)
				assert.Equal(t, "google.com", *filter.Key)
				assert.Equal(t, 5, filter.Limit)
				return []*sitestat.Lookup{lookup}, nil
			},
		}

		err := (&main.HistoryListCmd{Key: "google.com", Kind: "siteinfo", Limit: 5}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "lookup-1")
		assert.Contains(t, stdout.String(), "0123456789abcdef")
		assert.Contains(t, stdout.String(), "google.com")
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		t.Parallel()

		deps, _, _ := newDeps()
		deps.Lookups = &mock.LookupService{}

		err := (&main.HistoryListCmd{Kind: "dns"}).Run(deps)

		assert.Equal(t, sitestat.EINVALID, sitestat.ErrorCode(err))
	})

	t.Run("shows the record", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps()
		deps.Lookups = &mock.LookupService{
			FindLookupByIDFn: func(_ context.Context, id string) (*sitestat.Lookup, error) {
				assert.Equal(t, "lookup-1", id)
				return lookup, nil
			},
		}

		err := (&main.HistoryShowCmd{ID: "lookup-1"}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "{\n \"country\": \"United States\"\n}\n", stdout.String())
	})

	t.Run("reports missing lookup on delete", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps()
		deps.Lookups = &mock.LookupService{
			DeleteLookupFn: func(context.Context, string) error {
				return sitestat.Errorf(sitestat.ENOTFOUND, "lookup not found")
			},
		}

		err := (&main.HistoryDeleteCmd{ID: "missing"}).Run(deps)

		assert.Equal(t, sitestat.ENOTFOUND, sitestat.ErrorCode(err))
		assert.Contains(t, stderr.String(), "lookup not found")
	})
}
