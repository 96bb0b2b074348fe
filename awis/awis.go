// Package awis queries the Alexa Web Information Service, the signed XML
// API behind the public ranking pages.
package awis

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/sitestat"
)

// DefaultEndpoint is the service endpoint requests are signed for.
const DefaultEndpoint = "http://awis.amazonaws.com"

// DefaultResponseGroup selects the related, traffic and content data.
const DefaultResponseGroup = "Related,TrafficData,ContentData"

const (
	signatureVersion = "2"
	signatureMethod  = "HmacSHA256"
	timestampLayout  = "2006-01-02T15:04:05.000Z"
)

// Credentials identify the account a request is signed for.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
}

// signatureEscaper percent-escapes the base64 characters that are not
// safe in a query value. The slash stays literal.
var signatureEscaper = strings.NewReplacer("+", "%2B", "=", "%3D")

// SignedURL returns the signed UrlInfo request URL of domain against
// DefaultEndpoint.
func SignedURL(domain string, creds Credentials, now time.Time) string {
	return signedURL(DefaultEndpoint, domain, creds, now)
}

func signedURL(endpoint, domain string, creds Credentials, now time.Time) string {
	params := url.Values{
		"Action":           {"UrlInfo"},
		"Url":              {domain},
		"ResponseGroup":    {DefaultResponseGroup},
		"SignatureVersion": {signatureVersion},
		"SignatureMethod":  {signatureMethod},
		"Timestamp":        {now.UTC().Format(timestampLayout)},
		"AWSAccessKeyId":   {creds.AccessKeyID},
	}
	// Encode sorts by key, which is the canonical order the signature
	// is computed over.
	query := params.Encode()

	endpoint = strings.TrimSuffix(endpoint, "/")
	host := endpoint
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		host = u.Host
	}

	msg := strings.Join([]string{"GET", host, "/", query}, "\n")
	mac := hmac.New(sha256.New, []byte(creds.SecretAccessKey))
	mac.Write([]byte(msg))
	sig := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return endpoint + "/?" + query + "&Signature=" + signatureEscaper.Replace(sig)
}

// Ensure URLInfoService implements sitestat.URLInfoService at compile time.
var _ sitestat.URLInfoService = (*URLInfoService)(nil)

// URLInfoService fetches and extracts UrlInfo responses.
type URLInfoService struct {
	Fetcher     sitestat.Fetcher
	Credentials Credentials
	Endpoint    string

	// Now returns the request timestamp. Defaults to time.Now.
	Now func() time.Time
}

// NewURLInfoService creates a URLInfoService against DefaultEndpoint.
func NewURLInfoService(fetcher sitestat.Fetcher, creds Credentials) *URLInfoService {
	return &URLInfoService{
		Fetcher:     fetcher,
		Credentials: creds,
		Endpoint:    DefaultEndpoint,
		Now:         time.Now,
	}
}

// URLInfo returns traffic, content and related data of domain.
func (s *URLInfoService) URLInfo(ctx context.Context, domain string) (sitestat.Record, error) {
	if domain == "" {
		return nil, sitestat.Errorf(sitestat.EINVALID, "domain required")
	}
	if s.Credentials.AccessKeyID == "" || s.Credentials.SecretAccessKey == "" {
		return nil, sitestat.Errorf(sitestat.EINVALID, "access key id and secret access key required")
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	body, err := s.Fetcher.Fetch(ctx, signedURL(s.Endpoint, domain, s.Credentials, now()))
	if err != nil {
		return nil, fmt.Errorf("fetching url info for %s: %w", domain, err)
	}

	rec, err := ParseURLInfo(body)
	if err != nil {
		if sitestat.ErrorCode(err) == sitestat.ENOTFOUND {
			return nil, sitestat.Errorf(sitestat.ENOTFOUND, "website %q not found in the database", domain)
		}
		return nil, err
	}
	return rec, nil
}
