// Package lru caches fetched pages in memory with hashicorp/golang-lru.
package lru

import (
	"context"
	"time"

	"github.com/fwojciec/sitestat"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultSize is the number of pages kept when no size is configured.
const DefaultSize = 256

// DefaultTTL is how long a cached page stays valid.
const DefaultTTL = 15 * time.Minute

// Ensure Fetcher implements sitestat.Fetcher at compile time.
var _ sitestat.Fetcher = (*Fetcher)(nil)

// Fetcher serves repeated fetches of the same URL from memory. Failed
// fetches are never cached.
type Fetcher struct {
	next  sitestat.Fetcher
	cache *expirable.LRU[string, string]
}

// NewFetcher wraps next with a cache of size entries that expire after
// ttl. Non-positive values fall back to DefaultSize and DefaultTTL.
func NewFetcher(next sitestat.Fetcher, size int, ttl time.Duration) *Fetcher {
	if size <= 0 {
		size = DefaultSize
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Fetcher{
		next:  next,
		cache: expirable.NewLRU[string, string](size, nil, ttl),
	}
}

// Fetch returns the cached page for url or fetches and caches it.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if html, ok := f.cache.Get(url); ok {
		return html, nil
	}

	html, err := f.next.Fetch(ctx, url)
	if err != nil {
		return "", err
	}
	f.cache.Add(url, html)
	return html, nil
}

// Close drops the cache and closes the wrapped fetcher.
func (f *Fetcher) Close() error {
	f.cache.Purge()
	return f.next.Close()
}
