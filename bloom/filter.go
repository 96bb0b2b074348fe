// Package bloom provides domain deduplication for batch runs using Bloom filters.
package bloom

import (
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// DefaultFalsePositiveRate is used by Dedupe.
const DefaultFalsePositiveRate = 0.001

// Filter wraps a Bloom filter keyed by normalized domain names.
// It is safe for concurrent use.
type Filter struct {
	mu sync.Mutex
	f  *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected domains
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	if n == 0 {
		n = 1
	}
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Normalize lower-cases a domain and strips surrounding space and a
// trailing root dot.
func Normalize(domain string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(domain)), ".")
}

// Add adds a domain to the filter.
func (f *Filter) Add(domain string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.f.AddString(Normalize(domain))
}

// Test returns true if the domain might be in the filter.
// False positives are possible; false negatives are not.
func (f *Filter) Test(domain string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.f.TestString(Normalize(domain))
}

// Seen reports whether the domain was probably added before and adds it.
func (f *Filter) Seen(domain string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.f.TestOrAddString(Normalize(domain))
}

// EstimatedCount returns the approximate number of domains in the filter.
func (f *Filter) EstimatedCount() uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	return uint(f.f.ApproximatedSize())
}

// Dedupe returns the normalized domains in input order with blanks and
// repeats removed. A filter hit is confirmed against the exact set of
// kept domains, so a false positive never drops a distinct domain.
func Dedupe(domains []string) []string {
	f := NewFilter(uint(len(domains)), DefaultFalsePositiveRate)
	kept := make(map[string]struct{}, len(domains))
	out := make([]string, 0, len(domains))
	for _, d := range domains {
		d = Normalize(d)
		if d == "" {
			continue
		}
		if f.Seen(d) {
			if _, ok := kept[d]; ok {
				continue
			}
		}
		kept[d] = struct{}{}
		out = append(out, d)
	}
	return out
}
