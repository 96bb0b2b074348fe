package mock

import "github.com/fwojciec/sitestat"

var _ sitestat.Tokenizer = (*Tokenizer)(nil)

// Tokenizer is a mock implementation of sitestat.Tokenizer.
type Tokenizer struct {
	TokenizeFn func(markup string, emit func(sitestat.Event) bool) error
}

func (t *Tokenizer) Tokenize(markup string, emit func(sitestat.Event) bool) error {
	return t.TokenizeFn(markup, emit)
}
