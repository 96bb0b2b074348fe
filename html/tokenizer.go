// Package html provides a streaming implementation of sitestat.Tokenizer
// built on the golang.org/x/net/html tokenizer.
package html

import (
	"errors"
	"io"
	"strings"

	"github.com/fwojciec/sitestat"
	"golang.org/x/net/html"
)

// Ensure Tokenizer implements sitestat.Tokenizer at compile time.
var _ sitestat.Tokenizer = (*Tokenizer)(nil)

// Tokenizer turns markup into start-tag, text and end-tag events.
//
// Tag and attribute names are lower-cased, entities in text and attribute
// values are decoded, and self-closing tags produce a start-tag event
// followed by an end-tag event. Comments and doctypes are dropped.
type Tokenizer struct{}

// NewTokenizer creates a new Tokenizer.
func NewTokenizer() *Tokenizer {
	return &Tokenizer{}
}

// Tokenize emits the events of markup in document order.
func (t *Tokenizer) Tokenize(markup string, emit func(sitestat.Event) bool) error {
	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return err
			}
			return nil
		case html.StartTagToken:
			tok := z.Token()
			if !emit(startTag(tok)) {
				return nil
			}
		case html.SelfClosingTagToken:
			tok := z.Token()
			if !emit(startTag(tok)) {
				return nil
			}
			if !emit(sitestat.Event{Type: sitestat.EndTagEvent, Name: tok.Data}) {
				return nil
			}
		case html.EndTagToken:
			tok := z.Token()
			if !emit(sitestat.Event{Type: sitestat.EndTagEvent, Name: tok.Data}) {
				return nil
			}
		case html.TextToken:
			tok := z.Token()
			if !emit(sitestat.Event{Type: sitestat.TextEvent, Data: tok.Data}) {
				return nil
			}
		}
	}
}

func startTag(tok html.Token) sitestat.Event {
	var attrs []sitestat.Attr
	if len(tok.Attr) > 0 {
		attrs = make([]sitestat.Attr, 0, len(tok.Attr))
		for _, a := range tok.Attr {
			attrs = append(attrs, sitestat.Attr{Key: a.Key, Val: a.Val})
		}
	}
	return sitestat.Event{Type: sitestat.StartTagEvent, Name: tok.Data, Attrs: attrs}
}
