package alexa

import (
	"strings"

	"github.com/fwojciec/sitestat"
)

// Top-sites record fields.
const (
	fieldTopCategory = "category"
	fieldList        = "list"
)

// noSitesSentinel is rendered instead of a listing when a category page has
// no entries.
const noSitesSentinel = "No sites for this category."

// listingRootPhase waits for the first listing item of a category page.
type listingRootPhase struct {
	sitestat.NopHandler
	rec sitestat.Record
}

func newListingRootPhase(rec sitestat.Record) *listingRootPhase {
	return &listingRootPhase{rec: rec}
}

func isSiteListing(name string, attrs []sitestat.Attr) bool {
	return name == "li" && len(attrs) == 1 && sitestat.AttrAt(attrs, 0, "class", "site-listing")
}

func (p *listingRootPhase) StartTag(name string, attrs []sitestat.Attr) sitestat.Transition {
	if isSiteListing(name, attrs) {
		if _, ok := p.rec[fieldList]; !ok {
			p.rec[fieldList] = []sitestat.Record{}
		}
		return sitestat.Handoff(newListingPhase(p.rec))
	}
	return sitestat.Stay
}

func (p *listingRootPhase) Text(data string) sitestat.Transition {
	if strings.TrimSpace(data) == noSitesSentinel {
		return sitestat.Finish()
	}
	return sitestat.Stay
}

// Listing slots, in page order.
const (
	slotRank = iota
	slotAddress
	slotDescription
	slotRemainder
)

// listingPhase reads one listing item. Each slot landmark arms the next
// text run; a new listing item hands off to a fresh phase.
type listingPhase struct {
	sitestat.NopHandler
	rec      sitestat.Record
	entry    sitestat.Record
	slot     int
	armed    bool
	appended bool
}

func newListingPhase(rec sitestat.Record) *listingPhase {
	return &listingPhase{rec: rec, entry: sitestat.Record{}, slot: -1}
}

func (p *listingPhase) advance() {
	p.slot++
	p.armed = true
}

func (p *listingPhase) StartTag(name string, attrs []sitestat.Attr) sitestat.Transition {
	switch {
	case name == "div" && len(attrs) == 1 && sitestat.AttrAt(attrs, 0, "class", "count"):
		p.advance()
	case name == "a" && len(attrs) == 1:
		p.advance()
	case name == "div" && len(attrs) == 1 && sitestat.AttrAt(attrs, 0, "class", "description"):
		p.advance()
	case name == "div" && len(attrs) == 1 && sitestat.AttrAt(attrs, 0, "class", "remainder"):
		p.advance()
	case isSiteListing(name, attrs):
		return sitestat.Handoff(newListingPhase(p.rec))
	}
	return sitestat.Stay
}

func (p *listingPhase) Text(data string) sitestat.Transition {
	if !p.armed {
		return sitestat.Stay
	}
	p.armed = false
	v := strings.TrimSpace(data)
	switch p.slot {
	case slotRank:
		p.entry["rank"] = v
	case slotAddress:
		p.entry["address"] = v
	case slotDescription:
		p.entry["description"] = v
	case slotRemainder:
		desc, _ := p.entry["description"].(string)
		p.entry["description"] = desc + v
	}
	return sitestat.Stay
}

func (p *listingPhase) EndTag(name string) sitestat.Transition {
	if name == "li" && !p.appended {
		p.rec.AppendRecord(fieldList, p.entry)
		p.appended = true
	}
	return sitestat.Stay
}
