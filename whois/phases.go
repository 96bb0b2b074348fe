package whois

import (
	"strings"

	"github.com/fwojciec/sitestat"
)

// Registration record fields.
const (
	FieldRegistry    = "Registry"
	FieldRegistrant  = "Registrant"
	FieldAdmin       = "Admin"
	FieldTech        = "Tech"
	FieldRegistrar   = "Registrar"
	FieldDomain      = "Domain"
	FieldNameServer  = "Name Server"
	FieldStatus      = "Domain Status"
	FieldDNSSEC      = "DNSSEC"
	registrarNameKey = "Name"
)

// contactPrefixes route prefixed keys of the registrar block into their
// own mapping with the prefix stripped.
var contactPrefixes = []struct {
	prefix string
	field  string
}{
	{"Registrant ", FieldRegistrant},
	{"Admin ", FieldAdmin},
	{"Tech ", FieldTech},
	{"Registrar ", FieldRegistrar},
}

var (
	registryLandmark  = []sitestat.Attr{{Key: "class", Val: "whois_result"}, {Key: "id", Val: "registryData"}}
	registrarLandmark = []sitestat.Attr{{Key: "class", Val: "whois_result"}, {Key: "id", Val: "registrarData"}}
)

func newRegistrationRecord() sitestat.Record {
	return sitestat.Record{
		FieldRegistry:   sitestat.Record{},
		FieldRegistrant: sitestat.Record{},
		FieldAdmin:      sitestat.Record{},
		FieldTech:       sitestat.Record{},
		FieldRegistrar:  sitestat.Record{},
		FieldDomain:     sitestat.Record{},
		FieldNameServer: []string{},
		FieldStatus:     []string{},
	}
}

// splitField splits a "key: value" text run on its first colon.
func splitField(data string) (key, value string, ok bool) {
	k, v, ok := strings.Cut(data, ":")
	if !ok {
		return "", "", false
	}
	return strings.TrimSpace(k), strings.TrimSpace(v), true
}

// seekPhase waits for a result block that has not been read yet.
type seekPhase struct {
	sitestat.NopHandler
	rec           sitestat.Record
	registryDone  bool
	registrarDone bool
}

func newSeekPhase(rec sitestat.Record) *seekPhase {
	return &seekPhase{rec: rec}
}

func (p *seekPhase) StartTag(name string, attrs []sitestat.Attr) sitestat.Transition {
	if name != "div" {
		return sitestat.Stay
	}
	if !p.registryDone && sitestat.AttrsEqual(attrs, registryLandmark...) {
		return sitestat.Handoff(&registryPhase{rec: p.rec, registry: p.rec.Child(FieldRegistry), registrarDone: p.registrarDone})
	}
	if !p.registrarDone && sitestat.AttrsEqual(attrs, registrarLandmark...) {
		return sitestat.Handoff(&registrarPhase{rec: p.rec, registryDone: p.registryDone})
	}
	return sitestat.Stay
}

// after returns the phase that follows a finished block.
func after(rec sitestat.Record, registryDone, registrarDone bool) sitestat.Transition {
	if registryDone && registrarDone {
		return sitestat.Handoff(sitestat.NopHandler{})
	}
	return sitestat.Handoff(&seekPhase{rec: rec, registryDone: registryDone, registrarDone: registrarDone})
}

// registryPhase copies every field of the registry block into Registry.
type registryPhase struct {
	sitestat.NopHandler
	rec           sitestat.Record
	registry      sitestat.Record
	registrarDone bool
}

func (p *registryPhase) Text(data string) sitestat.Transition {
	if k, v, ok := splitField(data); ok {
		p.registry[k] = v
	}
	return sitestat.Stay
}

func (p *registryPhase) EndTag(string) sitestat.Transition {
	return after(p.rec, true, p.registrarDone)
}

// registrarPhase routes the fields of the registrar block by key.
type registrarPhase struct {
	sitestat.NopHandler
	rec          sitestat.Record
	registryDone bool
}

func (p *registrarPhase) Text(data string) sitestat.Transition {
	k, v, ok := splitField(data)
	if !ok {
		return sitestat.Stay
	}

	switch {
	case k == FieldDNSSEC:
		p.rec[FieldDNSSEC] = v
		return after(p.rec, p.registryDone, true)
	case k == FieldNameServer:
		p.rec.AppendString(FieldNameServer, v)
		return sitestat.Stay
	case k == FieldStatus:
		p.rec.AppendString(FieldStatus, v)
		return sitestat.Stay
	case k == FieldRegistrar:
		p.rec.Child(FieldRegistrar)[registrarNameKey] = v
		return sitestat.Stay
	case strings.HasPrefix(k, "Registry "):
		registry := p.rec.Child(FieldRegistry)
		if _, exists := registry[k]; !exists {
			registry[k] = v
		}
		return sitestat.Stay
	}

	for _, c := range contactPrefixes {
		if strings.HasPrefix(k, c.prefix) {
			p.rec.Child(c.field)[k[len(c.prefix):]] = v
			return sitestat.Stay
		}
	}

	p.rec.Child(FieldDomain)[k] = v
	return sitestat.Stay
}

func (p *registrarPhase) EndTag(string) sitestat.Transition {
	return after(p.rec, p.registryDone, true)
}
