package awis

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/sitestat"
)

// urlInfoFields maps response elements to record fields. Elements are
// matched regardless of their namespace prefix.
var urlInfoFields = []struct {
	path  string
	field string
}{
	{"//TrafficData/DataUrl", "data url"},
	{"//TrafficData/Rank", "rank"},
	{"//ContentData/LinksInCount", "links in"},
	{"//ContentData/SiteData/Title", "title"},
	{"//ContentData/SiteData/Description", "description"},
	{"//ContentData/SiteData/OnlineSince", "online since"},
	{"//ContentData/Speed/MedianLoadTime", "median load time"},
	{"//ContentData/Speed/Percentile", "speed percentile"},
}

// ParseURLInfo extracts a UrlInfo response body.
//
// Error responses are reported as EINVALID. A response without a traffic
// rank is reported as ENOTFOUND.
func ParseURLInfo(body string) (sitestat.Record, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(body); err != nil {
		return nil, fmt.Errorf("parsing url info response: %w", err)
	}

	if e := doc.FindElement("//Errors/Error"); e != nil {
		return nil, sitestat.Errorf(sitestat.EINVALID, "awis: %s: %s", childText(e, "Code"), childText(e, "Message"))
	}
	if status := doc.FindElement("//ResponseStatus/StatusCode"); status != nil {
		if code := strings.TrimSpace(status.Text()); code != "Success" {
			return nil, sitestat.Errorf(sitestat.EINVALID, "awis: status %s", code)
		}
	}

	rec := sitestat.Record{}
	for _, f := range urlInfoFields {
		if el := doc.FindElement(f.path); el != nil {
			rec[f.field] = strings.TrimSpace(el.Text())
		}
	}

	related := []string{}
	for _, link := range doc.FindElements("//RelatedLinks/RelatedLink") {
		if u := childText(link, "DataUrl"); u != "" {
			related = append(related, u)
		}
	}
	rec["related links"] = related

	if rank, _ := rec.String("rank"); rank == "" {
		return nil, sitestat.Errorf(sitestat.ENOTFOUND, "website not found in the database")
	}
	return rec, nil
}

func childText(e *etree.Element, tag string) string {
	c := e.SelectElement(tag)
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.Text())
}
