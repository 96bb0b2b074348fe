package alexa

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/fwojciec/sitestat"
)

// Site-info record fields.
const (
	fieldRank           = "rank"
	fieldCountry        = "country"
	fieldVisitorCountry = "visitor by country"
	fieldEngagement     = "user engagement"
	fieldKeywords       = "keywords"
	fieldUpstreams      = "upstreams"
	fieldLinksIn        = "total sites linking in"
	fieldRelated        = "related sites"
	fieldCategory       = "category"
	fieldSubdomains     = "subdomains"
	fieldLoadSpeed      = "loadspeed"
	fieldGender         = "visitor gender"
	fieldEducation      = "visitor education"
	fieldLocation       = "visitor location"
)

// Positional limits of the site-info page layout.
const (
	categoryHrefPrefixLen = len("/topsites/category/")

	maxUpstreamIndex  = 5
	maxRelatedSites   = 10
	maxSubdomainIndex = 9
)

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// newSiteInfoChain returns the first phase of the site-info pipeline.
func newSiteInfoChain(rec sitestat.Record) sitestat.Handler {
	return &summaryPhase{rec: rec}
}

// summaryPhase waits for the summary block that holds the rank panel.
type summaryPhase struct {
	sitestat.NopHandler
	rec sitestat.Record
}

func (p *summaryPhase) StartTag(name string, attrs []sitestat.Attr) sitestat.Transition {
	if name == "div" && sitestat.AttrAt(attrs, 0, "class", "row-fluid summary") {
		return sitestat.Handoff(&rankSectionPhase{rec: p.rec})
	}
	return sitestat.Stay
}

// rankSectionPhase waits for the first rank label.
type rankSectionPhase struct {
	sitestat.NopHandler
	rec sitestat.Record
}

func (p *rankSectionPhase) StartTag(name string, attrs []sitestat.Attr) sitestat.Transition {
	if name == "span" && sitestat.AttrAt(attrs, 0, "class", "bottom") {
		return sitestat.Handoff(&globalRankPhase{rec: p.rec})
	}
	return sitestat.Stay
}

// globalRankPhase reads the global rank from the first strong tag and the
// country name that follows the "Rank in " label.
type globalRankPhase struct {
	sitestat.NopHandler
	rec           sitestat.Record
	armed         bool
	final         bool
	nextIsCountry bool
}

func (p *globalRankPhase) StartTag(name string, attrs []sitestat.Attr) sitestat.Transition {
	if name == "strong" && !p.final {
		p.armed = true
	} else if name == "span" && sitestat.AttrAt(attrs, 0, "class", "bottom") {
		return sitestat.Handoff(&localRankPhase{rec: p.rec})
	}
	return sitestat.Stay
}

func (p *globalRankPhase) Text(data string) sitestat.Transition {
	if isBlank(data) {
		return sitestat.Stay
	}
	switch {
	case p.armed:
		p.rec.NewChild(fieldRank)["global"] = strings.TrimSpace(data)
		p.armed = false
		p.final = true
	case data == "Rank in ":
		p.nextIsCountry = true
	case p.nextIsCountry:
		p.rec[fieldCountry] = strings.TrimSpace(data)
		p.nextIsCountry = false
	}
	return sitestat.Stay
}

// localRankPhase reads the in-country rank and leaves when its strong tag
// closes.
type localRankPhase struct {
	sitestat.NopHandler
	rec   sitestat.Record
	armed bool
	final bool
}

func (p *localRankPhase) StartTag(name string, _ []sitestat.Attr) sitestat.Transition {
	if name == "strong" && !p.final {
		p.armed = true
	}
	return sitestat.Stay
}

func (p *localRankPhase) Text(data string) sitestat.Transition {
	if isBlank(data) {
		return sitestat.Stay
	}
	if p.armed {
		p.rec.Child(fieldRank)["local"] = strings.TrimSpace(data)
		p.armed = false
		p.final = true
	}
	return sitestat.Stay
}

func (p *localRankPhase) EndTag(name string) sitestat.Transition {
	if name == "strong" {
		return sitestat.Handoff(&countryTablePhase{rec: p.rec})
	}
	return sitestat.Stay
}

// countryTablePhase waits for the body of the visitors-by-country table.
type countryTablePhase struct {
	sitestat.NopHandler
	rec   sitestat.Record
	armed bool
}

func (p *countryTablePhase) StartTag(name string, attrs []sitestat.Attr) sitestat.Transition {
	if name == "table" && sitestat.AttrAt(attrs, 2, "id", "demographics_div_country_table") {
		p.armed = true
	} else if p.armed && name == "tbody" {
		return sitestat.Handoff(newCountryRowsPhase(p.rec))
	}
	return sitestat.Stay
}

// countryRowsPhase reads (country, percentage, rank) triples from the flat
// run of non-blank text in the table body.
type countryRowsPhase struct {
	sitestat.NopHandler
	rec   sitestat.Record
	index int
	row   sitestat.Record
}

func newCountryRowsPhase(rec sitestat.Record) *countryRowsPhase {
	rec[fieldVisitorCountry] = []sitestat.Record{}
	return &countryRowsPhase{rec: rec, index: -1, row: sitestat.Record{}}
}

func (p *countryRowsPhase) Text(data string) sitestat.Transition {
	if isBlank(data) {
		return sitestat.Stay
	}
	p.index++
	switch p.index % 3 {
	case 0:
		// The cell starts with a flag glyph and a space.
		p.row["country"] = dropRunes(data, 2)
	case 1:
		p.row["percentage"] = data
	case 2:
		p.row["rank in country"] = data
		p.rec.AppendRecord(fieldVisitorCountry, p.row)
		p.row = sitestat.Record{}
	}
	return sitestat.Stay
}

func (p *countryRowsPhase) EndTag(name string) sitestat.Transition {
	if name == "tbody" {
		return sitestat.Handoff(&engagementSectionPhase{rec: p.rec})
	}
	return sitestat.Stay
}

// engagementSectionPhase waits for the engagement panel.
type engagementSectionPhase struct {
	sitestat.NopHandler
	rec sitestat.Record
}

func (p *engagementSectionPhase) StartTag(name string, attrs []sitestat.Attr) sitestat.Transition {
	if name == "section" && sitestat.AttrAt(attrs, 0, "id", "engagement-content") {
		return sitestat.Handoff(newEngagementPhase(p.rec))
	}
	return sitestat.Stay
}

// engagementPhase maps the first three strong tags to bounce rate,
// pageviews and time on site.
type engagementPhase struct {
	sitestat.NopHandler
	engagement sitestat.Record
	rec        sitestat.Record
	index      int
	armed      bool
}

func newEngagementPhase(rec sitestat.Record) *engagementPhase {
	return &engagementPhase{rec: rec, engagement: rec.NewChild(fieldEngagement)}
}

func (p *engagementPhase) StartTag(name string, _ []sitestat.Attr) sitestat.Transition {
	if name == "strong" {
		p.index++
		p.armed = true
	}
	return sitestat.Stay
}

func (p *engagementPhase) Text(data string) sitestat.Transition {
	if !p.armed {
		return sitestat.Stay
	}
	switch p.index {
	case 1:
		p.engagement["bounce rate"] = strings.TrimSpace(data)
	case 2:
		p.engagement["daily pageviews per visitor"] = strings.TrimSpace(data)
	default:
		p.engagement["daily time on site"] = strings.TrimSpace(data)
	}
	return sitestat.Stay
}

func (p *engagementPhase) EndTag(string) sitestat.Transition {
	p.armed = false
	if p.index == 3 {
		return sitestat.Handoff(&keywordTablePhase{rec: p.rec})
	}
	return sitestat.Stay
}

// keywordTablePhase waits for the body of the top keywords table.
type keywordTablePhase struct {
	sitestat.NopHandler
	rec   sitestat.Record
	armed bool
}

func (p *keywordTablePhase) StartTag(name string, attrs []sitestat.Attr) sitestat.Transition {
	if name == "table" && sitestat.AttrAt(attrs, 2, "id", "keywords_top_keywords_table") {
		p.armed = true
	} else if p.armed && name == "tbody" {
		return sitestat.Handoff(newKeywordRowsPhase(p.rec))
	}
	return sitestat.Stay
}

// keywordRowsPhase takes the keyword from the second attribute of a
// two-attribute td and its share from the following unclassed span.
type keywordRowsPhase struct {
	sitestat.NopHandler
	rec      sitestat.Record
	keywords sitestat.Record
	key      string
	hasKey   bool
	armed    bool
}

func newKeywordRowsPhase(rec sitestat.Record) *keywordRowsPhase {
	return &keywordRowsPhase{rec: rec, keywords: rec.NewChild(fieldKeywords)}
}

func (p *keywordRowsPhase) StartTag(name string, attrs []sitestat.Attr) sitestat.Transition {
	switch {
	case name == "td" && len(attrs) == 2:
		p.key = attrs[1].Val
		p.hasKey = true
	case name == "span" && len(attrs) == 1 && sitestat.AttrAt(attrs, 0, "class", ""):
		p.armed = true
	case name == "tbody":
		return sitestat.Handoff(newUpstreamRowsPhase(p.rec))
	}
	return sitestat.Stay
}

func (p *keywordRowsPhase) Text(data string) sitestat.Transition {
	if p.armed {
		if p.hasKey {
			p.keywords[p.key] = strings.TrimSpace(data)
		}
		p.armed = false
	}
	return sitestat.Stay
}

// upstreamRowsPhase reads upstream site/share pairs. The links-in panel is
// only looked for once the upstream cap has been reached.
type upstreamRowsPhase struct {
	sitestat.NopHandler
	rec       sitestat.Record
	upstreams sitestat.Record
	index     int
	key       string
	keyArmed  bool
	valArmed  bool
}

func newUpstreamRowsPhase(rec sitestat.Record) *upstreamRowsPhase {
	return &upstreamRowsPhase{rec: rec, upstreams: rec.NewChild(fieldUpstreams), index: -1}
}

func (p *upstreamRowsPhase) StartTag(name string, attrs []sitestat.Attr) sitestat.Transition {
	if p.index < maxUpstreamIndex {
		if name == "a" {
			p.keyArmed = true
		} else if name == "span" && len(attrs) == 1 && sitestat.AttrAt(attrs, 0, "class", "") {
			p.valArmed = true
		}
	} else if name == "section" && sitestat.AttrAt(attrs, 0, "id", "linksin-panel-content") {
		return sitestat.Handoff(&linksInPhase{rec: p.rec})
	}
	return sitestat.Stay
}

func (p *upstreamRowsPhase) Text(data string) sitestat.Transition {
	if isBlank(data) {
		return sitestat.Stay
	}
	if p.keyArmed {
		p.index++
		p.key = data
		p.keyArmed = false
	} else if p.valArmed {
		p.upstreams[p.key] = strings.TrimSpace(data)
		p.valArmed = false
	}
	return sitestat.Stay
}

// linksInPhase reads the total number of sites linking in.
type linksInPhase struct {
	sitestat.NopHandler
	rec   sitestat.Record
	armed bool
}

func (p *linksInPhase) StartTag(name string, attrs []sitestat.Attr) sitestat.Transition {
	if name == "span" && sitestat.AttrAt(attrs, 0, "class", "font-4 box1-r") {
		p.armed = true
	} else if name == "section" && sitestat.AttrAt(attrs, 0, "id", "related-content") {
		return sitestat.Handoff(&relatedSectionPhase{rec: p.rec})
	}
	return sitestat.Stay
}

func (p *linksInPhase) Text(data string) sitestat.Transition {
	if p.armed {
		p.rec[fieldLinksIn] = data
		p.armed = false
	}
	return sitestat.Stay
}

// relatedSectionPhase waits for the related sites table body.
type relatedSectionPhase struct {
	sitestat.NopHandler
	rec sitestat.Record
}

func (p *relatedSectionPhase) StartTag(name string, _ []sitestat.Attr) sitestat.Transition {
	if name == "tbody" {
		return sitestat.Handoff(newRelatedRowsPhase(p.rec))
	}
	return sitestat.Stay
}

// relatedRowsPhase collects the link text of up to ten related sites.
type relatedRowsPhase struct {
	sitestat.NopHandler
	rec   sitestat.Record
	index int
	armed bool
}

func newRelatedRowsPhase(rec sitestat.Record) *relatedRowsPhase {
	rec[fieldRelated] = []string{}
	return &relatedRowsPhase{rec: rec}
}

func (p *relatedRowsPhase) StartTag(name string, _ []sitestat.Attr) sitestat.Transition {
	if p.index < maxRelatedSites && name == "a" {
		p.armed = true
	}
	if name == "tbody" {
		return sitestat.Handoff(&categoryPhase{rec: p.rec})
	}
	return sitestat.Stay
}

func (p *relatedRowsPhase) Text(data string) sitestat.Transition {
	if p.armed {
		p.rec.AppendString(fieldRelated, strings.TrimSpace(data))
		p.index++
		p.armed = false
	}
	return sitestat.Stay
}

// categoryPhase keeps the href of the last link in the category table and
// records the category path when the table body closes.
type categoryPhase struct {
	sitestat.NopHandler
	rec  sitestat.Record
	href string
	stop bool
}

func (p *categoryPhase) StartTag(name string, attrs []sitestat.Attr) sitestat.Transition {
	if !p.stop && name == "a" {
		if len(attrs) > 0 {
			p.href = attrs[0].Val
		}
	} else if name == "tbody" {
		return sitestat.Handoff(newSubdomainPhase(p.rec))
	}
	return sitestat.Stay
}

func (p *categoryPhase) EndTag(name string) sitestat.Transition {
	if name == "tbody" && !p.stop {
		p.stop = true
		p.rec[fieldCategory] = unquote(dropRunes(p.href, categoryHrefPrefixLen))
	}
	return sitestat.Stay
}

// subdomainPhase pairs the flat run of text after a span into
// subdomain/share entries: even positions are keys, odd positions values.
type subdomainPhase struct {
	sitestat.NopHandler
	rec        sitestat.Record
	subdomains sitestat.Record
	index      int
	key        string
	armed      bool
}

func newSubdomainPhase(rec sitestat.Record) *subdomainPhase {
	return &subdomainPhase{rec: rec, subdomains: rec.NewChild(fieldSubdomains), index: -1}
}

func (p *subdomainPhase) StartTag(name string, attrs []sitestat.Attr) sitestat.Transition {
	if p.index < maxSubdomainIndex && name == "span" {
		p.armed = true
	}
	if name == "section" && sitestat.AttrAt(attrs, 0, "id", "loadspeed-panel-content") {
		return sitestat.Handoff(&loadSpeedPhase{rec: p.rec, armed: true})
	}
	return sitestat.Stay
}

func (p *subdomainPhase) Text(data string) sitestat.Transition {
	if isBlank(data) || !p.armed {
		return sitestat.Stay
	}
	p.index++
	if p.index%2 == 0 {
		p.key = strings.TrimSpace(data)
	} else {
		p.subdomains[p.key] = strings.TrimSpace(data)
		p.armed = false
	}
	return sitestat.Stay
}

// loadSpeedPhase takes the first non-blank text of the load speed panel.
type loadSpeedPhase struct {
	sitestat.NopHandler
	rec   sitestat.Record
	armed bool
}

func (p *loadSpeedPhase) StartTag(name string, attrs []sitestat.Attr) sitestat.Transition {
	if name == "div" && sitestat.AttrAt(attrs, 0, "class", "row-fluid col-pad pybar demo-gender") {
		return sitestat.Handoff(newDemographicsPhase(p.rec))
	}
	return sitestat.Stay
}

func (p *loadSpeedPhase) Text(data string) sitestat.Transition {
	if isBlank(data) {
		return sitestat.Stay
	}
	if p.armed {
		p.rec[fieldLoadSpeed] = strings.TrimSpace(data)
		p.armed = false
	}
	return sitestat.Stay
}

// demographicsPhase accumulates the bar widths that follow each audience
// label. A bucket is written when the next label arrives, so every label
// closes the previous bucket.
type demographicsPhase struct {
	sitestat.NopHandler
	gender    sitestat.Record
	education sitestat.Record
	location  sitestat.Record
	started   bool
	width     int
}

func newDemographicsPhase(rec sitestat.Record) *demographicsPhase {
	return &demographicsPhase{
		gender:    rec.NewChild(fieldGender),
		education: rec.NewChild(fieldEducation),
		location:  rec.NewChild(fieldLocation),
	}
}

func (p *demographicsPhase) StartTag(name string, attrs []sitestat.Attr) sitestat.Transition {
	if p.started && name == "span" && len(attrs) == 1 && attrs[0].Key == "style" {
		p.width += styleWidth(attrs[0].Val)
	}
	return sitestat.Stay
}

func (p *demographicsPhase) Text(data string) sitestat.Transition {
	switch data {
	case "Male":
		p.started = true
	case "Female":
		p.gender["male"] = p.share()
	case "No College":
		p.gender["female"] = p.share()
	case "Some College":
		p.education["no college"] = p.share()
	case "Graduate School":
		p.education["some college"] = p.share()
	case "College":
		p.education["graduate"] = p.share()
	case "Home":
		p.education["college"] = p.share()
	case "School":
		p.location["home"] = p.share()
	case "Work":
		p.location["school"] = p.share()
	case "Login with Facebook":
		p.location["work"] = p.share()
	default:
		return sitestat.Stay
	}
	p.width = 0
	return sitestat.Stay
}

// share formats the accumulated width of a bucket. Each bucket is drawn
// as two bars on a 0-100 scale, hence the 200 divisor.
func (p *demographicsPhase) share() string {
	s := strconv.FormatFloat(float64(p.width)/200.0, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// styleWidth parses the percentage of an inline style such as "width: 40%".
// Unparseable styles count as zero.
func styleWidth(style string) int {
	_, rest, ok := strings.Cut(style, ":")
	if !ok {
		return 0
	}
	num, _, _ := strings.Cut(rest, "%")
	n, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil {
		return 0
	}
	return n
}

// dropRunes removes the first n characters of s.
func dropRunes(s string, n int) string {
	for i := range s {
		if n == 0 {
			return s[i:]
		}
		n--
	}
	return ""
}

func unquote(s string) string {
	u, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return u
}
