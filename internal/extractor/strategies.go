package extractor

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// ldEvent is the subset of a schema.org/Event JSON-LD block the extractor
// reads. Pages embed these in <script type="application/ld+json">.
type ldEvent struct {
	Type        string `json:"@type"`
	Name        string `json:"name"`
	Description string `json:"description"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	URL         string `json:"url"`
	Keywords    string `json:"keywords"`
	Location    struct {
		Name    string `json:"name"`
		Address struct {
			AddressLocality string `json:"addressLocality"`
			AddressRegion   string `json:"addressRegion"`
		} `json:"address"`
	} `json:"location"`
	Organizer struct {
		Name string `json:"name"`
	} `json:"organizer"`
}

// page is a pre-digested HTML document: structured metadata is pulled out once
// so each strategy stays a pure lookup.
type page struct {
	base      *url.URL
	meta      map[string]string // meta name/property -> content, lowercased keys
	canonical string
	ld        *ldEvent // first schema.org Event block, if any
	title     string   // <title> text
	h1        string   // first <h1> text
	times     []string // <time datetime="..."> values in document order
	firstPara string   // first paragraph of meaningful length
	bodyText  string
}

func newPage(doc *html.Node, base *url.URL) *page {
	pg := &page{base: base, meta: map[string]string{}}

	var text strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script":
				if attrVal(n, "type") == "application/ld+json" && n.FirstChild != nil && pg.ld == nil {
					pg.ld = parseLDEvent(n.FirstChild.Data)
				}
				return
			case "style":
				return
			case "meta":
				key := strings.ToLower(attrVal(n, "property"))
				if key == "" {
					key = strings.ToLower(attrVal(n, "name"))
				}
				if key != "" {
					if _, seen := pg.meta[key]; !seen {
						pg.meta[key] = attrVal(n, "content")
					}
				}
			case "link":
				if strings.ToLower(attrVal(n, "rel")) == "canonical" && pg.canonical == "" {
					pg.canonical = attrVal(n, "href")
				}
			case "title":
				if pg.title == "" && n.FirstChild != nil {
					pg.title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "h1":
				if pg.h1 == "" {
					pg.h1 = nodeText(n)
				}
			case "time":
				if dt := attrVal(n, "datetime"); dt != "" {
					pg.times = append(pg.times, dt)
				}
			case "p":
				if pg.firstPara == "" {
					if t := nodeText(n); len(t) >= 40 {
						pg.firstPara = t
					}
				}
			}
		}
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
			text.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	pg.bodyText = text.String()

	return pg
}

// parseLDEvent accepts either a single JSON-LD object or an array of them and
// returns the first block typed as an Event.
func parseLDEvent(raw string) *ldEvent {
	raw = strings.TrimSpace(raw)

	var single ldEvent
	if err := json.Unmarshal([]byte(raw), &single); err == nil {
		if strings.EqualFold(single.Type, "Event") {
			return &single
		}
		return nil
	}

	var many []ldEvent
	if err := json.Unmarshal([]byte(raw), &many); err == nil {
		for i := range many {
			if strings.EqualFold(many[i].Type, "Event") {
				return &many[i]
			}
		}
	}
	return nil
}

func attrVal(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(parts, " ")
}

// Each field is resolved by a named strategy chain tried in priority order:
// structured metadata first, then OpenGraph-style tags, then visible markup.

type stringStrategy struct {
	name string
	fn   func(*page) (string, bool)
}

type timeStrategy struct {
	name string
	fn   func(*page) (time.Time, bool)
}

func ldString(get func(*ldEvent) string) func(*page) (string, bool) {
	return func(pg *page) (string, bool) {
		if pg.ld == nil {
			return "", false
		}
		return nonEmpty(get(pg.ld))
	}
}

func metaString(keys ...string) func(*page) (string, bool) {
	return func(pg *page) (string, bool) {
		for _, k := range keys {
			if v, ok := nonEmpty(pg.meta[k]); ok {
				return v, ok
			}
		}
		return "", false
	}
}

func nonEmpty(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}

var titleStrategies = []stringStrategy{
	{"jsonld-name", ldString(func(e *ldEvent) string { return e.Name })},
	{"og-title", metaString("og:title", "twitter:title")},
	{"h1", func(pg *page) (string, bool) { return nonEmpty(pg.h1) }},
	{"title-tag", func(pg *page) (string, bool) { return nonEmpty(pg.title) }},
}

var descriptionStrategies = []stringStrategy{
	{"jsonld-description", ldString(func(e *ldEvent) string { return e.Description })},
	{"og-description", metaString("og:description", "description")},
	{"first-paragraph", func(pg *page) (string, bool) { return nonEmpty(pg.firstPara) }},
}

var startDateStrategies = []timeStrategy{
	{"jsonld-start", func(pg *page) (time.Time, bool) {
		if pg.ld == nil {
			return time.Time{}, false
		}
		return parseDate(pg.ld.StartDate)
	}},
	{"og-event-start", func(pg *page) (time.Time, bool) {
		return parseDate(pg.meta["event:start_time"])
	}},
	{"time-element", func(pg *page) (time.Time, bool) {
		if len(pg.times) == 0 {
			return time.Time{}, false
		}
		return parseDate(pg.times[0])
	}},
}

var endDateStrategies = []timeStrategy{
	{"jsonld-end", func(pg *page) (time.Time, bool) {
		if pg.ld == nil {
			return time.Time{}, false
		}
		return parseDate(pg.ld.EndDate)
	}},
	{"og-event-end", func(pg *page) (time.Time, bool) {
		return parseDate(pg.meta["event:end_time"])
	}},
	{"time-element", func(pg *page) (time.Time, bool) {
		if len(pg.times) < 2 {
			return time.Time{}, false
		}
		return parseDate(pg.times[1])
	}},
}

// cityStateRe matches a "City, ST" pattern in visible text.
var cityStateRe = regexp.MustCompile(`\b([A-Z][A-Za-z .'-]+),\s*([A-Z]{2})\b`)

var cityStrategies = []stringStrategy{
	{"jsonld-locality", ldString(func(e *ldEvent) string { return e.Location.Address.AddressLocality })},
	{"og-locality", metaString("og:locality", "place:locality")},
	{"text-pattern", func(pg *page) (string, bool) {
		if m := cityStateRe.FindStringSubmatch(pg.bodyText); m != nil {
			return strings.TrimSpace(m[1]), true
		}
		return "", false
	}},
}

var stateStrategies = []stringStrategy{
	{"jsonld-region", ldString(func(e *ldEvent) string { return e.Location.Address.AddressRegion })},
	{"og-region", metaString("og:region", "place:region")},
	{"text-pattern", func(pg *page) (string, bool) {
		if m := cityStateRe.FindStringSubmatch(pg.bodyText); m != nil {
			return m[2], true
		}
		return "", false
	}},
}

var organizerStrategies = []stringStrategy{
	{"jsonld-organizer", ldString(func(e *ldEvent) string { return e.Organizer.Name })},
	{"og-site-name", metaString("og:site_name", "author")},
}

var registrationStrategies = []stringStrategy{
	{"jsonld-url", ldString(func(e *ldEvent) string { return e.URL })},
	{"og-url", metaString("og:url")},
	{"canonical-link", func(pg *page) (string, bool) { return nonEmpty(pg.canonical) }},
}

func extractTags(pg *page) []string {
	raw := ""
	if pg.ld != nil && pg.ld.Keywords != "" {
		raw = pg.ld.Keywords
	} else {
		raw = pg.meta["keywords"]
	}
	if raw == "" {
		return nil
	}

	seen := map[string]bool{}
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" && !seen[t] {
			seen[t] = true
			tags = append(tags, t)
		}
	}
	return tags
}

// dateLayouts are tried in order; pages are inconsistent about precision.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
}

func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
