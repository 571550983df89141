package extractor

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"golang.org/x/net/html"
)

func parsePage(t *testing.T, raw string) *page {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("parse test page: %v", err)
	}
	base, _ := url.Parse("https://example.com/event")
	return newPage(doc, base)
}

func TestParseDateLayouts(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
		ok   bool
	}{
		{"2026-02-10T09:00:00Z", time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC), true},
		{"2026-02-10T09:00:00", time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC), true},
		{"2026-02-10T09:00", time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC), true},
		{"2026-02-10", time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), true},
		{"February 10, 2026", time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), true},
		{"Feb 10, 2026", time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), true},
		{"  2026-02-10  ", time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), true},
		{"next tuesday", time.Time{}, false},
		{"", time.Time{}, false},
	}

	for _, tt := range tests {
		got, ok := parseDate(tt.raw)
		if ok != tt.ok {
			t.Errorf("parseDate(%q) ok = %v, want %v", tt.raw, ok, tt.ok)
			continue
		}
		if ok && !got.Equal(tt.want) {
			t.Errorf("parseDate(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestParseLDEventArray(t *testing.T) {
	raw := `[
		{"@type": "Organization", "name": "Acme Accounting"},
		{"@type": "Event", "name": "IRS Representation Bootcamp"}
	]`
	ev := parseLDEvent(raw)
	if ev == nil {
		t.Fatal("array with an Event block should parse")
	}
	if ev.Name != "IRS Representation Bootcamp" {
		t.Errorf("name = %q", ev.Name)
	}
}

func TestParseLDEventIgnoresNonEvents(t *testing.T) {
	if ev := parseLDEvent(`{"@type": "Organization", "name": "Acme"}`); ev != nil {
		t.Errorf("non-Event block parsed as %+v", ev)
	}
	if ev := parseLDEvent(`{{{`); ev != nil {
		t.Errorf("malformed JSON parsed as %+v", ev)
	}
}

func TestTitleStrategyPriority(t *testing.T) {
	// JSON-LD beats OpenGraph beats h1 beats <title>.
	pg := parsePage(t, `<html><head>
		<title>Tag Title</title>
		<meta property="og:title" content="OG Title">
		<script type="application/ld+json">{"@type":"Event","name":"LD Title"}</script>
	</head><body><h1>H1 Title</h1></body></html>`)

	got := firstString(pg, titleStrategies)
	if got == nil || *got != "LD Title" {
		t.Errorf("title = %v, want LD Title", got)
	}

	pg = parsePage(t, `<html><head><title>Tag Title</title><meta property="og:title" content="OG Title"></head><body><h1>H1 Title</h1></body></html>`)
	if got := firstString(pg, titleStrategies); got == nil || *got != "OG Title" {
		t.Errorf("title = %v, want OG Title", got)
	}

	pg = parsePage(t, `<html><head><title>Tag Title</title></head><body><h1>H1 Title</h1></body></html>`)
	if got := firstString(pg, titleStrategies); got == nil || *got != "H1 Title" {
		t.Errorf("title = %v, want H1 Title", got)
	}

	pg = parsePage(t, `<html><head><title>Tag Title</title></head><body></body></html>`)
	if got := firstString(pg, titleStrategies); got == nil || *got != "Tag Title" {
		t.Errorf("title = %v, want Tag Title", got)
	}
}

func TestCityStateFromVisibleText(t *testing.T) {
	pg := parsePage(t, `<html><body><p>Join us at the convention center in Des Moines, IA on March 3.</p></body></html>`)

	city := firstString(pg, cityStrategies)
	if city == nil || *city != "Des Moines" {
		t.Errorf("city = %v, want Des Moines", city)
	}
	state := firstString(pg, stateStrategies)
	if state == nil || *state != "IA" {
		t.Errorf("state = %v, want IA", state)
	}
}

func TestTimeElementDates(t *testing.T) {
	pg := parsePage(t, `<html><body>
		<time datetime="2026-06-01T10:00">starts</time>
		<time datetime="2026-06-02T16:00">ends</time>
	</body></html>`)

	start := firstTime(pg, startDateStrategies)
	if start == nil || !start.Equal(time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", start)
	}
	end := firstTime(pg, endDateStrategies)
	if end == nil || !end.Equal(time.Date(2026, 6, 2, 16, 0, 0, 0, time.UTC)) {
		t.Errorf("end = %v", end)
	}

	// A single time element never doubles as the end date.
	pg = parsePage(t, `<html><body><time datetime="2026-06-01T10:00">starts</time></body></html>`)
	if end := firstTime(pg, endDateStrategies); end != nil {
		t.Errorf("end = %v, want nil with one time element", end)
	}
}

func TestExtractTagsLowercasesAndDedupes(t *testing.T) {
	pg := parsePage(t, `<html><head><meta name="keywords" content="Tax, CRYPTO, tax, , 1031 Exchange"></head><body></body></html>`)

	tags := extractTags(pg)
	want := []string{"tax", "crypto", "1031 exchange"}
	if len(tags) != len(want) {
		t.Fatalf("tags = %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("tags[%d] = %q, want %q", i, tags[i], want[i])
		}
	}
}

func TestRegistrationFallsBackToCanonical(t *testing.T) {
	pg := parsePage(t, `<html><head><link rel="canonical" href="https://example.com/events/annual"></head><body></body></html>`)

	reg := firstString(pg, registrationStrategies)
	if reg == nil || *reg != "https://example.com/events/annual" {
		t.Errorf("registration = %v", reg)
	}
}

func TestFirstParagraphNeedsMeaningfulLength(t *testing.T) {
	pg := parsePage(t, `<html><body><p>Short.</p><p>This paragraph is comfortably long enough to serve as a description.</p></body></html>`)

	desc := firstString(pg, descriptionStrategies)
	if desc == nil || !strings.HasPrefix(*desc, "This paragraph") {
		t.Errorf("description = %v", desc)
	}
}
