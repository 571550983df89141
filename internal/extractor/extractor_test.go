package extractor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// countingTransport fails any request through it and counts attempts, so tests
// can assert that invalid input never reaches the network.
type countingTransport struct {
	calls int
}

func (ct *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ct.calls++
	return nil, errors.New("unexpected network call")
}

func TestExtractInvalidURLFailsBeforeNetwork(t *testing.T) {
	ct := &countingTransport{}
	ex := New(&http.Client{Transport: ct})

	for _, raw := range []string{"not a url", "ftp://example.com/cal", "/relative/path", ""} {
		draft, err := ex.Extract(context.Background(), raw)
		if draft != nil {
			t.Errorf("Extract(%q) returned a draft for invalid input", raw)
		}
		if KindOf(err) != KindInvalidURL {
			t.Errorf("Extract(%q) error kind = %q, want invalid_url", raw, KindOf(err))
		}
	}

	if ct.calls != 0 {
		t.Errorf("invalid URLs triggered %d network calls, want 0", ct.calls)
	}
}

const jsonLDPage = `<!DOCTYPE html>
<html>
<head>
<title>Fallback Title</title>
<script type="application/ld+json">
{
  "@type": "Event",
  "name": "State Tax Update 2026",
  "description": "A full-day CPE session on state tax changes.",
  "startDate": "2026-02-10T09:00:00Z",
  "endDate": "2026-02-10T17:00:00Z",
  "url": "https://tickets.example.com/state-tax-update",
  "keywords": "SALT, cpe, Salt",
  "location": {"address": {"addressLocality": "Austin", "addressRegion": "TX"}},
  "organizer": {"name": "Texas Society of CPAs"}
}
</script>
</head>
<body><h1>Some Other Heading</h1></body>
</html>`

func TestExtractPrefersJSONLD(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, jsonLDPage)
	}))
	defer srv.Close()

	ex := New(srv.Client())
	draft, err := ex.Extract(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}

	if draft.CandidateURL != srv.URL {
		t.Errorf("candidate URL = %q, want %q", draft.CandidateURL, srv.URL)
	}
	if draft.Title == nil || *draft.Title != "State Tax Update 2026" {
		t.Errorf("title = %v, want JSON-LD name", draft.Title)
	}
	if draft.Description == nil || *draft.Description != "A full-day CPE session on state tax changes." {
		t.Errorf("description = %v", draft.Description)
	}

	wantStart := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	if draft.StartDate == nil || !draft.StartDate.Equal(wantStart) {
		t.Errorf("start date = %v, want %v", draft.StartDate, wantStart)
	}
	wantEnd := time.Date(2026, 2, 10, 17, 0, 0, 0, time.UTC)
	if draft.EndDate == nil || !draft.EndDate.Equal(wantEnd) {
		t.Errorf("end date = %v, want %v", draft.EndDate, wantEnd)
	}

	if draft.LocationCity == nil || *draft.LocationCity != "Austin" {
		t.Errorf("city = %v, want Austin", draft.LocationCity)
	}
	if draft.LocationState == nil || *draft.LocationState != "TX" {
		t.Errorf("state = %v, want TX", draft.LocationState)
	}
	if draft.Organizer == nil || *draft.Organizer != "Texas Society of CPAs" {
		t.Errorf("organizer = %v", draft.Organizer)
	}
	if draft.RegistrationURL == nil || *draft.RegistrationURL != "https://tickets.example.com/state-tax-update" {
		t.Errorf("registration URL = %v", draft.RegistrationURL)
	}

	wantTags := []string{"salt", "cpe"}
	if len(draft.Tags) != len(wantTags) {
		t.Fatalf("tags = %v, want %v", draft.Tags, wantTags)
	}
	for i, tag := range wantTags {
		if draft.Tags[i] != tag {
			t.Errorf("tags[%d] = %q, want %q", i, draft.Tags[i], tag)
		}
	}
}

const openGraphPage = `<!DOCTYPE html>
<html>
<head>
<title>Plain Title</title>
<meta property="og:title" content="Quarterly Estimated Taxes Webinar" />
<meta property="og:description" content="How to plan quarterly payments." />
<meta property="event:start_time" content="2026-04-01T12:00:00Z" />
<meta property="og:url" content="https://webinars.example.com/q2" />
<meta property="og:site_name" content="TaxPro Webinars" />
<meta property="og:locality" content="Denver" />
<meta property="og:region" content="CO" />
</head>
<body></body>
</html>`

func TestExtractFallsBackToOpenGraph(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, openGraphPage)
	}))
	defer srv.Close()

	ex := New(srv.Client())
	draft, err := ex.Extract(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}

	if draft.Title == nil || *draft.Title != "Quarterly Estimated Taxes Webinar" {
		t.Errorf("title = %v, want og:title", draft.Title)
	}
	if draft.Description == nil || *draft.Description != "How to plan quarterly payments." {
		t.Errorf("description = %v", draft.Description)
	}
	if draft.StartDate == nil || !draft.StartDate.Equal(time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("start date = %v", draft.StartDate)
	}
	if draft.RegistrationURL == nil || *draft.RegistrationURL != "https://webinars.example.com/q2" {
		t.Errorf("registration URL = %v", draft.RegistrationURL)
	}
	if draft.Organizer == nil || *draft.Organizer != "TaxPro Webinars" {
		t.Errorf("organizer = %v", draft.Organizer)
	}
	if draft.LocationCity == nil || *draft.LocationCity != "Denver" {
		t.Errorf("city = %v", draft.LocationCity)
	}
	if draft.LocationState == nil || *draft.LocationState != "CO" {
		t.Errorf("state = %v", draft.LocationState)
	}
}

func TestExtractDegradesPerField(t *testing.T) {
	// Only a heading; every other chain misses and its field stays nil.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head></head><body><h1>Year-End Planning Mixer</h1></body></html>`)
	}))
	defer srv.Close()

	ex := New(srv.Client())
	draft, err := ex.Extract(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("a sparse page is still a draft: %v", err)
	}

	if draft.Title == nil || *draft.Title != "Year-End Planning Mixer" {
		t.Errorf("title = %v, want h1 text", draft.Title)
	}
	if draft.Description != nil {
		t.Errorf("description = %v, want nil", draft.Description)
	}
	if draft.StartDate != nil || draft.EndDate != nil {
		t.Error("dates should be nil when no source provides them")
	}
	if draft.Organizer != nil || draft.RegistrationURL != nil {
		t.Error("organizer and registration URL should be nil")
	}
	if draft.Tags != nil {
		t.Errorf("tags = %v, want nil", draft.Tags)
	}
}

func TestExtractNon2xxIsFetchFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	ex := New(srv.Client())
	_, err := ex.Extract(context.Background(), srv.URL)
	if KindOf(err) != KindFetchFailed {
		t.Errorf("error kind = %q, want fetch_failed", KindOf(err))
	}
}

func TestExtractTransportErrorIsFetchFailed(t *testing.T) {
	ex := New(&http.Client{Transport: &failingTransport{}})
	_, err := ex.Extract(context.Background(), "https://unreachable.example.com/events")
	if KindOf(err) != KindFetchFailed {
		t.Errorf("error kind = %q, want fetch_failed", KindOf(err))
	}
}

type failingTransport struct{}

func (failingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return nil, errors.New("dial tcp: connection refused")
}

func TestExtractTruncatedBodyIsParseFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Promise more bytes than we send so the body read fails mid-parse.
		w.Header().Set("Content-Length", "4096")
		w.Write([]byte("<html><head><title>Trun"))
	}))
	defer srv.Close()

	ex := New(srv.Client())
	_, err := ex.Extract(context.Background(), srv.URL)
	if KindOf(err) != KindParseFailed {
		t.Errorf("error kind = %q, want parse_failed", KindOf(err))
	}
}

func TestKindOfForeignError(t *testing.T) {
	if KindOf(errors.New("plain")) != "" {
		t.Error("KindOf should return empty for non-extraction errors")
	}
	if KindOf(nil) != "" {
		t.Error("KindOf(nil) should be empty")
	}
}
