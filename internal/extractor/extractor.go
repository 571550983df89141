package extractor

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/html"
)

// Draft is a best-effort event record derived from a candidate page. Only
// CandidateURL is guaranteed; every other field may be absent. The caller
// decides whether an incomplete draft is acceptable.
type Draft struct {
	CandidateURL    string     `json:"candidate_url"`
	Title           *string    `json:"title,omitempty"`
	Description     *string    `json:"description,omitempty"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	EndDate         *time.Time `json:"end_date,omitempty"`
	LocationCity    *string    `json:"location_city,omitempty"`
	LocationState   *string    `json:"location_state,omitempty"`
	Organizer       *string    `json:"organizer,omitempty"`
	RegistrationURL *string    `json:"registration_url,omitempty"`
	Tags            []string   `json:"tags,omitempty"`
}

// Extractor fetches a candidate URL once and derives a Draft from the page.
// It holds no state across calls and never retries; transient failures
// surface directly to the caller.
type Extractor struct {
	client *http.Client
}

// New takes the HTTP client explicitly so tests can substitute a fake
// transport and callers control the fetch timeout.
func New(client *http.Client) *Extractor {
	return &Extractor{client: client}
}

// Extract performs exactly one GET against rawURL and applies the field
// strategy chains to the parsed page. Malformed input fails fast with
// KindInvalidURL before any network call.
func (ex *Extractor) Extract(ctx context.Context, rawURL string) (*Draft, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, &Error{Kind: KindInvalidURL, URL: rawURL, Err: err}
	}
	if parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, &Error{Kind: KindInvalidURL, URL: rawURL, Err: fmt.Errorf("URL must be absolute http or https")}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, &Error{Kind: KindInvalidURL, URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; taxdir-extractor/1.0)")

	resp, err := ex.client.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindFetchFailed, URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{Kind: KindFetchFailed, URL: rawURL, Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindParseFailed, URL: rawURL, Err: err}
	}

	pg := newPage(doc, parsed)
	return buildDraft(rawURL, pg), nil
}

// buildDraft runs each field's strategy chain independently; a field whose
// strategies all miss stays nil and never fails the draft.
func buildDraft(candidateURL string, pg *page) *Draft {
	draft := &Draft{CandidateURL: candidateURL}

	draft.Title = firstString(pg, titleStrategies)
	draft.Description = firstString(pg, descriptionStrategies)
	draft.StartDate = firstTime(pg, startDateStrategies)
	draft.EndDate = firstTime(pg, endDateStrategies)
	draft.LocationCity = firstString(pg, cityStrategies)
	draft.LocationState = firstString(pg, stateStrategies)
	draft.Organizer = firstString(pg, organizerStrategies)
	draft.RegistrationURL = firstString(pg, registrationStrategies)
	draft.Tags = extractTags(pg)

	return draft
}

func firstString(pg *page, chain []stringStrategy) *string {
	for _, s := range chain {
		if v, ok := s.fn(pg); ok {
			return &v
		}
	}
	return nil
}

func firstTime(pg *page, chain []timeStrategy) *time.Time {
	for _, s := range chain {
		if v, ok := s.fn(pg); ok {
			return &v
		}
	}
	return nil
}
