package linkcheck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Status classifies the terminal outcome of a link fetch.
type Status string

const (
	StatusOK          Status = "ok"
	StatusRedirect    Status = "redirect"
	StatusClientError Status = "client_error"
	StatusServerError Status = "server_error"
	StatusTimeout     Status = "timeout"
	StatusUnknown     Status = "unknown"
)

// Result is a classified health check. A client_error or server_error status
// is a successful check of an unhealthy link, not a checker failure.
type Result struct {
	Status      Status    `json:"status"`
	Score       int       `json:"score"`
	Canonical   string    `json:"canonical,omitempty"`
	Title       string    `json:"title,omitempty"`
	Publishable bool      `json:"publishable"`
	CheckedAt   time.Time `json:"checked_at"`
}

// FailureError is returned when the fetch outcome could not be classified at
// all, e.g. the hostname does not resolve. Callers count these separately from
// unhealthy-but-classified results.
type FailureError struct {
	URL string
	Err error
}

func (e *FailureError) Error() string {
	return fmt.Sprintf("link check failed for %s: %v", e.URL, e.Err)
}

func (e *FailureError) Unwrap() error { return e.Err }

// maxBodyBytes caps how much of a page is read for signal extraction.
const maxBodyBytes = 512 * 1024

// Checker fetches URLs and scores their health. It holds no state between
// checks; repeated calls against an unchanged page classify identically.
type Checker struct {
	client  *http.Client
	weights Weights
}

// NewChecker wraps the given client. The client should come from NewHTTPClient
// so the redirect-hop budget is enforced.
func NewChecker(client *http.Client, weights Weights) *Checker {
	return &Checker{client: client, weights: weights}
}

// NewHTTPClient builds a client with a bounded timeout that stops following
// redirects after maxHops, surfacing the last 3xx response instead of erroring.
func NewHTTPClient(timeout time.Duration, maxHops int) *http.Client {
	return &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxHops {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}
}

// CheckURL runs a single stateless health check: fetch, classify, score,
// decide publishable. contextTags are matched against page keywords and text
// for the topical-overlap bonus.
func (ch *Checker) CheckURL(ctx context.Context, rawURL string, contextTags []string) (*Result, error) {
	now := time.Now()

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		// Not fetchable, but still a determinate classification.
		return ch.classified(StatusUnknown, Signals{}, "", "", now), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return ch.classified(StatusUnknown, Signals{}, "", "", now), nil
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; taxdir-linkcheck/1.0)")

	resp, err := ch.client.Do(req)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) {
			// Unresolvable host: nothing to classify.
			return nil, &FailureError{URL: rawURL, Err: err}
		}
		// Timeouts and refused/reset connections classify as timeout so the
		// record is requeued by staleness rather than surfaced as a failure.
		return ch.classified(StatusTimeout, Signals{}, "", "", now), nil
	}
	defer resp.Body.Close()

	canonical := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		canonical = resp.Request.URL.String()
	}

	status := classifyStatusCode(resp.StatusCode)

	sig := Signals{}
	title := ""
	if status == StatusOK || status == StatusRedirect {
		sig, title = inspectPage(resp.Body, canonical, contextTags)
	}

	return ch.classified(status, sig, canonical, title, now), nil
}

func (ch *Checker) classified(status Status, sig Signals, canonical, title string, at time.Time) *Result {
	score := ch.weights.Score(status, sig)
	return &Result{
		Status:      status,
		Score:       score,
		Canonical:   canonical,
		Title:       title,
		Publishable: Publishable(score, status),
		CheckedAt:   at,
	}
}

func classifyStatusCode(code int) Status {
	switch {
	case code >= 200 && code < 300:
		return StatusOK
	case code >= 300 && code < 400:
		return StatusRedirect
	case code >= 400 && code < 500:
		return StatusClientError
	case code >= 500 && code < 600:
		return StatusServerError
	default:
		return StatusUnknown
	}
}

// expiredMarkers flag pages whose event is over regardless of other signals.
var expiredMarkers = []string{
	"event has ended",
	"this event is over",
	"sold out",
	"cancelled",
	"canceled",
	"registration closed",
	"registration is closed",
	"no longer available",
	"expired",
}

// inspectPage derives scoring signals from the response body: page title,
// canonical-link metadata, context-tag overlap, and expired/cancelled markers.
func inspectPage(body io.Reader, fetchedURL string, contextTags []string) (Signals, string) {
	sig := Signals{}

	doc, err := html.Parse(io.LimitReader(body, maxBodyBytes))
	if err != nil {
		return sig, ""
	}

	var title, canonicalHref string
	var text strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if title == "" && n.FirstChild != nil {
					title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "link":
				var rel, href string
				for _, attr := range n.Attr {
					switch attr.Key {
					case "rel":
						rel = strings.ToLower(attr.Val)
					case "href":
						href = attr.Val
					}
				}
				if rel == "canonical" && canonicalHref == "" {
					canonicalHref = href
				}
			case "meta":
				var name, content string
				for _, attr := range n.Attr {
					switch attr.Key {
					case "name", "property":
						name = strings.ToLower(attr.Val)
					case "content":
						content = attr.Val
					}
				}
				if name == "keywords" || name == "og:title" || name == "og:description" || name == "description" {
					text.WriteString(strings.ToLower(content))
					text.WriteString(" ")
				}
			case "script", "style":
				return
			}
		}
		if n.Type == html.TextNode {
			text.WriteString(strings.ToLower(n.Data))
			text.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	pageText := text.String()

	sig.HasTitle = title != ""
	sig.HasCanonical = canonicalHref != ""

	for _, tag := range contextTags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" && strings.Contains(pageText, tag) {
			sig.TagOverlap = true
			break
		}
	}

	for _, marker := range expiredMarkers {
		if strings.Contains(pageText, marker) {
			sig.Expired = true
			break
		}
	}

	return sig, title
}
