package extractor

import "fmt"

// Kind tags an extraction failure so callers can map it to a retry policy and
// an HTTP status without string matching.
type Kind string

const (
	// KindInvalidURL: caller error, no network call was made.
	KindInvalidURL Kind = "invalid_url"
	// KindFetchFailed: network error, timeout, or non-2xx page status.
	KindFetchFailed Kind = "fetch_failed"
	// KindParseFailed: the response body was not parseable HTML.
	KindParseFailed Kind = "parse_failed"
)

type Error struct {
	Kind Kind
	URL  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extract %s: %s: %v", e.URL, e.Kind, e.Err)
	}
	return fmt.Sprintf("extract %s: %s", e.URL, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the tag of an extraction error, or "" for other errors.
func KindOf(err error) Kind {
	if ee, ok := err.(*Error); ok {
		return ee.Kind
	}
	return ""
}
