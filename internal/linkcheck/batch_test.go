package linkcheck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// fakeSource is an in-memory EventSource recording every saved result.
type fakeSource struct {
	stale    []StaleEvent
	saved    map[string]HealthUpdate
	saveErrs map[string]error
	listErr  error
}

func newFakeSource(stale []StaleEvent) *fakeSource {
	return &fakeSource{stale: stale, saved: map[string]HealthUpdate{}, saveErrs: map[string]error{}}
}

func (f *fakeSource) ListStale(ctx context.Context, limit int) ([]StaleEvent, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if limit < len(f.stale) {
		return f.stale[:limit], nil
	}
	return f.stale, nil
}

func (f *fakeSource) SaveResult(ctx context.Context, id string, upd HealthUpdate) error {
	f.saved[id] = upd
	return f.saveErrs[id]
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBatchRunMixedHealth(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/good", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>Tax CPE Workshop</title><link rel="canonical" href="https://example.com/w"></head><body></body></html>`)
	})
	mux.HandleFunc("/gone", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	var stale []StaleEvent
	for i := 0; i < 5; i++ {
		stale = append(stale, StaleEvent{ID: fmt.Sprintf("good-%d", i), CandidateURL: srv.URL + "/good"})
	}
	for i := 0; i < 5; i++ {
		stale = append(stale, StaleEvent{ID: fmt.Sprintf("gone-%d", i), CandidateURL: srv.URL + "/gone"})
	}

	source := newFakeSource(stale)
	runner := NewBatchRunner(NewChecker(srv.Client(), DefaultWeights()), source, testLogger())

	summary, err := runner.Run(context.Background(), 50)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if summary.Processed != 10 {
		t.Errorf("processed = %d, want 10", summary.Processed)
	}
	// Dead links were still classified, so every record validated.
	if summary.Validated != 10 {
		t.Errorf("validated = %d, want 10", summary.Validated)
	}
	if summary.Publishable != 5 {
		t.Errorf("publishable = %d, want 5", summary.Publishable)
	}
	if summary.Errors != 0 {
		t.Errorf("errors = %d, want 0", summary.Errors)
	}

	if len(source.saved) != 10 {
		t.Fatalf("saved %d results, want 10", len(source.saved))
	}
	if upd := source.saved["good-0"]; upd.Status != StatusOK || !upd.Publishable {
		t.Errorf("good-0 saved as %+v", upd)
	}
	if upd := source.saved["gone-0"]; upd.Status != StatusClientError || upd.Publishable || upd.Score != 0 {
		t.Errorf("gone-0 saved as %+v", upd)
	}
}

func TestBatchRunCountsUnclassifiableFailures(t *testing.T) {
	dnsErr := &net.DNSError{Err: "no such host", Name: "dead.invalid"}
	checker := NewChecker(&http.Client{Transport: &errTransport{err: dnsErr}}, DefaultWeights())

	source := newFakeSource([]StaleEvent{
		{ID: "ev-1", CandidateURL: "https://dead.invalid/event"},
	})
	runner := NewBatchRunner(checker, source, testLogger())

	summary, err := runner.Run(context.Background(), 10)
	if err != nil {
		t.Fatalf("a failing record must not abort the batch: %v", err)
	}

	if summary.Processed != 1 || summary.Errors != 1 || summary.Validated != 0 {
		t.Errorf("summary = %+v, want processed=1 errors=1 validated=0", summary)
	}

	// The record still rotates to the back of the staleness queue.
	upd, ok := source.saved["ev-1"]
	if !ok {
		t.Fatal("failed record was not saved")
	}
	if upd.Status != StatusUnknown || upd.Score != 0 || upd.Publishable {
		t.Errorf("failed record saved as %+v, want unknown/0/false", upd)
	}
	if upd.CheckedAt.IsZero() {
		t.Error("failed record must advance its checked-at timestamp")
	}
}

func TestBatchRunSaveErrorDoesNotAbort(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>Meetup</title></head><body></body></html>`)
	}))
	defer srv.Close()

	source := newFakeSource([]StaleEvent{
		{ID: "a", CandidateURL: srv.URL},
		{ID: "b", CandidateURL: srv.URL},
	})
	source.saveErrs["a"] = errors.New("row locked")

	runner := NewBatchRunner(NewChecker(srv.Client(), DefaultWeights()), source, testLogger())

	summary, err := runner.Run(context.Background(), 10)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Processed != 2 || summary.Validated != 2 {
		t.Errorf("summary = %+v, want both records processed", summary)
	}
	if _, ok := source.saved["b"]; !ok {
		t.Error("second record was skipped after a save error")
	}
}

func TestBatchRunHonorsLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>Seminar</title></head><body></body></html>`)
	}))
	defer srv.Close()

	var stale []StaleEvent
	for i := 0; i < 8; i++ {
		stale = append(stale, StaleEvent{ID: fmt.Sprintf("ev-%d", i), CandidateURL: srv.URL})
	}
	source := newFakeSource(stale)
	runner := NewBatchRunner(NewChecker(srv.Client(), DefaultWeights()), source, testLogger())

	summary, err := runner.Run(context.Background(), 3)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Processed != 3 {
		t.Errorf("processed = %d, want 3", summary.Processed)
	}
}

func TestBatchRunListFailure(t *testing.T) {
	source := newFakeSource(nil)
	source.listErr = errors.New("store unavailable")

	runner := NewBatchRunner(NewChecker(&http.Client{Timeout: time.Second}, DefaultWeights()), source, testLogger())

	if _, err := runner.Run(context.Background(), 10); err == nil {
		t.Fatal("Run should surface a listing failure")
	}
}
