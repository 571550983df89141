package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/taxdir/api/internal/extractor"
	"github.com/taxdir/api/internal/linkcheck"
	"github.com/taxdir/api/internal/models"
)

// fakeEventsRepo is an in-memory stand-in for the Supabase events repo.
type fakeEventsRepo struct {
	events  map[uuid.UUID]*models.Event
	stale   []*models.Event
	updates map[uuid.UUID]linkcheck.HealthUpdate
}

func newFakeEventsRepo() *fakeEventsRepo {
	return &fakeEventsRepo{
		events:  map[uuid.UUID]*models.Event{},
		updates: map[uuid.UUID]linkcheck.HealthUpdate{},
	}
}

func (f *fakeEventsRepo) CreateEvent(ctx context.Context, event *models.Event, accessToken string) (*models.Event, error) {
	f.events[event.ID] = event
	return event, nil
}

func (f *fakeEventsRepo) GetEventByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	return f.events[id], nil
}

func (f *fakeEventsRepo) ListPublicEvents(ctx context.Context, offset, limit int) ([]*models.Event, int, error) {
	var public []*models.Event
	for _, ev := range f.events {
		if ev.Publishable && ev.ReviewStatus != nil && *ev.ReviewStatus == models.ReviewApproved {
			public = append(public, ev)
		}
	}
	return public, len(public), nil
}

func (f *fakeEventsRepo) ListStaleEvents(ctx context.Context, limit int) ([]*models.Event, error) {
	if limit < len(f.stale) {
		return f.stale[:limit], nil
	}
	return f.stale, nil
}

func (f *fakeEventsRepo) UpdateLinkHealth(ctx context.Context, id uuid.UUID, upd linkcheck.HealthUpdate) error {
	f.updates[id] = upd
	return nil
}

func (f *fakeEventsRepo) UpdateReviewStatus(ctx context.Context, id uuid.UUID, status string, accessToken string) (*models.Event, error) {
	ev, ok := f.events[id]
	if !ok {
		return nil, fmt.Errorf("no event found to update")
	}
	ev.ReviewStatus = &status
	return ev, nil
}

func newTestEventService(repo models.EventsRepo, client *http.Client) *EventService {
	ex := extractor.New(client)
	checker := linkcheck.NewChecker(client, linkcheck.DefaultWeights())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewEventService(repo, ex, checker, logger)
}

func TestCreateEventFromDraftStartsUnpublishable(t *testing.T) {
	repo := newFakeEventsRepo()
	svc := newTestEventService(repo, &http.Client{Timeout: time.Second})

	title := "Federal Tax Update"
	draft := &extractor.Draft{
		CandidateURL: "https://events.example.com/fed-update",
		Title:        &title,
		Tags:         []string{"federal", "cpe"},
	}

	event, err := svc.CreateEventFromDraft(context.Background(), draft, uuid.New(), "")
	if err != nil {
		t.Fatalf("CreateEventFromDraft returned error: %v", err)
	}

	// A new record must not be visible until a validation pass promotes it.
	if event.Publishable {
		t.Error("new event should not be publishable")
	}
	if event.LinkHealthScore != 0 {
		t.Errorf("score = %d, want 0", event.LinkHealthScore)
	}
	if event.URLStatus != string(linkcheck.StatusUnknown) {
		t.Errorf("url status = %q, want unknown", event.URLStatus)
	}
	if event.LastCheckedAt != nil {
		t.Error("new event should have no last_checked_at")
	}
	if event.ReviewStatus == nil || *event.ReviewStatus != models.ReviewPending {
		t.Errorf("review status = %v, want pending_review", event.ReviewStatus)
	}
	if event.CandidateURL != draft.CandidateURL {
		t.Errorf("candidate URL = %q", event.CandidateURL)
	}
}

func TestCreateEventFromDraftRequiresCandidateURL(t *testing.T) {
	svc := newTestEventService(newFakeEventsRepo(), &http.Client{Timeout: time.Second})

	if _, err := svc.CreateEventFromDraft(context.Background(), &extractor.Draft{}, uuid.New(), ""); err == nil {
		t.Error("draft without candidate URL should be rejected")
	}
	if _, err := svc.CreateEventFromDraft(context.Background(), nil, uuid.New(), ""); err == nil {
		t.Error("nil draft should be rejected")
	}
}

func TestRunValidationBatchThroughRepo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>CPE Day</title><link rel="canonical" href="https://example.com/cpe"></head><body></body></html>`)
	}))
	defer srv.Close()

	repo := newFakeEventsRepo()
	id := uuid.New()
	repo.stale = []*models.Event{
		{ID: id, CandidateURL: srv.URL, Tags: []string{"cpe"}},
	}

	svc := newTestEventService(repo, srv.Client())

	summary, err := svc.RunValidationBatch(context.Background(), 50)
	if err != nil {
		t.Fatalf("RunValidationBatch returned error: %v", err)
	}
	if summary.Processed != 1 || summary.Validated != 1 || summary.Publishable != 1 {
		t.Errorf("summary = %+v", summary)
	}

	upd, ok := repo.updates[id]
	if !ok {
		t.Fatal("validation result was not written back")
	}
	if upd.Status != linkcheck.StatusOK || !upd.Publishable {
		t.Errorf("update = %+v", upd)
	}
}

func TestRunValidationBatchRejectsBadLimit(t *testing.T) {
	svc := newTestEventService(newFakeEventsRepo(), &http.Client{Timeout: time.Second})
	if _, err := svc.RunValidationBatch(context.Background(), 0); err == nil {
		t.Error("limit 0 should be rejected")
	}
}

func TestReviewEventValidatesStatus(t *testing.T) {
	repo := newFakeEventsRepo()
	id := uuid.New()
	repo.events[id] = &models.Event{ID: id, CandidateURL: "https://example.com"}

	svc := newTestEventService(repo, &http.Client{Timeout: time.Second})

	if _, err := svc.ReviewEvent(context.Background(), id, "published", ""); err == nil {
		t.Error("unknown review status should be rejected")
	}

	ev, err := svc.ReviewEvent(context.Background(), id, models.ReviewApproved, "")
	if err != nil {
		t.Fatalf("ReviewEvent returned error: %v", err)
	}
	if ev.ReviewStatus == nil || *ev.ReviewStatus != models.ReviewApproved {
		t.Errorf("review status = %v", ev.ReviewStatus)
	}
}
