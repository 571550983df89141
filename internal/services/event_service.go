package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/taxdir/api/internal/extractor"
	"github.com/taxdir/api/internal/linkcheck"
	"github.com/taxdir/api/internal/models"
)

// EventService owns the event pipeline: draft extraction from candidate URLs,
// link health validation, the batch driver, and the admin review transitions.
type EventService struct {
	eventsRepo models.EventsRepo
	extractor  *extractor.Extractor
	checker    *linkcheck.Checker
	batch      *linkcheck.BatchRunner
}

func NewEventService(eventsRepo models.EventsRepo, ex *extractor.Extractor, checker *linkcheck.Checker, logger *slog.Logger) *EventService {
	svc := &EventService{
		eventsRepo: eventsRepo,
		extractor:  ex,
		checker:    checker,
	}
	svc.batch = linkcheck.NewBatchRunner(checker, &staleEventSource{repo: eventsRepo}, logger)
	return svc
}

// ExtractDraft fetches a candidate URL once and derives a best-effort event
// draft. The caller decides whether an incomplete draft is acceptable.
func (es *EventService) ExtractDraft(ctx context.Context, rawURL string) (*extractor.Draft, error) {
	return es.extractor.Extract(ctx, rawURL)
}

// CheckLink runs a single on-demand health check.
func (es *EventService) CheckLink(ctx context.Context, rawURL string, tags []string) (*linkcheck.Result, error) {
	return es.checker.CheckURL(ctx, rawURL, tags)
}

// RunValidationBatch validates up to limit stale events sequentially.
func (es *EventService) RunValidationBatch(ctx context.Context, limit int) (*linkcheck.BatchSummary, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("invalid batch limit")
	}
	return es.batch.Run(ctx, limit)
}

// CreateEventFromDraft persists a draft as a pending event. Link health fields
// start at their zero gate: unknown status, score 0, not publishable, never
// checked.
func (es *EventService) CreateEventFromDraft(ctx context.Context, draft *extractor.Draft, submittedBy uuid.UUID, accessToken string) (*models.Event, error) {
	if draft == nil || draft.CandidateURL == "" {
		return nil, fmt.Errorf("draft with candidate URL is required")
	}

	now := time.Now()
	pending := models.ReviewPending
	event := &models.Event{
		ID:              uuid.New(),
		CandidateURL:    draft.CandidateURL,
		Title:           draft.Title,
		Description:     draft.Description,
		StartDate:       draft.StartDate,
		EndDate:         draft.EndDate,
		LocationCity:    draft.LocationCity,
		LocationState:   draft.LocationState,
		Organizer:       draft.Organizer,
		Tags:            draft.Tags,
		URLStatus:       string(linkcheck.StatusUnknown),
		LinkHealthScore: 0,
		Publishable:     false,
		ReviewStatus:    &pending,
		SubmittedBy:     submittedBy,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	return es.eventsRepo.CreateEvent(ctx, event, accessToken)
}

func (es *EventService) GetEvent(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("invalid event ID")
	}
	return es.eventsRepo.GetEventByID(ctx, id)
}

func (es *EventService) ListPublicEvents(ctx context.Context, offset, limit int) ([]*models.Event, int, error) {
	if offset < 0 || limit <= 0 {
		return nil, 0, fmt.Errorf("invalid offset or limit")
	}
	return es.eventsRepo.ListPublicEvents(ctx, offset, limit)
}

// ReviewEvent applies an admin review transition. This is the editorial gate,
// orthogonal to publishable.
func (es *EventService) ReviewEvent(ctx context.Context, id uuid.UUID, status string, accessToken string) (*models.Event, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("invalid event ID")
	}
	if !models.ValidReviewStatus(status) {
		return nil, fmt.Errorf("invalid review status: %s", status)
	}
	return es.eventsRepo.UpdateReviewStatus(ctx, id, status, accessToken)
}

// staleEventSource adapts the Supabase events repo to the narrow interface
// the batch driver depends on.
type staleEventSource struct {
	repo models.EventsRepo
}

func (s *staleEventSource) ListStale(ctx context.Context, limit int) ([]linkcheck.StaleEvent, error) {
	events, err := s.repo.ListStaleEvents(ctx, limit)
	if err != nil {
		return nil, err
	}

	stale := make([]linkcheck.StaleEvent, 0, len(events))
	for _, ev := range events {
		stale = append(stale, linkcheck.StaleEvent{
			ID:           ev.ID.String(),
			CandidateURL: ev.CandidateURL,
			Tags:         ev.Tags,
		})
	}
	return stale, nil
}

func (s *staleEventSource) SaveResult(ctx context.Context, id string, upd linkcheck.HealthUpdate) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid event ID %q: %v", id, err)
	}
	return s.repo.UpdateLinkHealth(ctx, parsed, upd)
}
