package models

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/supabase-community/postgrest-go"

	"github.com/taxdir/api/internal/linkcheck"
)

type EventsRepo interface {
	CreateEvent(ctx context.Context, event *Event, accessToken string) (*Event, error)
	GetEventByID(ctx context.Context, id uuid.UUID) (*Event, error)
	// ListPublicEvents enforces both visibility gates: publishable AND approved.
	ListPublicEvents(ctx context.Context, offset, limit int) ([]*Event, int, error)
	ListStaleEvents(ctx context.Context, limit int) ([]*Event, error)
	UpdateLinkHealth(ctx context.Context, id uuid.UUID, upd linkcheck.HealthUpdate) error
	UpdateReviewStatus(ctx context.Context, id uuid.UUID, status string, accessToken string) (*Event, error)
}

const eventColumns = "id,candidate_url,canonical_url,title,description,start_date,end_date,location_city,location_state,organizer,tags,url_status,link_health_score,publishable,last_checked_at,review_status,submitted_by,created_at,updated_at"

func (su *SupabaseRepo) CreateEvent(ctx context.Context, event *Event, accessToken string) (*Event, error) {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticated client: %v", err)
	}

	eventData := map[string]interface{}{
		"id":                event.ID,
		"candidate_url":     event.CandidateURL,
		"title":             event.Title,
		"description":       event.Description,
		"start_date":        event.StartDate,
		"end_date":          event.EndDate,
		"location_city":     event.LocationCity,
		"location_state":    event.LocationState,
		"organizer":         event.Organizer,
		"tags":              event.Tags,
		"url_status":        event.URLStatus,
		"link_health_score": event.LinkHealthScore,
		"publishable":       event.Publishable,
		"review_status":     event.ReviewStatus,
		"submitted_by":      event.SubmittedBy,
		"created_at":        event.CreatedAt,
		"updated_at":        event.UpdatedAt,
	}

	raw, count, err := client.From(EventsTable).
		Insert(eventData, false, "", "", "exact").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %v", err)
	}

	var created []Event
	if err := json.Unmarshal(raw, &created); err != nil {
		return nil, fmt.Errorf("failed to unmarshal created event: %v", err)
	}
	if count == 0 || len(created) == 0 {
		return nil, fmt.Errorf("no event data returned after insert")
	}

	return &created[0], nil
}

func (su *SupabaseRepo) GetEventByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("invalid UUID")
	}

	raw, status, err := su.supabaseClient.From(EventsTable).
		Select(eventColumns, "", false).
		Eq("id", id.String()).
		Execute()
	if err != nil {
		if status != 0 {
			return nil, fmt.Errorf("postgrest error: status=%d body=%s err=%v", status, string(raw), err)
		}
		return nil, fmt.Errorf("failed to get event: %v", err)
	}

	var events []Event
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event rows: %v", err)
	}
	if len(events) == 0 {
		return nil, nil
	}

	return &events[0], nil
}

func (su *SupabaseRepo) ListPublicEvents(ctx context.Context, offset, limit int) ([]*Event, int, error) {
	raw, count, err := su.supabaseClient.From(EventsTable).
		Select(eventColumns, "exact", false).
		Eq("publishable", "true").
		Eq("review_status", ReviewApproved).
		Range(offset, offset+limit-1, "").
		Execute()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list events: %v", err)
	}

	var events []*Event
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, 0, fmt.Errorf("failed to unmarshal events: %v", err)
	}

	return events, int(count), nil
}

// ListStaleEvents selects validation candidates in staleness order:
// never-checked records first, then the longest-ago checked.
func (su *SupabaseRepo) ListStaleEvents(ctx context.Context, limit int) ([]*Event, error) {
	raw, _, err := su.supabaseClient.From(EventsTable).
		Select(eventColumns, "", false).
		Order("last_checked_at", &postgrest.OrderOpts{Ascending: true, NullsFirst: true}).
		Limit(limit, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list stale events: %v", err)
	}

	var events []*Event
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stale events: %v", err)
	}

	return events, nil
}

// UpdateLinkHealth writes back one validation pass. candidate_url and the
// descriptive fields are untouched; canonical_url is only overwritten when the
// check resolved one.
func (su *SupabaseRepo) UpdateLinkHealth(ctx context.Context, id uuid.UUID, upd linkcheck.HealthUpdate) error {
	if id == uuid.Nil {
		return fmt.Errorf("invalid UUID")
	}

	fields := map[string]interface{}{
		"url_status":        string(upd.Status),
		"link_health_score": upd.Score,
		"publishable":       upd.Publishable,
		"last_checked_at":   upd.CheckedAt,
		"updated_at":        time.Now(),
	}
	if upd.Canonical != "" {
		fields["canonical_url"] = upd.Canonical
	}

	_, count, err := su.supabaseClient.From(EventsTable).
		Update(fields, "", "exact").
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to update link health: %v", err)
	}
	if count == 0 {
		return fmt.Errorf("no event found to update")
	}

	return nil
}

func (su *SupabaseRepo) UpdateReviewStatus(ctx context.Context, id uuid.UUID, status string, accessToken string) (*Event, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("invalid UUID")
	}
	if !ValidReviewStatus(status) {
		return nil, fmt.Errorf("invalid review status: %s", status)
	}

	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticated client: %v", err)
	}

	raw, count, err := client.From(EventsTable).
		Update(map[string]interface{}{
			"review_status": status,
			"updated_at":    time.Now(),
		}, "", "exact").
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to update review status: %v", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("no event found to update")
	}

	var events []Event
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated event: %v", err)
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("no event data returned after update")
	}

	return &events[0], nil
}
