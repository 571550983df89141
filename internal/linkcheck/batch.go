package linkcheck

import (
	"context"
	"log/slog"
	"time"
)

// StaleEvent is the slice of an event record the batch driver needs.
type StaleEvent struct {
	ID           string
	CandidateURL string
	Tags         []string
}

// HealthUpdate is written back after every check attempt, classified or not,
// so the record does not keep blocking the front of the staleness queue.
type HealthUpdate struct {
	Status      Status
	Score       int
	Canonical   string
	Publishable bool
	CheckedAt   time.Time
}

// EventSource abstracts the event store for the batch driver.
type EventSource interface {
	// ListStale returns up to limit events ordered by staleness: never-checked
	// first, then oldest last_checked_at first.
	ListStale(ctx context.Context, limit int) ([]StaleEvent, error)
	// SaveResult persists the outcome of one check.
	SaveResult(ctx context.Context, id string, upd HealthUpdate) error
}

// BatchSummary aggregates one batch pass. Errors counts only records whose
// fetch could not be classified; an unhealthy-but-classified link counts as
// validated.
type BatchSummary struct {
	Processed   int `json:"processed"`
	Validated   int `json:"validated"`
	Publishable int `json:"publishable"`
	Errors      int `json:"errors"`
}

// BatchRunner validates pending events strictly sequentially: one outstanding
// fetch at a time, as politeness toward the many distinct third-party sites
// being probed.
type BatchRunner struct {
	checker *Checker
	source  EventSource
	logger  *slog.Logger
}

func NewBatchRunner(checker *Checker, source EventSource, logger *slog.Logger) *BatchRunner {
	return &BatchRunner{checker: checker, source: source, logger: logger}
}

// Run checks up to limit stale events. A single record's failure never aborts
// the batch.
func (b *BatchRunner) Run(ctx context.Context, limit int) (*BatchSummary, error) {
	events, err := b.source.ListStale(ctx, limit)
	if err != nil {
		return nil, err
	}

	summary := &BatchSummary{}
	for _, ev := range events {
		summary.Processed++

		res, err := b.checker.CheckURL(ctx, ev.CandidateURL, ev.Tags)
		if err != nil {
			summary.Errors++
			b.logger.Warn("link check failed",
				"event_id", ev.ID,
				"url", ev.CandidateURL,
				"error", err,
			)
			// Still advance last_checked_at so the record rotates to the back
			// of the staleness queue.
			res = &Result{Status: StatusUnknown, Score: 0, CheckedAt: time.Now()}
		} else {
			summary.Validated++
			if res.Publishable {
				summary.Publishable++
			}
		}

		upd := HealthUpdate{
			Status:      res.Status,
			Score:       res.Score,
			Canonical:   res.Canonical,
			Publishable: res.Publishable,
			CheckedAt:   res.CheckedAt,
		}
		if err := b.source.SaveResult(ctx, ev.ID, upd); err != nil {
			b.logger.Error("failed to persist link health result",
				"event_id", ev.ID,
				"error", err,
			)
		}
	}

	return summary, nil
}
