package models

import (
	"time"

	"github.com/google/uuid"
)

// Event is a tax/accounting industry event (CPE seminars, IRS webinars,
// conferences) surfaced in the public calendar. Two independent gates control
// visibility: Publishable (link health, machine-derived) and ReviewStatus
// (admin editorial approval). The listing query requires both.
type Event struct {
	ID           uuid.UUID `db:"id" json:"id"`
	CandidateURL string    `db:"candidate_url" json:"candidate_url"` // immutable once set
	CanonicalURL *string   `db:"canonical_url" json:"canonical_url,omitempty"`

	Title         *string    `db:"title" json:"title,omitempty"`
	Description   *string    `db:"description" json:"description,omitempty"`
	StartDate     *time.Time `db:"start_date" json:"start_date,omitempty"`
	EndDate       *time.Time `db:"end_date" json:"end_date,omitempty"`
	LocationCity  *string    `db:"location_city" json:"location_city,omitempty"`
	LocationState *string    `db:"location_state" json:"location_state,omitempty"`
	Organizer     *string    `db:"organizer" json:"organizer,omitempty"`
	Tags          []string   `db:"tags" json:"tags"`

	// Link health fields, overwritten on every validation pass. Publishable is
	// always derived from (LinkHealthScore, URLStatus), never set directly.
	URLStatus       string     `db:"url_status" json:"url_status"`
	LinkHealthScore int        `db:"link_health_score" json:"link_health_score"`
	Publishable     bool       `db:"publishable" json:"publishable"`
	LastCheckedAt   *time.Time `db:"last_checked_at" json:"last_checked_at,omitempty"`

	// ReviewStatus is written only by the admin review workflow.
	ReviewStatus *string `db:"review_status" json:"review_status,omitempty"`

	SubmittedBy uuid.UUID `db:"submitted_by" json:"submitted_by"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

const (
	ReviewPending   = "pending_review"
	ReviewApproved  = "approved"
	ReviewRejected  = "rejected"
	ReviewNeedsEdit = "needs_edit"
)

// ValidReviewStatus reports whether s is one of the review states admins may
// set.
func ValidReviewStatus(s string) bool {
	switch s {
	case ReviewPending, ReviewApproved, ReviewRejected, ReviewNeedsEdit:
		return true
	}
	return false
}
