package models

import (
	"time"

	"github.com/google/uuid"
)

// Job is an engagement posted by a firm (or an individual client) looking for
// a tax professional.
type Job struct {
	ID            uuid.UUID `db:"id" json:"id"`
	PostedBy      uuid.UUID `db:"posted_by" json:"posted_by"`
	Title         string    `db:"title" json:"title" validate:"required,min=3,max=160"`
	Description   string    `db:"description" json:"description" validate:"required,min=10"`
	Specialties   []string  `db:"specialties" json:"specialties"`
	LocationCity  string    `db:"location_city" json:"location_city"`
	LocationState string    `db:"location_state" json:"location_state"`
	Remote        bool      `db:"remote" json:"remote"`
	CompMin       int       `db:"comp_min" json:"comp_min"`
	CompMax       int       `db:"comp_max" json:"comp_max"`
	Status        string    `db:"status" json:"status"` // open, closed
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

const (
	JobOpen   = "open"
	JobClosed = "closed"
)

// Application links a professional to a job.
type Application struct {
	ID             uuid.UUID `db:"id" json:"id"`
	JobID          uuid.UUID `db:"job_id" json:"job_id" validate:"required"`
	ProfessionalID uuid.UUID `db:"professional_id" json:"professional_id"`
	CoverNote      string    `db:"cover_note" json:"cover_note" validate:"max=2000"`
	Status         string    `db:"status" json:"status"` // submitted, reviewed, accepted, rejected
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

const (
	ApplicationSubmitted = "submitted"
	ApplicationReviewed  = "reviewed"
	ApplicationAccepted  = "accepted"
	ApplicationRejected  = "rejected"
)

func ValidApplicationStatus(s string) bool {
	switch s {
	case ApplicationSubmitted, ApplicationReviewed, ApplicationAccepted, ApplicationRejected:
		return true
	}
	return false
}
