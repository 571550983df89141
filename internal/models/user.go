package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a row in the profiles table. Roles: client, professional, firm,
// admin. Professional-only fields (credentials, specialties, license_state)
// stay empty for other roles.
type User struct {
	ID                 uuid.UUID `db:"id" json:"id"`
	Username           string    `db:"username" json:"username"`
	FullName           string    `db:"fullname" json:"fullname"`
	Email              string    `db:"email" json:"email"`
	Password           string    `db:"password" json:"password,omitempty"`
	Role               string    `db:"role" json:"role"`
	Bio                string    `db:"bio" json:"bio"`
	FirmName           string    `db:"firm_name" json:"firm_name"`
	Credentials        []string  `db:"credentials" json:"credentials"` // e.g. ["CPA", "EA"]
	Specialties        []string  `db:"specialties" json:"specialties"` // e.g. ["s-corp", "crypto"]
	LicenseState       string    `db:"license_state" json:"license_state"`
	LocationCity       string    `db:"location_city" json:"location_city"`
	LocationState      string    `db:"location_state" json:"location_state"`
	PhoneNumber        string    `db:"phone_number" json:"phone_number"`
	AvatarURL          string    `db:"avatar_url" json:"avatar_url"`
	Slug               string    `db:"slug" json:"slug"`
	IsVerified         bool      `db:"is_verified" json:"is_verified"`
	VerificationStatus string    `db:"verification_status" json:"verification_status"` // pending, approved, rejected
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

const (
	RoleClient       = "client"
	RoleProfessional = "professional"
	RoleFirm         = "firm"
	RoleAdmin        = "admin"
)

const (
	VerificationPending  = "pending"
	VerificationApproved = "approved"
	VerificationRejected = "rejected"
)
