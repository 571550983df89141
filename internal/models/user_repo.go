package models

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/supabase-community/gotrue-go/types"
)

type UserRepo interface {
	CreateUser(ctx context.Context, user *User) (interface{}, error)
	AuthenticateUser(ctx context.Context, email, password string) (interface{}, error)
	RefreshToken(ctx context.Context, refreshToken string) (interface{}, error)
	GetUser(ctx context.Context, id uuid.UUID, accessToken string) (*User, error)
	UpdateUser(ctx context.Context, fields map[string]interface{}, userID uuid.UUID, accessToken string) (*User, error)
	DeleteUser(ctx context.Context, id uuid.UUID, accessToken string) error
	SetAvatarURL(ctx context.Context, userID uuid.UUID, avatarURL string, accessToken string) (*User, error)
	SetVerification(ctx context.Context, userID uuid.UUID, status string, accessToken string) (*User, error)
	SearchProfessionals(ctx context.Context, filter DirectoryFilter, offset, limit int) ([]*User, int, error)
}

// DirectoryFilter narrows the public professional directory.
type DirectoryFilter struct {
	Specialty string
	State     string
	Query     string // free-text against fullname / firm name
}

func ConvertToUser(raw map[string]interface{}) (*User, error) {
	userBytes, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal raw user: %v", err)
	}

	user := &User{}
	if err := json.Unmarshal(userBytes, user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal to user struct: %v", err)
	}

	return user, nil
}

func (su *SupabaseRepo) CreateUser(ctx context.Context, user *User) (interface{}, error) {
	signed := types.SignupRequest{
		Email:    user.Email,
		Password: user.Password,
	}

	res, err := su.supabaseClient.Auth.Signup(signed)
	if err != nil {
		errMsg := err.Error()
		if strings.Contains(errMsg, "User already Registered") || strings.Contains(errMsg, "unique constraint") {
			return nil, fmt.Errorf("email already in use")
		}
		if strings.Contains(errMsg, "null value in column") {
			return nil, fmt.Errorf("required field is missing")
		}
		if strings.Contains(errMsg, "invalid input syntax") {
			return nil, fmt.Errorf("invalid input format")
		}
		return nil, fmt.Errorf("failed to create user")
	}
	return res, nil
}

func (su *SupabaseRepo) AuthenticateUser(ctx context.Context, email, password string) (interface{}, error) {
	resp, err := su.supabaseClient.Auth.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate user: %v", err)
	}
	return resp, nil
}

func (su *SupabaseRepo) RefreshToken(ctx context.Context, refreshToken string) (interface{}, error) {
	resp, err := su.supabaseClient.Auth.RefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %v", err)
	}
	return resp, nil
}

const profileColumns = "id,email,username,fullname,role,bio,firm_name,credentials,specialties,license_state,location_city,location_state,phone_number,avatar_url,slug,is_verified,verification_status,created_at,updated_at"

func (su *SupabaseRepo) GetUser(ctx context.Context, id uuid.UUID, accessToken string) (*User, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("invalid UUID")
	}

	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticated client: %v", err)
	}

	raw, status, err := client.From(ProfileTable).
		Select(profileColumns, "", false).
		Eq("id", id.String()).
		Execute()
	if err != nil {
		if status != 0 {
			return nil, fmt.Errorf("postgrest error: status=%d body=%s err=%v", status, string(raw), err)
		}
		return nil, fmt.Errorf("failed to get user by ID: %v", err)
	}

	// PostgREST returns an array even for single results.
	var users []User
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user rows: %v", err)
	}

	if len(users) == 0 {
		return nil, fmt.Errorf("user not found")
	}

	return &users[0], nil
}

func (su *SupabaseRepo) UpdateUser(ctx context.Context, fields map[string]interface{}, userID uuid.UUID, accessToken string) (*User, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("invalid UUID")
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticated client: %v", err)
	}

	raw, count, err := client.From(ProfileTable).
		Update(fields, "", "exact").
		Eq("id", userID.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %v", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("no user found to update")
	}

	var rawUsers []map[string]interface{}
	if err := json.Unmarshal(raw, &rawUsers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated user: %v", err)
	}
	if len(rawUsers) == 0 {
		return nil, fmt.Errorf("no user data returned after update")
	}

	return ConvertToUser(rawUsers[0])
}

func (su *SupabaseRepo) DeleteUser(ctx context.Context, id uuid.UUID, accessToken string) error {
	if id == uuid.Nil {
		return fmt.Errorf("no valid UUID provided")
	}

	client, err := su.clientFor(accessToken)
	if err != nil {
		return fmt.Errorf("failed to create authenticated client: %v", err)
	}

	_, count, err := client.From(ProfileTable).Delete("", "exact").Eq("id", id.String()).Execute()
	if err != nil {
		return fmt.Errorf("failed to delete user: %v", err)
	}
	if count == 0 {
		return fmt.Errorf("no user found to delete")
	}

	return nil
}

func (su *SupabaseRepo) SetAvatarURL(ctx context.Context, userID uuid.UUID, avatarURL string, accessToken string) (*User, error) {
	return su.UpdateUser(ctx, map[string]interface{}{"avatar_url": avatarURL}, userID, accessToken)
}

// SetVerification flips the admin verification gate on a professional
// profile. is_verified is derived so the directory query stays a single
// equality filter.
func (su *SupabaseRepo) SetVerification(ctx context.Context, userID uuid.UUID, status string, accessToken string) (*User, error) {
	return su.UpdateUser(ctx, map[string]interface{}{
		"verification_status": status,
		"is_verified":         status == VerificationApproved,
	}, userID, accessToken)
}

// SearchProfessionals lists verified professionals for the public directory.
func (su *SupabaseRepo) SearchProfessionals(ctx context.Context, filter DirectoryFilter, offset, limit int) ([]*User, int, error) {
	q := su.supabaseClient.From(ProfileTable).
		Select(profileColumns, "exact", false).
		Eq("role", RoleProfessional).
		Eq("is_verified", "true")

	if filter.Specialty != "" {
		q = q.Contains("specialties", []string{strings.ToLower(filter.Specialty)})
	}
	if filter.State != "" {
		q = q.Eq("license_state", strings.ToUpper(filter.State))
	}
	if filter.Query != "" {
		q = q.Ilike("fullname", "%"+filter.Query+"%")
	}

	raw, count, err := q.Range(offset, offset+limit-1, "").Execute()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search professionals: %v", err)
	}

	var users []*User
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, 0, fmt.Errorf("failed to unmarshal professionals: %v", err)
	}

	return users, int(count), nil
}
