package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/taxdir/api/internal/helpers"
	"github.com/taxdir/api/internal/models"
)

type UserService struct {
	userRepo models.UserRepo
}

func NewUserService(userRepo models.UserRepo) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

func (us *UserService) CreateUser(user *models.User) (interface{}, error) {
	if err := models.Validate.Struct(user); err != nil {
		return nil, err
	}

	if !helpers.IsPasswordStrong(user.Password) {
		return nil, fmt.Errorf("password is not strong enough")
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	return us.userRepo.CreateUser(context.Background(), user)
}

func (us *UserService) AuthenticateUser(email, password string) (interface{}, error) {
	if err := models.Validate.Var(email, "required,email"); err != nil {
		return nil, fmt.Errorf("invalid email format: %v", err)
	}
	if err := models.Validate.Var(password, "required,min=8"); err != nil {
		return nil, fmt.Errorf("invalid password format: %v", err)
	}
	response, err := us.userRepo.AuthenticateUser(context.Background(), email, password)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %v", err)
	}

	return response, nil
}

func (us *UserService) RefreshToken(refreshToken string) (interface{}, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("refresh token is required")
	}
	response, err := us.userRepo.RefreshToken(context.Background(), refreshToken)
	if err != nil {
		return nil, fmt.Errorf("token refresh failed: %v", err)
	}
	return response, nil
}

func (us *UserService) GetUser(id uuid.UUID, accessToken string) (*models.User, error) {
	res, err := us.userRepo.GetUser(context.Background(), id, accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %v", err)
	}
	return res, nil
}

func (us *UserService) UpdateUser(ctx context.Context, fields map[string]interface{}, userID uuid.UUID, accessToken string) (*models.User, error) {
	now := time.Now()
	fields["updated_at"] = now

	// Keep the directory slug in sync when the display name changes.
	if name, ok := fields["fullname"].(string); ok && name != "" {
		state, _ := fields["license_state"].(string)
		fields["slug"] = helpers.GenerateSlug(name, state)
	}

	updatedUser, err := us.userRepo.UpdateUser(ctx, fields, userID, accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %v", err)
	}

	return updatedUser, nil
}

func (us *UserService) DeleteUser(ctx context.Context, id uuid.UUID, accessToken string) error {
	if err := us.userRepo.DeleteUser(ctx, id, accessToken); err != nil {
		return fmt.Errorf("failed to delete user: %v", err)
	}
	return nil
}

func (us *UserService) SetAvatarURL(ctx context.Context, userID uuid.UUID, avatarURL string, accessToken string) (string, error) {
	if userID == uuid.Nil {
		return "", fmt.Errorf("no valid UUID provided")
	}

	user, err := us.userRepo.SetAvatarURL(ctx, userID, avatarURL, accessToken)
	if err != nil {
		return "", fmt.Errorf("failed to set avatar: %v", err)
	}

	return user.AvatarURL, nil
}

// VerifyProfessional applies the admin verification decision to a
// professional profile.
func (us *UserService) VerifyProfessional(ctx context.Context, userID uuid.UUID, status string, accessToken string) (*models.User, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("invalid user ID")
	}
	switch status {
	case models.VerificationApproved, models.VerificationRejected, models.VerificationPending:
	default:
		return nil, fmt.Errorf("invalid verification status: %s", status)
	}

	return us.userRepo.SetVerification(ctx, userID, status, accessToken)
}

// SearchDirectory lists verified professionals for the public directory.
func (us *UserService) SearchDirectory(ctx context.Context, filter models.DirectoryFilter, offset, limit int) ([]*models.User, int, error) {
	if offset < 0 || limit <= 0 {
		return nil, 0, fmt.Errorf("invalid offset or limit")
	}
	return us.userRepo.SearchProfessionals(ctx, filter, offset, limit)
}
