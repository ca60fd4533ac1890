// Package service implements the business logic layer of the application.
package service

import (
	"context"
	"log/slog"
	"strings"

	"bondtree/internal/middleware"
	"bondtree/internal/models"
	"bondtree/internal/repository"
	"bondtree/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// AccountService handles signup and login. Signup is two-phase: the
// credential row is written first, then the profile; a profile failure
// deletes the credential so a half-created account can never log in.
type AccountService struct {
	userRepo repository.UserRepository
	credRepo repository.CredentialRepository
}

// NewAccountService returns a new AccountService.
func NewAccountService(userRepo repository.UserRepository, credRepo repository.CredentialRepository) *AccountService {
	return &AccountService{
		userRepo: userRepo,
		credRepo: credRepo,
	}
}

// SignupInput carries the fields of a signup request.
type SignupInput struct {
	Username    string
	Email       string
	Password    string
	DisplayName string
}

// CreateAccount registers a new user. Username and email uniqueness are
// checked up front and again enforced by database constraints.
func (s *AccountService) CreateAccount(ctx context.Context, in SignupInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(strings.ToLower(in.Email))

	if err := validation.ValidateUsername(username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	if existing, err := s.userRepo.GetByUsername(ctx, username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewConflictError("Username is already taken")
	}
	if existing, err := s.userRepo.GetByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewConflictError("An account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	cred := &models.Credential{
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.credRepo.Create(ctx, cred); err != nil {
		return nil, err
	}

	displayName := strings.TrimSpace(in.DisplayName)
	if displayName == "" {
		displayName = username
	}

	user := &models.User{
		Username:    username,
		Email:       email,
		DisplayName: displayName,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Compensate: remove the credential so the orphaned login cannot
		// be used and the email is free for a retry.
		if delErr := s.credRepo.Delete(ctx, cred.ID); delErr != nil {
			middleware.Logger.Error("Failed to roll back credential after profile create failure",
				slog.String("email", email),
				slog.String("error", delErr.Error()),
			)
		}
		return nil, err
	}

	return user, nil
}

// Authenticate verifies a login by username or email plus password and
// returns the matching user. The same error is returned for an unknown
// identifier and a wrong password.
func (s *AccountService) Authenticate(ctx context.Context, identifier, password string) (*models.User, error) {
	identifier = strings.TrimSpace(identifier)

	user, err := s.userRepo.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}

	cred, err := s.credRepo.GetByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}

	return user, nil
}

// GetProfile returns a user's profile by ID.
func (s *AccountService) GetProfile(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// ProfileUpdate carries the mutable profile fields. Nil means unchanged.
type ProfileUpdate struct {
	DisplayName *string
	Bio         *string
	Avatar      *string
}

// UpdateProfile applies a partial update to the user's own profile.
func (s *AccountService) UpdateProfile(ctx context.Context, userID uint, update ProfileUpdate) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.DisplayName != nil {
		name := strings.TrimSpace(*update.DisplayName)
		if name == "" {
			return nil, models.NewValidationError("Display name cannot be empty")
		}
		user.DisplayName = name
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
	}
	if update.Avatar != nil {
		user.Avatar = *update.Avatar
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
