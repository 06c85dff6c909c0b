// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/critiq/internal/platform/sec"
	"github.com/taibuivan/critiq/internal/platform/validate"
	"github.com/taibuivan/critiq/internal/users/auth"
	"github.com/taibuivan/critiq/pkg/pagination"
	"github.com/taibuivan/critiq/pkg/pointer"
	"github.com/taibuivan/critiq/pkg/uuid"
)

// # Service Layer

// Service implements account administration and self-service profiles.
//
// Authorization is applied by the router: every method except [Service.Me]
// and [Service.UpdateMe] is mounted behind the admin-only policy.
type Service struct {
	accountRepository AccountRepository
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(accountRepo AccountRepository, logger *slog.Logger) *Service {
	return &Service{accountRepository: accountRepo, logger: logger}
}

// # Inputs

// CreateInput holds the fields an administrator sets on a new account.
type CreateInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Bio       string

	// Role defaults to [sec.RoleUser] when nil.
	Role *sec.Role
}

// UpdateInput is a partial update; nil fields are left unchanged.
type UpdateInput struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *sec.Role
}

// ProfileInput is the subset of [UpdateInput] a user may apply to themselves.
type ProfileInput struct {
	Username  *string
	FirstName *string
	LastName  *string
	Bio       *string
}

// # Administration

// List returns one page of accounts.
func (service *Service) List(context context.Context, filter ListFilter, page pagination.Params) ([]*auth.User, int, error) {
	filter.Search = strings.TrimSpace(filter.Search)

	users, total, err := service.accountRepository.List(context, filter, page)
	if err != nil {
		return nil, 0, fmt.Errorf("account_service_list_failed: %w", err)
	}
	return users, total, nil
}

/*
Create registers an account on behalf of an administrator.

Description: The account starts inactive, exactly like a self-registered one,
and becomes active on its first confirmation-code exchange.

Returns:
  - error: ValidationError or Conflict
*/
func (service *Service) Create(context context.Context, input CreateInput) (*auth.User, error) {
	user := &auth.User{
		ID:        uuid.New(),
		Username:  strings.TrimSpace(input.Username),
		Email:     auth.NormalizeEmail(input.Email),
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      pointer.Fallback(input.Role, sec.RoleUser),
	}

	validator := &validate.Validator{}
	validator.Required(auth.FieldUsername, user.Username).
		Required(auth.FieldEmail, user.Email)
	validateUser(validator, user)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.accountRepository.Create(context, user); err != nil {
		return nil, fmt.Errorf("account_service_create_failed: %w", err)
	}

	service.logger.InfoContext(context, "user_created",
		slog.String("user_id", user.ID),
		slog.String("role", user.Role.String()),
	)
	return user, nil
}

// Get returns the account with the given username.
func (service *Service) Get(context context.Context, username string) (*auth.User, error) {
	user, err := service.accountRepository.FindByUsername(context, username)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_failed: %w", err)
	}
	return user, nil
}

/*
Update applies an administrator's partial update, role included.

Returns:
  - error: NotFound, ValidationError or Conflict
*/
func (service *Service) Update(context context.Context, username string, input UpdateInput) (*auth.User, error) {
	user, err := service.accountRepository.FindByUsername(context, username)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_lookup_failed: %w", err)
	}

	previousRole := user.Role
	applyProfile(user, ProfileInput{
		Username:  input.Username,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
	})
	if input.Email != nil {
		user.Email = auth.NormalizeEmail(*input.Email)
	}
	user.Role = pointer.Fallback(input.Role, user.Role)

	validator := &validate.Validator{}
	validateUser(validator, user)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.accountRepository.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	if user.Role != previousRole {
		service.logger.InfoContext(context, "user_role_changed",
			slog.String("user_id", user.ID),
			slog.String("from", previousRole.String()),
			slog.String("to", user.Role.String()),
		)
	}
	return user, nil
}

// Delete removes the account with the given username along with its content.
func (service *Service) Delete(context context.Context, username string) error {
	user, err := service.accountRepository.FindByUsername(context, username)
	if err != nil {
		return fmt.Errorf("account_service_delete_lookup_failed: %w", err)
	}

	if err := service.accountRepository.Delete(context, user.ID); err != nil {
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}

	service.logger.InfoContext(context, "user_deleted", slog.String("user_id", user.ID))
	return nil
}

// # Self Service

// Me returns the caller's own account.
func (service *Service) Me(context context.Context, userID string) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_me_failed: %w", err)
	}
	return user, nil
}

/*
UpdateMe applies a partial update to the caller's own profile.

Description: Role and email are not part of [ProfileInput]; they can only be
changed by an administrator.
*/
func (service *Service) UpdateMe(context context.Context, userID string, input ProfileInput) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_me_lookup_failed: %w", err)
	}

	applyProfile(user, input)

	validator := &validate.Validator{}
	validateUser(validator, user)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.accountRepository.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_service_update_me_failed: %w", err)
	}

	service.logger.InfoContext(context, "user_profile_updated", slog.String("user_id", userID))
	return user, nil
}

// # Helpers

func applyProfile(user *auth.User, input ProfileInput) {
	user.Username = strings.TrimSpace(pointer.Fallback(input.Username, user.Username))
	user.FirstName = pointer.Fallback(input.FirstName, user.FirstName)
	user.LastName = pointer.Fallback(input.LastName, user.LastName)
	user.Bio = pointer.Fallback(input.Bio, user.Bio)
}

// validateUser checks the full resulting state, so partial updates cannot
// leave an account invalid.
func validateUser(validator *validate.Validator, user *auth.User) {
	validator.MaxLen(auth.FieldUsername, user.Username, auth.MaxUsernameLen).
		Username(auth.FieldUsername, user.Username).
		MaxLen(auth.FieldEmail, user.Email, auth.MaxEmailLen).
		Email(auth.FieldEmail, user.Email).
		MaxLen(auth.FieldFirstName, user.FirstName, auth.MaxNameLen).
		MaxLen(auth.FieldLastName, user.LastName, auth.MaxNameLen).
		MaxLen(auth.FieldBio, user.Bio, auth.MaxBioLen).
		Custom(auth.FieldRole, !user.Role.Valid(), "Must be one of: "+strings.Join(sec.RoleNames(), ", "))
}
