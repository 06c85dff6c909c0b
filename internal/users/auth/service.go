// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/taibuivan/critiq/internal/platform/apperr"
	"github.com/taibuivan/critiq/internal/platform/mailer"
	"github.com/taibuivan/critiq/internal/platform/sec"
	"github.com/taibuivan/critiq/internal/platform/validate"
	"github.com/taibuivan/critiq/pkg/uuid"
)

const (
	codeMailSubject = "Critiq confirmation code"
	codeMailBody    = "confirmation_code: %s\n\nUse this code with your email to obtain an access token.\n"
)

// # Contracts & Types

// TokenIssuer signs and verifies the tokens handed out by the service.
type TokenIssuer interface {
	IssuePair(identity sec.Identity) (*sec.TokenPair, error)
	IssueAccess(identity sec.Identity) (string, time.Time, error)
	VerifyRefreshToken(tokenString string) (*sec.AuthClaims, error)
}

// Service implements the confirmation-code sign-in flow.
type Service struct {
	userRepository UserRepository
	throttle       CodeThrottle
	sender         mailer.Sender
	tokens         TokenIssuer
	logger         *slog.Logger
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	throttle CodeThrottle,
	sender mailer.Sender,
	tokens TokenIssuer,
	logger *slog.Logger,
) *Service {
	return &Service{
		userRepository: userRepo,
		throttle:       throttle,
		sender:         sender,
		tokens:         tokens,
		logger:         logger,
	}
}

// # Code Request

// SignupInput carries a confirmation-code request.
type SignupInput struct {
	Email string

	// Username is optional and only applies when the account is created.
	// It defaults to [DefaultUsername] of the email.
	Username string
}

/*
RequestCode issues a fresh confirmation code for an email and mails it.

Description: Creates the pending account if missing, replaces the stored code
hash (invalidating any earlier code) and delivers the plain code. A second
request inside the resend window is rejected.

Returns:
  - *User: The pending or active account the code was issued for
  - error: ValidationError, Conflict (username taken), RateLimited or DeliveryFailed
*/
func (service *Service) RequestCode(context context.Context, input SignupInput) (*User, error) {
	email := NormalizeEmail(input.Email)

	validator := &validate.Validator{}
	validator.Required(FieldEmail, email).
		MaxLen(FieldEmail, email, MaxEmailLen).
		Email(FieldEmail, email)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// A supplied username only matters when the account is created
	username := DefaultUsername(email)
	if input.Username != "" {
		_, err := service.userRepository.FindByEmail(context, email)
		switch {
		case err == nil:
		case apperr.IsNotFound(err):
			username = input.Username
			validator.MaxLen(FieldUsername, username, MaxUsernameLen).
				Username(FieldUsername, username)
			if err := validator.Err(); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("auth_service_signup_lookup_failed: %w", err)
		}
	}

	// 1. Resend window
	wait, err := service.throttle.Acquire(context, email)
	if err != nil {
		return nil, fmt.Errorf("auth_service_throttle_failed: %w", err)
	}
	if wait > 0 {
		return nil, apperr.RateLimited(int(math.Ceil(wait.Seconds())))
	}

	// 2. Fresh code; only its hash is stored
	code, err := sec.GenerateSecureToken(codeBytes)
	if err != nil {
		service.release(context, email)
		return nil, fmt.Errorf("auth_service_code_generation_failed: %w", err)
	}
	codeHash, err := sec.HashSecret(code)
	if err != nil {
		service.release(context, email)
		return nil, fmt.Errorf("auth_service_code_hash_failed: %w", err)
	}

	// 3. Create-or-overwrite in one statement
	user, err := service.userRepository.UpsertPending(context, &User{
		ID:       uuid.New(),
		Username: username,
		Email:    email,
		Role:     sec.RoleUser,
	}, codeHash)
	if err != nil {
		service.release(context, email)
		return nil, fmt.Errorf("auth_service_upsert_failed: %w", err)
	}

	// 4. Delivery is part of the request; a failure is reported to the caller
	if err := service.sender.Send(context, email, codeMailSubject, fmt.Sprintf(codeMailBody, code)); err != nil {
		service.release(context, email)
		service.logger.WarnContext(context, "confirmation_code_delivery_failed",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
		return nil, apperr.DeliveryFailed(err)
	}

	service.logger.InfoContext(context, "confirmation_code_issued",
		slog.String("user_id", user.ID),
		slog.Bool("active", user.IsActive),
	)

	return user, nil
}

// release reopens the resend window; a failure only delays the next request.
func (service *Service) release(context context.Context, email string) {
	if err := service.throttle.Release(context, email); err != nil {
		service.logger.WarnContext(context, "code_throttle_release_failed", slog.Any("error", err))
	}
}

// # Code Exchange

// TokenInput carries a code exchange.
type TokenInput struct {
	Email            string
	ConfirmationCode string
}

/*
ExchangeCode trades a matching (email, code) pair for a token pair.

Description: The first successful exchange activates a pending account. A
mismatch changes nothing. The code stays valid until a new one is requested.

Returns:
  - *sec.TokenPair: Access and refresh tokens
  - error: ValidationError (bad input or wrong code) or NotFound (unknown email)
*/
func (service *Service) ExchangeCode(context context.Context, input TokenInput) (*sec.TokenPair, error) {
	email := NormalizeEmail(input.Email)

	validator := &validate.Validator{}
	validator.Required(FieldEmail, email).
		Email(FieldEmail, email).
		Required(FieldConfirmationCode, input.ConfirmationCode)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		return nil, fmt.Errorf("auth_service_exchange_lookup_failed: %w", err)
	}

	if !sec.CheckSecretHash(input.ConfirmationCode, user.ConfirmationCode) {
		return nil, validate.FieldError(FieldConfirmationCode, "Invalid confirmation code")
	}

	if !user.IsActive {
		if err := service.userRepository.Activate(context, user.ID); err != nil {
			return nil, fmt.Errorf("auth_service_activate_failed: %w", err)
		}
		user.IsActive = true
		service.logger.InfoContext(context, "user_activated", slog.String("user_id", user.ID))
	}

	pair, err := service.tokens.IssuePair(user.Identity())
	if err != nil {
		return nil, fmt.Errorf("auth_service_issue_tokens_failed: %w", err)
	}

	return pair, nil
}

// # Token Refresh

/*
Refresh mints a new access token from a refresh token.

Description: The account is reloaded so role changes and deactivation take
effect on the next refresh.

Returns:
  - string: Signed access token
  - time.Time: Its expiry
  - error: Unauthorized for invalid tokens or unusable accounts
*/
func (service *Service) Refresh(context context.Context, refreshToken string) (string, time.Time, error) {
	if err := (&validate.Validator{}).Required(FieldRefresh, refreshToken).Err(); err != nil {
		return "", time.Time{}, err
	}

	claims, err := service.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return "", time.Time{}, apperr.Unauthorized("Invalid or expired refresh token")
	}

	user, err := service.activeUser(context, claims.UserID)
	if err != nil {
		return "", time.Time{}, err
	}

	access, expiresAt, err := service.tokens.IssueAccess(user.Identity())
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth_service_issue_access_failed: %w", err)
	}
	return access, expiresAt, nil
}

// # Identity Resolution

/*
ResolveIdentity loads the current identity of a token holder.

Description: Tokens only name the account; role, staff flag and activity are
read from the store on every request, so a demotion or deletion takes effect
immediately.

Returns:
  - sec.Identity: The stored identity
  - error: Unauthorized when the account is gone or inactive
*/
func (service *Service) ResolveIdentity(context context.Context, userID string) (sec.Identity, error) {
	user, err := service.activeUser(context, userID)
	if err != nil {
		return sec.Identity{}, err
	}
	return user.Identity(), nil
}

// activeUser loads the account behind a token and rejects unusable ones.
func (service *Service) activeUser(context context.Context, userID string) (*User, error) {
	if !uuid.Valid(userID) {
		return nil, apperr.Unauthorized("Invalid or expired token")
	}

	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized("Account no longer exists")
		}
		return nil, fmt.Errorf("auth_service_identity_lookup_failed: %w", err)
	}
	if !user.IsActive {
		return nil, apperr.Unauthorized("Account is not active")
	}
	return user, nil
}
