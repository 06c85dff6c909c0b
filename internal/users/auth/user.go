// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements passwordless sign-in.

An account moves through three states:

	Unregistered → PendingConfirmation → Active

Requesting a code creates the pending account when needed, stores a bcrypt
hash of a fresh random code on it (replacing any previous one) and mails the
plain code. Exchanging a matching (email, code) pair activates the account
and returns a signed access/refresh token pair. Active accounts sign in again
by requesting a new code.

The [User] entity defined here is shared with the account package.
*/
package auth

import (
	"strings"
	"time"

	"github.com/taibuivan/critiq/internal/platform/sec"
)

// # Domain Entities

// User is a member of the platform.
type User struct {
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Bio       string   `json:"bio"`
	Role      sec.Role `json:"role"`

	// IsStaff marks operator accounts; they administer regardless of Role.
	IsStaff  bool `json:"-"`
	IsActive bool `json:"is_active"`

	// ConfirmationCode is the bcrypt hash of the last issued code, "" until issued.
	ConfirmationCode string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Identity returns the claims carried by this user's tokens.
func (user *User) Identity() sec.Identity {
	return sec.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		Staff:    user.IsStaff,
	}
}

// IsAdmin reports whether the user may manage accounts and the catalogue.
func (user *User) IsAdmin() bool {
	return sec.CanAdminister(user.Role, user.IsStaff)
}

// IsModerator reports whether the user holds the moderator role.
func (user *User) IsModerator() bool {
	return user.Role == sec.RoleModerator
}

// NormalizeEmail lowercases and trims an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// DefaultUsername derives a valid username from an email: characters outside
// letters, digits and @ . + - _ become underscores and the result is cut to
// [MaxUsernameLen].
func DefaultUsername(email string) string {
	name := []rune(email)
	if len(name) > MaxUsernameLen {
		name = name[:MaxUsernameLen]
	}
	for i, r := range name {
		if !isUsernameRune(r) {
			name[i] = '_'
		}
	}
	return string(name)
}

func isUsernameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	default:
		return strings.ContainsRune("@.+-_", r)
	}
}

// # Field Identifiers

const (
	FieldUsername         = "username"
	FieldEmail            = "email"
	FieldConfirmationCode = "confirmation_code"
	FieldRefresh          = "refresh"
	FieldFirstName        = "first_name"
	FieldLastName         = "last_name"
	FieldBio              = "bio"
	FieldRole             = "role"
)

// # Constraints

const (
	MaxUsernameLen = 150
	MaxEmailLen    = 254
	MaxNameLen     = 150
	MaxBioLen      = 750

	// codeBytes of entropy yield a 32 character URL-safe code.
	codeBytes = 24
)
