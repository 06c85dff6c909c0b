// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository is the persistence contract of the sign-in flow.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Returns:
		  - error: apperr.NotFound when absent
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account registered with a normalised email.

		Returns:
		  - error: apperr.NotFound when absent
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		UpsertPending stores codeHash on the account owning user.Email, creating
		the account from user (inactive, role user) when none exists.

		The write is a single statement, so concurrent requests for the same
		email leave exactly one account holding the last written hash.

		Returns:
		  - *User: The stored account
		  - error: apperr.Conflict if a new account's username is taken
	*/
	UpsertPending(context context.Context, user *User, codeHash string) (*User, error)

	/*
		Activate marks the account as active.

		Returns:
		  - error: apperr.NotFound when absent
	*/
	Activate(context context.Context, id string) error
}

// # Resend Throttle

// CodeThrottle limits how often a code may be requested for one email.
type CodeThrottle interface {

	/*
		Acquire opens the resend window for email.

		Returns:
		  - time.Duration: 0 when acquired, otherwise the time left in the open window
		  - error: Connectivity failures
	*/
	Acquire(context context.Context, email string) (time.Duration, error)

	/*
		Release closes the window early, typically after a failed delivery.
	*/
	Release(context context.Context, email string) error
}
