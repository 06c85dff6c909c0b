// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account manages user accounts after they exist.

Administrators list, create, edit and delete accounts by username under
/users. Any authenticated user reads and edits their own profile under
/users/me, where role and email are read-only.

The [auth.User] entity is shared with the sign-in flow.
*/
package account

import (
	"context"

	"github.com/taibuivan/critiq/internal/users/auth"
	"github.com/taibuivan/critiq/pkg/pagination"
)

// ListFilter narrows an account listing.
type ListFilter struct {
	// Search matches a case-insensitive substring of the username.
	Search string
}

// # Repository Contracts

// AccountRepository defines the persistence contract for user accounts.
type AccountRepository interface {

	/*
		List returns one page of accounts ordered by username, and the total
		number of accounts matching filter.
	*/
	List(context context.Context, filter ListFilter, page pagination.Params) ([]*auth.User, int, error)

	/*
		FindByID retrieves an account by primary key.

		Returns:
		  - error: apperr.NotFound when absent
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	/*
		FindByUsername retrieves an account by its unique username.

		Returns:
		  - error: apperr.NotFound when absent
	*/
	FindByUsername(context context.Context, username string) (*auth.User, error)

	/*
		Create inserts a new account.

		Returns:
		  - error: apperr.Conflict when the username or email is taken
	*/
	Create(context context.Context, user *auth.User) error

	/*
		Update writes every mutable field (username, email, names, bio, role).

		Returns:
		  - error: apperr.NotFound or apperr.Conflict
	*/
	Update(context context.Context, user *auth.User) error

	/*
		Delete removes the account. Its reviews and comments are removed with it.

		Returns:
		  - error: apperr.NotFound when absent
	*/
	Delete(context context.Context, id string) error
}
