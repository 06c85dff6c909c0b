// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/critiq/internal/platform/apperr"
	"github.com/taibuivan/critiq/internal/platform/database/schema"
	"github.com/taibuivan/critiq/internal/platform/dberr"
	"github.com/taibuivan/critiq/internal/platform/sec"
)

// ScanUser hydrates a [User] from a row selected with [schema.UserAccountTable.SelectList].
func ScanUser(row pgx.Row) (*User, error) {
	user := &User{}
	var role string

	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &role, &user.IsStaff, &user.IsActive,
		&user.ConfirmationCode, &user.FirstName, &user.LastName, &user.Bio,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if user.Role, err = sec.ParseRole(role); err != nil {
		return nil, fmt.Errorf("scan_user_role: %w", err)
	}
	return user, nil
}

// # User Repository

// PostgresUserRepository implements [UserRepository] on users.account.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// FindByID selects one account by primary key.
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.UserAccount.SelectList(), schema.UserAccount.Table, schema.UserAccount.ID)

	user, err := ScanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}
	return user, nil
}

// FindByEmail selects one account by its unique email.
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.UserAccount.SelectList(), schema.UserAccount.Table, schema.UserAccount.Email)

	user, err := ScanUser(repository.pool.QueryRow(context, query, email))
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}
	return user, nil
}

/*
UpsertPending inserts the pending account or, when the email is already
registered, only overwrites its confirmation code.

Existing accounts keep their username, role and activation state.
*/
func (repository *PostgresUserRepository) UpsertPending(context context.Context, user *User, codeHash string) (*User, error) {
	query := `
		INSERT INTO users.account (id, username, email, role, isactive, confirmationcode)
		VALUES ($1, $2, $3, $4, FALSE, $5)
		ON CONFLICT (email) DO UPDATE
		SET confirmationcode = EXCLUDED.confirmationcode,
		    updatedat        = NOW()
		RETURNING ` + schema.UserAccount.SelectList()

	stored, err := ScanUser(repository.pool.QueryRow(context, query,
		user.ID, user.Username, user.Email, sec.RoleUser.String(), codeHash,
	))
	if err != nil {
		if dberr.IsUniqueViolation(err, schema.UserAccount.UsernameKey) {
			return nil, apperr.Conflict("Username is already taken")
		}
		return nil, dberr.Wrap(err, "User")
	}
	return stored, nil
}

// Activate flips isactive on.
func (repository *PostgresUserRepository) Activate(context context.Context, id string) error {
	const query = `UPDATE users.account SET isactive = TRUE, updatedat = NOW() WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "User")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}
