// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/critiq/internal/platform/apperr"
	"github.com/taibuivan/critiq/internal/platform/database/schema"
	"github.com/taibuivan/critiq/internal/platform/dberr"
	"github.com/taibuivan/critiq/internal/users/auth"
	"github.com/taibuivan/critiq/pkg/pagination"
)

// PostgresAccountRepository implements [AccountRepository] using pgxpool.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository returns a fully wired postgres implementation.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

// # AccountRepository Methods

/*
List pages through accounts ordered by username.

Description: Runs a COUNT and a page query with the same filter; the search
term is matched literally and case-insensitively, so % and _ are plain characters.
*/
func (repository *PostgresAccountRepository) List(context context.Context, filter ListFilter, page pagination.Params) ([]*auth.User, int, error) {
	where := fmt.Sprintf(`($1 = '' OR strpos(lower(%s), lower($1)) > 0)`, schema.UserAccount.Username)

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s`, schema.UserAccount.Table, where)
	var total int
	if err := repository.pool.QueryRow(context, countQuery, filter.Search).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "User")
	}

	listQuery := fmt.Sprintf(`SELECT %s FROM %s WHERE %s ORDER BY %s LIMIT $2 OFFSET $3`,
		schema.UserAccount.SelectList(), schema.UserAccount.Table, where, schema.UserAccount.Username)

	rows, err := repository.pool.Query(context, listQuery, filter.Search, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "User")
	}
	defer rows.Close()

	users := make([]*auth.User, 0, page.Limit)
	for rows.Next() {
		user, err := auth.ScanUser(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "User")
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "User")
	}

	return users, total, nil
}

// FindByID selects one account by primary key.
func (repository *PostgresAccountRepository) FindByID(context context.Context, id string) (*auth.User, error) {
	return repository.findBy(context, schema.UserAccount.ID, id)
}

// FindByUsername selects one account by username.
func (repository *PostgresAccountRepository) FindByUsername(context context.Context, username string) (*auth.User, error) {
	return repository.findBy(context, schema.UserAccount.Username, username)
}

func (repository *PostgresAccountRepository) findBy(context context.Context, column, value string) (*auth.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.UserAccount.SelectList(), schema.UserAccount.Table, column)

	user, err := auth.ScanUser(repository.pool.QueryRow(context, query, value))
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}
	return user, nil
}

/*
Create inserts the account and fills in its server-side timestamps.
*/
func (repository *PostgresAccountRepository) Create(context context.Context, user *auth.User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s, %s`,
		schema.UserAccount.Table,
		schema.UserAccount.ID, schema.UserAccount.Username, schema.UserAccount.Email,
		schema.UserAccount.Role, schema.UserAccount.IsActive, schema.UserAccount.FirstName,
		schema.UserAccount.LastName, schema.UserAccount.Bio, schema.UserAccount.IsStaff,
		schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		user.ID, user.Username, user.Email, user.Role.String(), user.IsActive,
		user.FirstName, user.LastName, user.Bio, user.IsStaff,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	return uniqueOrWrap(err)
}

/*
Update overwrites the mutable fields and bumps updatedat.
*/
func (repository *PostgresAccountRepository) Update(context context.Context, user *auth.User) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		schema.UserAccount.Table,
		schema.UserAccount.Username, schema.UserAccount.Email, schema.UserAccount.FirstName,
		schema.UserAccount.LastName, schema.UserAccount.Bio, schema.UserAccount.Role,
		schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
		schema.UserAccount.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		user.ID, user.Username, user.Email, user.FirstName, user.LastName, user.Bio, user.Role.String(),
	).Scan(&user.UpdatedAt)

	return uniqueOrWrap(err)
}

// Delete removes the row; foreign keys cascade to reviews and comments.
func (repository *PostgresAccountRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.UserAccount.Table, schema.UserAccount.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "User")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}

// uniqueOrWrap names the duplicated field in Conflict messages.
func uniqueOrWrap(err error) error {
	switch {
	case err == nil:
		return nil
	case dberr.IsUniqueViolation(err, schema.UserAccount.UsernameKey):
		return apperr.Conflict("Username is already taken")
	case dberr.IsUniqueViolation(err, schema.UserAccount.EmailKey):
		return apperr.Conflict("Email is already registered")
	default:
		return dberr.Wrap(err, "User")
	}
}
