// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/critiq/internal/platform/apperr"
	"github.com/taibuivan/critiq/internal/platform/dberr"
	"github.com/taibuivan/critiq/pkg/pagination"
)

// PostgresRepository implements [Repository] using a pgxpool.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository returns a fully wired postgres implementation.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

/*
List retrieves one page of a taxonomy ordered by name.

Description: The table name comes from [Kind], never from user input. The
search is a literal case-insensitive substring match.
*/
func (repository *PostgresRepository) List(context context.Context, kind Kind, search string, page pagination.Params) ([]*Entry, int, error) {
	const filter = `($1 = '' OR strpos(lower(name), lower($1)) > 0)`

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s`, kind.table, filter)
	if err := repository.db.QueryRow(context, countQuery, search).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, kind.Resource)
	}

	listQuery := fmt.Sprintf(`
		SELECT id, name, slug
		FROM %s
		WHERE %s
		ORDER BY name, slug
		LIMIT $2 OFFSET $3`, kind.table, filter)

	rows, err := repository.db.Query(context, listQuery, search, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, kind.Resource)
	}

	entries, err := collectEntries(rows)
	if err != nil {
		return nil, 0, dberr.Wrap(err, kind.Resource)
	}
	return entries, total, nil
}

// FindBySlug performs a direct lookup on the unique slug.
func (repository *PostgresRepository) FindBySlug(context context.Context, kind Kind, slug string) (*Entry, error) {
	query := fmt.Sprintf(`SELECT id, name, slug FROM %s WHERE slug = $1`, kind.table)

	entry := &Entry{}
	err := repository.db.QueryRow(context, query, slug).Scan(&entry.ID, &entry.Name, &entry.Slug)
	if err != nil {
		return nil, dberr.Wrap(err, kind.Resource)
	}
	return entry, nil
}

// FindBySlugs resolves many slugs in one round trip.
func (repository *PostgresRepository) FindBySlugs(context context.Context, kind Kind, slugs []string) ([]*Entry, error) {
	if len(slugs) == 0 {
		return []*Entry{}, nil
	}

	query := fmt.Sprintf(`SELECT id, name, slug FROM %s WHERE slug = ANY($1) ORDER BY name`, kind.table)

	rows, err := repository.db.Query(context, query, slugs)
	if err != nil {
		return nil, dberr.Wrap(err, kind.Resource)
	}

	entries, err := collectEntries(rows)
	if err != nil {
		return nil, dberr.Wrap(err, kind.Resource)
	}
	return entries, nil
}

// Create inserts the entry; a duplicate slug is a Conflict.
func (repository *PostgresRepository) Create(context context.Context, kind Kind, entry *Entry) error {
	query := fmt.Sprintf(`INSERT INTO %s (id, name, slug) VALUES ($1, $2, $3)`, kind.table)

	if _, err := repository.db.Exec(context, query, entry.ID, entry.Name, entry.Slug); err != nil {
		if dberr.IsUniqueViolation(err, kind.slugKey) {
			return apperr.Conflict(fmt.Sprintf("%s with slug %q already exists", kind.Resource, entry.Slug))
		}
		return dberr.Wrap(err, kind.Resource)
	}
	return nil
}

// DeleteBySlug removes the entry; foreign keys handle the titles.
func (repository *PostgresRepository) DeleteBySlug(context context.Context, kind Kind, slug string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE slug = $1`, kind.table)

	tag, err := repository.db.Exec(context, query, slug)
	if err != nil {
		return dberr.Wrap(err, kind.Resource)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(kind.Resource)
	}
	return nil
}

func collectEntries(rows pgx.Rows) ([]*Entry, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Entry, error) {
		entry := &Entry{}
		err := row.Scan(&entry.ID, &entry.Name, &entry.Slug)
		return entry, err
	})
}
