// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/critiq/internal/core/reference"
	"github.com/taibuivan/critiq/internal/platform/apperr"
	"github.com/taibuivan/critiq/internal/platform/dberr"
	"github.com/taibuivan/critiq/pkg/pagination"
	"github.com/taibuivan/critiq/pkg/slice"
)

const resource = "Title"

/*
selectTitle reads a title with everything a client sees.

The rating joins a per-title aggregate so a title without reviews keeps a
NULL average; genres are folded into a JSON array ordered by name.
*/
const selectTitle = `
	SELECT
		t.id, t.name, t.year, t.description,
		c.name, c.slug,
		r.rating,
		COALESCE((
			SELECT json_agg(json_build_object('name', g.name, 'slug', g.slug) ORDER BY g.name)
			FROM core.titlegenre tg
			JOIN core.genre g ON g.id = tg.genreid
			WHERE tg.titleid = t.id
		), '[]') AS genres,
		COUNT(*) OVER() AS total
	FROM core.title t
	LEFT JOIN core.category c ON c.id = t.categoryid
	LEFT JOIN (
		SELECT titleid, AVG(score)::float8 AS rating
		FROM social.review
		GROUP BY titleid
	) r ON r.titleid = t.id
	WHERE TRUE`

// PostgresRepository implements [Repository] using a pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository returns a fully wired postgres implementation.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
List retrieves a filtered page of titles.

Description: Builds the WHERE clause dynamically; every value travels as a
bind parameter.
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, page pagination.Params) ([]*Title, int, error) {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(selectTitle)

	// Genre: any of the listed slugs
	if len(filter.Genre) > 0 {
		queryBuilder.WriteString(fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM core.titlegenre tg
			JOIN core.genre g ON g.id = tg.genreid
			WHERE tg.titleid = t.id AND g.slug = ANY($%d))`, argID))
		args = append(args, filter.Genre)
		argID++
	}

	if filter.Category != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND c.slug = $%d", argID))
		args = append(args, filter.Category)
		argID++
	}

	if filter.Name != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND strpos(lower(t.name), lower($%d)) > 0", argID))
		args = append(args, filter.Name)
		argID++
	}

	if filter.Year != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND t.year = $%d", argID))
		args = append(args, *filter.Year)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY t.name, t.id LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, page.Limit, page.Offset())

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resource)
	}
	defer rows.Close()

	var titles []*Title
	var total int
	for rows.Next() {
		title, err := scanTitle(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, resource)
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, resource)
	}

	return titles, total, nil
}

// FindByID reads a single title with its rating.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Title, error) {
	var total int
	title, err := scanTitle(repository.pool.QueryRow(context, selectTitle+" AND t.id = $1", id), &total)
	if err != nil {
		return nil, dberr.Wrap(err, resource)
	}
	return title, nil
}

// Create inserts the title row and its genre links in one transaction.
func (repository *PostgresRepository) Create(context context.Context, title *Title) error {
	return pgx.BeginFunc(context, repository.pool, func(transaction pgx.Tx) error {
		const query = `
			INSERT INTO core.title (id, name, year, description, categoryid)
			VALUES ($1, $2, $3, $4, $5)`

		_, err := transaction.Exec(context, query,
			title.ID, title.Name, title.Year, title.Description, categoryID(title),
		)
		if err != nil {
			return dberr.Wrap(err, resource)
		}

		return linkGenres(context, transaction, title)
	})
}

// Update rewrites the title row and swaps its genre links.
func (repository *PostgresRepository) Update(context context.Context, title *Title) error {
	return pgx.BeginFunc(context, repository.pool, func(transaction pgx.Tx) error {
		const query = `
			UPDATE core.title
			SET name = $2, year = $3, description = $4, categoryid = $5
			WHERE id = $1`

		tag, err := transaction.Exec(context, query,
			title.ID, title.Name, title.Year, title.Description, categoryID(title),
		)
		if err != nil {
			return dberr.Wrap(err, resource)
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFound(resource)
		}

		if _, err := transaction.Exec(context, `DELETE FROM core.titlegenre WHERE titleid = $1`, title.ID); err != nil {
			return dberr.Wrap(err, resource)
		}

		return linkGenres(context, transaction, title)
	})
}

// Delete removes the title; reviews and comments cascade.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	tag, err := repository.pool.Exec(context, `DELETE FROM core.title WHERE id = $1`, id)
	if err != nil {
		return dberr.Wrap(err, resource)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(resource)
	}
	return nil
}

func linkGenres(context context.Context, transaction pgx.Tx, title *Title) error {
	if len(title.Genre) == 0 {
		return nil
	}

	genreIDs := slice.Map(title.Genre, func(genre *reference.Entry) string { return genre.ID })

	const query = `
		INSERT INTO core.titlegenre (titleid, genreid)
		SELECT $1, UNNEST($2::uuid[])
		ON CONFLICT DO NOTHING`

	if _, err := transaction.Exec(context, query, title.ID, genreIDs); err != nil {
		return dberr.Wrap(err, "Genre")
	}
	return nil
}

func categoryID(title *Title) *string {
	if title.Category == nil {
		return nil
	}
	return &title.Category.ID
}

func scanTitle(row pgx.Row, total *int) (*Title, error) {
	title := &Title{}
	var categoryName, categorySlug *string

	err := row.Scan(
		&title.ID, &title.Name, &title.Year, &title.Description,
		&categoryName, &categorySlug,
		&title.Rating,
		&title.Genre,
		total,
	)
	if err != nil {
		return nil, err
	}

	if categorySlug != nil {
		title.Category = &reference.Entry{Name: *categoryName, Slug: *categorySlug}
	}
	return title, nil
}
