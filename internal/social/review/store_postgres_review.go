// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/critiq/internal/platform/apperr"
	"github.com/taibuivan/critiq/internal/platform/dberr"
	"github.com/taibuivan/critiq/pkg/pagination"
)

const (
	reviewResource  = "Review"
	uniqueReviewKey = "review_title_author_key"
)

// selectReview joins the author for the username shown to clients.
const selectReview = `
	SELECT r.id, r.titleid, r.authorid, a.username, r.text, r.score, r.pubdate
	FROM social.review r
	JOIN users.account a ON a.id = r.authorid`

// PostgresReviewRepository implements [ReviewRepository] using a pgxpool.
type PostgresReviewRepository struct {
	pool *pgxpool.Pool
}

// NewReviewRepository returns a fully wired postgres implementation.
func NewReviewRepository(pool *pgxpool.Pool) *PostgresReviewRepository {
	return &PostgresReviewRepository{pool: pool}
}

// ListByTitle pages through a title's reviews, newest first.
func (repository *PostgresReviewRepository) ListByTitle(context context.Context, titleID string, page pagination.Params) ([]*Review, int, error) {
	var total int
	const countQuery = `SELECT COUNT(*) FROM social.review WHERE titleid = $1`
	if err := repository.pool.QueryRow(context, countQuery, titleID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, reviewResource)
	}

	const listQuery = selectReview + `
		WHERE r.titleid = $1
		ORDER BY r.pubdate DESC, r.id DESC
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(context, listQuery, titleID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, reviewResource)
	}

	reviews, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Review, error) {
		return scanReview(row)
	})
	if err != nil {
		return nil, 0, dberr.Wrap(err, reviewResource)
	}
	return reviews, total, nil
}

// FindByID matches on both ids so a review is only reachable through its title.
func (repository *PostgresReviewRepository) FindByID(context context.Context, titleID, reviewID string) (*Review, error) {
	const query = selectReview + ` WHERE r.id = $1 AND r.titleid = $2`

	review, err := scanReview(repository.pool.QueryRow(context, query, reviewID, titleID))
	if err != nil {
		return nil, dberr.Wrap(err, reviewResource)
	}
	return review, nil
}

// Create inserts the review; the database stamps the publication date.
func (repository *PostgresReviewRepository) Create(context context.Context, review *Review) error {
	const query = `
		INSERT INTO social.review (id, titleid, authorid, text, score)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING pubdate`

	err := repository.pool.QueryRow(context, query,
		review.ID, review.TitleID, review.AuthorID, review.Text, review.Score,
	).Scan(&review.PubDate)
	if err != nil {
		if dberr.IsUniqueViolation(err, uniqueReviewKey) {
			return apperr.Conflict("You have already reviewed this title")
		}
		return dberr.Wrap(err, reviewResource)
	}
	return nil
}

// Update rewrites the mutable fields.
func (repository *PostgresReviewRepository) Update(context context.Context, review *Review) error {
	const query = `UPDATE social.review SET text = $2, score = $3 WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, review.ID, review.Text, review.Score)
	if err != nil {
		return dberr.Wrap(err, reviewResource)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(reviewResource)
	}
	return nil
}

// Delete removes the review; comments cascade.
func (repository *PostgresReviewRepository) Delete(context context.Context, reviewID string) error {
	tag, err := repository.pool.Exec(context, `DELETE FROM social.review WHERE id = $1`, reviewID)
	if err != nil {
		return dberr.Wrap(err, reviewResource)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(reviewResource)
	}
	return nil
}

func scanReview(row pgx.Row) (*Review, error) {
	review := &Review{}
	err := row.Scan(
		&review.ID, &review.TitleID, &review.AuthorID, &review.Author,
		&review.Text, &review.Score, &review.PubDate,
	)
	return review, err
}
