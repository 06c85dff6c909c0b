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

const commentResource = "Comment"

const selectComment = `
	SELECT c.id, c.reviewid, c.authorid, a.username, c.text, c.pubdate
	FROM social.comment c
	JOIN users.account a ON a.id = c.authorid`

// PostgresCommentRepository implements [CommentRepository] using a pgxpool.
type PostgresCommentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository returns a fully wired postgres implementation.
func NewCommentRepository(pool *pgxpool.Pool) *PostgresCommentRepository {
	return &PostgresCommentRepository{pool: pool}
}

// ListByReview pages through a review's comments, newest first.
func (repository *PostgresCommentRepository) ListByReview(context context.Context, reviewID string, page pagination.Params) ([]*Comment, int, error) {
	var total int
	const countQuery = `SELECT COUNT(*) FROM social.comment WHERE reviewid = $1`
	if err := repository.pool.QueryRow(context, countQuery, reviewID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, commentResource)
	}

	const listQuery = selectComment + `
		WHERE c.reviewid = $1
		ORDER BY c.pubdate DESC, c.id DESC
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(context, listQuery, reviewID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, commentResource)
	}

	comments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Comment, error) {
		return scanComment(row)
	})
	if err != nil {
		return nil, 0, dberr.Wrap(err, commentResource)
	}
	return comments, total, nil
}

// FindByID matches on both ids so a comment is only reachable through its review.
func (repository *PostgresCommentRepository) FindByID(context context.Context, reviewID, commentID string) (*Comment, error) {
	const query = selectComment + ` WHERE c.id = $1 AND c.reviewid = $2`

	comment, err := scanComment(repository.pool.QueryRow(context, query, commentID, reviewID))
	if err != nil {
		return nil, dberr.Wrap(err, commentResource)
	}
	return comment, nil
}

// Create inserts the comment; the database stamps the publication date.
func (repository *PostgresCommentRepository) Create(context context.Context, comment *Comment) error {
	const query = `
		INSERT INTO social.comment (id, reviewid, authorid, text)
		VALUES ($1, $2, $3, $4)
		RETURNING pubdate`

	err := repository.pool.QueryRow(context, query,
		comment.ID, comment.ReviewID, comment.AuthorID, comment.Text,
	).Scan(&comment.PubDate)
	if err != nil {
		return dberr.Wrap(err, commentResource)
	}
	return nil
}

// Update rewrites the text.
func (repository *PostgresCommentRepository) Update(context context.Context, comment *Comment) error {
	tag, err := repository.pool.Exec(context, `UPDATE social.comment SET text = $2 WHERE id = $1`, comment.ID, comment.Text)
	if err != nil {
		return dberr.Wrap(err, commentResource)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(commentResource)
	}
	return nil
}

// Delete removes the comment.
func (repository *PostgresCommentRepository) Delete(context context.Context, commentID string) error {
	tag, err := repository.pool.Exec(context, `DELETE FROM social.comment WHERE id = $1`, commentID)
	if err != nil {
		return dberr.Wrap(err, commentResource)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(commentResource)
	}
	return nil
}

func scanComment(row pgx.Row) (*Comment, error) {
	comment := &Comment{}
	err := row.Scan(
		&comment.ID, &comment.ReviewID, &comment.AuthorID, &comment.Author,
		&comment.Text, &comment.PubDate,
	)
	return comment, err
}
