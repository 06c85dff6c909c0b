// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

//go:build integration

package title_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/critiq/internal/access"
	"github.com/taibuivan/critiq/internal/core/reference"
	"github.com/taibuivan/critiq/internal/core/title"
	"github.com/taibuivan/critiq/internal/platform/apperr"
	"github.com/taibuivan/critiq/internal/platform/postgres/pgtest"
	"github.com/taibuivan/critiq/internal/platform/sec"
	"github.com/taibuivan/critiq/internal/social/review"
	"github.com/taibuivan/critiq/pkg/pagination"
	"github.com/taibuivan/critiq/pkg/pointer"
)

/*
TestPostgres_CatalogueLifecycle runs the catalogue against a real schema:
rating aggregation, category set-null and title cascade.
*/
func TestPostgres_CatalogueLifecycle(t *testing.T) {
	pool := pgtest.Start(t)
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	references := reference.NewService(reference.NewPostgresRepository(pool), logger)
	titles := title.NewService(title.NewPostgresRepository(pool), references, logger, time.Now)
	reviews := review.NewService(review.NewReviewRepository(pool), review.NewCommentRepository(pool), titles, logger)

	_, err := references.Create(ctx, reference.Category, reference.CreateInput{Name: "Film", Slug: "film"})
	require.NoError(t, err)
	for _, name := range []string{"Drama", "Science Fiction"} {
		_, err := references.Create(ctx, reference.Genre, reference.CreateInput{Name: name, Slug: name})
		require.NoError(t, err)
	}

	solaris, err := titles.Create(ctx, title.CreateInput{
		Name:     "Solaris",
		Year:     pointer.To(1972),
		Genre:    []string{"drama", "science-fiction"},
		Category: "film",
	})
	require.NoError(t, err)
	assert.Nil(t, solaris.Rating)
	assert.Len(t, solaris.Genre, 2)

	// Rating follows the committed reviews
	first := access.As(sec.Identity{UserID: pgtest.CreateUser(t, pool, "first"), Role: sec.RoleUser})
	second := access.As(sec.Identity{UserID: pgtest.CreateUser(t, pool, "second"), Role: sec.RoleUser})

	_, err = reviews.CreateReview(ctx, first, solaris.ID, review.ReviewInput{Text: pointer.To("Good"), Score: pointer.To(8)})
	require.NoError(t, err)
	ten, err := reviews.CreateReview(ctx, second, solaris.ID, review.ReviewInput{Text: pointer.To("Best"), Score: pointer.To(10)})
	require.NoError(t, err)

	read, err := titles.Get(ctx, solaris.ID)
	require.NoError(t, err)
	require.NotNil(t, read.Rating)
	assert.InDelta(t, 9.0, *read.Rating, 1e-9)

	_, err = reviews.CreateReview(ctx, second, solaris.ID, review.ReviewInput{Text: pointer.To("Again"), Score: pointer.To(1)})
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)

	_, err = reviews.CreateComment(ctx, first, solaris.ID, ten.ID, "Too generous.")
	require.NoError(t, err)

	require.NoError(t, reviews.DeleteReview(ctx, second, solaris.ID, ten.ID))
	read, err = titles.Get(ctx, solaris.ID)
	require.NoError(t, err)
	assert.InDelta(t, 8.0, *read.Rating, 1e-9)

	// Filters
	listed, total, err := titles.List(ctx, title.Filter{Genre: []string{"science-fiction"}, Year: pointer.To(1972)}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, solaris.ID, listed[0].ID)

	_, total, err = titles.List(ctx, title.Filter{Category: "novel"}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)

	// Deleting the category keeps the title
	require.NoError(t, references.Delete(ctx, reference.Category, "film"))
	read, err = titles.Get(ctx, solaris.ID)
	require.NoError(t, err)
	assert.Nil(t, read.Category)

	// Deleting the title removes its reviews and comments
	require.NoError(t, titles.Delete(ctx, solaris.ID))

	var remaining int
	require.NoError(t, pool.QueryRow(ctx, `SELECT (SELECT COUNT(*) FROM social.review) + (SELECT COUNT(*) FROM social.comment)`).Scan(&remaining))
	assert.Zero(t, remaining)
}

/*
TestPostgres_SlugUniquenessPerKind allows one slug per kind.
*/
func TestPostgres_SlugUniquenessPerKind(t *testing.T) {
	pool := pgtest.Start(t)
	ctx := context.Background()
	references := reference.NewService(reference.NewPostgresRepository(pool), slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := references.Create(ctx, reference.Genre, reference.CreateInput{Name: "Music", Slug: "music"})
	require.NoError(t, err)

	_, err = references.Create(ctx, reference.Genre, reference.CreateInput{Name: "Musical", Slug: "music"})
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)

	_, err = references.Create(ctx, reference.Category, reference.CreateInput{Name: "Music", Slug: "music"})
	assert.NoError(t, err)
}

/*
TestPostgres_SearchIsLiteral treats % and _ in search terms as plain characters.
*/
func TestPostgres_SearchIsLiteral(t *testing.T) {
	pool := pgtest.Start(t)
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	page := pagination.Params{Page: 1, Limit: 10}

	references := reference.NewService(reference.NewPostgresRepository(pool), logger)
	titles := title.NewService(title.NewPostgresRepository(pool), references, logger, time.Now)

	for _, name := range []string{"100% Drama", "Comedy"} {
		_, err := references.Create(ctx, reference.Genre, reference.CreateInput{Name: name})
		require.NoError(t, err)
	}

	_, total, err := references.List(ctx, reference.Genre, "%", page)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	_, total, err = references.List(ctx, reference.Genre, "_", page)
	require.NoError(t, err)
	assert.Zero(t, total)

	_, err = titles.Create(ctx, title.CreateInput{Name: "Solaris", Year: pointer.To(1972)})
	require.NoError(t, err)

	_, total, err = titles.List(ctx, title.Filter{Name: "%"}, page)
	require.NoError(t, err)
	assert.Zero(t, total)

	_, total, err = titles.List(ctx, title.Filter{Name: "SOL"}, page)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}
