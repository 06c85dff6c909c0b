// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"

	"github.com/taibuivan/critiq/pkg/pagination"
)

// ReviewRepository defines persistence for reviews. Listings are newest first.
type ReviewRepository interface {
	ListByTitle(context context.Context, titleID string, page pagination.Params) ([]*Review, int, error)

	/*
		FindByID returns a review of the given title.

		Returns:
		  - error: apperr.NotFound when absent or attached to another title
	*/
	FindByID(context context.Context, titleID, reviewID string) (*Review, error)

	/*
		Create inserts the review and sets its PubDate.

		Returns:
		  - error: apperr.Conflict when the author already reviewed the title
	*/
	Create(context context.Context, review *Review) error

	// Update rewrites text and score. PubDate never changes.
	Update(context context.Context, review *Review) error

	// Delete removes the review and its comments.
	Delete(context context.Context, reviewID string) error
}

// CommentRepository defines persistence for comments. Listings are newest first.
type CommentRepository interface {
	ListByReview(context context.Context, reviewID string, page pagination.Params) ([]*Comment, int, error)

	/*
		FindByID returns a comment under the given review.

		Returns:
		  - error: apperr.NotFound when absent or attached to another review
	*/
	FindByID(context context.Context, reviewID, commentID string) (*Comment, error)

	Create(context context.Context, comment *Comment) error
	Update(context context.Context, comment *Comment) error
	Delete(context context.Context, commentID string) error
}
