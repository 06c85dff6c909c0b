// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/critiq/internal/access"
	"github.com/taibuivan/critiq/internal/platform/apperr"
	"github.com/taibuivan/critiq/internal/platform/validate"
	"github.com/taibuivan/critiq/pkg/pagination"
	"github.com/taibuivan/critiq/pkg/pointer"
	"github.com/taibuivan/critiq/pkg/uuid"
)

// ReviewInput holds a review write. Nil fields are kept on update and
// required on create.
type ReviewInput struct {
	Text  *string
	Score *int
}

// ListReviews returns a title's reviews, newest first.
func (service *Service) ListReviews(context context.Context, titleID string, page pagination.Params) ([]*Review, int, error) {
	if _, err := service.titles.Get(context, titleID); err != nil {
		return nil, 0, err
	}

	reviews, total, err := service.reviews.ListByTitle(context, titleID, page)
	if err != nil {
		return nil, 0, fmt.Errorf("review_service_list_failed: %w", err)
	}
	return reviews, total, nil
}

/*
GetReview returns one review of a title.

Returns:
  - error: NotFound when the title or review is missing, or the review
    belongs to another title
*/
func (service *Service) GetReview(context context.Context, titleID, reviewID string) (*Review, error) {
	if !uuid.Valid(titleID) || !uuid.Valid(reviewID) {
		return nil, apperr.NotFound(reviewResource)
	}

	review, err := service.reviews.FindByID(context, titleID, reviewID)
	if err != nil {
		return nil, fmt.Errorf("review_service_get_failed: %w", err)
	}
	return review, nil
}

/*
CreateReview publishes the subject's review of a title.

Returns:
  - error: Unauthorized, NotFound (title), ValidationError, or Conflict when
    the subject already reviewed this title
*/
func (service *Service) CreateReview(context context.Context, subject access.Subject, titleID string, input ReviewInput) (*Review, error) {
	if err := access.Check(access.AuthorOrStaffOrReadOnly, subject, access.ActionCreate, nil); err != nil {
		return nil, err
	}

	if _, err := service.titles.Get(context, titleID); err != nil {
		return nil, err
	}

	review := &Review{
		ID:       uuid.New(),
		TitleID:  titleID,
		AuthorID: subject.UserID(),
		Text:     strings.TrimSpace(pointer.Val(input.Text)),
		Score:    pointer.Val(input.Score),
	}

	if err := validateReview(review, input.Score == nil); err != nil {
		return nil, err
	}

	if err := service.reviews.Create(context, review); err != nil {
		return nil, fmt.Errorf("review_service_create_failed: %w", err)
	}

	service.logger.InfoContext(context, "review_created",
		slog.String("review_id", review.ID),
		slog.String("title_id", titleID),
		slog.Int("score", review.Score),
	)
	return service.GetReview(context, titleID, review.ID)
}

/*
UpdateReview applies a partial update on behalf of subject.

Returns:
  - error: NotFound, Forbidden unless author/moderator/admin, or ValidationError
*/
func (service *Service) UpdateReview(context context.Context, subject access.Subject, titleID, reviewID string, input ReviewInput) (*Review, error) {
	review, err := service.GetReview(context, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if err := access.Check(access.AuthorOrStaffOrReadOnly, subject, access.ActionUpdate, review); err != nil {
		return nil, err
	}

	review.Text = strings.TrimSpace(pointer.Fallback(input.Text, review.Text))
	review.Score = pointer.Fallback(input.Score, review.Score)

	if err := validateReview(review, false); err != nil {
		return nil, err
	}

	if err := service.reviews.Update(context, review); err != nil {
		return nil, fmt.Errorf("review_service_update_failed: %w", err)
	}

	service.logger.InfoContext(context, "review_updated", slog.String("review_id", review.ID))
	return review, nil
}

// DeleteReview removes a review and its comments on behalf of subject.
func (service *Service) DeleteReview(context context.Context, subject access.Subject, titleID, reviewID string) error {
	review, err := service.GetReview(context, titleID, reviewID)
	if err != nil {
		return err
	}

	if err := access.Check(access.AuthorOrStaffOrReadOnly, subject, access.ActionDelete, review); err != nil {
		return err
	}

	if err := service.reviews.Delete(context, review.ID); err != nil {
		return fmt.Errorf("review_service_delete_failed: %w", err)
	}

	service.logger.InfoContext(context, "review_deleted",
		slog.String("review_id", review.ID),
		slog.Bool("by_author", review.AuthorID == subject.UserID()),
	)
	return nil
}

func validateReview(review *Review, scoreMissing bool) error {
	validator := &validate.Validator{}
	validator.Required(FieldText, review.Text).
		MaxLen(FieldText, review.Text, MaxTextLen)

	if scoreMissing {
		validator.Custom(FieldScore, true, "This field is required")
	} else {
		validator.Range(FieldScore, review.Score, MinScore, MaxScore)
	}
	return validator.Err()
}
