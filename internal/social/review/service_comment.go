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
	"github.com/taibuivan/critiq/pkg/uuid"
)

// ListComments returns a review's comments, newest first.
func (service *Service) ListComments(context context.Context, titleID, reviewID string, page pagination.Params) ([]*Comment, int, error) {
	if _, err := service.GetReview(context, titleID, reviewID); err != nil {
		return nil, 0, err
	}

	comments, total, err := service.comments.ListByReview(context, reviewID, page)
	if err != nil {
		return nil, 0, fmt.Errorf("comment_service_list_failed: %w", err)
	}
	return comments, total, nil
}

// GetComment resolves the full path title → review → comment.
func (service *Service) GetComment(context context.Context, titleID, reviewID, commentID string) (*Comment, error) {
	if _, err := service.GetReview(context, titleID, reviewID); err != nil {
		return nil, err
	}
	if !uuid.Valid(commentID) {
		return nil, apperr.NotFound(commentResource)
	}

	comment, err := service.comments.FindByID(context, reviewID, commentID)
	if err != nil {
		return nil, fmt.Errorf("comment_service_get_failed: %w", err)
	}
	return comment, nil
}

// CreateComment publishes a comment under a review.
func (service *Service) CreateComment(context context.Context, subject access.Subject, titleID, reviewID, text string) (*Comment, error) {
	if err := access.Check(access.AuthorOrStaffOrReadOnly, subject, access.ActionCreate, nil); err != nil {
		return nil, err
	}

	if _, err := service.GetReview(context, titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &Comment{
		ID:       uuid.New(),
		ReviewID: reviewID,
		AuthorID: subject.UserID(),
		Text:     strings.TrimSpace(text),
	}
	if err := validateComment(comment); err != nil {
		return nil, err
	}

	if err := service.comments.Create(context, comment); err != nil {
		return nil, fmt.Errorf("comment_service_create_failed: %w", err)
	}

	service.logger.InfoContext(context, "comment_created",
		slog.String("comment_id", comment.ID),
		slog.String("review_id", reviewID),
	)
	return service.comments.FindByID(context, reviewID, comment.ID)
}

// UpdateComment replaces a comment's text on behalf of subject.
func (service *Service) UpdateComment(context context.Context, subject access.Subject, titleID, reviewID, commentID string, text *string) (*Comment, error) {
	comment, err := service.GetComment(context, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	if err := access.Check(access.AuthorOrStaffOrReadOnly, subject, access.ActionUpdate, comment); err != nil {
		return nil, err
	}

	if text != nil {
		comment.Text = strings.TrimSpace(*text)
	}
	if err := validateComment(comment); err != nil {
		return nil, err
	}

	if err := service.comments.Update(context, comment); err != nil {
		return nil, fmt.Errorf("comment_service_update_failed: %w", err)
	}

	service.logger.InfoContext(context, "comment_updated", slog.String("comment_id", comment.ID))
	return comment, nil
}

// DeleteComment removes a comment on behalf of subject.
func (service *Service) DeleteComment(context context.Context, subject access.Subject, titleID, reviewID, commentID string) error {
	comment, err := service.GetComment(context, titleID, reviewID, commentID)
	if err != nil {
		return err
	}

	if err := access.Check(access.AuthorOrStaffOrReadOnly, subject, access.ActionDelete, comment); err != nil {
		return err
	}

	if err := service.comments.Delete(context, comment.ID); err != nil {
		return fmt.Errorf("comment_service_delete_failed: %w", err)
	}

	service.logger.InfoContext(context, "comment_deleted", slog.String("comment_id", comment.ID))
	return nil
}

func validateComment(comment *Comment) error {
	validator := &validate.Validator{}
	validator.Required(FieldText, comment.Text).
		MaxLen(FieldText, comment.Text, MaxTextLen)
	return validator.Err()
}
