// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"log/slog"

	"github.com/taibuivan/critiq/internal/core/title"
)

// TitleFinder reports whether a title exists. [title.Service] satisfies it.
type TitleFinder interface {
	Get(context context.Context, id string) (*title.Title, error)
}

// # Service Layer

// Service enforces the ownership rules on reviews and comments.
type Service struct {
	reviews  ReviewRepository
	comments CommentRepository
	titles   TitleFinder
	logger   *slog.Logger
}

// NewService constructs a review [Service].
func NewService(reviews ReviewRepository, comments CommentRepository, titles TitleFinder, logger *slog.Logger) *Service {
	return &Service{reviews: reviews, comments: comments, titles: titles, logger: logger}
}
