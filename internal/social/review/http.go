// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/critiq/internal/access"
	requestutil "github.com/taibuivan/critiq/internal/platform/request"
	"github.com/taibuivan/critiq/internal/platform/respond"
	"github.com/taibuivan/critiq/pkg/pagination"
	"github.com/taibuivan/critiq/pkg/pointer"
)

// Handler implements the HTTP layer for reviews and comments.
type Handler struct {
	reviewService *Service
}

// NewHandler constructs a review [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{reviewService: service}
}

// Routes returns a [chi.Router] for /titles/{titleID}/reviews.
//
// The guard rejects anonymous writes up front; ownership is decided by the
// service once the review or comment is loaded.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(access.Guard(access.AuthorOrStaffOrReadOnly))

	router.Get("/", handler.listReviews)
	router.Post("/", handler.createReview)
	router.Get("/{reviewID}", handler.getReview)
	router.Patch("/{reviewID}", handler.updateReview)
	router.Delete("/{reviewID}", handler.deleteReview)

	router.Route("/{reviewID}/comments", func(r chi.Router) {
		r.Get("/", handler.listComments)
		r.Post("/", handler.createComment)
		r.Get("/{commentID}", handler.getComment)
		r.Patch("/{commentID}", handler.updateComment)
		r.Delete("/{commentID}", handler.deleteComment)
	})

	return router
}

// # Payloads

type reviewRequest struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

type commentRequest struct {
	Text *string `json:"text"`
}

// # Reviews

/*
GET /api/v1/titles/{titleID}/reviews

Response:
  - 200: Reviews, newest first
  - 404: NOT_FOUND: Unknown title
*/
func (handler *Handler) listReviews(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)

	reviews, total, err := handler.reviewService.ListReviews(request.Context(), requestutil.Param(request, "titleID"), page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, reviews, pagination.NewMeta(page, total))
}

// GET /api/v1/titles/{titleID}/reviews/{reviewID}
func (handler *Handler) getReview(writer http.ResponseWriter, request *http.Request) {
	review, err := handler.reviewService.GetReview(request.Context(),
		requestutil.Param(request, "titleID"),
		requestutil.Param(request, "reviewID"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, review)
}

/*
POST /api/v1/titles/{titleID}/reviews

Response:
  - 201: Review
  - 400: VALIDATION_ERROR: Text length or score range
  - 401: UNAUTHORIZED
  - 409: CONFLICT: Caller already reviewed the title
*/
func (handler *Handler) createReview(writer http.ResponseWriter, request *http.Request) {
	var payload reviewRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.reviewService.CreateReview(request.Context(),
		access.SubjectFrom(request.Context()),
		requestutil.Param(request, "titleID"),
		ReviewInput(payload),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, review)
}

/*
PATCH /api/v1/titles/{titleID}/reviews/{reviewID}

Response:
  - 200: Review
  - 403: FORBIDDEN: Not the author, a moderator or an administrator
*/
func (handler *Handler) updateReview(writer http.ResponseWriter, request *http.Request) {
	var payload reviewRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.reviewService.UpdateReview(request.Context(),
		access.SubjectFrom(request.Context()),
		requestutil.Param(request, "titleID"),
		requestutil.Param(request, "reviewID"),
		ReviewInput(payload),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, review)
}

// DELETE /api/v1/titles/{titleID}/reviews/{reviewID}
func (handler *Handler) deleteReview(writer http.ResponseWriter, request *http.Request) {
	err := handler.reviewService.DeleteReview(request.Context(),
		access.SubjectFrom(request.Context()),
		requestutil.Param(request, "titleID"),
		requestutil.Param(request, "reviewID"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Comments

// GET /api/v1/titles/{titleID}/reviews/{reviewID}/comments
func (handler *Handler) listComments(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)

	comments, total, err := handler.reviewService.ListComments(request.Context(),
		requestutil.Param(request, "titleID"),
		requestutil.Param(request, "reviewID"),
		page,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, comments, pagination.NewMeta(page, total))
}

// GET /api/v1/titles/{titleID}/reviews/{reviewID}/comments/{commentID}
func (handler *Handler) getComment(writer http.ResponseWriter, request *http.Request) {
	comment, err := handler.reviewService.GetComment(request.Context(),
		requestutil.Param(request, "titleID"),
		requestutil.Param(request, "reviewID"),
		requestutil.Param(request, "commentID"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, comment)
}

// POST /api/v1/titles/{titleID}/reviews/{reviewID}/comments
func (handler *Handler) createComment(writer http.ResponseWriter, request *http.Request) {
	var payload commentRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.reviewService.CreateComment(request.Context(),
		access.SubjectFrom(request.Context()),
		requestutil.Param(request, "titleID"),
		requestutil.Param(request, "reviewID"),
		pointer.Val(payload.Text),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, comment)
}

// PATCH /api/v1/titles/{titleID}/reviews/{reviewID}/comments/{commentID}
func (handler *Handler) updateComment(writer http.ResponseWriter, request *http.Request) {
	var payload commentRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.reviewService.UpdateComment(request.Context(),
		access.SubjectFrom(request.Context()),
		requestutil.Param(request, "titleID"),
		requestutil.Param(request, "reviewID"),
		requestutil.Param(request, "commentID"),
		payload.Text,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comment)
}

// DELETE /api/v1/titles/{titleID}/reviews/{reviewID}/comments/{commentID}
func (handler *Handler) deleteComment(writer http.ResponseWriter, request *http.Request) {
	err := handler.reviewService.DeleteComment(request.Context(),
		access.SubjectFrom(request.Context()),
		requestutil.Param(request, "titleID"),
		requestutil.Param(request, "reviewID"),
		requestutil.Param(request, "commentID"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
