// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/critiq/internal/access"
	requestutil "github.com/taibuivan/critiq/internal/platform/request"
	"github.com/taibuivan/critiq/internal/platform/respond"
	"github.com/taibuivan/critiq/pkg/pagination"
)

// Handler serves one taxonomy. Mount one per [Kind].
type Handler struct {
	service *Service
	kind    Kind
}

// NewHandler constructs a [Handler] for kind.
func NewHandler(service *Service, kind Kind) *Handler {
	return &Handler{service: service, kind: kind}
}

// Routes returns a [chi.Router] configured with the taxonomy endpoints.
//
// Reads are public; writes go through [access.AdminOrReadOnly].
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(access.Guard(access.AdminOrReadOnly))

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{slug}", handler.get)
	router.Delete("/{slug}", handler.delete)

	return router
}

type createRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

/*
GET /api/v1/{categories|genres}

Query:
  - search: substring of the name
  - page, limit
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)

	entries, total, err := handler.service.List(request.Context(), handler.kind, request.URL.Query().Get("search"), page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, entries, pagination.NewMeta(page, total))
}

/*
GET /api/v1/{categories|genres}/{slug}
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	entry, err := handler.service.Get(request.Context(), handler.kind, requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, entry)
}

/*
POST /api/v1/{categories|genres}

Response:
  - 201: Entry
  - 400: VALIDATION_ERROR
  - 409: CONFLICT: Slug taken
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.service.Create(request.Context(), handler.kind, CreateInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entry)
}

/*
DELETE /api/v1/{categories|genres}/{slug}

Response:
  - 204: No Content
  - 404: NOT_FOUND
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), handler.kind, requestutil.Param(request, "slug")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
