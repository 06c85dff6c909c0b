// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/critiq/internal/access"
	requestutil "github.com/taibuivan/critiq/internal/platform/request"
	"github.com/taibuivan/critiq/internal/platform/respond"
	"github.com/taibuivan/critiq/internal/platform/validate"
	"github.com/taibuivan/critiq/pkg/pagination"
	"github.com/taibuivan/critiq/pkg/pointer"
	"github.com/taibuivan/critiq/pkg/query"
)

// Handler implements the HTTP layer for titles.
type Handler struct {
	titleService *Service
}

// NewHandler constructs a title [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{titleService: service}
}

// Routes returns a [chi.Router] with the title endpoints.
//
// Mount reviews under "/{titleID}/reviews" on the same router so they share
// the path parameter.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(access.Guard(access.AdminOrReadOnly))
		r.Get("/", handler.list)
		r.Post("/", handler.create)
		r.Get("/{titleID}", handler.get)
		r.Patch("/{titleID}", handler.update)
		r.Delete("/{titleID}", handler.delete)
	})

	return router
}

// # Payloads

// titleRequest carries references by slug: {"genre": ["drama"], "category": "film"}.
type titleRequest struct {
	Name        *string   `json:"name"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Genre       *[]string `json:"genre"`
	Category    *string   `json:"category"`
}

/*
GET /api/v1/titles

Query:
  - genre: genre slug, or several separated by commas
  - category: category slug
  - name: case-insensitive substring
  - year: exact year
  - page, limit
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := request.URL.Query()

	filter := Filter{
		Genre:    query.StringSlice(params.Get("genre")),
		Category: params.Get("category"),
		Name:     params.Get("name"),
	}

	if raw := params.Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			respond.Error(writer, request, validate.FieldError(FieldYear, "Must be an integer"))
			return
		}
		filter.Year = &year
	}

	page := pagination.FromRequest(request)

	titles, total, err := handler.titleService.List(request.Context(), filter, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, titles, pagination.NewMeta(page, total))
}

/*
GET /api/v1/titles/{titleID}

Response:
  - 200: Title with rating (null without reviews)
  - 404: NOT_FOUND
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	title, err := handler.titleService.Get(request.Context(), requestutil.Param(request, "titleID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, title)
}

/*
POST /api/v1/titles

Response:
  - 201: Title
  - 400: VALIDATION_ERROR: Bad year or unknown genre/category slug
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var payload titleRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.titleService.Create(request.Context(), CreateInput{
		Name:        pointer.Val(payload.Name),
		Year:        payload.Year,
		Description: pointer.Val(payload.Description),
		Genre:       pointer.Val(payload.Genre),
		Category:    pointer.Val(payload.Category),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, title)
}

/*
PATCH /api/v1/titles/{titleID}

Description: Absent fields are kept. "category": "" removes the category.
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var payload titleRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.titleService.Update(request.Context(), requestutil.Param(request, "titleID"), UpdateInput(payload))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, title)
}

/*
DELETE /api/v1/titles/{titleID}

Response:
  - 204: No Content
  - 404: NOT_FOUND
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.titleService.Delete(request.Context(), requestutil.Param(request, "titleID")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
