// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/critiq/internal/core/reference"
	"github.com/taibuivan/critiq/internal/platform/apperr"
	"github.com/taibuivan/critiq/internal/platform/validate"
	"github.com/taibuivan/critiq/pkg/pagination"
	"github.com/taibuivan/critiq/pkg/pointer"
	"github.com/taibuivan/critiq/pkg/slice"
	"github.com/taibuivan/critiq/pkg/uuid"
)

// Resolver turns category and genre slugs into stored entries.
type Resolver interface {
	Resolve(context context.Context, kind reference.Kind, field string, slugs []string) ([]*reference.Entry, error)
}

// # Service Layer

// Service orchestrates business rules for titles.
type Service struct {
	repo     Repository
	resolver Resolver
	logger   *slog.Logger
	now      func() time.Time
}

// NewService constructs a title [Service]. now supplies the current time for
// the year ceiling; pass [time.Now] outside tests.
func NewService(repo Repository, resolver Resolver, logger *slog.Logger, now func() time.Time) *Service {
	return &Service{repo: repo, resolver: resolver, logger: logger, now: now}
}

// CreateInput holds a new title. Category is optional.
type CreateInput struct {
	Name        string
	Year        *int
	Description string
	Genre       []string
	Category    string
}

// UpdateInput holds a partial update. Nil fields are left unchanged;
// an empty Category removes the category.
type UpdateInput struct {
	Name        *string
	Year        *int
	Description *string
	Genre       *[]string
	Category    *string
}

// List returns a filtered page of titles with their ratings.
func (service *Service) List(context context.Context, filter Filter, page pagination.Params) ([]*Title, int, error) {
	filter.Name = strings.TrimSpace(filter.Name)

	titles, total, err := service.repo.List(context, filter, page)
	if err != nil {
		return nil, 0, fmt.Errorf("title_service_list_failed: %w", err)
	}
	return titles, total, nil
}

// Get returns one title with its current rating.
func (service *Service) Get(context context.Context, id string) (*Title, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFound(resource)
	}

	title, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, fmt.Errorf("title_service_get_failed: %w", err)
	}
	return title, nil
}

/*
Create validates, resolves references and stores a new title.

Returns:
  - error: ValidationError for bad fields or unknown slugs
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Title, error) {
	title := &Title{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(input.Name),
		Year:        pointer.Val(input.Year),
		Description: input.Description,
	}

	validator := service.validate(title)
	validator.Custom(FieldYear, input.Year == nil, "This field is required")
	if err := validator.Err(); err != nil {
		return nil, err
	}
	if err := service.resolve(context, title, input.Genre, input.Category); err != nil {
		return nil, err
	}

	if err := service.repo.Create(context, title); err != nil {
		return nil, fmt.Errorf("title_service_create_failed: %w", err)
	}

	service.logger.InfoContext(context, "title_created", slog.String("title_id", title.ID))
	return service.Get(context, title.ID)
}

/*
Update applies a partial update and returns the refreshed title.

Returns:
  - error: NotFound, or ValidationError for bad fields or unknown slugs
*/
func (service *Service) Update(context context.Context, id string, input UpdateInput) (*Title, error) {
	title, err := service.Get(context, id)
	if err != nil {
		return nil, err
	}

	title.Name = strings.TrimSpace(pointer.Fallback(input.Name, title.Name))
	title.Year = pointer.Fallback(input.Year, title.Year)
	title.Description = pointer.Fallback(input.Description, title.Description)

	if err := service.validate(title).Err(); err != nil {
		return nil, err
	}

	// Reads carry slugs only; re-resolve to get the IDs the store links on
	genres := slice.Map(title.Genre, entrySlug)
	category := ""
	if title.Category != nil {
		category = title.Category.Slug
	}

	err = service.resolve(context, title,
		pointer.Fallback(input.Genre, genres),
		pointer.Fallback(input.Category, category),
	)
	if err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, title); err != nil {
		return nil, fmt.Errorf("title_service_update_failed: %w", err)
	}

	service.logger.InfoContext(context, "title_updated", slog.String("title_id", title.ID))
	return service.Get(context, title.ID)
}

// Delete removes a title together with its reviews and comments.
func (service *Service) Delete(context context.Context, id string) error {
	if !uuid.Valid(id) {
		return apperr.NotFound(resource)
	}

	if err := service.repo.Delete(context, id); err != nil {
		return fmt.Errorf("title_service_delete_failed: %w", err)
	}

	service.logger.InfoContext(context, "title_deleted", slog.String("title_id", id))
	return nil
}

func (service *Service) validate(title *Title) *validate.Validator {
	maxYear := service.now().Year() + MaxYearAhead

	validator := &validate.Validator{}
	validator.Required(FieldName, title.Name).
		MaxLen(FieldName, title.Name, MaxNameLen).
		Range(FieldYear, title.Year, MinYear, maxYear)

	return validator
}

// resolve replaces the title's references with stored entries.
func (service *Service) resolve(context context.Context, title *Title, genres []string, category string) error {
	entries, err := service.resolver.Resolve(context, reference.Genre, FieldGenre, genres)
	if err != nil {
		return err
	}
	title.Genre = entries

	title.Category = nil
	if category != "" {
		entries, err := service.resolver.Resolve(context, reference.Category, FieldCategory, []string{category})
		if err != nil {
			return err
		}
		title.Category = entries[0]
	}
	return nil
}

func entrySlug(entry *reference.Entry) string {
	return entry.Slug
}
