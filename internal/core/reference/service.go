// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/critiq/internal/platform/validate"
	"github.com/taibuivan/critiq/pkg/pagination"
	"github.com/taibuivan/critiq/pkg/slug"
	"github.com/taibuivan/critiq/pkg/uuid"
)

// # Service Layer

// Service orchestrates business rules for both taxonomies.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new reference [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateInput holds a new entry. Slug is optional.
type CreateInput struct {
	Name string
	Slug string
}

// List returns one page of entries matching search.
func (service *Service) List(context context.Context, kind Kind, search string, page pagination.Params) ([]*Entry, int, error) {
	entries, total, err := service.repo.List(context, kind, strings.TrimSpace(search), page)
	if err != nil {
		return nil, 0, fmt.Errorf("reference_service_list_failed: %w", err)
	}
	return entries, total, nil
}

// Get returns the entry with the given slug.
func (service *Service) Get(context context.Context, kind Kind, entrySlug string) (*Entry, error) {
	entry, err := service.repo.FindBySlug(context, kind, entrySlug)
	if err != nil {
		return nil, fmt.Errorf("reference_service_get_failed: %w", err)
	}
	return entry, nil
}

/*
Resolve maps slugs onto entries, failing on the first unknown one.

Description: Used by title writes. Duplicate slugs collapse into one entry.

Returns:
  - error: ValidationError on field naming the unknown slug
*/
func (service *Service) Resolve(context context.Context, kind Kind, field string, slugs []string) ([]*Entry, error) {
	entries, err := service.repo.FindBySlugs(context, kind, slugs)
	if err != nil {
		return nil, fmt.Errorf("reference_service_resolve_failed: %w", err)
	}

	known := make(map[string]bool, len(entries))
	for _, entry := range entries {
		known[entry.Slug] = true
	}

	validator := &validate.Validator{}
	for _, wanted := range slugs {
		validator.Custom(field, !known[wanted], fmt.Sprintf("%s %q does not exist", kind.Resource, wanted))
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

/*
Create validates and stores a new entry.

Description: A supplied slug is normalised ("Science Fiction" → "science-fiction");
an absent one is generated so it is always unique.

Returns:
  - error: ValidationError or Conflict
*/
func (service *Service) Create(context context.Context, kind Kind, input CreateInput) (*Entry, error) {
	entry := &Entry{
		ID:   uuid.New(),
		Name: strings.TrimSpace(input.Name),
		Slug: slug.Generate(),
	}
	supplied := strings.TrimSpace(input.Slug) != ""
	if supplied {
		entry.Slug = slug.From(input.Slug)
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, entry.Name).
		MaxLen(FieldName, entry.Name, MaxNameLen)
	if supplied {
		validator.Slug(FieldSlug, entry.Slug)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.Create(context, kind, entry); err != nil {
		return nil, fmt.Errorf("reference_service_create_failed: %w", err)
	}

	service.logger.InfoContext(context, "reference_entry_created",
		slog.String("kind", kind.Resource),
		slog.String("slug", entry.Slug),
	)
	return entry, nil
}

// Delete removes the entry with the given slug.
func (service *Service) Delete(context context.Context, kind Kind, entrySlug string) error {
	if err := service.repo.DeleteBySlug(context, kind, entrySlug); err != nil {
		return fmt.Errorf("reference_service_delete_failed: %w", err)
	}

	service.logger.InfoContext(context, "reference_entry_deleted",
		slog.String("kind", kind.Resource),
		slog.String("slug", entrySlug),
	)
	return nil
}
