// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package reference manages the two flat taxonomies of the catalogue:
categories ("book", "film") and genres ("drama", "science-fiction").

Both kinds share one shape (name + unique slug) and one implementation,
parameterised by [Kind]. Entries are public to read and written by
administrators only; a title references at most one category and any
number of genres.
*/
package reference

import (
	"context"

	"github.com/taibuivan/critiq/pkg/pagination"
)

// # Kinds

// Kind identifies one taxonomy and the table backing it.
type Kind struct {
	// Resource is the singular name used in error messages.
	Resource string

	table   string
	slugKey string
}

var (
	Category = Kind{Resource: "Category", table: "core.category", slugKey: "category_slug_key"}
	Genre    = Kind{Resource: "Genre", table: "core.genre", slugKey: "genre_slug_key"}
)

// # Domain Entities

// Entry is a category or a genre.
type Entry struct {
	ID   string `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// # Field Identifiers

const (
	FieldName = "name"
	FieldSlug = "slug"

	MaxNameLen = 200
)

// # Repository Contracts

// Repository defines persistence for both taxonomies.
type Repository interface {

	/*
		List returns one page of entries ordered by name and the total count.
		search matches a case-insensitive substring of the name.
	*/
	List(context context.Context, kind Kind, search string, page pagination.Params) ([]*Entry, int, error)

	/*
		FindBySlug returns one entry.

		Returns:
		  - error: apperr.NotFound when absent
	*/
	FindBySlug(context context.Context, kind Kind, slug string) (*Entry, error)

	/*
		FindBySlugs resolves a set of slugs. Unknown slugs are simply absent
		from the result.
	*/
	FindBySlugs(context context.Context, kind Kind, slugs []string) ([]*Entry, error)

	/*
		Create inserts an entry.

		Returns:
		  - error: apperr.Conflict when the slug is taken
	*/
	Create(context context.Context, kind Kind, entry *Entry) error

	/*
		DeleteBySlug removes an entry. Titles keep existing: they lose the
		category (set to null) or the genre link.

		Returns:
		  - error: apperr.NotFound when absent
	*/
	DeleteBySlug(context context.Context, kind Kind, slug string) error
}
