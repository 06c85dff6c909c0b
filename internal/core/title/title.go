// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package title manages the works under review: books, films, albums.

A title belongs to at most one category and any number of genres, both
referenced by slug on writes and embedded as {name, slug} on reads. Its
rating is the mean review score, computed by the store on every read and
null while the title has no reviews.
*/
package title

import (
	"context"

	"github.com/taibuivan/critiq/internal/core/reference"
	"github.com/taibuivan/critiq/pkg/pagination"
)

// # Domain Entities

// Title is a work as exposed to clients.
type Title struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Year        int                `json:"year"`
	Description string             `json:"description"`
	Genre       []*reference.Entry `json:"genre"`
	Category    *reference.Entry   `json:"category"`

	// Rating is read-only; nil means no reviews yet.
	Rating *float64 `json:"rating"`
}

// Filter narrows a title listing. Zero fields are ignored.
type Filter struct {
	// Genre keeps titles linked to any of these genre slugs.
	Genre []string
	// Category is a category slug.
	Category string
	// Name is a case-insensitive substring.
	Name string
	Year *int
}

// # Constraints

const (
	FieldName        = "name"
	FieldYear        = "year"
	FieldDescription = "description"
	FieldGenre       = "genre"
	FieldCategory    = "category"

	MaxNameLen = 200

	// MinYear admits prehistoric works (cave paintings).
	MinYear = -40000
	// MaxYearAhead bounds announced works relative to the current year.
	MaxYearAhead = 10
)

// # Repository Contracts

// Repository defines persistence for titles.
type Repository interface {

	/*
		List returns one page of titles ordered by name, with rating, and the
		total number of matches.
	*/
	List(context context.Context, filter Filter, page pagination.Params) ([]*Title, int, error)

	/*
		FindByID returns a title with its genres, category and rating.

		Returns:
		  - error: apperr.NotFound when absent
	*/
	FindByID(context context.Context, id string) (*Title, error)

	/*
		Create inserts the title and its genre links atomically.
		Genre and Category must carry resolved entry IDs.
	*/
	Create(context context.Context, title *Title) error

	/*
		Update rewrites the title's fields and replaces its genre links.

		Returns:
		  - error: apperr.NotFound when absent
	*/
	Update(context context.Context, title *Title) error

	/*
		Delete removes the title. Its reviews and their comments go with it.

		Returns:
		  - error: apperr.NotFound when absent
	*/
	Delete(context context.Context, id string) error
}
