// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination reads page-based navigation from query strings and
// builds the "meta" block of list responses.
package pagination

import (
	"math"
	"net/http"

	"github.com/taibuivan/critiq/pkg/convert"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
	DefaultPage  = 1

	// MaxPage keeps (page-1)*limit inside the range of a Postgres bigint OFFSET.
	MaxPage = math.MaxInt32 / MaxLimit
)

// Params holds the parsed page and limit from a request's query string.
type Params struct {
	Page  int
	Limit int
}

// Offset returns the SQL OFFSET value.
func (p Params) Offset() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	return (min(p.Page, MaxPage) - 1) * min(p.Limit, MaxLimit)
}

// Meta is the pagination metadata included in API list responses.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewMeta builds the metadata for a page of params out of total rows.
func NewMeta(params Params, total int) Meta {
	totalPages := 0
	if params.Limit > 0 {
		totalPages = (total + params.Limit - 1) / params.Limit
	}
	return Meta{
		Page:       params.Page,
		Limit:      params.Limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

// FromRequest parses "page" and "limit" query parameters.
//
// Unparseable or non-positive values fall back to the defaults; a limit
// above [MaxLimit] and a page above [MaxPage] are clamped.
func FromRequest(request *http.Request) Params {
	query := request.URL.Query()
	page := min(positiveInt(query.Get("page"), DefaultPage), MaxPage)
	limit := min(positiveInt(query.Get("limit"), DefaultLimit), MaxLimit)
	return Params{Page: page, Limit: limit}
}

func positiveInt(raw string, fallback int) int {
	if n := convert.ToIntD(raw, fallback); n >= 1 {
		return n
	}
	return fallback
}
