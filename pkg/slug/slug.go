// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug produces the URL identifiers of categories and genres
// ("science-fiction", "novel").
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/taibuivan/critiq/pkg/uuid"
)

// MaxLen is the longest slug the store accepts.
const MaxLen = 50

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	pattern         = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// From converts an arbitrary Unicode string into an ASCII slug.
//
// Accents are stripped (é → e), letters lowercased and every run of other
// characters becomes a single hyphen. The result is cut to [MaxLen] without
// leaving a trailing hyphen. Scripts with no ASCII decomposition yield "".
func From(s string) string {
	stripAccents := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, _ := transform.String(stripAccents, s)

	result = nonAlphanumeric.ReplaceAllString(strings.ToLower(result), "-")
	result = strings.Trim(result, "-")

	if len(result) > MaxLen {
		result = strings.TrimRight(result[:MaxLen], "-")
	}
	return result
}

// Generate returns a fresh unique slug for records created without one.
func Generate() string {
	return uuid.New()
}

// Valid reports whether s is already in canonical slug form.
func Valid(s string) bool {
	return len(s) <= MaxLen && pattern.MatchString(s)
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
