// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package review holds the user-generated content of the platform: scored reviews
of a title and the comment threads under each review.

Everyone may read. Any authenticated user may write; changing or removing an
existing review or comment is reserved to its author, moderators and
administrators. Content is always addressed through its parent
(/titles/{titleID}/reviews/{reviewID}/comments/{commentID}) and a child that
does not belong to the parent in the path is reported as not found.
*/
package review

import (
	"time"
)

// # Domain Entities

// Review is one user's scored opinion of a title. A user reviews a title once.
type Review struct {
	ID       string `json:"id"`
	TitleID  string `json:"-"`
	AuthorID string `json:"-"`

	// Author is the author's username.
	Author  string    `json:"author"`
	Text    string    `json:"text"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
}

// OwnerID makes a review subject to ownership policies.
func (review *Review) OwnerID() string {
	return review.AuthorID
}

// Comment is a reply under a review.
type Comment struct {
	ID       string `json:"id"`
	ReviewID string `json:"-"`
	AuthorID string `json:"-"`

	Author  string    `json:"author"`
	Text    string    `json:"text"`
	PubDate time.Time `json:"pub_date"`
}

// OwnerID makes a comment subject to ownership policies.
func (comment *Comment) OwnerID() string {
	return comment.AuthorID
}

// # Constraints

const (
	FieldText  = "text"
	FieldScore = "score"

	MaxTextLen = 300
	MinScore   = 1
	MaxScore   = 10
)
