// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/taibuivan/critiq/internal/access"
	"github.com/taibuivan/critiq/internal/core/title"
	"github.com/taibuivan/critiq/internal/platform/apperr"
	"github.com/taibuivan/critiq/internal/platform/sec"
	"github.com/taibuivan/critiq/internal/social/review"
	"github.com/taibuivan/critiq/pkg/pagination"
	"github.com/taibuivan/critiq/pkg/uuid"
)

// usernames stands in for the account join of the postgres stores.
var usernames = map[string]string{
	"u-author":   "author",
	"u-stranger": "stranger",
	"u-mod":      "mod",
	"u-admin":    "admin",
}

var (
	anonymous = access.Anonymous()
	author    = access.As(sec.Identity{UserID: "u-author", Username: "author", Role: sec.RoleUser})
	stranger  = access.As(sec.Identity{UserID: "u-stranger", Username: "stranger", Role: sec.RoleUser})
	moderator = access.As(sec.Identity{UserID: "u-mod", Username: "mod", Role: sec.RoleModerator})
	admin     = access.As(sec.Identity{UserID: "u-admin", Username: "admin", Role: sec.RoleAdmin})
)

// memoryContent implements both repositories over shared maps, cascading
// review deletion onto comments like the schema does.
type memoryContent struct {
	mu       sync.Mutex
	clock    time.Time
	reviews  map[string]*review.Review
	comments map[string]*review.Comment
}

func newMemoryContent() *memoryContent {
	return &memoryContent{
		clock:    time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		reviews:  map[string]*review.Review{},
		comments: map[string]*review.Comment{},
	}
}

// tick hands out strictly increasing publication dates.
func (store *memoryContent) tick() time.Time {
	store.clock = store.clock.Add(time.Minute)
	return store.clock
}

type reviewStore struct{ *memoryContent }
type commentStore struct{ *memoryContent }

func (store reviewStore) ListByTitle(_ context.Context, titleID string, page pagination.Params) ([]*review.Review, int, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	var matched []*review.Review
	for _, stored := range store.reviews {
		if stored.TitleID == titleID {
			read := *stored
			matched = append(matched, &read)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].PubDate.After(matched[j].PubDate) })

	total := len(matched)
	start := min(page.Offset(), total)
	return matched[start:min(start+page.Limit, total)], total, nil
}

func (store reviewStore) FindByID(_ context.Context, titleID, reviewID string) (*review.Review, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	stored, ok := store.reviews[reviewID]
	if !ok || stored.TitleID != titleID {
		return nil, apperr.NotFound("Review")
	}
	read := *stored
	return &read, nil
}

func (store reviewStore) Create(_ context.Context, created *review.Review) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	for _, stored := range store.reviews {
		if stored.TitleID == created.TitleID && stored.AuthorID == created.AuthorID {
			return apperr.Conflict("You have already reviewed this title")
		}
	}
	created.PubDate = store.tick()
	stored := *created
	stored.Author = usernames[created.AuthorID]
	store.reviews[created.ID] = &stored
	return nil
}

func (store reviewStore) Update(_ context.Context, updated *review.Review) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	stored, ok := store.reviews[updated.ID]
	if !ok {
		return apperr.NotFound("Review")
	}
	stored.Text, stored.Score = updated.Text, updated.Score
	return nil
}

func (store reviewStore) Delete(_ context.Context, reviewID string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, ok := store.reviews[reviewID]; !ok {
		return apperr.NotFound("Review")
	}
	delete(store.reviews, reviewID)
	for id, comment := range store.comments {
		if comment.ReviewID == reviewID {
			delete(store.comments, id)
		}
	}
	return nil
}

func (store commentStore) ListByReview(_ context.Context, reviewID string, page pagination.Params) ([]*review.Comment, int, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	var matched []*review.Comment
	for _, stored := range store.comments {
		if stored.ReviewID == reviewID {
			read := *stored
			matched = append(matched, &read)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].PubDate.After(matched[j].PubDate) })

	total := len(matched)
	start := min(page.Offset(), total)
	return matched[start:min(start+page.Limit, total)], total, nil
}

func (store commentStore) FindByID(_ context.Context, reviewID, commentID string) (*review.Comment, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	stored, ok := store.comments[commentID]
	if !ok || stored.ReviewID != reviewID {
		return nil, apperr.NotFound("Comment")
	}
	read := *stored
	return &read, nil
}

func (store commentStore) Create(_ context.Context, created *review.Comment) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	created.PubDate = store.tick()
	stored := *created
	stored.Author = usernames[created.AuthorID]
	store.comments[created.ID] = &stored
	return nil
}

func (store commentStore) Update(_ context.Context, updated *review.Comment) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	stored, ok := store.comments[updated.ID]
	if !ok {
		return apperr.NotFound("Comment")
	}
	stored.Text = updated.Text
	return nil
}

func (store commentStore) Delete(_ context.Context, commentID string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, ok := store.comments[commentID]; !ok {
		return apperr.NotFound("Comment")
	}
	delete(store.comments, commentID)
	return nil
}

// knownTitles is a [review.TitleFinder] over a fixed set of ids.
type knownTitles map[string]bool

func (titles knownTitles) Get(_ context.Context, id string) (*title.Title, error) {
	if !titles[id] {
		return nil, apperr.NotFound("Title")
	}
	return &title.Title{ID: id}, nil
}

type fixture struct {
	service *review.Service
	content *memoryContent
	solaris string
	stalker string
}

func newFixture() *fixture {
	content := newMemoryContent()
	solaris, stalker := uuid.New(), uuid.New()

	service := review.NewService(
		reviewStore{content},
		commentStore{content},
		knownTitles{solaris: true, stalker: true},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return &fixture{service: service, content: content, solaris: solaris, stalker: stalker}
}
