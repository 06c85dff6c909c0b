// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/taibuivan/critiq/internal/core/reference"
	"github.com/taibuivan/critiq/internal/core/title"
	"github.com/taibuivan/critiq/internal/platform/apperr"
	"github.com/taibuivan/critiq/internal/social/review"
	"github.com/taibuivan/critiq/internal/users/account"
	"github.com/taibuivan/critiq/internal/users/auth"
	"github.com/taibuivan/critiq/pkg/pagination"
)

// memoryUsers backs both the sign-in flow and account management, so a role
// change made through /users is visible to the authentication middleware.
type memoryUsers struct {
	mu   sync.Mutex
	byID map[string]*auth.User
}

func (store *memoryUsers) find(match func(*auth.User) bool) (*auth.User, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	for _, user := range store.byID {
		if match(user) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (store *memoryUsers) FindByID(_ context.Context, id string) (*auth.User, error) {
	return store.find(func(user *auth.User) bool { return user.ID == id })
}

func (store *memoryUsers) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	return store.find(func(user *auth.User) bool { return user.Email == email })
}

func (store *memoryUsers) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	return store.find(func(user *auth.User) bool { return user.Username == username })
}

func (store *memoryUsers) UpsertPending(_ context.Context, user *auth.User, codeHash string) (*auth.User, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	created := *user
	created.ConfirmationCode = codeHash
	store.byID[created.ID] = &created
	return &created, nil
}

func (store *memoryUsers) Activate(_ context.Context, id string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.byID[id].IsActive = true
	return nil
}

func (store *memoryUsers) List(context.Context, account.ListFilter, pagination.Params) ([]*auth.User, int, error) {
	return nil, 0, nil
}

func (store *memoryUsers) Create(_ context.Context, user *auth.User) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	copied := *user
	store.byID[user.ID] = &copied
	return nil
}

func (store *memoryUsers) Update(_ context.Context, user *auth.User) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	copied := *user
	store.byID[user.ID] = &copied
	return nil
}

func (store *memoryUsers) Delete(_ context.Context, id string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.byID, id)
	return nil
}

// openThrottle never limits code requests.
type openThrottle struct{}

func (openThrottle) Acquire(context.Context, string) (time.Duration, error) { return 0, nil }
func (openThrottle) Release(context.Context, string) error                  { return nil }

// emptyReferences knows no categories or genres.
type emptyReferences struct{}

func (emptyReferences) List(context.Context, reference.Kind, string, pagination.Params) ([]*reference.Entry, int, error) {
	return nil, 0, nil
}

func (emptyReferences) FindBySlug(_ context.Context, kind reference.Kind, _ string) (*reference.Entry, error) {
	return nil, apperr.NotFound(kind.Resource)
}

func (emptyReferences) FindBySlugs(context.Context, reference.Kind, []string) ([]*reference.Entry, error) {
	return nil, nil
}

func (emptyReferences) Create(context.Context, reference.Kind, *reference.Entry) error { return nil }

func (emptyReferences) DeleteBySlug(_ context.Context, kind reference.Kind, _ string) error {
	return apperr.NotFound(kind.Resource)
}

// memoryTitles stores titles by id.
type memoryTitles struct {
	mu   sync.Mutex
	byID map[string]*title.Title
}

func (store *memoryTitles) List(context.Context, title.Filter, pagination.Params) ([]*title.Title, int, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	titles := make([]*title.Title, 0, len(store.byID))
	for _, stored := range store.byID {
		titles = append(titles, stored)
	}
	return titles, len(titles), nil
}

func (store *memoryTitles) FindByID(_ context.Context, id string) (*title.Title, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	stored, ok := store.byID[id]
	if !ok {
		return nil, apperr.NotFound("Title")
	}
	copied := *stored
	return &copied, nil
}

func (store *memoryTitles) Create(_ context.Context, created *title.Title) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	copied := *created
	store.byID[created.ID] = &copied
	return nil
}

func (store *memoryTitles) Update(ctx context.Context, updated *title.Title) error {
	return store.Create(ctx, updated)
}

func (store *memoryTitles) Delete(_ context.Context, id string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.byID, id)
	return nil
}

// memoryReviews stores reviews by id, newest first on listing.
type memoryReviews struct {
	mu   sync.Mutex
	byID map[string]*review.Review
}

func (store *memoryReviews) ListByTitle(_ context.Context, titleID string, _ pagination.Params) ([]*review.Review, int, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	var reviews []*review.Review
	for _, stored := range store.byID {
		if stored.TitleID == titleID {
			reviews = append(reviews, stored)
		}
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].PubDate.After(reviews[j].PubDate) })
	return reviews, len(reviews), nil
}

func (store *memoryReviews) FindByID(_ context.Context, titleID, reviewID string) (*review.Review, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	stored, ok := store.byID[reviewID]
	if !ok || stored.TitleID != titleID {
		return nil, apperr.NotFound("Review")
	}
	copied := *stored
	return &copied, nil
}

func (store *memoryReviews) Create(_ context.Context, created *review.Review) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	copied := *created
	copied.PubDate = time.Now()
	store.byID[created.ID] = &copied
	return nil
}

func (store *memoryReviews) Update(_ context.Context, updated *review.Review) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	copied := *updated
	store.byID[updated.ID] = &copied
	return nil
}

func (store *memoryReviews) Delete(_ context.Context, reviewID string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.byID, reviewID)
	return nil
}

// noComments is an empty comment store.
type noComments struct{}

func (noComments) ListByReview(context.Context, string, pagination.Params) ([]*review.Comment, int, error) {
	return nil, 0, nil
}

func (noComments) FindByID(context.Context, string, string) (*review.Comment, error) {
	return nil, apperr.NotFound("Comment")
}

func (noComments) Create(context.Context, *review.Comment) error { return nil }
func (noComments) Update(context.Context, *review.Comment) error { return nil }
func (noComments) Delete(context.Context, string) error          { return nil }
