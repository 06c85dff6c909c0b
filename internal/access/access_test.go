// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/critiq/internal/access"
	"github.com/taibuivan/critiq/internal/platform/apperr"
	"github.com/taibuivan/critiq/internal/platform/ctxutil"
	"github.com/taibuivan/critiq/internal/platform/sec"
)

type ownedRecord struct{ owner string }

func (record ownedRecord) OwnerID() string { return record.owner }

var (
	anonymous = access.Anonymous()
	author    = access.As(sec.Identity{UserID: "author", Role: sec.RoleUser})
	stranger  = access.As(sec.Identity{UserID: "stranger", Role: sec.RoleUser})
	moderator = access.As(sec.Identity{UserID: "mod", Role: sec.RoleModerator})
	admin     = access.As(sec.Identity{UserID: "admin", Role: sec.RoleAdmin})
	staff     = access.As(sec.Identity{UserID: "ops", Role: sec.RoleUser, Staff: true})
)

var mutations = []access.Action{access.ActionCreate, access.ActionUpdate, access.ActionDelete}

/*
TestAdminOnly allows only administrators and staff, for reads and writes alike.
*/
func TestAdminOnly(t *testing.T) {
	for _, action := range append(mutations, access.ActionList) {
		assert.Equal(t, access.Deny, access.AdminOnly(anonymous, action, nil))
		assert.Equal(t, access.Deny, access.AdminOnly(stranger, action, nil))
		assert.Equal(t, access.Deny, access.AdminOnly(moderator, action, nil))
		assert.Equal(t, access.Allow, access.AdminOnly(admin, action, nil))
		assert.Equal(t, access.Allow, access.AdminOnly(staff, action, nil))
	}
}

/*
TestAdminOrReadOnly lets everyone read and only administrators write.
*/
func TestAdminOrReadOnly(t *testing.T) {
	for _, subject := range []access.Subject{anonymous, stranger, moderator, admin} {
		assert.Equal(t, access.Allow, access.AdminOrReadOnly(subject, access.ActionList, nil))
		assert.Equal(t, access.Allow, access.AdminOrReadOnly(subject, access.ActionRetrieve, nil))
	}

	for _, action := range mutations {
		assert.Equal(t, access.Deny, access.AdminOrReadOnly(anonymous, action, nil))
		assert.Equal(t, access.Deny, access.AdminOrReadOnly(moderator, action, nil))
		assert.Equal(t, access.Allow, access.AdminOrReadOnly(admin, action, nil))
	}
}

/*
TestAuthorOrStaffOrReadOnly walks the ownership table for a review owned by "author".
*/
func TestAuthorOrStaffOrReadOnly(t *testing.T) {
	review := ownedRecord{owner: "author"}

	tests := []struct {
		name    string
		subject access.Subject
		allowed bool
	}{
		{"anonymous", anonymous, false},
		{"stranger", stranger, false},
		{"author", author, true},
		{"moderator", moderator, true},
		{"admin", admin, true},
		{"staff", staff, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, action := range []access.Action{access.ActionUpdate, access.ActionDelete} {
				assert.Equal(t, access.Decision(tt.allowed), access.AuthorOrStaffOrReadOnly(tt.subject, action, review))
			}

			// Reads are never restricted
			assert.Equal(t, access.Allow, access.AuthorOrStaffOrReadOnly(tt.subject, access.ActionRetrieve, review))
		})
	}

	// Creation needs authentication only
	assert.Equal(t, access.Deny, access.AuthorOrStaffOrReadOnly(anonymous, access.ActionCreate, nil))
	assert.Equal(t, access.Allow, access.AuthorOrStaffOrReadOnly(stranger, access.ActionCreate, nil))
}

/*
TestCheck maps denials onto 401 for anonymous and 403 for authenticated callers.
*/
func TestCheck(t *testing.T) {
	assert.NoError(t, access.Check(access.AdminOnly, admin, access.ActionDelete, nil))

	err := access.Check(access.AdminOnly, anonymous, access.ActionDelete, nil)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)

	err = access.Check(access.AdminOnly, stranger, access.ActionDelete, nil)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
}

/*
TestGuard verifies the middleware derives the action from the HTTP method.
*/
func TestGuard(t *testing.T) {
	ok := http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusNoContent)
	})
	guarded := access.Guard(access.AdminOrReadOnly)(ok)

	serve := func(method string, ctx context.Context) int {
		request := httptest.NewRequest(method, "/categories", nil).WithContext(ctx)
		recorder := httptest.NewRecorder()
		guarded.ServeHTTP(recorder, request)
		return recorder.Code
	}

	background := context.Background()
	adminCtx := ctxutil.WithIdentity(background, sec.Identity{UserID: "admin", Role: sec.RoleAdmin})
	userCtx := ctxutil.WithIdentity(background, sec.Identity{UserID: "u", Role: sec.RoleUser})

	assert.Equal(t, http.StatusNoContent, serve(http.MethodGet, background))
	assert.Equal(t, http.StatusUnauthorized, serve(http.MethodPost, background))
	assert.Equal(t, http.StatusForbidden, serve(http.MethodPost, userCtx))
	assert.Equal(t, http.StatusNoContent, serve(http.MethodDelete, adminCtx))
}
