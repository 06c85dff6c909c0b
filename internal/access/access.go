// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package access is the permission engine shared by every write path.

A [Policy] is a plain decision function over (subject, action, target). The
request-dispatch layer composes policies: class-level checks run as chi
middleware through [Guard], instance-level checks run inside services through
[Check] once the target record has been resolved.

Policies:

  - [AdminOnly]: user management and catalogue writes.
  - [AdminOrReadOnly]: read/write split for categories, genres and titles.
  - [AuthorOrStaffOrReadOnly]: reviews and comments, decided per object.
*/
package access

import (
	"context"
	"net/http"

	"github.com/taibuivan/critiq/internal/platform/apperr"
	"github.com/taibuivan/critiq/internal/platform/ctxutil"
	"github.com/taibuivan/critiq/internal/platform/sec"
)

// # Actions

// Action classifies what a request intends to do to a resource.
type Action uint8

const (
	ActionList Action = iota + 1
	ActionRetrieve
	ActionCreate
	ActionUpdate
	ActionDelete
)

// Safe reports whether the action never mutates state.
func (action Action) Safe() bool {
	return action == ActionList || action == ActionRetrieve
}

// ActionFromMethod maps an HTTP method onto an [Action].
//
// GET, HEAD and OPTIONS are treated as reads; unknown methods as updates so
// that they fall on the restrictive side of every policy.
func ActionFromMethod(method string) Action {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return ActionRetrieve
	case http.MethodPost:
		return ActionCreate
	case http.MethodDelete:
		return ActionDelete
	default:
		return ActionUpdate
	}
}

// # Subjects

// Subject is the caller a decision is made for. The zero value is anonymous.
type Subject struct {
	identity      sec.Identity
	authenticated bool
}

// Anonymous returns a subject with no identity.
func Anonymous() Subject {
	return Subject{}
}

// As returns an authenticated subject for identity.
func As(identity sec.Identity) Subject {
	return Subject{identity: identity, authenticated: true}
}

// SubjectFrom builds the subject for the caller stored in ctx by the
// authentication middleware.
func SubjectFrom(ctx context.Context) Subject {
	identity, ok := ctxutil.GetIdentity(ctx)
	if !ok {
		return Anonymous()
	}
	return As(identity)
}

// IsAuthenticated reports whether the subject carries an identity.
func (subject Subject) IsAuthenticated() bool {
	return subject.authenticated
}

// UserID returns the caller's account id, or "" when anonymous.
func (subject Subject) UserID() string {
	return subject.identity.UserID
}

// CanModerate reports whether the subject may act on content it does not own.
func (subject Subject) CanModerate() bool {
	return subject.authenticated && sec.CanModerate(subject.identity.Role)
}

// CanAdminister reports whether the subject may manage users and the catalogue.
func (subject Subject) CanAdminister() bool {
	return subject.authenticated && sec.CanAdminister(subject.identity.Role, subject.identity.Staff)
}

// # Targets

// Owned is implemented by records with an author of record.
type Owned interface {
	OwnerID() string
}

// # Policies

// Decision is the outcome of a [Policy].
type Decision bool

const (
	Deny  Decision = false
	Allow Decision = true
)

// Policy decides whether subject may perform action on target.
// target is nil for collection-level actions (list, create).
type Policy func(subject Subject, action Action, target Owned) Decision

// AdminOnly allows authenticated administrators, whatever the action.
func AdminOnly(subject Subject, _ Action, _ Owned) Decision {
	return Decision(subject.CanAdminister())
}

// AdminOrReadOnly allows every read and defers writes to [AdminOnly].
func AdminOrReadOnly(subject Subject, action Action, target Owned) Decision {
	if action.Safe() {
		return Allow
	}
	return AdminOnly(subject, action, target)
}

// AuthorOrStaffOrReadOnly allows every read. Writes need an authenticated
// subject; writes on an existing record additionally need the subject to be
// its author, a moderator or an administrator.
func AuthorOrStaffOrReadOnly(subject Subject, action Action, target Owned) Decision {
	if action.Safe() {
		return Allow
	}
	if !subject.IsAuthenticated() {
		return Deny
	}
	if target == nil {
		return Allow
	}
	return Decision(target.OwnerID() == subject.UserID() || subject.CanModerate() || subject.CanAdminister())
}

// # Enforcement

// Check evaluates policy and converts a denial into the matching [apperr.AppError]:
// 401 for anonymous subjects, 403 for authenticated ones.
func Check(policy Policy, subject Subject, action Action, target Owned) error {
	if policy(subject, action, target) == Allow {
		return nil
	}
	if !subject.IsAuthenticated() {
		return apperr.Unauthorized("Authentication required")
	}
	return apperr.Forbidden("You do not have permission to perform this action")
}
