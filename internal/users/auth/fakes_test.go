// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/critiq/internal/platform/apperr"
	"github.com/taibuivan/critiq/internal/platform/sec"
	"github.com/taibuivan/critiq/internal/users/auth"
)

// memoryUsers is an in-memory [auth.UserRepository] keyed by email.
type memoryUsers struct {
	mu      sync.Mutex
	byEmail map[string]*auth.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byEmail: map[string]*auth.User{}}
}

func (store *memoryUsers) FindByID(_ context.Context, id string) (*auth.User, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	for _, user := range store.byEmail {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (store *memoryUsers) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	user, ok := store.byEmail[email]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	copied := *user
	return &copied, nil
}

func (store *memoryUsers) UpsertPending(_ context.Context, user *auth.User, codeHash string) (*auth.User, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if existing, ok := store.byEmail[user.Email]; ok {
		existing.ConfirmationCode = codeHash
		copied := *existing
		return &copied, nil
	}
	for _, other := range store.byEmail {
		if other.Username == user.Username {
			return nil, apperr.Conflict("Username is already taken")
		}
	}

	created := *user
	created.Role = sec.RoleUser
	created.ConfirmationCode = codeHash
	store.byEmail[user.Email] = &created
	copied := created
	return &copied, nil
}

func (store *memoryUsers) Activate(_ context.Context, id string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	for _, user := range store.byEmail {
		if user.ID == id {
			user.IsActive = true
			return nil
		}
	}
	return apperr.NotFound("User")
}

func (store *memoryUsers) get(email string) auth.User {
	store.mu.Lock()
	defer store.mu.Unlock()
	return *store.byEmail[email]
}

func (store *memoryUsers) setRole(email string, role sec.Role) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.byEmail[email].Role = role
}

// recordingSender captures outgoing mail and can be told to fail.
type recordingSender struct {
	mu         sync.Mutex
	recipients []string
	bodies     []string
	fails      bool
}

func (sender *recordingSender) count() int {
	sender.mu.Lock()
	defer sender.mu.Unlock()
	return len(sender.bodies)
}

func (sender *recordingSender) Send(_ context.Context, to, _, body string) error {
	sender.mu.Lock()
	defer sender.mu.Unlock()
	if sender.fails {
		return errors.New("relay refused message")
	}
	sender.recipients = append(sender.recipients, to)
	sender.bodies = append(sender.bodies, body)
	return nil
}

// lastCode extracts the plain code from the most recent message.
func (sender *recordingSender) lastCode(t *testing.T) string {
	t.Helper()
	sender.mu.Lock()
	defer sender.mu.Unlock()
	require.NotEmpty(t, sender.bodies)

	var code string
	_, err := fmt.Sscanf(sender.bodies[len(sender.bodies)-1], "confirmation_code: %s", &code)
	require.NoError(t, err)
	return code
}

type fixture struct {
	service *auth.Service
	users   *memoryUsers
	sender  *recordingSender
	tokens  *sec.TokenService
	redis   *miniredis.Miniredis
}

func newFixture(t *testing.T, resendInterval time.Duration) *fixture {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	server := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	f := &fixture{
		users:  newMemoryUsers(),
		sender: &recordingSender{},
		tokens: sec.NewTokenServiceFromKey(key, &key.PublicKey, "critiq.test", time.Minute, time.Hour),
		redis:  server,
	}
	f.service = auth.NewService(
		f.users,
		auth.NewCodeThrottle(client, resendInterval),
		f.sender,
		f.tokens,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return f
}
