// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

//go:build integration

/*
Package pgtest starts a disposable PostgreSQL container with the production
schema applied, for store tests run with `go test -tags integration ./...`.
*/
package pgtest

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/taibuivan/critiq/internal/platform/migration"
	"github.com/taibuivan/critiq/internal/platform/postgres"
	"github.com/taibuivan/critiq/pkg/uuid"
)

// Start runs a migrated database for the duration of t and returns a pool on it.
func Start(t *testing.T) *pgxpool.Pool {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	dsn := StartEmpty(t)
	require.NoError(t, migration.RunUp(dsn, MigrationsPath(), logger))

	pool, err := postgres.NewPool(context.Background(), dsn, postgres.DefaultPoolOptions(), logger)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

// StartEmpty runs a database without any schema and returns its DSN.
func StartEmpty(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("critiq"),
		tcpostgres.WithUsername("critiq"),
		tcpostgres.WithPassword("critiq"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("pgtest: terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return dsn
}

// CreateUser inserts an active account and returns its id.
func CreateUser(t *testing.T, pool *pgxpool.Pool, username string) string {
	t.Helper()
	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO users.account (id, username, email, isactive) VALUES ($1, $2, $3, TRUE)`,
		id, username, username+"@example.com",
	)
	require.NoError(t, err)
	return id
}

// MigrationsPath locates data/migrations from this file, independent of the
// package under test.
func MigrationsPath() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "data", "migrations")
}
