// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

//go:build integration

package migration_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/critiq/internal/platform/migration"
	"github.com/taibuivan/critiq/internal/platform/postgres/pgtest"
)

/*
TestRunUpDown applies, reverts and reapplies the schema on a fresh database.
*/
func TestRunUpDown(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dsn := pgtest.StartEmpty(t)
	path := pgtest.MigrationsPath()

	conn, err := pgx.Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close(context.Background()) })

	tableExists := func(name string) bool {
		var found bool
		require.NoError(t, conn.QueryRow(ctx, `SELECT to_regclass($1) IS NOT NULL`, name).Scan(&found))
		return found
	}

	require.NoError(t, migration.RunUp(dsn, path, logger))
	assert.True(t, tableExists("social.review"))

	// A second run is a no-op
	require.NoError(t, migration.RunUp(dsn, path, logger))

	require.NoError(t, migration.RunDown(dsn, path, logger))
	assert.False(t, tableExists("social.review"))
	assert.False(t, tableExists("users.account"))

	require.NoError(t, migration.RunUp(dsn, path, logger))
	assert.True(t, tableExists("core.title"))
}
