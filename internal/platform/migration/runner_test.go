// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/critiq/internal/platform/migration"
)

/*
TestPgx5DSN rewrites libpq URL schemes only.
*/
func TestPgx5DSN(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@db:5432/critiq", migration.Pgx5DSN("postgres://u:p@db:5432/critiq"))
	assert.Equal(t, "pgx5://db/critiq", migration.Pgx5DSN("postgresql://db/critiq"))
	assert.Equal(t, "pgx5://db/critiq", migration.Pgx5DSN("pgx5://db/critiq"))
	assert.Equal(t, "host=db dbname=critiq", migration.Pgx5DSN("host=db dbname=critiq"))
}
