// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

//go:build integration

package account_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/critiq/internal/platform/postgres/pgtest"
	"github.com/taibuivan/critiq/internal/users/account"
	"github.com/taibuivan/critiq/pkg/pagination"
)

/*
TestPostgres_ListSearch matches usernames literally and case-insensitively.
*/
func TestPostgres_ListSearch(t *testing.T) {
	pool := pgtest.Start(t)
	repository := account.NewPostgresRepository(pool)
	ctx := context.Background()
	page := pagination.Params{Page: 1, Limit: 10}

	pgtest.CreateUser(t, pool, "film_buff")
	pgtest.CreateUser(t, pool, "filmbuff")

	users, total, err := repository.List(ctx, account.ListFilter{Search: "FILM"}, page)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, users, 2)

	users, total, err = repository.List(ctx, account.ListFilter{Search: "_"}, page)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "film_buff", users[0].Username)

	_, total, err = repository.List(ctx, account.ListFilter{Search: "%"}, page)
	require.NoError(t, err)
	assert.Zero(t, total)
}
