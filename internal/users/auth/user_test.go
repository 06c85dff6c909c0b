// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/critiq/internal/platform/sec"
	"github.com/taibuivan/critiq/internal/users/auth"
)

/*
TestUser_Capabilities derives is_admin and is_moderator from the stored role and staff flag.
*/
func TestUser_Capabilities(t *testing.T) {
	tests := []struct {
		name      string
		user      auth.User
		admin     bool
		moderator bool
	}{
		{"user", auth.User{Role: sec.RoleUser}, false, false},
		{"moderator", auth.User{Role: sec.RoleModerator}, false, true},
		{"admin", auth.User{Role: sec.RoleAdmin}, true, false},
		{"staff", auth.User{Role: sec.RoleUser, IsStaff: true}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.admin, tt.user.IsAdmin())
			assert.Equal(t, tt.moderator, tt.user.IsModerator())
		})
	}
}

/*
TestDefaultUsername replaces characters a username cannot hold and enforces the length limit.
*/
func TestDefaultUsername(t *testing.T) {
	assert.Equal(t, "reader@example.com", auth.DefaultUsername("reader@example.com"))
	assert.Equal(t, "o_brien@example.com", auth.DefaultUsername("o'brien@example.com"))
	assert.Equal(t, "j_r_me@example.com", auth.DefaultUsername("jérôme@example.com"))

	long := auth.DefaultUsername(strings.Repeat("x", 300) + "@example.com")
	assert.Len(t, long, auth.MaxUsernameLen)
}
