// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/critiq/internal/core/title"
	"github.com/taibuivan/critiq/internal/platform/ctxutil"
	"github.com/taibuivan/critiq/internal/platform/sec"
)

func serve(handler http.Handler, method, path, body string, identity *sec.Identity) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	if identity != nil {
		request = request.WithContext(ctxutil.WithIdentity(context.Background(), *identity))
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

/*
TestHandler_Lifecycle creates a title as admin and reads it anonymously with its references embedded.
*/
func TestHandler_Lifecycle(t *testing.T) {
	router := title.NewHandler(newService(newMemoryTitles())).Routes()
	admin := &sec.Identity{UserID: "a-1", Role: sec.RoleAdmin}
	user := &sec.Identity{UserID: "u-1", Role: sec.RoleUser}

	body := `{"name":"Solaris","year":1972,"genre":["drama"],"category":"film"}`

	assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodPost, "/", body, nil).Code)
	assert.Equal(t, http.StatusForbidden, serve(router, http.MethodPost, "/", body, user).Code)

	recorder := serve(router, http.MethodPost, "/", body, admin)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))

	recorder = serve(router, http.MethodGet, "/"+created.Data.ID, "", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"category":{"name":"Film","slug":"film"}`)
	assert.Contains(t, recorder.Body.String(), `"genre":[{"name":"Drama","slug":"drama"}]`)
	assert.Contains(t, recorder.Body.String(), `"rating":null`)

	recorder = serve(router, http.MethodGet, "/?genre=drama&year=1972", "", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), created.Data.ID)

	assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodGet, "/?year=seventies", "", nil).Code)
	assert.Equal(t, http.StatusNoContent, serve(router, http.MethodDelete, "/"+created.Data.ID, "", admin).Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/"+created.Data.ID, "", nil).Code)
}
