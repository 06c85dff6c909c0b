// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/critiq/internal/core/reference"
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
TestHandler_ReadWriteSplit lets anyone read while only administrators write.
*/
func TestHandler_ReadWriteSplit(t *testing.T) {
	router := reference.NewHandler(newService(newMemoryReference()), reference.Genre).Routes()

	user := &sec.Identity{UserID: "u-1", Role: sec.RoleUser}
	admin := &sec.Identity{UserID: "a-1", Role: sec.RoleAdmin}
	body := `{"name":"Drama","slug":"drama"}`

	assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodPost, "/", body, nil).Code)
	assert.Equal(t, http.StatusForbidden, serve(router, http.MethodPost, "/", body, user).Code)

	recorder := serve(router, http.MethodPost, "/", body, admin)
	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"slug":"drama"`)
	assert.NotContains(t, recorder.Body.String(), `"id"`)

	assert.Equal(t, http.StatusConflict, serve(router, http.MethodPost, "/", body, admin).Code)

	recorder = serve(router, http.MethodGet, "/?search=dra", "", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"name":"Drama"`)

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/drama", "", nil).Code)
	assert.Equal(t, http.StatusForbidden, serve(router, http.MethodDelete, "/drama", "", user).Code)
	assert.Equal(t, http.StatusNoContent, serve(router, http.MethodDelete, "/drama", "", admin).Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/drama", "", nil).Code)
}
