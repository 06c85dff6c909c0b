// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/critiq/internal/platform/apperr"
)

/*
TestAs finds an AppError behind fmt.Errorf wrapping.
*/
func TestAs(t *testing.T) {
	wrapped := fmt.Errorf("review_service_get_failed: %w", apperr.NotFound("Review"))

	appErr := apperr.As(wrapped)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusNotFound, appErr.HTTPStatus)
	assert.Equal(t, "Review not found", appErr.Message)
	assert.True(t, apperr.IsNotFound(wrapped))
	assert.True(t, apperr.IsAppError(wrapped))

	plain := errors.New("connection reset")
	assert.Nil(t, apperr.As(plain))
	assert.False(t, apperr.IsNotFound(plain))
	assert.False(t, apperr.IsNotFound(apperr.Conflict("Username already taken")))
}

/*
TestInternal_HidesCause keeps the cause reachable for logs but out of the body.
*/
func TestInternal_HidesCause(t *testing.T) {
	cause := errors.New(`relation "core.title" does not exist`)
	appErr := apperr.Internal(cause)

	assert.ErrorIs(t, appErr, cause)

	body, err := json.Marshal(appErr)
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":"INTERNAL_ERROR","error":"An unexpected error occurred"}`, string(body))
}

/*
TestConstructors checks the status each constructor maps to.
*/
func TestConstructors(t *testing.T) {
	cases := []struct {
		err    *apperr.AppError
		status int
		code   string
	}{
		{apperr.Unauthorized("Token expired"), http.StatusUnauthorized, apperr.CodeUnauthorized},
		{apperr.Forbidden("Not your review"), http.StatusForbidden, apperr.CodeForbidden},
		{apperr.Conflict("Username already taken"), http.StatusConflict, apperr.CodeConflict},
		{apperr.ValidationError("Invalid input"), http.StatusBadRequest, apperr.CodeValidation},
		{apperr.RateLimited(30), http.StatusTooManyRequests, apperr.CodeRateLimited},
		{apperr.DeliveryFailed(errors.New("550")), http.StatusBadGateway, apperr.CodeDeliveryFailed},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, tc.err.HTTPStatus, tc.code)
		assert.Equal(t, tc.code, tc.err.Code)
	}

	limited := apperr.RateLimited(30)
	assert.Equal(t, 30, limited.RetryAfter)
	assert.Equal(t, "Too many requests. Try again in 30s.", limited.Error())

	invalid := apperr.ValidationError("Invalid input", apperr.FieldError{Field: "score", Message: "must be between 1 and 10"})
	body, err := json.Marshal(invalid)
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":"VALIDATION_ERROR","error":"Invalid input","details":[{"field":"score","message":"must be between 1 and 10"}]}`, string(body))
}
