// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr is the error vocabulary shared by Critiq services and handlers.

Services return an [*AppError] for anything the caller did wrong: an unknown
title, a duplicate username, a review by someone else. respond.Error turns it
into the JSON body and status code. Any other error reaching a handler is
logged and answered as [Internal].
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Machine-readable values of [AppError.Code].
const (
	CodeNotFound       = "NOT_FOUND"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeForbidden      = "FORBIDDEN"
	CodeConflict       = "CONFLICT"
	CodeValidation     = "VALIDATION_ERROR"
	CodeRateLimited    = "RATE_LIMITED"
	CodeInternal       = "INTERNAL_ERROR"
	CodeDeliveryFailed = "DELIVERY_FAILED"
)

/*
AppError is a failure that is safe to show to the client.

Message is what the client reads. Cause stays on the server and only reaches
the logs, so driver errors and SQL never leak into a response.
*/
type AppError struct {
	Code       string       `json:"code"`
	Message    string       `json:"error"`
	HTTPStatus int          `json:"-"`
	Cause      error        `json:"-"`
	Details    []FieldError `json:"details,omitempty"`

	// Seconds until a throttled caller may retry; sent as Retry-After.
	RetryAfter int `json:"-"`
}

// FieldError names one rejected request field, e.g. {"score", "must be between 1 and 10"}.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.Cause }

func newError(code string, status int, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// NotFound reports a missing resource: NotFound("Review") reads "Review not found".
func NotFound(resource string) *AppError {
	return newError(CodeNotFound, http.StatusNotFound, resource+" not found")
}

// Unauthorized is for a missing, invalid or expired credential.
func Unauthorized(msg string) *AppError {
	return newError(CodeUnauthorized, http.StatusUnauthorized, msg)
}

// Forbidden is for an authenticated caller whose role does not allow the action.
func Forbidden(msg string) *AppError {
	return newError(CodeForbidden, http.StatusForbidden, msg)
}

// Conflict covers unique violations such as a taken username or a second review of one title.
func Conflict(msg string) *AppError {
	return newError(CodeConflict, http.StatusConflict, msg)
}

func ValidationError(msg string, details ...FieldError) *AppError {
	appErr := newError(CodeValidation, http.StatusBadRequest, msg)
	appErr.Details = details
	return appErr
}

func RateLimited(retryAfterSeconds int) *AppError {
	appErr := newError(CodeRateLimited, http.StatusTooManyRequests,
		fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds))
	appErr.RetryAfter = retryAfterSeconds
	return appErr
}

// Internal hides cause behind a generic 500 message.
func Internal(cause error) *AppError {
	appErr := newError(CodeInternal, http.StatusInternalServerError, "An unexpected error occurred")
	appErr.Cause = cause
	return appErr
}

// DeliveryFailed is a 502 for a confirmation e-mail the SMTP relay did not accept.
func DeliveryFailed(cause error) *AppError {
	appErr := newError(CodeDeliveryFailed, http.StatusBadGateway, "The confirmation code could not be delivered")
	appErr.Cause = cause
	return appErr
}

// IsAppError reports whether err's chain contains an [*AppError].
func IsAppError(err error) bool {
	return As(err) != nil
}

// As returns the first [*AppError] in err's chain, or nil.
func As(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

func IsNotFound(err error) bool {
	appErr := As(err)
	return appErr != nil && appErr.Code == CodeNotFound
}
