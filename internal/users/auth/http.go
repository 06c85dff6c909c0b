// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/critiq/internal/platform/request"
	"github.com/taibuivan/critiq/internal/platform/respond"
	"github.com/taibuivan/critiq/internal/platform/sec"
)

// # Definitions & Constructors

// Handler implements the public sign-in endpoints.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /signup        : Issues and mails a confirmation code.
//   - POST /token         : Exchanges email + code for a token pair.
//   - POST /token/refresh : Exchanges a refresh token for a new access token.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/signup", handler.signup)
	router.Post("/token", handler.token)
	router.Post("/token/refresh", handler.refresh)

	return router
}

// # Payloads

type signupRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

type signupResponse struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

type tokenRequest struct {
	Email            string `json:"email"`
	ConfirmationCode string `json:"confirmation_code"`
}

// tokenResponse repeats the access token under "token" for clients of the
// single-token response format.
type tokenResponse struct {
	Token string `json:"token"`
	*sec.TokenPair
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Token     string    `json:"token"`
	Access    string    `json:"access"`
	ExpiresAt time.Time `json:"access_expires_at"`
}

/*
Signup requests a confirmation code for an email.

POST /api/v1/auth/signup

Request:
  - Body: signupRequest (Email, optional Username)

Response:
  - 200: signupResponse: The account the code was mailed for
  - 400: VALIDATION_ERROR
  - 409: CONFLICT: Username taken by another account
  - 429: RATE_LIMITED: A code was sent recently
  - 502: DELIVERY_FAILED: The mail relay refused the message
*/
func (handler *Handler) signup(writer http.ResponseWriter, request *http.Request) {
	var input signupRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.RequestCode(request.Context(), SignupInput{
		Email:    input.Email,
		Username: input.Username,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, signupResponse{Email: user.Email, Username: user.Username})
}

/*
Token exchanges a confirmation code for a token pair.

POST /api/v1/auth/token

Response:
  - 200: tokenResponse
  - 400: VALIDATION_ERROR: Missing fields or wrong code
  - 404: NOT_FOUND: No account for this email
*/
func (handler *Handler) token(writer http.ResponseWriter, request *http.Request) {
	var input tokenRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	pair, err := handler.authService.ExchangeCode(request.Context(), TokenInput{
		Email:            input.Email,
		ConfirmationCode: input.ConfirmationCode,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, tokenResponse{Token: pair.AccessToken, TokenPair: pair})
}

/*
Refresh mints a new access token.

POST /api/v1/auth/token/refresh

Response:
  - 200: refreshResponse
  - 401: UNAUTHORIZED: Invalid refresh token or inactive account
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	var input refreshRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	access, expiresAt, err := handler.authService.Refresh(request.Context(), input.Refresh)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, refreshResponse{Token: access, Access: access, ExpiresAt: expiresAt})
}
