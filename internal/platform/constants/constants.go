// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package constants holds the fixed values of the Critiq API that are not worth
// an environment variable: server deadlines, the per-address request budget,
// token lifetimes and shared header names.
package constants

import "time"

const (
	AppName    = "critiq-api"
	AppVersion = "0.1.0-dev"
)

// HTTP server deadlines. GlobalRequestTimeout bounds a handler including its
// database calls; ShutdownTimeout bounds draining after SIGTERM.
const (
	DefaultReadHeaderTimeout = 2 * time.Second
	DefaultReadTimeout       = 5 * time.Second
	DefaultWriteTimeout      = 10 * time.Second
	DefaultIdleTimeout       = 120 * time.Second
	GlobalRequestTimeout     = 30 * time.Second
	ShutdownTimeout          = 30 * time.Second
)

// Per-address request budget enforced by middleware.RateLimit.
const (
	DefaultRateLimitRPS   = 100.0
	DefaultRateLimitBurst = 150

	// Addresses idle longer than RateLimitClientTTL are forgotten on the next sweep.
	RateLimitCleanupInterval = time.Minute
	RateLimitClientTTL       = 3 * time.Minute
)

// Token issuer and lifetimes. Only the key paths come from the environment.
const (
	AuthIssuer      = "critiq.app"
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 14 * 24 * time.Hour
)

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderRetryAfter    = "Retry-After"
)

// Keys of the health endpoint bodies and of error log attributes.
const (
	FieldCode    = "code"
	FieldStatus  = "status"
	FieldChecks  = "checks"
	FieldVersion = "version"
)

// RedisPrefixCodeThrottle keys the per-email confirmation code cooldown.
const RedisPrefixCodeThrottle = "auth:code_throttle:"
