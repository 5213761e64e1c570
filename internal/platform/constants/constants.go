// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the storefront client
and the local auth API stub.

Categories:

  - Storage: Fixed keys of the persisted session.
  - Routes: Logical navigation targets of the storefront.
  - Remote API: Endpoint paths, form field names, and headers.
  - Timing: Grace periods and server timeouts.

Using this package keeps wire names and magic numbers out of the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName     = "tinytales-storefront"
	StubAppName = "tinytales-authstub"
	AppVersion  = "0.1.0-dev"
)

// # Storage Keys

const (
	// StorageKeyToken holds the bearer token of the current session.
	StorageKeyToken = "auth_token"

	// StorageKeyUserName holds the cached display name of the current session.
	StorageKeyUserName = "user_name"
)

// # Routes

const (
	RouteHome      = "/"
	RouteLogin     = "/login"
	RouteRegister  = "/register"
	RouteVerify    = "/verify"
	RouteDashboard = "/dashboard"

	// QueryRedirect is the login query parameter naming the path to return to.
	QueryRedirect = "redirect"
)

// # Remote API

const (
	// DefaultAPIBaseURL is the production auth API endpoint.
	DefaultAPIBaseURL = "https://tinytales.trendline.marketing/api"

	PathRegister   = "/auth/register"
	PathLogin      = "/auth/login"
	PathVerify     = "/auth/verify-email"
	PathResendCode = "/auth/verify-email/resend-code"
	PathUserData   = "/auth/user-data"
	PathLogout     = "/auth/logout"
)

// # Form Fields

const (
	FieldName                 = "name"
	FieldEmail                = "email"
	FieldMobile               = "mobile"
	FieldPassword             = "password"
	FieldPasswordConfirmation = "password_confirmation"
	FieldMobileCountryCode    = "mobile_country_code"
	FieldCode                 = "code"
)

// # JSON Field Identifiers

const (
	FieldStatus     = "status"
	FieldStatusCode = "status_code"
	FieldData       = "data"
	FieldMessage    = "message"
	FieldErrors     = "errors"
)

// # Headers

const (
	HeaderAccept        = "Accept"
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"

	MIMEApplicationJSON = "application/json"
	AuthSchemeBearer    = "Bearer"
)

// # Client Timing

const (
	// VerifyRedirectDelay is the grace period between a successful verification
	// and the redirect to the login page.
	VerifyRedirectDelay = 2 * time.Second

	// StorageOpTimeout bounds a single call against a networked storage backend.
	StorageOpTimeout = 2 * time.Second
)

// # Defaults

const (
	// DefaultMobileCountryCode is pre-filled on the registration form.
	DefaultMobileCountryCode = "971"

	// VerificationCodeLength is the exact length of an email verification code.
	VerificationCodeLength = 6
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 10 * time.Second

	// MaxMultipartMemory caps the in-memory part of a parsed multipart form.
	MaxMultipartMemory = 1 << 20
)

// # Rate Limiting

const (
	// ResendCodeInterval is the minimum spacing between two resend-code calls per account.
	ResendCodeInterval = 30 * time.Second

	// ResendCodeBurst is the number of resend-code calls allowed back to back.
	ResendCodeBurst = 2
)

// # Stub Server

const (
	// AuthIssuer is the "iss" claim of tokens minted by the auth stub.
	AuthIssuer = "tinytales-authstub"

	// GlobalRequestTimeout bounds every request handled by the auth stub.
	GlobalRequestTimeout = 15 * time.Second

	// DefaultRateLimitRPS is the sustained per-IP request rate of the auth stub.
	DefaultRateLimitRPS = 20

	// DefaultRateLimitBurst is the per-IP burst allowance of the auth stub.
	DefaultRateLimitBurst = 40

	// RateLimitCleanupInterval is how often idle per-IP limiters are evicted.
	RateLimitCleanupInterval = time.Minute

	// RateLimitClientTTL is how long an idle per-IP limiter is kept.
	RateLimitClientTTL = 3 * time.Minute

	// HeaderOrigin is the CORS request origin header.
	HeaderOrigin = "Origin"

	// AllowedOriginSuffix is the production storefront origin accepted by CORS.
	AllowedOriginSuffix = "tinytales.trendline.marketing"
)
