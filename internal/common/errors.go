// Package common defines shared constants and sentinel errors used across
// client and server layers of the portal. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// Validation errors.
	ErrorValidation = errors.New("validation error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// OTP lifecycle errors.
	ErrOTPInvalid     = errors.New("invalid or expired otp")
	ErrOTPRateLimited = errors.New("too many otp requests")
)
