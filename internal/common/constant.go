// Package common contains shared constants and sentinel errors used across
// the resident portal client and server.
package common

// Header names carried on every portal API request.
const (
	AuthorizationHeaderName = "Authorization"
	DeviceTypeHeaderName    = "DeviceType"
	BearerPrefix            = "Bearer "
)

// Session storage keys. Both are written and cleared together.
const (
	SessionTokenKey    = "token"
	SessionUserDataKey = "userData"
)

// OTPLength is the number of ASCII digits in a one-time password.
const OTPLength = 6
