// Package api holds the JSON contract shared by the portal client and the
// reference backend.
package api

// Endpoint paths, relative to the API base URL.
const (
	PathEmailByFlat          = "api/Login/GetEmailByFlatNo"
	PathRequestPasswordReset = "api/Login/request-password-reset"
	PathVerifyOTP            = "api/Login/verify-otp"
	PathLogin                = "api/login"
	PathChangePassword       = "api/Login/change-password"
	PathApartments           = "api/FlatsAndVillas/GetAllApartments"
	PathHealth               = "health"
)

// Envelope wraps every successful response. Error may be true with a 200
// transport status, in which case StatusCode and Message describe the failure.
type Envelope[T any] struct {
	StatusCode int    `json:"statusCode"`
	Error      bool   `json:"error"`
	Message    string `json:"message,omitempty"`
	Data       T      `json:"data"`
}

// Problem is the body of a 400 response. Errors maps a field name to its messages.
type Problem struct {
	Title   string              `json:"title,omitempty"`
	Status  int                 `json:"status,omitempty"`
	Message string              `json:"message,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

type TokenData struct {
	Token string `json:"token"`
}

type Apartment struct {
	ID         int64  `json:"id"`
	FlatNumber string `json:"flatNumber"`
}

type PasswordResetRequest struct {
	FlatNumber string `json:"FlatNumber"`
}

type VerifyOTPRequest struct {
	EmailID string `json:"emailId"`
	OTP     string `json:"otp"`
}

type LoginRequest struct {
	EmailID  string `json:"emailId"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	EmailID     string `json:"emailId"`
	NewPassword string `json:"newPassword"`
}

type Health struct {
	Status string `json:"status"`
}
