package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/residentportal/internal/api"
	"github.com/dmitrijs2005/residentportal/internal/common"
	"github.com/dmitrijs2005/residentportal/internal/server/services"
)

const validationTitle = "One or more validation errors occurred."

func (r *Router) handleHealth(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, api.Health{Status: "ok"})
}

func (r *Router) handleApartments(w http.ResponseWriter, req *http.Request) {
	list, err := r.portal.Apartments(req.Context())
	if err != nil {
		r.writeError(w, req, err)
		return
	}

	out := make([]api.Apartment, 0, len(list))
	for _, a := range list {
		out = append(out, api.Apartment{ID: a.ID, FlatNumber: a.FlatNumber})
	}
	ok(w, out, "")
}

func (r *Router) handleEmailByFlat(w http.ResponseWriter, req *http.Request) {
	emails, err := r.portal.EmailsByFlat(req.Context(), req.URL.Query().Get("flatNo"))
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	ok(w, emails, "")
}

func (r *Router) handleRequestPasswordReset(w http.ResponseWriter, req *http.Request) {
	var in api.PasswordResetRequest
	if !r.decode(w, req, &in) {
		return
	}
	if err := r.portal.RequestOTP(req.Context(), in.FlatNumber); err != nil {
		r.writeError(w, req, err)
		return
	}
	ok[any](w, nil, "OTP sent")
}

func (r *Router) handleVerifyOTP(w http.ResponseWriter, req *http.Request) {
	var in api.VerifyOTPRequest
	if !r.decode(w, req, &in) {
		return
	}
	token, err := r.portal.VerifyOTP(req.Context(), in.EmailID, in.OTP)
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	ok(w, api.TokenData{Token: token}, "Login Successfully")
}

// handleLogin reports bad credentials as a 200 envelope carrying
// statusCode 401.
func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) {
	var in api.LoginRequest
	if !r.decode(w, req, &in) {
		return
	}
	token, err := r.portal.Login(req.Context(), in.EmailID, in.Password)
	if errors.Is(err, common.ErrorUnauthorized) {
		writeJSON(w, http.StatusOK, api.Envelope[*api.TokenData]{
			StatusCode: http.StatusUnauthorized,
			Error:      true,
			Message:    "Invalid email or password",
		})
		return
	}
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	ok(w, api.TokenData{Token: token}, "Login Successfully")
}

func (r *Router) handleChangePassword(w http.ResponseWriter, req *http.Request) {
	var in api.ChangePasswordRequest
	if !r.decode(w, req, &in) {
		return
	}
	if err := r.portal.ChangePassword(req.Context(), getClaims(req.Context()), in.EmailID, in.NewPassword); err != nil {
		r.writeError(w, req, err)
		return
	}
	ok[any](w, nil, "Password changed successfully")
}

func (r *Router) decode(w http.ResponseWriter, req *http.Request, v any) bool {
	body := http.MaxBytesReader(w, req.Body, r.maxRequestBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, api.Problem{
			Title:   "Invalid request body",
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
		return false
	}
	return true
}

func (r *Router) writeError(w http.ResponseWriter, req *http.Request, err error) {
	var fe *services.FieldError

	switch {
	case errors.As(err, &fe):
		writeJSON(w, http.StatusBadRequest, api.Problem{
			Title:  validationTitle,
			Status: http.StatusBadRequest,
			Errors: map[string][]string{fe.Field: {fe.Message}},
		})
	case errors.Is(err, common.ErrOTPInvalid):
		writeJSON(w, http.StatusBadRequest, api.Problem{
			Title:  validationTitle,
			Status: http.StatusBadRequest,
			Errors: map[string][]string{"Otp": {"Invalid OTP"}},
		})
	case errors.Is(err, common.ErrOTPRateLimited):
		writeJSON(w, http.StatusTooManyRequests, api.Problem{
			Title:   "Too Many Requests",
			Status:  http.StatusTooManyRequests,
			Message: "Too many OTP requests. Please try again later.",
		})
	case errors.Is(err, common.ErrorForbidden):
		writeJSON(w, http.StatusForbidden, api.Problem{
			Title:   "Forbidden",
			Status:  http.StatusForbidden,
			Message: "You are not allowed to perform this action",
		})
	case errors.Is(err, common.ErrorNotFound):
		writeJSON(w, http.StatusNotFound, api.Problem{
			Title:   "Not Found",
			Status:  http.StatusNotFound,
			Message: "Resident not found",
		})
	default:
		r.logger.Error(req.Context(), "request failed",
			"request_id", getRequestID(req.Context()), "path", req.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, api.Problem{
			Title:   "Internal Server Error",
			Status:  http.StatusInternalServerError,
			Message: "Something went wrong. Please try again.",
		})
	}
}
