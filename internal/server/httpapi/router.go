// Package httpapi exposes the portal service over the REST contract in
// package api.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/residentportal/internal/api"
	"github.com/dmitrijs2005/residentportal/internal/logging"
	"github.com/dmitrijs2005/residentportal/internal/server/auth"
	"github.com/dmitrijs2005/residentportal/internal/server/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Portal is the service surface the router needs.
type Portal interface {
	Apartments(ctx context.Context) ([]models.Apartment, error)
	EmailsByFlat(ctx context.Context, flatNumber string) ([]string, error)
	RequestOTP(ctx context.Context, flatNumber string) error
	VerifyOTP(ctx context.Context, email, code string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	ChangePassword(ctx context.Context, caller *auth.Claims, email, newPassword string) error
	ParseToken(token string) (*auth.Claims, error)
}

type Router struct {
	portal          Portal
	logger          logging.Logger
	maxRequestBytes int64
}

func NewRouter(portal Portal, logger logging.Logger, maxRequestBytes int64) http.Handler {
	r := &Router{portal: portal, logger: logger.With("module", "httpapi"), maxRequestBytes: maxRequestBytes}
	mux := chi.NewRouter()

	mux.Use(r.requestID)
	mux.Use(r.requestLogger)
	mux.Use(middleware.Recoverer)

	mux.Get("/"+api.PathHealth, r.handleHealth)
	mux.Get("/"+api.PathApartments, r.handleApartments)
	mux.Post("/"+api.PathEmailByFlat, r.handleEmailByFlat)
	mux.Post("/"+api.PathRequestPasswordReset, r.handleRequestPasswordReset)
	mux.Post("/"+api.PathVerifyOTP, r.handleVerifyOTP)
	mux.Post("/"+api.PathLogin, r.handleLogin)

	mux.Group(func(pr chi.Router) {
		pr.Use(r.authMiddleware)
		pr.Post("/"+api.PathChangePassword, r.handleChangePassword)
	})

	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func ok[T any](w http.ResponseWriter, data T, message string) {
	writeJSON(w, http.StatusOK, api.Envelope[T]{StatusCode: http.StatusOK, Message: message, Data: data})
}
