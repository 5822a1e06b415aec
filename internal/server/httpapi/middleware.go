package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/residentportal/internal/api"
	"github.com/dmitrijs2005/residentportal/internal/common"
	"github.com/dmitrijs2005/residentportal/internal/server/auth"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

type ctxKey int

const (
	claimsContextKey ctxKey = iota
	requestIDContextKey
)

const requestIDHeader = "X-Request-ID"

func (r *Router) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		id := req.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(req.Context(), requestIDContextKey, id)
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

func (r *Router) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)

		next.ServeHTTP(ww, req)

		r.logger.Info(req.Context(), "request",
			"request_id", getRequestID(req.Context()),
			"method", req.Method,
			"path", req.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"device", req.Header.Get(common.DeviceTypeHeaderName),
			"elapsed", time.Since(start),
		)
	})
}

func (r *Router) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		authz := req.Header.Get(common.AuthorizationHeaderName)
		if authz == "" || !strings.HasPrefix(authz, common.BearerPrefix) {
			writeJSON(w, http.StatusUnauthorized, api.Problem{Title: "Unauthorized", Status: http.StatusUnauthorized, Message: "missing bearer token"})
			return
		}
		token := strings.TrimPrefix(authz, common.BearerPrefix)
		claims, err := r.portal.ParseToken(token)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, api.Problem{Title: "Unauthorized", Status: http.StatusUnauthorized, Message: "invalid token"})
			return
		}
		ctx := context.WithValue(req.Context(), claimsContextKey, claims)
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

func getClaims(ctx context.Context) *auth.Claims {
	if v, ok := ctx.Value(claimsContextKey).(*auth.Claims); ok {
		return v
	}
	return nil
}

func getRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDContextKey).(string); ok {
		return v
	}
	return ""
}
