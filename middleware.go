package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type ctxKey string

const ownerKey ctxKey = "owner"

// authMiddleware verifies the bearer token and injects the caller's identity
// into the request context.
func (a *App) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if !strings.HasPrefix(authz, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
			return
		}
		owner, err := a.verifier.subject(strings.TrimPrefix(authz, "Bearer "))
		if err != nil {
			a.log.Debug("token rejected", zap.Error(err), zap.String("request_id", middleware.GetReqID(r.Context())))
			writeError(w, http.StatusUnauthorized, "Unauthorized", "invalid token")
			return
		}
		ctx := context.WithValue(r.Context(), ownerKey, owner)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ownerOf returns the caller's identity or "" when the request is anonymous.
func ownerOf(r *http.Request) string {
	owner, _ := r.Context().Value(ownerKey).(string)
	return owner
}

// requestLogger logs one line per request once the response is written.
func (a *App) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			a.log.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}
