package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"gtm-backend/internal/auth"
)

type contextKey string

const userIdKey contextKey = "user_id"

// AuthMiddleware rejects requests without a valid bearer token and stores the
// caller's id in the request context.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeJsonError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := auth.ParseToken(secret, strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				writeJsonError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), userIdKey, claims.UserId)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserId returns the authenticated caller's id from the request context.
func UserId(r *http.Request) (uuid.UUID, error) {
	id, ok := r.Context().Value(userIdKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, CodedErrorf(http.StatusUnauthorized, "unauthenticated")
	}
	return id, nil
}
