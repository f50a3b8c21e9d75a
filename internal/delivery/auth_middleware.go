package delivery

import (
	"context"
	"net/http"

	"chronicle/internal/ports"
)

type ctxKey int

const ctxKeyUserID ctxKey = iota

// UserID returns the authenticated user id stamped by AuthMiddleware.
func UserID(ctx context.Context) int64 {
	id, _ := ctx.Value(ctxKeyUserID).(int64)
	return id
}

func AuthMiddleware(auth ports.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			token := r.Header.Get("X-Auth")
			if token == "" {
				writeError(w, http.StatusUnauthorized, "missing token")
				return
			}

			userID, err := auth.ValidateToken(r.Context(), token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyUserID, userID)))
		})
	}
}
