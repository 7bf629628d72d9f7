package middleware

import (
	"net/http"
	"strconv"

	"github.com/dkswoans/2307-fastapiProjects/internal/domain/entities"
)

// UserIDHeader names the caller of a request. Requests without it run anonymously.
const UserIDHeader = "X-User-ID"

// IdentityMiddleware attaches the caller named by X-User-ID to the request context
func IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(UserIDHeader)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid X-User-ID header"}`))
			return
		}

		ctx := entities.WithCaller(r.Context(), entities.Caller{UserID: userID})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
