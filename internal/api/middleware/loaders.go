package middleware

import (
	"net/http"

	"github.com/dkswoans/2307-fastapiProjects/internal/api/loaders"
	"github.com/dkswoans/2307-fastapiProjects/internal/domain/repositories"
)

// LoadersMiddleware gives every request its own batching loaders
func LoadersMiddleware(facilityRepo repositories.FacilityRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := loaders.WithLoaders(r.Context(), loaders.NewLoaders(facilityRepo))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
