package routes

import (
	"net/http"

	"github.com/dkswoans/2307-fastapiProjects/internal/api/handlers"
	"github.com/dkswoans/2307-fastapiProjects/internal/api/middleware"
	"github.com/dkswoans/2307-fastapiProjects/internal/domain/repositories"
	"github.com/dkswoans/2307-fastapiProjects/internal/infrastructure/observability"
)

// Handlers groups the route handlers. SSE is optional and only mounted when an event bus exists.
type Handlers struct {
	Reservation *handlers.ReservationHandler
	Facility    *handlers.FacilityHandler
	Trail       *handlers.TrailHandler
	Record      *handlers.RecordHandler
	User        *handlers.UserHandler
	Health      *handlers.HealthHandler
	SSE         *handlers.SSEHandler
}

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	handlers        Handlers
	facilityRepo    repositories.FacilityRepository
	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
	allowedOrigins  []string
}

// NewRouter creates a new router
func NewRouter(
	h Handlers,
	facilityRepo repositories.FacilityRepository,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
	allowedOrigins []string,
) *Router {
	return &Router{
		mux:             http.NewServeMux(),
		handlers:        h,
		facilityRepo:    facilityRepo,
		cacheMiddleware: cacheMiddleware,
		metrics:         metrics,
		allowedOrigins:  allowedOrigins,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", r.handlers.Health.Health)

	// Reservation endpoints
	r.mux.HandleFunc("GET /reservations", r.handlers.Reservation.ListReservations)
	r.mux.HandleFunc("GET /reservations/new", r.handlers.Reservation.NewReservationForm)
	r.mux.HandleFunc("POST /reservations/new", r.handlers.Reservation.CreateReservation)
	r.mux.HandleFunc("GET /reservations/{id}", r.handlers.Reservation.GetReservation)
	r.mux.HandleFunc("GET /reservations/{id}/edit", r.handlers.Reservation.EditReservationForm)
	r.mux.HandleFunc("PUT /reservations/{id}", r.handlers.Reservation.UpdateReservation)
	r.mux.HandleFunc("DELETE /reservations/{id}", r.handlers.Reservation.DeleteReservation)

	// Facility endpoints
	r.mux.HandleFunc("GET /facilities", r.handlers.Facility.ListFacilities)
	r.mux.HandleFunc("POST /facilities", r.handlers.Facility.CreateFacility)
	r.mux.HandleFunc("GET /facilities/{id}", r.handlers.Facility.GetFacility)
	r.mux.HandleFunc("PATCH /facilities/{id}", r.handlers.Facility.UpdateFacility)
	r.mux.HandleFunc("DELETE /facilities/{id}", r.handlers.Facility.DeleteFacility)
	r.mux.HandleFunc("GET /facilities/{id}/reservations", r.handlers.Facility.GetFacilitySchedule)
	if r.handlers.SSE != nil {
		r.mux.HandleFunc("GET /facilities/{id}/events", r.handlers.SSE.StreamFacilityReservations)
	}

	// Trail endpoints
	r.mux.HandleFunc("GET /trails", r.handlers.Trail.ListTrails)
	r.mux.HandleFunc("GET /trails/search", r.handlers.Trail.SearchTrails)
	r.mux.HandleFunc("GET /trails/{id}", r.handlers.Trail.GetTrail)
	r.mux.HandleFunc("GET /trails/{id}/reviews", r.handlers.Trail.ListReviews)
	r.mux.HandleFunc("POST /trails/{id}/reviews", r.handlers.Trail.CreateReview)

	// Walk record endpoints
	r.mux.HandleFunc("GET /records", r.handlers.Record.ListRecords)
	r.mux.HandleFunc("GET /records/new", r.handlers.Record.NewRecordForm)
	r.mux.HandleFunc("POST /records/new", r.handlers.Record.CreateRecord)

	// User endpoints
	r.mux.HandleFunc("GET /users/mypage", r.handlers.User.MyPage)
	r.mux.HandleFunc("GET /dashboard", r.handlers.User.Dashboard)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.IdentityMiddleware(handler)
	handler = middleware.LoadersMiddleware(r.facilityRepo)(handler)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.ResponseOptimization(handler)
	handler = middleware.LoggingMiddleware(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
