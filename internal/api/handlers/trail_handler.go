package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dkswoans/2307-fastapiProjects/internal/domain/entities"
)

// TrailService is the trail discovery the handlers drive
type TrailService interface {
	GetByID(ctx context.Context, id int64) (*entities.Trail, error)
	List(ctx context.Context, limit, offset int) ([]*entities.Trail, error)
	Search(ctx context.Context, query string, limit int) ([]*entities.Trail, error)
}

// ReviewService stores and lists trail reviews
type ReviewService interface {
	Create(ctx context.Context, review *entities.TrailReview) (*entities.TrailReview, error)
	ListByTrail(ctx context.Context, trailID int64, limit, offset int) ([]*entities.TrailReview, error)
}

// TrailHandler handles trail and review HTTP requests
type TrailHandler struct {
	trails  TrailService
	reviews ReviewService
}

// NewTrailHandler creates a new trail handler
func NewTrailHandler(trails TrailService, reviews ReviewService) *TrailHandler {
	return &TrailHandler{
		trails:  trails,
		reviews: reviews,
	}
}

// ListTrails handles GET /trails
func (h *TrailHandler) ListTrails(w http.ResponseWriter, r *http.Request) {
	offset, limit, err := paging(r)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	trails, err := h.trails.List(r.Context(), limit, offset)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"trails": trails,
		"count":  len(trails),
	})
}

// GetTrail handles GET /trails/{id}
func (h *TrailHandler) GetTrail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	trail, err := h.trails.GetByID(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, trail)
}

// SearchTrails handles GET /trails/search?q=
func (h *TrailHandler) SearchTrails(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	trails, err := h.trails.Search(r.Context(), query, limit)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"query":  query,
		"trails": trails,
		"count":  len(trails),
	})
}

// ListReviews handles GET /trails/{id}/reviews
func (h *TrailHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	offset, limit, err := paging(r)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	reviews, err := h.reviews.ListByTrail(r.Context(), id, limit, offset)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"trail_id": id,
		"reviews":  reviews,
		"count":    len(reviews),
	})
}

type reviewRequest struct {
	Rating  int     `json:"rating"`
	Comment *string `json:"comment"`
}

// CreateReview handles POST /trails/{id}/reviews
func (h *TrailHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	review, err := h.reviews.Create(r.Context(), &entities.TrailReview{TrailID: id, Rating: req.Rating, Comment: req.Comment})
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	w.Header().Set("Location", "/trails/"+strconv.FormatInt(id, 10)+"/reviews")
	respondWithJSON(w, http.StatusCreated, review)
}
