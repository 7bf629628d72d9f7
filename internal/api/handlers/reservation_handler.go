package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dkswoans/2307-fastapiProjects/internal/api/loaders"
	"github.com/dkswoans/2307-fastapiProjects/internal/domain/entities"
	"github.com/dkswoans/2307-fastapiProjects/internal/domain/repositories"
	apperrors "github.com/dkswoans/2307-fastapiProjects/pkg/errors"
)

// ReservationService is the reservation lifecycle the handler drives
type ReservationService interface {
	Create(ctx context.Context, reservation *entities.Reservation) (*entities.Reservation, error)
	Get(ctx context.Context, id int64) (*entities.Reservation, error)
	List(ctx context.Context, offset, limit int) ([]*entities.Reservation, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id int64, patch *entities.ReservationPatch) (*entities.Reservation, error)
	Delete(ctx context.Context, id int64) error
}

// FacilityService is the facility management the handlers drive
type FacilityService interface {
	Create(ctx context.Context, facility *entities.Facility) (*entities.Facility, error)
	GetByID(ctx context.Context, id int64) (*entities.Facility, error)
	List(ctx context.Context, filter repositories.FacilityFilter) ([]*entities.Facility, error)
	Update(ctx context.Context, id int64, patch *entities.FacilityPatch) (*entities.Facility, error)
	Delete(ctx context.Context, id int64) error
	Schedule(ctx context.Context, id int64) ([]*entities.Reservation, error)
}

// ReservationHandler handles reservation-related HTTP requests
type ReservationHandler struct {
	reservations ReservationService
	facilities   FacilityService
}

// NewReservationHandler creates a new reservation handler
func NewReservationHandler(reservations ReservationService, facilities FacilityService) *ReservationHandler {
	return &ReservationHandler{
		reservations: reservations,
		facilities:   facilities,
	}
}

type reservationRequest struct {
	FacilityID int64     `json:"facility_id"`
	UserName   string    `json:"user_name"`
	UserPhone  string    `json:"user_phone"`
	StartTime  Timestamp `json:"start_time"`
	EndTime    Timestamp `json:"end_time"`
	Purpose    *string   `json:"purpose"`
	Capacity   *int      `json:"capacity"`
}

func (req *reservationRequest) toEntity() *entities.Reservation {
	return &entities.Reservation{
		FacilityID: req.FacilityID,
		UserName:   req.UserName,
		UserPhone:  req.UserPhone,
		StartTime:  req.StartTime.Time,
		EndTime:    req.EndTime.Time,
		Purpose:    req.Purpose,
		Capacity:   req.Capacity,
	}
}

type reservationPatchRequest struct {
	FacilityID *int64           `json:"facility_id"`
	UserName   *string          `json:"user_name"`
	UserPhone  *string          `json:"user_phone"`
	StartTime  *Timestamp       `json:"start_time"`
	EndTime    *Timestamp       `json:"end_time"`
	Purpose    nullable[string] `json:"purpose"`
	Capacity   nullable[int]    `json:"capacity"`
}

// toPatch keeps null required fields unchanged; null purpose or capacity clears them
func (req *reservationPatchRequest) toPatch() *entities.ReservationPatch {
	return &entities.ReservationPatch{
		FacilityID:    req.FacilityID,
		UserName:      req.UserName,
		UserPhone:     req.UserPhone,
		StartTime:     timePtr(req.StartTime),
		EndTime:       timePtr(req.EndTime),
		Purpose:       req.Purpose.Value,
		Capacity:      req.Capacity.Value,
		ClearPurpose:  req.Purpose.cleared(),
		ClearCapacity: req.Capacity.cleared(),
	}
}

// ListReservations handles GET /reservations
func (h *ReservationHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	offset, limit, err := paging(r)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	reservations, err := h.reservations.List(r.Context(), offset, limit)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	total, err := h.reservations.Count(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"reservations": reservationViews(r.Context(), reservations),
		"count":        len(reservations),
		"total":        total,
	})
}

// NewReservationForm handles GET /reservations/new. With facility_id it returns that facility,
// otherwise every facility to choose from.
func (h *ReservationHandler) NewReservationForm(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("facility_id"); raw != "" {
		facilityID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "facility_id must be an integer")
			return
		}
		facility, err := h.facilities.GetByID(r.Context(), facilityID)
		if err != nil {
			respondWithAppError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]interface{}{"facility": facility})
		return
	}

	facilities, err := h.facilities.List(r.Context(), repositories.FacilityFilter{})
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"facilities": facilities})
}

// CreateReservation handles POST /reservations/new
func (h *ReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var req reservationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	created, err := h.reservations.Create(r.Context(), req.toEntity())
	if err != nil {
		if apperrors.IsConflict(err) {
			h.respondWithConflict(w, r, err)
			return
		}
		respondWithAppError(w, r, err)
		return
	}

	if wantsJSON(r) {
		w.Header().Set("Location", "/reservations/"+strconv.FormatInt(created.ID, 10))
		respondWithJSON(w, http.StatusCreated, created)
		return
	}
	http.Redirect(w, r, "/reservations", http.StatusSeeOther)
}

// respondWithConflict returns the rejection together with the facilities the form offers
func (h *ReservationHandler) respondWithConflict(w http.ResponseWriter, r *http.Request, err error) {
	appErr, _ := apperrors.As(err)

	facilities, listErr := h.facilities.List(r.Context(), repositories.FacilityFilter{})
	if listErr != nil {
		facilities = []*entities.Facility{}
	}
	respondWithJSON(w, http.StatusConflict, map[string]interface{}{
		"error":      appErr.Message,
		"facilities": facilities,
	})
}

// GetReservation handles GET /reservations/{id}
func (h *ReservationHandler) GetReservation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	reservation, err := h.reservations.Get(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, reservation)
}

// EditReservationForm handles GET /reservations/{id}/edit
func (h *ReservationHandler) EditReservationForm(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	reservation, err := h.reservations.Get(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	facilities, err := h.facilities.List(r.Context(), repositories.FacilityFilter{})
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"reservation": reservation,
		"facilities":  facilities,
	})
}

// UpdateReservation handles PUT /reservations/{id}
func (h *ReservationHandler) UpdateReservation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	var req reservationPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	updated, err := h.reservations.Update(r.Context(), id, req.toPatch())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

// DeleteReservation handles DELETE /reservations/{id}
func (h *ReservationHandler) DeleteReservation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	if err := h.reservations.Delete(r.Context(), id); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Reservation deleted successfully"})
}

// reservationViews names each reservation's facility through the request's dataloader
func reservationViews(ctx context.Context, reservations []*entities.Reservation) []*entities.ReservationView {
	if l := loaders.For(ctx); l != nil {
		return l.ReservationViews(ctx, reservations)
	}
	views := make([]*entities.ReservationView, len(reservations))
	for i, reservation := range reservations {
		views[i] = &entities.ReservationView{Reservation: reservation}
	}
	return views
}
