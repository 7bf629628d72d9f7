package handlers

import (
	"net/http"

	"github.com/dkswoans/2307-fastapiProjects/internal/domain/entities"
	"github.com/dkswoans/2307-fastapiProjects/internal/domain/repositories"
	apperrors "github.com/dkswoans/2307-fastapiProjects/pkg/errors"
)

// FacilityHandler handles facility-related HTTP requests
type FacilityHandler struct {
	facilities FacilityService
}

// NewFacilityHandler creates a new facility handler
func NewFacilityHandler(facilities FacilityService) *FacilityHandler {
	return &FacilityHandler{
		facilities: facilities,
	}
}

// ListFacilities handles GET /facilities
func (h *FacilityHandler) ListFacilities(w http.ResponseWriter, r *http.Request) {
	offset, limit, err := paging(r)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	filter := repositories.FacilityFilter{Offset: offset, Limit: limit}
	if raw := r.URL.Query().Get("type"); raw != "" {
		facilityType, err := entities.ParseFacilityType(raw)
		if err != nil {
			respondWithAppError(w, r, apperrors.NewFieldValidationError(
				map[string]string{"type": "must be one of [sports library community_center]"}, []string{"type"}))
			return
		}
		filter.Type = facilityType
	}

	facilities, err := h.facilities.List(r.Context(), filter)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"facilities": facilities,
		"count":      len(facilities),
	})
}

// CreateFacility handles POST /facilities
func (h *FacilityHandler) CreateFacility(w http.ResponseWriter, r *http.Request) {
	var facility entities.Facility
	if err := decodeJSON(r, &facility); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	facility.ID = 0

	created, err := h.facilities.Create(r.Context(), &facility)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, created)
}

// GetFacility handles GET /facilities/{id}
func (h *FacilityHandler) GetFacility(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	facility, err := h.facilities.GetByID(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, facility)
}

type facilityPatchRequest struct {
	Name        *string                `json:"name"`
	Type        *entities.FacilityType `json:"type"`
	Location    *string                `json:"location"`
	Capacity    nullable[int]          `json:"capacity"`
	Description nullable[string]       `json:"description"`
}

func (req *facilityPatchRequest) toPatch() *entities.FacilityPatch {
	return &entities.FacilityPatch{
		Name:             req.Name,
		Type:             req.Type,
		Location:         req.Location,
		Capacity:         req.Capacity.Value,
		Description:      req.Description.Value,
		ClearCapacity:    req.Capacity.cleared(),
		ClearDescription: req.Description.cleared(),
	}
}

// UpdateFacility handles PATCH /facilities/{id}
func (h *FacilityHandler) UpdateFacility(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	var req facilityPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	updated, err := h.facilities.Update(r.Context(), id, req.toPatch())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

// DeleteFacility handles DELETE /facilities/{id}
func (h *FacilityHandler) DeleteFacility(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	if err := h.facilities.Delete(r.Context(), id); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Facility deleted successfully"})
}

// GetFacilitySchedule handles GET /facilities/{id}/reservations
func (h *FacilityHandler) GetFacilitySchedule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	schedule, err := h.facilities.Schedule(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"facility_id":  id,
		"reservations": schedule,
		"count":        len(schedule),
	})
}
