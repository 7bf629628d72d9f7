package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dkswoans/2307-fastapiProjects/internal/api/handlers"
	"github.com/dkswoans/2307-fastapiProjects/internal/domain/entities"
	"github.com/dkswoans/2307-fastapiProjects/internal/domain/repositories"
	apperrors "github.com/dkswoans/2307-fastapiProjects/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFacilityHandler_ListFacilities(t *testing.T) {
	facilities := new(MockFacilityService)
	handler := handlers.NewFacilityHandler(facilities)
	facilities.On("List", mock.Anything, repositories.FacilityFilter{Type: entities.FacilityTypeCommunityCenter, Offset: 0, Limit: 20}).
		Return([]*entities.Facility{{ID: 1, Name: "Hall", Type: entities.FacilityTypeCommunityCenter}}, nil)

	w := httptest.NewRecorder()
	handler.ListFacilities(w, httptest.NewRequest(http.MethodGet, "/facilities?type=COMMUNITY_CENTER&limit=20", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["count"])
	first := body["facilities"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "community_center", first["type"])

	w = httptest.NewRecorder()
	handler.ListFacilities(w, httptest.NewRequest(http.MethodGet, "/facilities?type=pool", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFacilityHandler_CreateFacility(t *testing.T) {
	facilities := new(MockFacilityService)
	handler := handlers.NewFacilityHandler(facilities)
	facilities.On("Create", mock.Anything, mock.MatchedBy(func(f *entities.Facility) bool {
		return f.Name == "Court" && f.Type == entities.FacilityTypeSports && f.Capacity != nil && *f.Capacity == 12
	})).Return(&entities.Facility{ID: 8, Name: "Court", Type: entities.FacilityTypeSports}, nil)

	req := httptest.NewRequest(http.MethodPost, "/facilities",
		strings.NewReader(`{"name":"Court","type":"SPORTS","location":"Mapo","capacity":12}`))
	w := httptest.NewRecorder()
	handler.CreateFacility(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, float64(8), decodeBody(t, w)["id"])
	facilities.AssertExpectations(t)
}

func TestFacilityHandler_GetFacility(t *testing.T) {
	facilities := new(MockFacilityService)
	handler := handlers.NewFacilityHandler(facilities)
	facilities.On("GetByID", mock.Anything, int64(1)).Return(&entities.Facility{ID: 1, Name: "Court"}, nil)
	facilities.On("GetByID", mock.Anything, int64(2)).Return(nil, errors.New("connection reset"))

	req := httptest.NewRequest(http.MethodGet, "/facilities/1", nil)
	req.SetPathValue("id", "1")
	w := httptest.NewRecorder()
	handler.GetFacility(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/facilities/2", nil)
	req.SetPathValue("id", "2")
	w = httptest.NewRecorder()
	handler.GetFacility(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection reset")
}

func TestFacilityHandler_UpdateFacility(t *testing.T) {
	facilities := new(MockFacilityService)
	handler := handlers.NewFacilityHandler(facilities)
	facilities.On("Update", mock.Anything, int64(1), mock.MatchedBy(func(p *entities.FacilityPatch) bool {
		return p.Name != nil && *p.Name == "Great Hall" && p.Type == nil
	})).Return(&entities.Facility{ID: 1, Name: "Great Hall"}, nil)

	req := httptest.NewRequest(http.MethodPatch, "/facilities/1", strings.NewReader(`{"name":"Great Hall"}`))
	req.SetPathValue("id", "1")
	w := httptest.NewRecorder()
	handler.UpdateFacility(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Great Hall", decodeBody(t, w)["name"])
}

func TestFacilityHandler_DeleteFacility(t *testing.T) {
	facilities := new(MockFacilityService)
	handler := handlers.NewFacilityHandler(facilities)
	facilities.On("Delete", mock.Anything, int64(1)).Return(apperrors.NewConflictError("facility 1 still has reservations"))
	facilities.On("Delete", mock.Anything, int64(2)).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/facilities/1", nil)
	req.SetPathValue("id", "1")
	w := httptest.NewRecorder()
	handler.DeleteFacility(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)

	req = httptest.NewRequest(http.MethodDelete, "/facilities/2", nil)
	req.SetPathValue("id", "2")
	w = httptest.NewRecorder()
	handler.DeleteFacility(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFacilityHandler_GetFacilitySchedule(t *testing.T) {
	facilities := new(MockFacilityService)
	handler := handlers.NewFacilityHandler(facilities)
	facilities.On("Schedule", mock.Anything, int64(1)).Return([]*entities.Reservation{
		{ID: 1, FacilityID: 1, StartTime: wallClock(9, 0), EndTime: wallClock(10, 0)},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/facilities/1/reservations", nil)
	req.SetPathValue("id", "1")
	w := httptest.NewRecorder()
	handler.GetFacilitySchedule(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, float64(1), body["facility_id"])
}
