package handlers

import (
	"context"
	"net/http"

	"github.com/dkswoans/2307-fastapiProjects/internal/application/services"
)

// UserService serves user pages and the dashboard
type UserService interface {
	MyPage(ctx context.Context) (*services.MyPage, error)
	Dashboard(ctx context.Context) (*services.Dashboard, error)
}

// UserHandler handles user page and dashboard HTTP requests
type UserHandler struct {
	users UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(users UserService) *UserHandler {
	return &UserHandler{users: users}
}

// MyPage handles GET /users/mypage
func (h *UserHandler) MyPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.users.MyPage(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, page)
}

// Dashboard handles GET /dashboard
func (h *UserHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.users.Dashboard(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, dashboard)
}
