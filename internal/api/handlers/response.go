package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/dkswoans/2307-fastapiProjects/internal/infrastructure/observability"
	apperrors "github.com/dkswoans/2307-fastapiProjects/pkg/errors"
)

// errorResponse is the body of every failed request
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, errorResponse{Error: message})
}

// respondWithAppError maps an error to its HTTP status. Internal details are logged, never returned.
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperrors.As(err)
	if !ok {
		appErr = apperrors.NewInternalError("internal server error", err)
	}

	status := appErr.HTTPStatus()
	if status >= http.StatusInternalServerError {
		observability.LoggerFromContext(r.Context()).Error().
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("Request failed")
		respondWithJSON(w, status, errorResponse{Error: appErr.Message})
		return
	}

	respondWithJSON(w, status, errorResponse{Error: appErr.Message, Fields: appErr.Fields})
}
