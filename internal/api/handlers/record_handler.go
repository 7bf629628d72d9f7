package handlers

import (
	"context"
	"net/http"

	"github.com/dkswoans/2307-fastapiProjects/internal/domain/entities"
)

// WalkRecordService logs and lists walks for the caller
type WalkRecordService interface {
	ListMine(ctx context.Context, limit, offset int) ([]*entities.WalkRecord, error)
	Create(ctx context.Context, record *entities.WalkRecord) (*entities.WalkRecord, error)
}

// RecordHandler handles walk record HTTP requests
type RecordHandler struct {
	records WalkRecordService
	trails  TrailService
}

// NewRecordHandler creates a new record handler
func NewRecordHandler(records WalkRecordService, trails TrailService) *RecordHandler {
	return &RecordHandler{
		records: records,
		trails:  trails,
	}
}

// ListRecords handles GET /records
func (h *RecordHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	offset, limit, err := paging(r)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	records, err := h.records.ListMine(r.Context(), limit, offset)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"records": records,
		"count":   len(records),
	})
}

// NewRecordForm handles GET /records/new and returns the trails a walk can be logged against
func (h *RecordHandler) NewRecordForm(w http.ResponseWriter, r *http.Request) {
	trails, err := h.trails.List(r.Context(), 0, 0)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"trails": trails})
}

type recordRequest struct {
	TrailID  int64      `json:"trail_id"`
	WalkedAt *Timestamp `json:"walked_at"`
	Memo     *string    `json:"memo"`
	PhotoURL *string    `json:"photo_url"`
}

// CreateRecord handles POST /records/new
func (h *RecordHandler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	record := &entities.WalkRecord{TrailID: req.TrailID, Memo: req.Memo, PhotoURL: req.PhotoURL}
	if req.WalkedAt != nil {
		record.WalkedAt = req.WalkedAt.Time
	}

	created, err := h.records.Create(r.Context(), record)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	if wantsJSON(r) {
		respondWithJSON(w, http.StatusCreated, created)
		return
	}
	http.Redirect(w, r, "/records", http.StatusSeeOther)
}
