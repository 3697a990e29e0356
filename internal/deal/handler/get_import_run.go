package handler

import (
	"errors"
	"fxdeals/internal/domain"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ImportRunResponse struct {
	ImportID  string    `json:"import_id" example:"77b5d9f5-0569-47e3-aee2-f659d59fbd97"`
	FileName  string    `json:"file_name" example:"deals.csv"`
	CreatedAt time.Time `json:"created_at" example:"2024-11-25T10:16:00Z"`
	domain.ImportSummary
}

// GetImportRun godoc
// @Summary Get import run
// @Description Get the recorded summary of a previous import
// @Tags Deals
// @Produce json
// @Param id path string true "Import ID"
// @Success 200 {object} ImportRunResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /deals/imports/{id} [get]
func (h *Handler) GetImportRun(w http.ResponseWriter, r *http.Request) {
	importID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid import ID format")
		return
	}

	run, err := h.service.GetImportRun(r.Context(), importID)
	if err != nil {
		if errors.Is(err, domain.ErrImportRunNotFound) {
			writeError(w, r, http.StatusNotFound, "import run not found")
			return
		}
		msg := "ups, couldn't get import run this time"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "GetImportRun", "import_id": importID}).Error(msg)
		writeError(w, r, http.StatusInternalServerError, msg)
		return
	}

	writeJSON(w, http.StatusOK, ImportRunResponse{
		ImportID:      run.ID.String(),
		FileName:      run.FileName,
		CreatedAt:     run.CreatedAt,
		ImportSummary: run.Summary,
	})
}
