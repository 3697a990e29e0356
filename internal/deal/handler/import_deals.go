package handler

import (
	"errors"
	"fxdeals/internal/domain"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// multipart boundaries and headers around the file part
const multipartOverheadBytes = 64 << 10

const importFileField = "file"

type ImportDealsResponse struct {
	ImportID string `json:"import_id" example:"77b5d9f5-0569-47e3-aee2-f659d59fbd97"`
	domain.ImportSummary
}

// ImportDeals godoc
// @Summary Import deals from CSV
// @Description Import deals from a CSV file with header deal_unique_id, from_currency_iso, to_currency_iso, deal_timestamp, deal_amount. Every row is handled on its own; row problems are listed in the summary.
// @Tags Deals
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} ImportDealsResponse
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /deals/import [post]
func (h *Handler) ImportDeals(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileBytes+multipartOverheadBytes)

	file, header, err := r.FormFile(importFileField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeError(w, r, http.StatusBadRequest, "Uploaded file is too large.")
		case errors.Is(err, http.ErrMissingFile):
			writeError(w, r, http.StatusBadRequest, "Multipart part 'file' is required.")
		default:
			writeError(w, r, http.StatusBadRequest, "Malformed multipart request", err.Error())
		}
		return
	}
	defer func() { _ = file.Close() }()
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	if header.Size > h.maxFileBytes {
		writeError(w, r, http.StatusBadRequest, "Uploaded file is too large.")
		return
	}

	started := time.Now()
	run, err := h.service.ImportDeals(r.Context(), header.Filename, file)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		msg := "ups, couldn't import deals this time"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "ImportDeals", "file_name": header.Filename}).Error(msg)
		writeError(w, r, http.StatusInternalServerError, msg)
		return
	}

	logrus.WithFields(logrus.Fields{"import_id": run.ID, "duration": time.Since(started)}).Debug("Import request served")
	writeJSON(w, http.StatusOK, ImportDealsResponse{
		ImportID:      run.ID.String(),
		ImportSummary: run.Summary,
	})
}
