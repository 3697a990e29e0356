package handler

import (
	"errors"
	"fxdeals/internal/domain"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// GetDeal godoc
// @Summary Get deal by unique ID
// @Tags Deals
// @Produce json
// @Param dealUniqueID path string true "Deal unique ID"
// @Success 200 {object} DealResponse
// @Failure 404 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /deals/{dealUniqueID} [get]
func (h *Handler) GetDeal(w http.ResponseWriter, r *http.Request) {
	dealUniqueID := strings.TrimSpace(chi.URLParam(r, "dealUniqueID"))

	stored, err := h.service.GetDeal(r.Context(), dealUniqueID)
	if err != nil {
		if errors.Is(err, domain.ErrDealNotFound) {
			writeError(w, r, http.StatusNotFound, "Deal with id '"+dealUniqueID+"' not found")
			return
		}
		msg := "ups, couldn't get deal this time"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "GetDeal", "deal_unique_id": dealUniqueID}).Error(msg)
		writeError(w, r, http.StatusInternalServerError, msg)
		return
	}

	writeJSON(w, http.StatusOK, toDealResponse(stored))
}
