package handler

import (
	"encoding/json"
	"errors"
	"fxdeals/internal/deal"
	"fxdeals/internal/domain"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const maxCreateDealBodyBytes = 4 << 10

type CreateDealRequest struct {
	DealUniqueID    string          `json:"deal_unique_id" example:"FX-1"`
	FromCurrencyISO string          `json:"from_currency_iso" example:"USD"`
	ToCurrencyISO   string          `json:"to_currency_iso" example:"EUR"`
	DealTimestamp   time.Time       `json:"deal_timestamp" example:"2024-11-25T10:15:30Z"`
	DealAmount      decimal.Decimal `json:"deal_amount" swaggertype:"string" example:"1000.00"`
}

// CreateDeal godoc
// @Summary Create deal
// @Description Validate and store a single FX deal
// @Tags Deals
// @Accept json
// @Produce json
// @Param request body CreateDealRequest true "Deal"
// @Success 201 {object} DealResponse
// @Failure 400 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /deals [post]
func (h *Handler) CreateDeal(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxCreateDealBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req CreateDealRequest
	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Malformed request body", err.Error())
		return
	}

	d := domain.Deal{
		DealUniqueID:    strings.TrimSpace(req.DealUniqueID),
		FromCurrencyISO: strings.TrimSpace(req.FromCurrencyISO),
		ToCurrencyISO:   strings.TrimSpace(req.ToCurrencyISO),
		DealTimestamp:   req.DealTimestamp.UTC(),
		DealAmount:      req.DealAmount,
	}

	stored, err := h.service.CreateDeal(r.Context(), d)
	if err != nil {
		var valErr *deal.ValidationError
		if errors.As(err, &valErr) {
			details := make([]string, len(valErr.Violations))
			for i, v := range valErr.Violations {
				details[i] = v.String()
			}
			writeError(w, r, http.StatusBadRequest, "Validation failed", details...)
			return
		}
		if errors.Is(err, domain.ErrDealAlreadyExists) {
			writeError(w, r, http.StatusConflict, err.Error())
			return
		}
		msg := "ups, couldn't create deal this time"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "CreateDeal", "deal_unique_id": d.DealUniqueID}).Error(msg)
		writeError(w, r, http.StatusInternalServerError, msg)
		return
	}

	writeJSON(w, http.StatusCreated, toDealResponse(stored))
}
