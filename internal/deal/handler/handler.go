package handler

import (
	"context"
	"encoding/json"
	"fxdeals/internal/domain"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Service interface {
	CreateDeal(ctx context.Context, d domain.Deal) (domain.StoredDeal, error)
	ImportDeals(ctx context.Context, fileName string, r io.Reader) (domain.ImportRun, error)
	GetDeal(ctx context.Context, dealUniqueID string) (domain.StoredDeal, error)
	GetImportRun(ctx context.Context, id uuid.UUID) (domain.ImportRun, error)
}

type Handler struct {
	service      Service
	maxFileBytes int64
}

func NewDealHandler(service Service, maxFileBytes int64) *Handler {
	return &Handler{service: service, maxFileBytes: maxFileBytes}
}

type errorResponse struct {
	Timestamp time.Time `json:"timestamp" example:"2024-11-25T10:15:30Z"`
	Status    int       `json:"status" example:"409"`
	Error     string    `json:"error" example:"Conflict"`
	Message   string    `json:"message" example:"Deal with id 'FX-1' already exists"`
	Path      string    `json:"path" example:"/api/v1/deals"`
	Details   []string  `json:"details"`
}

func writeError(w http.ResponseWriter, r *http.Request, statusCode int, message string, details ...string) {
	if details == nil {
		details = []string{}
	}
	writeJSON(w, statusCode, errorResponse{
		Timestamp: time.Now().UTC(),
		Status:    statusCode,
		Error:     http.StatusText(statusCode),
		Message:   message,
		Path:      r.URL.Path,
		Details:   details,
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

type DealResponse struct {
	ID              int64           `json:"id" example:"1"`
	DealUniqueID    string          `json:"deal_unique_id" example:"FX-1"`
	FromCurrencyISO string          `json:"from_currency_iso" example:"USD"`
	ToCurrencyISO   string          `json:"to_currency_iso" example:"EUR"`
	DealTimestamp   time.Time       `json:"deal_timestamp" example:"2024-11-25T10:15:30Z"`
	DealAmount      decimal.Decimal `json:"deal_amount" swaggertype:"string" example:"1000.00"`
	CreatedAt       time.Time       `json:"created_at" example:"2024-11-25T10:16:00Z"`
}

func toDealResponse(d domain.StoredDeal) DealResponse {
	return DealResponse{
		ID:              d.ID,
		DealUniqueID:    d.DealUniqueID,
		FromCurrencyISO: d.FromCurrencyISO,
		ToCurrencyISO:   d.ToCurrencyISO,
		DealTimestamp:   d.DealTimestamp,
		DealAmount:      d.DealAmount,
		CreatedAt:       d.CreatedAt,
	}
}
