package adapters

import (
	"context"
	"fxdeals/internal/domain"
	"time"

	"github.com/google/uuid"
)

type DealRepository interface {
	Create(ctx context.Context, deal domain.Deal) (domain.StoredDeal, error)
	GetByUniqueID(ctx context.Context, dealUniqueID string) (domain.StoredDeal, error)
	ExistsByUniqueID(ctx context.Context, dealUniqueID string) (bool, error)
}

type ImportRunRepository interface {
	Save(ctx context.Context, run domain.ImportRun) error
	GetByID(ctx context.Context, id uuid.UUID) (domain.ImportRun, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type KnownDealCache interface {
	Contains(dealUniqueID string) bool
	Add(dealUniqueID string)
}
