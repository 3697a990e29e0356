package deal

import (
	"context"
	"fxdeals/internal/adapters"
	"fxdeals/internal/domain"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Service struct {
	store    Persister
	importer *Importer
	deals    adapters.DealRepository
	runs     adapters.ImportRunRepository
}

// CreateDeal validates and stores a single deal.
func (s *Service) CreateDeal(ctx context.Context, d domain.Deal) (domain.StoredDeal, error) {
	if violations := Validate(d); len(violations) > 0 {
		return domain.StoredDeal{}, &ValidationError{Violations: violations}
	}

	exists, err := s.deals.ExistsByUniqueID(ctx, d.DealUniqueID)
	if err != nil {
		return domain.StoredDeal{}, err
	}
	if exists {
		return domain.StoredDeal{}, &domain.DuplicateDealError{DealUniqueID: d.DealUniqueID}
	}

	// the unique constraint still decides when two creations race past the check above
	return s.store.Persist(ctx, d)
}

// ImportDeals imports one file and records the run. Failing to record the run is
// logged and does not change the returned summary.
func (s *Service) ImportDeals(ctx context.Context, fileName string, r io.Reader) (domain.ImportRun, error) {
	summary, err := s.importer.Import(ctx, r)
	if err != nil {
		return domain.ImportRun{}, err
	}

	run := domain.ImportRun{
		ID:        uuid.New(),
		FileName:  fileName,
		Summary:   summary,
		CreatedAt: time.Now().UTC(),
	}

	logrus.WithFields(logrus.Fields{
		"import_id":  run.ID,
		"file_name":  fileName,
		"total":      summary.TotalRows,
		"successful": summary.SuccessfulRows,
		"failed":     summary.FailedRows,
	}).Info("Deals import finished")

	if saveErr := s.runs.Save(context.WithoutCancel(ctx), run); saveErr != nil {
		logrus.WithError(saveErr).WithField("import_id", run.ID).Error("Import run wasn't recorded")
	}
	return run, nil
}

func (s *Service) GetDeal(ctx context.Context, dealUniqueID string) (domain.StoredDeal, error) {
	return s.deals.GetByUniqueID(ctx, dealUniqueID)
}

func (s *Service) GetImportRun(ctx context.Context, id uuid.UUID) (domain.ImportRun, error) {
	return s.runs.GetByID(ctx, id)
}

func NewService(store Persister, importer *Importer, deals adapters.DealRepository, runs adapters.ImportRunRepository) *Service {
	return &Service{store: store, importer: importer, deals: deals, runs: runs}
}
