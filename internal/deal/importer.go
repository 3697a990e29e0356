package deal

import (
	"context"
	"errors"
	"fmt"
	"fxdeals/internal/domain"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

const defaultValidationWorkers = 4

// Persister is the write side the importer depends on.
type Persister interface {
	Persist(ctx context.Context, d domain.Deal) (domain.StoredDeal, error)
}

type Importer struct {
	store      Persister
	numWorkers int
}

// Import runs decode, validate and persist over one file and folds every row
// into the summary. It only fails when the file itself is structurally broken.
func (im *Importer) Import(ctx context.Context, r io.Reader) (domain.ImportSummary, error) {
	// STEP 1: decoding is a single sequential pass, a bad row never stops it
	rows, err := DecodeCSV(r)
	if err != nil {
		return domain.ImportSummary{}, err
	}

	summary := domain.ImportSummary{
		TotalRows: len(rows),
		Failures:  make([]domain.ImportFailure, 0),
	}
	if len(rows) == 0 {
		return summary, nil
	}

	// STEP 2: validation is pure, so rows are spread over the workers pool.
	// rejections[i] holds the failure reason of rows[i], empty when it may be stored
	rejections := im.rejectInParallel(rows)

	// STEP 3: persisting strictly in row order, so an id repeated in the batch
	// always conflicts on its later occurrence
	for i, row := range rows {
		reason := rejections[i]
		if reason == "" {
			reason = im.persistRow(ctx, row)
		}
		if reason == "" {
			summary.SuccessfulRows++
			continue
		}
		summary.Failures = append(summary.Failures, domain.ImportFailure{RowNumber: row.RowNumber, Reason: reason})
	}
	summary.FailedRows = summary.TotalRows - summary.SuccessfulRows

	return summary, nil
}

func (im *Importer) rejectInParallel(rows []CandidateRow) []string {
	rejections := make([]string, len(rows))

	workQueue := make(chan int, len(rows))
	for i := range rows {
		workQueue <- i
	}
	close(workQueue)

	numWorkers := min(im.numWorkers, len(rows))
	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// each index is taken by exactly one worker
			for i := range workQueue {
				rejections[i] = rejectionReason(rows[i])
			}
		}()
	}
	wg.Wait()

	return rejections
}

func rejectionReason(row CandidateRow) string {
	if row.Failed() {
		return "CSV parsing error: " + row.DecodeErr
	}
	if violations := Validate(row.Deal); len(violations) > 0 {
		return JoinViolations(violations)
	}
	return ""
}

// persistRow stores one row and returns its failure reason, empty on success.
// A panic below this point is turned into a failure of this row only.
func (im *Importer) persistRow(ctx context.Context, row CandidateRow) (reason string) {
	defer func() {
		if rec := recover(); rec != nil {
			logrus.WithFields(logrus.Fields{"row_number": row.RowNumber, "deal_unique_id": row.Deal.DealUniqueID}).
				Errorf("Recovered from panic while persisting deal: %v", rec)
			reason = fmt.Sprintf("Unexpected error: %v", rec)
		}
	}()

	_, err := im.store.Persist(ctx, row.Deal)
	if err == nil {
		return ""
	}

	var dupErr *domain.DuplicateDealError
	if errors.As(err, &dupErr) {
		return dupErr.Error()
	}

	logrus.WithError(err).WithFields(logrus.Fields{"row_number": row.RowNumber, "deal_unique_id": row.Deal.DealUniqueID}).
		Warn("Deal wasn't persisted")
	return "Failed to persist deal: " + err.Error()
}

func NewImporter(store Persister, numWorkers int) *Importer {
	if numWorkers <= 0 {
		numWorkers = defaultValidationWorkers
	}
	return &Importer{store: store, numWorkers: numWorkers}
}
