package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"fxdeals/internal/domain"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ImportRunRepository struct {
	pool *pgxpool.Pool
}

func (r *ImportRunRepository) Save(ctx context.Context, run domain.ImportRun) error {
	failures := run.Summary.Failures
	if failures == nil {
		failures = []domain.ImportFailure{}
	}
	failuresJSON, err := json.Marshal(failures)
	if err != nil {
		return fmt.Errorf("failed to marshal import failures: %w", err)
	}

	const q = `
		insert into deal_import_runs (id, file_name, total_rows, successful_rows, failed_rows, failures, created_at)
		values ($1, $2, $3, $4, $5, $6::jsonb, $7);
	`

	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = r.pool.Exec(ctx, q,
		run.ID,
		run.FileName,
		run.Summary.TotalRows,
		run.Summary.SuccessfulRows,
		run.Summary.FailedRows,
		json.RawMessage(failuresJSON),
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert import run %q: %w", run.ID, err)
	}
	return nil
}

func (r *ImportRunRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.ImportRun, error) {
	const q = `
		select id, file_name, total_rows, successful_rows, failed_rows, failures, created_at
		from deal_import_runs
		where id = $1;
	`

	var (
		run          domain.ImportRun
		failuresJSON []byte
	)
	if err := r.pool.QueryRow(ctx, q, id).Scan(
		&run.ID,
		&run.FileName,
		&run.Summary.TotalRows,
		&run.Summary.SuccessfulRows,
		&run.Summary.FailedRows,
		&failuresJSON,
		&run.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ImportRun{}, domain.ErrImportRunNotFound
		}
		return domain.ImportRun{}, fmt.Errorf("failed to select import run %q: %w", id, err)
	}

	run.Summary.Failures = []domain.ImportFailure{}
	if err := json.Unmarshal(failuresJSON, &run.Summary.Failures); err != nil {
		return domain.ImportRun{}, fmt.Errorf("failed to unmarshal failures of import run %q: %w", id, err)
	}
	run.CreatedAt = run.CreatedAt.UTC()
	return run, nil
}

func (r *ImportRunRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	const q = `delete from deal_import_runs where created_at < $1;`

	tag, err := r.pool.Exec(ctx, q, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete import runs older than %s: %w", cutoff.Format(time.RFC3339), err)
	}
	return tag.RowsAffected(), nil
}

func NewImportRunRepository(pool *pgxpool.Pool) *ImportRunRepository {
	return &ImportRunRepository{pool: pool}
}
