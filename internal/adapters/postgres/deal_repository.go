package postgres

import (
	"context"
	"errors"
	"fmt"
	"fxdeals/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const (
	uniqueViolationCode    = "23505"
	dealUniqueIDConstraint = "uk_deals_unique_id"
)

type DealRepository struct {
	pool *pgxpool.Pool
}

// Create inserts one deal as a single autocommit statement, so it never shares a
// transaction with any other row.
func (r *DealRepository) Create(ctx context.Context, deal domain.Deal) (domain.StoredDeal, error) {
	const q = `
		insert into deals (deal_unique_id, from_currency_iso, to_currency_iso, deal_timestamp, deal_amount)
		values ($1, $2, $3, $4, $5::numeric)
		returning id, deal_timestamp, created_at;
	`

	stored := domain.StoredDeal{Deal: deal}
	err := r.pool.QueryRow(ctx, q,
		deal.DealUniqueID,
		deal.FromCurrencyISO,
		deal.ToCurrencyISO,
		deal.DealTimestamp.UTC(),
		deal.DealAmount.String(),
	).Scan(&stored.ID, &stored.DealTimestamp, &stored.CreatedAt)
	if err != nil {
		if isDealUniqueViolation(err) {
			return domain.StoredDeal{}, &domain.DuplicateDealError{DealUniqueID: deal.DealUniqueID}
		}
		return domain.StoredDeal{}, fmt.Errorf("failed to insert deal %q: %w", deal.DealUniqueID, err)
	}

	stored.DealTimestamp = stored.DealTimestamp.UTC()
	stored.CreatedAt = stored.CreatedAt.UTC()
	return stored, nil
}

func (r *DealRepository) GetByUniqueID(ctx context.Context, dealUniqueID string) (domain.StoredDeal, error) {
	const q = `
		select id, deal_unique_id, from_currency_iso, to_currency_iso, deal_timestamp, deal_amount::text, created_at
		from deals
		where deal_unique_id = $1;
	`

	var (
		stored    domain.StoredDeal
		amountStr string
	)
	if err := r.pool.QueryRow(ctx, q, dealUniqueID).Scan(
		&stored.ID,
		&stored.DealUniqueID,
		&stored.FromCurrencyISO,
		&stored.ToCurrencyISO,
		&stored.DealTimestamp,
		&amountStr,
		&stored.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.StoredDeal{}, domain.ErrDealNotFound
		}
		return domain.StoredDeal{}, fmt.Errorf("failed to select deal %q: %w", dealUniqueID, err)
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return domain.StoredDeal{}, fmt.Errorf("failed to parse amount %q of deal %q: %w", amountStr, dealUniqueID, err)
	}
	stored.DealAmount = amount
	stored.DealTimestamp = stored.DealTimestamp.UTC()
	stored.CreatedAt = stored.CreatedAt.UTC()
	return stored, nil
}

func (r *DealRepository) ExistsByUniqueID(ctx context.Context, dealUniqueID string) (bool, error) {
	const q = `select exists(select 1 from deals where deal_unique_id = $1);`

	var exists bool
	if err := r.pool.QueryRow(ctx, q, dealUniqueID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check deal %q: %w", dealUniqueID, err)
	}
	return exists, nil
}

// isDealUniqueViolation matches on SQLSTATE and constraint name, never on the message text.
func isDealUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == uniqueViolationCode && pgErr.ConstraintName == dealUniqueIDConstraint
}

func NewDealRepository(pool *pgxpool.Pool) *DealRepository {
	return &DealRepository{pool: pool}
}
