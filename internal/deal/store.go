package deal

import (
	"context"
	"errors"
	"fxdeals/internal/adapters"
	"fxdeals/internal/domain"
	"time"
)

// Store persists one deal per call. Every call is its own unit of work, so a
// failing row never rolls back or blocks any other row.
type Store struct {
	repo    adapters.DealRepository
	known   adapters.KnownDealCache
	timeout time.Duration
}

// Persist returns a *domain.DuplicateDealError when the unique id is taken and
// the repository error for any other failure.
func (s *Store) Persist(ctx context.Context, d domain.Deal) (domain.StoredDeal, error) {
	if s.known.Contains(d.DealUniqueID) {
		return domain.StoredDeal{}, &domain.DuplicateDealError{DealUniqueID: d.DealUniqueID}
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	stored, err := s.repo.Create(ctx, d)
	if err != nil {
		if errors.Is(err, domain.ErrDealAlreadyExists) {
			s.known.Add(d.DealUniqueID)
		}
		return domain.StoredDeal{}, err
	}

	s.known.Add(d.DealUniqueID)
	return stored, nil
}

func NewStore(repo adapters.DealRepository, known adapters.KnownDealCache, timeout time.Duration) *Store {
	return &Store{repo: repo, known: known, timeout: timeout}
}
