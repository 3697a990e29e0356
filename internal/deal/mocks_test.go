package deal

import (
	"context"
	"sync"
	"time"

	"fxdeals/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// --- Testify mocks ---

type MockDealRepository struct{ mock.Mock }

func (m *MockDealRepository) Create(ctx context.Context, d domain.Deal) (domain.StoredDeal, error) {
	args := m.Called(ctx, d)
	stored, _ := args.Get(0).(domain.StoredDeal)
	return stored, args.Error(1)
}

func (m *MockDealRepository) GetByUniqueID(ctx context.Context, dealUniqueID string) (domain.StoredDeal, error) {
	args := m.Called(ctx, dealUniqueID)
	stored, _ := args.Get(0).(domain.StoredDeal)
	return stored, args.Error(1)
}

func (m *MockDealRepository) ExistsByUniqueID(ctx context.Context, dealUniqueID string) (bool, error) {
	args := m.Called(ctx, dealUniqueID)
	return args.Bool(0), args.Error(1)
}

type MockImportRunRepository struct{ mock.Mock }

func (m *MockImportRunRepository) Save(ctx context.Context, run domain.ImportRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockImportRunRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.ImportRun, error) {
	args := m.Called(ctx, id)
	run, _ := args.Get(0).(domain.ImportRun)
	return run, args.Error(1)
}

func (m *MockImportRunRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	n, _ := args.Get(0).(int64)
	return n, args.Error(1)
}

type MockKnownDealCache struct{ mock.Mock }

func (m *MockKnownDealCache) Contains(dealUniqueID string) bool {
	args := m.Called(dealUniqueID)
	return args.Bool(0)
}

func (m *MockKnownDealCache) Add(dealUniqueID string) {
	m.Called(dealUniqueID)
}

type MockPersister struct{ mock.Mock }

func (m *MockPersister) Persist(ctx context.Context, d domain.Deal) (domain.StoredDeal, error) {
	args := m.Called(ctx, d)
	stored, _ := args.Get(0).(domain.StoredDeal)
	return stored, args.Error(1)
}

// memoryPersister behaves like a store backed by a unique index on the deal id.
type memoryPersister struct {
	mu     sync.Mutex
	nextID int64
	byID   map[string]domain.StoredDeal
	calls  []string
}

func newMemoryPersister() *memoryPersister {
	return &memoryPersister{byID: make(map[string]domain.StoredDeal)}
}

func (p *memoryPersister) Persist(_ context.Context, d domain.Deal) (domain.StoredDeal, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls = append(p.calls, d.DealUniqueID)
	if _, ok := p.byID[d.DealUniqueID]; ok {
		return domain.StoredDeal{}, &domain.DuplicateDealError{DealUniqueID: d.DealUniqueID}
	}
	p.nextID++
	stored := domain.StoredDeal{ID: p.nextID, Deal: d, CreatedAt: time.Now().UTC()}
	p.byID[d.DealUniqueID] = stored
	return stored, nil
}

func (p *memoryPersister) stored() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.byID)
}

func (p *memoryPersister) persistCalls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}
