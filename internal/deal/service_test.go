package deal

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"fxdeals/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type serviceMocks struct {
	store *MockPersister
	deals *MockDealRepository
	runs  *MockImportRunRepository
}

func newTestService() (*Service, serviceMocks) {
	m := serviceMocks{
		store: new(MockPersister),
		deals: new(MockDealRepository),
		runs:  new(MockImportRunRepository),
	}
	svc := NewService(m.store, NewImporter(m.store, 2), m.deals, m.runs)
	return svc, m
}

func (m serviceMocks) assertExpectations(t *testing.T) {
	m.store.AssertExpectations(t)
	m.deals.AssertExpectations(t)
	m.runs.AssertExpectations(t)
}

// --- CreateDeal ---

func TestService_CreateDeal_Success(t *testing.T) {
	svc, m := newTestService()
	d := validDeal()
	want := domain.StoredDeal{ID: 1, Deal: d, CreatedAt: time.Now().UTC()}

	m.deals.On("ExistsByUniqueID", mock.Anything, "FX-1").Return(false, nil).Once()
	m.store.On("Persist", mock.Anything, d).Return(want, nil).Once()

	got, err := svc.CreateDeal(context.Background(), d)

	require.NoError(t, err)
	require.Equal(t, want, got)
	m.assertExpectations(t)
}

func TestService_CreateDeal_ValidationError(t *testing.T) {
	svc, m := newTestService()
	d := validDeal()
	d.FromCurrencyISO = "usd"
	d.DealAmount = d.DealAmount.Neg()

	_, err := svc.CreateDeal(context.Background(), d)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	require.Len(t, valErr.Violations, 2)
	m.deals.AssertNotCalled(t, "ExistsByUniqueID", mock.Anything, mock.Anything)
	m.store.AssertNotCalled(t, "Persist", mock.Anything, mock.Anything)
}

func TestService_CreateDeal_AlreadyExists(t *testing.T) {
	svc, m := newTestService()

	m.deals.On("ExistsByUniqueID", mock.Anything, "FX-1").Return(true, nil).Once()

	_, err := svc.CreateDeal(context.Background(), validDeal())

	require.ErrorIs(t, err, domain.ErrDealAlreadyExists)
	require.EqualError(t, err, "Deal with id 'FX-1' already exists")
	m.store.AssertNotCalled(t, "Persist", mock.Anything, mock.Anything)
	m.assertExpectations(t)
}

func TestService_CreateDeal_ExistsCheckError(t *testing.T) {
	svc, m := newTestService()
	wantErr := errors.New("db temporarily unavailable")

	m.deals.On("ExistsByUniqueID", mock.Anything, "FX-1").Return(false, wantErr).Once()

	_, err := svc.CreateDeal(context.Background(), validDeal())

	require.Equal(t, wantErr, err)
	m.assertExpectations(t)
}

// --- ImportDeals ---

func TestService_ImportDeals_RecordsRun(t *testing.T) {
	svc, m := newTestService()
	input := csvHeader +
		"FX-1,USD,EUR,2024-11-25T10:15:30Z,1000.00\n" +
		"FX-2,USD,EUR,2024-11-25T10:15:30Z,0\n"

	m.store.On("Persist", mock.Anything, mock.Anything).Return(domain.StoredDeal{ID: 1}, nil).Once()
	var saved domain.ImportRun
	m.runs.On("Save", mock.Anything, mock.AnythingOfType("domain.ImportRun")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(domain.ImportRun) }).
		Return(nil).Once()

	run, err := svc.ImportDeals(context.Background(), "deals.csv", strings.NewReader(input))

	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, run.ID)
	require.Equal(t, "deals.csv", run.FileName)
	require.Equal(t, 2, run.Summary.TotalRows)
	require.Equal(t, 1, run.Summary.SuccessfulRows)
	require.Equal(t, 1, run.Summary.FailedRows)
	require.Equal(t, run, saved)
	m.assertExpectations(t)
}

func TestService_ImportDeals_SaveFailureKeepsSummary(t *testing.T) {
	svc, m := newTestService()

	m.runs.On("Save", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()

	run, err := svc.ImportDeals(context.Background(), "empty.csv", strings.NewReader(csvHeader))

	require.NoError(t, err)
	require.Equal(t, domain.ImportSummary{Failures: []domain.ImportFailure{}}, run.Summary)
	m.assertExpectations(t)
}

func TestService_ImportDeals_StructuralError(t *testing.T) {
	svc, m := newTestService()

	_, err := svc.ImportDeals(context.Background(), "bad.csv", strings.NewReader(""))

	require.ErrorIs(t, err, domain.ErrInvalidInput)
	m.runs.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// --- lookups ---

func TestService_GetDeal(t *testing.T) {
	svc, m := newTestService()
	want := domain.StoredDeal{ID: 3, Deal: validDeal()}

	m.deals.On("GetByUniqueID", mock.Anything, "FX-1").Return(want, nil).Once()
	m.deals.On("GetByUniqueID", mock.Anything, "missing").Return(domain.StoredDeal{}, domain.ErrDealNotFound).Once()

	got, err := svc.GetDeal(context.Background(), "FX-1")
	require.NoError(t, err)
	require.Equal(t, want, got)

	_, err = svc.GetDeal(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrDealNotFound)
	m.assertExpectations(t)
}

func TestService_GetImportRun(t *testing.T) {
	svc, m := newTestService()
	id := uuid.New()

	m.runs.On("GetByID", mock.Anything, id).Return(domain.ImportRun{}, domain.ErrImportRunNotFound).Once()

	_, err := svc.GetImportRun(context.Background(), id)

	require.ErrorIs(t, err, domain.ErrImportRunNotFound)
	m.assertExpectations(t)
}
