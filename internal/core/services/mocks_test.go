package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/imovelbooks/imovel_books_app/internal/core/domain"
	portsrepo "github.com/imovelbooks/imovel_books_app/internal/core/ports/repositories"
)

// --- Mock TaxSettingRepository ---
type MockTaxSettingRepository struct {
	mock.Mock
}

func (m *MockTaxSettingRepository) FindActiveSettings(ctx context.Context, userID string, taxType *domain.TaxType, referenceDate time.Time) ([]domain.TaxSetting, error) {
	args := m.Called(ctx, userID, taxType, referenceDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaxSetting), args.Error(1)
}

func (m *MockTaxSettingRepository) FindOpenSetting(ctx context.Context, userID string, taxType domain.TaxType) (*domain.TaxSetting, error) {
	args := m.Called(ctx, userID, taxType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxSetting), args.Error(1)
}

func (m *MockTaxSettingRepository) FindOpenSettings(ctx context.Context, userID string) ([]domain.TaxSetting, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaxSetting), args.Error(1)
}

func (m *MockTaxSettingRepository) SaveSettings(ctx context.Context, settings []domain.TaxSetting) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

func (m *MockTaxSettingRepository) RotateSetting(ctx context.Context, closeSettingID string, endDate time.Time, next domain.TaxSetting) error {
	args := m.Called(ctx, closeSettingID, endDate, next)
	return args.Error(0)
}

// --- Mock TaxProjectionRepository ---
type MockTaxProjectionRepository struct {
	mock.Mock
}

func (m *MockTaxProjectionRepository) FindProjectionByID(ctx context.Context, userID string, projectionID string) (*domain.TaxProjection, error) {
	args := m.Called(ctx, userID, projectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxProjection), args.Error(1)
}

func (m *MockTaxProjectionRepository) ListProjections(ctx context.Context, userID string, filter portsrepo.ProjectionFilter) ([]domain.TaxProjection, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaxProjection), args.Error(1)
}

func (m *MockTaxProjectionRepository) FindInstallments(ctx context.Context, userID string, parentProjectionID string) ([]domain.TaxProjection, error) {
	args := m.Called(ctx, userID, parentProjectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaxProjection), args.Error(1)
}

func (m *MockTaxProjectionRepository) SaveProjections(ctx context.Context, projections []domain.TaxProjection) error {
	args := m.Called(ctx, projections)
	return args.Error(0)
}

func (m *MockTaxProjectionRepository) UpdateProjection(ctx context.Context, projection domain.TaxProjection) error {
	args := m.Called(ctx, projection)
	return args.Error(0)
}

func (m *MockTaxProjectionRepository) DeleteProjections(ctx context.Context, userID string, projectionIDs []string) error {
	args := m.Called(ctx, userID, projectionIDs)
	return args.Error(0)
}

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, userID string, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindChildTransactions(ctx context.Context, userID string, parentTransactionID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, userID, parentTransactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) SaveComposite(ctx context.Context, composite domain.CompositeTransaction) error {
	args := m.Called(ctx, composite)
	return args.Error(0)
}

func (m *MockTransactionRepository) DeleteTransaction(ctx context.Context, userID string, transactionID string) error {
	args := m.Called(ctx, userID, transactionID)
	return args.Error(0)
}

// --- Mock RevenueRepository ---
type MockRevenueRepository struct {
	mock.Mock
}

func (m *MockRevenueRepository) GetRevenueByPropertyAndPeriod(ctx context.Context, userID string, start, end time.Time, propertyIDs []string) ([]domain.RevenueAggregate, error) {
	args := m.Called(ctx, userID, start, end, propertyIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RevenueAggregate), args.Error(1)
}

// --- Mock PropertyRepository ---
type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) FindPropertiesByIDs(ctx context.Context, userID string, propertyIDs []string) (map[string]domain.Property, error) {
	args := m.Called(ctx, userID, propertyIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Property), args.Error(1)
}

func (m *MockPropertyRepository) ListActiveProperties(ctx context.Context, userID string) ([]domain.Property, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Property), args.Error(1)
}
