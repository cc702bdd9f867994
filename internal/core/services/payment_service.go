package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/imovelbooks/imovel_books_app/internal/apperrors"
	"github.com/imovelbooks/imovel_books_app/internal/core/domain"
	portsrepo "github.com/imovelbooks/imovel_books_app/internal/core/ports/repositories"
	portssvc "github.com/imovelbooks/imovel_books_app/internal/core/ports/services"
	"github.com/imovelbooks/imovel_books_app/internal/dto"
	"github.com/imovelbooks/imovel_books_app/internal/middleware"
	"github.com/imovelbooks/imovel_books_app/internal/utils/distribution"
)

// paymentService builds composite parent/child ledger records from a distributed
// total. The parent plus every child is persisted as one atomic unit, the engine's
// only multi-row transactional boundary.
type paymentService struct {
	txnRepo      portsrepo.TransactionRepositoryFacade
	propertyRepo portsrepo.PropertyReader
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(txnRepo portsrepo.TransactionRepositoryFacade, propertyRepo portsrepo.PropertyReader) portssvc.PaymentSvcFacade {
	return &paymentService{
		txnRepo:      txnRepo,
		propertyRepo: propertyRepo,
	}
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

// CreateDistributedTaxPayment splits one tax payment across properties. Revenue
// weights, when present with a non-zero sum, select proportional distribution; the
// equal split is the explicit fallback the payment builder chooses, never something
// the distribution engine decides on its own.
func (s *paymentService) CreateDistributedTaxPayment(ctx context.Context, userID string, req dto.CreateDistributedPaymentRequest) (*domain.CompositeTransaction, error) {
	description := req.Description
	if description == "" {
		description = fmt.Sprintf("Pagamento %s", req.TaxType)
	}

	return s.createComposite(ctx, userID, compositeParams{
		totalInput:     req.TotalAmount,
		description:    description,
		date:           req.Date,
		category:       domain.CategoryTax,
		propertyIDs:    req.PropertyIDs,
		revenueWeights: req.RevenueWeights,
	})
}

// CreateManagementExpense books the property-management fee, split equally.
func (s *paymentService) CreateManagementExpense(ctx context.Context, userID string, req dto.CreateExpenseRequest) (*domain.CompositeTransaction, error) {
	description := req.Description
	if description == "" {
		description = "Taxa de administração"
	}
	return s.createComposite(ctx, userID, compositeParams{
		totalInput:  req.TotalAmount,
		description: description,
		date:        req.Date,
		category:    domain.CategoryManagement,
		propertyIDs: req.PropertyIDs,
	})
}

// CreateMauricioExpense books the recurring Mauricio service expense, split equally.
func (s *paymentService) CreateMauricioExpense(ctx context.Context, userID string, req dto.CreateExpenseRequest) (*domain.CompositeTransaction, error) {
	description := req.Description
	if description == "" {
		description = "Despesa Mauricio"
	}
	return s.createComposite(ctx, userID, compositeParams{
		totalInput:  req.TotalAmount,
		description: description,
		date:        req.Date,
		category:    domain.CategoryMauricio,
		propertyIDs: req.PropertyIDs,
	})
}

type compositeParams struct {
	totalInput     string
	description    string
	date           time.Time
	category       string
	propertyIDs    []string
	revenueWeights map[string]decimal.Decimal
}

func (s *paymentService) createComposite(ctx context.Context, userID string, params compositeParams) (*domain.CompositeTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(params.propertyIDs) == 0 {
		return nil, fmt.Errorf("%w: distributed payment requires at least one property", apperrors.ErrEmptySelection)
	}

	total, err := domain.ParseMoneyInput(params.totalInput)
	if err != nil {
		return nil, err
	}
	if total.IsZero() || total.IsNegative() {
		return nil, fmt.Errorf("%w: payment total must be positive", apperrors.ErrValidation)
	}

	properties, err := s.propertyRepo.FindPropertiesByIDs(ctx, userID, params.propertyIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch properties: %w", err)
	}
	for _, id := range params.propertyIDs {
		if _, found := properties[id]; !found {
			return nil, fmt.Errorf("%w: property %s", apperrors.ErrNotFound, id)
		}
	}

	// Stable order: the last property absorbs rounding drift, so the absorber must not
	// depend on request ordering.
	propertyIDs := append([]string(nil), params.propertyIDs...)
	sort.Strings(propertyIDs)

	shares, err := s.distribute(total, propertyIDs, params.revenueWeights)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}

	parent := domain.Transaction{
		TransactionID:     uuid.NewString(),
		UserID:            userID,
		Type:              domain.Expense,
		Description:       params.description,
		Amount:            total,
		Date:              params.date,
		Category:          params.category,
		CurrencyCode:      "BRL",
		IsCompositeParent: true,
		AuditFields:       audit,
	}

	children := make([]domain.Transaction, len(shares))
	for i, share := range shares {
		propertyID := share.ID
		property := properties[propertyID]
		children[i] = domain.Transaction{
			TransactionID:       uuid.NewString(),
			UserID:              userID,
			Type:                domain.Expense,
			Description:         fmt.Sprintf("%s - %s", params.description, property.Name),
			Amount:              share.Amount,
			Date:                params.date,
			Category:            params.category,
			CurrencyCode:        property.CurrencyCode,
			PropertyID:          &propertyID,
			ParentTransactionID: &parent.TransactionID,
			AuditFields:         audit,
		}
	}

	composite := domain.CompositeTransaction{Parent: parent, Children: children}
	if err := s.txnRepo.SaveComposite(ctx, composite); err != nil {
		return nil, fmt.Errorf("failed to save composite transaction: %w", err)
	}

	logger.Info("Distributed payment created",
		slog.String("parent_transaction_id", parent.TransactionID),
		slog.String("total", total.String()),
		slog.Int("property_count", len(children)),
	)
	return &composite, nil
}

// distribute chooses the distribution policy: proportional over revenue weights when
// they are present and sum to a non-zero value, equal otherwise.
func (s *paymentService) distribute(total domain.Money, propertyIDs []string, revenueWeights map[string]decimal.Decimal) ([]distribution.Share, error) {
	if len(revenueWeights) > 0 {
		weights := make([]distribution.Weight, len(propertyIDs))
		weightSum := decimal.Zero
		for i, id := range propertyIDs {
			weight := revenueWeights[id]
			weights[i] = distribution.Weight{ID: id, Weight: weight}
			weightSum = weightSum.Add(weight)
		}
		if !weightSum.IsZero() {
			return distribution.Proportional(total, weights)
		}
	}
	return distribution.Equal(total, propertyIDs)
}
