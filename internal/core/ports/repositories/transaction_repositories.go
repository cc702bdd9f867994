package repositories

import (
	"context"
	"time"

	"github.com/imovelbooks/imovel_books_app/internal/core/domain"
)

// RevenueReader is the revenue-aggregation collaborator: it derives per-property
// revenue from the transaction store for a period. Results are not persisted by the
// engine.
type RevenueReader interface {
	// GetRevenueByPropertyAndPeriod aggregates revenue per property over [start, end).
	// propertyIDs narrows the result when non-empty. Rows are ordered by property id so
	// downstream distributions are deterministic.
	GetRevenueByPropertyAndPeriod(ctx context.Context, userID string, start, end time.Time, propertyIDs []string) ([]domain.RevenueAggregate, error)
}

// TransactionReader defines read operations for ledger transactions.
type TransactionReader interface {
	// FindTransactionByID retrieves one transaction, or apperrors.ErrNotFound.
	FindTransactionByID(ctx context.Context, userID string, transactionID string) (*domain.Transaction, error)

	// FindChildTransactions returns the children of a composite parent.
	FindChildTransactions(ctx context.Context, userID string, parentTransactionID string) ([]domain.Transaction, error)
}

// TransactionWriter defines write operations for ledger transactions.
type TransactionWriter interface {
	// SaveTransaction persists a single transaction row.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// SaveComposite persists a parent and all of its children in one database
	// transaction: either every row is durably written or none is.
	SaveComposite(ctx context.Context, composite domain.CompositeTransaction) error

	// DeleteTransaction removes a transaction; deleting a composite parent removes all
	// of its children in the same unit, leaving no orphans.
	DeleteTransaction(ctx context.Context, userID string, transactionID string) error
}

// TransactionRepositoryFacade combines all transaction repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}

// PropertyReader defines the read operations the engine needs over properties.
type PropertyReader interface {
	// FindPropertiesByIDs returns the user's properties for the given ids, keyed by id.
	FindPropertiesByIDs(ctx context.Context, userID string, propertyIDs []string) (map[string]domain.Property, error)

	// ListActiveProperties returns the user's active properties ordered by id.
	ListActiveProperties(ctx context.Context, userID string) ([]domain.Property, error)
}
