package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/imovelbooks/imovel_books_app/internal/apperrors"
	"github.com/imovelbooks/imovel_books_app/internal/core/domain"
	portsrepo "github.com/imovelbooks/imovel_books_app/internal/core/ports/repositories"
	"github.com/imovelbooks/imovel_books_app/internal/models"
	"github.com/imovelbooks/imovel_books_app/internal/utils/mapping"
)

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for ledger transaction data.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepositoryFacade
var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

const transactionColumns = `
	transaction_id, user_id, type, description, amount, date, category, currency_code,
	property_id, is_composite_parent, parent_transaction_id,
	created_at, created_by, last_updated_at, last_updated_by`

const transactionInsertQuery = `
	INSERT INTO transactions (` + transactionColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);`

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.UserID,
		&m.Type,
		&m.Description,
		&m.Amount,
		&m.Date,
		&m.Category,
		&m.CurrencyCode,
		&m.PropertyID,
		&m.IsCompositeParent,
		&m.ParentTransactionID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func queueTransactionInsert(batch *pgx.Batch, m models.Transaction) {
	batch.Queue(transactionInsertQuery,
		m.TransactionID,
		m.UserID,
		m.Type,
		m.Description,
		m.Amount,
		m.Date,
		m.Category,
		m.CurrencyCode,
		m.PropertyID,
		m.IsCompositeParent,
		m.ParentTransactionID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
}

// FindTransactionByID retrieves one transaction scoped by its owning user.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, userID string, transactionID string) (*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE transaction_id = $1 AND user_id = $2;`

	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	d := mapping.ToDomainTransaction(m)
	return &d, nil
}

// FindChildTransactions returns the children of a composite parent ordered by property id.
func (r *PgxTransactionRepository) FindChildTransactions(ctx context.Context, userID string, parentTransactionID string) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND parent_transaction_id = $2
		ORDER BY property_id ASC NULLS FIRST;`

	rows, err := r.Pool.Query(ctx, query, userID, parentTransactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query children of transaction %s: %w", parentTransactionID, err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// SaveTransaction persists a single transaction row.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)

	batch := &pgx.Batch{}
	queueTransactionInsert(batch, m)
	br := r.Pool.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: transaction %s already exists", apperrors.ErrDuplicate, m.TransactionID)
		}
		return fmt.Errorf("failed to save transaction %s: %w", m.TransactionID, err)
	}
	return nil
}

// SaveComposite persists a parent and all of its children in one database transaction.
func (r *PgxTransactionRepository) SaveComposite(ctx context.Context, composite domain.CompositeTransaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) //nolint:errcheck // rollback after commit is a no-op

	// Parent goes first so the children's foreign key resolves.
	batch := &pgx.Batch{}
	queueTransactionInsert(batch, mapping.ToModelTransaction(composite.Parent))
	for _, child := range composite.Children {
		queueTransactionInsert(batch, mapping.ToModelTransaction(child))
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: composite transaction %s already exists", apperrors.ErrDuplicate, composite.Parent.TransactionID)
		}
		return fmt.Errorf("failed to execute composite transaction batch for %s: %w", composite.Parent.TransactionID, err)
	}

	return r.Commit(ctx, tx)
}

// DeleteTransaction removes a transaction. Children of a composite parent are removed
// by the parent_transaction_id foreign key's ON DELETE CASCADE.
func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, userID string, transactionID string) error {
	query := `DELETE FROM transactions WHERE transaction_id = $1 AND user_id = $2;`

	tag, err := r.Pool.Exec(ctx, query, transactionID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
	}
	return nil
}

func collectTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	var ms []models.Transaction
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return mapping.ToDomainTransactionSlice(ms), nil
}
