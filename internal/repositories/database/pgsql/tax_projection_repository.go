package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/imovelbooks/imovel_books_app/internal/apperrors"
	"github.com/imovelbooks/imovel_books_app/internal/core/domain"
	portsrepo "github.com/imovelbooks/imovel_books_app/internal/core/ports/repositories"
	"github.com/imovelbooks/imovel_books_app/internal/models"
	"github.com/imovelbooks/imovel_books_app/internal/utils/mapping"
)

type PgxTaxProjectionRepository struct {
	BaseRepository
}

// newPgxTaxProjectionRepository creates a new repository for tax projection data.
func newPgxTaxProjectionRepository(pool *pgxpool.Pool) portsrepo.TaxProjectionRepositoryFacade {
	return &PgxTaxProjectionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxTaxProjectionRepository implements portsrepo.TaxProjectionRepositoryFacade
var _ portsrepo.TaxProjectionRepositoryFacade = (*PgxTaxProjectionRepository)(nil)

const taxProjectionColumns = `
	projection_id, user_id, tax_type, reference_month, due_date,
	base_amount, tax_amount, additional_amount, total_amount, status,
	is_installment, installment_number, parent_projection_id,
	manual_override, original_amount, notes, property_distribution, transaction_id,
	created_at, created_by, last_updated_at, last_updated_by`

func scanTaxProjection(row pgx.Row) (models.TaxProjection, error) {
	var m models.TaxProjection
	err := row.Scan(
		&m.ProjectionID,
		&m.UserID,
		&m.TaxType,
		&m.ReferenceMonth,
		&m.DueDate,
		&m.BaseAmount,
		&m.TaxAmount,
		&m.AdditionalAmount,
		&m.TotalAmount,
		&m.Status,
		&m.IsInstallment,
		&m.InstallmentNumber,
		&m.ParentProjectionID,
		&m.ManualOverride,
		&m.OriginalAmount,
		&m.Notes,
		&m.PropertyDistribution,
		&m.TransactionID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindProjectionByID retrieves one projection scoped by its owning user.
func (r *PgxTaxProjectionRepository) FindProjectionByID(ctx context.Context, userID string, projectionID string) (*domain.TaxProjection, error) {
	query := `
		SELECT ` + taxProjectionColumns + `
		FROM tax_projections
		WHERE projection_id = $1 AND user_id = $2;`

	m, err := scanTaxProjection(r.Pool.QueryRow(ctx, query, projectionID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: tax projection %s", apperrors.ErrNotFound, projectionID)
		}
		return nil, fmt.Errorf("failed to find tax projection %s: %w", projectionID, err)
	}
	d, err := mapping.ToDomainTaxProjection(m)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListProjections returns the user's projections matching the filter, ordered by due
// date then tax type.
func (r *PgxTaxProjectionRepository) ListProjections(ctx context.Context, userID string, filter portsrepo.ProjectionFilter) ([]domain.TaxProjection, error) {
	query := `
		SELECT ` + taxProjectionColumns + `
		FROM tax_projections
		WHERE user_id = $1`
	args := []interface{}{userID}

	addCond := func(cond string, value interface{}) {
		args = append(args, value)
		query += fmt.Sprintf(" AND "+cond, len(args))
	}
	if filter.ReferenceMonth != nil {
		addCond("reference_month = $%d", string(*filter.ReferenceMonth))
	}
	if filter.Status != nil {
		addCond("status = $%d", string(*filter.Status))
	}
	if filter.TaxType != nil {
		addCond("tax_type = $%d", string(*filter.TaxType))
	}
	if filter.DueFrom != nil {
		addCond("due_date >= $%d", *filter.DueFrom)
	}
	if filter.DueTo != nil {
		addCond("due_date <= $%d", *filter.DueTo)
	}
	if filter.Year != nil {
		// reference_month is "YYYY-MM", so a prefix match selects the year
		addCond("reference_month LIKE $%d", strconv.Itoa(*filter.Year)+"-%")
	}
	query += ` ORDER BY due_date ASC, tax_type ASC, installment_number ASC NULLS FIRST;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tax projections: %w", err)
	}
	defer rows.Close()

	return collectTaxProjections(rows)
}

// FindInstallments returns the child installments of a parent projection ordered by
// installment number.
func (r *PgxTaxProjectionRepository) FindInstallments(ctx context.Context, userID string, parentProjectionID string) ([]domain.TaxProjection, error) {
	query := `
		SELECT ` + taxProjectionColumns + `
		FROM tax_projections
		WHERE user_id = $1 AND parent_projection_id = $2
		ORDER BY installment_number ASC;`

	rows, err := r.Pool.Query(ctx, query, userID, parentProjectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query installments of projection %s: %w", parentProjectionID, err)
	}
	defer rows.Close()

	return collectTaxProjections(rows)
}

// SaveProjections inserts a batch of projections inside one database transaction so a
// parent is never persisted without its installments.
func (r *PgxTaxProjectionRepository) SaveProjections(ctx context.Context, projections []domain.TaxProjection) error {
	if len(projections) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) //nolint:errcheck // rollback after commit is a no-op

	query := `
		INSERT INTO tax_projections (` + taxProjectionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22);`

	batch := &pgx.Batch{}
	for _, p := range projections {
		m, err := mapping.ToModelTaxProjection(p)
		if err != nil {
			return err
		}
		batch.Queue(query,
			m.ProjectionID,
			m.UserID,
			m.TaxType,
			m.ReferenceMonth,
			m.DueDate,
			m.BaseAmount,
			m.TaxAmount,
			m.AdditionalAmount,
			m.TotalAmount,
			m.Status,
			m.IsInstallment,
			m.InstallmentNumber,
			m.ParentProjectionID,
			m.ManualOverride,
			m.OriginalAmount,
			m.Notes,
			m.PropertyDistribution,
			m.TransactionID,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: tax projection already exists", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to execute tax projection insert batch: %w", err)
	}

	return r.Commit(ctx, tx)
}

// UpdateProjection persists the mutable fields of an existing projection.
func (r *PgxTaxProjectionRepository) UpdateProjection(ctx context.Context, projection domain.TaxProjection) error {
	m, err := mapping.ToModelTaxProjection(projection)
	if err != nil {
		return err
	}

	query := `
		UPDATE tax_projections
		SET due_date = $3, base_amount = $4, tax_amount = $5, additional_amount = $6,
		    total_amount = $7, status = $8, manual_override = $9, original_amount = $10,
		    notes = $11, property_distribution = $12, transaction_id = $13,
		    last_updated_at = $14, last_updated_by = $15
		WHERE projection_id = $1 AND user_id = $2;`

	tag, err := r.Pool.Exec(ctx, query,
		m.ProjectionID,
		m.UserID,
		m.DueDate,
		m.BaseAmount,
		m.TaxAmount,
		m.AdditionalAmount,
		m.TotalAmount,
		m.Status,
		m.ManualOverride,
		m.OriginalAmount,
		m.Notes,
		m.PropertyDistribution,
		m.TransactionID,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update tax projection %s: %w", m.ProjectionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: tax projection %s", apperrors.ErrNotFound, m.ProjectionID)
	}
	return nil
}

// DeleteProjections removes the given projections in one database transaction.
func (r *PgxTaxProjectionRepository) DeleteProjections(ctx context.Context, userID string, projectionIDs []string) error {
	if len(projectionIDs) == 0 {
		return nil
	}

	query := `DELETE FROM tax_projections WHERE user_id = $1 AND projection_id = ANY($2);`
	if _, err := r.Pool.Exec(ctx, query, userID, projectionIDs); err != nil {
		return fmt.Errorf("failed to delete tax projections: %w", err)
	}
	return nil
}

func collectTaxProjections(rows pgx.Rows) ([]domain.TaxProjection, error) {
	var ms []models.TaxProjection
	for rows.Next() {
		m, err := scanTaxProjection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tax projection row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tax projection rows: %w", err)
	}
	return mapping.ToDomainTaxProjectionSlice(ms)
}
