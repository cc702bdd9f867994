package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/imovelbooks/imovel_books_app/internal/apperrors"
	"github.com/imovelbooks/imovel_books_app/internal/core/domain"
	portsrepo "github.com/imovelbooks/imovel_books_app/internal/core/ports/repositories"
	"github.com/imovelbooks/imovel_books_app/internal/models"
	"github.com/imovelbooks/imovel_books_app/internal/utils/mapping"
)

type PgxTaxSettingRepository struct {
	BaseRepository
}

// newPgxTaxSettingRepository creates a new repository for tax setting data.
func newPgxTaxSettingRepository(pool *pgxpool.Pool) portsrepo.TaxSettingRepositoryFacade {
	return &PgxTaxSettingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxTaxSettingRepository implements portsrepo.TaxSettingRepositoryFacade
var _ portsrepo.TaxSettingRepositoryFacade = (*PgxTaxSettingRepository)(nil)

const taxSettingColumns = `
	setting_id, user_id, tax_type, rate, base_rate, additional_rate, additional_threshold,
	payment_frequency, due_day, installment_allowed, installment_threshold, installment_count,
	effective_date, end_date, created_at, created_by, last_updated_at, last_updated_by`

func scanTaxSetting(row pgx.Row) (models.TaxSetting, error) {
	var m models.TaxSetting
	err := row.Scan(
		&m.SettingID,
		&m.UserID,
		&m.TaxType,
		&m.Rate,
		&m.BaseRate,
		&m.AdditionalRate,
		&m.AdditionalThreshold,
		&m.PaymentFrequency,
		&m.DueDay,
		&m.InstallmentAllowed,
		&m.InstallmentThreshold,
		&m.InstallmentCount,
		&m.EffectiveDate,
		&m.EndDate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindActiveSettings retrieves the setting versions whose validity interval contains
// the reference date, most recent effective date first.
func (r *PgxTaxSettingRepository) FindActiveSettings(ctx context.Context, userID string, taxType *domain.TaxType, referenceDate time.Time) ([]domain.TaxSetting, error) {
	query := `
		SELECT ` + taxSettingColumns + `
		FROM tax_settings
		WHERE user_id = $1
		  AND effective_date <= $2
		  AND (end_date IS NULL OR end_date > $2)`
	args := []interface{}{userID, referenceDate}
	if taxType != nil {
		query += ` AND tax_type = $3`
		args = append(args, string(*taxType))
	}
	query += ` ORDER BY effective_date DESC, tax_type ASC;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query active tax settings: %w", err)
	}
	defer rows.Close()

	return collectTaxSettings(rows)
}

// FindOpenSetting retrieves the current (end_date IS NULL) version for a tax type.
func (r *PgxTaxSettingRepository) FindOpenSetting(ctx context.Context, userID string, taxType domain.TaxType) (*domain.TaxSetting, error) {
	query := `
		SELECT ` + taxSettingColumns + `
		FROM tax_settings
		WHERE user_id = $1 AND tax_type = $2 AND end_date IS NULL;`

	m, err := scanTaxSetting(r.Pool.QueryRow(ctx, query, userID, string(taxType)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no open setting for tax type %s", apperrors.ErrNotFound, taxType)
		}
		return nil, fmt.Errorf("failed to find open setting for tax type %s: %w", taxType, err)
	}
	d := mapping.ToDomainTaxSetting(m)
	return &d, nil
}

// FindOpenSettings retrieves every open setting version for the user.
func (r *PgxTaxSettingRepository) FindOpenSettings(ctx context.Context, userID string) ([]domain.TaxSetting, error) {
	query := `
		SELECT ` + taxSettingColumns + `
		FROM tax_settings
		WHERE user_id = $1 AND end_date IS NULL
		ORDER BY tax_type ASC;`

	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query open tax settings: %w", err)
	}
	defer rows.Close()

	return collectTaxSettings(rows)
}

const taxSettingInsertQuery = `
	INSERT INTO tax_settings (` + taxSettingColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);`

func taxSettingInsertArgs(m models.TaxSetting) []interface{} {
	return []interface{}{
		m.SettingID,
		m.UserID,
		m.TaxType,
		m.Rate,
		m.BaseRate,
		m.AdditionalRate,
		m.AdditionalThreshold,
		m.PaymentFrequency,
		m.DueDay,
		m.InstallmentAllowed,
		m.InstallmentThreshold,
		m.InstallmentCount,
		m.EffectiveDate,
		m.EndDate,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	}
}

func settingWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
		return fmt.Errorf("%w: tax setting already exists", apperrors.ErrDuplicate)
	}
	return fmt.Errorf("failed to save tax settings: %w", err)
}

// SaveSettings inserts new setting versions in one batch.
func (r *PgxTaxSettingRepository) SaveSettings(ctx context.Context, settings []domain.TaxSetting) error {
	if len(settings) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, s := range settings {
		batch.Queue(taxSettingInsertQuery, taxSettingInsertArgs(mapping.ToModelTaxSetting(s))...)
	}

	br := r.Pool.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return settingWriteError(err)
	}
	return nil
}

// RotateSetting closes the open version and inserts its successor in one database
// transaction: either the sequence rotates completely or it keeps its current open
// version. The close is stamped with the successor's audit fields.
func (r *PgxTaxSettingRepository) RotateSetting(ctx context.Context, closeSettingID string, endDate time.Time, next domain.TaxSetting) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) //nolint:errcheck // rollback after commit is a no-op

	closeQuery := `
		UPDATE tax_settings
		SET end_date = $2, last_updated_at = $3, last_updated_by = $4
		WHERE setting_id = $1 AND end_date IS NULL;`

	tag, err := tx.Exec(ctx, closeQuery, closeSettingID, endDate, next.LastUpdatedAt, next.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to close tax setting %s: %w", closeSettingID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: open tax setting %s", apperrors.ErrNotFound, closeSettingID)
	}

	if _, err := tx.Exec(ctx, taxSettingInsertQuery, taxSettingInsertArgs(mapping.ToModelTaxSetting(next))...); err != nil {
		return settingWriteError(err)
	}

	return r.Commit(ctx, tx)
}

func collectTaxSettings(rows pgx.Rows) ([]domain.TaxSetting, error) {
	var ms []models.TaxSetting
	for rows.Next() {
		m, err := scanTaxSetting(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tax setting row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tax setting rows: %w", err)
	}
	return mapping.ToDomainTaxSettingSlice(ms), nil
}
