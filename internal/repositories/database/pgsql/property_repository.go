package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/imovelbooks/imovel_books_app/internal/core/domain"
	portsrepo "github.com/imovelbooks/imovel_books_app/internal/core/ports/repositories"
	"github.com/imovelbooks/imovel_books_app/internal/models"
	"github.com/imovelbooks/imovel_books_app/internal/utils/mapping"
)

type PgxPropertyRepository struct {
	BaseRepository
}

// newPgxPropertyRepository creates a new repository for property data.
func newPgxPropertyRepository(pool *pgxpool.Pool) portsrepo.PropertyReader {
	return &PgxPropertyRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxPropertyRepository implements portsrepo.PropertyReader
var _ portsrepo.PropertyReader = (*PgxPropertyRepository)(nil)

const propertyColumns = `
	property_id, user_id, name, currency_code, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

func scanProperty(row pgx.Row) (models.Property, error) {
	var m models.Property
	err := row.Scan(
		&m.PropertyID,
		&m.UserID,
		&m.Name,
		&m.CurrencyCode,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindPropertiesByIDs retrieves the user's properties for the given ids, keyed by id.
// Missing ids are simply absent from the map; callers decide whether that is an error.
func (r *PgxPropertyRepository) FindPropertiesByIDs(ctx context.Context, userID string, propertyIDs []string) (map[string]domain.Property, error) {
	if len(propertyIDs) == 0 {
		return map[string]domain.Property{}, nil
	}

	query := `
		SELECT ` + propertyColumns + `
		FROM properties
		WHERE user_id = $1 AND property_id = ANY($2);`

	rows, err := r.Pool.Query(ctx, query, userID, propertyIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties by IDs: %w", err)
	}
	defer rows.Close()

	propertiesMap := make(map[string]domain.Property)
	for rows.Next() {
		m, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property row: %w", err)
		}
		propertiesMap[m.PropertyID] = mapping.ToDomainProperty(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating property rows: %w", err)
	}
	return propertiesMap, nil
}

// ListActiveProperties returns the user's active properties ordered by id.
func (r *PgxPropertyRepository) ListActiveProperties(ctx context.Context, userID string) ([]domain.Property, error) {
	query := `
		SELECT ` + propertyColumns + `
		FROM properties
		WHERE user_id = $1 AND is_active = TRUE
		ORDER BY property_id ASC;`

	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query active properties: %w", err)
	}
	defer rows.Close()

	var ms []models.Property
	for rows.Next() {
		m, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating property rows: %w", err)
	}
	return mapping.ToDomainPropertySlice(ms), nil
}
