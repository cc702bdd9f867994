package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/imovelbooks/imovel_books_app/internal/core/domain"
	portsrepo "github.com/imovelbooks/imovel_books_app/internal/core/ports/repositories"
)

type PgxRevenueRepository struct {
	BaseRepository
}

// newPgxRevenueRepository creates a new repository for revenue aggregation queries.
func newPgxRevenueRepository(pool *pgxpool.Pool) portsrepo.RevenueReader {
	return &PgxRevenueRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxRevenueRepository implements portsrepo.RevenueReader
var _ portsrepo.RevenueReader = (*PgxRevenueRepository)(nil)

// GetRevenueByPropertyAndPeriod aggregates revenue per property over [start, end).
// Composite parents are excluded so distributed amounts are not counted twice. Rows are
// ordered by property id, company-level (NULL property) rows first, so downstream
// distributions see a deterministic order.
func (r *PgxRevenueRepository) GetRevenueByPropertyAndPeriod(ctx context.Context, userID string, start, end time.Time, propertyIDs []string) ([]domain.RevenueAggregate, error) {
	query := `
		SELECT t.property_id, COALESCE(p.name, ''), SUM(t.amount)
		FROM transactions t
		LEFT JOIN properties p ON p.property_id = t.property_id
		WHERE t.user_id = $1
		  AND t.type = 'REVENUE'
		  AND t.is_composite_parent = FALSE
		  AND t.date >= $2 AND t.date < $3`
	args := []interface{}{userID, start, end}
	if len(propertyIDs) > 0 {
		query += ` AND t.property_id = ANY($4)`
		args = append(args, propertyIDs)
	}
	query += `
		GROUP BY t.property_id, p.name
		ORDER BY t.property_id ASC NULLS FIRST;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query revenue by property: %w", err)
	}
	defer rows.Close()

	var aggregates []domain.RevenueAggregate
	for rows.Next() {
		var (
			propertyID *string
			name       string
			revenue    decimal.Decimal
		)
		if err := rows.Scan(&propertyID, &name, &revenue); err != nil {
			return nil, fmt.Errorf("failed to scan revenue row: %w", err)
		}
		aggregates = append(aggregates, domain.RevenueAggregate{
			PropertyID:   propertyID,
			PropertyName: name,
			Revenue:      domain.NewMoneyFromDecimal(revenue),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating revenue rows: %w", err)
	}
	return aggregates, nil
}
