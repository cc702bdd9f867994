package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/imovelbooks/imovel_books_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	taxSettingRepo := newPgxTaxSettingRepository(dbPool)
	taxProjectionRepo := newPgxTaxProjectionRepository(dbPool)
	transactionRepo := newPgxTransactionRepository(dbPool)
	revenueRepo := newPgxRevenueRepository(dbPool)
	propertyRepo := newPgxPropertyRepository(dbPool)

	return portsrepo.RepositoryProvider{
		TaxSettingRepo:    taxSettingRepo,
		TaxProjectionRepo: taxProjectionRepo,
		TransactionRepo:   transactionRepo,
		RevenueRepo:       revenueRepo,
		PropertyRepo:      propertyRepo,
	}
}
