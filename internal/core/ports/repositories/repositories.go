package repositories

// RepositoryProvider aggregates the repositories the service layer depends on.
type RepositoryProvider struct {
	TaxSettingRepo    TaxSettingRepositoryFacade
	TaxProjectionRepo TaxProjectionRepositoryFacade
	TransactionRepo   TransactionRepositoryFacade
	RevenueRepo       RevenueReader
	PropertyRepo      PropertyReader
}
