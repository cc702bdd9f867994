package services

import (
	portsrepo "github.com/imovelbooks/imovel_books_app/internal/core/ports/repositories"
	portssvc "github.com/imovelbooks/imovel_books_app/internal/core/ports/services"
)

// Container holds all the services and manages their dependencies.
type Container struct {
	TaxSettings portssvc.TaxSettingsSvcFacade
	Calculator  portssvc.TaxCalculatorSvcFacade
	Projections portssvc.TaxProjectionSvcFacade
	Payments    portssvc.PaymentSvcFacade
	Reporting   portssvc.ReportingSvcFacade
}

// NewContainer creates a new service container with properly initialized dependencies.
func NewContainer(repos *portsrepo.RepositoryProvider) *Container {
	container := &Container{}

	container.TaxSettings = NewTaxSettingsService(repos.TaxSettingRepo)
	container.Calculator = NewTaxCalculatorService(container.TaxSettings, repos.RevenueRepo)
	container.Projections = NewTaxProjectionService(
		container.Calculator,
		container.TaxSettings,
		repos.TaxProjectionRepo,
		repos.TransactionRepo,
	)
	container.Payments = NewPaymentService(repos.TransactionRepo, repos.PropertyRepo)
	container.Reporting = NewReportingService(
		container.Calculator,
		container.TaxSettings,
		repos.TaxProjectionRepo,
		repos.RevenueRepo,
	)

	return container
}
