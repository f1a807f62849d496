package services

import (
	portsrepo "github.com/ParksWS/payments_recon_app/internal/core/ports/repositories"
	portssvc "github.com/ParksWS/payments_recon_app/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies. The notifier is injected so the binary can pick
// email or log delivery from configuration.
func NewServiceContainer(repos portsrepo.RepositoryProvider, notifier portssvc.Notifier) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Notifier = notifier
	container.InterfaceWriter = NewInterfaceService(repos.OracleRepo)
	container.Allocation = NewAllocationService(repos.InvoiceRepo, repos.GatewayRepo)
	container.Reconciliation = NewReconciliationService(
		repos.ParserRepo,
		repos.InvoiceRepo,
		repos.GatewayRepo,
		repos.OracleRepo,
		container.InterfaceWriter,
		container.Notifier,
	)

	return container
}
