package pgsql

import (
	portsrepo "github.com/ParksWS/payments_recon_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		InvoiceRepo: newPgxInvoiceRepository(dbPool),
		GatewayRepo: newPgxGatewayRepository(dbPool),
		ParserRepo:  newPgxParserRepository(dbPool),
		OracleRepo:  newPgxOracleRepository(dbPool),
	}
}
