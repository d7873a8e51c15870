package pgsql

import (
	portsrepo "github.com/SscSPs/kudi_commerce/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider builds every repository over one pool. All of them share
// the transaction carried in the context by TxManager.WithinTx.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	catalogRepo := newPgxCatalogRepository(dbPool)

	return portsrepo.RepositoryProvider{
		ExchangeRateRepo: newPgxExchangeRateRepository(dbPool),
		CatalogRepo:      catalogRepo,
		PriceRepo:        catalogRepo,
		OrderRepo:        newPgxOrderRepository(dbPool),
		CartRepo:         newPgxCartRepository(dbPool),
		TxManager:        &BaseRepository{Pool: dbPool},
	}
}
