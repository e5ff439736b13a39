package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stockceramique/stockceramique-api/internal/application/inventory"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción READ COMMITTED, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// La concurrencia sobre stock_actuel se resuelve con la actualización condicional de AdjustStock
// (la fila queda bloqueada hasta el fin de la tx), no con el nivel de aislamiento.
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.Repositories) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// NewRepositories construye todos los repositorios sobre el mismo Querier (pool o tx).
func NewRepositories(q Querier) inventory.Repositories {
	return inventory.Repositories{
		Articles:         NewArticleRepository(q),
		Suppliers:        NewSupplierRepository(q),
		Requestors:       NewRequestorRepository(q),
		Receptions:       NewReceptionRepository(q),
		Outbounds:        NewOutboundRepository(q),
		PurchaseRequests: NewPurchaseRequestRepository(q),
		Movements:        NewStockMovementRepository(q),
	}
}
