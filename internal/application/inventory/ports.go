package inventory

import (
	"context"

	"github.com/stockceramique/stockceramique-api/internal/domain/repository"
)

// Repositories repositorios atados a una misma transacción.
type Repositories struct {
	Articles         repository.ArticleRepository
	Suppliers        repository.SupplierRepository
	Requestors       repository.RequestorRepository
	Receptions       repository.ReceptionRepository
	Outbounds        repository.OutboundRepository
	PurchaseRequests repository.PurchaseRequestRepository
	Movements        repository.StockMovementRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Commit si fn devuelve nil, Rollback en cualquier otro caso: cambio de stock e historial
// quedan escritos juntos o no se escriben.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repositories) error) error
}
