package repository

import (
	"context"
	"time"

	"github.com/stockceramique/stockceramique-api/internal/domain/entity"
)

// PurchaseRequestRepository define el puerto de persistencia para PurchaseRequest.
// Create y GetByID manejan también los ítems del formulario multi-artículo.
type PurchaseRequestRepository interface {
	Create(ctx context.Context, pr *entity.PurchaseRequest) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseRequest, error)
	// GetForUpdate bloquea la demanda hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.PurchaseRequest, error)
	// List devuelve las demandas con alguno de los estados dados (todas si statuses está vacío),
	// más recientes primero.
	List(ctx context.Context, statuses ...entity.PurchaseStatus) ([]*entity.PurchaseRequest, error)
	UpdateStatus(ctx context.Context, id string, status entity.PurchaseStatus, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
}
