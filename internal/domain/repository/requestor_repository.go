package repository

import (
	"context"

	"github.com/stockceramique/stockceramique-api/internal/domain/entity"
)

// RequestorRepository define el puerto de persistencia para Requestor.
type RequestorRepository interface {
	Create(ctx context.Context, requestor *entity.Requestor) error
	GetByID(ctx context.Context, id string) (*entity.Requestor, error)
	List(ctx context.Context) ([]*entity.Requestor, error)
	Update(ctx context.Context, requestor *entity.Requestor) error
	Delete(ctx context.Context, id string) error
}
