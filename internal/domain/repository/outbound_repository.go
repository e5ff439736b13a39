package repository

import (
	"context"
	"time"

	"github.com/stockceramique/stockceramique-api/internal/domain/entity"
)

// OutboundRepository define el puerto de persistencia para Outbound.
type OutboundRepository interface {
	Create(ctx context.Context, outbound *entity.Outbound) error
	GetByID(ctx context.Context, id string) (*entity.Outbound, error)
	List(ctx context.Context, filter ListFilter) ([]*entity.Outbound, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
}
