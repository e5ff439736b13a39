package repository

import (
	"context"
	"time"

	"github.com/stockceramique/stockceramique-api/internal/domain/entity"
)

// ListFilter filtro común para recepciones y salidas.
type ListFilter struct {
	ArticleID string
	Limit     int
	Offset    int
}

// ReceptionRepository define el puerto de persistencia para Reception.
type ReceptionRepository interface {
	Create(ctx context.Context, reception *entity.Reception) error
	GetByID(ctx context.Context, id string) (*entity.Reception, error)
	List(ctx context.Context, filter ListFilter) ([]*entity.Reception, error)
	ListByPurchaseRequest(ctx context.Context, purchaseRequestID string) ([]*entity.Reception, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
}
