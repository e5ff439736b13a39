package repository

import (
	"context"
	"time"

	"github.com/stockceramique/stockceramique-api/internal/domain/entity"
)

// MovementFilter filtro del historial. Campos vacíos no filtran.
type MovementFilter struct {
	ArticleID string
	From      *time.Time
	To        *time.Time
	Limit     int
}

// StockMovementRepository puerto del historial de stock: solo inserción y lectura.
type StockMovementRepository interface {
	// Append inserta el movimiento y asigna ID y Seq.
	Append(ctx context.Context, movement *entity.StockMovement) error
	// List devuelve los movimientos en orden cronológico (Seq ascendente).
	List(ctx context.Context, filter MovementFilter) ([]*entity.StockMovement, error)
	// ListRecent devuelve los últimos movimientos, más recientes primero.
	ListRecent(ctx context.Context, limit int) ([]*entity.StockMovement, error)
}
