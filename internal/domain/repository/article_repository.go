package repository

import (
	"context"

	"github.com/stockceramique/stockceramique-api/internal/domain/entity"
)

// ArticleFilter criterios de listado de artículos.
// Search se compara sin tildes ni mayúsculas contra código y designación.
type ArticleFilter struct {
	Search    string
	Categorie string
	Limit     int
	Offset    int
}

// ArticleRepository define el puerto de persistencia para Article (DIP).
type ArticleRepository interface {
	Create(ctx context.Context, article *entity.Article) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Article, error)
	GetByCode(ctx context.Context, code string) (*entity.Article, error)
	// Update modifica solo los campos descriptivos; nunca stockInitial ni stockActuel.
	Update(ctx context.Context, article *entity.Article) error
	// AdjustStock aplica delta a stockActuel con una única actualización condicional
	// (stock_actuel + delta >= 0). Devuelve ErrNotFound o ErrInsufficientStock sin modificar nada.
	AdjustStock(ctx context.Context, id string, delta int) (avant, apres int, err error)
	List(ctx context.Context, filter ArticleFilter) ([]*entity.Article, error)
	ListLowStock(ctx context.Context) ([]*entity.Article, error)
	Count(ctx context.Context) (int, error)
	Delete(ctx context.Context, id string) error
}
