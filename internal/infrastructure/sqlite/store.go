package sqlite

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/stockceramique/stockceramique-api/internal/application/inventory"
)

var _ inventory.TxRunner = (*Store)(nil)

// Store agrupa los repositorios gorm y ejecuta transacciones.
type Store struct {
	db *gorm.DB
}

// NewStore construye el store sobre una base abierta con Open.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Repositories devuelve repositorios fuera de transacción.
func (s *Store) Repositories() inventory.Repositories {
	return reposFor(s.db)
}

// Run ejecuta fn dentro de db.Transaction: Commit si fn devuelve nil, Rollback en otro caso.
func (s *Store) Run(ctx context.Context, fn func(repos inventory.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

func reposFor(db *gorm.DB) inventory.Repositories {
	return inventory.Repositories{
		Articles:         &ArticleRepo{db: db},
		Suppliers:        &SupplierRepo{db: db},
		Requestors:       &RequestorRepo{db: db},
		Receptions:       &ReceptionRepo{db: db},
		Outbounds:        &OutboundRepo{db: db},
		PurchaseRequests: &PurchaseRequestRepo{db: db},
		Movements:        &StockMovementRepo{db: db},
	}
}

// isUniqueViolation cubre la traducción de gorm y el mensaje crudo del driver.
func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isCheckViolation(err error) bool {
	return strings.Contains(err.Error(), "CHECK constraint failed")
}

// likePattern escapa los comodines de LIKE; las consultas usan ESCAPE '\'.
func likePattern(s string) string {
	return "%" + strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s) + "%"
}
