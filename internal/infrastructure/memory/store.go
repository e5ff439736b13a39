// Package memory implementa los repositorios en memoria (STORAGE_DRIVER=memory).
// Pensado para demos y pruebas: los datos se pierden al reiniciar.
package memory

import (
	"context"
	"sync"

	"github.com/stockceramique/stockceramique-api/internal/application/inventory"
	"github.com/stockceramique/stockceramique-api/internal/domain/entity"
)

var _ inventory.TxRunner = (*Store)(nil)

type state struct {
	articles   map[string]entity.Article
	suppliers  map[string]entity.Supplier
	requestors map[string]entity.Requestor
	receptions []entity.Reception
	outbounds  []entity.Outbound
	requests   map[string]entity.PurchaseRequest
	movements  []entity.StockMovement
	seq        int64
}

func newState() *state {
	return &state{
		articles:   map[string]entity.Article{},
		suppliers:  map[string]entity.Supplier{},
		requestors: map[string]entity.Requestor{},
		requests:   map[string]entity.PurchaseRequest{},
	}
}

// clone copia el estado; las filas se guardan por valor, así que basta copiar mapas y slices.
func (s *state) clone() *state {
	c := &state{
		articles:   make(map[string]entity.Article, len(s.articles)),
		suppliers:  make(map[string]entity.Supplier, len(s.suppliers)),
		requestors: make(map[string]entity.Requestor, len(s.requestors)),
		receptions: append([]entity.Reception(nil), s.receptions...),
		outbounds:  append([]entity.Outbound(nil), s.outbounds...),
		requests:   make(map[string]entity.PurchaseRequest, len(s.requests)),
		movements:  append([]entity.StockMovement(nil), s.movements...),
		seq:        s.seq,
	}
	for k, v := range s.articles {
		c.articles[k] = v
	}
	for k, v := range s.suppliers {
		c.suppliers[k] = v
	}
	for k, v := range s.requestors {
		c.requestors[k] = v
	}
	for k, v := range s.requests {
		c.requests[k] = v
	}
	return c
}

// Store almacén en memoria. Run serializa las transacciones con un mutex global
// y trabaja sobre una copia que solo se publica si fn termina sin error.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Repositories devuelve repositorios fuera de transacción (cada llamada toma el lock).
func (s *Store) Repositories() inventory.Repositories {
	return reposFor(&access{store: s})
}

// Run ejecuta fn con repositorios sobre una copia del estado; Commit = reemplazar el estado.
func (s *Store) Run(ctx context.Context, fn func(repos inventory.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := s.st.clone()
	if err := fn(reposFor(&access{tx: tx})); err != nil {
		return err
	}
	s.st = tx
	return nil
}

// access da acceso al estado: directo dentro de una transacción (el lock ya está tomado)
// o tomando el lock del store fuera de ella.
type access struct {
	store *Store
	tx    *state
}

func (a *access) do(fn func(st *state)) {
	if a.tx != nil {
		fn(a.tx)
		return
	}
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	fn(a.store.st)
}

func reposFor(a *access) inventory.Repositories {
	return inventory.Repositories{
		Articles:         &ArticleRepo{a: a},
		Suppliers:        &SupplierRepo{a: a},
		Requestors:       &RequestorRepo{a: a},
		Receptions:       &ReceptionRepo{a: a},
		Outbounds:        &OutboundRepo{a: a},
		PurchaseRequests: &PurchaseRequestRepo{a: a},
		Movements:        &StockMovementRepo{a: a},
	}
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(list) {
			return list[:0]
		}
		list = list[offset:]
	}
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
