package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/stockceramique/stockceramique-api/internal/domain/entity"
	"github.com/stockceramique/stockceramique-api/internal/domain/repository"
)

var _ repository.OutboundRepository = (*OutboundRepo)(nil)

// Sin columnas opcionales: se escanea directo a entity.Outbound.
var outboundColumns = []string{
	"id", "article_id", "demandeur_id", "quantite_sortie", "motif_sortie", "observations", "date_sortie", "created_at",
}

// OutboundRepo salidas sobre PostgreSQL (tabla sorties).
type OutboundRepo struct {
	q Querier
}

// NewOutboundRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOutboundRepository(q Querier) *OutboundRepo {
	return &OutboundRepo{q: q}
}

func (r *OutboundRepo) Create(ctx context.Context, out *entity.Outbound) error {
	sql, args, err := psql.Insert("sorties").Columns(outboundColumns...).
		Values(out.ID, out.ArticleID, out.DemandeurID, out.QuantiteSortie, out.MotifSortie,
			out.Observations, out.DateSortie, out.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert sortie: %w", err)
	}
	return nil
}

func (r *OutboundRepo) GetByID(ctx context.Context, id string) (*entity.Outbound, error) {
	if !validID(id) {
		return nil, nil
	}
	sql, args, err := psql.Select(outboundColumns...).From("sorties").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var out entity.Outbound
	if err := pgxscan.Get(ctx, r.q, &out, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sortie: %w", err)
	}
	return &out, nil
}

// List salidas más recientes primero, opcionalmente de un artículo.
func (r *OutboundRepo) List(ctx context.Context, filter repository.ListFilter) ([]*entity.Outbound, error) {
	q := psql.Select(outboundColumns...).From("sorties").OrderBy("date_sortie DESC", "created_at DESC")
	if filter.ArticleID != "" {
		if !validID(filter.ArticleID) {
			return []*entity.Outbound{}, nil
		}
		q = q.Where(squirrel.Eq{"article_id": filter.ArticleID})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var list []*entity.Outbound
	if err := pgxscan.Select(ctx, r.q, &list, sql, args...); err != nil {
		return nil, fmt.Errorf("list sorties: %w", err)
	}
	return list, nil
}

func (r *OutboundRepo) CountSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, "SELECT count(*) FROM sorties WHERE date_sortie >= $1", since).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sorties: %w", err)
	}
	return n, nil
}
