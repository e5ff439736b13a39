package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/stockceramique/stockceramique-api/internal/domain/entity"
	"github.com/stockceramique/stockceramique-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

var movementColumns = []string{
	"id", "seq", "article_id", "type", "quantite", "quantite_avant", "quantite_apres",
	"reference", "date_mouvement", "description",
}

type movementRow struct {
	ID            string    `db:"id"`
	Seq           int64     `db:"seq"`
	ArticleID     string    `db:"article_id"`
	Type          string    `db:"type"`
	Quantite      int       `db:"quantite"`
	QuantiteAvant int       `db:"quantite_avant"`
	QuantiteApres int       `db:"quantite_apres"`
	Reference     string    `db:"reference"`
	DateMouvement time.Time `db:"date_mouvement"`
	Description   string    `db:"description"`
}

// StockMovementRepo historial de stock sobre PostgreSQL. Solo INSERT y SELECT.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Append inserta el movimiento; seq lo asigna la identidad de la tabla.
func (r *StockMovementRepo) Append(ctx context.Context, m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	sql, args, err := psql.Insert("mouvements_stock").
		Columns("id", "article_id", "type", "quantite", "quantite_avant", "quantite_apres",
			"reference", "date_mouvement", "description").
		Values(m.ID, m.ArticleID, string(m.Type), m.Quantite, m.QuantiteAvant, m.QuantiteApres,
			m.Reference, m.DateMovement, m.Description).
		Suffix("RETURNING seq").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if err := r.q.QueryRow(ctx, sql, args...).Scan(&m.Seq); err != nil {
		return fmt.Errorf("insert mouvement: %w", err)
	}
	return nil
}

// List movimientos en orden cronológico (seq ascendente).
func (r *StockMovementRepo) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	q := psql.Select(movementColumns...).From("mouvements_stock").OrderBy("seq")
	if filter.ArticleID != "" {
		if !validID(filter.ArticleID) {
			return []*entity.StockMovement{}, nil
		}
		q = q.Where(squirrel.Eq{"article_id": filter.ArticleID})
	}
	if filter.From != nil {
		q = q.Where(squirrel.GtOrEq{"date_mouvement": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(squirrel.LtOrEq{"date_mouvement": *filter.To})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	return r.selectMany(ctx, q)
}

// ListRecent últimos movimientos, más recientes primero.
func (r *StockMovementRepo) ListRecent(ctx context.Context, limit int) ([]*entity.StockMovement, error) {
	q := psql.Select(movementColumns...).From("mouvements_stock").OrderBy("seq DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	return r.selectMany(ctx, q)
}

func (r *StockMovementRepo) selectMany(ctx context.Context, q squirrel.SelectBuilder) ([]*entity.StockMovement, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var rows []movementRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list mouvements: %w", err)
	}
	list := make([]*entity.StockMovement, 0, len(rows))
	for _, row := range rows {
		list = append(list, &entity.StockMovement{
			ID:            row.ID,
			Seq:           row.Seq,
			ArticleID:     row.ArticleID,
			Type:          entity.MovementType(row.Type),
			Quantite:      row.Quantite,
			QuantiteAvant: row.QuantiteAvant,
			QuantiteApres: row.QuantiteApres,
			Reference:     row.Reference,
			DateMovement:  row.DateMouvement,
			Description:   row.Description,
		})
	}
	return list, nil
}
