package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"github.com/stockceramique/stockceramique-api/internal/domain/entity"
	"github.com/stockceramique/stockceramique-api/internal/domain/repository"
)

var _ repository.ReceptionRepository = (*ReceptionRepo)(nil)

var receptionColumns = []string{
	"id", "article_id", "fournisseur_id", "quantite_recue", "prix_unitaire", "numero_bon_livraison",
	"observations", "date_reception", "demande_achat_id", "created_at",
}

type receptionRow struct {
	ID                 string           `db:"id"`
	ArticleID          string           `db:"article_id"`
	FournisseurID      string           `db:"fournisseur_id"`
	QuantiteRecue      int              `db:"quantite_recue"`
	PrixUnitaire       *decimal.Decimal `db:"prix_unitaire"`
	NumeroBonLivraison string           `db:"numero_bon_livraison"`
	Observations       string           `db:"observations"`
	DateReception      time.Time        `db:"date_reception"`
	DemandeAchatID     *string          `db:"demande_achat_id"`
	CreatedAt          time.Time        `db:"created_at"`
}

func (r receptionRow) toEntity() *entity.Reception {
	return &entity.Reception{
		ID:                 r.ID,
		ArticleID:          r.ArticleID,
		FournisseurID:      r.FournisseurID,
		QuantiteRecue:      r.QuantiteRecue,
		PrixUnitaire:       r.PrixUnitaire,
		NumeroBonLivraison: r.NumeroBonLivraison,
		Observations:       r.Observations,
		DateReception:      r.DateReception,
		DemandeAchatID:     deref(r.DemandeAchatID),
		CreatedAt:          r.CreatedAt,
	}
}

// ReceptionRepo recepciones sobre PostgreSQL.
type ReceptionRepo struct {
	q Querier
}

// NewReceptionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReceptionRepository(q Querier) *ReceptionRepo {
	return &ReceptionRepo{q: q}
}

func (r *ReceptionRepo) Create(ctx context.Context, rec *entity.Reception) error {
	sql, args, err := psql.Insert("receptions").Columns(receptionColumns...).
		Values(
			rec.ID, rec.ArticleID, rec.FournisseurID, rec.QuantiteRecue, rec.PrixUnitaire, rec.NumeroBonLivraison,
			rec.Observations, rec.DateReception, nullable(rec.DemandeAchatID), rec.CreatedAt,
		).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert reception: %w", err)
	}
	return nil
}

func (r *ReceptionRepo) GetByID(ctx context.Context, id string) (*entity.Reception, error) {
	if !validID(id) {
		return nil, nil
	}
	list, err := r.selectMany(ctx, psql.Select(receptionColumns...).From("receptions").Where(squirrel.Eq{"id": id}))
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return list[0], nil
}

// List recepciones más recientes primero, opcionalmente de un artículo.
func (r *ReceptionRepo) List(ctx context.Context, filter repository.ListFilter) ([]*entity.Reception, error) {
	q := psql.Select(receptionColumns...).From("receptions").OrderBy("date_reception DESC", "created_at DESC")
	if filter.ArticleID != "" {
		if !validID(filter.ArticleID) {
			return []*entity.Reception{}, nil
		}
		q = q.Where(squirrel.Eq{"article_id": filter.ArticleID})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}
	return r.selectMany(ctx, q)
}

// ListByPurchaseRequest recepciones generadas por la conversión de una demanda.
func (r *ReceptionRepo) ListByPurchaseRequest(ctx context.Context, purchaseRequestID string) ([]*entity.Reception, error) {
	if !validID(purchaseRequestID) {
		return []*entity.Reception{}, nil
	}
	return r.selectMany(ctx, psql.Select(receptionColumns...).From("receptions").
		Where(squirrel.Eq{"demande_achat_id": purchaseRequestID}).
		OrderBy("created_at", "id"))
}

func (r *ReceptionRepo) CountSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, "SELECT count(*) FROM receptions WHERE date_reception >= $1", since).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count receptions: %w", err)
	}
	return n, nil
}

func (r *ReceptionRepo) selectMany(ctx context.Context, q squirrel.SelectBuilder) ([]*entity.Reception, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var rows []receptionRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list receptions: %w", err)
	}
	list := make([]*entity.Reception, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.toEntity())
	}
	return list, nil
}
