package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockceramique/stockceramique-api/internal/domain"
	"github.com/stockceramique/stockceramique-api/internal/domain/entity"
	"github.com/stockceramique/stockceramique-api/internal/domain/repository"
)

var _ repository.PurchaseRequestRepository = (*PurchaseRequestRepo)(nil)

var (
	requestColumns = []string{
		"id", "demandeur_id", "date_demande", "observations", "statut", "type",
		"article_id", "fournisseur_id", "quantite_demandee", "created_at", "updated_at",
	}
	itemColumns = []string{
		"id", "demande_achat_id", "position", "article_id", "fournisseur_id",
		"quantite_demandee", "prix_unitaire", "observations",
	}
)

// requestRow cabecera; article_id/fournisseur_id/quantite_demandee solo en el formulario single.
type requestRow struct {
	ID               string    `db:"id"`
	DemandeurID      string    `db:"demandeur_id"`
	DateDemande      time.Time `db:"date_demande"`
	Observations     string    `db:"observations"`
	Statut           string    `db:"statut"`
	Type             string    `db:"type"`
	ArticleID        *string   `db:"article_id"`
	FournisseurID    *string   `db:"fournisseur_id"`
	QuantiteDemandee *int      `db:"quantite_demandee"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

type itemRow struct {
	ID               string           `db:"id"`
	DemandeAchatID   string           `db:"demande_achat_id"`
	Position         int              `db:"position"`
	ArticleID        string           `db:"article_id"`
	FournisseurID    *string          `db:"fournisseur_id"`
	QuantiteDemandee int              `db:"quantite_demandee"`
	PrixUnitaire     *decimal.Decimal `db:"prix_unitaire"`
	Observations     string           `db:"observations"`
}

func (r requestRow) toEntity(items []itemRow) *entity.PurchaseRequest {
	pr := &entity.PurchaseRequest{
		ID:           r.ID,
		DemandeurID:  r.DemandeurID,
		DateDemande:  r.DateDemande,
		Observations: r.Observations,
		Statut:       entity.PurchaseStatus(r.Statut),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.Type == entity.LinesMulti {
		multi := entity.MultiArticle{Items: make([]entity.PurchaseRequestItem, 0, len(items))}
		for _, it := range items {
			multi.Items = append(multi.Items, entity.PurchaseRequestItem{
				ID:               it.ID,
				ArticleID:        it.ArticleID,
				FournisseurID:    deref(it.FournisseurID),
				QuantiteDemandee: it.QuantiteDemandee,
				PrixUnitaire:     it.PrixUnitaire,
				Observations:     it.Observations,
			})
		}
		pr.Lines = multi
		return pr
	}
	single := entity.SingleArticle{ArticleID: deref(r.ArticleID), FournisseurID: deref(r.FournisseurID)}
	if r.QuantiteDemandee != nil {
		single.QuantiteDemandee = *r.QuantiteDemandee
	}
	pr.Lines = single
	return pr
}

// PurchaseRequestRepo demandas de compra (cabecera + ítems) sobre PostgreSQL.
type PurchaseRequestRepo struct {
	q Querier
}

// NewPurchaseRequestRepository construye el adaptador. Pasar pool o tx (Querier).
// Create inserta cabecera e ítems en sentencias separadas: llamarlo dentro de TxRunner.Run.
func NewPurchaseRequestRepository(q Querier) *PurchaseRequestRepo {
	return &PurchaseRequestRepo{q: q}
}

func (r *PurchaseRequestRepo) Create(ctx context.Context, pr *entity.PurchaseRequest) error {
	var articleID, fournisseurID, quantite any
	if single, ok := pr.Lines.(entity.SingleArticle); ok {
		articleID = nullable(single.ArticleID)
		fournisseurID = nullable(single.FournisseurID)
		quantite = single.QuantiteDemandee
	}
	sql, args, err := psql.Insert("demandes_achat").Columns(requestColumns...).
		Values(pr.ID, pr.DemandeurID, pr.DateDemande, pr.Observations, string(pr.Statut), pr.Lines.Kind(),
			articleID, fournisseurID, quantite, pr.CreatedAt, pr.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert demande: %w", err)
	}

	multi, ok := pr.Lines.(entity.MultiArticle)
	if !ok || len(multi.Items) == 0 {
		return nil
	}
	ins := psql.Insert("demande_achat_items").Columns(itemColumns...)
	for i := range multi.Items {
		it := &multi.Items[i]
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		ins = ins.Values(it.ID, pr.ID, i, it.ArticleID, nullable(it.FournisseurID),
			it.QuantiteDemandee, it.PrixUnitaire, it.Observations)
	}
	sql, args, err = ins.ToSql()
	if err != nil {
		return fmt.Errorf("build insert items: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert items: %w", err)
	}
	return nil
}

func (r *PurchaseRequestRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseRequest, error) {
	return r.getOne(ctx, id, "")
}

// GetForUpdate bloquea la cabecera (SELECT ... FOR UPDATE) hasta el fin de la transacción.
func (r *PurchaseRequestRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseRequest, error) {
	return r.getOne(ctx, id, "FOR UPDATE")
}

func (r *PurchaseRequestRepo) getOne(ctx context.Context, id, suffix string) (*entity.PurchaseRequest, error) {
	if !validID(id) {
		return nil, nil
	}
	q := psql.Select(requestColumns...).From("demandes_achat").Where(squirrel.Eq{"id": id})
	if suffix != "" {
		q = q.Suffix(suffix)
	}
	list, err := r.selectMany(ctx, q)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return list[0], nil
}

// List demandas con alguno de los estados dados (todas si no se indica), más recientes primero.
func (r *PurchaseRequestRepo) List(ctx context.Context, statuses ...entity.PurchaseStatus) ([]*entity.PurchaseRequest, error) {
	q := psql.Select(requestColumns...).From("demandes_achat").OrderBy("created_at DESC", "id")
	if len(statuses) > 0 {
		values := make([]string, 0, len(statuses))
		for _, s := range statuses {
			values = append(values, string(s))
		}
		q = q.Where(squirrel.Eq{"statut": values})
	}
	return r.selectMany(ctx, q)
}

func (r *PurchaseRequestRepo) UpdateStatus(ctx context.Context, id string, status entity.PurchaseStatus, updatedAt time.Time) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	return execOne(ctx, r.q, "update statut",
		"UPDATE demandes_achat SET statut = $2, updated_at = $3 WHERE id = $1", id, string(status), updatedAt)
}

// Delete borra la demanda; los ítems caen por ON DELETE CASCADE.
func (r *PurchaseRequestRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	return execOne(ctx, r.q, "delete demande", "DELETE FROM demandes_achat WHERE id = $1", id)
}

// selectMany carga las cabeceras y, en una segunda consulta, los ítems de las multi-artículo.
func (r *PurchaseRequestRepo) selectMany(ctx context.Context, q squirrel.SelectBuilder) ([]*entity.PurchaseRequest, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var rows []requestRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list demandes: %w", err)
	}

	var multiIDs []string
	for _, row := range rows {
		if row.Type == entity.LinesMulti {
			multiIDs = append(multiIDs, row.ID)
		}
	}
	itemsBy := map[string][]itemRow{}
	if len(multiIDs) > 0 {
		sql, args, err := psql.Select(itemColumns...).From("demande_achat_items").
			Where(squirrel.Eq{"demande_achat_id": multiIDs}).
			OrderBy("demande_achat_id", "position").
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("build items query: %w", err)
		}
		var items []itemRow
		if err := pgxscan.Select(ctx, r.q, &items, sql, args...); err != nil {
			return nil, fmt.Errorf("list items: %w", err)
		}
		for _, it := range items {
			itemsBy[it.DemandeAchatID] = append(itemsBy[it.DemandeAchatID], it)
		}
	}

	list := make([]*entity.PurchaseRequest, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.toEntity(itemsBy[row.ID]))
	}
	return list, nil
}
