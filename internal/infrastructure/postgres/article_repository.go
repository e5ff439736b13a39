package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"github.com/stockceramique/stockceramique-api/internal/domain"
	"github.com/stockceramique/stockceramique-api/internal/domain/entity"
	"github.com/stockceramique/stockceramique-api/internal/domain/repository"
	"github.com/stockceramique/stockceramique-api/pkg/textnorm"
)

var _ repository.ArticleRepository = (*ArticleRepo)(nil)

var articleColumns = []string{
	"id", "code_article", "designation", "categorie", "marque", "reference", "unite",
	"prix_unitaire", "seuil_minimum", "stock_initial", "stock_actuel", "fournisseur_id",
	"created_at", "updated_at",
}

type articleRow struct {
	ID            string           `db:"id"`
	CodeArticle   string           `db:"code_article"`
	Designation   string           `db:"designation"`
	Categorie     string           `db:"categorie"`
	Marque        string           `db:"marque"`
	Reference     string           `db:"reference"`
	Unite         string           `db:"unite"`
	PrixUnitaire  *decimal.Decimal `db:"prix_unitaire"`
	SeuilMinimum  *int             `db:"seuil_minimum"`
	StockInitial  int              `db:"stock_initial"`
	StockActuel   int              `db:"stock_actuel"`
	FournisseurID *string          `db:"fournisseur_id"`
	CreatedAt     time.Time        `db:"created_at"`
	UpdatedAt     time.Time        `db:"updated_at"`
}

func (r articleRow) toEntity() *entity.Article {
	return &entity.Article{
		ID:            r.ID,
		CodeArticle:   r.CodeArticle,
		Designation:   r.Designation,
		Categorie:     r.Categorie,
		Marque:        r.Marque,
		Reference:     r.Reference,
		Unite:         r.Unite,
		PrixUnitaire:  r.PrixUnitaire,
		SeuilMinimum:  r.SeuilMinimum,
		StockInitial:  r.StockInitial,
		StockActuel:   r.StockActuel,
		FournisseurID: deref(r.FournisseurID),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// ArticleRepo implementación del puerto ArticleRepository sobre PostgreSQL (usable con pool o tx).
type ArticleRepo struct {
	q Querier
}

// NewArticleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewArticleRepository(q Querier) *ArticleRepo {
	return &ArticleRepo{q: q}
}

func searchKey(a *entity.Article) string {
	return textnorm.SearchKey(a.CodeArticle, a.Designation, a.Reference, a.Marque)
}

// Create persiste un nuevo artículo. El índice único sobre lower(code_article) da ErrDuplicate.
func (r *ArticleRepo) Create(ctx context.Context, a *entity.Article) error {
	sql, args, err := psql.Insert("articles").
		Columns(append(articleColumns, "search_key")...).
		Values(
			a.ID, a.CodeArticle, a.Designation, a.Categorie, a.Marque, a.Reference, a.Unite,
			a.PrixUnitaire, a.SeuilMinimum, a.StockInitial, a.StockActuel, nullable(a.FournisseurID),
			a.CreatedAt, a.UpdatedAt, searchKey(a),
		).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert article: %w", err)
	}
	return nil
}

func (r *ArticleRepo) getOne(ctx context.Context, where squirrel.Sqlizer) (*entity.Article, error) {
	sql, args, err := psql.Select(articleColumns...).From("articles").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var row articleRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get article: %w", err)
	}
	return row.toEntity(), nil
}

// GetByID obtiene un artículo por ID; (nil, nil) si no existe.
func (r *ArticleRepo) GetByID(ctx context.Context, id string) (*entity.Article, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByCode busca por código sin distinguir mayúsculas.
func (r *ArticleRepo) GetByCode(ctx context.Context, code string) (*entity.Article, error) {
	return r.getOne(ctx, squirrel.Expr("lower(code_article) = lower(?)", code))
}

// Update modifica los campos descriptivos. stock_initial y stock_actuel no se tocan.
func (r *ArticleRepo) Update(ctx context.Context, a *entity.Article) error {
	if !validID(a.ID) {
		return domain.ErrNotFound
	}
	sql, args, err := psql.Update("articles").SetMap(map[string]any{
		"code_article":   a.CodeArticle,
		"designation":    a.Designation,
		"categorie":      a.Categorie,
		"marque":         a.Marque,
		"reference":      a.Reference,
		"unite":          a.Unite,
		"prix_unitaire":  a.PrixUnitaire,
		"seuil_minimum":  a.SeuilMinimum,
		"fournisseur_id": nullable(a.FournisseurID),
		"search_key":     searchKey(a),
		"updated_at":     a.UpdatedAt,
	}).Where(squirrel.Eq{"id": a.ID}).ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update article: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AdjustStock aplica delta con un único UPDATE condicional. Si no se actualiza ninguna fila
// se distingue entre artículo inexistente y stock insuficiente.
func (r *ArticleRepo) AdjustStock(ctx context.Context, id string, delta int) (int, int, error) {
	if !validID(id) {
		return 0, 0, domain.ErrNotFound
	}
	sql, args, err := psql.Update("articles").
		Set("stock_actuel", squirrel.Expr("stock_actuel + ?", delta)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Expr("stock_actuel + ? >= 0", delta)).
		Suffix("RETURNING stock_actuel").
		ToSql()
	if err != nil {
		return 0, 0, fmt.Errorf("build update: %w", err)
	}
	var apres int
	if err := pgxscan.Get(ctx, r.q, &apres, sql, args...); err != nil {
		if !pgxscan.NotFound(err) {
			if isCheckViolation(err) {
				return 0, 0, domain.ErrInsufficientStock
			}
			return 0, 0, fmt.Errorf("adjust stock: %w", err)
		}
		var exists bool
		if err := r.q.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM articles WHERE id = $1)", id).Scan(&exists); err != nil {
			return 0, 0, fmt.Errorf("check article: %w", err)
		}
		if !exists {
			return 0, 0, domain.ErrNotFound
		}
		return 0, 0, domain.ErrInsufficientStock
	}
	return apres - delta, apres, nil
}

// List lista artículos ordenados por código, con búsqueda sin tildes sobre search_key.
func (r *ArticleRepo) List(ctx context.Context, filter repository.ArticleFilter) ([]*entity.Article, error) {
	q := psql.Select(articleColumns...).From("articles").OrderBy("code_article")
	if s := textnorm.Fold(filter.Search); s != "" {
		q = q.Where("search_key LIKE ?", likePattern(s))
	}
	if filter.Categorie != "" {
		q = q.Where("lower(categorie) = lower(?)", filter.Categorie)
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}
	return r.selectMany(ctx, q)
}

// ListLowStock artículos en rupture (stock 0) o bajo su umbral mínimo.
func (r *ArticleRepo) ListLowStock(ctx context.Context) ([]*entity.Article, error) {
	q := psql.Select(articleColumns...).From("articles").
		Where(squirrel.Or{
			squirrel.LtOrEq{"stock_actuel": 0},
			squirrel.Expr("seuil_minimum IS NOT NULL AND stock_actuel <= seuil_minimum"),
		}).
		OrderBy("code_article")
	return r.selectMany(ctx, q)
}

func (r *ArticleRepo) selectMany(ctx context.Context, q squirrel.SelectBuilder) ([]*entity.Article, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var rows []articleRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	list := make([]*entity.Article, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.toEntity())
	}
	return list, nil
}

// Count total de artículos.
func (r *ArticleRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, "SELECT count(*) FROM articles").Scan(&n); err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return n, nil
}

// Delete borra el artículo. El historial (recepciones, salidas, movimientos) se conserva.
func (r *ArticleRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, "DELETE FROM articles WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
