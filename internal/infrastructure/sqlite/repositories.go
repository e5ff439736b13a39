package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockceramique/stockceramique-api/internal/domain"
	"github.com/stockceramique/stockceramique-api/internal/domain/entity"
	"github.com/stockceramique/stockceramique-api/internal/domain/repository"
	"github.com/stockceramique/stockceramique-api/pkg/textnorm"
)

var (
	_ repository.ArticleRepository         = (*ArticleRepo)(nil)
	_ repository.SupplierRepository        = (*SupplierRepo)(nil)
	_ repository.RequestorRepository       = (*RequestorRepo)(nil)
	_ repository.ReceptionRepository       = (*ReceptionRepo)(nil)
	_ repository.OutboundRepository        = (*OutboundRepo)(nil)
	_ repository.PurchaseRequestRepository = (*PurchaseRequestRepo)(nil)
	_ repository.StockMovementRepository   = (*StockMovementRepo)(nil)
)

// ArticleRepo artículos sobre gorm.
type ArticleRepo struct{ db *gorm.DB }

func searchKey(a *entity.Article) string {
	return textnorm.SearchKey(a.CodeArticle, a.Designation, a.Reference, a.Marque)
}

func (r *ArticleRepo) Create(ctx context.Context, a *entity.Article) error {
	m := &articleModel{
		ID:            a.ID,
		CodeArticle:   a.CodeArticle,
		Designation:   a.Designation,
		Categorie:     a.Categorie,
		Marque:        a.Marque,
		Reference:     a.Reference,
		Unite:         a.Unite,
		PrixUnitaire:  a.PrixUnitaire,
		SeuilMinimum:  a.SeuilMinimum,
		StockInitial:  a.StockInitial,
		StockActuel:   a.StockActuel,
		FournisseurID: a.FournisseurID,
		SearchKey:     searchKey(a),
		CreatedAt:     a.CreatedAt.UTC(),
		UpdatedAt:     a.UpdatedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert article: %w", err)
	}
	return nil
}

func (r *ArticleRepo) first(ctx context.Context, query string, arg any) (*entity.Article, error) {
	var m articleModel
	if err := r.db.WithContext(ctx).Where(query, arg).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get article: %w", err)
	}
	return m.toEntity(), nil
}

func (r *ArticleRepo) GetByID(ctx context.Context, id string) (*entity.Article, error) {
	return r.first(ctx, "id = ?", id)
}

// GetByCode: la columna code_article tiene COLLATE NOCASE.
func (r *ArticleRepo) GetByCode(ctx context.Context, code string) (*entity.Article, error) {
	return r.first(ctx, "code_article = ?", code)
}

func (r *ArticleRepo) Update(ctx context.Context, a *entity.Article) error {
	res := r.db.WithContext(ctx).Model(&articleModel{}).Where("id = ?", a.ID).Updates(map[string]any{
		"code_article":   a.CodeArticle,
		"designation":    a.Designation,
		"categorie":      a.Categorie,
		"marque":         a.Marque,
		"reference":      a.Reference,
		"unite":          a.Unite,
		"prix_unitaire":  a.PrixUnitaire,
		"seuil_minimum":  a.SeuilMinimum,
		"fournisseur_id": a.FournisseurID,
		"search_key":     searchKey(a),
		"updated_at":     a.UpdatedAt.UTC(),
	})
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update article: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AdjustStock UPDATE condicional (stock_actuel + delta >= 0) y lectura del saldo resultante
// en un savepoint, para que ambos pasos vean la misma fila.
func (r *ArticleRepo) AdjustStock(ctx context.Context, id string, delta int) (int, int, error) {
	var apres int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&articleModel{}).
			Where("id = ? AND stock_actuel + ? >= 0", id, delta).
			Updates(map[string]any{
				"stock_actuel": gorm.Expr("stock_actuel + ?", delta),
				"updated_at":   time.Now().UTC(),
			})
		if res.Error != nil {
			if isCheckViolation(res.Error) {
				return domain.ErrInsufficientStock
			}
			return fmt.Errorf("adjust stock: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			var n int64
			if err := tx.Model(&articleModel{}).Where("id = ?", id).Count(&n).Error; err != nil {
				return fmt.Errorf("check article: %w", err)
			}
			if n == 0 {
				return domain.ErrNotFound
			}
			return domain.ErrInsufficientStock
		}
		return tx.Model(&articleModel{}).Where("id = ?", id).Select("stock_actuel").Scan(&apres).Error
	})
	if err != nil {
		return 0, 0, err
	}
	return apres - delta, apres, nil
}

func (r *ArticleRepo) List(ctx context.Context, filter repository.ArticleFilter) ([]*entity.Article, error) {
	q := r.db.WithContext(ctx).Model(&articleModel{}).Order("code_article")
	if s := textnorm.Fold(filter.Search); s != "" {
		q = q.Where(`search_key LIKE ? ESCAPE '\'`, likePattern(s))
	}
	if filter.Categorie != "" {
		q = q.Where("categorie = ? COLLATE NOCASE", filter.Categorie)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	return r.find(q)
}

func (r *ArticleRepo) ListLowStock(ctx context.Context) ([]*entity.Article, error) {
	q := r.db.WithContext(ctx).
		Where("stock_actuel <= 0 OR (seuil_minimum IS NOT NULL AND stock_actuel <= seuil_minimum)").
		Order("code_article")
	return r.find(q)
}

func (r *ArticleRepo) find(q *gorm.DB) ([]*entity.Article, error) {
	var models []articleModel
	if err := q.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	list := make([]*entity.Article, 0, len(models))
	for _, m := range models {
		list = append(list, m.toEntity())
	}
	return list, nil
}

func (r *ArticleRepo) Count(ctx context.Context) (int, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&articleModel{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return int(n), nil
}

func (r *ArticleRepo) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, r.db, &articleModel{}, id)
}

// SupplierRepo proveedores sobre gorm.
type SupplierRepo struct{ db *gorm.DB }

func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	if err := r.db.WithContext(ctx).Create(newSupplierModel(s)).Error; err != nil {
		return fmt.Errorf("insert fournisseur: %w", err)
	}
	return nil
}

func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	var m supplierModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get fournisseur: %w", err)
	}
	return m.toEntity(), nil
}

func (r *SupplierRepo) List(ctx context.Context) ([]*entity.Supplier, error) {
	var models []supplierModel
	if err := r.db.WithContext(ctx).Order("nom").Order("id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list fournisseurs: %w", err)
	}
	list := make([]*entity.Supplier, 0, len(models))
	for _, m := range models {
		list = append(list, m.toEntity())
	}
	return list, nil
}

func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	return updateOne(ctx, r.db, &supplierModel{}, s.ID, map[string]any{
		"nom": s.Nom, "contact": s.Contact, "telephone": s.Telephone, "email": s.Email, "adresse": s.Adresse,
	})
}

func (r *SupplierRepo) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, r.db, &supplierModel{}, id)
}

// RequestorRepo demandeurs sobre gorm.
type RequestorRepo struct{ db *gorm.DB }

func (r *RequestorRepo) Create(ctx context.Context, req *entity.Requestor) error {
	if err := r.db.WithContext(ctx).Create(newRequestorModel(req)).Error; err != nil {
		return fmt.Errorf("insert demandeur: %w", err)
	}
	return nil
}

func (r *RequestorRepo) GetByID(ctx context.Context, id string) (*entity.Requestor, error) {
	var m requestorModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get demandeur: %w", err)
	}
	return m.toEntity(), nil
}

func (r *RequestorRepo) List(ctx context.Context) ([]*entity.Requestor, error) {
	var models []requestorModel
	if err := r.db.WithContext(ctx).Order("nom").Order("prenom").Order("id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list demandeurs: %w", err)
	}
	list := make([]*entity.Requestor, 0, len(models))
	for _, m := range models {
		list = append(list, m.toEntity())
	}
	return list, nil
}

func (r *RequestorRepo) Update(ctx context.Context, req *entity.Requestor) error {
	return updateOne(ctx, r.db, &requestorModel{}, req.ID, map[string]any{
		"nom": req.Nom, "prenom": req.Prenom, "departement": req.Departement,
		"poste": req.Poste, "email": req.Email, "telephone": req.Telephone,
	})
}

func (r *RequestorRepo) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, r.db, &requestorModel{}, id)
}

// ReceptionRepo recepciones sobre gorm.
type ReceptionRepo struct{ db *gorm.DB }

func (r *ReceptionRepo) Create(ctx context.Context, rec *entity.Reception) error {
	if err := r.db.WithContext(ctx).Create(newReceptionModel(rec)).Error; err != nil {
		return fmt.Errorf("insert reception: %w", err)
	}
	return nil
}

func (r *ReceptionRepo) GetByID(ctx context.Context, id string) (*entity.Reception, error) {
	list, err := r.find(r.db.WithContext(ctx).Where("id = ?", id))
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return list[0], nil
}

func (r *ReceptionRepo) List(ctx context.Context, filter repository.ListFilter) ([]*entity.Reception, error) {
	q := r.db.WithContext(ctx).Order("date_reception DESC").Order("created_at DESC")
	if filter.ArticleID != "" {
		q = q.Where("article_id = ?", filter.ArticleID)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	return r.find(q)
}

func (r *ReceptionRepo) ListByPurchaseRequest(ctx context.Context, purchaseRequestID string) ([]*entity.Reception, error) {
	return r.find(r.db.WithContext(ctx).Where("demande_achat_id = ?", purchaseRequestID).Order("created_at").Order("id"))
}

func (r *ReceptionRepo) CountSince(ctx context.Context, since time.Time) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&receptionModel{}).Where("date_reception >= ?", since.UTC()).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count receptions: %w", err)
	}
	return int(n), nil
}

func (r *ReceptionRepo) find(q *gorm.DB) ([]*entity.Reception, error) {
	var models []receptionModel
	if err := q.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list receptions: %w", err)
	}
	list := make([]*entity.Reception, 0, len(models))
	for _, m := range models {
		list = append(list, m.toEntity())
	}
	return list, nil
}

// OutboundRepo salidas sobre gorm.
type OutboundRepo struct{ db *gorm.DB }

func (r *OutboundRepo) Create(ctx context.Context, out *entity.Outbound) error {
	if err := r.db.WithContext(ctx).Create(newOutboundModel(out)).Error; err != nil {
		return fmt.Errorf("insert sortie: %w", err)
	}
	return nil
}

func (r *OutboundRepo) GetByID(ctx context.Context, id string) (*entity.Outbound, error) {
	list, err := r.find(r.db.WithContext(ctx).Where("id = ?", id))
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return list[0], nil
}

func (r *OutboundRepo) List(ctx context.Context, filter repository.ListFilter) ([]*entity.Outbound, error) {
	q := r.db.WithContext(ctx).Order("date_sortie DESC").Order("created_at DESC")
	if filter.ArticleID != "" {
		q = q.Where("article_id = ?", filter.ArticleID)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	return r.find(q)
}

func (r *OutboundRepo) CountSince(ctx context.Context, since time.Time) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&outboundModel{}).Where("date_sortie >= ?", since.UTC()).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count sorties: %w", err)
	}
	return int(n), nil
}

func (r *OutboundRepo) find(q *gorm.DB) ([]*entity.Outbound, error) {
	var models []outboundModel
	if err := q.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list sorties: %w", err)
	}
	list := make([]*entity.Outbound, 0, len(models))
	for _, m := range models {
		list = append(list, m.toEntity())
	}
	return list, nil
}

// PurchaseRequestRepo demandas de compra; los ítems se guardan como asociación has-many.
type PurchaseRequestRepo struct{ db *gorm.DB }

func (r *PurchaseRequestRepo) Create(ctx context.Context, pr *entity.PurchaseRequest) error {
	if multi, ok := pr.Lines.(entity.MultiArticle); ok {
		for i := range multi.Items {
			if multi.Items[i].ID == "" {
				multi.Items[i].ID = uuid.New().String()
			}
		}
	}
	if err := r.db.WithContext(ctx).Create(newRequestModel(pr)).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert demande: %w", err)
	}
	return nil
}

func (r *PurchaseRequestRepo) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	})
}

func (r *PurchaseRequestRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseRequest, error) {
	var m requestModel
	if err := r.withItems(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get demande: %w", err)
	}
	return m.toEntity(), nil
}

// GetForUpdate: SQLite no tiene FOR UPDATE; la conexión única ya serializa las transacciones.
func (r *PurchaseRequestRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *PurchaseRequestRepo) List(ctx context.Context, statuses ...entity.PurchaseStatus) ([]*entity.PurchaseRequest, error) {
	q := r.withItems(ctx).Order("created_at DESC").Order("id")
	if len(statuses) > 0 {
		values := make([]string, 0, len(statuses))
		for _, s := range statuses {
			values = append(values, string(s))
		}
		q = q.Where("statut IN ?", values)
	}
	var models []requestModel
	if err := q.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list demandes: %w", err)
	}
	list := make([]*entity.PurchaseRequest, 0, len(models))
	for _, m := range models {
		list = append(list, m.toEntity())
	}
	return list, nil
}

func (r *PurchaseRequestRepo) UpdateStatus(ctx context.Context, id string, status entity.PurchaseStatus, updatedAt time.Time) error {
	return updateOne(ctx, r.db, &requestModel{}, id, map[string]any{
		"statut":     string(status),
		"updated_at": updatedAt.UTC(),
	})
}

func (r *PurchaseRequestRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("demande_achat_id = ?", id).Delete(&itemModel{}).Error; err != nil {
			return fmt.Errorf("delete items: %w", err)
		}
		return deleteOne(ctx, tx, &requestModel{}, id)
	})
}

// StockMovementRepo historial sobre gorm, solo inserción.
type StockMovementRepo struct{ db *gorm.DB }

func (r *StockMovementRepo) Append(ctx context.Context, mov *entity.StockMovement) error {
	if mov.ID == "" {
		mov.ID = uuid.New().String()
	}
	m := &movementModel{
		ID:            mov.ID,
		ArticleID:     mov.ArticleID,
		Type:          string(mov.Type),
		Quantite:      mov.Quantite,
		QuantiteAvant: mov.QuantiteAvant,
		QuantiteApres: mov.QuantiteApres,
		Reference:     mov.Reference,
		DateMouvement: mov.DateMovement.UTC(),
		Description:   mov.Description,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("insert mouvement: %w", err)
	}
	mov.Seq = m.Seq
	return nil
}

func (r *StockMovementRepo) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	q := r.db.WithContext(ctx).Order("seq")
	if filter.ArticleID != "" {
		q = q.Where("article_id = ?", filter.ArticleID)
	}
	if filter.From != nil {
		q = q.Where("date_mouvement >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		q = q.Where("date_mouvement <= ?", filter.To.UTC())
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	return r.find(q)
}

func (r *StockMovementRepo) ListRecent(ctx context.Context, limit int) ([]*entity.StockMovement, error) {
	q := r.db.WithContext(ctx).Order("seq DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	return r.find(q)
}

func (r *StockMovementRepo) find(q *gorm.DB) ([]*entity.StockMovement, error) {
	var models []movementModel
	if err := q.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list mouvements: %w", err)
	}
	list := make([]*entity.StockMovement, 0, len(models))
	for _, m := range models {
		list = append(list, m.toEntity())
	}
	return list, nil
}

func updateOne(ctx context.Context, db *gorm.DB, model any, id string, values map[string]any) error {
	res := db.WithContext(ctx).Model(model).Where("id = ?", id).Updates(values)
	if res.Error != nil {
		return fmt.Errorf("update: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func deleteOne(ctx context.Context, db *gorm.DB, model any, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(model)
	if res.Error != nil {
		return fmt.Errorf("delete: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
