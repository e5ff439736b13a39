package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stockceramique/stockceramique-api/internal/application/dto"
	"github.com/stockceramique/stockceramique-api/internal/domain"
	"github.com/stockceramique/stockceramique-api/internal/domain/entity"
	"github.com/stockceramique/stockceramique-api/internal/domain/repository"
)

// ArticleUseCase casos de uso CRUD para artículos. El stock se maneja vía recepciones y salidas.
type ArticleUseCase struct {
	repo      repository.ArticleRepository
	suppliers repository.SupplierRepository
}

// NewArticleUseCase construye el caso de uso.
func NewArticleUseCase(repo repository.ArticleRepository, suppliers repository.SupplierRepository) *ArticleUseCase {
	return &ArticleUseCase{repo: repo, suppliers: suppliers}
}

// Create crea un artículo con stockActuel = stockInitial.
func (uc *ArticleUseCase) Create(ctx context.Context, in dto.CreateArticleRequest) (*dto.ArticleResponse, error) {
	if in.StockInitial < 0 || (in.PrixUnitaire != nil && in.PrixUnitaire.IsNegative()) {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByCode(ctx, in.CodeArticle)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if err := uc.checkSupplier(ctx, in.FournisseurID); err != nil {
		return nil, err
	}
	if in.Unite == "" {
		in.Unite = "unité"
	}
	now := time.Now()
	article := &entity.Article{
		ID:            uuid.New().String(),
		CodeArticle:   in.CodeArticle,
		Designation:   in.Designation,
		Categorie:     in.Categorie,
		Marque:        in.Marque,
		Reference:     in.Reference,
		Unite:         in.Unite,
		PrixUnitaire:  in.PrixUnitaire,
		SeuilMinimum:  in.SeuilMinimum,
		StockInitial:  in.StockInitial,
		StockActuel:   in.StockInitial,
		FournisseurID: in.FournisseurID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, article); err != nil {
		return nil, err
	}
	return dto.NewArticleResponse(article), nil
}

// GetByID obtiene un artículo (saldo actual incluido) o ErrNotFound.
func (uc *ArticleUseCase) GetByID(ctx context.Context, id string) (*dto.ArticleResponse, error) {
	article, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, domain.ErrNotFound
	}
	return dto.NewArticleResponse(article), nil
}

// Update actualiza campos descriptivos. No permite modificar stockInitial ni stockActuel.
func (uc *ArticleUseCase) Update(ctx context.Context, id string, in dto.UpdateArticleRequest) (*dto.ArticleResponse, error) {
	article, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, domain.ErrNotFound
	}
	if in.CodeArticle != nil && *in.CodeArticle != article.CodeArticle {
		other, err := uc.repo.GetByCode(ctx, *in.CodeArticle)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != id {
			return nil, domain.ErrDuplicate
		}
		article.CodeArticle = *in.CodeArticle
	}
	if in.Designation != nil {
		article.Designation = *in.Designation
	}
	if in.Categorie != nil {
		article.Categorie = *in.Categorie
	}
	if in.Marque != nil {
		article.Marque = *in.Marque
	}
	if in.Reference != nil {
		article.Reference = *in.Reference
	}
	if in.Unite != nil {
		article.Unite = *in.Unite
	}
	if in.PrixUnitaire != nil {
		if in.PrixUnitaire.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		article.PrixUnitaire = in.PrixUnitaire
	}
	if in.SeuilMinimum != nil {
		article.SeuilMinimum = in.SeuilMinimum
	}
	if in.FournisseurID != nil {
		if err := uc.checkSupplier(ctx, *in.FournisseurID); err != nil {
			return nil, err
		}
		article.FournisseurID = *in.FournisseurID
	}
	article.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, article); err != nil {
		return nil, err
	}
	return dto.NewArticleResponse(article), nil
}

// List lista artículos con búsqueda y paginación.
func (uc *ArticleUseCase) List(ctx context.Context, filter repository.ArticleFilter) (*dto.ArticleListResponse, error) {
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.ArticleListResponse{
		Items: toArticleResponses(list),
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset, Total: total},
	}, nil
}

// ListLowStock artículos en rupture o bajo umbral.
func (uc *ArticleUseCase) ListLowStock(ctx context.Context) ([]dto.ArticleResponse, error) {
	list, err := uc.repo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	return toArticleResponses(list), nil
}

// Delete elimina un artículo. El historial de movimientos se conserva.
func (uc *ArticleUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func (uc *ArticleUseCase) checkSupplier(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	s, err := uc.suppliers.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if s == nil {
		return domain.ErrNotFound
	}
	return nil
}

func toArticleResponses(list []*entity.Article) []dto.ArticleResponse {
	items := make([]dto.ArticleResponse, 0, len(list))
	for _, a := range list {
		items = append(items, *dto.NewArticleResponse(a))
	}
	return items
}
