package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/stockceramique/stockceramique-api/internal/domain/entity"
)

// CreateArticleRequest entrada para crear un artículo. stockActuel arranca en stockInitial.
type CreateArticleRequest struct {
	CodeArticle   string           `json:"codeArticle" validate:"required,max=50"`
	Designation   string           `json:"designation" validate:"required,max=200"`
	Categorie     string           `json:"categorie" validate:"required,max=100"`
	Marque        string           `json:"marque" validate:"max=100"`
	Reference     string           `json:"reference" validate:"max=100"`
	Unite         string           `json:"unite" validate:"max=20"`
	PrixUnitaire  *decimal.Decimal `json:"prixUnitaire"`
	SeuilMinimum  *int             `json:"seuilMinimum" validate:"omitempty,min=0"`
	StockInitial  int              `json:"stockInitial" validate:"min=0"`
	FournisseurID string           `json:"fournisseurId"`
}

// UpdateArticleRequest campos descriptivos; el stock solo cambia vía recepciones y salidas.
type UpdateArticleRequest struct {
	CodeArticle   *string          `json:"codeArticle" validate:"omitempty,min=1,max=50"`
	Designation   *string          `json:"designation" validate:"omitempty,min=1,max=200"`
	Categorie     *string          `json:"categorie" validate:"omitempty,min=1,max=100"`
	Marque        *string          `json:"marque" validate:"omitempty,max=100"`
	Reference     *string          `json:"reference" validate:"omitempty,max=100"`
	Unite         *string          `json:"unite" validate:"omitempty,max=20"`
	PrixUnitaire  *decimal.Decimal `json:"prixUnitaire"`
	SeuilMinimum  *int             `json:"seuilMinimum" validate:"omitempty,min=0"`
	FournisseurID *string          `json:"fournisseurId"`
}

// ArticleResponse salida de un artículo.
type ArticleResponse struct {
	ID            string           `json:"id"`
	CodeArticle   string           `json:"codeArticle"`
	Designation   string           `json:"designation"`
	Categorie     string           `json:"categorie"`
	Marque        string           `json:"marque,omitempty"`
	Reference     string           `json:"reference,omitempty"`
	Unite         string           `json:"unite"`
	PrixUnitaire  *decimal.Decimal `json:"prixUnitaire"`
	SeuilMinimum  *int             `json:"seuilMinimum"`
	StockInitial  int              `json:"stockInitial"`
	StockActuel   int              `json:"stockActuel"`
	StatutStock   string           `json:"statutStock"`
	FournisseurID string           `json:"fournisseurId,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// ArticleListResponse lista paginada de artículos.
type ArticleListResponse struct {
	Items []ArticleResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// NewArticleResponse convierte la entidad en respuesta.
func NewArticleResponse(a *entity.Article) *ArticleResponse {
	if a == nil {
		return nil
	}
	return &ArticleResponse{
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
		StatutStock:   a.StockStatus(),
		FournisseurID: a.FournisseurID,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}
