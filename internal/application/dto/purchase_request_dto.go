package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/stockceramique/stockceramique-api/internal/domain"
	"github.com/stockceramique/stockceramique-api/internal/domain/entity"
)

// PurchaseRequestItemRequest línea del formulario multi-artículo.
type PurchaseRequestItemRequest struct {
	ArticleID        string           `json:"articleId" validate:"required"`
	FournisseurID    string           `json:"fournisseurId"`
	QuantiteDemandee int              `json:"quantiteDemandee" validate:"gt=0"`
	PrixUnitaire     *decimal.Decimal `json:"prixUnitaire"`
	Observations     string           `json:"observations" validate:"max=1000"`
}

// CreatePurchaseRequestRequest body para POST /api/demandes-achat.
// Con items se crea una demanda multi-artículo; sin items se usan los campos directos (formulario heredado).
type CreatePurchaseRequestRequest struct {
	DemandeurID      string                       `json:"demandeurId" validate:"required"`
	DateDemande      *Date                        `json:"dateDemande"`
	Observations     string                       `json:"observations" validate:"max=1000"`
	ArticleID        string                       `json:"articleId"`
	FournisseurID    string                       `json:"fournisseurId"`
	QuantiteDemandee int                          `json:"quantiteDemandee" validate:"min=0"`
	Items            []PurchaseRequestItemRequest `json:"items" validate:"omitempty,dive"`
}

// Lines traduce el formulario a la variante de dominio. Mezclar ambos formularios es inválido.
func (r CreatePurchaseRequestRequest) Lines() (entity.PurchaseLines, error) {
	if len(r.Items) == 0 {
		return entity.SingleArticle{
			ArticleID:        r.ArticleID,
			FournisseurID:    r.FournisseurID,
			QuantiteDemandee: r.QuantiteDemandee,
		}, nil
	}
	if r.ArticleID != "" || r.QuantiteDemandee != 0 {
		return nil, domain.ErrInvalidInput
	}
	items := make([]entity.PurchaseRequestItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, entity.PurchaseRequestItem{
			ArticleID:        it.ArticleID,
			FournisseurID:    it.FournisseurID,
			QuantiteDemandee: it.QuantiteDemandee,
			PrixUnitaire:     it.PrixUnitaire,
			Observations:     it.Observations,
		})
	}
	return entity.MultiArticle{Items: items}, nil
}

// PurchaseRequestItemResponse línea de una demanda multi-artículo.
type PurchaseRequestItemResponse struct {
	ID               string           `json:"id"`
	ArticleID        string           `json:"articleId"`
	FournisseurID    string           `json:"fournisseurId,omitempty"`
	QuantiteDemandee int              `json:"quantiteDemandee"`
	PrixUnitaire     *decimal.Decimal `json:"prixUnitaire"`
	Observations     string           `json:"observations,omitempty"`
}

// PurchaseRequestResponse salida de una demanda de compra.
type PurchaseRequestResponse struct {
	ID               string                        `json:"id"`
	DemandeurID      string                        `json:"demandeurId"`
	DateDemande      time.Time                     `json:"dateDemande"`
	Observations     string                        `json:"observations,omitempty"`
	Statut           string                        `json:"statut"`
	Type             string                        `json:"type"`
	ArticleID        string                        `json:"articleId,omitempty"`
	FournisseurID    string                        `json:"fournisseurId,omitempty"`
	QuantiteDemandee int                           `json:"quantiteDemandee,omitempty"`
	TotalArticles    int                           `json:"totalArticles"`
	Items            []PurchaseRequestItemResponse `json:"items,omitempty"`
	CreatedAt        time.Time                     `json:"createdAt"`
	UpdatedAt        time.Time                     `json:"updatedAt"`
}

// NewPurchaseRequestResponse convierte la entidad según su variante.
func NewPurchaseRequestResponse(pr *entity.PurchaseRequest) *PurchaseRequestResponse {
	if pr == nil {
		return nil
	}
	out := &PurchaseRequestResponse{
		ID:            pr.ID,
		DemandeurID:   pr.DemandeurID,
		DateDemande:   pr.DateDemande,
		Observations:  pr.Observations,
		Statut:        string(pr.Statut),
		TotalArticles: pr.TotalArticles(),
		CreatedAt:     pr.CreatedAt,
		UpdatedAt:     pr.UpdatedAt,
	}
	switch l := pr.Lines.(type) {
	case entity.SingleArticle:
		out.Type = entity.LinesSingle
		out.ArticleID = l.ArticleID
		out.FournisseurID = l.FournisseurID
		out.QuantiteDemandee = l.QuantiteDemandee
	case entity.MultiArticle:
		out.Type = entity.LinesMulti
		out.Items = make([]PurchaseRequestItemResponse, 0, len(l.Items))
		for _, it := range l.Items {
			out.Items = append(out.Items, PurchaseRequestItemResponse{
				ID:               it.ID,
				ArticleID:        it.ArticleID,
				FournisseurID:    it.FournisseurID,
				QuantiteDemandee: it.QuantiteDemandee,
				PrixUnitaire:     it.PrixUnitaire,
				Observations:     it.Observations,
			})
		}
	}
	return out
}

// ConvertToReceptionRequest valores que prevalecen sobre los de la demanda al convertirla.
// QuantiteRecue y PrixUnitaire solo aplican al formulario heredado.
type ConvertToReceptionRequest struct {
	FournisseurID      string           `json:"fournisseurId"`
	QuantiteRecue      *int             `json:"quantiteRecue" validate:"omitempty,gt=0"`
	PrixUnitaire       *decimal.Decimal `json:"prixUnitaire"`
	NumeroBonLivraison string           `json:"numeroBonLivraison" validate:"max=100"`
	Observations       string           `json:"observations" validate:"max=1000"`
	DateReception      *Date            `json:"dateReception"`
}

// ConvertToReceptionResponse resultado de la conversión.
// Reception es la primera (y en el formulario heredado, única) recepción creada.
type ConvertToReceptionResponse struct {
	Reception       *ReceptionResponse       `json:"reception"`
	Receptions      []ReceptionResponse      `json:"receptions"`
	PurchaseRequest *PurchaseRequestResponse `json:"purchaseRequest"`
}
