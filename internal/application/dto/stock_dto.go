package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/stockceramique/stockceramique-api/internal/domain/entity"
)

// CreateReceptionRequest body para POST /api/receptions.
type CreateReceptionRequest struct {
	ArticleID          string           `json:"articleId" validate:"required"`
	FournisseurID      string           `json:"fournisseurId" validate:"required"`
	QuantiteRecue      int              `json:"quantiteRecue" validate:"gt=0"`
	PrixUnitaire       *decimal.Decimal `json:"prixUnitaire"`
	NumeroBonLivraison string           `json:"numeroBonLivraison" validate:"max=100"`
	Observations       string           `json:"observations" validate:"max=1000"`
	DateReception      *Date            `json:"dateReception"`
}

// ReceptionResponse salida de una recepción.
type ReceptionResponse struct {
	ID                 string           `json:"id"`
	ArticleID          string           `json:"articleId"`
	FournisseurID      string           `json:"fournisseurId"`
	QuantiteRecue      int              `json:"quantiteRecue"`
	PrixUnitaire       *decimal.Decimal `json:"prixUnitaire"`
	NumeroBonLivraison string           `json:"numeroBonLivraison,omitempty"`
	Observations       string           `json:"observations,omitempty"`
	DateReception      time.Time        `json:"dateReception"`
	DemandeAchatID     string           `json:"demandeAchatId,omitempty"`
	CreatedAt          time.Time        `json:"createdAt"`
}

// NewReceptionResponse convierte la entidad en respuesta.
func NewReceptionResponse(r *entity.Reception) *ReceptionResponse {
	if r == nil {
		return nil
	}
	return &ReceptionResponse{
		ID:                 r.ID,
		ArticleID:          r.ArticleID,
		FournisseurID:      r.FournisseurID,
		QuantiteRecue:      r.QuantiteRecue,
		PrixUnitaire:       r.PrixUnitaire,
		NumeroBonLivraison: r.NumeroBonLivraison,
		Observations:       r.Observations,
		DateReception:      r.DateReception,
		DemandeAchatID:     r.DemandeAchatID,
		CreatedAt:          r.CreatedAt,
	}
}

// CreateOutboundRequest body para POST /api/sorties.
type CreateOutboundRequest struct {
	ArticleID      string `json:"articleId" validate:"required"`
	DemandeurID    string `json:"demandeurId" validate:"required"`
	QuantiteSortie int    `json:"quantiteSortie" validate:"gt=0"`
	MotifSortie    string `json:"motifSortie" validate:"required,max=200"`
	Observations   string `json:"observations" validate:"max=1000"`
	DateSortie     *Date  `json:"dateSortie"`
}

// OutboundResponse salida de una sortie.
type OutboundResponse struct {
	ID             string    `json:"id"`
	ArticleID      string    `json:"articleId"`
	DemandeurID    string    `json:"demandeurId"`
	QuantiteSortie int       `json:"quantiteSortie"`
	MotifSortie    string    `json:"motifSortie"`
	Observations   string    `json:"observations,omitempty"`
	DateSortie     time.Time `json:"dateSortie"`
	CreatedAt      time.Time `json:"createdAt"`
}

// NewOutboundResponse convierte la entidad en respuesta.
func NewOutboundResponse(o *entity.Outbound) *OutboundResponse {
	if o == nil {
		return nil
	}
	return &OutboundResponse{
		ID:             o.ID,
		ArticleID:      o.ArticleID,
		DemandeurID:    o.DemandeurID,
		QuantiteSortie: o.QuantiteSortie,
		MotifSortie:    o.MotifSortie,
		Observations:   o.Observations,
		DateSortie:     o.DateSortie,
		CreatedAt:      o.CreatedAt,
	}
}

// StockMovementResponse fila del historial de stock.
type StockMovementResponse struct {
	ID            string    `json:"id"`
	ArticleID     string    `json:"articleId"`
	Type          string    `json:"type"`
	Quantite      int       `json:"quantite"`
	QuantiteAvant int       `json:"quantiteAvant"`
	QuantiteApres int       `json:"quantiteApres"`
	Reference     string    `json:"reference"`
	DateMovement  time.Time `json:"dateMovement"`
	Description   string    `json:"description,omitempty"`
}

// NewStockMovementResponses convierte una lista de movimientos conservando el orden.
func NewStockMovementResponses(list []*entity.StockMovement) []StockMovementResponse {
	out := make([]StockMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, StockMovementResponse{
			ID:            m.ID,
			ArticleID:     m.ArticleID,
			Type:          string(m.Type),
			Quantite:      m.Quantite,
			QuantiteAvant: m.QuantiteAvant,
			QuantiteApres: m.QuantiteApres,
			Reference:     m.Reference,
			DateMovement:  m.DateMovement,
			Description:   m.Description,
		})
	}
	return out
}

// DashboardStatsResponse indicadores de la página de inicio.
type DashboardStatsResponse struct {
	TotalArticles     int `json:"totalArticles"`
	ArticlesSousSeuil int `json:"articlesSousSeuil"`
	DemandesEnAttente int `json:"demandesEnAttente"`
	ReceptionsDuJour  int `json:"receptionsDuJour"`
	SortiesDuJour     int `json:"sortiesDuJour"`
}
