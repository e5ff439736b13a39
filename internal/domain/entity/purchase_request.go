package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stockceramique/stockceramique-api/internal/domain"
)

// PurchaseStatus estado de una demanda de compra.
type PurchaseStatus string

// Estados de la demanda de compra.
const (
	StatusEnAttente PurchaseStatus = "en_attente"
	StatusApprouve  PurchaseStatus = "approuve"
	StatusRefuse    PurchaseStatus = "refuse"
	StatusCommande  PurchaseStatus = "commande"
)

// purchaseTransitions aristas válidas del flujo de aprobación; commande y refuse son finales.
var purchaseTransitions = map[PurchaseStatus][]PurchaseStatus{
	StatusEnAttente: {StatusApprouve, StatusRefuse},
	StatusApprouve:  {StatusCommande},
}

// Valid indica si el estado es conocido.
func (s PurchaseStatus) Valid() bool {
	switch s {
	case StatusEnAttente, StatusApprouve, StatusRefuse, StatusCommande:
		return true
	}
	return false
}

// CanTransitionTo indica si existe la arista s -> to.
func (s PurchaseStatus) CanTransitionTo(to PurchaseStatus) bool {
	for _, next := range purchaseTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Tipos de contenido de una demanda.
const (
	LinesSingle = "single"
	LinesMulti  = "multi"
)

// PurchaseLines contenido de la demanda: un único artículo (formulario heredado)
// o una colección de ítems. Solo SingleArticle y MultiArticle lo implementan.
type PurchaseLines interface {
	Kind() string
	TotalArticles() int
	isPurchaseLines()
}

// SingleArticle formulario heredado: artículo, proveedor y cantidad directamente en la demanda.
type SingleArticle struct {
	ArticleID        string
	FournisseurID    string
	QuantiteDemandee int
}

func (SingleArticle) Kind() string       { return LinesSingle }
func (SingleArticle) TotalArticles() int { return 1 }
func (SingleArticle) isPurchaseLines()   {}

// PurchaseRequestItem línea de una demanda multi-artículo.
type PurchaseRequestItem struct {
	ID               string
	ArticleID        string
	FournisseurID    string
	QuantiteDemandee int
	PrixUnitaire     *decimal.Decimal
	Observations     string
}

// MultiArticle formulario nuevo con colección de ítems.
type MultiArticle struct {
	Items []PurchaseRequestItem
}

func (MultiArticle) Kind() string         { return LinesMulti }
func (m MultiArticle) TotalArticles() int { return len(m.Items) }
func (MultiArticle) isPurchaseLines()     {}

// PurchaseRequest demande d'achat.
type PurchaseRequest struct {
	ID           string
	DemandeurID  string
	DateDemande  time.Time
	Observations string
	Statut       PurchaseStatus
	Lines        PurchaseLines
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TransitionTo avanza el estado si la arista es válida; si no, devuelve ErrInvalidTransition.
func (p *PurchaseRequest) TransitionTo(to PurchaseStatus, now time.Time) error {
	if !p.Statut.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, p.Statut, to)
	}
	p.Statut = to
	p.UpdatedAt = now
	return nil
}

// TotalArticles número de artículos distintos solicitados.
func (p *PurchaseRequest) TotalArticles() int {
	if p.Lines == nil {
		return 0
	}
	return p.Lines.TotalArticles()
}

// ValidateLines comprueba que el contenido de la demanda sea utilizable.
func ValidateLines(lines PurchaseLines) error {
	switch l := lines.(type) {
	case SingleArticle:
		if l.ArticleID == "" || l.QuantiteDemandee <= 0 {
			return domain.ErrInvalidInput
		}
	case MultiArticle:
		if len(l.Items) == 0 {
			return domain.ErrInvalidInput
		}
		for _, it := range l.Items {
			if it.ArticleID == "" || it.QuantiteDemandee <= 0 {
				return domain.ErrInvalidInput
			}
			if it.PrixUnitaire != nil && it.PrixUnitaire.IsNegative() {
				return domain.ErrInvalidInput
			}
		}
	default:
		return domain.ErrInvalidInput
	}
	return nil
}
