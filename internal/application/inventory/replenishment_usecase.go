package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/stockceramique/stockceramique-api/internal/domain/repository"
)

// ReplenishmentSuggestion sugerencia de reposición para un artículo en o bajo su umbral mínimo.
type ReplenishmentSuggestion struct {
	ArticleID        string           `json:"articleId"`
	CodeArticle      string           `json:"codeArticle"`
	Designation      string           `json:"designation"`
	StockActuel      int              `json:"stockActuel"`
	SeuilMinimum     int              `json:"seuilMinimum"`
	StockIdeal       int              `json:"stockIdeal"`       // ceil(seuil * 1.5)
	QuantiteSuggeree int              `json:"quantiteSuggeree"` // StockIdeal - StockActuel
	PrixUnitaire     *decimal.Decimal `json:"prixUnitaire"`
	CoutEstime       *decimal.Decimal `json:"coutEstime"`
	FournisseurID    string           `json:"fournisseurId,omitempty"`
	Priorite         int              `json:"priorite"` // 1 = más urgente
}

// ReplenishmentUseCase genera la lista de reposición a partir de los artículos bajo umbral.
type ReplenishmentUseCase struct {
	articles repository.ArticleRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(articles repository.ArticleRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{articles: articles}
}

// GenerateReplenishmentList devuelve los artículos en rupture o faible con la cantidad
// sugerida a pedir, ordenados por déficit relativo (rupturas primero).
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]ReplenishmentSuggestion, error) {
	low, err := uc.articles.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	if len(low) == 0 {
		return []ReplenishmentSuggestion{}, nil
	}

	factor := decimal.NewFromFloat(1.5)
	suggestions := make([]ReplenishmentSuggestion, 0, len(low))
	for _, a := range low {
		seuil := 0
		if a.SeuilMinimum != nil {
			seuil = *a.SeuilMinimum
		}
		ideal := int(decimal.NewFromInt(int64(seuil)).Mul(factor).Ceil().IntPart())
		if ideal == 0 {
			// Sin umbral definido: reponer al menos una unidad.
			ideal = 1
		}
		qty := ideal - a.StockActuel
		if qty < 0 {
			qty = 0
		}
		s := ReplenishmentSuggestion{
			ArticleID:        a.ID,
			CodeArticle:      a.CodeArticle,
			Designation:      a.Designation,
			StockActuel:      a.StockActuel,
			SeuilMinimum:     seuil,
			StockIdeal:       ideal,
			QuantiteSuggeree: qty,
			PrixUnitaire:     a.PrixUnitaire,
			FournisseurID:    a.FournisseurID,
		}
		if a.PrixUnitaire != nil {
			cost := a.PrixUnitaire.Mul(decimal.NewFromInt(int64(qty))).Round(2)
			s.CoutEstime = &cost
		}
		suggestions = append(suggestions, s)
	}

	// Mayor déficit relativo primero; en empate, mayor cantidad sugerida.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		ra := coverage(a.StockActuel, a.StockIdeal)
		rb := coverage(b.StockActuel, b.StockIdeal)
		if !ra.Equal(rb) {
			return ra.LessThan(rb)
		}
		return a.QuantiteSuggeree > b.QuantiteSuggeree
	})
	for i := range suggestions {
		suggestions[i].Priorite = i + 1
	}
	return suggestions, nil
}

// coverage fracción del stock ideal cubierta por el stock actual.
func coverage(actuel, ideal int) decimal.Decimal {
	if ideal <= 0 {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(int64(actuel)).Div(decimal.NewFromInt(int64(ideal)))
}
