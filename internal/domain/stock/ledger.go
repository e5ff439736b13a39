// Package stock reúne las reglas del historial de stock: aritmética de cada
// movimiento y la reconciliación stockActuel = stockInitial + Σ movimientos.
package stock

import (
	"fmt"
	"time"

	"github.com/stockceramique/stockceramique-api/internal/domain"
	"github.com/stockceramique/stockceramique-api/internal/domain/entity"
)

// Apply calcula la nueva cantidad tras un movimiento. Una salida que deje el stock
// en negativo devuelve ErrInsufficientStock sin modificar nada.
func Apply(current int, t entity.MovementType, quantite int) (int, error) {
	if !t.Valid() || quantite <= 0 {
		return current, domain.ErrInvalidInput
	}
	next := current + t.Sign()*quantite
	if next < 0 {
		return current, domain.ErrInsufficientStock
	}
	return next, nil
}

// NewMovement construye la fila del historial para un cambio ya aplicado sobre el artículo.
// Rechaza tuplas (avant, apres, type, quantite) aritméticamente incoherentes.
func NewMovement(
	articleID string,
	t entity.MovementType,
	quantite, avant, apres int,
	reference, description string,
	at time.Time,
) (*entity.StockMovement, error) {
	m := &entity.StockMovement{
		ArticleID:     articleID,
		Type:          t,
		Quantite:      quantite,
		QuantiteAvant: avant,
		QuantiteApres: apres,
		Reference:     reference,
		DateMovement:  at,
		Description:   description,
	}
	if err := CheckMovement(m); err != nil {
		return nil, err
	}
	return m, nil
}

// CheckMovement verifica apres = avant ± quantite según el tipo.
func CheckMovement(m *entity.StockMovement) error {
	if m.ArticleID == "" || !m.Type.Valid() || m.Quantite <= 0 {
		return domain.ErrInvalidInput
	}
	if m.QuantiteApres != m.QuantiteAvant+m.SignedQuantity() {
		return fmt.Errorf("%w: mouvement %s %d, %d -> %d",
			domain.ErrInconsistentState, m.Type, m.Quantite, m.QuantiteAvant, m.QuantiteApres)
	}
	if m.QuantiteApres < 0 {
		return fmt.Errorf("%w: stock négatif après mouvement", domain.ErrInconsistentState)
	}
	return nil
}

// Report resultado de reconciliar un artículo con su historial.
type Report struct {
	ArticleID    string   `json:"articleId"`
	StockInitial int      `json:"stockInitial"`
	StockActuel  int      `json:"stockActuel"`
	StockCalcule int      `json:"stockCalcule"`
	NbMouvements int      `json:"nbMouvements"`
	Coherent     bool     `json:"coherent"`
	Anomalies    []string `json:"anomalies,omitempty"`
}

// Err devuelve ErrInconsistentState con el detalle si el informe tiene anomalías.
func (r Report) Err() error {
	if r.Coherent {
		return nil
	}
	return fmt.Errorf("%w: article %s (%d anomalie(s))", domain.ErrInconsistentState, r.ArticleID, len(r.Anomalies))
}

// Reconcile recorre los movimientos en orden cronológico y comprueba aritmética,
// encadenamiento (avant == apres anterior) y el total contra stockActuel.
func Reconcile(a *entity.Article, movements []*entity.StockMovement) Report {
	r := Report{
		ArticleID:    a.ID,
		StockInitial: a.StockInitial,
		StockActuel:  a.StockActuel,
		NbMouvements: len(movements),
	}
	running := a.StockInitial
	for _, m := range movements {
		if m.ArticleID != a.ID {
			r.Anomalies = append(r.Anomalies, fmt.Sprintf("mouvement %s appartient à l'article %s", m.ID, m.ArticleID))
			continue
		}
		if err := CheckMovement(m); err != nil {
			r.Anomalies = append(r.Anomalies, fmt.Sprintf("mouvement %s: %v", m.ID, err))
		}
		if m.QuantiteAvant != running {
			r.Anomalies = append(r.Anomalies,
				fmt.Sprintf("mouvement %s: quantité avant %d, attendue %d", m.ID, m.QuantiteAvant, running))
		}
		running += m.SignedQuantity()
	}
	r.StockCalcule = running
	if running != a.StockActuel {
		r.Anomalies = append(r.Anomalies,
			fmt.Sprintf("stock actuel %d, calculé %d", a.StockActuel, running))
	}
	r.Coherent = len(r.Anomalies) == 0
	return r
}
