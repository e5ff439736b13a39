package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Clasificación del nivel de stock de un artículo.
const (
	StockStatusRupture = "rupture" // sin existencias
	StockStatusFaible  = "faible"  // en o por debajo del umbral mínimo
	StockStatusNormal  = "normal"
)

// Article representa un artículo (SKU) del almacén.
// StockActuel solo lo modifican recepciones y salidas; StockInitial se fija al crear.
type Article struct {
	ID            string
	CodeArticle   string
	Designation   string
	Categorie     string
	Marque        string
	Reference     string
	Unite         string
	PrixUnitaire  *decimal.Decimal
	SeuilMinimum  *int
	StockInitial  int
	StockActuel   int
	FournisseurID string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// StockStatus clasifica el stock actual respecto al umbral mínimo.
func (a *Article) StockStatus() string {
	if a.StockActuel <= 0 {
		return StockStatusRupture
	}
	if a.SeuilMinimum != nil && a.StockActuel <= *a.SeuilMinimum {
		return StockStatusFaible
	}
	return StockStatusNormal
}

// IsLowStock indica si el artículo requiere reposición (rupture o faible).
func (a *Article) IsLowStock() bool {
	return a.StockStatus() != StockStatusNormal
}
