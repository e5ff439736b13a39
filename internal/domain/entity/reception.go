package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reception entrada de mercancía de un proveedor.
// DemandeAchatID se informa cuando la recepción proviene de convertir una demanda de compra.
type Reception struct {
	ID                 string
	ArticleID          string
	FournisseurID      string
	QuantiteRecue      int
	PrixUnitaire       *decimal.Decimal
	NumeroBonLivraison string
	Observations       string
	DateReception      time.Time
	DemandeAchatID     string
	CreatedAt          time.Time
}
