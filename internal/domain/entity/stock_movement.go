package entity

import "time"

// MovementType tipo de movimiento del historial de stock.
type MovementType string

// Tipos de movimiento.
const (
	MovementEntree MovementType = "entree" // entrada (recepción)
	MovementSortie MovementType = "sortie" // salida
)

// Valid indica si el tipo es uno de los conocidos.
func (t MovementType) Valid() bool {
	return t == MovementEntree || t == MovementSortie
}

// Sign devuelve +1 para entradas y -1 para salidas.
func (t MovementType) Sign() int {
	if t == MovementSortie {
		return -1
	}
	return 1
}

// StockMovement es una fila inmutable del historial de stock.
// Seq lo asigna el almacenamiento y define el orden cronológico.
type StockMovement struct {
	ID            string
	Seq           int64
	ArticleID     string
	Type          MovementType
	Quantite      int
	QuantiteAvant int
	QuantiteApres int
	Reference     string // ID de la recepción o salida que lo originó
	DateMovement  time.Time
	Description   string
}

// SignedQuantity devuelve la cantidad con signo según el tipo.
func (m *StockMovement) SignedQuantity() int {
	return m.Type.Sign() * m.Quantite
}
