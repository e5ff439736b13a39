package entity

import "time"

// Outbound salida de stock entregada a un demandeur.
type Outbound struct {
	ID             string
	ArticleID      string
	DemandeurID    string
	QuantiteSortie int
	MotifSortie    string
	Observations   string
	DateSortie     time.Time
	CreatedAt      time.Time
}
