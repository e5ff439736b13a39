package entity

import "time"

// Supplier proveedor (fournisseur).
type Supplier struct {
	ID        string
	Nom       string
	Contact   string
	Telephone string
	Email     string
	Adresse   string
	CreatedAt time.Time
}
