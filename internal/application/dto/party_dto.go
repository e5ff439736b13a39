package dto

import (
	"time"

	"github.com/stockceramique/stockceramique-api/internal/domain/entity"
)

// SupplierRequest alta o modificación de un proveedor.
type SupplierRequest struct {
	Nom       string `json:"nom" validate:"required,max=200"`
	Contact   string `json:"contact" validate:"max=200"`
	Telephone string `json:"telephone" validate:"max=50"`
	Email     string `json:"email" validate:"omitempty,email"`
	Adresse   string `json:"adresse" validate:"max=500"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID        string    `json:"id"`
	Nom       string    `json:"nom"`
	Contact   string    `json:"contact,omitempty"`
	Telephone string    `json:"telephone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Adresse   string    `json:"adresse,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewSupplierResponse convierte la entidad en respuesta.
func NewSupplierResponse(s *entity.Supplier) *SupplierResponse {
	if s == nil {
		return nil
	}
	return &SupplierResponse{
		ID:        s.ID,
		Nom:       s.Nom,
		Contact:   s.Contact,
		Telephone: s.Telephone,
		Email:     s.Email,
		Adresse:   s.Adresse,
		CreatedAt: s.CreatedAt,
	}
}

// RequestorRequest alta o modificación de un demandeur.
type RequestorRequest struct {
	Nom         string `json:"nom" validate:"required,max=100"`
	Prenom      string `json:"prenom" validate:"max=100"`
	Departement string `json:"departement" validate:"required,max=100"`
	Poste       string `json:"poste" validate:"max=100"`
	Email       string `json:"email" validate:"omitempty,email"`
	Telephone   string `json:"telephone" validate:"max=50"`
}

// RequestorResponse salida de un demandeur.
type RequestorResponse struct {
	ID          string    `json:"id"`
	Nom         string    `json:"nom"`
	Prenom      string    `json:"prenom,omitempty"`
	NomComplet  string    `json:"nomComplet"`
	Departement string    `json:"departement"`
	Poste       string    `json:"poste,omitempty"`
	Email       string    `json:"email,omitempty"`
	Telephone   string    `json:"telephone,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewRequestorResponse convierte la entidad en respuesta.
func NewRequestorResponse(r *entity.Requestor) *RequestorResponse {
	if r == nil {
		return nil
	}
	return &RequestorResponse{
		ID:          r.ID,
		Nom:         r.Nom,
		Prenom:      r.Prenom,
		NomComplet:  r.FullName(),
		Departement: r.Departement,
		Poste:       r.Poste,
		Email:       r.Email,
		Telephone:   r.Telephone,
		CreatedAt:   r.CreatedAt,
	}
}
