package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stockceramique/stockceramique-api/internal/application/dto"
	"github.com/stockceramique/stockceramique-api/internal/domain"
	"github.com/stockceramique/stockceramique-api/internal/domain/entity"
	"github.com/stockceramique/stockceramique-api/internal/domain/repository"
)

// SupplierUseCase casos de uso CRUD para proveedores.
type SupplierUseCase struct {
	repo repository.SupplierRepository
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{repo: repo}
}

// Create crea un proveedor.
func (uc *SupplierUseCase) Create(ctx context.Context, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	s := &entity.Supplier{
		ID:        uuid.New().String(),
		Nom:       in.Nom,
		Contact:   in.Contact,
		Telephone: in.Telephone,
		Email:     in.Email,
		Adresse:   in.Adresse,
		CreatedAt: time.Now(),
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	return dto.NewSupplierResponse(s), nil
}

// GetByID obtiene un proveedor o ErrNotFound.
func (uc *SupplierUseCase) GetByID(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return dto.NewSupplierResponse(s), nil
}

// Update reemplaza los datos del proveedor.
func (uc *SupplierUseCase) Update(ctx context.Context, id string, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	s.Nom = in.Nom
	s.Contact = in.Contact
	s.Telephone = in.Telephone
	s.Email = in.Email
	s.Adresse = in.Adresse
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	return dto.NewSupplierResponse(s), nil
}

// List lista los proveedores por nombre.
func (uc *SupplierUseCase) List(ctx context.Context) ([]dto.SupplierResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *dto.NewSupplierResponse(s))
	}
	return out, nil
}

// Delete elimina un proveedor.
func (uc *SupplierUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

// RequestorUseCase casos de uso CRUD para demandeurs.
type RequestorUseCase struct {
	repo repository.RequestorRepository
}

// NewRequestorUseCase construye el caso de uso.
func NewRequestorUseCase(repo repository.RequestorRepository) *RequestorUseCase {
	return &RequestorUseCase{repo: repo}
}

// Create crea un demandeur.
func (uc *RequestorUseCase) Create(ctx context.Context, in dto.RequestorRequest) (*dto.RequestorResponse, error) {
	r := &entity.Requestor{
		ID:          uuid.New().String(),
		Nom:         in.Nom,
		Prenom:      in.Prenom,
		Departement: in.Departement,
		Poste:       in.Poste,
		Email:       in.Email,
		Telephone:   in.Telephone,
		CreatedAt:   time.Now(),
	}
	if err := uc.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return dto.NewRequestorResponse(r), nil
}

// GetByID obtiene un demandeur o ErrNotFound.
func (uc *RequestorUseCase) GetByID(ctx context.Context, id string) (*dto.RequestorResponse, error) {
	r, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	return dto.NewRequestorResponse(r), nil
}

// Update reemplaza los datos del demandeur.
func (uc *RequestorUseCase) Update(ctx context.Context, id string, in dto.RequestorRequest) (*dto.RequestorResponse, error) {
	r, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	r.Nom = in.Nom
	r.Prenom = in.Prenom
	r.Departement = in.Departement
	r.Poste = in.Poste
	r.Email = in.Email
	r.Telephone = in.Telephone
	if err := uc.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	return dto.NewRequestorResponse(r), nil
}

// List lista los demandeurs por nombre.
func (uc *RequestorUseCase) List(ctx context.Context) ([]dto.RequestorResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RequestorResponse, 0, len(list))
	for _, r := range list {
		out = append(out, *dto.NewRequestorResponse(r))
	}
	return out, nil
}

// Delete elimina un demandeur.
func (uc *RequestorUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}
