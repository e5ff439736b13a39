package usecase

import (
	"context"

	"github.com/stockceramique/stockceramique-api/internal/application/dto"
	"github.com/stockceramique/stockceramique-api/internal/domain"
	"github.com/stockceramique/stockceramique-api/internal/domain/repository"
)

// DocumentUseCase consultas de recepciones y salidas ya registradas.
// Las altas pasan por inventory.StockUseCase.
type DocumentUseCase struct {
	receptions repository.ReceptionRepository
	outbounds  repository.OutboundRepository
}

// NewDocumentUseCase construye el caso de uso.
func NewDocumentUseCase(receptions repository.ReceptionRepository, outbounds repository.OutboundRepository) *DocumentUseCase {
	return &DocumentUseCase{receptions: receptions, outbounds: outbounds}
}

// GetReception devuelve ErrNotFound si no existe.
func (uc *DocumentUseCase) GetReception(ctx context.Context, id string) (*dto.ReceptionResponse, error) {
	r, err := uc.receptions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	return dto.NewReceptionResponse(r), nil
}

// ListReceptions más recientes primero.
func (uc *DocumentUseCase) ListReceptions(ctx context.Context, filter repository.ListFilter) ([]dto.ReceptionResponse, error) {
	list, err := uc.receptions.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReceptionResponse, 0, len(list))
	for _, r := range list {
		out = append(out, *dto.NewReceptionResponse(r))
	}
	return out, nil
}

// GetOutbound devuelve ErrNotFound si no existe.
func (uc *DocumentUseCase) GetOutbound(ctx context.Context, id string) (*dto.OutboundResponse, error) {
	o, err := uc.outbounds.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	return dto.NewOutboundResponse(o), nil
}

// ListOutbounds más recientes primero.
func (uc *DocumentUseCase) ListOutbounds(ctx context.Context, filter repository.ListFilter) ([]dto.OutboundResponse, error) {
	list, err := uc.outbounds.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OutboundResponse, 0, len(list))
	for _, o := range list {
		out = append(out, *dto.NewOutboundResponse(o))
	}
	return out, nil
}
