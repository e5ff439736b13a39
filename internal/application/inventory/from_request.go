package inventory

import (
	"context"

	"github.com/stockceramique/stockceramique-api/internal/application/dto"
)

// CreateReceptionFromRequest adapta el request HTTP al caso de uso CreateReception.
func (uc *StockUseCase) CreateReceptionFromRequest(ctx context.Context, in dto.CreateReceptionRequest) (*dto.ReceptionResponse, error) {
	rec, err := uc.CreateReception(ctx, ReceptionInput{
		ArticleID:          in.ArticleID,
		FournisseurID:      in.FournisseurID,
		QuantiteRecue:      in.QuantiteRecue,
		PrixUnitaire:       in.PrixUnitaire,
		NumeroBonLivraison: in.NumeroBonLivraison,
		Observations:       in.Observations,
		DateReception:      in.DateReception.Ptr(),
	})
	if err != nil {
		return nil, err
	}
	return dto.NewReceptionResponse(rec), nil
}

// CreateOutboundFromRequest adapta el request HTTP al caso de uso CreateOutbound.
func (uc *StockUseCase) CreateOutboundFromRequest(ctx context.Context, in dto.CreateOutboundRequest) (*dto.OutboundResponse, error) {
	out, err := uc.CreateOutbound(ctx, OutboundInput{
		ArticleID:      in.ArticleID,
		DemandeurID:    in.DemandeurID,
		QuantiteSortie: in.QuantiteSortie,
		MotifSortie:    in.MotifSortie,
		Observations:   in.Observations,
		DateSortie:     in.DateSortie.Ptr(),
	})
	if err != nil {
		return nil, err
	}
	return dto.NewOutboundResponse(out), nil
}
