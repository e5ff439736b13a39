package procurement

import (
	"context"

	"github.com/stockceramique/stockceramique-api/internal/application/dto"
	"github.com/stockceramique/stockceramique-api/internal/domain/entity"
)

// CreateFromRequest adapta el request HTTP al caso de uso Create.
func (uc *UseCase) CreateFromRequest(ctx context.Context, in dto.CreatePurchaseRequestRequest) (*dto.PurchaseRequestResponse, error) {
	lines, err := in.Lines()
	if err != nil {
		return nil, err
	}
	pr, err := uc.Create(ctx, CreateInput{
		DemandeurID:  in.DemandeurID,
		DateDemande:  in.DateDemande.Ptr(),
		Observations: in.Observations,
		Lines:        lines,
	})
	if err != nil {
		return nil, err
	}
	return dto.NewPurchaseRequestResponse(pr), nil
}

// ConvertFromRequest adapta el request HTTP al caso de uso ConvertToReception.
func (uc *UseCase) ConvertFromRequest(ctx context.Context, id string, in dto.ConvertToReceptionRequest) (*dto.ConvertToReceptionResponse, error) {
	res, err := uc.ConvertToReception(ctx, id, ConvertOverrides{
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
	out := &dto.ConvertToReceptionResponse{
		Receptions:      make([]dto.ReceptionResponse, 0, len(res.Receptions)),
		PurchaseRequest: dto.NewPurchaseRequestResponse(res.PurchaseRequest),
	}
	for _, r := range res.Receptions {
		out.Receptions = append(out.Receptions, *dto.NewReceptionResponse(r))
	}
	if len(out.Receptions) > 0 {
		first := out.Receptions[0]
		out.Reception = &first
	}
	return out, nil
}

// ToResponses convierte una lista de demandas.
func ToResponses(list []*entity.PurchaseRequest) []dto.PurchaseRequestResponse {
	out := make([]dto.PurchaseRequestResponse, 0, len(list))
	for _, pr := range list {
		out = append(out, *dto.NewPurchaseRequestResponse(pr))
	}
	return out
}
