// Package procurement flujo de demandas de compra: alta, aprobación y conversión en recepción.
package procurement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/stockceramique/stockceramique-api/internal/application/inventory"
	"github.com/stockceramique/stockceramique-api/internal/domain"
	"github.com/stockceramique/stockceramique-api/internal/domain/entity"
	"github.com/stockceramique/stockceramique-api/internal/domain/repository"
)

const tracerName = "github.com/stockceramique/stockceramique-api/internal/application/procurement"

// UseCase casos de uso de demandas de compra.
type UseCase struct {
	txRunner inventory.TxRunner
	requests repository.PurchaseRequestRepository
	stock    *inventory.StockUseCase
	log      zerolog.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

// NewUseCase construye el caso de uso. stock ejecuta las recepciones dentro de la misma transacción.
func NewUseCase(
	txRunner inventory.TxRunner,
	requests repository.PurchaseRequestRepository,
	stock *inventory.StockUseCase,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{
		txRunner: txRunner,
		requests: requests,
		stock:    stock,
		log:      log.With().Str("component", "procurement").Logger(),
		tracer:   otel.Tracer(tracerName),
		now:      time.Now,
	}
}

// CreateInput entrada para crear una demanda.
type CreateInput struct {
	DemandeurID  string
	DateDemande  *time.Time
	Observations string
	Lines        entity.PurchaseLines
}

// Create registra una demanda en estado en_attente. Verifica que demandeur, artículos
// y proveedores referenciados existan.
func (uc *UseCase) Create(ctx context.Context, in CreateInput) (*entity.PurchaseRequest, error) {
	if in.DemandeurID == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := entity.ValidateLines(in.Lines); err != nil {
		return nil, err
	}
	now := uc.now()
	pr := &entity.PurchaseRequest{
		ID:           uuid.New().String(),
		DemandeurID:  in.DemandeurID,
		DateDemande:  now,
		Observations: in.Observations,
		Statut:       entity.StatusEnAttente,
		Lines:        in.Lines,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.DateDemande != nil && !in.DateDemande.IsZero() {
		pr.DateDemande = *in.DateDemande
	}

	err := uc.txRunner.Run(ctx, func(repos inventory.Repositories) error {
		requestor, err := repos.Requestors.GetByID(ctx, in.DemandeurID)
		if err != nil {
			return err
		}
		if requestor == nil {
			return fmt.Errorf("%w: demandeur %s", domain.ErrNotFound, in.DemandeurID)
		}
		for _, ref := range lineRefs(in.Lines) {
			if err := checkRefs(ctx, repos, ref.articleID, ref.fournisseurID); err != nil {
				return err
			}
		}
		return repos.PurchaseRequests.Create(ctx, pr)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("demande_id", pr.ID).Str("type", pr.Lines.Kind()).Int("articles", pr.TotalArticles()).Msg("demanda de compra creada")
	return pr, nil
}

// GetByID devuelve la demanda o ErrNotFound.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*entity.PurchaseRequest, error) {
	pr, err := uc.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pr == nil {
		return nil, domain.ErrNotFound
	}
	return pr, nil
}

// List lista las demandas, opcionalmente de un solo estado.
func (uc *UseCase) List(ctx context.Context, status string) ([]*entity.PurchaseRequest, error) {
	if status == "" {
		return uc.requests.List(ctx)
	}
	s := entity.PurchaseStatus(status)
	if !s.Valid() {
		return nil, domain.ErrInvalidInput
	}
	return uc.requests.List(ctx, s)
}

// ListAwaitingReception demandas aprobadas que aún no se han convertido en recepción (solo approuve).
func (uc *UseCase) ListAwaitingReception(ctx context.Context) ([]*entity.PurchaseRequest, error) {
	return uc.requests.List(ctx, entity.StatusApprouve)
}

// ListApprovedOrOrdered demandas aprobadas o ya pedidas (approuve y commande), para pantallas
// que muestran también las ya convertidas.
func (uc *UseCase) ListApprovedOrOrdered(ctx context.Context) ([]*entity.PurchaseRequest, error) {
	return uc.requests.List(ctx, entity.StatusApprouve, entity.StatusCommande)
}

// Approve en_attente -> approuve.
func (uc *UseCase) Approve(ctx context.Context, id string) (*entity.PurchaseRequest, error) {
	return uc.transition(ctx, id, entity.StatusApprouve)
}

// Refuse en_attente -> refuse.
func (uc *UseCase) Refuse(ctx context.Context, id string) (*entity.PurchaseRequest, error) {
	return uc.transition(ctx, id, entity.StatusRefuse)
}

func (uc *UseCase) transition(ctx context.Context, id string, to entity.PurchaseStatus) (*entity.PurchaseRequest, error) {
	var pr *entity.PurchaseRequest
	err := uc.txRunner.Run(ctx, func(repos inventory.Repositories) error {
		var err error
		pr, err = repos.PurchaseRequests.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if pr == nil {
			return domain.ErrNotFound
		}
		if err := pr.TransitionTo(to, uc.now()); err != nil {
			return err
		}
		return repos.PurchaseRequests.UpdateStatus(ctx, pr.ID, pr.Statut, pr.UpdatedAt)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("demande_id", id).Str("statut", string(to)).Msg("estado de demanda actualizado")
	return pr, nil
}

// Delete elimina una demanda que no haya avanzado (en_attente o refuse).
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(repos inventory.Repositories) error {
		pr, err := repos.PurchaseRequests.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if pr == nil {
			return domain.ErrNotFound
		}
		if pr.Statut != entity.StatusEnAttente && pr.Statut != entity.StatusRefuse {
			return fmt.Errorf("%w: demande en statut %s", domain.ErrConflict, pr.Statut)
		}
		return repos.PurchaseRequests.Delete(ctx, id)
	})
}

// ConvertOverrides valores del usuario que prevalecen sobre los de la demanda.
// QuantiteRecue y PrixUnitaire solo aplican al formulario heredado (un artículo).
type ConvertOverrides struct {
	FournisseurID      string
	QuantiteRecue      *int
	PrixUnitaire       *decimal.Decimal
	NumeroBonLivraison string
	Observations       string
	DateReception      *time.Time
}

// ConversionResult recepciones creadas y demanda ya en estado commande.
type ConversionResult struct {
	Receptions      []*entity.Reception
	PurchaseRequest *entity.PurchaseRequest
}

// ConvertToReception convierte una demanda aprobada en recepción(es) y la pasa a commande.
// Todo ocurre en una transacción con la demanda bloqueada: o se crean todas las recepciones
// (con su stock e historial) y cambia el estado, o no queda nada. Convertir una demanda
// que no está en approuve (p. ej. ya commande) devuelve ErrInvalidTransition.
func (uc *UseCase) ConvertToReception(ctx context.Context, id string, ov ConvertOverrides) (*ConversionResult, error) {
	if ov.QuantiteRecue != nil && *ov.QuantiteRecue <= 0 {
		return nil, domain.ErrInvalidInput
	}
	ctx, span := uc.tracer.Start(ctx, "procurement.ConvertToReception",
		trace.WithAttributes(attribute.String("purchase_request.id", id)))
	defer span.End()

	var res *ConversionResult
	err := uc.txRunner.Run(ctx, func(repos inventory.Repositories) error {
		pr, err := repos.PurchaseRequests.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if pr == nil {
			return domain.ErrNotFound
		}
		if !pr.Statut.CanTransitionTo(entity.StatusCommande) {
			return fmt.Errorf("%w: demande %s en statut %s", domain.ErrInvalidTransition, pr.ID, pr.Statut)
		}
		inputs, err := receptionInputs(pr, ov)
		if err != nil {
			return err
		}
		receptions := make([]*entity.Reception, 0, len(inputs))
		for _, in := range inputs {
			rec, err := uc.stock.ReceiveInTx(ctx, repos, in)
			if err != nil {
				return err
			}
			receptions = append(receptions, rec)
		}
		if err := pr.TransitionTo(entity.StatusCommande, uc.now()); err != nil {
			return err
		}
		if err := repos.PurchaseRequests.UpdateStatus(ctx, pr.ID, pr.Statut, pr.UpdatedAt); err != nil {
			return err
		}
		res = &ConversionResult{Receptions: receptions, PurchaseRequest: pr}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if isBusinessError(err) {
			uc.log.Debug().Err(err).Str("demande_id", id).Msg("conversión rechazada")
		} else {
			uc.log.Error().Err(err).Str("demande_id", id).Msg("conversión fallida, sin cambios")
		}
		return nil, err
	}
	uc.log.Info().
		Str("demande_id", id).
		Int("receptions", len(res.Receptions)).
		Msg("demanda convertida en recepción")
	return res, nil
}

// receptionInputs deriva las recepciones según la variante de la demanda.
func receptionInputs(pr *entity.PurchaseRequest, ov ConvertOverrides) ([]inventory.ReceptionInput, error) {
	observations := ov.Observations
	if observations == "" {
		observations = pr.Observations
	}
	switch l := pr.Lines.(type) {
	case entity.SingleArticle:
		fournisseur := ov.FournisseurID
		if fournisseur == "" {
			fournisseur = l.FournisseurID
		}
		if fournisseur == "" {
			return nil, fmt.Errorf("%w: fournisseur requis", domain.ErrInvalidInput)
		}
		qty := l.QuantiteDemandee
		if ov.QuantiteRecue != nil {
			qty = *ov.QuantiteRecue
		}
		return []inventory.ReceptionInput{{
			ArticleID:          l.ArticleID,
			FournisseurID:      fournisseur,
			QuantiteRecue:      qty,
			PrixUnitaire:       ov.PrixUnitaire,
			NumeroBonLivraison: ov.NumeroBonLivraison,
			Observations:       observations,
			DateReception:      ov.DateReception,
			DemandeAchatID:     pr.ID,
		}}, nil
	case entity.MultiArticle:
		if ov.QuantiteRecue != nil || ov.PrixUnitaire != nil {
			return nil, fmt.Errorf("%w: quantité et prix se saisissent par ligne", domain.ErrInvalidInput)
		}
		inputs := make([]inventory.ReceptionInput, 0, len(l.Items))
		for _, it := range l.Items {
			fournisseur := it.FournisseurID
			if fournisseur == "" {
				fournisseur = ov.FournisseurID
			}
			if fournisseur == "" {
				return nil, fmt.Errorf("%w: fournisseur requis pour l'article %s", domain.ErrInvalidInput, it.ArticleID)
			}
			obs := observations
			if it.Observations != "" && ov.Observations == "" {
				obs = it.Observations
			}
			inputs = append(inputs, inventory.ReceptionInput{
				ArticleID:          it.ArticleID,
				FournisseurID:      fournisseur,
				QuantiteRecue:      it.QuantiteDemandee,
				PrixUnitaire:       it.PrixUnitaire,
				NumeroBonLivraison: ov.NumeroBonLivraison,
				Observations:       obs,
				DateReception:      ov.DateReception,
				DemandeAchatID:     pr.ID,
			})
		}
		return inputs, nil
	}
	return nil, domain.ErrInvalidInput
}

type lineRef struct {
	articleID     string
	fournisseurID string
}

func lineRefs(lines entity.PurchaseLines) []lineRef {
	switch l := lines.(type) {
	case entity.SingleArticle:
		return []lineRef{{l.ArticleID, l.FournisseurID}}
	case entity.MultiArticle:
		refs := make([]lineRef, 0, len(l.Items))
		for _, it := range l.Items {
			refs = append(refs, lineRef{it.ArticleID, it.FournisseurID})
		}
		return refs
	}
	return nil
}

func checkRefs(ctx context.Context, repos inventory.Repositories, articleID, fournisseurID string) error {
	a, err := repos.Articles.GetByID(ctx, articleID)
	if err != nil {
		return err
	}
	if a == nil {
		return fmt.Errorf("%w: article %s", domain.ErrNotFound, articleID)
	}
	if fournisseurID == "" {
		return nil
	}
	s, err := repos.Suppliers.GetByID(ctx, fournisseurID)
	if err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("%w: fournisseur %s", domain.ErrNotFound, fournisseurID)
	}
	return nil
}

func isBusinessError(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrInvalidTransition) ||
		errors.Is(err, domain.ErrInsufficientStock)
}
