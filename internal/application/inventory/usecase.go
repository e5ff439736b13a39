package inventory

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

	"github.com/stockceramique/stockceramique-api/internal/domain"
	"github.com/stockceramique/stockceramique-api/internal/domain/entity"
	"github.com/stockceramique/stockceramique-api/internal/domain/repository"
	"github.com/stockceramique/stockceramique-api/internal/domain/stock"
)

const tracerName = "github.com/stockceramique/stockceramique-api/internal/application/inventory"

// StockUseCase motor de stock: recepciones (entradas), salidas y consulta del historial.
// Cada mutación corre en una transacción con actualización condicional de stock_actuel,
// de modo que dos salidas concurrentes nunca dejan el stock en negativo.
type StockUseCase struct {
	txRunner  TxRunner
	articles  repository.ArticleRepository
	movements repository.StockMovementRepository
	log       zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(
	txRunner TxRunner,
	articles repository.ArticleRepository,
	movements repository.StockMovementRepository,
	log zerolog.Logger,
) *StockUseCase {
	return &StockUseCase{
		txRunner:  txRunner,
		articles:  articles,
		movements: movements,
		log:       log.With().Str("component", "stock").Logger(),
		tracer:    otel.Tracer(tracerName),
		now:       time.Now,
	}
}

// ReceptionInput entrada para registrar una recepción.
type ReceptionInput struct {
	ArticleID          string
	FournisseurID      string
	QuantiteRecue      int
	PrixUnitaire       *decimal.Decimal
	NumeroBonLivraison string
	Observations       string
	DateReception      *time.Time
	DemandeAchatID     string
}

func (in ReceptionInput) validate() error {
	if in.ArticleID == "" || in.FournisseurID == "" || in.QuantiteRecue <= 0 {
		return domain.ErrInvalidInput
	}
	if in.PrixUnitaire != nil && in.PrixUnitaire.IsNegative() {
		return domain.ErrInvalidInput
	}
	return nil
}

// OutboundInput entrada para registrar una salida.
type OutboundInput struct {
	ArticleID      string
	DemandeurID    string
	QuantiteSortie int
	MotifSortie    string
	Observations   string
	DateSortie     *time.Time
}

func (in OutboundInput) validate() error {
	if in.ArticleID == "" || in.DemandeurID == "" || in.QuantiteSortie <= 0 {
		return domain.ErrInvalidInput
	}
	return nil
}

// CreateReception registra la recepción, suma la cantidad al stock y anota un movimiento
// "entree", todo en la misma transacción.
func (uc *StockUseCase) CreateReception(ctx context.Context, in ReceptionInput) (*entity.Reception, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	ctx, span := uc.tracer.Start(ctx, "inventory.CreateReception", trace.WithAttributes(
		attribute.String("article.id", in.ArticleID),
		attribute.Int("quantity", in.QuantiteRecue),
	))
	defer span.End()

	var rec *entity.Reception
	err := uc.txRunner.Run(ctx, func(repos Repositories) error {
		var err error
		rec, err = uc.ReceiveInTx(ctx, repos, in)
		return err
	})
	if err != nil {
		uc.fail(span, "réception", in.ArticleID, err)
		return nil, err
	}
	uc.log.Info().
		Str("reception_id", rec.ID).
		Str("article_id", rec.ArticleID).
		Int("quantite", rec.QuantiteRecue).
		Msg("recepción registrada")
	return rec, nil
}

// ReceiveInTx ejecuta una recepción con los repositorios de la transacción del caller.
// La usa la conversión de demandas de compra para encadenar varias recepciones y el cambio de estado.
func (uc *StockUseCase) ReceiveInTx(ctx context.Context, repos Repositories, in ReceptionInput) (*entity.Reception, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	supplier, err := repos.Suppliers.GetByID(ctx, in.FournisseurID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, fmt.Errorf("%w: fournisseur %s", domain.ErrNotFound, in.FournisseurID)
	}

	now := uc.now()
	// Suma condicional sobre stock_actuel; devuelve ErrNotFound si el artículo no existe.
	avant, apres, err := repos.Articles.AdjustStock(ctx, in.ArticleID, in.QuantiteRecue)
	if err != nil {
		return nil, err
	}
	rec := &entity.Reception{
		ID:                 uuid.New().String(),
		ArticleID:          in.ArticleID,
		FournisseurID:      in.FournisseurID,
		QuantiteRecue:      in.QuantiteRecue,
		PrixUnitaire:       in.PrixUnitaire,
		NumeroBonLivraison: in.NumeroBonLivraison,
		Observations:       in.Observations,
		DateReception:      dateOr(in.DateReception, now),
		DemandeAchatID:     in.DemandeAchatID,
		CreatedAt:          now,
	}
	if err := repos.Receptions.Create(ctx, rec); err != nil {
		return nil, err
	}

	desc := "Réception " + supplier.Nom
	if rec.NumeroBonLivraison != "" {
		desc += " - BL " + rec.NumeroBonLivraison
	}
	mov, err := stock.NewMovement(in.ArticleID, entity.MovementEntree, in.QuantiteRecue, avant, apres, rec.ID, desc, now)
	if err != nil {
		return nil, err
	}
	if err := repos.Movements.Append(ctx, mov); err != nil {
		return nil, err
	}
	return rec, nil
}

// CreateOutbound registra una salida. Si la cantidad supera stockActuel devuelve
// ErrInsufficientStock y no escribe nada (ni stock, ni salida, ni movimiento).
func (uc *StockUseCase) CreateOutbound(ctx context.Context, in OutboundInput) (*entity.Outbound, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	ctx, span := uc.tracer.Start(ctx, "inventory.CreateOutbound", trace.WithAttributes(
		attribute.String("article.id", in.ArticleID),
		attribute.Int("quantity", in.QuantiteSortie),
	))
	defer span.End()

	var out *entity.Outbound
	err := uc.txRunner.Run(ctx, func(repos Repositories) error {
		requestor, err := repos.Requestors.GetByID(ctx, in.DemandeurID)
		if err != nil {
			return err
		}
		if requestor == nil {
			return fmt.Errorf("%w: demandeur %s", domain.ErrNotFound, in.DemandeurID)
		}

		now := uc.now()
		// Resta condicional: stock_actuel - q >= 0 o ErrInsufficientStock sin tocar la fila.
		avant, apres, err := repos.Articles.AdjustStock(ctx, in.ArticleID, -in.QuantiteSortie)
		if err != nil {
			return err
		}
		out = &entity.Outbound{
			ID:             uuid.New().String(),
			ArticleID:      in.ArticleID,
			DemandeurID:    in.DemandeurID,
			QuantiteSortie: in.QuantiteSortie,
			MotifSortie:    in.MotifSortie,
			Observations:   in.Observations,
			DateSortie:     dateOr(in.DateSortie, now),
			CreatedAt:      now,
		}
		if err := repos.Outbounds.Create(ctx, out); err != nil {
			return err
		}
		desc := "Sortie " + requestor.FullName()
		if in.MotifSortie != "" {
			desc += " - " + in.MotifSortie
		}
		mov, err := stock.NewMovement(in.ArticleID, entity.MovementSortie, in.QuantiteSortie, avant, apres, out.ID, desc, now)
		if err != nil {
			return err
		}
		return repos.Movements.Append(ctx, mov)
	})
	if err != nil {
		uc.fail(span, "sortie", in.ArticleID, err)
		return nil, err
	}
	uc.log.Info().
		Str("sortie_id", out.ID).
		Str("article_id", out.ArticleID).
		Int("quantite", out.QuantiteSortie).
		Msg("salida registrada")
	return out, nil
}

// ListMovements devuelve el historial en orden cronológico, opcionalmente de un solo artículo.
func (uc *StockUseCase) ListMovements(ctx context.Context, filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	if filter.Limit < 0 {
		return nil, domain.ErrInvalidInput
	}
	return uc.movements.List(ctx, filter)
}

// RecentMovements últimos movimientos, más recientes primero.
func (uc *StockUseCase) RecentMovements(ctx context.Context, limit int) ([]*entity.StockMovement, error) {
	if limit <= 0 {
		limit = 10
	}
	return uc.movements.ListRecent(ctx, limit)
}

// ReconcileArticle compara stockActuel con stockInitial + Σ movimientos.
// Un descuadre se registra en el log con nivel error para reconciliación manual.
func (uc *StockUseCase) ReconcileArticle(ctx context.Context, articleID string) (*stock.Report, error) {
	article, err := uc.articles.GetByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, domain.ErrNotFound
	}
	movs, err := uc.movements.List(ctx, repository.MovementFilter{ArticleID: articleID})
	if err != nil {
		return nil, err
	}
	report := stock.Reconcile(article, movs)
	if !report.Coherent {
		uc.log.Error().
			Err(report.Err()).
			Str("article_id", articleID).
			Int("stock_actuel", report.StockActuel).
			Int("stock_calcule", report.StockCalcule).
			Strs("anomalies", report.Anomalies).
			Msg("historial de stock descuadrado")
	}
	return &report, nil
}

// fail anota el error en el span y en el log. Los errores de negocio van a debug;
// ErrInconsistentState y los fallos de infraestructura a error.
func (uc *StockUseCase) fail(span trace.Span, op, articleID string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	switch {
	case errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrInvalidInput):
		uc.log.Debug().Err(err).Str("op", op).Str("article_id", articleID).Msg("operación de stock rechazada")
	case errors.Is(err, domain.ErrInconsistentState):
		uc.log.Error().Err(err).Str("op", op).Str("article_id", articleID).Msg("estado incoherente, requiere reconciliación")
	default:
		uc.log.Error().Err(err).Str("op", op).Str("article_id", articleID).Msg("operación de stock fallida")
	}
}

func dateOr(t *time.Time, def time.Time) time.Time {
	if t == nil || t.IsZero() {
		return def
	}
	return *t
}
