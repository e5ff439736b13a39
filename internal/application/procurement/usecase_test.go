package procurement_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockceramique/stockceramique-api/internal/application/inventory"
	"github.com/stockceramique/stockceramique-api/internal/application/procurement"
	"github.com/stockceramique/stockceramique-api/internal/domain"
	"github.com/stockceramique/stockceramique-api/internal/domain/entity"
	"github.com/stockceramique/stockceramique-api/internal/domain/repository"
	"github.com/stockceramique/stockceramique-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var errStatusWrite = errors.New("escritura de estado fallida")

// failingRunner envuelve el TxRunner real y hace fallar UpdateStatus dentro de la transacción.
type failingRunner struct {
	inner inventory.TxRunner
}

func (r failingRunner) Run(ctx context.Context, fn func(repos inventory.Repositories) error) error {
	return r.inner.Run(ctx, func(repos inventory.Repositories) error {
		repos.PurchaseRequests = failingStatus{repos.PurchaseRequests}
		return fn(repos)
	})
}

type failingStatus struct {
	repository.PurchaseRequestRepository
}

func (failingStatus) UpdateStatus(context.Context, string, entity.PurchaseStatus, time.Time) error {
	return errStatusWrite
}

type fixture struct {
	store *memory.Store
	repos inventory.Repositories
	stock *inventory.StockUseCase
	uc    *procurement.UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repositories()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repos.Suppliers.Create(ctx, &entity.Supplier{ID: "four-1", Nom: "Céramique Nord", CreatedAt: now}))
	require.NoError(t, repos.Suppliers.Create(ctx, &entity.Supplier{ID: "four-2", Nom: "Faïences du Sud", CreatedAt: now}))
	require.NoError(t, repos.Requestors.Create(ctx, &entity.Requestor{ID: "dem-1", Nom: "Martin", Departement: "Pose", CreatedAt: now}))
	for _, a := range []entity.Article{
		{ID: "art-1", CodeArticle: "CER-001", StockInitial: 3, StockActuel: 3},
		{ID: "art-2", CodeArticle: "CER-002", StockInitial: 0, StockActuel: 0},
	} {
		a := a
		a.CreatedAt, a.UpdatedAt = now, now
		require.NoError(t, repos.Articles.Create(ctx, &a))
	}

	stock := inventory.NewStockUseCase(store, repos.Articles, repos.Movements, zerolog.Nop())
	return &fixture{
		store: store,
		repos: repos,
		stock: stock,
		uc:    procurement.NewUseCase(store, repos.PurchaseRequests, stock, zerolog.Nop()),
	}
}

func (f *fixture) createSingle(t *testing.T, qty int) *entity.PurchaseRequest {
	t.Helper()
	pr, err := f.uc.Create(context.Background(), procurement.CreateInput{
		DemandeurID: "dem-1",
		Lines:       entity.SingleArticle{ArticleID: "art-1", FournisseurID: "four-1", QuantiteDemandee: qty},
	})
	require.NoError(t, err)
	return pr
}

func (f *fixture) approved(t *testing.T, qty int) *entity.PurchaseRequest {
	t.Helper()
	pr := f.createSingle(t, qty)
	pr, err := f.uc.Approve(context.Background(), pr.ID)
	require.NoError(t, err)
	return pr
}

func (f *fixture) stockOf(t *testing.T, id string) int {
	t.Helper()
	a, err := f.repos.Articles.GetByID(context.Background(), id)
	require.NoError(t, err)
	return a.StockActuel
}

func (f *fixture) status(t *testing.T, id string) entity.PurchaseStatus {
	t.Helper()
	pr, err := f.uc.GetByID(context.Background(), id)
	require.NoError(t, err)
	return pr.Statut
}

// ──────────────────────────────────────────────────────────────────────────────
// Alta y ciclo de vida
// ──────────────────────────────────────────────────────────────────────────────

func TestProcurement_CreaEnAttente(t *testing.T) {
	f := newFixture(t)
	pr := f.createSingle(t, 10)

	assert.Equal(t, entity.StatusEnAttente, pr.Statut)
	assert.Equal(t, entity.LinesSingle, pr.Lines.Kind())
	assert.Equal(t, 1, pr.TotalArticles())
}

func TestProcurement_CreaRechazaReferenciasInvalidas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Create(ctx, procurement.CreateInput{
		DemandeurID: "nadie",
		Lines:       entity.SingleArticle{ArticleID: "art-1", QuantiteDemandee: 1},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.Create(ctx, procurement.CreateInput{
		DemandeurID: "dem-1",
		Lines:       entity.SingleArticle{ArticleID: "art-x", QuantiteDemandee: 1},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.Create(ctx, procurement.CreateInput{
		DemandeurID: "dem-1",
		Lines:       entity.SingleArticle{ArticleID: "art-1", QuantiteDemandee: 0},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	all, err := f.uc.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestProcurement_TransicionesExplicitas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	refused := f.createSingle(t, 1)
	_, err := f.uc.Refuse(ctx, refused.ID)
	require.NoError(t, err)
	_, err = f.uc.Approve(ctx, refused.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, entity.StatusRefuse, f.status(t, refused.ID))

	approved := f.approved(t, 1)
	_, err = f.uc.Refuse(ctx, approved.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.uc.Approve(ctx, "inexistente")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.List(ctx, "livre")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProcurement_DeleteSoloSinAvanzar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pending := f.createSingle(t, 1)
	require.NoError(t, f.uc.Delete(ctx, pending.ID))
	_, err := f.uc.GetByID(ctx, pending.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	approved := f.approved(t, 1)
	assert.ErrorIs(t, f.uc.Delete(ctx, approved.ID), domain.ErrConflict)
}

// ──────────────────────────────────────────────────────────────────────────────
// Conversión en recepción
// ──────────────────────────────────────────────────────────────────────────────

func TestProcurement_ConvierteDemandaAprobada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pr := f.approved(t, 20)

	price := decimal.RequireFromString("5.50")
	res, err := f.uc.ConvertToReception(ctx, pr.ID, procurement.ConvertOverrides{
		PrixUnitaire:       &price,
		NumeroBonLivraison: "BL-7",
	})
	require.NoError(t, err)
	require.Len(t, res.Receptions, 1)
	rec := res.Receptions[0]
	assert.Equal(t, "art-1", rec.ArticleID)
	assert.Equal(t, "four-1", rec.FournisseurID)
	assert.Equal(t, 20, rec.QuantiteRecue)
	assert.Equal(t, pr.ID, rec.DemandeAchatID)
	assert.Equal(t, entity.StatusCommande, res.PurchaseRequest.Statut)

	assert.Equal(t, 23, f.stockOf(t, "art-1"))
	assert.Equal(t, entity.StatusCommande, f.status(t, pr.ID))

	movs, err := f.repos.Movements.List(ctx, repository.MovementFilter{ArticleID: "art-1"})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, 3, movs[0].QuantiteAvant)
	assert.Equal(t, 23, movs[0].QuantiteApres)
	assert.Equal(t, rec.ID, movs[0].Reference)

	linked, err := f.repos.Receptions.ListByPurchaseRequest(ctx, pr.ID)
	require.NoError(t, err)
	assert.Len(t, linked, 1)
}

func TestProcurement_DobleConversionRechazada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pr := f.approved(t, 5)

	_, err := f.uc.ConvertToReception(ctx, pr.ID, procurement.ConvertOverrides{})
	require.NoError(t, err)
	_, err = f.uc.ConvertToReception(ctx, pr.ID, procurement.ConvertOverrides{})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	assert.Equal(t, 8, f.stockOf(t, "art-1"), "la segunda conversión no suma stock")
	linked, err := f.repos.Receptions.ListByPurchaseRequest(ctx, pr.ID)
	require.NoError(t, err)
	assert.Len(t, linked, 1)
}

func TestProcurement_ConversionRequiereAprobacion(t *testing.T) {
	f := newFixture(t)
	pr := f.createSingle(t, 5)

	_, err := f.uc.ConvertToReception(context.Background(), pr.ID, procurement.ConvertOverrides{})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, 3, f.stockOf(t, "art-1"))
}

func TestProcurement_ConversionConValoresDelUsuario(t *testing.T) {
	f := newFixture(t)
	pr := f.approved(t, 20)
	qty := 12
	day := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)

	res, err := f.uc.ConvertToReception(context.Background(), pr.ID, procurement.ConvertOverrides{
		FournisseurID: "four-2",
		QuantiteRecue: &qty,
		DateReception: &day,
		Observations:  "livraison partielle",
	})
	require.NoError(t, err)
	rec := res.Receptions[0]
	assert.Equal(t, "four-2", rec.FournisseurID)
	assert.Equal(t, 12, rec.QuantiteRecue)
	assert.True(t, rec.DateReception.Equal(day))
	assert.Equal(t, "livraison partielle", rec.Observations)
	assert.Equal(t, 15, f.stockOf(t, "art-1"))
}

// Si falla la escritura del estado, no debe quedar ni recepción ni stock ni movimiento.
func TestProcurement_ConversionAtomicaAnteFallo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pr := f.approved(t, 20)

	broken := procurement.NewUseCase(failingRunner{inner: f.store}, f.repos.PurchaseRequests, f.stock, zerolog.Nop())
	_, err := broken.ConvertToReception(ctx, pr.ID, procurement.ConvertOverrides{})
	require.ErrorIs(t, err, errStatusWrite)

	assert.Equal(t, 3, f.stockOf(t, "art-1"))
	assert.Equal(t, entity.StatusApprouve, f.status(t, pr.ID))
	linked, err := f.repos.Receptions.ListByPurchaseRequest(ctx, pr.ID)
	require.NoError(t, err)
	assert.Empty(t, linked)
	movs, err := f.repos.Movements.List(ctx, repository.MovementFilter{})
	require.NoError(t, err)
	assert.Empty(t, movs)

	// Con el runner sano la misma demanda se convierte normalmente.
	_, err = f.uc.ConvertToReception(ctx, pr.ID, procurement.ConvertOverrides{})
	require.NoError(t, err)
	assert.Equal(t, 23, f.stockOf(t, "art-1"))
}

func TestProcurement_ConversionMultiArticulo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	price := decimal.RequireFromString("1.25")

	pr, err := f.uc.Create(ctx, procurement.CreateInput{
		DemandeurID: "dem-1",
		Lines: entity.MultiArticle{Items: []entity.PurchaseRequestItem{
			{ArticleID: "art-1", FournisseurID: "four-1", QuantiteDemandee: 4, PrixUnitaire: &price},
			{ArticleID: "art-2", QuantiteDemandee: 6},
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, pr.TotalArticles())
	_, err = f.uc.Approve(ctx, pr.ID)
	require.NoError(t, err)

	qty := 1
	_, err = f.uc.ConvertToReception(ctx, pr.ID, procurement.ConvertOverrides{QuantiteRecue: &qty})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "la cantidad se fija por línea")

	// La segunda línea no tiene proveedor: sin valor del usuario no puede convertirse.
	_, err = f.uc.ConvertToReception(ctx, pr.ID, procurement.ConvertOverrides{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 3, f.stockOf(t, "art-1"))

	res, err := f.uc.ConvertToReception(ctx, pr.ID, procurement.ConvertOverrides{FournisseurID: "four-2"})
	require.NoError(t, err)
	require.Len(t, res.Receptions, 2)
	assert.Equal(t, "four-1", res.Receptions[0].FournisseurID)
	assert.Equal(t, "four-2", res.Receptions[1].FournisseurID)
	assert.Equal(t, 7, f.stockOf(t, "art-1"))
	assert.Equal(t, 6, f.stockOf(t, "art-2"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas "listas para recepción"
// ──────────────────────────────────────────────────────────────────────────────

func TestProcurement_ConsultasListasParaRecepcion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.createSingle(t, 1) // en_attente
	waiting := f.approved(t, 2)
	ordered := f.approved(t, 3)
	_, err := f.uc.ConvertToReception(ctx, ordered.ID, procurement.ConvertOverrides{})
	require.NoError(t, err)

	awaiting, err := f.uc.ListAwaitingReception(ctx)
	require.NoError(t, err)
	require.Len(t, awaiting, 1)
	assert.Equal(t, waiting.ID, awaiting[0].ID)

	both, err := f.uc.ListApprovedOrOrdered(ctx)
	require.NoError(t, err)
	require.Len(t, both, 2)
	ids := []string{both[0].ID, both[1].ID}
	assert.ElementsMatch(t, []string{waiting.ID, ordered.ID}, ids)
}
