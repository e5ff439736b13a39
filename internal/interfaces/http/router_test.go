package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockceramique/stockceramique-api/internal/application/dto"
	"github.com/stockceramique/stockceramique-api/internal/application/inventory"
	"github.com/stockceramique/stockceramique-api/internal/application/procurement"
	"github.com/stockceramique/stockceramique-api/internal/application/usecase"
	"github.com/stockceramique/stockceramique-api/internal/domain/entity"
	"github.com/stockceramique/stockceramique-api/internal/infrastructure/memory"
	apphttp "github.com/stockceramique/stockceramique-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// buildTestApp monta el router completo sobre un almacén en memoria con un artículo
// CER-001 (stock 10), un proveedor four-1 y un demandeur dem-1.
func buildTestApp(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repositories()
	ctx := context.Background()
	now := time.Now()
	seuil := 4
	require.NoError(t, repos.Suppliers.Create(ctx, &entity.Supplier{ID: "four-1", Nom: "Céramique Nord", CreatedAt: now}))
	require.NoError(t, repos.Requestors.Create(ctx, &entity.Requestor{
		ID: "dem-1", Nom: "Durand", Prenom: "Léa", Departement: "Atelier", CreatedAt: now,
	}))
	require.NoError(t, repos.Articles.Create(ctx, &entity.Article{
		ID: "art-1", CodeArticle: "CER-001", Designation: "Carreau émaillé", Categorie: "Carrelage",
		Unite: "unité", SeuilMinimum: &seuil, StockInitial: 10, StockActuel: 10, CreatedAt: now, UpdatedAt: now,
	}))

	stockUC := inventory.NewStockUseCase(store, repos.Articles, repos.Movements, zerolog.Nop())
	app := fiber.New()
	app.Use(apphttp.RequestLogger(zerolog.Nop()))
	apphttp.Router(app, apphttp.RouterDeps{
		ArticleUC:       usecase.NewArticleUseCase(repos.Articles, repos.Suppliers),
		SupplierUC:      usecase.NewSupplierUseCase(repos.Suppliers),
		RequestorUC:     usecase.NewRequestorUseCase(repos.Requestors),
		DocumentUC:      usecase.NewDocumentUseCase(repos.Receptions, repos.Outbounds),
		DashboardUC:     usecase.NewDashboardUseCase(repos.Articles, repos.PurchaseRequests, repos.Receptions, repos.Outbounds),
		StockUC:         stockUC,
		ReplenishmentUC: inventory.NewReplenishmentUseCase(repos.Articles),
		ProcurementUC:   procurement.NewUseCase(store, repos.PurchaseRequests, stockUC, zerolog.Nop()),
	})
	return app
}

// doJSON lanza la petición y decodifica la respuesta en out (si no es nil).
func doJSON(t *testing.T, app *fiber.App, method, path string, body any, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func stockOf(t *testing.T, app *fiber.App) int {
	t.Helper()
	var a dto.ArticleResponse
	require.Equal(t, http.StatusOK, doJSON(t, app, http.MethodGet, "/api/articles/art-1", nil, &a))
	return a.StockActuel
}

// ──────────────────────────────────────────────────────────────────────────────
// Salidas y recepciones
// ──────────────────────────────────────────────────────────────────────────────

func TestHTTP_SalidaYRecepcion(t *testing.T) {
	app := buildTestApp(t)

	var out dto.OutboundResponse
	status := doJSON(t, app, http.MethodPost, "/api/sorties", map[string]any{
		"articleId": "art-1", "demandeurId": "dem-1", "quantiteSortie": 7, "motifSortie": "chantier",
	}, &out)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, 7, out.QuantiteSortie)
	assert.Equal(t, 3, stockOf(t, app))

	var errResp dto.ErrorResponse
	status = doJSON(t, app, http.MethodPost, "/api/sorties", map[string]any{
		"articleId": "art-1", "demandeurId": "dem-1", "quantiteSortie": 5, "motifSortie": "chantier",
	}, &errResp)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", errResp.Code)
	assert.Equal(t, 3, stockOf(t, app))

	var rec dto.ReceptionResponse
	status = doJSON(t, app, http.MethodPost, "/api/receptions", map[string]any{
		"articleId": "art-1", "fournisseurId": "four-1", "quantiteRecue": 20,
		"prixUnitaire": "5.50", "dateReception": "2026-03-02",
	}, &rec)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, 2026, rec.DateReception.Year())
	assert.Equal(t, 23, stockOf(t, app))

	var movs []dto.StockMovementResponse
	require.Equal(t, http.StatusOK, doJSON(t, app, http.MethodGet, "/api/stock-movements?articleId=art-1", nil, &movs))
	require.Len(t, movs, 2)
	assert.Equal(t, "sortie", movs[0].Type)
	assert.Equal(t, 10, movs[0].QuantiteAvant)
	assert.Equal(t, 3, movs[0].QuantiteApres)
	assert.Equal(t, "entree", movs[1].Type)
	assert.Equal(t, 3, movs[1].QuantiteAvant)
	assert.Equal(t, 23, movs[1].QuantiteApres)

	var report struct {
		Coherent     bool `json:"coherent"`
		StockCalcule int  `json:"stockCalcule"`
	}
	require.Equal(t, http.StatusOK, doJSON(t, app, http.MethodGet, "/api/articles/art-1/reconciliation", nil, &report))
	assert.True(t, report.Coherent)
	assert.Equal(t, 23, report.StockCalcule)
}

func TestHTTP_ValidacionYErrores(t *testing.T) {
	app := buildTestApp(t)

	var errResp dto.ErrorResponse
	status := doJSON(t, app, http.MethodPost, "/api/sorties", map[string]any{
		"articleId": "art-1", "demandeurId": "dem-1", "quantiteSortie": 0,
	}, &errResp)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errResp.Code)
	assert.Contains(t, errResp.Message, "quantiteSortie")

	status = doJSON(t, app, http.MethodGet, "/api/articles/inexistant", nil, &errResp)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errResp.Code)

	status = doJSON(t, app, http.MethodPost, "/api/receptions", map[string]any{
		"articleId": "art-1", "fournisseurId": "inconnu", "quantiteRecue": 2,
	}, &errResp)
	assert.Equal(t, http.StatusNotFound, status)

	status = doJSON(t, app, http.MethodPost, "/api/articles", map[string]any{
		"codeArticle": "cer-001", "designation": "Doublon", "categorie": "Carrelage",
	}, &errResp)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DUPLICATE", errResp.Code)

	status = doJSON(t, app, http.MethodGet, "/api/stock-movements?from=hier", nil, &errResp)
	assert.Equal(t, http.StatusBadRequest, status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Demandes d'achat
// ──────────────────────────────────────────────────────────────────────────────

func TestHTTP_FlujoDemandaDeCompra(t *testing.T) {
	app := buildTestApp(t)

	var pr dto.PurchaseRequestResponse
	status := doJSON(t, app, http.MethodPost, "/api/demandes-achat", map[string]any{
		"demandeurId": "dem-1", "articleId": "art-1", "fournisseurId": "four-1", "quantiteDemandee": 12,
	}, &pr)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "en_attente", pr.Statut)
	assert.Equal(t, "single", pr.Type)
	assert.Equal(t, 1, pr.TotalArticles)

	var errResp dto.ErrorResponse
	status = doJSON(t, app, http.MethodPost, "/api/demandes-achat/"+pr.ID+"/convert-to-reception", nil, &errResp)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INVALID_TRANSITION", errResp.Code)

	require.Equal(t, http.StatusOK, doJSON(t, app, http.MethodPost, "/api/demandes-achat/"+pr.ID+"/approuver", nil, &pr))
	assert.Equal(t, "approuve", pr.Statut)

	var awaiting []dto.PurchaseRequestResponse
	require.Equal(t, http.StatusOK, doJSON(t, app, http.MethodGet, "/api/demandes-achat/en-attente-reception", nil, &awaiting))
	assert.Len(t, awaiting, 1)

	var conv dto.ConvertToReceptionResponse
	status = doJSON(t, app, http.MethodPost, "/api/demandes-achat/"+pr.ID+"/convert-to-reception", map[string]any{
		"numeroBonLivraison": "BL-7",
	}, &conv)
	require.Equal(t, http.StatusCreated, status)
	require.NotNil(t, conv.Reception)
	assert.Equal(t, 12, conv.Reception.QuantiteRecue)
	assert.Equal(t, pr.ID, conv.Reception.DemandeAchatID)
	assert.Equal(t, "commande", conv.PurchaseRequest.Statut)
	assert.Equal(t, 22, stockOf(t, app))

	status = doJSON(t, app, http.MethodPost, "/api/demandes-achat/"+pr.ID+"/convert-to-reception", nil, &errResp)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, 22, stockOf(t, app))

	require.Equal(t, http.StatusOK, doJSON(t, app, http.MethodGet, "/api/demandes-achat/en-attente-reception", nil, &awaiting))
	assert.Empty(t, awaiting)
	var approved []dto.PurchaseRequestResponse
	require.Equal(t, http.StatusOK, doJSON(t, app, http.MethodGet, "/api/demandes-achat/approuvees", nil, &approved))
	assert.Len(t, approved, 1)

	status = doJSON(t, app, http.MethodDelete, "/api/demandes-achat/"+pr.ID, nil, &errResp)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", errResp.Code)
}

func TestHTTP_ListadosYDashboard(t *testing.T) {
	app := buildTestApp(t)

	var list dto.ArticleListResponse
	require.Equal(t, http.StatusOK, doJSON(t, app, http.MethodGet, "/api/articles?search=EMAILLE", nil, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, 1, list.Page.Total)

	require.Equal(t, http.StatusCreated, doJSON(t, app, http.MethodPost, "/api/sorties", map[string]any{
		"articleId": "art-1", "demandeurId": "dem-1", "quantiteSortie": 8, "motifSortie": "pose",
	}, nil))

	var low []dto.ArticleResponse
	require.Equal(t, http.StatusOK, doJSON(t, app, http.MethodGet, "/api/articles/low-stock", nil, &low))
	require.Len(t, low, 1)
	assert.Equal(t, "faible", low[0].StatutStock)

	var suggestions []inventory.ReplenishmentSuggestion
	require.Equal(t, http.StatusOK, doJSON(t, app, http.MethodGet, "/api/inventory/replenishment", nil, &suggestions))
	require.Len(t, suggestions, 1)
	assert.Equal(t, 6, suggestions[0].StockIdeal)
	assert.Equal(t, 4, suggestions[0].QuantiteSuggeree)

	var outbounds []dto.OutboundResponse
	require.Equal(t, http.StatusOK, doJSON(t, app, http.MethodGet, "/api/sorties?articleId=art-1", nil, &outbounds))
	assert.Len(t, outbounds, 1)

	var stats dto.DashboardStatsResponse
	require.Equal(t, http.StatusOK, doJSON(t, app, http.MethodGet, "/api/dashboard/stats", nil, &stats))
	assert.Equal(t, 1, stats.TotalArticles)
	assert.Equal(t, 1, stats.ArticlesSousSeuil)
	assert.Equal(t, 1, stats.SortiesDuJour)
}
