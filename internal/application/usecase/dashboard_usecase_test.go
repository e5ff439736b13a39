package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockceramique/stockceramique-api/internal/application/inventory"
	"github.com/stockceramique/stockceramique-api/internal/application/usecase"
	"github.com/stockceramique/stockceramique-api/internal/domain/entity"
	"github.com/stockceramique/stockceramique-api/internal/infrastructure/memory"
)

func TestDashboard_CuentaIndicadores(t *testing.T) {
	store := memory.NewStore()
	repos := store.Repositories()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repos.Suppliers.Create(ctx, &entity.Supplier{ID: "f1", Nom: "Nord", CreatedAt: now}))
	require.NoError(t, repos.Requestors.Create(ctx, &entity.Requestor{ID: "d1", Nom: "Roux", Departement: "Pose", CreatedAt: now}))
	seuil := 5
	require.NoError(t, repos.Articles.Create(ctx, &entity.Article{ID: "a1", CodeArticle: "A1", StockInitial: 10, StockActuel: 10, SeuilMinimum: &seuil}))
	require.NoError(t, repos.Articles.Create(ctx, &entity.Article{ID: "a2", CodeArticle: "A2", StockInitial: 50, StockActuel: 50}))
	require.NoError(t, repos.PurchaseRequests.Create(ctx, &entity.PurchaseRequest{
		ID: "p1", DemandeurID: "d1", Statut: entity.StatusEnAttente, CreatedAt: now,
		Lines: entity.SingleArticle{ArticleID: "a1", QuantiteDemandee: 3},
	}))

	stock := inventory.NewStockUseCase(store, repos.Articles, repos.Movements, zerolog.Nop())
	_, err := stock.CreateOutbound(ctx, inventory.OutboundInput{ArticleID: "a1", DemandeurID: "d1", QuantiteSortie: 6})
	require.NoError(t, err)
	_, err = stock.CreateReception(ctx, inventory.ReceptionInput{ArticleID: "a2", FournisseurID: "f1", QuantiteRecue: 1})
	require.NoError(t, err)
	// Recepción de ayer: no cuenta en "du jour".
	yesterday := now.AddDate(0, 0, -1)
	_, err = stock.CreateReception(ctx, inventory.ReceptionInput{ArticleID: "a2", FournisseurID: "f1", QuantiteRecue: 1, DateReception: &yesterday})
	require.NoError(t, err)

	stats, err := usecase.NewDashboardUseCase(repos.Articles, repos.PurchaseRequests, repos.Receptions, repos.Outbounds).GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalArticles)
	assert.Equal(t, 1, stats.ArticlesSousSeuil)
	assert.Equal(t, 1, stats.DemandesEnAttente)
	assert.Equal(t, 1, stats.ReceptionsDuJour)
	assert.Equal(t, 1, stats.SortiesDuJour)
}
