package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockceramique/stockceramique-api/internal/application/inventory"
	"github.com/stockceramique/stockceramique-api/internal/domain/entity"
	"github.com/stockceramique/stockceramique-api/internal/infrastructure/memory"
)

func seuil(n int) *int { return &n }

func TestReplenishment_OrdenaPorCoberturaYCalculaCoste(t *testing.T) {
	store := memory.NewStore()
	repos := store.Repositories()
	ctx := context.Background()
	now := time.Now()
	price := decimal.RequireFromString("2.40")

	articles := []*entity.Article{
		// faible: ideal 15, sugerido 7, cobertura 8/15
		{ID: "a1", CodeArticle: "A-1", StockActuel: 8, SeuilMinimum: seuil(10), PrixUnitaire: &price},
		// rupture: ideal 6, sugerido 6, cobertura 0
		{ID: "a2", CodeArticle: "A-2", StockActuel: 0, SeuilMinimum: seuil(4)},
		// normal: fuera de la lista
		{ID: "a3", CodeArticle: "A-3", StockActuel: 50, SeuilMinimum: seuil(10)},
	}
	for _, a := range articles {
		a.CreatedAt, a.UpdatedAt = now, now
		require.NoError(t, repos.Articles.Create(ctx, a))
	}

	list, err := inventory.NewReplenishmentUseCase(repos.Articles).GenerateReplenishmentList(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "a2", list[0].ArticleID)
	assert.Equal(t, 1, list[0].Priorite)
	assert.Equal(t, 6, list[0].StockIdeal)
	assert.Equal(t, 6, list[0].QuantiteSuggeree)
	assert.Nil(t, list[0].CoutEstime)

	assert.Equal(t, "a1", list[1].ArticleID)
	assert.Equal(t, 15, list[1].StockIdeal)
	assert.Equal(t, 7, list[1].QuantiteSuggeree)
	require.NotNil(t, list[1].CoutEstime)
	assert.Equal(t, "16.8", list[1].CoutEstime.String())
}

func TestReplenishment_ListaVacia(t *testing.T) {
	store := memory.NewStore()
	list, err := inventory.NewReplenishmentUseCase(store.Repositories().Articles).GenerateReplenishmentList(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NotNil(t, list)
}
