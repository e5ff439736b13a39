package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockceramique/stockceramique-api/internal/application/inventory"
	"github.com/stockceramique/stockceramique-api/internal/domain"
	"github.com/stockceramique/stockceramique-api/internal/domain/entity"
	"github.com/stockceramique/stockceramique-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// AdjustStock
// ──────────────────────────────────────────────────────────────────────────────

func TestArticleRepo_AdjustStockCondicional(t *testing.T) {
	store := memory.NewStore()
	repos := store.Repositories()
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, repos.Articles.Create(ctx, &entity.Article{
		ID: "art-1", CodeArticle: "CER-001", Designation: "Carreau", Unite: "unité",
		StockInitial: 5, StockActuel: 5, CreatedAt: now, UpdatedAt: now,
	}))

	avant, apres, err := repos.Articles.AdjustStock(ctx, "art-1", -5)
	require.NoError(t, err)
	assert.Equal(t, 5, avant)
	assert.Equal(t, 0, apres)

	_, _, err = repos.Articles.AdjustStock(ctx, "art-1", -1)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	avant, apres, err = repos.Articles.AdjustStock(ctx, "art-1", 7)
	require.NoError(t, err)
	assert.Equal(t, 0, avant)
	assert.Equal(t, 7, apres)

	avant, apres, err = repos.Articles.AdjustStock(ctx, "art-1", 0)
	require.NoError(t, err)
	assert.Equal(t, 7, avant)
	assert.Equal(t, 7, apres)

	_, _, err = repos.Articles.AdjustStock(ctx, "nope", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	a, err := repos.Articles.GetByID(ctx, "art-1")
	require.NoError(t, err)
	assert.Equal(t, 7, a.StockActuel)
}

func TestStore_RunDescartaAlFallar(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, store.Repositories().Articles.Create(ctx, &entity.Article{
		ID: "art-1", CodeArticle: "CER-001", Designation: "Carreau", Unite: "unité",
		StockInitial: 5, StockActuel: 5, CreatedAt: now, UpdatedAt: now,
	}))

	boom := errors.New("boom")
	err := store.Run(ctx, func(repos inventory.Repositories) error {
		if _, _, err := repos.Articles.AdjustStock(ctx, "art-1", -3); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	a, err := store.Repositories().Articles.GetByID(ctx, "art-1")
	require.NoError(t, err)
	assert.Equal(t, 5, a.StockActuel)
}
