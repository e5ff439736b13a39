package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockceramique/stockceramique-api/internal/application/dto"
	"github.com/stockceramique/stockceramique-api/internal/application/usecase"
	"github.com/stockceramique/stockceramique-api/internal/domain"
	"github.com/stockceramique/stockceramique-api/internal/domain/repository"
	"github.com/stockceramique/stockceramique-api/internal/infrastructure/memory"
)

func newArticleUseCase() *usecase.ArticleUseCase {
	repos := memory.NewStore().Repositories()
	return usecase.NewArticleUseCase(repos.Articles, repos.Suppliers)
}

func articleReq(code string, stock int) dto.CreateArticleRequest {
	return dto.CreateArticleRequest{
		CodeArticle:  code,
		Designation:  "Faïence émaillée " + code,
		Categorie:    "Faïence",
		StockInitial: stock,
	}
}

func TestArticle_CreaConStockActuelIgualAlInicial(t *testing.T) {
	uc := newArticleUseCase()

	a, err := uc.Create(context.Background(), articleReq("FAI-01", 12))
	require.NoError(t, err)
	assert.Equal(t, 12, a.StockInitial)
	assert.Equal(t, 12, a.StockActuel)
	assert.Equal(t, "unité", a.Unite)
	assert.NotEmpty(t, a.ID)
}

func TestArticle_CodigoDuplicadoSinDistinguirMayusculas(t *testing.T) {
	uc := newArticleUseCase()
	ctx := context.Background()

	_, err := uc.Create(ctx, articleReq("FAI-01", 1))
	require.NoError(t, err)
	_, err = uc.Create(ctx, articleReq("fai-01", 1))
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestArticle_ValoresNegativosRechazados(t *testing.T) {
	uc := newArticleUseCase()
	ctx := context.Background()

	_, err := uc.Create(ctx, articleReq("FAI-01", -1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req := articleReq("FAI-02", 1)
	neg := decimal.NewFromInt(-2)
	req.PrixUnitaire = &neg
	_, err = uc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req = articleReq("FAI-03", 1)
	req.FournisseurID = "inexistente"
	_, err = uc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestArticle_UpdateNoTocaElStock(t *testing.T) {
	uc := newArticleUseCase()
	ctx := context.Background()
	a, err := uc.Create(ctx, articleReq("FAI-01", 5))
	require.NoError(t, err)

	name := "Faïence blanche"
	seuil := 8
	updated, err := uc.Update(ctx, a.ID, dto.UpdateArticleRequest{Designation: &name, SeuilMinimum: &seuil})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Designation)
	assert.Equal(t, 5, updated.StockActuel)
	assert.Equal(t, "faible", updated.StatutStock)

	_, err = uc.Update(ctx, "inexistente", dto.UpdateArticleRequest{Designation: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestArticle_BusquedaSinTildesYPaginacion(t *testing.T) {
	uc := newArticleUseCase()
	ctx := context.Background()
	for _, code := range []string{"FAI-01", "FAI-02", "FAI-03"} {
		_, err := uc.Create(ctx, articleReq(code, 1))
		require.NoError(t, err)
	}

	res, err := uc.List(ctx, repository.ArticleFilter{Search: "FAIENCE EMAILLEE", Limit: 2})
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)
	assert.Equal(t, 3, res.Page.Total)
	assert.Equal(t, "FAI-01", res.Items[0].CodeArticle)
}

func TestArticle_GetYDelete(t *testing.T) {
	uc := newArticleUseCase()
	ctx := context.Background()
	a, err := uc.Create(ctx, articleReq("FAI-01", 0))
	require.NoError(t, err)

	low, err := uc.ListLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "rupture", low[0].StatutStock)

	require.NoError(t, uc.Delete(ctx, a.ID))
	_, err = uc.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, a.ID), domain.ErrNotFound)
}
