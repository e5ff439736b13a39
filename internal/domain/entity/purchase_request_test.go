package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockceramique/stockceramique-api/internal/domain"
	"github.com/stockceramique/stockceramique-api/internal/domain/entity"
)

func TestPurchaseStatus_Transiciones(t *testing.T) {
	cases := []struct {
		from, to entity.PurchaseStatus
		ok       bool
	}{
		{entity.StatusEnAttente, entity.StatusApprouve, true},
		{entity.StatusEnAttente, entity.StatusRefuse, true},
		{entity.StatusApprouve, entity.StatusCommande, true},
		{entity.StatusEnAttente, entity.StatusCommande, false},
		{entity.StatusApprouve, entity.StatusRefuse, false},
		{entity.StatusApprouve, entity.StatusEnAttente, false},
		{entity.StatusRefuse, entity.StatusApprouve, false},
		{entity.StatusCommande, entity.StatusApprouve, false},
		{entity.StatusCommande, entity.StatusCommande, false},
	}
	for _, tc := range cases {
		pr := &entity.PurchaseRequest{Statut: tc.from}
		err := pr.TransitionTo(tc.to, time.Now())
		if tc.ok {
			require.NoError(t, err, "%s -> %s", tc.from, tc.to)
			assert.Equal(t, tc.to, pr.Statut)
		} else {
			assert.ErrorIs(t, err, domain.ErrInvalidTransition, "%s -> %s", tc.from, tc.to)
			assert.Equal(t, tc.from, pr.Statut, "el estado no cambia si la transición es inválida")
		}
	}
}

func TestValidateLines(t *testing.T) {
	assert.NoError(t, entity.ValidateLines(entity.SingleArticle{ArticleID: "a1", QuantiteDemandee: 4}))
	assert.ErrorIs(t, entity.ValidateLines(entity.SingleArticle{ArticleID: "a1"}), domain.ErrInvalidInput)
	assert.ErrorIs(t, entity.ValidateLines(entity.MultiArticle{}), domain.ErrInvalidInput)
	assert.ErrorIs(t, entity.ValidateLines(nil), domain.ErrInvalidInput)

	neg := decimal.NewFromInt(-1)
	multi := entity.MultiArticle{Items: []entity.PurchaseRequestItem{
		{ArticleID: "a1", QuantiteDemandee: 2},
		{ArticleID: "a2", QuantiteDemandee: 1, PrixUnitaire: &neg},
	}}
	assert.ErrorIs(t, entity.ValidateLines(multi), domain.ErrInvalidInput)

	multi.Items[1].PrixUnitaire = nil
	require.NoError(t, entity.ValidateLines(multi))
	pr := &entity.PurchaseRequest{Lines: multi}
	assert.Equal(t, 2, pr.TotalArticles())
}

func TestArticle_StockStatus(t *testing.T) {
	seuil := 5
	a := &entity.Article{StockActuel: 10, SeuilMinimum: &seuil}
	assert.Equal(t, entity.StockStatusNormal, a.StockStatus())
	a.StockActuel = 5
	assert.Equal(t, entity.StockStatusFaible, a.StockStatus())
	assert.True(t, a.IsLowStock())
	a.StockActuel = 0
	assert.Equal(t, entity.StockStatusRupture, a.StockStatus())
	a.SeuilMinimum = nil
	a.StockActuel = 1
	assert.Equal(t, entity.StockStatusNormal, a.StockStatus())
}
