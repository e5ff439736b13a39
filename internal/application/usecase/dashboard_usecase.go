package usecase

import (
	"context"
	"time"

	"github.com/stockceramique/stockceramique-api/internal/application/dto"
	"github.com/stockceramique/stockceramique-api/internal/domain/entity"
	"github.com/stockceramique/stockceramique-api/internal/domain/repository"
	"golang.org/x/sync/errgroup"
)

// DashboardUseCase genera los indicadores de la página de inicio.
// Solo lecturas; las consultas son independientes y se lanzan en paralelo.
type DashboardUseCase struct {
	articles   repository.ArticleRepository
	requests   repository.PurchaseRequestRepository
	receptions repository.ReceptionRepository
	outbounds  repository.OutboundRepository
	now        func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	articles repository.ArticleRepository,
	requests repository.PurchaseRequestRepository,
	receptions repository.ReceptionRepository,
	outbounds repository.OutboundRepository,
) *DashboardUseCase {
	return &DashboardUseCase{
		articles:   articles,
		requests:   requests,
		receptions: receptions,
		outbounds:  outbounds,
		now:        time.Now,
	}
}

// GetStats calcula los totales. "Du jour" cuenta desde las 00:00 locales.
func (uc *DashboardUseCase) GetStats(ctx context.Context) (*dto.DashboardStatsResponse, error) {
	now := uc.now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var out dto.DashboardStatsResponse
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := uc.articles.Count(gctx)
		out.TotalArticles = n
		return err
	})
	g.Go(func() error {
		low, err := uc.articles.ListLowStock(gctx)
		out.ArticlesSousSeuil = len(low)
		return err
	})
	g.Go(func() error {
		pending, err := uc.requests.List(gctx, entity.StatusEnAttente)
		out.DemandesEnAttente = len(pending)
		return err
	})
	g.Go(func() error {
		n, err := uc.receptions.CountSince(gctx, todayStart)
		out.ReceptionsDuJour = n
		return err
	})
	g.Go(func() error {
		n, err := uc.outbounds.CountSince(gctx, todayStart)
		out.SortiesDuJour = n
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}
