package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/stockceramique/stockceramique-api/internal/application/inventory"
	"github.com/stockceramique/stockceramique-api/internal/application/procurement"
	"github.com/stockceramique/stockceramique-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ArticleUC       *usecase.ArticleUseCase
	SupplierUC      *usecase.SupplierUseCase
	RequestorUC     *usecase.RequestorUseCase
	DocumentUC      *usecase.DocumentUseCase
	DashboardUC     *usecase.DashboardUseCase
	StockUC         *inventory.StockUseCase
	ReplenishmentUC *inventory.ReplenishmentUseCase
	ProcurementUC   *procurement.UseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Articles: las rutas fijas van antes de /:id
	articles := api.Group("/articles")
	articleHandler := NewArticleHandler(deps.ArticleUC, deps.StockUC)
	articles.Get("/low-stock", articleHandler.LowStock)
	articles.Post("/", articleHandler.Create)
	articles.Get("/", articleHandler.List)
	articles.Get("/:id", articleHandler.GetByID)
	articles.Put("/:id", articleHandler.Update)
	articles.Delete("/:id", articleHandler.Delete)
	articles.Get("/:id/reconciliation", articleHandler.Reconcile)

	suppliers := api.Group("/fournisseurs")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", supplierHandler.Update)
	suppliers.Delete("/:id", supplierHandler.Delete)

	requestors := api.Group("/demandeurs")
	requestorHandler := NewRequestorHandler(deps.RequestorUC)
	requestors.Post("/", requestorHandler.Create)
	requestors.Get("/", requestorHandler.List)
	requestors.Get("/:id", requestorHandler.GetByID)
	requestors.Put("/:id", requestorHandler.Update)
	requestors.Delete("/:id", requestorHandler.Delete)

	// Stock: recepciones, salidas e historial
	stockHandler := NewStockHandler(deps.StockUC, deps.DocumentUC)
	api.Post("/receptions", stockHandler.CreateReception)
	api.Get("/receptions", stockHandler.ListReceptions)
	api.Get("/receptions/:id", stockHandler.GetReception)
	api.Post("/sorties", stockHandler.CreateOutbound)
	api.Get("/sorties", stockHandler.ListOutbounds)
	api.Get("/sorties/:id", stockHandler.GetOutbound)
	api.Get("/stock-movements/recent", stockHandler.RecentMovements)
	api.Get("/stock-movements", stockHandler.ListMovements)

	replenishmentHandler := NewReplenishmentHandler(deps.ReplenishmentUC)
	api.Get("/inventory/replenishment", replenishmentHandler.List)

	// Demandes d'achat
	requests := api.Group("/demandes-achat")
	requestHandler := NewPurchaseRequestHandler(deps.ProcurementUC)
	requests.Get("/en-attente-reception", requestHandler.AwaitingReception)
	requests.Get("/approuvees", requestHandler.ApprovedOrOrdered)
	requests.Post("/", requestHandler.Create)
	requests.Get("/", requestHandler.List)
	requests.Get("/:id", requestHandler.GetByID)
	requests.Delete("/:id", requestHandler.Delete)
	requests.Post("/:id/approuver", requestHandler.Approve)
	requests.Post("/:id/refuser", requestHandler.Refuse)
	requests.Post("/:id/convert-to-reception", requestHandler.ConvertToReception)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	api.Get("/dashboard/stats", dashboardHandler.GetStats)
}
