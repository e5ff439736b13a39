package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/stockceramique/stockceramique-api/internal/application/inventory"
	"github.com/stockceramique/stockceramique-api/internal/application/procurement"
	"github.com/stockceramique/stockceramique-api/internal/application/usecase"
	httpRouter "github.com/stockceramique/stockceramique-api/internal/interfaces/http"
	"github.com/stockceramique/stockceramique-api/pkg/config"
	"github.com/stockceramique/stockceramique-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		AppName: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log.Component("storage"))
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer store.close()
	repos := store.repos

	stockUC := inventory.NewStockUseCase(store.txRunner, repos.Articles, repos.Movements, log.Zerolog())
	procurementUC := procurement.NewUseCase(store.txRunner, repos.PurchaseRequests, stockUC, log.Zerolog())
	deps := httpRouter.RouterDeps{
		ArticleUC:       usecase.NewArticleUseCase(repos.Articles, repos.Suppliers),
		SupplierUC:      usecase.NewSupplierUseCase(repos.Suppliers),
		RequestorUC:     usecase.NewRequestorUseCase(repos.Requestors),
		DocumentUC:      usecase.NewDocumentUseCase(repos.Receptions, repos.Outbounds),
		DashboardUC:     usecase.NewDashboardUseCase(repos.Articles, repos.PurchaseRequests, repos.Receptions, repos.Outbounds),
		StockUC:         stockUC,
		ReplenishmentUC: inventory.NewReplenishmentUseCase(repos.Articles),
		ProcurementUC:   procurementUC,
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.HTTP.AllowOrigins}))
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "StockCéramique API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger.json no encontrado, /docs deshabilitado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.Storage.Driver})
	})

	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
