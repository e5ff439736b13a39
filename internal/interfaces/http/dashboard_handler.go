package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/stockceramique/stockceramique-api/internal/application/usecase"
)

// DashboardHandler indicadores de la página de inicio.
type DashboardHandler struct {
	uc *usecase.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *usecase.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetStats devuelve totales de artículos, artículos bajo umbral, demandas en_attente
// y recepciones/salidas del día.
// GET /api/dashboard/stats
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.uc.GetStats(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(stats)
}
