package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/stockceramique/stockceramique-api/internal/application/dto"
	"github.com/stockceramique/stockceramique-api/internal/application/inventory"
	"github.com/stockceramique/stockceramique-api/internal/application/usecase"
	"github.com/stockceramique/stockceramique-api/internal/domain/repository"
)

// StockHandler recepciones, salidas e historial de stock.
type StockHandler struct {
	stock     *inventory.StockUseCase
	documents *usecase.DocumentUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(stock *inventory.StockUseCase, documents *usecase.DocumentUseCase) *StockHandler {
	return &StockHandler{stock: stock, documents: documents}
}

// CreateReception godoc
// @Summary      Registrar recepción (suma al stock y anota un movimiento entree)
// @Tags         receptions
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReceptionRequest  true  "Recepción"
// @Success      201   {object}  dto.ReceptionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/receptions [post]
func (h *StockHandler) CreateReception(c *fiber.Ctx) error {
	var in dto.CreateReceptionRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.stock.CreateReceptionFromRequest(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CreateOutbound godoc
// @Summary      Registrar salida (resta del stock y anota un movimiento sortie)
// @Tags         sorties
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOutboundRequest  true  "Salida"
// @Success      201   {object}  dto.OutboundResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK"
// @Router       /api/sorties [post]
func (h *StockHandler) CreateOutbound(c *fiber.Ctx) error {
	var in dto.CreateOutboundRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.stock.CreateOutboundFromRequest(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *StockHandler) ListReceptions(c *fiber.Ctx) error {
	limit, offset := pagination(c, 50, 500)
	out, err := h.documents.ListReceptions(c.UserContext(), repository.ListFilter{
		ArticleID: c.Query("articleId"), Limit: limit, Offset: offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *StockHandler) GetReception(c *fiber.Ctx) error {
	out, err := h.documents.GetReception(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *StockHandler) ListOutbounds(c *fiber.Ctx) error {
	limit, offset := pagination(c, 50, 500)
	out, err := h.documents.ListOutbounds(c.UserContext(), repository.ListFilter{
		ArticleID: c.Query("articleId"), Limit: limit, Offset: offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *StockHandler) GetOutbound(c *fiber.Ctx) error {
	out, err := h.documents.GetOutbound(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      Historial de movimientos en orden cronológico
// @Tags         stock-movements
// @Produce      json
// @Param        articleId  query  string  false  "Filtrar por artículo"
// @Param        from       query  string  false  "Desde (YYYY-MM-DD o RFC3339)"
// @Param        to         query  string  false  "Hasta (YYYY-MM-DD o RFC3339)"
// @Param        limit      query  int     false  "Límite"
// @Success      200  {array}   dto.StockMovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock-movements [get]
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	filter := repository.MovementFilter{
		ArticleID: c.Query("articleId"),
		Limit:     c.QueryInt("limit", 0),
	}
	var err error
	if filter.From, err = queryDate(c, "from", false); err != nil {
		return badRequest(c, "VALIDATION", "from: date invalide")
	}
	if filter.To, err = queryDate(c, "to", true); err != nil {
		return badRequest(c, "VALIDATION", "to: date invalide")
	}
	list, err := h.stock.ListMovements(c.UserContext(), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewStockMovementResponses(list))
}

// RecentMovements últimos movimientos, más recientes primero.
// GET /api/stock-movements/recent?limit=10
func (h *StockHandler) RecentMovements(c *fiber.Ctx) error {
	list, err := h.stock.RecentMovements(c.UserContext(), c.QueryInt("limit", 10))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewStockMovementResponses(list))
}

// queryDate lee una fecha opcional; un día sin hora como límite superior cubre el día entero.
func queryDate(c *fiber.Ctx, key string, endOfDay bool) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	var d dto.Date
	if err := d.UnmarshalJSON([]byte(raw)); err != nil {
		return nil, err
	}
	t := d.Time
	if endOfDay && len(raw) == len("2006-01-02") {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

// ReplenishmentHandler lista de reposición.
type ReplenishmentHandler struct {
	uc *inventory.ReplenishmentUseCase
}

// NewReplenishmentHandler construye el handler.
func NewReplenishmentHandler(uc *inventory.ReplenishmentUseCase) *ReplenishmentHandler {
	return &ReplenishmentHandler{uc: uc}
}

// List godoc
// @Summary      Sugerencias de reposición (artículos en rupture o faible)
// @Tags         inventory
// @Produce      json
// @Success      200  {array}  inventory.ReplenishmentSuggestion
// @Router       /api/inventory/replenishment [get]
func (h *ReplenishmentHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.GenerateReplenishmentList(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
