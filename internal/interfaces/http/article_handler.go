package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/stockceramique/stockceramique-api/internal/application/dto"
	"github.com/stockceramique/stockceramique-api/internal/application/inventory"
	"github.com/stockceramique/stockceramique-api/internal/application/usecase"
	"github.com/stockceramique/stockceramique-api/internal/domain/repository"
)

// ArticleHandler maneja las peticiones HTTP del catálogo de artículos.
type ArticleHandler struct {
	uc    *usecase.ArticleUseCase
	stock *inventory.StockUseCase
}

// NewArticleHandler construye el handler.
func NewArticleHandler(uc *usecase.ArticleUseCase, stock *inventory.StockUseCase) *ArticleHandler {
	return &ArticleHandler{uc: uc, stock: stock}
}

// Create godoc
// @Summary      Crear artículo
// @Tags         articles
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateArticleRequest  true  "Datos del artículo"
// @Success      201   {object}  dto.ArticleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/articles [post]
func (h *ArticleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateArticleRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener artículo por ID
// @Tags         articles
// @Produce      json
// @Param        id   path  string  true  "ID del artículo"
// @Success      200  {object}  dto.ArticleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/articles/{id} [get]
func (h *ArticleHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar artículos
// @Tags         articles
// @Produce      json
// @Param        search     query  string  false  "Búsqueda en código, designación, referencia y marca"
// @Param        categorie  query  string  false  "Categoría"
// @Param        limit      query  int     false  "Límite"  default(50)
// @Param        offset     query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.ArticleListResponse
// @Router       /api/articles [get]
func (h *ArticleHandler) List(c *fiber.Ctx) error {
	limit, offset := pagination(c, 50, 200)
	out, err := h.uc.List(c.UserContext(), repository.ArticleFilter{
		Search:    c.Query("search"),
		Categorie: c.Query("categorie"),
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar artículo (sin tocar el stock)
// @Tags         articles
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del artículo"
// @Param        body  body  dto.UpdateArticleRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.ArticleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/articles/{id} [put]
func (h *ArticleHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateArticleRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar artículo
// @Tags         articles
// @Param        id   path  string  true  "ID del artículo"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/articles/{id} [delete]
func (h *ArticleHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LowStock artículos en rupture o bajo su umbral mínimo.
// GET /api/articles/low-stock
func (h *ArticleHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.uc.ListLowStock(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Reconcile compara stockActuel con stockInitial + Σ movimientos del artículo.
// GET /api/articles/:id/reconciliation
func (h *ArticleHandler) Reconcile(c *fiber.Ctx) error {
	report, err := h.stock.ReconcileArticle(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(report)
}

// pagination lee limit y offset acotados a [1, max] y [0, ∞).
func pagination(c *fiber.Ctx, def, max int) (int, int) {
	limit := c.QueryInt("limit", def)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
