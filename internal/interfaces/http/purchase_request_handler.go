package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/stockceramique/stockceramique-api/internal/application/dto"
	"github.com/stockceramique/stockceramique-api/internal/application/procurement"
	"github.com/stockceramique/stockceramique-api/internal/domain/entity"
)

// PurchaseRequestHandler demandas de compra y su conversión en recepción.
type PurchaseRequestHandler struct {
	uc *procurement.UseCase
}

// NewPurchaseRequestHandler construye el handler.
func NewPurchaseRequestHandler(uc *procurement.UseCase) *PurchaseRequestHandler {
	return &PurchaseRequestHandler{uc: uc}
}

// Create godoc
// @Summary      Crear demanda de compra (en_attente)
// @Tags         demandes-achat
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseRequestRequest  true  "Demanda: campos directos o items"
// @Success      201   {object}  dto.PurchaseRequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/demandes-achat [post]
func (h *PurchaseRequestHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseRequestRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.CreateFromRequest(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar demandas de compra
// @Tags         demandes-achat
// @Produce      json
// @Param        statut  query  string  false  "en_attente | approuve | refuse | commande"
// @Success      200  {array}   dto.PurchaseRequestResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/demandes-achat [get]
func (h *PurchaseRequestHandler) List(c *fiber.Ctx) error {
	return h.respondList(c)(h.uc.List(c.UserContext(), c.Query("statut")))
}

// AwaitingReception demandas approuve pendientes de conversión.
// GET /api/demandes-achat/en-attente-reception
func (h *PurchaseRequestHandler) AwaitingReception(c *fiber.Ctx) error {
	return h.respondList(c)(h.uc.ListAwaitingReception(c.UserContext()))
}

// ApprovedOrOrdered demandas approuve o commande.
// GET /api/demandes-achat/approuvees
func (h *PurchaseRequestHandler) ApprovedOrOrdered(c *fiber.Ctx) error {
	return h.respondList(c)(h.uc.ListApprovedOrOrdered(c.UserContext()))
}

func (h *PurchaseRequestHandler) respondList(c *fiber.Ctx) func([]*entity.PurchaseRequest, error) error {
	return func(list []*entity.PurchaseRequest, err error) error {
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(procurement.ToResponses(list))
	}
}

func (h *PurchaseRequestHandler) GetByID(c *fiber.Ctx) error {
	return h.respondOne(c, fiber.StatusOK)(h.uc.GetByID(c.UserContext(), c.Params("id")))
}

// Approve en_attente -> approuve.
// POST /api/demandes-achat/:id/approuver
func (h *PurchaseRequestHandler) Approve(c *fiber.Ctx) error {
	return h.respondOne(c, fiber.StatusOK)(h.uc.Approve(c.UserContext(), c.Params("id")))
}

// Refuse en_attente -> refuse.
// POST /api/demandes-achat/:id/refuser
func (h *PurchaseRequestHandler) Refuse(c *fiber.Ctx) error {
	return h.respondOne(c, fiber.StatusOK)(h.uc.Refuse(c.UserContext(), c.Params("id")))
}

func (h *PurchaseRequestHandler) respondOne(c *fiber.Ctx, status int) func(*entity.PurchaseRequest, error) error {
	return func(pr *entity.PurchaseRequest, err error) error {
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(status).JSON(dto.NewPurchaseRequestResponse(pr))
	}
}

// Delete solo demandas en_attente o refuse.
func (h *PurchaseRequestHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ConvertToReception godoc
// @Summary      Convertir demanda aprobada en recepción(es); pasa a commande
// @Tags         demandes-achat
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la demanda"
// @Param        body  body  dto.ConvertToReceptionRequest  false  "Valores que prevalecen sobre la demanda"
// @Success      201   {object}  dto.ConvertToReceptionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "INVALID_TRANSITION"
// @Router       /api/demandes-achat/{id}/convert-to-reception [post]
func (h *PurchaseRequestHandler) ConvertToReception(c *fiber.Ctx) error {
	var in dto.ConvertToReceptionRequest
	if len(c.Body()) > 0 {
		if ok, err := parseBody(c, &in); !ok {
			return err
		}
	}
	out, err := h.uc.ConvertFromRequest(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
