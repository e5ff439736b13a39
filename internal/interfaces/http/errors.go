package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/stockceramique/stockceramique-api/internal/application/dto"
	"github.com/stockceramique/stockceramique-api/internal/domain"
)

// errorMapping código HTTP y código de error por cada error de dominio.
var errorMapping = []struct {
	target  error
	status  int
	code    string
	message string
}{
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", "ressource introuvable"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION", "données invalides"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK", "stock insuffisant"},
	{domain.ErrInvalidTransition, fiber.StatusConflict, "INVALID_TRANSITION", "transition de statut non autorisée"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE", "code déjà utilisé"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT", "ressource utilisée ailleurs"},
	{domain.ErrInconsistentState, fiber.StatusInternalServerError, "INCONSISTENT_STATE", "historique de stock incohérent"},
}

// writeError traduce err a la respuesta JSON. Los errores de infraestructura no exponen detalle.
func writeError(c *fiber.Ctx, err error) error {
	for _, m := range errorMapping {
		if errors.Is(err, m.target) {
			msg := m.message
			if m.status != fiber.StatusInternalServerError {
				msg = err.Error()
			}
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: msg})
		}
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "erreur interne"})
}

func badRequest(c *fiber.Ctx, code, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: message})
}
