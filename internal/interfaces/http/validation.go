package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

// newValidator usa el nombre JSON de cada campo en los mensajes.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// parseBody decodifica el JSON y aplica las etiquetas validate del DTO.
// Si falla ya escribió la respuesta 400 y devuelve ok=false.
func parseBody(c *fiber.Ctx, in any) (bool, error) {
	if err := c.BodyParser(in); err != nil {
		return false, badRequest(c, "INVALID_BODY", "corps de requête invalide")
	}
	if err := validate.Struct(in); err != nil {
		return false, badRequest(c, "VALIDATION", describe(err))
	}
	return true, nil
}

// describe resume los campos rechazados: "quantiteSortie: gt, motifSortie: required".
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fe.Field()+": "+fe.Tag())
	}
	return strings.Join(parts, ", ")
}
