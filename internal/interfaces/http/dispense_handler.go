package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/clinicore/farmacia-api/internal/application/dispense"
	"github.com/clinicore/farmacia-api/internal/application/dto"
	"github.com/clinicore/farmacia-api/internal/domain"
	"github.com/clinicore/farmacia-api/pkg/metrics"
)

// DispenseHandler maneja la dispensación FEFO (protegido).
type DispenseHandler struct {
	uc *dispense.UseCase
}

// NewDispenseHandler construye el handler.
func NewDispenseHandler(uc *dispense.UseCase) *DispenseHandler {
	return &DispenseHandler{uc: uc}
}

// Allocate dispensa una cantidad de un insumo contra sus lotes en orden FEFO.
func (h *DispenseHandler) Allocate(c *fiber.Ctx) error {
	var in dto.DispenseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.Allocate(c.Context(), GetUserID(c), in)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			metrics.InsufficientStock.Inc()
		}
		return respondError(c, err)
	}
	metrics.DispensesTotal.Inc()
	metrics.DispensedUnits.Add(float64(resp.Quantity))
	return c.Status(fiber.StatusCreated).JSON(resp)
}
