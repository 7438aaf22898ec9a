package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clinicore/farmacia-api/internal/application/replenishment"
)

// ReplenishmentHandler reporte de déficit de reposición (protegido).
type ReplenishmentHandler struct {
	uc *replenishment.UseCase
}

// NewReplenishmentHandler construye el handler.
func NewReplenishmentHandler(uc *replenishment.UseCase) *ReplenishmentHandler {
	return &ReplenishmentHandler{uc: uc}
}

// List devuelve los insumos bajo su objetivo de reposición, ordenados por
// urgencia.
func (h *ReplenishmentHandler) List(c *fiber.Ctx) error {
	deficits, err := h.uc.ComputeDeficits()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":    len(deficits),
		"deficits": deficits,
	})
}
