package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/clinicore/farmacia-api/internal/application/dto"
	"github.com/clinicore/farmacia-api/internal/application/kardex"
)

// KardexHandler consultas de solo lectura sobre el libro de movimientos
// (protegido; los auditores tienen acceso).
type KardexHandler struct {
	uc *kardex.UseCase
}

// NewKardexHandler construye el handler.
func NewKardexHandler(uc *kardex.UseCase) *KardexHandler {
	return &KardexHandler{uc: uc}
}

// Search lista el kardex filtrado por texto libre (?filter=), más reciente
// primero, con paginación ?limit=&offset=.
func (h *KardexHandler) Search(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	list, err := h.uc.Search(c.Query("filter"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// ListByItem lista la historia de movimientos de un insumo.
func (h *KardexHandler) ListByItem(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	list, err := h.uc.ListByItem(c.Params("id"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// Export descarga el kardex filtrado como XLSX.
func (h *KardexHandler) Export(c *fiber.Ctx) error {
	data, err := h.uc.Export(c.Query("filter"))
	if err != nil {
		return respondError(c, err)
	}
	filename := fmt.Sprintf("kardex_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
