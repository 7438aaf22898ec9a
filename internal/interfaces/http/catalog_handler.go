package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clinicore/farmacia-api/internal/application/catalog"
	"github.com/clinicore/farmacia-api/internal/application/dto"
	"github.com/clinicore/farmacia-api/pkg/metrics"
)

// CatalogHandler maneja las peticiones HTTP del catálogo de insumos y sus
// lotes (protegido).
type CatalogHandler struct {
	uc *catalog.UseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *catalog.UseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// Create da de alta un insumo, opcionalmente con lote inicial.
func (h *CatalogHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.uc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// List lista insumos con paginación (?limit=&offset=).
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	list, err := h.uc.List(page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// GetByID obtiene un insumo con sus lotes.
func (h *CatalogHandler) GetByID(c *fiber.Ctx) error {
	item, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

// UpdateMaster edita datos maestros. El body exige reason.
func (h *CatalogHandler) UpdateMaster(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.uc.UpdateMaster(c.Context(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

// AddBatch agrega un lote a un insumo existente.
func (h *CatalogHandler) AddBatch(c *fiber.Ctx) error {
	var spec dto.BatchSpec
	if err := c.BodyParser(&spec); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	batchID, err := h.uc.AddBatch(c.Context(), GetUserID(c), c.Params("id"), spec)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"batch_id": batchID})
}

// RemoveBatch elimina un lote. Con existencias exige ?confirm=true y la baja
// queda asentada en el kardex.
func (h *CatalogHandler) RemoveBatch(c *fiber.Ctx) error {
	confirm := c.QueryBool("confirm")
	writtenOff, err := h.uc.RemoveBatch(c.Context(), GetUserID(c), c.Params("id"), c.Params("batchId"), confirm)
	if err != nil {
		return respondError(c, err)
	}
	if writtenOff > 0 {
		metrics.WriteOffUnits.Add(float64(writtenOff))
	}
	return c.JSON(fiber.Map{"written_off": writtenOff})
}

// Delete retira un insumo del catálogo. Siempre exige ?confirm=true.
func (h *CatalogHandler) Delete(c *fiber.Ctx) error {
	confirm := c.QueryBool("confirm")
	writtenOff, err := h.uc.Delete(c.Context(), GetUserID(c), c.Params("id"), confirm)
	if err != nil {
		return respondError(c, err)
	}
	if writtenOff > 0 {
		metrics.WriteOffUnits.Add(float64(writtenOff))
	}
	return c.JSON(fiber.Map{"written_off": writtenOff})
}
