package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/clinicore/farmacia-api/internal/application/auth"
	"github.com/clinicore/farmacia-api/internal/application/catalog"
	"github.com/clinicore/farmacia-api/internal/application/dispense"
	"github.com/clinicore/farmacia-api/internal/application/dto"
	"github.com/clinicore/farmacia-api/internal/application/kardex"
	"github.com/clinicore/farmacia-api/internal/application/replenishment"
	"github.com/clinicore/farmacia-api/internal/domain"
	"github.com/clinicore/farmacia-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CatalogUC       *catalog.UseCase
	DispenseUC      *dispense.UseCase
	KardexUC        *kardex.UseCase
	ReplenishmentUC *replenishment.UseCase
	AuthUC          *auth.UseCase
	JWTSecret       string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	pharmacy := RequireRole(entity.RoleAdmin, entity.RoleFarmaceutico)

	// Catálogo de insumos y lotes (protegido). Las mutaciones quedan en
	// manos de farmacia; la eliminación de catálogo solo del admin.
	items := protected.Group("/items")
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	items.Post("/", pharmacy, catalogHandler.Create)
	items.Get("/", catalogHandler.List)
	items.Get("/:id", catalogHandler.GetByID)
	items.Put("/:id", pharmacy, catalogHandler.UpdateMaster)
	items.Post("/:id/batches", pharmacy, catalogHandler.AddBatch)
	items.Delete("/:id/batches/:batchId", pharmacy, catalogHandler.RemoveBatch)
	items.Delete("/:id", RequireRole(entity.RoleAdmin), catalogHandler.Delete)

	// Dispensación FEFO (protegido)
	dispenseHandler := NewDispenseHandler(deps.DispenseUC)
	protected.Post("/dispense", pharmacy, dispenseHandler.Allocate)

	// Kardex (protegido; lectura también para auditoría)
	kardexGroup := protected.Group("/kardex")
	kardexHandler := NewKardexHandler(deps.KardexUC)
	kardexGroup.Get("/", kardexHandler.Search)
	kardexGroup.Get("/export", RequireRole(entity.RoleAdmin, entity.RoleAuditoria), kardexHandler.Export)
	items.Get("/:id/kardex", kardexHandler.ListByItem)

	// Reposición (protegido)
	replenishmentHandler := NewReplenishmentHandler(deps.ReplenishmentUC)
	protected.Get("/replenishment", replenishmentHandler.List)
}

// respondError traduce los errores de dominio a estado HTTP y cuerpo
// uniforme. Los handlers solo interceptan antes cuando necesitan un código
// más específico.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el recurso ya existe"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrConfirmationRequired):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFIRMATION_REQUIRED", Message: "la operación da de baja existencias; confirme con ?confirm=true"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
