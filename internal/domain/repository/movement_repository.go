package repository

import "github.com/clinicore/farmacia-api/internal/domain/entity"

// MovementRepository define el puerto del kardex: bitácora solo-apéndice.
// No existen Update ni Delete a propósito; los asientos son inmutables.
type MovementRepository interface {
	Create(movement *entity.StockMovement) error
	// Search filtra por texto libre sobre nombre de insumo, etiqueta de lote
	// y motivo, del más reciente al más antiguo. filter vacío lista todo.
	Search(filter string, limit, offset int) ([]*entity.StockMovement, error)
	ListByItem(itemID string, limit, offset int) ([]*entity.StockMovement, error)
}
