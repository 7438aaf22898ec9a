package repository

import "github.com/clinicore/farmacia-api/internal/domain/entity"

// ItemRepository define el puerto de persistencia para InventoryItem y sus
// lotes (DIP). Las implementaciones devuelven (nil, nil) cuando el insumo no
// existe; decidir el error de negocio es trabajo del caso de uso.
type ItemRepository interface {
	Create(item *entity.InventoryItem) error
	GetByID(id string) (*entity.InventoryItem, error)
	// GetForUpdate obtiene el insumo serializando mutaciones concurrentes
	// sobre el mismo id (fila bloqueada en SQL, sección crítica en memoria).
	GetForUpdate(id string) (*entity.InventoryItem, error)
	UpdateMaster(item *entity.InventoryItem) error
	AddBatch(itemID string, batch *entity.Batch) error
	UpdateBatchStock(itemID, batchID string, quantity int64) error
	DeleteBatch(itemID, batchID string) error
	Delete(id string) error
	List(limit, offset int) ([]*entity.InventoryItem, error)
	// ListBelowTarget devuelve los insumos cuyo stock total está por debajo
	// de max(IdealStock, MinStock).
	ListBelowTarget() ([]*entity.InventoryItem, error)
}
