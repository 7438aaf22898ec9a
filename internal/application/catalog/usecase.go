package catalog

import (
	"context"
	"time"

	"github.com/clinicore/farmacia-api/internal/application/dto"
	"github.com/clinicore/farmacia-api/internal/domain"
	"github.com/clinicore/farmacia-api/internal/domain/entity"
	"github.com/clinicore/farmacia-api/internal/domain/repository"
	"github.com/clinicore/farmacia-api/pkg/idgen"
)

// UseCase administra el ciclo de vida de insumos y lotes: es el único
// escritor de datos maestros del catálogo. Toda mutación exitosa deja su
// rastro en el kardex dentro de la misma transacción.
type UseCase struct {
	txRunner TxRunner
	itemRepo repository.ItemRepository
	ids      idgen.Generator
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner TxRunner, itemRepo repository.ItemRepository, ids idgen.Generator) *UseCase {
	return &UseCase{txRunner: txRunner, itemRepo: itemRepo, ids: ids}
}

// Create da de alta un insumo, opcionalmente con un lote inicial. Si el lote
// inicial trae cantidad positiva se asienta un IN con motivo "initial stock".
func (uc *UseCase) Create(ctx context.Context, actorID string, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	supplyType := entity.SupplyType(in.Type)
	if in.Type == "" {
		supplyType = entity.SupplyOther
	}
	if !supplyType.IsValid() {
		return nil, domain.ErrInvalidInput
	}
	if err := validateThresholds(in.MinStock, in.IdealStock); err != nil {
		return nil, err
	}
	if in.InitialBatch != nil {
		if err := validateBatchSpec(in.InitialBatch); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	item := &entity.InventoryItem{
		ID:            uc.ids.NewID(),
		Name:          in.Name,
		GenericName:   in.GenericName,
		Presentation:  in.Presentation,
		Concentration: in.Concentration,
		Unit:          in.Unit,
		Type:          supplyType,
		MinStock:      in.MinStock,
		IdealStock:    in.IdealStock,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if in.InitialBatch != nil {
		item.Batches = []entity.Batch{batchFromSpec(uc.ids.NewID(), in.InitialBatch, now)}
	}

	err := uc.txRunner.Run(ctx, func(items repository.ItemRepository, movements repository.MovementRepository) error {
		if err := items.Create(item); err != nil {
			return err
		}
		if in.InitialBatch != nil && in.InitialBatch.Quantity > 0 {
			return movements.Create(&entity.StockMovement{
				ID:         uc.ids.NewID(),
				ItemID:     item.ID,
				ItemName:   item.Name,
				BatchLabel: in.InitialBatch.BatchNumber,
				Kind:       entity.MovementIN,
				Quantity:   in.InitialBatch.Quantity,
				Reason:     entity.ReasonInitialStock,
				CreatedAt:  now,
				CreatedBy:  actorID,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// UpdateMaster edita solo datos descriptivos, de clasificación y umbrales;
// nunca lotes ni totales. Asienta un UPDATE con el motivo textual del caller.
func (uc *UseCase) UpdateMaster(ctx context.Context, actorID, itemID string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	if in.Reason == "" {
		return nil, domain.ErrInvalidInput
	}

	var updated *entity.InventoryItem
	err := uc.txRunner.Run(ctx, func(items repository.ItemRepository, movements repository.MovementRepository) error {
		item, err := items.GetForUpdate(itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if in.Name != nil {
			if *in.Name == "" {
				return domain.ErrInvalidInput
			}
			item.Name = *in.Name
		}
		if in.GenericName != nil {
			item.GenericName = *in.GenericName
		}
		if in.Presentation != nil {
			item.Presentation = *in.Presentation
		}
		if in.Concentration != nil {
			item.Concentration = *in.Concentration
		}
		if in.Unit != nil {
			item.Unit = *in.Unit
		}
		if in.Type != nil {
			st := entity.SupplyType(*in.Type)
			if !st.IsValid() {
				return domain.ErrInvalidInput
			}
			item.Type = st
		}
		if in.MinStock != nil {
			item.MinStock = *in.MinStock
		}
		if in.IdealStock != nil {
			item.IdealStock = *in.IdealStock
		}
		if err := validateThresholds(item.MinStock, item.IdealStock); err != nil {
			return err
		}
		item.UpdatedAt = time.Now()
		if err := items.UpdateMaster(item); err != nil {
			return err
		}
		updated = item
		return movements.Create(&entity.StockMovement{
			ID:         uc.ids.NewID(),
			ItemID:     item.ID,
			ItemName:   item.Name,
			BatchLabel: entity.BatchLabelItem,
			Kind:       entity.MovementUPDATE,
			Quantity:   0,
			Reason:     in.Reason,
			CreatedAt:  item.UpdatedAt,
			CreatedBy:  actorID,
		})
	})
	if err != nil {
		return nil, err
	}
	return toItemResponse(updated), nil
}

// AddBatch agrega un lote a un insumo existente. Cantidad positiva asienta
// un IN con motivo "initial stock".
func (uc *UseCase) AddBatch(ctx context.Context, actorID, itemID string, spec dto.BatchSpec) (string, error) {
	if err := validateBatchSpec(&spec); err != nil {
		return "", err
	}
	now := time.Now()
	batch := batchFromSpec(uc.ids.NewID(), &spec, now)

	err := uc.txRunner.Run(ctx, func(items repository.ItemRepository, movements repository.MovementRepository) error {
		item, err := items.GetForUpdate(itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if err := items.AddBatch(itemID, &batch); err != nil {
			return err
		}
		if spec.Quantity > 0 {
			return movements.Create(&entity.StockMovement{
				ID:         uc.ids.NewID(),
				ItemID:     item.ID,
				ItemName:   item.Name,
				BatchLabel: batch.BatchNumber,
				Kind:       entity.MovementIN,
				Quantity:   spec.Quantity,
				Reason:     entity.ReasonInitialStock,
				CreatedAt:  now,
				CreatedBy:  actorID,
			})
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return batch.ID, nil
}

// RemoveBatch elimina un lote. Si el lote aún tiene existencias el caller
// debe confirmar la baja; se asienta el OUT por el remanente completo antes
// de borrar. Un lote en cero se elimina sin confirmación y sin asiento.
// Devuelve las unidades dadas de baja.
func (uc *UseCase) RemoveBatch(ctx context.Context, actorID, itemID, batchID string, confirmWriteOff bool) (int64, error) {
	var writtenOff int64
	err := uc.txRunner.Run(ctx, func(items repository.ItemRepository, movements repository.MovementRepository) error {
		item, err := items.GetForUpdate(itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		batch := item.FindBatch(batchID)
		if batch == nil {
			return domain.ErrNotFound
		}
		if batch.CurrentStock > 0 {
			if !confirmWriteOff {
				return domain.ErrConfirmationRequired
			}
			// El asiento de baja precede al borrado del lote
			if err := movements.Create(&entity.StockMovement{
				ID:         uc.ids.NewID(),
				ItemID:     item.ID,
				ItemName:   item.Name,
				BatchLabel: batch.BatchNumber,
				Kind:       entity.MovementOUT,
				Quantity:   batch.CurrentStock,
				Reason:     entity.ReasonLotWriteOff,
				CreatedAt:  time.Now(),
				CreatedBy:  actorID,
			}); err != nil {
				return err
			}
			writtenOff = batch.CurrentStock
		}
		return items.DeleteBatch(itemID, batchID)
	})
	return writtenOff, err
}

// Delete retira un insumo del catálogo. Siempre exige confirmación: la
// eliminación es irreversible y auditable aunque el total sea cero. Asienta
// exactamente UN OUT combinado por el total del insumo (etiqueta de lote
// centinela), no uno por lote, y después borra el insumo con sus lotes.
// Devuelve las unidades dadas de baja.
func (uc *UseCase) Delete(ctx context.Context, actorID, itemID string, confirm bool) (int64, error) {
	if !confirm {
		return 0, domain.ErrConfirmationRequired
	}
	var writtenOff int64
	err := uc.txRunner.Run(ctx, func(items repository.ItemRepository, movements repository.MovementRepository) error {
		item, err := items.GetForUpdate(itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		total := item.TotalStock()
		if err := movements.Create(&entity.StockMovement{
			ID:         uc.ids.NewID(),
			ItemID:     item.ID,
			ItemName:   item.Name,
			BatchLabel: entity.BatchLabelItem,
			Kind:       entity.MovementOUT,
			Quantity:   total,
			Reason:     entity.ReasonCatalogDeletion,
			CreatedAt:  time.Now(),
			CreatedBy:  actorID,
		}); err != nil {
			return err
		}
		writtenOff = total
		return items.Delete(itemID)
	})
	return writtenOff, err
}

// GetByID obtiene un insumo con sus lotes.
func (uc *UseCase) GetByID(id string) (*dto.ItemResponse, error) {
	item, err := uc.itemRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return toItemResponse(item), nil
}

// List lista insumos con paginación.
func (uc *UseCase) List(page dto.PageRequest) (*dto.ItemListResponse, error) {
	page.DefaultPage()
	list, err := uc.itemRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *toItemResponse(it))
	}
	return &dto.ItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func validateThresholds(minStock, idealStock int64) error {
	if minStock < 0 || idealStock < minStock {
		return domain.ErrInvalidInput
	}
	return nil
}

// validateBatchSpec exige número de lote y una decisión explícita de
// caducidad: fecha concreta o marca de no caducidad, nunca ambas ni ninguna.
func validateBatchSpec(spec *dto.BatchSpec) error {
	if spec.BatchNumber == "" {
		return domain.ErrInvalidInput
	}
	if spec.NeverExpires == (spec.ExpiryDate != nil) {
		return domain.ErrInvalidInput
	}
	if spec.Quantity < 0 {
		return domain.ErrInvalidInput
	}
	return nil
}

func batchFromSpec(id string, spec *dto.BatchSpec, now time.Time) entity.Batch {
	return entity.Batch{
		ID:           id,
		BatchNumber:  spec.BatchNumber,
		ExpiryDate:   spec.ExpiryDate,
		CurrentStock: spec.Quantity,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func toItemResponse(i *entity.InventoryItem) *dto.ItemResponse {
	if i == nil {
		return nil
	}
	batches := make([]dto.BatchResponse, 0, len(i.Batches))
	for _, b := range i.Batches {
		batches = append(batches, dto.BatchResponse{
			ID:           b.ID,
			BatchNumber:  b.BatchNumber,
			ExpiryDate:   b.ExpiryDate,
			NeverExpires: b.NeverExpires(),
			CurrentStock: b.CurrentStock,
		})
	}
	return &dto.ItemResponse{
		ID:            i.ID,
		Name:          i.Name,
		GenericName:   i.GenericName,
		Presentation:  i.Presentation,
		Concentration: i.Concentration,
		Unit:          i.Unit,
		Type:          string(i.Type),
		MinStock:      i.MinStock,
		IdealStock:    i.IdealStock,
		TotalStock:    i.TotalStock(),
		Batches:       batches,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}
