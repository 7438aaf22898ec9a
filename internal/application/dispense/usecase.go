package dispense

import (
	"context"
	"time"

	"github.com/clinicore/farmacia-api/internal/application/dto"
	"github.com/clinicore/farmacia-api/internal/domain"
	"github.com/clinicore/farmacia-api/internal/domain/entity"
	"github.com/clinicore/farmacia-api/internal/domain/fefo"
	"github.com/clinicore/farmacia-api/internal/domain/repository"
	"github.com/clinicore/farmacia-api/pkg/idgen"
)

// UseCase es el motor de asignación FEFO: decide qué lotes surten una
// dispensación, descuenta sus existencias, asienta cada toma en el kardex y
// emite la línea de cargo — todo o nada.
type UseCase struct {
	txRunner  TxRunner
	priceRepo repository.PriceRepository
	ids       idgen.Generator
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner TxRunner, priceRepo repository.PriceRepository, ids idgen.Generator) *UseCase {
	return &UseCase{txRunner: txRunner, priceRepo: priceRepo, ids: ids}
}

// Allocate dispensa la cantidad solicitada de un insumo. La disponibilidad
// se verifica dentro de la sección crítica del insumo antes de mutar nada:
// con stock insuficiente no hay extracción parcial, ni asientos, ni cargo.
// Cada lote intervenido produce su propio asiento OUT; el cargo es uno solo
// por dispensación y se emite aunque el insumo no tenga precio vinculado
// (precio 0: tarificación y control de stock son independientes).
func (uc *UseCase) Allocate(ctx context.Context, actorID string, in dto.DispenseRequest) (*dto.DispenseResponse, error) {
	if in.ItemID == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}

	// Resolución de precio fuera de la transacción: es solo lectura del
	// catálogo externo y su ausencia nunca bloquea la dispensación.
	unitPrice, taxRate, _, err := uc.priceRepo.Resolve(in.ItemID)
	if err != nil {
		return nil, err
	}

	reason := in.Context
	if reason == "" {
		reason = "dispensación"
	}
	if in.AdHoc {
		reason += entity.AdHocMarker
	}

	var resp *dto.DispenseResponse
	err = uc.txRunner.RunDispense(ctx, func(
		items repository.ItemRepository,
		movements repository.MovementRepository,
		charges repository.ChargeRepository,
	) error {
		item, err := items.GetForUpdate(in.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}

		plan, err := fefo.Plan(item.Batches, in.Quantity)
		if err != nil {
			return err
		}

		now := time.Now()
		draws := make([]dto.DrawDTO, 0, len(plan))
		for _, draw := range plan {
			batch := item.FindBatch(draw.BatchID)
			newStock := batch.CurrentStock - draw.Quantity
			if err := items.UpdateBatchStock(item.ID, draw.BatchID, newStock); err != nil {
				return err
			}
			batch.CurrentStock = newStock
			if err := movements.Create(&entity.StockMovement{
				ID:         uc.ids.NewID(),
				ItemID:     item.ID,
				ItemName:   item.Name,
				BatchLabel: draw.BatchNumber,
				Kind:       entity.MovementOUT,
				Quantity:   draw.Quantity,
				Reason:     reason,
				CreatedAt:  now,
				CreatedBy:  actorID,
			}); err != nil {
				return err
			}
			draws = append(draws, dto.DrawDTO{
				BatchID:     draw.BatchID,
				BatchNumber: draw.BatchNumber,
				Quantity:    draw.Quantity,
			})
		}

		charge := entity.NewChargeLine(item.ID, item.Name, in.PatientRef, in.Quantity, unitPrice, taxRate, now)
		charge.ID = uc.ids.NewID()
		if err := charges.Create(charge); err != nil {
			return err
		}

		resp = &dto.DispenseResponse{
			ItemID:    item.ID,
			Quantity:  in.Quantity,
			DrawPlan:  draws,
			Charge:    toChargeDTO(charge),
			Remaining: item.TotalStock(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func toChargeDTO(c *entity.ChargeLine) dto.ChargeLineDTO {
	return dto.ChargeLineDTO{
		ID:         c.ID,
		ItemID:     c.ItemID,
		ItemName:   c.ItemName,
		PatientRef: c.PatientRef,
		Quantity:   c.Quantity,
		UnitPrice:  c.UnitPrice,
		TaxRate:    c.TaxRate,
		Total:      c.Total,
		CreatedAt:  c.CreatedAt,
	}
}
