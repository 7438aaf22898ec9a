package kardex

import (
	"github.com/clinicore/farmacia-api/internal/application/dto"
	"github.com/clinicore/farmacia-api/internal/domain/entity"
	"github.com/clinicore/farmacia-api/internal/domain/repository"
)

// MovementExporter serializa asientos del kardex a un formato de descarga
// (puerto; la implementación vive en infraestructura).
type MovementExporter interface {
	Export(movements []*entity.StockMovement) ([]byte, error)
}

// UseCase consultas de solo lectura sobre el kardex. Nunca muta estado.
type UseCase struct {
	movRepo  repository.MovementRepository
	exporter MovementExporter
}

// NewUseCase construye el caso de uso.
func NewUseCase(movRepo repository.MovementRepository, exporter MovementExporter) *UseCase {
	return &UseCase{movRepo: movRepo, exporter: exporter}
}

// Search filtra el kardex por texto libre (nombre de insumo, etiqueta de
// lote o motivo), del asiento más reciente al más antiguo. La paginación
// limit/offset hace la secuencia reiniciable desde cualquier punto.
func (uc *UseCase) Search(filter string, page dto.PageRequest) (*dto.KardexListResponse, error) {
	page.DefaultPage()
	list, err := uc.movRepo.Search(filter, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	movements := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		movements = append(movements, toMovementResponse(m))
	}
	return &dto.KardexListResponse{
		Movements: movements,
		Page:      dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// ListByItem lista la historia de un insumo concreto.
func (uc *UseCase) ListByItem(itemID string, page dto.PageRequest) (*dto.KardexListResponse, error) {
	page.DefaultPage()
	list, err := uc.movRepo.ListByItem(itemID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	movements := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		movements = append(movements, toMovementResponse(m))
	}
	return &dto.KardexListResponse{
		Movements: movements,
		Page:      dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// exportBatchSize tope de asientos por archivo exportado.
const exportBatchSize = 10000

// Export genera el archivo de auditoría con los asientos que cumplan el
// filtro, más reciente primero.
func (uc *UseCase) Export(filter string) ([]byte, error) {
	list, err := uc.movRepo.Search(filter, exportBatchSize, 0)
	if err != nil {
		return nil, err
	}
	return uc.exporter.Export(list)
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:         m.ID,
		ItemID:     m.ItemID,
		ItemName:   m.ItemName,
		BatchLabel: m.BatchLabel,
		Kind:       m.Kind,
		Quantity:   m.Quantity,
		Reason:     m.Reason,
		CreatedAt:  m.CreatedAt,
		CreatedBy:  m.CreatedBy,
	}
}
