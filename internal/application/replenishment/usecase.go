package replenishment

import (
	"sort"

	"github.com/clinicore/farmacia-api/internal/application/dto"
	"github.com/clinicore/farmacia-api/internal/domain/repository"
)

// UseCase genera el reporte de déficit de reposición: qué insumos están por
// debajo de su objetivo y cuánto falta. Solo lectura, sin estado.
type UseCase struct {
	itemRepo repository.ItemRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(itemRepo repository.ItemRepository) *UseCase {
	return &UseCase{itemRepo: itemRepo}
}

// ComputeDeficits devuelve todo insumo con total < max(ideal, min), con su
// déficit (objetivo − total), ordenado por déficit descendente y con ranking
// de prioridad (1 = más urgente). Los insumos en o sobre el objetivo quedan
// fuera.
func (uc *UseCase) ComputeDeficits() ([]dto.DeficitDTO, error) {
	items, err := uc.itemRepo.ListBelowTarget()
	if err != nil {
		return nil, err
	}

	deficits := make([]dto.DeficitDTO, 0, len(items))
	for _, item := range items {
		total := item.TotalStock()
		target := item.ReplenishmentTarget()
		if total >= target {
			continue
		}
		deficits = append(deficits, dto.DeficitDTO{
			ItemID:     item.ID,
			Name:       item.Name,
			Type:       string(item.Type),
			TotalStock: total,
			Target:     target,
			Deficit:    target - total,
			BelowMin:   total < item.MinStock,
		})
	}

	sort.SliceStable(deficits, func(i, j int) bool {
		if deficits[i].Deficit != deficits[j].Deficit {
			return deficits[i].Deficit > deficits[j].Deficit
		}
		// Empate: bajo el piso de alerta primero
		return deficits[i].BelowMin && !deficits[j].BelowMin
	})
	for i := range deficits {
		deficits[i].Priority = i + 1
	}
	return deficits, nil
}
