package dispense

import (
	"context"

	"github.com/clinicore/farmacia-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción que abarca insumos,
// kardex y emisión de cargos: el plan de extracción, sus asientos OUT y la
// línea de cargo se confirman o se descartan juntos.
type TxRunner interface {
	RunDispense(ctx context.Context, fn func(
		items repository.ItemRepository,
		movements repository.MovementRepository,
		charges repository.ChargeRepository,
	) error) error
}
