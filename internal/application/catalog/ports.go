package catalog

import (
	"context"

	"github.com/clinicore/farmacia-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando
// repositorios atados a esa transacción. Garantiza que la mutación del
// insumo y sus asientos de kardex se confirman o se descartan juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		items repository.ItemRepository,
		movements repository.MovementRepository,
	) error) error
}
