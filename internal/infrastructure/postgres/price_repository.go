package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/clinicore/farmacia-api/internal/domain/repository"
)

var _ repository.PriceRepository = (*PriceRepo)(nil)

// PriceRepo lectura del catálogo de precios externo (tabla replicada
// price_links). Este adaptador nunca escribe en ella.
type PriceRepo struct {
	q Querier
}

// NewPriceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPriceRepository(q Querier) *PriceRepo {
	return &PriceRepo{q: q}
}

// Resolve devuelve precio unitario y tasa de impuesto del insumo, o ceros
// con linked=false si no hay vínculo. La ausencia no es un error.
func (r *PriceRepo) Resolve(itemID string) (decimal.Decimal, decimal.Decimal, bool, error) {
	query := `SELECT unit_price, tax_rate FROM price_links WHERE item_id = $1`
	var unitPrice, taxRate decimal.Decimal
	err := r.q.QueryRow(context.Background(), query, itemID).Scan(&unitPrice, &taxRate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, decimal.Zero, false, nil
		}
		return decimal.Zero, decimal.Zero, false, fmt.Errorf("resolve price: %w", err)
	}
	return unitPrice, taxRate, true, nil
}
