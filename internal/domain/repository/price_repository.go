package repository

import "github.com/shopspring/decimal"

// PriceRepository es el puerto de solo lectura hacia el catálogo de precios
// externo. "Sin precio vinculado" no es un error: se resuelve (0, 0) y la
// dispensación continúa; precio y control de stock son preocupaciones
// independientes.
type PriceRepository interface {
	// Resolve devuelve precio unitario y tasa de impuesto (fracción) del
	// insumo, o ceros con linked=false si no hay vínculo.
	Resolve(itemID string) (unitPrice, taxRate decimal.Decimal, linked bool, err error)
}
