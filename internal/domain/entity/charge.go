package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChargeLine es el cargo que se emite al colaborador de facturación por cada
// dispensación exitosa: una línea por insumo, no por lote. Inmutable una vez
// emitida; registrarla en la cuenta del paciente es trabajo del colaborador.
type ChargeLine struct {
	ID         string
	ItemID     string
	ItemName   string
	PatientRef string // identificador opcional de paciente/contexto
	Quantity   int64
	UnitPrice  decimal.Decimal // 0 si el insumo no tiene precio vinculado
	TaxRate    decimal.Decimal // fracción: 0.16 = 16%
	Total      decimal.Decimal // Quantity * UnitPrice * (1 + TaxRate)
	CreatedAt  time.Time
}

// NewChargeLine calcula el total y arma la línea de cargo.
func NewChargeLine(itemID, itemName, patientRef string, qty int64, unitPrice, taxRate decimal.Decimal, now time.Time) *ChargeLine {
	total := unitPrice.
		Mul(decimal.NewFromInt(qty)).
		Mul(decimal.NewFromInt(1).Add(taxRate))
	return &ChargeLine{
		ItemID:     itemID,
		ItemName:   itemName,
		PatientRef: patientRef,
		Quantity:   qty,
		UnitPrice:  unitPrice,
		TaxRate:    taxRate,
		Total:      total,
		CreatedAt:  now,
	}
}
