package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DispenseRequest body para POST /api/dispense. Context enriquece el motivo
// del kardex (por ejemplo "Dispensado a Juan Pérez, cama 12"); AdHoc marca
// una salida extra fuera de orden estructurada.
type DispenseRequest struct {
	ItemID     string `json:"item_id"`
	Quantity   int64  `json:"quantity"`
	Context    string `json:"context,omitempty"`
	PatientRef string `json:"patient_ref,omitempty"`
	AdHoc      bool   `json:"ad_hoc,omitempty"`
}

// DrawDTO una toma del plan de extracción: cantidad que salió de un lote.
type DrawDTO struct {
	BatchID     string `json:"batch_id"`
	BatchNumber string `json:"batch_number"`
	Quantity    int64  `json:"quantity"`
}

// ChargeLineDTO línea de cargo emitida al colaborador de facturación.
type ChargeLineDTO struct {
	ID         string          `json:"id"`
	ItemID     string          `json:"item_id"`
	ItemName   string          `json:"item_name"`
	PatientRef string          `json:"patient_ref,omitempty"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TaxRate    decimal.Decimal `json:"tax_rate"`
	Total      decimal.Decimal `json:"total"`
	CreatedAt  time.Time       `json:"created_at"`
}

// DispenseResponse resultado de una dispensación exitosa.
type DispenseResponse struct {
	ItemID    string        `json:"item_id"`
	Quantity  int64         `json:"quantity"`
	DrawPlan  []DrawDTO     `json:"draw_plan"`
	Charge    ChargeLineDTO `json:"charge"`
	Remaining int64         `json:"remaining_stock"`
}
