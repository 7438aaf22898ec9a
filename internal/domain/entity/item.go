package entity

import "time"

// SupplyType clasifica un insumo del catálogo farmacéutico (enum cerrado).
type SupplyType string

const (
	SupplyMedication      SupplyType = "MEDICAMENTO"
	SupplySolution        SupplyType = "SOLUCION"
	SupplySurgical        SupplyType = "QUIRURGICO"
	SupplyEquipment       SupplyType = "EQUIPO"
	SupplyHealingMaterial SupplyType = "MATERIAL_CURACION"
	SupplyOther           SupplyType = "OTRO"
)

// IsValid reporta si el valor pertenece al enum.
func (t SupplyType) IsValid() bool {
	switch t {
	case SupplyMedication, SupplySolution, SupplySurgical,
		SupplyEquipment, SupplyHealingMaterial, SupplyOther:
		return true
	}
	return false
}

// InventoryItem representa un insumo del catálogo con sus lotes embebidos.
// El stock total siempre se deriva de los lotes; nunca se almacena aparte.
type InventoryItem struct {
	ID            string
	Name          string // nombre comercial, obligatorio
	GenericName   string
	Presentation  string // tableta, ampolleta, frasco, etc.
	Concentration string
	Unit          string // pieza, ml, caja
	Type          SupplyType
	MinStock      int64 // piso de alerta
	IdealStock    int64 // objetivo de reposición, >= MinStock
	Batches       []Batch
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TotalStock suma las existencias de todos los lotes del insumo.
func (i *InventoryItem) TotalStock() int64 {
	var total int64
	for _, b := range i.Batches {
		total += b.CurrentStock
	}
	return total
}

// ReplenishmentTarget devuelve el objetivo de reposición efectivo.
func (i *InventoryItem) ReplenishmentTarget() int64 {
	if i.IdealStock > i.MinStock {
		return i.IdealStock
	}
	return i.MinStock
}

// FindBatch busca un lote por ID. Devuelve nil si no existe.
func (i *InventoryItem) FindBatch(batchID string) *Batch {
	for idx := range i.Batches {
		if i.Batches[idx].ID == batchID {
			return &i.Batches[idx]
		}
	}
	return nil
}
