package entity

import "time"

// Tipos de movimiento del kardex.
const (
	MovementIN     = "IN"     // entrada de stock
	MovementOUT    = "OUT"    // salida de stock
	MovementUPDATE = "UPDATE" // edición de datos maestros, sin cantidad
)

// Motivos normativos del kardex. Las pruebas de conciliación dependen de
// estos textos exactos.
const (
	ReasonInitialStock    = "initial stock"
	ReasonLotWriteOff     = "lot removed / write-off"
	ReasonCatalogDeletion = "catalog deletion"

	// AdHocMarker se adjunta al motivo cuando la dispensación es extra,
	// fuera de una orden estructurada.
	AdHocMarker = " (Adicional)"
)

// BatchLabelItem es la etiqueta centinela de lote para bajas que afectan al
// insumo completo (eliminación de catálogo).
const BatchLabelItem = "*"

// StockMovement es un asiento inmutable del kardex: se crea una vez y nunca
// se actualiza ni se borra. ItemName se desnormaliza para que la historia
// sobreviva a la eliminación del insumo.
type StockMovement struct {
	ID         string
	ItemID     string
	ItemName   string
	BatchLabel string // número de lote afectado o BatchLabelItem
	Kind       string // IN, OUT, UPDATE
	Quantity   int64  // magnitud sin signo; el signo lo da Kind. 0 en UPDATE
	Reason     string
	CreatedAt  time.Time
	CreatedBy  string // UserID responsable
}

// IsValid verifica la forma mínima de un asiento antes de persistirlo.
func (m *StockMovement) IsValid() bool {
	switch m.Kind {
	case MovementIN, MovementOUT, MovementUPDATE:
	default:
		return false
	}
	return m.ItemID != "" && m.Quantity >= 0
}
