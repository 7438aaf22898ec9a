// Package excel genera el archivo XLSX del kardex para auditoría externa.
package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/clinicore/farmacia-api/internal/application/kardex"
	"github.com/clinicore/farmacia-api/internal/domain/entity"
)

var _ kardex.MovementExporter = (*KardexExporter)(nil)

// KardexExporter serializa asientos del kardex a XLSX, un renglón por
// movimiento, en el orden recibido (más reciente primero).
type KardexExporter struct{}

// NewKardexExporter construye el exportador.
func NewKardexExporter() *KardexExporter {
	return &KardexExporter{}
}

// Export genera el libro con encabezado fijo y devuelve los bytes del
// archivo.
func (e *KardexExporter) Export(movements []*entity.StockMovement) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{
		"fecha", "insumo", "lote", "tipo", "cantidad", "motivo", "responsable",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("kardex xlsx encabezado: %w", err)
	}

	row := 2
	for _, m := range movements {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, fmt.Errorf("kardex xlsx celda: %w", err)
		}
		values := []interface{}{
			m.CreatedAt.Format("2006-01-02 15:04:05"),
			m.ItemName,
			m.BatchLabel,
			m.Kind,
			m.Quantity,
			m.Reason,
			m.CreatedBy,
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("kardex xlsx fila %d: %w", row, err)
		}
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("kardex xlsx serializar: %w", err)
	}
	return buf.Bytes(), nil
}
