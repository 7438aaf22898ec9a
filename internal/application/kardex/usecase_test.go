package kardex_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/farmacia-api/internal/application/dto"
	"github.com/clinicore/farmacia-api/internal/application/kardex"
	"github.com/clinicore/farmacia-api/internal/domain/entity"
	"github.com/clinicore/farmacia-api/internal/infrastructure/excel"
	"github.com/clinicore/farmacia-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func newKardexUC() (*kardex.UseCase, *memory.Store) {
	store := memory.NewStore()
	return kardex.NewUseCase(store.Movements(), excel.NewKardexExporter()), store
}

// seed asienta movimientos en orden cronológico (el primero es el más
// antiguo).
func seed(t *testing.T, store *memory.Store, movs ...entity.StockMovement) {
	t.Helper()
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	for i := range movs {
		m := movs[i]
		if m.CreatedAt.IsZero() {
			m.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		}
		require.NoError(t, store.Movements().Create(&m))
	}
}

func mov(itemName, label, kind string, qty int64, reason string) entity.StockMovement {
	return entity.StockMovement{
		ItemID:     "item-" + itemName,
		ItemName:   itemName,
		BatchLabel: label,
		Kind:       kind,
		Quantity:   qty,
		Reason:     reason,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Search
// ──────────────────────────────────────────────────────────────────────────────

func TestSearch_MasRecientePrimero(t *testing.T) {
	uc, store := newKardexUC()
	seed(t, store,
		mov("Gasas", "G-01", entity.MovementIN, 10, "initial stock"),
		mov("Suero", "S-01", entity.MovementIN, 5, "initial stock"),
		mov("Gasas", "G-01", entity.MovementOUT, 3, "dispensación"),
	)

	resp, err := uc.Search("", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Movements, 3)
	assert.Equal(t, entity.MovementOUT, resp.Movements[0].Kind, "el último asiento sale primero")
	assert.Equal(t, "Suero", resp.Movements[1].ItemName)
	assert.Equal(t, "Gasas", resp.Movements[2].ItemName)
}

func TestSearch_FiltroInsensibleAAcentos(t *testing.T) {
	uc, store := newKardexUC()
	seed(t, store,
		mov("Jeringá estéril", "J-01", entity.MovementIN, 10, "initial stock"),
		mov("Suero", "S-01", entity.MovementIN, 5, "initial stock"),
		mov("Gasas", "G-01", entity.MovementOUT, 2, "dispensación a María"),
	)

	// Sin acentos encuentra el nombre acentuado
	resp, err := uc.Search("jeringa", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Movements, 1)
	assert.Equal(t, "Jeringá estéril", resp.Movements[0].ItemName)

	// El filtro también cubre el motivo
	resp, err = uc.Search("maria", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Movements, 1)
	assert.Equal(t, "Gasas", resp.Movements[0].ItemName)

	// Y la etiqueta de lote
	resp, err = uc.Search("s-01", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Movements, 1)
}

func TestSearch_SinCoincidencias(t *testing.T) {
	uc, store := newKardexUC()
	seed(t, store, mov("Gasas", "G-01", entity.MovementIN, 10, "initial stock"))

	resp, err := uc.Search("morfina", dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, resp.Movements)
}

// La paginación limit/offset permite retomar el recorrido desde cualquier
// punto sin repetir ni saltar asientos.
func TestSearch_PaginacionReiniciable(t *testing.T) {
	uc, store := newKardexUC()
	var movs []entity.StockMovement
	for i := 0; i < 7; i++ {
		movs = append(movs, mov("Gasas", "G-01", entity.MovementIN, int64(i+1), "initial stock"))
	}
	seed(t, store, movs...)

	var collected []string
	for offset := 0; ; offset += 3 {
		resp, err := uc.Search("", dto.PageRequest{Limit: 3, Offset: offset})
		require.NoError(t, err)
		if len(resp.Movements) == 0 {
			break
		}
		for _, m := range resp.Movements {
			collected = append(collected, m.ID)
		}
	}
	require.Len(t, collected, 7, "el recorrido por páginas cubre todo el kardex")

	seen := map[string]bool{}
	for _, id := range collected {
		assert.False(t, seen[id], "ningún asiento se repite entre páginas")
		seen[id] = true
	}

	// Las cantidades salen en orden inverso al de inserción
	resp, err := uc.Search("", dto.PageRequest{Limit: 7})
	require.NoError(t, err)
	assert.Equal(t, int64(7), resp.Movements[0].Quantity)
	assert.Equal(t, int64(1), resp.Movements[6].Quantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// ListByItem
// ──────────────────────────────────────────────────────────────────────────────

func TestListByItem_SoloElInsumo(t *testing.T) {
	uc, store := newKardexUC()
	seed(t, store,
		mov("Gasas", "G-01", entity.MovementIN, 10, "initial stock"),
		mov("Suero", "S-01", entity.MovementIN, 5, "initial stock"),
		mov("Gasas", "G-01", entity.MovementOUT, 3, "dispensación"),
	)

	resp, err := uc.ListByItem("item-Gasas", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Movements, 2)
	for _, m := range resp.Movements {
		assert.Equal(t, "Gasas", m.ItemName)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Export
// ──────────────────────────────────────────────────────────────────────────────

func TestExport_GeneraXLSX(t *testing.T) {
	uc, store := newKardexUC()
	seed(t, store,
		mov("Gasas", "G-01", entity.MovementIN, 10, "initial stock"),
		mov("Gasas", "G-01", entity.MovementOUT, 4, "dispensación"),
	)

	data, err := uc.Export("")
	require.NoError(t, err)
	require.NotEmpty(t, data)
	// Un XLSX es un ZIP: firma PK
	assert.Equal(t, byte('P'), data[0])
	assert.Equal(t, byte('K'), data[1])
}

func TestExport_FiltroAplicado(t *testing.T) {
	uc, store := newKardexUC()
	seed(t, store,
		mov("Gasas", "G-01", entity.MovementIN, 10, "initial stock"),
		mov("Suero", "S-01", entity.MovementIN, 5, "initial stock"),
	)

	data, err := uc.Export("suero")
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
