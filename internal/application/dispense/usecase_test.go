package dispense_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/farmacia-api/internal/application/catalog"
	"github.com/clinicore/farmacia-api/internal/application/dispense"
	"github.com/clinicore/farmacia-api/internal/application/dto"
	"github.com/clinicore/farmacia-api/internal/domain"
	"github.com/clinicore/farmacia-api/internal/domain/entity"
	"github.com/clinicore/farmacia-api/internal/infrastructure/memory"
	"github.com/clinicore/farmacia-api/pkg/idgen"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testActor = "user-test"

type fixture struct {
	store      *memory.Store
	catalogUC  *catalog.UseCase
	dispenseUC *dispense.UseCase
}

func newFixture() *fixture {
	store := memory.NewStore()
	ids := &idgen.Sequence{Prefix: "disp"}
	return &fixture{
		store:      store,
		catalogUC:  catalog.NewUseCase(store, store.Items(), ids),
		dispenseUC: dispense.NewUseCase(store, store.Prices(), ids),
	}
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

// createItem da de alta un insumo con un lote inicial y devuelve su respuesta.
func (f *fixture) createItem(t *testing.T, name string, batch dto.BatchSpec) *dto.ItemResponse {
	t.Helper()
	item, err := f.catalogUC.Create(context.Background(), testActor, dto.CreateItemRequest{
		Name:         name,
		InitialBatch: &batch,
	})
	require.NoError(t, err)
	return item
}

func (f *fixture) outMovements(t *testing.T) []*entity.StockMovement {
	t.Helper()
	all, err := f.store.Movements().Search("", 1000, 0)
	require.NoError(t, err)
	var outs []*entity.StockMovement
	for _, m := range all {
		if m.Kind == entity.MovementOUT {
			outs = append(outs, m)
		}
	}
	return outs
}

func (f *fixture) charges(t *testing.T) []*entity.ChargeLine {
	t.Helper()
	list, err := f.store.Charges().ListByPatient("", 1000, 0)
	require.NoError(t, err)
	return list
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenario de referencia: gasas, lote único sin caducidad
// ──────────────────────────────────────────────────────────────────────────────

func TestAllocate_LoteUnico_DescuentaAsientaYCobra(t *testing.T) {
	f := newFixture()
	item := f.createItem(t, "Gasas estériles", dto.BatchSpec{
		BatchNumber: "L1", NeverExpires: true, Quantity: 100,
	})
	f.store.LinkPrice(item.ID, decimal.NewFromFloat(2.50), decimal.NewFromFloat(0.16))

	resp, err := f.dispenseUC.Allocate(context.Background(), testActor, dto.DispenseRequest{
		ItemID:     item.ID,
		Quantity:   30,
		Context:    "Dispensado a Juan Pérez, cama 12",
		PatientRef: "HC-4411",
	})
	require.NoError(t, err)

	// Plan de extracción: todo sale del único lote
	require.Len(t, resp.DrawPlan, 1)
	assert.Equal(t, "L1", resp.DrawPlan[0].BatchNumber)
	assert.Equal(t, int64(30), resp.DrawPlan[0].Quantity)
	assert.Equal(t, int64(70), resp.Remaining)

	got, err := f.catalogUC.GetByID(item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(70), got.TotalStock)

	// Un asiento OUT con el contexto como motivo
	outs := f.outMovements(t)
	require.Len(t, outs, 1)
	assert.Equal(t, int64(30), outs[0].Quantity)
	assert.Equal(t, "Dispensado a Juan Pérez, cama 12", outs[0].Reason)
	assert.Equal(t, testActor, outs[0].CreatedBy)

	// Un único cargo: 30 × 2.50 × 1.16 = 87.00
	charges := f.charges(t)
	require.Len(t, charges, 1)
	assert.Equal(t, "HC-4411", charges[0].PatientRef)
	assert.True(t, charges[0].Total.Equal(decimal.NewFromFloat(87.00)),
		"total esperado 87.00, obtenido %s", charges[0].Total)
}

// ──────────────────────────────────────────────────────────────────────────────
// Orden FEFO entre lotes
// ──────────────────────────────────────────────────────────────────────────────

func TestAllocate_FEFO_AgotaElMasProximoACaducar(t *testing.T) {
	f := newFixture()
	// Alta fuera de orden FEFO: el motor debe ordenar por caducidad, con el
	// lote sin caducidad al final
	item := f.createItem(t, "Suero fisiológico", dto.BatchSpec{
		BatchNumber: "B3", NeverExpires: true, Quantity: 50,
	})
	_, err := f.catalogUC.AddBatch(context.Background(), testActor, item.ID, dto.BatchSpec{
		BatchNumber: "B1", ExpiryDate: date(2026, 10, 1), Quantity: 10,
	})
	require.NoError(t, err)
	_, err = f.catalogUC.AddBatch(context.Background(), testActor, item.ID, dto.BatchSpec{
		BatchNumber: "B2", ExpiryDate: date(2027, 2, 1), Quantity: 20,
	})
	require.NoError(t, err)

	resp, err := f.dispenseUC.Allocate(context.Background(), testActor, dto.DispenseRequest{
		ItemID: item.ID, Quantity: 15,
	})
	require.NoError(t, err)

	// B1 se agota (10) y B2 cubre el resto (5); B3 intacto
	require.Len(t, resp.DrawPlan, 2)
	assert.Equal(t, "B1", resp.DrawPlan[0].BatchNumber)
	assert.Equal(t, int64(10), resp.DrawPlan[0].Quantity)
	assert.Equal(t, "B2", resp.DrawPlan[1].BatchNumber)
	assert.Equal(t, int64(5), resp.DrawPlan[1].Quantity)

	got, err := f.catalogUC.GetByID(item.ID)
	require.NoError(t, err)
	byNumber := map[string]int64{}
	for _, b := range got.Batches {
		byNumber[b.BatchNumber] = b.CurrentStock
	}
	assert.Equal(t, int64(0), byNumber["B1"])
	assert.Equal(t, int64(15), byNumber["B2"])
	assert.Equal(t, int64(50), byNumber["B3"], "el lote sin caducidad se toca al último")

	// Exactamente un asiento OUT por lote intervenido
	assert.Len(t, f.outMovements(t), 2)
}

// ──────────────────────────────────────────────────────────────────────────────
// Atomicidad
// ──────────────────────────────────────────────────────────────────────────────

func TestAllocate_StockInsuficiente_SinEfectosParciales(t *testing.T) {
	f := newFixture()
	item := f.createItem(t, "Adrenalina", dto.BatchSpec{
		BatchNumber: "A1", ExpiryDate: date(2026, 11, 1), Quantity: 3,
	})
	_, err := f.catalogUC.AddBatch(context.Background(), testActor, item.ID, dto.BatchSpec{
		BatchNumber: "A2", ExpiryDate: date(2027, 1, 1), Quantity: 4,
	})
	require.NoError(t, err)

	_, err = f.dispenseUC.Allocate(context.Background(), testActor, dto.DispenseRequest{
		ItemID: item.ID, Quantity: 8, // total disponible: 7
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Cero efectos: existencias intactas, ni OUT ni cargo
	got, err := f.catalogUC.GetByID(item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.TotalStock)
	assert.Empty(t, f.outMovements(t))
	assert.Empty(t, f.charges(t))
}

func TestAllocate_InsumoInexistente_NotFound(t *testing.T) {
	f := newFixture()
	_, err := f.dispenseUC.Allocate(context.Background(), testActor, dto.DispenseRequest{
		ItemID: "no-existe", Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAllocate_CantidadNoPositiva_Falla(t *testing.T) {
	f := newFixture()
	for _, qty := range []int64{0, -5} {
		_, err := f.dispenseUC.Allocate(context.Background(), testActor, dto.DispenseRequest{
			ItemID: "x", Quantity: qty,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad %d debe rechazarse", qty)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tarificación
// ──────────────────────────────────────────────────────────────────────────────

func TestAllocate_SinPrecioVinculado_CargoEnCero(t *testing.T) {
	f := newFixture()
	item := f.createItem(t, "Venda elástica", dto.BatchSpec{
		BatchNumber: "V1", NeverExpires: true, Quantity: 10,
	})

	resp, err := f.dispenseUC.Allocate(context.Background(), testActor, dto.DispenseRequest{
		ItemID: item.ID, Quantity: 4,
	})
	require.NoError(t, err, "la falta de precio nunca bloquea la dispensación")

	// El cargo se emite igualmente, con total cero
	charges := f.charges(t)
	require.Len(t, charges, 1)
	assert.True(t, charges[0].Total.IsZero())
	assert.Equal(t, int64(4), charges[0].Quantity)
	assert.Equal(t, int64(6), resp.Remaining)
}

// ──────────────────────────────────────────────────────────────────────────────
// Motivo del asiento
// ──────────────────────────────────────────────────────────────────────────────

func TestAllocate_AdHoc_MarcaElMotivo(t *testing.T) {
	f := newFixture()
	item := f.createItem(t, "Paracetamol", dto.BatchSpec{
		BatchNumber: "P1", NeverExpires: true, Quantity: 20,
	})

	_, err := f.dispenseUC.Allocate(context.Background(), testActor, dto.DispenseRequest{
		ItemID: item.ID, Quantity: 2, Context: "urgencias", AdHoc: true,
	})
	require.NoError(t, err)

	outs := f.outMovements(t)
	require.Len(t, outs, 1)
	assert.Equal(t, "urgencias"+entity.AdHocMarker, outs[0].Reason)
}

func TestAllocate_SinContexto_UsaMotivoPorDefecto(t *testing.T) {
	f := newFixture()
	item := f.createItem(t, "Paracetamol", dto.BatchSpec{
		BatchNumber: "P1", NeverExpires: true, Quantity: 20,
	})

	_, err := f.dispenseUC.Allocate(context.Background(), testActor, dto.DispenseRequest{
		ItemID: item.ID, Quantity: 1,
	})
	require.NoError(t, err)

	outs := f.outMovements(t)
	require.Len(t, outs, 1)
	assert.Equal(t, "dispensación", outs[0].Reason)
}
