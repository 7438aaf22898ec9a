package replenishment_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/farmacia-api/internal/application/catalog"
	"github.com/clinicore/farmacia-api/internal/application/dto"
	"github.com/clinicore/farmacia-api/internal/application/replenishment"
	"github.com/clinicore/farmacia-api/internal/infrastructure/memory"
	"github.com/clinicore/farmacia-api/pkg/idgen"
)

const testActor = "user-test"

type fixture struct {
	catalogUC *catalog.UseCase
	uc        *replenishment.UseCase
}

func newFixture() *fixture {
	store := memory.NewStore()
	return &fixture{
		catalogUC: catalog.NewUseCase(store, store.Items(), &idgen.Sequence{Prefix: "rep"}),
		uc:        replenishment.NewUseCase(store.Items()),
	}
}

// createItem da de alta un insumo con umbrales y stock inicial en un lote sin
// caducidad.
func (f *fixture) createItem(t *testing.T, name string, minStock, idealStock, stock int64) string {
	t.Helper()
	req := dto.CreateItemRequest{Name: name, MinStock: minStock, IdealStock: idealStock}
	if stock > 0 {
		req.InitialBatch = &dto.BatchSpec{BatchNumber: name + "-L1", NeverExpires: true, Quantity: stock}
	}
	item, err := f.catalogUC.Create(context.Background(), testActor, req)
	require.NoError(t, err)
	return item.ID
}

func TestComputeDeficits_CalculaDeficitContraObjetivo(t *testing.T) {
	f := newFixture()
	// objetivo = max(ideal, min) = 50; total 30 → déficit 20
	f.createItem(t, "Gasas", 10, 50, 30)

	deficits, err := f.uc.ComputeDeficits()
	require.NoError(t, err)
	require.Len(t, deficits, 1)
	assert.Equal(t, "Gasas", deficits[0].Name)
	assert.Equal(t, int64(50), deficits[0].Target)
	assert.Equal(t, int64(20), deficits[0].Deficit)
	assert.False(t, deficits[0].BelowMin, "30 no está bajo el piso de alerta (10)")
	assert.Equal(t, 1, deficits[0].Priority)
}

func TestComputeDeficits_ExcluyeEnOSobreObjetivo(t *testing.T) {
	f := newFixture()
	f.createItem(t, "Suero", 10, 50, 60)  // sobre el objetivo
	f.createItem(t, "Alcohol", 10, 50, 50) // exactamente en el objetivo

	deficits, err := f.uc.ComputeDeficits()
	require.NoError(t, err)
	assert.Empty(t, deficits)
}

func TestComputeDeficits_SinIdeal_UsaElMinimoComoObjetivo(t *testing.T) {
	f := newFixture()
	// Sin ideal no hay ideal_stock < min_stock válido: ideal >= min siempre.
	// Con ambos iguales el objetivo es ese valor.
	f.createItem(t, "Jeringas", 15, 15, 4)

	deficits, err := f.uc.ComputeDeficits()
	require.NoError(t, err)
	require.Len(t, deficits, 1)
	assert.Equal(t, int64(15), deficits[0].Target)
	assert.Equal(t, int64(11), deficits[0].Deficit)
	assert.True(t, deficits[0].BelowMin)
}

func TestComputeDeficits_OrdenaPorDeficitDescendente(t *testing.T) {
	f := newFixture()
	f.createItem(t, "Gasas", 0, 40, 35)      // déficit 5
	f.createItem(t, "Suero", 0, 100, 10)     // déficit 90
	f.createItem(t, "Paracetamol", 0, 60, 30) // déficit 30

	deficits, err := f.uc.ComputeDeficits()
	require.NoError(t, err)
	require.Len(t, deficits, 3)
	assert.Equal(t, "Suero", deficits[0].Name)
	assert.Equal(t, "Paracetamol", deficits[1].Name)
	assert.Equal(t, "Gasas", deficits[2].Name)
	for i, d := range deficits {
		assert.Equal(t, i+1, d.Priority)
	}
}

func TestComputeDeficits_EmpateResueltoBajoPiso(t *testing.T) {
	f := newFixture()
	// Mismo déficit (20); uno bajo su piso de alerta, el otro no
	f.createItem(t, "Venda", 5, 50, 30)    // 30 >= min 5
	f.createItem(t, "Adrenalina", 40, 50, 30) // 30 < min 40

	deficits, err := f.uc.ComputeDeficits()
	require.NoError(t, err)
	require.Len(t, deficits, 2)
	assert.Equal(t, "Adrenalina", deficits[0].Name,
		"en empate de déficit, bajo el piso de alerta va primero")
	assert.True(t, deficits[0].BelowMin)
}

func TestComputeDeficits_InventarioVacio(t *testing.T) {
	f := newFixture()
	deficits, err := f.uc.ComputeDeficits()
	require.NoError(t, err)
	assert.Empty(t, deficits)
}
