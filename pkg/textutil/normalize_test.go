package textutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clinicore/farmacia-api/pkg/textutil"
)

func TestFold_QuitaDiacriticosYMayusculas(t *testing.T) {
	assert.Equal(t, "solucion salina", textutil.Fold("Solución Salina"))
	assert.Equal(t, "ibuprofeno", textutil.Fold("IBUPROFENO"))
	assert.Equal(t, "anestesico", textutil.Fold("anestésico"))
}

func TestContainsFold(t *testing.T) {
	assert.True(t, textutil.ContainsFold("Solución Salina 0.9%", "solucion"))
	assert.True(t, textutil.ContainsFold("GASA ESTÉRIL", "gasa est"))
	assert.True(t, textutil.ContainsFold("cualquier cosa", ""))
	assert.False(t, textutil.ContainsFold("Paracetamol", "ibuprofeno"))
}
