// Package idgen centraliza la generación de identificadores. Los casos de
// uso reciben un Generator inyectado para que las pruebas puedan fijar ids
// deterministas.
package idgen

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator produce identificadores únicos.
type Generator interface {
	NewID() string
}

// UUID genera UUIDs v4 (valor por defecto en producción).
type UUID struct{}

// NewID devuelve un UUID v4 en texto.
func (UUID) NewID() string { return uuid.New().String() }

// Sequence genera ids secuenciales con prefijo, para pruebas.
type Sequence struct {
	Prefix string
	n      atomic.Int64
}

// NewID devuelve el siguiente id de la secuencia: <prefijo>-1, <prefijo>-2, ...
func (s *Sequence) NewID() string {
	return fmt.Sprintf("%s-%d", s.Prefix, s.n.Add(1))
}
