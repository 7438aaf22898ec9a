package entity

import "time"

// Batch representa un lote recibido de un insumo: una cantidad con un número
// de lote y una caducidad compartida. ExpiryDate en nil marca el centinela
// "no caduca": ese stock se consume después de todo lote fechado.
type Batch struct {
	ID           string
	BatchNumber  string     // identificador de lote del proveedor, no único global
	ExpiryDate   *time.Time // nil = no caduca
	CurrentStock int64      // siempre >= 0; un lote en 0 sigue siendo válido
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NeverExpires reporta si el lote lleva el centinela de no caducidad.
func (b *Batch) NeverExpires() bool {
	return b.ExpiryDate == nil
}

// ExpiresBefore ordena dos lotes por caducidad: fechado antes que no fechado,
// y entre fechados el más próximo a vencer primero.
func (b *Batch) ExpiresBefore(other *Batch) bool {
	if b.ExpiryDate == nil {
		return false
	}
	if other.ExpiryDate == nil {
		return true
	}
	return b.ExpiryDate.Before(*other.ExpiryDate)
}

// IsExpired reporta si el lote ya venció respecto a now.
func (b *Batch) IsExpired(now time.Time) bool {
	return b.ExpiryDate != nil && b.ExpiryDate.Before(now)
}
