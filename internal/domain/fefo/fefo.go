// Package fefo implementa la política First-Expired-First-Out: el stock más
// próximo a caducar se consume antes que cualquier otro. Es la única
// implementación de la política; ningún otro componente ordena lotes.
package fefo

import (
	"sort"

	"github.com/clinicore/farmacia-api/internal/domain"
	"github.com/clinicore/farmacia-api/internal/domain/entity"
)

// Draw es una toma parcial del plan: cuánto sale de qué lote.
type Draw struct {
	BatchID     string
	BatchNumber string
	Quantity    int64
}

// SortByExpiry devuelve los lotes ordenados por caducidad ascendente.
// Los lotes sin caducidad (centinela) van siempre al final, sin importar qué
// tan lejana sea la fecha de los lotes fechados. Empates conservan el orden
// de alta del lote. No muta el slice recibido.
func SortByExpiry(batches []entity.Batch) []entity.Batch {
	sorted := make([]entity.Batch, len(batches))
	copy(sorted, batches)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ExpiresBefore(&sorted[j])
	})
	return sorted
}

// Plan calcula el plan de extracción para la cantidad solicitada sin mutar
// ningún lote. Devuelve domain.ErrInsufficientStock si la suma disponible no
// alcanza: el plan es todo-o-nada, nunca parcial.
func Plan(batches []entity.Batch, requested int64) ([]Draw, error) {
	if requested <= 0 {
		return nil, domain.ErrInvalidInput
	}
	var available int64
	for _, b := range batches {
		available += b.CurrentStock
	}
	if available < requested {
		return nil, domain.ErrInsufficientStock
	}

	remaining := requested
	var plan []Draw
	for _, b := range SortByExpiry(batches) {
		if remaining == 0 {
			break
		}
		if b.CurrentStock == 0 {
			continue
		}
		take := b.CurrentStock
		if take > remaining {
			take = remaining
		}
		plan = append(plan, Draw{BatchID: b.ID, BatchNumber: b.BatchNumber, Quantity: take})
		remaining -= take
	}
	return plan, nil
}
