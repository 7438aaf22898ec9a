package dto

import "time"

// MovementResponse asiento del kardex en respuestas.
type MovementResponse struct {
	ID         string    `json:"id"`
	ItemID     string    `json:"item_id"`
	ItemName   string    `json:"item_name"`
	BatchLabel string    `json:"batch_label"`
	Kind       string    `json:"kind"`
	Quantity   int64     `json:"quantity"`
	Reason     string    `json:"reason"`
	CreatedAt  time.Time `json:"created_at"`
	CreatedBy  string    `json:"created_by,omitempty"`
}

// KardexListResponse listado paginado del kardex, del asiento más reciente
// al más antiguo.
type KardexListResponse struct {
	Movements []MovementResponse `json:"movements"`
	Page      PageResponse       `json:"page"`
}
