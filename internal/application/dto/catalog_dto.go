package dto

import "time"

// BatchSpec describe un lote a dar de alta. Para un lote sin caducidad el
// cliente debe marcar NeverExpires explícitamente; omitir la fecha sin
// marcarlo es un error de validación.
type BatchSpec struct {
	BatchNumber  string     `json:"batch_number"`
	ExpiryDate   *time.Time `json:"expiry_date,omitempty"`
	NeverExpires bool       `json:"never_expires,omitempty"`
	Quantity     int64      `json:"quantity"`
}

// CreateItemRequest body para POST /api/items.
type CreateItemRequest struct {
	Name          string     `json:"name"`
	GenericName   string     `json:"generic_name,omitempty"`
	Presentation  string     `json:"presentation,omitempty"`
	Concentration string     `json:"concentration,omitempty"`
	Unit          string     `json:"unit,omitempty"`
	Type          string     `json:"type"`
	MinStock      int64      `json:"min_stock"`
	IdealStock    int64      `json:"ideal_stock"`
	InitialBatch  *BatchSpec `json:"initial_batch,omitempty"`
}

// UpdateItemRequest body para PUT /api/items/:id. Solo datos maestros; los
// lotes y cantidades se mueven por sus propias operaciones. Reason es
// obligatorio: toda edición maestra queda atribuida en el kardex.
type UpdateItemRequest struct {
	Name          *string `json:"name,omitempty"`
	GenericName   *string `json:"generic_name,omitempty"`
	Presentation  *string `json:"presentation,omitempty"`
	Concentration *string `json:"concentration,omitempty"`
	Unit          *string `json:"unit,omitempty"`
	Type          *string `json:"type,omitempty"`
	MinStock      *int64  `json:"min_stock,omitempty"`
	IdealStock    *int64  `json:"ideal_stock,omitempty"`
	Reason        string  `json:"reason"`
}

// BatchResponse representación de un lote.
type BatchResponse struct {
	ID           string     `json:"id"`
	BatchNumber  string     `json:"batch_number"`
	ExpiryDate   *time.Time `json:"expiry_date,omitempty"`
	NeverExpires bool       `json:"never_expires"`
	CurrentStock int64      `json:"current_stock"`
}

// ItemResponse representación de un insumo con sus lotes y el total derivado.
type ItemResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	GenericName   string          `json:"generic_name,omitempty"`
	Presentation  string          `json:"presentation,omitempty"`
	Concentration string          `json:"concentration,omitempty"`
	Unit          string          `json:"unit,omitempty"`
	Type          string          `json:"type"`
	MinStock      int64           `json:"min_stock"`
	IdealStock    int64           `json:"ideal_stock"`
	TotalStock    int64           `json:"total_stock"`
	Batches       []BatchResponse `json:"batches"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ItemListResponse listado paginado de insumos.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
