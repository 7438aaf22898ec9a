package dto

// DeficitDTO un insumo por debajo de su objetivo de reposición.
type DeficitDTO struct {
	ItemID     string `json:"item_id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	TotalStock int64  `json:"total_stock"`
	Target     int64  `json:"target"`  // max(ideal_stock, min_stock)
	Deficit    int64  `json:"deficit"` // Target - TotalStock
	BelowMin   bool   `json:"below_min"`
	Priority   int    `json:"priority"` // 1 = más urgente
}
