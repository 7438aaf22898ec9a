package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinicore/farmacia-api/internal/domain/entity"
	"github.com/clinicore/farmacia-api/internal/domain/repository"
)

var _ repository.ChargeRepository = (*ChargeRepo)(nil)

// ChargeRepo cola de cargos hacia el colaborador de facturación (tabla
// patient_charges que el sistema de cuentas consume).
type ChargeRepo struct {
	q Querier
}

// NewChargeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewChargeRepository(q Querier) *ChargeRepo {
	return &ChargeRepo{q: q}
}

// Create emite la línea de cargo. Inmutable: no existe update.
func (r *ChargeRepo) Create(c *entity.ChargeLine) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	query := `
		INSERT INTO patient_charges (id, item_id, item_name, patient_ref, quantity, unit_price, tax_rate, total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	patientRef := (*string)(nil)
	if c.PatientRef != "" {
		patientRef = &c.PatientRef
	}
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.ItemID, c.ItemName, patientRef, c.Quantity, c.UnitPrice, c.TaxRate, c.Total, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create charge: %w", err)
	}
	return nil
}

// ListByPatient lista cargos de un paciente, más reciente primero.
func (r *ChargeRepo) ListByPatient(patientRef string, limit, offset int) ([]*entity.ChargeLine, error) {
	query := `
		SELECT id, item_id, item_name, COALESCE(patient_ref, ''), quantity, unit_price, tax_rate, total, created_at
		FROM patient_charges
		WHERE patient_ref = $1
		ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, patientRef, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list charges: %w", err)
	}
	defer rows.Close()
	var list []*entity.ChargeLine
	for rows.Next() {
		var c entity.ChargeLine
		if err := rows.Scan(
			&c.ID, &c.ItemID, &c.ItemName, &c.PatientRef, &c.Quantity,
			&c.UnitPrice, &c.TaxRate, &c.Total, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan charge: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
