package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/farmacia-api/internal/domain"
	"github.com/clinicore/farmacia-api/internal/domain/entity"
	"github.com/clinicore/farmacia-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo kardex sobre PostgreSQL. Solo INSERT y SELECT: la tabla no
// conoce UPDATE ni DELETE desde la aplicación.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, item_id, item_name, batch_label, kind, quantity, reason, created_at, created_by`

// Create asienta un movimiento. Asigna id y timestamp si vienen vacíos.
func (r *MovementRepo) Create(m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	if !m.IsValid() {
		return domain.ErrInvalidInput
	}
	query := `
		INSERT INTO movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	createdBy := (*string)(nil)
	if m.CreatedBy != "" {
		createdBy = &m.CreatedBy
	}
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.ItemID, m.ItemName, m.BatchLabel, m.Kind, m.Quantity, m.Reason,
		m.CreatedAt, createdBy,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// Search filtra por texto libre sobre nombre, etiqueta de lote y motivo,
// insensible a acentos (unaccent), del más reciente al más antiguo.
func (r *MovementRepo) Search(filter string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements`
	args := []any{}
	if filter != "" {
		query += `
		WHERE unaccent(item_name) ILIKE unaccent($1)
		   OR unaccent(batch_label) ILIKE unaccent($1)
		   OR unaccent(reason) ILIKE unaccent($1)`
		args = append(args, "%"+filter+"%")
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	return r.queryMovements(query, args...)
}

// ListByItem lista la historia de un insumo, más reciente primero.
func (r *MovementRepo) ListByItem(itemID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + ` FROM movements
		WHERE item_id = $1
		ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	return r.queryMovements(query, itemID, limit, offset)
}

func (r *MovementRepo) queryMovements(query string, args ...any) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var createdBy *string
		if err := rows.Scan(
			&m.ID, &m.ItemID, &m.ItemName, &m.BatchLabel, &m.Kind, &m.Quantity,
			&m.Reason, &m.CreatedAt, &createdBy,
		); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		if createdBy != nil {
			m.CreatedBy = *createdBy
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
