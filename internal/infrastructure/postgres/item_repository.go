package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/clinicore/farmacia-api/internal/domain"
	"github.com/clinicore/farmacia-api/internal/domain/entity"
	"github.com/clinicore/farmacia-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con
// pool o tx). Los lotes viven en su propia tabla con ON DELETE CASCADE.
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id, name, generic_name, presentation, concentration, unit, type, min_stock, ideal_stock, created_at, updated_at`

// Create persiste el insumo y sus lotes iniciales.
func (r *ItemRepo) Create(item *entity.InventoryItem) error {
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.Name, item.GenericName, item.Presentation, item.Concentration,
		item.Unit, string(item.Type), item.MinStock, item.IdealStock,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create item: %w", err)
	}
	for i := range item.Batches {
		if err := r.AddBatch(item.ID, &item.Batches[i]); err != nil {
			return err
		}
	}
	return nil
}

// GetByID obtiene el insumo con sus lotes. Devuelve (nil, nil) si no existe.
func (r *ItemRepo) GetByID(id string) (*entity.InventoryItem, error) {
	return r.get(id, false)
}

// GetForUpdate obtiene el insumo bloqueando su fila (SELECT FOR UPDATE):
// serializa las mutaciones concurrentes sobre el mismo insumo sin frenar a
// los demás.
func (r *ItemRepo) GetForUpdate(id string) (*entity.InventoryItem, error) {
	return r.get(id, true)
}

func (r *ItemRepo) get(id string, forUpdate bool) (*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var it entity.InventoryItem
	var supplyType string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&it.ID, &it.Name, &it.GenericName, &it.Presentation, &it.Concentration,
		&it.Unit, &supplyType, &it.MinStock, &it.IdealStock, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	it.Type = entity.SupplyType(supplyType)
	if it.Batches, err = r.loadBatches(id); err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *ItemRepo) loadBatches(itemID string) ([]entity.Batch, error) {
	query := `
		SELECT id, batch_number, expiry_date, current_stock, created_at, updated_at
		FROM batches WHERE item_id = $1
		ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, itemID)
	if err != nil {
		return nil, fmt.Errorf("load batches: %w", err)
	}
	defer rows.Close()
	var batches []entity.Batch
	for rows.Next() {
		var b entity.Batch
		if err := rows.Scan(&b.ID, &b.BatchNumber, &b.ExpiryDate, &b.CurrentStock, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

// UpdateMaster actualiza solo los datos maestros; los lotes no se tocan.
func (r *ItemRepo) UpdateMaster(item *entity.InventoryItem) error {
	query := `
		UPDATE items
		SET name = $2, generic_name = $3, presentation = $4, concentration = $5,
		    unit = $6, type = $7, min_stock = $8, ideal_stock = $9, updated_at = $10
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		item.ID, item.Name, item.GenericName, item.Presentation, item.Concentration,
		item.Unit, string(item.Type), item.MinStock, item.IdealStock, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update item master: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddBatch inserta un lote del insumo.
func (r *ItemRepo) AddBatch(itemID string, batch *entity.Batch) error {
	query := `
		INSERT INTO batches (id, item_id, batch_number, expiry_date, current_stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		batch.ID, itemID, batch.BatchNumber, batch.ExpiryDate, batch.CurrentStock,
		batch.CreatedAt, batch.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("add batch: %w", err)
	}
	return nil
}

// UpdateBatchStock fija la existencia de un lote. El CHECK current_stock >= 0
// de la tabla respalda el invariante aunque el caller se equivoque.
func (r *ItemRepo) UpdateBatchStock(itemID, batchID string, quantity int64) error {
	query := `
		UPDATE batches SET current_stock = $3, updated_at = now()
		WHERE item_id = $1 AND id = $2`
	tag, err := r.q.Exec(context.Background(), query, itemID, batchID, quantity)
	if err != nil {
		return fmt.Errorf("update batch stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteBatch elimina un lote concreto.
func (r *ItemRepo) DeleteBatch(itemID, batchID string) error {
	tag, err := r.q.Exec(context.Background(),
		`DELETE FROM batches WHERE item_id = $1 AND id = $2`, itemID, batchID)
	if err != nil {
		return fmt.Errorf("delete batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el insumo; los lotes caen por CASCADE.
func (r *ItemRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista insumos con paginación, con sus lotes.
func (r *ItemRepo) List(limit, offset int) ([]*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM items ORDER BY created_at, id LIMIT $1 OFFSET $2`
	return r.listWithBatches(query, limit, offset)
}

// ListBelowTarget devuelve los insumos con total < max(ideal_stock, min_stock).
func (r *ItemRepo) ListBelowTarget() ([]*entity.InventoryItem, error) {
	query := `
		SELECT i.id, i.name, i.generic_name, i.presentation, i.concentration,
		       i.unit, i.type, i.min_stock, i.ideal_stock, i.created_at, i.updated_at
		FROM items i
		LEFT JOIN batches b ON b.item_id = i.id
		GROUP BY i.id
		HAVING COALESCE(SUM(b.current_stock), 0) < GREATEST(i.ideal_stock, i.min_stock)
		ORDER BY i.id`
	return r.listWithBatches(query)
}

func (r *ItemRepo) listWithBatches(query string, args ...any) ([]*entity.InventoryItem, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryItem
	for rows.Next() {
		var it entity.InventoryItem
		var supplyType string
		if err := rows.Scan(
			&it.ID, &it.Name, &it.GenericName, &it.Presentation, &it.Concentration,
			&it.Unit, &supplyType, &it.MinStock, &it.IdealStock, &it.CreatedAt, &it.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		it.Type = entity.SupplyType(supplyType)
		list = append(list, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, it := range list {
		if it.Batches, err = r.loadBatches(it.ID); err != nil {
			return nil, err
		}
	}
	return list, nil
}
