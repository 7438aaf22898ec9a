package memory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/clinicore/farmacia-api/internal/domain"
	"github.com/clinicore/farmacia-api/internal/domain/entity"
	"github.com/clinicore/farmacia-api/internal/domain/repository"
)

// Adaptadores con lock propio, para uso fuera de una transacción (lecturas
// de catálogo, kardex y reposición; usuarios; catálogo de precios).

var _ repository.ItemRepository = (*ItemRepo)(nil)
var _ repository.MovementRepository = (*MovementRepo)(nil)
var _ repository.ChargeRepository = (*ChargeRepo)(nil)
var _ repository.UserRepository = (*UserRepo)(nil)
var _ repository.PriceRepository = (*PriceRepo)(nil)

// Items devuelve la vista con lock del repositorio de insumos.
func (s *Store) Items() *ItemRepo { return &ItemRepo{s: s} }

// Movements devuelve la vista con lock del kardex.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{s: s} }

// Charges devuelve la vista con lock de los cargos emitidos.
func (s *Store) Charges() *ChargeRepo { return &ChargeRepo{s: s} }

// Users devuelve la vista con lock de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Prices devuelve la vista con lock del catálogo de precios.
func (s *Store) Prices() *PriceRepo { return &PriceRepo{s: s} }

// ItemRepo repositorio de insumos con lock por operación.
type ItemRepo struct{ s *Store }

func (r *ItemRepo) Create(item *entity.InventoryItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.createItem(item)
}

func (r *ItemRepo) GetByID(id string) (*entity.InventoryItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.getItem(id), nil
}

func (r *ItemRepo) GetForUpdate(id string) (*entity.InventoryItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.getItem(id), nil
}

func (r *ItemRepo) UpdateMaster(item *entity.InventoryItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.updateMaster(item)
}

func (r *ItemRepo) AddBatch(itemID string, batch *entity.Batch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.addBatch(itemID, batch)
}

func (r *ItemRepo) UpdateBatchStock(itemID, batchID string, qty int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.updateBatchStock(itemID, batchID, qty)
}

func (r *ItemRepo) DeleteBatch(itemID, batchID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.deleteBatch(itemID, batchID)
}

func (r *ItemRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.deleteItem(id)
}

func (r *ItemRepo) List(limit, offset int) ([]*entity.InventoryItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.listItems(limit, offset), nil
}

func (r *ItemRepo) ListBelowTarget() ([]*entity.InventoryItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.listBelowTarget(), nil
}

// MovementRepo kardex con lock por operación.
type MovementRepo struct{ s *Store }

func (r *MovementRepo) Create(m *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.createMovement(m)
}

func (r *MovementRepo) Search(filter string, limit, offset int) ([]*entity.StockMovement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.searchMovements(filter, limit, offset), nil
}

func (r *MovementRepo) ListByItem(itemID string, limit, offset int) ([]*entity.StockMovement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.listMovementsByItem(itemID, limit, offset), nil
}

// ChargeRepo cargos emitidos, con lock por operación.
type ChargeRepo struct{ s *Store }

func (r *ChargeRepo) Create(c *entity.ChargeLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&txChargeRepo{s: r.s}).Create(c)
}

func (r *ChargeRepo) ListByPatient(patientRef string, limit, offset int) ([]*entity.ChargeLine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return (&txChargeRepo{s: r.s}).ListByPatient(patientRef, limit, offset)
}

// UserRepo usuarios del personal, con lock por operación.
type UserRepo struct{ s *Store }

func (r *UserRepo) Create(user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.Email]; ok {
		return domain.ErrDuplicate
	}
	clone := *user
	if clone.ID == "" {
		clone.ID = uuid.New().String()
	}
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = time.Now()
	}
	r.s.users[clone.Email] = &clone
	return nil
}

func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) FindByEmail(email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[email]
	if !ok {
		return nil, nil
	}
	clone := *u
	return &clone, nil
}

// PriceRepo catálogo de precios externo simulado.
type PriceRepo struct{ s *Store }

// Resolve devuelve el precio vinculado o ceros si no hay vínculo: la
// ausencia de precio nunca es un error.
func (r *PriceRepo) Resolve(itemID string) (decimal.Decimal, decimal.Decimal, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	link, ok := r.s.prices[itemID]
	if !ok {
		return decimal.Zero, decimal.Zero, false, nil
	}
	return link.unitPrice, link.taxRate, true, nil
}
