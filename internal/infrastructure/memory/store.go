// Package memory implementa todos los puertos de persistencia sobre mapas
// protegidos por mutex. Es el backend cuando no hay DATABASE_URL (modo
// desarrollo/demo) y el backend de las pruebas unitarias: mismas interfaces,
// misma semántica todo-o-nada que el backend PostgreSQL.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/clinicore/farmacia-api/internal/application/catalog"
	"github.com/clinicore/farmacia-api/internal/application/dispense"
	"github.com/clinicore/farmacia-api/internal/domain"
	"github.com/clinicore/farmacia-api/internal/domain/entity"
	"github.com/clinicore/farmacia-api/internal/domain/repository"
	"github.com/clinicore/farmacia-api/pkg/textutil"
)

var _ catalog.TxRunner = (*Store)(nil)
var _ dispense.TxRunner = (*Store)(nil)

type priceLink struct {
	unitPrice decimal.Decimal
	taxRate   decimal.Decimal
}

// Store almacén en memoria. El mutex serializa toda mutación: más estricto
// que el bloqueo por insumo del backend SQL, igual de correcto.
type Store struct {
	mu        sync.RWMutex
	items     map[string]*entity.InventoryItem
	movements []*entity.StockMovement
	charges   []*entity.ChargeLine
	users     map[string]*entity.User // por email
	prices    map[string]priceLink    // por item id
}

// NewStore construye un almacén vacío.
func NewStore() *Store {
	return &Store{
		items:  make(map[string]*entity.InventoryItem),
		users:  make(map[string]*entity.User),
		prices: make(map[string]priceLink),
	}
}

// LinkPrice vincula precio unitario y tasa de impuesto a un insumo (simula
// el catálogo de precios externo).
func (s *Store) LinkPrice(itemID string, unitPrice, taxRate decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prices[itemID] = priceLink{unitPrice: unitPrice, taxRate: taxRate}
}

// ──────────────────────────────────────────────────────────────────────────
// Transacciones: snapshot + restore. Dentro del closure los repos escriben
// directo al estado; si fn falla se restaura el snapshot completo, de modo
// que un error a mitad de un plan de extracción no deja efecto observable.
// ──────────────────────────────────────────────────────────────────────────

type snapshot struct {
	items     map[string]*entity.InventoryItem
	movements []*entity.StockMovement
	charges   []*entity.ChargeLine
}

func (s *Store) takeSnapshot() snapshot {
	items := make(map[string]*entity.InventoryItem, len(s.items))
	for id, item := range s.items {
		items[id] = copyItem(item)
	}
	movements := make([]*entity.StockMovement, len(s.movements))
	copy(movements, s.movements)
	charges := make([]*entity.ChargeLine, len(s.charges))
	copy(charges, s.charges)
	return snapshot{items: items, movements: movements, charges: charges}
}

func (s *Store) restore(snap snapshot) {
	s.items = snap.items
	s.movements = snap.movements
	s.charges = snap.charges
}

// Run ejecuta fn con repos de insumos y kardex bajo el lock del almacén.
func (s *Store) Run(_ context.Context, fn func(
	items repository.ItemRepository,
	movements repository.MovementRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.takeSnapshot()
	if err := fn(&txItemRepo{s: s}, &txMovementRepo{s: s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// RunDispense ejecuta fn incluyendo además el repositorio de cargos.
func (s *Store) RunDispense(_ context.Context, fn func(
	items repository.ItemRepository,
	movements repository.MovementRepository,
	charges repository.ChargeRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.takeSnapshot()
	if err := fn(&txItemRepo{s: s}, &txMovementRepo{s: s}, &txChargeRepo{s: s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────
// Lógica interna sin lock (el caller ya lo sostiene)
// ──────────────────────────────────────────────────────────────────────────

func copyItem(i *entity.InventoryItem) *entity.InventoryItem {
	if i == nil {
		return nil
	}
	clone := *i
	clone.Batches = make([]entity.Batch, len(i.Batches))
	copy(clone.Batches, i.Batches)
	return &clone
}

func (s *Store) createItem(item *entity.InventoryItem) error {
	if _, ok := s.items[item.ID]; ok {
		return domain.ErrDuplicate
	}
	s.items[item.ID] = copyItem(item)
	return nil
}

func (s *Store) getItem(id string) *entity.InventoryItem {
	return copyItem(s.items[id])
}

func (s *Store) updateMaster(item *entity.InventoryItem) error {
	stored, ok := s.items[item.ID]
	if !ok {
		return domain.ErrNotFound
	}
	clone := copyItem(item)
	clone.Batches = stored.Batches // datos maestros solamente
	s.items[item.ID] = clone
	return nil
}

func (s *Store) addBatch(itemID string, batch *entity.Batch) error {
	item, ok := s.items[itemID]
	if !ok {
		return domain.ErrNotFound
	}
	item.Batches = append(item.Batches, *batch)
	return nil
}

func (s *Store) updateBatchStock(itemID, batchID string, qty int64) error {
	if qty < 0 {
		return domain.ErrInvalidInput
	}
	item, ok := s.items[itemID]
	if !ok {
		return domain.ErrNotFound
	}
	batch := item.FindBatch(batchID)
	if batch == nil {
		return domain.ErrNotFound
	}
	batch.CurrentStock = qty
	batch.UpdatedAt = time.Now()
	return nil
}

func (s *Store) deleteBatch(itemID, batchID string) error {
	item, ok := s.items[itemID]
	if !ok {
		return domain.ErrNotFound
	}
	for idx := range item.Batches {
		if item.Batches[idx].ID == batchID {
			item.Batches = append(item.Batches[:idx], item.Batches[idx+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *Store) deleteItem(id string) error {
	if _, ok := s.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *Store) listItems(limit, offset int) []*entity.InventoryItem {
	all := make([]*entity.InventoryItem, 0, len(s.items))
	for _, item := range s.items {
		all = append(all, copyItem(item))
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	if offset >= len(all) {
		return nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

func (s *Store) listBelowTarget() []*entity.InventoryItem {
	var below []*entity.InventoryItem
	for _, item := range s.items {
		if item.TotalStock() < item.ReplenishmentTarget() {
			below = append(below, copyItem(item))
		}
	}
	sort.Slice(below, func(i, j int) bool { return below[i].ID < below[j].ID })
	return below
}

func (s *Store) createMovement(m *entity.StockMovement) error {
	clone := *m
	if clone.ID == "" {
		clone.ID = uuid.New().String()
	}
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = time.Now()
	}
	if !clone.IsValid() {
		return domain.ErrInvalidInput
	}
	s.movements = append(s.movements, &clone)
	return nil
}

func (s *Store) searchMovements(filter string, limit, offset int) []*entity.StockMovement {
	var matched []*entity.StockMovement
	// Apéndice cronológico: recorrer al revés da el más reciente primero
	for i := len(s.movements) - 1; i >= 0; i-- {
		m := s.movements[i]
		if filter == "" ||
			textutil.ContainsFold(m.ItemName, filter) ||
			textutil.ContainsFold(m.BatchLabel, filter) ||
			textutil.ContainsFold(m.Reason, filter) {
			matched = append(matched, m)
		}
	}
	return pageMovements(matched, limit, offset)
}

func (s *Store) listMovementsByItem(itemID string, limit, offset int) []*entity.StockMovement {
	var matched []*entity.StockMovement
	for i := len(s.movements) - 1; i >= 0; i-- {
		if s.movements[i].ItemID == itemID {
			matched = append(matched, s.movements[i])
		}
	}
	return pageMovements(matched, limit, offset)
}

func pageMovements(list []*entity.StockMovement, limit, offset int) []*entity.StockMovement {
	if offset >= len(list) {
		return nil
	}
	end := offset + limit
	if end > len(list) {
		end = len(list)
	}
	out := make([]*entity.StockMovement, end-offset)
	for i, m := range list[offset:end] {
		clone := *m
		out[i] = &clone
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────
// Vistas transaccionales (sin lock propio: Run/RunDispense lo sostienen)
// ──────────────────────────────────────────────────────────────────────────

type txItemRepo struct{ s *Store }

func (r *txItemRepo) Create(item *entity.InventoryItem) error { return r.s.createItem(item) }
func (r *txItemRepo) GetByID(id string) (*entity.InventoryItem, error) {
	return r.s.getItem(id), nil
}
func (r *txItemRepo) GetForUpdate(id string) (*entity.InventoryItem, error) {
	return r.s.getItem(id), nil
}
func (r *txItemRepo) UpdateMaster(item *entity.InventoryItem) error { return r.s.updateMaster(item) }
func (r *txItemRepo) AddBatch(itemID string, batch *entity.Batch) error {
	return r.s.addBatch(itemID, batch)
}
func (r *txItemRepo) UpdateBatchStock(itemID, batchID string, qty int64) error {
	return r.s.updateBatchStock(itemID, batchID, qty)
}
func (r *txItemRepo) DeleteBatch(itemID, batchID string) error {
	return r.s.deleteBatch(itemID, batchID)
}
func (r *txItemRepo) Delete(id string) error { return r.s.deleteItem(id) }
func (r *txItemRepo) List(limit, offset int) ([]*entity.InventoryItem, error) {
	return r.s.listItems(limit, offset), nil
}
func (r *txItemRepo) ListBelowTarget() ([]*entity.InventoryItem, error) {
	return r.s.listBelowTarget(), nil
}

type txMovementRepo struct{ s *Store }

func (r *txMovementRepo) Create(m *entity.StockMovement) error { return r.s.createMovement(m) }
func (r *txMovementRepo) Search(filter string, limit, offset int) ([]*entity.StockMovement, error) {
	return r.s.searchMovements(filter, limit, offset), nil
}
func (r *txMovementRepo) ListByItem(itemID string, limit, offset int) ([]*entity.StockMovement, error) {
	return r.s.listMovementsByItem(itemID, limit, offset), nil
}

type txChargeRepo struct{ s *Store }

func (r *txChargeRepo) Create(c *entity.ChargeLine) error {
	clone := *c
	if clone.ID == "" {
		clone.ID = uuid.New().String()
	}
	r.s.charges = append(r.s.charges, &clone)
	return nil
}

func (r *txChargeRepo) ListByPatient(patientRef string, limit, offset int) ([]*entity.ChargeLine, error) {
	var matched []*entity.ChargeLine
	for i := len(r.s.charges) - 1; i >= 0; i-- {
		if patientRef == "" || r.s.charges[i].PatientRef == patientRef {
			clone := *r.s.charges[i]
			matched = append(matched, &clone)
		}
	}
	if offset >= len(matched) {
		return nil, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}
