package service_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"retailpos/internal/lock"
	"retailpos/internal/model"
	"retailpos/internal/notifier"
	"retailpos/internal/repository"
	"retailpos/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory transaction runner ─────────────────────────────────────────────

// txStore is a stub store that can be rolled back to a snapshot.
type txStore interface {
	snapshot() interface{}
	restore(interface{})
}

// memTx mirrors the rollback contract of service.GormTx: when fn errors,
// every participating store is restored to its pre-transaction state, so no
// write made inside the failed transaction survives. Snapshots cover the
// whole store, so concurrent transactions must be serialized by the caller —
// the processor's advisory locks do exactly that in the concurrency tests.
func memTx(stores ...txStore) service.TxRunner {
	return func(_ context.Context, fn func(tx *gorm.DB) error) error {
		snaps := make([]interface{}, len(stores))
		for i, s := range stores {
			snaps[i] = s.snapshot()
		}
		if err := fn(nil); err != nil {
			for i := len(stores) - 1; i >= 0; i-- {
				stores[i].restore(snaps[i])
			}
			return err
		}
		return nil
	}
}

// ── In-memory lock store ─────────────────────────────────────────────────────

type memLockStore struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func newMemLockStore() *memLockStore { return &memLockStore{keys: make(map[string]struct{})} }

func (s *memLockStore) SetNX(_ context.Context, key string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.keys[key]; exists {
		return false, nil
	}
	s.keys[key] = struct{}{}
	return true, nil
}

func (s *memLockStore) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, key)
	return nil
}

func (s *memLockStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.keys)
}

var _ lock.Store = (*memLockStore)(nil)

func newTestCoordinator(store lock.Store) *lock.Coordinator {
	c := lock.NewCoordinator(store, lock.Options{
		TTL:            5 * time.Second,
		AcquireTimeout: 50 * time.Millisecond,
		PollInterval:   time.Millisecond,
	})
	return c
}

// ── Variant repository stub ──────────────────────────────────────────────────

type stubVariantRepo struct {
	variants map[uuid.UUID]*model.Variant
}

func newStubVariantRepo() *stubVariantRepo {
	return &stubVariantRepo{variants: make(map[uuid.UUID]*model.Variant)}
}

func (r *stubVariantRepo) Create(_ context.Context, v *model.Variant) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.variants[v.ID] = v
	return nil
}

func (r *stubVariantRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Variant, error) {
	v, ok := r.variants[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return v, nil
}

func (r *stubVariantRepo) FindBySKU(_ context.Context, sku string) (*model.Variant, error) {
	for _, v := range r.variants {
		if v.SKU == sku {
			return v, nil
		}
	}
	return nil, errors.New("record not found")
}

func (r *stubVariantRepo) FindByBarcode(_ context.Context, barcode string) (*model.Variant, error) {
	for _, v := range r.variants {
		if v.Barcode == barcode {
			return v, nil
		}
	}
	return nil, errors.New("record not found")
}

func (r *stubVariantRepo) FindWithProductTx(_ *gorm.DB, id uuid.UUID) (*model.Variant, error) {
	v, ok := r.variants[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return v, nil
}

func (r *stubVariantRepo) List(_ context.Context) ([]model.Variant, error) {
	result := make([]model.Variant, 0, len(r.variants))
	for _, v := range r.variants {
		result = append(result, *v)
	}
	return result, nil
}

var _ repository.VariantRepository = (*stubVariantRepo)(nil)

// ── Stock repository stub ────────────────────────────────────────────────────

type stubStockRepo struct {
	mu         sync.Mutex
	quantities map[uuid.UUID]int
	exists     map[uuid.UUID]bool
}

func newStubStockRepo() *stubStockRepo {
	return &stubStockRepo{
		quantities: make(map[uuid.UUID]int),
		exists:     make(map[uuid.UUID]bool),
	}
}

func (r *stubStockRepo) seed(variantID uuid.UUID, qty int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quantities[variantID] = qty
	r.exists[variantID] = true
}

func (r *stubStockRepo) GetForUpdateTx(_ *gorm.DB, variantID uuid.UUID) (int, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.exists[variantID] {
		return 0, false, nil
	}
	return r.quantities[variantID], true, nil
}

func (r *stubStockRepo) CreateTx(_ *gorm.DB, rec *model.StockRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quantities[rec.VariantID] = rec.Quantity
	r.exists[rec.VariantID] = true
	return nil
}

func (r *stubStockRepo) UpdateQuantityTx(_ *gorm.DB, variantID uuid.UUID, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quantities[variantID] = qty
	return nil
}

func (r *stubStockRepo) GetQuantity(_ context.Context, variantID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.quantities[variantID], nil
}

func (r *stubStockRepo) List(_ context.Context) ([]model.StockRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	records := make([]model.StockRecord, 0, len(r.quantities))
	for id, qty := range r.quantities {
		records = append(records, model.StockRecord{VariantID: id, Quantity: qty})
	}
	return records, nil
}

type stockSnapshot struct {
	quantities map[uuid.UUID]int
	exists     map[uuid.UUID]bool
}

func (r *stubStockRepo) snapshot() interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := stockSnapshot{
		quantities: make(map[uuid.UUID]int, len(r.quantities)),
		exists:     make(map[uuid.UUID]bool, len(r.exists)),
	}
	for k, v := range r.quantities {
		snap.quantities[k] = v
	}
	for k, v := range r.exists {
		snap.exists[k] = v
	}
	return snap
}

func (r *stubStockRepo) restore(s interface{}) {
	snap := s.(stockSnapshot)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quantities = snap.quantities
	r.exists = snap.exists
}

var (
	_ repository.StockRepository = (*stubStockRepo)(nil)
	_ txStore                    = (*stubStockRepo)(nil)
)

// ── Movement repository stub ─────────────────────────────────────────────────

type stubMovementRepo struct {
	mu        sync.Mutex
	movements []model.StockMovement
}

func newStubMovementRepo() *stubMovementRepo { return &stubMovementRepo{} }

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) List(_ context.Context, filter repository.MovementFilter) ([]model.StockMovement, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []model.StockMovement
	for _, m := range r.movements {
		if filter.VariantID != nil && m.VariantID != *filter.VariantID {
			continue
		}
		if filter.Action != "" && m.Action != filter.Action {
			continue
		}
		result = append(result, m)
	}
	return result, int64(len(result)), nil
}

// The movement log is append-only, so a length marker is snapshot enough.
func (r *stubMovementRepo) snapshot() interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.movements)
}

func (r *stubMovementRepo) restore(s interface{}) {
	n := s.(int)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movements = r.movements[:n]
}

func (r *stubMovementRepo) byVariant(variantID uuid.UUID) []model.StockMovement {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []model.StockMovement
	for _, m := range r.movements {
		if m.VariantID == variantID {
			result = append(result, m)
		}
	}
	return result
}

var (
	_ repository.MovementRepository = (*stubMovementRepo)(nil)
	_ txStore                       = (*stubMovementRepo)(nil)
)

// ── Order repository stub ────────────────────────────────────────────────────

type stubOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*model.Order
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[uuid.UUID]*model.Order)}
}

func (r *stubOrderRepo) Create(_ context.Context, o *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	o.CreatedAt = time.Now()
	r.orders[o.ID] = o
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return o, nil
}

func (r *stubOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return errors.New("record not found")
	}
	o.Status = status
	return nil
}

var _ repository.OrderRepository = (*stubOrderRepo)(nil)

// ── Sale repository stub ─────────────────────────────────────────────────────

type stubSaleRepo struct {
	mu    sync.Mutex
	sales map[uuid.UUID]*model.Sale
	// failCreate simulates a storage fault on insert.
	failCreate bool
}

func newStubSaleRepo() *stubSaleRepo { return &stubSaleRepo{sales: make(map[uuid.UUID]*model.Sale)} }

func (r *stubSaleRepo) CreateTx(_ *gorm.DB, s *model.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate {
		return errors.New("insert failed")
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.CreatedAt = time.Now()
	r.sales[s.ID] = s
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return s, nil
}

func (r *stubSaleRepo) FindByInvoice(_ context.Context, invoiceNumber string) (*model.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sales {
		if s.InvoiceNumber == invoiceNumber {
			return s, nil
		}
	}
	return nil, errors.New("record not found")
}

func (r *stubSaleRepo) List(_ context.Context, _ int) ([]model.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]model.Sale, 0, len(r.sales))
	for _, s := range r.sales {
		result = append(result, *s)
	}
	return result, nil
}

func (r *stubSaleRepo) snapshot() interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make(map[uuid.UUID]struct{}, len(r.sales))
	for id := range r.sales {
		ids[id] = struct{}{}
	}
	return ids
}

func (r *stubSaleRepo) restore(s interface{}) {
	ids := s.(map[uuid.UUID]struct{})
	r.mu.Lock()
	defer r.mu.Unlock()
	for id := range r.sales {
		if _, ok := ids[id]; !ok {
			delete(r.sales, id)
		}
	}
}

var (
	_ repository.SaleRepository = (*stubSaleRepo)(nil)
	_ txStore                   = (*stubSaleRepo)(nil)
)

// ── Return repository stub ───────────────────────────────────────────────────

type stubReturnRepo struct {
	mu      sync.Mutex
	returns []*model.Return
}

func newStubReturnRepo() *stubReturnRepo { return &stubReturnRepo{} }

func (r *stubReturnRepo) CreateTx(_ *gorm.DB, ret *model.Return) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ret.ID == uuid.Nil {
		ret.ID = uuid.New()
	}
	ret.CreatedAt = time.Now()
	r.returns = append(r.returns, ret)
	return nil
}

func (r *stubReturnRepo) List(_ context.Context) ([]model.Return, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]model.Return, 0, len(r.returns))
	for _, ret := range r.returns {
		result = append(result, *ret)
	}
	return result, nil
}

func (r *stubReturnRepo) snapshot() interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.returns)
}

func (r *stubReturnRepo) restore(s interface{}) {
	n := s.(int)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.returns = r.returns[:n]
}

var (
	_ repository.ReturnRepository = (*stubReturnRepo)(nil)
	_ txStore                     = (*stubReturnRepo)(nil)
)

// ── Recording notifier ───────────────────────────────────────────────────────

type recordingNotifier struct {
	mu      sync.Mutex
	updates []notifier.StockUpdate
}

func (n *recordingNotifier) Publish(_ context.Context, update notifier.StockUpdate) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.updates = append(n.updates, update)
}

func (n *recordingNotifier) all() []notifier.StockUpdate {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]notifier.StockUpdate, len(n.updates))
	copy(out, n.updates)
	return out
}

var _ notifier.Notifier = (*recordingNotifier)(nil)

// ── Seed helpers ─────────────────────────────────────────────────────────────

func seedVariant(repo *stubVariantRepo, sku, barcode string, price, taxRate string) *model.Variant {
	product := &model.Product{
		ID:      uuid.New(),
		Name:    "Test Product",
		TaxRate: decimal.RequireFromString(taxRate),
	}
	v := &model.Variant{
		ID:           uuid.New(),
		ProductID:    product.ID,
		SKU:          sku,
		Barcode:      barcode,
		SellingPrice: decimal.RequireFromString(price),
		Product:      product,
	}
	repo.variants[v.ID] = v
	return v
}
