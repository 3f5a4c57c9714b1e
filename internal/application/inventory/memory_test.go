package inventory

import (
	"context"
	"sync"

	"github.com/jhoicas/Activos-api/internal/domain"
	"github.com/jhoicas/Activos-api/internal/domain/entity"
	"github.com/jhoicas/Activos-api/internal/domain/repository"
)

// memStore respaldo en memoria compartido por los repos fake. El TxRunner de
// prueba toma un snapshot antes de cada callback y lo restaura si falla, con
// lo que reproduce la atomicidad de una transacción real.
type memStore struct {
	items  map[string]*entity.StockItem
	movs   []*entity.StockMovement
	counts map[string]*entity.StockCount
	reqs   []*entity.PurchaseRequisition
}

func newMemStore() *memStore {
	return &memStore{
		items:  make(map[string]*entity.StockItem),
		counts: make(map[string]*entity.StockCount),
	}
}

func cloneItem(it *entity.StockItem) *entity.StockItem {
	c := *it
	c.Batches = append([]entity.StockBatch(nil), it.Batches...)
	if it.DeletedAt != nil {
		d := *it.DeletedAt
		c.DeletedAt = &d
	}
	return &c
}

func cloneCount(sc *entity.StockCount) *entity.StockCount {
	c := *sc
	c.Lines = append([]entity.CountLine(nil), sc.Lines...)
	if sc.FinalizedAt != nil {
		f := *sc.FinalizedAt
		c.FinalizedAt = &f
	}
	return &c
}

func cloneMovement(m *entity.StockMovement) *entity.StockMovement {
	c := *m
	c.BatchIDs = append([]string(nil), m.BatchIDs...)
	return &c
}

func (s *memStore) snapshot() *memStore {
	snap := newMemStore()
	for id, it := range s.items {
		snap.items[id] = cloneItem(it)
	}
	for id, c := range s.counts {
		snap.counts[id] = cloneCount(c)
	}
	for _, m := range s.movs {
		snap.movs = append(snap.movs, cloneMovement(m))
	}
	for _, r := range s.reqs {
		c := *r
		snap.reqs = append(snap.reqs, &c)
	}
	return snap
}

func (s *memStore) restore(snap *memStore) {
	s.items = snap.items
	s.movs = snap.movs
	s.counts = snap.counts
	s.reqs = snap.reqs
}

// memTxRunner ejecuta el callback sobre el store con semántica todo-o-nada.
type memTxRunner struct {
	mu    sync.Mutex
	store *memStore
}

var _ TxRunner = (*memTxRunner)(nil)

func (r *memTxRunner) RunShared(_ context.Context, _ string, fn TxFunc) error {
	return r.run(fn)
}

func (r *memTxRunner) RunExclusive(_ context.Context, _ string, fn TxFunc) error {
	return r.run(fn)
}

func (r *memTxRunner) run(fn TxFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := r.store.snapshot()
	err := fn(
		&memItemRepo{s: r.store},
		&memMovRepo{s: r.store},
		&memCountRepo{s: r.store},
		&memReqRepo{s: r.store},
	)
	if err != nil {
		r.store.restore(snap)
	}
	return err
}

type memItemRepo struct{ s *memStore }

var _ repository.StockItemRepository = (*memItemRepo)(nil)

func (r *memItemRepo) Create(_ context.Context, item *entity.StockItem) error {
	if _, ok := r.s.items[item.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, other := range r.s.items {
		if other.DeletedAt == nil && other.CompanyID == item.CompanyID && other.SKU == item.SKU {
			return domain.ErrDuplicate
		}
	}
	r.s.items[item.ID] = cloneItem(item)
	return nil
}

func (r *memItemRepo) GetByID(_ context.Context, id string) (*entity.StockItem, error) {
	it, ok := r.s.items[id]
	if !ok || it.DeletedAt != nil {
		return nil, nil
	}
	return cloneItem(it), nil
}

func (r *memItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockItem, error) {
	return r.GetByID(ctx, id)
}

func (r *memItemRepo) Save(_ context.Context, item *entity.StockItem) error {
	if _, ok := r.s.items[item.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.items[item.ID] = cloneItem(item)
	return nil
}

func (r *memItemRepo) SoftDelete(_ context.Context, item *entity.StockItem) error {
	stored, ok := r.s.items[item.ID]
	if !ok || stored.DeletedAt != nil {
		return domain.ErrNotFound
	}
	r.s.items[item.ID] = cloneItem(item)
	return nil
}

func (r *memItemRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.StockItem, error) {
	var out []*entity.StockItem
	for _, it := range r.s.items {
		if it.CompanyID == companyID && it.DeletedAt == nil {
			out = append(out, cloneItem(it))
		}
	}
	return page(out, limit, offset), nil
}

type memMovRepo struct{ s *memStore }

var _ repository.StockMovementRepository = (*memMovRepo)(nil)

func (r *memMovRepo) Create(_ context.Context, m *entity.StockMovement) error {
	r.s.movs = append(r.s.movs, cloneMovement(m))
	return nil
}

func (r *memMovRepo) ListByItem(_ context.Context, itemID string, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for i := len(r.s.movs) - 1; i >= 0; i-- {
		if r.s.movs[i].StockItemID == itemID {
			out = append(out, cloneMovement(r.s.movs[i]))
		}
	}
	return page(out, limit, offset), nil
}

type memCountRepo struct{ s *memStore }

var _ repository.StockCountRepository = (*memCountRepo)(nil)

func (r *memCountRepo) Create(_ context.Context, count *entity.StockCount) error {
	r.s.counts[count.ID] = cloneCount(count)
	return nil
}

func (r *memCountRepo) GetByID(_ context.Context, id string) (*entity.StockCount, error) {
	c, ok := r.s.counts[id]
	if !ok {
		return nil, nil
	}
	return cloneCount(c), nil
}

func (r *memCountRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockCount, error) {
	return r.GetByID(ctx, id)
}

func (r *memCountRepo) Finalize(_ context.Context, count *entity.StockCount) error {
	stored, ok := r.s.counts[count.ID]
	if !ok || stored.Status != entity.CountStatusInProgress {
		return domain.ErrConflict
	}
	r.s.counts[count.ID] = cloneCount(count)
	return nil
}

func (r *memCountRepo) HasInProgress(_ context.Context, companyID string) (bool, error) {
	for _, c := range r.s.counts {
		if c.CompanyID == companyID && c.Status == entity.CountStatusInProgress {
			return true, nil
		}
	}
	return false, nil
}

func (r *memCountRepo) InProgressReferencesItem(_ context.Context, companyID, itemID string) (bool, error) {
	for _, c := range r.s.counts {
		if c.CompanyID != companyID || c.Status != entity.CountStatusInProgress {
			continue
		}
		for _, l := range c.Lines {
			if l.StockItemID == itemID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *memCountRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.StockCount, error) {
	var out []*entity.StockCount
	for _, c := range r.s.counts {
		if c.CompanyID == companyID {
			out = append(out, cloneCount(c))
		}
	}
	return page(out, limit, offset), nil
}

type memReqRepo struct{ s *memStore }

var _ repository.RequisitionRepository = (*memReqRepo)(nil)

func (r *memReqRepo) Create(_ context.Context, req *entity.PurchaseRequisition) error {
	c := *req
	r.s.reqs = append(r.s.reqs, &c)
	return nil
}

func (r *memReqRepo) HasPendingAutoForItem(_ context.Context, companyID, itemID string) (bool, error) {
	for _, req := range r.s.reqs {
		if req.CompanyID == companyID && req.StockItemID == itemID &&
			req.AutoGenerated && req.Status == entity.RequisitionStatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (r *memReqRepo) ListPendingByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.PurchaseRequisition, error) {
	var out []*entity.PurchaseRequisition
	for _, req := range r.s.reqs {
		if req.CompanyID == companyID && req.Status == entity.RequisitionStatusPending {
			c := *req
			out = append(out, &c)
		}
	}
	return page(out, limit, offset), nil
}

func page[T any](in []T, limit, offset int) []T {
	if offset >= len(in) {
		return nil
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}
