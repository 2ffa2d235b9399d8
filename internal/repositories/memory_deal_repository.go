package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/versin01/vertical-systems-crm/internal/models"
)

// MemoryDealRepository keeps deals in insertion order. Safe for concurrent use.
type MemoryDealRepository struct {
	mu    sync.RWMutex
	order []string
	deals map[string]models.Deal
	now   func() time.Time
}

func NewMemoryDealRepository(seed ...models.Deal) *MemoryDealRepository {
	r := &MemoryDealRepository{deals: make(map[string]models.Deal), now: time.Now}
	for _, d := range seed {
		if _, exists := r.deals[d.ID]; !exists {
			r.order = append(r.order, d.ID)
		}
		r.deals[d.ID] = d
	}
	return r
}

func (r *MemoryDealRepository) FetchAll(_ context.Context) ([]models.Deal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Deal, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.deals[id])
	}
	return out, nil
}

func (r *MemoryDealRepository) GetByID(_ context.Context, id string) (*models.Deal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.deals[id]
	if !ok {
		return nil, ErrDealNotFound
	}
	return &d, nil
}

func (r *MemoryDealRepository) Create(_ context.Context, deal *models.Deal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.deals[deal.ID]; !exists {
		r.order = append(r.order, deal.ID)
	}
	r.deals[deal.ID] = *deal
	return nil
}

func (r *MemoryDealRepository) Update(_ context.Context, id string, fields models.DealUpdate) (*models.Deal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.deals[id]
	if !ok {
		return nil, ErrDealNotFound
	}
	fields.Apply(&d)
	d.UpdatedAt = r.now()
	r.deals[id] = d
	return &d, nil
}

func (r *MemoryDealRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.deals[id]; !ok {
		return ErrDealNotFound
	}
	delete(r.deals, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
