package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/league-history/internal/domain/owner"
)

type OwnerRepository struct {
	mu     sync.RWMutex
	items  map[string]owner.Owner
	orders []string
}

func NewOwnerRepository(owners []owner.Owner) *OwnerRepository {
	r := &OwnerRepository{}
	r.store(owners)
	return r
}

// ListOwners keeps the order of the last replace.
func (r *OwnerRepository) ListOwners(_ context.Context) ([]owner.Owner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]owner.Owner, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, r.items[id])
	}
	return out, nil
}

func (r *OwnerRepository) ReplaceOwners(_ context.Context, owners []owner.Owner) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store(owners)
	return nil
}

func (r *OwnerRepository) store(owners []owner.Owner) {
	items := make(map[string]owner.Owner, len(owners))
	orders := make([]string, 0, len(owners))
	for _, o := range owners {
		if _, seen := items[o.ID]; !seen {
			orders = append(orders, o.ID)
		}
		items[o.ID] = o
	}
	r.items = items
	r.orders = orders
}
