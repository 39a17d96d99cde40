package memory

import (
	"member-chat-be/internal/plan"

	"github.com/patrickmn/go-cache"
)

// SnapshotRepository persists the plan registry snapshot for the lifetime of
// the process. Only {current plan, available plan ids} survive here; session
// and message state are deliberately excluded from the contract.
type SnapshotRepository struct {
	cache *cache.Cache
}

func NewSnapshotRepository() *SnapshotRepository {
	// Snapshots never expire on their own; the portal session bounds them.
	return &SnapshotRepository{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (r *SnapshotRepository) Save(memberId string, snap plan.Snapshot) {
	r.cache.Set(memberId, snap, cache.NoExpiration)
}

func (r *SnapshotRepository) Load(memberId string) (plan.Snapshot, bool) {
	if x, found := r.cache.Get(memberId); found {
		return x.(plan.Snapshot), true
	}
	return plan.Snapshot{}, false
}
