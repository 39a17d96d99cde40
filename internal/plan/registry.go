package plan

import (
	"sync"
	"time"

	"member-chat-be/internal/entity"
	"member-chat-be/internal/hours"
	"member-chat-be/internal/pkg/logger"
)

// Snapshot is the only state the registry persists: the plan list identity
// and the current selection. Session, messages, and transient UI state are
// never part of it.
type Snapshot struct {
	CurrentPlanId    string   `json:"current_plan_id"`
	AvailablePlanIds []string `json:"available_plan_ids"`
}

// SnapshotStore persists registry snapshots across portal reloads.
type SnapshotStore interface {
	Save(memberId string, snap Snapshot)
	Load(memberId string) (Snapshot, bool)
}

// Registry holds the member's plans. The plan list is immutable after
// construction; only the current-plan pointer moves, and only via SwitchPlan.
// The registry knows nothing about chat state: lock discipline is enforced a
// layer up by the chat controller.
type Registry struct {
	mu        sync.RWMutex
	memberId  string
	plans     []*entity.Plan
	currentId string
	evaluator *hours.Evaluator
	store     SnapshotStore
	logger    logger.ILogger
}

// NewRegistry keeps the plans in insertion order from the eligibility source.
// currentId selects the current plan; when it is unknown the first plan wins.
// A previously persisted snapshot restores the selection only if it still
// matches the available list.
func NewRegistry(memberId string, plans []*entity.Plan, currentId string, ev *hours.Evaluator, store SnapshotStore, log logger.ILogger) *Registry {
	r := &Registry{
		memberId:  memberId,
		plans:     plans,
		evaluator: ev,
		store:     store,
		logger:    log,
	}

	if r.find(currentId) == nil && len(plans) > 0 {
		currentId = plans[0].Id
	}
	r.currentId = currentId

	if store != nil {
		if snap, ok := store.Load(memberId); ok {
			if r.find(snap.CurrentPlanId) != nil {
				r.currentId = snap.CurrentPlanId
			}
		}
	}
	r.persist()
	return r
}

// CurrentPlan returns nil when the member has no plans.
func (r *Registry) CurrentPlan() *entity.Plan {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.find(r.currentId)
}

// AvailablePlans returns all plans regardless of chat eligibility, in
// insertion order. Callers filter as needed.
func (r *Registry) AvailablePlans() []*entity.Plan {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.Plan, len(r.plans))
	copy(out, r.plans)
	return out
}

// SwitchPlan moves the current-plan pointer. Unknown ids are a no-op and
// return false. Lock enforcement happens in the chat controller layer.
func (r *Registry) SwitchPlan(planId string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.find(planId) == nil {
		return false
	}
	r.currentId = planId
	r.persistLocked()
	return true
}

func (r *Registry) IsPlanChatEligible(planId string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p := r.find(planId)
	return p != nil && p.ChatEligible
}

// BusinessHours returns the plan's owned schedule, nil for unknown ids.
func (r *Registry) BusinessHours(planId string) *entity.BusinessHours {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p := r.find(planId)
	if p == nil {
		return nil
	}
	h := p.BusinessHours
	return &h
}

// TermsAndConditions returns ("", false) for unknown ids, never an error.
func (r *Registry) TermsAndConditions(planId string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p := r.find(planId)
	if p == nil {
		return "", false
	}
	return p.TermsAndConditions, true
}

// IsWithinBusinessHours delegates to the evaluator on the plan's owned
// schedule. Unknown plan means false.
func (r *Registry) IsWithinBusinessHours(planId string, now time.Time) bool {
	h := r.BusinessHours(planId)
	if h == nil {
		return false
	}
	return r.evaluator.IsCurrentlyOpen(h, now)
}

func (r *Registry) find(planId string) *entity.Plan {
	for _, p := range r.plans {
		if p.Id == planId {
			return p
		}
	}
	return nil
}

func (r *Registry) persist() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.persistLocked()
}

func (r *Registry) persistLocked() {
	if r.store == nil {
		return
	}
	ids := make([]string, 0, len(r.plans))
	for _, p := range r.plans {
		ids = append(ids, p.Id)
	}
	r.store.Save(r.memberId, Snapshot{
		CurrentPlanId:    r.currentId,
		AvailablePlanIds: ids,
	})
}
