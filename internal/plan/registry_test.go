package plan

import (
	"testing"
	"time"

	"member-chat-be/internal/entity"
	"member-chat-be/internal/hours"
)

type fakeStore struct {
	snaps map[string]Snapshot
}

func newFakeStore() *fakeStore {
	return &fakeStore{snaps: make(map[string]Snapshot)}
}

func (s *fakeStore) Save(memberId string, snap Snapshot) {
	s.snaps[memberId] = snap
}

func (s *fakeStore) Load(memberId string) (Snapshot, bool) {
	snap, ok := s.snaps[memberId]
	return snap, ok
}

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

func open24x7() entity.BusinessHours {
	return entity.BusinessHours{Is24x7: true, Source: entity.HoursSourceAPI}
}

func twoPlans() []*entity.Plan {
	return []*entity.Plan{
		{Id: "plan-1", Name: "Medical PPO", LineOfBusiness: entity.LOBMedical, ChatEligible: true, BusinessHours: open24x7(), TermsAndConditions: "medical terms", IsActive: true},
		{Id: "plan-2", Name: "Dental", LineOfBusiness: entity.LOBDental, ChatEligible: false, BusinessHours: entity.BusinessHours{}, IsActive: true},
	}
}

func newTestRegistry(plans []*entity.Plan, store SnapshotStore) *Registry {
	return NewRegistry("member-1", plans, "plan-1", hours.NewEvaluator(), store, nopLogger{})
}

func TestSwitchPlan(t *testing.T) {
	r := newTestRegistry(twoPlans(), nil)

	if got := r.CurrentPlan(); got == nil || got.Id != "plan-1" {
		t.Fatalf("CurrentPlan() = %v, want plan-1", got)
	}

	if !r.SwitchPlan("plan-2") {
		t.Fatal("SwitchPlan(plan-2) = false, want true")
	}
	if got := r.CurrentPlan(); got.Id != "plan-2" {
		t.Errorf("CurrentPlan() after switch = %s, want plan-2", got.Id)
	}

	// Unknown id: no-op, current unchanged.
	if r.SwitchPlan("plan-99") {
		t.Error("SwitchPlan(plan-99) = true, want false")
	}
	if got := r.CurrentPlan(); got.Id != "plan-2" {
		t.Errorf("CurrentPlan() after failed switch = %s, want plan-2", got.Id)
	}
}

func TestAvailablePlansOrder(t *testing.T) {
	r := newTestRegistry(twoPlans(), nil)

	plans := r.AvailablePlans()
	if len(plans) != 2 {
		t.Fatalf("len(AvailablePlans()) = %d, want 2", len(plans))
	}
	// Insertion order from the eligibility source, never re-sorted, and
	// chat-ineligible plans are still listed.
	if plans[0].Id != "plan-1" || plans[1].Id != "plan-2" {
		t.Errorf("AvailablePlans order = [%s %s]", plans[0].Id, plans[1].Id)
	}
}

func TestSinglePlanMember(t *testing.T) {
	r := newTestRegistry(twoPlans()[:1], nil)
	if got := len(r.AvailablePlans()); got != 1 {
		t.Errorf("len(AvailablePlans()) = %d, want 1", got)
	}
}

func TestNoPlans(t *testing.T) {
	r := newTestRegistry(nil, nil)
	if got := r.CurrentPlan(); got != nil {
		t.Errorf("CurrentPlan() with no plans = %v, want nil", got)
	}
}

func TestLookupsNeverError(t *testing.T) {
	r := newTestRegistry(twoPlans(), nil)

	if r.IsPlanChatEligible("plan-99") {
		t.Error("IsPlanChatEligible(unknown) = true")
	}
	if !r.IsPlanChatEligible("plan-1") {
		t.Error("IsPlanChatEligible(plan-1) = false")
	}
	if r.BusinessHours("plan-99") != nil {
		t.Error("BusinessHours(unknown) != nil")
	}
	if _, ok := r.TermsAndConditions("plan-99"); ok {
		t.Error("TermsAndConditions(unknown) ok = true")
	}
	if terms, ok := r.TermsAndConditions("plan-1"); !ok || terms != "medical terms" {
		t.Errorf("TermsAndConditions(plan-1) = %q, %v", terms, ok)
	}
}

func TestIsWithinBusinessHours(t *testing.T) {
	r := newTestRegistry(twoPlans(), nil)
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	if !r.IsWithinBusinessHours("plan-1", now) {
		t.Error("IsWithinBusinessHours(24x7 plan) = false")
	}
	// plan-2 has an empty, non-24x7 schedule: closed.
	if r.IsWithinBusinessHours("plan-2", now) {
		t.Error("IsWithinBusinessHours(empty schedule) = true")
	}
	if r.IsWithinBusinessHours("plan-99", now) {
		t.Error("IsWithinBusinessHours(unknown) = true")
	}
}

func TestSnapshotPersistence(t *testing.T) {
	store := newFakeStore()

	r := newTestRegistry(twoPlans(), store)
	r.SwitchPlan("plan-2")

	snap, ok := store.Load("member-1")
	if !ok {
		t.Fatal("snapshot not persisted")
	}
	if snap.CurrentPlanId != "plan-2" {
		t.Errorf("snapshot current = %s, want plan-2", snap.CurrentPlanId)
	}
	if len(snap.AvailablePlanIds) != 2 {
		t.Errorf("snapshot plan ids = %v", snap.AvailablePlanIds)
	}

	// A new registry for the same member restores the selection.
	r2 := newTestRegistry(twoPlans(), store)
	if got := r2.CurrentPlan(); got.Id != "plan-2" {
		t.Errorf("restored CurrentPlan() = %s, want plan-2", got.Id)
	}
}

func TestSnapshotIgnoresStaleSelection(t *testing.T) {
	store := newFakeStore()
	store.Save("member-1", Snapshot{CurrentPlanId: "plan-gone"})

	r := newTestRegistry(twoPlans(), store)
	if got := r.CurrentPlan(); got.Id != "plan-1" {
		t.Errorf("CurrentPlan() with stale snapshot = %s, want plan-1", got.Id)
	}
}

func TestSwitchLock(t *testing.T) {
	l := NewSwitchLock()
	if l.IsLocked() {
		t.Fatal("new lock is locked")
	}
	l.Lock()
	if !l.IsLocked() {
		t.Fatal("lock did not engage")
	}
	l.Unlock()
	if l.IsLocked() {
		t.Fatal("lock did not release")
	}
}
