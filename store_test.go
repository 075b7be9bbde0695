package ecscore_test

import (
	"testing"

	"github.com/rhisiart/ecscore"
)

type compA struct{ Value int }
type compB struct{ Value int }
type compC struct{ Value int }
type compD struct{ Value int }

func newTestStore(t *testing.T) *ecscore.Store {
	t.Helper()
	ecscore.ResetGlobalDescriptorRegistry()
	s, err := ecscore.NewStore(ecscore.DefaultEntityPageSize, ecscore.DefaultPoolPageSize, ecscore.DefaultBitmapWordWidth, nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

// S1: single component lifecycle on a single entity.
func TestSeedS1SingleComponentLifecycle(t *testing.T) {
	s := newTestStore(t)
	ecscore.RegisterComponent[compA](s)

	e1 := s.CreateEntity()
	if ecscore.HasComponent[compA](s, e1) {
		t.Fatal("freshly created entity should not have compA")
	}

	a := ecscore.AddComponent[compA](s, e1)
	a.Value = 42
	if got := ecscore.GetComponent[compA](s, e1).Value; got != 42 {
		t.Errorf("GetComponent().Value = %d, want 42", got)
	}

	ecscore.RemoveComponent[compA](s, e1)
	if ecscore.HasComponent[compA](s, e1) {
		t.Fatal("compA should be gone after RemoveComponent")
	}

	s.DestroyEntity(e1)
	if s.HasEntity(e1) {
		t.Fatal("entity should not be live after DestroyEntity")
	}
}

// S2: multi-component queries over distinct entity component sets.
func TestSeedS2MultiComponentQuery(t *testing.T) {
	s := newTestStore(t)
	ecscore.RegisterComponent[compA](s)
	ecscore.RegisterComponent[compB](s)
	ecscore.RegisterComponent[compC](s)
	ecscore.RegisterComponent[compD](s)

	ea := s.CreateEntity()
	ecscore.AddComponent[compA](s, ea)

	eb := s.CreateEntity()
	ecscore.AddComponent[compB](s, eb)

	eab := s.CreateEntity()
	ecscore.AddComponent[compA](s, eab)
	ecscore.AddComponent[compB](s, eab)

	ebc := s.CreateEntity()
	ecscore.AddComponent[compB](s, ebc)
	ecscore.AddComponent[compC](s, ebc)

	eabcd := s.CreateEntity()
	ecscore.AddComponent[compA](s, eabcd)
	ecscore.AddComponent[compB](s, eabcd)
	ecscore.AddComponent[compC](s, eabcd)
	ecscore.AddComponent[compD](s, eabcd)

	assertQuerySet(t, ecscore.Query2[compA, compB](s), eab, eabcd)
	assertQuerySet(t, ecscore.Query4[compA, compB, compC, compD](s), eabcd)
	assertQuerySet(t, ecscore.Query1[compD](s), eabcd)

	_ = ea
	_ = eb
	_ = ebc
}

func assertQuerySet(t *testing.T, q *ecscore.Query, want ...ecscore.EntityId) {
	t.Helper()
	wantSet := make(map[ecscore.EntityId]bool, len(want))
	for _, id := range want {
		wantSet[id] = true
	}

	got := make(map[ecscore.EntityId]bool)
	q.ForEach(func(id ecscore.EntityId) bool {
		got[id] = true
		return true
	})

	if len(got) != len(wantSet) {
		t.Fatalf("query returned %d entities, want %d", len(got), len(wantSet))
	}
	for id := range wantSet {
		if !got[id] {
			t.Errorf("query missing expected entity %d", id)
		}
	}
}

// S4: pool page boundary behavior.
func TestSeedS4PoolPageBoundary(t *testing.T) {
	s := newTestStore(t)
	ecscore.RegisterComponent[compA](s)

	const n = 2049
	ids := make([]ecscore.EntityId, n)
	for i := range ids {
		ids[i] = s.CreateEntity()
		ecscore.AddComponent[compA](s, ids[i])
	}

	pool := s.GetPool(ecscore.DescriptorOf[compA]())
	if pool.UsedCount() != n {
		t.Fatalf("UsedCount = %d, want %d", pool.UsedCount(), n)
	}

	count := 0
	pool.ForEachLive(func(ecscore.EntityId) bool { count++; return true })
	if count != n {
		t.Fatalf("ForEachLive visited %d, want %d", count, n)
	}

	stashed := make([]*compA, 0, len(ids)/2)
	for i, id := range ids {
		if i%2 == 0 {
			stashed = append(stashed, ecscore.GetComponent[compA](s, id))
		}
	}
	for _, p := range stashed {
		p.Value = 7
	}

	for i, id := range ids {
		if i%2 == 1 {
			s.DestroyEntity(id)
		}
	}

	remaining := 0
	pool.ForEachLive(func(ecscore.EntityId) bool { remaining++; return true })
	if remaining != len(stashed) {
		t.Fatalf("remaining live = %d, want %d", remaining, len(stashed))
	}

	for _, p := range stashed {
		if p.Value != 7 {
			t.Errorf("stashed pointer invalidated by destruction of unrelated entities, Value = %d", p.Value)
		}
	}
}

// S6: duplicated pools in a query yield the same set as the plain query.
func TestSeedS6DuplicatedPoolsInQuery(t *testing.T) {
	s := newTestStore(t)
	ecscore.RegisterComponent[compA](s)

	ids := make(map[ecscore.EntityId]bool)
	for i := 0; i < 10; i++ {
		id := s.CreateEntity()
		ecscore.AddComponent[compA](s, id)
		ids[id] = true
	}

	single := make(map[ecscore.EntityId]bool)
	ecscore.Query1[compA](s).ForEach(func(id ecscore.EntityId) bool {
		single[id] = true
		return true
	})

	typ := ecscore.DescriptorOf[compA]()
	dup := ecscore.NewQuery(s, typ, typ, typ)
	duped := make(map[ecscore.EntityId]bool)
	dup.ForEach(func(id ecscore.EntityId) bool {
		duped[id] = true
		return true
	})

	if len(single) != len(duped) {
		t.Fatalf("duplicated-pool query returned %d entities, want %d", len(duped), len(single))
	}
	for id := range single {
		if !duped[id] {
			t.Errorf("duplicated-pool query missing entity %d", id)
		}
	}
}

func TestAddComponentTwicePanics(t *testing.T) {
	s := newTestStore(t)
	ecscore.RegisterComponent[compA](s)
	e := s.CreateEntity()
	ecscore.AddComponent[compA](s, e)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic adding a duplicate component")
		}
	}()
	ecscore.AddComponent[compA](s, e)
}

func TestRemoveComponentRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ecscore.RegisterComponent[compA](s)
	e := s.CreateEntity()

	ecscore.AddComponent[compA](s, e)
	pool := s.GetPool(ecscore.DescriptorOf[compA]())
	usedAfterAdd := pool.UsedCount()

	ecscore.RemoveComponent[compA](s, e)
	if pool.UsedCount() != usedAfterAdd-1 {
		t.Errorf("UsedCount after remove = %d, want %d", pool.UsedCount(), usedAfterAdd-1)
	}
	if ecscore.HasComponent[compA](s, e) {
		t.Error("component should be gone after RemoveComponent")
	}
}
