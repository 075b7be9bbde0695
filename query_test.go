package ecscore_test

import (
	"testing"

	"github.com/rhisiart/ecscore"
)

type qA struct{ V int }
type qB struct{ V int }

// S5: the query iterator sorts by population and drives the rarest
// pool, so the number of candidate entities it inspects tracks the
// rare component's count, not the dense one's.
func TestSeedS5QuerySortsByPopulation(t *testing.T) {
	s := newTestStore(t)
	ecscore.RegisterComponent[qA](s)
	ecscore.RegisterComponent[qB](s)

	const dense = 10000
	const rare = 100

	for i := 0; i < dense; i++ {
		id := s.CreateEntity()
		ecscore.AddComponent[qA](s, id)
		if i < rare {
			ecscore.AddComponent[qB](s, id)
		}
	}

	probes := 0
	matches := 0
	q := ecscore.Query2[qA, qB](s)
	q.ForEach(func(id ecscore.EntityId) bool {
		probes++
		matches++
		return true
	})

	if matches != rare {
		t.Fatalf("query matched %d entities, want %d", matches, rare)
	}
	if probes > rare*2 {
		t.Errorf("query examined %d candidates, expected roughly %d (driven by the rare pool)", probes, rare)
	}
}

func TestQueryZeroPoolsYieldsNothing(t *testing.T) {
	s := newTestStore(t)
	q := ecscore.NewQuery(s)

	visited := 0
	q.ForEach(func(ecscore.EntityId) bool {
		visited++
		return true
	})
	if visited != 0 {
		t.Errorf("zero-pool query visited %d entities, want 0", visited)
	}
}

func TestQuerySinglePoolMatchesForEach(t *testing.T) {
	s := newTestStore(t)
	ecscore.RegisterComponent[qA](s)

	ids := make(map[ecscore.EntityId]bool)
	for i := 0; i < 20; i++ {
		id := s.CreateEntity()
		ecscore.AddComponent[qA](s, id)
		ids[id] = true
	}

	fromForEach := make(map[ecscore.EntityId]bool)
	s.ForEach(ecscore.DescriptorOf[qA](), func(id ecscore.EntityId) bool {
		fromForEach[id] = true
		return true
	})

	fromQuery := make(map[ecscore.EntityId]bool)
	ecscore.Query1[qA](s).ForEach(func(id ecscore.EntityId) bool {
		fromQuery[id] = true
		return true
	})

	if len(fromForEach) != len(ids) || len(fromQuery) != len(ids) {
		t.Fatalf("ForEach=%d Query1=%d want %d", len(fromForEach), len(fromQuery), len(ids))
	}
}
