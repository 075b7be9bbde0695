package ecscore

// Query is a restartable, single-pass iterator over every entity
// holding an instance of every type it was built with, implementing the
// §4.5 algorithm: pick the candidate pool with the lowest population
// (the remaining pools are not sorted among themselves), walk its live
// cells, and probe the rest through the entity's own
// component map — O(1) per probe, independent of pool size. Duplicate
// types in the input produce no duplicate or missing results, since a
// duplicated pool's probe always succeeds against the same map entry.
type Query struct {
	store      *Store
	driverIt   *poolIterator
	probeTypes []ComponentTypeId
	empty      bool
}

// NewQuery builds a query over the given component types. Zero types
// yields an iterator that produces nothing, per §4.5's edge case.
func NewQuery(s *Store, types ...TypeDescriptor) *Query {
	if len(types) == 0 {
		return &Query{store: s, empty: true}
	}

	typeIds := make([]ComponentTypeId, len(types))
	pools := make([]*ComponentPool, len(types))
	for i, typ := range types {
		pool, typeId := s.poolFor(typ)
		pools[i] = pool
		typeIds[i] = typeId
	}

	minIdx := 0
	for i := 1; i < len(pools); i++ {
		if pools[i].UsedCount() < pools[minIdx].UsedCount() {
			minIdx = i
		}
	}
	pools[0], pools[minIdx] = pools[minIdx], pools[0]
	typeIds[0], typeIds[minIdx] = typeIds[minIdx], typeIds[0]

	return &Query{
		store:      s,
		driverIt:   newPoolIterator(pools[0]),
		probeTypes: typeIds[1:],
	}
}

// Next returns the next entity satisfying every queried type, or
// (InvalidEntityId, false) once exhausted. Calling Next after
// exhaustion keeps returning false.
func (q *Query) Next() (EntityId, bool) {
	if q.empty {
		return InvalidEntityId, false
	}
	for {
		id, ok := q.driverIt.next()
		if !ok {
			return InvalidEntityId, false
		}

		info := q.store.directory.Info(id)
		matched := true
		for _, typeId := range q.probeTypes {
			if !info.HasComponent(typeId) {
				matched = false
				break
			}
		}
		if matched {
			return id, true
		}
	}
}

// ForEach drives the query to completion, calling callback for every
// matching entity in turn and stopping early if callback returns false.
func (q *Query) ForEach(callback func(EntityId) bool) {
	for {
		id, ok := q.Next()
		if !ok {
			return
		}
		if !callback(id) {
			return
		}
	}
}
