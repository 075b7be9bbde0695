package ecscore

// This file is the typed front door described in §4.4/§4.6: a set of
// pure compile-time adapters over the type-erased Store. None of them
// add runtime behavior beyond deriving a descriptor and casting a
// pointer; the erased methods on Store remain the actual engine.

// RegisterComponent registers T as a component type on s, returning the
// ComponentTypeId assigned to it.
func RegisterComponent[T any](s *Store) (ComponentTypeId, error) {
	return s.registerComponent(descriptorFor[T]())
}

// DescriptorOf returns the process-wide TypeDescriptor for T,
// registering one on first use. It lets callers mix the typed front
// door with the erased escape hatches (GetPool, GetTypeId, NewQuery).
func DescriptorOf[T any]() TypeDescriptor {
	return descriptorFor[T]()
}

// AddComponent attaches a default-constructed T to id and returns a
// pointer to it.
func AddComponent[T any](s *Store, id EntityId) *T {
	ptr := s.AddComponent(id, descriptorFor[T]())
	return (*T)(ptr)
}

// GetComponent returns id's instance of T.
func GetComponent[T any](s *Store, id EntityId) *T {
	ptr := s.GetComponent(id, descriptorFor[T]())
	return (*T)(ptr)
}

// HasComponent reports whether id carries an instance of T.
func HasComponent[T any](s *Store, id EntityId) bool {
	return s.HasComponent(id, descriptorFor[T]())
}

// RemoveComponent detaches id's instance of T.
func RemoveComponent[T any](s *Store, id EntityId) {
	s.RemoveComponent(id, descriptorFor[T]())
}

// ForEach visits every entity holding an instance of T.
func ForEach[T any](s *Store, callback func(EntityId, *T) bool) bool {
	typ := descriptorFor[T]()
	return s.ForEach(typ, func(id EntityId) bool {
		ptr := (*T)(s.GetComponent(id, typ))
		return callback(id, ptr)
	})
}

// Query1 builds a single-type typed query, equivalent to NewQuery with
// one descriptor.
func Query1[T any](s *Store) *Query {
	return NewQuery(s, descriptorFor[T]())
}

// Query2 builds a two-type typed query.
func Query2[T1, T2 any](s *Store) *Query {
	return NewQuery(s, descriptorFor[T1](), descriptorFor[T2]())
}

// Query3 builds a three-type typed query.
func Query3[T1, T2, T3 any](s *Store) *Query {
	return NewQuery(s, descriptorFor[T1](), descriptorFor[T2](), descriptorFor[T3]())
}

// Query4 builds a four-type typed query.
func Query4[T1, T2, T3, T4 any](s *Store) *Query {
	return NewQuery(s, descriptorFor[T1](), descriptorFor[T2](), descriptorFor[T3](), descriptorFor[T4]())
}
