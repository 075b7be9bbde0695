package ecscore

import (
	"fmt"
	"unsafe"

	"go.uber.org/zap"
)

const (
	// DefaultEntityPageSize is the entity directory's default page
	// capacity.
	DefaultEntityPageSize = 1024
	// DefaultPoolPageSize is a component pool's default page capacity.
	DefaultPoolPageSize = 1024
	// DefaultBitmapWordWidth is the default occupancy-bitmap word width.
	DefaultBitmapWordWidth = 64
)

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

func validateStoreSizes(entityPageSize, poolPageSize, wordBits int) error {
	if !isPowerOfTwo(entityPageSize) {
		return fmt.Errorf("%w: entity page size %d is not a power of two", ErrInvalidConfig, entityPageSize)
	}
	if !isPowerOfTwo(poolPageSize) {
		return fmt.Errorf("%w: pool page size %d is not a power of two", ErrInvalidConfig, poolPageSize)
	}
	if !isPowerOfTwo(wordBits) {
		return fmt.Errorf("%w: bitmap word width %d is not a power of two", ErrInvalidConfig, wordBits)
	}
	if wordBits > 64 {
		return fmt.Errorf("%w: bitmap word width %d exceeds the 64-bit words the occupancy bitmap stores", ErrInvalidConfig, wordBits)
	}
	if poolPageSize%wordBits != 0 {
		return fmt.Errorf("%w: pool page size %d is not a multiple of bitmap word width %d", ErrInvalidConfig, poolPageSize, wordBits)
	}
	return nil
}

// Store ties an EntityDirectory and a set of ComponentPools together. It
// is the sole entry point client code uses; nothing outside this file
// mutates a directory or pool directly.
type Store struct {
	pools        map[TypeDescriptor]*ComponentPool
	typeIds      map[TypeDescriptor]ComponentTypeId
	poolByTypeId []*ComponentPool
	nextTypeId   ComponentTypeId

	directory *EntityDirectory

	poolPageSize int
	wordBits     int

	systems []System

	log *zap.Logger
}

// NewStore builds a Store with the given page sizes and bitmap word
// width (see §6's configuration surface). log may be nil, in which case
// the store logs nothing.
func NewStore(entityPageSize, poolPageSize, wordBits int, log *zap.Logger) (*Store, error) {
	if err := validateStoreSizes(entityPageSize, poolPageSize, wordBits); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		pools:        make(map[TypeDescriptor]*ComponentPool),
		typeIds:      make(map[TypeDescriptor]ComponentTypeId),
		directory:    newEntityDirectory(entityPageSize, log),
		poolPageSize: poolPageSize,
		wordBits:     wordBits,
		log:          log,
	}, nil
}

// registerComponent allocates a pool for typ and assigns it the next
// ComponentTypeId. Registering the same descriptor twice is a caller
// error, not a contract violation, since a program can legitimately
// attempt this while wiring up optional subsystems.
func (s *Store) registerComponent(typ TypeDescriptor) (ComponentTypeId, error) {
	if _, ok := s.typeIds[typ]; ok {
		return InvalidComponentTypeId, fmt.Errorf("%w", ErrComponentAlreadyRegistered)
	}

	id := s.nextTypeId
	s.nextTypeId++

	pool := newComponentPool(typ, s.poolPageSize, s.wordBits, s.log)
	s.pools[typ] = pool
	s.typeIds[typ] = id
	s.poolByTypeId = append(s.poolByTypeId, pool)

	return id, nil
}

func (s *Store) poolFor(typ TypeDescriptor) (*ComponentPool, ComponentTypeId) {
	id, ok := s.typeIds[typ]
	assertf(ok, ContractViolation{Op: "Store", Entity: InvalidEntityId, Type: InvalidComponentTypeId, Detail: "component type not registered"})
	return s.pools[typ], id
}

// CreateEntity allocates a new entity with no components.
func (s *Store) CreateEntity() EntityId {
	return s.directory.CreateEntity()
}

// DestroyEntity frees every component the entity holds, then releases
// its directory slot. Components are freed before the slot, matching
// §4.4's ordering rule.
func (s *Store) DestroyEntity(id EntityId) {
	info := s.directory.Info(id)
	for typeId, slot := range info.components {
		s.poolByTypeId[typeId].Free(slot.cell)
	}
	s.directory.DestroyEntity(id)
}

// HasEntity reports whether id names a live entity.
func (s *Store) HasEntity(id EntityId) bool {
	return s.directory.HasEntity(id)
}

// AddComponent attaches a default-constructed instance of typ to id and
// returns a pointer to it.
func (s *Store) AddComponent(id EntityId, typ TypeDescriptor) unsafe.Pointer {
	info := s.directory.Info(id)
	pool, typeId := s.poolFor(typ)

	assertf(!info.HasComponent(typeId), ContractViolation{Op: "Store.AddComponent", Entity: id, Type: typeId, Detail: "entity already has this component"})

	cell := pool.Alloc(id)
	ptr := pool.Get(cell)
	info.components[typeId] = componentSlot{cell: cell, ptr: ptr}
	return ptr
}

// AddComponents attaches one instance of each listed type to id. Each
// attach is independent; a contract violation on one element (e.g. a
// duplicate type) is fatal exactly as a single AddComponent would be,
// there is no partial-rollback.
func (s *Store) AddComponents(id EntityId, types []TypeDescriptor) []unsafe.Pointer {
	ptrs := make([]unsafe.Pointer, len(types))
	for i, typ := range types {
		ptrs[i] = s.AddComponent(id, typ)
	}
	return ptrs
}

// RemoveComponent detaches id's instance of typ, freeing its cell.
func (s *Store) RemoveComponent(id EntityId, typ TypeDescriptor) {
	info := s.directory.Info(id)
	pool, typeId := s.poolFor(typ)

	slot, ok := info.components[typeId]
	assertf(ok, ContractViolation{Op: "Store.RemoveComponent", Entity: id, Type: typeId, Detail: "entity has no such component"})

	pool.Free(slot.cell)
	delete(info.components, typeId)
}

// GetComponent returns the pointer to id's instance of typ.
func (s *Store) GetComponent(id EntityId, typ TypeDescriptor) unsafe.Pointer {
	info := s.directory.Info(id)
	_, typeId := s.poolFor(typ)

	slot, ok := info.components[typeId]
	assertf(ok, ContractViolation{Op: "Store.GetComponent", Entity: id, Type: typeId, Detail: "entity has no such component"})
	return slot.ptr
}

// HasComponent reports whether id currently carries an instance of typ.
func (s *Store) HasComponent(id EntityId, typ TypeDescriptor) bool {
	info := s.directory.Info(id)
	_, typeId := s.poolFor(typ)
	return info.HasComponent(typeId)
}

// ForEach visits every entity holding an instance of typ, in the pool's
// storage order, stopping early if callback returns false.
func (s *Store) ForEach(typ TypeDescriptor, callback func(EntityId) bool) bool {
	pool, _ := s.poolFor(typ)
	return pool.ForEachLive(callback)
}

// GetPool returns the pool registered for typ, an escape hatch for
// advanced callers that need pool-level operations directly.
func (s *Store) GetPool(typ TypeDescriptor) *ComponentPool {
	pool, _ := s.poolFor(typ)
	return pool
}

// GetTypeId returns the dense ComponentTypeId assigned to typ at
// registration.
func (s *Store) GetTypeId(typ TypeDescriptor) ComponentTypeId {
	_, typeId := s.poolFor(typ)
	return typeId
}

// AddSystem appends sys to the store's system list, run in registration
// order by Tick.
func (s *Store) AddSystem(sys System) {
	s.systems = append(s.systems, sys)
}

// InitializeSystems calls Initialize on every registered system, in
// registration order.
func (s *Store) InitializeSystems() {
	for _, sys := range s.systems {
		sys.Initialize(s)
	}
}

// Tick calls Tick on every registered system, in registration order.
func (s *Store) Tick() {
	for _, sys := range s.systems {
		sys.Tick(s)
	}
}
