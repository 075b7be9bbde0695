package ecscore

import (
	"fmt"
	"unsafe"

	"go.uber.org/zap"
)

// componentSlot records where one entity's component of a given type
// lives: the pool cell that backs it, and the pointer Get() returned
// for that cell (cached so repeated lookups avoid recomputation).
type componentSlot struct {
	cell cellIndex
	ptr  unsafe.Pointer
}

// EntityInfo is the per-entity record the directory stores. components
// maps a registered ComponentTypeId to the slot holding that entity's
// instance; its presence is the source of truth for HasComponent and
// for the query iterator's per-entity probe.
type EntityInfo struct {
	components map[ComponentTypeId]componentSlot
	nextFree   EntityIndex
}

// HasComponent reports whether this entity currently carries type t.
func (info *EntityInfo) HasComponent(t ComponentTypeId) bool {
	_, ok := info.components[t]
	return ok
}

type entityDirectoryPage struct {
	infos []EntityInfo
}

// EntityDirectory is a paged slab of EntityInfo records mapping stable
// EntityId handles to physical EntityIndex slots. Pages are appended
// and never reclaimed; a destroyed entity's slot returns to the
// directory's free-list for reuse by a later CreateEntity.
type EntityDirectory struct {
	pages        []*entityDirectoryPage
	pageCapacity int
	firstFree    EntityIndex
	idToIndex    map[EntityId]EntityIndex
	nextID       EntityId
	log          *zap.Logger
}

func newEntityDirectory(pageCapacity int, log *zap.Logger) *EntityDirectory {
	return &EntityDirectory{
		pageCapacity: pageCapacity,
		idToIndex:    make(map[EntityId]EntityIndex),
		log:          log,
	}
}

func (d *EntityDirectory) decompose(idx EntityIndex) (pageIdx, offset int) {
	return int(idx) / d.pageCapacity, int(idx) % d.pageCapacity
}

func (d *EntityDirectory) addPage() {
	pageIdx := len(d.pages)
	base := pageIdx * d.pageCapacity

	page := &entityDirectoryPage{infos: make([]EntityInfo, d.pageCapacity)}
	for k := 0; k < d.pageCapacity; k++ {
		page.infos[k].nextFree = EntityIndex(base + k + 1)
	}
	d.pages = append(d.pages, page)
	d.firstFree = EntityIndex(base)

	if d.log != nil {
		d.log.Debug("entity directory page added",
			zap.Int("page_index", pageIdx),
			zap.Int("page_capacity", d.pageCapacity),
		)
	}
}

// generateID returns the next unused EntityId, advancing the rolling
// candidate past it. The spec leaves termination undefined once every
// id in the space is live; this guards that case with an explicit
// failure rather than looping forever (see DESIGN.md).
func (d *EntityDirectory) generateID() EntityId {
	if len(d.idToIndex) >= int(InvalidEntityId) {
		panic(fmt.Errorf("%w: generateID found no free id", ErrEntityIdSpaceExhausted))
	}
	for {
		if _, ok := d.idToIndex[d.nextID]; !ok {
			id := d.nextID
			d.nextID = (d.nextID + 1) % InvalidEntityId
			return id
		}
		d.nextID = (d.nextID + 1) % InvalidEntityId
	}
}

// CreateEntity allocates a directory slot and assigns it a fresh
// EntityId.
func (d *EntityDirectory) CreateEntity() EntityId {
	id := d.generateID()

	if int(d.firstFree)/d.pageCapacity >= len(d.pages) {
		d.addPage()
	}
	idx := d.firstFree
	pageIdx, offset := d.decompose(idx)
	info := &d.pages[pageIdx].infos[offset]
	d.firstFree = info.nextFree
	info.components = make(map[ComponentTypeId]componentSlot)

	d.idToIndex[id] = idx
	return id
}

// DestroyEntity releases id's directory slot back to the free-list.
// The caller is responsible for having already freed every component
// cell the entity held (Store.DestroyEntity does this before calling
// in).
func (d *EntityDirectory) DestroyEntity(id EntityId) {
	idx, ok := d.idToIndex[id]
	assertf(ok, ContractViolation{Op: "EntityDirectory.DestroyEntity", Entity: id, Detail: "entity is not live"})

	pageIdx, offset := d.decompose(idx)
	info := &d.pages[pageIdx].infos[offset]
	info.components = nil
	info.nextFree = d.firstFree
	d.firstFree = idx

	delete(d.idToIndex, id)
}

// HasEntity reports whether id currently names a live entity.
func (d *EntityDirectory) HasEntity(id EntityId) bool {
	_, ok := d.idToIndex[id]
	return ok
}

// Info returns the live EntityInfo for id.
func (d *EntityDirectory) Info(id EntityId) *EntityInfo {
	idx, ok := d.idToIndex[id]
	assertf(ok, ContractViolation{Op: "EntityDirectory.Info", Entity: id, Detail: "entity is not live"})
	pageIdx, offset := d.decompose(idx)
	return &d.pages[pageIdx].infos[offset]
}
