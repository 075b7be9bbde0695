package ecscore

import (
	"unsafe"

	"go.uber.org/zap"
)

// poolPage is one fixed-capacity page of a ComponentPool: a raw byte
// buffer holding pageCapacity cells, an occupancy bitmap, and a
// metadata array recording which EntityId currently occupies each
// cell. Pages are allocated once and never moved or freed; a
// ComponentPool holds them by pointer so that growing the pool slice
// never invalidates a pointer into an existing page.
type poolPage struct {
	data      []byte // raw buffer, cellSize*(capacity+1) bytes
	aligned   unsafe.Pointer
	metadata  []EntityId
	occupancy *bitmap
}

func newPoolPage(capacity int, cellSize, cellAlignment uintptr, wordBits int) *poolPage {
	byteCount := cellSize * (uintptr(capacity) + 1)
	data := make([]byte, byteCount)

	base := uintptr(unsafe.Pointer(&data[0]))
	aligned := base
	if rem := aligned % cellAlignment; rem != 0 {
		aligned += cellAlignment - rem
	}

	metadata := make([]EntityId, capacity)
	for i := range metadata {
		metadata[i] = InvalidEntityId
	}

	return &poolPage{
		data:      data,
		aligned:   unsafe.Pointer(aligned), //nolint:govet // derived-offset pointer into data, kept alive by the data field
		metadata:  metadata,
		occupancy: newBitmap(capacity, wordBits),
	}
}

func (p *poolPage) cellPtr(indexOnPage int, cellSize uintptr) unsafe.Pointer {
	return unsafe.Pointer(uintptr(p.aligned) + uintptr(indexOnPage)*cellSize)
}

func (p *poolPage) freeLink(indexOnPage int, cellSize uintptr) *uint32 {
	return (*uint32)(p.cellPtr(indexOnPage, cellSize))
}

// ComponentPool is a paged, type-erased slab holding every live
// instance of one registered component type. It owns its pages
// exclusively; the Store is the only caller expected to drive it.
type ComponentPool struct {
	typ           TypeDescriptor
	cellSize      uintptr
	cellAlignment uintptr
	pageCapacity  int
	wordBits      int
	pages         []*poolPage
	firstFree     cellIndex
	usedCount     int
	log           *zap.Logger
}

const linkSize = unsafe.Sizeof(uint32(0))
const linkAlign = unsafe.Alignof(uint32(0))

func newComponentPool(typ TypeDescriptor, pageCapacity, wordBits int, log *zap.Logger) *ComponentPool {
	cellSize := typ.InstanceSize()
	if cellSize < linkSize {
		cellSize = linkSize
	}
	cellAlignment := typ.Alignment()
	if cellAlignment < linkAlign {
		cellAlignment = linkAlign
	}
	return &ComponentPool{
		typ:           typ,
		cellSize:      cellSize,
		cellAlignment: cellAlignment,
		pageCapacity:  pageCapacity,
		wordBits:      wordBits,
		log:           log,
	}
}

func (p *ComponentPool) decompose(cell cellIndex) (pageIdx, indexOnPage int) {
	return int(cell) / p.pageCapacity, int(cell) % p.pageCapacity
}

// addPage appends a new page whose cells thread into a fresh free-list
// starting at the page's first cell, matching the firstFree value that
// triggered the growth.
func (p *ComponentPool) addPage() {
	pageIdx := len(p.pages)
	base := pageIdx * p.pageCapacity

	page := newPoolPage(p.pageCapacity, p.cellSize, p.cellAlignment, p.wordBits)
	for k := 0; k < p.pageCapacity; k++ {
		*page.freeLink(k, p.cellSize) = uint32(base + k + 1)
	}
	p.pages = append(p.pages, page)

	if p.log != nil {
		p.log.Debug("pool page added",
			zap.Int("page_index", pageIdx),
			zap.Int("page_capacity", p.pageCapacity),
		)
	}
}

// Alloc takes the head free cell (growing the pool by one page if the
// free-list is exhausted), default-constructs the component in it,
// records entityID as the cell's owner, and returns the cell's
// absolute index.
func (p *ComponentPool) Alloc(entityID EntityId) cellIndex {
	assertf(entityID.IsValid(), ContractViolation{Op: "ComponentPool.Alloc", Entity: entityID, Detail: "invalid entity id"})

	if int(p.firstFree)/p.pageCapacity >= len(p.pages) {
		p.addPage()
	}

	idx := p.firstFree
	pageIdx, indexOnPage := p.decompose(idx)
	page := p.pages[pageIdx]

	next := *page.freeLink(indexOnPage, p.cellSize)
	p.typ.DefaultConstruct(page.cellPtr(indexOnPage, p.cellSize))

	page.metadata[indexOnPage] = entityID
	page.occupancy.set(indexOnPage, true)
	p.usedCount++
	p.firstFree = cellIndex(next)

	return idx
}

// Free destroys the component in cell, threads it back onto the
// free-list, and clears its occupancy bit and metadata.
func (p *ComponentPool) Free(cell cellIndex) {
	pageIdx, indexOnPage := p.decompose(cell)
	page := p.pages[pageIdx]

	assertf(page.occupancy.get(indexOnPage), ContractViolation{Op: "ComponentPool.Free", Entity: InvalidEntityId, Detail: "cell is not allocated"})

	ptr := page.cellPtr(indexOnPage, p.cellSize)
	p.typ.Destruct(ptr)

	*page.freeLink(indexOnPage, p.cellSize) = uint32(p.firstFree)
	p.firstFree = cell

	page.metadata[indexOnPage] = InvalidEntityId
	page.occupancy.set(indexOnPage, false)
	p.usedCount--
}

// Get returns a pointer to the component stored in cell. The pointer
// remains valid until that cell is freed or the pool itself is
// discarded; pages are never reallocated or moved, so appending a page
// never invalidates a pointer returned by an earlier Get.
func (p *ComponentPool) Get(cell cellIndex) unsafe.Pointer {
	pageIdx, indexOnPage := p.decompose(cell)
	return p.pages[pageIdx].cellPtr(indexOnPage, p.cellSize)
}

// UsedCount returns the number of currently allocated cells, O(1).
func (p *ComponentPool) UsedCount() int {
	return p.usedCount
}

// Type returns the pool's component type descriptor.
func (p *ComponentPool) Type() TypeDescriptor {
	return p.typ
}

// ForEachLive visits the EntityId owning every live cell, across all
// pages, in ascending cell-index order. It stops early if callback
// returns false.
func (p *ComponentPool) ForEachLive(callback func(EntityId) bool) bool {
	for _, page := range p.pages {
		if page.occupancy.isEmpty() {
			continue
		}
		cont := page.occupancy.forEachSet(func(idx int) bool {
			return callback(page.metadata[idx])
		})
		if !cont {
			return false
		}
	}
	return true
}

// poolIterator is a stateful, restartable walk over a pool's live
// cells, used by the query iterator to drive the smallest pool while
// probing the others.
type poolIterator struct {
	pool    *ComponentPool
	pageIdx int
	pageIt  *bitmapIterator
}

func newPoolIterator(p *ComponentPool) *poolIterator {
	return &poolIterator{pool: p, pageIdx: -1}
}

func (it *poolIterator) next() (EntityId, bool) {
	for {
		if it.pageIt != nil {
			if idx, ok := it.pageIt.next(); ok {
				return it.pool.pages[it.pageIdx].metadata[idx], true
			}
			it.pageIt = nil
		}

		it.pageIdx++
		if it.pageIdx >= len(it.pool.pages) {
			return InvalidEntityId, false
		}
		it.pageIt = newBitmapIterator(it.pool.pages[it.pageIdx].occupancy)
	}
}
