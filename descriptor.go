package ecscore

import (
	"reflect"
	"sync"
	"unsafe"
)

// TypeDescriptor is the capability set the store needs from a
// component type: its instance size and alignment, and how to
// default-construct and destroy a value at a given address. In the
// original design this handle comes from an external reflection
// service; here it is realized with Go's reflect package and handed
// out from a process-wide, read-only-after-registration registry so
// that two requests for the same Go type always return the same
// descriptor instance. Descriptors compare by identity (pointer
// equality), as the spec requires.
type TypeDescriptor interface {
	InstanceSize() uintptr
	Alignment() uintptr
	DefaultConstruct(ptr unsafe.Pointer)
	Destruct(ptr unsafe.Pointer)
}

// reflectDescriptor is the concrete TypeDescriptor for a Go type T. It
// holds no per-instance state beyond size and alignment; construction
// and destruction assign the zero value, which is cheap and correct
// for any T (including types holding slices, maps, or pointers, whose
// zero value is a safe "absent" state).
type reflectDescriptor[T any] struct {
	size  uintptr
	align uintptr
}

func (d *reflectDescriptor[T]) InstanceSize() uintptr { return d.size }
func (d *reflectDescriptor[T]) Alignment() uintptr    { return d.align }

func (d *reflectDescriptor[T]) DefaultConstruct(ptr unsafe.Pointer) {
	*(*T)(ptr) = *new(T)
}

func (d *reflectDescriptor[T]) Destruct(ptr unsafe.Pointer) {
	var zero T
	*(*T)(ptr) = zero
}

var (
	descriptorRegistryMu sync.Mutex
	descriptorRegistry   = map[reflect.Type]TypeDescriptor{}
)

// ResetGlobalDescriptorRegistry clears the process-wide type-descriptor
// registry. It exists for test isolation between unrelated tests that
// each want a fresh component universe, mirroring the teacher library's
// ResetGlobalRegistry.
func ResetGlobalDescriptorRegistry() {
	descriptorRegistryMu.Lock()
	defer descriptorRegistryMu.Unlock()
	descriptorRegistry = map[reflect.Type]TypeDescriptor{}
}

// descriptorFor returns the process-wide TypeDescriptor for T,
// registering one on first use. The returned pointer is stable for the
// lifetime of the process (or until ResetGlobalDescriptorRegistry).
func descriptorFor[T any]() TypeDescriptor {
	t := reflect.TypeFor[T]()

	descriptorRegistryMu.Lock()
	defer descriptorRegistryMu.Unlock()

	if d, ok := descriptorRegistry[t]; ok {
		return d
	}

	var zero T
	d := &reflectDescriptor[T]{
		size:  unsafe.Sizeof(zero),
		align: uintptr(t.Align()),
	}
	descriptorRegistry[t] = d
	return d
}
