package stockpile

import (
	"fmt"
	"reflect"
	"unsafe"
)

// ComponentType is the type-erased view of a registered component. It can
// be used in queries and filters without knowing the concrete Go type.
type ComponentType interface {
	ID() TypeID
	Descriptor() ComponentDescriptor
}

// ComponentValue carries one component value into a structural operation:
// the type it belongs to, a pointer to a live caller-owned instance, and
// the ticks to record for the new slot. The bytes are copied out during the
// operation; the source only needs to stay valid for the call.
type ComponentValue struct {
	id    TypeID
	ptr   unsafe.Pointer
	ticks ComponentTicks
}

// TypeID returns the component type this value belongs to.
func (v ComponentValue) TypeID() TypeID {
	return v.id
}

// Component is the typed accessor for one registered component type.
type Component[T any] struct {
	id   TypeID
	desc ComponentDescriptor
}

// ComponentOption configures component registration.
type ComponentOption[T any] func(*DropFn)

// WithDestructor registers a destructor run exactly once whenever a stored
// value of this type is discarded (swap-removed without transfer, or still
// live when the storage is closed).
func WithDestructor[T any](fn func(*T)) ComponentOption[T] {
	return func(drop *DropFn) {
		*drop = func(p unsafe.Pointer) {
			fn((*T)(p))
		}
	}
}

// FactoryNewComponent registers T with the schema and returns its typed
// accessor. Registration is idempotent: registering the same type twice
// yields accessors sharing one TypeID. It panics if the schema is full,
// since component registration is setup-time work.
func FactoryNewComponent[T any](schema *Schema, opts ...ComponentOption[T]) Component[T] {
	var zero T
	var drop DropFn
	for _, opt := range opts {
		opt(&drop)
	}
	id, err := schema.register(reflect.TypeOf(zero), drop)
	if err != nil {
		panic(fmt.Sprintf("stockpile: %v", err))
	}
	return Component[T]{
		id:   id,
		desc: schema.Descriptor(id),
	}
}

func (c Component[T]) ID() TypeID {
	return c.id
}

func (c Component[T]) Descriptor() ComponentDescriptor {
	return c.desc
}

// Value packs a caller-owned instance for Spawn, Push, or a transfer. The
// storage copies the bytes in; ownership of the stored copy moves to the
// column, so the caller must not run cleanup for it afterwards.
func (c Component[T]) Value(v *T, ticks ComponentTicks) ComponentValue {
	return ComponentValue{
		id:    c.id,
		ptr:   unsafe.Pointer(v),
		ticks: ticks,
	}
}

// GetFromCursor returns a read-only view of the component at the cursor
// position. The archetype under the cursor must contain this component.
func (c Component[T]) GetFromCursor(cursor *Cursor) *T {
	return (*T)(cursor.currentArchetype.columns[c.id].ptr(cursor.row))
}

// MutFromCursor returns a mutable view of the component at the cursor
// position and records the cursor's current tick as the value's change
// tick.
func (c Component[T]) MutFromCursor(cursor *Cursor) *T {
	col := cursor.currentArchetype.columns[c.id]
	col.ticksAt(cursor.row).Changed = cursor.currentTick
	return (*T)(col.ptr(cursor.row))
}

// GetFromCursorSafe safely retrieves a component value, checking if the
// component exists in the archetype under the cursor.
func (c Component[T]) GetFromCursorSafe(cursor *Cursor) (bool, *T) {
	if !cursor.currentArchetype.Contains(c.id) {
		return false, nil
	}
	return true, c.GetFromCursor(cursor)
}

// CheckCursor determines if the component exists in the archetype at the
// cursor position.
func (c Component[T]) CheckCursor(cursor *Cursor) bool {
	return cursor.currentArchetype.Contains(c.id)
}

// GetFromStorage returns a read-only view of the component for an entity
// with a recorded location.
func (c Component[T]) GetFromStorage(sto *Storage, e Entity) (*T, bool) {
	loc, ok := sto.Location(e)
	if !ok {
		return nil, false
	}
	arch := sto.ArchetypeByID(loc.Archetype)
	if !arch.Contains(c.id) {
		return nil, false
	}
	return (*T)(arch.columns[c.id].ptr(loc.Index)), true
}

// MutFromStorage returns a mutable view of the component for an entity,
// recording current as its change tick.
func (c Component[T]) MutFromStorage(sto *Storage, e Entity, current Tick) (*T, bool) {
	loc, ok := sto.Location(e)
	if !ok {
		return nil, false
	}
	arch := sto.ArchetypeByID(loc.Archetype)
	if !arch.Contains(c.id) {
		return nil, false
	}
	col := arch.columns[c.id]
	col.ticksAt(loc.Index).Changed = current
	return (*T)(col.ptr(loc.Index)), true
}
