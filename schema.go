package stockpile

import (
	"reflect"
	"unsafe"
)

// TypeID is the stable identifier a Schema assigns to one component type.
// It doubles as the component's bit position in archetype signature masks.
type TypeID uint32

// DropFn destroys one component value in place. The pointer is only valid
// for the duration of the call and must not be retained.
type DropFn func(unsafe.Pointer)

// ComponentDescriptor is everything the storage knows about a component
// type's memory: its byte layout and an optional destructor. Columns and
// query fetches consult descriptors only; component bytes are never
// interpreted beyond them.
type ComponentDescriptor struct {
	Type  reflect.Type
	Size  uintptr
	Align uintptr
	Drop  DropFn
}

// Schema assigns TypeIDs and descriptors to component types. One Schema is
// shared by a Storage and every component registered against it.
type Schema struct {
	ids         map[reflect.Type]TypeID
	descriptors []ComponentDescriptor
}

func newSchema() *Schema {
	return &Schema{
		ids: make(map[reflect.Type]TypeID, MaxComponentTypes),
	}
}

// register adds t to the schema, or returns the existing id if t is already
// registered. A destructor passed on a later duplicate registration is
// ignored; the first registration wins.
func (s *Schema) register(t reflect.Type, drop DropFn) (TypeID, error) {
	if id, ok := s.ids[t]; ok {
		return id, nil
	}
	if len(s.descriptors) >= MaxComponentTypes {
		return 0, SchemaCapacityError{Type: t, Limit: MaxComponentTypes}
	}
	id := TypeID(len(s.descriptors))
	s.ids[t] = id
	s.descriptors = append(s.descriptors, ComponentDescriptor{
		Type:  t,
		Size:  t.Size(),
		Align: uintptr(t.Align()),
		Drop:  drop,
	})
	return id, nil
}

// Descriptor returns the descriptor for a registered TypeID.
func (s *Schema) Descriptor(id TypeID) ComponentDescriptor {
	return s.descriptors[id]
}

// Registered returns the TypeID for t, if t has been registered.
func (s *Schema) Registered(t reflect.Type) (TypeID, bool) {
	id, ok := s.ids[t]
	return id, ok
}

// Count returns how many component types the schema holds.
func (s *Schema) Count() int {
	return len(s.descriptors)
}
