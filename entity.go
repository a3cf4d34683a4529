package stockpile

import (
	"unsafe"

	iter_util "github.com/TheBitDrifter/util/iter"
)

// Entity is an externally allocated identity: a recyclable id plus a
// generation counter. The storage never mints or retires entities; it only
// files component rows under them.
type Entity struct {
	ID      uint32
	Version uint32
}

// Location is an entity's current position in the storage: which archetype
// holds its row, and at which index.
type Location struct {
	Archetype ArchetypeID
	Index     int
}

// Spawn files a new entity row under the archetype matching exactly the
// supplied component values, creating the archetype on first use, and
// records the entity's location. The structural change and the location
// update happen as one operation.
func (sto *Storage) Spawn(e Entity, values ...ComponentValue) (Location, error) {
	if sto.locked {
		return Location{}, LockedStorageError{}
	}
	if _, exists := sto.locations[e]; exists {
		return Location{}, EntityExistsError{Entity: e}
	}
	types := make([]TypeID, len(values))
	for i, v := range values {
		types[i] = v.id
	}
	id := sto.ArchetypeFor(types...)
	index := sto.archetypes[id].Push(e, values...)
	loc := Location{Archetype: id, Index: index}
	sto.SetLocation(e, loc)
	return loc, nil
}

// Despawn removes the entity's row, repairs the location of whichever
// entity the swap-remove relocated, and forgets the despawned entity's
// location.
func (sto *Storage) Despawn(e Entity) error {
	if sto.locked {
		return LockedStorageError{}
	}
	loc, ok := sto.locations[e]
	if !ok {
		return UnknownEntityError{Entity: e}
	}
	arch := sto.archetypes[loc.Archetype]
	if moved, relocated := arch.SwapRemove(loc.Index); relocated {
		sto.SetLocation(moved, loc)
	}
	sto.RemoveLocation(e)
	return nil
}

// AddComponent transfers the entity's row into the archetype whose
// signature additionally includes the value's type, pushing the supplied
// value into the new column. Every retained component keeps its bytes and
// ticks.
func (sto *Storage) AddComponent(e Entity, value ComponentValue) error {
	if sto.locked {
		return LockedStorageError{}
	}
	loc, ok := sto.locations[e]
	if !ok {
		return UnknownEntityError{Entity: e}
	}
	src := sto.archetypes[loc.Archetype]
	if src.Contains(value.id) {
		return ComponentExistsError{Type: value.id}
	}

	destTypes := append(iter_util.Collect(src.ComponentTypes()), value.id)
	destID := sto.ArchetypeFor(destTypes...)
	dest := sto.archetypes[destID]

	newIndex, moved, relocated := src.TransferTo(loc.Index, dest, []ComponentValue{value}, nil)
	sto.SetLocation(e, Location{Archetype: destID, Index: newIndex})
	if relocated {
		sto.SetLocation(moved, loc)
	}
	return nil
}

// RemoveComponent transfers the entity's row into the archetype without
// component type t, running t's destructor over the discarded value.
func (sto *Storage) RemoveComponent(e Entity, t TypeID) error {
	return sto.removeComponent(e, t, nil)
}

func (sto *Storage) removeComponent(e Entity, t TypeID, skipDrop []TypeID) error {
	if sto.locked {
		return LockedStorageError{}
	}
	loc, ok := sto.locations[e]
	if !ok {
		return UnknownEntityError{Entity: e}
	}
	src := sto.archetypes[loc.Archetype]
	if !src.Contains(t) {
		return ComponentNotFoundError{Type: t}
	}

	var destTypes []TypeID
	for ct := range src.ComponentTypes() {
		if ct != t {
			destTypes = append(destTypes, ct)
		}
	}
	destID := sto.ArchetypeFor(destTypes...)
	dest := sto.archetypes[destID]

	newIndex, moved, relocated := src.TransferTo(loc.Index, dest, nil, skipDrop)
	sto.SetLocation(e, Location{Archetype: destID, Index: newIndex})
	if relocated {
		sto.SetLocation(moved, loc)
	}
	return nil
}

// TakeComponent removes component c from the entity and hands the value
// back to the caller instead of destroying it. Ownership moves with it: the
// storage does not run the destructor, so the caller is responsible for any
// cleanup.
func TakeComponent[T any](sto *Storage, e Entity, c Component[T]) (T, error) {
	var out T
	if sto.Locked() {
		return out, LockedStorageError{}
	}
	loc, ok := sto.Location(e)
	if !ok {
		return out, UnknownEntityError{Entity: e}
	}
	arch := sto.ArchetypeByID(loc.Archetype)
	if !arch.Contains(c.id) {
		return out, ComponentNotFoundError{Type: c.id}
	}
	arch.columns[c.id].copyOut(loc.Index, unsafe.Pointer(&out))
	if err := sto.removeComponent(e, c.id, []TypeID{c.id}); err != nil {
		return out, err
	}
	return out, nil
}
