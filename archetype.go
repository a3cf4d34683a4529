package stockpile

import (
	"fmt"
	"iter"
	"slices"

	"github.com/TheBitDrifter/mask"
)

// ArchetypeID identifies one archetype within a Storage. IDs are dense
// slice indices and are never recycled.
type ArchetypeID uint32

// Archetype stores every entity sharing one exact component signature,
// column-wise. All columns and the entity list stay index-aligned: row i
// always describes one entity's full component set.
type Archetype struct {
	id       ArchetypeID
	types    []TypeID
	mask     mask.Mask
	columns  map[TypeID]*column
	entities []Entity
}

// newArchetype builds an archetype for the given component set. Types are
// sorted and deduplicated so signature comparison is order-independent;
// each column's layout comes from the schema.
func newArchetype(schema *Schema, id ArchetypeID, types []TypeID) *Archetype {
	sorted := slices.Clone(types)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	var sig mask.Mask
	columns := make(map[TypeID]*column, len(sorted))
	for _, t := range sorted {
		sig.Mark(uint32(t))
		columns[t] = newColumn(schema.Descriptor(t))
	}
	return &Archetype{
		id:      id,
		types:   sorted,
		mask:    sig,
		columns: columns,
	}
}

func (a *Archetype) ID() ArchetypeID {
	return a.id
}

// Len returns the number of rows (entities) in the archetype.
func (a *Archetype) Len() int {
	return len(a.entities)
}

// Mask returns the archetype's signature mask.
func (a *Archetype) Mask() mask.Mask {
	return a.mask
}

// Contains reports whether the signature includes component type t.
func (a *Archetype) Contains(t TypeID) bool {
	var m mask.Mask
	m.Mark(uint32(t))
	return a.mask.ContainsAll(m)
}

// ComponentTypes yields the signature's component types in canonical
// order.
func (a *Archetype) ComponentTypes() iter.Seq[TypeID] {
	return func(yield func(TypeID) bool) {
		for _, t := range a.types {
			if !yield(t) {
				return
			}
		}
	}
}

// EntityAt returns the entity occupying row i.
func (a *Archetype) EntityAt(i int) Entity {
	return a.entities[i]
}

// Entities returns the row-ordered entity list. The slice is owned by the
// archetype and invalidated by structural changes.
func (a *Archetype) Entities() []Entity {
	return a.entities
}

// Ticks returns the tick pair stored for component t at row i.
func (a *Archetype) Ticks(t TypeID, i int) ComponentTicks {
	return *a.columns[t].ticksAt(i)
}

func (a *Archetype) signatureCheck(values []ComponentValue) {
	if !Config.debugChecks {
		return
	}
	if len(values) != len(a.types) {
		panic(fmt.Sprintf("stockpile: push supplied %d components, archetype signature has %d", len(values), len(a.types)))
	}
	for _, v := range values {
		if _, ok := a.columns[v.id]; !ok {
			panic(fmt.Sprintf("stockpile: pushed component type %d not in archetype signature", v.id))
		}
	}
}

// Push appends one row: the entity plus exactly one value per signature
// type. It returns the new row index. Supplying a value set that does not
// match the signature is a contract violation.
func (a *Archetype) Push(entity Entity, values ...ComponentValue) int {
	a.signatureCheck(values)
	a.entities = append(a.entities, entity)
	for _, v := range values {
		a.columns[v.id].push(v.ptr, v.ticks)
	}
	return len(a.entities) - 1
}

// SwapRemove removes row i from every column and the entity list, moving
// the last row into its place. It returns the entity that used to occupy
// the last row when a relocation happened, so the owner can repair that
// entity's recorded location.
func (a *Archetype) SwapRemove(i int) (moved Entity, relocated bool) {
	last := len(a.entities) - 1
	movedEntity := a.entities[last]
	relocated = i != last

	a.entities[i] = a.entities[last]
	a.entities = a.entities[:last]
	for _, col := range a.columns {
		col.swapRemove(i)
	}
	if !relocated {
		return Entity{}, false
	}
	return movedEntity, true
}

// TransferTo moves row i from this archetype into dest, whose signature may
// add and/or drop component types. For every destination type, either the
// caller-supplied value in newValues is pushed, or the bytes are copied
// from this archetype's matching column into a freshly allocated slot. The
// source row is then resolved per column: types present in dest are removed
// without destruction (ownership moved), types listed in skipDrop are
// removed without destruction (ownership handed out-of-band), and all
// remaining types are removed with destruction.
//
// It returns the entity's row index in dest, plus the entity relocated into
// row i here, if any, so the owner can repair both locations.
func (a *Archetype) TransferTo(i int, dest *Archetype, newValues []ComponentValue, skipDrop []TypeID) (newIndex int, moved Entity, relocated bool) {
	if Config.debugChecks && a == dest {
		panic("stockpile: transfer within one archetype")
	}
	entity := a.entities[i]
	dest.entities = append(dest.entities, entity)
	newIndex = len(dest.entities) - 1

	for _, t := range dest.types {
		destCol := dest.columns[t]
		if idx := slices.IndexFunc(newValues, func(v ComponentValue) bool { return v.id == t }); idx >= 0 {
			v := newValues[idx]
			destCol.push(v.ptr, v.ticks)
			continue
		}
		srcCol, ok := a.columns[t]
		if !ok {
			panic(fmt.Sprintf("stockpile: component type %d missing during transfer", t))
		}
		dst := destCol.allocateNext(*srcCol.ticksAt(i))
		srcCol.copyOut(i, dst)
	}

	last := len(a.entities) - 1
	movedEntity := a.entities[last]
	relocated = i != last
	a.entities[i] = a.entities[last]
	a.entities = a.entities[:last]

	for t, col := range a.columns {
		switch {
		case dest.Contains(t):
			col.swapRemoveNoDrop(i)
		case slices.Contains(skipDrop, t):
			col.swapRemoveNoDrop(i)
		default:
			col.swapRemove(i)
		}
	}

	if !relocated {
		return newIndex, Entity{}, false
	}
	return newIndex, movedEntity, true
}

// drop destroys every column, running destructors over all live values.
func (a *Archetype) drop() {
	for _, col := range a.columns {
		col.drop()
	}
	a.entities = nil
}
