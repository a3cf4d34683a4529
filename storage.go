package stockpile

import (
	"slices"

	"github.com/TheBitDrifter/mask"
	"go.uber.org/zap"
)

// Storage is the registry of all archetypes, deduplicated by signature,
// plus the entity location map and a per-type reverse index used for query
// planning.
//
// The location map is the single source of truth for "where is this entity
// right now". The raw archetype operations (Push, SwapRemove, TransferTo)
// deliberately do not touch it, so callers can batch several structural
// changes before reconciling; the higher-level Spawn, Despawn, Add, Remove
// and Take operations pair each structural change with its location update.
type Storage struct {
	schema     *Schema
	locked     bool
	opQueue    opQueue
	archetypes []*Archetype
	idsByMask  map[mask.Mask]ArchetypeID
	byType     map[TypeID][]ArchetypeID
	locations  map[Entity]Location
	version    uint32
}

func newStorage(schema *Schema) *Storage {
	return &Storage{
		schema:    schema,
		opQueue:   newOpQueue(),
		idsByMask: make(map[mask.Mask]ArchetypeID),
		byType:    make(map[TypeID][]ArchetypeID),
		locations: make(map[Entity]Location),
	}
}

// Schema returns the schema the storage was built with.
func (sto *Storage) Schema() *Schema {
	return sto.schema
}

// ArchetypeFor canonicalizes types and returns the id of the archetype
// with exactly that signature, constructing and registering it on first
// use. At most one archetype ever exists per distinct signature, and ids
// are stable for the storage's lifetime.
func (sto *Storage) ArchetypeFor(types ...TypeID) ArchetypeID {
	var sig mask.Mask
	for _, t := range types {
		sig.Mark(uint32(t))
	}
	if id, ok := sto.idsByMask[sig]; ok {
		return id
	}

	id := ArchetypeID(len(sto.archetypes))
	created := newArchetype(sto.schema, id, types)
	sto.archetypes = append(sto.archetypes, created)
	sto.idsByMask[sig] = id
	for _, t := range created.types {
		sto.byType[t] = append(sto.byType[t], id)
	}
	sto.version++

	Logger().Debug("created archetype",
		zap.Uint32("id", uint32(id)),
		zap.Int("components", len(created.types)))
	return id
}

// ArchetypeByID returns the archetype with the given id.
func (sto *Storage) ArchetypeByID(id ArchetypeID) *Archetype {
	return sto.archetypes[id]
}

// Archetypes returns every archetype in creation order.
func (sto *Storage) Archetypes() []*Archetype {
	return sto.archetypes
}

// ArchetypesWith returns the ids of every archetype whose signature
// includes t. The result may be empty and is owned by the storage.
func (sto *Storage) ArchetypesWith(t TypeID) []ArchetypeID {
	return sto.byType[t]
}

// SetLocation records where an entity's row currently lives. Pure
// bookkeeping: archetype contents are untouched.
func (sto *Storage) SetLocation(e Entity, loc Location) {
	sto.locations[e] = loc
}

// Location returns the entity's recorded location.
func (sto *Storage) Location(e Entity) (Location, bool) {
	loc, ok := sto.locations[e]
	return loc, ok
}

// RemoveLocation forgets the entity's recorded location.
func (sto *Storage) RemoveLocation(e Entity) {
	delete(sto.locations, e)
}

// EntityCount returns how many entities have recorded locations.
func (sto *Storage) EntityCount() int {
	return len(sto.locations)
}

// Locked reports whether structural changes are currently deferred.
func (sto *Storage) Locked() bool {
	return sto.locked
}

// Lock defers structural changes: while locked, the direct structural
// operations fail with LockedStorageError and the Enqueue variants queue
// work instead.
func (sto *Storage) Lock() {
	sto.locked = true
}

// Unlock re-enables structural changes and drains the operation queue.
func (sto *Storage) Unlock() {
	if err := sto.unlock(); err != nil {
		panic(err)
	}
}

func (sto *Storage) unlock() error {
	sto.locked = false
	return sto.processOperationQueue()
}

// Close runs every remaining destructor over all live values and releases
// the column buffers. The storage must not be used afterwards.
func (sto *Storage) Close() {
	for _, arch := range sto.archetypes {
		arch.drop()
	}
	sto.archetypes = nil
	sto.idsByMask = nil
	sto.byType = nil
	sto.locations = nil
}

// candidateArchetypes resolves the archetypes that can possibly satisfy a
// set of required component types, by intersecting the reverse-index lists
// for each type. An empty requirement means every archetype is a
// candidate.
func (sto *Storage) candidateArchetypes(required []TypeID) []ArchetypeID {
	if len(required) == 0 {
		ids := make([]ArchetypeID, len(sto.archetypes))
		for i := range sto.archetypes {
			ids[i] = ArchetypeID(i)
		}
		return ids
	}
	candidates := slices.Clone(sto.byType[required[0]])
	for _, t := range required[1:] {
		withType := sto.byType[t]
		candidates = slices.DeleteFunc(candidates, func(id ArchetypeID) bool {
			return !slices.Contains(withType, id)
		})
		if len(candidates) == 0 {
			break
		}
	}
	return candidates
}

// unionArchetypes resolves the archetypes containing at least one of the
// given types, used when a sole Or filter narrows the candidate set.
func (sto *Storage) unionArchetypes(types []TypeID) []ArchetypeID {
	var ids []ArchetypeID
	for _, t := range types {
		for _, id := range sto.byType[t] {
			if !slices.Contains(ids, id) {
				ids = append(ids, id)
			}
		}
	}
	slices.Sort(ids)
	return ids
}
