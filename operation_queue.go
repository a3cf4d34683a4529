package stockpile

import (
	"fmt"
	"sync"
	"unsafe"

	"go.uber.org/zap"
)

type operationType int

const (
	opSpawn operationType = iota
	opAddComponent
	opRemoveComponent
	opDespawn

	opDiscarded operationType = -1
)

// ownedValue is a component value whose bytes the queue has copied out of
// caller memory, so a deferred operation stays valid after the caller's
// source goes away. Until the operation is applied, the queue owns the
// value and must destroy it if the operation is discarded.
type ownedValue struct {
	id    TypeID
	data  []byte
	ticks ComponentTicks
	drop  DropFn
}

func newOwnedValue(schema *Schema, v ComponentValue) ownedValue {
	desc := schema.Descriptor(v.id)
	owned := ownedValue{id: v.id, ticks: v.ticks, drop: desc.Drop}
	if size := int(desc.Size); size > 0 {
		owned.data = make([]byte, size)
		copy(owned.data, unsafe.Slice((*byte)(v.ptr), size))
	}
	return owned
}

func (o ownedValue) value() ComponentValue {
	ptr := unsafe.Pointer(&zeroSlot)
	if len(o.data) > 0 {
		ptr = unsafe.Pointer(&o.data[0])
	}
	return ComponentValue{id: o.id, ptr: ptr, ticks: o.ticks}
}

func (o ownedValue) discard() {
	if o.drop == nil {
		return
	}
	ptr := unsafe.Pointer(&zeroSlot)
	if len(o.data) > 0 {
		ptr = unsafe.Pointer(&o.data[0])
	}
	o.drop(ptr)
}

type operation struct {
	typ        operationType
	entity     Entity
	entities   []Entity
	values     []ownedValue
	removeType TypeID
}

func (op *operation) discardValues() {
	for _, v := range op.values {
		v.discard()
	}
	op.values = nil
}

// opQueue guards its own state so workers iterating in parallel can
// enqueue structural changes concurrently.
type opQueue struct {
	mu             sync.Mutex
	spawnOps       []operation
	componentOps   []operation
	despawnOps     []operation
	pendingDespawn map[Entity]struct{}
	pendingMods    map[Entity]int
}

func newOpQueue() opQueue {
	return opQueue{
		pendingDespawn: make(map[Entity]struct{}),
		pendingMods:    make(map[Entity]int),
	}
}

func (q *opQueue) enqueueSpawn(op operation) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.spawnOps = append(q.spawnOps, op)
}

func (q *opQueue) enqueueDespawn(entities []Entity) {
	q.mu.Lock()
	defer q.mu.Unlock()

	// Filter out already queued entities
	var fresh []Entity
	for _, e := range entities {
		if _, exists := q.pendingDespawn[e]; exists {
			continue
		}
		fresh = append(fresh, e)
		q.pendingDespawn[e] = struct{}{}

		// A despawn supersedes any pending component operation
		if idx, hasMod := q.pendingMods[e]; hasMod {
			q.componentOps[idx].discardValues()
			q.componentOps[idx].typ = opDiscarded
			delete(q.pendingMods, e)
		}
	}
	if len(fresh) > 0 {
		q.despawnOps = append(q.despawnOps, operation{typ: opDespawn, entities: fresh})
	}
}

func (q *opQueue) enqueueComponentOp(op operation) {
	q.mu.Lock()
	defer q.mu.Unlock()

	// Component operations on an entity pending despawn are dead work
	if _, doomed := q.pendingDespawn[op.entity]; doomed {
		op.discardValues()
		return
	}

	// Only the latest component operation per entity survives
	if idx, exists := q.pendingMods[op.entity]; exists {
		q.componentOps[idx].discardValues()
		q.componentOps[idx] = op
		return
	}
	q.pendingMods[op.entity] = len(q.componentOps)
	q.componentOps = append(q.componentOps, op)
}

// EnqueueSpawn behaves like Spawn when the storage is unlocked; while
// locked it queues the spawn, copying the component bytes so the caller's
// sources need not outlive the call.
func (sto *Storage) EnqueueSpawn(e Entity, values ...ComponentValue) error {
	if !sto.locked {
		if _, err := sto.Spawn(e, values...); err != nil {
			return fmt.Errorf("failed to spawn entity directly: %w", err)
		}
		return nil
	}
	owned := make([]ownedValue, len(values))
	for i, v := range values {
		owned[i] = newOwnedValue(sto.schema, v)
	}
	sto.opQueue.enqueueSpawn(operation{
		typ:    opSpawn,
		entity: e,
		values: owned,
	})
	return nil
}

// EnqueueAddComponent behaves like AddComponent when the storage is
// unlocked, and queues the addition (with owned bytes) while locked.
func (sto *Storage) EnqueueAddComponent(e Entity, value ComponentValue) error {
	if !sto.locked {
		return sto.AddComponent(e, value)
	}
	sto.opQueue.enqueueComponentOp(operation{
		typ:    opAddComponent,
		entity: e,
		values: []ownedValue{newOwnedValue(sto.schema, value)},
	})
	return nil
}

// EnqueueRemoveComponent behaves like RemoveComponent when the storage is
// unlocked, and queues the removal while locked.
func (sto *Storage) EnqueueRemoveComponent(e Entity, t TypeID) error {
	if !sto.locked {
		return sto.RemoveComponent(e, t)
	}
	sto.opQueue.enqueueComponentOp(operation{
		typ:        opRemoveComponent,
		entity:     e,
		removeType: t,
	})
	return nil
}

// EnqueueDespawn behaves like Despawn when the storage is unlocked, and
// queues the despawns while locked. Queued despawns cancel any pending
// component operations for the same entities.
func (sto *Storage) EnqueueDespawn(entities ...Entity) error {
	if !sto.locked {
		for _, e := range entities {
			if err := sto.Despawn(e); err != nil {
				return err
			}
		}
		return nil
	}
	sto.opQueue.enqueueDespawn(entities)
	return nil
}

func (sto *Storage) processOperationQueue() error {
	q := &sto.opQueue
	total := len(q.spawnOps) + len(q.componentOps) + len(q.despawnOps)
	if total == 0 {
		return nil
	}

	// Process spawns first
	for _, op := range q.spawnOps {
		values := make([]ComponentValue, len(op.values))
		for i, o := range op.values {
			values[i] = o.value()
		}
		if _, err := sto.Spawn(op.entity, values...); err != nil {
			return fmt.Errorf("failed to process queued spawn: %w", err)
		}
	}

	// Process component modifications
	for _, op := range q.componentOps {
		switch op.typ {
		case opAddComponent:
			if err := sto.AddComponent(op.entity, op.values[0].value()); err != nil {
				return fmt.Errorf("failed to add queued component: %w", err)
			}
		case opRemoveComponent:
			if err := sto.RemoveComponent(op.entity, op.removeType); err != nil {
				return fmt.Errorf("failed to remove queued component: %w", err)
			}
		}
	}

	// Process despawns last
	for _, op := range q.despawnOps {
		for _, e := range op.entities {
			if _, known := sto.locations[e]; !known {
				continue
			}
			if err := sto.Despawn(e); err != nil {
				return fmt.Errorf("failed to process queued despawn: %w", err)
			}
		}
	}

	Logger().Debug("processed operation queue", zap.Int("operations", total))

	// Clear all queues
	q.spawnOps = q.spawnOps[:0]
	q.componentOps = q.componentOps[:0]
	q.despawnOps = q.despawnOps[:0]
	clear(q.pendingDespawn)
	clear(q.pendingMods)
	return nil
}
