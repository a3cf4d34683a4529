package stockpile

import "iter"

type iCursor interface {
	Rows() iter.Seq2[int, *Archetype]
	Next() bool
}

var _ iCursor = &Cursor{}

// Cursor iterates the entities matching a query, lazily and restartably:
// matching archetypes are resolved from the storage on first use and
// recomputed whenever new archetypes have appeared since. Rows are visited
// in archetype-storage order, which is stable for a given storage state but
// otherwise not meaningful.
//
// The last/current tick pair parameterizes Changed and Added filters and is
// the tick recorded by mutable component access through the cursor.
type Cursor struct {
	query   *Query
	storage *Storage

	lastTick    Tick
	currentTick Tick

	// Current iteration state
	currentArchetype *Archetype
	matched          []*Archetype
	archetypeIndex   int
	row              int

	// Initialization state
	initialized bool
	version     uint32
}

func newCursor(query *Query, storage *Storage, last, current Tick) *Cursor {
	return &Cursor{
		query:       query,
		storage:     storage,
		lastTick:    last,
		currentTick: current,
		row:         -1,
	}
}

func (c *Cursor) initialize() {
	if c.initialized && c.version == c.storage.version {
		return
	}
	c.matched = c.matched[:0]
	for _, id := range c.query.plan(c.storage) {
		arch := c.storage.archetypes[id]
		if c.query.matchesArchetype(arch) {
			c.matched = append(c.matched, arch)
		}
	}
	c.version = c.storage.version
	c.archetypeIndex = 0
	c.row = -1
	c.currentArchetype = nil
	c.initialized = true
}

// Next advances to the next matching row, returning false when the
// iteration is exhausted. Exhaustion resets the cursor, so the next call
// starts a fresh pass over the storage.
func (c *Cursor) Next() bool {
	c.initialize()
	for c.archetypeIndex < len(c.matched) {
		c.currentArchetype = c.matched[c.archetypeIndex]
		c.row++
		if c.row >= c.currentArchetype.Len() {
			c.archetypeIndex++
			c.row = -1
			continue
		}
		if c.query.matchesRow(c.currentArchetype, c.row, c.lastTick, c.currentTick) {
			return true
		}
	}
	c.Reset()
	return false
}

// Rows yields each matching (row index, archetype) pair. Stopping early
// resets the cursor.
func (c *Cursor) Rows() iter.Seq2[int, *Archetype] {
	return func(yield func(int, *Archetype) bool) {
		for c.Next() {
			if !yield(c.row, c.currentArchetype) {
				c.Reset()
				return
			}
		}
	}
}

// Reset rewinds the cursor; the next use recomputes matches from the
// storage.
func (c *Cursor) Reset() {
	c.archetypeIndex = 0
	c.row = -1
	c.currentArchetype = nil
	c.initialized = false
}

// Entity returns the entity at the cursor position.
func (c *Cursor) Entity() Entity {
	return c.currentArchetype.EntityAt(c.row)
}

// Archetype returns the archetype under the cursor.
func (c *Cursor) Archetype() *Archetype {
	return c.currentArchetype
}

// Row returns the row index under the cursor.
func (c *Cursor) Row() int {
	return c.row
}

// TotalMatched returns the row count across all matching archetypes,
// before per-row filters are applied.
func (c *Cursor) TotalMatched() int {
	c.initialize()
	total := 0
	for _, arch := range c.matched {
		total += arch.Len()
	}
	return total
}

// Count fully evaluates the query, including per-row filters, without
// disturbing this cursor's position.
func (c *Cursor) Count() int {
	count := 0
	clone := newCursor(c.query, c.storage, c.lastTick, c.currentTick)
	for clone.Next() {
		count++
	}
	return count
}

// ForEach locks the storage, visits every matching row on the calling
// goroutine, then unlocks, applying any structural operations fn enqueued
// along the way.
func (c *Cursor) ForEach(fn func(*Cursor)) error {
	c.storage.Lock()
	for c.Next() {
		fn(c)
	}
	return c.storage.unlock()
}
