/*
Package stockpile provides archetype-based component storage for games and simulations.

Stockpile is the columnar storage core of an Entity-Component-System: entities
that share the same set of component types are grouped into archetypes, and each
archetype stores one densely packed column per component type. Keeping identical
signatures together gives cache-friendly iteration and makes structural changes
(adding or removing a component) a row transfer between two archetypes.

Core Concepts:

  - Entity: an externally allocated identifier (id + generation) that names a row.
  - Component: a plain data value attached to entities, registered with a Schema.
  - Archetype: all entities sharing one exact component signature, stored column-wise.
  - Query: finds and iterates entities by required components, filters, and change ticks.

Basic Usage:

	// Create storage with schema
	schema := stockpile.Factory.NewSchema()
	storage := stockpile.Factory.NewStorage(schema)

	// Define components
	position := stockpile.FactoryNewComponent[Position](schema)
	velocity := stockpile.FactoryNewComponent[Velocity](schema)

	// Spawn an entity
	e := stockpile.Entity{ID: 1, Version: 1}
	storage.Spawn(e,
		position.Value(&Position{X: 10}, stockpile.NewComponentTicks(1)),
		velocity.Value(&Velocity{X: 1}, stockpile.NewComponentTicks(1)),
	)

	// Query entities and process them
	query := stockpile.Factory.NewQuery().Write(position).Read(velocity)
	cursor := stockpile.Factory.NewCursor(query, storage, 0, 2)

	for cursor.Next() {
		pos := position.MutFromCursor(cursor)
		vel := velocity.GetFromCursor(cursor)
		pos.X += vel.X
		pos.Y += vel.Y
	}

Component values are stored type-erased in raw byte columns. They must be plain
data: values containing Go pointers, maps, slices, or channels are invisible to
the garbage collector once stored. Components that own external resources can
register a destructor, which the storage runs exactly once when a value is
discarded.

Stockpile owns no concurrency and no change clock. Ticks are advanced and passed
in by the caller; the scheduler that runs queries concurrently is expected to use
each query's declared read/write access to avoid conflicting borrows.
*/
package stockpile
