package stockpile_test

import (
	"fmt"

	"github.com/TheBitDrifter/stockpile"
)

// Position is a simple component for 2D coordinates
type Position struct {
	X float64
	Y float64
}

// Velocity is a simple component for 2D movement
type Velocity struct {
	X float64
	Y float64
}

// Name is a simple component for entity identification
type Name struct {
	Value [16]byte
}

func nameOf(raw [16]byte) string {
	n := 0
	for n < len(raw) && raw[n] != 0 {
		n++
	}
	return string(raw[:n])
}

// Example shows basic stockpile usage with entity creation and queries
func Example_basic() {
	// Create storage
	schema := stockpile.Factory.NewSchema()
	storage := stockpile.Factory.NewStorage(schema)

	// Define components
	position := stockpile.FactoryNewComponent[Position](schema)
	velocity := stockpile.FactoryNewComponent[Velocity](schema)
	name := stockpile.FactoryNewComponent[Name](schema)

	// Spawn entities at tick 1
	ticks := stockpile.NewComponentTicks(1)
	id := uint32(0)
	spawn := func(values ...stockpile.ComponentValue) stockpile.Entity {
		id++
		e := stockpile.Entity{ID: id, Version: 1}
		storage.Spawn(e, values...)
		return e
	}
	for range 5 {
		spawn(position.Value(&Position{}, ticks))
	}
	for range 3 {
		spawn(position.Value(&Position{}, ticks), velocity.Value(&Velocity{}, ticks))
	}

	// Spawn one named entity
	var player Name
	copy(player.Value[:], "Player")
	spawn(
		position.Value(&Position{X: 10, Y: 20}, ticks),
		velocity.Value(&Velocity{X: 1, Y: 2}, ticks),
		name.Value(&player, ticks),
	)

	// Query for all entities with position and velocity
	query := stockpile.Factory.NewQuery().Read(position, velocity)
	cursor := stockpile.Factory.NewCursor(query, storage, 0, 2)

	matchCount := 0
	for cursor.Next() {
		matchCount++
	}
	fmt.Printf("Found %d entities with position and velocity\n", matchCount)

	// Process just the named entity
	query = stockpile.Factory.NewQuery().Write(position).Read(velocity, name)
	cursor = stockpile.Factory.NewCursor(query, storage, 0, 2)
	for cursor.Next() {
		pos := position.MutFromCursor(cursor)
		vel := velocity.GetFromCursor(cursor)
		nme := name.GetFromCursor(cursor)

		// Update position based on velocity
		pos.X += vel.X
		pos.Y += vel.Y

		fmt.Printf("Updated %s to position (%.1f, %.1f)\n", nameOf(nme.Value), pos.X, pos.Y)
	}

	// Output:
	// Found 4 entities with position and velocity
	// Updated Player to position (11.0, 22.0)
}

// Example_queries shows how to use the query filters
func Example_queries() {
	// Create storage
	schema := stockpile.Factory.NewSchema()
	storage := stockpile.Factory.NewStorage(schema)

	// Define components
	position := stockpile.FactoryNewComponent[Position](schema)
	velocity := stockpile.FactoryNewComponent[Velocity](schema)
	name := stockpile.FactoryNewComponent[Name](schema)

	// Create different entity types
	ticks := stockpile.NewComponentTicks(1)
	id := uint32(0)
	spawn := func(values ...stockpile.ComponentValue) {
		id++
		storage.Spawn(stockpile.Entity{ID: id, Version: 1}, values...)
	}
	for range 3 {
		spawn(position.Value(&Position{}, ticks))
	}
	for range 3 {
		spawn(position.Value(&Position{}, ticks), velocity.Value(&Velocity{}, ticks))
	}
	for range 3 {
		spawn(position.Value(&Position{}, ticks), name.Value(&Name{}, ticks))
	}
	for range 3 {
		spawn(position.Value(&Position{}, ticks), velocity.Value(&Velocity{}, ticks), name.Value(&Name{}, ticks))
	}

	// With: entities with position AND velocity
	withQuery := stockpile.Factory.NewQuery().
		Filter(stockpile.With(position), stockpile.With(velocity))
	cursor := stockpile.Factory.NewCursor(withQuery, storage, 0, 2)
	fmt.Printf("With query matched %d entities\n", cursor.TotalMatched())

	// Or: entities with velocity OR name
	orQuery := stockpile.Factory.NewQuery().
		Filter(stockpile.Or(stockpile.With(velocity), stockpile.With(name)))
	cursor = stockpile.Factory.NewCursor(orQuery, storage, 0, 2)
	fmt.Printf("Or query matched %d entities\n", cursor.TotalMatched())

	// Without: entities with position but NOT velocity
	withoutQuery := stockpile.Factory.NewQuery().
		Read(position).
		Filter(stockpile.Without(velocity))
	cursor = stockpile.Factory.NewCursor(withoutQuery, storage, 0, 2)
	fmt.Printf("Without query matched %d entities\n", cursor.TotalMatched())

	// Output:
	// With query matched 6 entities
	// Or query matched 9 entities
	// Without query matched 6 entities
}
