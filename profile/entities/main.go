// Profiling:
// go build ./profile/entities
// go tool pprof -http=":8000" -nodefraction=0.001 ./entities mem.pprof

package main

import (
	"github.com/TheBitDrifter/stockpile"
	"github.com/pkg/profile"
)

type comp1 struct {
	V int64
	W int64
}

type comp2 struct {
	V int64
	W int64
}

func main() {
	rounds := 50
	iters := 100
	entities := 1000
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(rounds, iters, entities)
	p.Stop()
}

func run(rounds, iters, numEntities int) {
	for range rounds {
		schema := stockpile.Factory.NewSchema()
		storage := stockpile.Factory.NewStorage(schema)
		c1 := stockpile.FactoryNewComponent[comp1](schema)
		c2 := stockpile.FactoryNewComponent[comp2](schema)

		query := stockpile.Factory.NewQuery().Write(c1).Read(c2)
		nextID := uint32(0)
		tick := stockpile.Tick(0)

		for range iters {
			tick++
			ticks := stockpile.NewComponentTicks(tick)
			spawned := make([]stockpile.Entity, numEntities)
			for i := range spawned {
				nextID++
				spawned[i] = stockpile.Entity{ID: nextID, Version: 1}
				storage.Spawn(spawned[i],
					c1.Value(&comp1{V: 1}, ticks),
					c2.Value(&comp2{V: 2}, ticks),
				)
			}

			cursor := stockpile.Factory.NewCursor(query, storage, tick-1, tick)
			for cursor.Next() {
				a := c1.MutFromCursor(cursor)
				b := c2.GetFromCursor(cursor)
				a.V += b.V
				a.W += b.W
			}

			storage.EnqueueDespawn(spawned...)
		}
		storage.Close()
	}
}
