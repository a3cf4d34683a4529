// Profiling:
// go build ./profile/query
// go tool pprof -http=":8000" -nodefraction=0.001 ./query cpu.prof

package main

import (
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/TheBitDrifter/stockpile"
)

type comp1 struct {
	V int64
	W int64
}

type comp2 struct {
	V int64
	W int64
}

type comp3 struct {
	V int64
	W int64
}

func main() {
	// CPU Profiling
	f, _ := os.Create("cpu.prof")
	_ = pprof.StartCPUProfile(f)
	defer pprof.StopCPUProfile()

	rounds := 50
	iters := 10000
	entities := 100000
	run(rounds, iters, entities)

	// Memory Profiling
	memFile, _ := os.Create("mem.prof")
	defer memFile.Close()
	runtime.GC()
	_ = pprof.WriteHeapProfile(memFile)
}

func run(rounds, iters, numEntities int) {
	for range rounds {
		schema := stockpile.Factory.NewSchema()
		storage := stockpile.Factory.NewStorage(schema)
		c1 := stockpile.FactoryNewComponent[comp1](schema)
		c2 := stockpile.FactoryNewComponent[comp2](schema)
		c3 := stockpile.FactoryNewComponent[comp3](schema)

		ticks := stockpile.NewComponentTicks(1)
		for i := range numEntities {
			storage.Spawn(stockpile.Entity{ID: uint32(i + 1), Version: 1},
				c1.Value(&comp1{V: 1}, ticks),
				c2.Value(&comp2{V: 2}, ticks),
				c3.Value(&comp3{V: 3}, ticks),
			)
		}

		query := stockpile.Factory.NewQuery().Write(c1).Read(c2)
		cursor := stockpile.Factory.NewCursor(query, storage, 0, 2)

		for range iters {
			for cursor.Next() {
				a := c1.MutFromCursor(cursor)
				b := c2.GetFromCursor(cursor)
				a.V += b.V
				a.W += b.W
			}
		}
		storage.Close()
	}
}
