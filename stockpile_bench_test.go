package stockpile

import (
	"fmt"
	"testing"
)

func benchSizeName(size int) string {
	if size >= 1000000 {
		return fmt.Sprintf("%dM", size/1000000)
	}
	return fmt.Sprintf("%dK", size/1000)
}

func benchStorage(size int) (*Storage, Component[Position], Component[Velocity]) {
	schema := Factory.NewSchema()
	storage := Factory.NewStorage(schema)
	pos := FactoryNewComponent[Position](schema)
	vel := FactoryNewComponent[Velocity](schema)
	ticks := NewComponentTicks(1)
	for i := range size {
		e := Entity{ID: uint32(i + 1), Version: 1}
		if i%2 == 0 {
			storage.Spawn(e, pos.Value(&Position{X: float64(i)}, ticks))
		} else {
			storage.Spawn(e,
				pos.Value(&Position{X: float64(i)}, ticks),
				vel.Value(&Velocity{X: 1}, ticks),
			)
		}
	}
	return storage, pos, vel
}

func BenchmarkSpawn(b *testing.B) {
	sizes := []int{1000, 10000, 100000}
	for _, size := range sizes {
		b.Run(benchSizeName(size), func(b *testing.B) {
			ticks := NewComponentTicks(1)
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				b.StopTimer()
				schema := Factory.NewSchema()
				storage := Factory.NewStorage(schema)
				pos := FactoryNewComponent[Position](schema)
				b.StartTimer()
				for j := range size {
					storage.Spawn(Entity{ID: uint32(j + 1), Version: 1},
						pos.Value(&Position{}, ticks))
				}
			}
		})
	}
}

func BenchmarkCursorIterate(b *testing.B) {
	sizes := []int{1000, 10000, 100000}
	for _, size := range sizes {
		b.Run(benchSizeName(size), func(b *testing.B) {
			storage, pos, _ := benchStorage(size)
			cursor := Factory.NewCursor(Factory.NewQuery().Read(pos), storage, 0, 2)
			b.ReportAllocs()
			b.ResetTimer()
			var sum float64
			for i := 0; i < b.N; i++ {
				for cursor.Next() {
					sum += pos.GetFromCursor(cursor).X
				}
			}
			_ = sum
		})
	}
}

func BenchmarkCursorIterateFiltered(b *testing.B) {
	sizes := []int{1000, 10000, 100000}
	for _, size := range sizes {
		b.Run(benchSizeName(size), func(b *testing.B) {
			storage, pos, vel := benchStorage(size)
			query := Factory.NewQuery().Read(pos).Filter(Without(vel))
			cursor := Factory.NewCursor(query, storage, 0, 2)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				for cursor.Next() {
					pos.GetFromCursor(cursor)
				}
			}
		})
	}
}

func BenchmarkAddComponent(b *testing.B) {
	sizes := []int{1000, 10000}
	for _, size := range sizes {
		b.Run(benchSizeName(size), func(b *testing.B) {
			ticks := NewComponentTicks(1)
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				b.StopTimer()
				schema := Factory.NewSchema()
				storage := Factory.NewStorage(schema)
				pos := FactoryNewComponent[Position](schema)
				vel := FactoryNewComponent[Velocity](schema)
				entities := make([]Entity, size)
				for j := range size {
					entities[j] = Entity{ID: uint32(j + 1), Version: 1}
					storage.Spawn(entities[j], pos.Value(&Position{}, ticks))
				}
				b.StartTimer()
				for _, e := range entities {
					storage.AddComponent(e, vel.Value(&Velocity{}, ticks))
				}
			}
		})
	}
}

func BenchmarkForEachParallel(b *testing.B) {
	sizes := []int{10000, 100000}
	for _, size := range sizes {
		b.Run(benchSizeName(size), func(b *testing.B) {
			storage, pos, _ := benchStorage(size)
			cursor := Factory.NewCursor(Factory.NewQuery().Write(pos), storage, 0, 2)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				cursor.ForEachParallel(func(c *Cursor) {
					pos.MutFromCursor(c).X++
				})
			}
		})
	}
}
