package stockpile

import (
	"testing"
	"unsafe"
)

func positionColumn(t *testing.T) (*column, Component[Position]) {
	t.Helper()
	schema := Factory.NewSchema()
	pos := FactoryNewComponent[Position](schema)
	return newColumn(pos.Descriptor()), pos
}

func TestColumnPushAndRead(t *testing.T) {
	col, _ := positionColumn(t)

	values := []Position{{X: 1, Y: 2}, {X: 3, Y: 4}, {X: 5, Y: 6}}
	for i, v := range values {
		col.push(unsafe.Pointer(&v), NewComponentTicks(Tick(i+1)))
	}

	if col.len() != len(values) {
		t.Fatalf("column len = %d, want %d", col.len(), len(values))
	}
	if len(col.ticks) != col.len() {
		t.Fatalf("ticks len = %d, want %d", len(col.ticks), col.len())
	}
	if len(col.data) != col.len()*col.size() {
		t.Fatalf("buffer len = %d, want %d", len(col.data), col.len()*col.size())
	}

	for i, want := range values {
		got := *(*Position)(col.ptr(i))
		if got != want {
			t.Errorf("slot %d = %+v, want %+v", i, got, want)
		}
		if col.ticksAt(i).Added != Tick(i+1) {
			t.Errorf("slot %d added tick = %d, want %d", i, col.ticksAt(i).Added, i+1)
		}
	}
}

func TestColumnSwapRemove(t *testing.T) {
	tests := []struct {
		name      string
		remove    int
		wantOrder []float64 // X values by slot after removal
	}{
		{"Remove first", 0, []float64{30, 20}},
		{"Remove middle", 1, []float64{10, 30}},
		{"Remove last", 2, []float64{10, 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, _ := positionColumn(t)
			for _, x := range []float64{10, 20, 30} {
				v := Position{X: x}
				col.push(unsafe.Pointer(&v), NewComponentTicks(Tick(x)))
			}

			col.swapRemove(tt.remove)

			if col.len() != 2 {
				t.Fatalf("column len = %d, want 2", col.len())
			}
			for i, want := range tt.wantOrder {
				got := (*Position)(col.ptr(i))
				if got.X != want {
					t.Errorf("slot %d X = %v, want %v", i, got.X, want)
				}
				// Ticks must follow the same swap rule as the data
				if col.ticksAt(i).Added != Tick(want) {
					t.Errorf("slot %d tick = %d, want %d", i, col.ticksAt(i).Added, Tick(want))
				}
			}
		})
	}
}

func TestColumnDestructor(t *testing.T) {
	schema := Factory.NewSchema()
	dropped := []int{}
	res := FactoryNewComponent[Resource](schema, WithDestructor[Resource](func(r *Resource) {
		dropped = append(dropped, r.Handle)
	}))
	col := newColumn(res.Descriptor())

	for i := 0; i < 3; i++ {
		v := Resource{Handle: i}
		col.push(unsafe.Pointer(&v), NewComponentTicks(1))
	}

	col.swapRemove(0)
	if len(dropped) != 1 || dropped[0] != 0 {
		t.Fatalf("dropped after swapRemove = %v, want [0]", dropped)
	}

	col.swapRemoveNoDrop(0)
	if len(dropped) != 1 {
		t.Fatalf("swapRemoveNoDrop ran a destructor: %v", dropped)
	}

	col.drop()
	if len(dropped) != 2 {
		t.Fatalf("drop destroyed %d values, want 1 more (total 2): %v", len(dropped)-1, dropped)
	}
}

func TestColumnAllocateNext(t *testing.T) {
	col, _ := positionColumn(t)

	v := Position{X: 7, Y: 8}
	col.push(unsafe.Pointer(&v), NewComponentTicks(1))

	dst := col.allocateNext(NewComponentTicks(2))
	*(*Position)(dst) = v

	if col.len() != 2 {
		t.Fatalf("column len = %d, want 2", col.len())
	}
	got := (*Position)(col.ptr(1))
	if *got != v {
		t.Errorf("allocated slot = %+v, want %+v", *got, v)
	}
	if col.ticksAt(1).Added != 2 {
		t.Errorf("allocated slot tick = %d, want 2", col.ticksAt(1).Added)
	}
}

func TestColumnZeroSize(t *testing.T) {
	schema := Factory.NewSchema()
	dropped := 0
	tag := FactoryNewComponent[Tag](schema, WithDestructor[Tag](func(*Tag) {
		dropped++
	}))
	col := newColumn(tag.Descriptor())

	var v Tag
	col.push(unsafe.Pointer(&v), NewComponentTicks(1))
	col.push(unsafe.Pointer(&v), NewComponentTicks(2))

	if col.len() != 2 {
		t.Fatalf("column len = %d, want 2", col.len())
	}
	if len(col.data) != 0 {
		t.Fatalf("zero-size column stored %d bytes", len(col.data))
	}
	if col.ptr(0) == nil {
		t.Fatal("zero-size slot pointer is nil, want sentinel address")
	}

	col.swapRemove(1)
	if dropped != 1 {
		t.Errorf("zero-size destructor ran %d times, want 1", dropped)
	}
	if col.len() != 1 || len(col.ticks) != 1 {
		t.Errorf("after removal len = %d, ticks = %d, want 1, 1", col.len(), len(col.ticks))
	}
}
