package stockpile

// Tick is a monotonically increasing change counter. The storage never
// advances ticks itself; callers supply the current tick when writing and a
// last-observed tick when filtering, and the storage only compares them.
type Tick uint32

// NewerThan reports whether t was recorded after last.
func (t Tick) NewerThan(last Tick) bool {
	return t > last
}

// ComponentTicks records when a stored component value was created and when
// it was last mutated. One pair is kept per occupied column slot.
type ComponentTicks struct {
	Added   Tick
	Changed Tick
}

// NewComponentTicks returns the tick pair for a value inserted at current.
func NewComponentTicks(current Tick) ComponentTicks {
	return ComponentTicks{Added: current, Changed: current}
}
