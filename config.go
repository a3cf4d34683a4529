package stockpile

import "runtime"

// MaxComponentTypes caps how many component types one Schema can register.
// It is kept comfortably inside the component mask width.
const MaxComponentTypes = 32

// Config holds global configuration for the storage system
var Config config = config{
	parallelWorkers: runtime.GOMAXPROCS(0),
	debugChecks:     true,
}

type config struct {
	parallelWorkers int
	debugChecks     bool
}

// SetParallelWorkers caps the worker count used by parallel cursor
// iteration. Values below one reset the cap to GOMAXPROCS.
func (c *config) SetParallelWorkers(n int) {
	if n < 1 {
		n = runtime.GOMAXPROCS(0)
	}
	c.parallelWorkers = n
}

// ParallelWorkers returns the current parallel iteration worker cap.
func (c *config) ParallelWorkers() int {
	return c.parallelWorkers
}

// SetDebugChecks toggles bounds and signature assertions on the hot-path
// column operations. Violating those preconditions with checks disabled is
// undefined behavior.
func (c *config) SetDebugChecks(enabled bool) {
	c.debugChecks = enabled
}
