package stockpile

import "golang.org/x/sync/errgroup"

// ForEachParallel partitions work at archetype granularity across a
// bounded worker group: each matching archetype's rows are visited by
// exactly one worker, so concurrent fn calls never touch the same column
// memory. Ordering across (and within) archetypes is unspecified, and fn
// must be safe to run concurrently with itself.
//
// The storage is locked for the duration; structural operations fn
// enqueues are applied once all workers have joined.
func (c *Cursor) ForEachParallel(fn func(*Cursor)) error {
	c.initialize()
	c.storage.Lock()

	g := new(errgroup.Group)
	g.SetLimit(Config.parallelWorkers)
	for _, arch := range c.matched {
		g.Go(func() error {
			worker := &Cursor{
				query:       c.query,
				storage:     c.storage,
				lastTick:    c.lastTick,
				currentTick: c.currentTick,
				matched:     []*Archetype{arch},
				row:         -1,
				initialized: true,
				version:     c.version,
			}
			for worker.Next() {
				fn(worker)
			}
			return nil
		})
	}
	err := g.Wait()

	c.Reset()
	if unlockErr := c.storage.unlock(); err == nil {
		err = unlockErr
	}
	return err
}
