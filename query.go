package stockpile

import (
	"slices"

	"github.com/TheBitDrifter/mask"
)

// QueryFilter restricts which entities a query visits, at archetype
// granularity, per-row granularity, or both. ComponentIDs reports the
// component types a filter can contribute to candidate-set narrowing;
// filters that match by absence (Without) or by disjunction (Or) declare
// none.
type QueryFilter interface {
	MatchesArchetype(a *Archetype) bool
	MatchesRow(a *Archetype, row int, last, current Tick) bool
	ComponentIDs() []TypeID
}

type unconditional struct{}

// Unconditional returns the filter that passes every archetype and row.
func Unconditional() QueryFilter { return unconditional{} }

func (unconditional) MatchesArchetype(*Archetype) bool { return true }

func (unconditional) MatchesRow(*Archetype, int, Tick, Tick) bool { return true }

func (unconditional) ComponentIDs() []TypeID { return nil }

type withFilter struct{ id TypeID }

// With matches archetypes whose signature includes c. Every row of a
// matching archetype passes.
func With(c ComponentType) QueryFilter { return withFilter{id: c.ID()} }

func (f withFilter) MatchesArchetype(a *Archetype) bool { return a.Contains(f.id) }

func (f withFilter) MatchesRow(*Archetype, int, Tick, Tick) bool { return true }

func (f withFilter) ComponentIDs() []TypeID { return []TypeID{f.id} }

type withoutFilter struct{ id TypeID }

// Without matches archetypes whose signature excludes c. It declares no
// component types, so it never narrows the candidate set.
func Without(c ComponentType) QueryFilter { return withoutFilter{id: c.ID()} }

func (f withoutFilter) MatchesArchetype(a *Archetype) bool { return !a.Contains(f.id) }

func (f withoutFilter) MatchesRow(*Archetype, int, Tick, Tick) bool { return true }

func (f withoutFilter) ComponentIDs() []TypeID { return nil }

type changedFilter struct{ id TypeID }

// Changed matches rows whose value of c was mutated after the cursor's
// last-observed tick. The archetype must contain c, since the row check
// reads c's ticks.
func Changed(c ComponentType) QueryFilter { return changedFilter{id: c.ID()} }

func (f changedFilter) MatchesArchetype(a *Archetype) bool { return a.Contains(f.id) }

func (f changedFilter) MatchesRow(a *Archetype, row int, last, _ Tick) bool {
	col, ok := a.columns[f.id]
	if !ok {
		return false
	}
	return col.ticksAt(row).Changed.NewerThan(last)
}

func (f changedFilter) ComponentIDs() []TypeID { return []TypeID{f.id} }

type addedFilter struct{ id TypeID }

// Added matches rows whose value of c was inserted after the cursor's
// last-observed tick.
func Added(c ComponentType) QueryFilter { return addedFilter{id: c.ID()} }

func (f addedFilter) MatchesArchetype(a *Archetype) bool { return a.Contains(f.id) }

func (f addedFilter) MatchesRow(a *Archetype, row int, last, _ Tick) bool {
	col, ok := a.columns[f.id]
	if !ok {
		return false
	}
	return col.ticksAt(row).Added.NewerThan(last)
}

func (f addedFilter) ComponentIDs() []TypeID { return []TypeID{f.id} }

type orFilter struct{ members []QueryFilter }

// Or matches when any member filter matches, at both archetype and row
// granularity. It declares no component types of its own: a disjunction
// cannot participate in intersection narrowing, except as a query's sole
// term (see Query planning).
func Or(filters ...QueryFilter) QueryFilter { return orFilter{members: filters} }

func (f orFilter) MatchesArchetype(a *Archetype) bool {
	for _, m := range f.members {
		if m.MatchesArchetype(a) {
			return true
		}
	}
	return false
}

func (f orFilter) MatchesRow(a *Archetype, row int, last, current Tick) bool {
	for _, m := range f.members {
		if m.MatchesRow(a, row, last, current) {
			return true
		}
	}
	return false
}

func (f orFilter) ComponentIDs() []TypeID { return nil }

// unionIDs reports the union of member-declared types, and whether that
// union is safe for candidate narrowing: every member must declare at
// least one type, otherwise some matches (e.g. a Without member's) could
// live in archetypes the union misses.
func (f orFilter) unionIDs() ([]TypeID, bool) {
	var union []TypeID
	for _, m := range f.members {
		ids := m.ComponentIDs()
		if len(ids) == 0 {
			return nil, false
		}
		union = append(union, ids...)
	}
	slices.Sort(union)
	return slices.Compact(union), true
}

type andFilter struct{ members []QueryFilter }

// And matches when all member filters match. Members' declared types all
// contribute to narrowing.
func And(filters ...QueryFilter) QueryFilter { return andFilter{members: filters} }

func (f andFilter) MatchesArchetype(a *Archetype) bool {
	for _, m := range f.members {
		if !m.MatchesArchetype(a) {
			return false
		}
	}
	return true
}

func (f andFilter) MatchesRow(a *Archetype, row int, last, current Tick) bool {
	for _, m := range f.members {
		if !m.MatchesRow(a, row, last, current) {
			return false
		}
	}
	return true
}

func (f andFilter) ComponentIDs() []TypeID {
	var ids []TypeID
	for _, m := range f.members {
		ids = append(ids, m.ComponentIDs()...)
	}
	return ids
}

// Query declares what a cursor visits: the component types the caller will
// read and write (all of which must be present on a matching archetype),
// plus any additional filters. The read/write split exists for external
// schedulers to detect conflicting queries before running them
// concurrently; the storage itself does not enforce it.
type Query struct {
	reads   []TypeID
	writes  []TypeID
	filters []QueryFilter
}

func newQuery() *Query {
	return &Query{}
}

// Read declares components the cursor will access immutably.
func (q *Query) Read(components ...ComponentType) *Query {
	for _, c := range components {
		q.reads = append(q.reads, c.ID())
	}
	return q
}

// Write declares components the cursor will mutate.
func (q *Query) Write(components ...ComponentType) *Query {
	for _, c := range components {
		q.writes = append(q.writes, c.ID())
	}
	return q
}

// Filter adds query filters; multiple filters compose by logical AND.
func (q *Query) Filter(filters ...QueryFilter) *Query {
	q.filters = append(q.filters, filters...)
	return q
}

// Access is a query's declared read/write component surface.
type Access struct {
	Reads  []TypeID
	Writes []TypeID
}

// Access returns the declared access sets for scheduler conflict analysis.
func (q *Query) Access() Access {
	return Access{
		Reads:  slices.Clone(q.reads),
		Writes: slices.Clone(q.writes),
	}
}

// Reads returns the declared read set.
func (q *Query) Reads() []TypeID {
	return slices.Clone(q.reads)
}

// Writes returns the declared write set.
func (q *Query) Writes() []TypeID {
	return slices.Clone(q.writes)
}

// requiredIDs gathers the types every matching archetype must contain: the
// read/write item types plus whatever the filters declare.
func (q *Query) requiredIDs() []TypeID {
	ids := make([]TypeID, 0, len(q.reads)+len(q.writes))
	ids = append(ids, q.reads...)
	ids = append(ids, q.writes...)
	for _, f := range q.filters {
		ids = append(ids, f.ComponentIDs()...)
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}

// plan resolves the candidate archetype set against the storage. A sole Or
// filter with no item types gets union narrowing when its members allow
// it; any other use of Or cannot prune candidates and is evaluated as a
// post-filter only.
func (q *Query) plan(sto *Storage) []ArchetypeID {
	required := q.requiredIDs()
	if len(required) == 0 && len(q.filters) == 1 {
		if or, ok := q.filters[0].(orFilter); ok {
			if union, safe := or.unionIDs(); safe {
				return sto.unionArchetypes(union)
			}
		}
	}
	if Config.debugChecks && len(q.filters) > 1 {
		for _, f := range q.filters {
			if _, ok := f.(orFilter); ok {
				Logger().Debug("or filter mixed with other terms cannot narrow the candidate set")
				break
			}
		}
	}
	return sto.candidateArchetypes(required)
}

// matchesArchetype applies the item-shape requirement and every filter's
// archetype-level predicate.
func (q *Query) matchesArchetype(a *Archetype) bool {
	var required mask.Mask
	for _, t := range q.reads {
		required.Mark(uint32(t))
	}
	for _, t := range q.writes {
		required.Mark(uint32(t))
	}
	if !a.Mask().ContainsAll(required) {
		return false
	}
	for _, f := range q.filters {
		if !f.MatchesArchetype(a) {
			return false
		}
	}
	return true
}

// matchesRow applies every filter's per-row predicate.
func (q *Query) matchesRow(a *Archetype, row int, last, current Tick) bool {
	for _, f := range q.filters {
		if !f.MatchesRow(a, row, last, current) {
			return false
		}
	}
	return true
}
