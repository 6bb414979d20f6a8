// Package unit provides the axis strategies an event index orders its
// events by. A Unit knows how to compare, combine, step and parse values of
// one domain type, e.g. plain numbers or calendar dates.
package unit

// Unit is the comparison and arithmetic strategy for values of type V.
type Unit[V any] interface {
	// Compare returns a negative number when a is before b, zero when they
	// are equal and a positive number when a is after b.
	Compare(a, b V) int
	// Earlier returns the earlier of a and b, b when they are equal.
	Earlier(a, b V) V
	// Later returns the later of a and b, b when they are equal.
	Later(a, b V) V
	// Change moves v by n native steps of the unit.
	Change(v V, n float64) V
	ToNumber(v V) float64
	FromNumber(n float64) V
	Parse(s string) (V, error)
	Format(v V) string
}

func earlier[V any](u Unit[V], a, b V) V {
	if u.Compare(a, b) < 0 {
		return a
	}
	return b
}

func later[V any](u Unit[V], a, b V) V {
	if u.Compare(a, b) > 0 {
		return a
	}
	return b
}
