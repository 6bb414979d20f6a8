package eventindex

import (
	"github.com/henderiw/evtindex/pkg/sortedarray"
	"github.com/henderiw/evtindex/pkg/unit"
)

// Iterator walks the events of a query once. It holds positions into the
// index it was created from, so it must be drained before that index is
// mutated.
//
//	iter := idx.Iterate(start, end)
//	for iter.Next() {
//		evt := iter.Value()
//	}
type Iterator[V any] struct {
	events    *sortedarray.SortedArray[*item[V]]
	unit      unit.Unit[V]
	start     V
	end       V
	direction Direction
	filter    bool

	current int
	min     int
	max     int

	value   Event[V]
	next    Event[V]
	hasNext bool
}

func (r *Iterator[V]) Direction() Direction {
	return r.direction
}

// HasNext reports whether a following call to Next returns true.
func (r *Iterator[V]) HasNext() bool {
	return r.hasNext
}

// Next moves to the next matching event and reports whether there was one.
func (r *Iterator[V]) Next() bool {
	if !r.hasNext {
		r.value = nil
		return false
	}
	r.value = r.next
	r.findNext()
	return true
}

// Value returns the event Next moved to.
func (r *Iterator[V]) Value() Event[V] {
	return r.value
}

// Events drains the iterator.
func (r *Iterator[V]) Events() []Event[V] {
	var evts []Event[V]
	for r.Next() {
		evts = append(evts, r.Value())
	}
	return evts
}

func (r *Iterator[V]) findNext() {
	for r.advance() {
		evt := r.events.ElementAt(r.current).evt
		if !r.filter || r.overlaps(evt) {
			r.next = evt
			r.hasNext = true
			return
		}
	}
	r.next = nil
	r.hasNext = false
}

func (r *Iterator[V]) advance() bool {
	if r.direction == Backward {
		r.current--
		return r.current >= r.min
	}
	r.current++
	return r.current < r.max
}

func (r *Iterator[V]) overlaps(evt Event[V]) bool {
	return r.unit.Compare(evt.Start(), r.end) < 0 &&
		r.unit.Compare(evt.End(), r.start) > 0
}
