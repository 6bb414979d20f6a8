// Package eventindex keeps time ranged events sorted by start and answers
// "which events overlap [start, end)" queries without scanning the whole
// set.
//
// Ends are not sorted, so for every event in sorted order the index
// remembers the leftmost position a scan has to begin at so that no earlier
// starting event that still overlaps is missed. That annotation is rebuilt
// in one linear pass the first time it is needed after a mutation.
package eventindex

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/henderiw/evtindex/pkg/sortedarray"
	"github.com/henderiw/evtindex/pkg/unit"
	"github.com/sirupsen/logrus"
	"k8s.io/apimachinery/pkg/labels"
)

var (
	ErrDuplicateID = errors.New("duplicate event id")
	ErrNilEvent    = errors.New("nil event")
)

type Index[V any] interface {
	Unit() unit.Unit[V]

	// Add stores evt. An event whose id is already stored is rejected with
	// ErrDuplicateID.
	Add(evt Event[V]) error
	Remove(id string) bool
	RemoveAll()

	Get(id string) (Event[V], bool)
	Count() int

	// EarliestStart returns the smallest start of all events.
	EarliestStart() (V, bool)
	// LatestEnd returns the largest end of all events.
	LatestEnd() (V, bool)

	// Iterate returns the events overlapping [start, end) by ascending start.
	Iterate(start, end V) *Iterator[V]
	// ReverseIterate returns the events overlapping [start, end) by
	// descending start.
	ReverseIterate(start, end V) *Iterator[V]
	// IterateAll returns every event by ascending start.
	IterateAll() *Iterator[V]

	GetAll() []Event[V]
	GetByLabel(start, end V, selector labels.Selector) []Event[V]
}

func New[V any](u unit.Unit[V], opts ...Option) Index[V] {
	o := &options{
		log:      logrus.StandardLogger(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(o)
	}

	r := &index[V]{
		m:        new(sync.RWMutex),
		unit:     u,
		idToItem: map[string]*item[V]{},
		indexed:  true,
		log:      o.log,
		observer: o.observer,
	}
	r.events = sortedarray.New(func(a, b *item[V]) int {
		return u.Compare(a.evt.Start(), b.evt.Start())
	})
	return r
}

type index[V any] struct {
	m        *sync.RWMutex
	unit     unit.Unit[V]
	events   *sortedarray.SortedArray[*item[V]]
	idToItem map[string]*item[V]
	// earliest[i] is the smallest position whose event can still overlap a
	// range starting after the start of the event at position i.
	earliest []int
	indexed  bool

	log      logrus.FieldLogger
	observer Observer
}

func (r *index[V]) Unit() unit.Unit[V] {
	return r.unit
}

func (r *index[V]) Add(evt Event[V]) error {
	r.m.Lock()
	defer r.m.Unlock()

	if evt == nil {
		return ErrNilEvent
	}
	if _, ok := r.idToItem[evt.ID()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateID, evt.ID())
	}
	it := &item[V]{evt: evt}
	r.events.Add(it)
	r.idToItem[evt.ID()] = it
	r.indexed = false
	return nil
}

func (r *index[V]) Remove(id string) bool {
	r.m.Lock()
	defer r.m.Unlock()

	it, ok := r.idToItem[id]
	if !ok {
		return false
	}
	delete(r.idToItem, id)
	r.events.Remove(it)
	r.indexed = false
	return true
}

func (r *index[V]) RemoveAll() {
	r.m.Lock()
	defer r.m.Unlock()

	r.events.RemoveAll()
	r.idToItem = map[string]*item[V]{}
	r.earliest = nil
	// nothing to annotate
	r.indexed = true
}

func (r *index[V]) Get(id string) (Event[V], bool) {
	r.m.RLock()
	defer r.m.RUnlock()

	it, ok := r.idToItem[id]
	if !ok {
		return nil, false
	}
	return it.evt, true
}

func (r *index[V]) Count() int {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.events.Len()
}

func (r *index[V]) EarliestStart() (V, bool) {
	r.m.RLock()
	defer r.m.RUnlock()

	var start V
	first, ok := r.events.First()
	if !ok {
		return start, false
	}
	return first.evt.Start(), true
}

func (r *index[V]) LatestEnd() (V, bool) {
	r.m.Lock()
	defer r.m.Unlock()

	var end V
	if r.events.Len() == 0 {
		return end, false
	}
	r.ensureIndexed()

	// only events reachable from the last one can end after it does
	from := r.earliest[r.events.Len()-1]
	end = r.events.ElementAt(from).evt.End()
	for i := from + 1; i < r.events.Len(); i++ {
		end = r.unit.Later(end, r.events.ElementAt(i).evt.End())
	}
	return end, true
}

func (r *index[V]) Iterate(start, end V) *Iterator[V] {
	r.m.Lock()
	defer r.m.Unlock()

	return r.iterate(start, end)
}

func (r *index[V]) iterate(start, end V) *Iterator[V] {
	r.ensureIndexed()
	r.observer.ObserveQuery(Forward)

	minIdx := r.scanStart(start)
	iter := &Iterator[V]{
		events:    r.events,
		unit:      r.unit,
		start:     start,
		end:       end,
		direction: Forward,
		current:   minIdx - 1,
		min:       minIdx,
		max:       r.startsBefore(end),
		filter:    true,
	}
	iter.findNext()
	return iter
}

func (r *index[V]) ReverseIterate(start, end V) *Iterator[V] {
	r.m.Lock()
	defer r.m.Unlock()

	r.ensureIndexed()
	r.observer.ObserveQuery(Backward)

	maxIdx := r.startsBefore(end)
	iter := &Iterator[V]{
		events:    r.events,
		unit:      r.unit,
		start:     start,
		end:       end,
		direction: Backward,
		current:   maxIdx,
		min:       r.scanStart(start),
		max:       maxIdx,
		filter:    true,
	}
	iter.findNext()
	return iter
}

func (r *index[V]) IterateAll() *Iterator[V] {
	r.m.RLock()
	defer r.m.RUnlock()

	r.observer.ObserveQuery(All)

	iter := &Iterator[V]{
		events:    r.events,
		unit:      r.unit,
		direction: All,
		current:   -1,
		max:       r.events.Len(),
	}
	iter.findNext()
	return iter
}

func (r *index[V]) GetAll() []Event[V] {
	return r.IterateAll().Events()
}

func (r *index[V]) GetByLabel(start, end V, selector labels.Selector) []Event[V] {
	r.m.Lock()
	defer r.m.Unlock()

	var evts []Event[V]
	iter := r.iterate(start, end)
	for iter.Next() {
		if selector.Matches(iter.Value().Labels()) {
			evts = append(evts, iter.Value())
		}
	}
	return evts
}

// scanStart returns the first position a scan for events overlapping a
// range that starts at start has to look at.
func (r *index[V]) scanStart(start V) int {
	idx := r.events.Find(func(it *item[V]) bool {
		return r.unit.Compare(it.evt.Start(), start) < 0
	})
	if idx-1 >= 0 {
		idx = r.earliest[idx-1]
	}
	return idx
}

// startsBefore returns the number of events starting before v.
func (r *index[V]) startsBefore(v V) int {
	return r.events.Find(func(it *item[V]) bool {
		return r.unit.Compare(it.evt.Start(), v) < 0
	})
}

func (r *index[V]) ensureIndexed() {
	if !r.indexed {
		r.rebuild()
	}
}

func (r *index[V]) rebuild() {
	now := time.Now()

	l := r.events.Len()
	if cap(r.earliest) < l {
		r.earliest = make([]int, l)
	}
	r.earliest = r.earliest[:l]
	for i := 0; i < l; i++ {
		r.earliest[i] = i
	}

	toIdx := 1
	for i := 0; i < l; i++ {
		end := r.events.ElementAt(i).evt.End()

		toIdx = max(toIdx, i+1)
		for toIdx < l {
			if r.unit.Compare(r.events.ElementAt(toIdx).evt.Start(), end) >= 0 {
				break
			}
			r.earliest[toIdx] = i
			toIdx++
		}
	}
	r.indexed = true

	took := time.Since(now)
	r.observer.ObserveRebuild(l, took)
	r.log.WithFields(logrus.Fields{
		"events":   l,
		"duration": took,
	}).Debug("rebuilt event index")
}
