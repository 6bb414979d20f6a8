package eventindex

import (
	"k8s.io/apimachinery/pkg/labels"
)

// Event is a time ranged entry of an Index. End must not be before Start
// under the unit of the index the event is added to.
type Event[V any] interface {
	ID() string
	Start() V
	End() V
	Labels() labels.Set
}

type event[V any] struct {
	id     string
	start  V
	end    V
	labels labels.Set
}

func NewEvent[V any](id string, start, end V, l map[string]string) Event[V] {
	return &event[V]{
		id:     id,
		start:  start,
		end:    end,
		labels: labels.Set(l),
	}
}

func (r *event[V]) ID() string         { return r.id }
func (r *event[V]) Start() V           { return r.start }
func (r *event[V]) End() V             { return r.end }
func (r *event[V]) Labels() labels.Set { return r.labels }

// item wraps a stored event so removal works by identity whatever the
// dynamic type of the caller's Event is.
type item[V any] struct {
	evt Event[V]
}
