package commands

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"k8s.io/apimachinery/pkg/labels"

	"github.com/henderiw/evtindex/internal/config"
	"github.com/henderiw/evtindex/pkg/eventindex"
	"github.com/henderiw/evtindex/pkg/loader"
	"github.com/henderiw/evtindex/pkg/unit"
)

// Row is an event formatted by the unit of its index.
type Row struct {
	ID     string            `json:"id"`
	Start  string            `json:"start"`
	End    string            `json:"end"`
	Labels map[string]string `json:"labels,omitempty"`
}

type Span struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Count int    `json:"count"`
}

// Query selects events overlapping [From, To). An empty bound is open.
type Query struct {
	From     string
	To       string
	Reverse  bool
	Selector labels.Selector
}

// timeline hides the value type of the index behind formatted strings.
type timeline interface {
	Span() (Span, bool)
	Query(q Query) ([]Row, error)
}

func openTimeline(cfg *config.Config, path string, log logrus.FieldLogger, opts ...eventindex.Option) (timeline, error) {
	opts = append([]eventindex.Option{eventindex.WithLogger(log)}, opts...)
	switch strings.ToLower(cfg.Unit) {
	case config.UnitDate:
		return loadTimeline(path, eventindex.New[time.Time](unit.Date{Layout: cfg.DateLayout}, opts...), log)
	default:
		return loadTimeline(path, eventindex.New[float64](unit.Number{}, opts...), log)
	}
}

func loadTimeline[V any](path string, idx eventindex.Index[V], log logrus.FieldLogger) (timeline, error) {
	n, err := loader.LoadFile(path, idx)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"file":   path,
		"events": n,
	}).Info("loaded events")
	return &typedTimeline[V]{idx: idx}, nil
}

type typedTimeline[V any] struct {
	idx eventindex.Index[V]
}

func (r *typedTimeline[V]) Span() (Span, bool) {
	u := r.idx.Unit()
	start, ok := r.idx.EarliestStart()
	if !ok {
		return Span{}, false
	}
	end, _ := r.idx.LatestEnd()
	return Span{
		Start: u.Format(start),
		End:   u.Format(end),
		Count: r.idx.Count(),
	}, true
}

func (r *typedTimeline[V]) Query(q Query) ([]Row, error) {
	selector := q.Selector
	if selector == nil {
		selector = labels.Everything()
	}

	var iter *eventindex.Iterator[V]
	if q.From == "" && q.To == "" {
		iter = r.idx.IterateAll()
	} else {
		from, to, err := r.bounds(q.From, q.To)
		if err != nil {
			return nil, err
		}
		if q.Reverse {
			iter = r.idx.ReverseIterate(from, to)
		} else {
			iter = r.idx.Iterate(from, to)
		}
	}

	rows := []Row{}
	for iter.Next() {
		evt := iter.Value()
		if selector.Matches(evt.Labels()) {
			rows = append(rows, r.row(evt))
		}
	}
	if q.Reverse && iter.Direction() == eventindex.All {
		for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
			rows[i], rows[j] = rows[j], rows[i]
		}
	}
	return rows, nil
}

// bounds parses the range, replacing an open bound by a value strictly beyond
// the span of the index so events touching the span edges still overlap it.
func (r *typedTimeline[V]) bounds(fromStr, toStr string) (V, V, error) {
	u := r.idx.Unit()
	var from, to V
	var err error

	if fromStr != "" {
		if from, err = u.Parse(fromStr); err != nil {
			return from, to, errors.Wrap(err, "from")
		}
	} else if start, ok := r.idx.EarliestStart(); ok {
		from = beyond(u, start, -1)
	}

	if toStr != "" {
		if to, err = u.Parse(toStr); err != nil {
			return from, to, errors.Wrap(err, "to")
		}
	} else if end, ok := r.idx.LatestEnd(); ok {
		to = beyond(u, end, 1)
	}
	return from, to, nil
}

// maxWiden bounds the step doublings of beyond; 2^1100 steps exceed the
// float64 range.
const maxWiden = 1100

// beyond moves v by at least one step in direction dir, doubling the step
// while the unit absorbs it, e.g. for large float64 values.
func beyond[V any](u unit.Unit[V], v V, dir float64) V {
	step := dir
	for i := 0; i < maxWiden; i++ {
		moved := u.Change(v, step)
		if u.Compare(moved, v) != 0 {
			return moved
		}
		step *= 2
	}
	return v
}

func (r *typedTimeline[V]) row(evt eventindex.Event[V]) Row {
	u := r.idx.Unit()
	return Row{
		ID:     evt.ID(),
		Start:  u.Format(evt.Start()),
		End:    u.Format(evt.End()),
		Labels: evt.Labels(),
	}
}
