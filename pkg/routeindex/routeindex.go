package routeindex

import (
	"fmt"
	"net/netip"

	"github.com/hansthienpondt/nipam/pkg/table"
	"github.com/henderiw/evtindex/pkg/eventindex"
	"github.com/henderiw/evtindex/pkg/unit"
	"go4.org/netipx"
	"k8s.io/apimachinery/pkg/labels"
)

// RouteIndex finds the routes whose prefixes overlap an address range.
type RouteIndex interface {
	Add(route table.Route) error
	Remove(prefix netip.Prefix) bool
	Get(prefix netip.Prefix) (table.Route, bool)

	Count() int
	// Span returns the range from the first to the last address covered by
	// any route.
	Span() (netipx.IPRange, bool)

	Overlapping(ipRange netipx.IPRange) table.Routes
	GetAll() table.Routes
	GetByLabel(ipRange netipx.IPRange, selector labels.Selector) table.Routes
}

func New(ipRange netipx.IPRange, opts ...eventindex.Option) (RouteIndex, error) {
	if !ipRange.IsValid() {
		return nil, fmt.Errorf("invalid ip range %s", ipRange.String())
	}
	return &routeIndex{
		index:   eventindex.New[netip.Addr](unit.Addr{}, opts...),
		ipRange: ipRange,
	}, nil
}

type routeIndex struct {
	index   eventindex.Index[netip.Addr]
	ipRange netipx.IPRange
}

func (r *routeIndex) Add(route table.Route) error {
	evt, err := r.newEvent(route)
	if err != nil {
		return err
	}
	if err := r.index.Add(evt); err != nil {
		return fmt.Errorf("add route %s failed: %w", route.Prefix().String(), err)
	}
	return nil
}

func (r *routeIndex) Remove(prefix netip.Prefix) bool {
	return r.index.Remove(prefix.Masked().String())
}

func (r *routeIndex) Get(prefix netip.Prefix) (table.Route, bool) {
	evt, ok := r.index.Get(prefix.Masked().String())
	if !ok {
		return table.Route{}, false
	}
	return evt.(*routeEvent).route, true
}

func (r *routeIndex) Count() int {
	return r.index.Count()
}

func (r *routeIndex) Span() (netipx.IPRange, bool) {
	from, ok := r.index.EarliestStart()
	if !ok {
		return netipx.IPRange{}, false
	}
	end, _ := r.index.LatestEnd()
	return netipx.IPRangeFrom(from, r.lastBefore(end)), true
}

func (r *routeIndex) Overlapping(ipRange netipx.IPRange) table.Routes {
	var routes table.Routes
	if !r.sameFamily(ipRange) {
		return routes
	}
	iter := r.index.Iterate(ipRange.From(), ipRange.To().Next())
	for iter.Next() {
		routes = append(routes, iter.Value().(*routeEvent).route)
	}
	return routes
}

func (r *routeIndex) GetAll() table.Routes {
	var routes table.Routes
	iter := r.index.IterateAll()
	for iter.Next() {
		routes = append(routes, iter.Value().(*routeEvent).route)
	}
	return routes
}

func (r *routeIndex) GetByLabel(ipRange netipx.IPRange, selector labels.Selector) table.Routes {
	var routes table.Routes
	if !r.sameFamily(ipRange) {
		return routes
	}
	for _, evt := range r.index.GetByLabel(ipRange.From(), ipRange.To().Next(), selector) {
		routes = append(routes, evt.(*routeEvent).route)
	}
	return routes
}

func (r *routeIndex) newEvent(route table.Route) (*routeEvent, error) {
	prefix := route.Prefix()
	if !prefix.IsValid() {
		return nil, fmt.Errorf("route prefix %s is invalid", prefix.String())
	}
	prefixRange := netipx.RangeOfPrefix(prefix.Masked())
	if !r.ipRange.Contains(prefixRange.From()) || !r.ipRange.Contains(prefixRange.To()) {
		return nil, fmt.Errorf("route %s, does not fit in the range from %s to %s", prefix.String(), r.ipRange.From().String(), r.ipRange.To().String())
	}
	return &routeEvent{
		route: route,
		id:    prefix.Masked().String(),
		start: prefixRange.From(),
		// the zero Addr sorts after every address
		end: prefixRange.To().Next(),
	}, nil
}

// sameFamily reports whether ipRange is a valid range of the address family
// of the index. The end of a route reaching the last address sorts after
// every address of both families, so ranges of the other family must not
// reach the index.
func (r *routeIndex) sameFamily(ipRange netipx.IPRange) bool {
	return ipRange.IsValid() && ipRange.From().Is4() == r.ipRange.From().Is4()
}

// lastBefore returns the address right before the half-open end.
func (r *routeIndex) lastBefore(end netip.Addr) netip.Addr {
	if !end.IsValid() {
		return r.ipRange.To()
	}
	return end.Prev()
}

type routeEvent struct {
	route table.Route
	id    string
	start netip.Addr
	end   netip.Addr
}

func (r *routeEvent) ID() string         { return r.id }
func (r *routeEvent) Start() netip.Addr  { return r.start }
func (r *routeEvent) End() netip.Addr    { return r.end }
func (r *routeEvent) Labels() labels.Set { return r.route.Labels() }
