package routeindex

import (
	"net/netip"
	"testing"

	"github.com/hansthienpondt/nipam/pkg/table"
	"github.com/tj/assert"
	"go4.org/netipx"
	"k8s.io/apimachinery/pkg/labels"
)

func prefixes(routes table.Routes) []string {
	out := make([]string, 0, len(routes))
	for _, route := range routes {
		out = append(out, route.Prefix().String())
	}
	return out
}

func newRoute(prefix string, l map[string]string) table.Route {
	return table.NewRoute(netip.MustParsePrefix(prefix), l, nil)
}

func TestAdd(t *testing.T) {
	cases := map[string]struct {
		ipRange           string
		newSuccessEntries []string
		newFailedEntries  []string
		expectedEntries   int
	}{
		"Normal": {
			ipRange:           "10.0.0.0-10.255.255.255",
			newSuccessEntries: []string{"10.0.0.0/24", "10.0.0.0/16", "10.1.0.0/16"},
			newFailedEntries:  []string{"11.0.0.0/24", "10.0.0.0/7", "10.0.0.0/24"},
			expectedEntries:   3,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			ipRange, err := netipx.ParseIPRange(tc.ipRange)
			assert.NoError(t, err)

			r, err := New(ipRange)
			assert.NoError(t, err)

			for _, p := range tc.newSuccessEntries {
				assert.NoError(t, r.Add(newRoute(p, nil)))
			}
			for _, p := range tc.newFailedEntries {
				assert.Error(t, r.Add(newRoute(p, nil)))
			}
			for _, p := range tc.newSuccessEntries {
				if _, ok := r.Get(netip.MustParsePrefix(p)); !ok {
					t.Errorf("%s expecting success entry: %s\n", name, p)
				}
			}
			if r.Count() != tc.expectedEntries {
				t.Errorf("%s: -want %d, +got: %d\n", name, tc.expectedEntries, r.Count())
			}
		})
	}
}

func TestNewInvalidRange(t *testing.T) {
	_, err := New(netipx.IPRange{})
	assert.Error(t, err)
}

func TestOverlapping(t *testing.T) {
	r, err := New(netipx.IPRangeFrom(netip.MustParseAddr("0.0.0.0"), netip.MustParseAddr("255.255.255.255")))
	assert.NoError(t, err)

	for _, p := range []string{"10.0.0.0/8", "10.1.0.0/16", "10.1.1.0/24", "192.168.0.0/16", "255.255.255.0/24"} {
		assert.NoError(t, r.Add(newRoute(p, map[string]string{"site": "a"})))
	}

	cases := map[string]struct {
		ipRange  string
		expected []string
	}{
		"Host": {
			ipRange:  "10.1.1.7-10.1.1.7",
			expected: []string{"10.0.0.0/8", "10.1.0.0/16", "10.1.1.0/24"},
		},
		"Edge": {
			ipRange:  "10.1.255.255-10.2.0.0",
			expected: []string{"10.0.0.0/8", "10.1.0.0/16"},
		},
		"None": {
			ipRange:  "172.16.0.0-172.31.255.255",
			expected: []string{},
		},
		"Top": {
			ipRange:  "255.255.255.255-255.255.255.255",
			expected: []string{"255.255.255.0/24"},
		},
		"OtherFamily": {
			ipRange:  "2001:db8::-2001:db8::ffff",
			expected: []string{},
		},
		"OtherFamilyFull": {
			ipRange:  "::-ffff:ffff:ffff:ffff:ffff:ffff:ffff:ffff",
			expected: []string{},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			ipRange, err := netipx.ParseIPRange(tc.ipRange)
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, prefixes(r.Overlapping(ipRange)))
		})
	}

	span, ok := r.Span()
	assert.True(t, ok)
	assert.Equal(t, "10.0.0.0-255.255.255.255", span.String())

	assert.True(t, r.Remove(netip.MustParsePrefix("255.255.255.0/24")))
	span, ok = r.Span()
	assert.True(t, ok)
	assert.Equal(t, "10.0.0.0-192.168.255.255", span.String())
	assert.Equal(t, 4, len(r.GetAll()))
}

func TestGetByLabel(t *testing.T) {
	r, err := New(netipx.MustParseIPRange("10.0.0.0-10.255.255.255"))
	assert.NoError(t, err)
	assert.NoError(t, r.Add(newRoute("10.0.0.0/24", map[string]string{"type": "pool"})))
	assert.NoError(t, r.Add(newRoute("10.0.0.128/25", map[string]string{"type": "gateway"})))

	sel, err := labels.Parse("type=gateway")
	assert.NoError(t, err)
	got := r.GetByLabel(netipx.MustParseIPRange("10.0.0.0-10.0.0.255"), sel)
	assert.Equal(t, []string{"10.0.0.128/25"}, prefixes(got))

	got = r.GetByLabel(netipx.MustParseIPRange("2001:db8::-2001:db8::ffff"), labels.Everything())
	assert.Equal(t, 0, len(got))
	assert.Equal(t, 0, len(r.Overlapping(netipx.IPRange{})))

	_, ok := r.Span()
	assert.True(t, ok)
}
