package metrics

import (
	"testing"

	"github.com/henderiw/evtindex/pkg/eventindex"
	"github.com/henderiw/evtindex/pkg/unit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserver(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	idx := eventindex.New[float64](unit.Number{}, eventindex.WithObserver(m))
	require.NoError(t, idx.Add(eventindex.NewEvent[float64]("a", 0, 1, nil)))
	require.NoError(t, idx.Add(eventindex.NewEvent[float64]("b", 1, 2, nil)))

	idx.Iterate(0, 2).Events()
	idx.Iterate(0, 2).Events()
	idx.ReverseIterate(0, 2).Events()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.rebuilds))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.indexedEvents))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.queries.WithLabelValues("forward")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.queries.WithLabelValues("backward")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.rebuildDuration))
}

func TestDoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)
	_, err = New(reg)
	assert.Error(t, err)
}
