package sortedarray

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tj/assert"
)

type item struct {
	key  int
	name string
}

func compareItems(a, b *item) int {
	return a.key - b.key
}

func keys(sa *SortedArray[*item]) []int {
	ks := make([]int, 0, sa.Len())
	for i := 0; i < sa.Len(); i++ {
		ks = append(ks, sa.ElementAt(i).key)
	}
	return ks
}

func TestAdd(t *testing.T) {
	cases := map[string]struct {
		input    []int
		expected []int
	}{
		"Empty": {
			input:    nil,
			expected: []int{},
		},
		"Ascending": {
			input:    []int{1, 2, 3},
			expected: []int{1, 2, 3},
		},
		"Descending": {
			input:    []int{3, 2, 1},
			expected: []int{1, 2, 3},
		},
		"Duplicates": {
			input:    []int{5, 1, 5, 3, 1},
			expected: []int{1, 1, 3, 5, 5},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			sa := New(compareItems)
			for _, k := range tc.input {
				sa.Add(&item{key: k})
			}
			if diff := cmp.Diff(tc.expected, keys(sa)); diff != "" {
				t.Errorf("%s: -want, +got:\n%s", name, diff)
			}
		})
	}
}

func TestAddRandomKeepsOrder(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	sa := New(compareItems)
	for i := 0; i < 500; i++ {
		sa.Add(&item{key: rnd.Intn(50)})
		for j := 0; j+1 < sa.Len(); j++ {
			if sa.ElementAt(j).key > sa.ElementAt(j+1).key {
				t.Fatalf("order broken at %d after %d inserts", j, i+1)
			}
		}
	}
	assert.Equal(t, 500, sa.Len())
}

func TestEqualKeysInsertFirst(t *testing.T) {
	a := &item{key: 1, name: "a"}
	b := &item{key: 1, name: "b"}
	sa := New(compareItems, a, b)
	assert.Equal(t, "b", sa.ElementAt(0).name)
	assert.Equal(t, "a", sa.ElementAt(1).name)
}

func TestRemove(t *testing.T) {
	a := &item{key: 1, name: "a"}
	b := &item{key: 2, name: "b"}
	c := &item{key: 2, name: "c"}
	d := &item{key: 3, name: "d"}
	sa := New(compareItems, a, b, c, d)

	// same key, different element
	assert.False(t, sa.Remove(&item{key: 2, name: "b"}))
	assert.Equal(t, 4, sa.Len())

	assert.True(t, sa.Remove(b))
	assert.Equal(t, 3, sa.Len())
	assert.Equal(t, c, sa.ElementAt(1))

	assert.False(t, sa.Remove(b))
	assert.True(t, sa.Remove(d))
	assert.True(t, sa.Remove(a))
	assert.True(t, sa.Remove(c))
	assert.Equal(t, 0, sa.Len())
}

func TestFind(t *testing.T) {
	sa := New(compareItems)
	for _, k := range []int{2, 4, 4, 6, 8} {
		sa.Add(&item{key: k})
	}
	cases := map[string]struct {
		target   int
		expected int
	}{
		"BeforeAll":  {target: 0, expected: 0},
		"First":      {target: 2, expected: 0},
		"Between":    {target: 3, expected: 1},
		"Duplicates": {target: 4, expected: 1},
		"Last":       {target: 8, expected: 4},
		"AfterAll":   {target: 9, expected: 5},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			idx := sa.Find(func(e *item) bool { return e.key < tc.target })
			assert.Equal(t, tc.expected, idx)
		})
	}
}

func TestFirstLast(t *testing.T) {
	sa := New(compareItems)
	_, ok := sa.First()
	assert.False(t, ok)
	_, ok = sa.Last()
	assert.False(t, ok)
	assert.Equal(t, 0, sa.Find(func(*item) bool { return true }))

	sa.Add(&item{key: 5})
	sa.Add(&item{key: 1})
	sa.Add(&item{key: 9})

	first, ok := sa.First()
	assert.True(t, ok)
	assert.Equal(t, 1, first.key)
	last, ok := sa.Last()
	assert.True(t, ok)
	assert.Equal(t, 9, last.key)

	sa.RemoveAll()
	assert.Equal(t, 0, sa.Len())
	_, ok = sa.First()
	assert.False(t, ok)
}
