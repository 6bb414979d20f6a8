package sortedarray

import "sort"

// CompareFn returns a negative number when a sorts before b, zero when they
// sort equal and a positive number otherwise.
type CompareFn[T any] func(a, b T) int

// SortedArray keeps its elements in ascending order according to a CompareFn.
// Elements that compare equal are kept in reverse insertion order.
type SortedArray[T comparable] struct {
	a       []T
	compare CompareFn[T]
}

func New[T comparable](compare CompareFn[T], initial ...T) *SortedArray[T] {
	r := &SortedArray[T]{
		a:       make([]T, 0, len(initial)),
		compare: compare,
	}
	for _, elmt := range initial {
		r.Add(elmt)
	}
	return r
}

// Add inserts elmt in front of the first element that does not sort before it.
func (r *SortedArray[T]) Add(elmt T) {
	idx := r.lowerBound(elmt)
	if idx < len(r.a) {
		var zero T
		r.a = append(r.a, zero)
		copy(r.a[idx+1:], r.a[idx:])
		r.a[idx] = elmt
		return
	}
	r.a = append(r.a, elmt)
}

// Remove deletes elmt itself (==), not just an element that compares equal
// to it. It returns whether an element was removed.
func (r *SortedArray[T]) Remove(elmt T) bool {
	for idx := r.lowerBound(elmt); idx < len(r.a) && r.compare(r.a[idx], elmt) == 0; idx++ {
		if r.a[idx] == elmt {
			var zero T
			copy(r.a[idx:], r.a[idx+1:])
			r.a[len(r.a)-1] = zero
			r.a = r.a[:len(r.a)-1]
			return true
		}
	}
	return false
}

func (r *SortedArray[T]) RemoveAll() {
	r.a = nil
}

func (r *SortedArray[T]) ElementAt(idx int) T {
	return r.a[idx]
}

func (r *SortedArray[T]) Len() int {
	return len(r.a)
}

// Find returns the smallest index for which before returns false. before must
// hold for a prefix of the array and fail for the rest; Len() is returned
// when it holds for every element.
func (r *SortedArray[T]) Find(before func(elmt T) bool) int {
	return sort.Search(len(r.a), func(i int) bool {
		return !before(r.a[i])
	})
}

func (r *SortedArray[T]) First() (T, bool) {
	var elmt T
	if len(r.a) == 0 {
		return elmt, false
	}
	return r.a[0], true
}

func (r *SortedArray[T]) Last() (T, bool) {
	var elmt T
	if len(r.a) == 0 {
		return elmt, false
	}
	return r.a[len(r.a)-1], true
}

func (r *SortedArray[T]) lowerBound(elmt T) int {
	return r.Find(func(elmt2 T) bool {
		return r.compare(elmt2, elmt) < 0
	})
}
