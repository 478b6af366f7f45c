// Package dataset holds time-ordered record collections that support the
// split operations.
package dataset

import (
	"slices"
	"sort"
	"time"

	"github.com/teranos/qcfilter/split"
)

// Record is anything stamped with an epoch.
type Record interface {
	Epoch() time.Time
}

// Series keeps records sorted by epoch. Records sharing an epoch keep their
// insertion order. The zero value is an empty series ready to use.
type Series[R Record] struct {
	records []R
}

// NewSeries sorts a copy of records by epoch.
func NewSeries[R Record](records ...R) *Series[R] {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b R) int {
		return a.Epoch().Compare(b.Epoch())
	})
	return &Series[R]{records: sorted}
}

// Insert places r after every record at or before its epoch.
func (s *Series[R]) Insert(r R) {
	s.records = slices.Insert(s.records, s.after(r.Epoch()), r)
}

// after returns the index of the first record strictly after t.
func (s *Series[R]) after(t time.Time) int {
	return sort.Search(len(s.records), func(i int) bool {
		return s.records[i].Epoch().After(t)
	})
}

// Len returns the number of records.
func (s *Series[R]) Len() int { return len(s.records) }

// Records returns a copy of the records in epoch order.
func (s *Series[R]) Records() []R { return slices.Clone(s.records) }

// Span returns the first and last epochs.
func (s *Series[R]) Span() (first, last time.Time, ok bool) {
	if len(s.records) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return s.records[0].Epoch(), s.records[len(s.records)-1].Epoch(), true
}

// Clone returns an independent copy.
func (s *Series[R]) Clone() *Series[R] {
	return &Series[R]{records: slices.Clone(s.records)}
}

// SplitMut keeps records at or before t and returns the rest.
func (s *Series[R]) SplitMut(t time.Time) *Series[R] {
	idx := s.after(t)
	rest := &Series[R]{records: slices.Clone(s.records[idx:])}
	s.records = slices.Clip(s.records[:idx])
	return rest
}

// Split returns the records at or before t and those after it, leaving s
// untouched.
func (s *Series[R]) Split(t time.Time) (before, after *Series[R]) {
	return split.Split(s, t)
}

// SplitEvenDt cuts s into non-empty windows of width dt. See split.EvenDt.
func (s *Series[R]) SplitEvenDt(dt time.Duration) ([]*Series[R], error) {
	return split.EvenDt(s, dt)
}
