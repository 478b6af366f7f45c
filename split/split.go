// Package split partitions time-ordered datasets in the time domain.
//
// A dataset opts in by implementing Splitter; Split and EvenDt are derived
// from that contract and work for any such type.
package split

import (
	"time"

	"github.com/teranos/qcfilter/errors"
)

// ErrInvalidDuration is returned for a non-positive window width.
var ErrInvalidDuration = errors.New("invalid split duration")

// Splitter is a time-ordered dataset that can be cut at an instant.
//
// SplitMut keeps records at or before t in the receiver and returns the
// records strictly after t. Clone returns an independent copy.
type Splitter[T any] interface {
	SplitMut(t time.Time) T
	Clone() T
}

// Dataset is a Splitter that also knows its time span. ok is false when the
// dataset holds no records.
type Dataset[T any] interface {
	Splitter[T]
	Span() (first, last time.Time, ok bool)
}

// Split returns the records at or before t and the records after t,
// leaving d untouched.
func Split[T Splitter[T]](d T, t time.Time) (before, after T) {
	before = d.Clone()
	after = before.SplitMut(t)
	return before, after
}

// EvenDt cuts d into consecutive windows of width dt anchored at its
// earliest epoch. Window k holds the records in (first+(k-1)dt, first+k*dt];
// the first window also holds first itself. Windows with no records are
// skipped, so every returned window is non-empty. d is left untouched.
func EvenDt[T Dataset[T]](d T, dt time.Duration) ([]T, error) {
	if dt <= 0 {
		return nil, errors.WithHint(
			errors.Wrapf(ErrInvalidDuration, "window %s", dt),
			"window width must be positive",
		)
	}

	windows := []T{}
	first, _, ok := d.Span()
	if !ok {
		return windows, nil
	}

	rest := d.Clone()
	boundary := first.Add(dt)
	for {
		head, _, ok := rest.Span()
		if !ok {
			break
		}
		if head.After(boundary) {
			boundary = advance(boundary, head, dt)
		}

		window := rest
		rest = window.SplitMut(boundary)
		windows = append(windows, window)
		boundary = boundary.Add(dt)
	}
	return windows, nil
}

// advance moves boundary forward by whole windows until head is at or
// before it.
func advance(boundary, head time.Time, dt time.Duration) time.Time {
	gap := head.Sub(boundary)
	steps := gap / dt
	if gap%dt != 0 {
		steps++
	}
	return boundary.Add(steps * dt)
}
