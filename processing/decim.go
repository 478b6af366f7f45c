package processing

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/teranos/qcfilter/errors"
)

// Decimation parsing failures.
var (
	ErrInvalidRate  = errors.New("invalid decimation rate")
	ErrInvalidScope = errors.New("invalid decimation scope")
)

// DecimationType tells how the sample rate is reduced.
type DecimationType int

const (
	// DecimateByCount keeps one record out of Count.
	DecimateByCount DecimationType = iota
	// DecimateByInterval keeps at most one record per Interval.
	DecimateByInterval
)

func (t DecimationType) String() string {
	switch t {
	case DecimateByCount:
		return "count"
	case DecimateByInterval:
		return "interval"
	}
	return "unknown"
}

// DecimationFilter reduces the sample rate, optionally only for the
// signals or fields listed in Scope.
type DecimationFilter struct {
	Type     DecimationType
	Count    int
	Interval time.Duration
	Scope    []Item
}

// NewCountDecimation keeps one record out of n.
func NewCountDecimation(n int, scope ...Item) (DecimationFilter, error) {
	if n <= 0 {
		return DecimationFilter{}, errors.Wrapf(ErrInvalidRate, "count %d must be positive", n)
	}
	return DecimationFilter{Type: DecimateByCount, Count: n, Scope: slices.Clone(scope)}, nil
}

// NewIntervalDecimation keeps at most one record per dt.
func NewIntervalDecimation(dt time.Duration, scope ...Item) (DecimationFilter, error) {
	if dt <= 0 {
		return DecimationFilter{}, errors.Wrapf(ErrInvalidRate, "interval %s must be positive", dt)
	}
	return DecimationFilter{Type: DecimateByInterval, Interval: dt, Scope: slices.Clone(scope)}, nil
}

// ParseDecimation parses "<rate>[:<scope>]" where rate is a count ("10") or a
// duration ("10 min") and scope is a comma separated item list ("L1C,L2C").
func ParseDecimation(text string) (DecimationFilter, error) {
	rateText, scopeText, hasScope := strings.Cut(text, ":")
	rateText = strings.TrimSpace(rateText)
	if rateText == "" {
		return DecimationFilter{}, withRateHint(errors.Wrap(ErrInvalidRate, "missing rate"))
	}

	var scope []Item
	if hasScope {
		var err error
		if scope, err = parseScope(scopeText); err != nil {
			return DecimationFilter{}, err
		}
	}

	if n, err := strconv.Atoi(rateText); err == nil {
		d, err := NewCountDecimation(n, scope...)
		return d, withRateHint(err)
	}

	dt, err := ParseDuration(rateText)
	if err != nil {
		return DecimationFilter{}, withRateHint(errors.Mark(errors.Wrapf(err, "rate %q", rateText), ErrInvalidRate))
	}
	d, err := NewIntervalDecimation(dt, scope...)
	return d, withRateHint(err)
}

func withRateHint(err error) error {
	return errors.WithHint(err, `rate is a positive count ("10") or a duration ("10 min", "1 hour")`)
}

func parseScope(text string) ([]Item, error) {
	c := strings.TrimSpace(text)
	if c == "" {
		return nil, errors.Wrap(ErrInvalidScope, "empty scope")
	}
	var scope []Item
	for _, elem := range strings.Split(c, ",") {
		item, err := ParseItem(elem)
		if err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "scope %q", c), ErrInvalidScope)
		}
		scope = append(scope, item)
	}
	return scope, nil
}

// Kind implements Filter.
func (d DecimationFilter) Kind() Kind { return KindDecimation }

// Rate renders the rate segment of the descriptor.
func (d DecimationFilter) Rate() string {
	if d.Type == DecimateByInterval {
		return FormatDuration(d.Interval)
	}
	return strconv.Itoa(d.Count)
}

// String renders a descriptor that ParseFilter maps back to an equal filter.
func (d DecimationFilter) String() string {
	s := decimIdentifier + ":" + d.Rate()
	if len(d.Scope) > 0 {
		parts := make([]string, len(d.Scope))
		for i, item := range d.Scope {
			parts[i] = item.String()
		}
		s += ":" + strings.Join(parts, ",")
	}
	return s
}

// Equal reports whether both decimations have the same rate and scope.
func (d DecimationFilter) Equal(other DecimationFilter) bool {
	if d.Type != other.Type || d.Count != other.Count || d.Interval != other.Interval {
		return false
	}
	return slices.EqualFunc(d.Scope, other.Scope, Item.Equal)
}

func (d DecimationFilter) accept(v visitor) { v.decimation(d) }
