// Package processing holds the filter grammar used by the quality-control
// pipeline: item tokens, mask and decimation filters, and the composite
// Filter that ties them together.
//
// Grammar:
//
//	filter             := decim_filter | mask_filter_tagged | mask_filter_bare
//	decim_filter       := "decim" ":" rate [ ":" scope ]
//	mask_filter_tagged := "mask" ":" mask_body
//	mask_filter_bare   := mask_body
//	mask_body          := [ "=" | "!=" | ">=" | ">" | "<=" | "<" ] item_list
//
// Filters only describe a selection; applying them to data is up to the
// consumer.
package processing

import (
	"strings"

	"github.com/teranos/qcfilter/errors"
)

// Filter identifiers, matched literally after trimming.
const (
	decimIdentifier = "decim"
	maskIdentifier  = "mask"
)

// ErrUnknownFilterType matches every *UnknownFilterTypeError.
var ErrUnknownFilterType = errors.New("unknown filter type")

// UnknownFilterTypeError carries the descriptor that matched no filter kind.
type UnknownFilterTypeError struct {
	Descriptor string
	// Cause is the bare-mask parse failure.
	Cause error
}

func (e *UnknownFilterTypeError) Error() string {
	return "unknown filter type: " + strings.TrimSpace(e.Descriptor)
}

// Is makes errors.Is(err, ErrUnknownFilterType) hold.
func (e *UnknownFilterTypeError) Is(target error) bool {
	return target == ErrUnknownFilterType
}

func (e *UnknownFilterTypeError) Unwrap() error { return e.Cause }

// Kind names a Filter variant.
type Kind int

const (
	KindMask Kind = iota
	KindDecimation
)

func (k Kind) String() string {
	switch k {
	case KindMask:
		return maskIdentifier
	case KindDecimation:
		return decimIdentifier
	}
	return "unknown"
}

// Filter is one of MaskFilter or DecimationFilter. The set is closed: the
// unexported accept method keeps other packages from adding variants, and
// Match takes one case per variant so a new variant breaks every caller
// until it is handled.
type Filter interface {
	Kind() Kind
	String() string
	accept(visitor)
}

type visitor interface {
	mask(MaskFilter)
	decimation(DecimationFilter)
}

type matcher[T any] struct {
	onMask       func(MaskFilter) T
	onDecimation func(DecimationFilter) T
	out          T
}

func (m *matcher[T]) mask(f MaskFilter)             { m.out = m.onMask(f) }
func (m *matcher[T]) decimation(f DecimationFilter) { m.out = m.onDecimation(f) }

// Match calls the case for f's variant and returns its result.
// A nil f yields the zero T.
func Match[T any](f Filter, onMask func(MaskFilter) T, onDecimation func(DecimationFilter) T) T {
	m := &matcher[T]{onMask: onMask, onDecimation: onDecimation}
	if f != nil {
		f.accept(m)
	}
	return m.out
}

// ParseFilter parses a descriptor. The text before the first ':' selects
// "decim" or "mask"; anything else is parsed, untouched, as a bare mask,
// since mask items such as epochs may contain ':' themselves.
func ParseFilter(text string) (Filter, error) {
	identifier, body, _ := strings.Cut(text, ":")

	switch strings.TrimSpace(identifier) {
	case decimIdentifier:
		d, err := ParseDecimation(body)
		if err != nil {
			return nil, errors.Wrapf(err, "decimation filter %q", strings.TrimSpace(text))
		}
		return d, nil
	case maskIdentifier:
		m, err := ParseMask(body)
		if err != nil {
			return nil, errors.Wrapf(err, "mask filter %q", strings.TrimSpace(text))
		}
		return m, nil
	}

	m, err := ParseMask(text)
	if err != nil {
		return nil, errors.WithHint(
			errors.WithStack(&UnknownFilterTypeError{Descriptor: text, Cause: err}),
			`use "decim:<rate>[:<scope>]", "mask:<body>" or a bare mask such as "GPS" or ">G08"`,
		)
	}
	return m, nil
}

// Not returns the negation of f. Masks get the complementary operand;
// decimations cannot be inverted and come back unchanged.
func Not(f Filter) Filter {
	return Match(f,
		func(m MaskFilter) Filter { return m.Not() },
		func(d DecimationFilter) Filter { return d },
	)
}

// Equal reports whether a and b are the same variant with equal contents.
func Equal(a, b Filter) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return Match(a,
		func(m MaskFilter) bool {
			other, ok := b.(MaskFilter)
			return ok && m.Equal(other)
		},
		func(d DecimationFilter) bool {
			other, ok := b.(DecimationFilter)
			return ok && d.Equal(other)
		},
	)
}

// FromMask lifts a MaskFilter into a Filter.
func FromMask(m MaskFilter) Filter { return m }

// FromDecimation lifts a DecimationFilter into a Filter.
func FromDecimation(d DecimationFilter) Filter { return d }

// Mask builds a mask Filter from an already parsed item.
func Mask(operand MaskOperand, item Item) (Filter, error) {
	m, err := NewMaskFilter(operand, item)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func buildFilter(operand MaskOperand, item string) (Filter, error) {
	m, err := BuildMask(operand, item)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Equals builds "=item".
func Equals(item string) (Filter, error) { return buildFilter(OpEquals, item) }

// NotEquals builds "!=item".
func NotEquals(item string) (Filter, error) { return buildFilter(OpNotEquals, item) }

// GreaterThan builds ">item".
func GreaterThan(item string) (Filter, error) { return buildFilter(OpGreaterThan, item) }

// GreaterEquals builds ">=item".
func GreaterEquals(item string) (Filter, error) { return buildFilter(OpGreaterEquals, item) }

// LowerEquals builds "<=item".
func LowerEquals(item string) (Filter, error) { return buildFilter(OpLowerEquals, item) }

// LowerThan builds "<item".
func LowerThan(item string) (Filter, error) { return buildFilter(OpLowerThan, item) }
