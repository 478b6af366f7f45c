package processing

import (
	"strings"

	"github.com/teranos/qcfilter/errors"
)

// Mask parsing failures. Item failures surface as ErrInvalidItem.
var (
	ErrEmptyStep      = errors.New("empty selection step")
	ErrInvalidOperand = errors.New("invalid operand")
)

// MaskOperand is the comparison applied between a record field and the item.
type MaskOperand int

const (
	OpEquals MaskOperand = iota
	OpNotEquals
	OpGreaterThan
	OpGreaterEquals
	OpLowerThan
	OpLowerEquals
)

// operandMarkers is ordered so that two-character markers win over their
// one-character prefixes.
var operandMarkers = []struct {
	marker  string
	operand MaskOperand
}{
	{"!=", OpNotEquals},
	{">=", OpGreaterEquals},
	{"<=", OpLowerEquals},
	{"=", OpEquals},
	{">", OpGreaterThan},
	{"<", OpLowerThan},
}

var operandNames = map[MaskOperand]string{
	OpEquals:        "equals",
	OpNotEquals:     "not-equals",
	OpGreaterThan:   "greater-than",
	OpGreaterEquals: "greater-equals",
	OpLowerThan:     "lower-than",
	OpLowerEquals:   "lower-equals",
}

// String renders the grammar marker.
func (o MaskOperand) String() string {
	for _, m := range operandMarkers {
		if m.operand == o {
			return m.marker
		}
	}
	return "?"
}

// Name is a word form suitable for tables and logs.
func (o MaskOperand) Name() string {
	if name, ok := operandNames[o]; ok {
		return name
	}
	return "unknown"
}

// Complement returns the logical negation of o.
func (o MaskOperand) Complement() MaskOperand {
	switch o {
	case OpEquals:
		return OpNotEquals
	case OpNotEquals:
		return OpEquals
	case OpGreaterThan:
		return OpLowerEquals
	case OpLowerEquals:
		return OpGreaterThan
	case OpGreaterEquals:
		return OpLowerThan
	case OpLowerThan:
		return OpGreaterEquals
	}
	return o
}

// Ordering reports whether o needs an orderable item.
func (o MaskOperand) Ordering() bool {
	return o != OpEquals && o != OpNotEquals
}

// ParseMaskOperand parses a bare marker such as ">=".
func ParseMaskOperand(marker string) (MaskOperand, error) {
	m := strings.TrimSpace(marker)
	for _, om := range operandMarkers {
		if om.marker == m {
			return om.operand, nil
		}
	}
	return 0, errors.Wrapf(ErrInvalidOperand, "operand %q", m)
}

// splitOperand strips a leading marker; no marker means OpEquals.
func splitOperand(text string) (MaskOperand, string) {
	for _, om := range operandMarkers {
		if strings.HasPrefix(text, om.marker) {
			return om.operand, text[len(om.marker):]
		}
	}
	return OpEquals, text
}

// MaskFilter keeps or drops records whose field relates to Item via Operand.
type MaskFilter struct {
	Operand MaskOperand
	Item    Item
}

// NewMaskFilter pairs an operand with an item, rejecting ordering operands on
// items that have no order.
func NewMaskFilter(operand MaskOperand, item Item) (MaskFilter, error) {
	if _, ok := operandNames[operand]; !ok {
		return MaskFilter{}, errors.Wrapf(ErrInvalidOperand, "operand %d", int(operand))
	}
	if operand.Ordering() && !item.Kind().Orderable() {
		return MaskFilter{}, errors.WithHintf(
			errors.Wrapf(ErrInvalidOperand, "%q on %s item %q", operand.String(), item.Kind(), item.String()),
			"ordering operands apply to epochs, durations, angles and SVs only",
		)
	}
	return MaskFilter{Operand: operand, Item: item}, nil
}

// ParseMask parses "[marker] item_list", e.g. "GPS", "!= GPS, GAL", ">G08".
func ParseMask(text string) (MaskFilter, error) {
	c := strings.TrimSpace(text)
	if c == "" {
		return MaskFilter{}, ErrEmptyStep
	}

	operand, body := splitOperand(c)
	body = strings.TrimSpace(body)
	if body == "" {
		return MaskFilter{}, errors.Wrapf(ErrEmptyStep, "mask %q has no item", c)
	}

	item, err := ParseItem(body)
	if err != nil {
		return MaskFilter{}, errors.Wrapf(err, "mask %q", c)
	}

	return NewMaskFilter(operand, item)
}

// BuildMask parses item text and pairs it with operand.
func BuildMask(operand MaskOperand, item string) (MaskFilter, error) {
	it, err := ParseItem(item)
	if err != nil {
		return MaskFilter{}, err
	}
	return NewMaskFilter(operand, it)
}

// Not complements the operand. Not(Not(m)) equals m.
func (m MaskFilter) Not() MaskFilter {
	return MaskFilter{Operand: m.Operand.Complement(), Item: m.Item}
}

// Kind implements Filter.
func (m MaskFilter) Kind() Kind { return KindMask }

// Body renders the mask grammar without the "mask:" identifier.
func (m MaskFilter) Body() string {
	return m.Operand.String() + m.Item.String()
}

// String renders a descriptor that ParseFilter maps back to an equal filter.
func (m MaskFilter) String() string {
	return maskIdentifier + ":" + m.Body()
}

// Equal reports whether both masks have the same operand and item.
func (m MaskFilter) Equal(other MaskFilter) bool {
	return m.Operand == other.Operand && m.Item.Equal(other.Item)
}

func (m MaskFilter) accept(v visitor) { v.mask(m) }
