package processing

import (
	"slices"
	"strings"
	"time"

	"github.com/teranos/qcfilter/errors"
)

// ErrInvalidItem is returned when text is not a recognizable item.
var ErrInvalidItem = errors.New("invalid item")

// ItemKind classifies a parsed Item.
type ItemKind int

const (
	ItemEpoch ItemKind = iota
	ItemDuration
	ItemAngle
	ItemSV
	ItemConstellation
	ItemSignal
	ItemField
)

var itemKindNames = map[ItemKind]string{
	ItemEpoch:         "epoch",
	ItemDuration:      "duration",
	ItemAngle:         "angle",
	ItemSV:            "sv",
	ItemConstellation: "constellation",
	ItemSignal:        "signal",
	ItemField:         "field",
}

func (k ItemKind) String() string {
	if name, ok := itemKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Orderable reports whether >, >=, < and <= make sense on this kind.
func (k ItemKind) Orderable() bool {
	switch k {
	case ItemEpoch, ItemDuration, ItemAngle, ItemSV:
		return true
	}
	return false
}

// Timescales accepted after an epoch literal, e.g. "2020-01-14T00:31:55 GPST".
var Timescales = []string{"UTC", "TAI", "GPST", "GST", "BDT", "QZSST", "IRNSST"}

// epochLayouts is ordered from most specific to least specific.
var epochLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Item is one comparison operand: an epoch, a duration, an angle, or a
// homogeneous list of SVs, constellations, signals or record fields.
// Items are immutable; accessors return copies.
type Item struct {
	kind           ItemKind
	epoch          time.Time
	timescale      string
	duration       time.Duration
	angle          Angle
	svs            []SV
	constellations []Constellation
	names          []string // signals or fields
}

// ParseItem parses trimmed item text. Kinds are tried in order:
// epoch, duration, angle, then comma separated SV, constellation, signal
// and field lists.
func ParseItem(text string) (Item, error) {
	c := strings.TrimSpace(text)
	if c == "" {
		return Item{}, errors.Wrap(ErrInvalidItem, "empty item")
	}

	if t, scale, ok := parseEpoch(c); ok {
		return Item{kind: ItemEpoch, epoch: t, timescale: scale}, nil
	}
	if d, err := ParseDuration(c); err == nil {
		return Item{kind: ItemDuration, duration: d}, nil
	}
	if a, err := ParseAngle(c); err == nil {
		return Item{kind: ItemAngle, angle: a}, nil
	}

	elems := strings.Split(c, ",")
	for i := range elems {
		elems[i] = strings.TrimSpace(elems[i])
		if elems[i] == "" {
			return Item{}, errors.Wrapf(ErrInvalidItem, "item %q: empty list element", c)
		}
	}

	if svs, ok := parseAll(elems, parseSV); ok {
		return Item{kind: ItemSV, svs: svs}, nil
	}
	if cs, ok := parseAll(elems, parseConstellation); ok {
		return Item{kind: ItemConstellation, constellations: cs}, nil
	}
	if signals, ok := parseAll(elems, parseSignal); ok {
		return Item{kind: ItemSignal, names: signals}, nil
	}
	if fields, ok := parseAll(elems, parseField); ok {
		return Item{kind: ItemField, names: fields}, nil
	}

	return Item{}, errors.Wrapf(ErrInvalidItem, "item %q", c)
}

func parseAll[T any](elems []string, parse func(string) (T, bool)) ([]T, bool) {
	out := make([]T, 0, len(elems))
	for _, e := range elems {
		v, ok := parse(e)
		if !ok {
			return nil, false
		}
		out = append(out, v)
	}
	return out, true
}

func parseEpoch(c string) (time.Time, string, bool) {
	// Cheap rejection: every layout starts with a four digit year and a dash
	if len(c) < 10 || c[4] != '-' {
		return time.Time{}, "", false
	}

	body, scale := c, ""
	if fields := strings.Fields(c); len(fields) > 1 {
		last := strings.ToUpper(fields[len(fields)-1])
		if slices.Contains(Timescales, last) {
			scale = last
			body = strings.TrimSpace(strings.TrimSuffix(c, fields[len(fields)-1]))
		}
	}

	for _, layout := range epochLayouts {
		if t, err := time.Parse(layout, body); err == nil {
			return t.UTC(), scale, true
		}
	}
	return time.Time{}, "", false
}

// NewEpochItem builds an epoch item. timescale may be empty.
func NewEpochItem(t time.Time, timescale string) Item {
	return Item{kind: ItemEpoch, epoch: t.UTC(), timescale: strings.ToUpper(timescale)}
}

// NewDurationItem builds a duration item.
func NewDurationItem(d time.Duration) Item {
	return Item{kind: ItemDuration, duration: d}
}

// NewAngleItem builds an angle item.
func NewAngleItem(a Angle) Item {
	return Item{kind: ItemAngle, angle: a}
}

// NewSVItem builds an SV list item.
func NewSVItem(svs ...SV) Item {
	return Item{kind: ItemSV, svs: slices.Clone(svs)}
}

// NewConstellationItem builds a constellation list item.
func NewConstellationItem(cs ...Constellation) Item {
	return Item{kind: ItemConstellation, constellations: slices.Clone(cs)}
}

// Kind returns the item classification.
func (i Item) Kind() ItemKind { return i.kind }

// Epoch returns the instant and its timescale label for epoch items.
func (i Item) Epoch() (time.Time, string) { return i.epoch, i.timescale }

// Duration returns the value of duration items.
func (i Item) Duration() time.Duration { return i.duration }

// Angle returns the value of angle items.
func (i Item) Angle() Angle { return i.angle }

// SVs returns a copy of the SV list.
func (i Item) SVs() []SV { return slices.Clone(i.svs) }

// Constellations returns a copy of the constellation list.
func (i Item) Constellations() []Constellation { return slices.Clone(i.constellations) }

// Signals returns a copy of the signal code list.
func (i Item) Signals() []string {
	if i.kind != ItemSignal {
		return nil
	}
	return slices.Clone(i.names)
}

// Fields returns a copy of the field name list.
func (i Item) Fields() []string {
	if i.kind != ItemField {
		return nil
	}
	return slices.Clone(i.names)
}

// Values renders each list element, or the single scalar value.
func (i Item) Values() []string {
	switch i.kind {
	case ItemSV:
		out := make([]string, len(i.svs))
		for n, sv := range i.svs {
			out[n] = sv.String()
		}
		return out
	case ItemConstellation:
		out := make([]string, len(i.constellations))
		for n, c := range i.constellations {
			out[n] = c.String()
		}
		return out
	case ItemSignal, ItemField:
		return slices.Clone(i.names)
	}
	return []string{i.String()}
}

// String renders canonical text that ParseItem maps back to an equal Item.
func (i Item) String() string {
	switch i.kind {
	case ItemEpoch:
		if i.timescale != "" {
			return i.epoch.Format("2006-01-02T15:04:05.999999999") + " " + i.timescale
		}
		return i.epoch.Format(time.RFC3339Nano)
	case ItemDuration:
		return FormatDuration(i.duration)
	case ItemAngle:
		return i.angle.String()
	}
	return strings.Join(i.Values(), ",")
}

// Equal reports whether both items have the same kind and value.
func (i Item) Equal(other Item) bool {
	if i.kind != other.kind {
		return false
	}
	switch i.kind {
	case ItemEpoch:
		return i.epoch.Equal(other.epoch) && i.timescale == other.timescale
	case ItemDuration:
		return i.duration == other.duration
	case ItemAngle:
		return i.angle == other.angle
	case ItemSV:
		return slices.Equal(i.svs, other.svs)
	case ItemConstellation:
		return slices.Equal(i.constellations, other.constellations)
	}
	return slices.Equal(i.names, other.names)
}
