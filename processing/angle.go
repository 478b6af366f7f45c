package processing

import (
	"math"
	"strconv"
	"strings"

	"github.com/teranos/qcfilter/errors"
)

// Angle parsing failures.
var (
	ErrInvalidUnit  = errors.New("invalid unit")
	ErrInvalidValue = errors.New("invalid angle value")
)

// Angle is an elevation or azimuth angle, stored in degrees.
type Angle float64

var angleUnits = map[string]float64{
	"°":       1,
	"deg":     1,
	"degs":    1,
	"degree":  1,
	"degrees": 1,
	"rad":     180 / math.Pi,
	"rads":    180 / math.Pi,
	"radian":  180 / math.Pi,
	"radians": 180 / math.Pi,
}

// ParseAngle parses "10 deg", "15°" or "0.5 rad".
// A missing or unknown unit is ErrInvalidUnit; a bad number is ErrInvalidValue.
func ParseAngle(text string) (Angle, error) {
	c := strings.TrimSpace(text)
	number, unit := splitQuantity(c)

	scale, ok := angleUnits[strings.ToLower(unit)]
	if !ok {
		return 0, errors.Wrapf(ErrInvalidUnit, "angle %q", c)
	}

	value, err := strconv.ParseFloat(number, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, errors.Wrapf(ErrInvalidValue, "angle %q", c)
	}

	return Angle(value * scale), nil
}

// Degrees returns the angle in degrees.
func (a Angle) Degrees() float64 { return float64(a) }

// Radians returns the angle in radians.
func (a Angle) Radians() float64 { return float64(a) * math.Pi / 180 }

func (a Angle) String() string {
	return strconv.FormatFloat(float64(a), 'g', -1, 64) + " deg"
}
