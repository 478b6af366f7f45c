package processing

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/teranos/qcfilter/errors"
)

// durationUnits maps accepted unit spellings to their length.
var durationUnits = map[string]time.Duration{
	"ns": time.Nanosecond, "nanosecond": time.Nanosecond, "nanoseconds": time.Nanosecond,
	"us": time.Microsecond, "µs": time.Microsecond, "microsecond": time.Microsecond, "microseconds": time.Microsecond,
	"ms": time.Millisecond, "millisecond": time.Millisecond, "milliseconds": time.Millisecond,
	"s": time.Second, "sec": time.Second, "secs": time.Second, "second": time.Second, "seconds": time.Second,
	"m": time.Minute, "min": time.Minute, "mins": time.Minute, "minute": time.Minute, "minutes": time.Minute,
	"h": time.Hour, "hr": time.Hour, "hrs": time.Hour, "hour": time.Hour, "hours": time.Hour,
	"d": 24 * time.Hour, "day": 24 * time.Hour, "days": 24 * time.Hour,
	"week": 7 * 24 * time.Hour, "weeks": 7 * 24 * time.Hour,
}

// canonicalUnits is the rendering order for FormatDuration, largest first.
var canonicalUnits = []struct {
	name string
	size time.Duration
}{
	{"day", 24 * time.Hour},
	{"hour", time.Hour},
	{"min", time.Minute},
	{"s", time.Second},
	{"ms", time.Millisecond},
	{"us", time.Microsecond},
	{"ns", time.Nanosecond},
}

// ParseDuration parses a quantity-with-unit literal such as "10 min",
// "1 hour", "30s" or "0.5 h". Go duration syntax ("1h30m") is accepted too.
// A bare number has no unit and is rejected.
func ParseDuration(text string) (time.Duration, error) {
	c := strings.TrimSpace(text)
	if c == "" {
		return 0, errors.New("empty duration")
	}

	number, unit := splitQuantity(c)
	if number == "" || unit == "" {
		return 0, errors.Newf("invalid duration %q (expected 'NUMBER UNIT')", c)
	}

	value, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, errors.Newf("invalid duration %q: bad number %q", c, number)
	}
	if value < 0 {
		return 0, errors.Newf("invalid duration %q: negative duration not supported", c)
	}

	size, ok := durationUnits[strings.ToLower(unit)]
	if !ok {
		d, goErr := time.ParseDuration(strings.ReplaceAll(c, " ", ""))
		if goErr != nil {
			// time.ParseDuration also fails here on values past the int64 range
			return 0, errors.Wrapf(goErr, "unsupported duration unit %q or value out of range", unit)
		}
		if d < 0 {
			return 0, errors.Newf("invalid duration %q: negative duration not supported", c)
		}
		return d, nil
	}

	ns := math.Round(value * float64(size))
	if ns >= math.MaxInt64 {
		return 0, errors.Newf("invalid duration %q: out of range (max %s)", c, time.Duration(math.MaxInt64))
	}
	return time.Duration(ns), nil
}

// FormatDuration renders d with the largest unit that divides it exactly,
// e.g. "1 hour", "90 min", "1500 ms". The output parses back with ParseDuration.
func FormatDuration(d time.Duration) string {
	if d == 0 {
		return "0 s"
	}
	for _, u := range canonicalUnits {
		if d%u.size == 0 {
			return strconv.FormatInt(int64(d/u.size), 10) + " " + u.name
		}
	}
	return d.String()
}

// splitQuantity separates the leading numeric part of c from its unit.
func splitQuantity(c string) (number, unit string) {
	end := 0
	for i, r := range c {
		if (r >= '0' && r <= '9') || r == '.' || (i == 0 && (r == '-' || r == '+')) {
			end = i + 1
			continue
		}
		break
	}
	return c[:end], strings.TrimSpace(c[end:])
}
