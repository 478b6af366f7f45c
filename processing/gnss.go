package processing

import (
	"fmt"
	"strconv"
	"strings"
)

// Constellation identifies a GNSS system.
type Constellation int

const (
	GPS Constellation = iota
	Glonass
	Galileo
	BeiDou
	QZSS
	IRNSS
	SBAS
	Mixed
)

var constellationNames = map[Constellation]string{
	GPS:     "GPS",
	Glonass: "GLO",
	Galileo: "GAL",
	BeiDou:  "BDS",
	QZSS:    "QZSS",
	IRNSS:   "IRNSS",
	SBAS:    "SBAS",
	Mixed:   "MIXED",
}

var constellationLetters = map[Constellation]byte{
	GPS:     'G',
	Glonass: 'R',
	Galileo: 'E',
	BeiDou:  'C',
	QZSS:    'J',
	IRNSS:   'I',
	SBAS:    'S',
	Mixed:   'M',
}

// constellationAliases is keyed by upper case spelling.
var constellationAliases = map[string]Constellation{
	"GPS": GPS, "G": GPS,
	"GLO": Glonass, "GLONASS": Glonass, "R": Glonass,
	"GAL": Galileo, "GALILEO": Galileo, "E": Galileo,
	"BDS": BeiDou, "BEIDOU": BeiDou, "C": BeiDou,
	"QZSS": QZSS, "J": QZSS,
	"IRNSS": IRNSS, "NAVIC": IRNSS, "I": IRNSS,
	"SBAS": SBAS, "S": SBAS,
	"MIXED": Mixed, "M": Mixed,
}

func (c Constellation) String() string {
	if name, ok := constellationNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Constellation(%d)", int(c))
}

// Letter returns the single-letter RINEX code.
func (c Constellation) Letter() byte {
	return constellationLetters[c]
}

func parseConstellation(s string) (Constellation, bool) {
	c, ok := constellationAliases[strings.ToUpper(s)]
	return c, ok
}

func constellationFromLetter(b byte) (Constellation, bool) {
	for c, l := range constellationLetters {
		if l == b && c != Mixed {
			return c, true
		}
	}
	return 0, false
}

// SV is a space vehicle: constellation plus PRN number.
type SV struct {
	Constellation Constellation
	PRN           int
}

func (sv SV) String() string {
	return fmt.Sprintf("%c%02d", sv.Constellation.Letter(), sv.PRN)
}

// Less orders SVs by constellation, then PRN.
func (sv SV) Less(other SV) bool {
	if sv.Constellation != other.Constellation {
		return sv.Constellation < other.Constellation
	}
	return sv.PRN < other.PRN
}

// parseSV accepts "G08", "g8", "E24".
func parseSV(s string) (SV, bool) {
	if len(s) < 2 || len(s) > 3 {
		return SV{}, false
	}
	c, ok := constellationFromLetter(strings.ToUpper(s[:1])[0])
	if !ok {
		return SV{}, false
	}
	prn, err := strconv.Atoi(s[1:])
	if err != nil || prn < 1 || prn > 99 {
		return SV{}, false
	}
	return SV{Constellation: c, PRN: prn}, true
}

// parseSignal accepts RINEX observable codes: type letter, band digit,
// attribute letter, e.g. "L1C", "c2w". Returned upper case.
func parseSignal(s string) (string, bool) {
	if len(s) != 3 {
		return "", false
	}
	u := strings.ToUpper(s)
	switch u[0] {
	case 'C', 'L', 'D', 'S':
	default:
		return "", false
	}
	if u[1] < '1' || u[1] > '9' {
		return "", false
	}
	if u[2] < 'A' || u[2] > 'Z' {
		return "", false
	}
	return u, true
}

// parseField accepts identifiers such as "iode", "crs", "clock_bias".
// Returned lower case.
func parseField(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return "", false
		}
	}
	return strings.ToLower(s), true
}
