package pipeline

import (
	"strings"

	"github.com/teranos/qcfilter/errors"
)

// Pipeline design failures.
var (
	ErrInvalidScope       = errors.New("invalid pipeline scope")
	ErrUnknownProductType = errors.New("unknown product type")
	ErrInvalidSelection   = errors.New("invalid pipeline selection")
	ErrInvalidOperand     = errors.New("invalid pipeline operand")
)

// ProductType is the kind of file a pipeline applies to.
type ProductType int

const (
	ProductAll ProductType = iota
	ProductObservation
	ProductNavigation
	ProductMeteo
	ProductClock
	ProductSP3
)

var productNames = map[ProductType]string{
	ProductAll:         "all",
	ProductObservation: "obs",
	ProductNavigation:  "nav",
	ProductMeteo:       "meteo",
	ProductClock:       "clock",
	ProductSP3:         "sp3",
}

// productAliases is keyed by lower case spelling.
var productAliases = map[string]ProductType{
	"all": ProductAll, "*": ProductAll,
	"obs": ProductObservation, "observation": ProductObservation, "observations": ProductObservation,
	"nav": ProductNavigation, "navigation": ProductNavigation, "brdc": ProductNavigation,
	"meteo": ProductMeteo, "met": ProductMeteo,
	"clock": ProductClock, "clk": ProductClock,
	"sp3": ProductSP3, "orbit": ProductSP3,
}

func (p ProductType) String() string {
	if name, ok := productNames[p]; ok {
		return name
	}
	return "unknown"
}

// ParseProductType accepts the canonical names and their common aliases.
func ParseProductType(text string) (ProductType, error) {
	c := strings.ToLower(strings.TrimSpace(text))
	if p, ok := productAliases[c]; ok {
		return p, nil
	}
	return 0, errors.WithHint(
		errors.Wrapf(ErrUnknownProductType, "product %q", c),
		"products are obs, nav, meteo, clock, sp3 or all",
	)
}

// Scope restricts a pipeline to one product type, optionally one file.
type Scope struct {
	Product ProductType
	File    string
}

// ParseScope parses "<product>[:<file>]", e.g. "obs" or "nav:BRDC00GOP.rnx".
// Every failure matches ErrInvalidScope.
func ParseScope(text string) (Scope, error) {
	c := strings.TrimSpace(text)
	if c == "" {
		return Scope{}, errors.Wrap(ErrInvalidScope, "empty scope")
	}

	product, file, hasFile := strings.Cut(c, ":")
	p, err := ParseProductType(product)
	if err != nil {
		return Scope{}, errors.Mark(err, ErrInvalidScope)
	}

	file = strings.TrimSpace(file)
	if hasFile && file == "" {
		return Scope{}, errors.Wrapf(ErrInvalidScope, "scope %q names no file", c)
	}
	return Scope{Product: p, File: file}, nil
}

func (s Scope) String() string {
	if s.File == "" {
		return s.Product.String()
	}
	return s.Product.String() + ":" + s.File
}

// Covers reports whether a file of product type p named file falls in s.
func (s Scope) Covers(p ProductType, file string) bool {
	if s.Product != ProductAll && s.Product != p {
		return false
	}
	return s.File == "" || s.File == file
}
