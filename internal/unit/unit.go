// Package unit converts between the length units the page configuration
// accepts. All conversions go through pixels on a DPI basis resolved once per
// converter.
package unit

import "fmt"

// Unit is a supported length unit.
type Unit string

const (
	Px Unit = "px"
	Mm Unit = "mm"
	Pt Unit = "pt"
	In Unit = "in"
)

const (
	mmPerInch = 25.4
	ptPerInch = 72.0
)

// Converter performs stateless unit arithmetic on a fixed DPI basis.
type Converter struct {
	dpi float64
}

// DefaultDPI is the basis used when the environment reports none.
const DefaultDPI = 96.0

// NewConverter resolves the measurement basis once. A non-positive dpi falls
// back to DefaultDPI.
func NewConverter(dpi float64) *Converter {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Converter{dpi: dpi}
}

// DPI returns the resolved basis.
func (c *Converter) DPI() float64 { return c.dpi }

// ToPixels converts a value in the given unit to pixels.
func (c *Converter) ToPixels(value float64, u Unit) (float64, error) {
	switch u {
	case Px, "":
		return value, nil
	case Mm:
		return value / mmPerInch * c.dpi, nil
	case Pt:
		return value / ptPerInch * c.dpi, nil
	case In:
		return value * c.dpi, nil
	}
	return 0, fmt.Errorf("unit: unsupported unit %q", u)
}

// FromPixels converts pixels to the given unit.
func (c *Converter) FromPixels(px float64, u Unit) (float64, error) {
	switch u {
	case Px, "":
		return px, nil
	case Mm:
		return px / c.dpi * mmPerInch, nil
	case Pt:
		return px / c.dpi * ptPerInch, nil
	case In:
		return px / c.dpi, nil
	}
	return 0, fmt.Errorf("unit: unsupported unit %q", u)
}
