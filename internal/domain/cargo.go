package domain

import "strings"

// Unit is a length unit accepted at the API boundary. All stored
// dimensions are in centimetres.
type Unit string

const (
	UnitCentimetre Unit = "cm"
	UnitMetre      Unit = "m"
)

// ParseUnit parses a unit string. An empty string means centimetres.
func ParseUnit(s string) (Unit, bool) {
	switch Unit(strings.ToLower(strings.TrimSpace(s))) {
	case "", UnitCentimetre:
		return UnitCentimetre, true
	case UnitMetre:
		return UnitMetre, true
	default:
		return "", false
	}
}

// Dimensions is an axis-aligned cargo box.
type Dimensions struct {
	Length float64
	Width  float64
	Height float64
}

// ToCentimetres converts d from unit u to centimetres.
func (d Dimensions) ToCentimetres(u Unit) Dimensions {
	if u != UnitMetre {
		return d
	}
	return Dimensions{
		Length: d.Length * 100,
		Width:  d.Width * 100,
		Height: d.Height * 100,
	}
}

// IsPositive reports whether every side is strictly positive.
func (d Dimensions) IsPositive() bool {
	return d.Length > 0 && d.Width > 0 && d.Height > 0
}

// FitsWithin reports whether d fits inside capacity without rotation.
func (d Dimensions) FitsWithin(capacity Dimensions) bool {
	return d.Length <= capacity.Length &&
		d.Width <= capacity.Width &&
		d.Height <= capacity.Height
}

// Volume returns the box volume in cubic centimetres.
func (d Dimensions) Volume() float64 {
	return d.Length * d.Width * d.Height
}
