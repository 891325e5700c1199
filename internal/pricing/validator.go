package pricing

import "math"

// DefaultPriceFloor floor for directly entered prices
const DefaultPriceFloor = 0.01

// Validator normalises a line's quantity and price into valid ranges
type Validator struct {
	PriceFloor float64
}

// NewValidator validator with the given floor; non-positive floors use DefaultPriceFloor
func NewValidator(priceFloor float64) Validator {
	if !(priceFloor > 0) || math.IsInf(priceFloor, 0) {
		priceFloor = DefaultPriceFloor
	}
	return Validator{PriceFloor: priceFloor}
}

// Quantity negative or non-finite quantities become 0
func (v Validator) Quantity(q float64) float64 {
	if math.IsNaN(q) || math.IsInf(q, 0) || q < 0 {
		return 0
	}
	return q
}

// EnteredPrice price typed by a person; never below the floor
func (v Validator) EnteredPrice(p float64) float64 {
	floor := v.PriceFloor
	if !(floor > 0) {
		floor = DefaultPriceFloor
	}
	if math.IsNaN(p) || math.IsInf(p, 0) || p < floor {
		return floor
	}
	return p
}

// CatalogPrice price mirrored from the catalog; zero means "not set yet" and passes
func (v Validator) CatalogPrice(p float64) float64 {
	return catalogPrice(p)
}
