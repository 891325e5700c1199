package pricing

import "strings"

// Canonical units of measure
const (
	UnitKilogram   = "kg"
	UnitGram       = "g"
	UnitLiter      = "l"
	UnitMilliliter = "ml"
	UnitPiece      = "piece"

	// DefaultUnit base unit of catalog rows that name none
	DefaultUnit = "unit"
)

type unitPair struct {
	from string
	to   string
}

// quantity_in_to = quantity_in_from / factor
var unitFactors = map[unitPair]float64{
	{UnitGram, UnitKilogram}:    1000,
	{UnitKilogram, UnitGram}:    0.001,
	{UnitMilliliter, UnitLiter}: 1000,
	{UnitLiter, UnitMilliliter}: 0.001,
	{UnitPiece, UnitPiece}:      1,
}

// NormalizeUnit trims and lower-cases a unit label
func NormalizeUnit(unit string) string {
	return strings.ToLower(strings.TrimSpace(unit))
}

// Factor scale between two units. Labels match exactly once normalized, so
// " KG " and "kg" are the same unit. Unregistered pairs pass through with 1.
func Factor(fromUnit, toUnit string) float64 {
	if f, ok := unitFactors[unitPair{NormalizeUnit(fromUnit), NormalizeUnit(toUnit)}]; ok {
		return f
	}
	return 1
}

// ConvertQuantity quantity expressed in toUnit
func ConvertQuantity(quantity float64, fromUnit, toUnit string) float64 {
	return quantity / Factor(fromUnit, toUnit)
}
