package entity

import "time"

// UnknownSupplier supplier used when neither the order nor the catalog names one
const UnknownSupplier = "Unknown"

// PriceSource where an order line's unit price came from
type PriceSource int

const (
	PriceFromCatalog PriceSource = iota
	PriceManual
)

// LineKey identity of an order line inside one table
type LineKey struct {
	Product  string
	Supplier string
}

// OrderLine a single product's request within a session's orders table
type OrderLine struct {
	Product     string      `msgpack:"product"`
	Supplier    string      `msgpack:"supplier"`
	Quantity    float64     `msgpack:"quantity"`
	Unit        string      `msgpack:"unit"` // unit the quantity was requested in
	UnitPrice   float64     `msgpack:"unit_price"`
	BaseUnit    string      `msgpack:"base_unit"` // unit UnitPrice is quoted in
	Total       float64     `msgpack:"total"`     // derived, never taken from input
	PriceSource PriceSource `msgpack:"price_source"`
	Unknown     bool        `msgpack:"unknown"` // product missing from the catalog
}

// Key line identity
func (l OrderLine) Key() LineKey {
	return LineKey{Product: l.Product, Supplier: l.Supplier}
}

// IsActive line counts for summaries and exports
func (l OrderLine) IsActive() bool {
	return l.Quantity > 0
}

// OrderTable orders table owned by one session
type OrderTable struct {
	SessionID string      `msgpack:"session_id"`
	Lines     []OrderLine `msgpack:"lines"`
	UpdatedAt time.Time   `msgpack:"updated_at"`
}
