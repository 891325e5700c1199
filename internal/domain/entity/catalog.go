package entity

import "time"

// CatalogEntry catalog row: authoritative price and base unit of a product
type CatalogEntry struct {
	Name     string
	Price    float64 // base unit price, 0 means "not set yet"
	Unit     string  // base unit the price is quoted in
	Supplier string
	Location string
}

// Catalog catalog snapshot loaded wholesale from a source
type Catalog struct {
	Entries   []CatalogEntry
	UpdatedAt time.Time
	Source    string // file name the snapshot came from
}
