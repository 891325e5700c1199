package pricing

import (
	"math"
	"strings"

	"github.com/yourusername/order-desk-bot/internal/domain/entity"
)

// IndexEntry catalog attributes the reconciler needs
type IndexEntry struct {
	Price    float64
	BaseUnit string
	Supplier string
	Location string
}

// CatalogIndex product name -> catalog attributes, built from one snapshot
type CatalogIndex struct {
	entries map[string]IndexEntry
	order   []string
}

// BuildIndex builds the lookup. Later rows override earlier rows with the
// same name; missing prices become 0 and missing units DefaultUnit.
func BuildIndex(entries []entity.CatalogEntry) *CatalogIndex {
	ix := &CatalogIndex{
		entries: make(map[string]IndexEntry, len(entries)),
		order:   make([]string, 0, len(entries)),
	}
	for _, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			continue
		}
		if _, seen := ix.entries[name]; !seen {
			ix.order = append(ix.order, name)
		}
		ix.entries[name] = IndexEntry{
			Price:    catalogPrice(e.Price),
			BaseUnit: baseUnit(e.Unit),
			Supplier: strings.TrimSpace(e.Supplier),
			Location: strings.TrimSpace(e.Location),
		}
	}
	return ix
}

// Lookup catalog attributes of product
func (ix *CatalogIndex) Lookup(product string) (IndexEntry, bool) {
	if ix == nil {
		return IndexEntry{}, false
	}
	e, ok := ix.entries[strings.TrimSpace(product)]
	return e, ok
}

// Has product is in the catalog
func (ix *CatalogIndex) Has(product string) bool {
	_, ok := ix.Lookup(product)
	return ok
}

// Products names in first-appearance order
func (ix *CatalogIndex) Products() []string {
	if ix == nil {
		return nil
	}
	return append([]string(nil), ix.order...)
}

// Len number of distinct products
func (ix *CatalogIndex) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.order)
}

func catalogPrice(p float64) float64 {
	if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
		return 0
	}
	return p
}

func baseUnit(unit string) string {
	if u := NormalizeUnit(unit); u != "" {
		return u
	}
	return DefaultUnit
}
