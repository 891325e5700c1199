package pricing

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/yourusername/order-desk-bot/internal/access"
	"github.com/yourusername/order-desk-bot/internal/domain/entity"
)

var (
	ErrOverrideDenied = errors.New("price override not permitted")
	ErrLineNotFound   = errors.New("order line not found")
	ErrAmbiguousLine  = errors.New("product is ordered from several suppliers, name the supplier")
)

// Edit user change to one order line. Nil fields are left as they are.
type Edit struct {
	Product    string
	Supplier   string // may be empty when the product appears once
	Quantity   *float64
	Unit       *string
	NewProduct *string // must reference the catalog
}

// RejectedEdit edit that was not applied and why
type RejectedEdit struct {
	Edit   Edit
	Reason string
}

// Result output of one reconciliation pass
type Result struct {
	Lines    []entity.OrderLine
	Unknown  []string // products missing from the catalog, first-appearance order
	Rejected []RejectedEdit
}

// PriceOverride administrator price for one line, independent of the catalog
type PriceOverride struct {
	Product  string
	Supplier string
	Price    float64
	Unit     string // base unit the price is quoted in, optional
}

// Reconciler merges catalog attributes into order lines and recomputes totals
type Reconciler struct {
	validator Validator
}

// NewReconciler reconciler using the given validator
func NewReconciler(v Validator) *Reconciler {
	return &Reconciler{validator: v}
}

// Reconcile applies edits in order, then prices every line against the index.
// The input slice is never modified.
func (r *Reconciler) Reconcile(ix *CatalogIndex, lines []entity.OrderLine, edits []Edit) Result {
	out := cloneLines(lines)

	var rejected []RejectedEdit
	for _, e := range edits {
		if err := applyEdit(ix, out, e); err != nil {
			rejected = append(rejected, RejectedEdit{Edit: e, Reason: err.Error()})
		}
	}

	var unknown []string
	seen := make(map[string]struct{})
	for i := range out {
		out[i] = r.ReconcileLine(ix, out[i])
		if out[i].Unknown {
			if _, dup := seen[out[i].Product]; !dup {
				seen[out[i].Product] = struct{}{}
				unknown = append(unknown, out[i].Product)
			}
		}
	}

	return Result{Lines: out, Unknown: unknown, Rejected: rejected}
}

// ReconcileLine prices a single line.
func (r *Reconciler) ReconcileLine(ix *CatalogIndex, line entity.OrderLine) entity.OrderLine {
	line.Product = strings.TrimSpace(line.Product)

	entry, ok := ix.Lookup(line.Product)
	line.Unknown = !ok
	if !ok {
		// an override does not outlive the catalog entry it priced
		entry = IndexEntry{Price: 0, BaseUnit: DefaultUnit}
		line.PriceSource = entity.PriceFromCatalog
	}

	line.Quantity = r.validator.Quantity(line.Quantity)

	if line.PriceSource == entity.PriceManual {
		line.UnitPrice = r.validator.EnteredPrice(line.UnitPrice)
		if line.BaseUnit = NormalizeUnit(line.BaseUnit); line.BaseUnit == "" {
			line.BaseUnit = entry.BaseUnit
		}
	} else {
		line.UnitPrice = r.validator.CatalogPrice(entry.Price)
		line.BaseUnit = entry.BaseUnit
	}

	if line.Unit = NormalizeUnit(line.Unit); line.Unit == "" {
		line.Unit = line.BaseUnit
	}
	line.Supplier = resolveSupplier(line.Supplier, entry.Supplier)
	line.Total = LineTotal(line.Quantity, Factor(line.Unit, line.BaseUnit), line.UnitPrice)
	return line
}

// OverridePrice replaces one line's unit price (and optionally its base unit)
// and recomputes only that line. Without a token allowing price overrides the
// lines come back unchanged together with ErrOverrideDenied.
func (r *Reconciler) OverridePrice(lines []entity.OrderLine, token *access.Token, o PriceOverride, now time.Time) ([]entity.OrderLine, error) {
	if !token.Allows(access.PermissionPriceOverride, now) {
		return lines, ErrOverrideDenied
	}

	idx, err := findLine(lines, o.Product, o.Supplier)
	if err != nil {
		return lines, err
	}

	out := cloneLines(lines)
	line := &out[idx]
	line.UnitPrice = r.validator.EnteredPrice(o.Price)
	if u := NormalizeUnit(o.Unit); u != "" {
		line.BaseUnit = u
	} else if line.BaseUnit == "" {
		line.BaseUnit = DefaultUnit
	}
	if line.Unit == "" {
		line.Unit = line.BaseUnit
	}
	line.PriceSource = entity.PriceManual
	line.Total = LineTotal(r.validator.Quantity(line.Quantity), Factor(line.Unit, line.BaseUnit), line.UnitPrice)
	return out, nil
}

// ClearQuantities zeroes every quantity and total; prices and units stay.
func ClearQuantities(lines []entity.OrderLine) []entity.OrderLine {
	out := cloneLines(lines)
	for i := range out {
		out[i].Quantity = 0
		out[i].Total = 0
	}
	return out
}

// LinesFromOrders turns raw order rows into lines keyed by (product, supplier).
// Rows without a product are dropped. Duplicate keys keep the first position
// and the last row's values. Prices and totals from the source are ignored.
func LinesFromOrders(ix *CatalogIndex, raw []entity.OrderLine) []entity.OrderLine {
	out := make([]entity.OrderLine, 0, len(raw))
	pos := make(map[entity.LineKey]int, len(raw))
	for _, row := range raw {
		product := strings.TrimSpace(row.Product)
		if product == "" {
			continue
		}
		entry, _ := ix.Lookup(product)
		line := entity.OrderLine{
			Product:  product,
			Supplier: resolveSupplier(row.Supplier, entry.Supplier),
			Quantity: row.Quantity,
			Unit:     NormalizeUnit(row.Unit),
		}
		if i, dup := pos[line.Key()]; dup {
			out[i] = line
			continue
		}
		pos[line.Key()] = len(out)
		out = append(out, line)
	}
	return out
}

// SeedLines one zero-quantity line per catalog product
func SeedLines(ix *CatalogIndex) []entity.OrderLine {
	products := ix.Products()
	out := make([]entity.OrderLine, 0, len(products))
	for _, name := range products {
		entry, _ := ix.Lookup(name)
		out = append(out, entity.OrderLine{
			Product:  name,
			Supplier: resolveSupplier("", entry.Supplier),
			Unit:     entry.BaseUnit,
		})
	}
	return out
}

// LineTotal quantity / factor * unitPrice; arithmetic faults give 0
func LineTotal(quantity, factor, unitPrice float64) float64 {
	if factor == 0 {
		return 0
	}
	total := quantity / factor * unitPrice
	if math.IsNaN(total) || math.IsInf(total, 0) {
		return 0
	}
	return total
}

func applyEdit(ix *CatalogIndex, lines []entity.OrderLine, e Edit) error {
	idx, err := findLine(lines, e.Product, e.Supplier)
	if err != nil {
		return err
	}
	line := &lines[idx]

	if e.NewProduct != nil {
		next := strings.TrimSpace(*e.NewProduct)
		if !ix.Has(next) {
			return errors.New("product " + next + " is not in the catalog")
		}
		if next != line.Product {
			if _, err := findLine(lines, next, line.Supplier); err == nil {
				return errors.New("product " + next + " is already ordered from " + line.Supplier)
			}
			line.Product = next
			line.PriceSource = entity.PriceFromCatalog
			line.UnitPrice = 0
			line.BaseUnit = ""
		}
	}
	if e.Quantity != nil {
		line.Quantity = *e.Quantity
	}
	if e.Unit != nil {
		line.Unit = NormalizeUnit(*e.Unit)
	}
	return nil
}

func findLine(lines []entity.OrderLine, product, supplier string) (int, error) {
	product = strings.TrimSpace(product)
	supplier = strings.TrimSpace(supplier)

	found := -1
	for i, l := range lines {
		if strings.TrimSpace(l.Product) != product {
			continue
		}
		if supplier != "" {
			if resolveSupplier(l.Supplier, "") == supplier {
				return i, nil
			}
			continue
		}
		if found >= 0 {
			return -1, ErrAmbiguousLine
		}
		found = i
	}
	if found < 0 {
		return -1, ErrLineNotFound
	}
	return found, nil
}

func resolveSupplier(lineSupplier, catalogSupplier string) string {
	if s := strings.TrimSpace(lineSupplier); s != "" {
		return s
	}
	if s := strings.TrimSpace(catalogSupplier); s != "" {
		return s
	}
	return entity.UnknownSupplier
}

func cloneLines(lines []entity.OrderLine) []entity.OrderLine {
	return append([]entity.OrderLine(nil), lines...)
}
