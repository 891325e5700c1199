package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/yourusername/order-desk-bot/internal/domain/entity"
)

// SupplierSummary one supplier's slice of the orders table
type SupplierSummary struct {
	Supplier    string
	Total       decimal.Decimal // sum of active line totals
	ActiveLines int
	Lines       []entity.OrderLine // every line, active or not
}

// GroupBySupplier groups lines by exact supplier name, suppliers in
// first-appearance order. Zero-quantity lines are listed but not summed or counted.
func GroupBySupplier(lines []entity.OrderLine) []SupplierSummary {
	var groups []SupplierSummary
	pos := make(map[string]int)
	for _, l := range lines {
		i, ok := pos[l.Supplier]
		if !ok {
			i = len(groups)
			pos[l.Supplier] = i
			groups = append(groups, SupplierSummary{Supplier: l.Supplier, Total: decimal.Zero})
		}
		g := &groups[i]
		g.Lines = append(g.Lines, l)
		if l.IsActive() {
			g.ActiveLines++
			g.Total = g.Total.Add(decimal.NewFromFloat(l.Total))
		}
	}
	return groups
}

// ActiveLines lines with a requested quantity above zero
func ActiveLines(lines []entity.OrderLine) []entity.OrderLine {
	out := make([]entity.OrderLine, 0, len(lines))
	for _, l := range lines {
		if l.IsActive() {
			out = append(out, l)
		}
	}
	return out
}

// GrandTotal sum of active line totals
func GrandTotal(lines []entity.OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		if l.IsActive() {
			total = total.Add(decimal.NewFromFloat(l.Total))
		}
	}
	return total
}
