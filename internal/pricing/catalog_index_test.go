package pricing

import (
	"math"
	"reflect"
	"testing"

	"github.com/yourusername/order-desk-bot/internal/domain/entity"
)

func TestBuildIndex_LastWriteWins(t *testing.T) {
	ix := BuildIndex([]entity.CatalogEntry{
		{Name: "Coffee", Price: 120, Unit: "kg"},
		{Name: "Milk", Price: 2, Unit: "l"},
		{Name: "Coffee", Price: 150, Unit: "kg", Supplier: "Roastery"},
	})

	got, ok := ix.Lookup("Coffee")
	if !ok {
		t.Fatalf("Coffee missing from index")
	}
	want := IndexEntry{Price: 150, BaseUnit: "kg", Supplier: "Roastery"}
	if got != want {
		t.Fatalf("Lookup(Coffee) = %+v, want %+v", got, want)
	}
	if !reflect.DeepEqual(ix.Products(), []string{"Coffee", "Milk"}) {
		t.Fatalf("Products() = %v, want [Coffee Milk]", ix.Products())
	}
	if ix.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", ix.Len())
	}
}

func TestBuildIndex_Defaults(t *testing.T) {
	ix := BuildIndex([]entity.CatalogEntry{
		{Name: "Napkins"},
		{Name: "Broken", Price: math.NaN(), Unit: "  "},
		{Name: "Refund", Price: -5, Unit: "piece"},
		{Name: "   ", Price: 10},
	})

	tests := []struct {
		name string
		want IndexEntry
	}{
		{"Napkins", IndexEntry{Price: 0, BaseUnit: DefaultUnit}},
		{"Broken", IndexEntry{Price: 0, BaseUnit: DefaultUnit}},
		{"Refund", IndexEntry{Price: 0, BaseUnit: "piece"}},
	}
	for _, tt := range tests {
		got, ok := ix.Lookup(tt.name)
		if !ok {
			t.Errorf("%s missing from index", tt.name)
			continue
		}
		if got != tt.want {
			t.Errorf("Lookup(%s) = %+v, want %+v", tt.name, got, tt.want)
		}
	}
	if ix.Len() != 3 {
		t.Fatalf("blank names should be skipped, Len() = %d", ix.Len())
	}
}

func TestCatalogIndex_NilSafe(t *testing.T) {
	var ix *CatalogIndex
	if _, ok := ix.Lookup("x"); ok {
		t.Fatalf("nil index found a product")
	}
	if ix.Len() != 0 || ix.Products() != nil {
		t.Fatalf("nil index should be empty")
	}
}
