package parser

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
	"github.com/yourusername/order-desk-bot/internal/domain/entity"
)

func buildXLSX(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			name, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatalf("CoordinatesToCellName: %v", err)
			}
			if err := f.SetCellValue(sheet, name, v); err != nil {
				t.Fatalf("SetCellValue: %v", err)
			}
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf.Bytes()
}

func TestParseCatalog_XLSX(t *testing.T) {
	data := buildXLSX(t, [][]interface{}{
		{},
		{"Producto", "Precio", "Unidad", "Proveedor", "Ubicación"},
		{"Flour", 12.5, "kg", "Acme", "A1"},
		{"", 3, "kg", "Acme", ""},
		{"Milk", "bad", "l", "", ""},
	})

	entries, err := NewTableParser().ParseCatalog(context.Background(), data, "catalog.xlsx")
	if err != nil {
		t.Fatalf("ParseCatalog: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	want := entity.CatalogEntry{Name: "Flour", Price: 12.5, Unit: "kg", Supplier: "Acme", Location: "A1"}
	if entries[0] != want {
		t.Fatalf("entries[0] = %+v, want %+v", entries[0], want)
	}
	if entries[1].Name != "Milk" || entries[1].Price != 0 {
		t.Fatalf("entries[1] = %+v, want Milk with price 0", entries[1])
	}
}

func TestParseOrders_CSV(t *testing.T) {
	data := []byte("\xef\xbb\xbfProduct,Requested Quantity,Unit,Unit Price,Total,Supplier\n" +
		"Flour,300,g,12.5,3.75,Acme\n" +
		"\"Olive oil\",\"1,5\",l,,,\n" +
		",,,,,\n")

	lines, err := NewTableParser().ParseOrders(context.Background(), data, "orders.csv")
	if err != nil {
		t.Fatalf("ParseOrders: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("len(lines) = %d, want 2", len(lines))
	}
	if lines[0].Product != "Flour" || lines[0].Quantity != 300 || lines[0].Unit != "g" || lines[0].Supplier != "Acme" {
		t.Fatalf("lines[0] = %+v", lines[0])
	}
	if lines[0].UnitPrice != 0 || lines[0].Total != 0 {
		t.Fatalf("source price/total should be ignored, got %+v", lines[0])
	}
	if lines[1].Product != "Olive oil" || lines[1].Quantity != 1.5 {
		t.Fatalf("lines[1] = %+v", lines[1])
	}
}

func TestParseOrders_MissingColumns(t *testing.T) {
	data := []byte("Product,Unit\nFlour,kg\n")

	_, err := NewTableParser().ParseOrders(context.Background(), data, "orders.csv")
	var mce *entity.MissingColumnsError
	if !errors.As(err, &mce) {
		t.Fatalf("err = %v, want MissingColumnsError", err)
	}
	if mce.Table != entity.TableOrders {
		t.Fatalf("Table = %q, want %q", mce.Table, entity.TableOrders)
	}
	want := []string{"Requested Quantity", "Supplier"}
	if len(mce.Columns) != len(want) || mce.Columns[0] != want[0] || mce.Columns[1] != want[1] {
		t.Fatalf("Columns = %v, want %v", mce.Columns, want)
	}
}

func TestParseCatalog_EmptyAndUnsupported(t *testing.T) {
	p := NewTableParser()
	ctx := context.Background()

	if _, err := p.ParseCatalog(ctx, []byte("\n\n"), "catalog.csv"); !errors.Is(err, entity.ErrEmptyTable) {
		t.Fatalf("empty source err = %v, want ErrEmptyTable", err)
	}
	if _, err := p.ParseCatalog(ctx, []byte("Product,Price,Unit\n"), "catalog.csv"); !errors.Is(err, entity.ErrEmptyTable) {
		t.Fatalf("header-only err = %v, want ErrEmptyTable", err)
	}
	if _, err := p.ParseCatalog(ctx, []byte("x"), "catalog.pdf"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("pdf err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestParseCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.csv")
	if err := os.WriteFile(path, []byte("Name,Price,Base Unit,Unit\nSugar,2,kg,kg\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	entries, err := NewTableParser().ParseCatalogFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ParseCatalogFile: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "Sugar" || entries[0].Price != 2 || entries[0].Unit != "kg" {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestMapColumns(t *testing.T) {
	cm := mapColumns([]string{"Product", "Base Unit", "Unit", "Unit Price", "Total", "Requested Quantity"})
	tests := map[string]int{
		colProduct:  0,
		colUnit:     2,
		colPrice:    3,
		colTotal:    4,
		colQuantity: 5,
	}
	for key, want := range tests {
		if got, ok := cm[key]; !ok || got != want {
			t.Errorf("mapColumns[%q] = %d (%v), want %d", key, got, ok, want)
		}
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"12.5", 12.5, false},
		{"$ 1,500", 1500, false},
		{"1,5", 1.5, false},
		{"1,500.25", 1500.25, false},
		{"15 000 so'm", 15000, false},
		{"€3", 3, false},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := parseNumber(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("parseNumber(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if !tt.wantErr && got != tt.want {
			t.Fatalf("parseNumber(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsSupportedFile(t *testing.T) {
	for name, want := range map[string]bool{"a.xlsx": true, "A.XLSM": true, "a.csv": true, "a.xls": false, "a": false} {
		if got := IsSupportedFile(name); got != want {
			t.Errorf("IsSupportedFile(%q) = %v, want %v", name, got, want)
		}
	}
}
