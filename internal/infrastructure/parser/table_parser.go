package parser

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"github.com/yourusername/order-desk-bot/internal/domain/entity"
	"github.com/yourusername/order-desk-bot/internal/domain/repository"
	"github.com/yourusername/order-desk-bot/pkg/logger"
)

// ustun kalitlari
const (
	colProduct  = "product"
	colPrice    = "price"
	colUnit     = "unit"
	colQuantity = "quantity"
	colSupplier = "supplier"
	colLocation = "location"
	colTotal    = "total"
	colIgnored  = "ignored"
)

var columnTitles = map[string]string{
	colProduct:  "Product",
	colPrice:    "Price",
	colUnit:     "Unit",
	colQuantity: "Requested Quantity",
	colSupplier: "Supplier",
	colLocation: "Location",
}

var (
	catalogRequired = []string{colProduct, colPrice, colUnit}
	ordersRequired  = []string{colProduct, colQuantity, colUnit, colSupplier}
)

// ErrUnsupportedFormat fayl turi qo'llab-quvvatlanmaydi
var ErrUnsupportedFormat = errors.New("unsupported table format (use .xlsx, .xlsm or .csv)")

// IsSupportedFile fayl kengaytmasi o'qiladimi
func IsSupportedFile(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm", ".csv":
		return true
	}
	return false
}

type tableParser struct{}

// NewTableParser yangi jadval parser yaratish
func NewTableParser() repository.TableParser {
	return &tableParser{}
}

// ParseCatalogFile fayldan katalogni o'qish
func (p *tableParser) ParseCatalogFile(ctx context.Context, path string) ([]entity.CatalogEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return p.ParseCatalog(ctx, data, filepath.Base(path))
}

// ParseOrdersFile fayldan buyurtmalarni o'qish
func (p *tableParser) ParseOrdersFile(ctx context.Context, path string) ([]entity.OrderLine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read orders file: %w", err)
	}
	return p.ParseOrders(ctx, data, filepath.Base(path))
}

// ParseCatalog katalog jadvalini o'qish
func (p *tableParser) ParseCatalog(ctx context.Context, data []byte, filename string) ([]entity.CatalogEntry, error) {
	header, rows, err := readTable(data, filename)
	if err != nil {
		return nil, err
	}
	columnMap, err := requireColumns(entity.TableCatalog, header, catalogRequired)
	if err != nil {
		return nil, err
	}

	var entries []entity.CatalogEntry
	for i, row := range rows {
		if isEmptyRow(row) {
			continue
		}
		name := cell(row, columnMap, colProduct)
		if name == "" {
			logger.WarnLogger.Printf("⚠️ Catalog row %d: product name bo'sh - skipping", i+2)
			continue
		}

		entry := entity.CatalogEntry{
			Name:     name,
			Unit:     cell(row, columnMap, colUnit),
			Supplier: cell(row, columnMap, colSupplier),
			Location: cell(row, columnMap, colLocation),
		}
		if raw := cell(row, columnMap, colPrice); raw != "" {
			price, err := parseNumber(raw)
			if err != nil {
				logger.WarnLogger.Printf("⚠️ Catalog row %d: invalid price '%s' - using 0", i+2, raw)
			} else {
				entry.Price = price
			}
		}
		entries = append(entries, entry)
	}

	logger.InfoLogger.Printf("📦 Catalog parsed from %s: %d rows", filename, len(entries))
	if len(entries) == 0 {
		return nil, fmt.Errorf("%s: %w", entity.TableCatalog, entity.ErrEmptyTable)
	}
	return entries, nil
}

// ParseOrders buyurtmalar jadvalini o'qish
func (p *tableParser) ParseOrders(ctx context.Context, data []byte, filename string) ([]entity.OrderLine, error) {
	header, rows, err := readTable(data, filename)
	if err != nil {
		return nil, err
	}
	columnMap, err := requireColumns(entity.TableOrders, header, ordersRequired)
	if err != nil {
		return nil, err
	}

	var lines []entity.OrderLine
	for i, row := range rows {
		if isEmptyRow(row) {
			continue
		}
		line := entity.OrderLine{
			Product:  cell(row, columnMap, colProduct),
			Unit:     cell(row, columnMap, colUnit),
			Supplier: cell(row, columnMap, colSupplier),
		}
		if raw := cell(row, columnMap, colQuantity); raw != "" {
			qty, err := parseNumber(raw)
			if err != nil {
				logger.WarnLogger.Printf("⚠️ Orders row %d: invalid quantity '%s' - using 0", i+2, raw)
			} else {
				line.Quantity = qty
			}
		}
		lines = append(lines, line)
	}

	logger.InfoLogger.Printf("🧾 Orders parsed from %s: %d rows", filename, len(lines))
	if len(lines) == 0 {
		return nil, fmt.Errorf("%s: %w", entity.TableOrders, entity.ErrEmptyTable)
	}
	return lines, nil
}

// readTable fayl turiga qarab header va data qatorlarini qaytaradi
func readTable(data []byte, filename string) ([]string, [][]string, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		rows, err = readExcelRows(data)
	case ".csv":
		rows, err = readCSVRows(data)
	default:
		return nil, nil, fmt.Errorf("%s: %w", filename, ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, nil, err
	}

	// Bo'sh qatorlarni header dan oldin tashlab yuborish
	start := 0
	for start < len(rows) && isEmptyRow(rows[start]) {
		start++
	}
	if start >= len(rows) {
		return nil, nil, entity.ErrEmptyTable
	}
	return rows[start], rows[start+1:], nil
}

func readExcelRows(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open excel from bytes: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excel file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

func readCSVRows(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

// requireColumns header dan column mapping yaratib, majburiy ustunlarni tekshiradi
func requireColumns(table entity.TableKind, header []string, required []string) (map[string]int, error) {
	columnMap := mapColumns(header)
	var missing []string
	for _, key := range required {
		if _, ok := columnMap[key]; !ok {
			missing = append(missing, columnTitles[key])
		}
	}
	if len(missing) > 0 {
		return nil, &entity.MissingColumnsError{Table: table, Columns: missing}
	}
	return columnMap, nil
}

// mapColumns header qatoridan column mapping yaratish. Birinchi mos ustun yutadi.
func mapColumns(header []string) map[string]int {
	columnMap := make(map[string]int)
	for i, col := range header {
		key := classifyColumn(col)
		if key == "" || key == colIgnored {
			continue
		}
		if _, taken := columnMap[key]; !taken {
			columnMap[key] = i
		}
	}
	return columnMap
}

func classifyColumn(col string) string {
	name := strings.ToLower(strings.TrimSpace(col))
	switch {
	case name == "":
		return ""
	// "Base Unit" bizning eksportimizda emas, lekin "unit" bilan aralashmasin
	case contains(name, "base unit", "unidad base"):
		return colIgnored
	case contains(name, "quantity", "qty", "cantidad", "miqdor", "soni"):
		return colQuantity
	case contains(name, "price", "precio", "narx", "cost"):
		return colPrice
	case contains(name, "total"):
		return colTotal
	case contains(name, "unit", "unidad", "uom", "birlik"):
		return colUnit
	case contains(name, "supplier", "proveedor", "vendor", "yetkazib"):
		return colSupplier
	case contains(name, "location", "ubicación", "ubicacion", "manzil"):
		return colLocation
	case contains(name, "product", "producto", "name", "nombre", "mahsulot", "item"):
		return colProduct
	default:
		return ""
	}
}

// contains tekshirish uchun helper
func contains(str string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(str, keyword) {
			return true
		}
	}
	return false
}

func cell(row []string, columnMap map[string]int, key string) string {
	idx, ok := columnMap[key]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// isEmptyRow qator bo'sh yoki yo'qligini tekshirish
func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseNumber son/narxni parse qilish (valyuta belgilari va ajratgichlar bilan)
func parseNumber(raw string) (float64, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return 0, fmt.Errorf("empty number")
	}

	for _, sym := range []string{"$", "€", "£", "usd", "eur", "so'm", "sum", "uzs", " ", " "} {
		s = strings.ReplaceAll(s, sym, "")
	}

	// "1,5" -> 1.5, "1,500" va "1,500.25" -> minglik ajratgich
	if strings.Contains(s, ",") {
		last := s[strings.LastIndex(s, ",")+1:]
		if !strings.Contains(s, ".") && strings.Count(s, ",") == 1 && len(last) != 3 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number format: %s", raw)
	}
	return v, nil
}
