package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/order-desk-bot/internal/domain/entity"
	"github.com/yourusername/order-desk-bot/internal/domain/repository"
	"github.com/yourusername/order-desk-bot/internal/pricing"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	sheetName = "Pedidos"
)

// Header eksport ustunlari tartibi
var Header = []string{"Product", "Requested Quantity", "Unit", "Unit Price", "Total", "Supplier"}

// New format bo'yicha exporter tanlash
func New(format string) (repository.TableExporter, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), ".")) {
	case "", FormatCSV:
		return NewCSVExporter(), nil
	case FormatXLSX:
		return NewXLSXExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

type csvExporter struct{}

// NewCSVExporter CSV exporter yaratish
func NewCSVExporter() repository.TableExporter {
	return &csvExporter{}
}

func (e *csvExporter) Extension() string { return FormatCSV }

// Export faqat aktiv qatorlarni yozadi; aktiv qator bo'lmasa faqat header
func (e *csvExporter) Export(lines []entity.OrderLine) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(Header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, l := range pricing.ActiveLines(lines) {
		if err := w.Write(rowStrings(l)); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

type xlsxExporter struct{}

// NewXLSXExporter Excel exporter yaratish
func NewXLSXExporter() repository.TableExporter {
	return &xlsxExporter{}
}

func (e *xlsxExporter) Extension() string { return FormatXLSX }

func (e *xlsxExporter) Export(lines []entity.OrderLine) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetName(sheet, sheetName); err != nil {
		return nil, err
	}
	sheet = sheetName

	for i, h := range Header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for i, l := range pricing.ActiveLines(lines) {
		rowIdx := i + 2
		for c, v := range rowValues(l) {
			cell, err := excelize.CoordinatesToCellName(c+1, rowIdx)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// FormatNumber float ni eng qisqa o'nlik ko'rinishda yozish ("45", "3.75")
func FormatNumber(v float64) string {
	return decimal.NewFromFloat(v).String()
}

func rowStrings(l entity.OrderLine) []string {
	return []string{
		l.Product,
		FormatNumber(l.Quantity),
		l.Unit,
		FormatNumber(l.UnitPrice),
		FormatNumber(l.Total),
		l.Supplier,
	}
}

func rowValues(l entity.OrderLine) []interface{} {
	return []interface{}{
		l.Product,
		l.Quantity,
		l.Unit,
		l.UnitPrice,
		l.Total,
		l.Supplier,
	}
}
