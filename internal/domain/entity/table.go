package entity

import (
	"errors"
	"fmt"
	"strings"
)

// TableKind which tabular source a load refers to
type TableKind string

const (
	TableCatalog TableKind = "catalog"
	TableOrders  TableKind = "orders"
)

// ErrEmptyTable source has no header or no data rows
var ErrEmptyTable = errors.New("table is empty")

// MissingColumnsError source lacks required columns; the load must stop
type MissingColumnsError struct {
	Table   TableKind
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%s table is missing required columns: %s", e.Table, strings.Join(e.Columns, ", "))
}
