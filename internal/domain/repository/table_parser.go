package repository

import (
	"context"

	"github.com/yourusername/order-desk-bot/internal/domain/entity"
)

// TableParser katalog va buyurtma jadvallarini (xlsx/csv) o'qish uchun interface
type TableParser interface {
	// ParseCatalog katalog jadvalini o'qish
	ParseCatalog(ctx context.Context, data []byte, filename string) ([]entity.CatalogEntry, error)

	// ParseOrders buyurtmalar jadvalini o'qish (xom qatorlar, hali narxlanmagan)
	ParseOrders(ctx context.Context, data []byte, filename string) ([]entity.OrderLine, error)

	// ParseCatalogFile fayldan katalogni o'qish
	ParseCatalogFile(ctx context.Context, path string) ([]entity.CatalogEntry, error)

	// ParseOrdersFile fayldan buyurtmalarni o'qish
	ParseOrdersFile(ctx context.Context, path string) ([]entity.OrderLine, error)
}
