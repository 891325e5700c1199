package repository

import (
	"context"

	"github.com/yourusername/order-desk-bot/internal/domain/entity"
)

// CatalogRepository katalog bilan ishlash uchun interface
type CatalogRepository interface {
	// SaveEntry mahsulotni qo'shish yoki yangilash (nom bo'yicha)
	SaveEntry(ctx context.Context, entry entity.CatalogEntry) error

	// RemoveEntry mahsulotni katalogdan o'chirish
	RemoveEntry(ctx context.Context, name string) error

	// GetByName nom bo'yicha mahsulotni olish
	GetByName(ctx context.Context, name string) (*entity.CatalogEntry, error)

	// Search mahsulot qidirish
	Search(ctx context.Context, query string) ([]entity.CatalogEntry, error)

	// GetAll barcha mahsulotlar (katalogdagi tartibda)
	GetAll(ctx context.Context) ([]entity.CatalogEntry, error)

	// UpdateCatalog butun katalogni almashtirish
	UpdateCatalog(ctx context.Context, catalog entity.Catalog) error

	// GetCatalog katalogni olish
	GetCatalog(ctx context.Context) (*entity.Catalog, error)

	// Clear katalogni tozalash
	Clear(ctx context.Context) error
}
