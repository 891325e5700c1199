package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yourusername/order-desk-bot/internal/access"
	"github.com/yourusername/order-desk-bot/internal/domain/entity"
	"github.com/yourusername/order-desk-bot/internal/domain/repository"
	"github.com/yourusername/order-desk-bot/internal/pricing"
)

// CatalogUseCase katalog bilan bog'liq business logic
type CatalogUseCase interface {
	// Search mahsulot qidirish
	Search(ctx context.Context, query string) ([]entity.CatalogEntry, error)

	// GetAll barcha mahsulotlar (katalog tartibida)
	GetAll(ctx context.Context) ([]entity.CatalogEntry, error)

	// GetCatalogAsText katalogni yetkazib beruvchilar bo'yicha text ko'rinishida
	GetCatalogAsText(ctx context.Context) (string, error)

	// HasProducts mahsulotlar borligini tekshirish
	HasProducts(ctx context.Context) (bool, error)

	// Index narxlash uchun joriy katalog indeksi
	Index(ctx context.Context) (*pricing.CatalogIndex, error)

	// UpdatePrice katalog narxini o'zgartirish (catalog_edit ruxsati kerak)
	UpdatePrice(ctx context.Context, token *access.Token, name string, price float64) (*entity.CatalogEntry, error)

	// AddItem katalogga mahsulot qo'shish yoki yangilash (catalog_edit ruxsati kerak)
	AddItem(ctx context.Context, token *access.Token, entry entity.CatalogEntry) error

	// RemoveItem mahsulotni katalogdan o'chirish (catalog_edit ruxsati kerak)
	RemoveItem(ctx context.Context, token *access.Token, name string) error
}

type catalogUseCase struct {
	catalogRepo repository.CatalogRepository
	validator   pricing.Validator
	now         func() time.Time
}

// NewCatalogUseCase yangi CatalogUseCase yaratish
func NewCatalogUseCase(catalogRepo repository.CatalogRepository, validator pricing.Validator) CatalogUseCase {
	return &catalogUseCase{
		catalogRepo: catalogRepo,
		validator:   validator,
		now:         time.Now,
	}
}

// Search mahsulot qidirish
func (u *catalogUseCase) Search(ctx context.Context, query string) ([]entity.CatalogEntry, error) {
	return u.catalogRepo.Search(ctx, query)
}

// GetAll barcha mahsulotlarni olish
func (u *catalogUseCase) GetAll(ctx context.Context) ([]entity.CatalogEntry, error) {
	return u.catalogRepo.GetAll(ctx)
}

// GetCatalogAsText katalogni text formatda olish
func (u *catalogUseCase) GetCatalogAsText(ctx context.Context) (string, error) {
	entries, err := u.catalogRepo.GetAll(ctx)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", ErrNoCatalog
	}

	// Yetkazib beruvchilar bo'yicha guruhlash (birinchi uchragan tartibda)
	var suppliers []string
	bySupplier := make(map[string][]entity.CatalogEntry)
	for _, e := range entries {
		supplier := strings.TrimSpace(e.Supplier)
		if supplier == "" {
			supplier = entity.UnknownSupplier
		}
		if _, seen := bySupplier[supplier]; !seen {
			suppliers = append(suppliers, supplier)
		}
		bySupplier[supplier] = append(bySupplier[supplier], e)
	}

	var sb strings.Builder
	sb.WriteString("=== KATALOG ===\n\n")
	for _, supplier := range suppliers {
		sb.WriteString(fmt.Sprintf("🏭 %s:\n", supplier))
		for i, e := range bySupplier[supplier] {
			unit := pricing.NormalizeUnit(e.Unit)
			if unit == "" {
				unit = pricing.DefaultUnit
			}
			sb.WriteString(fmt.Sprintf("%d. %s - %s / %s", i+1, e.Name, formatMoney(e.Price), unit))
			if e.Location != "" {
				sb.WriteString(fmt.Sprintf(" (📍 %s)", e.Location))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

// HasProducts mahsulotlar borligini tekshirish
func (u *catalogUseCase) HasProducts(ctx context.Context) (bool, error) {
	entries, err := u.catalogRepo.GetAll(ctx)
	if err != nil {
		return false, err
	}
	return len(entries) > 0, nil
}

// Index joriy katalogdan indeks qurish
func (u *catalogUseCase) Index(ctx context.Context) (*pricing.CatalogIndex, error) {
	entries, err := u.catalogRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return pricing.BuildIndex(entries), nil
}

// UpdatePrice katalog narxini o'zgartirish
func (u *catalogUseCase) UpdatePrice(ctx context.Context, token *access.Token, name string, price float64) (*entity.CatalogEntry, error) {
	if !token.Allows(access.PermissionCatalogEdit, u.now()) {
		return nil, ErrNotAdmin
	}
	entry, err := u.catalogRepo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, strings.TrimSpace(name))
	}

	entry.Price = u.validator.EnteredPrice(price)
	if err := u.catalogRepo.SaveEntry(ctx, *entry); err != nil {
		return nil, fmt.Errorf("failed to save catalog entry: %w", err)
	}
	return entry, nil
}

// AddItem katalogga mahsulot qo'shish
func (u *catalogUseCase) AddItem(ctx context.Context, token *access.Token, entry entity.CatalogEntry) error {
	if !token.Allows(access.PermissionCatalogEdit, u.now()) {
		return ErrNotAdmin
	}
	entry.Name = strings.TrimSpace(entry.Name)
	if entry.Name == "" {
		return errors.New("product name is required")
	}
	entry.Price = u.validator.EnteredPrice(entry.Price)
	if entry.Unit = pricing.NormalizeUnit(entry.Unit); entry.Unit == "" {
		entry.Unit = pricing.DefaultUnit
	}
	return u.catalogRepo.SaveEntry(ctx, entry)
}

// RemoveItem mahsulotni katalogdan o'chirish
func (u *catalogUseCase) RemoveItem(ctx context.Context, token *access.Token, name string) error {
	if !token.Allows(access.PermissionCatalogEdit, u.now()) {
		return ErrNotAdmin
	}
	if err := u.catalogRepo.RemoveEntry(ctx, name); err != nil {
		return fmt.Errorf("%w: %s", ErrProductNotFound, strings.TrimSpace(name))
	}
	return nil
}
