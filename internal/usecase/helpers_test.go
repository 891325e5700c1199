package usecase

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/yourusername/order-desk-bot/internal/access"
	"github.com/yourusername/order-desk-bot/internal/domain/entity"
	"github.com/yourusername/order-desk-bot/internal/domain/repository"
	"github.com/yourusername/order-desk-bot/internal/infrastructure/export"
	"github.com/yourusername/order-desk-bot/internal/infrastructure/storage"
	"github.com/yourusername/order-desk-bot/internal/pricing"
)

const testPassword = "test-credential"

// stubParser fayl o'qimasdan oldindan berilgan qatorlarni qaytaradi
type stubParser struct {
	catalog []entity.CatalogEntry
	orders  []entity.OrderLine
	err     error
}

func (s *stubParser) ParseCatalog(ctx context.Context, data []byte, filename string) ([]entity.CatalogEntry, error) {
	return s.catalog, s.err
}

func (s *stubParser) ParseOrders(ctx context.Context, data []byte, filename string) ([]entity.OrderLine, error) {
	return s.orders, s.err
}

func (s *stubParser) ParseCatalogFile(ctx context.Context, path string) ([]entity.CatalogEntry, error) {
	return s.catalog, s.err
}

func (s *stubParser) ParseOrdersFile(ctx context.Context, path string) ([]entity.OrderLine, error) {
	return s.orders, s.err
}

type fixture struct {
	catalogRepo repository.CatalogRepository
	orderRepo   repository.OrderRepository
	adminRepo   repository.AdminRepository
	parser      *stubParser
	catalog     CatalogUseCase
	orders      OrderUseCase
	admin       AdminUseCase
}

func newFixture(t *testing.T, entries ...entity.CatalogEntry) *fixture {
	t.Helper()
	f := &fixture{
		catalogRepo: storage.NewMemoryCatalogRepository(),
		orderRepo:   storage.NewMemoryOrderRepository(),
		adminRepo:   storage.NewMemoryAdminRepository(time.Hour),
		parser:      &stubParser{},
	}
	if len(entries) > 0 {
		err := f.catalogRepo.UpdateCatalog(context.Background(), entity.Catalog{Entries: entries, Source: "test", UpdatedAt: time.Now()})
		if err != nil {
			t.Fatalf("UpdateCatalog: %v", err)
		}
	}

	validator := pricing.NewValidator(pricing.DefaultPriceFloor)
	f.catalog = NewCatalogUseCase(f.catalogRepo, validator)
	f.orders = NewOrderUseCase(f.orderRepo, f.catalog, pricing.NewReconciler(validator),
		export.NewCSVExporter(), export.NewXLSXExporter())

	issuer, err := access.NewIssuer(testPassword, time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	f.admin = NewAdminUseCase(f.adminRepo, f.catalogRepo, f.parser, f.catalog, f.orders, issuer)
	return f
}

func (f *fixture) login(t *testing.T, userID int64) *access.Token {
	t.Helper()
	tok, ok, err := f.admin.Login(context.Background(), userID, testPassword)
	if err != nil || !ok {
		t.Fatalf("Login() = %v, %v", ok, err)
	}
	return tok
}

func coffeeCatalog() []entity.CatalogEntry {
	return []entity.CatalogEntry{
		{Name: "Coffee", Price: 150, Unit: "kg", Supplier: "Roastery"},
		{Name: "Beans", Price: 100, Unit: "kg", Supplier: "Roastery"},
		{Name: "Milk", Price: 1.2, Unit: "l", Supplier: "Dairy"},
		{Name: "Cups", Price: 0, Unit: "piece", Supplier: "Paper Co"},
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func floatPtr(v float64) *float64 { return &v }
