package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/order-desk-bot/internal/access"
	"github.com/yourusername/order-desk-bot/internal/domain/entity"
	"github.com/yourusername/order-desk-bot/internal/domain/repository"
	"github.com/yourusername/order-desk-bot/pkg/logger"
)

// AdminUseCase admin bilan bog'liq business logic
type AdminUseCase interface {
	// Login parolni tekshirib, capability token beradi
	Login(ctx context.Context, userID int64, password string) (*access.Token, bool, error)

	// Logout admin logout qilish
	Logout(ctx context.Context, userID int64) error

	// IsAdmin admin ekanligini tekshirish
	IsAdmin(ctx context.Context, userID int64) (bool, error)

	// Token admin sessiyasidagi token (ErrNotAdmin agar sessiya yo'q bo'lsa)
	Token(ctx context.Context, userID int64) (*access.Token, error)

	// UploadCatalog fayldan katalogni yuklash
	UploadCatalog(ctx context.Context, userID int64, fileData []byte, filename string) (int, error)

	// UploadOrders fayldan boshlang'ich buyurtmalarni yuklash
	UploadOrders(ctx context.Context, userID int64, fileData []byte, filename string) (int, error)

	// GetCatalogInfo katalog haqida ma'lumot
	GetCatalogInfo(ctx context.Context) (string, error)

	// RemoveProduct katalogdan o'chirib, jadvallardan ham olib tashlash
	RemoveProduct(ctx context.Context, userID int64, name string) (int, error)

	// RecordAction admin harakatini loglash
	RecordAction(ctx context.Context, userID int64, action, details string)

	// RecentActions so'nggi admin harakatlari
	RecentActions(ctx context.Context, userID int64, limit int) ([]entity.AdminAction, error)

	// CleanAll katalog va barcha buyurtma jadvallarini tozalash
	CleanAll(ctx context.Context, userID int64) error
}

type adminUseCase struct {
	adminRepo   repository.AdminRepository
	catalogRepo repository.CatalogRepository
	tableParser repository.TableParser
	catalog     CatalogUseCase
	orders      OrderUseCase
	issuer      *access.Issuer
	now         func() time.Time
}

// NewAdminUseCase yangi AdminUseCase yaratish. issuer nil bo'lsa login o'chirilgan.
func NewAdminUseCase(
	adminRepo repository.AdminRepository,
	catalogRepo repository.CatalogRepository,
	tableParser repository.TableParser,
	catalog CatalogUseCase,
	orders OrderUseCase,
	issuer *access.Issuer,
) AdminUseCase {
	return &adminUseCase{
		adminRepo:   adminRepo,
		catalogRepo: catalogRepo,
		tableParser: tableParser,
		catalog:     catalog,
		orders:      orders,
		issuer:      issuer,
		now:         time.Now,
	}
}

// Login admin login qilish
func (u *adminUseCase) Login(ctx context.Context, userID int64, password string) (*access.Token, bool, error) {
	if u.issuer == nil {
		logger.WarnLogger.Printf("⚠️ Admin login attempted by %d, but ADMIN_PASSWORD is not configured", userID)
		return nil, false, nil
	}

	// Parolni tekshirish
	token, err := u.issuer.Issue(userID, password)
	if errors.Is(err, access.ErrInvalidCredential) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	// Admin sessiyasini yaratish
	session := entity.AdminSession{
		UserID:       userID,
		IsAdmin:      true,
		Token:        token,
		LoginTime:    time.Now(),
		LastActivity: time.Now(),
	}
	if err := u.adminRepo.CreateSession(ctx, session); err != nil {
		return nil, false, fmt.Errorf("failed to create session: %w", err)
	}

	u.RecordAction(ctx, userID, "login", "Admin successfully logged in")
	return token, true, nil
}

// Logout admin logout qilish
func (u *adminUseCase) Logout(ctx context.Context, userID int64) error {
	return u.adminRepo.DeleteSession(ctx, userID)
}

// IsAdmin admin ekanligini tekshirish. Tokeni tugagan sessiya yopiladi.
func (u *adminUseCase) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	if _, err := u.Token(ctx, userID); err != nil {
		if errors.Is(err, ErrNotAdmin) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Token sessiyadagi amal qiluvchi tokenni olish
func (u *adminUseCase) Token(ctx context.Context, userID int64) (*access.Token, error) {
	session, err := u.adminRepo.GetSession(ctx, userID)
	if err != nil || !session.IsAdmin {
		return nil, ErrNotAdmin
	}

	// Sessiya muddati uzayadi, token muddati esa yo'q: token tugasa sessiya ham tugaydi
	if !session.Token.Allows(access.PermissionPriceOverride, u.now()) {
		if err := u.adminRepo.DeleteSession(ctx, userID); err != nil {
			return nil, fmt.Errorf("failed to end expired session: %w", err)
		}
		logger.InfoLogger.Printf("⏳ Admin %d: token expired, session closed", userID)
		return nil, ErrNotAdmin
	}
	return session.Token, nil
}

// UploadCatalog fayldan katalogni yuklash
func (u *adminUseCase) UploadCatalog(ctx context.Context, userID int64, fileData []byte, filename string) (int, error) {
	if err := u.requireAdmin(ctx, userID); err != nil {
		return 0, err
	}

	entries, err := u.tableParser.ParseCatalog(ctx, fileData, filename)
	if err != nil {
		return 0, fmt.Errorf("failed to parse catalog: %w", err)
	}

	catalog := entity.Catalog{
		Entries:   entries,
		UpdatedAt: time.Now(),
		Source:    filename,
	}
	if err := u.catalogRepo.UpdateCatalog(ctx, catalog); err != nil {
		return 0, fmt.Errorf("failed to update catalog: %w", err)
	}

	all, err := u.catalogRepo.GetAll(ctx)
	if err != nil {
		return 0, err
	}
	u.RecordAction(ctx, userID, "upload_catalog", fmt.Sprintf("Uploaded %d products from %s", len(all), filename))
	return len(all), nil
}

// UploadOrders fayldan boshlang'ich buyurtmalarni yuklash. Saqlangan jadvallar
// tozalanadi, har bir sessiya keyingi ochilishda yangi shablondan boshlaydi.
func (u *adminUseCase) UploadOrders(ctx context.Context, userID int64, fileData []byte, filename string) (int, error) {
	if err := u.requireAdmin(ctx, userID); err != nil {
		return 0, err
	}

	raw, err := u.tableParser.ParseOrders(ctx, fileData, filename)
	if err != nil {
		return 0, fmt.Errorf("failed to parse orders: %w", err)
	}

	n, err := u.orders.ReplaceTemplate(ctx, raw)
	if err != nil {
		return 0, err
	}

	u.RecordAction(ctx, userID, "upload_orders", fmt.Sprintf("Loaded %d order lines from %s", n, filename))
	return n, nil
}

// GetCatalogInfo katalog haqida ma'lumot
func (u *adminUseCase) GetCatalogInfo(ctx context.Context) (string, error) {
	catalog, err := u.catalogRepo.GetCatalog(ctx)
	if err != nil {
		return "", ErrNoCatalog
	}

	// Yetkazib beruvchilarni sanash (katalog tartibida)
	var suppliers []string
	counts := make(map[string]int)
	zeroPriced := 0
	for _, e := range catalog.Entries {
		supplier := strings.TrimSpace(e.Supplier)
		if supplier == "" {
			supplier = entity.UnknownSupplier
		}
		if _, seen := counts[supplier]; !seen {
			suppliers = append(suppliers, supplier)
		}
		counts[supplier]++
		if e.Price <= 0 {
			zeroPriced++
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📦 Katalog: %s\n", catalog.Source))
	sb.WriteString(fmt.Sprintf("📅 Yangilangan: %s\n", catalog.UpdatedAt.Format("2006-01-02 15:04")))
	sb.WriteString(fmt.Sprintf("📊 Jami mahsulotlar: %d\n", len(catalog.Entries)))
	if zeroPriced > 0 {
		sb.WriteString(fmt.Sprintf("⚠️ Narxi yo'q: %d\n", zeroPriced))
	}
	sb.WriteString("\n🏭 Yetkazib beruvchilar:\n")
	for _, s := range suppliers {
		sb.WriteString(fmt.Sprintf("  • %s: %d ta\n", s, counts[s]))
	}
	return sb.String(), nil
}

// RemoveProduct katalogdan o'chirish va jadvallardan olib tashlash
func (u *adminUseCase) RemoveProduct(ctx context.Context, userID int64, name string) (int, error) {
	token, err := u.Token(ctx, userID)
	if err != nil {
		return 0, err
	}
	if err := u.catalog.RemoveItem(ctx, token, name); err != nil {
		return 0, err
	}
	pruned, err := u.orders.PruneProduct(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("failed to prune order tables: %w", err)
	}

	u.RecordAction(ctx, userID, "remove_product", fmt.Sprintf("Removed %s (%d order lines)", strings.TrimSpace(name), pruned))
	return pruned, nil
}

// RecordAction admin harakatini loglash
func (u *adminUseCase) RecordAction(ctx context.Context, userID int64, action, details string) {
	entry := entity.AdminAction{
		ID:        uuid.New().String(),
		UserID:    userID,
		Action:    action,
		Details:   details,
		Timestamp: time.Now(),
	}
	if err := u.adminRepo.LogAction(ctx, entry); err != nil {
		logger.ErrorLogger.Printf("❌ Failed to log admin action %s: %v", action, err)
		return
	}
	logger.InfoLogger.Printf("🛡 Admin %d: %s - %s", userID, action, details)
}

// RecentActions so'nggi admin harakatlari
func (u *adminUseCase) RecentActions(ctx context.Context, userID int64, limit int) ([]entity.AdminAction, error) {
	if err := u.requireAdmin(ctx, userID); err != nil {
		return nil, err
	}
	return u.adminRepo.GetActions(ctx, limit)
}

// CleanAll katalog va jadvallarni tozalash
func (u *adminUseCase) CleanAll(ctx context.Context, userID int64) error {
	if err := u.requireAdmin(ctx, userID); err != nil {
		return err
	}

	if err := u.catalogRepo.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear catalog: %w", err)
	}
	if err := u.orders.ResetAll(ctx); err != nil {
		return fmt.Errorf("failed to clear order tables: %w", err)
	}

	u.RecordAction(ctx, userID, "clean_all", "Cleared catalog and order tables")
	return nil
}

func (u *adminUseCase) requireAdmin(ctx context.Context, userID int64) error {
	isAdmin, err := u.IsAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !isAdmin {
		return ErrNotAdmin
	}
	return nil
}
