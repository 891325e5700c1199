package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourusername/order-desk-bot/internal/access"
	"github.com/yourusername/order-desk-bot/internal/domain/entity"
	"github.com/yourusername/order-desk-bot/internal/domain/repository"
	"github.com/yourusername/order-desk-bot/internal/pricing"
	"github.com/yourusername/order-desk-bot/pkg/logger"
)

// OrderSummary bitta sessiya jadvalining yetkazib beruvchilar bo'yicha hisoboti
type OrderSummary struct {
	SessionID   string
	Suppliers   []pricing.SupplierSummary
	GrandTotal  decimal.Decimal
	ActiveLines int
	Unknown     []string
	UpdatedAt   time.Time
}

// ExportFile yuklab olish uchun tayyor fayl
type ExportFile struct {
	Name  string
	Data  []byte
	Lines int // eksport qilingan aktiv qatorlar
}

// OrderUseCase buyurtma jadvali bilan bog'liq business logic
type OrderUseCase interface {
	// LoadTemplate yangi sessiyalar uchun boshlang'ich buyurtmalar (xom qatorlar)
	LoadTemplate(ctx context.Context, raw []entity.OrderLine) (int, error)

	// ReplaceTemplate yangi shablonni qabul qilib, saqlangan jadvallarni tozalaydi.
	// Yaroqsiz manba hech narsani o'zgartirmaydi.
	ReplaceTemplate(ctx context.Context, raw []entity.OrderLine) (int, error)

	// Open sessiya jadvalini ochish: saqlangan bo'lsa qayta narxlanadi, bo'lmasa yaratiladi
	Open(ctx context.Context, sessionID string) (*pricing.Result, error)

	// ApplyEdits foydalanuvchi o'zgarishlarini qo'llash
	ApplyEdits(ctx context.Context, sessionID string, edits []pricing.Edit) (*pricing.Result, error)

	// Clear barcha miqdorlarni nolga tushirish
	Clear(ctx context.Context, sessionID string) (*entity.OrderTable, error)

	// OverridePrice admin narxini bitta qatorga o'rnatish
	OverridePrice(ctx context.Context, sessionID string, token *access.Token, o pricing.PriceOverride) (*entity.OrderTable, error)

	// Summary yetkazib beruvchilar bo'yicha hisobot
	Summary(ctx context.Context, sessionID string) (*OrderSummary, error)

	// Export aktiv qatorlarni faylga chiqarish
	Export(ctx context.Context, sessionID, format string, now time.Time) (*ExportFile, error)

	// PruneProduct katalogdan o'chirilgan mahsulotni barcha jadvallardan olib tashlash
	PruneProduct(ctx context.Context, product string) (int, error)

	// Reset sessiya jadvalini o'chirish (keyingi Open boshidan quradi)
	Reset(ctx context.Context, sessionID string) error

	// ResetAll barcha jadvallar va shablonni tozalash
	ResetAll(ctx context.Context) error
}

type orderUseCase struct {
	orderRepo  repository.OrderRepository
	catalog    CatalogUseCase
	reconciler *pricing.Reconciler
	exporters  map[string]repository.TableExporter
	now        func() time.Time

	templateMu sync.RWMutex
	template   []entity.OrderLine

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// NewOrderUseCase yangi OrderUseCase yaratish
func NewOrderUseCase(
	orderRepo repository.OrderRepository,
	catalog CatalogUseCase,
	reconciler *pricing.Reconciler,
	exporters ...repository.TableExporter,
) OrderUseCase {
	u := &orderUseCase{
		orderRepo:  orderRepo,
		catalog:    catalog,
		reconciler: reconciler,
		exporters:  make(map[string]repository.TableExporter, len(exporters)),
		now:        time.Now,
		locks:      make(map[string]*sync.Mutex),
	}
	for _, e := range exporters {
		u.exporters[e.Extension()] = e
	}
	return u
}

// ExportFileName Pedidos_Actualizados_YYYY-MM-DD.<ext>
func ExportFileName(now time.Time, ext string) string {
	return "Pedidos_Actualizados_" + now.Format("2006-01-02") + "." + strings.TrimPrefix(ext, ".")
}

// LoadTemplate boshlang'ich buyurtmalarni saqlash
func (u *orderUseCase) LoadTemplate(ctx context.Context, raw []entity.OrderLine) (int, error) {
	lines, err := u.buildTemplate(ctx, raw)
	if err != nil {
		return 0, err
	}
	u.setTemplate(lines)
	return len(lines), nil
}

// ReplaceTemplate shablonni almashtirish va barcha jadvallarni tozalash
func (u *orderUseCase) ReplaceTemplate(ctx context.Context, raw []entity.OrderLine) (int, error) {
	lines, err := u.buildTemplate(ctx, raw)
	if err != nil {
		return 0, err
	}
	if err := u.orderRepo.Clear(ctx); err != nil {
		return 0, fmt.Errorf("failed to reset order tables: %w", err)
	}
	u.setTemplate(lines)
	return len(lines), nil
}

func (u *orderUseCase) buildTemplate(ctx context.Context, raw []entity.OrderLine) ([]entity.OrderLine, error) {
	ix, err := u.catalog.Index(ctx)
	if err != nil {
		return nil, err
	}
	lines := pricing.LinesFromOrders(ix, raw)
	if len(lines) == 0 {
		return nil, fmt.Errorf("orders: %w", entity.ErrEmptyTable)
	}
	return lines, nil
}

func (u *orderUseCase) setTemplate(lines []entity.OrderLine) {
	u.templateMu.Lock()
	u.template = lines
	u.templateMu.Unlock()

	logger.InfoLogger.Printf("🧾 Orders template loaded: %d lines", len(lines))
}

// Open sessiya jadvalini ochish
func (u *orderUseCase) Open(ctx context.Context, sessionID string) (*pricing.Result, error) {
	unlock := u.lock(sessionID)
	defer unlock()

	return u.reconcileAndSave(ctx, sessionID, nil)
}

// ApplyEdits o'zgarishlarni qo'llash va qayta narxlash
func (u *orderUseCase) ApplyEdits(ctx context.Context, sessionID string, edits []pricing.Edit) (*pricing.Result, error) {
	unlock := u.lock(sessionID)
	defer unlock()

	res, err := u.reconcileAndSave(ctx, sessionID, edits)
	if err != nil {
		return nil, err
	}
	for _, r := range res.Rejected {
		logger.WarnLogger.Printf("⚠️ Session %s: edit %q rejected: %s", sessionID, r.Edit.Product, r.Reason)
	}
	return res, nil
}

// Clear barcha miqdorlarni nolga tushirish
func (u *orderUseCase) Clear(ctx context.Context, sessionID string) (*entity.OrderTable, error) {
	unlock := u.lock(sessionID)
	defer unlock()

	table, err := u.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	table.Lines = pricing.ClearQuantities(table.Lines)
	if err := u.save(ctx, table); err != nil {
		return nil, err
	}
	return table, nil
}

// OverridePrice admin narxini o'rnatish
func (u *orderUseCase) OverridePrice(ctx context.Context, sessionID string, token *access.Token, o pricing.PriceOverride) (*entity.OrderTable, error) {
	unlock := u.lock(sessionID)
	defer unlock()

	table, err := u.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	lines, err := u.reconciler.OverridePrice(table.Lines, token, o, u.now())
	if err != nil {
		return nil, err
	}
	table.Lines = lines
	if err := u.save(ctx, table); err != nil {
		return nil, err
	}
	logger.InfoLogger.Printf("💲 Session %s: price of %s set to %v by %d", sessionID, o.Product, o.Price, token.Holder())
	return table, nil
}

// Summary yetkazib beruvchilar bo'yicha hisobot
func (u *orderUseCase) Summary(ctx context.Context, sessionID string) (*OrderSummary, error) {
	res, err := u.Open(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	active := pricing.ActiveLines(res.Lines)
	return &OrderSummary{
		SessionID:   sessionID,
		Suppliers:   pricing.GroupBySupplier(res.Lines),
		GrandTotal:  pricing.GrandTotal(res.Lines),
		ActiveLines: len(active),
		Unknown:     res.Unknown,
		UpdatedAt:   u.now(),
	}, nil
}

// Export aktiv qatorlarni faylga chiqarish
func (u *orderUseCase) Export(ctx context.Context, sessionID, format string, now time.Time) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))
	if format == "" {
		format = "csv"
	}
	exporter, ok := u.exporters[format]
	if !ok {
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}

	res, err := u.Open(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	data, err := exporter.Export(res.Lines)
	if err != nil {
		return nil, fmt.Errorf("failed to export orders: %w", err)
	}
	return &ExportFile{
		Name:  ExportFileName(now, exporter.Extension()),
		Data:  data,
		Lines: len(pricing.ActiveLines(res.Lines)),
	}, nil
}

// PruneProduct mahsulotni barcha jadvallardan va shablondan olib tashlash
func (u *orderUseCase) PruneProduct(ctx context.Context, product string) (int, error) {
	product = strings.TrimSpace(product)

	u.templateMu.Lock()
	u.template = dropProduct(u.template, product)
	u.templateMu.Unlock()

	ids, err := u.orderRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list order tables: %w", err)
	}

	removed := 0
	for _, id := range ids {
		n, err := u.pruneSession(ctx, id, product)
		if err != nil {
			return removed, err
		}
		removed += n
	}
	return removed, nil
}

func (u *orderUseCase) pruneSession(ctx context.Context, sessionID, product string) (int, error) {
	unlock := u.lock(sessionID)
	defer unlock()

	table, err := u.orderRepo.Get(ctx, sessionID)
	if errors.Is(err, repository.ErrTableNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	kept := dropProduct(table.Lines, product)
	removed := len(table.Lines) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	table.Lines = kept
	return removed, u.save(ctx, table)
}

// Reset sessiya jadvalini o'chirish
func (u *orderUseCase) Reset(ctx context.Context, sessionID string) error {
	unlock := u.lock(sessionID)
	defer unlock()

	return u.orderRepo.Delete(ctx, sessionID)
}

// ResetAll barcha jadvallar va shablonni tozalash
func (u *orderUseCase) ResetAll(ctx context.Context) error {
	u.templateMu.Lock()
	u.template = nil
	u.templateMu.Unlock()

	return u.orderRepo.Clear(ctx)
}

// reconcileAndSave jadvalni yuklab (yoki yaratib), o'zgarishlarni qo'llab, saqlaydi. Lock ushlangan bo'lishi kerak.
func (u *orderUseCase) reconcileAndSave(ctx context.Context, sessionID string, edits []pricing.Edit) (*pricing.Result, error) {
	ix, err := u.catalog.Index(ctx)
	if err != nil {
		return nil, err
	}

	table, err := u.orderRepo.Get(ctx, sessionID)
	if errors.Is(err, repository.ErrTableNotFound) {
		table = &entity.OrderTable{SessionID: sessionID, Lines: u.initialLines(ix)}
	} else if err != nil {
		return nil, fmt.Errorf("failed to load order table: %w", err)
	}

	res := u.reconciler.Reconcile(ix, table.Lines, edits)
	if len(res.Unknown) > 0 {
		logger.WarnLogger.Printf("⚠️ Session %s: products not in catalog: %s", sessionID, strings.Join(res.Unknown, ", "))
	}

	table.Lines = res.Lines
	if err := u.save(ctx, table); err != nil {
		return nil, err
	}
	return &res, nil
}

// initialLines shablon bo'lsa undan, bo'lmasa katalogdan qatorlar
func (u *orderUseCase) initialLines(ix *pricing.CatalogIndex) []entity.OrderLine {
	u.templateMu.RLock()
	defer u.templateMu.RUnlock()

	if len(u.template) > 0 {
		return append([]entity.OrderLine(nil), u.template...)
	}
	return pricing.SeedLines(ix)
}

func (u *orderUseCase) load(ctx context.Context, sessionID string) (*entity.OrderTable, error) {
	table, err := u.orderRepo.Get(ctx, sessionID)
	if errors.Is(err, repository.ErrTableNotFound) {
		// Hali ochilmagan sessiya: boshlang'ich jadval
		res, err := u.reconcileAndSave(ctx, sessionID, nil)
		if err != nil {
			return nil, err
		}
		return &entity.OrderTable{SessionID: sessionID, Lines: res.Lines}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order table: %w", err)
	}
	return table, nil
}

func (u *orderUseCase) save(ctx context.Context, table *entity.OrderTable) error {
	table.UpdatedAt = u.now()
	if err := u.orderRepo.Save(ctx, *table); err != nil {
		return fmt.Errorf("failed to save order table: %w", err)
	}
	return nil
}

// lock sessiya bo'yicha mutex
func (u *orderUseCase) lock(sessionID string) func() {
	u.locksMu.Lock()
	mu, ok := u.locks[sessionID]
	if !ok {
		mu = &sync.Mutex{}
		u.locks[sessionID] = mu
	}
	u.locksMu.Unlock()

	mu.Lock()
	return mu.Unlock
}

func dropProduct(lines []entity.OrderLine, product string) []entity.OrderLine {
	out := lines[:0:0]
	for _, l := range lines {
		if strings.TrimSpace(l.Product) != product {
			out = append(out, l)
		}
	}
	return out
}

// formatMoney pulni 2 xonali ko'rinishda
func formatMoney(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
