package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/yourusername/order-desk-bot/config"
	"github.com/yourusername/order-desk-bot/internal/access"
	"github.com/yourusername/order-desk-bot/internal/delivery/telegram"
	"github.com/yourusername/order-desk-bot/internal/domain/entity"
	"github.com/yourusername/order-desk-bot/internal/domain/repository"
	"github.com/yourusername/order-desk-bot/internal/infrastructure/export"
	"github.com/yourusername/order-desk-bot/internal/infrastructure/parser"
	"github.com/yourusername/order-desk-bot/internal/infrastructure/storage"
	"github.com/yourusername/order-desk-bot/internal/pricing"
	"github.com/yourusername/order-desk-bot/internal/usecase"
	"github.com/yourusername/order-desk-bot/pkg/logger"
)

func main() {
	// Logger ni ishga tushirish
	logger.Init()
	logger.InfoLogger.Println("🚀 Ilova ishga tushmoqda...")

	// Konfiguratsiyani yuklash
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Konfiguratsiya yuklanmadi: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.AllowEmptySecrets {
		if strings.TrimSpace(cfg.AdminPassword) == "" {
			cfg.AdminPassword = generateTempSecret(16)
			logger.InfoLogger.Printf("ADMIN_PASSWORD bo'sh. Vaqtinchalik parol: %s", cfg.AdminPassword)
		}
		if isEmptyOrDisabled(cfg.TelegramToken) {
			logger.InfoLogger.Println("TELEGRAM_BOT_TOKEN yo'q. Bot vaqtincha ishga tushmaydi.")
			<-ctx.Done()
			return
		}
	}

	// 1. Repositories
	catalogRepo := storage.NewMemoryCatalogRepository()
	adminRepo := storage.NewMemoryAdminRepository(cfg.AdminSessionTTL)
	orderRepo, closeOrders, err := openOrderStore(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Buyurtma ombori ochilmadi: %v", err)
	}
	defer closeOrders()
	logger.InfoLogger.Printf("✅ Repositories tayyor (orders: %s)", cfg.OrderStore)

	// 2. Pricing va fayl formatlari
	validator := pricing.NewValidator(cfg.PriceFloor)
	reconciler := pricing.NewReconciler(validator)
	tableParser := parser.NewTableParser()
	exporters := []repository.TableExporter{export.NewCSVExporter(), export.NewXLSXExporter()}

	var issuer *access.Issuer
	if cfg.AdminPassword != "" {
		issuer, err = access.NewIssuer(cfg.AdminPassword, cfg.AdminSessionTTL)
		if err != nil {
			log.Fatalf("❌ Admin token issuer yaratilmadi: %v", err)
		}
	}

	// 3. Use cases
	catalogUseCase := usecase.NewCatalogUseCase(catalogRepo, validator)
	orderUseCase := usecase.NewOrderUseCase(orderRepo, catalogUseCase, reconciler, exporters...)
	adminUseCase := usecase.NewAdminUseCase(adminRepo, catalogRepo, tableParser, catalogUseCase, orderUseCase, issuer)
	logger.InfoLogger.Println("✅ Use cases tayyor")

	// 4. Boshlang'ich fayllar (ixtiyoriy)
	if err := preload(ctx, cfg, tableParser, catalogRepo, orderUseCase); err != nil {
		log.Fatalf("❌ Boshlang'ich fayllar yuklanmadi: %v", err)
	}

	// 5. Telegram bot handler
	botHandler, err := telegram.NewBotHandler(cfg.TelegramToken, adminUseCase, catalogUseCase, orderUseCase)
	if err != nil {
		log.Fatalf("❌ Bot handler yaratilmadi: %v", err)
	}
	logger.InfoLogger.Printf("✅ Telegram bot tayyor: @%s", botHandler.GetBotUsername())
	logger.InfoLogger.Println("🤖 Bot ishlayapti. To'xtatish uchun Ctrl+C ni bosing.")

	if err := botHandler.Start(ctx); err != nil && ctx.Err() == nil {
		logger.ErrorLogger.Printf("❌ Bot xatosi: %v", err)
	}
	logger.InfoLogger.Println("✅ Bot to'xtatildi.")
}

// openOrderStore ORDER_STORE bo'yicha buyurtma omborini tanlash
func openOrderStore(ctx context.Context, cfg *config.Config) (repository.OrderRepository, func(), error) {
	switch cfg.OrderStore {
	case config.StoreSQLite:
		repo, err := storage.NewSQLiteOrderRepository(cfg.OrderDBPath)
		if err != nil {
			return nil, nil, err
		}
		return repo, closer(repo), nil
	case config.StorePostgres:
		repo, err := storage.NewPostgresOrderRepository(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return repo, closer(repo), nil
	default:
		return storage.NewMemoryOrderRepository(), func() {}, nil
	}
}

func closer(repo *storage.SQLOrderRepository) func() {
	return func() {
		if err := repo.Close(); err != nil {
			logger.ErrorLogger.Printf("❌ Buyurtma ombori yopilmadi: %v", err)
		}
	}
}

// preload CATALOG_PATH va ORDERS_PATH berilgan bo'lsa ularni o'qish
func preload(ctx context.Context, cfg *config.Config, tableParser repository.TableParser, catalogRepo repository.CatalogRepository, orders usecase.OrderUseCase) error {
	if cfg.CatalogPath != "" {
		entries, err := tableParser.ParseCatalogFile(ctx, cfg.CatalogPath)
		if err != nil {
			return fmt.Errorf("catalog %s: %w", cfg.CatalogPath, err)
		}
		catalog := entity.Catalog{Entries: entries, UpdatedAt: time.Now(), Source: cfg.CatalogPath}
		if err := catalogRepo.UpdateCatalog(ctx, catalog); err != nil {
			return err
		}
		logger.InfoLogger.Printf("📦 Katalog yuklandi: %d ta mahsulot", len(entries))
	}

	if cfg.OrdersPath != "" {
		raw, err := tableParser.ParseOrdersFile(ctx, cfg.OrdersPath)
		if err != nil {
			return fmt.Errorf("orders %s: %w", cfg.OrdersPath, err)
		}
		count, err := orders.LoadTemplate(ctx, raw)
		if err != nil {
			return err
		}
		logger.InfoLogger.Printf("🧾 Buyurtmalar yuklandi: %d ta qator", count)
	}
	return nil
}

func isEmptyOrDisabled(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return true
	}
	return strings.EqualFold(value, "disabled")
}

func generateTempSecret(byteLen int) string {
	buf := make([]byte, byteLen)
	if _, err := rand.Read(buf); err != nil {
		return "change-me"
	}
	return hex.EncodeToString(buf)
}
