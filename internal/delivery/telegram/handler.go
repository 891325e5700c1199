package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/yourusername/order-desk-bot/internal/usecase"
	"github.com/yourusername/order-desk-bot/pkg/logger"
)

// BotHandler Telegram bot handler
type BotHandler struct {
	bot            *tgbotapi.BotAPI
	adminUseCase   usecase.AdminUseCase
	catalogUseCase usecase.CatalogUseCase
	orderUseCase   usecase.OrderUseCase
	httpClient     *http.Client

	// Admin login kutilayotgan userlar
	awaitingPassword map[int64]bool
	mu               sync.RWMutex
}

// NewBotHandler yangi bot handler yaratish
func NewBotHandler(
	token string,
	adminUseCase usecase.AdminUseCase,
	catalogUseCase usecase.CatalogUseCase,
	orderUseCase usecase.OrderUseCase,
) (*BotHandler, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &BotHandler{
		bot:              bot,
		adminUseCase:     adminUseCase,
		catalogUseCase:   catalogUseCase,
		orderUseCase:     orderUseCase,
		httpClient:       &http.Client{Timeout: 30 * time.Second},
		awaitingPassword: make(map[int64]bool),
	}, nil
}

// Start botni ishga tushirish
func (h *BotHandler) Start(ctx context.Context) error {
	logger.InfoLogger.Printf("🤖 Bot @%s ishga tushdi!", h.bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			logger.InfoLogger.Println("🛑 Bot to'xtatilmoqda...")
			h.bot.StopReceivingUpdates()
			return ctx.Err()
		case update := <-updates:
			if update.Message == nil {
				continue
			}
			go h.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage xabarni qayta ishlash
func (h *BotHandler) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.From == nil {
		return
	}
	userID := message.From.ID

	// Fayl yuborilgan bo'lsa
	if message.Document != nil {
		h.handleDocumentMessage(ctx, message)
		return
	}

	// Parol kutilayotgan bo'lsa
	if h.isAwaitingPassword(userID) && !message.IsCommand() {
		h.handlePasswordInput(ctx, message)
		return
	}

	// Komandalarni qayta ishlash
	if message.IsCommand() {
		h.setAwaitingPassword(userID, false)
		h.handleCommand(ctx, message)
		return
	}

	h.sendMessage(message.Chat.ID, "Komanda yuboring. /help yordam uchun.")
}

// handleCommand komandalarni qayta ishlash
func (h *BotHandler) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		h.sendMessage(message.Chat.ID, h.getWelcomeMessage())
	case "help":
		h.sendMessage(message.Chat.ID, h.getHelpMessage())
	case "catalog":
		h.handleCatalogCommand(ctx, message)
	case "orders":
		h.handleOrdersCommand(ctx, message)
	case "set":
		h.handleSetCommand(ctx, message)
	case "product":
		h.handleProductCommand(ctx, message)
	case "clear":
		h.handleClearCommand(ctx, message)
	case "export":
		h.handleExportCommand(ctx, message)
	case "reset":
		h.handleResetCommand(ctx, message)
	case "admin":
		h.handleAdminCommand(ctx, message)
	case "logout":
		h.handleLogoutCommand(ctx, message)
	case "price":
		h.handlePriceCommand(ctx, message)
	case "setprice":
		h.handleSetPriceCommand(ctx, message)
	case "additem":
		h.handleAddItemCommand(ctx, message)
	case "remove":
		h.handleRemoveCommand(ctx, message)
	case "catinfo":
		h.handleCatalogInfoCommand(ctx, message)
	case "actions":
		h.handleActionsCommand(ctx, message)
	case "clean":
		h.handleCleanCommand(ctx, message)
	default:
		h.sendMessage(message.Chat.ID, "Noma'lum komanda. /help yordam uchun.")
	}
}

// sessionID har bir chat o'z buyurtma jadvaliga ega
func sessionID(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

// downloadFile Telegram dan faylni yuklash
func (h *BotHandler) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := h.bot.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(h.bot.Token), nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("file download status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxUploadSize+1))
}

// isAwaitingPassword parol kutilayotganini tekshirish
func (h *BotHandler) isAwaitingPassword(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.awaitingPassword[userID]
}

// setAwaitingPassword parol kutish rejimini o'rnatish
func (h *BotHandler) setAwaitingPassword(userID int64, awaiting bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if awaiting {
		h.awaitingPassword[userID] = true
	} else {
		delete(h.awaitingPassword, userID)
	}
}

// sendMessage oddiy xabar yuborish (uzun matn bo'laklarga bo'linadi)
func (h *BotHandler) sendMessage(chatID int64, text string) {
	for _, chunk := range splitMessage(text, telegramMessageLimit) {
		msg := tgbotapi.NewMessage(chatID, chunk)
		if _, err := h.bot.Send(msg); err != nil {
			logger.ErrorLogger.Printf("❌ Xabar yuborishda xatolik: %v", err)
			return
		}
	}
}

// sendDocument fayl yuborish
func (h *BotHandler) sendDocument(chatID int64, name string, data []byte, caption string) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	doc.Caption = caption
	_, err := h.bot.Send(doc)
	return err
}

// deleteMessage xabarni o'chirish
func (h *BotHandler) deleteMessage(chatID int64, messageID int) {
	if _, err := h.bot.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		logger.WarnLogger.Printf("⚠️ Xabarni o'chirib bo'lmadi: %v", err)
	}
}

// getWelcomeMessage salom xabari
func (h *BotHandler) getWelcomeMessage() string {
	return `Assalomu alaykum! 👋

Men buyurtmalar jadvali botiman. Katalog narxlari asosida buyurtmalaringizni
hisoblayman, yetkazib beruvchilar bo'yicha guruhlayman va CSV/Excel fayl qilib beraman.

/catalog - Katalogni ko'rish
/orders - Buyurtmalar jadvali
/help - Barcha komandalar`
}

// getHelpMessage yordam xabari
func (h *BotHandler) getHelpMessage() string {
	return `🤖 Bot komandalari:

📱 Buyurtmalar:
/catalog [qidiruv] - Katalog (yoki qidirish)
/orders - Buyurtmalar jadvali (/orders all - nol qatorlar bilan)
/set mahsulot | miqdor [| birlik] [| yetkazib beruvchi] - Miqdorni o'zgartirish
/product mahsulot | yetkazib beruvchi | yangi mahsulot - Mahsulotni almashtirish
/clear - Barcha miqdorlarni nolga tushirish
/export [xlsx] - Faylni yuklab olish (standart CSV)
/reset - Jadvalni boshidan qurish

🔐 Admin:
/admin - Admin panelga kirish
/logout - Admin paneldan chiqish
/price mahsulot | yetkazib beruvchi | narx [| birlik] - Qatorga narx o'rnatish
/setprice mahsulot | narx - Katalog narxini o'zgartirish
/additem mahsulot | narx | birlik [| yetkazib beruvchi] [| joy] - Katalogga qo'shish
/remove mahsulot - Katalogdan o'chirish
/catinfo - Katalog statistikasi
/actions - So'nggi admin harakatlari
/clean - Katalog va jadvallarni tozalash

📤 Katalog yuklash: admin sifatida .xlsx, .xlsm yoki .csv fayl yuboring.
Izohga "orders" yozsangiz, fayl boshlang'ich buyurtmalar sifatida yuklanadi.`
}

// GetBotUsername bot username ni olish
func (h *BotHandler) GetBotUsername() string {
	return h.bot.Self.UserName
}
