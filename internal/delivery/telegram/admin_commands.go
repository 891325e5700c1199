package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/yourusername/order-desk-bot/internal/infrastructure/parser"
	"github.com/yourusername/order-desk-bot/internal/usecase"
	"github.com/yourusername/order-desk-bot/pkg/logger"
)

// maxUploadSize yuklanadigan fayl hajmi (5MB)
const maxUploadSize = 5 * 1024 * 1024

// handleAdminCommand admin login boshlash
func (h *BotHandler) handleAdminCommand(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID

	// Allaqachon admin bo'lsa
	isAdmin, _ := h.adminUseCase.IsAdmin(ctx, userID)
	if isAdmin {
		h.sendMessage(message.Chat.ID, "Siz allaqachon admin sifatida tizimga kirgansiz!")
		return
	}

	// Parol kutish rejimini yoqish
	h.setAwaitingPassword(userID, true)
	h.sendMessage(message.Chat.ID, "🔐 Admin parolini kiriting:")
}

// handlePasswordInput parol kiritilganini qayta ishlash
func (h *BotHandler) handlePasswordInput(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID

	// Parol kutish rejimini o'chirish
	h.setAwaitingPassword(userID, false)

	// Xabarni o'chirish (xavfsizlik uchun)
	h.deleteMessage(message.Chat.ID, message.MessageID)

	token, success, err := h.adminUseCase.Login(ctx, userID, strings.TrimSpace(message.Text))
	if err != nil {
		logger.ErrorLogger.Printf("❌ Login error: %v", err)
		h.sendMessage(message.Chat.ID, "❌ Login xatosi yuz berdi.")
		return
	}
	if !success {
		h.sendMessage(message.Chat.ID, "❌ Noto'g'ri parol!")
		return
	}

	h.sendMessage(message.Chat.ID, fmt.Sprintf(`✅ Admin panelga xush kelibsiz!

⏳ Sessiya %s gacha amal qiladi.

📤 Katalog yuklash: .xlsx, .xlsm yoki .csv fayl yuboring (maksimal 5MB).
Katalog ustunlari: Product/Producto, Price/Precio, Unit/Unidad,
Supplier/Proveedor (ixtiyoriy), Location/Ubicación (ixtiyoriy).
Izohi "orders" bo'lgan fayl boshlang'ich buyurtmalar sifatida yuklanadi
(ustunlar: Product, Requested Quantity, Unit, Supplier).

/price - Qatorga narx o'rnatish
/setprice - Katalog narxini o'zgartirish
/additem, /remove - Katalogni tahrirlash
/catinfo - Katalog statistikasi
/logout - Admin paneldan chiqish`, token.ExpiresAt().Format("2006-01-02 15:04")))
}

// handleLogoutCommand admin logout
func (h *BotHandler) handleLogoutCommand(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID

	isAdmin, _ := h.adminUseCase.IsAdmin(ctx, userID)
	if !isAdmin {
		h.sendMessage(message.Chat.ID, "Siz admin emassiz.")
		return
	}

	if err := h.adminUseCase.Logout(ctx, userID); err != nil {
		h.sendMessage(message.Chat.ID, "Logout xatosi.")
		return
	}

	h.sendMessage(message.Chat.ID, "✅ Admin paneldan chiqdingiz.")
}

// handleSetPriceCommand katalog narxini o'zgartirish
func (h *BotHandler) handleSetPriceCommand(ctx context.Context, message *tgbotapi.Message) {
	name, price, err := parseSetPriceArgs(message.CommandArguments())
	if err != nil {
		h.sendUsage(message.Chat.ID, err, "/setprice mahsulot | narx")
		return
	}

	token, _ := h.adminUseCase.Token(ctx, message.From.ID)
	entry, err := h.catalogUseCase.UpdatePrice(ctx, token, name, price)
	if err != nil {
		h.sendAdminError(message.Chat.ID, err)
		return
	}

	h.adminUseCase.RecordAction(ctx, message.From.ID, "update_price", fmt.Sprintf("%s = %s", entry.Name, formatNumber(entry.Price)))
	h.sendMessage(message.Chat.ID, fmt.Sprintf("✅ %s narxi: %s / %s", entry.Name, formatNumber(entry.Price), entry.Unit))
}

// handleAddItemCommand katalogga mahsulot qo'shish
func (h *BotHandler) handleAddItemCommand(ctx context.Context, message *tgbotapi.Message) {
	entry, err := parseAddItemArgs(message.CommandArguments())
	if err != nil {
		h.sendUsage(message.Chat.ID, err, "/additem mahsulot | narx | birlik [| yetkazib beruvchi] [| joy]")
		return
	}

	token, _ := h.adminUseCase.Token(ctx, message.From.ID)
	if err := h.catalogUseCase.AddItem(ctx, token, entry); err != nil {
		h.sendAdminError(message.Chat.ID, err)
		return
	}

	h.adminUseCase.RecordAction(ctx, message.From.ID, "add_item", entry.Name)
	h.sendMessage(message.Chat.ID, fmt.Sprintf("✅ %s katalogga qo'shildi.", entry.Name))
}

// handleRemoveCommand katalogdan o'chirish
func (h *BotHandler) handleRemoveCommand(ctx context.Context, message *tgbotapi.Message) {
	name := strings.TrimSpace(message.CommandArguments())
	if name == "" {
		h.sendUsage(message.Chat.ID, errUsage, "/remove mahsulot")
		return
	}

	pruned, err := h.adminUseCase.RemoveProduct(ctx, message.From.ID, name)
	if err != nil {
		h.sendAdminError(message.Chat.ID, err)
		return
	}
	h.sendMessage(message.Chat.ID, fmt.Sprintf("🗑 %s katalogdan o'chirildi (%d ta buyurtma qatori).", name, pruned))
}

// handleCatalogInfoCommand katalog haqida ma'lumot
func (h *BotHandler) handleCatalogInfoCommand(ctx context.Context, message *tgbotapi.Message) {
	isAdmin, _ := h.adminUseCase.IsAdmin(ctx, message.From.ID)
	if !isAdmin {
		h.sendMessage(message.Chat.ID, "❌ Bu komanda faqat adminlar uchun.")
		return
	}

	info, err := h.adminUseCase.GetCatalogInfo(ctx)
	if err != nil {
		h.sendMessage(message.Chat.ID, "❌ Katalog topilmadi. Excel yoki CSV fayl yuklang.")
		return
	}
	h.sendMessage(message.Chat.ID, info)
}

// handleActionsCommand so'nggi admin harakatlari
func (h *BotHandler) handleActionsCommand(ctx context.Context, message *tgbotapi.Message) {
	actions, err := h.adminUseCase.RecentActions(ctx, message.From.ID, 20)
	if err != nil {
		h.sendAdminError(message.Chat.ID, err)
		return
	}
	if len(actions) == 0 {
		h.sendMessage(message.Chat.ID, "Hali harakatlar yo'q.")
		return
	}

	var sb strings.Builder
	sb.WriteString("🛡 So'nggi harakatlar:\n\n")
	for _, a := range actions {
		sb.WriteString(fmt.Sprintf("%s [%d] %s: %s\n", a.Timestamp.Format("01-02 15:04"), a.UserID, a.Action, a.Details))
	}
	h.sendMessage(message.Chat.ID, sb.String())
}

// handleCleanCommand katalog va jadvallarni tozalash (admin)
func (h *BotHandler) handleCleanCommand(ctx context.Context, message *tgbotapi.Message) {
	if err := h.adminUseCase.CleanAll(ctx, message.From.ID); err != nil {
		h.sendAdminError(message.Chat.ID, err)
		return
	}
	h.sendMessage(message.Chat.ID, "🧹 Katalog va barcha buyurtma jadvallari tozalandi.")
}

// handleDocumentMessage fayl yuborilganda
func (h *BotHandler) handleDocumentMessage(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID

	// Admin tekshirish
	isAdmin, _ := h.adminUseCase.IsAdmin(ctx, userID)
	if !isAdmin {
		h.sendMessage(message.Chat.ID, "❌ Fayllarni faqat adminlar yuklashi mumkin. /admin komandasi bilan admin bo'ling.")
		return
	}

	doc := message.Document

	// Fayl hajmini tekshirish (5MB)
	if doc.FileSize > maxUploadSize {
		h.sendMessage(message.Chat.ID, "❌ Fayl hajmi 5MB dan oshmasligi kerak!")
		return
	}

	// Fayl turini tekshirish
	if !isSupportedUpload(doc.FileName) {
		h.sendMessage(message.Chat.ID, "❌ Faqat .xlsx, .xlsm yoki .csv fayllar qabul qilinadi!")
		return
	}

	h.sendMessage(message.Chat.ID, "⏳ Fayl yuklanmoqda va qayta ishlanmoqda...")

	fileBytes, err := h.downloadFile(ctx, doc.FileID)
	if err != nil {
		logger.ErrorLogger.Printf("❌ File download error: %v", err)
		h.sendMessage(message.Chat.ID, "❌ Faylni yuklashda xatolik yuz berdi.")
		return
	}
	if len(fileBytes) > maxUploadSize {
		h.sendMessage(message.Chat.ID, "❌ Fayl hajmi 5MB dan oshmasligi kerak!")
		return
	}

	if isOrdersUpload(message.Caption) {
		count, err := h.adminUseCase.UploadOrders(ctx, userID, fileBytes, doc.FileName)
		if err != nil {
			logger.ErrorLogger.Printf("❌ Upload orders error: %v", err)
			h.sendMessage(message.Chat.ID, formatUploadError(err))
			return
		}
		h.sendMessage(message.Chat.ID, fmt.Sprintf("✅ Buyurtmalar yuklandi!\n\n🧾 Qatorlar: %d ta\n📄 Fayl: %s\n\n/orders - Jadvalni ko'rish", count, doc.FileName))
		return
	}

	count, err := h.adminUseCase.UploadCatalog(ctx, userID, fileBytes, doc.FileName)
	if err != nil {
		logger.ErrorLogger.Printf("❌ Upload catalog error: %v", err)
		h.sendMessage(message.Chat.ID, formatUploadError(err))
		return
	}
	h.sendMessage(message.Chat.ID, fmt.Sprintf(`✅ Katalog muvaffaqiyatli yangilandi!

📦 Yuklangan mahsulotlar: %d ta
📄 Fayl: %s

/catalog - Katalogni ko'rish
/catinfo - Katalog statistikasi`, count, doc.FileName))
}

func (h *BotHandler) sendAdminError(chatID int64, err error) {
	switch {
	case errors.Is(err, usecase.ErrNotAdmin):
		h.sendMessage(chatID, "🔒 Bu komanda faqat adminlar uchun. /admin")
	case errors.Is(err, usecase.ErrProductNotFound):
		h.sendMessage(chatID, fmt.Sprintf("❌ %v", err))
	default:
		logger.ErrorLogger.Printf("❌ Admin command error: %v", err)
		h.sendMessage(chatID, fmt.Sprintf("❌ Xatolik: %v", err))
	}
}

// isSupportedUpload parser o'qiy oladigan fayl turlari
func isSupportedUpload(filename string) bool {
	return parser.IsSupportedFile(filename)
}

// isOrdersUpload izohga qarab fayl buyurtmalar ekanligini aniqlash
func isOrdersUpload(caption string) bool {
	c := strings.ToLower(strings.TrimSpace(caption))
	return c == "orders" || c == "pedidos" || c == "buyurtmalar"
}
