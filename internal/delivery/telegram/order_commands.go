package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/yourusername/order-desk-bot/internal/pricing"
	"github.com/yourusername/order-desk-bot/pkg/logger"
)

// handleCatalogCommand katalogni ko'rsatish yoki qidirish
func (h *BotHandler) handleCatalogCommand(ctx context.Context, message *tgbotapi.Message) {
	query := strings.TrimSpace(message.CommandArguments())
	if query == "" {
		text, err := h.catalogUseCase.GetCatalogAsText(ctx)
		if err != nil {
			h.sendMessage(message.Chat.ID, "❌ Katalog hali yuklanmagan.")
			return
		}
		h.sendMessage(message.Chat.ID, text)
		return
	}

	entries, err := h.catalogUseCase.Search(ctx, query)
	if err != nil {
		logger.ErrorLogger.Printf("❌ Catalog search error: %v", err)
		h.sendMessage(message.Chat.ID, "❌ Qidiruvda xatolik yuz berdi.")
		return
	}
	if len(entries) == 0 {
		h.sendMessage(message.Chat.ID, fmt.Sprintf("🔍 \"%s\" bo'yicha hech narsa topilmadi.", query))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🔍 \"%s\" bo'yicha %d ta:\n\n", query, len(entries)))
	for i, e := range entries {
		unit := pricing.NormalizeUnit(e.Unit)
		if unit == "" {
			unit = pricing.DefaultUnit
		}
		sb.WriteString(fmt.Sprintf("%d. %s - %s / %s", i+1, e.Name, formatNumber(e.Price), unit))
		if e.Supplier != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", e.Supplier))
		}
		sb.WriteString("\n")
	}
	h.sendMessage(message.Chat.ID, sb.String())
}

// handleOrdersCommand buyurtmalar jadvali
func (h *BotHandler) handleOrdersCommand(ctx context.Context, message *tgbotapi.Message) {
	showAll := strings.EqualFold(strings.TrimSpace(message.CommandArguments()), "all")
	h.sendSummary(ctx, message.Chat.ID, showAll)
}

// handleSetCommand miqdor/birlikni o'zgartirish
func (h *BotHandler) handleSetCommand(ctx context.Context, message *tgbotapi.Message) {
	edit, err := parseSetArgs(message.CommandArguments())
	if err != nil {
		h.sendUsage(message.Chat.ID, err, "/set mahsulot | miqdor [| birlik] [| yetkazib beruvchi]")
		return
	}
	h.applyEdits(ctx, message.Chat.ID, []pricing.Edit{edit})
}

// handleProductCommand qatordagi mahsulotni katalogdagi boshqasiga almashtirish
func (h *BotHandler) handleProductCommand(ctx context.Context, message *tgbotapi.Message) {
	edit, err := parseProductArgs(message.CommandArguments())
	if err != nil {
		h.sendUsage(message.Chat.ID, err, "/product mahsulot | yetkazib beruvchi | yangi mahsulot")
		return
	}
	h.applyEdits(ctx, message.Chat.ID, []pricing.Edit{edit})
}

func (h *BotHandler) applyEdits(ctx context.Context, chatID int64, edits []pricing.Edit) {
	res, err := h.orderUseCase.ApplyEdits(ctx, sessionID(chatID), edits)
	if err != nil {
		logger.ErrorLogger.Printf("❌ Apply edits error: %v", err)
		h.sendMessage(chatID, "❌ Jadvalni yangilashda xatolik yuz berdi.")
		return
	}
	if rejected := formatRejected(res.Rejected); rejected != "" {
		h.sendMessage(chatID, rejected)
		return
	}
	h.sendSummary(ctx, chatID, false)
}

// handleClearCommand barcha miqdorlarni nolga tushirish
func (h *BotHandler) handleClearCommand(ctx context.Context, message *tgbotapi.Message) {
	if _, err := h.orderUseCase.Clear(ctx, sessionID(message.Chat.ID)); err != nil {
		logger.ErrorLogger.Printf("❌ Clear error: %v", err)
		h.sendMessage(message.Chat.ID, "❌ Tozalashda xatolik yuz berdi.")
		return
	}
	h.sendMessage(message.Chat.ID, "🧹 Barcha miqdorlar nolga tushirildi.")
}

// handleResetCommand jadvalni boshidan qurish
func (h *BotHandler) handleResetCommand(ctx context.Context, message *tgbotapi.Message) {
	if err := h.orderUseCase.Reset(ctx, sessionID(message.Chat.ID)); err != nil {
		logger.ErrorLogger.Printf("❌ Reset error: %v", err)
		h.sendMessage(message.Chat.ID, "❌ Jadvalni qayta qurishda xatolik.")
		return
	}
	h.sendSummary(ctx, message.Chat.ID, false)
}

// handleExportCommand aktiv qatorlarni fayl qilib yuborish
func (h *BotHandler) handleExportCommand(ctx context.Context, message *tgbotapi.Message) {
	format := strings.TrimSpace(message.CommandArguments())
	file, err := h.orderUseCase.Export(ctx, sessionID(message.Chat.ID), format, time.Now())
	if err != nil {
		logger.ErrorLogger.Printf("❌ Export error: %v", err)
		h.sendMessage(message.Chat.ID, fmt.Sprintf("❌ Eksportda xatolik: %v", err))
		return
	}

	caption := fmt.Sprintf("📄 %d ta aktiv qator", file.Lines)
	if err := h.sendDocument(message.Chat.ID, file.Name, file.Data, caption); err != nil {
		logger.ErrorLogger.Printf("❌ Export send error: %v", err)
		h.sendMessage(message.Chat.ID, "❌ Faylni yuborishda xatolik yuz berdi.")
	}
}

// handlePriceCommand admin narxini bitta qatorga o'rnatish
func (h *BotHandler) handlePriceCommand(ctx context.Context, message *tgbotapi.Message) {
	o, err := parsePriceArgs(message.CommandArguments())
	if err != nil {
		h.sendUsage(message.Chat.ID, err, "/price mahsulot | yetkazib beruvchi | narx [| birlik]")
		return
	}

	// Token bo'lmasa ham chaqiramiz: o'zgarish qo'llanmaydi va rad javobi qaytadi
	token, _ := h.adminUseCase.Token(ctx, message.From.ID)
	_, err = h.orderUseCase.OverridePrice(ctx, sessionID(message.Chat.ID), token, o)
	switch {
	case errors.Is(err, pricing.ErrOverrideDenied):
		h.sendMessage(message.Chat.ID, "🔒 Narxni faqat admin o'zgartira oladi. /admin")
		return
	case errors.Is(err, pricing.ErrLineNotFound), errors.Is(err, pricing.ErrAmbiguousLine):
		h.sendMessage(message.Chat.ID, fmt.Sprintf("❌ %v", err))
		return
	case err != nil:
		logger.ErrorLogger.Printf("❌ Override price error: %v", err)
		h.sendMessage(message.Chat.ID, "❌ Narxni o'zgartirishda xatolik.")
		return
	}

	h.adminUseCase.RecordAction(ctx, message.From.ID, "override_price",
		fmt.Sprintf("%s (%s) = %s", o.Product, o.Supplier, formatNumber(o.Price)))
	h.sendSummary(ctx, message.Chat.ID, false)
}

func (h *BotHandler) sendSummary(ctx context.Context, chatID int64, showAll bool) {
	summary, err := h.orderUseCase.Summary(ctx, sessionID(chatID))
	if err != nil {
		logger.ErrorLogger.Printf("❌ Summary error: %v", err)
		h.sendMessage(chatID, "❌ Jadvalni hisoblashda xatolik yuz berdi.")
		return
	}
	h.sendMessage(chatID, formatSummary(summary, showAll))
}

func (h *BotHandler) sendUsage(chatID int64, err error, usage string) {
	if errors.Is(err, errUsage) {
		h.sendMessage(chatID, "ℹ️ Foydalanish: "+usage)
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("❌ %v\nℹ️ Foydalanish: %s", err, usage))
}
