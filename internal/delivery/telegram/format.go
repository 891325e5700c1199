package telegram

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/yourusername/order-desk-bot/internal/domain/entity"
	"github.com/yourusername/order-desk-bot/internal/pricing"
	"github.com/yourusername/order-desk-bot/internal/usecase"
)

// telegramMessageLimit bitta xabar uchun maksimal belgilar
const telegramMessageLimit = 4000

var errUsage = errors.New("usage")

// splitArgs "a | b | c" ko'rinishidagi argumentlarni ajratish
func splitArgs(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// parseAmount son kiritishni o'qish ("1,5" ham qabul qilinadi)
func parseAmount(raw string) (float64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if s == "" {
		return 0, errUsage
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("noto'g'ri son: %s", raw)
	}
	return v, nil
}

// parseSetArgs /set product | qty [| unit] [| supplier]
func parseSetArgs(raw string) (pricing.Edit, error) {
	args := splitArgs(raw)
	if len(args) < 2 || args[0] == "" {
		return pricing.Edit{}, errUsage
	}
	qty, err := parseAmount(args[1])
	if err != nil {
		return pricing.Edit{}, err
	}
	edit := pricing.Edit{Product: args[0], Quantity: &qty}
	if len(args) > 2 && args[2] != "" {
		unit := args[2]
		edit.Unit = &unit
	}
	if len(args) > 3 {
		edit.Supplier = args[3]
	}
	return edit, nil
}

// parseProductArgs /product old | supplier | new
func parseProductArgs(raw string) (pricing.Edit, error) {
	args := splitArgs(raw)
	if len(args) != 3 || args[0] == "" || args[2] == "" {
		return pricing.Edit{}, errUsage
	}
	next := args[2]
	return pricing.Edit{Product: args[0], Supplier: args[1], NewProduct: &next}, nil
}

// parsePriceArgs /price product | supplier | price [| unit]
func parsePriceArgs(raw string) (pricing.PriceOverride, error) {
	args := splitArgs(raw)
	if len(args) < 3 || args[0] == "" {
		return pricing.PriceOverride{}, errUsage
	}
	price, err := parseAmount(args[2])
	if err != nil {
		return pricing.PriceOverride{}, err
	}
	o := pricing.PriceOverride{Product: args[0], Supplier: args[1], Price: price}
	if len(args) > 3 {
		o.Unit = args[3]
	}
	return o, nil
}

// parseSetPriceArgs /setprice product | price
func parseSetPriceArgs(raw string) (string, float64, error) {
	args := splitArgs(raw)
	if len(args) != 2 || args[0] == "" {
		return "", 0, errUsage
	}
	price, err := parseAmount(args[1])
	if err != nil {
		return "", 0, err
	}
	return args[0], price, nil
}

// parseAddItemArgs /additem product | price | unit [| supplier] [| location]
func parseAddItemArgs(raw string) (entity.CatalogEntry, error) {
	args := splitArgs(raw)
	if len(args) < 3 || args[0] == "" {
		return entity.CatalogEntry{}, errUsage
	}
	price, err := parseAmount(args[1])
	if err != nil {
		return entity.CatalogEntry{}, err
	}
	entry := entity.CatalogEntry{Name: args[0], Price: price, Unit: args[2]}
	if len(args) > 3 {
		entry.Supplier = args[3]
	}
	if len(args) > 4 {
		entry.Location = args[4]
	}
	return entry, nil
}

// formatNumber miqdorni ortiqcha nollarsiz
func formatNumber(v float64) string {
	return decimal.NewFromFloat(v).String()
}

// formatMoney pulni 2 xonali
func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// formatSummary buyurtmalar jadvalini yetkazib beruvchilar bo'yicha ko'rsatish
func formatSummary(s *usecase.OrderSummary, showInactive bool) string {
	var sb strings.Builder
	sb.WriteString("🧾 Buyurtmalar jadvali\n\n")

	for _, group := range s.Suppliers {
		if group.ActiveLines == 0 && !showInactive {
			continue
		}
		sb.WriteString(fmt.Sprintf("🏭 %s (%d) - %s\n", group.Supplier, group.ActiveLines, formatMoney(group.Total)))
		for _, l := range group.Lines {
			if !l.IsActive() && !showInactive {
				continue
			}
			marker := "•"
			if l.Unknown {
				marker = "❓"
			} else if l.PriceSource == entity.PriceManual {
				marker = "✏️"
			}
			sb.WriteString(fmt.Sprintf("%s %s: %s %s × %s/%s = %s\n",
				marker, l.Product, formatNumber(l.Quantity), l.Unit,
				formatMoney(decimal.NewFromFloat(l.UnitPrice)), l.BaseUnit,
				formatMoney(decimal.NewFromFloat(l.Total))))
		}
		sb.WriteString("\n")
	}

	if s.ActiveLines == 0 {
		sb.WriteString("Hali buyurtma yo'q. /set mahsulot | miqdor\n\n")
	}
	sb.WriteString(fmt.Sprintf("💰 Jami: %s (%d qator)\n", formatMoney(s.GrandTotal), s.ActiveLines))
	if len(s.Unknown) > 0 {
		sb.WriteString(fmt.Sprintf("⚠️ Katalogda yo'q: %s\n", strings.Join(s.Unknown, ", ")))
	}
	return sb.String()
}

// formatRejected rad etilgan o'zgarishlar
func formatRejected(rejected []pricing.RejectedEdit) string {
	if len(rejected) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("⚠️ Qo'llanmadi:\n")
	for _, r := range rejected {
		sb.WriteString(fmt.Sprintf("• %s: %s\n", r.Edit.Product, r.Reason))
	}
	return sb.String()
}

// formatUploadError foydalanuvchiga tushunarli xato matni
func formatUploadError(err error) string {
	var mce *entity.MissingColumnsError
	switch {
	case errors.As(err, &mce):
		return fmt.Sprintf("❌ %s jadvalida ustunlar yo'q: %s", mce.Table, strings.Join(mce.Columns, ", "))
	case errors.Is(err, entity.ErrEmptyTable):
		return "❌ Jadval bo'sh."
	case errors.Is(err, usecase.ErrNotAdmin):
		return "❌ Bu amal faqat adminlar uchun."
	default:
		return fmt.Sprintf("❌ Faylni qayta ishlashda xatolik: %v", err)
	}
}

// splitMessage uzun matnni Telegram limitiga bo'lish (qator chegarasida)
func splitMessage(text string, limit int) []string {
	if limit <= 0 || len(text) <= limit {
		return []string{text}
	}
	var chunks []string
	var cur strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		for len(line) > limit {
			if cur.Len() > 0 {
				chunks = append(chunks, cur.String())
				cur.Reset()
			}
			cut := limit
			for cut > 0 && !utf8.RuneStart(line[cut]) {
				cut--
			}
			if cut == 0 {
				cut = limit
			}
			chunks = append(chunks, line[:cut])
			line = line[cut:]
		}
		if cur.Len()+len(line) > limit {
			chunks = append(chunks, cur.String())
			cur.Reset()
		}
		cur.WriteString(line)
	}
	if cur.Len() > 0 {
		chunks = append(chunks, cur.String())
	}
	return chunks
}
