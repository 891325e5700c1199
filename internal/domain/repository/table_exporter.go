package repository

import "github.com/yourusername/order-desk-bot/internal/domain/entity"

// TableExporter buyurtmalarni fayl ko'rinishiga o'tkazish
type TableExporter interface {
	// Extension fayl kengaytmasi ("csv", "xlsx")
	Extension() string

	// Export faqat aktiv qatorlarni yozish
	Export(lines []entity.OrderLine) ([]byte, error)
}
