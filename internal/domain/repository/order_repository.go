package repository

import (
	"context"
	"errors"

	"github.com/yourusername/order-desk-bot/internal/domain/entity"
)

// ErrTableNotFound sessiya uchun buyurtma jadvali yo'q
var ErrTableNotFound = errors.New("order table not found")

// OrderRepository buyurtma jadvallarini butunligicha saqlash uchun interface
type OrderRepository interface {
	// Save jadvalni to'liq almashtirish
	Save(ctx context.Context, table entity.OrderTable) error

	// Get sessiya jadvalini olish (ErrTableNotFound agar yo'q bo'lsa)
	Get(ctx context.Context, sessionID string) (*entity.OrderTable, error)

	// List barcha sessiya IDlari
	List(ctx context.Context) ([]string, error)

	// Delete sessiya jadvalini o'chirish
	Delete(ctx context.Context, sessionID string) error

	// Clear barcha jadvallarni o'chirish
	Clear(ctx context.Context) error
}
