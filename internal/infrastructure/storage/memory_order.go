package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/yourusername/order-desk-bot/internal/domain/entity"
	"github.com/yourusername/order-desk-bot/internal/domain/repository"
)

type memoryOrderRepository struct {
	mu     sync.RWMutex
	tables map[string][]byte // key: session ID, value: msgpack snapshot
}

// NewMemoryOrderRepository in-memory buyurtma jadvallari repository
func NewMemoryOrderRepository() repository.OrderRepository {
	return &memoryOrderRepository{
		tables: make(map[string][]byte),
	}
}

// Save jadvalni to'liq almashtirish
func (m *memoryOrderRepository) Save(ctx context.Context, table entity.OrderTable) error {
	if table.SessionID == "" {
		return fmt.Errorf("session id bo'sh bo'lmasligi kerak")
	}
	data, err := encodeTable(table)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.tables[table.SessionID] = data
	return nil
}

// Get sessiya jadvalini olish. Har safar yangi nusxa qaytadi.
func (m *memoryOrderRepository) Get(ctx context.Context, sessionID string) (*entity.OrderTable, error) {
	m.mu.RLock()
	data, exists := m.tables[sessionID]
	m.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s", repository.ErrTableNotFound, sessionID)
	}
	return decodeTable(data)
}

// List barcha sessiya IDlari (tartiblangan)
func (m *memoryOrderRepository) List(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.tables))
	for id := range m.tables {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Delete sessiya jadvalini o'chirish
func (m *memoryOrderRepository) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.tables, sessionID)
	return nil
}

// Clear barcha jadvallarni o'chirish
func (m *memoryOrderRepository) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tables = make(map[string][]byte)
	return nil
}
