package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/yourusername/order-desk-bot/internal/domain/entity"
	"github.com/yourusername/order-desk-bot/internal/domain/repository"
)

var _ repository.OrderRepository = (*SQLOrderRepository)(nil)

// orderQueries dialektga bog'liq SQL so'rovlar
type orderQueries struct {
	schema string
	upsert string
	get    string
	list   string
	delete string
	clear  string
}

// SQLOrderRepository jadvalni msgpack blob sifatida saqlaydi (sqlite va postgres uchun umumiy)
type SQLOrderRepository struct {
	db *sql.DB
	q  orderQueries
}

func newSQLOrderRepository(db *sql.DB, q orderQueries) (*SQLOrderRepository, error) {
	if _, err := db.Exec(q.schema); err != nil {
		return nil, fmt.Errorf("schema yaratib bo'lmadi: %w", err)
	}
	return &SQLOrderRepository{db: db, q: q}, nil
}

// Save jadvalni to'liq almashtirish
func (s *SQLOrderRepository) Save(ctx context.Context, table entity.OrderTable) error {
	if table.SessionID == "" {
		return fmt.Errorf("session id bo'sh bo'lmasligi kerak")
	}
	if table.UpdatedAt.IsZero() {
		table.UpdatedAt = time.Now()
	}
	data, err := encodeTable(table)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, s.q.upsert, table.SessionID, data, table.UpdatedAt.UTC()); err != nil {
		return fmt.Errorf("failed to save order table %s: %w", table.SessionID, err)
	}
	return nil
}

// Get sessiya jadvalini olish
func (s *SQLOrderRepository) Get(ctx context.Context, sessionID string) (*entity.OrderTable, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, s.q.get, sessionID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", repository.ErrTableNotFound, sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order table %s: %w", sessionID, err)
	}
	return decodeTable(data)
}

// List barcha sessiya IDlari
func (s *SQLOrderRepository) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, s.q.list)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Delete sessiya jadvalini o'chirish
func (s *SQLOrderRepository) Delete(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, s.q.delete, sessionID)
	return err
}

// Clear barcha jadvallarni o'chirish
func (s *SQLOrderRepository) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, s.q.clear)
	return err
}

// Close ulanishni yopish
func (s *SQLOrderRepository) Close() error {
	return s.db.Close()
}
