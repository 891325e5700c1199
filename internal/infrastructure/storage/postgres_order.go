package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/yourusername/order-desk-bot/pkg/logger"
)

const (
	postgresConnectAttemptsDefault = 5
	postgresConnectDelayDefault    = 2 * time.Second
)

var postgresOrderQueries = orderQueries{
	schema: `
CREATE TABLE IF NOT EXISTS order_tables (
	session_id TEXT PRIMARY KEY,
	data BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`,
	upsert: `
	INSERT INTO order_tables (session_id, data, updated_at)
	VALUES ($1, $2, $3)
	ON CONFLICT (session_id) DO UPDATE SET
		data=EXCLUDED.data,
		updated_at=EXCLUDED.updated_at
	`,
	get:    `SELECT data FROM order_tables WHERE session_id=$1`,
	list:   `SELECT session_id FROM order_tables ORDER BY session_id`,
	delete: `DELETE FROM order_tables WHERE session_id=$1`,
	clear:  `DELETE FROM order_tables`,
}

// NewPostgresOrderRepository Postgres asosidagi buyurtma jadvallari repository
func NewPostgresOrderRepository(ctx context.Context, dsn string) (*SQLOrderRepository, error) {
	if dsn == "" {
		return nil, errors.New("postgres DSN bo'sh")
	}
	db, err := openPostgresWithRetry(ctx, dsn, postgresConnectAttemptsDefault, postgresConnectDelayDefault)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	repo, err := newSQLOrderRepository(db, postgresOrderQueries)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create order_tables: %w", err)
	}
	return repo, nil
}

// openPostgresWithRetry baza ko'tarilguncha bir necha marta urinib ko'radi
func openPostgresWithRetry(ctx context.Context, dsn string, attempts int, delay time.Duration) (*sql.DB, error) {
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		db, err := sql.Open("postgres", dsn)
		if err == nil {
			if err = db.PingContext(ctx); err == nil {
				return db, nil
			}
			_ = db.Close()
		}
		lastErr = err
		logger.WarnLogger.Printf("⚠️ Postgres ulanish urinish %d/%d: %v", attempt, attempts, err)

		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil, fmt.Errorf("postgres connect failed after %d attempts: %w", attempts, lastErr)
}
