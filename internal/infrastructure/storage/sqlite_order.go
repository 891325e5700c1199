package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

var sqliteOrderQueries = orderQueries{
	schema: `
CREATE TABLE IF NOT EXISTS order_tables (
	session_id TEXT PRIMARY KEY,
	data BLOB NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
`,
	upsert: `INSERT OR REPLACE INTO order_tables (session_id, data, updated_at) VALUES (?, ?, ?)`,
	get:    `SELECT data FROM order_tables WHERE session_id = ?`,
	list:   `SELECT session_id FROM order_tables ORDER BY session_id`,
	delete: `DELETE FROM order_tables WHERE session_id = ?`,
	clear:  `DELETE FROM order_tables`,
}

// NewSQLiteOrderRepository SQLite asosidagi buyurtma jadvallari repository
func NewSQLiteOrderRepository(dbPath string) (*SQLOrderRepository, error) {
	if dbPath == "" {
		return nil, errors.New("db path bo'sh bo'lmasligi kerak")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("db papkasini yaratib bo'lmadi: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite ochilmadi: %w", err)
	}
	// sqlite bitta yozuvchi bilan ishlaydi
	db.SetMaxOpenConns(1)

	repo, err := newSQLOrderRepository(db, sqliteOrderQueries)
	if err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}
