package entity

import (
	"time"

	"github.com/yourusername/order-desk-bot/internal/access"
)

// AdminSession admin session together with the capability it was granted
type AdminSession struct {
	UserID       int64
	IsAdmin      bool
	Token        *access.Token
	LoginTime    time.Time
	LastActivity time.Time
}

// AdminAction audited admin action
type AdminAction struct {
	ID        string
	UserID    int64
	Action    string // "login", "upload_catalog", "override_price", "remove_product"
	Details   string
	Timestamp time.Time
}
