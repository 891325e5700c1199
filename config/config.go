package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Buyurtma jadvali saqlash turlari
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// Config ilovaning konfiguratsiyasi
type Config struct {
	TelegramToken     string
	AdminPassword     string
	AllowEmptySecrets bool
	CatalogPath       string
	OrdersPath        string
	OrderStore        string
	OrderDBPath       string
	PostgresDSN       string
	PriceFloor        float64
	AdminSessionTTL   time.Duration
}

// Load konfiguratsiyani yuklash
func Load() (*Config, error) {
	// .env faylini yuklash (mavjud bo'lsa)
	_ = godotenv.Load()

	config := &Config{
		TelegramToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		AdminPassword:   os.Getenv("ADMIN_PASSWORD"),
		CatalogPath:     strings.TrimSpace(os.Getenv("CATALOG_PATH")),
		OrdersPath:      strings.TrimSpace(os.Getenv("ORDERS_PATH")),
		OrderStore:      StoreMemory, // Default qiymat
		OrderDBPath:     "data/orders.db",
		PostgresDSN:     BuildPostgresDSN(),
		PriceFloor:      0.01,
		AdminSessionTTL: 24 * time.Hour,
	}

	if raw := strings.TrimSpace(os.Getenv("ALLOW_EMPTY_SECRETS")); raw != "" {
		allow, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("ALLOW_EMPTY_SECRETS noto'g'ri formatda: %v", err)
		}
		config.AllowEmptySecrets = allow
	}

	if store := strings.ToLower(strings.TrimSpace(os.Getenv("ORDER_STORE"))); store != "" {
		config.OrderStore = store
	}

	if dbPath := os.Getenv("ORDER_DB_PATH"); dbPath != "" {
		config.OrderDBPath = dbPath
	}

	if raw := strings.TrimSpace(os.Getenv("PRICE_FLOOR")); raw != "" {
		floor, err := strconv.ParseFloat(raw, 64)
		if err != nil || floor <= 0 {
			return nil, fmt.Errorf("PRICE_FLOOR noto'g'ri formatda: %q", raw)
		}
		config.PriceFloor = floor
	}

	if raw := strings.TrimSpace(os.Getenv("ADMIN_SESSION_TTL")); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil || ttl <= 0 {
			return nil, fmt.Errorf("ADMIN_SESSION_TTL noto'g'ri formatda: %q", raw)
		}
		config.AdminSessionTTL = ttl
	}

	// Validatsiya
	switch config.OrderStore {
	case StoreMemory, StoreSQLite:
	case StorePostgres:
		if config.PostgresDSN == "" {
			return nil, fmt.Errorf("ORDER_STORE=postgres, lekin POSTGRES_HOST/USER/DB bo'sh")
		}
	default:
		return nil, fmt.Errorf("ORDER_STORE noma'lum: %s", config.OrderStore)
	}

	if !config.AllowEmptySecrets {
		if config.TelegramToken == "" {
			return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable bo'sh")
		}
		if config.AdminPassword == "" {
			return nil, fmt.Errorf("ADMIN_PASSWORD environment variable bo'sh")
		}
	}

	return config, nil
}

// BuildPostgresDSN POSTGRES_* o'zgaruvchilaridan URL yig'ish; host/user/db bo'lmasa ""
func BuildPostgresDSN() string {
	host := strings.TrimSpace(os.Getenv("POSTGRES_HOST"))
	user := strings.TrimSpace(os.Getenv("POSTGRES_USER"))
	password := os.Getenv("POSTGRES_PASSWORD")
	db := strings.TrimSpace(os.Getenv("POSTGRES_DB"))
	port := strings.TrimSpace(os.Getenv("POSTGRES_PORT"))
	sslmode := strings.TrimSpace(os.Getenv("POSTGRES_SSLMODE"))

	if host == "" || user == "" || db == "" {
		return ""
	}
	if port == "" {
		port = "5432"
	}
	if sslmode == "" {
		sslmode = "disable"
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(host, port),
		Path:   "/" + strings.TrimPrefix(db, "/"),
	}
	if password == "" {
		u.User = url.User(user)
	} else {
		u.User = url.UserPassword(user, password)
	}
	q := u.Query()
	q.Set("sslmode", sslmode)
	u.RawQuery = q.Encode()
	return u.String()
}
