package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

var configEnv = []string{
	"TELEGRAM_BOT_TOKEN", "ADMIN_PASSWORD", "ALLOW_EMPTY_SECRETS", "CATALOG_PATH", "ORDERS_PATH",
	"ORDER_STORE", "ORDER_DB_PATH", "PRICE_FLOOR", "ADMIN_SESSION_TTL",
	"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB", "POSTGRES_SSLMODE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnv {
		t.Setenv(k, "")
	}
	// .env faylidan qiymat o'qilmasin
	// t.Chdir is Go 1.24+; equivalent for the local toolchain
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "tg")
	t.Setenv("ADMIN_PASSWORD", "pw")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OrderStore != StoreMemory || cfg.OrderDBPath != "data/orders.db" {
		t.Fatalf("store defaults = %s/%s", cfg.OrderStore, cfg.OrderDBPath)
	}
	if cfg.PriceFloor != 0.01 || cfg.AdminSessionTTL != 24*time.Hour {
		t.Fatalf("pricing defaults = %v/%v", cfg.PriceFloor, cfg.AdminSessionTTL)
	}
	if cfg.AdminPassword != "pw" || cfg.TelegramToken != "tg" {
		t.Fatalf("secrets not loaded: %+v", cfg)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ALLOW_EMPTY_SECRETS", "true")
	t.Setenv("ORDER_STORE", "SQLite")
	t.Setenv("ORDER_DB_PATH", "/tmp/o.db")
	t.Setenv("PRICE_FLOOR", "0.5")
	t.Setenv("ADMIN_SESSION_TTL", "90m")
	t.Setenv("CATALOG_PATH", " catalog.xlsx ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OrderStore != StoreSQLite || cfg.OrderDBPath != "/tmp/o.db" {
		t.Fatalf("store = %s/%s", cfg.OrderStore, cfg.OrderDBPath)
	}
	if cfg.PriceFloor != 0.5 || cfg.AdminSessionTTL != 90*time.Minute {
		t.Fatalf("pricing = %v/%v", cfg.PriceFloor, cfg.AdminSessionTTL)
	}
	if cfg.CatalogPath != "catalog.xlsx" {
		t.Fatalf("CatalogPath = %q", cfg.CatalogPath)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing token", map[string]string{"ADMIN_PASSWORD": "pw"}, "TELEGRAM_BOT_TOKEN"},
		{"missing password", map[string]string{"TELEGRAM_BOT_TOKEN": "tg"}, "ADMIN_PASSWORD"},
		{"bad floor", map[string]string{"ALLOW_EMPTY_SECRETS": "1", "PRICE_FLOOR": "-1"}, "PRICE_FLOOR"},
		{"bad ttl", map[string]string{"ALLOW_EMPTY_SECRETS": "1", "ADMIN_SESSION_TTL": "soon"}, "ADMIN_SESSION_TTL"},
		{"bad store", map[string]string{"ALLOW_EMPTY_SECRETS": "1", "ORDER_STORE": "redis"}, "ORDER_STORE"},
		{"postgres without dsn", map[string]string{"ALLOW_EMPTY_SECRETS": "1", "ORDER_STORE": "postgres"}, "POSTGRES"},
		{"bad allow flag", map[string]string{"ALLOW_EMPTY_SECRETS": "maybe"}, "ALLOW_EMPTY_SECRETS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load() err = %v, want mention of %s", err, tt.want)
			}
		})
	}
}

func TestBuildPostgresDSN(t *testing.T) {
	clearEnv(t)
	if got := BuildPostgresDSN(); got != "" {
		t.Fatalf("BuildPostgresDSN() without env = %q, want empty", got)
	}

	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_USER", "orders")
	t.Setenv("POSTGRES_PASSWORD", "p@ss")
	t.Setenv("POSTGRES_DB", "/desk")
	want := "postgres://orders:p%40ss@db:5432/desk?sslmode=disable"
	if got := BuildPostgresDSN(); got != want {
		t.Fatalf("BuildPostgresDSN() = %q, want %q", got, want)
	}

	t.Setenv("POSTGRES_PORT", "6543")
	t.Setenv("POSTGRES_SSLMODE", "require")
	t.Setenv("POSTGRES_PASSWORD", "")
	want = "postgres://orders@db:6543/desk?sslmode=require"
	if got := BuildPostgresDSN(); got != want {
		t.Fatalf("BuildPostgresDSN() = %q, want %q", got, want)
	}
}
