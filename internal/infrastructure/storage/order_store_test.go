package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/yourusername/order-desk-bot/internal/domain/entity"
	"github.com/yourusername/order-desk-bot/internal/domain/repository"
)

func sampleTable(session string) entity.OrderTable {
	return entity.OrderTable{
		SessionID: session,
		UpdatedAt: time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
		Lines: []entity.OrderLine{
			{Product: "Harina", Supplier: "Molinos", Quantity: 300, Unit: "g", UnitPrice: 12.5, BaseUnit: "kg", Total: 3.75},
			{Product: "Aceite", Supplier: "Olivar", Quantity: 0, Unit: "l", UnitPrice: 9, BaseUnit: "l", PriceSource: entity.PriceManual},
			{Product: "Misterio", Supplier: entity.UnknownSupplier, Unit: "unit", BaseUnit: "unit", Unknown: true},
		},
	}
}

// exerciseOrderRepository har bir OrderRepository uchun umumiy tekshiruvlar
func exerciseOrderRepository(t *testing.T, repo repository.OrderRepository) {
	t.Helper()
	ctx := context.Background()

	if _, err := repo.Get(ctx, "missing"); !errors.Is(err, repository.ErrTableNotFound) {
		t.Fatalf("Get(missing) err = %v, want ErrTableNotFound", err)
	}

	want := sampleTable("chat-1")
	if err := repo.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := repo.Save(ctx, sampleTable("chat-2")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.Get(ctx, "chat-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.SessionID != want.SessionID || !got.UpdatedAt.Equal(want.UpdatedAt) {
		t.Fatalf("Get() header = %s/%v, want %s/%v", got.SessionID, got.UpdatedAt, want.SessionID, want.UpdatedAt)
	}
	if len(got.Lines) != len(want.Lines) {
		t.Fatalf("len(Lines) = %d, want %d", len(got.Lines), len(want.Lines))
	}
	for i := range want.Lines {
		if got.Lines[i] != want.Lines[i] {
			t.Fatalf("Lines[%d] = %+v, want %+v", i, got.Lines[i], want.Lines[i])
		}
	}

	// Qaytgan jadvalni o'zgartirish saqlangan nusxaga ta'sir qilmaydi
	got.Lines[0].Quantity = 999
	again, _ := repo.Get(ctx, "chat-1")
	if again.Lines[0].Quantity != 300 {
		t.Fatalf("stored table was mutated through Get result")
	}

	// Save butunlay almashtiradi
	replaced := sampleTable("chat-1")
	replaced.Lines = replaced.Lines[:1]
	if err := repo.Save(ctx, replaced); err != nil {
		t.Fatalf("Save replace: %v", err)
	}
	again, _ = repo.Get(ctx, "chat-1")
	if len(again.Lines) != 1 {
		t.Fatalf("Save should replace whole table, got %d lines", len(again.Lines))
	}

	ids, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(ids) != 2 || ids[0] != "chat-1" || ids[1] != "chat-2" {
		t.Fatalf("List() = %v", ids)
	}

	if err := repo.Delete(ctx, "chat-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.Get(ctx, "chat-1"); !errors.Is(err, repository.ErrTableNotFound) {
		t.Fatalf("Get after Delete err = %v", err)
	}

	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	ids, _ = repo.List(ctx)
	if len(ids) != 0 {
		t.Fatalf("List after Clear = %v", ids)
	}

	if err := repo.Save(ctx, entity.OrderTable{}); err == nil {
		t.Fatalf("Save without session id should fail")
	}
}

func TestMemoryOrderRepository(t *testing.T) {
	exerciseOrderRepository(t, NewMemoryOrderRepository())
}

func TestSQLiteOrderRepository(t *testing.T) {
	repo, err := NewSQLiteOrderRepository(filepath.Join(t.TempDir(), "nested", "orders.db"))
	if err != nil {
		t.Fatalf("NewSQLiteOrderRepository: %v", err)
	}
	defer repo.Close()
	exerciseOrderRepository(t, repo)
}

func TestNewSQLiteOrderRepository_EmptyPath(t *testing.T) {
	if _, err := NewSQLiteOrderRepository(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	table := sampleTable("s")
	data, err := encodeTable(table)
	if err != nil {
		t.Fatalf("encodeTable: %v", err)
	}
	got, err := decodeTable(data)
	if err != nil {
		t.Fatalf("decodeTable: %v", err)
	}
	if got.Lines[1].PriceSource != entity.PriceManual || !got.Lines[2].Unknown {
		t.Fatalf("decodeTable lost line flags: %+v", got.Lines)
	}

	if _, err := decodeTable([]byte{0xc1}); err == nil {
		t.Fatalf("decodeTable should reject garbage")
	}
}

func TestNewPostgresOrderRepository_EmptyDSN(t *testing.T) {
	if _, err := NewPostgresOrderRepository(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty DSN")
	}
}
