package storage

import (
	"context"
	"testing"
	"time"

	"github.com/yourusername/order-desk-bot/internal/domain/entity"
)

func TestMemoryAdmin_SessionTTL(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAdminRepository(time.Hour).(*memoryAdminRepository)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }

	if err := repo.CreateSession(ctx, entity.AdminSession{UserID: 42, IsAdmin: true}); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if ok, _ := repo.IsAdmin(ctx, 42); !ok {
		t.Fatalf("IsAdmin right after login = false")
	}
	if ok, _ := repo.IsAdmin(ctx, 7); ok {
		t.Fatalf("IsAdmin for unknown user = true")
	}

	now = now.Add(2 * time.Hour)
	if ok, _ := repo.IsAdmin(ctx, 42); ok {
		t.Fatalf("IsAdmin after ttl = true")
	}
	if _, err := repo.GetSession(ctx, 42); err == nil {
		t.Fatalf("GetSession after ttl should fail")
	}
}

func TestMemoryAdmin_Logout(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAdminRepository(0)
	_ = repo.CreateSession(ctx, entity.AdminSession{UserID: 1, IsAdmin: true})
	if err := repo.DeleteSession(ctx, 1); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if ok, _ := repo.IsAdmin(ctx, 1); ok {
		t.Fatalf("IsAdmin after logout = true")
	}
}

func TestMemoryAdmin_GetActionsNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAdminRepository(time.Hour)
	for _, a := range []string{"login", "upload_catalog", "override_price"} {
		if err := repo.LogAction(ctx, entity.AdminAction{Action: a}); err != nil {
			t.Fatalf("LogAction: %v", err)
		}
	}

	got, err := repo.GetActions(ctx, 2)
	if err != nil {
		t.Fatalf("GetActions: %v", err)
	}
	if len(got) != 2 || got[0].Action != "override_price" || got[1].Action != "upload_catalog" {
		t.Fatalf("GetActions(2) = %+v", got)
	}
	all, _ := repo.GetActions(ctx, 0)
	if len(all) != 3 {
		t.Fatalf("GetActions(0) len = %d, want 3", len(all))
	}
}
