package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/yourusername/order-desk-bot/internal/domain/entity"
)

func TestCatalogUseCase_GetCatalogAsText(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, append(coffeeCatalog(), entity.CatalogEntry{Name: "Sugar", Price: 0.9, Location: "Shelf 2"})...)

	text, err := f.catalog.GetCatalogAsText(ctx)
	if err != nil {
		t.Fatalf("GetCatalogAsText: %v", err)
	}
	for _, want := range []string{
		"🏭 Roastery:\n1. Coffee - 150.00 / kg\n2. Beans - 100.00 / kg",
		"🏭 Dairy:\n1. Milk - 1.20 / l",
		"🏭 Unknown:\n1. Sugar - 0.90 / unit (📍 Shelf 2)",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("GetCatalogAsText() missing %q:\n%s", want, text)
		}
	}

	empty := newFixture(t)
	if _, err := empty.catalog.GetCatalogAsText(ctx); !errors.Is(err, ErrNoCatalog) {
		t.Fatalf("empty catalog err = %v, want ErrNoCatalog", err)
	}
}

func TestCatalogUseCase_TokenGatedEdits(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, coffeeCatalog()...)

	if _, err := f.catalog.UpdatePrice(ctx, nil, "Coffee", 1); !errors.Is(err, ErrNotAdmin) {
		t.Fatalf("UpdatePrice without token err = %v", err)
	}
	if err := f.catalog.AddItem(ctx, nil, entity.CatalogEntry{Name: "Tea"}); !errors.Is(err, ErrNotAdmin) {
		t.Fatalf("AddItem without token err = %v", err)
	}
	if err := f.catalog.RemoveItem(ctx, nil, "Coffee"); !errors.Is(err, ErrNotAdmin) {
		t.Fatalf("RemoveItem without token err = %v", err)
	}

	tok := f.login(t, 1)
	entry, err := f.catalog.UpdatePrice(ctx, tok, " Coffee ", -5)
	if err != nil {
		t.Fatalf("UpdatePrice: %v", err)
	}
	if entry.Price != 0.01 {
		t.Fatalf("entered price should be floored, got %v", entry.Price)
	}
	if _, err := f.catalog.UpdatePrice(ctx, tok, "Tea", 1); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("UpdatePrice unknown err = %v", err)
	}

	if err := f.catalog.AddItem(ctx, tok, entity.CatalogEntry{Name: " Tea ", Price: 3, Unit: " KG "}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	ix, err := f.catalog.Index(ctx)
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	tea, ok := ix.Lookup("Tea")
	if !ok || tea.Price != 3 || tea.BaseUnit != "kg" {
		t.Fatalf("Tea in index = %+v, %v", tea, ok)
	}
	if err := f.catalog.AddItem(ctx, tok, entity.CatalogEntry{Name: " "}); err == nil {
		t.Fatalf("AddItem with blank name should fail")
	}

	if err := f.catalog.RemoveItem(ctx, tok, "Tea"); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if has, _ := f.catalog.HasProducts(ctx); !has {
		t.Fatalf("HasProducts() = false")
	}
}

func TestCatalogUseCase_Search(t *testing.T) {
	f := newFixture(t, coffeeCatalog()...)
	got, err := f.catalog.Search(context.Background(), "coff")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Coffee" {
		t.Fatalf("Search(coff) = %+v", got)
	}
}
