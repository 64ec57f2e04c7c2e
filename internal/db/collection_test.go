package db

import (
	"context"
	"errors"
	"testing"

	"mise/internal/model"
	"mise/internal/store"
)

func TestRecipesStoredUnderMenuCollection(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	r, err := Recipes.Insert(ctx, s, model.Recipe{
		Name:        "Shakshuka",
		Servings:    2,
		PrepTime:    "10 mins",
		Ingredients: []model.Ingredient{{Name: "Eggs", Quantity: 4, Unit: "pc"}},
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if r.ID == "" {
		t.Fatal("Insert did not assign id")
	}

	recs, err := s.List(ctx, "menu")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recs) != 1 || recs[0].Fields["prepTime"] != "10 mins" {
		t.Errorf("raw menu collection = %+v", recs)
	}

	got, err := Recipes.Get(ctx, s, r.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != r.ID || got.Ingredients[0].Name != "Eggs" || got.Servings != 2 {
		t.Errorf("Get = %+v", got)
	}
}

func TestCollectionUpdatePatchDeleteRestore(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	item, err := Inventory.Insert(ctx, s, model.InventoryItem{Name: "Rice", Category: model.CategoryGrains, Quantity: 1, ExpirationDate: "2025-01-01"})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	item.Quantity = 3
	item.ExpirationDate = ""
	if err := Inventory.Update(ctx, s, item); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ := Inventory.Get(ctx, s, item.ID)
	if got.Quantity != 3 || got.ExpirationDate != "" {
		t.Errorf("after Update = %+v", got)
	}

	if err := Inventory.Patch(ctx, s, item.ID, store.Fields{"location": "Pantry"}); err != nil {
		t.Fatalf("Patch: %v", err)
	}
	got, _ = Inventory.Get(ctx, s, item.ID)
	if got.Location != "Pantry" || got.Quantity != 3 {
		t.Errorf("after Patch = %+v", got)
	}

	if err := Inventory.Delete(ctx, s, item.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := Inventory.Get(ctx, s, item.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Get after delete err = %v", err)
	}

	if err := Inventory.Restore(ctx, s, got); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	restored, err := Inventory.Get(ctx, s, item.ID)
	if err != nil {
		t.Fatalf("Get after restore: %v", err)
	}
	if restored.Location != "Pantry" {
		t.Errorf("restored = %+v", restored)
	}
}

func TestUpdateWithoutID(t *testing.T) {
	if err := Menus.Update(context.Background(), store.NewMemory(), model.Menu{Name: "x"}); err == nil {
		t.Error("expected error when updating without id")
	}
}

func TestItemsFor(t *testing.T) {
	flat, err := ItemsFor(LayoutFlat, "")
	if err != nil || flat.Path != "shopping" {
		t.Errorf("flat = %q, %v", flat.Path, err)
	}
	nested, err := ItemsFor(LayoutLists, "abc")
	if err != nil || nested.Path != "shoppingLists/abc/items" {
		t.Errorf("nested = %q, %v", nested.Path, err)
	}
	if _, err := ItemsFor(LayoutLists, ""); err == nil {
		t.Error("expected error without list id")
	}
}

func TestParseLayout(t *testing.T) {
	if l, err := ParseLayout(""); err != nil || l != LayoutLists {
		t.Errorf("ParseLayout(\"\") = %q, %v", l, err)
	}
	if _, err := ParseLayout("nested"); err == nil {
		t.Error("expected error for unknown layout")
	}
}
