package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func openBackends(t *testing.T) map[string]Store {
	t.Helper()
	sqlite, err := OpenSQLite(filepath.Join(t.TempDir(), "mise.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })
	return map[string]Store{
		"sqlite": sqlite,
		"memory": NewMemory(),
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			id, err := s.Create(ctx, "inventory", Fields{"name": "Flour", "quantity": 2, "unit": "kg"})
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			if id == "" {
				t.Fatal("Create returned empty id")
			}

			rec, err := s.Get(ctx, "inventory", id)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if rec.Fields["name"] != "Flour" {
				t.Errorf("name = %v, want Flour", rec.Fields["name"])
			}
			if rec.Fields["quantity"] != float64(2) {
				t.Errorf("quantity = %v, want 2", rec.Fields["quantity"])
			}

			if err := s.Update(ctx, "inventory", id, Fields{"quantity": 5}); err != nil {
				t.Fatalf("Update: %v", err)
			}
			rec, err = s.Get(ctx, "inventory", id)
			if err != nil {
				t.Fatalf("Get after update: %v", err)
			}
			if rec.Fields["quantity"] != float64(5) || rec.Fields["unit"] != "kg" {
				t.Errorf("merge update lost fields: %v", rec.Fields)
			}

			if err := s.Delete(ctx, "inventory", id); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, err := s.Get(ctx, "inventory", id); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get after delete err = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestStoreUpdateMissing(t *testing.T) {
	ctx := context.Background()
	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			err := s.Update(ctx, "menus", "nope", Fields{"name": "x"})
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("Update missing err = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestStoreListOrderAndSubCollections(t *testing.T) {
	ctx := context.Background()
	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			weekly := Sub("shoppingLists", "a", "items")
			party := Sub("shoppingLists", "b", "items")
			for _, n := range []string{"Milk", "Eggs", "Bread"} {
				if _, err := s.Create(ctx, weekly, Fields{"name": n}); err != nil {
					t.Fatalf("Create: %v", err)
				}
			}
			if _, err := s.Create(ctx, party, Fields{"name": "Chips"}); err != nil {
				t.Fatalf("Create: %v", err)
			}

			recs, err := s.List(ctx, weekly)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(recs) != 3 {
				t.Fatalf("len = %d, want 3", len(recs))
			}
			want := []string{"Milk", "Eggs", "Bread"}
			for i, r := range recs {
				if r.Fields["name"] != want[i] {
					t.Errorf("recs[%d] = %v, want %s", i, r.Fields["name"], want[i])
				}
			}

			recs, err = s.List(ctx, party)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(recs) != 1 {
				t.Errorf("party list len = %d, want 1", len(recs))
			}
		})
	}
}

func TestStorePutRestoresID(t *testing.T) {
	ctx := context.Background()
	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Put(ctx, "diary", "fixed-id", Fields{"notes": "first"}); err != nil {
				t.Fatalf("Put: %v", err)
			}
			if err := s.Put(ctx, "diary", "fixed-id", Fields{"notes": "second"}); err != nil {
				t.Fatalf("Put overwrite: %v", err)
			}
			rec, err := s.Get(ctx, "diary", "fixed-id")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if rec.Fields["notes"] != "second" {
				t.Errorf("notes = %v, want second", rec.Fields["notes"])
			}
			recs, _ := s.List(ctx, "diary")
			if len(recs) != 1 {
				t.Errorf("len = %d, want 1", len(recs))
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"menus", false},
		{"shoppingLists/abc/items", false},
		{"", true},
		{"shoppingLists/abc", true},
		{"shoppingLists//items", true},
	}
	for _, tt := range tests {
		err := ValidatePath(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePath(%q) err = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
	}
}

func TestEncodeDropsID(t *testing.T) {
	type item struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	fields, err := Encode(item{ID: "x", Name: "Salt"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, ok := fields["id"]; ok {
		t.Error("Encode kept id")
	}

	var out item
	if err := Decode(Record{ID: "x", Fields: fields}, &out); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.Name != "Salt" {
		t.Errorf("Name = %q, want Salt", out.Name)
	}
}
