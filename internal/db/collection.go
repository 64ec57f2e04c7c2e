// Package db maps domain types onto store collections.
package db

import (
	"context"
	"fmt"

	"mise/internal/model"
	"mise/internal/store"
)

// Collection names. Recipes live in "menu", which is how the shared
// household database has always named them.
const (
	RecipesPath       = "menu"
	MenusPath         = "menus"
	InventoryPath     = "inventory"
	CalendarPath      = "calendar"
	ShoppingFlatPath  = "shopping"
	ShoppingListsPath = "shoppingLists"
	ShoppingItemsName = "items"
	DiaryPath         = "diary"
)

// Collection is a typed view over one store collection.
type Collection[T any] struct {
	Path   string
	id     func(T) string
	withID func(T, string) T
}

// NewCollection builds a typed collection. id and withID read and set the
// entity's identifier.
func NewCollection[T any](path string, id func(T) string, withID func(T, string) T) Collection[T] {
	return Collection[T]{Path: path, id: id, withID: withID}
}

// ID returns the identifier of v.
func (c Collection[T]) ID(v T) string {
	return c.id(v)
}

// List retrieves every entity in the collection.
func (c Collection[T]) List(ctx context.Context, s store.Store) ([]T, error) {
	recs, err := s.List(ctx, c.Path)
	if err != nil {
		return nil, err
	}
	results := make([]T, 0, len(recs))
	for _, rec := range recs {
		v, err := c.decode(rec)
		if err != nil {
			return nil, err
		}
		results = append(results, v)
	}
	return results, nil
}

// Get retrieves a single entity by id.
func (c Collection[T]) Get(ctx context.Context, s store.Store, id string) (T, error) {
	rec, err := s.Get(ctx, c.Path, id)
	if err != nil {
		var zero T
		return zero, err
	}
	return c.decode(rec)
}

// Insert creates v and returns it carrying the store-assigned id.
func (c Collection[T]) Insert(ctx context.Context, s store.Store, v T) (T, error) {
	fields, err := store.Encode(v)
	if err != nil {
		return v, err
	}
	id, err := s.Create(ctx, c.Path, fields)
	if err != nil {
		return v, err
	}
	return c.withID(v, id), nil
}

// Update writes every field of v over the stored record.
func (c Collection[T]) Update(ctx context.Context, s store.Store, v T) error {
	id := c.id(v)
	if id == "" {
		return fmt.Errorf("cannot update %s record without id", c.Path)
	}
	fields, err := store.Encode(v)
	if err != nil {
		return err
	}
	return s.Update(ctx, c.Path, id, fields)
}

// Patch writes only the given fields.
func (c Collection[T]) Patch(ctx context.Context, s store.Store, id string, fields store.Fields) error {
	return s.Update(ctx, c.Path, id, fields)
}

// Delete removes the entity with the given id.
func (c Collection[T]) Delete(ctx context.Context, s store.Store, id string) error {
	return s.Delete(ctx, c.Path, id)
}

// Restore writes v back under its existing id.
func (c Collection[T]) Restore(ctx context.Context, s store.Store, v T) error {
	fields, err := store.Encode(v)
	if err != nil {
		return err
	}
	return s.Put(ctx, c.Path, c.id(v), fields)
}

func (c Collection[T]) decode(rec store.Record) (T, error) {
	var v T
	if err := store.Decode(rec, &v); err != nil {
		return v, err
	}
	return c.withID(v, rec.ID), nil
}

// Typed collections.
var (
	Recipes = NewCollection(RecipesPath,
		func(r model.Recipe) string { return r.ID },
		func(r model.Recipe, id string) model.Recipe { r.ID = id; return r })

	Menus = NewCollection(MenusPath,
		func(m model.Menu) string { return m.ID },
		func(m model.Menu, id string) model.Menu { m.ID = id; return m })

	Inventory = NewCollection(InventoryPath,
		func(i model.InventoryItem) string { return i.ID },
		func(i model.InventoryItem, id string) model.InventoryItem { i.ID = id; return i })

	Calendar = NewCollection(CalendarPath,
		func(e model.CalendarEntry) string { return e.ID },
		func(e model.CalendarEntry, id string) model.CalendarEntry { e.ID = id; return e })

	ShoppingLists = NewCollection(ShoppingListsPath,
		func(l model.ShoppingList) string { return l.ID },
		func(l model.ShoppingList, id string) model.ShoppingList { l.ID = id; return l })

	Diary = NewCollection(DiaryPath,
		func(d model.DiaryEntry) string { return d.ID },
		func(d model.DiaryEntry, id string) model.DiaryEntry { d.ID = id; return d })
)

func shoppingItemID(i model.ShoppingItem) string { return i.ID }

func shoppingItemWithID(i model.ShoppingItem, id string) model.ShoppingItem {
	i.ID = id
	return i
}
