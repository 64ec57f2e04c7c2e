package db

import (
	"fmt"

	"mise/internal/model"
	"mise/internal/store"
)

// Shopping storage layouts. The flat layout keeps every item in one
// collection; the lists layout nests items under named lists.
const (
	LayoutLists = "lists"
	LayoutFlat  = "flat"
)

// ParseLayout validates a layout name. Empty selects the lists layout.
func ParseLayout(s string) (string, error) {
	switch s {
	case "", LayoutLists:
		return LayoutLists, nil
	case LayoutFlat:
		return LayoutFlat, nil
	default:
		return "", fmt.Errorf("unknown shopping layout %q (want %q or %q)", s, LayoutLists, LayoutFlat)
	}
}

// ShoppingItems returns the item collection of a shopping list.
func ShoppingItems(listID string) Collection[model.ShoppingItem] {
	return NewCollection(store.Sub(ShoppingListsPath, listID, ShoppingItemsName), shoppingItemID, shoppingItemWithID)
}

// FlatShopping is the single-collection shopping layout.
var FlatShopping = NewCollection(ShoppingFlatPath, shoppingItemID, shoppingItemWithID)

// ItemsFor picks the item collection for a layout. listID is ignored by the
// flat layout.
func ItemsFor(layout, listID string) (Collection[model.ShoppingItem], error) {
	if layout == LayoutFlat {
		return FlatShopping, nil
	}
	if listID == "" {
		return Collection[model.ShoppingItem]{}, fmt.Errorf("no active shopping list")
	}
	return ShoppingItems(listID), nil
}
