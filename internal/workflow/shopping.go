package workflow

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"mise/internal/db"
	"mise/internal/derive"
	"mise/internal/model"
	"mise/internal/store"
)

// Shopping holds the shopping view's state: the storage layout, the known
// lists, the active list pointer and the active list's items.
type Shopping struct {
	Layout string
	Lists  *Mirror[model.ShoppingList]
	Items  *Mirror[model.ShoppingItem]

	mu       sync.RWMutex
	activeID string
}

// NewShopping returns empty shopping state for layout.
func NewShopping(layout string) *Shopping {
	return &Shopping{
		Layout: layout,
		Lists:  NewShoppingListMirror(),
		Items:  NewShoppingItemMirror(),
	}
}

// ActiveID returns the id of the active list, empty for the flat layout or
// when no list exists.
func (sh *Shopping) ActiveID() string {
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	return sh.activeID
}

// Active returns the active list.
func (sh *Shopping) Active() (model.ShoppingList, bool) {
	return sh.Lists.Find(sh.ActiveID())
}

// Collection returns the item collection of the active list.
func (sh *Shopping) Collection() (db.Collection[model.ShoppingItem], error) {
	return db.ItemsFor(sh.Layout, sh.ActiveID())
}

func (sh *Shopping) setActive(id string) {
	sh.mu.Lock()
	sh.activeID = id
	sh.mu.Unlock()
}

// LoadShopping loads the lists and the items of the preferred list, or of the
// first list when preferred is unknown. With the flat layout only the flat
// collection is loaded.
func LoadShopping(ctx context.Context, s *Service, sh *Shopping, preferred string) error {
	if sh.Layout == db.LayoutFlat {
		return Load(ctx, s, db.FlatShopping, sh.Items)
	}
	if err := Load(ctx, s, db.ShoppingLists, sh.Lists); err != nil {
		return err
	}
	target := ""
	if _, ok := sh.Lists.Find(preferred); ok {
		target = preferred
	} else if lists := sh.Lists.Items(); len(lists) > 0 {
		target = lists[0].ID
	}
	if target == "" {
		sh.setActive("")
		sh.Items.Reset(nil)
		return nil
	}
	return SwitchShoppingList(ctx, s, sh, target)
}

// SwitchShoppingList makes listID the active list and reloads its items. The
// pointer only moves once the items were loaded.
func SwitchShoppingList(ctx context.Context, s *Service, sh *Shopping, listID string) error {
	if sh.Layout == db.LayoutFlat {
		return fmt.Errorf("the flat shopping layout has no lists")
	}
	items, err := db.ShoppingItems(listID).List(ctx, s.Store)
	if err != nil {
		return s.fail("switch shopping list", db.ShoppingListsPath, listID, fmt.Errorf("failed to load shopping list %s: %w", listID, err))
	}
	sh.setActive(listID)
	sh.Items.Reset(items)
	return nil
}

// CreateShoppingList stores a new list and makes it active.
func CreateShoppingList(ctx context.Context, s *Service, sh *Shopping, name string) (model.ShoppingList, error) {
	if name == "" {
		return model.ShoppingList{}, fmt.Errorf("list name is required")
	}
	list, err := Create(ctx, s, db.ShoppingLists, sh.Lists, model.ShoppingList{Name: name})
	if err != nil {
		return list, err
	}
	sh.setActive(list.ID)
	sh.Items.Reset(nil)
	return list, nil
}

// EnsureShoppingList creates a list named name when the lists layout has no
// list at all.
func EnsureShoppingList(ctx context.Context, s *Service, sh *Shopping, name string) error {
	if sh.Layout == db.LayoutFlat || sh.Lists.Len() > 0 {
		return nil
	}
	_, err := CreateShoppingList(ctx, s, sh, name)
	return err
}

// DeleteShoppingList deletes the list's items and then the list. A failure
// part way leaves the remaining items in place. When the active list is
// deleted the first remaining list becomes active.
func DeleteShoppingList(ctx context.Context, s *Service, sh *Shopping, listID string) error {
	items := db.ShoppingItems(listID)
	stored, err := items.List(ctx, s.Store)
	if err != nil {
		return s.fail("delete shopping list", items.Path, "", err)
	}
	for _, it := range stored {
		if err := items.Delete(ctx, s.Store, it.ID); err != nil {
			return s.fail("delete shopping list", items.Path, it.ID, err)
		}
	}
	if err := Delete(ctx, s, db.ShoppingLists, sh.Lists, listID); err != nil {
		return err
	}
	if sh.ActiveID() != listID {
		return nil
	}
	if lists := sh.Lists.Items(); len(lists) > 0 {
		return SwitchShoppingList(ctx, s, sh, lists[0].ID)
	}
	sh.setActive("")
	sh.Items.Reset(nil)
	return nil
}

// ToggleCompleted flips an item between pending and completed, writing only
// the completed field.
func ToggleCompleted(ctx context.Context, s *Service, items db.Collection[model.ShoppingItem], m *Mirror[model.ShoppingItem], id string) (model.ShoppingItem, error) {
	item, ok := m.Find(id)
	if !ok {
		return item, fmt.Errorf("shopping item %s: %w", id, store.ErrNotFound)
	}
	item.Completed = !item.Completed
	if err := items.Patch(ctx, s.Store, id, store.Fields{"completed": item.Completed}); err != nil {
		return item, s.fail("toggle completed", items.Path, id, fmt.Errorf("failed to toggle %s: %w", item.Name, err))
	}
	m.Put(item)
	return item, nil
}

// AddProductVariant appends a product to an item. The price per unit is
// recomputed from price and quantity.
func AddProductVariant(ctx context.Context, s *Service, items db.Collection[model.ShoppingItem], m *Mirror[model.ShoppingItem], id string, p model.ProductVariant) (model.ShoppingItem, error) {
	if err := p.Validate(); err != nil {
		return model.ShoppingItem{}, err
	}
	item, ok := m.Find(id)
	if !ok {
		return item, fmt.Errorf("shopping item %s: %w", id, store.ErrNotFound)
	}
	p.PricePerUnit = derive.PricePerUnit(p.Price, p.Quantity)
	products := append(append([]model.ProductVariant{}, item.Products...), p)
	if err := writeProducts(ctx, s, items, id, products); err != nil {
		return item, err
	}
	item.Products = products
	m.Put(item)
	s.Log.Debug("product added", zap.String("item", item.Name), zap.String("product", p.ProductName))
	return item, nil
}

// RemoveProductVariant drops the product at index from an item.
func RemoveProductVariant(ctx context.Context, s *Service, items db.Collection[model.ShoppingItem], m *Mirror[model.ShoppingItem], id string, index int) (model.ShoppingItem, error) {
	item, ok := m.Find(id)
	if !ok {
		return item, fmt.Errorf("shopping item %s: %w", id, store.ErrNotFound)
	}
	if index < 0 || index >= len(item.Products) {
		return item, fmt.Errorf("product %d out of range", index)
	}
	products := append(append([]model.ProductVariant{}, item.Products[:index]...), item.Products[index+1:]...)
	if err := writeProducts(ctx, s, items, id, products); err != nil {
		return item, err
	}
	item.Products = products
	m.Put(item)
	return item, nil
}

func writeProducts(ctx context.Context, s *Service, items db.Collection[model.ShoppingItem], id string, products []model.ProductVariant) error {
	fields, err := store.Encode(struct {
		Products []model.ProductVariant `json:"products"`
	}{products})
	if err != nil {
		return err
	}
	if err := items.Patch(ctx, s.Store, id, fields); err != nil {
		return s.fail("update products", items.Path, id, fmt.Errorf("failed to update products: %w", err))
	}
	return nil
}
