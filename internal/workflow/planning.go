package workflow

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"mise/internal/db"
	"mise/internal/derive"
	"mise/internal/model"
	"mise/internal/util"
)

// MissingIngredientCategory is the category given to shopping items created
// from a recipe's missing ingredients.
const MissingIngredientCategory = "Ingredients"

// ScheduleMenu fetches the menu and writes a calendar entry carrying a copy
// of it. Nothing is written when the menu cannot be fetched.
func ScheduleMenu(ctx context.Context, s *Service, m *Mirror[model.CalendarEntry], date, menuID string) (model.CalendarEntry, error) {
	if err := util.ValidateDate(date); err != nil {
		return model.CalendarEntry{}, fmt.Errorf("invalid date %q", date)
	}
	if strings.TrimSpace(menuID) == "" {
		return model.CalendarEntry{}, fmt.Errorf("no menu selected")
	}

	menu, err := db.Menus.Get(ctx, s.Store, menuID)
	if err != nil {
		return model.CalendarEntry{}, s.fail("schedule menu", db.MenusPath, menuID, fmt.Errorf("failed to fetch menu %s: %w", menuID, err))
	}

	entry := model.CalendarEntry{Date: date, MenuID: menu.ID, Menu: menu.Clone()}
	created, err := db.Calendar.Insert(ctx, s.Store, entry)
	if err != nil {
		return model.CalendarEntry{}, s.fail("schedule menu", db.CalendarPath, "", fmt.Errorf("failed to create calendar entry: %w", err))
	}
	m.Put(created)
	s.Log.Info("menu scheduled", zap.String("date", date), zap.String("menu", menu.Name))
	return created, nil
}

// SaveMenu snapshots the selected recipes into menu and creates or updates
// it depending on whether it already has an id.
func SaveMenu(ctx context.Context, s *Service, m *Mirror[model.Menu], menu model.Menu, selected []model.Recipe) (model.Menu, error) {
	menu.Recipes = make([]model.Recipe, len(selected))
	for i, r := range selected {
		menu.Recipes[i] = r.Clone()
	}
	if err := menu.Validate(); err != nil {
		return menu, err
	}
	if menu.ID == "" {
		return Create(ctx, s, db.Menus, m, menu)
	}
	return menu, Update(ctx, s, db.Menus, m, menu)
}

// AddMissingIngredients creates one shopping item per ingredient of recipe
// that is not in inventory. Items are written one by one; on failure the
// items already written stay and are returned along with the error.
func AddMissingIngredients(ctx context.Context, s *Service, items db.Collection[model.ShoppingItem], m *Mirror[model.ShoppingItem], recipe model.Recipe, inventory []model.InventoryItem) ([]model.ShoppingItem, error) {
	var added []model.ShoppingItem
	for _, ing := range derive.MissingIngredients(recipe, inventory) {
		item := model.ShoppingItem{
			Name:     ing.Name,
			Category: MissingIngredientCategory,
			Products: []model.ProductVariant{},
		}
		created, err := items.Insert(ctx, s.Store, item)
		if err != nil {
			s.Log.Warn("adding missing ingredients stopped",
				zap.String("recipe", recipe.Name),
				zap.Int("added", len(added)))
			return added, s.fail("add missing ingredient", items.Path, "", fmt.Errorf("failed to add %q: %w", ing.Name, err))
		}
		m.Put(created)
		added = append(added, created)
	}
	return added, nil
}

// SaveDiaryEntry drops blank meal lines and creates or updates the entry.
func SaveDiaryEntry(ctx context.Context, s *Service, m *Mirror[model.DiaryEntry], d model.DiaryEntry) (model.DiaryEntry, error) {
	d.Meals = model.Meals{
		Breakfast: nonBlank(d.Meals.Breakfast),
		Lunch:     nonBlank(d.Meals.Lunch),
		Dinner:    nonBlank(d.Meals.Dinner),
		Snacks:    nonBlank(d.Meals.Snacks),
	}
	if d.ID == "" {
		return Create(ctx, s, db.Diary, m, d)
	}
	return d, Update(ctx, s, db.Diary, m, d)
}

func nonBlank(lines []string) []string {
	out := []string{}
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
