package filter

import (
	"reflect"
	"testing"
	"time"

	"mise/internal/derive"
	"mise/internal/model"
)

func TestMatchRecipe(t *testing.T) {
	pantry := []model.InventoryItem{{Name: "Spaghetti"}, {Name: "Eggs"}}
	carbonara := model.Recipe{
		Name:        "Carbonara",
		Description: "Roman pasta",
		Cuisine:     "Italian",
		Category:    "Main",
		Ingredients: []model.Ingredient{{Name: "spaghetti"}, {Name: "eggs"}, {Name: "guanciale"}},
	}

	tests := []struct {
		name string
		q    RecipeQuery
		want bool
	}{
		{"empty query", RecipeQuery{}, true},
		{"name", RecipeQuery{Search: "carb"}, true},
		{"description", RecipeQuery{Search: "ROMAN"}, true},
		{"cuisine", RecipeQuery{Search: "ital"}, true},
		{"ingredient", RecipeQuery{Search: "guanc"}, true},
		{"no match", RecipeQuery{Search: "curry"}, false},
		{"category match", RecipeQuery{Category: "Main"}, true},
		{"category mismatch", RecipeQuery{Category: "Dessert"}, false},
		{"cuisine filter", RecipeQuery{Cuisine: "French"}, false},
		{"stock only", RecipeQuery{StockOnly: true}, false},
		{"search and category", RecipeQuery{Search: "carb", Category: "Dessert"}, false},
	}
	for _, tt := range tests {
		if got := MatchRecipe(carbonara, tt.q, pantry); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}

	pantry = append(pantry, model.InventoryItem{Name: "Guanciale"})
	if !MatchRecipe(carbonara, RecipeQuery{StockOnly: true}, pantry) {
		t.Error("stock only should pass once every ingredient is stocked")
	}
}

func TestMatchMenu(t *testing.T) {
	m := model.Menu{
		Name:     "Sunday",
		MealType: model.MealDinner,
		Recipes:  []model.Recipe{{Name: "Roast chicken"}},
	}
	if !MatchMenu(m, MenuQuery{Search: "roast"}) {
		t.Error("menu should match embedded recipe name")
	}
	if MatchMenu(m, MenuQuery{MealType: string(model.MealLunch)}) {
		t.Error("meal type filter should exclude dinner")
	}
	if !MatchMenu(m, MenuQuery{Search: "sun", MealType: string(model.MealDinner)}) {
		t.Error("combined filters should match")
	}
}

func TestMatchInventory(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	milk := model.InventoryItem{Name: "Milk", Category: model.CategoryDairy, Location: "Fridge", ExpirationDate: "2025-06-12"}

	if !MatchInventory(milk, InventoryQuery{Search: "fridge"}, now) {
		t.Error("search should cover location")
	}
	if MatchInventory(milk, InventoryQuery{Category: model.CategoryMeat}, now) {
		t.Error("category filter should exclude dairy")
	}
	if !MatchInventory(milk, InventoryQuery{Status: derive.StatusExpiringSoon, StatusSet: true}, now) {
		t.Error("milk expires in two days")
	}
	if MatchInventory(milk, InventoryQuery{Status: derive.StatusNone, StatusSet: true}, now) {
		t.Error("status none should exclude expiring items")
	}
	if !MatchInventory(milk, InventoryQuery{Status: derive.StatusNone}, now) {
		t.Error("unset status should not filter")
	}
}

func TestMatchShoppingItem(t *testing.T) {
	item := model.ShoppingItem{
		Name:      "Coffee",
		Category:  "Beverages",
		Completed: true,
		Products:  []model.ProductVariant{{ProductName: "Lavazza Oro", Store: "Coop"}},
	}
	tests := []struct {
		q    ShoppingQuery
		want bool
	}{
		{ShoppingQuery{}, true},
		{ShoppingQuery{Search: "lavazza"}, true},
		{ShoppingQuery{Search: "coop"}, true},
		{ShoppingQuery{Show: ShowPending}, false},
		{ShoppingQuery{Show: ShowCompleted}, true},
		{ShoppingQuery{Category: "Produce"}, false},
	}
	for _, tt := range tests {
		if got := MatchShoppingItem(item, tt.q); got != tt.want {
			t.Errorf("MatchShoppingItem(%+v) = %v, want %v", tt.q, got, tt.want)
		}
	}
}

func TestMatchDiary(t *testing.T) {
	d := model.DiaryEntry{
		Date:  "2025-03-07",
		Meals: model.Meals{Breakfast: []string{"Porridge"}, Dinner: []string{"Ramen"}},
		Notes: "felt great after the run",
		Mood:  model.MoodGreat,
	}
	tests := []struct {
		q    DiaryQuery
		want bool
	}{
		{DiaryQuery{Search: "ramen"}, true},
		{DiaryQuery{Search: "the run"}, true},
		{DiaryQuery{Search: "march 7"}, true},
		{DiaryQuery{Search: "March 7, 2025"}, true},
		{DiaryQuery{Search: "2025-03-07"}, false},
		{DiaryQuery{Mood: string(model.MoodBad)}, false},
		{DiaryQuery{Date: "2025-03-07"}, true},
		{DiaryQuery{Date: "2025-03-08"}, false},
	}
	for _, tt := range tests {
		if got := MatchDiary(d, tt.q); got != tt.want {
			t.Errorf("MatchDiary(%+v) = %v, want %v", tt.q, got, tt.want)
		}
	}
}

func TestWeek(t *testing.T) {
	// 2025-06-12 is a Thursday.
	w := WeekOf(time.Date(2025, 6, 12, 22, 0, 0, 0, time.UTC))
	days := w.Days()
	if days[0] != "2025-06-09" || days[6] != "2025-06-15" {
		t.Fatalf("Days = %v", days)
	}
	if !MatchCalendar(model.CalendarEntry{Date: "2025-06-15"}, w) {
		t.Error("Sunday belongs to the week")
	}
	if MatchCalendar(model.CalendarEntry{Date: "2025-06-16"}, w) {
		t.Error("next Monday is outside the week")
	}
	if got := w.Next().Days()[0]; got != "2025-06-16" {
		t.Errorf("Next = %s", got)
	}
	if got := w.Prev().Days()[0]; got != "2025-06-02" {
		t.Errorf("Prev = %s", got)
	}
	if got := WeekOf(time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)).Days()[0]; got != "2025-06-09" {
		t.Errorf("Monday should start its own week, got %s", got)
	}
}

func TestDistinct(t *testing.T) {
	recipes := []model.Recipe{
		{Cuisine: "Italian"}, {Cuisine: "Thai"}, {Cuisine: "italian"},
		{Cuisine: "Italian"}, {Cuisine: ""}, {Cuisine: "Thai"},
	}
	got := Distinct(recipes, func(r model.Recipe) string { return r.Cuisine })
	want := []string{"Italian", "Thai", "italian"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Distinct = %v, want %v", got, want)
	}
}

func TestDistinctValuesMatch(t *testing.T) {
	items := []model.ShoppingItem{
		{Name: "Milk", Category: " Dairy"},
		{Name: "Yogurt", Category: "Dairy "},
		{Name: "Apples", Category: "Produce"},
	}
	values := Distinct(items, func(i model.ShoppingItem) string { return i.Category })
	if !reflect.DeepEqual(values, []string{"Dairy", "Produce"}) {
		t.Fatalf("Distinct = %v", values)
	}
	got := Apply(items, func(i model.ShoppingItem) bool {
		return MatchShoppingItem(i, ShoppingQuery{Category: values[0]})
	})
	if len(got) != 2 {
		t.Errorf("category %q matched %d items, want 2", values[0], len(got))
	}
}

func TestCycle(t *testing.T) {
	values := []string{"a", "b"}
	steps := []string{"a", "b", ""}
	cur := ""
	for _, want := range steps {
		cur = Cycle(values, cur)
		if cur != want {
			t.Fatalf("Cycle = %q, want %q", cur, want)
		}
	}
	if got := Cycle(nil, ""); got != "" {
		t.Errorf("Cycle(nil) = %q", got)
	}
}

func TestApply(t *testing.T) {
	items := []model.ShoppingItem{{Name: "a"}, {Name: "b", Completed: true}, {Name: "c"}}
	got := Apply(items, func(i model.ShoppingItem) bool {
		return MatchShoppingItem(i, ShoppingQuery{Show: ShowPending})
	})
	if len(got) != 2 || got[0].Name != "a" || got[1].Name != "c" {
		t.Errorf("Apply = %+v", got)
	}
}
