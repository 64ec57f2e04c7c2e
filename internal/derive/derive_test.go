package derive

import (
	"math"
	"testing"
	"time"

	"mise/internal/model"
)

var pantry = []model.InventoryItem{
	{Name: "All-Purpose Flour", Category: model.CategoryBaking},
	{Name: "Whole milk", Category: model.CategoryDairy},
	{Name: "Eggs", Category: model.CategoryDairy},
}

func TestIsIngredientInStock(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"flour", true},
		{"FLOUR", true},
		{"milk", true},
		{"egg", true},
		{"saffron", false},
		{"", false},
		{"   ", false},
		{"milk ", false},
		{" milk", true},
	}
	for _, tt := range tests {
		if got := IsIngredientInStock(tt.name, pantry); got != tt.want {
			t.Errorf("IsIngredientInStock(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
	if IsIngredientInStock("flour", nil) {
		t.Error("empty inventory should never be in stock")
	}
}

func TestHasAllIngredientsInStock(t *testing.T) {
	tests := []struct {
		name   string
		recipe model.Recipe
		want   bool
	}{
		{"no ingredients", model.Recipe{Name: "Air"}, false},
		{"all matched", model.Recipe{Ingredients: []model.Ingredient{{Name: "flour"}, {Name: "eggs"}}}, true},
		{"one missing", model.Recipe{Ingredients: []model.Ingredient{{Name: "flour"}, {Name: "saffron"}}}, false},
		{"unnamed ingredient", model.Recipe{Ingredients: []model.Ingredient{{Name: ""}}}, false},
	}
	for _, tt := range tests {
		if got := HasAllIngredientsInStock(tt.recipe, pantry); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestMissingIngredients(t *testing.T) {
	r := model.Recipe{Ingredients: []model.Ingredient{
		{Name: "Saffron", Quantity: 1, Unit: "pinch"},
		{Name: "Flour", Quantity: 2, Unit: "cup"},
		{Name: "Butter", Quantity: 100, Unit: "g"},
	}}
	got := MissingIngredients(r, pantry)
	if len(got) != 2 || got[0].Name != "Saffron" || got[1].Name != "Butter" {
		t.Fatalf("MissingIngredients = %+v", got)
	}
	if got := MissingIngredients(model.Recipe{}, pantry); len(got) != 0 {
		t.Errorf("MissingIngredients(empty) = %+v", got)
	}
}

func TestStockSummary(t *testing.T) {
	recipes := []model.Recipe{
		{Ingredients: []model.Ingredient{{Name: "flour"}}},
		{Ingredients: []model.Ingredient{{Name: "saffron"}}},
		{},
	}
	in, total := StockSummary(recipes, pantry)
	if in != 1 || total != 3 {
		t.Errorf("StockSummary = %d/%d, want 1/3", in, total)
	}
}

func TestExpirationStatus(t *testing.T) {
	now := time.Date(2025, 6, 10, 18, 45, 0, 0, time.Local)
	day := func(offset int) string {
		return now.AddDate(0, 0, offset).Format("2006-01-02")
	}
	tests := []struct {
		date string
		want Status
	}{
		{day(0), StatusExpiringSoon},
		{day(1), StatusExpiringSoon},
		{day(7), StatusExpiringSoon},
		{day(8), StatusNone},
		{day(-1), StatusExpired},
		{day(-30), StatusExpired},
		{"", StatusNone},
		{"next week", StatusNone},
	}
	for _, tt := range tests {
		if got := ExpirationStatus(tt.date, now); got != tt.want {
			t.Errorf("ExpirationStatus(%q) = %v, want %v", tt.date, got, tt.want)
		}
	}
}

func TestAggregateTime(t *testing.T) {
	menu := model.Menu{Recipes: []model.Recipe{
		{PrepTime: "30 mins", CookTime: "1 hour"},
		{PrepTime: "15 mins", CookTime: "20"},
		{PrepTime: "quick", CookTime: ""},
	}}
	got := AggregateTime(menu)
	if got.Prep != 45 || got.Cook != 21 {
		t.Errorf("AggregateTime = %+v, want {45 21}", got)
	}
}

func TestLeadingInt(t *testing.T) {
	tests := map[string]int{
		"30 mins": 30,
		"  12min": 12,
		"-5":      -5,
		"+7 h":    7,
		"quick":   0,
		"":        0,
		"1.5 h":   1,

		"99999999999999999999 mins":  math.MaxInt,
		"-99999999999999999999 mins": -math.MaxInt,
	}
	for in, want := range tests {
		if got := LeadingInt(in); got != want {
			t.Errorf("LeadingInt(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestAggregateTimeSaturates(t *testing.T) {
	menu := model.Menu{Recipes: []model.Recipe{
		{PrepTime: "99999999999999999999 mins", CookTime: "10"},
		{PrepTime: "5 mins", CookTime: "20"},
	}}
	got := AggregateTime(menu)
	if got.Prep != math.MaxInt || got.Cook != 30 {
		t.Errorf("AggregateTime = %+v, want Prep=MaxInt Cook=30", got)
	}
}

func TestPricePerUnit(t *testing.T) {
	if got := PricePerUnit(10, 4); got != 2.5 {
		t.Errorf("PricePerUnit(10, 4) = %v", got)
	}
	// Zero quantity is not guarded; the result just has to be non-finite.
	if got := PricePerUnit(10, 0); !math.IsInf(got, 0) && !math.IsNaN(got) {
		t.Errorf("PricePerUnit(10, 0) = %v, want non-finite", got)
	}
	if got := PricePerUnit(0, 0); !math.IsNaN(got) {
		t.Errorf("PricePerUnit(0, 0) = %v, want NaN", got)
	}
}

func TestCheapestVariant(t *testing.T) {
	products := []model.ProductVariant{
		{ProductName: "A", PricePerUnit: math.Inf(1)},
		{ProductName: "B", PricePerUnit: 0.8},
		{ProductName: "C", PricePerUnit: 0.5},
		{ProductName: "D", PricePerUnit: math.NaN()},
	}
	if got := CheapestVariant(products); got != 2 {
		t.Errorf("CheapestVariant = %d, want 2", got)
	}
	if got := CheapestVariant(nil); got != -1 {
		t.Errorf("CheapestVariant(nil) = %d, want -1", got)
	}
}

func TestTotalServings(t *testing.T) {
	m := model.Menu{Recipes: []model.Recipe{{Servings: 4}, {Servings: 2}}}
	if got := TotalServings(m); got != 6 {
		t.Errorf("TotalServings = %d", got)
	}
}
