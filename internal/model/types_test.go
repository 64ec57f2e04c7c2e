package model

import "testing"

func TestRecipeCloneIsDeep(t *testing.T) {
	r := Recipe{
		Name:         "Pancakes",
		Ingredients:  []Ingredient{{Name: "Flour", Quantity: 2, Unit: "cup"}},
		Instructions: []string{"Mix"},
	}
	c := r.Clone()
	r.Ingredients[0].Name = "Rye"
	r.Instructions[0] = "Stir"

	if c.Ingredients[0].Name != "Flour" {
		t.Errorf("clone ingredient changed to %q", c.Ingredients[0].Name)
	}
	if c.Instructions[0] != "Mix" {
		t.Errorf("clone instruction changed to %q", c.Instructions[0])
	}
}

func TestMenuCloneIsDeep(t *testing.T) {
	m := Menu{Name: "Brunch", Recipes: []Recipe{{Name: "Toast", PrepTime: "5 mins"}}}
	c := m.Clone()
	m.Recipes[0].PrepTime = "50 mins"
	if c.Recipes[0].PrepTime != "5 mins" {
		t.Errorf("clone prepTime = %q, want 5 mins", c.Recipes[0].PrepTime)
	}
}

func TestRecipeValidate(t *testing.T) {
	valid := Recipe{Name: "Soup", Servings: 2, Ingredients: []Ingredient{{Name: "Water", Quantity: 1}}}
	tests := []struct {
		name    string
		mutate  func(r *Recipe)
		wantErr bool
	}{
		{"valid", func(r *Recipe) {}, false},
		{"missing name", func(r *Recipe) { r.Name = " " }, true},
		{"zero servings", func(r *Recipe) { r.Servings = 0 }, true},
		{"no ingredients", func(r *Recipe) { r.Ingredients = nil }, true},
		{"negative quantity", func(r *Recipe) { r.Ingredients = []Ingredient{{Name: "Salt", Quantity: -1}} }, true},
		{"zero quantity ok", func(r *Recipe) { r.Ingredients = []Ingredient{{Name: "Salt", Quantity: 0}} }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid.Clone()
			tt.mutate(&r)
			if err := r.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMenuValidateRequiresRecipes(t *testing.T) {
	m := Menu{Name: "Empty", MealType: MealDinner}
	if err := m.Validate(); err == nil {
		t.Error("expected error for menu without recipes")
	}
	m.Recipes = []Recipe{{Name: "Stew"}}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestInventoryValidate(t *testing.T) {
	if err := (InventoryItem{Name: "Milk", Category: "dairy"}).Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	if err := (InventoryItem{Name: "Milk"}).Validate(); err == nil {
		t.Error("expected category error")
	}
	if err := (InventoryItem{Category: CategoryDairy}).Validate(); err == nil {
		t.Error("expected name error")
	}
}

func TestNewDiaryEntryPlaceholders(t *testing.T) {
	d := NewDiaryEntry("2025-03-01")
	for name, list := range map[string][]string{
		"breakfast": d.Meals.Breakfast,
		"lunch":     d.Meals.Lunch,
		"dinner":    d.Meals.Dinner,
		"snacks":    d.Meals.Snacks,
	} {
		if len(list) != 1 {
			t.Errorf("%s has %d entries, want 1", name, len(list))
		}
	}
}

func TestParseMealType(t *testing.T) {
	mt, err := ParseMealType("dinner")
	if err != nil || mt != MealDinner {
		t.Errorf("ParseMealType(dinner) = %q, %v", mt, err)
	}
	if _, err := ParseMealType("brunch"); err == nil {
		t.Error("expected error for unknown meal type")
	}
}
