package model

import (
	"fmt"
	"strings"
)

// Ingredient is one line of a recipe.
type Ingredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// Recipe represents a recipe entity. PrepTime and CookTime are free text
// durations such as "30 mins".
type Recipe struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Cuisine      string       `json:"cuisine"`
	Category     string       `json:"category"`
	Image        string       `json:"image"`
	PrepTime     string       `json:"prepTime"`
	CookTime     string       `json:"cookTime"`
	Servings     int          `json:"servings"`
	Ingredients  []Ingredient `json:"ingredients"`
	Instructions []string     `json:"instructions"`
}

// Clone returns a deep copy, used when a recipe is embedded into a menu.
func (r Recipe) Clone() Recipe {
	c := r
	c.Ingredients = append([]Ingredient(nil), r.Ingredients...)
	c.Instructions = append([]string(nil), r.Instructions...)
	return c
}

// Validate checks the constraints the recipe form enforces before saving.
func (r Recipe) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if r.Servings <= 0 {
		return fmt.Errorf("servings must be a positive number")
	}
	if len(r.Ingredients) == 0 {
		return fmt.Errorf("at least one ingredient is required")
	}
	for _, ing := range r.Ingredients {
		if strings.TrimSpace(ing.Name) == "" {
			return fmt.Errorf("ingredient name is required")
		}
		if ing.Quantity < 0 {
			return fmt.Errorf("ingredient %q has a negative quantity", ing.Name)
		}
	}
	return nil
}

// MealType is the closed set of menu types.
type MealType string

const (
	MealBreakfast  MealType = "Breakfast"
	MealLunch      MealType = "Lunch"
	MealAppetizers MealType = "Appetizers"
	MealDinner     MealType = "Dinner"
	MealDesserts   MealType = "Desserts"
	MealBeverages  MealType = "Beverages"
)

// MealTypes lists every meal type in display order.
var MealTypes = []MealType{MealBreakfast, MealLunch, MealAppetizers, MealDinner, MealDesserts, MealBeverages}

// ParseMealType matches a meal type case-insensitively.
func ParseMealType(s string) (MealType, error) {
	for _, mt := range MealTypes {
		if strings.EqualFold(strings.TrimSpace(s), string(mt)) {
			return mt, nil
		}
	}
	return "", fmt.Errorf("meal type must be one of %s", joinMealTypes())
}

func joinMealTypes() string {
	names := make([]string, len(MealTypes))
	for i, mt := range MealTypes {
		names[i] = string(mt)
	}
	return strings.Join(names, ", ")
}

// Menu groups recipe snapshots. Recipes are copies taken when the menu was
// saved and do not follow later recipe edits.
type Menu struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	MealType    MealType `json:"mealType"`
	Recipes     []Recipe `json:"recipes"`
}

// Clone returns a deep copy, used when a menu is embedded into a calendar entry.
func (m Menu) Clone() Menu {
	c := m
	c.Recipes = make([]Recipe, len(m.Recipes))
	for i, r := range m.Recipes {
		c.Recipes[i] = r.Clone()
	}
	return c
}

// Validate checks the constraints the menu form enforces before saving.
func (m Menu) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if _, err := ParseMealType(string(m.MealType)); err != nil {
		return err
	}
	if len(m.Recipes) == 0 {
		return fmt.Errorf("select at least one recipe")
	}
	return nil
}

// Inventory categories.
const (
	CategoryProduce    = "Produce"
	CategoryDairy      = "Dairy"
	CategoryMeat       = "Meat"
	CategorySeafood    = "Seafood"
	CategoryGrains     = "Grains"
	CategoryBaking     = "Baking"
	CategorySpices     = "Spices"
	CategoryCondiments = "Condiments"
	CategoryCanned     = "Canned Goods"
	CategoryFrozen     = "Frozen"
	CategoryBeverages  = "Beverages"
	CategorySnacks     = "Snacks"
	CategoryOther      = "Other"
)

// InventoryCategories is the closed list of pantry categories.
var InventoryCategories = []string{
	CategoryProduce, CategoryDairy, CategoryMeat, CategorySeafood, CategoryGrains,
	CategoryBaking, CategorySpices, CategoryCondiments, CategoryCanned,
	CategoryFrozen, CategoryBeverages, CategorySnacks, CategoryOther,
}

// ParseInventoryCategory matches a category case-insensitively.
func ParseInventoryCategory(s string) (string, error) {
	for _, c := range InventoryCategories {
		if strings.EqualFold(strings.TrimSpace(s), c) {
			return c, nil
		}
	}
	return "", fmt.Errorf("category must be one of %s", strings.Join(InventoryCategories, ", "))
}

// InventoryItem is one pantry entry. ExpirationDate is YYYY-MM-DD or empty.
type InventoryItem struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Quantity       float64 `json:"quantity"`
	Unit           string  `json:"unit"`
	Category       string  `json:"category"`
	ExpirationDate string  `json:"expirationDate"`
	Location       string  `json:"location"`
	Notes          string  `json:"notes"`
}

// Validate checks the constraints the inventory form enforces before saving.
func (i InventoryItem) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if _, err := ParseInventoryCategory(i.Category); err != nil {
		return err
	}
	if i.Quantity < 0 {
		return fmt.Errorf("quantity cannot be negative")
	}
	return nil
}

// CalendarEntry schedules a menu on a date. Menu is the snapshot taken when
// the entry was written.
type CalendarEntry struct {
	ID     string `json:"id"`
	Date   string `json:"date"`
	MenuID string `json:"menuId"`
	Menu   Menu   `json:"menu"`
}

// ShoppingList is a named container of shopping items.
type ShoppingList struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ProductVariant is a purchasable option for a shopping item.
type ProductVariant struct {
	ProductName  string  `json:"productName"`
	Price        float64 `json:"price"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	PricePerUnit float64 `json:"pricePerUnit"`
	Store        string  `json:"store"`
	StoreURL     string  `json:"storeUrl"`
}

// Validate checks the constraints the product form enforces before saving.
func (p ProductVariant) Validate() error {
	if strings.TrimSpace(p.ProductName) == "" {
		return fmt.Errorf("product name is required")
	}
	if p.Price < 0 {
		return fmt.Errorf("price cannot be negative")
	}
	if p.Quantity <= 0 {
		return fmt.Errorf("quantity must be greater than zero")
	}
	return nil
}

// ShoppingItem is one line on a shopping list. Completed toggles between
// pending and completed.
type ShoppingItem struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Category  string           `json:"category"`
	Completed bool             `json:"completed"`
	Products  []ProductVariant `json:"products"`
}

// Validate checks the constraints the item form enforces before saving.
func (s ShoppingItem) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

// Mood is the closed set of diary moods.
type Mood string

const (
	MoodGreat Mood = "great"
	MoodGood  Mood = "good"
	MoodOkay  Mood = "okay"
	MoodMeh   Mood = "meh"
	MoodBad   Mood = "bad"
)

// Moods lists every mood in display order.
var Moods = []Mood{MoodGreat, MoodGood, MoodOkay, MoodMeh, MoodBad}

// ParseMood matches a mood case-insensitively. Empty input is allowed.
func ParseMood(s string) (Mood, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	for _, m := range Moods {
		if strings.EqualFold(s, string(m)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("mood must be one of great, good, okay, meh, bad")
}

// Meals holds the four diary meal lists.
type Meals struct {
	Breakfast []string `json:"breakfast"`
	Lunch     []string `json:"lunch"`
	Dinner    []string `json:"dinner"`
	Snacks    []string `json:"snacks"`
}

// All returns every meal item across the four lists.
func (m Meals) All() []string {
	var all []string
	all = append(all, m.Breakfast...)
	all = append(all, m.Lunch...)
	all = append(all, m.Dinner...)
	all = append(all, m.Snacks...)
	return all
}

// DiaryEntry is a daily food log.
type DiaryEntry struct {
	ID    string `json:"id"`
	Date  string `json:"date"`
	Meals Meals  `json:"meals"`
	Notes string `json:"notes"`
	Mood  Mood   `json:"mood"`
	Water int    `json:"water"`
}

// NewDiaryEntry returns an entry with one empty placeholder per meal list.
func NewDiaryEntry(date string) DiaryEntry {
	return DiaryEntry{
		Date: date,
		Meals: Meals{
			Breakfast: []string{""},
			Lunch:     []string{""},
			Dinner:    []string{""},
			Snacks:    []string{""},
		},
	}
}

// Validate checks the constraints the diary form enforces before saving.
func (d DiaryEntry) Validate() error {
	if strings.TrimSpace(d.Date) == "" {
		return fmt.Errorf("date is required")
	}
	if d.Water < 0 {
		return fmt.Errorf("water cannot be negative")
	}
	if _, err := ParseMood(string(d.Mood)); err != nil {
		return err
	}
	return nil
}
