// Package derive computes read-only facts from the in-memory collections:
// stock status, expiration status, menu timing totals and unit prices.
package derive

import (
	"strings"

	"mise/internal/model"
)

// IsIngredientInStock reports whether any inventory item name contains the
// ingredient name, ignoring case. The match is a plain substring test, so
// "flour" is in stock when the pantry holds "All-purpose flour". Whitespace
// in name is part of the needle.
func IsIngredientInStock(name string, inventory []model.InventoryItem) bool {
	needle := strings.ToLower(name)
	if needle == "" {
		return false
	}
	for _, item := range inventory {
		if strings.Contains(strings.ToLower(item.Name), needle) {
			return true
		}
	}
	return false
}

// HasAllIngredientsInStock reports whether every ingredient is in stock.
// A recipe without ingredients is never in stock.
func HasAllIngredientsInStock(recipe model.Recipe, inventory []model.InventoryItem) bool {
	if len(recipe.Ingredients) == 0 {
		return false
	}
	for _, ing := range recipe.Ingredients {
		if !IsIngredientInStock(ing.Name, inventory) {
			return false
		}
	}
	return true
}

// MissingIngredients returns the ingredients that are not in stock, in
// recipe order.
func MissingIngredients(recipe model.Recipe, inventory []model.InventoryItem) []model.Ingredient {
	var missing []model.Ingredient
	for _, ing := range recipe.Ingredients {
		if !IsIngredientInStock(ing.Name, inventory) {
			missing = append(missing, ing)
		}
	}
	return missing
}

// StockSummary counts the recipes that can be cooked from the pantry.
func StockSummary(recipes []model.Recipe, inventory []model.InventoryItem) (inStock, total int) {
	for _, r := range recipes {
		if HasAllIngredientsInStock(r, inventory) {
			inStock++
		}
	}
	return inStock, len(recipes)
}
