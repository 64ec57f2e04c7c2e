package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"mise/internal/model"
)

// noUnit marks an empty unit in a formatted line whose name has several
// words, so "2 - green onions" does not read back with unit "green".
const noUnit = "-"

// ParseIngredientLine reads "qty unit name" lines as typed in the recipe form.
// "2 cup flour" → {flour 2 cup}; "3 eggs" → {eggs 3 ""}; "salt" → {salt 0 ""};
// "2 - green onions" → {green onions 2 ""}.
// A unit is only taken when at least two words follow the quantity.
func ParseIngredientLine(line string) (model.Ingredient, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return model.Ingredient{}, fmt.Errorf("empty ingredient line")
	}

	qty, ok := parseQuantity(fields[0])
	if !ok {
		return model.Ingredient{Name: strings.Join(fields, " ")}, nil
	}
	if qty < 0 {
		return model.Ingredient{}, fmt.Errorf("ingredient %q has a negative quantity", line)
	}

	rest := fields[1:]
	switch len(rest) {
	case 0:
		return model.Ingredient{}, fmt.Errorf("ingredient %q has no name", line)
	case 1:
		return model.Ingredient{Name: rest[0], Quantity: qty}, nil
	}
	unit := rest[0]
	if unit == noUnit {
		unit = ""
	}
	return model.Ingredient{Name: strings.Join(rest[1:], " "), Quantity: qty, Unit: unit}, nil
}

// parseQuantity accepts finite numbers only; "nan bread" is a name.
func parseQuantity(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// FormatIngredientLine is the inverse of ParseIngredientLine for names and
// units without inner spaces.
func FormatIngredientLine(ing model.Ingredient) string {
	words := strings.Fields(ing.Name)
	leadsWithNumber := false
	if len(words) > 0 {
		_, leadsWithNumber = parseQuantity(words[0])
	}
	if ing.Quantity == 0 && ing.Unit == "" && !leadsWithNumber && len(words) > 0 {
		return ing.Name
	}
	unit := ing.Unit
	if unit == "" && (len(words) > 1 || leadsWithNumber) {
		unit = noUnit
	}
	parts := []string{FormatNumber(ing.Quantity)}
	if unit != "" {
		parts = append(parts, unit)
	}
	parts = append(parts, ing.Name)
	return strings.Join(parts, " ")
}

// ParseIngredients parses one ingredient per non-blank line. A line that
// still reads exactly as one of previous formats keeps that ingredient, so
// rounded quantities and spaced units survive an unrelated edit.
func ParseIngredients(input string, previous []model.Ingredient) ([]model.Ingredient, error) {
	unchanged := make(map[string][]model.Ingredient, len(previous))
	for _, ing := range previous {
		line := FormatIngredientLine(ing)
		unchanged[line] = append(unchanged[line], ing)
	}

	var out []model.Ingredient
	for _, line := range SplitLines(input) {
		if prev := unchanged[line]; len(prev) > 0 {
			out = append(out, prev[0])
			unchanged[line] = prev[1:]
			continue
		}
		ing, err := ParseIngredientLine(line)
		if err != nil {
			return nil, err
		}
		out = append(out, ing)
	}
	return out, nil
}
