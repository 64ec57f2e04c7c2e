package derive

import (
	"math"
	"strings"
	"unicode"

	"mise/internal/model"
)

// Totals is the summed preparation and cooking time of a menu, in the units
// the recipes were written in (minutes in practice).
type Totals struct {
	Prep int
	Cook int
}

// LeadingInt parses the integer a duration string starts with, the way
// "30 mins" yields 30. Leading spaces and a sign are accepted; anything
// without a leading number yields 0.
func LeadingInt(s string) int {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	sign := 1
	if s != "" && (s[0] == '+' || s[0] == '-') {
		if s[0] == '-' {
			sign = -1
		}
		s = s[1:]
	}
	n := 0
	for i := 0; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		d := int(s[i] - '0')
		if n > (math.MaxInt-d)/10 {
			n = math.MaxInt
			break
		}
		n = n*10 + d
	}
	return sign * n
}

// addSaturating adds b to a, clamping at the int range.
func addSaturating(a, b int) int {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return math.MaxInt
	case b < 0 && a < math.MinInt-b:
		return math.MinInt
	}
	return a + b
}

// AggregateTime sums the prep and cook times of every recipe in the menu.
func AggregateTime(menu model.Menu) Totals {
	var t Totals
	for _, r := range menu.Recipes {
		t.Prep = addSaturating(t.Prep, LeadingInt(r.PrepTime))
		t.Cook = addSaturating(t.Cook, LeadingInt(r.CookTime))
	}
	return t
}

// TotalServings sums the servings of every recipe in the menu.
func TotalServings(menu model.Menu) int {
	total := 0
	for _, r := range menu.Recipes {
		total += r.Servings
	}
	return total
}

// PricePerUnit divides price by quantity. A zero quantity gives +Inf (or NaN
// for a zero price) and callers display it as-is.
func PricePerUnit(price, quantity float64) float64 {
	return price / quantity
}

// CheapestVariant returns the index of the product with the lowest finite
// price per unit, or -1 when none qualifies.
func CheapestVariant(products []model.ProductVariant) int {
	best := -1
	for i, p := range products {
		if math.IsInf(p.PricePerUnit, 0) || math.IsNaN(p.PricePerUnit) {
			continue
		}
		if best == -1 || p.PricePerUnit < products[best].PricePerUnit {
			best = i
		}
	}
	return best
}
