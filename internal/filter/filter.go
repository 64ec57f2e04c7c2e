// Package filter holds the search and filter predicates for every list view.
// A record passes when every active predicate passes; empty filter values
// match everything.
package filter

import (
	"sort"
	"strings"
	"time"

	"mise/internal/derive"
	"mise/internal/model"
	"mise/internal/util"
)

// contains reports whether any field contains term, ignoring case.
func contains(term string, fields ...string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// equals compares against the trimmed value, matching what Distinct offers.
func equals(filter, value string) bool {
	return filter == "" || filter == strings.TrimSpace(value)
}

// RecipeQuery filters the recipes view.
type RecipeQuery struct {
	Search    string
	Category  string
	Cuisine   string
	StockOnly bool
}

// MatchRecipe applies q to r. inventory is only consulted when StockOnly is set.
func MatchRecipe(r model.Recipe, q RecipeQuery, inventory []model.InventoryItem) bool {
	fields := []string{r.Name, r.Description, r.Cuisine}
	for _, ing := range r.Ingredients {
		fields = append(fields, ing.Name)
	}
	if !contains(q.Search, fields...) {
		return false
	}
	if !equals(q.Category, r.Category) || !equals(q.Cuisine, r.Cuisine) {
		return false
	}
	if q.StockOnly && !derive.HasAllIngredientsInStock(r, inventory) {
		return false
	}
	return true
}

// MenuQuery filters the menus view.
type MenuQuery struct {
	Search   string
	MealType string
}

// MatchMenu applies q to m.
func MatchMenu(m model.Menu, q MenuQuery) bool {
	fields := []string{m.Name, m.Description}
	for _, r := range m.Recipes {
		fields = append(fields, r.Name)
	}
	return contains(q.Search, fields...) && equals(q.MealType, string(m.MealType))
}

// InventoryQuery filters the inventory view. Status is only applied when
// StatusSet is true, since derive.StatusNone is a valid filter value.
type InventoryQuery struct {
	Search    string
	Category  string
	Status    derive.Status
	StatusSet bool
}

// MatchInventory applies q to item, evaluating expiration relative to now.
func MatchInventory(item model.InventoryItem, q InventoryQuery, now time.Time) bool {
	if !contains(q.Search, item.Name, item.Location, item.Notes) {
		return false
	}
	if !equals(q.Category, item.Category) {
		return false
	}
	if q.StatusSet && derive.ExpirationStatus(item.ExpirationDate, now) != q.Status {
		return false
	}
	return true
}

// Completion filter values for shopping items.
const (
	ShowAll       = ""
	ShowPending   = "pending"
	ShowCompleted = "completed"
)

// ShoppingQuery filters the shopping view.
type ShoppingQuery struct {
	Search   string
	Category string
	Show     string
}

// MatchShoppingItem applies q to item.
func MatchShoppingItem(item model.ShoppingItem, q ShoppingQuery) bool {
	fields := []string{item.Name, item.Category}
	for _, p := range item.Products {
		fields = append(fields, p.ProductName, p.Store)
	}
	if !contains(q.Search, fields...) || !equals(q.Category, item.Category) {
		return false
	}
	switch q.Show {
	case ShowPending:
		return !item.Completed
	case ShowCompleted:
		return item.Completed
	}
	return true
}

// DiaryQuery filters the diary view.
type DiaryQuery struct {
	Search string
	Mood   string
	Date   string
}

// MatchDiary applies q to d. The search also matches the entry date written
// out as "March 7, 2025".
func MatchDiary(d model.DiaryEntry, q DiaryQuery) bool {
	fields := append(d.Meals.All(), d.Notes, util.FormatDateLong(d.Date))
	return contains(q.Search, fields...) &&
		equals(q.Mood, string(d.Mood)) &&
		equals(q.Date, d.Date)
}

// Week is a seven day window starting on Start.
type Week struct {
	Start time.Time
}

// WeekOf returns the Monday-based week containing t.
func WeekOf(t time.Time) Week {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return Week{Start: day.AddDate(0, 0, -offset)}
}

// Next returns the following week.
func (w Week) Next() Week { return Week{Start: w.Start.AddDate(0, 0, 7)} }

// Prev returns the preceding week.
func (w Week) Prev() Week { return Week{Start: w.Start.AddDate(0, 0, -7)} }

// Days returns the seven dates of the week as YYYY-MM-DD strings.
func (w Week) Days() []string {
	days := make([]string, 7)
	for i := range days {
		days[i] = w.Start.AddDate(0, 0, i).Format(util.ISODate)
	}
	return days
}

// Contains reports whether a YYYY-MM-DD date falls inside the week.
func (w Week) Contains(date string) bool {
	days := w.Days()
	return date >= days[0] && date <= days[6]
}

// MatchCalendar reports whether the entry lies inside the week.
func MatchCalendar(e model.CalendarEntry, w Week) bool {
	return w.Contains(e.Date)
}

// Apply returns the items that satisfy match, preserving order.
func Apply[T any](items []T, match func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, v := range items {
		if match(v) {
			out = append(out, v)
		}
	}
	return out
}

// Distinct collects the unique non-empty values of key across items, sorted.
func Distinct[T any](items []T, key func(T) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range items {
		k := strings.TrimSpace(key(v))
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Cycle returns the value after current in values, wrapping to "" (no
// filter) after the last one.
func Cycle(values []string, current string) string {
	if current == "" {
		if len(values) == 0 {
			return ""
		}
		return values[0]
	}
	for i, v := range values {
		if v == current {
			if i+1 < len(values) {
				return values[i+1]
			}
			return ""
		}
	}
	return ""
}
