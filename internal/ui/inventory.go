package ui

import (
	"fmt"
	"time"

	"mise/internal/db"
	"mise/internal/derive"
	"mise/internal/filter"
	"mise/internal/model"
	"mise/internal/util"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// InventoryView lists pantry items with their expiration state.
type InventoryView struct {
	*Table[model.InventoryItem]
	query filter.InventoryQuery
	all   []model.InventoryItem
	now   func() time.Time
}

// NewInventoryView creates an empty inventory view.
func NewInventoryView(now func() time.Time) *InventoryView {
	v := &InventoryView{now: now}
	v.Table = newTable("items", "    The pantry is empty.\n    Press  a  to add what you have on hand!",
		column[model.InventoryItem]{key: "name", label: "name", width: 22, value: func(i model.InventoryItem) string { return i.Name }},
		column[model.InventoryItem]{
			key: "quantity", label: "qty", width: 10,
			value: func(i model.InventoryItem) string { return fmt.Sprintf("%012.3f", i.Quantity) },
			cell:  func(i model.InventoryItem) string { return util.FormatQuantity(i.Quantity, i.Unit) },
		},
		column[model.InventoryItem]{key: "category", label: "category", width: 12, value: func(i model.InventoryItem) string { return i.Category }},
		column[model.InventoryItem]{
			key: "expires", label: "expires", width: 14,
			value: func(i model.InventoryItem) string { return i.ExpirationDate },
			cell: func(i model.InventoryItem) string {
				if i.ExpirationDate == "" {
					return ""
				}
				return expirationStyle(derive.ExpirationStatus(i.ExpirationDate, v.now())).
					Render(util.FormatDateHuman(i.ExpirationDate))
			},
		},
		column[model.InventoryItem]{key: "location", label: "location", width: 12, value: func(i model.InventoryItem) string { return i.Location }},
		column[model.InventoryItem]{key: "notes", label: "notes", width: 20, value: func(i model.InventoryItem) string { return i.Notes }},
	)
	v.summary = func(rows []model.InventoryItem) string {
		soon, expired := 0, 0
		for _, i := range rows {
			switch derive.ExpirationStatus(i.ExpirationDate, v.now()) {
			case derive.StatusExpiringSoon:
				soon++
			case derive.StatusExpired:
				expired++
			}
		}
		return fmt.Sprintf("%d expiring soon  ·  %d expired", soon, expired)
	}
	return v
}

func expirationStyle(s derive.Status) lipgloss.Style {
	switch s {
	case derive.StatusExpired:
		return ExpiredStyle
	case derive.StatusExpiringSoon:
		return ExpiringStyle
	default:
		return TextStyle
	}
}

// Refresh re-applies the query to items.
func (v *InventoryView) Refresh(items []model.InventoryItem) {
	v.all = items
	now := v.now()
	v.SetRows(filter.Apply(items, func(i model.InventoryItem) bool {
		return filter.MatchInventory(i, v.query, now)
	}))
}

func (v *InventoryView) SetSearch(term string) {
	v.query.Search = term
	v.Refresh(v.all)
}

func (v *InventoryView) SearchTerm() string {
	return v.query.Search
}

func (v *InventoryView) CycleCategory() string {
	v.query.Category = filter.Cycle(model.InventoryCategories, v.query.Category)
	v.Refresh(v.all)
	return filterInfo("Category", v.query.Category)
}

// CycleExpiry steps through expired, expiring soon, no concern and off.
func (v *InventoryView) CycleExpiry() string {
	switch {
	case !v.query.StatusSet:
		v.query.StatusSet, v.query.Status = true, derive.StatusExpired
	case v.query.Status == derive.StatusExpired:
		v.query.Status = derive.StatusExpiringSoon
	case v.query.Status == derive.StatusExpiringSoon:
		v.query.Status = derive.StatusNone
	default:
		v.query.StatusSet, v.query.Status = false, derive.StatusNone
	}
	v.Refresh(v.all)
	if !v.query.StatusSet {
		return filterInfo("Expiry", "")
	}
	return filterInfo("Expiry", v.query.Status.String())
}

// View renders the filter bar and the table.
func (v *InventoryView) View(width, height int) string {
	var parts []string
	if v.query.Category != "" {
		parts = append(parts, "category: "+v.query.Category)
	}
	if v.query.StatusSet {
		parts = append(parts, "expiry: "+v.query.Status.String())
	}
	return withFilterBar(v.query.Search, parts, v.Table.View, width, height)
}

func (m Model) inventoryForm(existing *model.InventoryItem) *FormModel {
	var item model.InventoryItem
	title := "New pantry item"
	if existing != nil {
		item = *existing
		title = "Edit pantry item"
	}
	if item.Category == "" {
		item.Category = model.CategoryOther
	}
	qty := ""
	if existing != nil {
		qty = util.FormatNumber(item.Quantity)
	}

	f := newForm(title, func(f *FormModel) (tea.Cmd, error) {
		q, err := util.ParseNumber(f.Value("quantity"))
		if err != nil {
			return nil, fmt.Errorf("quantity: %w", err)
		}
		expires := ""
		if raw := f.Value("expires"); raw != "" {
			if expires, err = util.ParseDateInput(raw); err != nil {
				return nil, err
			}
		}
		next := item
		next.Name = f.Value("name")
		next.Quantity = q
		next.Unit = f.Value("unit")
		next.Category = f.Value("category")
		next.ExpirationDate = expires
		next.Location = f.Value("location")
		next.Notes = f.Value("notes")
		if err := next.Validate(); err != nil {
			return nil, err
		}
		if existing == nil {
			return createCmd(m.svc, model.ScreenInventory, "pantry item saved", db.Inventory, m.data.inventory, next), nil
		}
		return updateCmd(m.svc, model.ScreenInventory, "pantry item updated", db.Inventory, m.data.inventory, *existing, next), nil
	})
	return f.
		text("name", "Name *", "Flour", item.Name).
		text("quantity", "Quantity", "2", qty).
		text("unit", "Unit", "kg", item.Unit).
		choice("category", "Category * (←/→)", model.InventoryCategories, item.Category).
		text("expires", "Expires", "YYYY-MM-DD, today, tomorrow", item.ExpirationDate).
		text("location", "Location", "Pantry, fridge...", item.Location).
		area("notes", "Notes", "", item.Notes)
}
