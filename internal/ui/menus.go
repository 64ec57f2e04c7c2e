package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"mise/internal/db"
	"mise/internal/derive"
	"mise/internal/filter"
	"mise/internal/model"
	"mise/internal/util"
	"mise/internal/workflow"

	tea "github.com/charmbracelet/bubbletea"
)

// MenusView lists saved menus.
type MenusView struct {
	*Table[model.Menu]
	query filter.MenuQuery
	all   []model.Menu
}

// NewMenusView creates an empty menus view.
func NewMenusView() *MenusView {
	v := &MenusView{}
	v.Table = newTable("menus", "    No menus yet.\n    Press  a  to build one from your recipes!",
		column[model.Menu]{key: "name", label: "name", width: 24, value: func(m model.Menu) string { return m.Name }},
		column[model.Menu]{key: "meal", label: "meal", width: 10, value: func(m model.Menu) string { return string(m.MealType) }},
		column[model.Menu]{
			key: "recipes", label: "recipes", width: 28,
			value: func(m model.Menu) string { return menuRecipeNames(m) },
		},
		column[model.Menu]{
			key: "time", label: "time", width: 8,
			value: func(m model.Menu) string {
				t := derive.AggregateTime(m)
				return fmt.Sprintf("%06d", t.Prep+t.Cook)
			},
			cell: func(m model.Menu) string {
				t := derive.AggregateTime(m)
				if t.Prep+t.Cook == 0 {
					return ""
				}
				return fmt.Sprintf("%d min", t.Prep+t.Cook)
			},
		},
		column[model.Menu]{
			key: "serves", label: "serves", width: 6,
			value: func(m model.Menu) string { return fmt.Sprintf("%04d", derive.TotalServings(m)) },
			cell:  func(m model.Menu) string { return strconv.Itoa(derive.TotalServings(m)) },
		},
		column[model.Menu]{key: "description", label: "description", width: 24, value: func(m model.Menu) string { return m.Description }},
	)
	return v
}

func menuRecipeNames(m model.Menu) string {
	names := make([]string, len(m.Recipes))
	for i, r := range m.Recipes {
		names[i] = r.Name
	}
	return strings.Join(names, ", ")
}

// Refresh re-applies the query to menus.
func (v *MenusView) Refresh(menus []model.Menu) {
	v.all = menus
	v.SetRows(filter.Apply(menus, func(m model.Menu) bool {
		return filter.MatchMenu(m, v.query)
	}))
}

func (v *MenusView) SetSearch(term string) {
	v.query.Search = term
	v.Refresh(v.all)
}

func (v *MenusView) SearchTerm() string {
	return v.query.Search
}

func (v *MenusView) CycleCategory() string {
	types := make([]string, len(model.MealTypes))
	for i, mt := range model.MealTypes {
		types[i] = string(mt)
	}
	v.query.MealType = filter.Cycle(types, v.query.MealType)
	v.Refresh(v.all)
	return filterInfo("Meal type", v.query.MealType)
}

// View renders the filter bar and the table.
func (v *MenusView) View(width, height int) string {
	var parts []string
	if v.query.MealType != "" {
		parts = append(parts, "meal: "+v.query.MealType)
	}
	return withFilterBar(v.query.Search, parts, v.Table.View, width, height)
}

func (m Model) menuForm(existing *model.Menu) *FormModel {
	var menu model.Menu
	title := "New menu"
	if existing != nil {
		menu = *existing
		title = "Edit menu"
	}
	if menu.MealType == "" {
		menu.MealType = model.MealDinner
	}

	recipes := m.data.recipes.Items()
	options := make([]string, len(recipes))
	var selected []int
	for i, r := range recipes {
		options[i] = r.Name
		for _, embedded := range menu.Recipes {
			if embedded.ID == r.ID {
				selected = append(selected, i)
				break
			}
		}
	}
	mealTypes := make([]string, len(model.MealTypes))
	for i, mt := range model.MealTypes {
		mealTypes[i] = string(mt)
	}

	f := newForm(title, func(f *FormModel) (tea.Cmd, error) {
		var picked []model.Recipe
		for _, i := range f.Checked("recipes") {
			picked = append(picked, recipes[i])
		}
		mealType, err := model.ParseMealType(f.Value("meal"))
		if err != nil {
			return nil, err
		}
		next := menu
		next.Name = f.Value("name")
		next.Description = f.Value("description")
		next.MealType = mealType
		next.Recipes = picked
		if err := next.Validate(); err != nil {
			return nil, err
		}
		return m.saveMenuCmd(existing, next, picked), nil
	})
	return f.
		text("name", "Name *", "Sunday dinner", menu.Name).
		text("description", "Description", "What is it for?", menu.Description).
		choice("meal", "Meal type (←/→)", mealTypes, string(menu.MealType)).
		checklist("recipes", "Recipes * (space to select)", options, selected)
}

func (m Model) saveMenuCmd(before *model.Menu, menu model.Menu, picked []model.Recipe) tea.Cmd {
	svc, mir := m.svc, m.data.menus
	return func() tea.Msg {
		var saved model.Menu
		err := withTimeout(svc, func(ctx context.Context) error {
			var err error
			saved, err = workflow.SaveMenu(ctx, svc, mir, menu, picked)
			return err
		})
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		if before == nil {
			return savedMsg(model.ScreenMenus, "insert", "menu saved",
				func() error {
					return withTimeout(svc, func(ctx context.Context) error {
						return workflow.Delete(ctx, svc, db.Menus, mir, saved.ID)
					})
				},
				restoreFunc(svc, db.Menus, mir, saved),
			)
		}
		return savedMsg(model.ScreenMenus, "update", "menu updated",
			restoreFunc(svc, db.Menus, mir, *before),
			restoreFunc(svc, db.Menus, mir, saved),
		)
	}
}

// MenuDetailModel shows a menu with its aggregated times.
type MenuDetailModel struct {
	menu model.Menu
}

// NewMenuDetailModel creates a menu detail model.
func NewMenuDetailModel(menu model.Menu) *MenuDetailModel {
	return &MenuDetailModel{menu: menu}
}

// View renders the menu detail.
func (d *MenuDetailModel) View(width, height int) string {
	return PanelStyle.Width(width - 4).Height(height - 4).Render(renderMenuSummary(d.menu))
}

func renderMenuSummary(menu model.Menu) string {
	t := derive.AggregateTime(menu)

	var fields []string
	fields = append(fields, renderField("Name", menu.Name))
	fields = append(fields, renderField("Meal", string(menu.MealType)))
	fields = append(fields, renderField("Description", menu.Description))
	fields = append(fields, renderField("Prep", fmt.Sprintf("%d min", t.Prep)))
	fields = append(fields, renderField("Cook", fmt.Sprintf("%d min", t.Cook)))
	fields = append(fields, renderField("Total", fmt.Sprintf("%d min", t.Prep+t.Cook)))
	fields = append(fields, renderField("Serves", strconv.Itoa(derive.TotalServings(menu))))

	var recipes []string
	for _, r := range menu.Recipes {
		line := fmt.Sprintf("  • %s", r.Name)
		if r.PrepTime != "" || r.CookTime != "" {
			line += HelpDescStyle.Render(fmt.Sprintf("  prep %s · cook %s", orDash(r.PrepTime), orDash(r.CookTime)))
		}
		recipes = append(recipes, line)
		for _, ing := range r.Ingredients {
			recipes = append(recipes, HelpDescStyle.Render("      "+util.FormatIngredientLine(ing)))
		}
	}
	if len(recipes) == 0 {
		recipes = append(recipes, "  "+HelpDescStyle.Render("no recipes"))
	}

	return strings.Join(fields, "\n") + "\n\n" + LabelStyle.Render("Recipes") + "\n" + strings.Join(recipes, "\n")
}
