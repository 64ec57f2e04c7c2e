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
	"github.com/charmbracelet/lipgloss"
)

// RecipesView is the recipes list with its search and filter state.
type RecipesView struct {
	*Table[model.Recipe]
	query     filter.RecipeQuery
	all       []model.Recipe
	inventory []model.InventoryItem
}

// NewRecipesView creates an empty recipes view.
func NewRecipesView() *RecipesView {
	v := &RecipesView{}
	v.Table = newTable("recipes", "    No recipes yet.\n    Press  a  to add your first recipe!",
		column[model.Recipe]{key: "name", label: "name", width: 24, value: func(r model.Recipe) string { return r.Name }},
		column[model.Recipe]{key: "category", label: "category", width: 12, value: func(r model.Recipe) string { return r.Category }},
		column[model.Recipe]{key: "cuisine", label: "cuisine", width: 12, value: func(r model.Recipe) string { return r.Cuisine }},
		column[model.Recipe]{
			key: "time", label: "time", width: 8,
			value: func(r model.Recipe) string {
				return fmt.Sprintf("%06d", derive.LeadingInt(r.PrepTime)+derive.LeadingInt(r.CookTime))
			},
			cell: func(r model.Recipe) string {
				total := derive.LeadingInt(r.PrepTime) + derive.LeadingInt(r.CookTime)
				if total == 0 {
					return ""
				}
				return fmt.Sprintf("%d min", total)
			},
		},
		column[model.Recipe]{
			key: "servings", label: "serves", width: 6,
			value: func(r model.Recipe) string { return fmt.Sprintf("%04d", r.Servings) },
			cell:  func(r model.Recipe) string { return strconv.Itoa(r.Servings) },
		},
		column[model.Recipe]{
			key: "stock", label: "stock", width: 12,
			value: func(r model.Recipe) string {
				if derive.HasAllIngredientsInStock(r, v.inventory) {
					return "in stock"
				}
				return "missing"
			},
			cell: func(r model.Recipe) string {
				if derive.HasAllIngredientsInStock(r, v.inventory) {
					return InStockStyle.Render("✓ in stock")
				}
				return MissingStyle.Render(fmt.Sprintf("%d missing", len(derive.MissingIngredients(r, v.inventory))))
			},
		},
	)
	v.summary = func(rows []model.Recipe) string {
		ready, total := derive.StockSummary(rows, v.inventory)
		return fmt.Sprintf("%d/%d ready to cook", ready, total)
	}
	return v
}

// Refresh re-applies the query to recipes.
func (v *RecipesView) Refresh(recipes []model.Recipe, inventory []model.InventoryItem) {
	v.all = recipes
	v.inventory = inventory
	v.SetRows(filter.Apply(recipes, func(r model.Recipe) bool {
		return filter.MatchRecipe(r, v.query, inventory)
	}))
}

func (v *RecipesView) SetSearch(term string) {
	v.query.Search = term
	v.Refresh(v.all, v.inventory)
}

func (v *RecipesView) SearchTerm() string {
	return v.query.Search
}

func (v *RecipesView) CycleCategory() string {
	v.query.Category = filter.Cycle(filter.Distinct(v.all, func(r model.Recipe) string { return r.Category }), v.query.Category)
	v.Refresh(v.all, v.inventory)
	return filterInfo("Category", v.query.Category)
}

// CycleCuisine steps through the cuisines present in the recipes.
func (v *RecipesView) CycleCuisine() string {
	v.query.Cuisine = filter.Cycle(filter.Distinct(v.all, func(r model.Recipe) string { return r.Cuisine }), v.query.Cuisine)
	v.Refresh(v.all, v.inventory)
	return filterInfo("Cuisine", v.query.Cuisine)
}

// ToggleStockOnly limits the list to recipes that can be cooked now.
func (v *RecipesView) ToggleStockOnly() string {
	v.query.StockOnly = !v.query.StockOnly
	v.Refresh(v.all, v.inventory)
	if v.query.StockOnly {
		return "Showing recipes with every ingredient in stock"
	}
	return "Showing all recipes"
}

// View renders the filter bar and the table.
func (v *RecipesView) View(width, height int) string {
	var parts []string
	if v.query.Category != "" {
		parts = append(parts, "category: "+v.query.Category)
	}
	if v.query.Cuisine != "" {
		parts = append(parts, "cuisine: "+v.query.Cuisine)
	}
	if v.query.StockOnly {
		parts = append(parts, "in stock only")
	}
	return withFilterBar(v.query.Search, parts, v.Table.View, width, height)
}

func (m Model) recipeForm(existing *model.Recipe) *FormModel {
	var r model.Recipe
	title := "New recipe"
	if existing != nil {
		r = *existing
		title = "Edit recipe"
	}
	ingredients := make([]string, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		ingredients[i] = util.FormatIngredientLine(ing)
	}
	servings := ""
	if r.Servings > 0 {
		servings = strconv.Itoa(r.Servings)
	}

	f := newForm(title, func(f *FormModel) (tea.Cmd, error) {
		n, err := strconv.Atoi(f.Value("servings"))
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("servings must be a positive number")
		}
		ings, err := util.ParseIngredients(f.Value("ingredients"), r.Ingredients)
		if err != nil {
			return nil, err
		}
		next := r
		next.Name = f.Value("name")
		next.Description = f.Value("description")
		next.Category = f.Value("category")
		next.Cuisine = f.Value("cuisine")
		next.Image = f.Value("image")
		next.PrepTime = f.Value("prep")
		next.CookTime = f.Value("cook")
		next.Servings = n
		next.Ingredients = ings
		next.Instructions = util.SplitLines(f.Value("instructions"))
		if err := next.Validate(); err != nil {
			return nil, err
		}
		if existing == nil {
			return createCmd(m.svc, model.ScreenRecipes, "recipe saved", db.Recipes, m.data.recipes, next), nil
		}
		return updateCmd(m.svc, model.ScreenRecipes, "recipe updated", db.Recipes, m.data.recipes, *existing, next), nil
	})
	return f.
		text("name", "Name *", "Recipe name", r.Name).
		text("description", "Description", "Short description", r.Description).
		text("category", "Category", "Dessert, Main, Side...", r.Category).
		text("cuisine", "Cuisine", "Italian, Thai...", r.Cuisine).
		text("image", "Image", "Path or http(s) URL", r.Image).
		text("prep", "Prep time", "15 mins", r.PrepTime).
		text("cook", "Cook time", "30 mins", r.CookTime).
		text("servings", "Servings *", "4", servings).
		area("ingredients", "Ingredients * (one per line: qty unit name, - for no unit)", "2 cup flour\n3 eggs\nsalt", strings.Join(ingredients, "\n")).
		area("instructions", "Instructions (one step per line)", "Preheat the oven...", strings.Join(r.Instructions, "\n"))
}

// addMissingCmd puts the recipe's missing ingredients on the active
// shopping list.
func (m Model) addMissingCmd(recipe model.Recipe) tea.Cmd {
	svc, sh, inventory := m.svc, m.data.shopping, m.data.inventory.Items()
	return func() tea.Msg {
		items, err := sh.Collection()
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		ctx, cancel := svc.Context()
		defer cancel()
		added, err := workflow.AddMissingIngredients(ctx, svc, items, sh.Items, recipe, inventory)
		if len(added) == 0 && err != nil {
			return model.ErrorMsg{Err: err}
		}
		label := fmt.Sprintf("%d missing ingredients of %s added", len(added), recipe.Name)
		if len(added) == 0 {
			label = "Everything for " + recipe.Name + " is in stock"
		}
		msg := model.SavedMsg{
			Screen:    model.ScreenRecipes,
			Operation: "insert",
			Label:     label,
			Undo: func() error {
				return withTimeout(svc, func(ctx context.Context) error {
					for _, it := range added {
						if err := workflow.Delete(ctx, svc, items, sh.Items, it.ID); err != nil {
							return err
						}
					}
					return nil
				})
			},
			Redo: func() error {
				return withTimeout(svc, func(ctx context.Context) error {
					for _, it := range added {
						if err := workflow.Restore(ctx, svc, items, sh.Items, it); err != nil {
							return err
						}
					}
					return nil
				})
			},
		}
		if len(added) == 0 {
			msg.Undo, msg.Redo = nil, nil
		}
		if err != nil {
			// Earlier items stay written; report the partial result.
			msg.Label = fmt.Sprintf("%s, then failed: %v", label, err)
		}
		return msg
	}
}

// RecipeDetailModel shows one recipe with stock markers per ingredient.
type RecipeDetailModel struct {
	recipe    model.Recipe
	inventory []model.InventoryItem
	art       string
	artErr    error
	loading   bool
}

// NewRecipeDetailModel creates a recipe detail model.
func NewRecipeDetailModel(r model.Recipe, inventory []model.InventoryItem, loadingImage bool) *RecipeDetailModel {
	return &RecipeDetailModel{recipe: r, inventory: inventory, loading: loadingImage}
}

// View renders the recipe detail.
func (d *RecipeDetailModel) View(width, height int) string {
	r := d.recipe

	var fields []string
	fields = append(fields, renderField("Name", r.Name))
	fields = append(fields, renderField("Description", r.Description))
	fields = append(fields, renderField("Category", r.Category))
	fields = append(fields, renderField("Cuisine", r.Cuisine))
	fields = append(fields, renderField("Prep", r.PrepTime))
	fields = append(fields, renderField("Cook", r.CookTime))
	fields = append(fields, renderField("Servings", strconv.Itoa(r.Servings)))

	var ings []string
	for _, ing := range r.Ingredients {
		line := util.FormatIngredientLine(ing)
		if derive.IsIngredientInStock(ing.Name, d.inventory) {
			ings = append(ings, "  "+InStockStyle.Render("✓ "+line))
		} else {
			ings = append(ings, "  "+MissingStyle.Render("✗ "+line))
		}
	}
	if len(ings) == 0 {
		ings = append(ings, "  "+HelpDescStyle.Render("no ingredients"))
	}

	var steps []string
	for i, s := range r.Instructions {
		steps = append(steps, fmt.Sprintf("  %d. %s", i+1, TextStyle.Render(s)))
	}

	sections := []string{
		strings.Join(fields, "\n"),
		LabelStyle.Render("Ingredients") + "\n" + strings.Join(ings, "\n"),
	}
	if len(steps) > 0 {
		sections = append(sections, LabelStyle.Render("Instructions")+"\n"+strings.Join(steps, "\n"))
	}
	left := strings.Join(sections, "\n\n")

	var right string
	switch {
	case d.loading:
		right = HelpDescStyle.Render("loading image...")
	case d.artErr != nil:
		right = HelpDescStyle.Render("image unavailable: " + d.artErr.Error())
	case d.art != "":
		right = d.art
	}

	content := left
	if right != "" {
		content = lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(width/2).Render(left),
			lipgloss.NewStyle().Width(width/2-6).Render(right),
		)
	}
	return PanelStyle.Width(width - 4).Height(height - 4).Render(content)
}
