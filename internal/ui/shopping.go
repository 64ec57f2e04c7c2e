package ui

import (
	"context"
	"fmt"
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

// ShoppingView lists the items of the active shopping list.
type ShoppingView struct {
	*Table[model.ShoppingItem]
	query filter.ShoppingQuery
	all   []model.ShoppingItem
	sh    *workflow.Shopping
}

// NewShoppingView creates a shopping view over sh.
func NewShoppingView(sh *workflow.Shopping) *ShoppingView {
	v := &ShoppingView{sh: sh}
	v.Table = newTable("items", "    Nothing to buy.\n    Press  a  to add an item, or  m  on a recipe to add what is missing.",
		column[model.ShoppingItem]{
			key: "done", label: "done", width: 4,
			value: func(i model.ShoppingItem) string {
				if i.Completed {
					return filter.ShowCompleted
				}
				return filter.ShowPending
			},
			cell: func(i model.ShoppingItem) string {
				if i.Completed {
					return "[x]"
				}
				return "[ ]"
			},
		},
		column[model.ShoppingItem]{key: "name", label: "name", width: 24, value: func(i model.ShoppingItem) string { return i.Name }},
		column[model.ShoppingItem]{key: "category", label: "category", width: 14, value: func(i model.ShoppingItem) string { return i.Category }},
		column[model.ShoppingItem]{
			key: "products", label: "products", width: 8,
			value: func(i model.ShoppingItem) string { return fmt.Sprintf("%04d", len(i.Products)) },
			cell: func(i model.ShoppingItem) string {
				if len(i.Products) == 0 {
					return ""
				}
				return fmt.Sprintf("%d", len(i.Products))
			},
		},
		column[model.ShoppingItem]{
			key: "best", label: "best price", width: 26,
			value: func(i model.ShoppingItem) string {
				if best := derive.CheapestVariant(i.Products); best >= 0 {
					return fmt.Sprintf("%015.4f", i.Products[best].PricePerUnit)
				}
				return ""
			},
			cell: func(i model.ShoppingItem) string {
				best := derive.CheapestVariant(i.Products)
				if best < 0 {
					return ""
				}
				p := i.Products[best]
				return util.TruncateString(fmt.Sprintf("%s/%s at %s", util.FormatPrice(p.PricePerUnit), orDefault(p.Unit, "unit"), orDefault(p.Store, "?")), 26)
			},
		},
	)
	v.rowStyle = func(i model.ShoppingItem) (lipgloss.Style, bool) {
		return CompletedRowStyle, i.Completed
	}
	v.summary = func(rows []model.ShoppingItem) string {
		done := 0
		for _, i := range rows {
			if i.Completed {
				done++
			}
		}
		return fmt.Sprintf("%d/%d done", done, len(rows))
	}
	return v
}

// Refresh re-applies the query to the active list's items.
func (v *ShoppingView) Refresh() {
	v.all = v.sh.Items.Items()
	v.SetRows(filter.Apply(v.all, func(i model.ShoppingItem) bool {
		return filter.MatchShoppingItem(i, v.query)
	}))
}

func (v *ShoppingView) SetSearch(term string) {
	v.query.Search = term
	v.Refresh()
}

func (v *ShoppingView) SearchTerm() string {
	return v.query.Search
}

func (v *ShoppingView) CycleCategory() string {
	v.query.Category = filter.Cycle(filter.Distinct(v.all, func(i model.ShoppingItem) string { return i.Category }), v.query.Category)
	v.Refresh()
	return filterInfo("Category", v.query.Category)
}

// CycleShow steps through pending, completed and all items.
func (v *ShoppingView) CycleShow() string {
	v.query.Show = filter.Cycle([]string{filter.ShowPending, filter.ShowCompleted}, v.query.Show)
	v.Refresh()
	return filterInfo("Showing", v.query.Show)
}

// adjacentList returns the list step positions away from the active one,
// wrapping around.
func (v *ShoppingView) adjacentList(step int) (model.ShoppingList, bool) {
	lists := v.sh.Lists.Items()
	if len(lists) < 2 {
		return model.ShoppingList{}, false
	}
	cur := 0
	for i, l := range lists {
		if l.ID == v.sh.ActiveID() {
			cur = i
			break
		}
	}
	return lists[(cur+step+len(lists))%len(lists)], true
}

func (v *ShoppingView) listTitle() string {
	if v.sh.Layout == db.LayoutFlat {
		return "Shopping list"
	}
	active, ok := v.sh.Active()
	if !ok {
		return "No shopping list. Press L to create one."
	}
	lists := v.sh.Lists.Items()
	pos := 0
	for i, l := range lists {
		if l.ID == active.ID {
			pos = i + 1
		}
	}
	title := fmt.Sprintf("List: %s (%d/%d)", active.Name, pos, len(lists))
	if len(lists) > 1 {
		title += HelpDescStyle.Render("  [ ] switch")
	}
	return title
}

// View renders the list title, filter bar and table.
func (v *ShoppingView) View(width, height int) string {
	var parts []string
	if v.query.Category != "" {
		parts = append(parts, "category: "+v.query.Category)
	}
	if v.query.Show != "" {
		parts = append(parts, "showing: "+v.query.Show)
	}
	title := SearchBarStyle.Render(v.listTitle())
	return title + "\n" + withFilterBar(v.query.Search, parts, v.Table.View, width, height-1)
}

func (m Model) shoppingItemForm(existing *model.ShoppingItem) *FormModel {
	var item model.ShoppingItem
	title := "New shopping item"
	if existing != nil {
		item = *existing
		title = "Edit shopping item"
	}
	f := newForm(title, func(f *FormModel) (tea.Cmd, error) {
		items, err := m.data.shopping.Collection()
		if err != nil {
			return nil, err
		}
		next := item
		next.Name = f.Value("name")
		next.Category = f.Value("category")
		if next.Products == nil {
			next.Products = []model.ProductVariant{}
		}
		if err := next.Validate(); err != nil {
			return nil, err
		}
		if existing == nil {
			return createCmd(m.svc, model.ScreenShopping, "shopping item saved", items, m.data.shopping.Items, next), nil
		}
		return updateCmd(m.svc, model.ScreenShopping, "shopping item updated", items, m.data.shopping.Items, *existing, next), nil
	})
	return f.
		text("name", "Name *", "Milk", item.Name).
		text("category", "Category", "Dairy", item.Category)
}

func (m Model) productForm(item model.ShoppingItem) *FormModel {
	f := newForm("Add product for "+item.Name, func(f *FormModel) (tea.Cmd, error) {
		price, err := util.ParseNumber(f.Value("price"))
		if err != nil {
			return nil, fmt.Errorf("price: %w", err)
		}
		qty, err := util.ParseNumber(f.Value("quantity"))
		if err != nil {
			return nil, fmt.Errorf("quantity: %w", err)
		}
		p := model.ProductVariant{
			ProductName: f.Value("product"),
			Store:       f.Value("store"),
			Price:       price,
			Quantity:    qty,
			Unit:        f.Value("unit"),
			StoreURL:    f.Value("url"),
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		return m.addProductCmd(item, p), nil
	})
	return f.
		text("product", "Product *", "Brand 1L carton", "").
		text("store", "Store", "Corner market", "").
		text("price", "Price *", "2.49", "").
		text("quantity", "Quantity *", "1", "").
		text("unit", "Unit", "l", "").
		text("url", "Store URL", "https://...", "")
}

func (m Model) newListForm() *FormModel {
	f := newForm("New shopping list", func(f *FormModel) (tea.Cmd, error) {
		name := f.Value("name")
		if name == "" {
			return nil, fmt.Errorf("list name is required")
		}
		return m.createListCmd(name), nil
	})
	return f.text("name", "Name *", "Weekend party", "")
}

func (m Model) toggleCmd(item model.ShoppingItem) tea.Cmd {
	svc, mir := m.svc, m.data.shopping.Items
	items, err := m.data.shopping.Collection()
	if err != nil {
		return errorCmd(err)
	}
	toggle := func() error {
		return withTimeout(svc, func(ctx context.Context) error {
			_, err := workflow.ToggleCompleted(ctx, svc, items, mir, item.ID)
			return err
		})
	}
	return func() tea.Msg {
		if err := toggle(); err != nil {
			return model.ErrorMsg{Err: err}
		}
		state := "done"
		if item.Completed {
			state = "pending"
		}
		return savedMsg(model.ScreenShopping, "toggle", item.Name+" marked "+state, toggle, toggle)
	}
}

func (m Model) addProductCmd(item model.ShoppingItem, p model.ProductVariant) tea.Cmd {
	svc, mir := m.svc, m.data.shopping.Items
	items, err := m.data.shopping.Collection()
	if err != nil {
		return errorCmd(err)
	}
	return func() tea.Msg {
		var after model.ShoppingItem
		err := withTimeout(svc, func(ctx context.Context) error {
			var err error
			after, err = workflow.AddProductVariant(ctx, svc, items, mir, item.ID, p)
			return err
		})
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return savedMsg(model.ScreenShoppingItemDetail, "update", p.ProductName+" added",
			restoreFunc(svc, items, mir, item),
			restoreFunc(svc, items, mir, after),
		)
	}
}

func (m Model) removeProductCmd(item model.ShoppingItem, index int) tea.Cmd {
	svc, mir := m.svc, m.data.shopping.Items
	items, err := m.data.shopping.Collection()
	if err != nil {
		return errorCmd(err)
	}
	return func() tea.Msg {
		var after model.ShoppingItem
		err := withTimeout(svc, func(ctx context.Context) error {
			var err error
			after, err = workflow.RemoveProductVariant(ctx, svc, items, mir, item.ID, index)
			return err
		})
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return savedMsg(model.ScreenShoppingItemDetail, "update", item.Products[index].ProductName+" removed",
			restoreFunc(svc, items, mir, item),
			restoreFunc(svc, items, mir, after),
		)
	}
}

func (m Model) switchListCmd(list model.ShoppingList) tea.Cmd {
	svc, sh := m.svc, m.data.shopping
	return func() tea.Msg {
		if err := withTimeout(svc, func(ctx context.Context) error {
			return workflow.SwitchShoppingList(ctx, svc, sh, list.ID)
		}); err != nil {
			return model.ErrorMsg{Err: err}
		}
		return listSwitchedMsg{list: list}
	}
}

func (m Model) createListCmd(name string) tea.Cmd {
	svc, sh := m.svc, m.data.shopping
	return func() tea.Msg {
		var list model.ShoppingList
		err := withTimeout(svc, func(ctx context.Context) error {
			var err error
			list, err = workflow.CreateShoppingList(ctx, svc, sh, name)
			return err
		})
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return savedMsg(model.ScreenShopping, "insert", "list "+name+" created",
			func() error {
				return withTimeout(svc, func(ctx context.Context) error {
					return workflow.DeleteShoppingList(ctx, svc, sh, list.ID)
				})
			},
			func() error {
				return withTimeout(svc, func(ctx context.Context) error {
					if err := workflow.Restore(ctx, svc, db.ShoppingLists, sh.Lists, list); err != nil {
						return err
					}
					return workflow.SwitchShoppingList(ctx, svc, sh, list.ID)
				})
			},
		)
	}
}

func (m Model) deleteListCmd(list model.ShoppingList) tea.Cmd {
	svc, sh := m.svc, m.data.shopping
	return func() tea.Msg {
		var saved []model.ShoppingItem
		err := withTimeout(svc, func(ctx context.Context) error {
			var err error
			if saved, err = db.ShoppingItems(list.ID).List(ctx, svc.Store); err != nil {
				return err
			}
			return workflow.DeleteShoppingList(ctx, svc, sh, list.ID)
		})
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return savedMsg(model.ScreenShopping, "delete", "list "+list.Name+" deleted",
			func() error {
				return withTimeout(svc, func(ctx context.Context) error {
					if err := workflow.Restore(ctx, svc, db.ShoppingLists, sh.Lists, list); err != nil {
						return err
					}
					items := db.ShoppingItems(list.ID)
					for _, it := range saved {
						if err := items.Restore(ctx, svc.Store, it); err != nil {
							return err
						}
					}
					return workflow.SwitchShoppingList(ctx, svc, sh, list.ID)
				})
			},
			func() error {
				return withTimeout(svc, func(ctx context.Context) error {
					return workflow.DeleteShoppingList(ctx, svc, sh, list.ID)
				})
			},
		)
	}
}

type listSwitchedMsg struct {
	list model.ShoppingList
}

// ShoppingItemDetailModel shows an item's product variants with the best
// price per unit highlighted.
type ShoppingItemDetailModel struct {
	item   model.ShoppingItem
	cursor int
}

// NewShoppingItemDetailModel creates a shopping item detail model.
func NewShoppingItemDetailModel(item model.ShoppingItem) *ShoppingItemDetailModel {
	return &ShoppingItemDetailModel{item: item}
}

// SetItem swaps in a fresh copy of the item after a change.
func (d *ShoppingItemDetailModel) SetItem(item model.ShoppingItem) {
	d.item = item
	if d.cursor >= len(item.Products) {
		d.cursor = max(0, len(item.Products)-1)
	}
}

// MoveDown moves the product cursor down.
func (d *ShoppingItemDetailModel) MoveDown() {
	if d.cursor < len(d.item.Products)-1 {
		d.cursor++
	}
}

// MoveUp moves the product cursor up.
func (d *ShoppingItemDetailModel) MoveUp() {
	if d.cursor > 0 {
		d.cursor--
	}
}

// View renders the item detail.
func (d *ShoppingItemDetailModel) View(width, height int) string {
	it := d.item
	status := "pending"
	if it.Completed {
		status = "done"
	}

	var fields []string
	fields = append(fields, renderField("Name", it.Name))
	fields = append(fields, renderField("Category", it.Category))
	fields = append(fields, renderField("Status", status))

	var products []string
	best := derive.CheapestVariant(it.Products)
	for i, p := range it.Products {
		line := fmt.Sprintf("%s  %s for %s  ·  %s/%s  ·  %s",
			p.ProductName,
			util.FormatPrice(p.Price),
			util.FormatQuantity(p.Quantity, p.Unit),
			util.FormatPrice(p.PricePerUnit),
			orDefault(p.Unit, "unit"),
			orDash(p.Store),
		)
		if p.StoreURL != "" {
			line += HelpDescStyle.Render("  " + p.StoreURL)
		}
		switch {
		case i == d.cursor:
			line = SelectedRowStyle.Render(line)
		case i == best:
			line = BestPriceStyle.Render("★ " + line)
		default:
			line = NormalRowStyle.Render(line)
		}
		products = append(products, line)
	}
	if len(products) == 0 {
		products = append(products, HelpDescStyle.Render("  No products yet. Press p to compare one."))
	}

	content := strings.Join(fields, "\n") + "\n\n" + LabelStyle.Render("Products") + "\n" + strings.Join(products, "\n")
	return PanelStyle.Width(width - 4).Height(height - 4).Render(content)
}
