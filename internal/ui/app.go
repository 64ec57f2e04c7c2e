package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"mise/internal/db"
	"mise/internal/media"
	"mise/internal/model"
	"mise/internal/prefs"
	"mise/internal/util"
	"mise/internal/workflow"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// Options configures the root model.
type Options struct {
	Layout      string
	DefaultList string
	Images      *media.Loader // nil disables recipe images
	ImageWidth  int
	Prefs       prefs.Store
}

// dataSet holds the mirrors every view renders from.
type dataSet struct {
	recipes   *workflow.Mirror[model.Recipe]
	menus     *workflow.Mirror[model.Menu]
	inventory *workflow.Mirror[model.InventoryItem]
	calendar  *workflow.Mirror[model.CalendarEntry]
	diary     *workflow.Mirror[model.DiaryEntry]
	shopping  *workflow.Shopping
}

type confirmPrompt struct {
	prompt string
	cmd    tea.Cmd
}

// Model is the root Bubble Tea model.
type Model struct {
	svc  *workflow.Service
	log  *zap.Logger
	opts Options
	data *dataSet

	screen model.Screen
	mode   model.Mode
	gState GState

	width  int
	height int

	error       string
	info        string
	showingHelp bool
	columnJump  bool
	loading     map[model.Screen]bool
	ready       map[model.Screen]bool
	spinner     spinner.Model
	search      textinput.Model
	confirm     *confirmPrompt

	// Screen models
	menusView     *MenusView
	calendarView  *CalendarView
	recipesView   *RecipesView
	inventoryView *InventoryView
	shoppingView  *ShoppingView
	diaryView     *DiaryView
	recipeDetail  *RecipeDetailModel
	menuDetail    *MenuDetailModel
	dayDetail     *DayDetailModel
	itemDetail    *ShoppingItemDetailModel
	menuPicker    *MenuPickerModel
	form          *FormModel

	// overlayReturn is the screen a form or the menu picker returns to.
	overlayReturn model.Screen

	keys      KeyMap
	prefs     prefs.UIPreferences
	undoStack []undoAction
	redoStack []undoAction
}

// New creates a new root model. Preferences are read synchronously so the
// tables start with their saved layout.
func New(svc *workflow.Service, opts Options) Model {
	if opts.Layout == "" {
		opts.Layout = db.LayoutLists
	}
	if opts.DefaultList == "" {
		opts.DefaultList = "Groceries"
	}

	data := &dataSet{
		recipes:   workflow.NewRecipeMirror(),
		menus:     workflow.NewMenuMirror(),
		inventory: workflow.NewInventoryMirror(),
		calendar:  workflow.NewCalendarMirror(),
		diary:     workflow.NewDiaryMirror(),
		shopping:  workflow.NewShopping(opts.Layout),
	}

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search"
	search.CharLimit = 64

	m := Model{
		svc:     svc,
		log:     svc.Log,
		opts:    opts,
		data:    data,
		screen:  model.ScreenMenus,
		mode:    model.ModeNav,
		gState:  GStateIdle,
		loading: make(map[model.Screen]bool),
		ready:   make(map[model.Screen]bool),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(ColorAccent)),
		),
		search:        search,
		menusView:     NewMenusView(),
		calendarView:  NewCalendarView(svc.Now()),
		recipesView:   NewRecipesView(),
		inventoryView: NewInventoryView(svc.Now),
		shoppingView:  NewShoppingView(data.shopping),
		diaryView:     NewDiaryView(),
		keys:          DefaultKeyMap(),
	}

	if opts.Prefs != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		p, err := opts.Prefs.Load(ctx)
		cancel()
		if err != nil {
			m.log.Warn("unable to load preferences", zap.Error(err))
		} else {
			m.prefs = p
		}
	}
	m.menusView.ApplyPrefs(m.prefs.Menus)
	m.recipesView.ApplyPrefs(m.prefs.Recipes)
	m.inventoryView.ApplyPrefs(m.prefs.Inventory)
	m.shoppingView.ApplyPrefs(m.prefs.Shopping)
	m.diaryView.ApplyPrefs(m.prefs.Diary)
	if m.prefs.ActiveTab >= 0 && m.prefs.ActiveTab < len(model.Tabs) {
		m.screen = model.Tabs[m.prefs.ActiveTab]
	}

	for _, s := range model.Tabs {
		m.loading[s] = true
	}
	return m
}

// Init loads every collection.
func (m Model) Init() tea.Cmd {
	return tea.Batch(append(m.loadCmds(m.prefs.ActiveList), m.spinner.Tick)...)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// Handle ctrl+c globally
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.mode {
		case model.ModeInsert:
			return m.handleInsertMode(msg)
		case model.ModeSearch:
			return m.handleSearchMode(msg)
		case model.ModeConfirm:
			return m.handleConfirmMode(msg)
		}

		if m.columnJump {
			return m.handleColumnJump(msg)
		}

		if key.Matches(msg, m.keys.Help) {
			m.showingHelp = !m.showingHelp
			return m, nil
		}
		if m.showingHelp {
			if msg.String() == "esc" {
				m.showingHelp = false
			}
			return m, nil
		}
		return m.handleNavMode(msg)

	case spinner.TickMsg:
		if len(m.loading) == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case model.LoadedMsg:
		delete(m.loading, msg.Screen)
		if msg.Err != nil {
			m.error = msg.Err.Error()
		} else {
			m.ready[msg.Screen] = true
		}
		m.refreshViews()
		return m, tea.Batch(m.syncDetails(), m.syncActiveList())

	case model.SavedMsg:
		m.log.Info("saved",
			zap.String("screen", msg.Screen.String()),
			zap.String("operation", msg.Operation),
			zap.String("label", msg.Label))
		if msg.Undo != nil && msg.Redo != nil {
			m.pushUndoAction(undoAction{label: msg.Label, undo: msg.Undo, redo: msg.Redo})
		}
		if (m.form != nil && m.form.submitted) || m.screen == model.ScreenMenuPicker {
			m.closeOverlay()
		}
		m.error = ""
		m.info = sentence(msg.Label)
		if msg.Undo != nil {
			m.info += " (u to undo)"
		}
		m.refreshViews()
		return m, tea.Batch(m.syncDetails(), m.syncActiveList())

	case listSwitchedMsg:
		m.info = "Switched to " + msg.list.Name
		m.error = ""
		m.refreshViews()
		return m, m.syncActiveList()

	case model.ImageLoadedMsg:
		if d := m.recipeDetail; d != nil && d.recipe.Image == msg.Source {
			d.loading = false
			d.art = msg.Art
			d.artErr = msg.Err
		}
		return m, nil

	case model.FormCancelledMsg:
		m.closeOverlay()
		return m, nil

	case model.ErrorMsg:
		m.log.Warn("command failed", zap.Error(msg.Err))
		if m.form != nil && m.form.submitted {
			m.form.submitted = false
			m.form.error = msg.Err.Error()
			return m, nil
		}
		m.error = msg.Err.Error()
		return m, nil

	case undoAppliedMsg:
		return m, m.applyUndoResult(msg)

	default:
		// Cursor blinks and the like belong to the focused input.
		switch m.mode {
		case model.ModeInsert:
			return m.handleInsertMode(msg)
		case model.ModeSearch:
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if m.showingHelp {
		return RenderFullHelp(m.width, m.height)
	}

	top := []string{renderHeader(m.breadcrumb(), m.headerStatus(), m.svc.Now(), m.width)}
	if m.screen.IsTab() {
		top = append(top, renderTabs(m.screen, m.width))
	}
	if m.error != "" {
		top = append(top, ErrorStyle.Width(m.width).Render("Error: "+m.error))
	}
	if m.info != "" {
		top = append(top, SuccessStyle.Width(m.width).Render(m.info))
	}
	if m.mode == model.ModeConfirm && m.confirm != nil {
		top = append(top, WarningStyle.Width(m.width).Render(m.confirm.prompt+"  (y/n)"))
	}
	if m.mode == model.ModeSearch {
		top = append(top, SearchBarStyle.Width(m.width).Render(m.search.View()))
	}
	footer := RenderHelp(m.screen, m.mode, m.width)

	contentHeight := m.height - lipgloss.Height(footer)
	for _, part := range top {
		contentHeight -= lipgloss.Height(part)
	}
	contentHeight = max(contentHeight, 3)

	content := m.renderContent(contentHeight)

	// Ensure content fills the available height to anchor footer at bottom
	content = lipgloss.NewStyle().
		Width(m.width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)

	parts := append(top, content, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderContent(height int) string {
	if m.screen.IsTab() && m.loading[m.screen] && !m.ready[m.screen] {
		return EmptyStateStyle.Render(m.spinner.View() + " loading " + strings.ToLower(m.screen.String()) + "...")
	}
	switch m.screen {
	case model.ScreenMenus:
		return m.menusView.View(m.width, height)
	case model.ScreenCalendar:
		return m.calendarView.View(m.width, height)
	case model.ScreenRecipes:
		return m.recipesView.View(m.width, height)
	case model.ScreenInventory:
		return m.inventoryView.View(m.width, height)
	case model.ScreenShopping:
		return m.shoppingView.View(m.width, height)
	case model.ScreenDiary:
		return m.diaryView.View(m.width, height)
	case model.ScreenRecipeDetail:
		if m.recipeDetail != nil {
			return m.recipeDetail.View(m.width, height)
		}
	case model.ScreenMenuDetail:
		if m.menuDetail != nil {
			return m.menuDetail.View(m.width, height)
		}
	case model.ScreenDayDetail:
		if m.dayDetail != nil {
			return m.dayDetail.View(m.width, height)
		}
	case model.ScreenShoppingItemDetail:
		if m.itemDetail != nil {
			return m.itemDetail.View(m.width, height)
		}
	case model.ScreenMenuPicker:
		if m.menuPicker != nil {
			return m.menuPicker.View(m.width, height)
		}
	case model.ScreenForm:
		if m.form != nil {
			return m.form.View(m.width, height)
		}
	}
	return ""
}

func (m Model) breadcrumb() []string {
	switch m.screen {
	case model.ScreenRecipeDetail:
		if m.recipeDetail != nil {
			return []string{"Recipes", m.recipeDetail.recipe.Name}
		}
	case model.ScreenMenuDetail:
		if m.menuDetail != nil {
			return []string{"Menus", m.menuDetail.menu.Name}
		}
	case model.ScreenDayDetail:
		if m.dayDetail != nil {
			return []string{"Calendar", util.FormatDateLong(m.dayDetail.day.Date)}
		}
	case model.ScreenShoppingItemDetail:
		if m.itemDetail != nil {
			return []string{"Shopping", m.itemDetail.item.Name}
		}
	case model.ScreenMenuPicker:
		return []string{"Calendar", "Schedule"}
	case model.ScreenForm:
		if m.form != nil {
			return []string{tabOf(m.overlayReturn).String(), m.form.title}
		}
	}
	return []string{tabOf(m.screen).String()}
}

func (m Model) headerStatus() string {
	if len(m.loading) > 0 {
		return m.spinner.View()
	}
	return ""
}

// tabOf maps a screen to the tab it belongs to.
func tabOf(s model.Screen) model.Screen {
	switch s {
	case model.ScreenRecipeDetail:
		return model.ScreenRecipes
	case model.ScreenMenuDetail:
		return model.ScreenMenus
	case model.ScreenDayDetail, model.ScreenMenuPicker:
		return model.ScreenCalendar
	case model.ScreenShoppingItemDetail:
		return model.ScreenShopping
	}
	return s
}

func renderTabs(screen model.Screen, width int) string {
	var tabStrings []string
	for i, tab := range model.Tabs {
		tabStyle := lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(ColorMuted)

		if screen == tab {
			tabStyle = tabStyle.
				Foreground(ColorText).
				Bold(true).
				Underline(true)
		}

		tabStrings = append(tabStrings, tabStyle.Render(strconv.Itoa(i+1)+" "+tab.String()))
	}

	tabBar := lipgloss.JoinHorizontal(lipgloss.Left, tabStrings...)
	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 2).
		BorderBottom(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		Render(tabBar)
}

func renderHeader(breadcrumbParts []string, status string, now time.Time, width int) string {
	// Left side: app name + breadcrumb
	title := HeaderStyle.Render("mise")

	var breadcrumb string
	if len(breadcrumbParts) > 0 {
		separator := BreadcrumbStyle.Render(" › ")
		parts := make([]string, len(breadcrumbParts))
		for i, part := range breadcrumbParts {
			if i == len(breadcrumbParts)-1 {
				parts[i] = BreadcrumbActiveStyle.Render(part)
			} else {
				parts[i] = BreadcrumbStyle.Render(part)
			}
		}
		breadcrumb = separator + strings.Join(parts, separator)
	}

	left := "  " + title + breadcrumb
	if status != "" {
		left += "  " + status
	}

	// Right side: current date
	right := BreadcrumbStyle.Render(now.Format("Mon 02 Jan")) + "  "

	padding := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return TitleStyle.Width(width).Render(left + strings.Repeat(" ", padding) + right)
}

func sentence(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// refreshViews re-reads every mirror into its view.
func (m *Model) refreshViews() {
	inventory := m.data.inventory.Items()
	m.menusView.Refresh(m.data.menus.Items())
	m.calendarView.Refresh(m.data.calendar.Items())
	m.recipesView.Refresh(m.data.recipes.Items(), inventory)
	m.inventoryView.Refresh(inventory)
	m.shoppingView.Refresh()
	m.diaryView.Refresh(m.data.diary.Items())
	if m.menuPicker != nil {
		m.menuPicker.SetRows(m.data.menus.Items())
	}
}

// syncDetails swaps fresh copies into open detail screens and leaves a
// detail whose record is gone.
func (m *Model) syncDetails() tea.Cmd {
	var cmd tea.Cmd
	if d := m.recipeDetail; d != nil {
		if r, ok := m.data.recipes.Find(d.recipe.ID); ok {
			changed := r.Image != d.recipe.Image
			d.recipe = r
			d.inventory = m.data.inventory.Items()
			if changed {
				d.art, d.artErr = "", nil
				cmd = m.loadImageCmd(d)
			}
		} else {
			m.recipeDetail = nil
			m.leaveDetail(model.ScreenRecipeDetail)
		}
	}
	if d := m.menuDetail; d != nil {
		if menu, ok := m.data.menus.Find(d.menu.ID); ok {
			d.menu = menu
		} else {
			m.menuDetail = nil
			m.leaveDetail(model.ScreenMenuDetail)
		}
	}
	if d := m.dayDetail; d != nil {
		d.day = m.calendarDayFor(d.day.Date)
	}
	if d := m.itemDetail; d != nil {
		if item, ok := m.data.shopping.Items.Find(d.item.ID); ok {
			d.SetItem(item)
		} else {
			m.itemDetail = nil
			m.leaveDetail(model.ScreenShoppingItemDetail)
		}
	}
	return cmd
}

func (m *Model) leaveDetail(detail model.Screen) {
	if m.screen == detail {
		m.screen = tabOf(detail)
	}
	if m.overlayReturn == detail {
		m.overlayReturn = tabOf(detail)
	}
}

func (m *Model) calendarDayFor(date string) calendarDay {
	day := calendarDay{Date: date}
	for _, e := range m.data.calendar.Items() {
		if e.Date == date {
			day.Entries = append(day.Entries, e)
		}
	}
	return day
}

// syncActiveList remembers the active shopping list across sessions.
func (m *Model) syncActiveList() tea.Cmd {
	id := m.data.shopping.ActiveID()
	if id == "" || id == m.prefs.ActiveList {
		return nil
	}
	m.prefs.ActiveList = id
	return m.savePrefsCmd()
}

func (m *Model) closeOverlay() {
	m.mode = model.ModeNav
	m.form = nil
	m.menuPicker = nil
	m.screen = m.overlayReturn
}

func (m *Model) openForm(f *FormModel) {
	m.overlayReturn = m.screen
	m.form = f
	m.mode = model.ModeInsert
	m.screen = model.ScreenForm
	m.info = ""
}

func (m *Model) askConfirm(prompt string, cmd tea.Cmd) {
	m.confirm = &confirmPrompt{prompt: prompt, cmd: cmd}
	m.mode = model.ModeConfirm
}

// handleNavMode handles navigation mode input.
func (m Model) handleNavMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if t := m.currentTable(); t != nil {
		switch {
		case key.Matches(msg, m.keys.NextColumn):
			t.NextColumn()
			return m, m.persistCurrentTablePrefs()
		case key.Matches(msg, m.keys.PrevColumn):
			t.PrevColumn()
			return m, m.persistCurrentTablePrefs()
		case msg.String() == "#":
			m.columnJump = true
			m.info = "Jump to column: press 1-9 (esc to cancel)"
			return m, nil
		case key.Matches(msg, m.keys.SortAsc):
			t.SortActiveColumn(false)
			m.info = "Sorted ascending"
			return m, m.persistCurrentTablePrefs()
		case key.Matches(msg, m.keys.SortDesc):
			t.SortActiveColumn(true)
			m.info = "Sorted descending"
			return m, m.persistCurrentTablePrefs()
		case key.Matches(msg, m.keys.HideColumn):
			if t.HideActiveColumn() {
				m.info = "Column hidden"
				return m, m.persistCurrentTablePrefs()
			}
			m.info = "Cannot hide last visible column"
			return m, nil
		case key.Matches(msg, m.keys.ShowColumns):
			t.ShowAllColumns()
			m.info = "All columns shown"
			return m, m.persistCurrentTablePrefs()
		case key.Matches(msg, m.keys.FilterValue):
			if t.FilterBySelectedValue() {
				m.info = "Filter applied from selected value"
			} else {
				m.info = "No filterable value in selected cell"
			}
			return m, nil
		case key.Matches(msg, m.keys.ClearFilter):
			if t.ClearFilter() {
				m.info = "Filter cleared"
			}
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Undo):
		if len(m.undoStack) == 0 {
			m.info = "Nothing to undo"
			return m, nil
		}
		return m, m.undoCmd()
	case key.Matches(msg, m.keys.Redo):
		if len(m.redoStack) == 0 {
			m.info = "Nothing to redo"
			return m, nil
		}
		return m, m.redoCmd()
	}

	// Handle "gg" state machine
	if msg.String() == "g" {
		if m.gState == GStateIdle {
			m.gState = GStateFirstG
			return m, nil
		}
		m.gState = GStateIdle
		if nav := m.currentNavigable(); nav != nil {
			nav.JumpToTop()
		}
		return m, nil
	}
	m.gState = GStateIdle

	if m.screen.IsTab() {
		if next, ok := m.tabKey(msg); ok {
			return m, m.switchTab(next)
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Search):
			if s := m.currentSearchable(); s != nil {
				m.mode = model.ModeSearch
				m.search.SetValue(s.SearchTerm())
				m.search.CursorEnd()
				return m, m.search.Focus()
			}
			return m, nil
		case key.Matches(msg, m.keys.CycleFilter):
			if c := m.currentCycler(); c != nil {
				m.info = c.CycleCategory()
			}
			return m, nil
		}
	}

	if nav := m.currentNavigable(); nav != nil && m.moveCursor(nav, msg) {
		return m, nil
	}

	// Screen-specific navigation
	switch m.screen {
	case model.ScreenMenus:
		return m.handleMenusNav(msg)
	case model.ScreenCalendar:
		return m.handleCalendarNav(msg)
	case model.ScreenRecipes:
		return m.handleRecipesNav(msg)
	case model.ScreenInventory:
		return m.handleInventoryNav(msg)
	case model.ScreenShopping:
		return m.handleShoppingNav(msg)
	case model.ScreenDiary:
		return m.handleDiaryNav(msg)
	case model.ScreenRecipeDetail:
		return m.handleRecipeDetailNav(msg)
	case model.ScreenMenuDetail:
		return m.handleMenuDetailNav(msg)
	case model.ScreenDayDetail:
		return m.handleDayDetailNav(msg)
	case model.ScreenShoppingItemDetail:
		return m.handleItemDetailNav(msg)
	case model.ScreenMenuPicker:
		return m.handleMenuPickerNav(msg)
	}

	return m, nil
}

func (m Model) moveCursor(nav navigable, msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, m.keys.Down):
		nav.MoveDown()
	case key.Matches(msg, m.keys.Up):
		nav.MoveUp()
	case key.Matches(msg, m.keys.Bottom):
		nav.JumpToBottom()
	case key.Matches(msg, m.keys.HalfPageDown):
		nav.HalfPageDown(m.height / 2)
	case key.Matches(msg, m.keys.HalfPageUp):
		nav.HalfPageUp(m.height / 2)
	default:
		return false
	}
	return true
}

func (m Model) tabKey(msg tea.KeyMsg) (model.Screen, bool) {
	numbered := []key.Binding{m.keys.Tab1, m.keys.Tab2, m.keys.Tab3, m.keys.Tab4, m.keys.Tab5, m.keys.Tab6}
	for i, b := range numbered {
		if key.Matches(msg, b) {
			return model.Tabs[i], true
		}
	}
	cur := tabIndex(m.screen)
	switch {
	case key.Matches(msg, m.keys.PrevTab):
		return model.Tabs[(cur-1+len(model.Tabs))%len(model.Tabs)], true
	case key.Matches(msg, m.keys.NextTab):
		return model.Tabs[(cur+1)%len(model.Tabs)], true
	}
	return 0, false
}

func tabIndex(s model.Screen) int {
	for i, t := range model.Tabs {
		if t == s {
			return i
		}
	}
	return 0
}

func (m *Model) switchTab(s model.Screen) tea.Cmd {
	if s == m.screen {
		return nil
	}
	m.screen = s
	m.info = ""
	m.columnJump = false
	m.prefs.ActiveTab = tabIndex(s)
	return m.savePrefsCmd()
}

func (m *Model) currentTable() tableController {
	switch m.screen {
	case model.ScreenMenus:
		return m.menusView
	case model.ScreenCalendar:
		return m.calendarView
	case model.ScreenRecipes:
		return m.recipesView
	case model.ScreenInventory:
		return m.inventoryView
	case model.ScreenShopping:
		return m.shoppingView
	case model.ScreenDiary:
		return m.diaryView
	case model.ScreenMenuPicker:
		if m.menuPicker != nil {
			return m.menuPicker
		}
	}
	return nil
}

func (m *Model) currentNavigable() navigable {
	switch m.screen {
	case model.ScreenMenus:
		return m.menusView
	case model.ScreenCalendar:
		return m.calendarView
	case model.ScreenRecipes:
		return m.recipesView
	case model.ScreenInventory:
		return m.inventoryView
	case model.ScreenShopping:
		return m.shoppingView
	case model.ScreenDiary:
		return m.diaryView
	case model.ScreenMenuPicker:
		if m.menuPicker != nil {
			return m.menuPicker
		}
	}
	return nil
}

func (m *Model) currentSearchable() searchable {
	switch m.screen {
	case model.ScreenMenus:
		return m.menusView
	case model.ScreenRecipes:
		return m.recipesView
	case model.ScreenInventory:
		return m.inventoryView
	case model.ScreenShopping:
		return m.shoppingView
	case model.ScreenDiary:
		return m.diaryView
	}
	return nil
}

func (m *Model) currentCycler() categoryCycler {
	switch m.screen {
	case model.ScreenMenus:
		return m.menusView
	case model.ScreenRecipes:
		return m.recipesView
	case model.ScreenInventory:
		return m.inventoryView
	case model.ScreenShopping:
		return m.shoppingView
	case model.ScreenDiary:
		return m.diaryView
	}
	return nil
}

// persistCurrentTablePrefs copies the current table layout into the
// preferences and saves them.
func (m *Model) persistCurrentTablePrefs() tea.Cmd {
	switch m.screen {
	case model.ScreenMenus:
		m.prefs.Menus = m.menusView.Prefs()
	case model.ScreenRecipes:
		m.prefs.Recipes = m.recipesView.Prefs()
	case model.ScreenInventory:
		m.prefs.Inventory = m.inventoryView.Prefs()
	case model.ScreenShopping:
		m.prefs.Shopping = m.shoppingView.Prefs()
	case model.ScreenDiary:
		m.prefs.Diary = m.diaryView.Prefs()
	default:
		return nil
	}
	return m.savePrefsCmd()
}

func (m *Model) savePrefsCmd() tea.Cmd {
	store, p, log := m.opts.Prefs, m.prefs, m.log
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := store.Save(ctx, p); err != nil {
			log.Warn("unable to save preferences", zap.Error(err))
		}
		return nil
	}
}

func (m Model) handleColumnJump(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.columnJump = false
		m.info = ""
		return m, nil
	}
	n, err := strconv.Atoi(msg.String())
	if err != nil {
		return m, nil
	}
	if t := m.currentTable(); t != nil && t.JumpToColumn(n) {
		m.columnJump = false
		m.info = fmt.Sprintf("Jumped to column %d", n)
		return m, m.persistCurrentTablePrefs()
	}
	m.info = fmt.Sprintf("Column %d unavailable", n)
	return m, nil
}

// handleInsertMode routes input to the open form.
func (m Model) handleInsertMode(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		m.mode = model.ModeNav
		return m, nil
	}
	return m, m.form.Update(msg)
}

// handleSearchMode filters the current list as the term is typed.
func (m Model) handleSearchMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.currentSearchable()
	if s == nil {
		m.mode = model.ModeNav
		return m, nil
	}
	switch msg.String() {
	case "enter":
		m.mode = model.ModeNav
		m.search.Blur()
		if term := s.SearchTerm(); term != "" {
			m.info = "Search: " + term
		}
		return m, nil
	case "esc":
		m.mode = model.ModeNav
		m.search.Blur()
		m.search.SetValue("")
		s.SetSearch("")
		m.info = "Search cleared"
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	s.SetSearch(strings.TrimSpace(m.search.Value()))
	return m, cmd
}

func (m Model) handleConfirmMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		cmd := m.confirm.cmd
		m.confirm = nil
		m.mode = model.ModeNav
		return m, cmd
	case "n", "N", "esc", "q":
		m.confirm = nil
		m.mode = model.ModeNav
		m.info = "Cancelled"
		return m, nil
	}
	return m, nil
}

// Navigation handlers for each screen

func (m Model) handleMenusNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Add):
		m.openForm(m.menuForm(nil))
		return m, nil
	}
	menu, ok := m.menusView.Selected()
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Select):
		m.menuDetail = NewMenuDetailModel(menu)
		m.screen = model.ScreenMenuDetail
		m.info = ""
		return m, nil
	case key.Matches(msg, m.keys.Edit):
		m.openForm(m.menuForm(&menu))
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		m.askConfirm("Delete menu "+menu.Name+"?", m.deleteMenuCmd(menu))
		return m, nil
	}
	return m, nil
}

func (m Model) deleteMenuCmd(menu model.Menu) tea.Cmd {
	return deleteCmd(m.svc, model.ScreenMenus, "menu "+menu.Name+" deleted", db.Menus, m.data.menus, menu)
}

func (m Model) handleCalendarNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.PrevWeek):
		m.calendarView.PrevWeek()
		return m, nil
	case key.Matches(msg, m.keys.NextWeek):
		m.calendarView.NextWeek()
		return m, nil
	case key.Matches(msg, m.keys.ThisWeek):
		m.calendarView.ThisWeek(m.svc.Now())
		return m, nil
	}
	day, ok := m.calendarView.Selected()
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Schedule):
		m.openMenuPicker(day.Date)
		return m, nil
	case key.Matches(msg, m.keys.Select):
		m.dayDetail = NewDayDetailModel(day)
		m.screen = model.ScreenDayDetail
		m.info = ""
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		m.confirmClearDay(day)
		return m, nil
	}
	return m, nil
}

func (m *Model) openMenuPicker(date string) {
	m.overlayReturn = m.screen
	m.menuPicker = NewMenuPickerModel(date, m.data.menus.Items())
	m.screen = model.ScreenMenuPicker
	m.info = ""
}

func (m *Model) confirmClearDay(day calendarDay) {
	if len(day.Entries) == 0 {
		m.info = "Nothing scheduled on " + util.FormatDate(day.Date)
		return
	}
	m.askConfirm(fmt.Sprintf("Remove %s from %s?", day.menuNames(), util.FormatDate(day.Date)), m.unscheduleCmd(day))
}

func (m Model) handleRecipesNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Add):
		m.openForm(m.recipeForm(nil))
		return m, nil
	case key.Matches(msg, m.keys.Cuisine):
		m.info = m.recipesView.CycleCuisine()
		return m, nil
	case key.Matches(msg, m.keys.StockOnly):
		m.info = m.recipesView.ToggleStockOnly()
		return m, nil
	}
	recipe, ok := m.recipesView.Selected()
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Select):
		return m, m.openRecipeDetail(recipe)
	case key.Matches(msg, m.keys.Edit):
		m.openForm(m.recipeForm(&recipe))
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		m.askConfirm("Delete recipe "+recipe.Name+"?", m.deleteRecipeCmd(recipe))
		return m, nil
	case key.Matches(msg, m.keys.AddMissing):
		return m, m.addMissingCmd(recipe)
	}
	return m, nil
}

func (m Model) deleteRecipeCmd(recipe model.Recipe) tea.Cmd {
	return deleteCmd(m.svc, model.ScreenRecipes, "recipe "+recipe.Name+" deleted", db.Recipes, m.data.recipes, recipe)
}

func (m *Model) openRecipeDetail(recipe model.Recipe) tea.Cmd {
	d := NewRecipeDetailModel(recipe, m.data.inventory.Items(), false)
	m.recipeDetail = d
	m.screen = model.ScreenRecipeDetail
	m.info = ""
	return m.loadImageCmd(d)
}

func (m *Model) loadImageCmd(d *RecipeDetailModel) tea.Cmd {
	loader, src := m.opts.Images, d.recipe.Image
	if loader == nil || strings.TrimSpace(src) == "" {
		d.loading = false
		return nil
	}
	d.loading = true
	width := m.opts.ImageWidth
	if m.width > 0 {
		width = min(width, m.width/2-8)
	}
	width = max(width, 8)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		art, err := loader.Render(ctx, src, width)
		return model.ImageLoadedMsg{Source: src, Art: art, Err: err}
	}
}

func (m Model) handleInventoryNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Add):
		m.openForm(m.inventoryForm(nil))
		return m, nil
	case key.Matches(msg, m.keys.Expiry):
		m.info = m.inventoryView.CycleExpiry()
		return m, nil
	}
	item, ok := m.inventoryView.Selected()
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Select), key.Matches(msg, m.keys.Edit):
		m.openForm(m.inventoryForm(&item))
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		m.askConfirm("Delete "+item.Name+" from the pantry?",
			deleteCmd(m.svc, model.ScreenInventory, item.Name+" deleted", db.Inventory, m.data.inventory, item))
		return m, nil
	}
	return m, nil
}

func (m Model) handleShoppingNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	flat := m.data.shopping.Layout == db.LayoutFlat
	switch {
	case key.Matches(msg, m.keys.Add):
		m.openForm(m.shoppingItemForm(nil))
		return m, nil
	case key.Matches(msg, m.keys.Show):
		m.info = m.shoppingView.CycleShow()
		return m, nil
	case key.Matches(msg, m.keys.PrevList), key.Matches(msg, m.keys.NextList):
		if flat {
			m.info = "The flat layout has a single list"
			return m, nil
		}
		step := 1
		if key.Matches(msg, m.keys.PrevList) {
			step = -1
		}
		if list, ok := m.shoppingView.adjacentList(step); ok {
			return m, m.switchListCmd(list)
		}
		m.info = "No other list"
		return m, nil
	case key.Matches(msg, m.keys.NewList):
		if flat {
			m.info = "The flat layout has a single list"
			return m, nil
		}
		m.openForm(m.newListForm())
		return m, nil
	case key.Matches(msg, m.keys.DeleteList):
		if flat {
			m.info = "The flat layout has a single list"
			return m, nil
		}
		if list, ok := m.data.shopping.Active(); ok {
			m.askConfirm(fmt.Sprintf("Delete list %s and its %d items?", list.Name, m.data.shopping.Items.Len()), m.deleteListCmd(list))
		}
		return m, nil
	}
	item, ok := m.shoppingView.Selected()
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Toggle):
		return m, m.toggleCmd(item)
	case key.Matches(msg, m.keys.Select):
		m.itemDetail = NewShoppingItemDetailModel(item)
		m.screen = model.ScreenShoppingItemDetail
		m.info = ""
		return m, nil
	case key.Matches(msg, m.keys.Edit):
		m.openForm(m.shoppingItemForm(&item))
		return m, nil
	case key.Matches(msg, m.keys.AddProduct):
		m.openForm(m.productForm(item))
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		m.askConfirm("Delete "+item.Name+" from the list?", m.deleteShoppingItemCmd(item))
		return m, nil
	}
	return m, nil
}

func (m Model) deleteShoppingItemCmd(item model.ShoppingItem) tea.Cmd {
	items, err := m.data.shopping.Collection()
	if err != nil {
		return errorCmd(err)
	}
	return deleteCmd(m.svc, model.ScreenShopping, item.Name+" deleted", items, m.data.shopping.Items, item)
}

func (m Model) handleDiaryNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Add):
		m.openForm(m.diaryForm(nil))
		return m, nil
	case key.Matches(msg, m.keys.DiaryDate):
		m.info = m.diaryView.ToggleDate(m.svc.Now().Format(util.ISODate))
		return m, nil
	}
	entry, ok := m.diaryView.Selected()
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Select), key.Matches(msg, m.keys.Edit):
		m.openForm(m.diaryForm(&entry))
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		m.askConfirm("Delete the diary entry for "+util.FormatDateLong(entry.Date)+"?",
			deleteCmd(m.svc, model.ScreenDiary, "diary entry deleted", db.Diary, m.data.diary, entry))
		return m, nil
	}
	return m, nil
}

func (m Model) handleRecipeDetailNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := m.recipeDetail
	if d == nil || key.Matches(msg, m.keys.Back) {
		m.screen = model.ScreenRecipes
		m.recipeDetail = nil
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Edit):
		m.openForm(m.recipeForm(&d.recipe))
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		m.askConfirm("Delete recipe "+d.recipe.Name+"?", m.deleteRecipeCmd(d.recipe))
		return m, nil
	case key.Matches(msg, m.keys.AddMissing):
		return m, m.addMissingCmd(d.recipe)
	}
	return m, nil
}

func (m Model) handleMenuDetailNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := m.menuDetail
	if d == nil || key.Matches(msg, m.keys.Back) {
		m.screen = model.ScreenMenus
		m.menuDetail = nil
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Edit):
		m.openForm(m.menuForm(&d.menu))
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		m.askConfirm("Delete menu "+d.menu.Name+"?", m.deleteMenuCmd(d.menu))
		return m, nil
	}
	return m, nil
}

func (m Model) handleDayDetailNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := m.dayDetail
	if d == nil || key.Matches(msg, m.keys.Back) {
		m.screen = model.ScreenCalendar
		m.dayDetail = nil
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Schedule):
		m.openMenuPicker(d.day.Date)
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		m.confirmClearDay(d.day)
		return m, nil
	}
	return m, nil
}

func (m Model) handleItemDetailNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := m.itemDetail
	if d == nil || key.Matches(msg, m.keys.Back) {
		m.screen = model.ScreenShopping
		m.itemDetail = nil
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Down):
		d.MoveDown()
		return m, nil
	case key.Matches(msg, m.keys.Up):
		d.MoveUp()
		return m, nil
	case key.Matches(msg, m.keys.Toggle):
		return m, m.toggleCmd(d.item)
	case key.Matches(msg, m.keys.Edit):
		m.openForm(m.shoppingItemForm(&d.item))
		return m, nil
	case key.Matches(msg, m.keys.AddProduct):
		m.openForm(m.productForm(d.item))
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		if len(d.item.Products) == 0 {
			m.info = "No product to remove"
			return m, nil
		}
		p := d.item.Products[d.cursor]
		m.askConfirm("Remove "+p.ProductName+"?", m.removeProductCmd(d.item, d.cursor))
		return m, nil
	}
	return m, nil
}

func (m Model) handleMenuPickerNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.menuPicker
	if p == nil || msg.String() == "esc" || msg.String() == "q" {
		m.closeOverlay()
		return m, nil
	}
	if key.Matches(msg, m.keys.Select) {
		if menu, ok := p.Selected(); ok {
			return m, m.scheduleCmd(p.date, menu)
		}
	}
	return m, nil
}

// Commands

func loadCmd[T any](svc *workflow.Service, screen model.Screen, c db.Collection[T], mir *workflow.Mirror[T]) tea.Cmd {
	return func() tea.Msg {
		err := withTimeout(svc, func(ctx context.Context) error {
			return workflow.Load(ctx, svc, c, mir)
		})
		return model.LoadedMsg{Screen: screen, Err: err}
	}
}

func loadShoppingCmd(svc *workflow.Service, sh *workflow.Shopping, preferred, defaultList string) tea.Cmd {
	return func() tea.Msg {
		err := withTimeout(svc, func(ctx context.Context) error {
			if err := workflow.LoadShopping(ctx, svc, sh, preferred); err != nil {
				return err
			}
			return workflow.EnsureShoppingList(ctx, svc, sh, defaultList)
		})
		return model.LoadedMsg{Screen: model.ScreenShopping, Err: err}
	}
}

// loadCmds loads every tab's collections. preferred is the shopping list to
// open.
func (m Model) loadCmds(preferred string) []tea.Cmd {
	return []tea.Cmd{
		loadCmd(m.svc, model.ScreenMenus, db.Menus, m.data.menus),
		loadCmd(m.svc, model.ScreenCalendar, db.Calendar, m.data.calendar),
		loadCmd(m.svc, model.ScreenRecipes, db.Recipes, m.data.recipes),
		loadCmd(m.svc, model.ScreenInventory, db.Inventory, m.data.inventory),
		loadShoppingCmd(m.svc, m.data.shopping, preferred, m.opts.DefaultList),
		loadCmd(m.svc, model.ScreenDiary, db.Diary, m.data.diary),
	}
}

// reloadAllCmd reloads everything from the store, keeping the active list.
func (m *Model) reloadAllCmd() tea.Cmd {
	idle := len(m.loading) == 0
	for _, s := range model.Tabs {
		m.loading[s] = true
	}
	preferred := m.data.shopping.ActiveID()
	if preferred == "" {
		preferred = m.prefs.ActiveList
	}
	cmds := m.loadCmds(preferred)
	if idle {
		cmds = append(cmds, m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}
