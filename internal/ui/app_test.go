package ui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"mise/internal/db"
	"mise/internal/model"
	"mise/internal/prefs"
	"mise/internal/store"
	"mise/internal/workflow"

	tea "github.com/charmbracelet/bubbletea"
)

type memPrefs struct {
	mu    sync.Mutex
	p     prefs.UIPreferences
	saves int
}

func (s *memPrefs) Load(context.Context) (prefs.UIPreferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p, nil
}

func (s *memPrefs) Save(_ context.Context, p prefs.UIPreferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p = p
	s.saves++
	return nil
}

func (s *memPrefs) get() prefs.UIPreferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p
}

// execCmd runs cmd, giving up on commands that sleep (blinks and ticks).
func execCmd(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(200 * time.Millisecond):
		return nil
	}
}

// drain runs cmd and every command it leads to, feeding the app's own
// messages back into Update.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := execCmd(c).(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case model.LoadedMsg, model.SavedMsg, model.ErrorMsg, model.FormCancelledMsg, undoAppliedMsg, listSwitchedMsg:
			next, follow := m.Update(msg)
			m = next.(Model)
			queue = append(queue, follow)
		}
	}
	return m
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends keys one by one and drains the resulting commands.
func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, cmd := m.Update(keyPress(k))
		m = drain(t, next.(Model), cmd)
	}
	return m
}

func newTestModel(t *testing.T, st store.Store, opts Options) Model {
	t.Helper()
	svc := workflow.New(st, nil)
	svc.Now = func() time.Time { return time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC) }
	m := New(svc, opts)
	m = drain(t, m, tea.Batch(m.loadCmds("")...))
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model)
}

func seedInventory(t *testing.T, st store.Store, names ...string) {
	t.Helper()
	for _, n := range names {
		if _, err := db.Inventory.Insert(context.Background(), st, model.InventoryItem{Name: n, Category: model.CategoryOther}); err != nil {
			t.Fatalf("seed %s: %v", n, err)
		}
	}
}

func inventoryNames(m Model) []string {
	var names []string
	for _, i := range m.inventoryView.Rows() {
		names = append(names, i.Name)
	}
	return names
}

func TestLoadMarksEveryTabReady(t *testing.T) {
	m := newTestModel(t, store.NewMemory(), Options{})
	if len(m.loading) != 0 {
		t.Fatalf("still loading: %v", m.loading)
	}
	for _, s := range model.Tabs {
		if !m.ready[s] {
			t.Errorf("%s not ready", s)
		}
	}
	if _, ok := m.data.shopping.Active(); !ok {
		t.Fatal("default shopping list was not created")
	}
	if m.View() == "" {
		t.Fatal("empty view after load")
	}
}

func TestLoadErrorKeepsTabUnready(t *testing.T) {
	m := New(workflow.New(store.NewMemory(), nil), Options{})
	next, _ := m.Update(model.LoadedMsg{Screen: model.ScreenMenus, Err: errors.New("store offline")})
	m = next.(Model)
	if m.error != "store offline" {
		t.Fatalf("error = %q", m.error)
	}
	if m.ready[model.ScreenMenus] || m.loading[model.ScreenMenus] {
		t.Fatal("failed tab should be neither ready nor loading")
	}
}

func TestTabSwitching(t *testing.T) {
	m := newTestModel(t, store.NewMemory(), Options{})

	m = press(t, m, "2")
	if m.screen != model.ScreenCalendar {
		t.Fatalf("screen = %s", m.screen)
	}
	m = press(t, m, "l")
	if m.screen != model.ScreenRecipes {
		t.Fatalf("screen = %s", m.screen)
	}
	m = press(t, m, "1", "h")
	if m.screen != model.ScreenDiary {
		t.Fatalf("h from the first tab should wrap, got %s", m.screen)
	}

	_, cmd := m.Update(keyPress("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q should return tea.Quit")
	}
}

func TestAddUndoRedoPantryItem(t *testing.T) {
	m := newTestModel(t, store.NewMemory(), Options{})

	m = press(t, m, "4", "a")
	if m.mode != model.ModeInsert || m.form == nil {
		t.Fatal("a should open the form")
	}
	m = press(t, m, "Flour", "ctrl+s")
	if m.form != nil || m.screen != model.ScreenInventory {
		t.Fatalf("form should close on save, screen = %s", m.screen)
	}
	if got := inventoryNames(m); len(got) != 1 || got[0] != "Flour" {
		t.Fatalf("rows = %v", got)
	}
	if len(m.undoStack) != 1 {
		t.Fatalf("undo stack = %d", len(m.undoStack))
	}

	m = press(t, m, "u")
	if got := inventoryNames(m); len(got) != 0 {
		t.Fatalf("rows after undo = %v", got)
	}
	if len(m.redoStack) != 1 || len(m.loading) != 0 {
		t.Fatalf("redo = %d, loading = %v", len(m.redoStack), m.loading)
	}

	m = press(t, m, "ctrl+r")
	if got := inventoryNames(m); len(got) != 1 || got[0] != "Flour" {
		t.Fatalf("rows after redo = %v", got)
	}
}

func TestFormValidationKeepsFormOpen(t *testing.T) {
	m := newTestModel(t, store.NewMemory(), Options{})

	m = press(t, m, "4", "a", "ctrl+s")
	if m.form == nil || m.screen != model.ScreenForm {
		t.Fatal("invalid form should stay open")
	}
	if m.form.error == "" {
		t.Fatal("expected an inline error")
	}
	if m.form.submitted {
		t.Fatal("nothing was submitted")
	}

	m = press(t, m, "esc")
	if m.form != nil || m.mode != model.ModeNav || m.screen != model.ScreenInventory {
		t.Fatal("esc should cancel the form")
	}
}

func TestDeleteAsksForConfirmation(t *testing.T) {
	st := store.NewMemory()
	seedInventory(t, st, "Rice")
	m := newTestModel(t, st, Options{})

	m = press(t, m, "4", "d")
	if m.mode != model.ModeConfirm || m.confirm == nil {
		t.Fatal("d should ask for confirmation")
	}
	m = press(t, m, "n")
	if m.mode != model.ModeNav || len(inventoryNames(m)) != 1 {
		t.Fatal("n should cancel the delete")
	}

	m = press(t, m, "d", "y")
	if got := inventoryNames(m); len(got) != 0 {
		t.Fatalf("rows after delete = %v", got)
	}
	items, err := db.Inventory.List(context.Background(), st)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 0 {
		t.Fatalf("store still holds %d items", len(items))
	}
}

func TestSearchFiltersAsYouType(t *testing.T) {
	st := store.NewMemory()
	seedInventory(t, st, "Rice", "Flour")
	m := newTestModel(t, st, Options{})

	m = press(t, m, "4", "/")
	if m.mode != model.ModeSearch {
		t.Fatal("/ should enter search mode")
	}
	m = press(t, m, "ri")
	if got := inventoryNames(m); len(got) != 1 || got[0] != "Rice" {
		t.Fatalf("rows = %v", got)
	}
	m = press(t, m, "enter")
	if m.mode != model.ModeNav || m.inventoryView.SearchTerm() != "ri" {
		t.Fatal("enter should keep the term")
	}

	m = press(t, m, "/", "esc")
	if len(inventoryNames(m)) != 2 {
		t.Fatal("esc should clear the search")
	}
}

func TestShoppingToggle(t *testing.T) {
	m := newTestModel(t, store.NewMemory(), Options{})

	m = press(t, m, "5", "a", "Milk", "ctrl+s")
	items := m.data.shopping.Items.Items()
	if len(items) != 1 || items[0].Name != "Milk" || items[0].Completed {
		t.Fatalf("items = %+v", items)
	}

	m = press(t, m, " ")
	got, ok := m.data.shopping.Items.Find(items[0].ID)
	if !ok || !got.Completed {
		t.Fatalf("item after toggle = %+v", got)
	}

	m = press(t, m, "u")
	got, _ = m.data.shopping.Items.Find(items[0].ID)
	if got.Completed {
		t.Fatal("undo should mark the item pending again")
	}
}

func TestFlatLayoutHasNoListSwitching(t *testing.T) {
	m := newTestModel(t, store.NewMemory(), Options{Layout: db.LayoutFlat})

	m = press(t, m, "5", "]")
	if m.info != "The flat layout has a single list" {
		t.Fatalf("info = %q", m.info)
	}
}

func TestPreferencesPersist(t *testing.T) {
	ps := &memPrefs{}
	m := newTestModel(t, store.NewMemory(), Options{Prefs: ps})

	m = press(t, m, "3", "S")
	p := ps.get()
	if p.ActiveTab != 2 {
		t.Fatalf("active tab = %d", p.ActiveTab)
	}
	if p.Recipes.SortKey == "" || !p.Recipes.SortDesc {
		t.Fatalf("recipe prefs = %+v", p.Recipes)
	}
	if p.ActiveList == "" {
		t.Fatal("active list should be remembered")
	}

	again := New(workflow.New(store.NewMemory(), nil), Options{Prefs: ps})
	if again.screen != model.ScreenRecipes {
		t.Fatalf("restored screen = %s", again.screen)
	}
}
