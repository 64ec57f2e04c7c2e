package ui

import "github.com/charmbracelet/bubbles/key"

// GState represents the state for "gg" navigation.
type GState int

const (
	GStateIdle GState = iota
	GStateFirstG
)

// KeyMap defines all keybindings for nav mode.
type KeyMap struct {
	Up           key.Binding
	Down         key.Binding
	PrevTab      key.Binding
	NextTab      key.Binding
	Tab1         key.Binding
	Tab2         key.Binding
	Tab3         key.Binding
	Tab4         key.Binding
	Tab5         key.Binding
	Tab6         key.Binding
	Select       key.Binding
	Back         key.Binding
	Bottom       key.Binding
	HalfPageDown key.Binding
	HalfPageUp   key.Binding
	Search       key.Binding
	CycleFilter  key.Binding
	Quit         key.Binding
	Help         key.Binding
	Add          key.Binding
	Edit         key.Binding
	Delete       key.Binding
	NextColumn   key.Binding
	PrevColumn   key.Binding
	SortAsc      key.Binding
	SortDesc     key.Binding
	HideColumn   key.Binding
	ShowColumns  key.Binding
	FilterValue  key.Binding
	ClearFilter  key.Binding
	Undo         key.Binding
	Redo         key.Binding

	// Recipes
	StockOnly  key.Binding
	AddMissing key.Binding
	Cuisine    key.Binding

	// Inventory
	Expiry key.Binding

	// Shopping
	Toggle     key.Binding
	AddProduct key.Binding
	PrevList   key.Binding
	NextList   key.Binding
	NewList    key.Binding
	DeleteList key.Binding
	Show       key.Binding

	// Calendar
	PrevWeek  key.Binding
	NextWeek  key.Binding
	ThisWeek  key.Binding
	Schedule  key.Binding
	DiaryDate key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev tab"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next tab"),
		),
		Tab1: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "menus")),
		Tab2: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "calendar")),
		Tab3: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "recipes")),
		Tab4: key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "inventory")),
		Tab5: key.NewBinding(key.WithKeys("5"), key.WithHelp("5", "shopping")),
		Tab6: key.NewBinding(key.WithKeys("6"), key.WithHelp("6", "diary")),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b", "h"),
			key.WithHelp("esc/b", "back"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "bottom"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "½ page down"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "½ page up"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		CycleFilter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "category"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		NextColumn: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next col"),
		),
		PrevColumn: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev col"),
		),
		SortAsc: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort asc"),
		),
		SortDesc: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "sort desc"),
		),
		HideColumn: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "hide col"),
		),
		ShowColumns: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "show cols"),
		),
		FilterValue: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "filter value"),
		),
		ClearFilter: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "clear filters"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "undo"),
		),
		Redo: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "redo"),
		),
		StockOnly: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "in stock only"),
		),
		AddMissing: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "shop missing"),
		),
		Cuisine: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "cuisine"),
		),
		Expiry: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "expiry"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle"),
		),
		AddProduct: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "add product"),
		),
		PrevList: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev list"),
		),
		NextList: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next list"),
		),
		NewList: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "new list"),
		),
		DeleteList: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "delete list"),
		),
		Show: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "pending/done"),
		),
		PrevWeek: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev week"),
		),
		NextWeek: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next week"),
		),
		ThisWeek: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "this week"),
		),
		Schedule: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "schedule"),
		),
		DiaryDate: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "today only"),
		),
	}
}

// FormKeyMap defines keybindings for insert/edit mode.
type FormKeyMap struct {
	NextField key.Binding
	PrevField key.Binding
	Save      key.Binding
	Cancel    key.Binding
	Toggle    key.Binding
	PrevOpt   key.Binding
	NextOpt   key.Binding
}

// DefaultFormKeyMap returns the default form keybindings.
func DefaultFormKeyMap() FormKeyMap {
	return FormKeyMap{
		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev field"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "select"),
		),
		PrevOpt: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "prev option"),
		),
		NextOpt: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "next option"),
		),
	}
}
