package model

// Bubble Tea message types

// ErrorMsg represents an error message.
type ErrorMsg struct {
	Err error
}

// LoadedMsg is sent when the collections behind a tab were reloaded into
// their mirrors. Err is set when the load failed; the mirror then keeps its
// previous contents.
type LoadedMsg struct {
	Screen Screen
	Err    error
}

// SavedMsg is sent after a mutation succeeded. Undo and Redo reverse and
// replay it; either may be nil when the change cannot be undone.
type SavedMsg struct {
	Screen    Screen
	Operation string // insert, update, delete, toggle, schedule
	Label     string
	Undo      func() error
	Redo      func() error
}

// ImageLoadedMsg carries a rendered recipe image.
type ImageLoadedMsg struct {
	Source string
	Art    string
	Err    error
}

// FormCancelledMsg is sent when a form is cancelled.
type FormCancelledMsg struct{}

// Screen represents different app screens.
type Screen int

const (
	ScreenMenus Screen = iota
	ScreenCalendar
	ScreenRecipes
	ScreenInventory
	ScreenShopping
	ScreenDiary
	ScreenRecipeDetail
	ScreenMenuDetail
	ScreenDayDetail
	ScreenShoppingItemDetail
	ScreenForm
	ScreenMenuPicker
)

// Tabs lists the top-level screens in tab order.
var Tabs = []Screen{ScreenMenus, ScreenCalendar, ScreenRecipes, ScreenInventory, ScreenShopping, ScreenDiary}

// IsTab reports whether s is a top-level screen.
func (s Screen) IsTab() bool {
	return s <= ScreenDiary
}

func (s Screen) String() string {
	switch s {
	case ScreenMenus:
		return "Menus"
	case ScreenCalendar:
		return "Calendar"
	case ScreenRecipes:
		return "Recipes"
	case ScreenInventory:
		return "Inventory"
	case ScreenShopping:
		return "Shopping"
	case ScreenDiary:
		return "Diary"
	case ScreenRecipeDetail, ScreenMenuDetail, ScreenDayDetail, ScreenShoppingItemDetail:
		return "Detail"
	case ScreenForm:
		return "Form"
	case ScreenMenuPicker:
		return "Schedule"
	default:
		return ""
	}
}

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNav Mode = iota
	ModeInsert
	ModeSearch
	ModeConfirm
)
