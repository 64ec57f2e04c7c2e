package workflow

import (
	"sort"
	"strings"
	"sync"

	"mise/internal/model"
)

// Mirror is the in-memory copy of one collection that a view renders from.
// Workflows only touch it after the matching store call succeeded. Commands
// run off the UI goroutine, so access is guarded.
type Mirror[T any] struct {
	mu    sync.RWMutex
	items []T
	id    func(T) string
	less  func(a, b T) bool
}

// NewMirror returns an empty mirror. less may be nil to keep store order;
// otherwise items are re-sorted after every change.
func NewMirror[T any](id func(T) string, less func(a, b T) bool) *Mirror[T] {
	return &Mirror[T]{id: id, less: less}
}

// Items returns a copy of the current items.
func (m *Mirror[T]) Items() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]T(nil), m.items...)
}

// Len returns the number of items.
func (m *Mirror[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Find returns the item with the given id.
func (m *Mirror[T]) Find(id string) (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, v := range m.items {
		if m.id(v) == id {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Reset replaces every item, as after a load.
func (m *Mirror[T]) Reset(items []T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append([]T(nil), items...)
	m.sortLocked()
}

// Put replaces the item with v's id, or appends v if it is new.
func (m *Mirror[T]) Put(v T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.id(v)
	replaced := false
	for i := range m.items {
		if m.id(m.items[i]) == id {
			m.items[i] = v
			replaced = true
			break
		}
	}
	if !replaced {
		m.items = append(m.items, v)
	}
	m.sortLocked()
}

// Remove drops the item with the given id.
func (m *Mirror[T]) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.items[:0]
	for _, v := range m.items {
		if m.id(v) != id {
			out = append(out, v)
		}
	}
	m.items = out
}

func (m *Mirror[T]) sortLocked() {
	if m.less == nil {
		return
	}
	sort.SliceStable(m.items, func(i, j int) bool { return m.less(m.items[i], m.items[j]) })
}

// ByName orders shopping items alphabetically, ignoring case.
func ByName(a, b model.ShoppingItem) bool {
	return strings.ToLower(a.Name) < strings.ToLower(b.Name)
}

// Mirrors for each collection.
func NewRecipeMirror() *Mirror[model.Recipe] {
	return NewMirror(func(r model.Recipe) string { return r.ID }, nil)
}

func NewMenuMirror() *Mirror[model.Menu] {
	return NewMirror(func(m model.Menu) string { return m.ID }, nil)
}

func NewInventoryMirror() *Mirror[model.InventoryItem] {
	return NewMirror(func(i model.InventoryItem) string { return i.ID }, nil)
}

func NewCalendarMirror() *Mirror[model.CalendarEntry] {
	return NewMirror(func(e model.CalendarEntry) string { return e.ID },
		func(a, b model.CalendarEntry) bool { return a.Date < b.Date })
}

func NewShoppingListMirror() *Mirror[model.ShoppingList] {
	return NewMirror(func(l model.ShoppingList) string { return l.ID }, nil)
}

func NewShoppingItemMirror() *Mirror[model.ShoppingItem] {
	return NewMirror(func(i model.ShoppingItem) string { return i.ID }, ByName)
}

func NewDiaryMirror() *Mirror[model.DiaryEntry] {
	return NewMirror(func(d model.DiaryEntry) string { return d.ID },
		func(a, b model.DiaryEntry) bool { return a.Date > b.Date })
}
