package ui

import (
	"strings"
	"testing"

	"mise/internal/prefs"
)

type fruit struct {
	name  string
	color string
}

func newFruitTable() *Table[fruit] {
	t := newTable("fruits", "no fruit",
		column[fruit]{key: "name", label: "name", width: 10, value: func(f fruit) string { return f.name }},
		column[fruit]{key: "color", label: "color", width: 8, value: func(f fruit) string { return f.color }},
	)
	t.SetRows([]fruit{
		{"pear", "green"},
		{"apple", "red"},
		{"cherry", "red"},
		{"lime", "green"},
	})
	return t
}

func rowNames(rows []fruit) string {
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.name
	}
	return strings.Join(names, ",")
}

func TestTableSort(t *testing.T) {
	tbl := newFruitTable()

	tbl.SortActiveColumn(false)
	if got := rowNames(tbl.Rows()); got != "apple,cherry,lime,pear" {
		t.Fatalf("ascending = %s", got)
	}
	tbl.SortActiveColumn(true)
	if got := rowNames(tbl.Rows()); got != "pear,lime,cherry,apple" {
		t.Fatalf("descending = %s", got)
	}

	// Equal keys keep their insertion order.
	tbl.NextColumn()
	tbl.SortActiveColumn(false)
	if got := rowNames(tbl.Rows()); got != "pear,lime,apple,cherry" {
		t.Fatalf("by color = %s", got)
	}
}

func TestTableFilterBySelectedValue(t *testing.T) {
	tbl := newFruitTable()
	tbl.NextColumn()
	tbl.MoveDown() // apple, red

	if !tbl.FilterBySelectedValue() {
		t.Fatal("expected filter to apply")
	}
	if got := rowNames(tbl.Rows()); got != "apple,cherry" {
		t.Fatalf("filtered = %s", got)
	}
	if tbl.Len() != 4 {
		t.Fatalf("Len = %d, want 4", tbl.Len())
	}
	if !tbl.ClearFilter() {
		t.Fatal("expected filter to clear")
	}
	if tbl.ClearFilter() {
		t.Fatal("second clear should report nothing to clear")
	}
	if len(tbl.Rows()) != 4 {
		t.Fatalf("rows after clear = %d", len(tbl.Rows()))
	}
}

func TestTableHideColumn(t *testing.T) {
	tbl := newFruitTable()

	if !tbl.HideActiveColumn() {
		t.Fatal("first column should hide")
	}
	if tbl.HideActiveColumn() {
		t.Fatal("last visible column must stay")
	}
	if tbl.JumpToColumn(1) {
		t.Fatal("cannot jump to a hidden column")
	}
	p := tbl.Prefs()
	if len(p.HiddenColumns) != 1 || p.HiddenColumns[0] != "name" {
		t.Fatalf("hidden = %v", p.HiddenColumns)
	}
	if p.ActiveColumn != "color" {
		t.Fatalf("active = %q", p.ActiveColumn)
	}

	tbl.ShowAllColumns()
	if !tbl.JumpToColumn(1) {
		t.Fatal("column 1 should be visible again")
	}
}

func TestTableApplyPrefs(t *testing.T) {
	tbl := newFruitTable()
	tbl.ApplyPrefs(prefs.TablePrefs{
		SortKey:       "name",
		SortDesc:      true,
		HiddenColumns: []string{"color"},
		ActiveColumn:  "color",
	})

	if got := rowNames(tbl.Rows()); got != "pear,lime,cherry,apple" {
		t.Fatalf("rows = %s", got)
	}
	p := tbl.Prefs()
	if p.ActiveColumn != "name" {
		t.Fatalf("active column should move off the hidden one, got %q", p.ActiveColumn)
	}

	// Unknown keys are ignored.
	tbl.ApplyPrefs(prefs.TablePrefs{SortKey: "weight"})
	if tbl.Prefs().SortKey != "name" {
		t.Fatalf("sort key = %q", tbl.Prefs().SortKey)
	}
}

func TestTableCursorClamp(t *testing.T) {
	tbl := newFruitTable()
	tbl.JumpToBottom()
	if r, _ := tbl.Selected(); r.name != "lime" {
		t.Fatalf("bottom = %s", r.name)
	}
	tbl.SetRows([]fruit{{"fig", "purple"}})
	if r, ok := tbl.Selected(); !ok || r.name != "fig" {
		t.Fatalf("selected after shrink = %v %v", r, ok)
	}
	tbl.SetRows(nil)
	if _, ok := tbl.Selected(); ok {
		t.Fatal("empty table has no selection")
	}
	if !strings.Contains(tbl.View(40, 10), "no fruit") {
		t.Fatal("empty table should render its empty text")
	}
}
