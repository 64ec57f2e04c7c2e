package ui

import (
	"fmt"
	"sort"
	"strings"

	"mise/internal/prefs"
	"mise/internal/util"

	"github.com/charmbracelet/lipgloss"
)

type tableController interface {
	NextColumn()
	PrevColumn()
	JumpToColumn(number int) bool
	SortActiveColumn(desc bool)
	HideActiveColumn() bool
	ShowAllColumns()
	FilterBySelectedValue() bool
	ClearFilter() bool
	TableMeta() string
}

// column describes one table column. value feeds sorting and value
// filtering; cell renders the column and defaults to the truncated value.
type column[T any] struct {
	key    string
	label  string
	width  int
	hidden bool
	value  func(T) string
	cell   func(T) string
}

// Table is a scrollable, sortable list of rows shared by every list screen.
type Table[T any] struct {
	allRows []T
	rows    []T
	cursor  int
	offset  int

	viewportHeight int

	columns      []column[T]
	activeColumn int
	sortKey      string
	sortDesc     bool
	filterKey    string
	filterValue  string

	noun     string
	empty    string
	rowStyle func(T) (lipgloss.Style, bool)
	summary  func(rows []T) string
}

func newTable[T any](noun, empty string, columns ...column[T]) *Table[T] {
	return &Table[T]{
		noun:    noun,
		empty:   empty,
		columns: columns,
	}
}

// SetRows replaces the rows, keeping the cursor position where possible.
func (t *Table[T]) SetRows(rows []T) {
	t.allRows = append([]T(nil), rows...)
	t.rebuild()
}

// Rows returns the filtered and sorted rows.
func (t *Table[T]) Rows() []T {
	return t.rows
}

// Len returns the number of rows before value filtering.
func (t *Table[T]) Len() int {
	return len(t.allRows)
}

// Selected returns the row under the cursor.
func (t *Table[T]) Selected() (T, bool) {
	var zero T
	if len(t.rows) == 0 {
		return zero, false
	}
	return t.rows[t.cursor], true
}

func (t *Table[T]) ApplyPrefs(p prefs.TablePrefs) {
	if p.SortKey != "" && t.columnIndex(p.SortKey) >= 0 {
		t.sortKey = p.SortKey
		t.sortDesc = p.SortDesc
	}
	hidden := make(map[string]bool, len(p.HiddenColumns))
	for _, c := range p.HiddenColumns {
		hidden[c] = true
	}
	for i := range t.columns {
		t.columns[i].hidden = hidden[t.columns[i].key]
	}
	if idx := t.columnIndex(p.ActiveColumn); idx >= 0 {
		t.activeColumn = idx
	}
	t.ensureVisibleActiveColumn()
	t.rebuild()
}

func (t *Table[T]) Prefs() prefs.TablePrefs {
	var hidden []string
	for _, c := range t.columns {
		if c.hidden {
			hidden = append(hidden, c.key)
		}
	}
	return prefs.TablePrefs{
		SortKey:       t.sortKey,
		SortDesc:      t.sortDesc,
		HiddenColumns: hidden,
		ActiveColumn:  t.columns[t.activeColumn].key,
	}
}

func (t *Table[T]) columnIndex(key string) int {
	if key == "" {
		return -1
	}
	for i, c := range t.columns {
		if c.key == key {
			return i
		}
	}
	return -1
}

func (t *Table[T]) getValue(row T, key string) string {
	idx := t.columnIndex(key)
	if idx < 0 || t.columns[idx].value == nil {
		return ""
	}
	return t.columns[idx].value(row)
}

func (t *Table[T]) rebuild() {
	rows := append([]T(nil), t.allRows...)

	if t.filterKey != "" && t.filterValue != "" {
		filtered := make([]T, 0, len(rows))
		target := strings.TrimSpace(t.filterValue)
		for _, r := range rows {
			if strings.EqualFold(strings.TrimSpace(t.getValue(r, t.filterKey)), target) {
				filtered = append(filtered, r)
			}
		}
		rows = filtered
	}

	if t.sortKey != "" {
		sort.SliceStable(rows, func(i, j int) bool {
			left := strings.ToLower(t.getValue(rows[i], t.sortKey))
			right := strings.ToLower(t.getValue(rows[j], t.sortKey))
			if t.sortDesc {
				return left > right
			}
			return left < right
		})
	}

	t.rows = rows
	t.clampCursor()
}

func (t *Table[T]) clampCursor() {
	if len(t.rows) == 0 {
		t.cursor = 0
		t.offset = 0
		return
	}
	if t.cursor >= len(t.rows) {
		t.cursor = len(t.rows) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
	if t.offset > t.cursor {
		t.offset = t.cursor
	}
}

func (t *Table[T]) visibleColumnIndexes() []int {
	var idxs []int
	for i, c := range t.columns {
		if !c.hidden {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

func (t *Table[T]) ensureVisibleActiveColumn() {
	if !t.columns[t.activeColumn].hidden {
		return
	}
	for i := range t.columns {
		if !t.columns[i].hidden {
			t.activeColumn = i
			return
		}
	}
	t.columns[0].hidden = false
	t.activeColumn = 0
}

func (t *Table[T]) NextColumn() {
	start := t.activeColumn
	for {
		t.activeColumn = (t.activeColumn + 1) % len(t.columns)
		if !t.columns[t.activeColumn].hidden || t.activeColumn == start {
			return
		}
	}
}

func (t *Table[T]) PrevColumn() {
	start := t.activeColumn
	for {
		t.activeColumn--
		if t.activeColumn < 0 {
			t.activeColumn = len(t.columns) - 1
		}
		if !t.columns[t.activeColumn].hidden || t.activeColumn == start {
			return
		}
	}
}

func (t *Table[T]) JumpToColumn(number int) bool {
	if number < 1 || number > len(t.columns) {
		return false
	}
	idx := number - 1
	if t.columns[idx].hidden {
		return false
	}
	t.activeColumn = idx
	return true
}

func (t *Table[T]) SortActiveColumn(desc bool) {
	t.sortKey = t.columns[t.activeColumn].key
	t.sortDesc = desc
	t.rebuild()
}

func (t *Table[T]) HideActiveColumn() bool {
	if len(t.visibleColumnIndexes()) <= 1 {
		return false
	}
	t.columns[t.activeColumn].hidden = true
	t.ensureVisibleActiveColumn()
	return true
}

func (t *Table[T]) ShowAllColumns() {
	for i := range t.columns {
		t.columns[i].hidden = false
	}
}

func (t *Table[T]) FilterBySelectedValue() bool {
	row, ok := t.Selected()
	if !ok {
		return false
	}
	key := t.columns[t.activeColumn].key
	value := strings.TrimSpace(t.getValue(row, key))
	if value == "" {
		return false
	}
	t.filterKey = key
	t.filterValue = value
	t.rebuild()
	return true
}

func (t *Table[T]) ClearFilter() bool {
	if t.filterKey == "" {
		return false
	}
	t.filterKey = ""
	t.filterValue = ""
	t.rebuild()
	return true
}

func (t *Table[T]) TableMeta() string {
	col := strings.ToUpper(t.columns[t.activeColumn].label)
	parts := []string{fmt.Sprintf("col %s", col)}
	if t.sortKey != "" {
		order := "asc"
		if t.sortDesc {
			order = "desc"
		}
		parts = append(parts, fmt.Sprintf("sort %s %s", strings.ToUpper(t.sortKey), order))
	}
	if t.filterKey != "" {
		parts = append(parts, fmt.Sprintf("filter %s=%q", strings.ToUpper(t.filterKey), t.filterValue))
	}
	return strings.Join(parts, "  ·  ")
}

// View renders the table with a status bar pinned to the bottom.
func (t *Table[T]) View(width, height int) string {
	if len(t.rows) == 0 {
		return EmptyStateStyle.
			Width(width).
			Height(height).
			Render(t.empty)
	}

	visible := t.visibleColumnIndexes()
	if len(visible) == 0 {
		return EmptyStateStyle.Width(width).Height(height).Render("No visible columns. Press C to show all columns.")
	}

	widths := make([]int, 0, len(visible))
	headers := make([]string, 0, len(visible))
	totalFixed := 0
	for _, idx := range visible {
		col := t.columns[idx]
		label := formatHeaderLabel(col.label)
		if idx == t.activeColumn {
			label = renderActiveHeaderLabel(label)
		}
		if t.sortKey == col.key {
			if t.sortDesc {
				label += " ↓"
			} else {
				label += " ↑"
			}
		}
		cellWidth := max(col.width+2, lipgloss.Width(label)+4)
		totalFixed += cellWidth
		widths = append(widths, cellWidth)
		headers = append(headers, label)
	}
	sepTotal := (len(widths) - 1) * tableSeparatorWidth()
	if extra := width - totalFixed - sepTotal - 2; extra > 0 {
		widths[len(widths)-1] += extra
	}

	header := renderTableRow(headers, widths, TableHeaderStyle)
	divider := renderTableDivider(widths)

	visibleHeight := max(1, height-3)
	t.viewportHeight = visibleHeight
	var rows []string
	for i := t.offset; i < len(t.rows) && i < t.offset+visibleHeight; i++ {
		row := t.rows[i]
		style := NormalRowStyle
		if t.rowStyle != nil {
			if s, ok := t.rowStyle(row); ok {
				style = s
			}
		}
		if i == t.cursor {
			style = SelectedRowStyle
		}

		cells := make([]string, 0, len(visible))
		for _, idx := range visible {
			col := t.columns[idx]
			var cell string
			switch {
			case col.cell != nil:
				cell = col.cell(row)
			case col.value != nil:
				cell = util.TruncateString(col.value(row), col.width)
			}
			if cell == "" {
				cell = "—"
			}
			cells = append(cells, cell)
		}
		rows = append(rows, renderTableRow(cells, widths, style))
	}

	summary := ""
	if t.summary != nil {
		if s := t.summary(t.rows); s != "" {
			summary = "  ·  " + s
		}
	}
	filterInfo := ""
	if t.filterKey != "" {
		filterInfo = fmt.Sprintf("  ·  filtered: %d/%d", len(t.rows), len(t.allRows))
	}
	meta := "  ·  " + t.TableMeta()
	rowPos := fmt.Sprintf("  ·  row %d/%d", t.cursor+1, len(t.rows))
	status := StatusBarStyle.Render(fmt.Sprintf("%d %s%s%s%s%s", len(t.rows), t.noun, rowPos, summary, filterInfo, meta))

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		divider,
		strings.Join(rows, "\n"),
	)
	spacerHeight := max(0, height-lipgloss.Height(content)-lipgloss.Height(status))
	spacer := lipgloss.NewStyle().Height(spacerHeight).Render("")

	return lipgloss.JoinVertical(
		lipgloss.Left,
		content,
		spacer,
		status,
	)
}

func (t *Table[T]) pageHeight() int {
	if t.viewportHeight == 0 {
		return 10
	}
	return t.viewportHeight
}

// MoveDown moves the cursor down.
func (t *Table[T]) MoveDown() {
	if t.cursor < len(t.rows)-1 {
		t.cursor++
		if t.cursor >= t.offset+t.pageHeight() {
			t.offset++
		}
	}
}

// MoveUp moves the cursor up.
func (t *Table[T]) MoveUp() {
	if t.cursor > 0 {
		t.cursor--
		if t.cursor < t.offset {
			t.offset--
		}
	}
}

// JumpToTop jumps to the first item.
func (t *Table[T]) JumpToTop() {
	t.cursor = 0
	t.offset = 0
}

// JumpToBottom jumps to the last item.
func (t *Table[T]) JumpToBottom() {
	if len(t.rows) > 0 {
		t.cursor = len(t.rows) - 1
		if vh := t.pageHeight(); t.cursor >= vh {
			t.offset = t.cursor - vh + 1
		}
	}
}

// HalfPageDown moves down half a page.
func (t *Table[T]) HalfPageDown(pageSize int) {
	if len(t.rows) == 0 {
		return
	}
	t.cursor = min(t.cursor+pageSize/2, len(t.rows)-1)
	if vh := t.pageHeight(); t.cursor >= t.offset+vh {
		t.offset = t.cursor - vh + 1
	}
}

// HalfPageUp moves up half a page.
func (t *Table[T]) HalfPageUp(pageSize int) {
	t.cursor = max(t.cursor-pageSize/2, 0)
	if t.cursor < t.offset {
		t.offset = t.cursor
	}
}

func formatHeaderLabel(label string) string {
	return strings.ToUpper(label)
}

func renderActiveHeaderLabel(label string) string {
	return lipgloss.NewStyle().Underline(true).Render(label)
}

func tableSeparatorWidth() int {
	return 0
}

func renderTableRow(cells []string, widths []int, style lipgloss.Style) string {
	var parts []string
	for i, cell := range cells {
		if i >= len(widths) {
			continue
		}
		parts = append(parts, style.Width(widths[i]).Render(cell))
	}
	return lipgloss.JoinHorizontal(lipgloss.Left, parts...)
}

func renderTableDivider(widths []int) string {
	total := 0
	for _, w := range widths {
		total += w
	}
	total += (len(widths) - 1) * tableSeparatorWidth()
	return lipgloss.NewStyle().Foreground(ColorMuted).Render(strings.Repeat("─", max(0, total)))
}
