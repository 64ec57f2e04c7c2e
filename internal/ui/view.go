package ui

import (
	"strings"

	"mise/internal/model"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// searchable is implemented by list views that take a search term.
type searchable interface {
	SetSearch(term string)
	SearchTerm() string
}

// categoryCycler is implemented by list views with an f filter.
type categoryCycler interface {
	CycleCategory() string
}

// navigable is implemented by everything with a row cursor.
type navigable interface {
	MoveDown()
	MoveUp()
	JumpToTop()
	JumpToBottom()
	HalfPageDown(pageSize int)
	HalfPageUp(pageSize int)
}

func renderField(label, value string) string {
	if value == "" {
		value = "—"
	}
	return LabelStyle.Render(label+":") + " " + NormalRowStyle.Render(value)
}

func orDash(s string) string {
	return orDefault(s, "—")
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func filterInfo(name, value string) string {
	if value == "" {
		return name + " filter cleared"
	}
	return name + ": " + value
}

// withFilterBar puts a one-line summary of the active search and filters
// above a table.
func withFilterBar(search string, filters []string, table func(width, height int) string, width, height int) string {
	var parts []string
	if search != "" {
		parts = append(parts, "search: "+search)
	}
	parts = append(parts, filters...)
	if len(parts) == 0 {
		return table(width, height)
	}
	bar := SearchBarStyle.Width(width).Render(HelpDescStyle.Render(strings.Join(parts, "  ·  ")))
	return lipgloss.JoinVertical(lipgloss.Left, bar, table(width, height-lipgloss.Height(bar)))
}

func errorCmd(err error) tea.Cmd {
	return func() tea.Msg {
		return model.ErrorMsg{Err: err}
	}
}
