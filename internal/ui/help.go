package ui

import (
	"strings"

	"mise/internal/model"

	"github.com/charmbracelet/lipgloss"
)

// RenderHelp renders context-sensitive help footer.
func RenderHelp(screen model.Screen, mode model.Mode, width int) string {
	switch mode {
	case model.ModeInsert:
		return renderFormHelp(width)
	case model.ModeSearch:
		return renderHelpLine([]string{
			helpKey("type", "filter as you go"),
			helpKey("enter", "keep"),
			helpKey("esc", "clear"),
		}, width)
	case model.ModeConfirm:
		return renderHelpLine([]string{
			helpKey("y", "confirm"),
			helpKey("n/esc", "cancel"),
		}, width)
	}

	switch screen {
	case model.ScreenMenus:
		return renderHelpLine([]string{
			helpKey("1-6", "tabs"),
			helpKey("j/k", "navigate"),
			helpKey("/", "search"),
			helpKey("f", "meal type"),
			helpKey("a/e/d", "add/edit/delete"),
			helpKey("enter", "details"),
			helpKey("?", "help"),
		}, width)
	case model.ScreenCalendar:
		return renderHelpLine([]string{
			helpKey("1-6", "tabs"),
			helpKey("j/k", "day"),
			helpKey("[/]", "week"),
			helpKey("t", "this week"),
			helpKey("a", "schedule"),
			helpKey("d", "clear day"),
			helpKey("enter", "details"),
		}, width)
	case model.ScreenRecipes:
		return renderHelpLine([]string{
			helpKey("1-6", "tabs"),
			helpKey("/", "search"),
			helpKey("f/F", "category/cuisine"),
			helpKey("i", "in stock"),
			helpKey("m", "shop missing"),
			helpKey("a/e/d", "add/edit/delete"),
			helpKey("enter", "details"),
		}, width)
	case model.ScreenInventory:
		return renderHelpLine([]string{
			helpKey("1-6", "tabs"),
			helpKey("/", "search"),
			helpKey("f", "category"),
			helpKey("x", "expiry"),
			helpKey("a/e/d", "add/edit/delete"),
			helpKey("s/S", "sort"),
			helpKey("u/ctrl+r", "undo/redo"),
		}, width)
	case model.ScreenShopping:
		return renderHelpLine([]string{
			helpKey("space", "toggle"),
			helpKey("/", "search"),
			helpKey("f/v", "category/status"),
			helpKey("[/]", "list"),
			helpKey("L/X", "new/delete list"),
			helpKey("p", "product"),
			helpKey("a/e/d", "add/edit/delete"),
		}, width)
	case model.ScreenDiary:
		return renderHelpLine([]string{
			helpKey("1-6", "tabs"),
			helpKey("/", "search"),
			helpKey("f", "mood"),
			helpKey("t", "today"),
			helpKey("a/e/d", "add/edit/delete"),
			helpKey("u/ctrl+r", "undo/redo"),
		}, width)
	case model.ScreenRecipeDetail:
		return renderHelpLine([]string{
			helpKey("h/esc", "back"),
			helpKey("e", "edit"),
			helpKey("m", "shop missing"),
			helpKey("d", "delete"),
		}, width)
	case model.ScreenMenuDetail:
		return renderHelpLine([]string{
			helpKey("h/esc", "back"),
			helpKey("e", "edit"),
			helpKey("d", "delete"),
		}, width)
	case model.ScreenDayDetail:
		return renderHelpLine([]string{
			helpKey("h/esc", "back"),
			helpKey("a", "schedule"),
			helpKey("d", "clear day"),
		}, width)
	case model.ScreenShoppingItemDetail:
		return renderHelpLine([]string{
			helpKey("h/esc", "back"),
			helpKey("j/k", "product"),
			helpKey("p", "add product"),
			helpKey("d", "remove product"),
			helpKey("space", "toggle"),
			helpKey("e", "edit"),
		}, width)
	case model.ScreenMenuPicker:
		return renderHelpLine([]string{
			helpKey("j/k", "navigate"),
			helpKey("enter", "schedule"),
			helpKey("esc", "cancel"),
		}, width)
	default:
		return renderDefaultHelp(width)
	}
}

func renderFormHelp(width int) string {
	keys := []string{
		helpKey("tab", "next field"),
		helpKey("shift+tab", "prev field"),
		helpKey("←/→", "choose"),
		helpKey("space", "select"),
		helpKey("ctrl+s", "save"),
		helpKey("esc", "cancel"),
	}
	return renderHelpLine(keys, width)
}

func renderDefaultHelp(width int) string {
	keys := []string{
		helpKey("j/k", "navigate"),
		helpKey("h/l", "back/select"),
		helpKey("q", "quit"),
	}
	return renderHelpLine(keys, width)
}

func helpKey(key, desc string) string {
	return HelpKeyStyle.Render(key) + " " + HelpDescStyle.Render(desc)
}

func renderHelpLine(keys []string, width int) string {
	line := strings.Join(keys, "  ")
	return FooterStyle.Width(width).Render(line)
}

// RenderFullHelp renders the full help screen.
func RenderFullHelp(width, height int) string {
	content := lipgloss.NewStyle().
		Width(width-4).
		Height(height-6).
		Padding(1, 2)

	left := strings.Join([]string{
		titleSection("Navigation"),
		helpSection([]helpItem{
			{"1 - 6", "Menus, Calendar, Recipes, Inventory, Shopping, Diary"},
			{"← / →", "Previous / next tab"},
			{"j / ↓", "Move down"},
			{"k / ↑", "Move up"},
			{"h / esc / b", "Go back / parent"},
			{"enter", "Open details"},
			{"gg / G", "Jump to top / bottom"},
			{"ctrl+d / ctrl+u", "Half page down / up"},
			{"u / ctrl+r", "Undo / redo"},
			{"q", "Quit (from a tab)"},
			{"?", "Toggle help"},
		}),
		titleSection("Tables"),
		helpSection([]helpItem{
			{"tab / shift+tab", "Cycle active column"},
			{"# then 1-9", "Jump to column"},
			{"s / S", "Sort active column asc/desc"},
			{"c / C", "Hide active column / show all"},
			{"n / N", "Filter by selected value / clear"},
		}),
		titleSection("Lists"),
		helpSection([]helpItem{
			{"/", "Search"},
			{"f", "Cycle category filter"},
			{"a / e / d", "Add / edit / delete"},
		}),
		titleSection("Forms"),
		helpSection([]helpItem{
			{"tab / shift+tab", "Next / previous field"},
			{"← / →", "Change a choice"},
			{"space", "Select a checklist entry"},
			{"ctrl+s", "Save"},
			{"esc", "Cancel"},
		}),
	}, "\n\n")

	right := strings.Join([]string{
		titleSection("Calendar"),
		helpSection([]helpItem{
			{"[ / ]", "Previous / next week"},
			{"t", "Back to this week"},
			{"a", "Schedule a menu on the selected day"},
			{"d", "Clear the selected day"},
		}),
		titleSection("Recipes"),
		helpSection([]helpItem{
			{"F", "Cycle cuisine filter"},
			{"i", "Only recipes fully in stock"},
			{"m", "Add missing ingredients to shopping"},
		}),
		titleSection("Inventory"),
		helpSection([]helpItem{
			{"x", "Cycle expired / expiring soon / fresh"},
		}),
		titleSection("Shopping"),
		helpSection([]helpItem{
			{"space", "Toggle done"},
			{"v", "Cycle pending / completed"},
			{"[ / ]", "Previous / next list"},
			{"L / X", "New list / delete list"},
			{"p", "Add product variant"},
		}),
		titleSection("Diary"),
		helpSection([]helpItem{
			{"f", "Cycle mood filter"},
			{"t", "Only today"},
		}),
	}, "\n\n")

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width((width-8)/2).Render(left),
		right,
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.Width(width).Render("Help"),
		content.Render(body),
		FooterStyle.Width(width).Render(HelpKeyStyle.Render("esc")+" "+HelpDescStyle.Render("close help")),
	)
}

type helpItem struct {
	key  string
	desc string
}

func titleSection(title string) string {
	return LabelStyle.Render(title)
}

func helpSection(items []helpItem) string {
	var lines []string
	for _, item := range items {
		lines = append(lines, "  "+HelpKeyStyle.Render(item.key)+" - "+HelpDescStyle.Render(item.desc))
	}
	return strings.Join(lines, "\n")
}
