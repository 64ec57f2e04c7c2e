package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mise/internal/config"
	"mise/internal/db"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// OnboardingSettings are the choices made on first launch.
type OnboardingSettings struct {
	Completed   bool   `json:"completed"`
	Layout      string `json:"layout"`
	DefaultList string `json:"default_list"`
}

// apply copies the choices into cfg unless the environment already set them.
func (s OnboardingSettings) apply(cfg *config.Config) {
	if s.Layout != "" && os.Getenv("MISE_SHOPPING_LAYOUT") == "" {
		if layout, err := db.ParseLayout(s.Layout); err == nil {
			cfg.Shopping.Layout = layout
		}
	}
	if s.DefaultList != "" && os.Getenv("MISE_DEFAULT_LIST") == "" {
		cfg.Shopping.DefaultList = s.DefaultList
	}
}

func onboardingPath(configDir string) string {
	return filepath.Join(configDir, "onboarding.json")
}

func loadOnboardingSettings(configDir string) (OnboardingSettings, error) {
	path := onboardingPath(configDir)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return OnboardingSettings{}, nil
		}
		return OnboardingSettings{}, err
	}

	var settings OnboardingSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return OnboardingSettings{}, err
	}
	return settings, nil
}

func saveOnboardingSettings(configDir string, settings OnboardingSettings) error {
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(onboardingPath(configDir), data, 0644)
}

func shouldRunOnboarding(settings OnboardingSettings) bool {
	if settings.Completed {
		return false
	}
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

type onboardingStep int

const (
	stepLayout onboardingStep = iota
	stepList
	stepDone
)

type onboardingModel struct {
	step      onboardingStep
	flat      bool
	listInput textinput.Model
	settings  OnboardingSettings
	status    string
	width     int
	height    int
}

var (
	obColorMuted  = lipgloss.Color("#7E8C80")
	obColorText   = lipgloss.Color("#D6E0D3")
	obColorAccent = lipgloss.Color("#8FA082")

	obTitleStyle = lipgloss.NewStyle().
			Foreground(obColorAccent).
			Bold(true)

	obHeaderStyle = lipgloss.NewStyle().
			Foreground(obColorAccent).
			Bold(true).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(obColorMuted)

	obTabsStyle = lipgloss.NewStyle().
			Padding(0, 2).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(obColorMuted)

	obTabInactive = lipgloss.NewStyle().
			Foreground(obColorMuted).
			Padding(0, 2)

	obTabActive = lipgloss.NewStyle().
			Foreground(obColorText).
			Bold(true).
			Underline(true).
			Padding(0, 2)

	obPanelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(obColorMuted).
			Padding(1, 2)

	obInputStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(obColorAccent).
			Padding(0, 1)

	obLabelStyle = lipgloss.NewStyle().
			Foreground(obColorAccent).
			Bold(true)

	obMutedStyle = lipgloss.NewStyle().
			Foreground(obColorMuted)

	obOptionStyle = lipgloss.NewStyle().
			Foreground(obColorText)

	obOptionSelected = lipgloss.NewStyle().
				Foreground(obColorAccent).
				Bold(true)

	obFooterStyle = lipgloss.NewStyle().
			Foreground(obColorMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(obColorMuted)
)

func newOnboardingModel(current config.ShoppingConfig) onboardingModel {
	in := textinput.New()
	in.Placeholder = "Groceries"
	in.CharLimit = 60
	in.Prompt = "list> "
	in.SetValue(current.DefaultList)
	in.TextStyle = lipgloss.NewStyle().Foreground(obColorText)
	in.PlaceholderStyle = lipgloss.NewStyle().Foreground(obColorMuted)
	in.Cursor.Style = lipgloss.NewStyle().Foreground(obColorText).Background(obColorAccent)
	in.Focus()

	return onboardingModel{
		step:      stepLayout,
		flat:      current.Layout == db.LayoutFlat,
		listInput: in,
		settings: OnboardingSettings{
			Completed:   true,
			Layout:      current.Layout,
			DefaultList: current.DefaultList,
		},
	}
}

func (m onboardingModel) Init() tea.Cmd { return nil }

func (m onboardingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch m.step {
		case stepLayout:
			switch msg.String() {
			case "up", "k", "left", "h":
				m.flat = false
				return m, nil
			case "down", "j", "right", "l":
				m.flat = true
				return m, nil
			case "enter":
				return m.nextStep()
			case "ctrl+c", "q", "esc":
				m.status = "Setup skipped. Using the default settings."
				m.step = stepDone
				return m, tea.Quit
			default:
				return m, nil
			}
		case stepList:
			switch msg.String() {
			case "enter":
				name := strings.TrimSpace(m.listInput.Value())
				if name != "" {
					m.settings.DefaultList = name
				}
				m.status = fmt.Sprintf("Shopping lists enabled. New households start with %q.", m.settings.DefaultList)
				m.step = stepDone
				return m, tea.Quit
			case "esc":
				m.status = fmt.Sprintf("Shopping lists enabled. Keeping %q.", m.settings.DefaultList)
				m.step = stepDone
				return m, tea.Quit
			case "ctrl+c":
				m.status = "Setup canceled."
				m.step = stepDone
				return m, tea.Quit
			}
			var cmd tea.Cmd
			m.listInput, cmd = m.listInput.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m onboardingModel) nextStep() (tea.Model, tea.Cmd) {
	if m.flat {
		m.settings.Layout = db.LayoutFlat
		m.status = "Single shopping list selected."
		m.step = stepDone
		return m, tea.Quit
	}
	m.settings.Layout = db.LayoutLists
	m.step = stepList
	return m, nil
}

func (m onboardingModel) View() string {
	width := m.width
	height := m.height
	if width <= 0 {
		width = 100
	}
	if height <= 0 {
		height = 28
	}

	header := m.renderHeader(width)
	tabs := m.renderTabs(width)
	footer := m.renderFooter(width)

	contentHeight := max(height-6, 8)
	content := m.renderContent(width, contentHeight)
	ui := lipgloss.JoinVertical(lipgloss.Left, header, tabs, content, footer)

	return lipgloss.NewStyle().
		Foreground(obColorText).
		Width(width).
		Height(height).
		Render(ui)
}

func (m onboardingModel) renderHeader(width int) string {
	left := "  " + obTitleStyle.Render("mise") + " " + obMutedStyle.Render("› Setup")
	right := obMutedStyle.Render(time.Now().Format("Mon 02 Jan")) + "  "
	padding := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return obHeaderStyle.Width(width).Render(left + strings.Repeat(" ", padding) + right)
}

func (m onboardingModel) renderTabs(width int) string {
	layoutTab := obTabInactive.Render("Shopping layout")
	listTab := obTabInactive.Render("First list")
	if m.step == stepLayout {
		layoutTab = obTabActive.Render("Shopping layout")
	}
	if m.step == stepList {
		listTab = obTabActive.Render("First list")
	}
	return obTabsStyle.Width(width).Render(lipgloss.JoinHorizontal(lipgloss.Left, "  ", layoutTab, listTab))
}

func (m onboardingModel) renderFooter(width int) string {
	switch m.step {
	case stepLayout:
		return obFooterStyle.Width(width).Render("↑↓/jk to choose  enter to confirm  q skip")
	case stepList:
		return obFooterStyle.Width(width).Render("enter save  esc keep default")
	default:
		return obFooterStyle.Width(width).Render("Setup complete")
	}
}

func (m onboardingModel) renderContent(width, height int) string {
	cardWidth := min(92, width-6)
	if cardWidth < 40 {
		cardWidth = width - 2
	}

	var body string
	switch m.step {
	case stepLayout:
		question := obLabelStyle.Render("How do you keep your shopping?")
		lists := "Several named lists (groceries, party, hardware...)"
		flat := "One single shopping list"

		var listsDisplay, flatDisplay string
		if !m.flat {
			listsDisplay = "  " + obOptionSelected.Render("→ "+lists)
			flatDisplay = "    " + obOptionStyle.Render(flat)
		} else {
			listsDisplay = "    " + obOptionStyle.Render(lists)
			flatDisplay = "  " + obOptionSelected.Render("→ "+flat)
		}

		body = lipgloss.JoinVertical(
			lipgloss.Left,
			question,
			"",
			listsDisplay,
			flatDisplay,
			"",
			obMutedStyle.Render("Use arrow keys or j/k to choose, Enter to confirm"),
			obMutedStyle.Render("You can change this later in ~/.mise/onboarding.json or with --layout"),
		)
	case stepList:
		input := obInputStyle.Width(max(30, cardWidth-14)).Render(m.listInput.View())
		body = lipgloss.JoinVertical(
			lipgloss.Left,
			obLabelStyle.Render("Name your first shopping list"),
			"",
			obMutedStyle.Render("It is created when no list exists yet."),
			obMutedStyle.Render("More lists can be added from the Shopping tab with L."),
			"",
			input,
			"",
			obMutedStyle.Render("Press Enter to save, Esc to keep the default."),
		)
	default:
		body = lipgloss.JoinVertical(lipgloss.Left, obLabelStyle.Render("Onboarding Complete"), "", obMutedStyle.Render(m.status))
	}

	card := obPanelStyle.Width(cardWidth).Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, card)
}

func runOnboarding(configDir string, current config.ShoppingConfig) (OnboardingSettings, error) {
	model := newOnboardingModel(current)
	prog := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := prog.Run()
	if err != nil {
		return OnboardingSettings{}, fmt.Errorf("onboarding tui failed: %w", err)
	}
	m, ok := finalModel.(onboardingModel)
	if !ok {
		return OnboardingSettings{}, fmt.Errorf("unexpected onboarding model type")
	}
	if err := saveOnboardingSettings(configDir, m.settings); err != nil {
		return OnboardingSettings{}, err
	}
	return m.settings, nil
}
