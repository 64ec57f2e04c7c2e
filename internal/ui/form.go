package ui

import (
	"strings"

	"mise/internal/model"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type fieldKind int

const (
	fieldText fieldKind = iota
	fieldArea
	fieldChoice
	fieldChecklist
)

type formField struct {
	key   string
	label string
	kind  fieldKind

	input textinput.Model
	area  textarea.Model

	options   []string
	choice    int
	checked   map[int]bool
	optCursor int
}

// FormModel is an input form made of text, multi-line, choice and checklist
// fields. submit turns the values into a store command; an error it returns
// is shown inline and keeps the form open.
type FormModel struct {
	title   string
	fields  []*formField
	focused int
	error   string
	keys    FormKeyMap
	submit  func(f *FormModel) (tea.Cmd, error)

	// submitted is set while a save started by this form is in flight.
	submitted bool
}

func newForm(title string, submit func(f *FormModel) (tea.Cmd, error)) *FormModel {
	return &FormModel{
		title:  title,
		keys:   DefaultFormKeyMap(),
		submit: submit,
	}
}

func (f *FormModel) add(field *formField) *FormModel {
	f.fields = append(f.fields, field)
	if len(f.fields) == 1 {
		f.focusField(0)
	}
	return f
}

func (f *FormModel) text(key, label, placeholder, value string) *FormModel {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 200
	in.Width = 48
	in.SetValue(value)
	return f.add(&formField{key: key, label: label, kind: fieldText, input: in})
}

func (f *FormModel) area(key, label, placeholder, value string) *FormModel {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.SetWidth(60)
	ta.SetHeight(5)
	ta.SetValue(value)
	ta.Blur()
	return f.add(&formField{key: key, label: label, kind: fieldArea, area: ta})
}

func (f *FormModel) choice(key, label string, options []string, current string) *FormModel {
	idx := 0
	for i, o := range options {
		if strings.EqualFold(o, current) {
			idx = i
			break
		}
	}
	return f.add(&formField{key: key, label: label, kind: fieldChoice, options: options, choice: idx})
}

func (f *FormModel) checklist(key, label string, options []string, selected []int) *FormModel {
	checked := make(map[int]bool, len(selected))
	for _, i := range selected {
		checked[i] = true
	}
	return f.add(&formField{key: key, label: label, kind: fieldChecklist, options: options, checked: checked})
}

func (f *FormModel) field(key string) *formField {
	for _, fd := range f.fields {
		if fd.key == key {
			return fd
		}
	}
	return nil
}

// Value returns the trimmed value of a text, multi-line or choice field.
func (f *FormModel) Value(key string) string {
	fd := f.field(key)
	if fd == nil {
		return ""
	}
	switch fd.kind {
	case fieldText:
		return strings.TrimSpace(fd.input.Value())
	case fieldArea:
		return strings.TrimSpace(fd.area.Value())
	case fieldChoice:
		if len(fd.options) == 0 {
			return ""
		}
		return fd.options[fd.choice]
	}
	return ""
}

// Checked returns the selected option indexes of a checklist, in option order.
func (f *FormModel) Checked(key string) []int {
	fd := f.field(key)
	if fd == nil {
		return nil
	}
	var idxs []int
	for i := range fd.options {
		if fd.checked[i] {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

func (f *FormModel) focusField(i int) {
	if len(f.fields) == 0 {
		return
	}
	switch cur := f.fields[f.focused]; cur.kind {
	case fieldText:
		cur.input.Blur()
	case fieldArea:
		cur.area.Blur()
	}

	f.focused = i
	next := f.fields[f.focused]
	switch next.kind {
	case fieldText:
		next.input.Focus()
	case fieldArea:
		next.area.Focus()
	}
}

func (f *FormModel) nextField() {
	f.focusField((f.focused + 1) % len(f.fields))
}

func (f *FormModel) prevField() {
	i := f.focused - 1
	if i < 0 {
		i = len(f.fields) - 1
	}
	f.focusField(i)
}

// Update handles input.
func (f *FormModel) Update(msg tea.Msg) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	cur := f.fields[f.focused]

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, f.keys.Cancel):
			return func() tea.Msg {
				return model.FormCancelledMsg{}
			}
		case key.Matches(keyMsg, f.keys.Save):
			cmd, err := f.submit(f)
			if err != nil {
				f.error = err.Error()
				return nil
			}
			f.error = ""
			f.submitted = cmd != nil
			return cmd
		case key.Matches(keyMsg, f.keys.NextField):
			f.nextField()
			return nil
		case key.Matches(keyMsg, f.keys.PrevField):
			f.prevField()
			return nil
		}

		switch cur.kind {
		case fieldText:
			if keyMsg.String() == "enter" {
				f.nextField()
				return nil
			}
		case fieldChoice:
			switch {
			case key.Matches(keyMsg, f.keys.PrevOpt):
				cur.choice = (cur.choice - 1 + len(cur.options)) % len(cur.options)
			case key.Matches(keyMsg, f.keys.NextOpt), key.Matches(keyMsg, f.keys.Toggle):
				cur.choice = (cur.choice + 1) % len(cur.options)
			}
			return nil
		case fieldChecklist:
			switch keyMsg.String() {
			case "j", "down":
				if cur.optCursor < len(cur.options)-1 {
					cur.optCursor++
				}
			case "k", "up":
				if cur.optCursor > 0 {
					cur.optCursor--
				}
			case " ", "x", "enter":
				if len(cur.options) > 0 {
					cur.checked[cur.optCursor] = !cur.checked[cur.optCursor]
				}
			}
			return nil
		}
	}

	var cmd tea.Cmd
	switch cur.kind {
	case fieldText:
		cur.input, cmd = cur.input.Update(msg)
	case fieldArea:
		cur.area, cmd = cur.area.Update(msg)
	}
	return cmd
}

// View renders the form, scrolled so the focused field is visible.
func (f *FormModel) View(width, height int) string {
	blocks := make([]string, len(f.fields))
	for i, fd := range f.fields {
		blocks[i] = renderFormField(fd, i == f.focused, width-8)
	}

	avail := max(1, height-6)
	start := 0
	for start < f.focused && stackHeight(blocks[start:f.focused+1]) > avail {
		start++
	}
	var visible []string
	used := 0
	for i := start; i < len(blocks); i++ {
		h := lipgloss.Height(blocks[i]) + 1
		if used+h > avail && len(visible) > 0 {
			break
		}
		visible = append(visible, blocks[i])
		used += h
	}

	body := []string{LabelStyle.Render(f.title), strings.Join(visible, "\n")}
	if f.error != "" {
		body = append(body, ErrorStyle.Render(f.error))
	}

	return PanelStyle.
		Width(width - 4).
		Height(height - 4).
		Render(strings.Join(body, "\n\n"))
}

func stackHeight(blocks []string) int {
	h := 0
	for _, b := range blocks {
		h += lipgloss.Height(b) + 1
	}
	return h
}

func renderFormField(fd *formField, focused bool, width int) string {
	style := BorderStyle
	if focused {
		style = ActiveBorderStyle
	}

	var input string
	switch fd.kind {
	case fieldText:
		input = fd.input.View()
	case fieldArea:
		input = fd.area.View()
	case fieldChoice:
		parts := make([]string, len(fd.options))
		for i, o := range fd.options {
			if i == fd.choice {
				parts[i] = BreadcrumbActiveStyle.Bold(true).Render("[" + o + "]")
			} else {
				parts[i] = HelpDescStyle.Render(o)
			}
		}
		input = strings.Join(parts, " ")
	case fieldChecklist:
		if len(fd.options) == 0 {
			input = HelpDescStyle.Render("nothing to choose from")
			break
		}
		lines := make([]string, len(fd.options))
		for i, o := range fd.options {
			box := "[ ]"
			if fd.checked[i] {
				box = "[x]"
			}
			line := box + " " + o
			if focused && i == fd.optCursor {
				line = BreadcrumbActiveStyle.Render("› " + line)
			} else {
				line = TextStyle.Render("  " + line)
			}
			lines[i] = line
		}
		input = strings.Join(lines, "\n")
	}

	field := lipgloss.JoinVertical(
		lipgloss.Left,
		LabelStyle.Render(fd.label),
		input,
	)
	return style.MaxWidth(max(20, width)).Render(field)
}
