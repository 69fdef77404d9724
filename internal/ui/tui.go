package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"fastodo/internal/domain"
)

type focus int

const (
	focusInput focus = iota
	focusList
	focusEdit
)

// Edit form fields, in tab order.
const (
	fieldName = iota
	fieldDifficulty
	fieldDate
	fieldCount
)

type model struct {
	ctx       context.Context
	presenter *Presenter

	// tasks is the copy rendered by View. It is refreshed from the presenter only inside
	// Update so the startup load never races with rendering.
	tasks   []domain.Task
	loading bool

	input     textinput.Model
	nameInput textinput.Model
	dateInput textinput.Model

	focus  focus
	cursor int
	field  int
	width  int
}

// loadedMsg reports the end of the startup load.
type loadedMsg struct {
	err error
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	inputStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	activeInputStyle = inputStyle.BorderForeground(lipgloss.Color("62"))

	cursorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true)
	dateStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
	placeholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	selectedLabel    = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62"))
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	difficultyStyles = map[domain.Difficulty]lipgloss.Style{
		domain.DifficultyEasy:   lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
		domain.DifficultyMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		domain.DifficultyHard:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		domain.DifficultyUnset:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
)

func newModel(ctx context.Context, p *Presenter) model {
	m := model{
		ctx:       ctx,
		presenter: p,
		loading:   true,
		focus:     focusInput,
		input:     newTextInput("> ", "What needs doing?"),
		nameInput: newTextInput("", ""),
		dateInput: newTextInput("", "YYYY-MM-DD"),
	}
	m.input.CharLimit = 256
	m.dateInput.CharLimit = 10
	m.input.Focus()
	return m
}

func newTextInput(prompt, hint string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Placeholder = hint
	ti.PlaceholderStyle = placeholderStyle
	return ti
}

// Run starts the interactive task list on the terminal and blocks until the user quits.
func Run(ctx context.Context, p *Presenter, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(newModel(ctx, p), opts...).Run()
	return err
}

func (m model) Init() tea.Cmd {
	return m.load
}

func (m model) load() tea.Msg {
	return loadedMsg{err: m.presenter.Load(m.ctx)}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case loadedMsg:
		// The store has already logged a failed load; the list simply stays empty.
		m.loading = false
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.loading {
			if msg.String() == "q" {
				return m, tea.Quit
			}
			return m, nil
		}
		switch m.focus {
		case focusInput:
			return m.updateInput(msg)
		case focusList:
			return m.updateList(msg)
		case focusEdit:
			return m.updateEdit(msg)
		}
		return m, nil
	}

	// Cursor blinks.
	var cmds [3]tea.Cmd
	m.input, cmds[0] = m.input.Update(msg)
	m.nameInput, cmds[1] = m.nameInput.Update(msg)
	m.dateInput, cmds[2] = m.dateInput.Update(msg)
	return m, tea.Batch(cmds[:]...)
}

func (m model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.presenter
	switch msg.Type {
	case tea.KeyEnter:
		// Rejected input stays in the box without a message.
		if _, err := p.Submit(m.ctx); err == nil {
			m.input.Reset()
		}
		m.refresh()
		return m, nil
	case tea.KeyTab:
		if p.ShowDifficultySelector() {
			p.CycleNewTaskDifficulty()
		}
		return m, nil
	case tea.KeyDown, tea.KeyEsc:
		if len(m.tasks) > 0 {
			return m, m.setFocus(focusList)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	p.SetNewTaskText(m.input.Value())
	return m, cmd
}

func (m model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor == 0 {
			return m, m.setFocus(focusInput)
		}
		m.cursor--
	case "down", "j":
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case "i", "esc":
		return m, m.setFocus(focusInput)
	case "e", "enter":
		if task, ok := m.selected(); ok && m.presenter.BeginEdit(task.ID) {
			buf := m.presenter.EditBuffer()
			m.nameInput.SetValue(buf.Name)
			m.nameInput.CursorEnd()
			m.dateInput.SetValue(buf.Date)
			m.dateInput.CursorEnd()
			m.field = fieldName
			return m, m.setFocus(focusEdit)
		}
	case "d", "x":
		if task, ok := m.selected(); ok {
			m.presenter.MarkDone(m.ctx, task.ID)
			m.refresh()
		}
	}
	return m, nil
}

func (m model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.presenter
	switch msg.Type {
	case tea.KeyEsc:
		p.CancelEdit()
		return m, m.setFocus(focusList)
	case tea.KeyEnter:
		if _, err := p.SaveEdit(m.ctx); err == nil {
			cmd := m.setFocus(focusList)
			m.refresh()
			return m, cmd
		}
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		m.field = (m.field + 1) % fieldCount
		return m, m.focusField()
	case tea.KeyShiftTab, tea.KeyUp:
		m.field = (m.field - 1 + fieldCount) % fieldCount
		return m, m.focusField()
	}

	var cmd tea.Cmd
	switch m.field {
	case fieldName:
		m.nameInput, cmd = m.nameInput.Update(msg)
		p.SetEditName(m.nameInput.Value())
	case fieldDate:
		m.dateInput, cmd = m.dateInput.Update(msg)
		p.SetEditDate(m.dateInput.Value())
	case fieldDifficulty:
		switch msg.Type {
		case tea.KeyBackspace:
			p.SetEditDifficulty(domain.DifficultyUnset)
		case tea.KeyLeft, tea.KeyRight, tea.KeyRunes, tea.KeySpace:
			p.SetEditDifficulty(p.EditBuffer().Difficulty.Next())
		}
	}
	return m, cmd
}

// setFocus moves keyboard focus and hands the cursor to the matching text input.
func (m *model) setFocus(f focus) tea.Cmd {
	m.focus = f
	switch f {
	case focusInput:
		m.nameInput.Blur()
		m.dateInput.Blur()
		return m.input.Focus()
	case focusEdit:
		m.input.Blur()
		return m.focusField()
	default:
		m.input.Blur()
		m.nameInput.Blur()
		m.dateInput.Blur()
		return nil
	}
}

// focusField gives the cursor to the selected edit field. Difficulty has no text input.
func (m *model) focusField() tea.Cmd {
	m.nameInput.Blur()
	m.dateInput.Blur()
	switch m.field {
	case fieldName:
		return m.nameInput.Focus()
	case fieldDate:
		return m.dateInput.Focus()
	}
	return nil
}

// refresh copies the presenter's snapshot and keeps the cursor in range.
func (m *model) refresh() {
	m.tasks = m.presenter.Tasks()
	if m.cursor >= len(m.tasks) {
		m.cursor = len(m.tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if len(m.tasks) == 0 && m.focus == focusList {
		m.setFocus(focusInput)
	}
}

func (m model) selected() (domain.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return domain.Task{}, false
	}
	return m.tasks[m.cursor], true
}

func (m model) View() string {
	title := titleStyle.Render("⚡ Fastodo")
	if m.loading {
		return fmt.Sprintf("%s\n\n  Loading tasks...\n", title)
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")
	b.WriteString(m.renderInput())
	b.WriteString("\n\n")
	b.WriteString(m.renderList())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help()))
	return b.String()
}

func (m model) renderInput() string {
	p := m.presenter
	style := inputStyle
	if m.focus == focusInput {
		style = activeInputStyle
	}

	line := m.input.View()
	if p.ShowDifficultySelector() {
		line += "  " + labelStyle.Render("difficulty:") + " " + renderDifficulty(p.NewTaskDifficulty())
	}

	width := m.width - 4
	if width < 30 {
		width = 30
	}
	return style.Width(width).Render(line)
}

func (m model) renderList() string {
	if len(m.tasks) == 0 {
		return placeholderStyle.Render("  No tasks yet.") + "\n"
	}

	editingID, editing := m.presenter.Editing()
	var b strings.Builder
	for i, task := range m.tasks {
		marker := "  "
		if m.focus != focusInput && i == m.cursor {
			marker = cursorStyle.Render("> ")
		}
		if editing && task.ID == editingID {
			b.WriteString(marker + m.renderEditForm() + "\n")
			continue
		}
		b.WriteString(marker + renderTask(task) + "\n")
	}
	return b.String()
}

func (m model) renderEditForm() string {
	buf := m.presenter.EditBuffer()
	fields := []struct {
		label string
		value string
	}{
		{"name", m.nameInput.View()},
		{"difficulty", renderDifficulty(buf.Difficulty)},
		{"date", m.dateInput.View()},
	}

	parts := make([]string, 0, len(fields))
	for i, f := range fields {
		label := labelStyle.Render(f.label + ":")
		if i == m.field {
			label = selectedLabel.Render(f.label + ":")
		}
		parts = append(parts, label+" "+f.value)
	}
	return strings.Join(parts, "  ")
}

func renderTask(task domain.Task) string {
	line := task.Name
	if task.Difficulty.IsSet() {
		line += "  " + renderDifficulty(task.Difficulty)
	}
	if task.HasDueDate() {
		line += "  " + dateStyle.Render(task.DueDateString())
	}
	return line
}

func renderDifficulty(d domain.Difficulty) string {
	return difficultyStyles[d].Render(d.String())
}

func (m model) help() string {
	switch m.focus {
	case focusList:
		return "j/k: move | e: edit | d/x: done | i: new task | q: quit"
	case focusEdit:
		return "tab: next field | ←/→: difficulty | enter: save | esc: cancel"
	default:
		if m.presenter.ShowDifficultySelector() {
			return "enter: add | tab: difficulty | ↓: list | ctrl+c: quit"
		}
		return "enter: add | ↓: list | ctrl+c: quit"
	}
}
