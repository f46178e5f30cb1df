// internal/tui/prompt.go
//
// The two interactive questions of an assembly run, each a tiny bubbletea
// program:
//
// 1. SelectModel: pick an exam from the library (bubbles list)
// 2. ConfirmModel: approve replacing an exam folder from an earlier run
//
// Both quit as soon as they have an answer. esc and ctrl+c cancel.

package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kingrea/examforge/internal/assembly"
)

// ErrCancelled is returned when the operator backs out of a prompt.
var ErrCancelled = assembly.ErrCancelled

const (
	defaultListWidth  = 60
	defaultListHeight = 16
)

// examItem implements list.Item for the exam picker
type examItem struct {
	name string
	desc string
}

func (i examItem) Title() string       { return i.name }
func (i examItem) Description() string { return i.desc }
func (i examItem) FilterValue() string { return i.name }

// SelectModel lets the operator choose one exam.
type SelectModel struct {
	list      list.Model
	choice    string
	cancelled bool
}

// NewSelectModel builds the picker. describe may be nil; when set it
// supplies the secondary line under each exam.
func NewSelectModel(exams []string, describe func(exam string) string) SelectModel {
	items := make([]list.Item, 0, len(exams))
	for _, exam := range exams {
		item := examItem{name: exam}
		if describe != nil {
			item.desc = describe(exam)
		}
		items = append(items, item)
	}
	l := list.New(items, list.NewDefaultDelegate(), defaultListWidth, defaultListHeight)
	l.Title = "Select an exam"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	return SelectModel{list: l}
}

func (m SelectModel) Init() tea.Cmd {
	return nil
}

func (m SelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-1)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.cancelled = true
			return m, tea.Quit
		case "enter":
			if item, ok := m.list.SelectedItem().(examItem); ok {
				m.choice = item.name
				return m, tea.Quit
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m SelectModel) View() string {
	if m.choice != "" || m.cancelled {
		return ""
	}
	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorHint)).
		Render("enter: select · esc: cancel")
	return lipgloss.JoinVertical(lipgloss.Left, m.list.View(), hint)
}

// Choice returns the selected exam, or "" if none was picked yet.
func (m SelectModel) Choice() string { return m.choice }

// Cancelled reports whether the operator backed out.
func (m SelectModel) Cancelled() bool { return m.cancelled }

// ConfirmModel asks a yes/no question that defaults to No.
type ConfirmModel struct {
	question  string
	answered  bool
	confirmed bool
	cancelled bool
}

// NewConfirmModel asks question with a [y/N] suffix.
func NewConfirmModel(question string) ConfirmModel {
	return ConfirmModel{question: question}
}

func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "y", "Y":
		m.answered, m.confirmed = true, true
		return m, tea.Quit
	case "n", "N", "enter":
		m.answered = true
		return m, tea.Quit
	case "esc", "ctrl+c":
		m.cancelled = true
		return m, tea.Quit
	}
	return m, nil
}

func (m ConfirmModel) View() string {
	if m.answered || m.cancelled {
		return ""
	}
	question := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colorWarn)).
		Render(m.question)
	return question + " [y/N] "
}

// Confirmed reports a "yes" answer.
func (m ConfirmModel) Confirmed() bool { return m.confirmed }

// Cancelled reports whether the operator backed out.
func (m ConfirmModel) Cancelled() bool { return m.cancelled }

// Prompter implements assembly.Prompter on top of bubbletea programs.
type Prompter struct {
	in  io.Reader
	out io.Writer

	// Describe, when set, annotates each exam in the picker.
	Describe func(exam string) string
}

// NewPrompter reads keys from in and draws on out. nil values fall back
// to the terminal.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: in, out: out}
}

// SelectExam shows the picker and returns the chosen exam.
func (p *Prompter) SelectExam(exams []string) (string, error) {
	final, err := p.run(NewSelectModel(exams, p.Describe))
	if err != nil {
		return "", fmt.Errorf("tui: select exam: %w", err)
	}
	m, ok := final.(SelectModel)
	if !ok || m.Cancelled() || m.Choice() == "" {
		return "", fmt.Errorf("tui: select exam: %w", ErrCancelled)
	}
	return m.Choice(), nil
}

// ConfirmOverwrite asks whether an existing exam folder may be replaced.
func (p *Prompter) ConfirmOverwrite(exam, path string) (bool, error) {
	question := fmt.Sprintf("Exam folder %s already exists. Overwrite?", path)
	final, err := p.run(NewConfirmModel(question))
	if err != nil {
		return false, fmt.Errorf("tui: confirm overwrite of %s: %w", exam, err)
	}
	m, ok := final.(ConfirmModel)
	if !ok || m.Cancelled() {
		return false, fmt.Errorf("tui: confirm overwrite of %s: %w", exam, ErrCancelled)
	}
	return m.Confirmed(), nil
}

func (p *Prompter) run(model tea.Model) (tea.Model, error) {
	var opts []tea.ProgramOption
	if p.in != nil {
		opts = append(opts, tea.WithInput(p.in))
	}
	if p.out != nil {
		opts = append(opts, tea.WithOutput(p.out))
	}
	return tea.NewProgram(model, opts...).Run()
}
