package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const maxHistory = 12

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	arrayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	commandStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type entry struct {
	err     error
	command string
	output  string
}

type interactiveModel struct {
	session  *session
	typeName string
	input    textinput.Model
	history  []entry
	recall   []string
	cursor   int
}

func newInteractiveModel(s *session, typeName string) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "push 1 2 3"
	ti.Prompt = "> "
	ti.Width = 60
	ti.Focus()
	return &interactiveModel{session: s, typeName: typeName, input: ti}
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			line := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if line == "" {
				return m, nil
			}
			if line == "quit" || line == "exit" {
				return m, tea.Quit
			}
			m.run(line)
			return m, nil

		case "up":
			if m.cursor > 0 {
				m.cursor--
				m.input.SetValue(m.recall[m.cursor])
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if m.cursor < len(m.recall)-1 {
				m.cursor++
				m.input.SetValue(m.recall[m.cursor])
				m.input.CursorEnd()
			} else {
				m.cursor = len(m.recall)
				m.input.SetValue("")
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *interactiveModel) run(line string) {
	out, err := m.session.exec(line)
	m.history = append(m.history, entry{command: line, output: out, err: err})
	if len(m.history) > maxHistory {
		m.history = m.history[len(m.history)-maxHistory:]
	}
	m.recall = append(m.recall, line)
	m.cursor = len(m.recall)
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Array Viewer"))
	b.WriteString(" array<" + m.typeName + ">\n\n")
	b.WriteString(arrayStyle.Render(m.session.show()))
	b.WriteString("\n\n")

	for _, e := range m.history {
		b.WriteString(commandStyle.Render("> " + e.command))
		b.WriteString("\n")
		switch {
		case e.err != nil:
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", e.err)))
			b.WriteString("\n")
		case e.output != "":
			b.WriteString(resultStyle.Render(e.output))
			b.WriteString("\n")
		}
	}
	if len(m.history) > 0 {
		b.WriteString("\n")
	}

	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter run • ↑/↓ history • help commands • esc quit"))
	return b.String()
}

func runInteractive(s *session, typeName string) error {
	p := tea.NewProgram(newInteractiveModel(s, typeName), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
