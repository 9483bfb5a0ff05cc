package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// maxHistory bounds the number of entries shown above the prompt.
const maxHistory = 20

type entry struct {
	input  string
	result string
	err    error
}

type interactiveModel struct {
	input     textinput.Model
	history   []entry
	recall    int
	precision int
	log       *zap.Logger
}

func newInteractiveModel(precision int, log *zap.Logger) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "5 m + 3 ft -> cm"
	ti.Prompt = "› "
	ti.Width = 60
	ti.Focus()
	return &interactiveModel{input: ti, precision: precision, log: log, recall: -1}
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "ctrl+d", "esc":
			return m, tea.Quit

		case "enter":
			text := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			m.recall = -1
			switch text {
			case "":
				return m, nil
			case "quit", "exit":
				return m, tea.Quit
			case "clear":
				m.history = nil
				return m, nil
			}
			m.history = append(m.history, m.evaluate(text))
			if len(m.history) > maxHistory {
				m.history = m.history[len(m.history)-maxHistory:]
			}
			return m, nil

		case "up":
			if len(m.history) > 0 {
				if m.recall < 0 {
					m.recall = len(m.history)
				}
				m.recall = max(m.recall-1, 0)
				m.input.SetValue(m.history[m.recall].input)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if m.recall >= 0 {
				m.recall++
				if m.recall >= len(m.history) {
					m.recall = -1
					m.input.SetValue("")
				} else {
					m.input.SetValue(m.history[m.recall].input)
					m.input.CursorEnd()
				}
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *interactiveModel) evaluate(text string) entry {
	s, err := evalLine(text)
	if err != nil {
		m.log.Debug("evaluation failed", zap.String("input", text), zap.Error(err))
		return entry{input: text, err: err}
	}
	defer s.Close()
	return entry{input: text, result: s.Format(m.precision)}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("siq"))
	b.WriteString(" A op B [-> UNIT]   op: + - * / ^ root\n\n")

	for _, e := range m.history {
		b.WriteString(inputStyle.Render(e.input))
		b.WriteString("\n  = ")
		if e.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", e.err)))
		} else {
			b.WriteString(resultStyle.Render(e.result))
		}
		b.WriteString("\n")
	}
	if len(m.history) > 0 {
		b.WriteString("\n")
	}

	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter evaluate • ↑/↓ history • clear • esc quit"))
	return b.String()
}

func newInteractiveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"i", "repl"},
		Short:   "Start an interactive calculator",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := tea.NewProgram(
				newInteractiveModel(a.cfg.Output.Precision, a.log),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			_, err := p.Run()
			return err
		},
	}
}
