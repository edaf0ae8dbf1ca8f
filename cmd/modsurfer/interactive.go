package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/modsurfer/validate"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	propertyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	passStyleTUI = lipgloss.NewStyle().Foreground(lipgloss.Color("#90EE90"))
	failStyleTUI = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	helpStyleTUI = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type reportModel struct {
	report   validate.Report
	selected int
	expanded bool
}

func newReportModel(r validate.Report) *reportModel {
	return &reportModel{report: r}
}

func (m *reportModel) Init() tea.Cmd {
	return nil
}

func (m *reportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}

	case "down", "j":
		if m.selected < len(m.report.Outcomes)-1 {
			m.selected++
		}

	case "enter":
		m.expanded = !m.expanded
	}

	return m, nil
}

func (m *reportModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("modsurfer report"))
	b.WriteString("\n\n")

	if len(m.report.Outcomes) == 0 {
		b.WriteString("No outcomes.\n")
		b.WriteString(helpStyleTUI.Render("q quit"))
		return b.String()
	}

	for i, o := range m.report.Outcomes {
		cursor := "  "
		line := m.formatOutcome(o)
		if i == m.selected {
			cursor = "> "
			line = selectedStyle.Render(cursor + line)
		} else {
			line = cursor + line
		}
		b.WriteString(line)
		b.WriteString("\n")

		if i == m.selected && m.expanded {
			b.WriteString(fmt.Sprintf("    expected: %s\n", o.Expected))
			b.WriteString(fmt.Sprintf("    actual:   %s\n", o.Actual))
			b.WriteString(fmt.Sprintf("    class:    %s\n", o.Classification))
		}
	}

	b.WriteString("\n")
	b.WriteString(helpStyleTUI.Render("↑/↓ select • enter expand • q quit"))

	return b.String()
}

func (m *reportModel) formatOutcome(o validate.Outcome) string {
	status := passStyleTUI.Render(o.Status.String())
	if o.Status == validate.Fail {
		status = failStyleTUI.Render(o.Status.String())
	}
	return fmt.Sprintf("%s %s (severity %d)", status, propertyStyle.Render(o.Property), o.Severity)
}

func runInteractiveReport(r validate.Report) error {
	p := tea.NewProgram(newReportModel(r), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// searchPromptModel is a one-field textinput form, used when `catalog
// search` is invoked with no query argument.
type searchPromptModel struct {
	input     textinput.Model
	query     string
	submitted bool
}

func newSearchPromptModel() *searchPromptModel {
	ti := textinput.New()
	ti.Placeholder = "query"
	ti.Prompt = "search: "
	ti.Width = 40
	ti.Focus()
	return &searchPromptModel{input: ti}
}

func (m *searchPromptModel) Init() tea.Cmd {
	return nil
}

func (m *searchPromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "enter":
		m.query = m.input.Value()
		m.submitted = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *searchPromptModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("modsurfer catalog search"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyleTUI.Render("enter search • esc cancel"))
	return b.String()
}

// promptSearchQuery drops into an interactive textinput form and returns
// the entered query, or ("", false) if the user cancelled.
func promptSearchQuery() (string, bool, error) {
	p := tea.NewProgram(newSearchPromptModel())
	m, err := p.Run()
	if err != nil {
		return "", false, err
	}
	sm := m.(*searchPromptModel)
	return sm.query, sm.submitted && sm.query != "", nil
}
