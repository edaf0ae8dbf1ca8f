package report

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/wippyai/modsurfer/validate"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	passStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#90EE90"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	cellStyle = lipgloss.NewStyle().Padding(0, 1)
)

// Table renders a Report as the fixed six-column layout: Status | Property
// | Expected | Actual | Classification | Severity. Severity renders as
// `|` repeated severity times.
func Table(r validate.Report) string {
	t := table.New().
		Headers("Status", "Property", "Expected", "Actual", "Classification", "Severity").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 0 {
				if r.Outcomes[row].Status == validate.Pass {
					return passStyle
				}
				return failStyle
			}
			return cellStyle
		})

	for _, o := range r.Outcomes {
		t.Row(
			o.Status.String(),
			o.Property,
			o.Expected,
			o.Actual,
			o.Classification.String(),
			strings.Repeat("|", o.Severity),
		)
	}

	return t.Render()
}
