// Package report renders a validate.Report to its two external forms: a
// tabular form with lipgloss/table, and JSON with the Outcome field names
// verbatim.
package report
