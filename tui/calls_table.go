// ABOUTME: Recent-calls table built on bubbles/table, one row per call in fetch order.
// ABOUTME: Selecting a row yields its call_id, which the controller turns into a detail load.
package tui

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/2389-research/calldeck/format"
	"github.com/2389-research/calldeck/metricsapi"
)

// CallsTableModel shows the filtered recent calls.
type CallsTableModel struct {
	table table.Model
	calls []metricsapi.CallSummary
}

func callColumns() []table.Column {
	return []table.Column{
		{Title: "Call ID", Width: 18},
		{Title: "Ended", Width: 22},
		{Title: "Verified", Width: 8},
		{Title: "Outcome", Width: 22},
		{Title: "Sentiment", Width: 16},
		{Title: "Load", Width: 10},
		{Title: "Rounds", Width: 6},
	}
}

// NewCallsTableModel creates an empty, focused table.
func NewCallsTableModel() CallsTableModel {
	t := table.New(
		table.WithColumns(callColumns()),
		table.WithFocused(true),
		table.WithHeight(8),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color("62"))
	t.SetStyles(s)
	return CallsTableModel{table: t}
}

// CallRow formats one call for display.
func CallRow(c metricsapi.CallSummary) table.Row {
	return table.Row{
		c.CallID,
		format.Timestamp(c.EndedAt),
		format.Bool(c.Verified),
		format.Text(c.Outcome),
		format.Text(c.Sentiment),
		format.Text(c.LoadID),
		format.Int(c.Rounds),
	}
}

// SetCalls replaces the table contents, keeping the cursor in range.
func (m *CallsTableModel) SetCalls(calls []metricsapi.CallSummary) {
	m.calls = calls
	rows := make([]table.Row, len(calls))
	for i, c := range calls {
		rows[i] = CallRow(c)
	}
	cursor := m.table.Cursor()
	m.table.SetRows(rows)
	if len(rows) > 0 {
		m.table.SetCursor(min(max(cursor, 0), len(rows)-1))
	}
}

// Len returns the number of visible rows.
func (m CallsTableModel) Len() int {
	return len(m.calls)
}

// SelectedCallID returns the call_id under the cursor, or "" when empty.
func (m CallsTableModel) SelectedCallID() string {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.calls) {
		return ""
	}
	return m.calls[i].CallID
}

// SetSize fits the table into the given area.
func (m *CallsTableModel) SetSize(w, h int) {
	m.table.SetWidth(w)
	m.table.SetHeight(max(h, 3))
}

// Update forwards navigation keys to the table.
func (m CallsTableModel) Update(msg tea.Msg) CallsTableModel {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	_ = cmd
	return m
}

// View renders the table, or a placeholder when there are no rows.
func (m CallsTableModel) View() string {
	title := TitleStyle.Render("Recent calls")
	if len(m.calls) == 0 {
		return title + "\n" + ChartEmptyStyle.Render("No calls")
	}
	return title + "\n" + m.table.View()
}
