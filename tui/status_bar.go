// ABOUTME: Implements a single-line status bar for the bottom of the TUI showing dashboard context.
// ABOUTME: Displays API base URL, limit, visible/fetched row counts, refresh age, and in-flight fetches.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/2389-research/calldeck/dashboard"
	"github.com/2389-research/calldeck/format"
)

// StatusBarModel displays dashboard status in a single line.
type StatusBarModel struct {
	baseURL      string
	limit        int
	visibleRows  int
	fetchedRows  int
	lastRefresh  time.Time
	statuses     map[dashboard.Kind]FetchStatus
	spinnerIndex int
	width        int
}

// NewStatusBarModel creates a new StatusBarModel for the given API base URL.
func NewStatusBarModel(baseURL string) StatusBarModel {
	return StatusBarModel{
		baseURL:  baseURL,
		limit:    dashboard.DefaultLimit,
		statuses: make(map[dashboard.Kind]FetchStatus),
	}
}

// SetLimit updates the displayed recent-calls limit.
func (m *StatusBarModel) SetLimit(n int) {
	m.limit = n
}

// SetRowCounts updates the visible and fetched row counts.
func (m *StatusBarModel) SetRowCounts(visible, fetched int) {
	m.visibleRows = visible
	m.fetchedRows = fetched
}

// MarkRefreshed records when the overview last loaded successfully.
func (m *StatusBarModel) MarkRefreshed(t time.Time) {
	m.lastRefresh = t
}

// SetFetchStatus records the state of one kind of fetch.
func (m *StatusBarModel) SetFetchStatus(kind dashboard.Kind, status FetchStatus) {
	m.statuses[kind] = status
}

// FetchStatus returns the recorded state for kind (defaults to FetchIdle).
func (m StatusBarModel) FetchStatus(kind dashboard.Kind) FetchStatus {
	if s, ok := m.statuses[kind]; ok {
		return s
	}
	return FetchIdle
}

// Busy reports whether any fetch is in flight.
func (m StatusBarModel) Busy() bool {
	for _, s := range m.statuses {
		if s == FetchLoading {
			return true
		}
	}
	return false
}

// AdvanceSpinner increments the spinner frame index.
func (m *StatusBarModel) AdvanceSpinner() {
	m.spinnerIndex++
}

// SetWidth sets the bar width for rendering.
func (m *StatusBarModel) SetWidth(w int) {
	m.width = w
}

// RefreshAge returns the time since the last successful refresh, or zero.
func (m StatusBarModel) RefreshAge(now time.Time) time.Duration {
	if m.lastRefresh.IsZero() {
		return 0
	}
	return now.Sub(m.lastRefresh)
}

// formatAge renders a refresh age using the dashboard's duration format.
func formatAge(d time.Duration) string {
	secs := d.Truncate(time.Second).Seconds()
	return format.Duration(&secs) + " ago"
}

// View renders the status bar as a single styled line.
func (m StatusBarModel) View() string {
	refreshed := "never"
	if !m.lastRefresh.IsZero() {
		refreshed = formatAge(m.RefreshAge(time.Now()))
	}

	var loading []string
	for _, kind := range []dashboard.Kind{dashboard.KindOverview, dashboard.KindCalls, dashboard.KindDetail} {
		if m.FetchStatus(kind) == FetchLoading {
			loading = append(loading, kind.String())
		}
	}
	activity := "idle"
	if len(loading) > 0 {
		frame := SpinnerFrames[m.spinnerIndex%len(SpinnerFrames)]
		activity = LoadingStyle.Render(frame + " loading " + strings.Join(loading, ", "))
	}

	content := fmt.Sprintf("API: %s | Limit: %d | Rows: %d/%d | Refreshed: %s | %s",
		m.baseURL, m.limit, m.visibleRows, m.fetchedRows, refreshed, activity)

	style := StatusBarStyle.Width(m.width)

	return lipgloss.PlaceHorizontal(m.width, lipgloss.Left, style.Render(content))
}
