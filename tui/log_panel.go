// ABOUTME: Implements a scrollable activity log panel using the bubbles viewport component.
// ABOUTME: Records fetch starts, completions, failures, and dropped stale results with color-coded levels.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

// ActivityLevel classifies an activity log line.
type ActivityLevel int

const (
	ActivityInfo ActivityLevel = iota
	ActivitySuccess
	ActivityError
	ActivityStale
)

func (l ActivityLevel) String() string {
	switch l {
	case ActivityInfo:
		return "info"
	case ActivitySuccess:
		return "ok"
	case ActivityError:
		return "error"
	case ActivityStale:
		return "stale"
	default:
		return "unknown"
	}
}

// ActivityEntry is one line of the activity log.
type ActivityEntry struct {
	Time    time.Time
	Level   ActivityLevel
	Source  string
	Message string
}

// LogPanelModel is a scrollable log of dashboard fetch activity.
type LogPanelModel struct {
	entries  []ActivityEntry
	max      int
	viewport viewport.Model
	width    int
	height   int
}

// NewLogPanelModel creates a new log panel with a maximum number of entries.
// If maxEntries is <= 0, it defaults to 200.
func NewLogPanelModel(maxEntries int) LogPanelModel {
	if maxEntries <= 0 {
		maxEntries = 200
	}
	vp := viewport.New(80, 4)
	return LogPanelModel{
		entries:  make([]ActivityEntry, 0, maxEntries),
		max:      maxEntries,
		viewport: vp,
	}
}

// Append adds an entry to the log, evicting the oldest entry if at capacity.
func (m *LogPanelModel) Append(e ActivityEntry) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	if len(m.entries) >= m.max {
		m.entries = m.entries[1:]
	}
	m.entries = append(m.entries, e)
	m.syncViewport()
}

// Len returns the number of entries in the log.
func (m LogPanelModel) Len() int {
	return len(m.entries)
}

// Last returns the newest entry and whether one exists.
func (m LogPanelModel) Last() (ActivityEntry, bool) {
	if len(m.entries) == 0 {
		return ActivityEntry{}, false
	}
	return m.entries[len(m.entries)-1], true
}

// SetSize sets the available dimensions and updates the viewport.
func (m *LogPanelModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	// Reserve space for the border (2 lines top/bottom) and title (1 line)
	m.viewport.Width = max(w-2, 1)
	m.viewport.Height = max(h-3, 1)
	m.syncViewport()
}

// View renders the log panel.
func (m LogPanelModel) View() string {
	content := "No activity yet"
	if len(m.entries) > 0 {
		content = m.viewport.View()
	}
	rendered := TitleStyle.Render("ACTIVITY") + "\n" + content

	style := BorderStyle
	if m.width > 2 {
		style = style.Width(m.width - 2)
	}
	return style.Render(rendered)
}

// syncViewport rebuilds the viewport content from entries and scrolls to the bottom.
func (m *LogPanelModel) syncViewport() {
	lines := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		lines = append(lines, formatEntry(e))
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
	m.viewport.GotoBottom()
}

// formatEntry formats a single activity entry as a log line.
func formatEntry(e ActivityEntry) string {
	ts := LogTimestampStyle.Render(e.Time.Format("15:04:05"))
	level := levelStyle(e.Level).Render(e.Level.String())
	if e.Source == "" {
		return fmt.Sprintf("%s %s %s", ts, level, e.Message)
	}
	return fmt.Sprintf("%s %s [%s] %s", ts, level, e.Source, e.Message)
}

// levelStyle returns the lipgloss style for an activity level.
func levelStyle(l ActivityLevel) lipgloss.Style {
	switch l {
	case ActivitySuccess:
		return LogSuccessStyle
	case ActivityError:
		return LogErrorStyle
	case ActivityStale:
		return LogStaleStyle
	default:
		return LogInfoStyle
	}
}
