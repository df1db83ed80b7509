// ABOUTME: Defines lipgloss style constants for the dashboard panels, KPI cards, charts, banner, and activity log.
// ABOUTME: Provides StyleForFetchStatus and StyleForDelta to map values to their display styles.
package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Panel borders
	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62"))

	// Title styling
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170"))

	// Tabs
	ActiveTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)
	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Padding(0, 2)

	// KPI cards
	KPICardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Width(16)
	KPILabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	KPIValueStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))

	// Charts
	BarStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	BarLabelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	BarCountStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	ChartEmptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)

	// Fetch status colors
	IdleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	LoadingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	LoadedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	FailedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	// Error banner
	ErrorBannerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("231")).
				Background(lipgloss.Color("124")).
				Bold(true).
				Padding(0, 1)

	// Activity log colors
	LogTimestampStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	LogInfoStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	LogErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	LogSuccessStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	LogStaleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)

	// Detail panel labels
	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(20)
	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	// Rate delta
	DeltaUpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	DeltaDownStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)

	// Inputs
	InputLabelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	FocusedInputStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	// Raw JSON
	RawJSONStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
)

// StyleForFetchStatus returns the lipgloss style for a FetchStatus.
func StyleForFetchStatus(status FetchStatus) lipgloss.Style {
	switch status {
	case FetchIdle:
		return IdleStyle
	case FetchLoading:
		return LoadingStyle
	case FetchLoaded:
		return LoadedStyle
	case FetchFailed:
		return FailedStyle
	default:
		return IdleStyle
	}
}

// StyleForDelta colors a rate delta: paying above the loadboard rate is red,
// below it green, no change plain.
func StyleForDelta(delta *float64) lipgloss.Style {
	switch {
	case delta == nil || *delta == 0:
		return ValueStyle
	case *delta > 0:
		return DeltaUpStyle
	default:
		return DeltaDownStyle
	}
}
