// ABOUTME: Renders the tab strip for the two mutually exclusive dashboard panels.
package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/2389-research/calldeck/dashboard"
)

// Tabs lists the panels in display and cycle order.
var Tabs = []dashboard.Tab{dashboard.TabOverview, dashboard.TabCallDetail}

// NextTab returns the tab after t, wrapping around.
func NextTab(t dashboard.Tab) dashboard.Tab {
	for i, tab := range Tabs {
		if tab == t {
			return Tabs[(i+1)%len(Tabs)]
		}
	}
	return Tabs[0]
}

// TabsView renders "[1] Overview  [2] Call Detail" with the active tab highlighted.
func TabsView(active dashboard.Tab) string {
	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		label := fmt.Sprintf("[%d] %s", i+1, tab)
		if tab == active {
			parts[i] = ActiveTabStyle.Render(label)
		} else {
			parts[i] = InactiveTabStyle.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// ErrorBannerView renders the single error banner, or "" when hidden.
func ErrorBannerView(msg string, shown bool, width int) string {
	if !shown {
		return ""
	}
	style := ErrorBannerStyle
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render("Error: " + msg)
}
