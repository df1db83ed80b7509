// ABOUTME: User intents and the dispatch table mapping each to its controller operation.
// ABOUTME: Keys and external callers both go through Dispatch, so every action has one code path.
package tui

import tea "github.com/charmbracelet/bubbletea"

// Intent is a user-level action on the dashboard.
type Intent int

const (
	IntentRefresh Intent = iota
	IntentCycleLimit
	IntentFilterChanged
	IntentSelectCall
	IntentLoadCall
	IntentShowOverview
	IntentShowCallDetail
	IntentNextTab
	IntentQuit
)

func (i Intent) String() string {
	switch i {
	case IntentRefresh:
		return "refresh"
	case IntentCycleLimit:
		return "cycle_limit"
	case IntentFilterChanged:
		return "filter_changed"
	case IntentSelectCall:
		return "select_call"
	case IntentLoadCall:
		return "load_call"
	case IntentShowOverview:
		return "show_overview"
	case IntentShowCallDetail:
		return "show_call_detail"
	case IntentNextTab:
		return "next_tab"
	case IntentQuit:
		return "quit"
	default:
		return "unknown"
	}
}

type intentHandler func(m AppModel, arg string) (AppModel, tea.Cmd)

var intentHandlers = map[Intent]intentHandler{
	IntentRefresh:        AppModel.refresh,
	IntentCycleLimit:     AppModel.cycleLimit,
	IntentFilterChanged:  AppModel.filterChanged,
	IntentSelectCall:     AppModel.selectCall,
	IntentLoadCall:       AppModel.loadCall,
	IntentShowOverview:   AppModel.showOverview,
	IntentShowCallDetail: AppModel.showCallDetail,
	IntentNextTab:        AppModel.nextTab,
	IntentQuit:           AppModel.quit,
}

// Dispatch runs the handler registered for intent.
func (m AppModel) Dispatch(intent Intent, arg string) (AppModel, tea.Cmd) {
	h, ok := intentHandlers[intent]
	if !ok {
		m.log.WithField("intent", intent.String()).Warn("unhandled intent")
		return m, nil
	}
	return h(m, arg)
}
