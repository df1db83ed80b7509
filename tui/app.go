// ABOUTME: Top-level Bubble Tea AppModel that owns the dashboard state and orchestrates every fetch.
// ABOUTME: Implements tea.Model (Init, Update, View) and routes keys and fetch results to the panels.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/2389-research/calldeck/dashboard"
	"github.com/2389-research/calldeck/logger"
)

// ValidationMessage is shown when a detail load is requested without a call_id.
const ValidationMessage = "Enter a call_id."

// FocusTarget indicates which input currently has keyboard focus.
type FocusTarget int

const (
	FocusNone FocusTarget = iota
	FocusFilter
	FocusCallID
	FocusAPIKey
)

// AppConfig carries startup settings for NewAppModel.
type AppConfig struct {
	BaseURL string
	APIKey  string
	Limit   int
	Chart   ChartRenderer
	Logger  *logger.Logger
}

// AppModel is the top-level Bubble Tea model. The dashboard state is held by
// pointer so every copy Bubble Tea makes sees the same store.
type AppModel struct {
	api   API
	ctx   context.Context
	state *dashboard.State
	seq   *dashboard.Sequencer
	log   *logrus.Entry

	apiKey InputField
	filter InputField
	callID InputField
	focus  FocusTarget

	overview  OverviewPanelModel
	calls     CallsTableModel
	detail    DetailPanelModel
	activity  LogPanelModel
	statusBar StatusBarModel
	keys      keyMap
	help      help.Model

	width  int
	height int
}

// NewAppModel creates an AppModel talking to api. ctx bounds every request.
func NewAppModel(ctx context.Context, api API, cfg AppConfig) AppModel {
	l := cfg.Logger
	if l == nil {
		l = logger.Nop()
	}
	log := l.WithComponent("tui")

	state := dashboard.NewState()
	if cfg.Limit != 0 {
		if err := state.SetLimit(cfg.Limit); err != nil {
			log.WithField("limit", cfg.Limit).Warn("ignoring configured limit")
		}
	}

	apiKey := NewSecretField("API key", "x-api-key")
	apiKey.SetValue(cfg.APIKey)

	statusBar := NewStatusBarModel(cfg.BaseURL)
	statusBar.SetLimit(state.Limit())

	return AppModel{
		api:       api,
		ctx:       ctx,
		state:     state,
		seq:       dashboard.NewSequencer(),
		log:       log,
		apiKey:    apiKey,
		filter:    NewInputField("Filter", "call_id contains..."),
		callID:    NewInputField("Call ID", "call_id"),
		overview:  NewOverviewPanelModel(cfg.Chart),
		calls:     NewCallsTableModel(),
		detail:    NewDetailPanelModel(),
		activity:  NewLogPanelModel(200),
		statusBar: statusBar,
		keys:      defaultKeyMap(),
		help:      help.New(),
	}
}

// State returns the dashboard store the renderers read from.
func (m AppModel) State() *dashboard.State {
	return m.state
}

// Init implements tea.Model. The initial refresh goes through the intent
// loop because mutations made here on a value receiver would be discarded.
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(
		IntentCmd(IntentRefresh, ""),
		TickCmd(time.Second),
	)
}

// Update implements tea.Model.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case IntentMsg:
		return m.Dispatch(msg.Intent, msg.Arg)

	case OverviewLoadedMsg:
		return m.handleOverviewLoaded(msg)

	case CallsLoadedMsg:
		return m.handleCallsLoaded(msg)

	case DetailLoadedMsg:
		return m.handleDetailLoaded(msg)

	case TickMsg:
		return m.handleTick(msg)

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

// refresh clears the banner and issues the concurrent overview fetch. Calls
// reload once it lands.
func (m AppModel) refresh(_ string) (AppModel, tea.Cmd) {
	m.state.ClearError()
	seq := m.seq.Next(dashboard.KindOverview)
	m.statusBar.SetFetchStatus(dashboard.KindOverview, FetchLoading)
	m.record(ActivityInfo, dashboard.KindOverview, "refreshing")
	m.log.WithField("seq", seq).Debug("refresh overview")
	return m, RefreshOverviewCmd(m.ctx, m.api, m.apiKey.Value(), seq)
}

// loadCalls issues a recent-calls fetch with the current limit.
func (m AppModel) loadCalls() (AppModel, tea.Cmd) {
	seq := m.seq.Next(dashboard.KindCalls)
	limit := m.state.Limit()
	m.statusBar.SetFetchStatus(dashboard.KindCalls, FetchLoading)
	m.log.WithFields(logrus.Fields{"seq": seq, "limit": limit}).Debug("load calls")
	return m, LoadCallsCmd(m.ctx, m.api, m.apiKey.Value(), limit, seq)
}

func (m AppModel) cycleLimit(_ string) (AppModel, tea.Cmd) {
	if err := m.state.SetLimit(m.state.NextLimit()); err != nil {
		m.log.WithError(err).Error("cycle limit")
		return m, nil
	}
	m.statusBar.SetLimit(m.state.Limit())
	m.record(ActivityInfo, dashboard.KindCalls, fmt.Sprintf("limit set to %d", m.state.Limit()))
	return m.loadCalls()
}

// filterChanged re-derives the visible rows immediately, then reloads the
// list so the filter applies to fresh data.
func (m AppModel) filterChanged(text string) (AppModel, tea.Cmd) {
	if m.filter.Value() != text {
		m.filter.SetValue(text)
	}
	m.state.SetFilterText(text)
	m.syncRows()
	return m.loadCalls()
}

// selectCall opens callID (or the highlighted row) on the Call Detail tab.
func (m AppModel) selectCall(callID string) (AppModel, tea.Cmd) {
	if callID == "" {
		callID = m.calls.SelectedCallID()
	}
	if callID == "" {
		return m, nil
	}
	m.callID.SetValue(callID)
	m.state.SetTab(dashboard.TabCallDetail)
	return m.loadCall("")
}

// loadCall fetches the detail for callID, or for the call id input when
// callID is empty. A blank id fails locally without a request.
func (m AppModel) loadCall(callID string) (AppModel, tea.Cmd) {
	m.state.ClearError()
	if callID != "" {
		m.callID.SetValue(callID)
	}
	id := strings.TrimSpace(m.callID.Value())
	if id == "" {
		m.state.SetError(ValidationMessage)
		m.record(ActivityError, dashboard.KindDetail, ValidationMessage)
		return m, nil
	}
	seq := m.seq.Next(dashboard.KindDetail)
	m.statusBar.SetFetchStatus(dashboard.KindDetail, FetchLoading)
	m.record(ActivityInfo, dashboard.KindDetail, "loading "+id)
	m.log.WithFields(logrus.Fields{"seq": seq, "call_id": id}).Debug("load call detail")
	return m, LoadDetailCmd(m.ctx, m.api, m.apiKey.Value(), id, seq)
}

func (m AppModel) showOverview(_ string) (AppModel, tea.Cmd) {
	m.state.SetTab(dashboard.TabOverview)
	return m, nil
}

func (m AppModel) showCallDetail(_ string) (AppModel, tea.Cmd) {
	m.state.SetTab(dashboard.TabCallDetail)
	return m, nil
}

func (m AppModel) nextTab(_ string) (AppModel, tea.Cmd) {
	m.state.SetTab(NextTab(m.state.ActiveTab()))
	return m, nil
}

func (m AppModel) quit(_ string) (AppModel, tea.Cmd) {
	return m, tea.Quit
}

// handleOverviewLoaded applies a refresh result. Only the newest refresh may
// touch state; a successful one chains into a calls reload.
func (m AppModel) handleOverviewLoaded(msg OverviewLoadedMsg) (AppModel, tea.Cmd) {
	if !m.seq.Current(dashboard.KindOverview, msg.Seq) {
		m.dropStale(dashboard.KindOverview, msg.Seq)
		return m, nil
	}
	if msg.Err != nil {
		m.fail(dashboard.KindOverview, msg.Err)
		return m, nil
	}
	m.state.ClearError()
	m.state.SetOverviewData(msg.Metrics, msg.Outcomes, msg.Sentiment)
	m.statusBar.SetFetchStatus(dashboard.KindOverview, FetchLoaded)
	m.statusBar.MarkRefreshed(time.Now())
	m.record(ActivitySuccess, dashboard.KindOverview, "overview loaded")
	return m.loadCalls()
}

func (m AppModel) handleCallsLoaded(msg CallsLoadedMsg) (AppModel, tea.Cmd) {
	if !m.seq.Current(dashboard.KindCalls, msg.Seq) {
		m.dropStale(dashboard.KindCalls, msg.Seq)
		return m, nil
	}
	if msg.Err != nil {
		m.fail(dashboard.KindCalls, msg.Err)
		return m, nil
	}
	m.state.ClearError()
	m.state.SetRows(msg.Rows)
	m.syncRows()
	m.statusBar.SetFetchStatus(dashboard.KindCalls, FetchLoaded)
	m.record(ActivitySuccess, dashboard.KindCalls, fmt.Sprintf("loaded %d calls (limit %d)", len(msg.Rows), msg.Limit))
	return m, nil
}

func (m AppModel) handleDetailLoaded(msg DetailLoadedMsg) (AppModel, tea.Cmd) {
	if !m.seq.Current(dashboard.KindDetail, msg.Seq) {
		m.dropStale(dashboard.KindDetail, msg.Seq)
		return m, nil
	}
	if msg.Err != nil {
		m.fail(dashboard.KindDetail, msg.Err)
		return m, nil
	}
	m.state.ClearError()
	d := msg.Detail
	m.state.SetDetail(&d)
	m.detail.ShowRaw(m.state.Detail())
	m.statusBar.SetFetchStatus(dashboard.KindDetail, FetchLoaded)
	m.record(ActivitySuccess, dashboard.KindDetail, "loaded "+d.CallID)
	return m, nil
}

// handleTick advances the spinner and schedules the next tick, faster while
// anything is loading.
func (m AppModel) handleTick(_ TickMsg) (AppModel, tea.Cmd) {
	m.statusBar.AdvanceSpinner()
	if m.statusBar.Busy() {
		return m, TickCmd(100 * time.Millisecond)
	}
	return m, TickCmd(time.Second)
}

// handleKeyMsg routes keys to the focused input, or to app-level bindings.
func (m AppModel) handleKeyMsg(msg tea.KeyMsg) (AppModel, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.Dispatch(IntentQuit, "")
	}
	if m.focus != FocusNone {
		return m.handleInputKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.Dispatch(IntentQuit, "")
	case key.Matches(msg, m.keys.Refresh):
		return m.Dispatch(IntentRefresh, "")
	case key.Matches(msg, m.keys.Limit):
		return m.Dispatch(IntentCycleLimit, "")
	case key.Matches(msg, m.keys.Filter):
		m.state.SetTab(dashboard.TabOverview)
		m.focusInput(FocusFilter)
		return m, nil
	case key.Matches(msg, m.keys.CallID):
		m.state.SetTab(dashboard.TabCallDetail)
		m.focusInput(FocusCallID)
		return m, nil
	case key.Matches(msg, m.keys.APIKey):
		m.focusInput(FocusAPIKey)
		return m, nil
	case key.Matches(msg, m.keys.Overview):
		return m.Dispatch(IntentShowOverview, "")
	case key.Matches(msg, m.keys.Detail):
		return m.Dispatch(IntentShowCallDetail, "")
	case key.Matches(msg, m.keys.NextTab):
		return m.Dispatch(IntentNextTab, "")
	case key.Matches(msg, m.keys.Select):
		if m.state.ActiveTab() == dashboard.TabOverview {
			return m.Dispatch(IntentSelectCall, m.calls.SelectedCallID())
		}
		return m.Dispatch(IntentLoadCall, "")
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	// Everything else scrolls the visible panel.
	if m.state.ActiveTab() == dashboard.TabOverview {
		m.calls = m.calls.Update(msg)
	} else {
		m.detail = m.detail.Update(msg)
	}
	return m, nil
}

// handleInputKey edits the focused input. Enter on the call id input loads
// the call; every edit of the filter input is a filter change.
func (m AppModel) handleInputKey(msg tea.KeyMsg) (AppModel, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.focusInput(FocusNone)
		return m, nil
	case tea.KeyEnter:
		focus := m.focus
		m.focusInput(FocusNone)
		if focus == FocusCallID {
			return m.Dispatch(IntentLoadCall, "")
		}
		return m, nil
	}

	switch m.focus {
	case FocusFilter:
		before := m.filter.Value()
		m.filter = m.filter.Update(msg)
		if after := m.filter.Value(); after != before {
			return m.Dispatch(IntentFilterChanged, after)
		}
	case FocusCallID:
		m.callID = m.callID.Update(msg)
	case FocusAPIKey:
		m.apiKey = m.apiKey.Update(msg)
	}
	return m, nil
}

// focusInput moves keyboard focus to target; FocusNone blurs every input.
func (m *AppModel) focusInput(target FocusTarget) {
	m.filter.Blur()
	m.callID.Blur()
	m.apiKey.Blur()
	switch target {
	case FocusFilter:
		m.filter.Focus()
	case FocusCallID:
		m.callID.Focus()
	case FocusAPIKey:
		m.apiKey.Focus()
	}
	m.focus = target
}

// syncRows pushes the store's derived rows into the table and status bar.
func (m *AppModel) syncRows() {
	m.calls.SetCalls(m.state.Rows())
	m.statusBar.SetRowCounts(len(m.state.Rows()), m.state.RawRowCount())
}

// fail shows err in the banner and marks kind failed. Existing data stays.
func (m *AppModel) fail(kind dashboard.Kind, err error) {
	m.state.SetError(err.Error())
	m.statusBar.SetFetchStatus(kind, FetchFailed)
	m.record(ActivityError, kind, err.Error())
	m.log.WithError(err).WithField("kind", kind.String()).Warn("fetch failed")
}

func (m *AppModel) dropStale(kind dashboard.Kind, seq uint64) {
	m.record(ActivityStale, kind, fmt.Sprintf("dropped stale result #%d", seq))
	m.log.WithFields(logrus.Fields{
		"kind":   kind.String(),
		"seq":    seq,
		"latest": m.seq.Latest(kind),
	}).Debug("dropped stale result")
}

func (m *AppModel) record(level ActivityLevel, kind dashboard.Kind, message string) {
	m.activity.Append(ActivityEntry{
		Time:    time.Now(),
		Level:   level,
		Source:  kind.String(),
		Message: message,
	})
}

// View implements tea.Model. Renders tabs, banner, the active panel, the
// activity log, status bar, and help.
func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	// Minimum terminal size guard to prevent layout overflow
	if m.width < 60 || m.height < 20 {
		return fmt.Sprintf("Terminal too small (%dx%d). Minimum: 60x20.", m.width, m.height)
	}

	header := lipgloss.JoinHorizontal(lipgloss.Top, TabsView(m.state.ActiveTab()), "  ", m.apiKey.View())
	errMsg, shown := m.state.Error()
	banner := ErrorBannerView(errMsg, shown, m.width)

	activityHeight := 6
	m.activity.SetSize(m.width, activityHeight)
	m.statusBar.SetWidth(m.width)

	used := 1 + activityHeight + 2 // header, activity, status bar, help
	if shown {
		used++
	}
	bodyHeight := max(m.height-used, 5)

	var body string
	switch m.state.ActiveTab() {
	case dashboard.TabCallDetail:
		m.detail.SetSize(m.width, bodyHeight)
		body = m.detail.View(m.callID.View(), m.state.Detail())
	default:
		m.overview.SetSize(m.width, bodyHeight)
		chartRows := 1
		if ov := m.state.Overview(); ov != nil {
			chartRows = max(len(ov.Outcomes), len(ov.Sentiment), 1)
		}
		// KPI row (4) + charts (rows + 3) + filter line + table title and header
		m.calls.SetSize(m.width, bodyHeight-4-(chartRows+3)-1-3)
		table := m.filter.View() + "\n" + m.calls.View()
		body = m.overview.View(m.state.Overview(), table)
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	if shown {
		b.WriteString(banner)
		b.WriteString("\n")
	}
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(m.activity.View())
	b.WriteString("\n")
	b.WriteString(m.statusBar.View())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}
