// ABOUTME: Tests for the top-level AppModel controller against a fake metrics API.
// ABOUTME: Covers refresh chaining, all-or-nothing failure, validation, stale-result dropping, keys, and view rendering.
package tui

import (
	"context"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/2389-research/calldeck/dashboard"
	"github.com/2389-research/calldeck/metricsapi"
)

// fakeAPI serves canned responses and records what was asked for. The
// overview trio is called from errgroup goroutines, hence the mutex.
type fakeAPI struct {
	mu sync.Mutex

	overview     metricsapi.OverviewMetrics
	outcomes     metricsapi.Distribution
	sentiment    metricsapi.Distribution
	overviewErr  error
	outcomesErr  error
	sentimentErr error

	calls    []metricsapi.CallSummary
	callsErr error

	detail    metricsapi.CallDetail
	detailErr error

	keys        []string
	callsLimits []int
	detailIDs   []string
}

func (f *fakeAPI) note(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
}

func (f *fakeAPI) Overview(_ context.Context, key string) (metricsapi.OverviewMetrics, error) {
	f.note(key)
	return f.overview, f.overviewErr
}

func (f *fakeAPI) Outcomes(_ context.Context, key string) (metricsapi.Distribution, error) {
	f.note(key)
	return f.outcomes, f.outcomesErr
}

func (f *fakeAPI) Sentiment(_ context.Context, key string) (metricsapi.Distribution, error) {
	f.note(key)
	return f.sentiment, f.sentimentErr
}

func (f *fakeAPI) Calls(_ context.Context, key string, limit int) ([]metricsapi.CallSummary, error) {
	f.note(key)
	f.mu.Lock()
	f.callsLimits = append(f.callsLimits, limit)
	f.mu.Unlock()
	return f.calls, f.callsErr
}

func (f *fakeAPI) Call(_ context.Context, key, callID string) (metricsapi.CallDetail, error) {
	f.note(key)
	f.mu.Lock()
	f.detailIDs = append(f.detailIDs, callID)
	f.mu.Unlock()
	if f.detailErr != nil {
		return metricsapi.CallDetail{}, f.detailErr
	}
	d := f.detail
	d.CallID = callID
	return d, nil
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		overview: metricsapi.OverviewMetrics{
			TotalCalls:     ptr(120),
			VerifiedRate:   ptr(0.82),
			AcceptanceRate: ptr(0.5),
			TransferRate:   ptr(0.1),
			AvgRounds:      ptr(2.3),
		},
		outcomes:  metricsapi.Distribution{{Label: "ACCEPTED_TRANSFERRED", Count: 60}, {Label: "DECLINED", Count: 60}},
		sentiment: metricsapi.Distribution{{Label: "Positive", Count: 80}, {Label: "Negative", Count: 40}},
		calls:     []metricsapi.CallSummary{{CallID: "A1"}, {CallID: "B2"}, {CallID: "a10"}},
		detail: metricsapi.CallDetail{
			LoadboardRate: ptr(1200.0),
			FinalOffer:    ptr(1350.0),
		},
	}
}

func testAppModel(api API) AppModel {
	m := NewAppModel(context.Background(), api, AppConfig{BaseURL: "http://api.test", APIKey: "demo-key"})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 140, Height: 50})
	return next.(AppModel)
}

// drive runs cmd and feeds each resulting message back through Update until
// no follow-up command remains.
func drive(t *testing.T, m AppModel, cmd tea.Cmd) AppModel {
	t.Helper()
	for i := 0; cmd != nil; i++ {
		if i > 10 {
			t.Fatal("command chain did not settle")
		}
		msg := cmd()
		next, nextCmd := m.Update(msg)
		m = next.(AppModel)
		cmd = nextCmd
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m AppModel, k tea.KeyMsg) (AppModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(k)
	return next.(AppModel), cmd
}

func TestNewAppModel(t *testing.T) {
	m := testAppModel(newFakeAPI())
	if m.State().ActiveTab() != dashboard.TabOverview {
		t.Errorf("initial tab = %v, want Overview", m.State().ActiveTab())
	}
	if m.State().Limit() != dashboard.DefaultLimit {
		t.Errorf("initial limit = %d, want %d", m.State().Limit(), dashboard.DefaultLimit)
	}
	if m.focus != FocusNone {
		t.Errorf("initial focus = %d, want FocusNone", m.focus)
	}
	if m.apiKey.Value() != "demo-key" {
		t.Errorf("api key = %q, want demo-key", m.apiKey.Value())
	}
}

func TestNewAppModelConfiguredLimit(t *testing.T) {
	m := NewAppModel(context.Background(), newFakeAPI(), AppConfig{Limit: 50})
	if m.State().Limit() != 50 {
		t.Errorf("limit = %d, want 50", m.State().Limit())
	}
	bad := NewAppModel(context.Background(), newFakeAPI(), AppConfig{Limit: 7})
	if bad.State().Limit() != dashboard.DefaultLimit {
		t.Errorf("invalid configured limit applied: %d", bad.State().Limit())
	}
}

func TestInitReturnsCommand(t *testing.T) {
	if testAppModel(newFakeAPI()).Init() == nil {
		t.Error("Init() returned nil")
	}
}

func TestRefreshLoadsOverviewThenCalls(t *testing.T) {
	api := newFakeAPI()
	m := drive(t, testAppModel(api), IntentCmd(IntentRefresh, ""))

	ov := m.State().Overview()
	if ov == nil {
		t.Fatal("overview not applied")
	}
	want := []string{"120", "82%", "50%", "10%", "2.3"}
	for i, kpi := range KPIValues(ov.Metrics) {
		if kpi.Value != want[i] {
			t.Errorf("KPI %s = %q, want %q", kpi.Label, kpi.Value, want[i])
		}
	}
	if len(api.callsLimits) != 1 || api.callsLimits[0] != dashboard.DefaultLimit {
		t.Errorf("calls fetched with %v, want [%d]", api.callsLimits, dashboard.DefaultLimit)
	}
	if len(m.State().Rows()) != 3 {
		t.Errorf("rows = %d, want 3", len(m.State().Rows()))
	}
	if _, shown := m.State().Error(); shown {
		t.Error("error banner shown after success")
	}
	if m.statusBar.FetchStatus(dashboard.KindOverview) != FetchLoaded {
		t.Errorf("overview status = %v", m.statusBar.FetchStatus(dashboard.KindOverview))
	}
}

func TestRefreshFailureIsAllOrNothing(t *testing.T) {
	api := newFakeAPI()
	api.sentimentErr = &metricsapi.HTTPError{StatusCode: 401, Status: "Unauthorized", Body: `{"detail":"Invalid or missing X-API-Key"}`}
	m := drive(t, testAppModel(api), IntentCmd(IntentRefresh, ""))

	if m.State().Overview() != nil {
		t.Error("partial overview applied after a failed refresh")
	}
	msg, shown := m.State().Error()
	if !shown || !strings.Contains(msg, "401") {
		t.Errorf("banner = %q (shown=%v), want 401 error", msg, shown)
	}
	if len(api.callsLimits) != 0 {
		t.Errorf("calls fetched after failed refresh: %v", api.callsLimits)
	}
}

func TestRefreshFailureKeepsPreviousOverview(t *testing.T) {
	api := newFakeAPI()
	m := drive(t, testAppModel(api), IntentCmd(IntentRefresh, ""))

	api.overview = metricsapi.OverviewMetrics{TotalCalls: ptr(999)}
	api.outcomesErr = &metricsapi.HTTPError{StatusCode: 500, Status: "Internal Server Error"}
	m = drive(t, m, IntentCmd(IntentRefresh, ""))

	if got := *m.State().Overview().Metrics.TotalCalls; got != 120 {
		t.Errorf("total calls = %d, want the previous 120", got)
	}
}

func TestCallsFailureLeavesRowsUnchanged(t *testing.T) {
	api := newFakeAPI()
	m := drive(t, testAppModel(api), IntentCmd(IntentRefresh, ""))

	api.calls = []metricsapi.CallSummary{{CallID: "Z9"}}
	api.callsErr = &metricsapi.HTTPError{StatusCode: 500, Status: "Internal Server Error"}
	m = drive(t, m, IntentCmd(IntentCycleLimit, ""))

	if len(m.State().Rows()) != 3 || m.State().Rows()[0].CallID != "A1" {
		t.Errorf("rows changed after failed load: %+v", m.State().Rows())
	}
	if _, shown := m.State().Error(); !shown {
		t.Error("expected error banner")
	}
}

func TestSuccessClearsPreviousError(t *testing.T) {
	api := newFakeAPI()
	m := testAppModel(api)
	m.State().SetError("old failure")
	m = drive(t, m, IntentCmd(IntentLoadCall, "A1"))
	if _, shown := m.State().Error(); shown {
		t.Error("successful load left the old error showing")
	}
}

func TestRefreshClearsBannerBeforeFetching(t *testing.T) {
	m := testAppModel(newFakeAPI())
	m.State().SetError("old failure")

	m, cmd := m.Dispatch(IntentRefresh, "")
	if cmd == nil {
		t.Fatal("refresh returned no command")
	}
	if _, shown := m.State().Error(); shown {
		t.Error("banner still shown while the refresh is in flight")
	}
}

func TestLoadCallEmptyIDMakesNoRequest(t *testing.T) {
	api := newFakeAPI()
	m := testAppModel(api)
	m.callID.SetValue("   ")

	m, cmd := m.Dispatch(IntentLoadCall, "")
	if cmd != nil {
		t.Error("blank call_id produced a command")
	}
	if len(api.detailIDs) != 0 {
		t.Errorf("detail requested: %v", api.detailIDs)
	}
	msg, shown := m.State().Error()
	if !shown || msg != ValidationMessage {
		t.Errorf("banner = %q (shown=%v), want %q", msg, shown, ValidationMessage)
	}
}

func TestLoadCallTrimsID(t *testing.T) {
	api := newFakeAPI()
	m := testAppModel(api)
	m.callID.SetValue("  A1 ")
	drive(t, m, IntentCmd(IntentLoadCall, ""))
	if len(api.detailIDs) != 1 || api.detailIDs[0] != "A1" {
		t.Errorf("detail requested for %v, want [A1]", api.detailIDs)
	}
}

func TestSelectCallSwitchesTabAndLoadsDetail(t *testing.T) {
	api := newFakeAPI()
	m := drive(t, testAppModel(api), IntentCmd(IntentRefresh, ""))
	m = drive(t, m, IntentCmd(IntentSelectCall, "B2"))

	if m.State().ActiveTab() != dashboard.TabCallDetail {
		t.Errorf("tab = %v, want Call Detail", m.State().ActiveTab())
	}
	if m.callID.Value() != "B2" {
		t.Errorf("call id input = %q, want B2", m.callID.Value())
	}
	d := m.State().Detail()
	if d == nil || d.CallID != "B2" {
		t.Fatalf("detail = %+v, want B2", d)
	}
	if got := NewDetailCard(*d).Field("Rate delta"); got != "+$150" {
		t.Errorf("rate delta = %q, want +$150", got)
	}
	if view := m.View(); !strings.Contains(view, "+$150") {
		t.Errorf("detail view missing rate delta:\n%s", view)
	}
}

func TestStaleDetailResultIsDropped(t *testing.T) {
	api := newFakeAPI()
	m := testAppModel(api)

	m, first := m.Dispatch(IntentLoadCall, "A1")
	m, second := m.Dispatch(IntentLoadCall, "B2")

	// The newer request completes first; the older one arrives late.
	newer := second()
	older := first()
	next, _ := m.Update(newer)
	m = next.(AppModel)
	next, _ = m.Update(older)
	m = next.(AppModel)

	if got := m.State().Detail().CallID; got != "B2" {
		t.Errorf("detail = %q, want B2 (late A1 result must be dropped)", got)
	}
	last, _ := m.activity.Last()
	if last.Level != ActivityStale {
		t.Errorf("last activity = %+v, want a stale entry", last)
	}
}

func TestStaleCallsResultIsDropped(t *testing.T) {
	api := newFakeAPI()
	m := testAppModel(api)

	m, _ = m.Dispatch(IntentCycleLimit, "")
	older := CallsLoadedMsg{Seq: m.seq.Latest(dashboard.KindCalls), Rows: []metricsapi.CallSummary{{CallID: "OLD"}}}
	m, _ = m.Dispatch(IntentCycleLimit, "")
	newer := CallsLoadedMsg{Seq: m.seq.Latest(dashboard.KindCalls), Rows: []metricsapi.CallSummary{{CallID: "NEW"}}}

	next, _ := m.Update(newer)
	m = next.(AppModel)
	next, _ = m.Update(older)
	m = next.(AppModel)

	if rows := m.State().Rows(); len(rows) != 1 || rows[0].CallID != "NEW" {
		t.Errorf("rows = %+v, want only NEW", rows)
	}
}

func TestStaleOverviewResultIsDropped(t *testing.T) {
	api := newFakeAPI()
	m := testAppModel(api)

	m, _ = m.Dispatch(IntentRefresh, "")
	older := OverviewLoadedMsg{
		Seq:     m.seq.Latest(dashboard.KindOverview),
		Metrics: metricsapi.OverviewMetrics{TotalCalls: ptr(1)},
	}
	m, _ = m.Dispatch(IntentRefresh, "")
	newer := OverviewLoadedMsg{
		Seq:     m.seq.Latest(dashboard.KindOverview),
		Metrics: metricsapi.OverviewMetrics{TotalCalls: ptr(42)},
	}

	next, _ := m.Update(newer)
	m = next.(AppModel)
	next, _ = m.Update(older)
	m = next.(AppModel)

	ov := m.State().Overview()
	if ov == nil || ov.Metrics.TotalCalls == nil || *ov.Metrics.TotalCalls != 42 {
		t.Fatalf("overview = %+v, want total calls 42", ov)
	}
	last, _ := m.activity.Last()
	if last.Level != ActivityStale {
		t.Errorf("last activity = %+v, want a stale entry", last)
	}
}

func TestFilterChangedRederivesThenReloads(t *testing.T) {
	api := newFakeAPI()
	m := drive(t, testAppModel(api), IntentCmd(IntentRefresh, ""))

	m, cmd := m.Dispatch(IntentFilterChanged, "a1")
	rows := m.State().Rows()
	if len(rows) != 2 || rows[0].CallID != "A1" || rows[1].CallID != "a10" {
		t.Errorf("filtered rows = %+v, want A1, a10", rows)
	}
	if m.calls.Len() != 2 {
		t.Errorf("table rows = %d, want 2", m.calls.Len())
	}
	if cmd == nil {
		t.Fatal("filter change did not reload calls")
	}
	m = drive(t, m, cmd)
	if len(api.callsLimits) != 2 {
		t.Errorf("calls fetched %d times, want 2", len(api.callsLimits))
	}
	if len(m.State().Rows()) != 2 {
		t.Errorf("filter not reapplied to fresh rows: %+v", m.State().Rows())
	}
}

func TestCycleLimitRefetches(t *testing.T) {
	api := newFakeAPI()
	m := drive(t, testAppModel(api), IntentCmd(IntentCycleLimit, ""))
	if m.State().Limit() != 50 {
		t.Errorf("limit = %d, want 50", m.State().Limit())
	}
	if len(api.callsLimits) != 1 || api.callsLimits[0] != 50 {
		t.Errorf("calls fetched with %v, want [50]", api.callsLimits)
	}
}

func TestAPIKeyReadAtRequestTime(t *testing.T) {
	api := newFakeAPI()
	m := testAppModel(api)
	m.apiKey.SetValue("rotated-key")
	drive(t, m, IntentCmd(IntentRefresh, ""))
	for _, k := range api.keys {
		if k != "rotated-key" {
			t.Errorf("request used key %q, want rotated-key", k)
		}
	}
}

func TestTableKeepsVimKeys(t *testing.T) {
	m := drive(t, testAppModel(newFakeAPI()), IntentCmd(IntentRefresh, ""))
	m, _ = press(t, m, runes("j"))
	if got := m.calls.SelectedCallID(); got != "B2" {
		t.Fatalf("after j: selected %q, want B2", got)
	}
	m, _ = press(t, m, runes("k"))
	if got := m.calls.SelectedCallID(); got != "A1" {
		t.Errorf("after k: selected %q, want A1", got)
	}
	if m.focus != FocusNone {
		t.Errorf("k changed focus to %d", m.focus)
	}

	m, _ = press(t, m, runes("K"))
	if m.focus != FocusAPIKey {
		t.Errorf("after K: focus = %d, want FocusAPIKey", m.focus)
	}
}

func TestDispatchUnknownIntent(t *testing.T) {
	m := testAppModel(newFakeAPI())
	if _, cmd := m.Dispatch(Intent(99), ""); cmd != nil {
		t.Error("unknown intent produced a command")
	}
}

func TestTabKeys(t *testing.T) {
	m := testAppModel(newFakeAPI())
	m, _ = press(t, m, runes("2"))
	if m.State().ActiveTab() != dashboard.TabCallDetail {
		t.Errorf("after 2: tab = %v", m.State().ActiveTab())
	}
	m, _ = press(t, m, runes("1"))
	if m.State().ActiveTab() != dashboard.TabOverview {
		t.Errorf("after 1: tab = %v", m.State().ActiveTab())
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.State().ActiveTab() != dashboard.TabCallDetail {
		t.Errorf("after tab: tab = %v", m.State().ActiveTab())
	}
}

func TestCallIDInputEnterLoads(t *testing.T) {
	api := newFakeAPI()
	m := testAppModel(api)

	m, _ = press(t, m, runes("i"))
	if m.focus != FocusCallID || m.State().ActiveTab() != dashboard.TabCallDetail {
		t.Fatalf("focus = %d tab = %v", m.focus, m.State().ActiveTab())
	}
	m, _ = press(t, m, runes("A1"))
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.focus != FocusNone {
		t.Error("enter did not leave the input")
	}
	m = drive(t, m, cmd)
	if len(api.detailIDs) != 1 || api.detailIDs[0] != "A1" {
		t.Errorf("detail requested for %v, want [A1]", api.detailIDs)
	}
}

func TestFilterInputTypingDispatches(t *testing.T) {
	api := newFakeAPI()
	m := drive(t, testAppModel(api), IntentCmd(IntentRefresh, ""))

	m, _ = press(t, m, runes("/"))
	if m.focus != FocusFilter {
		t.Fatalf("focus = %d, want FocusFilter", m.focus)
	}
	m, cmd := press(t, m, runes("b"))
	if m.State().FilterText() != "b" {
		t.Errorf("filter text = %q, want b", m.State().FilterText())
	}
	if cmd == nil {
		t.Error("typing in the filter did not reload calls")
	}
	// Keys typed into an input must not trigger app bindings.
	m, _ = press(t, m, runes("q"))
	if m.State().FilterText() != "bq" {
		t.Errorf("filter text = %q, want bq", m.State().FilterText())
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.focus != FocusNone {
		t.Error("esc did not leave the input")
	}
}

func TestEnterOnTableOpensSelectedCall(t *testing.T) {
	api := newFakeAPI()
	m := drive(t, testAppModel(api), IntentCmd(IntentRefresh, ""))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = drive(t, m, cmd)
	if d := m.State().Detail(); d == nil || d.CallID != "B2" {
		t.Errorf("detail = %+v, want B2", d)
	}
}

func TestQuitKeys(t *testing.T) {
	m := testAppModel(newFakeAPI())
	for _, k := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}} {
		_, cmd := press(t, m, k)
		if cmd == nil {
			t.Fatalf("%s returned nil cmd", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s did not quit", k)
		}
	}
}

func TestTickReschedules(t *testing.T) {
	m := testAppModel(newFakeAPI())
	next, cmd := m.Update(TickMsg{})
	if cmd == nil {
		t.Error("tick did not reschedule")
	}
	if next.(AppModel).statusBar.spinnerIndex != 1 {
		t.Error("tick did not advance the spinner")
	}
}

func TestViewStates(t *testing.T) {
	m := NewAppModel(context.Background(), newFakeAPI(), AppConfig{})
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View() before size = %q", got)
	}
	next, _ := m.Update(tea.WindowSizeMsg{Width: 30, Height: 10})
	if got := next.(AppModel).View(); !strings.Contains(got, "too small") {
		t.Errorf("small View() = %q", got)
	}

	full := drive(t, testAppModel(newFakeAPI()), IntentCmd(IntentRefresh, ""))
	view := full.View()
	for _, want := range []string{"Overview", "Total calls", "120", "Outcomes", "Recent calls", "A1", "ACTIVITY", "Limit: 20"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	full.State().SetError("boom")
	if !strings.Contains(full.View(), "Error: boom") {
		t.Error("view missing error banner")
	}

	full = drive(t, full, IntentCmd(IntentSelectCall, "A1"))
	if !strings.Contains(full.View(), "CALL DETAIL") {
		t.Error("detail tab view missing title")
	}
}
