// ABOUTME: Single-owner view state for the dashboard: active tab, limit, filter text, fetched data, last error.
// ABOUTME: All mutation goes through named store operations; the filtered rows are always derived, never set directly.
package dashboard

import (
	"errors"
	"slices"
	"strings"

	"github.com/2389-research/calldeck/metricsapi"
)

// Tab identifies one of the two mutually exclusive panels.
type Tab int

const (
	TabOverview Tab = iota
	TabCallDetail
)

// String returns the tab's display name.
func (t Tab) String() string {
	switch t {
	case TabOverview:
		return "Overview"
	case TabCallDetail:
		return "Call Detail"
	default:
		return "Unknown"
	}
}

// DefaultLimit is the initial size of the recent-calls fetch.
const DefaultLimit = 20

// LimitChoices are the selectable recent-calls sizes, in cycle order.
var LimitChoices = []int{10, 20, 50, 100}

// ErrInvalidLimit is returned by SetLimit for values outside LimitChoices.
var ErrInvalidLimit = errors.New("limit must be one of the offered choices")

// Overview groups the three payloads applied together by a refresh.
type Overview struct {
	Metrics   metricsapi.OverviewMetrics
	Outcomes  metricsapi.Distribution
	Sentiment metricsapi.Distribution
}

// State holds everything the renderers read. The zero value is not ready for
// use; call NewState.
type State struct {
	activeTab  Tab
	limit      int
	filterText string

	rawRows []metricsapi.CallSummary
	rows    []metricsapi.CallSummary

	overview *Overview
	detail   *metricsapi.CallDetail

	lastError string
	hasError  bool

	revision uint64
}

// NewState returns the initial state: Overview tab, default limit, nothing loaded.
func NewState() *State {
	return &State{
		activeTab: TabOverview,
		limit:     DefaultLimit,
	}
}

func (s *State) touch() {
	s.revision++
}

// Revision increases on every mutation; renderers can use it to skip work.
func (s *State) Revision() uint64 { return s.revision }

// ActiveTab returns the visible panel.
func (s *State) ActiveTab() Tab { return s.activeTab }

// Limit returns the recent-calls fetch size.
func (s *State) Limit() int { return s.limit }

// FilterText returns the current call_id filter.
func (s *State) FilterText() string { return s.filterText }

// Rows returns the filtered call list in fetch order.
func (s *State) Rows() []metricsapi.CallSummary { return s.rows }

// RawRowCount returns the size of the last fetched list before filtering.
func (s *State) RawRowCount() int { return len(s.rawRows) }

// Overview returns the loaded overview data, or nil before the first success.
func (s *State) Overview() *Overview { return s.overview }

// Detail returns the loaded call detail, or nil.
func (s *State) Detail() *metricsapi.CallDetail { return s.detail }

// Error returns the banner message and whether one is showing.
func (s *State) Error() (string, bool) { return s.lastError, s.hasError }

// SetTab switches the visible panel. Setting the current tab is a no-op
// apart from the revision bump.
func (s *State) SetTab(tab Tab) {
	s.activeTab = tab
	s.touch()
}

// SetLimit changes the recent-calls fetch size.
func (s *State) SetLimit(limit int) error {
	if !slices.Contains(LimitChoices, limit) {
		return ErrInvalidLimit
	}
	s.limit = limit
	s.touch()
	return nil
}

// NextLimit returns the choice after the current limit, wrapping around.
func (s *State) NextLimit() int {
	i := slices.Index(LimitChoices, s.limit)
	return LimitChoices[(i+1)%len(LimitChoices)]
}

// SetOverviewData replaces all three overview payloads at once.
func (s *State) SetOverviewData(metrics metricsapi.OverviewMetrics, outcomes, sentiment metricsapi.Distribution) {
	s.overview = &Overview{
		Metrics:   metrics,
		Outcomes:  outcomes,
		Sentiment: sentiment,
	}
	s.touch()
}

// SetRows stores a freshly fetched list and derives the visible rows from
// the current filter text.
func (s *State) SetRows(raw []metricsapi.CallSummary) {
	s.rawRows = raw
	s.rows = FilterRows(raw, s.filterText)
	s.touch()
}

// SetFilterText updates the filter and re-derives rows from the last fetched
// list without any network access.
func (s *State) SetFilterText(text string) {
	s.filterText = text
	s.rows = FilterRows(s.rawRows, text)
	s.touch()
}

// SetDetail replaces the loaded call detail; nil clears it.
func (s *State) SetDetail(detail *metricsapi.CallDetail) {
	s.detail = detail
	s.touch()
}

// SetError shows msg in the banner, replacing any previous message.
func (s *State) SetError(msg string) {
	s.lastError = msg
	s.hasError = true
	s.touch()
}

// ClearError hides the banner.
func (s *State) ClearError() {
	s.lastError = ""
	s.hasError = false
	s.touch()
}

// FilterRows keeps rows whose call_id contains q, case-insensitively. The
// query is trimmed; an empty query returns rows unchanged. Order is preserved.
func FilterRows(rows []metricsapi.CallSummary, q string) []metricsapi.CallSummary {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return rows
	}
	out := make([]metricsapi.CallSummary, 0, len(rows))
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.CallID), q) {
			out = append(out, r)
		}
	}
	return out
}
