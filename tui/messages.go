// ABOUTME: Bubble Tea message types used in the dashboard message loop.
// ABOUTME: Fetch completions carry the sequence ticket they were issued with so stale results can be dropped.
package tui

import (
	"time"

	"github.com/2389-research/calldeck/metricsapi"
)

// OverviewLoadedMsg carries the result of the concurrent overview/outcomes/sentiment
// fetch. Err is set when any of the three requests failed; the payload fields
// are then zero.
type OverviewLoadedMsg struct {
	Seq       uint64
	Metrics   metricsapi.OverviewMetrics
	Outcomes  metricsapi.Distribution
	Sentiment metricsapi.Distribution
	Err       error
}

// CallsLoadedMsg carries the recent-calls list fetched with Limit.
type CallsLoadedMsg struct {
	Seq   uint64
	Limit int
	Rows  []metricsapi.CallSummary
	Err   error
}

// DetailLoadedMsg carries the detail record for CallID.
type DetailLoadedMsg struct {
	Seq    uint64
	CallID string
	Detail metricsapi.CallDetail
	Err    error
}

// IntentMsg asks the controller to perform a user-level action. Arg carries
// the intent's text payload (filter text, call id), if any.
type IntentMsg struct {
	Intent Intent
	Arg    string
}

// TickMsg is sent periodically to update timers and spinners.
type TickMsg struct {
	Time time.Time
}
