// ABOUTME: Bridge connecting the metrics API client to the Bubble Tea message loop.
// ABOUTME: Provides tea.Cmd factories for the overview refresh, recent-calls load, call detail load, and ticks.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/2389-research/calldeck/metricsapi"
)

// API is the subset of the metrics client the dashboard needs. The apiKey
// argument is read from the key input at the moment each request is issued.
type API interface {
	Overview(ctx context.Context, apiKey string) (metricsapi.OverviewMetrics, error)
	Outcomes(ctx context.Context, apiKey string) (metricsapi.Distribution, error)
	Sentiment(ctx context.Context, apiKey string) (metricsapi.Distribution, error)
	Calls(ctx context.Context, apiKey string, limit int) ([]metricsapi.CallSummary, error)
	Call(ctx context.Context, apiKey, callID string) (metricsapi.CallDetail, error)
}

var _ API = (*metricsapi.Client)(nil)

// RefreshOverviewCmd returns a tea.Cmd that fetches the overview KPIs and both
// distributions concurrently. The result is all-or-nothing: the first failure
// cancels the other requests and is reported alone.
func RefreshOverviewCmd(ctx context.Context, api API, apiKey string, seq uint64) tea.Cmd {
	return func() tea.Msg {
		var (
			metrics   metricsapi.OverviewMetrics
			outcomes  metricsapi.Distribution
			sentiment metricsapi.Distribution
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			metrics, err = api.Overview(gctx, apiKey)
			return err
		})
		g.Go(func() error {
			var err error
			outcomes, err = api.Outcomes(gctx, apiKey)
			return err
		})
		g.Go(func() error {
			var err error
			sentiment, err = api.Sentiment(gctx, apiKey)
			return err
		})
		if err := g.Wait(); err != nil {
			return OverviewLoadedMsg{Seq: seq, Err: err}
		}
		return OverviewLoadedMsg{
			Seq:       seq,
			Metrics:   metrics,
			Outcomes:  outcomes,
			Sentiment: sentiment,
		}
	}
}

// LoadCallsCmd returns a tea.Cmd that fetches the most recent limit calls.
func LoadCallsCmd(ctx context.Context, api API, apiKey string, limit int, seq uint64) tea.Cmd {
	return func() tea.Msg {
		rows, err := api.Calls(ctx, apiKey, limit)
		return CallsLoadedMsg{Seq: seq, Limit: limit, Rows: rows, Err: err}
	}
}

// LoadDetailCmd returns a tea.Cmd that fetches the detail record for callID.
func LoadDetailCmd(ctx context.Context, api API, apiKey, callID string, seq uint64) tea.Cmd {
	return func() tea.Msg {
		detail, err := api.Call(ctx, apiKey, callID)
		return DetailLoadedMsg{Seq: seq, CallID: callID, Detail: detail, Err: err}
	}
}

// IntentCmd returns a tea.Cmd that feeds an intent back into the loop.
func IntentCmd(intent Intent, arg string) tea.Cmd {
	return func() tea.Msg {
		return IntentMsg{Intent: intent, Arg: arg}
	}
}

// TickCmd returns a tea.Cmd that sends a TickMsg after the given interval.
// Used for spinner animation and the refresh-age display.
func TickCmd(interval time.Duration) tea.Cmd {
	return func() tea.Msg {
		time.Sleep(interval)
		return TickMsg{Time: time.Now()}
	}
}
