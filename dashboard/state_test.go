// ABOUTME: Tests for the dashboard view state store, filter derivation, and request sequencer.
package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389-research/calldeck/metricsapi"
)

func rows(ids ...string) []metricsapi.CallSummary {
	out := make([]metricsapi.CallSummary, len(ids))
	for i, id := range ids {
		out[i] = metricsapi.CallSummary{CallID: id}
	}
	return out
}

func ids(rs []metricsapi.CallSummary) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.CallID
	}
	return out
}

func TestNewStateDefaults(t *testing.T) {
	s := NewState()
	assert.Equal(t, TabOverview, s.ActiveTab())
	assert.Equal(t, DefaultLimit, s.Limit())
	assert.Nil(t, s.Overview())
	assert.Nil(t, s.Detail())
	_, shown := s.Error()
	assert.False(t, shown)
}

func TestFilterRowsCaseInsensitive(t *testing.T) {
	got := FilterRows(rows("A1", "B2"), "a1")
	assert.Equal(t, []string{"A1"}, ids(got))
}

func TestFilterRowsEmptyQueryReturnsInput(t *testing.T) {
	in := rows("C3", "A1", "B2")
	assert.Equal(t, []string{"C3", "A1", "B2"}, ids(FilterRows(in, "")))
	assert.Equal(t, []string{"C3", "A1", "B2"}, ids(FilterRows(in, "   ")))
}

func TestFilterRowsIdempotent(t *testing.T) {
	in := rows("call-a1", "CALL-A2", "b1", "xa1y", "A")
	for _, q := range []string{"a", "A1", "call", "zz", ""} {
		once := FilterRows(in, q)
		twice := FilterRows(once, q)
		assert.Equal(t, ids(once), ids(twice), "query %q", q)
	}
}

func TestFilterRowsMatchesOnlyCallID(t *testing.T) {
	outcome := "A1-outcome"
	in := []metricsapi.CallSummary{{CallID: "Z9", Outcome: &outcome}}
	assert.Empty(t, FilterRows(in, "a1"))
}

func TestSetFilterTextRederivesWithoutFetch(t *testing.T) {
	s := NewState()
	s.SetRows(rows("A1", "B2", "a10"))
	assert.Len(t, s.Rows(), 3)

	s.SetFilterText("A1")
	assert.Equal(t, []string{"A1", "a10"}, ids(s.Rows()))
	assert.Equal(t, 3, s.RawRowCount())

	s.SetFilterText("")
	assert.Equal(t, []string{"A1", "B2", "a10"}, ids(s.Rows()))
}

func TestSetRowsAppliesCurrentFilter(t *testing.T) {
	s := NewState()
	s.SetFilterText("b")
	s.SetRows(rows("A1", "B2"))
	assert.Equal(t, []string{"B2"}, ids(s.Rows()))
}

func TestSetLimit(t *testing.T) {
	s := NewState()
	require.NoError(t, s.SetLimit(50))
	assert.Equal(t, 50, s.Limit())
	assert.ErrorIs(t, s.SetLimit(7), ErrInvalidLimit)
	assert.Equal(t, 50, s.Limit())
}

func TestNextLimitWraps(t *testing.T) {
	s := NewState()
	require.NoError(t, s.SetLimit(100))
	assert.Equal(t, 10, s.NextLimit())
	require.NoError(t, s.SetLimit(20))
	assert.Equal(t, 50, s.NextLimit())
}

func TestErrorReplaceAndClear(t *testing.T) {
	s := NewState()
	s.SetError("first")
	s.SetError("second")
	msg, shown := s.Error()
	assert.True(t, shown)
	assert.Equal(t, "second", msg)

	s.ClearError()
	msg, shown = s.Error()
	assert.False(t, shown)
	assert.Empty(t, msg)
}

func TestSetOverviewDataReplacesWholesale(t *testing.T) {
	s := NewState()
	total := 5
	s.SetOverviewData(metricsapi.OverviewMetrics{TotalCalls: &total}, metricsapi.Distribution{{Label: "A", Count: 1}}, nil)
	require.NotNil(t, s.Overview())

	s.SetOverviewData(metricsapi.OverviewMetrics{}, nil, metricsapi.Distribution{{Label: "Positive", Count: 2}})
	assert.Nil(t, s.Overview().Metrics.TotalCalls)
	assert.Empty(t, s.Overview().Outcomes)
	assert.Equal(t, []string{"Positive"}, s.Overview().Sentiment.Labels())
}

func TestSetTabAndDetail(t *testing.T) {
	s := NewState()
	before := s.Revision()
	s.SetTab(TabCallDetail)
	s.SetTab(TabCallDetail)
	assert.Equal(t, TabCallDetail, s.ActiveTab())
	assert.Greater(t, s.Revision(), before)

	s.SetDetail(&metricsapi.CallDetail{CallID: "A1"})
	assert.Equal(t, "A1", s.Detail().CallID)
	s.SetDetail(nil)
	assert.Nil(t, s.Detail())

	assert.Equal(t, "Overview", TabOverview.String())
	assert.Equal(t, "Call Detail", TabCallDetail.String())
}

func TestSequencer(t *testing.T) {
	seq := NewSequencer()
	assert.False(t, seq.Current(KindCalls, 0))

	first := seq.Next(KindCalls)
	second := seq.Next(KindCalls)
	overview := seq.Next(KindOverview)

	assert.False(t, seq.Current(KindCalls, first))
	assert.True(t, seq.Current(KindCalls, second))
	assert.True(t, seq.Current(KindOverview, overview))
	assert.Equal(t, uint64(2), seq.Latest(KindCalls))
	assert.Equal(t, uint64(0), seq.Latest(KindDetail))
	assert.Equal(t, "calls", KindCalls.String())
}
