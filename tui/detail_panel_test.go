// ABOUTME: Tests for the call detail card formatting and the detail panel view.
package tui

import (
	"strings"
	"testing"

	"github.com/2389-research/calldeck/format"
	"github.com/2389-research/calldeck/metricsapi"
)

func TestNewDetailCardRateDelta(t *testing.T) {
	card := NewDetailCard(metricsapi.CallDetail{
		CallID:        "A1",
		LoadboardRate: ptr(1200.0),
		FinalOffer:    ptr(1350.0),
	})
	if got := card.Field("Rate delta"); got != "+$150" {
		t.Errorf("Rate delta = %q, want +$150", got)
	}
	if got := card.Field("Loadboard rate"); got != "$1,200" {
		t.Errorf("Loadboard rate = %q, want $1,200", got)
	}
}

func TestNewDetailCardUnknownDelta(t *testing.T) {
	card := NewDetailCard(metricsapi.CallDetail{CallID: "A1", FinalOffer: ptr(900.0)})
	if got := card.Field("Rate delta"); got != format.Unknown {
		t.Errorf("Rate delta = %q, want placeholder", got)
	}
	if card.Delta != nil {
		t.Errorf("Delta = %v, want nil", *card.Delta)
	}
}

func TestNewDetailCardCoversEveryAttribute(t *testing.T) {
	card := NewDetailCard(metricsapi.CallDetail{CallID: "A1"})
	for _, label := range []string{
		"Call ID", "Verified", "Ended", "Outcome", "Load ID", "Loadboard rate",
		"Final offer", "Last offer", "Rate delta", "Agreed", "Rounds",
		"Sentiment", "Transfer to rep", "Summary",
	} {
		if card.Field(label) == "" {
			t.Errorf("card missing field %q", label)
		}
	}
}

func TestNewDetailCardDuration(t *testing.T) {
	card := NewDetailCard(metricsapi.CallDetail{StartedAt: ptr(100.0), EndedAt: ptr(165.0)})
	if got := card.Field("Duration"); got != "1m 05s" {
		t.Errorf("Duration = %q, want 1m 05s", got)
	}
}

func TestNewDetailCardRawJSON(t *testing.T) {
	card := NewDetailCard(metricsapi.CallDetail{
		CallState: []byte(`{"status":"ended"}`),
		Extra:     []byte(`{"carrier_mc":"MC-1"}`),
	})
	for _, want := range []string{`"call_state"`, `"status": "ended"`, `"carrier_mc": "MC-1"`} {
		if !strings.Contains(card.RawJSON, want) {
			t.Errorf("RawJSON missing %s:\n%s", want, card.RawJSON)
		}
	}
}

func TestDetailPanelViewEmpty(t *testing.T) {
	m := NewDetailPanelModel()
	m.SetSize(80, 30)
	view := m.View("Call ID > ", nil)
	if !strings.Contains(view, "No call loaded") {
		t.Errorf("empty panel view = %q", view)
	}
}

func TestDetailPanelRendersGivenDetail(t *testing.T) {
	m := NewDetailPanelModel()
	m.SetSize(100, 40)
	d := metricsapi.CallDetail{CallID: "A1", Outcome: ptr("DECLINED"), CallState: []byte(`{"status":"ended"}`)}
	m.ShowRaw(&d)

	view := m.View("", &d)
	for _, want := range []string{"DECLINED", `"status"`} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %s:\n%s", want, view)
		}
	}

	m.ShowRaw(nil)
	if view := m.View("", nil); !strings.Contains(view, "No call loaded") {
		t.Errorf("nil detail view = %q", view)
	}
}
