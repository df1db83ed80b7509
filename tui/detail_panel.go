// ABOUTME: Bubble Tea sub-model for the Call Detail tab: labeled fields, computed rate delta, and raw JSON.
// ABOUTME: The raw diagnostic JSON lives in a scrollable bubbles viewport below the field card.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/2389-research/calldeck/format"
	"github.com/2389-research/calldeck/metricsapi"
)

// DetailField is one labeled value on the detail card.
type DetailField struct {
	Label string
	Value string
}

// DetailCard is the formatted projection of a CallDetail.
type DetailCard struct {
	CallID  string
	Fields  []DetailField
	Delta   *float64
	RawJSON string
}

// NewDetailCard formats every attribute of d plus the computed rate delta.
func NewDetailCard(d metricsapi.CallDetail) DetailCard {
	delta := d.RateDelta()
	return DetailCard{
		CallID: d.CallID,
		Delta:  delta,
		Fields: []DetailField{
			{"Call ID", d.CallID},
			{"Verified", format.Bool(d.Verified)},
			{"Started", format.Timestamp(d.StartedAt)},
			{"Ended", format.Timestamp(d.EndedAt)},
			{"Duration", format.Duration(d.CallDuration())},
			{"Outcome", format.Text(d.Outcome)},
			{"Load ID", format.Text(d.LoadID)},
			{"Loadboard rate", format.Money(d.LoadboardRate)},
			{"First offer", format.Money(d.CarrierFirstOffer)},
			{"Last offer", format.Money(d.CarrierLastOffer)},
			{"Final offer", format.Money(d.FinalOffer)},
			{"Rate delta", format.SignedMoney(delta)},
			{"Agreed", format.Bool(d.Agreed)},
			{"Rounds", format.Int(d.Rounds)},
			{"Sentiment", format.Text(d.Sentiment)},
			{"Transfer to rep", format.Bool(d.TransferToRep)},
			{"Summary", format.Text(d.Summary)},
		},
		RawJSON: metricsapi.PrettyJSON(d.Diagnostics()),
	}
}

// Field returns the value for label, or "" when the card has no such field.
func (c DetailCard) Field(label string) string {
	for _, f := range c.Fields {
		if f.Label == label {
			return f.Value
		}
	}
	return ""
}

// DetailPanelModel renders the call detail held in the dashboard state. It
// owns only the scroll position of the raw JSON viewport.
type DetailPanelModel struct {
	raw    viewport.Model
	width  int
	height int
}

// NewDetailPanelModel creates a DetailPanelModel with nothing loaded.
func NewDetailPanelModel() DetailPanelModel {
	return DetailPanelModel{raw: viewport.New(80, 8)}
}

// ShowRaw loads the raw JSON for d into the viewport and scrolls to the top.
// A nil d empties it.
func (m *DetailPanelModel) ShowRaw(d *metricsapi.CallDetail) {
	if d == nil {
		m.raw.SetContent("")
		return
	}
	m.raw.SetContent(RawJSONStyle.Render(NewDetailCard(*d).RawJSON))
	m.raw.GotoTop()
}

// SetSize sets the available dimensions. The field card takes what it needs
// and the raw JSON viewport gets the rest.
func (m *DetailPanelModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.raw.Width = max(w-4, 10)
	m.raw.Height = max(h-len(NewDetailCard(metricsapi.CallDetail{}).Fields)-6, 3)
}

// Update forwards scroll keys to the raw JSON viewport.
func (m DetailPanelModel) Update(msg tea.Msg) DetailPanelModel {
	var cmd tea.Cmd
	m.raw, cmd = m.raw.Update(msg)
	_ = cmd
	return m
}

// View renders the card for d, or a hint when d is nil.
func (m DetailPanelModel) View(callIDInput string, d *metricsapi.CallDetail) string {
	title := TitleStyle.Render("CALL DETAIL")

	var lines []string
	lines = append(lines, title, callIDInput, "")
	if d == nil {
		lines = append(lines, ValueStyle.Render("No call loaded. Press i to enter a call_id."))
	} else {
		card := NewDetailCard(*d)
		for _, f := range card.Fields {
			if f.Label == "Rate delta" {
				lines = append(lines, LabelStyle.Render(f.Label+":")+StyleForDelta(card.Delta).Render(f.Value))
				continue
			}
			lines = append(lines, row(f.Label+":", f.Value))
		}
		lines = append(lines, "", TitleStyle.Render("Raw"), m.raw.View())
	}

	style := BorderStyle
	if m.width > 0 {
		style = style.Width(m.width - 2)
	}
	return style.Render(strings.Join(lines, "\n"))
}

// row renders a label-value pair using the standard label and value styles.
func row(label, value string) string {
	return LabelStyle.Render(label) + ValueStyle.Render(value)
}
