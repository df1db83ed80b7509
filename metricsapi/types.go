// ABOUTME: Typed entities for the call metrics dashboard API: overview KPIs, distributions, call rows and details.
// ABOUTME: Optional fields are pointers; nil always means "unknown", never a zero-value default.
package metricsapi

import "encoding/json"

// OverviewMetrics is the aggregate KPI snapshot returned by the overview endpoint.
type OverviewMetrics struct {
	TotalCalls     *int
	VerifiedRate   *float64
	AcceptanceRate *float64
	TransferRate   *float64
	AvgRounds      *float64
}

// Bucket is one label/count pair of a Distribution.
type Bucket struct {
	Label string
	Count float64
}

// Distribution is a label -> count mapping that keeps the payload's key order,
// which is also the display order.
type Distribution []Bucket

// Labels returns the bucket labels in order.
func (d Distribution) Labels() []string {
	labels := make([]string, len(d))
	for i, b := range d {
		labels[i] = b.Label
	}
	return labels
}

// Total sums every bucket count.
func (d Distribution) Total() float64 {
	var total float64
	for _, b := range d {
		total += b.Count
	}
	return total
}

// CallSummary is one row of the recent-calls list.
type CallSummary struct {
	CallID    string
	EndedAt   *float64
	Verified  *bool
	Outcome   *string
	Sentiment *string
	LoadID    *string
	Rounds    *int
}

// CallDetail is the full negotiation record for a single call.
type CallDetail struct {
	CallID            string
	Verified          *bool
	StartedAt         *float64
	EndedAt           *float64
	Outcome           *string
	LoadID            *string
	LoadboardRate     *float64
	CarrierFirstOffer *float64
	CarrierLastOffer  *float64
	FinalOffer        *float64
	Agreed            *bool
	Rounds            *int
	Sentiment         *string
	TransferToRep     *bool
	Summary           *string

	// Diagnostic payloads, kept verbatim.
	Dashboard  json.RawMessage
	CallState  json.RawMessage
	RawSummary json.RawMessage

	// Extra holds every top-level field the parser did not recognize, as a
	// JSON object in payload order. Nil when there were none.
	Extra json.RawMessage
}

// RateDelta is final_offer minus loadboard_rate, or nil when either is unknown.
func (d CallDetail) RateDelta() *float64 {
	if d.FinalOffer == nil || d.LoadboardRate == nil {
		return nil
	}
	delta := *d.FinalOffer - *d.LoadboardRate
	return &delta
}

// CallDuration is ended_at minus started_at in seconds, or nil when either is
// unknown or the span is negative.
func (d CallDetail) CallDuration() *float64 {
	if d.StartedAt == nil || d.EndedAt == nil || *d.StartedAt == 0 || *d.EndedAt == 0 {
		return nil
	}
	span := *d.EndedAt - *d.StartedAt
	if span < 0 {
		return nil
	}
	return &span
}
