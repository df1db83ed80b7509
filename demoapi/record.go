// ABOUTME: CallRecord is the stored negotiation call row served by the demo API.
// ABOUTME: ClassifyOutcome maps raw platform outcomes and negotiation status onto the dashboard's outcome labels.
package demoapi

import "encoding/json"

// Outcome labels shown on the dashboard.
const (
	OutcomeAcceptedTransferred = "ACCEPTED_TRANSFERRED"
	OutcomeDeclined            = "DECLINED"
	OutcomeNoMatchingLoad      = "NO_MATCHING_LOAD"
	OutcomeFailedVerification  = "FAILED_VERIFICATION"
	OutcomeCallDropped         = "CALL_DROPPED"
	OutcomeOther               = "OTHER"
)

// UnknownLabel groups rows whose outcome or sentiment is missing.
const UnknownLabel = "UNKNOWN"

// CallRecord is one finished call. Optional columns are pointers so that
// NULL survives the round trip to JSON as null.
type CallRecord struct {
	CallID            string          `yaml:"call_id" json:"call_id"`
	StartedAt         *int64          `yaml:"started_at" json:"started_at"`
	EndedAt           *int64          `yaml:"ended_at" json:"ended_at"`
	Outcome           *string         `yaml:"outcome" json:"outcome"`
	Sentiment         *string         `yaml:"sentiment" json:"sentiment"`
	Verified          *bool           `yaml:"verified" json:"verified"`
	LoadID            *string         `yaml:"load_id" json:"load_id"`
	LoadboardRate     *float64        `yaml:"loadboard_rate" json:"loadboard_rate"`
	Rounds            *int64          `yaml:"rounds" json:"rounds"`
	CarrierFirstOffer *float64        `yaml:"carrier_first_offer" json:"carrier_first_offer"`
	CarrierLastOffer  *float64        `yaml:"carrier_last_offer" json:"carrier_last_offer"`
	FinalOffer        *float64        `yaml:"final_offer" json:"final_offer"`
	Agreed            *bool           `yaml:"agreed" json:"agreed"`
	TransferToRep     *bool           `yaml:"transfer_to_rep" json:"transfer_to_rep"`
	Summary           *string         `yaml:"summary" json:"summary"`
	RawSummary        json.RawMessage `yaml:"-" json:"raw_summary"`
	RawOutcome        *string         `yaml:"raw_outcome" json:"raw_outcome"`

	// NegotiationStatus feeds ClassifyOutcome when a seed row has no label.
	NegotiationStatus *string `yaml:"negotiation_status" json:"-"`
}

// CallSummary is the list-view projection of a CallRecord.
type CallSummary struct {
	CallID    string  `json:"call_id"`
	EndedAt   *int64  `json:"ended_at"`
	Verified  *bool   `json:"verified"`
	Outcome   *string `json:"outcome"`
	Sentiment *string `json:"sentiment"`
	LoadID    *string `json:"load_id"`
	Rounds    *int64  `json:"rounds"`
}

// ListRow projects r onto the list columns.
func (r CallRecord) ListRow() CallSummary {
	return CallSummary{
		CallID:    r.CallID,
		EndedAt:   r.EndedAt,
		Verified:  r.Verified,
		Outcome:   r.Outcome,
		Sentiment: r.Sentiment,
		LoadID:    r.LoadID,
		Rounds:    r.Rounds,
	}
}

// ClassifyOutcome derives the dashboard label from the platform's raw
// outcome, the negotiation status, and verification. Verification failure
// wins; negotiation truth beats the platform outcome.
func ClassifyOutcome(rawOutcome, negotiationStatus string, verified *bool) string {
	if (verified != nil && !*verified) || rawOutcome == "failed_verification" {
		return OutcomeFailedVerification
	}
	switch rawOutcome {
	case "no_match":
		return OutcomeNoMatchingLoad
	case "dropped":
		return OutcomeCallDropped
	}
	switch negotiationStatus {
	case "accepted":
		return OutcomeAcceptedTransferred
	case "declined":
		return OutcomeDeclined
	}
	switch rawOutcome {
	case "accepted":
		return OutcomeAcceptedTransferred
	case "declined":
		return OutcomeDeclined
	}
	return OutcomeOther
}
