// ABOUTME: Lenient parse step mapping raw dashboard payloads into typed entities using gjson.
// ABOUTME: Missing, null, or wrongly typed fields become unknown (nil) instead of failing the whole payload.
package metricsapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// ParseError reports a payload whose top-level shape is unusable.
type ParseError struct {
	Payload string // payload kind, e.g. "overview"
	Reason  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s payload: %s", e.Payload, e.Reason)
}

// detailFields are the call detail keys the parser understands. Anything else
// lands in CallDetail.Extra.
var detailFields = map[string]bool{
	"call_id":             true,
	"verified":            true,
	"started_at":          true,
	"ended_at":            true,
	"outcome":             true,
	"load_id":             true,
	"loadboard_rate":      true,
	"carrier_first_offer": true,
	"carrier_last_offer":  true,
	"final_offer":         true,
	"agreed":              true,
	"rounds":              true,
	"sentiment":           true,
	"transfer_to_rep":     true,
	"summary":             true,
	"dashboard":           true,
	"call_state":          true,
	"raw_summary":         true,
}

func parseRoot(payload string, body []byte, wantArray bool) (gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, &ParseError{Payload: payload, Reason: "invalid JSON"}
	}
	root := gjson.ParseBytes(body)
	if wantArray && !root.IsArray() {
		return gjson.Result{}, &ParseError{Payload: payload, Reason: "expected a JSON array"}
	}
	if !wantArray && !root.IsObject() {
		return gjson.Result{}, &ParseError{Payload: payload, Reason: "expected a JSON object"}
	}
	return root, nil
}

// ParseOverview parses the overview endpoint body.
func ParseOverview(body []byte) (OverviewMetrics, error) {
	root, err := parseRoot("overview", body, false)
	if err != nil {
		return OverviewMetrics{}, err
	}
	return OverviewMetrics{
		TotalCalls:     optCount(root.Get("total_calls")),
		VerifiedRate:   optFraction(root.Get("verified_rate")),
		AcceptanceRate: optFraction(root.Get("acceptance_rate")),
		TransferRate:   optFraction(root.Get("transfer_rate")),
		AvgRounds:      optFloat(root.Get("avg_rounds")),
	}, nil
}

// ParseDistribution parses a label -> count object, preserving key order.
// Entries whose count is not a finite number are skipped.
func ParseDistribution(payload string, body []byte) (Distribution, error) {
	root, err := parseRoot(payload, body, false)
	if err != nil {
		return nil, err
	}
	dist := Distribution{}
	root.ForEach(func(key, value gjson.Result) bool {
		if n := optFloat(value); n != nil {
			dist = append(dist, Bucket{Label: key.String(), Count: *n})
		}
		return true
	})
	return dist, nil
}

// ParseCalls parses the recent-calls list. Rows without a usable call_id
// cannot be keyed and are dropped.
func ParseCalls(body []byte) ([]CallSummary, error) {
	root, err := parseRoot("calls", body, true)
	if err != nil {
		return nil, err
	}
	rows := []CallSummary{}
	for _, item := range root.Array() {
		if !item.IsObject() {
			continue
		}
		id := optID(item.Get("call_id"))
		if id == "" {
			continue
		}
		rows = append(rows, CallSummary{
			CallID:    id,
			EndedAt:   optFloat(item.Get("ended_at")),
			Verified:  optBool(item.Get("verified")),
			Outcome:   optString(item.Get("outcome")),
			Sentiment: optString(item.Get("sentiment")),
			LoadID:    optIDPtr(item.Get("load_id")),
			Rounds:    optCount(item.Get("rounds")),
		})
	}
	return rows, nil
}

// ParseCallDetail parses a call detail body. Flat fields take precedence;
// the legacy nested "dashboard" record fills any gaps. requestedID is used
// when the payload carries no call_id of its own.
func ParseCallDetail(requestedID string, body []byte) (CallDetail, error) {
	root, err := parseRoot("call detail", body, false)
	if err != nil {
		return CallDetail{}, err
	}
	legacy := root.Get("dashboard")
	field := func(name string) gjson.Result {
		r := root.Get(name)
		if (!r.Exists() || r.Type == gjson.Null) && legacy.IsObject() {
			return legacy.Get(name)
		}
		return r
	}

	d := CallDetail{
		CallID:            optID(field("call_id")),
		Verified:          optBool(field("verified")),
		StartedAt:         optFloat(field("started_at")),
		EndedAt:           optFloat(field("ended_at")),
		Outcome:           optString(field("outcome")),
		LoadID:            optIDPtr(field("load_id")),
		LoadboardRate:     optFloat(field("loadboard_rate")),
		CarrierFirstOffer: optFloat(field("carrier_first_offer")),
		CarrierLastOffer:  optFloat(field("carrier_last_offer")),
		FinalOffer:        optFloat(field("final_offer")),
		Agreed:            optBool(field("agreed")),
		Rounds:            optCount(field("rounds")),
		Sentiment:         optString(field("sentiment")),
		TransferToRep:     optBool(field("transfer_to_rep")),
		Summary:           optString(field("summary")),
		Dashboard:         rawOrNil(root.Get("dashboard")),
		CallState:         rawOrNil(root.Get("call_state")),
		RawSummary:        rawOrNil(root.Get("raw_summary")),
	}
	if d.CallID == "" {
		d.CallID = requestedID
	}
	d.Extra = extraFields(root)
	return d, nil
}

// PrettyJSON indents raw JSON for display. Empty input renders as "null".
func PrettyJSON(raw json.RawMessage) string {
	if len(bytes.TrimSpace(raw)) == 0 {
		return "null"
	}
	return string(bytes.TrimRight(pretty.Pretty(raw), "\n"))
}

func extraFields(root gjson.Result) json.RawMessage {
	var out []byte
	root.ForEach(func(key, value gjson.Result) bool {
		if detailFields[key.String()] {
			return true
		}
		if out == nil {
			out = []byte("{}")
		}
		next, err := sjson.SetRawBytes(out, ObjectPath(key.String()), []byte(value.Raw))
		if err == nil {
			out = next
		}
		return true
	})
	if out == nil {
		return nil
	}
	return json.RawMessage(out)
}

// ObjectPath escapes key into an sjson path naming that literal top-level
// key. The leading colon stops numeric keys from being read as array indexes.
func ObjectPath(key string) string {
	var b strings.Builder
	b.WriteByte(':')
	for i := 0; i < len(key); i++ {
		switch c := key[i]; c {
		case '\\', '.', ':', '|', '#', '@', '*', '?', '!', '[', '{':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func rawOrNil(r gjson.Result) json.RawMessage {
	if !r.Exists() || r.Type == gjson.Null {
		return nil
	}
	return json.RawMessage(r.Raw)
}

func optFloat(r gjson.Result) *float64 {
	if r.Type != gjson.Number || math.IsNaN(r.Num) || math.IsInf(r.Num, 0) {
		return nil
	}
	v := r.Num
	return &v
}

// optFraction accepts only numbers in [0, 1].
func optFraction(r gjson.Result) *float64 {
	v := optFloat(r)
	if v == nil || *v < 0 || *v > 1 {
		return nil
	}
	return v
}

// optCount accepts only non-negative whole numbers.
func optCount(r gjson.Result) *int {
	v := optFloat(r)
	if v == nil || *v < 0 || *v != math.Trunc(*v) || *v > math.MaxInt32 {
		return nil
	}
	n := int(*v)
	return &n
}

func optBool(r gjson.Result) *bool {
	switch r.Type {
	case gjson.True:
		b := true
		return &b
	case gjson.False:
		b := false
		return &b
	default:
		return nil
	}
}

func optString(r gjson.Result) *string {
	if r.Type != gjson.String {
		return nil
	}
	s := r.Str
	return &s
}

// optID accepts identifiers sent as strings or bare numbers.
func optID(r gjson.Result) string {
	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.Number:
		return r.Raw
	default:
		return ""
	}
}

func optIDPtr(r gjson.Result) *string {
	id := optID(r)
	if id == "" {
		return nil
	}
	return &id
}

// Diagnostics assembles the payloads kept for raw display into one JSON
// object: call_state and raw_summary always (null when absent), then the
// legacy dashboard block and unrecognized fields when present.
func (d CallDetail) Diagnostics() json.RawMessage {
	out := []byte("{}")
	set := func(key string, raw json.RawMessage) {
		if len(bytes.TrimSpace(raw)) == 0 {
			raw = json.RawMessage("null")
		}
		if next, err := sjson.SetRawBytes(out, key, raw); err == nil {
			out = next
		}
	}
	set("call_state", d.CallState)
	set("raw_summary", d.RawSummary)
	if d.Dashboard != nil {
		set("dashboard", d.Dashboard)
	}
	if d.Extra != nil {
		set("unrecognized", d.Extra)
	}
	return json.RawMessage(out)
}
