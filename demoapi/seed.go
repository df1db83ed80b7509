// ABOUTME: Loads demo call records from YAML (a file or the embedded default) and upserts them into the store.
// ABOUTME: Rows without a call_id get a ULID; rows without an outcome are classified from their raw outcome.
package demoapi

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/oklog/ulid/v2"
	"gopkg.in/yaml.v3"
)

//go:embed assets/seed.yaml assets/landing.md
var assets embed.FS

// seedCall decodes raw_summary as any YAML value so it can be stored as JSON.
type seedCall struct {
	CallRecord `yaml:",inline"`
	RawSummary any `yaml:"raw_summary"`
}

type seedFile struct {
	Calls []seedCall `yaml:"calls"`
}

// DefaultSeed returns the embedded sample calls.
func DefaultSeed() ([]byte, error) {
	return assets.ReadFile("assets/seed.yaml")
}

// LoadSeedFile reads seed records from path, or the embedded seed when path
// is empty.
func LoadSeedFile(path string) ([]CallRecord, error) {
	var (
		data []byte
		err  error
	)
	if path == "" {
		data, err = DefaultSeed()
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading seed: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes a seed document into normalized call records.
func ParseSeed(data []byte) ([]CallRecord, error) {
	var doc seedFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding seed: %w", err)
	}

	out := make([]CallRecord, 0, len(doc.Calls))
	for i, c := range doc.Calls {
		rec := c.CallRecord
		if rec.CallID == "" {
			rec.CallID = "call-" + ulid.Make().String()
		}
		if c.RawSummary != nil {
			raw, err := json.Marshal(c.RawSummary)
			if err != nil {
				return nil, fmt.Errorf("encoding raw_summary of seed row %d: %w", i, err)
			}
			rec.RawSummary = raw
		}
		if rec.Outcome == nil && classifiable(rec) {
			label := ClassifyOutcome(deref(rec.RawOutcome), deref(rec.NegotiationStatus), rec.Verified)
			rec.Outcome = &label
		}
		out = append(out, rec)
	}
	return out, nil
}

// Seed upserts records into the store and returns how many were written.
func Seed(ctx context.Context, store *Store, records []CallRecord) (int, error) {
	for i, rec := range records {
		if err := store.Upsert(ctx, rec); err != nil {
			return i, err
		}
	}
	return len(records), nil
}

// classifiable reports whether rec carries any signal ClassifyOutcome uses.
// Rows with none keep a null outcome and count as UNKNOWN.
func classifiable(rec CallRecord) bool {
	return rec.RawOutcome != nil || rec.NegotiationStatus != nil || (rec.Verified != nil && !*rec.Verified)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
