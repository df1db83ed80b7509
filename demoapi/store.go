// ABOUTME: SQLite-backed call store for the demo API: upserts seed rows and answers the dashboard aggregations.
// ABOUTME: Rates are null when their denominator is zero; distributions are ordered by count, then label.
package demoapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	_ "github.com/mattn/go-sqlite3"
)

// ErrCallNotFound is returned by Store.Call for an unknown call_id.
var ErrCallNotFound = errors.New("call not found")

// MaxCallsLimit caps the recent-calls query.
const MaxCallsLimit = 500

// Overview is the KPI snapshot served by the overview endpoint.
type Overview struct {
	TotalCalls     int      `json:"total_calls"`
	VerifiedRate   *float64 `json:"verified_rate"`
	AcceptanceRate *float64 `json:"acceptance_rate"`
	TransferRate   *float64 `json:"transfer_rate"`
	AvgRounds      *float64 `json:"avg_rounds"`
}

// Bucket is one label/count pair of a distribution.
type Bucket struct {
	Label string
	Count int
}

// Store persists call records in SQLite.
type Store struct {
	db *sql.DB
}

// OpenStore opens or creates the call database at path. Use ":memory:" for
// a throwaway store.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps ":memory:" databases coherent.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS calls (
			call_id TEXT PRIMARY KEY,
			started_at INTEGER,
			ended_at INTEGER,
			outcome TEXT,
			sentiment TEXT,
			verified INTEGER,
			load_id TEXT,
			loadboard_rate REAL,
			rounds INTEGER,
			carrier_first_offer REAL,
			carrier_last_offer REAL,
			final_offer REAL,
			agreed INTEGER,
			transfer_to_rep INTEGER,
			summary TEXT,
			raw_summary TEXT,
			raw_outcome TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_calls_ended_at ON calls(ended_at);`

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Upsert inserts rec or replaces the stored row with the same call_id.
func (s *Store) Upsert(ctx context.Context, rec CallRecord) error {
	var rawSummary *string
	if len(rec.RawSummary) > 0 {
		v := string(rec.RawSummary)
		rawSummary = &v
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO calls (call_id, started_at, ended_at, outcome, sentiment, verified,
			load_id, loadboard_rate, rounds, carrier_first_offer, carrier_last_offer,
			final_offer, agreed, transfer_to_rep, summary, raw_summary, raw_outcome)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(call_id) DO UPDATE SET
			started_at = excluded.started_at,
			ended_at = excluded.ended_at,
			outcome = excluded.outcome,
			sentiment = excluded.sentiment,
			verified = excluded.verified,
			load_id = excluded.load_id,
			loadboard_rate = excluded.loadboard_rate,
			rounds = excluded.rounds,
			carrier_first_offer = excluded.carrier_first_offer,
			carrier_last_offer = excluded.carrier_last_offer,
			final_offer = excluded.final_offer,
			agreed = excluded.agreed,
			transfer_to_rep = excluded.transfer_to_rep,
			summary = excluded.summary,
			raw_summary = excluded.raw_summary,
			raw_outcome = excluded.raw_outcome`,
		rec.CallID, rec.StartedAt, rec.EndedAt, rec.Outcome, rec.Sentiment, rec.Verified,
		rec.LoadID, rec.LoadboardRate, rec.Rounds, rec.CarrierFirstOffer, rec.CarrierLastOffer,
		rec.FinalOffer, rec.Agreed, rec.TransferToRep, rec.Summary, rawSummary, rec.RawOutcome,
	)
	if err != nil {
		return fmt.Errorf("upsert call %s: %w", rec.CallID, err)
	}
	return nil
}

// Overview computes the KPI snapshot over every stored call.
func (s *Store) Overview(ctx context.Context) (Overview, error) {
	var (
		total, verifiedTrue, verifiedKnown, agreed, transferred int
		avgRounds                                               sql.NullFloat64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN verified = 1 THEN 1 ELSE 0 END), 0),
			COUNT(verified),
			COALESCE(SUM(CASE WHEN agreed = 1 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN transfer_to_rep = 1 THEN 1 ELSE 0 END), 0),
			AVG(rounds)
		FROM calls`,
	).Scan(&total, &verifiedTrue, &verifiedKnown, &agreed, &transferred, &avgRounds)
	if err != nil {
		return Overview{}, fmt.Errorf("query overview: %w", err)
	}

	ov := Overview{
		TotalCalls:     total,
		VerifiedRate:   ratio(verifiedTrue, verifiedKnown),
		AcceptanceRate: ratio(agreed, total),
		TransferRate:   ratio(transferred, total),
	}
	if avgRounds.Valid {
		v := math.Round(avgRounds.Float64*100) / 100
		ov.AvgRounds = &v
	}
	return ov, nil
}

func ratio(num, den int) *float64 {
	if den == 0 {
		return nil
	}
	v := float64(num) / float64(den)
	return &v
}

// distributionColumns whitelists the columns Distribution may group by.
var distributionColumns = map[string]bool{"outcome": true, "sentiment": true}

// Distribution counts calls per value of column ("outcome" or "sentiment"),
// ordered by count descending then label. NULL counts as UnknownLabel.
func (s *Store) Distribution(ctx context.Context, column string) ([]Bucket, error) {
	if !distributionColumns[column] {
		return nil, fmt.Errorf("distribution over %q: unsupported column", column)
	}
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT COALESCE(%s, ?) AS label, COUNT(*) AS n
		FROM calls
		GROUP BY label
		ORDER BY n DESC, label ASC`, column), UnknownLabel)
	if err != nil {
		return nil, fmt.Errorf("query %s distribution: %w", column, err)
	}
	defer rows.Close()

	var out []Bucket
	for rows.Next() {
		var b Bucket
		if err := rows.Scan(&b.Label, &b.Count); err != nil {
			return nil, fmt.Errorf("scan %s bucket: %w", column, err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ClampLimit bounds a requested list size to [1, MaxCallsLimit].
func ClampLimit(limit int) int {
	return min(max(limit, 1), MaxCallsLimit)
}

const recordColumns = `call_id, started_at, ended_at, outcome, sentiment, verified,
	load_id, loadboard_rate, rounds, carrier_first_offer, carrier_last_offer,
	final_offer, agreed, transfer_to_rep, summary, raw_summary, raw_outcome`

// RecentCalls returns up to limit calls, newest ended_at first. Calls with no
// end time sort last.
func (s *Store) RecentCalls(ctx context.Context, limit int) ([]CallRecord, error) {
	limit = ClampLimit(limit)
	rows, err := s.db.QueryContext(ctx, `SELECT `+recordColumns+`
		FROM calls
		ORDER BY ended_at IS NULL, ended_at DESC, call_id ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent calls: %w", err)
	}
	defer rows.Close()

	out := make([]CallRecord, 0, limit)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Call returns one stored call, or ErrCallNotFound.
func (s *Store) Call(ctx context.Context, callID string) (CallRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM calls WHERE call_id = ?`, callID)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return CallRecord{}, ErrCallNotFound
	}
	return rec, err
}

// Count returns the number of stored calls.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM calls`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count calls: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (CallRecord, error) {
	var (
		rec                                                  CallRecord
		startedAt, endedAt, rounds                           sql.NullInt64
		outcome, sentiment, loadID, summary, raw, rawOutcome sql.NullString
		verified, agreed, transfer                           sql.NullBool
		loadboardRate, firstOffer, lastOffer, finalOffer     sql.NullFloat64
	)
	err := sc.Scan(&rec.CallID, &startedAt, &endedAt, &outcome, &sentiment, &verified,
		&loadID, &loadboardRate, &rounds, &firstOffer, &lastOffer,
		&finalOffer, &agreed, &transfer, &summary, &raw, &rawOutcome)
	if errors.Is(err, sql.ErrNoRows) {
		return CallRecord{}, err
	}
	if err != nil {
		return CallRecord{}, fmt.Errorf("scan call: %w", err)
	}

	rec.StartedAt = nullInt(startedAt)
	rec.EndedAt = nullInt(endedAt)
	rec.Rounds = nullInt(rounds)
	rec.Outcome = nullString(outcome)
	rec.Sentiment = nullString(sentiment)
	rec.LoadID = nullString(loadID)
	rec.Summary = nullString(summary)
	rec.RawOutcome = nullString(rawOutcome)
	rec.Verified = nullBool(verified)
	rec.Agreed = nullBool(agreed)
	rec.TransferToRep = nullBool(transfer)
	rec.LoadboardRate = nullFloat(loadboardRate)
	rec.CarrierFirstOffer = nullFloat(firstOffer)
	rec.CarrierLastOffer = nullFloat(lastOffer)
	rec.FinalOffer = nullFloat(finalOffer)
	if raw.Valid && json.Valid([]byte(raw.String)) {
		rec.RawSummary = json.RawMessage(raw.String)
	}
	return rec, nil
}

func nullInt(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func nullBool(v sql.NullBool) *bool {
	if !v.Valid {
		return nil
	}
	return &v.Bool
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}
