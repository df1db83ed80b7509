// ABOUTME: Exports a dashboard snapshot (KPIs, distributions, recent calls) to an xlsx workbook with excelize.
// ABOUTME: Fetching is all-or-nothing: any failed endpoint aborts the export before a file is written.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"github.com/2389-research/calldeck/format"
	"github.com/2389-research/calldeck/metricsapi"
)

// Sheet names in the exported workbook.
const (
	OverviewSheet = "Overview"
	CallsSheet    = "Calls"
)

// CallColumns are the Calls sheet headers, in column order.
var CallColumns = []string{"Call ID", "Ended", "Verified", "Outcome", "Sentiment", "Load", "Rounds"}

// Source is the subset of the dashboard client the export reads from.
type Source interface {
	Overview(ctx context.Context, apiKey string) (metricsapi.OverviewMetrics, error)
	Outcomes(ctx context.Context, apiKey string) (metricsapi.Distribution, error)
	Sentiment(ctx context.Context, apiKey string) (metricsapi.Distribution, error)
	Calls(ctx context.Context, apiKey string, limit int) ([]metricsapi.CallSummary, error)
}

var _ Source = (*metricsapi.Client)(nil)

// Snapshot is everything one export writes.
type Snapshot struct {
	Metrics   metricsapi.OverviewMetrics
	Outcomes  metricsapi.Distribution
	Sentiment metricsapi.Distribution
	Calls     []metricsapi.CallSummary
	Generated time.Time
}

// Fetch loads all four payloads concurrently. The first failure cancels the
// rest and is returned alone.
func Fetch(ctx context.Context, src Source, apiKey string, limit int) (Snapshot, error) {
	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap.Metrics, err = src.Overview(gctx, apiKey)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Outcomes, err = src.Outcomes(gctx, apiKey)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Sentiment, err = src.Sentiment(gctx, apiKey)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Calls, err = src.Calls(gctx, apiKey, limit)
		return err
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	snap.Generated = time.Now()
	return snap, nil
}

// Workbook builds the xlsx workbook for snap. Timestamps render in loc.
func Workbook(snap Snapshot, loc *time.Location) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", OverviewSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("naming overview sheet: %w", err)
	}
	if _, err := f.NewSheet(CallsSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("creating calls sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("creating header style: %w", err)
	}

	if err := writeOverview(f, snap, loc, bold); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := writeCalls(f, snap.Calls, loc, bold); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

// Export fetches a snapshot from src and saves it to path.
func Export(ctx context.Context, src Source, apiKey string, limit int, path string) (Snapshot, error) {
	snap, err := Fetch(ctx, src, apiKey, limit)
	if err != nil {
		return Snapshot{}, fmt.Errorf("fetching dashboard data: %w", err)
	}
	f, err := Workbook(snap, time.Local)
	if err != nil {
		return Snapshot{}, err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return Snapshot{}, fmt.Errorf("saving workbook: %w", err)
	}
	return snap, nil
}

type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
	bold  int
}

func (w *sheetWriter) write(values []any, header bool) error {
	w.row++
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		return err
	}
	if err := w.f.SetSheetRow(w.sheet, cell, &values); err != nil {
		return fmt.Errorf("writing %s row %d: %w", w.sheet, w.row, err)
	}
	if header {
		end, err := excelize.CoordinatesToCellName(len(values), w.row)
		if err != nil {
			return err
		}
		if err := w.f.SetCellStyle(w.sheet, cell, end, w.bold); err != nil {
			return fmt.Errorf("styling %s row %d: %w", w.sheet, w.row, err)
		}
	}
	return nil
}

func (w *sheetWriter) skip() {
	w.row++
}

func writeOverview(f *excelize.File, snap Snapshot, loc *time.Location, bold int) error {
	w := &sheetWriter{f: f, sheet: OverviewSheet, bold: bold}
	generated := float64(snap.Generated.Unix())

	rows := [][]any{
		{"Generated", format.TimestampIn(&generated, loc)},
		{"Total calls", format.Int(snap.Metrics.TotalCalls)},
		{"Verified", format.Percent(snap.Metrics.VerifiedRate)},
		{"Acceptance", format.Percent(snap.Metrics.AcceptanceRate)},
		{"Transfer", format.Percent(snap.Metrics.TransferRate)},
		{"Avg rounds", format.Number(snap.Metrics.AvgRounds)},
	}
	if err := w.write([]any{"Metric", "Value"}, true); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.write(r, false); err != nil {
			return err
		}
	}

	for _, dist := range []struct {
		title  string
		series metricsapi.Distribution
	}{
		{"Outcome", snap.Outcomes},
		{"Sentiment", snap.Sentiment},
	} {
		w.skip()
		if err := w.write([]any{dist.title, "Calls"}, true); err != nil {
			return err
		}
		for _, b := range dist.series {
			if err := w.write([]any{b.Label, b.Count}, false); err != nil {
				return err
			}
		}
	}
	return f.SetColWidth(OverviewSheet, "A", "A", 24)
}

func writeCalls(f *excelize.File, calls []metricsapi.CallSummary, loc *time.Location, bold int) error {
	w := &sheetWriter{f: f, sheet: CallsSheet, bold: bold}
	header := make([]any, len(CallColumns))
	for i, c := range CallColumns {
		header[i] = c
	}
	if err := w.write(header, true); err != nil {
		return err
	}
	for _, c := range calls {
		row := []any{
			c.CallID,
			format.TimestampIn(c.EndedAt, loc),
			format.Bool(c.Verified),
			format.Text(c.Outcome),
			format.Text(c.Sentiment),
			format.Text(c.LoadID),
			format.Int(c.Rounds),
		}
		if err := w.write(row, false); err != nil {
			return err
		}
	}
	return f.SetColWidth(CallsSheet, "A", "G", 20)
}
