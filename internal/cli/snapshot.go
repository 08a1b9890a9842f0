package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/vdash/internal/errors"
	"github.com/rileyhilliard/vdash/internal/source"
	"github.com/rileyhilliard/vdash/internal/ui"
	"github.com/rileyhilliard/vdash/internal/util"
	"github.com/rileyhilliard/vdash/internal/visits"
)

// Output formats for snapshot and trends.
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

var snapshotOutputFlag string

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Fetch once and print the current numbers",
	Long: `Fetch the counter and the trend series once, concurrently, and print
the totals, today's change against yesterday, and the daily table.

A resource that fails is reported and the other is still printed. The
command fails only when both fetches fail.

Examples:
  vdash snapshot
  vdash snapshot --json
  vdash snapshot --output yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := resolveOutput(snapshotOutputFlag)
		if err != nil {
			return err
		}
		a, err := loadApp()
		if err != nil {
			return err
		}
		var snap *Snapshot
		err = withSpinner("Fetched counter and trends", true, func() error {
			snap, err = fetchSnapshot(cmd.Context(), a.client)
			return err
		})
		if err != nil {
			return err
		}
		return writeSnapshot(cmd.OutOrStdout(), snap, format)
	},
}

func init() {
	snapshotCmd.Flags().StringVarP(&snapshotOutputFlag, "output", "o", outputText, "output format: text, json, or yaml")
}

// resolveOutput applies --json over --output.
func resolveOutput(flag string) (string, error) {
	if MachineMode() {
		return outputJSON, nil
	}
	switch flag {
	case "", outputText:
		return outputText, nil
	case outputJSON, outputYAML:
		return flag, nil
	}
	return "", errors.New(errors.ErrConfig,
		fmt.Sprintf("Unknown output format %q", flag),
		"Use text, json, or yaml")
}

// Snapshot is the result of one fetch of both resources.
type Snapshot struct {
	Counter   *visits.CounterSnapshot `json:"counter" yaml:"counter"`
	Trends    visits.TrendSeries      `json:"trends" yaml:"trends"`
	Derived   visits.DerivedMetrics   `json:"derived" yaml:"derived"`
	Points    []visits.ChartPoint     `json:"points" yaml:"points"`
	Errors    map[string]string       `json:"errors,omitempty" yaml:"errors,omitempty"`
	FetchedAt time.Time               `json:"fetched_at" yaml:"fetched_at"`
}

// fetchSnapshot fetches and decodes both resources concurrently. A failed
// resource is recorded in Errors; the error return is set only when
// nothing could be loaded.
func fetchSnapshot(ctx context.Context, client source.Client) (*Snapshot, error) {
	var (
		g                     errgroup.Group
		counter               *visits.CounterSnapshot
		trends                visits.TrendSeries
		counterErr, trendsErr error
	)

	g.Go(func() error {
		raw, err := client.Fetch(ctx, source.Counter)
		if err == nil {
			counter, err = source.DecodeCounter(raw)
		}
		counterErr = err
		return nil
	})
	g.Go(func() error {
		raw, err := client.Fetch(ctx, source.Trends)
		if err == nil {
			trends, err = source.DecodeTrends(raw)
		}
		trendsErr = err
		return nil
	})
	_ = g.Wait()

	if counterErr != nil && trendsErr != nil {
		return nil, counterErr
	}

	snap := &Snapshot{
		Counter:   counter,
		Trends:    trends,
		Derived:   visits.Derive(counter, trends),
		Points:    visits.Points(trends),
		FetchedAt: time.Now().UTC(),
	}
	if snap.Trends == nil {
		snap.Trends = visits.TrendSeries{}
	}
	for name, err := range map[string]error{string(source.Counter): counterErr, string(source.Trends): trendsErr} {
		if err != nil {
			if snap.Errors == nil {
				snap.Errors = map[string]string{}
			}
			snap.Errors[name] = errors.KindOf(err).String() + ": " + util.FirstLine(err)
		}
	}
	return snap, nil
}

func snapshotCommand(ctx context.Context, w io.Writer, client source.Client, format string) error {
	snap, err := fetchSnapshot(ctx, client)
	if err != nil {
		return err
	}
	return writeSnapshot(w, snap, format)
}

func writeSnapshot(w io.Writer, snap *Snapshot, format string) error {
	switch format {
	case outputJSON:
		return WriteJSONSuccess(w, snap)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig, "Failed to encode snapshot", "")
		}
		return enc.Close()
	}
	_, err := io.WriteString(w, renderSnapshot(snap))
	return err
}

// renderSnapshot formats a snapshot for a terminal.
func renderSnapshot(snap *Snapshot) string {
	var b strings.Builder
	label := func(s string) string { return ui.MutedStyle.Render(ui.PadRight(s, 14)) }

	if snap.Counter != nil {
		d := snap.Derived
		change := ui.TrendStyle(d.IsIncreasing).Render(ui.TrendSymbol(d.IsIncreasing) + " " + fmt.Sprintf("%+.1f%%", d.TrendPercent))
		fmt.Fprintf(&b, "%s%s\n", label("Total visits"), ui.BoldStyle.Render(util.FormatCount(snap.Counter.TotalVisits)))
		fmt.Fprintf(&b, "%s%s  %s\n", label("Today"), ui.BoldStyle.Render(util.FormatCount(d.TodayVisits)), change)
		fmt.Fprintf(&b, "%s%s\n", label("Yesterday"), util.FormatCount(d.YesterdayVisits))
	}

	if len(snap.Points) > 0 {
		b.WriteString("\n")
		b.WriteString(renderPointsTable(snap.Points))
		b.WriteString("\n")
	}

	for _, name := range []string{string(source.Counter), string(source.Trends)} {
		if msg, ok := snap.Errors[name]; ok {
			fmt.Fprintf(&b, "%s %s\n", ui.ErrorStyle.Render(ui.SymbolFail+" "+name), msg)
		}
	}
	return b.String()
}

// renderPointsTable renders chart points oldest first.
func renderPointsTable(points []visits.ChartPoint) string {
	columns := []ui.TableColumn{
		{Title: "Date", Width: 12},
		{Title: "Day", Width: 4},
		{Title: "Weekday", Width: 8},
		{Title: "Visits", Width: 10},
	}
	rows := make([][]string, len(points))
	for i, p := range points {
		rows[i] = []string{p.Date, p.AxisLabel(), p.Weekday(), util.FormatCount(p.Visits)}
	}
	return ui.RenderTable(columns, rows)
}

