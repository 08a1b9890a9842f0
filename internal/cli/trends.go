package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/vdash/internal/errors"
	"github.com/rileyhilliard/vdash/internal/source"
	"github.com/rileyhilliard/vdash/internal/visits"
)

var trendsOutputFlag string

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Print the daily trend as a table",
	Long: `Fetch the trend series and print one row per day, oldest first, with
the day-of-month used as the chart axis label. Days whose date can't be
parsed are kept and shown as "?".

Examples:
  vdash trends
  vdash trends --output yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := resolveOutput(trendsOutputFlag)
		if err != nil {
			return err
		}
		a, err := loadApp()
		if err != nil {
			return err
		}
		return withSpinner("Fetching trends", false, func() error {
			return trendsCommand(cmd.Context(), cmd.OutOrStdout(), a.client, format)
		})
	},
}

func init() {
	trendsCmd.Flags().StringVarP(&trendsOutputFlag, "output", "o", outputText, "output format: text, json, or yaml")
}

func trendsCommand(ctx context.Context, w io.Writer, client source.Client, format string) error {
	raw, err := client.Fetch(ctx, source.Trends)
	if err != nil {
		return err
	}
	series, err := source.DecodeTrends(raw)
	if err != nil {
		return err
	}
	points := visits.Points(series)

	switch format {
	case outputJSON:
		return WriteJSONSuccess(w, points)
	case outputYAML:
		out, err := yaml.Marshal(points)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig, "Failed to encode trend", "")
		}
		_, err = w.Write(out)
		return err
	}

	if len(points) == 0 {
		_, err = io.WriteString(w, "No trend data yet\n")
		return err
	}
	_, err = io.WriteString(w, renderPointsTable(points)+"\n")
	return err
}
