package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/vdash/internal/errors"
)

// Global flags
var (
	configFlag        string
	noColorFlag       bool
	metricsListenFlag string
)

// rootCmd runs the live dashboard when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "vdash",
	Short: "Live dashboard for a website visit counter",
	Long: `vdash polls a visit counter API and shows the running total, today's
visits compared with yesterday, and a chart of the last days.

Running vdash without a subcommand opens the live dashboard and counts
the launch as one visit. When stdout is not a terminal a one-shot
snapshot is printed instead.

Examples:
  vdash
  vdash --no-increment
  vdash snapshot --json
  vdash mock --date 2024-05-01 --visits 25`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return watchCommand(cmd.Context(), cmd.OutOrStdout(), watchNoIncrement)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file (default: nearest .vdash.yaml)")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&metricsListenFlag, "metrics-listen", "", "serve Prometheus metrics on this address (e.g. :9464)")
	rootCmd.PersistentFlags().BoolVar(&machineMode, "json", false, "machine-readable JSON output")
	rootCmd.Flags().BoolVar(&watchNoIncrement, "no-increment", false, "don't count this launch as a visit")
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command's
// context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}

	var silent silentError
	if errors.As(err, &silent) {
		os.Exit(1)
	}
	if MachineMode() {
		_ = WriteJSONFromError(os.Stdout, err)
	} else {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(1)
}
