package cli

import (
	"context"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/rileyhilliard/vdash/internal/cache"
	"github.com/rileyhilliard/vdash/internal/dashboard"
	"github.com/rileyhilliard/vdash/internal/errors"
	"github.com/rileyhilliard/vdash/internal/logger"
	"github.com/rileyhilliard/vdash/internal/notify"
	"github.com/rileyhilliard/vdash/internal/poll"
	"github.com/rileyhilliard/vdash/internal/source"
	"github.com/rileyhilliard/vdash/internal/telemetry"
	"github.com/rileyhilliard/vdash/internal/visits"
)

// debugLogFile receives log output while the dashboard owns the terminal
// and VDASH_DEBUG is set.
const debugLogFile = "vdash-debug.log"

// notificationBuffer is how many undelivered toasts the dashboard queues.
const notificationBuffer = 16

var watchNoIncrement bool

// stdoutIsTerminal is replaced in tests.
var stdoutIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Open the live dashboard",
	Long: `Poll the counter and trend endpoints and render them live.

The launch is counted as one visit unless --no-increment is passed or
increment_on_start is false in the config. When stdout is not a terminal
(or --json is set) a single snapshot is printed instead.

Keys: q quit, r refresh, t toggle line/area chart, ? help.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return watchCommand(cmd.Context(), cmd.OutOrStdout(), watchNoIncrement)
	},
}

func init() {
	watchCmd.Flags().BoolVar(&watchNoIncrement, "no-increment", false, "don't count this launch as a visit")
}

func watchCommand(ctx context.Context, w io.Writer, noIncrement bool) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	if MachineMode() || !stdoutIsTerminal() {
		a.log.Debug("stdout is not a terminal, printing a snapshot")
		format := outputText
		if MachineMode() {
			format = outputJSON
		}
		return snapshotCommand(ctx, w, a.client, format)
	}

	restore, err := redirectLogs()
	if err != nil {
		return err
	}
	defer restore()

	return runDashboard(ctx, a, a.client, !noIncrement && a.cfg.IncrementOnStart)
}

// runDashboard wires the cache, scheduler, and TUI together and runs them
// until the user quits or ctx is cancelled. The metrics exporter, when
// configured, runs alongside.
func runDashboard(ctx context.Context, a *app, client source.Client, increment bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	reg := prometheus.NewRegistry()
	metrics := telemetry.NewMetrics(reg)
	notes := notify.NewChannel(notificationBuffer)
	c := cache.New()

	shared := source.NewDeduped(client,
		source.WithSharedTimeout(a.cfg.Poll.FetchTimeout),
		source.WithSharedRecorder(metrics))
	sched := poll.NewScheduler(shared,
		poll.WithNotifier(notify.Multi{notes, notify.NewLogNotifier(logger.NewEnvLogger("[notify]"))}),
		poll.WithMetrics(metrics),
		poll.WithFetchTimeout(a.cfg.Poll.FetchTimeout))

	if increment {
		sched.Increment(ctx)
	}
	sched.Start(ctx, poll.CounterBinding(c, a.cfg.Poll.CounterInterval))
	sched.Start(ctx, poll.TrendsBinding(c, a.cfg.Poll.TrendsInterval))

	model := dashboard.NewModel(c,
		dashboard.WithRefresher(sched),
		dashboard.WithNotifications(notes.C()),
		dashboard.WithHistory(visits.NewHistory(a.cfg.HistorySize)))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return telemetry.Serve(gctx, a.cfg.Metrics.Listen, reg, a.log)
	})
	g.Go(func() error {
		defer cancel()
		p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(gctx))
		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) && gctx.Err() != nil {
			return nil
		}
		return err
	})
	err := g.Wait()

	sched.Stop()
	c.Dispose()
	notes.Close()
	return err
}

// redirectLogs keeps log output off the alternate screen: it goes to
// debugLogFile with VDASH_DEBUG set and is discarded otherwise.
func redirectLogs() (func(), error) {
	if logger.DebugEnabled() {
		f, err := tea.LogToFile(debugLogFile, "vdash")
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Couldn't open "+debugLogFile,
				"Unset VDASH_DEBUG or run from a writable directory")
		}
		return func() {
			_ = f.Close()
			log.SetOutput(os.Stderr)
		}, nil
	}
	log.SetOutput(io.Discard)
	return func() { log.SetOutput(os.Stderr) }, nil
}
