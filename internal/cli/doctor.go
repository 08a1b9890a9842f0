package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/vdash/internal/config"
	"github.com/rileyhilliard/vdash/internal/doctor"
	"github.com/rileyhilliard/vdash/internal/source"
	"github.com/rileyhilliard/vdash/internal/ui"
)

const doctorFetchTimeout = 10 * time.Second

var doctorFix bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check config, API endpoints, and terminal",
	Long: `Run diagnostics: find and validate the config, fetch the counter and
trend endpoints once and check their payloads, and check that the
terminal can show the live dashboard. The mock endpoint is never called.

Exits non-zero when any check fails.

Examples:
  vdash doctor
  vdash doctor --fix    # write a default .vdash.yaml if none is found
  vdash doctor --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doctorCommand(cmd.Context(), cmd.OutOrStdout(), doctorFix)
	},
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "attempt automatic fixes where possible")
}

// DoctorOutput represents the JSON output for doctor command.
type DoctorOutput struct {
	Categories []CategoryOutput `json:"categories"`
	Summary    SummaryOutput    `json:"summary"`
}

// CategoryOutput represents a category of check results.
type CategoryOutput struct {
	Name    string               `json:"name"`
	Results []doctor.CheckResult `json:"results"`
}

// SummaryOutput summarizes the check results.
type SummaryOutput struct {
	Pass     int  `json:"pass"`
	Warn     int  `json:"warn"`
	Fail     int  `json:"fail"`
	Fixable  int  `json:"fixable"`
	AllClear bool `json:"all_clear"`
}

func doctorCommand(ctx context.Context, w io.Writer, fix bool) error {
	checks := collectChecks()

	results := doctor.RunAllParallel(ctx, checks)
	if fix {
		results = doctor.AttemptFixes(ctx, checks, results)
	}

	if MachineMode() {
		if err := WriteJSONSuccess(w, buildDoctorOutput(checks, results)); err != nil {
			return err
		}
	} else {
		renderDoctorText(w, checks, results, fix)
	}

	if doctor.HasFailures(results) {
		return errDoctorFailed
	}
	return nil
}

// errDoctorFailed signals a non-zero exit after the report was printed.
var errDoctorFailed = silentError{"doctor found failing checks"}

type silentError struct{ msg string }

func (e silentError) Error() string { return e.msg }

// collectChecks builds the checks. The API checks use the configured
// endpoints, or the defaults when the config can't be loaded so the
// endpoints are still probed.
func collectChecks() []doctor.Check {
	initPath := filepath.Join(".", config.ConfigFileName)
	checks := doctor.NewConfigChecks(configFlag, initPath)

	endpoints := source.DefaultEndpoints()
	mockURL := endpoints[source.Mock]
	if cfg, _, err := config.LoadOrDefault(configFlag); err == nil {
		endpoints = cfg.SourceEndpoints()
		mockURL = endpoints[source.Mock]
	}
	client := source.NewHTTPClient(endpoints, source.WithUserAgent(userAgent()))

	checks = append(checks, doctor.NewAPIChecks(client, mockURL, doctorFetchTimeout)...)
	checks = append(checks, &doctor.TerminalCheck{IsTerminal: stdoutIsTerminal})
	return checks
}

func buildDoctorOutput(checks []doctor.Check, results []doctor.CheckResult) DoctorOutput {
	grouped := groupResults(checks, results)
	out := DoctorOutput{Categories: make([]CategoryOutput, 0, len(grouped))}
	for _, cat := range doctor.CategoryOrder {
		if rs, ok := grouped[cat]; ok {
			out.Categories = append(out.Categories, CategoryOutput{Name: cat, Results: rs})
		}
	}

	counts := doctor.CountByStatus(results)
	out.Summary = SummaryOutput{
		Pass:     counts[doctor.StatusPass],
		Warn:     counts[doctor.StatusWarn],
		Fail:     counts[doctor.StatusFail],
		Fixable:  doctor.FixableCount(results),
		AllClear: !doctor.HasIssues(results),
	}
	return out
}

func groupResults(checks []doctor.Check, results []doctor.CheckResult) map[string][]doctor.CheckResult {
	grouped := make(map[string][]doctor.CheckResult)
	for i, check := range checks {
		grouped[check.Category()] = append(grouped[check.Category()], results[i])
	}
	return grouped
}

func renderDoctorText(w io.Writer, checks []doctor.Check, results []doctor.CheckResult, fixed bool) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, ui.BoldStyle.Render("vdash diagnostic report"))
	fmt.Fprintln(w)

	grouped := groupResults(checks, results)
	for _, category := range doctor.CategoryOrder {
		rs, ok := grouped[category]
		if !ok {
			continue
		}
		fmt.Fprintln(w, ui.BoldStyle.Render(category))
		for _, r := range rs {
			renderCheckResult(w, r)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, strings.Repeat("━", 60))
	fmt.Fprintln(w)

	if !doctor.HasIssues(results) {
		fmt.Fprintf(w, "%s %s\n", ui.SuccessStyle.Render(ui.SymbolSuccess), doctor.Summary(results))
	} else {
		fmt.Fprintf(w, "%s %s\n", ui.ErrorStyle.Render(ui.SymbolFail), doctor.Summary(results))
		if doctor.FixableCount(results) > 0 && !fixed {
			fmt.Fprintf(w, "\n  Run with %s to attempt automatic fixes where possible.\n", ui.MutedStyle.Render("--fix"))
		}
	}
	fmt.Fprintln(w)
}

func renderCheckResult(w io.Writer, r doctor.CheckResult) {
	symbol, style := ui.SymbolSuccess, ui.SuccessStyle
	switch r.Status {
	case doctor.StatusWarn:
		symbol, style = ui.SymbolStale, ui.WarningStyle
	case doctor.StatusFail:
		symbol, style = ui.SymbolFail, ui.ErrorStyle
	}

	fmt.Fprintf(w, "  %s %s\n", style.Render(symbol), r.Message)
	if r.Suggestion != "" && r.Status != doctor.StatusPass {
		for _, line := range strings.Split(r.Suggestion, "\n") {
			fmt.Fprintf(w, "    %s\n", ui.MutedStyle.Render(line))
		}
	}
}
