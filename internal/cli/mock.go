package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rileyhilliard/vdash/internal/errors"
	"github.com/rileyhilliard/vdash/internal/source"
	"github.com/rileyhilliard/vdash/internal/ui"
	"github.com/rileyhilliard/vdash/internal/util"
	"github.com/rileyhilliard/vdash/internal/visits"
)

// Command-specific flags
var (
	mockDateFlag   string
	mockVisitsFlag int64
)

// stdinIsTerminal is replaced in tests.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Seed visits for a date",
	Long: `Add visits to a day through the API's mock endpoint. The backend adds
the same amount to the running total, so the dashboard picks it up on the
next poll.

Missing flags are prompted for when stdin is a terminal.

Examples:
  vdash mock --date 2024-05-01 --visits 25
  vdash mock`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		date, n := mockDateFlag, mockVisitsFlag
		if date == "" || n == 0 {
			if !stdinIsTerminal() {
				return errors.New(errors.ErrConfig,
					"--date and --visits are required",
					"Example: vdash mock --date 2024-05-01 --visits 25")
			}
			var err error
			if date, n, err = promptMock(date, n); err != nil {
				return err
			}
		}

		a, err := loadApp()
		if err != nil {
			return err
		}
		if err := validateMock(date, n); err != nil {
			return err
		}
		return withSpinner(fmt.Sprintf("Seeding %s", date), false, func() error {
			return mockCommand(cmd.Context(), cmd.OutOrStdout(), a.client, date, n)
		})
	},
}

func init() {
	mockCmd.Flags().StringVar(&mockDateFlag, "date", "", "day to seed, YYYY-MM-DD")
	mockCmd.Flags().Int64Var(&mockVisitsFlag, "visits", 0, "visits to add (positive)")
}

// seeder is the part of the API client the mock command needs.
type seeder interface {
	SeedDay(ctx context.Context, date string, visits int64) (*source.MockResult, error)
}

func mockCommand(ctx context.Context, w io.Writer, s seeder, date string, n int64) error {
	if err := validateMock(date, n); err != nil {
		return err
	}

	res, err := s.SeedDay(ctx, date, n)
	if err != nil {
		return err
	}

	if MachineMode() {
		return WriteJSONSuccess(w, res)
	}
	_, err = fmt.Fprintf(w, "%s Added %s visits to %s (total now %s)\n",
		ui.SuccessStyle.Render(ui.SymbolSuccess),
		util.FormatCount(res.Visits), res.Date, util.FormatCount(res.TotalVisits))
	return err
}

// validateMock checks the request before it is sent; the backend rejects
// the same inputs with a bare 400.
func validateMock(date string, n int64) error {
	if !visits.ValidDate(date) {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("'%s' isn't a YYYY-MM-DD date", date),
			"Example: --date "+time.Now().Format("2006-01-02"))
	}
	if n <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("--visits must be positive (got %d)", n),
			"Pass the number of visits to add, e.g. --visits 25")
	}
	return nil
}

// promptMock asks for whichever of date and visits is missing.
func promptMock(date string, n int64) (string, int64, error) {
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	count := ""
	if n != 0 {
		count = strconv.FormatInt(n, 10)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Date").
				Description("Day to add visits to (YYYY-MM-DD)").
				Value(&date).
				Validate(func(s string) error {
					if !visits.ValidDate(strings.TrimSpace(s)) {
						return fmt.Errorf("use YYYY-MM-DD")
					}
					return nil
				}),
			huh.NewInput().
				Title("Visits").
				Description("How many visits to add").
				Placeholder("25").
				Value(&count).
				Validate(func(s string) error {
					v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
					if err != nil || v <= 0 {
						return fmt.Errorf("enter a positive number")
					}
					return nil
				}),
		),
	)

	if err := form.Run(); err != nil {
		return "", 0, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Pass --date and --visits instead")
	}

	v, _ := strconv.ParseInt(strings.TrimSpace(count), 10, 64)
	return strings.TrimSpace(date), v, nil
}
