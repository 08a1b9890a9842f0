package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/vdash/internal/config"
	"github.com/rileyhilliard/vdash/internal/errors"
	"github.com/rileyhilliard/vdash/internal/ui"
)

// Command-specific flags
var (
	initForce  bool
	initGlobal bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default .vdash.yaml",
	Long: `Create a commented config file with the default endpoints and poll
intervals.

Examples:
  vdash init
  vdash init --global   # ~/.config/vdash/config.yaml
  vdash init --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := filepath.Join(".", config.ConfigFileName)
		if initGlobal {
			path = filepath.Join(config.ExpandTilde("~"), config.GlobalConfigDir, config.GlobalConfigFile)
		}
		return initCommand(cmd.OutOrStdout(), path, initForce, stdinIsTerminal())
	},
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")
	initCmd.Flags().BoolVar(&initGlobal, "global", false, "write the global config instead")
}

// initCommand writes the default config to path. An existing file is
// replaced with force, or after confirmation when interactive.
func initCommand(w io.Writer, path string, force, interactive bool) error {
	if _, err := os.Stat(path); err == nil && !force && interactive {
		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", path)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			_, err := fmt.Fprintln(w, "Cancelled.")
			return err
		}
		force = true
	}

	if err := config.WriteDefault(path, force); err != nil {
		return err
	}

	if MachineMode() {
		return WriteJSONSuccess(w, map[string]string{"path": path})
	}
	_, err := fmt.Fprintf(w, "%s Wrote %s\n", ui.SuccessStyle.Render(ui.SymbolSuccess), path)
	return err
}
