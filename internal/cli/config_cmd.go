package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/vdash/internal/config"
	"github.com/rileyhilliard/vdash/internal/errors"
	"github.com/rileyhilliard/vdash/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value",
	Long: `Set one value in the config file in use, keeping its comments. The
file is only rewritten when the result is valid.

Keys:
  ` + strings.Join(config.SortedSettableKeys(), "\n  ") + `

Examples:
  vdash config set poll.counter_interval 2s
  vdash config set endpoints.trends 'https://${API_ID}.example.com/trends'
  vdash config set metrics.listen :9464`,
	Args: cobra.ExactArgs(2),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return config.SortedSettableKeys(), cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.Find(configFlag)
		if err != nil {
			return err
		}
		return configSetCommand(cmd.OutOrStdout(), path, args[0], args[1])
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective config",
	Long: `Print the config after defaults, the config file, and VDASH_* environment
overrides have been applied.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		return configShowCommand(cmd.OutOrStdout(), a)
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configShowCmd)
}

func configSetCommand(w io.Writer, path, key, value string) error {
	if path == "" {
		return errors.New(errors.ErrConfig,
			"No config file found",
			"Run 'vdash init' to create one, or pass --config")
	}
	if err := config.SetValue(path, key, value); err != nil {
		return err
	}

	if MachineMode() {
		return WriteJSONSuccess(w, map[string]string{"path": path, "key": key, "value": value})
	}
	_, err := fmt.Fprintf(w, "%s Set %s = %s in %s\n", ui.SuccessStyle.Render(ui.SymbolSuccess), key, value, path)
	return err
}

func configShowCommand(w io.Writer, a *app) error {
	if MachineMode() {
		return WriteJSONSuccess(w, map[string]interface{}{"path": a.path, "config": a.cfg})
	}

	source := a.path
	if source == "" {
		source = "built-in defaults"
	}
	if _, err := fmt.Fprintln(w, ui.MutedStyle.Render("# "+source)); err != nil {
		return err
	}

	out, err := yaml.Marshal(a.cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to encode config", "")
	}
	_, err = w.Write(out)
	return err
}
