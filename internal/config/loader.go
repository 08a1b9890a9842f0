package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/rileyhilliard/vdash/internal/errors"
)

const (
	// ConfigFileName is the default config file name.
	ConfigFileName = ".vdash.yaml"
	// GlobalConfigDir is the directory for global config.
	GlobalConfigDir = ".config/vdash"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix prefixes environment overrides, e.g. VDASH_POLL_COUNTER_INTERVAL.
	EnvPrefix = "VDASH"
)

// Load reads config from the specified path.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'vdash init' to create a config file, or specify one with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return parseConfig(v, path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. .vdash.yaml in current directory
// 3. .vdash.yaml in parent directories (stops at git root or home)
// 4. ~/.config/vdash/config.yaml (global defaults)
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	// 1. Explicit path takes precedence
	if explicit != "" {
		explicit = ExpandTilde(explicit)
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	// 2. Current directory
	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	if _, err := os.Stat(filepath.Join(cwd, ConfigFileName)); err == nil {
		return filepath.Join(cwd, ConfigFileName), nil
	}

	// 3. Walk up to parent directories
	home, _ := os.UserHomeDir()
	if !isGitRoot(cwd) {
		if found := searchParents(cwd, home); found != "" {
			return found, nil
		}
	}

	// 4. Global config
	if home != "" {
		globalConfig := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		if _, err := os.Stat(globalConfig); err == nil {
			return globalConfig, nil
		}
	}

	return "", nil
}

// searchParents walks up from dir looking for ConfigFileName. It stops
// after checking a git root, and never climbs above home.
func searchParents(dir, home string) string {
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return ""
		}
		if home != "" && parent == home {
			// Don't go above home directory
			return ""
		}
		dir = parent

		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		if isGitRoot(dir) {
			return ""
		}
	}
}

// LoadOrDefault finds and loads config, honoring an explicit path. It
// returns defaults when no file exists. The result is validated.
func LoadOrDefault(explicit string) (*Config, string, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}

	var cfg *Config
	if path == "" {
		cfg, err = parseConfig(newViper(), "")
	} else {
		cfg, err = Load(path)
	}
	if err != nil {
		return nil, path, err
	}

	if err := Validate(cfg); err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		where := "your config"
		if path != "" {
			where = path
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax and duration values (like 500ms or 2s) in "+where)
	}

	return cfg, nil
}

// setDefaults registers every key so environment overrides apply even
// when the file doesn't mention them.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("version", d.Version)
	v.SetDefault("endpoints.counter", d.Endpoints.Counter)
	v.SetDefault("endpoints.trends", d.Endpoints.Trends)
	v.SetDefault("endpoints.mock", d.Endpoints.Mock)
	v.SetDefault("poll.counter_interval", d.Poll.CounterInterval.String())
	v.SetDefault("poll.trends_interval", d.Poll.TrendsInterval.String())
	v.SetDefault("poll.fetch_timeout", d.Poll.FetchTimeout.String())
	v.SetDefault("increment_on_start", d.IncrementOnStart)
	v.SetDefault("history_size", d.HistorySize)
	v.SetDefault("metrics.listen", d.Metrics.Listen)
	v.SetDefault("output.color", d.Output.Color)
}

// isGitRoot checks if a directory is a git repository root.
func isGitRoot(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ".git"))
	if err != nil {
		return false
	}
	return info.IsDir()
}
