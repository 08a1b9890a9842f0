package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rileyhilliard/vdash/internal/errors"
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	// Check version
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but vdash only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Grab the latest vdash release, or lower 'version' in .vdash.yaml")
	}

	if err := validateEndpoints(cfg.Endpoints); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'endpoints' section in your .vdash.yaml.")
	}

	if err := validatePoll(cfg.Poll); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'poll' section in your .vdash.yaml.")
	}

	if cfg.HistorySize < 2 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("history_size must be at least 2, got %d", cfg.HistorySize),
			"A sparkline needs two samples. The default is 120.")
	}

	if err := validateOutput(cfg.Output); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'output' section in your .vdash.yaml.")
	}

	return nil
}

func validateEndpoints(e EndpointsConfig) error {
	fields := []struct {
		name  string
		value string
	}{
		{"counter", e.Counter},
		{"trends", e.Trends},
		{"mock", e.Mock},
	}
	for _, f := range fields {
		if err := validateURL(f.name, Expand(f.value)); err != nil {
			return err
		}
	}
	return nil
}

func validateURL(name, raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("endpoint '%s' is empty", name)
	}
	if strings.Contains(raw, "${") {
		return fmt.Errorf("endpoint '%s' references an unset variable: %s", name, raw)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("endpoint '%s' isn't a valid URL: %v", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("endpoint '%s' must use http or https, got %q", name, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("endpoint '%s' has no host: %q", name, raw)
	}
	return nil
}

func validatePoll(p PollConfig) error {
	if err := positive("counter_interval", p.CounterInterval); err != nil {
		return err
	}
	if err := positive("trends_interval", p.TrendsInterval); err != nil {
		return err
	}
	if p.FetchTimeout < 0 {
		return fmt.Errorf("fetch_timeout can't be negative (got %s); use 0 for no timeout", p.FetchTimeout)
	}
	return nil
}

func positive(name string, d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("%s must be greater than zero (got %s)", name, d)
	}
	return nil
}

func validateOutput(o OutputConfig) error {
	switch o.Color {
	case "", "auto", "always", "never":
		return nil
	}
	return fmt.Errorf("output.color must be auto, always, or never (got %q)", o.Color)
}
