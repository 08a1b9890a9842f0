package config

import (
	"time"

	"github.com/rileyhilliard/vdash/internal/source"
	"github.com/rileyhilliard/vdash/internal/visits"
)

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete .vdash.yaml configuration file.
type Config struct {
	Version          int             `yaml:"version" mapstructure:"version"`
	Endpoints        EndpointsConfig `yaml:"endpoints" mapstructure:"endpoints"`
	Poll             PollConfig      `yaml:"poll" mapstructure:"poll"`
	IncrementOnStart bool            `yaml:"increment_on_start" mapstructure:"increment_on_start"`
	HistorySize      int             `yaml:"history_size" mapstructure:"history_size"`
	Metrics          MetricsConfig   `yaml:"metrics" mapstructure:"metrics"`
	Output           OutputConfig    `yaml:"output" mapstructure:"output"`
}

// EndpointsConfig holds the fixed URL of each resource.
// Values support ${VAR} expansion from the environment.
type EndpointsConfig struct {
	Counter string `yaml:"counter" mapstructure:"counter"`
	Trends  string `yaml:"trends" mapstructure:"trends"`
	Mock    string `yaml:"mock" mapstructure:"mock"`
}

// PollConfig controls refresh cadence.
type PollConfig struct {
	// CounterInterval is how often the counter is refetched.
	CounterInterval time.Duration `yaml:"counter_interval" mapstructure:"counter_interval"`

	// TrendsInterval is how often the trend series is refetched.
	TrendsInterval time.Duration `yaml:"trends_interval" mapstructure:"trends_interval"`

	// FetchTimeout bounds a single fetch. Zero waits as long as the
	// transport does.
	FetchTimeout time.Duration `yaml:"fetch_timeout" mapstructure:"fetch_timeout"`
}

// MetricsConfig controls the Prometheus exporter.
type MetricsConfig struct {
	// Listen is the exporter address, e.g. ":9464". Empty disables it.
	Listen string `yaml:"listen" mapstructure:"listen"`
}

// OutputConfig controls terminal output formatting.
type OutputConfig struct {
	// Color mode: "auto", "always", or "never".
	// "auto" disables color when output is piped.
	Color string `yaml:"color" mapstructure:"color"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	defaults := source.DefaultEndpoints()
	return &Config{
		Version: CurrentConfigVersion,
		Endpoints: EndpointsConfig{
			Counter: defaults[source.Counter],
			Trends:  defaults[source.Trends],
			Mock:    defaults[source.Mock],
		},
		Poll: PollConfig{
			CounterInterval: time.Second,
			TrendsInterval:  500 * time.Millisecond,
		},
		IncrementOnStart: true,
		HistorySize:      visits.DefaultHistorySize,
		Output: OutputConfig{
			Color: "auto",
		},
	}
}

// SourceEndpoints converts the configured URLs for the source client,
// expanding environment variables.
func (c *Config) SourceEndpoints() source.Endpoints {
	return source.Endpoints{
		source.Counter: Expand(c.Endpoints.Counter),
		source.Trends:  Expand(c.Endpoints.Trends),
		source.Mock:    Expand(c.Endpoints.Mock),
	}
}
