package cli

import (
	"github.com/rileyhilliard/vdash/internal/config"
	"github.com/rileyhilliard/vdash/internal/logger"
	"github.com/rileyhilliard/vdash/internal/source"
	"github.com/rileyhilliard/vdash/internal/ui"
)

// app bundles the resolved config and the API client shared by commands.
type app struct {
	cfg    *config.Config
	path   string // config file in use; "" when running on defaults
	client *source.HTTPClient
	log    logger.Logger
}

// loadApp resolves and validates the config, applies the global flag
// overrides, and builds the API client.
func loadApp() (*app, error) {
	cfg, path, err := config.LoadOrDefault(configFlag)
	if err != nil {
		return nil, err
	}
	if metricsListenFlag != "" {
		cfg.Metrics.Listen = metricsListenFlag
	}
	ui.ApplyColorMode(cfg.Output.Color, noColorFlag)

	log := logger.NewEnvLogger("[vdash]")
	if path != "" {
		log.Debug("using config %s", path)
	}

	client := source.NewHTTPClient(cfg.SourceEndpoints(),
		source.WithLogger(logger.NewEnvLogger("[source]")),
		source.WithUserAgent(userAgent()))

	return &app{cfg: cfg, path: path, client: client, log: log}, nil
}
