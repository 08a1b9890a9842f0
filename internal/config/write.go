package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/vdash/internal/errors"
)

// keyComments annotates the generated default config.
var keyComments = map[string]string{
	"version":            "Config schema version.",
	"endpoints":          "Fixed URLs of the visit counter API. ${VAR} is expanded from the environment.",
	"poll":               "Refresh cadence. A tick is skipped while the previous fetch is still running.",
	"poll.fetch_timeout": "0 waits as long as the connection does.",
	"increment_on_start": "Count this dashboard launch as a visit.",
	"history_size":       "Samples kept for the total-visits sparkline.",
	"metrics":            "Prometheus exporter, e.g. listen: \":9464\". Empty disables it.",
	"output.color":       "auto, always, or never.",
}

// DefaultYAML renders the default config with comments.
func DefaultYAML() ([]byte, error) {
	var doc yaml.Node
	if err := doc.Encode(DefaultConfig()); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig, "Failed to encode default config", "")
	}
	annotate(&doc, "")

	root := &yaml.Node{
		Kind:        yaml.DocumentNode,
		HeadComment: "vdash configuration. See 'vdash config set --help' to change values.",
		Content:     []*yaml.Node{&doc},
	}
	return encode(root)
}

func annotate(node *yaml.Node, prefix string) {
	if node.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i < len(node.Content)-1; i += 2 {
		key := node.Content[i].Value
		if prefix != "" {
			key = prefix + "." + key
		}
		if c, ok := keyComments[key]; ok {
			node.Content[i].HeadComment = c
		}
		annotate(node.Content[i+1], key)
	}
}

// WriteDefault writes the default config to path. An existing file is
// only replaced when force is set.
func WriteDefault(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.New(errors.ErrConfig,
			"Config already exists: "+path,
			"Use --force to overwrite it")
	}

	data, err := DefaultYAML()
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig, "Failed to create config directory", "Check directory permissions")
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to write config file", "Check file permissions")
	}
	return nil
}
