package config

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/vdash/internal/errors"
)

// SettableKeys lists the dotted keys accepted by SetValue.
var SettableKeys = map[string]bool{
	"endpoints.counter":     true,
	"endpoints.trends":      true,
	"endpoints.mock":        true,
	"poll.counter_interval": true,
	"poll.trends_interval":  true,
	"poll.fetch_timeout":    true,
	"increment_on_start":    true,
	"history_size":          true,
	"metrics.listen":        true,
	"output.color":          true,
}

// SortedSettableKeys returns SettableKeys in a stable order for help text.
func SortedSettableKeys() []string {
	keys := make([]string, 0, len(SettableKeys))
	for k := range SettableKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SetValue sets a dotted key in the config file, preserving the existing
// YAML structure and comments. The file is only rewritten when the
// result still validates.
func SetValue(configPath, key, value string) error {
	if !SettableKeys[key] {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown config key '%s'", key),
			"Settable keys: "+strings.Join(SortedSettableKeys(), ", "))
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Run 'vdash init' to create one")
	}

	// Parse as yaml.Node to preserve structure
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to parse config file", "Check the YAML syntax")
	}
	if root.Kind == 0 {
		// Empty file
		root = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}}
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return errors.New(errors.ErrConfig, "Invalid YAML document structure", "")
	}

	node := root.Content[0]
	if node.Kind != yaml.MappingNode {
		return errors.New(errors.ErrConfig, "Expected a mapping at the top of the config file", "")
	}

	parts := strings.Split(key, ".")
	for _, part := range parts[:len(parts)-1] {
		child := findMapValue(node, part)
		if child == nil {
			child = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			node.Content = append(node.Content, scalar(part), child)
		}
		if child.Kind != yaml.MappingNode {
			return errors.New(errors.ErrConfig, fmt.Sprintf("'%s' is not a section", part), "")
		}
		node = child
	}

	leaf := parts[len(parts)-1]
	if existing := findMapValue(node, leaf); existing != nil {
		existing.Kind = yaml.ScalarNode
		existing.Tag = ""
		existing.Value = value
		existing.Style = 0
		existing.Content = nil
	} else {
		node.Content = append(node.Content, scalar(leaf), &yaml.Node{Kind: yaml.ScalarNode, Value: value})
	}

	out, err := encode(&root)
	if err != nil {
		return err
	}

	// Make sure the edit still produces a loadable config before writing.
	v := newViper()
	if err := v.ReadConfig(bytes.NewReader(out)); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Edited config is not valid YAML", "")
	}
	cfg, err := parseConfig(v, configPath)
	if err != nil {
		return err
	}
	if err := Validate(cfg); err != nil {
		return err
	}

	if err := os.WriteFile(configPath, out, 0644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to write config file", "Check file permissions")
	}
	return nil
}

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

func encode(root *yaml.Node) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(root); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig, "Failed to encode config", "")
	}
	if err := encoder.Close(); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig, "Failed to encode config", "")
	}
	return buf.Bytes(), nil
}

// findMapValue finds a value in a mapping node by key name.
func findMapValue(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i < len(node.Content)-1; i += 2 {
		keyNode := node.Content[i]
		valueNode := node.Content[i+1]

		if keyNode.Kind == yaml.ScalarNode && keyNode.Value == key {
			return valueNode
		}
	}

	return nil
}
