// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// DirName is the directory under the XDG config home that holds the
// config file.
const DirName = "claude-sandbox"

// fileNames are tried in order inside the config directory.
var fileNames = []string{"config.json", "config.jsonc", "config.yaml", "config.yml"}

// Capabilities are the resolved capability flags. Every field defaults
// to false.
type Capabilities struct {
	// SSHAgent exposes the host SSH agent socket and stages known
	// hosts, public keys, and the client config.
	SSHAgent bool

	// GPGAgent exposes the gpg-agent socket directory only.
	GPGAgent bool

	// GitConfig binds the global git configuration read-only.
	GitConfig bool

	// XDGRuntime binds the whole per-user runtime directory read-only.
	// It supersedes the narrower SSH/GPG socket binds.
	XDGRuntime bool

	// IDE relays the editor integration's auth token.
	IDE bool
}

// Layer is one configuration source. A nil field is "unspecified" and
// defers to the next layer.
type Layer struct {
	SSHAgent   *bool `json:"ssh_agent,omitempty" yaml:"ssh_agent,omitempty"`
	GPGAgent   *bool `json:"gpg_agent,omitempty" yaml:"gpg_agent,omitempty"`
	GitConfig  *bool `json:"git_config,omitempty" yaml:"git_config,omitempty"`
	XDGRuntime *bool `json:"xdg_runtime,omitempty" yaml:"xdg_runtime,omitempty"`
	IDE        *bool `json:"ide,omitempty" yaml:"ide,omitempty"`
}

// Source identifies which layer supplied a resolved value.
type Source string

const (
	SourceCLI     Source = "cli"
	SourceFile    Source = "file"
	SourceDefault Source = "default"
)

// Field names, shared by Resolved.Sources and the CLI flag names.
const (
	FieldSSHAgent   = "ssh-agent"
	FieldGPGAgent   = "gpg-agent"
	FieldGitConfig  = "git-config"
	FieldXDGRuntime = "xdg-runtime"
	FieldIDE        = "ide"
)

// Fields lists every capability field in display order.
var Fields = []string{FieldSSHAgent, FieldGPGAgent, FieldGitConfig, FieldXDGRuntime, FieldIDE}

// Resolved is the merged configuration plus the provenance of each
// field.
type Resolved struct {
	Capabilities Capabilities

	// Sources maps each entry of Fields to the layer that supplied it.
	Sources map[string]Source
}

// Default returns the built-in defaults: every integration disabled.
func Default() Capabilities {
	return Capabilities{}
}

// Bool returns a pointer to value, for building layers in code.
func Bool(value bool) *bool {
	return &value
}

// Resolve merges the layers field by field. The first layer that
// specifies a field wins: cli, then file, then defaults.
func Resolve(cli, file Layer, defaults Capabilities) Resolved {
	resolved := Resolved{Sources: make(map[string]Source, len(Fields))}

	pick := func(field string, cliValue, fileValue *bool, fallback bool) bool {
		switch {
		case cliValue != nil:
			resolved.Sources[field] = SourceCLI
			return *cliValue
		case fileValue != nil:
			resolved.Sources[field] = SourceFile
			return *fileValue
		default:
			resolved.Sources[field] = SourceDefault
			return fallback
		}
	}

	resolved.Capabilities = Capabilities{
		SSHAgent:   pick(FieldSSHAgent, cli.SSHAgent, file.SSHAgent, defaults.SSHAgent),
		GPGAgent:   pick(FieldGPGAgent, cli.GPGAgent, file.GPGAgent, defaults.GPGAgent),
		GitConfig:  pick(FieldGitConfig, cli.GitConfig, file.GitConfig, defaults.GitConfig),
		XDGRuntime: pick(FieldXDGRuntime, cli.XDGRuntime, file.XDGRuntime, defaults.XDGRuntime),
		IDE:        pick(FieldIDE, cli.IDE, file.IDE, defaults.IDE),
	}
	return resolved
}

// Value returns the resolved value of a named field.
func (c Capabilities) Value(field string) (bool, error) {
	switch field {
	case FieldSSHAgent:
		return c.SSHAgent, nil
	case FieldGPGAgent:
		return c.GPGAgent, nil
	case FieldGitConfig:
		return c.GitConfig, nil
	case FieldXDGRuntime:
		return c.XDGRuntime, nil
	case FieldIDE:
		return c.IDE, nil
	}
	return false, fmt.Errorf("unknown capability %q", field)
}

// Dir returns the config directory under configHome, which is
// $XDG_CONFIG_HOME defaulting to ~/.config (credential.Host.ConfigHome).
func Dir(configHome string) string {
	return filepath.Join(configHome, DirName)
}

// DefaultPath returns the first existing config file in Dir, or the
// path of the preferred name (config.json) when none exists. Returns ""
// when configHome is unknown.
func DefaultPath(configHome string) string {
	if configHome == "" {
		return ""
	}
	dir := Dir(configHome)
	for _, name := range fileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return filepath.Join(dir, fileNames[0])
}

// LoadFile reads one config file. A missing file is not an error and
// yields an empty Layer.
func LoadFile(path string) (Layer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Layer{}, nil
		}
		return Layer{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var layer Layer
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &layer); err != nil {
			return Layer{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		if len(strings.TrimSpace(string(data))) == 0 {
			return Layer{}, nil
		}
		if err := json.Unmarshal(jsonc.ToJSON(data), &layer); err != nil {
			return Layer{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	return layer, nil
}

// Load returns the file layer. explicitPath comes from --config; when
// empty, DefaultPath(configHome) is used. Failures are logged and
// produce an empty layer: a broken config file never aborts a launch.
func Load(explicitPath, configHome string, logger *slog.Logger) Layer {
	if logger == nil {
		logger = slog.Default()
	}

	path := explicitPath
	if path == "" {
		path = DefaultPath(configHome)
		if path == "" {
			logger.Debug("no config home, using defaults")
			return Layer{}
		}
	} else if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		logger.Warn("config file not found, using defaults", "path", path)
		return Layer{}
	}

	layer, err := LoadFile(path)
	if err != nil {
		logger.Warn("ignoring unreadable config file, using defaults",
			"path", path,
			"error", err,
		)
		return Layer{}
	}
	logger.Debug("loaded config file", "path", path)
	return layer
}
