// Copyright © 2026 Texeledit contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/config.go
// Summary: Editor configuration store (texeledit.json).

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (
	configName  = "texeledit/texeledit.json"
	historyName = "texeledit/history.db"
)

// Config holds the editor defaults. New buffers start from these values;
// the in-session settings prompt changes one buffer only.
type Config struct {
	TabSize       int    `json:"tab_size"`
	AutoIndent    bool   `json:"auto_indent"`
	CaseSensitive bool   `json:"case_sensitive"`
	WriteTabs     bool   `json:"write_tabs"`
	UndoLimit     int    `json:"undo_limit"`
	Mouse         bool   `json:"mouse"`
	HistoryDB     string `json:"history_db"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		TabSize:    4,
		AutoIndent: true,
		UndoLimit:  500,
		Mouse:      true,
	}
}

// Path returns the config file location under the XDG config home.
func Path() (string, error) {
	return xdg.ConfigFile(configName)
}

// HistoryPath returns the prompt-history database location. An explicit
// value in the config wins; otherwise the XDG state home is used.
func (c Config) HistoryPath() (string, error) {
	if c.HistoryDB != "" {
		return c.HistoryDB, nil
	}
	return xdg.StateFile(historyName)
}

// Load reads the config file, returning defaults when it does not exist.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), fmt.Errorf("resolve config path: %w", err)
	}
	return LoadFrom(path)
}

// LoadFrom reads a config file from an explicit path.
func LoadFrom(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config: %w", err)
	}
	if cfg.TabSize <= 0 {
		cfg.TabSize = Default().TabSize
	}
	if cfg.UndoLimit < 0 {
		cfg.UndoLimit = 0
	}
	return cfg, nil
}

// Save persists the config to the default location.
func (c Config) Save() error {
	path, err := Path()
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}
	return c.SaveTo(path)
}

// SaveTo persists the config to an explicit path.
func (c Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
