// Copyright © 2026 Texeledit contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/config_test.go
// Summary: Tests for config defaults and round-trips.

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.TabSize != 4 || !cfg.AutoIndent || cfg.UndoLimit != 500 || !cfg.Mouse {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.CaseSensitive || cfg.WriteTabs {
		t.Errorf("case/write-tabs must default off: %+v", cfg)
	}
}

func TestLoadMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg != Default() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "texeledit.json")
	want := Config{
		TabSize:       8,
		AutoIndent:    false,
		CaseSensitive: true,
		WriteTabs:     true,
		UndoLimit:     42,
		Mouse:         false,
		HistoryDB:     "/tmp/h.db",
	}
	if err := want.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got != want {
		t.Errorf("round trip: %+v != %+v", got, want)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"tab_size": -1, "undo_limit": -5}`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.TabSize != 4 {
		t.Errorf("tab size = %d, want default 4", cfg.TabSize)
	}
	if cfg.UndoLimit != 0 {
		t.Errorf("undo limit = %d, want clamped 0", cfg.UndoLimit)
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{nope"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFrom(path)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if cfg != Default() {
		t.Errorf("malformed config must fall back to defaults, got %+v", cfg)
	}
}

func TestHistoryPathOverride(t *testing.T) {
	cfg := Default()
	cfg.HistoryDB = "/custom/h.db"
	p, err := cfg.HistoryPath()
	if err != nil || p != "/custom/h.db" {
		t.Errorf("HistoryPath = %q, %v", p, err)
	}
}
