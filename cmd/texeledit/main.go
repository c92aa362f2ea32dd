// Copyright © 2026 Texeledit contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/texeledit/main.go
// Summary: Terminal entry point. Wires config, history and the tty
//          device into an edit session.
// Usage: `texeledit [files...]`, or pipe content: `cmd | texeledit`.

package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/framegrace/texeledit/buffer"
	"github.com/framegrace/texeledit/config"
	"github.com/framegrace/texeledit/editor"
	"github.com/framegrace/texeledit/history"
	"github.com/framegrace/texeledit/term"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	fs := flag.NewFlagSet("texeledit", flag.ContinueOnError)
	tabSize := fs.Int("tabsize", 0, "Tab size in columns (overrides config)")
	undoLimit := fs.Int("undo", -1, "Undo depth (overrides config)")
	noMouse := fs.Bool("no-mouse", false, "Disable mouse reporting")
	logPath := fs.String("log", "", "Append diagnostics to this file")
	configPath := fs.String("config", "", "Config file (default: XDG config dir)")

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	logger := log.New(io.Discard, "", 0)
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
		logger = log.New(f, "texeledit ", log.LstdFlags|log.Lmsgprefix)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Printf("config err=%v, using defaults", err)
	}
	if *tabSize > 0 {
		cfg.TabSize = *tabSize
	}
	if *undoLimit >= 0 {
		cfg.UndoLimit = *undoLimit
	}
	if *noMouse {
		cfg.Mouse = false
	}

	// Piped stdin becomes the initial buffer; the keyboard then has to
	// come from the controlling terminal instead.
	in := os.Stdin
	var piped []string
	if len(fs.Args()) == 0 {
		if st, err := os.Stdin.Stat(); err == nil && st.Mode()&os.ModeCharDevice == 0 {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			piped = splitPiped(string(data))
			tty, err := os.Open("/dev/tty")
			if err != nil {
				return fmt.Errorf("reopen terminal: %w", err)
			}
			defer tty.Close()
			in = tty
		}
	}

	var hist *history.Store
	if histPath, err := cfg.HistoryPath(); err != nil {
		logger.Printf("prompt history disabled err=%v", err)
	} else if hist, err = history.Open(histPath); err != nil {
		logger.Printf("prompt history disabled err=%v", err)
		hist = nil
	}
	defer hist.Close()

	dev := term.OpenPosix(in, os.Stdout)
	if err := dev.EnterRaw(); err != nil {
		return err
	}
	defer dev.LeaveRaw()

	session, err := editor.NewSession(dev, cfg, hist, logger)
	if err != nil {
		return err
	}
	for _, name := range fs.Args() {
		session.OpenFile(name)
	}
	if piped != nil {
		session.OpenLines(piped)
	}

	res, err := session.Run()
	if err != nil {
		return err
	}
	if res.Filename != "" {
		logger.Printf("session end file=%s", res.Filename)
	} else {
		logger.Printf("session end lines=%d", len(res.Lines))
	}
	return nil
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// splitPiped turns raw piped input into normalized buffer lines.
func splitPiped(data string) []string {
	lines := strings.Split(data, "\n")
	if len(lines) > 1 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i := range lines {
		lines[i] = buffer.NormalizeLine(lines[i])
	}
	return lines
}
