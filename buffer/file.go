// Copyright © 2026 Texeledit contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: buffer/file.go
// Summary: Plain-text load/save with tab normalization and atomic writes.
// Notes: Saves go to a temp file in the target directory and are renamed
//        into place, so a failed save never touches the original.

package buffer

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// tabStop is the fixed stop width used when expanding tabs on load and
// re-packing trailing spaces on save.
const tabStop = 8

// NormalizeLine strips trailing CR/LF/tab/space and expands tabs to
// 8-column stops, the transformation applied to every loaded line.
func NormalizeLine(s string) string {
	return ExpandTabs(strings.TrimRight(s, "\r\n\t "))
}

// ExpandTabs replaces tabs with spaces up to the next 8-column stop.
func ExpandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var sb strings.Builder
	pos := 0
	for _, r := range s {
		if r == '\t' {
			n := tabStop - pos%tabStop
			sb.WriteString(strings.Repeat(" ", n))
			pos += n
		} else {
			sb.WriteRune(r)
			pos++
		}
	}
	return sb.String()
}

// PackTabs re-collapses runs of trailing spaces inside each 8-column chunk
// back into a tab character, the inverse of ExpandTabs for save.
func PackTabs(s string) string {
	var sb strings.Builder
	runes := []rune(s)
	for i := 0; i < len(runes); i += tabStop {
		end := i + tabStop
		if end > len(runes) {
			end = len(runes)
		}
		chunk := string(runes[i:end])
		trimmed := strings.TrimRight(chunk, " ")
		if trimmed != chunk {
			sb.WriteString(trimmed)
			sb.WriteByte('\t')
		} else {
			sb.WriteString(chunk)
		}
	}
	return sb.String()
}

// LoadFile reads the named file into the buffer. On failure the buffer
// holds a single empty line and the error is returned for the status
// line; the filename sticks either way so a later save lands there.
func (b *Buffer) LoadFile(name string) error {
	b.Filename = name
	data, err := os.ReadFile(name)
	if err != nil {
		b.SetLines(nil)
		return fmt.Errorf("open %s: %w", name, err)
	}
	lines := strings.Split(string(data), "\n")
	if len(lines) > 1 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i := range lines {
		lines[i] = NormalizeLine(lines[i])
	}
	b.SetLines(lines)
	return nil
}

// SaveFile writes the buffer to the named file: temp file in the same
// directory, flush, sync, then rename over the target.
func (b *Buffer) SaveFile(name string) error {
	dir := filepath.Dir(name)
	tmp, err := os.CreateTemp(dir, ".texeledit-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if fi, statErr := os.Stat(name); statErr == nil {
		if err := tmp.Chmod(fi.Mode()); err != nil {
			cleanup()
			return fmt.Errorf("preserve mode: %w", err)
		}
	}

	w := bufio.NewWriter(tmp)
	for _, line := range b.Lines {
		if b.WriteTabs {
			line = PackTabs(line)
		}
		if _, err := w.WriteString(line); err != nil {
			cleanup()
			return fmt.Errorf("write %s: %w", name, err)
		}
		if err := w.WriteByte('\n'); err != nil {
			cleanup()
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	if err := w.Flush(); err != nil {
		cleanup()
		return fmt.Errorf("flush %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("sync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, name); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
