// Copyright © 2026 Texeledit contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: screen/screen.go
// Summary: Differential screen renderer: repaints only changed rows.
// Usage: One Screen per session; Draw after every key, Invalidate on resize.
// Notes: The per-row cache holds (highlight, visible text); a draw writes a
//        row only when its cell differs from the cached one, which keeps
//        output bandwidth low on serial links.

package screen

import (
	"fmt"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/framegrace/texeledit/buffer"
	"github.com/framegrace/texeledit/term"
)

// cell is the remembered content of one screen row.
type cell struct {
	hilite bool
	text   string
}

// invalid is a sentinel no real row can equal, forcing a repaint.
var invalid = cell{text: "\x00"}

// Screen renders a buffer viewport through a VT emitter.
type Screen struct {
	vt     *term.VT
	width  int
	height int // text rows; the status line sits on row height
	cells  []cell
	obs    Observer
}

// New creates a renderer for a window of width columns and height text
// rows (the status line occupies one further row).
func New(vt *term.VT, width, height int) *Screen {
	s := &Screen{vt: vt, width: width, height: height}
	s.cells = make([]cell, height)
	s.Invalidate()
	return s
}

// Width returns the window width in columns.
func (s *Screen) Width() int { return s.width }

// Height returns the number of text rows.
func (s *Screen) Height() int { return s.height }

// SetObserver installs a draw metrics observer.
func (s *Screen) SetObserver(obs Observer) { s.obs = obs }

// Resize adjusts the window and forces a full repaint.
func (s *Screen) Resize(width, height int) {
	s.width = width
	s.height = height
	s.cells = make([]cell, height)
	s.Invalidate()
}

// Invalidate resets every cached cell so the next draw repaints all rows.
func (s *Screen) Invalidate() {
	for i := range s.cells {
		s.cells[i] = invalid
	}
}

// ScrollUp shifts the cache down by n rows and lets the terminal move the
// existing rows with reverse-index controls, so only the rows entering the
// window need a repaint.
func (s *Screen) ScrollUp(n int) {
	if n <= 0 || n >= len(s.cells) {
		s.Invalidate()
		return
	}
	copy(s.cells[n:], s.cells[:len(s.cells)-n])
	for i := 0; i < n; i++ {
		s.cells[i] = invalid
	}
	s.vt.ScrollUpLines(n)
}

// ScrollDown is the mirror of ScrollUp for forward scrolling.
func (s *Screen) ScrollDown(n int) {
	if n <= 0 || n >= len(s.cells) {
		s.Invalidate()
		return
	}
	copy(s.cells, s.cells[n:])
	for i := len(s.cells) - n; i < len(s.cells); i++ {
		s.cells[i] = invalid
	}
	s.vt.ScrollDownLines(s.height-1, n)
}

// Draw reframes the buffer, repaints changed rows and the status line, and
// parks the cursor at its buffer position.
func (s *Screen) Draw(b *buffer.Buffer, message string) {
	start := time.Now()
	startBytes := s.vt.BytesWritten()
	rows := 0

	b.Reframe(s.width, s.height)

	s.vt.ShowCursor(false)
	for r := 0; r < s.height; r++ {
		i := b.Top + r
		var next cell
		if i < b.LineCount() {
			next = cell{
				hilite: b.InRange(i),
				text:   visibleSlice(b.Lines[i], b.Margin, s.width),
			}
		}
		if next == s.cells[r] {
			continue
		}
		s.vt.Goto(r, 0)
		if next.hilite {
			s.vt.Hilite(term.HiliteMark)
		}
		s.vt.WriteString(next.text)
		if runewidth.StringWidth(next.text) < s.width {
			s.vt.ClearToEOL()
		}
		if next.hilite {
			s.vt.Hilite(term.HiliteOff)
		}
		s.cells[r] = next
		rows++
	}

	s.drawStatus(b, message)
	s.vt.Goto(b.Row, b.Col-b.Margin)
	s.vt.ShowCursor(true)

	if s.obs != nil {
		s.obs.ObserveDraw(rows, int(s.vt.BytesWritten()-startBytes), time.Since(start))
	}
}

// drawStatus repaints the status line unconditionally.
func (s *Screen) drawStatus(b *buffer.Buffer, message string) {
	s.vt.Goto(s.height, 0)
	s.vt.Hilite(term.HiliteStatus)
	budget := s.width - 25 - len(b.Filename)
	if budget < 0 {
		budget = 0
	}
	status := fmt.Sprintf("%s%s Row: %d/%d Col: %d  %s",
		b.StatusFlag(), b.Filename, b.Cur+1, b.LineCount(), b.Col+1,
		runewidth.Truncate(message, budget, ""))
	s.vt.WriteString(runewidth.Truncate(status, s.width, ""))
	s.vt.ClearToEOL()
	s.vt.Hilite(term.HiliteOff)
}

// visibleSlice returns the window [margin, margin+width) of line in rune
// columns, trimmed so a trailing wide rune never crosses the right edge.
func visibleSlice(line string, margin, width int) string {
	runes := []rune(line)
	if margin >= len(runes) {
		return ""
	}
	end := margin + width
	if end > len(runes) {
		end = len(runes)
	}
	return runewidth.Truncate(string(runes[margin:end]), width, "")
}
