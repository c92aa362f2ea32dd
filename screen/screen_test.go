// Copyright © 2026 Texeledit contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: screen/screen_test.go
// Summary: Tests for the differential repaint behavior.

package screen

import (
	"strings"
	"testing"

	"github.com/framegrace/texeledit/buffer"
	"github.com/framegrace/texeledit/term"
)

func newTestScreen(rows, cols int) (*Screen, *term.Sim) {
	sim := term.NewSim(rows, cols)
	vt := term.NewVT(sim)
	// One row is reserved for the status line.
	return New(vt, cols, rows-1), sim
}

func testBuffer(lines ...string) *buffer.Buffer {
	b := buffer.New(4, 50)
	b.SetLines(lines)
	return b
}

func TestFirstDrawPaintsContent(t *testing.T) {
	s, sim := newTestScreen(24, 80)
	b := testBuffer("hello", "world")
	s.Draw(b, "")
	out := sim.Output()
	for _, want := range []string{"hello", "world", "Row: 1/2", "\x1b[?25l", "\x1b[?25h"} {
		if !strings.Contains(out, want) {
			t.Errorf("first draw missing %q\noutput: %q", want, out)
		}
	}
}

// The second draw of identical state must not repaint any text row; only
// the status line and cursor positioning are re-emitted.
func TestUnchangedRowsSkipped(t *testing.T) {
	s, sim := newTestScreen(24, 80)
	b := testBuffer("hello", "world")
	s.Draw(b, "")
	sim.ResetOutput()
	s.Draw(b, "")
	out := sim.Output()
	if strings.Contains(out, "hello") || strings.Contains(out, "world") {
		t.Errorf("unchanged rows repainted: %q", out)
	}
	if !strings.Contains(out, "Row: 1/2") {
		t.Errorf("status line not repainted: %q", out)
	}
}

func TestChangedRowRepainted(t *testing.T) {
	s, sim := newTestScreen(24, 80)
	b := testBuffer("hello", "world")
	s.Draw(b, "")
	sim.ResetOutput()
	b.Lines[1] = "WORLD"
	s.Draw(b, "")
	out := sim.Output()
	if strings.Contains(out, "hello") {
		t.Errorf("unchanged row repainted: %q", out)
	}
	if !strings.Contains(out, "WORLD") {
		t.Errorf("changed row not repainted: %q", out)
	}
}

func TestMarkHighlight(t *testing.T) {
	s, sim := newTestScreen(24, 80)
	b := testBuffer("one", "two", "three")
	b.Mark = 0
	b.Cur = 1
	s.Draw(b, "")
	out := sim.Output()
	if !strings.Contains(out, "\x1b[43m") {
		t.Errorf("mark highlight missing: %q", out)
	}
	// Row "three" is outside the selection and must be plain.
	if strings.Contains(out, "\x1b[43mthree") {
		t.Errorf("unselected row highlighted: %q", out)
	}
}

func TestInvalidateForcesRepaint(t *testing.T) {
	s, sim := newTestScreen(24, 80)
	b := testBuffer("persistent")
	s.Draw(b, "")
	sim.ResetOutput()
	s.Invalidate()
	s.Draw(b, "")
	if !strings.Contains(sim.Output(), "persistent") {
		t.Error("invalidate did not force a repaint")
	}
}

func TestHorizontalWindow(t *testing.T) {
	s, sim := newTestScreen(24, 10)
	long := "0123456789abcdefghij"
	b := testBuffer(long)
	b.Col = 15
	s.Draw(b, "")
	out := sim.Output()
	// Margin jumps to col-width+width/4 = 7; the window shows 7..17.
	if !strings.Contains(out, "789abcdefg") {
		t.Errorf("window slice missing: %q", out)
	}
	if strings.Contains(out, "01234") {
		t.Errorf("scrolled-out prefix visible: %q", out)
	}
}

func TestStatusMessageTruncated(t *testing.T) {
	s, sim := newTestScreen(24, 40)
	b := testBuffer("x")
	s.Draw(b, strings.Repeat("m", 100))
	out := sim.Output()
	if strings.Contains(out, strings.Repeat("m", 30)) {
		t.Errorf("status message not truncated: %q", out)
	}
}

func TestScrollUpShiftsCache(t *testing.T) {
	s, sim := newTestScreen(5, 20)
	lines := []string{"l0", "l1", "l2", "l3", "l4", "l5", "l6"}
	b := testBuffer(lines...)
	b.Top = 3
	b.Cur = 3
	s.Draw(b, "")
	sim.ResetOutput()
	// Scroll the viewport up one line; only the entering row repaints.
	b.Top = 2
	b.Cur = 2
	s.ScrollUp(1)
	s.Draw(b, "")
	out := sim.Output()
	if !strings.Contains(out, "\x1bM") {
		t.Errorf("no reverse-index emitted: %q", out)
	}
	if !strings.Contains(out, "l2") {
		t.Errorf("entering row not painted: %q", out)
	}
	if strings.Contains(out, "l4") {
		t.Errorf("shifted row repainted: %q", out)
	}
}

func TestEmptyBottomRowsCleared(t *testing.T) {
	s, sim := newTestScreen(5, 20)
	b := testBuffer("only")
	s.Draw(b, "")
	// Rows past the end carry an empty cell; drawing again must skip them.
	sim.ResetOutput()
	s.Draw(b, "")
	out := sim.Output()
	if strings.Contains(out, "\x1b[2;1H") {
		t.Errorf("empty row repainted: %q", out)
	}
}
