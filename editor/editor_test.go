// Copyright © 2026 Texeledit contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: editor/editor_test.go
// Summary: Edit engine tests against the simulated terminal device.

package editor

import (
	"io"
	"log"
	"reflect"
	"testing"

	"github.com/framegrace/texeledit/config"
	"github.com/framegrace/texeledit/key"
	"github.com/framegrace/texeledit/term"
)

func testSession(t *testing.T, lines ...string) (*Session, *term.Sim) {
	t.Helper()
	sim := term.NewSim(25, 80)
	s, err := NewSession(sim, config.Default(), nil, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	s.OpenLines(lines)
	return s, sim
}

func testEditor(t *testing.T, lines ...string) *Editor {
	t.Helper()
	s, _ := testSession(t, lines...)
	return s.slots[0]
}

func press(t *testing.T, e *Editor, code key.Code) {
	t.Helper()
	if err := e.dispatch(key.Event{Code: code}); err != nil {
		t.Fatalf("dispatch %s: %v", code, err)
	}
}

func typeString(t *testing.T, e *Editor, s string) {
	t.Helper()
	for _, r := range s {
		if err := e.dispatch(key.Event{Code: key.Char, Rune: r}); err != nil {
			t.Fatalf("type %q: %v", r, err)
		}
	}
}

func wantLines(t *testing.T, e *Editor, want ...string) {
	t.Helper()
	if !reflect.DeepEqual(e.buf.Lines, want) {
		t.Fatalf("lines = %q, want %q", e.buf.Lines, want)
	}
}

func wantCursor(t *testing.T, e *Editor, line, col int) {
	t.Helper()
	if e.buf.Cur != line || e.buf.Col != col {
		t.Fatalf("cursor = (%d,%d), want (%d,%d)", e.buf.Cur, e.buf.Col, line, col)
	}
}

func TestEnterSplitsLine(t *testing.T) {
	e := testEditor(t, "abc", "def")
	e.buf.Col = 3
	press(t, e, key.Enter)
	wantLines(t, e, "abc", "", "def")
	wantCursor(t, e, 1, 0)
}

func TestEnterCarriesIndent(t *testing.T) {
	e := testEditor(t, "  value")
	e.buf.Col = 7
	press(t, e, key.Enter)
	wantLines(t, e, "  value", "  ")
	wantCursor(t, e, 1, 2)
}

func TestEnterIndentsAfterColon(t *testing.T) {
	e := testEditor(t, "  if x:")
	e.buf.Col = 7
	press(t, e, key.Enter)
	wantLines(t, e, "  if x:", "      ")
	wantCursor(t, e, 1, 6)
}

func TestEnterMidLineAutoindentClampsToCol(t *testing.T) {
	e := testEditor(t, "    body")
	e.buf.Col = 2
	press(t, e, key.Enter)
	wantLines(t, e, "  ", "    body")
	wantCursor(t, e, 1, 2)
}

func TestYankCutsMarkedRange(t *testing.T) {
	e := testEditor(t, "a", "b", "c", "d")
	e.buf.Mark = 0
	e.buf.Cur = 2
	press(t, e, key.Yank)
	wantLines(t, e, "d")
	wantCursor(t, e, 0, 0)
	if e.buf.HasMark() {
		t.Fatal("mark not cleared")
	}
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(e.shared.Yank, want) {
		t.Fatalf("clipboard = %q, want %q", e.shared.Yank, want)
	}

	press(t, e, key.Undo)
	wantLines(t, e, "a", "b", "c", "d")
}

func TestDupCopiesWithoutDeleting(t *testing.T) {
	e := testEditor(t, "a", "b", "c")
	e.buf.Mark = 1
	e.buf.Cur = 2
	press(t, e, key.Dup)
	wantLines(t, e, "a", "b", "c")
	if e.buf.HasMark() {
		t.Fatal("mark not cleared")
	}
	if want := []string{"b", "c"}; !reflect.DeepEqual(e.shared.Yank, want) {
		t.Fatalf("clipboard = %q, want %q", e.shared.Yank, want)
	}
}

func TestZapInsertsClipboardAndUndoRemoves(t *testing.T) {
	e := testEditor(t, "one", "two")
	e.shared.Yank = []string{"x", "y"}
	e.buf.Cur = 1
	press(t, e, key.Zap)
	wantLines(t, e, "one", "x", "y", "two")

	// paste must not alias the clipboard
	e.buf.Lines[1] = "mutated"
	if e.shared.Yank[0] != "x" {
		t.Fatal("clipboard mutated through paste")
	}

	press(t, e, key.Undo)
	wantLines(t, e, "one", "two")
}

func TestBacktabRemovesFullStop(t *testing.T) {
	e := testEditor(t, "    x")
	e.buf.Col = 4
	press(t, e, key.Backtab)
	wantLines(t, e, "x")
	wantCursor(t, e, 0, 0)
}

func TestBacktabPartialStop(t *testing.T) {
	e := testEditor(t, "  x")
	e.buf.Col = 2
	press(t, e, key.Backtab)
	wantLines(t, e, "x")
	wantCursor(t, e, 0, 0)
}

func TestBacktabWithoutSpacesIsNoop(t *testing.T) {
	e := testEditor(t, "abcd")
	e.buf.Col = 4
	press(t, e, key.Backtab)
	wantLines(t, e, "abcd")
	wantCursor(t, e, 0, 4)
}

func TestTabInsertsToNextStop(t *testing.T) {
	e := testEditor(t, "ab")
	e.buf.Col = 2
	press(t, e, key.Tab)
	wantLines(t, e, "ab  ")
	wantCursor(t, e, 0, 4)
}

func TestTabIndentsMarkedBlock(t *testing.T) {
	e := testEditor(t, "  a", "b", "")
	e.buf.Mark = 0
	e.buf.Cur = 2
	press(t, e, key.Tab)
	wantLines(t, e, "    a", "    b", "")

	press(t, e, key.Undo)
	wantLines(t, e, "  a", "b", "")
}

func TestBacktabUndentsMarkedBlock(t *testing.T) {
	e := testEditor(t, "    a", "  b", "c")
	e.buf.Mark = 0
	e.buf.Cur = 2
	press(t, e, key.Backtab)
	wantLines(t, e, "a", "b", "c")
}

func TestCharInsertCoalescesUndo(t *testing.T) {
	e := testEditor(t, "hello")
	e.buf.Col = 5
	typeString(t, e, "abc")
	wantLines(t, e, "helloabc")
	if n := e.buf.Undo.Len(); n != 1 {
		t.Fatalf("undo depth = %d, want 1", n)
	}
	press(t, e, key.Undo)
	wantLines(t, e, "hello")
	wantCursor(t, e, 0, 5)
}

func TestDeleteJoinsAtLineEnd(t *testing.T) {
	e := testEditor(t, "ab", "cd")
	e.buf.Col = 2
	press(t, e, key.Delete)
	wantLines(t, e, "abcd")

	press(t, e, key.Undo)
	wantLines(t, e, "ab", "cd")
}

func TestBackspaceJoinsAtLineStart(t *testing.T) {
	e := testEditor(t, "ab", "cd")
	e.buf.Cur = 1
	press(t, e, key.Backspace)
	wantLines(t, e, "abcd")
	wantCursor(t, e, 0, 2)

	press(t, e, key.Undo)
	wantLines(t, e, "ab", "cd")
}

func TestMarkedDeleteUndoRestores(t *testing.T) {
	e := testEditor(t, "a", "b", "c")
	e.buf.Mark = 0
	e.buf.Cur = 1
	press(t, e, key.Delete)
	wantLines(t, e, "c")

	press(t, e, key.Undo)
	wantLines(t, e, "a", "b", "c")
}

func TestFindCaseInsensitive(t *testing.T) {
	e := testEditor(t, "Abc", "DEF")
	if n := e.findInFile("def", 0, e.buf.LineCount()); n != 3 {
		t.Fatalf("match length = %d, want 3", n)
	}
	wantCursor(t, e, 1, 0)
}

func TestFindCaseSensitive(t *testing.T) {
	e := testEditor(t, "Abc", "DEF")
	e.buf.CaseSensitive = true
	if n := e.findInFile("def", 0, e.buf.LineCount()); n != 0 {
		t.Fatalf("match length = %d, want 0", n)
	}
	if e.message == "" {
		t.Fatal("missing no-match message")
	}
}

func TestFindRuneColumns(t *testing.T) {
	e := testEditor(t, "héllo wörld")
	if n := e.findInFile("wörld", 0, 1); n != 5 {
		t.Fatalf("match length = %d, want 5", n)
	}
	wantCursor(t, e, 0, 6)
}

func TestMatchBracketIsInvolution(t *testing.T) {
	e := testEditor(t, "f(a, (b))")
	e.buf.Col = 1
	press(t, e, key.Match)
	wantCursor(t, e, 0, 8)
	press(t, e, key.Match)
	wantCursor(t, e, 0, 1)
}

func TestMatchBracketAcrossLines(t *testing.T) {
	e := testEditor(t, "{", "  inner", "}")
	press(t, e, key.Match)
	wantCursor(t, e, 2, 0)
}

func TestMatchBracketUnbalancedStays(t *testing.T) {
	e := testEditor(t, "(open")
	press(t, e, key.Match)
	wantCursor(t, e, 0, 0)
}

func TestHomeTogglesBetweenIndentAndStart(t *testing.T) {
	e := testEditor(t, "  ab")
	e.buf.Col = 3
	press(t, e, key.Home)
	wantCursor(t, e, 0, 0)
	press(t, e, key.Home)
	wantCursor(t, e, 0, 2)
}

func TestPageKeysMoveByWindow(t *testing.T) {
	lines := make([]string, 100)
	for i := range lines {
		lines[i] = "l"
	}
	e := testEditor(t, lines...)
	height := e.scr.Height()
	press(t, e, key.PageDown)
	if e.buf.Cur != height {
		t.Fatalf("cur = %d, want %d", e.buf.Cur, height)
	}
	press(t, e, key.PageUp)
	if e.buf.Cur != 0 {
		t.Fatalf("cur = %d, want 0", e.buf.Cur)
	}
}

// Left at the very start of the document must not drive the column
// negative: without an intervening draw there is no clamp, and the next
// insert would slice with a negative bound.
func TestLeftAtOriginThenInsert(t *testing.T) {
	e := testEditor(t, "abc")
	press(t, e, key.Left)
	if e.buf.Col != 0 {
		t.Fatalf("col = %d, want 0", e.buf.Col)
	}
	typeString(t, e, "X")
	wantLines(t, e, "Xabc")
	wantCursor(t, e, 0, 1)
}

func TestLeftWrapsToPreviousLineEnd(t *testing.T) {
	e := testEditor(t, "ab", "cd")
	e.buf.Cur = 1
	press(t, e, key.Left)
	wantCursor(t, e, 0, 2)
}

func TestRightWrapsToNextLineStart(t *testing.T) {
	e := testEditor(t, "ab", "cd")
	e.buf.Col = 2
	press(t, e, key.Right)
	wantCursor(t, e, 1, 0)
}

func TestCharInsertClearsMark(t *testing.T) {
	e := testEditor(t, "line")
	e.buf.Mark = 0
	typeString(t, e, "x")
	if e.buf.HasMark() {
		t.Fatal("mark survived character insert")
	}
}

func TestMouseSetsCursorAndMark(t *testing.T) {
	e := testEditor(t, "one", "two", "three")
	if err := e.dispatch(key.Event{Code: key.Mouse, X: 2, Y: 1}); err != nil {
		t.Fatal(err)
	}
	wantCursor(t, e, 1, 2)
	if err := e.dispatch(key.Event{Code: key.Mouse, X: 0, Y: 2, MarkToggle: true}); err != nil {
		t.Fatal(err)
	}
	if e.buf.Mark != 2 {
		t.Fatalf("mark = %d, want 2", e.buf.Mark)
	}
}

func TestWheelScrollClampsCursor(t *testing.T) {
	lines := make([]string, 60)
	for i := range lines {
		lines[i] = "l"
	}
	e := testEditor(t, lines...)
	press(t, e, key.ScrollDown)
	if e.buf.Top != 3 {
		t.Fatalf("top = %d, want 3", e.buf.Top)
	}
	if e.buf.Cur != 3 {
		t.Fatalf("cur = %d, want 3 (dragged along)", e.buf.Cur)
	}
	press(t, e, key.ScrollUp)
	if e.buf.Top != 0 {
		t.Fatalf("top = %d, want 0", e.buf.Top)
	}
}

func TestUndoAfterIndentKeepsCursor(t *testing.T) {
	e := testEditor(t, "a", "b")
	e.buf.Mark = 0
	e.buf.Cur = 1
	press(t, e, key.Tab)
	e.buf.Cur, e.buf.Col = 1, 2
	press(t, e, key.Undo)
	wantLines(t, e, "a", "b")
	// indent undo leaves the cursor where it was
	wantCursor(t, e, 1, 2)
}

func TestRedrawAfterShrinkKeepsCursorInWindow(t *testing.T) {
	lines := make([]string, 50)
	for i := range lines {
		lines[i] = "l"
	}
	sim := term.NewSim(50, 80)
	s, err := NewSession(sim, config.Default(), nil, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	s.OpenLines(lines)
	e := s.slots[0]
	e.buf.Cur = 40
	e.scr.Draw(e.buf, "")
	if e.buf.Row != 40 {
		t.Fatalf("row = %d, want 40 before shrink", e.buf.Row)
	}

	sim.Rows = 11
	press(t, e, key.Redraw)
	if h := e.scr.Height(); h != 10 {
		t.Fatalf("height = %d, want 10", h)
	}
	e.scr.Draw(e.buf, "")
	if e.buf.Row >= e.scr.Height() {
		t.Fatalf("row = %d, outside the %d-line window", e.buf.Row, e.scr.Height())
	}
	if !(e.buf.Top <= e.buf.Cur && e.buf.Cur < e.buf.Top+e.scr.Height()) {
		t.Fatalf("cur %d outside window [%d,%d)", e.buf.Cur, e.buf.Top, e.buf.Top+e.scr.Height())
	}
}

func TestGotoOutOfRangeClamps(t *testing.T) {
	e := testEditor(t, "a", "b")
	e.buf.Cur = 99
	e.buf.Reframe(e.scr.Width(), e.scr.Height())
	if e.buf.Cur != 1 {
		t.Fatalf("cur = %d, want 1", e.buf.Cur)
	}
}
