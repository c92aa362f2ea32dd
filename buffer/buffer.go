// Copyright © 2026 Texeledit contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: buffer/buffer.go
// Summary: Document model: line slice, cursor, viewport and mark state.
// Usage: One Buffer per open file, owned by a session slot.
// Notes: Columns count runes; the line slice is never empty.

package buffer

import (
	"strings"
	"unicode/utf8"
)

// NoMark is the Mark value when no line range is selected.
const NoMark = -1

// Buffer holds one editable document plus its cursor and viewport state.
type Buffer struct {
	Lines []string

	Cur int // cursor line, 0-based
	Col int // cursor column in runes, 0..len(line)

	Top    int // first visible line
	Margin int // horizontal scroll offset
	Row    int // cursor row within the window

	Mark int // start of the line-range selection, NoMark if unset

	Changed  bool
	Filename string
	Message  string // status notice from the last load

	TabSize       int
	AutoIndent    bool
	CaseSensitive bool
	WriteTabs     bool

	Undo UndoLog
}

// New returns an empty buffer with the given tab size and undo capacity.
// An undo limit of zero disables undo recording.
func New(tabSize, undoLimit int) *Buffer {
	if tabSize <= 0 {
		tabSize = 8
	}
	if undoLimit < 0 {
		undoLimit = 0
	}
	return &Buffer{
		Lines:      []string{""},
		Mark:       NoMark,
		TabSize:    tabSize,
		AutoIndent: true,
		Undo:       UndoLog{limit: undoLimit},
	}
}

// SetLines replaces the content, keeping the never-empty invariant.
func (b *Buffer) SetLines(lines []string) {
	if len(lines) == 0 {
		lines = []string{""}
	}
	b.Lines = lines
}

// Line returns the current cursor line.
func (b *Buffer) Line() string { return b.Lines[b.Cur] }

// LineCount returns the number of lines.
func (b *Buffer) LineCount() int { return len(b.Lines) }

// HasMark reports whether a line range is selected.
func (b *Buffer) HasMark() bool { return b.Mark != NoMark }

// LineRange returns the marked range as a half-open [start, end) interval
// normalized so start <= cursor or mark, whichever is lower.
func (b *Buffer) LineRange() (int, int) {
	if b.Mark < b.Cur {
		return b.Mark, b.Cur + 1
	}
	return b.Cur, b.Mark + 1
}

// InRange reports whether line i falls inside the mark selection.
func (b *Buffer) InRange(i int) bool {
	if !b.HasMark() {
		return false
	}
	return (b.Mark <= i && i <= b.Cur) || (b.Cur <= i && i <= b.Mark)
}

// StatusFlag is "*" while unsaved changes exist.
func (b *Buffer) StatusFlag() string {
	if b.Changed {
		return "*"
	}
	return ""
}

// Reframe clamps the cursor into the document and scrolls the viewport so
// the cursor stays visible. Horizontal jumps land the cursor a quarter
// window from the edge; vertical jumps re-anchor the top line to keep the
// cursor on its previous window row.
func (b *Buffer) Reframe(width, height int) {
	if b.Cur > len(b.Lines)-1 {
		b.Cur = len(b.Lines) - 1
	}
	if b.Cur < 0 {
		b.Cur = 0
	}
	if n := utf8.RuneCountInString(b.Line()); b.Col > n {
		b.Col = n
	}
	if b.Col < 0 {
		b.Col = 0
	}

	if b.Col >= width+b.Margin {
		b.Margin = b.Col - width + width>>2
	} else if b.Col < b.Margin {
		b.Margin = b.Col - width>>2
		if b.Margin < 0 {
			b.Margin = 0
		}
	}

	if b.Row >= height {
		b.Row = height - 1
	}
	if !(b.Top <= b.Cur && b.Cur < b.Top+height) {
		b.Top = b.Cur - b.Row
		if b.Top < 0 {
			b.Top = 0
		}
	}
	b.Row = b.Cur - b.Top
}

// RecordUndo pushes an undo record for span lines at line, marking the
// buffer changed. text is copied.
func (b *Buffer) RecordUndo(line int, text []string, merge MergeKey, span int) {
	b.Changed = true
	b.Undo.push(line, copyLines(text), merge, span, b.Col)
}

// InsertLines splices lines into the document before index at.
// at == len(Lines) appends.
func (b *Buffer) InsertLines(at int, lines []string) {
	b.Lines = splice(b.Lines, at, at, copyLines(lines))
}

// DeleteLineRange removes the half-open line interval [start, end),
// reinstating a single empty line if the document would become empty.
func (b *Buffer) DeleteLineRange(start, end int) {
	b.Lines = splice(b.Lines, start, end, nil)
	if len(b.Lines) == 0 {
		b.Lines = []string{""}
	}
}

// IndentOf counts the leading spaces of line.
func IndentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " "))
}

// SpacesBefore counts the run of spaces immediately before rune position
// pos in line.
func SpacesBefore(line string, pos int) int {
	head := string([]rune(line)[:pos])
	return len(head) - len(strings.TrimRight(head, " "))
}

// splice replaces lines[start:end] with repl, clamping the interval.
func splice(lines []string, start, end int, repl []string) []string {
	if start < 0 {
		start = 0
	}
	if start > len(lines) {
		start = len(lines)
	}
	if end < start {
		end = start
	}
	if end > len(lines) {
		end = len(lines)
	}
	out := make([]string, 0, len(lines)-(end-start)+len(repl))
	out = append(out, lines[:start]...)
	out = append(out, repl...)
	out = append(out, lines[end:]...)
	return out
}

func copyLines(lines []string) []string {
	if lines == nil {
		return nil
	}
	out := make([]string, len(lines))
	copy(out, lines)
	return out
}
