// Copyright © 2026 Texeledit contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: buffer/undo.go
// Summary: Bounded coalescing undo log with signed span records.
// Notes: Span >= 0 reverses a replacement of that many lines; a negative
//        span reverses an insertion (undo deletes -Span lines).

package buffer

// MergeKey classifies an edit for undo coalescing. Consecutive records
// with the same non-trivial key at the same start line merge into one
// step. MergeNone marks structural edits that always open a new record.
type MergeKey int

const (
	MergeNone MergeKey = iota
	MergeChar
	MergeSpace
	MergeTab
	MergeBacktab
	MergeBackspace
	MergeDelete
	MergeIndent
	MergeUndent
)

// Record is one reversible edit.
type Record struct {
	Line  int      // first affected line
	Span  int      // see package note
	Text  []string // saved lines, nil for pure insertions
	Merge MergeKey
	Col   int // cursor column at record time
}

// UndoLog is a bounded stack of edit records. The zero counter tracks how
// deep the stack was at the last save so "no unsaved changes" survives
// history truncation.
type UndoLog struct {
	recs  []Record
	limit int
	zero  int
}

// Len returns the number of records.
func (u *UndoLog) Len() int { return len(u.recs) }

// AtZero reports whether the log depth matches the last saved state.
func (u *UndoLog) AtZero() bool { return len(u.recs) == u.zero }

// SetZero marks the current depth as the saved state.
func (u *UndoLog) SetZero() { u.zero = len(u.recs) }

// push records an edit, merging into the previous record when the merge
// key and start line repeat. When the log is full the oldest record is
// dropped and the zero point shifts with it.
func (u *UndoLog) push(line int, text []string, merge MergeKey, span, col int) {
	if u.limit <= 0 {
		return
	}
	if len(u.recs) > 0 && merge != MergeNone {
		last := &u.recs[len(u.recs)-1]
		if last.Merge == merge && last.Line == line {
			return // coalesced into the previous record
		}
	}
	if len(u.recs) >= u.limit {
		u.recs = u.recs[1:]
		u.zero--
	}
	u.recs = append(u.recs, Record{Line: line, Span: span, Text: text, Merge: merge, Col: col})
}

// pop removes and returns the most recent record.
func (u *UndoLog) pop() (Record, bool) {
	if len(u.recs) == 0 {
		return Record{}, false
	}
	rec := u.recs[len(u.recs)-1]
	u.recs = u.recs[:len(u.recs)-1]
	return rec, true
}

// UndoStep reverses the most recent record. The cursor returns to the
// recorded position except for indent-group records, which skip the
// restore (a compatibility quirk of the original editor, kept as is).
// Returns false when the log is empty.
func (b *Buffer) UndoStep() bool {
	rec, ok := b.Undo.pop()
	if !ok {
		return false
	}
	if rec.Merge != MergeIndent {
		b.Cur = rec.Line
		b.Col = rec.Col
	}
	if rec.Span >= 0 {
		if rec.Line < len(b.Lines) {
			b.Lines = splice(b.Lines, rec.Line, rec.Line+rec.Span, rec.Text)
		} else {
			b.Lines = append(b.Lines, rec.Text...)
		}
	} else {
		b.Lines = splice(b.Lines, rec.Line, rec.Line-rec.Span, nil)
	}
	if len(b.Lines) == 0 {
		b.Lines = []string{""}
	}
	if b.Undo.AtZero() {
		b.Changed = false
	}
	b.Mark = NoMark
	return true
}
