// Copyright © 2026 Texeledit contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: editor/search.go
// Summary: Plain-text search and the interactive replace dialog.

package editor

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/framegrace/texeledit/buffer"
	"github.com/framegrace/texeledit/key"
)

// findInFile searches for pattern from (Cur, startCol) down to endLine
// (exclusive), honoring the buffer's case sensitivity, and moves the
// cursor to the hit. The result is the pattern length in runes, 0 when
// nothing matched. The pattern is remembered for find-again.
func (e *Editor) findInFile(pattern string, startCol, endLine int) int {
	b := e.buf
	e.shared.FindPattern = pattern
	find := pattern
	if !b.CaseSensitive {
		find = strings.ToLower(pattern)
	}
	spos := startCol
	for line := b.Cur; line < endLine; line++ {
		r := []rune(b.Lines[line])
		var tail string
		if spos < len(r) {
			tail = string(r[spos:])
		}
		if !b.CaseSensitive {
			tail = strings.ToLower(tail)
		}
		if i := strings.Index(tail, find); i >= 0 {
			b.Col = spos + utf8.RuneCountInString(tail[:i])
			b.Cur = line
			return utf8.RuneCountInString(pattern)
		}
		spos = 0
	}
	e.message = "No match: " + pattern
	return 0
}

// replaceDialog prompts for a pattern and replacement, then walks the
// matches asking yes/No/all/quit for each. With an active mark only the
// marked lines are searched. The cursor line is restored afterwards and
// the replacement count reported on the status line.
func (e *Editor) replaceDialog() error {
	b := e.buf
	pat, ok := e.lineEdit("Replace: ", e.shared.FindPattern, kindFind)
	if !ok || pat == "" {
		return nil
	}
	rpat, ok := e.lineEdit("With: ", e.shared.ReplPattern, kindRepl)
	if !ok {
		return nil
	}
	e.shared.ReplPattern = rpat

	count := 0
	curLine := b.Cur
	endLine := b.LineCount()
	if b.HasMark() {
		b.Cur, endLine = b.LineRange()
		b.Col = 0
	}
	e.message = "Replace (yes/No/all/quit) ? "
	var q rune
	for {
		ni := e.findInFile(pat, b.Col, endLine)
		if ni == 0 {
			break
		}
		if q != 'a' {
			e.scr.Draw(b, e.message)
			ev, err := e.dec.ReadKey()
			if err != nil {
				return err
			}
			switch {
			case ev.Code == key.Quit:
				q = 'q'
			case ev.Code == key.Char:
				q = unicode.ToLower(ev.Rune)
			default:
				q = 0
			}
		}
		switch q {
		case 'q':
			b.Cur = curLine
			e.message = replacedMessage(pat, count)
			return nil
		case 'a', 'y':
			b.RecordUndo(b.Cur, []string{b.Line()}, buffer.MergeNone, 1)
			r := []rune(b.Line())
			b.Lines[b.Cur] = string(r[:b.Col]) + rpat + string(r[b.Col+ni:])
			b.Col += utf8.RuneCountInString(rpat)
			count++
		default: // everything else is no
			b.Col++
		}
	}
	b.Cur = curLine
	e.message = replacedMessage(pat, count)
	return nil
}

func replacedMessage(pat string, count int) string {
	return fmt.Sprintf("'%s' replaced %d times", pat, count)
}
