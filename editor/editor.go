// Copyright © 2026 Texeledit contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: editor/editor.go
// Summary: Per-buffer edit engine. Maps decoded key events onto document
//          mutations, undo records and viewport motion, and runs the
//          modeless edit loop until the buffer is closed or switched.

package editor

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/framegrace/texeledit/buffer"
	"github.com/framegrace/texeledit/key"
	"github.com/framegrace/texeledit/screen"
	"github.com/framegrace/texeledit/term"
)

// Editor binds one buffer to the shared terminal surfaces. All editors
// of a session share the screen, decoder and Shared state; only the
// buffer is per-editor.
type Editor struct {
	buf    *buffer.Buffer
	scr    *screen.Screen
	vt     *term.VT
	dec    *key.Decoder
	shared *Shared

	message string
}

// Buffer exposes the document, mainly for tests and the session result.
func (e *Editor) Buffer() *buffer.Buffer { return e.buf }

// editLoop runs until the user quits, switches to the next buffer or
// opens another file. The returned code is one of key.Quit, key.Next or
// key.Get; for Get the second result is the requested filename ("" for
// a fresh unnamed buffer).
func (e *Editor) editLoop() (key.Code, string, error) {
	e.message = e.buf.Message
	e.buf.Message = ""
	e.redraw()

	for {
		if n := e.shared.Notice(); n != "" && e.message == "" {
			e.message = n
		}
		if !e.vt.Pending() { // skip the repaint while input is queued
			e.scr.Draw(e.buf, e.message)
		}
		ev, err := e.dec.ReadKey()
		if err != nil {
			return key.None, "", err
		}
		e.message = ""

		switch ev.Code {
		case key.Quit:
			if e.buf.Changed {
				res, ok := e.lineEdit("Content changed! Quit without saving (y/N)? ", "N", "")
				if !ok || res == "" || (res[0] != 'y' && res[0] != 'Y') {
					continue
				}
			}
			e.vt.ScrollRegion(0)
			e.vt.Goto(e.scr.Height(), 0)
			e.vt.ClearToEOL()
			return key.Quit, "", nil
		case key.Next:
			return key.Next, "", nil
		case key.Get:
			name, _ := e.lineEdit("Open file: ", "", kindFile)
			return key.Get, name, nil
		default:
			if err := e.dispatch(ev); err != nil {
				e.message = err.Error()
			}
		}
	}
}

// dispatch guards handleKey: a panic in one key handler becomes a status
// message instead of tearing down the session.
func (e *Editor) dispatch(ev key.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			e.shared.Logger.Printf("key handler panic key=%s err=%v", ev.Code, r)
			err = fmt.Errorf("%s failed: %v", ev.Code, r)
		}
	}()
	return e.handleKey(ev)
}

func (e *Editor) handleKey(ev key.Event) error {
	b := e.buf
	l := b.Line()
	height := e.scr.Height()

	switch ev.Code {
	case key.Down:
		if b.Cur < b.LineCount()-1 {
			b.Cur++
			if b.Cur == b.Top+height {
				e.scr.ScrollDown(1)
			}
		}
	case key.Up:
		if b.Cur > 0 {
			b.Cur--
			if b.Cur < b.Top {
				e.scr.ScrollUp(1)
			}
		}
	case key.Left:
		if b.Col == 0 && b.Cur > 0 {
			b.Cur--
			b.Col = utf8.RuneCountInString(b.Line())
			if b.Cur < b.Top {
				e.scr.ScrollUp(1)
			}
		} else if b.Col > 0 {
			b.Col--
		}
	case key.Right:
		if b.Col >= utf8.RuneCountInString(l) && b.Cur < b.LineCount()-1 {
			b.Col = 0
			b.Cur++
			if b.Cur == b.Top+height {
				e.scr.ScrollDown(1)
			}
		} else {
			b.Col++
		}
	case key.Delete:
		if b.HasMark() {
			e.deleteLines(false)
		} else if r := []rune(l); b.Col < len(r) {
			b.RecordUndo(b.Cur, []string{l}, buffer.MergeDelete, 1)
			b.Lines[b.Cur] = string(r[:b.Col]) + string(r[b.Col+1:])
		} else if b.Cur+1 < b.LineCount() {
			b.RecordUndo(b.Cur, []string{l, b.Lines[b.Cur+1]}, buffer.MergeNone, 1)
			b.Lines[b.Cur] = l + b.Lines[b.Cur+1]
			b.DeleteLineRange(b.Cur+1, b.Cur+2)
		}
	case key.Backspace:
		if b.HasMark() {
			e.deleteLines(false)
		} else if b.Col > 0 {
			r := []rune(l)
			b.RecordUndo(b.Cur, []string{l}, buffer.MergeBackspace, 1)
			b.Lines[b.Cur] = string(r[:b.Col-1]) + string(r[b.Col:])
			b.Col--
		} else if b.Cur > 0 { // join with the previous line
			prev := b.Lines[b.Cur-1]
			b.RecordUndo(b.Cur-1, []string{prev, l}, buffer.MergeNone, 1)
			b.Col = utf8.RuneCountInString(prev)
			b.Lines[b.Cur-1] = prev + l
			b.DeleteLineRange(b.Cur, b.Cur+1)
			b.Cur--
		}
	case key.Char:
		b.Mark = buffer.NoMark
		merge := buffer.MergeChar
		if ev.Rune == ' ' {
			merge = buffer.MergeSpace
		}
		b.RecordUndo(b.Cur, []string{l}, merge, 1)
		r := []rune(l)
		b.Lines[b.Cur] = string(r[:b.Col]) + string(ev.Rune) + string(r[b.Col:])
		b.Col++
	case key.Home:
		if b.Col == 0 {
			b.Col = buffer.IndentOf(l)
		} else {
			b.Col = 0
		}
	case key.End:
		b.Col = utf8.RuneCountInString(l)
	case key.PageUp:
		b.Cur -= height
	case key.PageDown:
		b.Cur += height
	case key.Find:
		pat, ok := e.lineEdit("Find: ", e.shared.FindPattern, kindFind)
		if ok && pat != "" {
			e.findInFile(pat, b.Col, b.LineCount())
			b.Row = height >> 1
		}
	case key.FindAgain:
		if e.shared.FindPattern != "" {
			e.findInFile(e.shared.FindPattern, b.Col+1, b.LineCount())
			b.Row = height >> 1
		}
	case key.Goto:
		line, ok := e.lineEdit("Goto Line: ", "", kindGoto)
		if ok && line != "" {
			n, err := strconv.Atoi(strings.TrimSpace(line))
			if err != nil {
				return fmt.Errorf("not a line number: %q", line)
			}
			b.Cur = n - 1
			b.Row = height >> 1
		}
	case key.Toggle:
		e.toggleSettings()
	case key.First:
		b.Cur = 0
	case key.Last:
		b.Cur = b.LineCount() - 1
		b.Row = height - 1 // reframe pulls it back if the file is short
	case key.Mouse:
		if ev.Y < height {
			b.Col = ev.X + b.Margin
			b.Cur = ev.Y + b.Top
			if ev.MarkToggle {
				e.toggleMark()
			}
		}
	case key.ScrollUp:
		if b.Top > 0 {
			b.Top = max(b.Top-3, 0)
			b.Cur = min(b.Cur, b.Top+height-1)
			e.scr.ScrollUp(3)
		}
	case key.ScrollDown:
		if b.Top+height < b.LineCount() {
			b.Top = min(b.Top+3, b.LineCount()-1)
			b.Cur = max(b.Cur, b.Top)
			e.scr.ScrollDown(3)
		}
	case key.Match:
		e.matchBracket()
	case key.Mark:
		e.toggleMark()
	case key.Enter:
		b.Mark = buffer.NoMark
		b.RecordUndo(b.Cur, []string{l}, buffer.MergeNone, 2)
		r := []rune(l)
		b.Lines[b.Cur] = string(r[:b.Col])
		ni := 0
		if b.AutoIndent {
			ni = min(buffer.IndentOf(l), b.Col)
			head, _, _ := strings.Cut(l, "#")
			head = strings.TrimRight(head, " \t")
			if head != "" && strings.HasSuffix(head, ":") && b.Col >= utf8.RuneCountInString(head) {
				ni += b.TabSize
			}
		}
		b.Cur++
		b.InsertLines(b.Cur, []string{strings.Repeat(" ", ni) + string(r[b.Col:])})
		b.Col = ni
	case key.Tab:
		if b.HasMark() {
			start, end := b.LineRange()
			b.RecordUndo(start, b.Lines[start:end], buffer.MergeIndent, end-start)
			for i := start; i < end; i++ {
				if len(b.Lines[i]) > 0 {
					pad := b.TabSize - buffer.IndentOf(b.Lines[i])%b.TabSize
					b.Lines[i] = strings.Repeat(" ", pad) + b.Lines[i]
				}
			}
		} else {
			ni := b.TabSize - b.Col%b.TabSize
			b.RecordUndo(b.Cur, []string{l}, buffer.MergeTab, 1)
			r := []rune(l)
			b.Lines[b.Cur] = string(r[:b.Col]) + strings.Repeat(" ", ni) + string(r[b.Col:])
			b.Col += ni
		}
	case key.Backtab:
		if b.HasMark() {
			start, end := b.LineRange()
			b.RecordUndo(start, b.Lines[start:end], buffer.MergeUndent, end-start)
			for i := start; i < end; i++ {
				if ns := buffer.IndentOf(b.Lines[i]); ns > 0 {
					b.Lines[i] = b.Lines[i][(ns-1)%b.TabSize+1:]
				}
			}
		} else if b.Col > 0 {
			ni := min((b.Col-1)%b.TabSize+1, buffer.SpacesBefore(l, b.Col))
			if ni > 0 {
				b.RecordUndo(b.Cur, []string{l}, buffer.MergeBacktab, 1)
				r := []rune(l)
				b.Lines[b.Cur] = string(r[:b.Col-ni]) + string(r[b.Col:])
				b.Col -= ni
			}
		}
	case key.Replace:
		return e.replaceDialog()
	case key.Yank:
		if b.HasMark() {
			e.deleteLines(true)
		}
	case key.Dup:
		if b.HasMark() {
			start, end := b.LineRange()
			e.shared.Yank = append([]string(nil), b.Lines[start:end]...)
			b.Mark = buffer.NoMark
		}
	case key.Zap:
		if len(e.shared.Yank) > 0 {
			if b.HasMark() {
				e.deleteLines(false)
			}
			b.RecordUndo(b.Cur, nil, buffer.MergeNone, -len(e.shared.Yank))
			b.InsertLines(b.Cur, e.shared.Yank)
		}
	case key.Write:
		fname, ok := e.lineEdit("Save File: ", b.Filename, kindFile)
		if ok && fname != "" {
			e.shared.MarkSelfWrite(fname)
			if err := b.SaveFile(fname); err != nil {
				return err
			}
			b.Changed = false
			b.Undo.SetZero()
			if b.Filename == "" {
				b.Filename = fname
				e.shared.WatchFile(fname)
			}
		}
	case key.Undo:
		b.UndoStep()
	case key.Redraw:
		rows, cols, err := e.vt.Size()
		if err != nil {
			return err
		}
		e.scr.Resize(cols, rows-1)
		e.redraw()
	}
	return nil
}

// toggleSettings flips autoindent, then offers an inline prompt to edit
// the four per-buffer settings as a comma separated list. Malformed
// fields are ignored individually.
func (e *Editor) toggleSettings() {
	b := e.buf
	b.AutoIndent = !b.AutoIndent
	prompt := fmt.Sprintf("Case Sensitive Search %c, Autoindent %c, Tab Size %d, Write Tabs %c: ",
		yn(b.CaseSensitive), yn(b.AutoIndent), b.TabSize, yn(b.WriteTabs))
	res, ok := e.lineEdit(prompt, "", "")
	if !ok {
		return
	}
	fields := strings.Split(res, ",")
	for i, f := range fields {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" {
			continue
		}
		switch i {
		case 0:
			b.CaseSensitive = f[0] == 'y'
		case 1:
			b.AutoIndent = f[0] == 'y'
		case 2:
			if n, err := strconv.Atoi(f); err == nil && n > 0 {
				b.TabSize = n
			}
		case 3:
			b.WriteTabs = f[0] == 'y'
		}
	}
}

func (e *Editor) toggleMark() {
	if e.buf.HasMark() {
		e.buf.Mark = buffer.NoMark
	} else {
		e.buf.Mark = e.buf.Cur
	}
}

// deleteLines removes the marked range (or the current line), optionally
// copying it to the shared clipboard first. The zero-span undo record
// reinserts the removed lines.
func (e *Editor) deleteLines(yank bool) {
	b := e.buf
	start, end := b.LineRange()
	if yank {
		e.shared.Yank = append([]string(nil), b.Lines[start:end]...)
	}
	b.RecordUndo(start, b.Lines[start:end], buffer.MergeNone, 0)
	b.DeleteLineRange(start, end)
	b.Cur = start
	b.Mark = buffer.NoMark
}

// matchBracket jumps to the partner of the bracket under the cursor,
// scanning forward for an opener and backward for a closer. Nesting of
// the same bracket kind is honored; no move when unbalanced.
func (e *Editor) matchBracket() {
	const opening = "([{<"
	const closing = ")]}>"
	b := e.buf
	r := []rune(b.Line())
	if b.Col >= len(r) {
		return
	}
	srch := r[b.Col]
	level := 0
	if i := strings.IndexRune(opening, srch); i >= 0 {
		match := rune(closing[i])
		pos := b.Col + 1
		for line := b.Cur; line < b.LineCount(); line++ {
			lr := []rune(b.Lines[line])
			for c := pos; c < len(lr); c++ {
				switch lr[c] {
				case match:
					if level == 0 {
						b.Cur, b.Col = line, c
						return
					}
					level--
				case srch:
					level++
				}
			}
			pos = 0
		}
	} else if i := strings.IndexRune(closing, srch); i >= 0 {
		match := rune(opening[i])
		pos := b.Col - 1
		for line := b.Cur; line >= 0; line-- {
			lr := []rune(b.Lines[line])
			for c := min(pos, len(lr)-1); c >= 0; c-- {
				switch lr[c] {
				case match:
					if level == 0 {
						b.Cur, b.Col = line, c
						return
					}
					level--
				case srch:
					level++
				}
			}
			if line > 0 {
				pos = len([]rune(b.Lines[line-1])) - 1
			}
		}
	}
}

// redraw re-arms the scroll region and forces a full repaint.
func (e *Editor) redraw() {
	e.vt.ScrollRegion(e.scr.Height())
	e.scr.Invalidate()
}

func yn(v bool) byte {
	if v {
		return 'y'
	}
	return 'n'
}
