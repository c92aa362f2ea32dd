// Copyright © 2026 Texeledit contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: editor/prompt.go
// Summary: Blocking single-line prompt on the status row, with sqlite
//          backed recall on the Up/Down keys.

package editor

import (
	"strings"
	"unicode/utf8"

	"github.com/framegrace/texeledit/history"
	"github.com/framegrace/texeledit/key"
	"github.com/framegrace/texeledit/term"
)

// Prompt kinds. Empty kind means no history for this prompt.
const (
	kindFind = history.KindFind
	kindRepl = history.KindReplace
	kindGoto = history.KindGoto
	kindFile = history.KindFile
)

const recallDepth = 50

// lineEdit runs a blocking prompt on the status line. Enter and Tab
// confirm, Quit cancels (ok == false), Backspace and Delete edit, Up and
// Down walk the prompt history newest first. Mouse and other function
// keys are ignored. The accepted value is added to the history.
func (e *Editor) lineEdit(prompt, def, kind string) (string, bool) {
	e.vt.Goto(e.scr.Height(), 0)
	e.vt.Hilite(term.HiliteStatus)
	e.vt.WriteString(prompt)
	e.vt.WriteString(def)
	e.vt.ClearToEOL()

	res := def
	promptLen := utf8.RuneCountInString(prompt)

	var recall []string
	idx := -1 // -1 = not browsing history
	if kind != "" {
		recall, _ = e.shared.History.Recent(kind, recallDepth)
	}

	for {
		ev, err := e.dec.ReadKey()
		if err != nil {
			e.vt.Hilite(term.HiliteOff)
			return "", false
		}
		switch ev.Code {
		case key.Enter, key.Tab:
			e.vt.Hilite(term.HiliteOff)
			if kind != "" && res != "" {
				if err := e.shared.History.Add(kind, res); err != nil {
					e.shared.Logger.Printf("history add kind=%s err=%v", kind, err)
				}
			}
			return res, true
		case key.Quit:
			e.vt.Hilite(term.HiliteOff)
			return "", false
		case key.Backspace:
			if res != "" {
				res = trimLastRune(res)
				e.vt.WriteString("\b \b")
				idx = -1
			}
		case key.Delete: // wipe the whole entry
			e.eraseEntry(res)
			res = ""
			idx = -1
		case key.Up, key.Down:
			if len(recall) == 0 {
				continue
			}
			if ev.Code == key.Up {
				idx = min(idx+1, len(recall)-1)
			} else {
				idx--
			}
			e.eraseEntry(res)
			if idx < 0 {
				idx = -1
				res = ""
				continue
			}
			res = recall[idx]
			if promptLen+utf8.RuneCountInString(res) >= e.scr.Width()-2 {
				res = ""
				continue
			}
			e.vt.WriteString(res)
		case key.Char:
			if promptLen+utf8.RuneCountInString(res) < e.scr.Width()-2 {
				res += string(ev.Rune)
				e.vt.WriteString(string(ev.Rune))
			}
		}
	}
}

func (e *Editor) eraseEntry(res string) {
	e.vt.WriteString(strings.Repeat("\b \b", utf8.RuneCountInString(res)))
}

func trimLastRune(s string) string {
	r := []rune(s)
	return string(r[:len(r)-1])
}
