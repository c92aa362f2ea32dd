// Copyright © 2026 Texeledit contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: key/key.go
// Summary: Logical key codes produced by the input decoder.
// Notes: A closed enum; the edit engine dispatches with an exhaustive switch.

package key

// Code identifies a logical key. Every key has its own distinct value,
// including PageUp/PageDown, which older VT editors sometimes conflated.
type Code int

const (
	None Code = iota
	Char      // printable input; the rune rides in Event.Rune

	Up
	Down
	Left
	Right
	Home
	End
	PageUp
	PageDown
	First
	Last

	Enter
	Backspace
	Delete
	Tab
	Backtab

	Find
	FindAgain
	Goto
	Replace
	Match

	Mark
	Yank
	Dup
	Zap
	Undo

	Write
	Quit
	Get
	Next
	Toggle
	Redraw

	Mouse
	ScrollUp
	ScrollDown
)

var codeNames = map[Code]string{
	None: "none", Char: "char",
	Up: "up", Down: "down", Left: "left", Right: "right",
	Home: "home", End: "end", PageUp: "pgup", PageDown: "pgdn",
	First: "first", Last: "last",
	Enter: "enter", Backspace: "backspace", Delete: "delete",
	Tab: "tab", Backtab: "backtab",
	Find: "find", FindAgain: "find-again", Goto: "goto",
	Replace: "replace", Match: "match",
	Mark: "mark", Yank: "yank", Dup: "dup", Zap: "zap", Undo: "undo",
	Write: "write", Quit: "quit", Get: "get", Next: "next",
	Toggle: "toggle", Redraw: "redraw",
	Mouse: "mouse", ScrollUp: "scroll-up", ScrollDown: "scroll-down",
}

func (c Code) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return "unknown"
}

// Event is one decoded logical key.
type Event struct {
	Code Code
	Rune rune // valid when Code == Char

	// Mouse payload, valid when Code == Mouse.
	X, Y       int
	MarkToggle bool // right/ctrl click: toggle the mark at the pointer
}
