// Copyright © 2026 Texeledit contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: key/decoder.go
// Summary: Turns the raw terminal byte stream into logical key events.
// Usage: One Event per ReadKey call; blocks on the underlying byte read.
// Notes: Unknown escape sequences are dropped and the read loop continues.

package key

import (
	"unicode/utf8"
)

// ByteSource is the read side of a terminal device.
type ByteSource interface {
	ReadByte() (byte, error)
}

// seqTable maps complete input sequences to key codes. Single control
// bytes and multi-byte escape sequences share one table; the Home/End
// variants cover the Linux console, Picocom/Minicom and Putty.
var seqTable = map[string]Code{
	"\x1b[A": Up,
	"\x1b[B": Down,
	"\x1b[D": Left,
	"\x1b[C": Right,

	"\x1b[H":  Home,
	"\x1bOH":  Home,
	"\x1b[1~": Home,
	"\x1b[F":  End,
	"\x1bOF":  End,
	"\x1b[4~": End,

	"\x1b[5~": PageUp,
	"\x1b[6~": PageDown,
	"\x1b[3~": Delete,
	"\x1b[Z":  Backtab,

	"\x1b[1;5H": First, // Ctrl-Home
	"\x1b[1;5F": Last,  // Ctrl-End
	"\x1b[3;5~": Yank,  // Ctrl-Del
	"\x1b[M":    Mouse,

	"\x03": Quit, // Ctrl-C
	"\x11": Quit, // Ctrl-Q
	"\r":   Enter,
	"\n":   Enter,
	"\x08": Backspace,
	"\x7f": Backspace,
	"\x09": Tab,
	"\x15": Backtab, // Ctrl-U

	"\x13": Write,     // Ctrl-S
	"\x06": Find,      // Ctrl-F
	"\x0e": FindAgain, // Ctrl-N
	"\x07": Goto,      // Ctrl-G
	"\x05": Redraw,    // Ctrl-E
	"\x1a": Undo,      // Ctrl-Z
	"\x12": Replace,   // Ctrl-R
	"\x18": Yank,      // Ctrl-X
	"\x16": Zap,       // Ctrl-V
	"\x04": Dup,       // Ctrl-D
	"\x0c": Mark,      // Ctrl-L
	"\x14": First,     // Ctrl-T
	"\x02": Last,      // Ctrl-B
	"\x01": Toggle,    // Ctrl-A
	"\x17": Next,      // Ctrl-W
	"\x0f": Get,       // Ctrl-O
	"\x0b": Match,     // Ctrl-K
}

// Mouse report function codes (X10 encoding, already bias-free).
const (
	mouseWheelUp   = 0x60
	mouseWheelDown = 0x61
	mouseRight     = 0x22
	mouseCtrl      = 0x30
	mouseBias      = 33
)

// Decoder reads logical key events from a byte source.
type Decoder struct {
	src ByteSource
}

// NewDecoder returns a decoder over the given source.
func NewDecoder(src ByteSource) *Decoder {
	return &Decoder{src: src}
}

// ReadKey blocks until one logical key event is available. Escape
// sequences have variable length: bytes are accumulated until a
// terminator byte arrives ('~', or any alphabetic byte other than the
// intermediate 'O'). Sequences not found in the table are discarded.
func (d *Decoder) ReadKey() (Event, error) {
	for {
		b, err := d.src.ReadByte()
		if err != nil {
			return Event{}, err
		}

		if b == 0x1b {
			seq, err := d.readSequence()
			if err != nil {
				return Event{}, err
			}
			code, ok := seqTable[seq]
			if !ok {
				continue // unknown sequence, silently dropped
			}
			if code == Mouse {
				return d.readMouse()
			}
			return Event{Code: code}, nil
		}

		if code, ok := seqTable[string(b)]; ok {
			return Event{Code: code}, nil
		}
		if b >= 0x20 && b < 0x80 {
			return Event{Code: Char, Rune: rune(b)}, nil
		}
		if b >= 0x80 {
			if r, ok := d.readRune(b); ok {
				return Event{Code: Char, Rune: r}, nil
			}
			continue
		}
		// Unmapped control byte: ignore.
	}
}

// readSequence accumulates an escape sequence after the initial ESC.
func (d *Decoder) readSequence() (string, error) {
	seq := []byte{0x1b}
	for {
		b, err := d.src.ReadByte()
		if err != nil {
			return "", err
		}
		seq = append(seq, b)
		if b == '~' || (isAlpha(b) && b != 'O') {
			return string(seq), nil
		}
		if len(seq) > 16 {
			// Runaway sequence; treat as unknown.
			return string(seq), nil
		}
	}
}

// readMouse consumes the three-byte X10 payload following ESC[M:
// a function code and the pointer column/row, each biased by 33.
func (d *Decoder) readMouse() (Event, error) {
	var raw [3]byte
	for i := range raw {
		b, err := d.src.ReadByte()
		if err != nil {
			return Event{}, err
		}
		raw[i] = b
	}
	fct := int(raw[0])
	x := int(raw[1]) - mouseBias
	y := int(raw[2]) - mouseBias
	switch fct {
	case mouseWheelUp:
		return Event{Code: ScrollUp}, nil
	case mouseWheelDown:
		return Event{Code: ScrollDown}, nil
	}
	return Event{
		Code:       Mouse,
		X:          x,
		Y:          y,
		MarkToggle: fct == mouseRight || fct == mouseCtrl,
	}, nil
}

// readRune assembles a UTF-8 encoded rune whose first byte has already
// been read. Invalid encodings are dropped.
func (d *Decoder) readRune(first byte) (rune, bool) {
	var n int
	switch {
	case first&0xe0 == 0xc0:
		n = 2
	case first&0xf0 == 0xe0:
		n = 3
	case first&0xf8 == 0xf0:
		n = 4
	default:
		return 0, false
	}
	buf := make([]byte, 1, n)
	buf[0] = first
	for len(buf) < n {
		b, err := d.src.ReadByte()
		if err != nil {
			return 0, false
		}
		if b&0xc0 != 0x80 {
			return 0, false
		}
		buf = append(buf, b)
	}
	r, size := utf8.DecodeRune(buf)
	if r == utf8.RuneError || size != n {
		return 0, false
	}
	return r, true
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
