// Copyright © 2026 Texeledit contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/term.go
// Summary: Terminal device capability interface and VT100 escape emitter.
// Usage: The renderer and decoder talk to the terminal only through Device/VT.
// Notes: Keeps platform raw-mode concerns out of the editor core.

package term

import (
	"fmt"
	"strconv"
)

// Device is the capability surface the editor core needs from a terminal.
// Implementations exist for a POSIX tty and for an in-memory simulator; the
// core never branches on platform.
type Device interface {
	// ReadByte blocks until one byte is available.
	ReadByte() (byte, error)

	// Write passes bytes through to the terminal unmodified.
	Write(p []byte) (int, error)

	// Pending reports whether another input byte is already queued.
	// Used to skip redundant render passes under input bursts.
	Pending() bool

	// EnterRaw puts the device into raw (unbuffered, unechoed) mode.
	EnterRaw() error

	// LeaveRaw restores the state saved by EnterRaw.
	LeaveRaw() error
}

// Highlight modes for VT.Hilite.
const (
	HiliteOff    = 0 // plain text
	HiliteStatus = 1 // status line
	HiliteMark   = 2 // marked line range
)

// VT emits the small VT100 vocabulary the editor uses on top of a Device.
// The sequences are the classic ones understood by everything down to
// serial-console terminals.
type VT struct {
	dev     Device
	written int64
}

// NewVT wraps the provided device.
func NewVT(dev Device) *VT {
	return &VT{dev: dev}
}

// Device returns the wrapped device.
func (v *VT) Device() Device { return v.dev }

// BytesWritten returns the total bytes emitted so far. The render metrics
// observer diffs this counter around a draw pass.
func (v *VT) BytesWritten() int64 { return v.written }

// ReadByte reads one input byte from the device.
func (v *VT) ReadByte() (byte, error) { return v.dev.ReadByte() }

// Pending reports whether input is already queued.
func (v *VT) Pending() bool { return v.dev.Pending() }

// WriteString passes a string through to the terminal.
func (v *VT) WriteString(s string) {
	n, _ := v.dev.Write([]byte(s))
	v.written += int64(n)
}

// Goto positions the cursor; row and col are zero-based.
func (v *VT) Goto(row, col int) {
	v.WriteString("\x1b[" + strconv.Itoa(row+1) + ";" + strconv.Itoa(col+1) + "H")
}

// Hilite switches the character attributes for the given highlight mode.
func (v *VT) Hilite(mode int) {
	switch mode {
	case HiliteStatus:
		v.WriteString("\x1b[1;47m")
	case HiliteMark:
		v.WriteString("\x1b[43m")
	default:
		v.WriteString("\x1b[0m")
	}
}

// ClearToEOL erases from the cursor to the end of the line.
func (v *VT) ClearToEOL() {
	v.WriteString("\x1b[0K")
}

// ShowCursor toggles cursor visibility.
func (v *VT) ShowCursor(on bool) {
	if on {
		v.WriteString("\x1b[?25h")
	} else {
		v.WriteString("\x1b[?25l")
	}
}

// MouseReporting enables or disables X10 mouse reports.
func (v *VT) MouseReporting(on bool) {
	if on {
		v.WriteString("\x1b[?9h")
	} else {
		v.WriteString("\x1b[?9l")
	}
}

// ScrollRegion limits hardware scrolling to the first stop rows;
// stop == 0 resets the region to the full screen.
func (v *VT) ScrollRegion(stop int) {
	if stop > 0 {
		v.WriteString("\x1b[1;" + strconv.Itoa(stop) + "r")
	} else {
		v.WriteString("\x1b[r")
	}
}

// ScrollUpLines emits n reverse-index controls at the top of the region.
func (v *VT) ScrollUpLines(n int) {
	v.Goto(0, 0)
	for i := 0; i < n; i++ {
		v.WriteString("\x1bM")
	}
}

// ScrollDownLines emits n index controls at the bottom row of the region.
func (v *VT) ScrollDownLines(bottomRow, n int) {
	v.Goto(bottomRow, 0)
	for i := 0; i < n; i++ {
		v.WriteString("\x1bD ")
	}
}

// sizeReporter is an optional device capability used as a fallback when the
// cursor-position report cannot be parsed (e.g. a pipe in tests).
type sizeReporter interface {
	WindowSize() (rows, cols int, err error)
}

// Size queries the terminal size by parking the cursor at 999;999 and
// requesting a cursor position report (ESC[6n -> ESC[rows;colsR).
func (v *VT) Size() (rows, cols int, err error) {
	v.WriteString("\x1b[999;999H\x1b[6n")
	reply := make([]byte, 0, 16)
	for {
		b, err := v.dev.ReadByte()
		if err != nil {
			return v.fallbackSize(fmt.Errorf("read size reply: %w", err))
		}
		if b == 'R' {
			break
		}
		reply = append(reply, b)
		if len(reply) > 32 {
			return v.fallbackSize(fmt.Errorf("oversized size reply %q", reply))
		}
	}
	rows, cols, perr := parseSizeReply(reply)
	if perr != nil {
		return v.fallbackSize(perr)
	}
	return rows, cols, nil
}

func (v *VT) fallbackSize(cause error) (int, int, error) {
	if sr, ok := v.dev.(sizeReporter); ok {
		if rows, cols, err := sr.WindowSize(); err == nil {
			return rows, cols, nil
		}
	}
	return 0, 0, cause
}

// parseSizeReply extracts rows and cols from "ESC[rows;cols" (the trailing
// 'R' is consumed by the caller).
func parseSizeReply(reply []byte) (int, int, error) {
	// Skip everything up to and including the bracket; some terminals
	// prefix junk before the report.
	start := 0
	for i, b := range reply {
		if b == '[' {
			start = i + 1
		}
	}
	fields := [2]int{}
	n := 0
	cur := -1
	for _, b := range reply[start:] {
		switch {
		case b >= '0' && b <= '9':
			if cur < 0 {
				cur = 0
			}
			cur = cur*10 + int(b-'0')
		case b == ';':
			if n < 2 && cur >= 0 {
				fields[n] = cur
				n++
			}
			cur = -1
		default:
			return 0, 0, fmt.Errorf("malformed size reply %q", reply)
		}
	}
	if cur >= 0 && n < 2 {
		fields[n] = cur
		n++
	}
	if n != 2 || fields[0] <= 0 || fields[1] <= 0 {
		return 0, 0, fmt.Errorf("malformed size reply %q", reply)
	}
	return fields[0], fields[1], nil
}
