// Copyright © 2026 Texeledit contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/posix_unix.go
// Summary: POSIX tty implementation of the Device interface.
// Usage: Opened by cmd/texeledit on anything with a termios tty.
// Notes: SIGWINCH is folded into the input stream as a synthetic redraw
//        byte so resize handling shares the normal key path.

//go:build unix

package term

import (
	"fmt"
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// redrawByte is injected into the input stream when the window is resized.
// It decodes to the redraw key, which re-queries the size and repaints.
const redrawByte = 0x05

// Posix is a raw-mode tty device. A single reader goroutine feeds bytes
// into a channel so that a resize signal can be woven into the stream
// without interrupting a blocking read.
type Posix struct {
	in    *os.File
	out   *os.File
	state *term.State

	bytes chan byte
	winch chan os.Signal
	done  chan struct{}
}

// OpenPosix wraps the given input/output files, typically os.Stdin and
// os.Stdout, or /dev/tty when stdin carries piped content.
func OpenPosix(in, out *os.File) *Posix {
	return &Posix{
		in:    in,
		out:   out,
		bytes: make(chan byte, 128),
		winch: make(chan os.Signal, 1),
		done:  make(chan struct{}),
	}
}

// EnterRaw switches the tty to raw mode and starts the reader.
func (p *Posix) EnterRaw() error {
	st, err := term.MakeRaw(int(p.in.Fd()))
	if err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}
	p.state = st
	signal.Notify(p.winch, unix.SIGWINCH)
	go p.readLoop()
	return nil
}

// LeaveRaw restores the termios state saved by EnterRaw.
func (p *Posix) LeaveRaw() error {
	signal.Stop(p.winch)
	close(p.done)
	if p.state == nil {
		return nil
	}
	if err := term.Restore(int(p.in.Fd()), p.state); err != nil {
		return fmt.Errorf("restore tty: %w", err)
	}
	p.state = nil
	return nil
}

func (p *Posix) readLoop() {
	buf := make([]byte, 1)
	for {
		n, err := p.in.Read(buf)
		if err != nil {
			close(p.bytes)
			return
		}
		if n == 0 {
			continue
		}
		select {
		case p.bytes <- buf[0]:
		case <-p.done:
			return
		}
	}
}

// ReadByte returns the next input byte, or the synthetic redraw byte when a
// resize signal arrives first.
func (p *Posix) ReadByte() (byte, error) {
	select {
	case b, ok := <-p.bytes:
		if !ok {
			return 0, fmt.Errorf("tty closed")
		}
		return b, nil
	case <-p.winch:
		return redrawByte, nil
	}
}

// Pending reports whether a byte is already queued.
func (p *Posix) Pending() bool {
	return len(p.bytes) > 0
}

// Write passes bytes through to the tty.
func (p *Posix) Write(b []byte) (int, error) {
	return p.out.Write(b)
}

// WindowSize reports the kernel's view of the terminal size. Used as a
// fallback when the cursor-position report is unavailable.
func (p *Posix) WindowSize() (rows, cols int, err error) {
	cols, rows, err = term.GetSize(int(p.out.Fd()))
	return rows, cols, err
}
