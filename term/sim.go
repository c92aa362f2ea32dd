// Copyright © 2026 Texeledit contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/sim.go
// Summary: In-memory terminal device for tests.
// Usage: Feed scripted input, inspect emitted escape sequences.

package term

import (
	"bytes"
	"io"
	"strconv"
)

// Sim is a scripted Device for tests. Input is a queue of bytes; output is
// captured in a buffer. When the size query arrives on the output side the
// cursor-position reply is injected into the input queue, so VT.Size works
// against it like a real terminal.
type Sim struct {
	input  []byte
	output bytes.Buffer

	Rows, Cols int
}

// NewSim creates a simulator reporting the given size.
func NewSim(rows, cols int) *Sim {
	return &Sim{Rows: rows, Cols: cols}
}

// Feed queues input bytes.
func (s *Sim) Feed(p []byte) { s.input = append(s.input, p...) }

// FeedString queues input bytes given as a string.
func (s *Sim) FeedString(str string) { s.Feed([]byte(str)) }

// Output returns everything written so far.
func (s *Sim) Output() string { return s.output.String() }

// ResetOutput clears the captured output.
func (s *Sim) ResetOutput() { s.output.Reset() }

func (s *Sim) ReadByte() (byte, error) {
	if len(s.input) == 0 {
		return 0, io.EOF
	}
	b := s.input[0]
	s.input = s.input[1:]
	return b, nil
}

func (s *Sim) Write(p []byte) (int, error) {
	n, err := s.output.Write(p)
	if bytes.HasSuffix(s.output.Bytes(), []byte("\x1b[6n")) {
		s.Feed([]byte(sizeReply(s.Rows, s.Cols)))
	}
	return n, err
}

func (s *Sim) Pending() bool { return len(s.input) > 0 }

func (s *Sim) EnterRaw() error { return nil }

func (s *Sim) LeaveRaw() error { return nil }

func (s *Sim) WindowSize() (int, int, error) { return s.Rows, s.Cols, nil }

func sizeReply(rows, cols int) string {
	return "\x1b[" + strconv.Itoa(rows) + ";" + strconv.Itoa(cols) + "R"
}
