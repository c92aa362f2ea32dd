// Copyright © 2026 Texeledit contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: editor/session.go
// Summary: Buffer-slot ring. Owns the terminal surfaces, opens files
//          into editor slots and cycles between them until the last
//          slot quits.

package editor

import (
	"log"

	"github.com/framegrace/texeledit/buffer"
	"github.com/framegrace/texeledit/config"
	"github.com/framegrace/texeledit/history"
	"github.com/framegrace/texeledit/key"
	"github.com/framegrace/texeledit/screen"
	"github.com/framegrace/texeledit/term"
)

// Session drives one terminal with any number of buffer slots. The
// device must already be in raw mode; Run leaves it that way.
type Session struct {
	vt     *term.VT
	dec    *key.Decoder
	scr    *screen.Screen
	shared *Shared
	cfg    config.Config

	slots []*Editor
	idx   int
}

// Result is what the session leaves behind for the caller: either the
// filename of the surviving buffer, or its content when that buffer was
// never named.
type Result struct {
	Filename string
	Lines    []string
}

// NewSession probes the terminal size and sets up the shared surfaces.
// hist and logger may be nil.
func NewSession(dev term.Device, cfg config.Config, hist *history.Store, logger *log.Logger) (*Session, error) {
	vt := term.NewVT(dev)
	rows, cols, err := vt.Size()
	if err != nil {
		return nil, err
	}
	s := &Session{
		vt:     vt,
		dec:    key.NewDecoder(vt),
		scr:    screen.New(vt, cols, rows-1),
		shared: NewShared(hist, logger),
		cfg:    cfg,
	}
	if logger != nil {
		s.scr.SetObserver(screen.NewLogObserver(logger))
	}
	return s, nil
}

// Screen exposes the render surface, e.g. to attach an observer.
func (s *Session) Screen() *screen.Screen { return s.scr }

// OpenFile adds a slot editing the named file. A load failure still
// opens the slot, empty, with the error on the status line. An empty
// name opens a fresh unnamed buffer.
func (s *Session) OpenFile(name string) {
	ed := s.newEditor()
	if name != "" {
		if err := ed.buf.LoadFile(name); err != nil {
			ed.buf.Message = err.Error()
		} else {
			s.shared.WatchFile(name)
		}
	}
	s.slots = append(s.slots, ed)
}

// OpenLines adds a slot editing in-memory content, e.g. piped stdin.
func (s *Session) OpenLines(lines []string) {
	ed := s.newEditor()
	if len(lines) > 0 {
		ed.buf.SetLines(append([]string(nil), lines...))
	}
	s.slots = append(s.slots, ed)
}

func (s *Session) newEditor() *Editor {
	b := buffer.New(s.cfg.TabSize, s.cfg.UndoLimit)
	b.AutoIndent = s.cfg.AutoIndent
	b.CaseSensitive = s.cfg.CaseSensitive
	b.WriteTabs = s.cfg.WriteTabs
	return &Editor{buf: b, scr: s.scr, vt: s.vt, dec: s.dec, shared: s.shared}
}

// Run edits until the last slot quits. Quitting a slot removes it from
// the ring; the last one standing is kept and becomes the Result.
func (s *Session) Run() (Result, error) {
	if len(s.slots) == 0 {
		s.OpenLines(nil)
	}
	if s.cfg.Mouse {
		s.vt.MouseReporting(true)
		defer s.vt.MouseReporting(false)
	}
	defer s.shared.Close()

	for {
		code, fname, err := s.slots[s.idx].editLoop()
		if err != nil {
			return Result{}, err
		}
		switch code {
		case key.Quit:
			if len(s.slots) == 1 {
				return s.result(), nil
			}
			s.slots = append(s.slots[:s.idx], s.slots[s.idx+1:]...)
			s.idx %= len(s.slots)
			s.scr.Invalidate()
		case key.Get:
			s.OpenFile(fname)
			s.idx = len(s.slots) - 1
			s.scr.Invalidate()
		case key.Next:
			s.idx = (s.idx + 1) % len(s.slots)
			s.scr.Invalidate()
		}
	}
}

func (s *Session) result() Result {
	b := s.slots[s.idx].buf
	if b.Filename == "" {
		return Result{Lines: b.Lines}
	}
	return Result{Filename: b.Filename}
}
