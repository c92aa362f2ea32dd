// Copyright © 2026 Texeledit contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: editor/shared.go
// Summary: Process-wide state shared by every open buffer.
// Notes: Owned by the session and passed by reference, not a package
//        global: the clipboard and search patterns survive buffer switches.

package editor

import (
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/framegrace/texeledit/history"
)

// Shared carries the clipboard, the last search/replace patterns, the
// prompt history and the file watcher. One instance per session.
type Shared struct {
	Yank        []string
	FindPattern string
	ReplPattern string

	History *history.Store
	Logger  *log.Logger

	watcher    *fsnotify.Watcher
	selfWrites map[string]time.Time
}

// NewShared builds the shared state. The history store may be nil
// (prompt recall disabled). File watching is best effort: when the
// watcher cannot be created the feature is silently off.
func NewShared(hist *history.Store, logger *log.Logger) *Shared {
	if logger == nil {
		logger = log.Default()
	}
	s := &Shared{
		History:    hist,
		Logger:     logger,
		selfWrites: make(map[string]time.Time),
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Printf("watcher disabled err=%v", err)
		return s
	}
	s.watcher = w
	return s
}

// WatchFile registers an open file for external-change notices.
func (s *Shared) WatchFile(name string) {
	if s.watcher == nil || name == "" {
		return
	}
	if err := s.watcher.Add(name); err != nil {
		s.Logger.Printf("watch file=%s err=%v", name, err)
	}
}

// MarkSelfWrite suppresses the notice the editor's own save triggers.
func (s *Shared) MarkSelfWrite(name string) {
	s.selfWrites[name] = time.Now()
}

// Notice drains pending watcher events without blocking and returns a
// status message for the first external modification found, or "".
func (s *Shared) Notice() string {
	if s.watcher == nil {
		return ""
	}
	for {
		select {
		case ev, ok := <-s.watcher.Events:
			if !ok {
				s.watcher = nil
				return ""
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if t, self := s.selfWrites[ev.Name]; self && time.Since(t) < 2*time.Second {
				continue
			}
			return "file changed on disk: " + filepath.Base(ev.Name)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				s.watcher = nil
				return ""
			}
			s.Logger.Printf("watcher err=%v", err)
		default:
			return ""
		}
	}
}

// Close releases the watcher.
func (s *Shared) Close() {
	if s.watcher != nil {
		s.watcher.Close()
		s.watcher = nil
	}
}
