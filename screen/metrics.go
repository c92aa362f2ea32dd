// Copyright © 2026 Texeledit contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: screen/metrics.go
// Summary: Draw metrics observers for diagnosing redraw bandwidth.

package screen

import (
	"log"
	"time"
)

// Observer receives one callback per draw pass.
type Observer interface {
	ObserveDraw(rows, bytes int, duration time.Duration)
}

// LogObserver logs draw metrics to the provided logger.
type LogObserver struct {
	logger *log.Logger
}

// NewLogObserver creates an observer that logs draw metrics.
func NewLogObserver(l *log.Logger) *LogObserver {
	if l == nil {
		l = log.Default()
	}
	return &LogObserver{logger: l}
}

func (o *LogObserver) ObserveDraw(rows, bytes int, duration time.Duration) {
	if o == nil || o.logger == nil {
		return
	}
	o.logger.Printf("draw rows=%d bytes=%d duration=%s", rows, bytes, duration)
}
