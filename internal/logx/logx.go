// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logx is a minimal leveled wrapper around the standard log
// package. It exists so the assembler/integrate/sim packages can report
// progress the way fem/fem.go reports its solve progress (step counters,
// recoverable-condition notices) without pulling in gosl/io's ANSI-colored
// Pf* helpers, which assume an interactive terminal; the core must stay
// silent by default and safe to embed in a GUI event loop.
package logx

import "log"

// Logger gates Debugf/Infof/Warnf output behind a single verbosity flag.
// The zero value is silent.
type Logger struct {
	Verbose bool
}

// New returns a Logger at the given verbosity.
func New(verbose bool) *Logger {
	return &Logger{Verbose: verbose}
}

// Debugf logs step-by-step solve detail (diode transitions, fallback
// triggers). Silent unless Verbose is set.
func (l *Logger) Debugf(format string, args ...interface{}) {
	if l == nil || !l.Verbose {
		return
	}
	log.Printf("[DEBUG] "+format, args...)
}

// Infof logs coarse progress. Silent unless Verbose is set.
func (l *Logger) Infof(format string, args ...interface{}) {
	if l == nil || !l.Verbose {
		return
	}
	log.Printf("[INFO] "+format, args...)
}

// Warnf logs recoverable but noteworthy conditions (initial-state
// singularity, diode resistor fallback). Silent unless Verbose is set.
func (l *Logger) Warnf(format string, args ...interface{}) {
	if l == nil || !l.Verbose {
		return
	}
	log.Printf("[WARN] "+format, args...)
}
