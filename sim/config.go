// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sim is the solver's caller-facing entry point: it parses element
// values, builds the graph and linear system, runs the time integrator,
// and applies the probe sign convention, tying together circuit, graph,
// assembler and integrate the way circuitsolver.py's CircuitSolver.solve
// ties together its own build/update/solve steps. Config mirrors
// inp/sim.go's JSON-tagged Data struct with a SetDefault/Validate pair.
package sim

import (
	"errors"

	"github.com/maximerenault/LUPA/integrate"
)

// Config holds the options the solver reads from a solve-request file,
// matching the source's dt/maxtime/scheme/diode_resistor_substitute
// configuration surface.
type Config struct {
	Dt                      float64 `json:"dt"`
	MaxTime                 float64 `json:"maxtime"`
	Scheme                  string  `json:"scheme"`
	DiodeResistorSubstitute float64 `json:"diode_resistor_substitute"`
	Verbose                 bool    `json:"verbose"`
}

// SetDefault fills zero-valued fields with the solver's documented
// defaults: dt=0.01, maxtime=10.0, scheme=BDF2, diode_resistor_substitute=0.1.
func (c *Config) SetDefault() {
	if c.Dt == 0 {
		c.Dt = 0.01
	}
	if c.MaxTime == 0 {
		c.MaxTime = 10.0
	}
	if c.Scheme == "" {
		c.Scheme = "BDF2"
	}
	if c.DiodeResistorSubstitute == 0 {
		c.DiodeResistorSubstitute = 0.1
	}
}

// ErrInvalidConfig reports a Config field outside its valid domain.
var ErrInvalidConfig = errors.New("sim: invalid configuration")

// Validate checks that Dt and MaxTime are positive and Scheme names a
// known integration scheme.
func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return errInvalidConfig("dt must be positive, got %g", c.Dt)
	}
	if c.MaxTime <= 0 {
		return errInvalidConfig("maxtime must be positive, got %g", c.MaxTime)
	}
	if c.DiodeResistorSubstitute <= 0 {
		return errInvalidConfig("diode_resistor_substitute must be positive, got %g", c.DiodeResistorSubstitute)
	}
	if _, err := integrate.ParseScheme(c.Scheme); err != nil {
		return errInvalidConfig("scheme %q: %v", c.Scheme, err)
	}
	return nil
}
