// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package integrate advances the assembled linear DAE M1·x' + M0·x = S(t)
// in time with a backward-difference formula (BDF1/BDF2/BDF3), re-solving
// after every diode polarity transition, following
// timeintegration.py's build_LHS_BDF*/build_RHS_BDF* and
// circuitsolver.py's diode state machine (DIODE_STATE, set_diode,
// update_diode, recompute_diodes), co-located here since both revolve
// around the same per-step dense solve.
package integrate

import "errors"

// Scheme selects a backward-difference time integration formula.
type Scheme int

// schemes
const (
	BDF1 Scheme = iota
	BDF2
	BDF3
)

// String returns the scheme's configuration-file spelling.
func (s Scheme) String() string {
	switch s {
	case BDF1:
		return "BDF"
	case BDF2:
		return "BDF2"
	case BDF3:
		return "BDF3"
	}
	return "Unknown"
}

// ErrUnknownScheme is returned by ParseScheme for an unrecognized name.
var ErrUnknownScheme = errors.New("integrate: unknown time integration scheme")

// ParseScheme accepts "BDF"/"BDF1", "BDF2" and "BDF3", following
// timeintegration.py's TimeIntegration enum.
func ParseScheme(name string) (Scheme, error) {
	switch name {
	case "BDF", "BDF1":
		return BDF1, nil
	case "BDF2":
		return BDF2, nil
	case "BDF3":
		return BDF3, nil
	}
	return BDF1, ErrUnknownScheme
}

// Coeffs holds the dt-dependent multipliers a scheme needs to build LHS,
// computed once per timestep change, mirroring fem/dyncoefs.go's
// Init/Calc split: Init binds the (dt-independent) scheme, Calc derives
// the coefficients for a given dt.
type Coeffs struct {
	scheme  Scheme
	lhsMult float64 // factor on M1 in LHS = M0 + lhsMult*M1, 1/dt already included
}

// Init binds the integration scheme.
func (c *Coeffs) Init(scheme Scheme) {
	c.scheme = scheme
}

// Calc derives the LHS multiplier for the given timestep.
func (c *Coeffs) Calc(dt float64) {
	switch c.scheme {
	case BDF1:
		c.lhsMult = 1 / dt
	case BDF2:
		c.lhsMult = 1.5 / dt
	case BDF3:
		c.lhsMult = 11.0 / 6.0 / dt
	}
}

// MinHistory returns how many previous solution columns RHS needs: 1 for
// BDF1, 2 for BDF2, 3 for BDF3.
func (c *Coeffs) MinHistory() int {
	switch c.scheme {
	case BDF1:
		return 1
	case BDF2:
		return 2
	case BDF3:
		return 3
	}
	return 1
}
