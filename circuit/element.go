// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package circuit

import (
	"strconv"

	"github.com/maximerenault/LUPA/calc"
	"github.com/maximerenault/LUPA/geom"
)

// Element is a single two-terminal circuit element, discriminated by Kind
// rather than by Go type, replacing the source's one-class-per-kind
// hierarchy (Wire, Resistor, Capacitor, Inductor, Diode, Ground, PSource,
// QSource all subclass Wire or Ground in the source).
type Element struct {
	Kind      Kind
	Name      string
	Terminals [2]geom.Terminal

	// RawValue is the user-typed value: a float literal or a calculator
	// expression. ParseValue classifies it into Value/Active/ValueFn.
	RawValue string
	Value    float64       // valid when !Active: the constant value
	Active   bool          // true when RawValue depends on free variables
	ValueFn  calc.TimeFunc // valid when Active: resolved function of time

	// ProbedFlow is the signed flow-probe direction through this element:
	// 0 means unprobed, +1/-1 matches the source's Wire.listened sign.
	ProbedFlow    int
	FlowProbeName string
}

// ParseValue classifies RawValue following the source's Wire.set_value: a
// plain float literal is a constant; otherwise RawValue is parsed as a
// calculator expression, and Active is set iff that expression has one or
// more free variables (i.e. it varies with time).
func (e *Element) ParseValue(ctx *calc.Context) error {
	if e.RawValue == "" {
		e.Value = 0
		e.Active = false
		return nil
	}
	if v, err := strconv.ParseFloat(e.RawValue, 64); err == nil {
		e.Value = v
		e.Active = false
		return nil
	}
	f, err := ctx.Parse(e.RawValue)
	if err != nil {
		return err
	}
	if len(f.Vars()) == 0 {
		v, err := f.Eval()
		if err != nil {
			return err
		}
		e.Value = v
		e.Active = false
		return nil
	}
	fn, err := ctx.CalculateT(e.RawValue)
	if err != nil {
		return err
	}
	e.Active = true
	e.ValueFn = fn
	return nil
}
