// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integrate

import (
	"context"
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"

	"github.com/maximerenault/LUPA/assembler"
	"github.com/maximerenault/LUPA/calc"
	"github.com/maximerenault/LUPA/circuit"
	"github.com/maximerenault/LUPA/geom"
	"github.com/maximerenault/LUPA/graph"
	"github.com/maximerenault/LUPA/internal/logx"
)

func term(x, y float64) geom.Terminal {
	return geom.Terminal{Pos: geom.Point{X: x, Y: y}}
}

// sourceTerms builds a Ground/PSource/QSource's terminal pair: terminal 0
// attaches to the circuit at (ax,ay), terminal 1 is the element's own
// isolated reference point, shared with nothing else.
func sourceTerms(ax, ay, tx, ty float64) [2]geom.Terminal {
	return [2]geom.Terminal{term(ax, ay), term(tx, ty)}
}

func buildSystem(tst *testing.T, els []*circuit.Element) *assembler.System {
	ctx := calc.NewContext()
	for _, e := range els {
		if err := e.ParseValue(ctx); err != nil {
			tst.Fatalf("ParseValue: %v", err)
		}
	}
	g := graph.Build(els)
	sys, err := assembler.Build(g)
	if err != nil {
		tst.Fatalf("assembler.Build: %v", err)
	}
	return sys
}

// TestIntegrateResistorNetworkConstant checks that a pure resistor network
// with a constant source stays time-constant and matches the steady-state
// solve of M0.x=S at every step.
func TestIntegrateResistorNetworkConstant(tst *testing.T) {
	chk.PrintTitle("integrate resistor network is time-constant")

	els := []*circuit.Element{
		{Kind: circuit.KindGround, Terminals: sourceTerms(0, 0, 0, -1)},
		{Kind: circuit.KindResistor, RawValue: "1000", Terminals: [2]geom.Terminal{term(0, 0), term(1, 0)}},
		{Kind: circuit.KindResistor, RawValue: "2000", Terminals: [2]geom.Terminal{term(1, 0), term(2, 0)}},
		{Kind: circuit.KindPSource, RawValue: "5", Terminals: sourceTerms(2, 0, 2, -1)},
	}
	sys := buildSystem(tst, els)

	solution, err := Run(context.Background(), sys, BDF2, 0.1, 1.0, DiodeResistorSubstitute, logx.New(false))
	if err != nil {
		tst.Fatalf("Run: %v", err)
	}

	// nodes survive elimination in position order: (0,0)->0, (1,0)->1,
	// (2,0)->2, so P@(1,0) is row 1.
	_, nbCols := solution.Dims()
	p1 := solution.At(1, 0)
	for col := 1; col < nbCols; col++ {
		if math.Abs(solution.At(1, col)-p1) > 1e-9 {
			tst.Errorf("col %d: pressure drifted from steady state: %g != %g", col, solution.At(1, col), p1)
		}
	}
	chk.Scalar(tst, "P@(1,0)", 1e-9, p1, 5.0*2000.0/3000.0)
}

// TestIntegrateRCStepResponse checks the literal RC step-response scenario
// from the solver's documented testable properties.
func TestIntegrateRCStepResponse(tst *testing.T) {
	chk.PrintTitle("integrate RC step response")

	// PSource(1) -- R(1) -- node A -- C(1) -- Ground, all in series.
	els := []*circuit.Element{
		{Kind: circuit.KindPSource, RawValue: "1", Terminals: sourceTerms(0, 0, 0, -1)},
		{Kind: circuit.KindResistor, RawValue: "1", Terminals: [2]geom.Terminal{term(0, 0), term(1, 0)}},
		{Kind: circuit.KindCapacitor, RawValue: "1", Terminals: [2]geom.Terminal{term(1, 0), term(2, 0)}},
		{Kind: circuit.KindGround, Terminals: sourceTerms(2, 0, 2, -1)},
	}
	sys := buildSystem(tst, els)

	dt := 0.01
	solution, err := Run(context.Background(), sys, BDF2, dt, 5.0, DiodeResistorSubstitute, logx.New(false))
	if err != nil {
		tst.Fatalf("Run: %v", err)
	}

	// node A ((1,0), across the capacitor from Ground) survives as row 1.
	col := int(1.0/dt + 0.5)
	pA := solution.At(1, col)
	want := 1 - math.Exp(-1)
	if math.Abs(pA-want) > 0.01 {
		tst.Errorf("P_C(1.00) = %g, want %g +-0.01", pA, want)
	}
}

// TestIntegrateHarmonicOscillatorEnergyBound exercises the BDF2
// LHS/RHS construction directly against a unit harmonic oscillator
// (dx1/dt=x2, dx2/dt=-x1), matching the literal LC-oscillator testable
// property's initial condition (P=1, Q=0) without routing through the
// circuit pipeline's steady-state initializer -- a pure L-C loop with no
// resistor has a singular M0 (no DC operating point), so Run's
// steady-state solve would fall back to the trivial zero state and never
// exercise the initial condition the property describes.
func TestIntegrateHarmonicOscillatorEnergyBound(tst *testing.T) {
	chk.PrintTitle("integrate BDF2 harmonic oscillator energy bound")

	m0 := mat.NewDense(2, 2, []float64{0, -1, 1, 0})
	m1 := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	s := []float64{0, 0}

	var c Coeffs
	c.Init(BDF2)
	dt := 0.01
	c.Calc(dt)
	lhs := BuildLHS(m0, m1, &c)

	x0 := []float64{1, 0}
	prev2, prev1 := x0, x0
	maxEnergy := x0[0]*x0[0] + x0[1]*x0[1]

	nbSteps := 1000
	for step := 0; step < nbSteps; step++ {
		rhs := BuildRHS(m1, s, dt, [][]float64{prev2, prev1}, &c)
		x, err := solveDense(lhs, rhs)
		if err != nil {
			tst.Fatalf("solveDense: %v", err)
		}
		prev2, prev1 = prev1, x
		e := x[0]*x[0] + x[1]*x[1]
		if e > maxEnergy {
			maxEnergy = e
		}
	}
	if maxEnergy > 1.05 {
		tst.Errorf("energy grew beyond the expected BDF2 damping bound: max=%g", maxEnergy)
	}
}

func TestIntegrateCancellation(tst *testing.T) {
	chk.PrintTitle("integrate cancellation returns partial solution")

	els := []*circuit.Element{
		{Kind: circuit.KindGround, Terminals: sourceTerms(0, 0, 0, -1)},
		{Kind: circuit.KindResistor, RawValue: "1", Terminals: [2]geom.Terminal{term(0, 0), term(1, 0)}},
		{Kind: circuit.KindPSource, RawValue: "1", Terminals: sourceTerms(1, 0, 1, -1)},
	}
	sys := buildSystem(tst, els)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, sys, BDF1, 0.1, 1.0, DiodeResistorSubstitute, logx.New(false))
	if err == nil {
		tst.Errorf("expected a cancellation error from an already-cancelled context")
	}
}
