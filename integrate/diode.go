// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integrate

import (
	"gonum.org/v1/gonum/mat"

	"github.com/maximerenault/LUPA/assembler"
	"github.com/maximerenault/LUPA/internal/logx"
)

// DiodeResistorSubstitute is the default resistance K of the linear element
// (P0 - P1 = K·Q) substituted for a diode to probe its flow direction when
// neither Open nor Closed yields a non-singular system, matching
// circuitsolver.py's DIODE_RESISTOR_SUBSTITUTE.
const DiodeResistorSubstitute = 0.1

// setDiode re-stamps a diode's row for the given state, following
// circuitsolver.py's set_diode.
func setDiode(sys *assembler.System, dr *assembler.DiodeRecord, state assembler.DiodeState, resistorSubstitute float64) {
	dr.State = state
	switch state {
	case assembler.DiodeResistor:
		sys.M0.Set(dr.Row, dr.P1, -1)
		sys.M0.Set(dr.Row, dr.P0, 1)
		sys.M0.Set(dr.Row, dr.Q, -resistorSubstitute)
	case assembler.DiodeOpen:
		sys.M0.Set(dr.Row, dr.P1, 1)
		sys.M0.Set(dr.Row, dr.P0, -1)
		sys.M0.Set(dr.Row, dr.Q, 0)
	case assembler.DiodeClosed:
		sys.M0.Set(dr.Row, dr.P1, 0)
		sys.M0.Set(dr.Row, dr.P0, 0)
		sys.M0.Set(dr.Row, dr.Q, 1)
	}
}

// updateDiodes checks every diode's polarity against the solution column
// col and flips its state where the rule is violated, following
// circuitsolver.py's update_diode. A diode in the Resistor state always
// settles into Open (forward pressure drop) or Closed. It reports whether
// any diode changed state, so the caller knows whether to re-solve.
func updateDiodes(sys *assembler.System, solution *mat.Dense, col int, resistorSubstitute float64) bool {
	changed := false
	for _, dr := range sys.Diodes {
		if dr.State == assembler.DiodeResistor {
			p0 := solution.At(dr.P0, col)
			p1 := solution.At(dr.P1, col)
			state := assembler.DiodeClosed
			if float64(dr.SignQ)*(p0-p1) > 0 {
				state = assembler.DiodeOpen
			}
			setDiode(sys, dr, state, resistorSubstitute)
			changed = true
			continue
		}
		if dr.State == assembler.DiodeOpen {
			q := solution.At(dr.Q, col)
			if float64(dr.SignQ)*q < 0 {
				setDiode(sys, dr, assembler.DiodeClosed, resistorSubstitute)
				changed = true
			}
			continue
		}
		p0 := solution.At(dr.P0, col)
		p1 := solution.At(dr.P1, col)
		if float64(dr.SignQ)*(p0-p1) > 0 {
			setDiode(sys, dr, assembler.DiodeOpen, resistorSubstitute)
			changed = true
		}
	}
	return changed
}

// recomputeDiodes replaces every diode with its resistor substitute, solves
// once, and uses the resulting flow/pressure signs to settle each diode
// into Open or Closed, following circuitsolver.py's recompute_diodes. Used
// both before the initial steady-state solve and as the fallback when a
// per-step re-solve after a polarity flip turns out singular.
func recomputeDiodes(sys *assembler.System, solution *mat.Dense, step int, dt float64, c *Coeffs, resistorSubstitute float64, log *logx.Logger) {
	log.Warnf("recomputing diode polarity via resistor probe at step %d", step)
	for _, dr := range sys.Diodes {
		setDiode(sys, dr, assembler.DiodeResistor, resistorSubstitute)
	}
	lhs := BuildLHS(sys.M0, sys.M1, c)
	nbSteps := solution.RawMatrix().Cols - 1
	history := historyColumns(solution, step, c.MinHistory(), nbSteps)
	rhs := BuildRHS(sys.M1, sys.S, dt, history, c)

	x, err := solveDense(lhs, rhs)
	col := histIndex(step+1, nbSteps)
	if err != nil {
		log.Warnf("resistor-probe solve also singular at step %d, leaving prior solution", step)
		return
	}
	setColumn(solution, col, x)
	updateDiodes(sys, solution, col, resistorSubstitute)
}
