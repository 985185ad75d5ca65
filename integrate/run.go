// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integrate

import (
	"context"

	"gonum.org/v1/gonum/mat"

	"github.com/maximerenault/LUPA/assembler"
	"github.com/maximerenault/LUPA/internal/logx"
)

// Run advances sys from t=0 to maxTime in steps of dt using scheme,
// re-solving after any diode polarity transition, following
// circuitsolver.py's solve(). It returns the (nbP+nbQ) x (nbSteps+1)
// dense solution, or a partial one plus ctx.Err() if ctx is cancelled
// between steps (spec.md §5 "Cancellation").
func Run(ctx context.Context, sys *assembler.System, scheme Scheme, dt, maxTime, resistorSubstitute float64, log *logx.Logger) (*mat.Dense, error) {
	n := sys.NbP + sys.NbQ
	nbSteps := int(maxTime / dt)
	solution := mat.NewDense(n, nbSteps+1, nil)

	var c Coeffs
	c.Init(scheme)
	c.Calc(dt)

	sys.Apply(0)

	if len(sys.Diodes) > 0 {
		recomputeDiodes(sys, solution, -1, dt, &c, resistorSubstitute, log)
	}

	x0, singular := solveSteadyState(sys)
	if singular {
		log.Warnf("initial steady-state system is singular, starting from the zero state")
	}
	for col := 0; col <= nbSteps; col++ {
		setColumn(solution, col, x0)
	}

	lhs := BuildLHS(sys.M0, sys.M1, &c)

	time := 0.0
	for step := 0; step < nbSteps; step++ {
		if err := ctx.Err(); err != nil {
			return solution, err
		}
		time += dt
		sys.Apply(time)
		if sys.Changed() {
			lhs = BuildLHS(sys.M0, sys.M1, &c)
		}

		history := historyColumns(solution, step, c.MinHistory(), nbSteps)
		rhs := BuildRHS(sys.M1, sys.S, dt, history, &c)

		x, err := solveDense(lhs, rhs)
		if err != nil {
			return solution, err
		}
		setColumn(solution, step+1, x)

		if updateDiodes(sys, solution, step+1, resistorSubstitute) {
			log.Debugf("diode transition at step %d, re-solving", step)
			lhs = BuildLHS(sys.M0, sys.M1, &c)
			x, err = solveDense(lhs, rhs)
			if err != nil {
				recomputeDiodes(sys, solution, step, dt, &c, resistorSubstitute, log)
				lhs = BuildLHS(sys.M0, sys.M1, &c)
				x, err = solveDense(lhs, rhs)
				if err != nil {
					return solution, err
				}
			}
			setColumn(solution, step+1, x)
		}
	}
	return solution, nil
}

func solveSteadyState(sys *assembler.System) ([]float64, bool) {
	x, err := solveDense(sys.M0, sys.S)
	if err != nil {
		return make([]float64, sys.NbP+sys.NbQ), true
	}
	return x, false
}

func solveDense(lhs *mat.Dense, rhs []float64) ([]float64, error) {
	n := len(rhs)
	b := mat.NewDense(n, 1, append([]float64(nil), rhs...))
	var x mat.Dense
	if err := x.Solve(lhs, b); err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = x.At(i, 0)
	}
	return out, nil
}

func setColumn(m *mat.Dense, col int, v []float64) {
	for i, val := range v {
		m.Set(i, col, val)
	}
}

func getColumn(m *mat.Dense, col int) []float64 {
	rows, _ := m.Dims()
	out := make([]float64, rows)
	for i := 0; i < rows; i++ {
		out[i] = m.At(i, col)
	}
	return out
}

// histIndex maps a possibly-negative step index to a solution column,
// following Python's negative-index wraparound: -1 is the last column,
// -2 the second-to-last, and so on. The solution's every column starts
// pre-filled with the initial steady state (see Run), so a history lookup
// that wraps around during the first couple of BDF2/BDF3 steps still
// resolves to the correct "steady state extends backward from t=0" value,
// following circuitsolver.py's build_RHS_BDF2/3 called with small step.
func histIndex(idx, nbSteps int) int {
	if idx < 0 {
		return nbSteps + 1 + idx
	}
	return idx
}

func historyColumns(solution *mat.Dense, step, need, nbSteps int) [][]float64 {
	cols := make([][]float64, need)
	for k := 0; k < need; k++ {
		idx := histIndex(step-k, nbSteps)
		cols[need-1-k] = getColumn(solution, idx)
	}
	return cols
}
