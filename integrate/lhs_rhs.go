// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integrate

import "gonum.org/v1/gonum/mat"

// BuildLHS builds the left-hand side of the BDF-discretized system:
// LHS = M0 + lhsMult*M1, following timeintegration.py's build_LHS_BDF*.
func BuildLHS(m0, m1 *mat.Dense, c *Coeffs) *mat.Dense {
	n, _ := m0.Dims()
	lhs := mat.NewDense(n, n, nil)
	lhs.Scale(c.lhsMult, m1)
	lhs.Add(lhs, m0)
	return lhs
}

// BuildRHS builds the right-hand side of the BDF-discretized system given
// the source vector and the trailing solution history (oldest first,
// history[len-1] being the most recent known step), following
// timeintegration.py's build_RHS_BDF*. len(history) must equal
// c.MinHistory().
func BuildRHS(m1 *mat.Dense, s []float64, dt float64, history [][]float64, c *Coeffs) []float64 {
	n := len(s)
	combined := make([]float64, n)
	last := history[len(history)-1]
	switch c.scheme {
	case BDF1:
		for i := range combined {
			combined[i] = last[i] / dt
		}
	case BDF2:
		prev := history[len(history)-2]
		for i := range combined {
			combined[i] = (4*last[i] - prev[i]) / (2 * dt)
		}
	case BDF3:
		prev := history[len(history)-2]
		prev2 := history[len(history)-3]
		for i := range combined {
			combined[i] = (18*last[i] - 9*prev[i] + 2*prev2[i]) / (6 * dt)
		}
	}

	mv := mat.NewVecDense(n, combined)
	res := mat.NewVecDense(n, nil)
	res.MulVec(m1, mv)

	rhs := make([]float64, n)
	for i := range rhs {
		rhs[i] = s[i] + res.AtVec(i)
	}
	return rhs
}
