// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package assembler walks a built circuit graph and stamps the two square
// coefficient matrices and the source vector of the linear DAE
//
//	M1·x' + M0·x = S(t)
//
// over the combined state vector x = [P; Q] (node pressures, path flows),
// following circuitsolver.py's build_M0M1 / build_source.
package assembler

import (
	"sort"

	"github.com/maximerenault/LUPA/calc"
	"github.com/maximerenault/LUPA/circuit"
	"github.com/maximerenault/LUPA/graph"
	"gonum.org/v1/gonum/mat"
)

// DiodeState is the polarity assumption a diode's row currently encodes.
type DiodeState int

// diode states
const (
	DiodeOpen DiodeState = iota
	DiodeClosed
	DiodeResistor
)

// DiodeRecord tracks one diode's row and the pressure/flow column indices
// set_diode/update_diode need to re-stamp its row, matching
// circuitsolver.py's DiodeContainer.
type DiodeRecord struct {
	State      DiodeState
	Row        int
	P0, P1, Q  int
	SignQ      int
}

// rowColFn is one entry of an (row, col, f(t)) update-registry triple.
type rowColFn struct {
	Row, Col int
	Fn       calc.TimeFunc
}

// rowFn is one entry of an (row, f(t)) update-registry pair, for the
// source vector.
type rowFn struct {
	Row int
	Fn  calc.TimeFunc
}

// System is the assembled linear DAE: M0, M1 and S over the combined state
// vector, plus the update registries driving the active (time-varying)
// stamps and the diode records the integrator's polarity loop maintains.
//
// The registries are flat slices evaluated in one pass per step (spec.md
// §9 "Active-element update registry" redesign), replacing the source's
// row-indexed update_M0/update_M1/update_source dictionaries.
type System struct {
	NbP, NbQ int
	M0, M1   *mat.Dense
	S        []float64

	UpdateM0 []rowColFn
	UpdateM1 []rowColFn
	UpdateS  []rowFn

	Diodes []*DiodeRecord
}

// Apply re-evaluates every active stamp at time t, following
// circuitsolver.py's update_M0M1/update_source.
func (s *System) Apply(t float64) {
	for _, u := range s.UpdateM0 {
		s.M0.Set(u.Row, u.Col, u.Fn(t))
	}
	for _, u := range s.UpdateM1 {
		s.M1.Set(u.Row, u.Col, u.Fn(t))
	}
	for _, u := range s.UpdateS {
		s.S[u.Row] = u.Fn(t)
	}
}

// Changed reports whether M0 or M1 has any active (time-varying) stamp, so
// the integrator knows whether LHS needs rebuilding at the current step.
func (s *System) Changed() bool {
	return len(s.UpdateM0) > 0 || len(s.UpdateM1) > 0
}

// Build stamps the linear DAE from a built graph, following
// circuitsolver.py's build_M0M1 / build_source and the branching-row loop.
func Build(g *graph.Graph) (*System, error) {
	nbP, nbQ := g.NbP(), g.NbQ()
	n := nbP + nbQ

	if err := checkSolvable(g, n); err != nil {
		return nil, err
	}

	s := &System{
		NbP: nbP, NbQ: nbQ,
		M0: mat.NewDense(n, n, nil),
		M1: mat.NewDense(n, n, nil),
		S:  make([]float64, n),
	}

	row := 0
	idQ := nbP
	for i, path := range g.Paths {
		se := g.StartEnds[i]
		idP0 := se[0]
		for _, edge := range path {
			idP1 := edge.End
			if idP0 != edge.Start {
				idP1 = edge.Start
			}
			elem := edge.Elem
			switch elem.Kind {
			case circuit.KindResistor:
				s.buildResistor(elem, row, idP0, idP1, idQ)
			case circuit.KindCapacitor:
				s.buildCapacitor(elem, row, idP0, idP1, idQ)
			case circuit.KindInductor:
				s.buildInductor(elem, row, idP0, idP1, idQ)
			case circuit.KindDiode:
				s.buildDiode(row, idP0, idP1, idQ, edge.Start)
			case circuit.KindGround, circuit.KindPSource, circuit.KindQSource:
				s.buildGround(elem, row, idP0, idQ, edge.Start)
				s.buildSource(elem, row)
				idP1 = edge.Start
			default:
				return nil, errUnknownKind(elem.Kind)
			}
			idP0 = idP1
			row++
		}
		idQ++
	}

	row = s.buildBranchingRows(g, row)
	_ = row

	return s, nil
}

func (s *System) buildResistor(e *circuit.Element, row, idP0, idP1, idQ int) {
	if e.Active {
		s.UpdateM0 = append(s.UpdateM0, rowColFn{row, idQ, e.ValueFn})
	} else {
		s.M0.Set(row, idQ, e.Value)
	}
	s.M0.Set(row, idP1, 1)
	s.M0.Set(row, idP0, -1)
}

func (s *System) buildCapacitor(e *circuit.Element, row, idP0, idP1, idQ int) {
	if e.Active {
		dC := calc.DerivFiniteDiff(e.ValueFn)
		s.UpdateM0 = append(s.UpdateM0,
			rowColFn{row, idP0, dC},
			rowColFn{row, idP1, negate(dC)},
		)
		s.UpdateM1 = append(s.UpdateM1,
			rowColFn{row, idP0, e.ValueFn},
			rowColFn{row, idP1, negate(e.ValueFn)},
		)
	} else {
		s.M1.Set(row, idP0, e.Value)
		s.M1.Set(row, idP1, -e.Value)
	}
	s.M0.Set(row, idQ, -1)
}

func (s *System) buildInductor(e *circuit.Element, row, idP0, idP1, idQ int) {
	if e.Active {
		dL := calc.DerivFiniteDiff(e.ValueFn)
		s.UpdateM0 = append(s.UpdateM0, rowColFn{row, idQ, dL})
		s.UpdateM1 = append(s.UpdateM1, rowColFn{row, idQ, e.ValueFn})
	} else {
		s.M1.Set(row, idQ, e.Value)
	}
	s.M0.Set(row, idP1, 1)
	s.M0.Set(row, idP0, -1)
}

func (s *System) buildDiode(row, idP0, idP1, idQ, start int) {
	s.M0.Set(row, idP1, -1)
	s.M0.Set(row, idP0, 1)
	sign := -1
	if idP0 == start {
		sign = 1
	}
	s.Diodes = append(s.Diodes, &DiodeRecord{
		State: DiodeOpen, Row: row, P0: idP0, P1: idP1, Q: idQ, SignQ: sign,
	})
}

func (s *System) buildGround(e *circuit.Element, row, idP0, idQ, start int) {
	switch e.Kind {
	case circuit.KindGround, circuit.KindPSource:
		s.M0.Set(row, start, 1)
	case circuit.KindQSource:
		if idP0 == start {
			s.M0.Set(row, idQ, -1)
		} else {
			s.M0.Set(row, idQ, 1)
		}
	}
}

func (s *System) buildSource(e *circuit.Element, row int) {
	if e.Kind != circuit.KindPSource && e.Kind != circuit.KindQSource {
		return
	}
	if e.Active {
		s.UpdateS = append(s.UpdateS, rowFn{row, e.ValueFn})
	} else {
		s.S[row] = e.Value
	}
}

// buildBranchingRows adds, for every graph node index that appears as a
// path endpoint more than once, a flow-conservation row: net flow into the
// node is zero.
func (s *System) buildBranchingRows(g *graph.Graph, row int) int {
	counts := make(map[int]int)
	var order []int
	for _, se := range g.StartEnds {
		for _, idx := range se {
			if idx == -1 {
				continue
			}
			if _, ok := counts[idx]; !ok {
				order = append(order, idx)
			}
			counts[idx]++
		}
	}
	sort.Ints(order)
	nbP := s.NbP
	for _, idnode := range order {
		if counts[idnode] <= 1 {
			continue
		}
		idQ := nbP
		for _, se := range g.StartEnds {
			if se[0] == idnode {
				s.M0.Set(row, idQ, -1)
			} else if se[1] == idnode {
				s.M0.Set(row, idQ, 1)
			}
			idQ++
		}
		row++
	}
	return row
}

func negate(f calc.TimeFunc) calc.TimeFunc {
	return func(t float64) float64 { return -f(t) }
}

func checkSolvable(g *graph.Graph, nbUnknowns int) error {
	nbEq := 0
	for _, path := range g.Paths {
		nbEq += len(path)
	}
	counts := make(map[int]int)
	for _, se := range g.StartEnds {
		for _, idx := range se {
			if idx != -1 {
				counts[idx]++
			}
		}
	}
	for _, c := range counts {
		if c > 1 {
			nbEq++
		}
	}
	if nbEq > nbUnknowns {
		return errOverconstrained(nbEq, nbUnknowns)
	}
	if nbEq < nbUnknowns {
		return errUnderconstrained(nbEq, nbUnknowns)
	}
	return nil
}
